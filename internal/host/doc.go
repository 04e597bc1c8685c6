// Package host implements the PC side of the link: a client that sends
// commands to a device panel and consumes its replies and events.
//
// # Request/Reply
//
// Each command carries a sequence number from the client's own counter;
// the device echoes it in the ACK or NACK, which is how a reply finds
// its waiting caller. Requests from multiple goroutines interleave
// safely because correlation is by sequence, not by ordering.
//
// # Events
//
// Unsolicited frames (button presses, slider changes, page changes,
// touches) are decoded into typed Event values and delivered on a
// buffered channel. Consumers that fall behind lose events rather than
// stalling the read loop.
package host
