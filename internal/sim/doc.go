// Package sim implements a software panel for development and testing
// without hardware.
//
// A Device is a complete panel behind a byte stream: it parses command
// frames, applies them to a page model, replies with ACK/NACK, and can
// inject user interactions (button presses, slider drags, touches) as
// unsolicited events. Semantics match firmware: same wire format, same
// sequence handling, same rejection rules.
//
// Server exposes a Device per WebSocket connection at /stream and can
// advertise itself over mDNS, so host tooling talks to the simulator
// exactly as it would to a networked panel.
package sim
