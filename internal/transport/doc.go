// Package transport provides byte-stream links to a device panel.
//
// The frame protocol is transport-agnostic: anything that moves bytes
// in order works. This package offers three implementations behind a
// single Port interface:
//
//   - Serial: a wired panel on a UART or USB-CDC device node.
//   - WebSocket: a networked panel or the simulator's /stream endpoint.
//     Each binary message carries a chunk of the byte stream; framing
//     is still done by the protocol parser, not by message boundaries.
//   - Loopback: an in-memory pipe pair for tests and offline use.
//
// Open selects an implementation from the host configuration.
package transport
