// Package protocol implements the hmilink frame protocol engine.
//
// This package contains the byte-level frame parser, CRC16 integrity
// check, command dispatcher, and outbound packet encoder used on both
// sides of a host↔device display link. The transport is a raw byte
// stream with no outer framing: frames are delimited only by a start
// byte and validated only by their CRC.
//
// # Wire Format
//
// Every message, in both directions, is a single frame:
//
//	START(0xAA) | VERSION | COMMAND | SEQ | LEN | PAYLOAD(LEN bytes) | CRC_HI | CRC_LO
//
// The CRC is CRC16-CCITT (poly 0x1021, seed 0xFFFF, no final XOR)
// computed over VERSION through the last payload byte; the start byte is
// excluded. Numeric payload fields are big-endian; strings are raw bytes
// with their length implied by LEN.
//
// # Command and Event Spaces
//
// Host → device commands: ping (0x01), get-version (0x02), reset (0x03),
// enter-bootloader (0x04), show-page (0x10), set-text (0x20), set-value
// (0x21), set-visible (0x22), set-enabled (0x23).
//
// Device → host events: button-pressed (0x80), slider-changed (0x81),
// page-changed (0x82), touch (0x83), ack (0xF0), nack (0xF1).
//
// Replies echo the request's sequence ID; unsolicited events carry an
// independent counter starting at 0.
//
// # Resynchronization
//
// The parser accumulates one frame at a time. Any byte outside a frame
// that is not the start byte is discarded, so garbage between frames is
// invisible. A declared length above MaxPayload or a CRC mismatch drops
// the frame, bumps a counter, and returns the parser to hunting for a
// start byte; a start byte at any point abandons whatever partial frame
// existed. No partial frame ever times out — a truncated frame simply
// parks until the next start byte.
//
// # Usage
//
//	eng := protocol.NewEngine(plat, [3]byte{1, 0, 0})
//	eng.Dispatcher().Register(protocol.CmdShowPage, func(seq byte, p []byte) {
//	    // ... mutate UI state ...
//	    eng.Encoder().Ack(seq, nil)
//	})
//	for b := range rx {
//	    eng.ReceiveByte(b)
//	}
//
// # Concurrency
//
// One Engine per physical interface, fed from one goroutine. Parsing,
// dispatch, handler execution, and reply transmission all run
// synchronously within the feed call. The feed path performs no heap
// allocation; frame payloads live in a fixed buffer that is reused after
// each delivery.
package protocol
