package protocol

import "fmt"

// Wire format constants
const (
	// StartByte marks the beginning of every frame. It is excluded from
	// the CRC.
	StartByte = 0xAA

	// Version is the protocol version written into every outgoing frame.
	// Incoming frames carry a version byte too, but it is informational:
	// a mismatch is stored, never rejected.
	Version = 0x01

	// MaxPayload is the maximum payload size shared by parser and encoder.
	MaxPayload = 128

	// HeaderSize is START + VERSION + COMMAND + SEQ + LEN.
	HeaderSize = 5

	// CRCSize is the two big-endian CRC bytes at the end of a frame.
	CRCSize = 2

	// MaxFrameSize is the largest frame the encoder will ever emit.
	MaxFrameSize = HeaderSize + MaxPayload + CRCSize
)

// Command IDs (host → device)
const (
	CmdPing            = 0x01
	CmdGetVersion      = 0x02
	CmdReset           = 0x03
	CmdEnterBootloader = 0x04

	CmdShowPage = 0x10

	CmdSetText    = 0x20
	CmdSetValue   = 0x21
	CmdSetVisible = 0x22
	CmdSetEnabled = 0x23
)

// Event IDs (device → host)
const (
	EvtButtonPressed = 0x80
	EvtSliderChanged = 0x81
	EvtPageChanged   = 0x82
	EvtTouch         = 0x83

	EvtAck  = 0xF0
	EvtNack = 0xF1
)

// Frame is a single validated protocol message as handed to the frame
// callback. The Payload slice aliases the parser's internal buffer and is
// only valid for the duration of the callback; callers that need to keep
// the bytes must copy them.
type Frame struct {
	Version byte
	Command byte
	SeqID   byte
	Payload []byte
}

// String returns a debug representation of the frame.
func (f *Frame) String() string {
	return fmt.Sprintf("Frame{ver=0x%02x, cmd=%s, seq=%d, len=%d}",
		f.Version, CommandName(f.Command), f.SeqID, len(f.Payload))
}

// CommandName returns a human-readable name for a command or event ID.
func CommandName(id byte) string {
	switch id {
	case CmdPing:
		return "ping"
	case CmdGetVersion:
		return "get-version"
	case CmdReset:
		return "reset"
	case CmdEnterBootloader:
		return "enter-bootloader"
	case CmdShowPage:
		return "show-page"
	case CmdSetText:
		return "set-text"
	case CmdSetValue:
		return "set-value"
	case CmdSetVisible:
		return "set-visible"
	case CmdSetEnabled:
		return "set-enabled"
	case EvtButtonPressed:
		return "button-pressed"
	case EvtSliderChanged:
		return "slider-changed"
	case EvtPageChanged:
		return "page-changed"
	case EvtTouch:
		return "touch"
	case EvtAck:
		return "ack"
	case EvtNack:
		return "nack"
	default:
		return fmt.Sprintf("unknown(0x%02X)", id)
	}
}

// EncodeFrame builds a complete wire frame: start byte, version, command,
// seq, length, payload, and big-endian CRC16 over version..payload. The
// payload is clamped to MaxPayload so the result never exceeds
// MaxFrameSize.
//
// This is the single serialization point for the whole system: the device
// encoder and the host client both build their frames here.
func EncodeFrame(cmd, seq byte, payload []byte) []byte {
	if len(payload) > MaxPayload {
		payload = payload[:MaxPayload]
	}

	frame := make([]byte, 0, HeaderSize+len(payload)+CRCSize)
	frame = append(frame, StartByte, Version, cmd, seq, byte(len(payload)))
	frame = append(frame, payload...)

	// CRC covers everything after the start byte.
	crc := CRC16(frame[1:])
	frame = append(frame, byte(crc>>8), byte(crc&0xFF))

	return frame
}
