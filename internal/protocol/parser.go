package protocol

import (
	"fmt"
	"sync/atomic"
)

// Parser states. The only terminal transition is back to waitStart; there
// is no error state because hostile input is the expected steady state.
type parseState int

const (
	stateWaitStart parseState = iota
	stateVersion
	stateCommand
	stateSeqID
	stateLength
	statePayload
	stateCRCHigh
	stateCRCLow
)

// Stats is a snapshot of the parser's frame counters.
type Stats struct {
	FramesOK     uint32 // frames validated and delivered
	FramesCRCErr uint32 // frames dropped on CRC mismatch
	FramesLenErr uint32 // frames dropped on declared-length overflow
}

// String returns a one-line summary of the counters.
func (s Stats) String() string {
	return fmt.Sprintf("ok=%d crc_err=%d len_err=%d",
		s.FramesOK, s.FramesCRCErr, s.FramesLenErr)
}

// FrameFunc receives each validated frame, synchronously from within Feed.
// The frame's payload aliases the parser's buffer and is reused for the
// next frame as soon as the callback returns.
type FrameFunc func(*Frame)

// Parser is a byte-driven frame state machine. One instance per physical
// interface; it must not be fed concurrently from multiple goroutines.
// Stats may be called from any goroutine while another feeds: the
// counters are maintained atomically.
//
// The feed path never allocates: the in-progress frame lives in a
// fixed-size buffer, so Feed is safe to call from an interrupt-style
// receive path as long as delivery (the frame callback) is cheap or
// defers its own work.
type Parser struct {
	onFrame FrameFunc
	plat    Platform

	state      parseState
	frame      Frame
	payload    [MaxPayload]byte
	payloadIdx int
	runningCRC uint16
	crcHigh    byte

	// Counters are read by Stats from other goroutines while Feed
	// mutates them; atomic ops keep the feed path allocation-free.
	framesOK     atomic.Uint32
	framesCRCErr atomic.Uint32
	framesLenErr atomic.Uint32
}

// NewParser creates a parser delivering validated frames to onFrame. The
// platform is used only for diagnostics and may be nil.
func NewParser(plat Platform, onFrame FrameFunc) *Parser {
	p := &Parser{onFrame: onFrame, plat: plat}
	p.reset()
	return p
}

// reset returns the state machine to hunting for a start byte. Counters
// are deliberately not touched.
func (p *Parser) reset() {
	p.state = stateWaitStart
	p.payloadIdx = 0
	p.runningCRC = crc16Seed
	p.crcHigh = 0
}

// Stats returns a snapshot of the frame counters. Safe to call
// concurrently with Feed.
func (p *Parser) Stats() Stats {
	return Stats{
		FramesOK:     p.framesOK.Load(),
		FramesCRCErr: p.framesCRCErr.Load(),
		FramesLenErr: p.framesLenErr.Load(),
	}
}

// FeedBytes feeds a buffer of received bytes through the state machine.
func (p *Parser) FeedBytes(data []byte) {
	for _, b := range data {
		p.Feed(b)
	}
}

// Feed advances the state machine by one received byte. When the byte
// completes a CRC-valid frame, the frame callback runs before Feed
// returns. Corrupted or truncated input resynchronizes at the next start
// byte; the worst-case cost of a lost byte is one frame.
func (p *Parser) Feed(b byte) {
	switch p.state {

	case stateWaitStart:
		// Anything before a start byte is garbage from a previous
		// partial frame or line noise. Discard silently.
		if b == StartByte {
			p.reset() // fresh CRC accumulation
			p.state = stateVersion
		}

	case stateVersion:
		// Stored, not validated. See the protocol doc: a version
		// mismatch is accepted.
		p.frame.Version = b
		p.runningCRC = CRC16Update(p.runningCRC, b)
		p.state = stateCommand

	case stateCommand:
		p.frame.Command = b
		p.runningCRC = CRC16Update(p.runningCRC, b)
		p.state = stateSeqID

	case stateSeqID:
		p.frame.SeqID = b
		p.runningCRC = CRC16Update(p.runningCRC, b)
		p.state = stateLength

	case stateLength:
		if int(b) > MaxPayload {
			// Declared payload larger than our buffer. No reply is
			// possible (the record cannot be trusted); drop and hunt
			// for the next start byte.
			p.framesLenErr.Add(1)
			p.log("frame length overflow, resyncing")
			p.reset()
			break
		}
		p.frame.Payload = p.payload[:b]
		p.runningCRC = CRC16Update(p.runningCRC, b)
		p.payloadIdx = 0
		if b == 0 {
			p.state = stateCRCHigh
		} else {
			p.state = statePayload
		}

	case statePayload:
		p.payload[p.payloadIdx] = b
		p.payloadIdx++
		p.runningCRC = CRC16Update(p.runningCRC, b)
		if p.payloadIdx >= len(p.frame.Payload) {
			p.state = stateCRCHigh
		}

	case stateCRCHigh:
		p.crcHigh = b
		p.state = stateCRCLow

	case stateCRCLow:
		received := uint16(p.crcHigh)<<8 | uint16(b)
		if received == p.runningCRC {
			p.framesOK.Add(1)
			if p.onFrame != nil {
				p.onFrame(&p.frame)
			}
		} else {
			p.framesCRCErr.Add(1)
			p.log("CRC mismatch, frame dropped")
		}
		// Same post-state for both outcomes.
		p.reset()

	default:
		p.reset()
	}
}

// log emits a diagnostic. Messages on the feed path are static strings so
// error reporting itself never allocates.
func (p *Parser) log(msg string) {
	if p.plat != nil {
		p.plat.Log(msg)
	}
}
