package protocol

import "encoding/binary"

// Encoder builds outbound frames and hands them to the platform transmit
// primitive. Replies (ACK/NACK) echo the sequence ID of the request that
// triggered them; unsolicited device events draw from the encoder's own
// counter, which starts at 0 and wraps modulo 256.
//
// An Encoder belongs to one interface and, like the Parser, is driven from
// a single goroutine.
type Encoder struct {
	plat Platform

	// eventSeq numbers device-originated events only. Request echoes
	// never touch it.
	eventSeq byte
}

// NewEncoder creates an encoder transmitting through plat.
func NewEncoder(plat Platform) *Encoder {
	return &Encoder{plat: plat}
}

// Send builds and transmits a frame with an explicit command/event ID and
// sequence number. Payload is clamped to MaxPayload.
func (e *Encoder) Send(cmd, seq byte, payload []byte) error {
	return e.plat.WriteBytes(EncodeFrame(cmd, seq, payload))
}

// Ack sends a positive acknowledgement echoing the request seq. The
// payload is optional (nil for a bare ACK).
func (e *Encoder) Ack(seq byte, payload []byte) error {
	return e.Send(EvtAck, seq, payload)
}

// Nack sends a negative acknowledgement echoing the request seq.
func (e *Encoder) Nack(seq byte) error {
	return e.Send(EvtNack, seq, nil)
}

// nextEventSeq returns the current device-event sequence number and
// advances the counter.
func (e *Encoder) nextEventSeq() byte {
	seq := e.eventSeq
	e.eventSeq++
	return seq
}

// ButtonPressed emits an unsolicited button-pressed event.
// Payload: [widget index].
func (e *Encoder) ButtonPressed(widget byte) error {
	return e.Send(EvtButtonPressed, e.nextEventSeq(), []byte{widget})
}

// SliderChanged emits an unsolicited slider-changed event.
// Payload: [widget index][int16 value, big-endian].
func (e *Encoder) SliderChanged(widget byte, value int16) error {
	var buf [3]byte
	buf[0] = widget
	binary.BigEndian.PutUint16(buf[1:], uint16(value))
	return e.Send(EvtSliderChanged, e.nextEventSeq(), buf[:])
}

// PageChanged emits an unsolicited page-changed event.
// Payload: [page id].
func (e *Encoder) PageChanged(page byte) error {
	return e.Send(EvtPageChanged, e.nextEventSeq(), []byte{page})
}

// Touch emits an unsolicited touch event.
// Payload: [int16 x][int16 y], both big-endian.
func (e *Encoder) Touch(x, y int16) error {
	var buf [4]byte
	binary.BigEndian.PutUint16(buf[0:], uint16(x))
	binary.BigEndian.PutUint16(buf[2:], uint16(y))
	return e.Send(EvtTouch, e.nextEventSeq(), buf[:])
}
