package host

import (
	"encoding/binary"
	"fmt"

	"github.com/openhmi/hmilink/internal/protocol"
)

// Event is a decoded unsolicited notification from the device.
type Event interface {
	// Type returns the event's command identifier.
	Type() byte
	String() string
}

// ButtonPressed reports a button widget activation.
type ButtonPressed struct {
	Widget byte
	Seq    byte
}

func (e *ButtonPressed) Type() byte { return protocol.EvtButtonPressed }

func (e *ButtonPressed) String() string {
	return fmt.Sprintf("ButtonPressed{widget=%d, seq=%d}", e.Widget, e.Seq)
}

// SliderChanged reports a slider widget's new value.
type SliderChanged struct {
	Widget byte
	Value  int16
	Seq    byte
}

func (e *SliderChanged) Type() byte { return protocol.EvtSliderChanged }

func (e *SliderChanged) String() string {
	return fmt.Sprintf("SliderChanged{widget=%d, value=%d, seq=%d}", e.Widget, e.Value, e.Seq)
}

// PageChanged reports that a different page became active.
type PageChanged struct {
	Page byte
	Seq  byte
}

func (e *PageChanged) Type() byte { return protocol.EvtPageChanged }

func (e *PageChanged) String() string {
	return fmt.Sprintf("PageChanged{page=%d, seq=%d}", e.Page, e.Seq)
}

// Touch reports a raw touch coordinate.
type Touch struct {
	X   int16
	Y   int16
	Seq byte
}

func (e *Touch) Type() byte { return protocol.EvtTouch }

func (e *Touch) String() string {
	return fmt.Sprintf("Touch{x=%d, y=%d, seq=%d}", e.X, e.Y, e.Seq)
}

// UnknownEvent carries an event command this client does not decode.
// The payload is a copy and remains valid after delivery.
type UnknownEvent struct {
	Command byte
	Seq     byte
	Payload []byte
}

func (e *UnknownEvent) Type() byte { return e.Command }

func (e *UnknownEvent) String() string {
	return fmt.Sprintf("UnknownEvent{cmd=0x%02x, seq=%d, payload=% x}", e.Command, e.Seq, e.Payload)
}

// decodeEvent turns a validated frame into a typed event. Frames with a
// payload shorter than the event requires decode as UnknownEvent rather
// than being dropped, so a monitoring session still sees them.
func decodeEvent(f *protocol.Frame) Event {
	switch f.Command {
	case protocol.EvtButtonPressed:
		if len(f.Payload) >= 1 {
			return &ButtonPressed{Widget: f.Payload[0], Seq: f.SeqID}
		}
	case protocol.EvtSliderChanged:
		if len(f.Payload) >= 3 {
			return &SliderChanged{
				Widget: f.Payload[0],
				Value:  int16(binary.BigEndian.Uint16(f.Payload[1:3])),
				Seq:    f.SeqID,
			}
		}
	case protocol.EvtPageChanged:
		if len(f.Payload) >= 1 {
			return &PageChanged{Page: f.Payload[0], Seq: f.SeqID}
		}
	case protocol.EvtTouch:
		if len(f.Payload) >= 4 {
			return &Touch{
				X:   int16(binary.BigEndian.Uint16(f.Payload[0:2])),
				Y:   int16(binary.BigEndian.Uint16(f.Payload[2:4])),
				Seq: f.SeqID,
			}
		}
	}
	return &UnknownEvent{
		Command: f.Command,
		Seq:     f.SeqID,
		Payload: append([]byte(nil), f.Payload...),
	}
}
