package binder

import (
	"encoding/binary"

	"github.com/openhmi/hmilink/internal/protocol"
)

// PageManager is the UI surface the binder drives. The simulator backs
// it with an in-memory model; a hardware port backs it with a graphical
// toolkit. Every operation reports whether it was applied.
type PageManager interface {
	ShowPage(page byte) bool
	SetText(widget byte, text string) bool
	SetValue(widget byte, value int16) bool
	SetVisible(widget byte, visible bool) bool
	SetEnabled(widget byte, enabled bool) bool
}

// Payload conventions (host → device):
//
//	show-page    [page]
//	set-text     [widget][text bytes…]     (text is raw, not terminated)
//	set-value    [widget][int16 BE]
//	set-visible  [widget][0=hide 1=show]
//	set-enabled  [widget][0=disable 1=enable]

// Bind registers the five UI command handlers on the engine's
// dispatcher, replacing the fail-safe NACK defaults. Each handler
// validates its payload shape, applies the operation to the page
// manager, and replies exactly once; a successful show-page additionally
// emits an unsolicited page-changed event.
func Bind(eng *protocol.Engine, ui PageManager) {
	d := eng.Dispatcher()
	enc := eng.Encoder()

	d.Register(protocol.CmdShowPage, func(seq byte, p []byte) {
		if len(p) < 1 {
			_ = enc.Nack(seq)
			return
		}
		page := p[0]
		if !ui.ShowPage(page) {
			_ = enc.Nack(seq)
			return
		}
		_ = enc.Ack(seq, nil)
		_ = enc.PageChanged(page)
	})

	d.Register(protocol.CmdSetText, func(seq byte, p []byte) {
		if len(p) < 2 {
			_ = enc.Nack(seq)
			return
		}
		if !ui.SetText(p[0], string(p[1:])) {
			_ = enc.Nack(seq)
			return
		}
		_ = enc.Ack(seq, nil)
	})

	d.Register(protocol.CmdSetValue, func(seq byte, p []byte) {
		if len(p) < 3 {
			_ = enc.Nack(seq)
			return
		}
		value := int16(binary.BigEndian.Uint16(p[1:3]))
		if !ui.SetValue(p[0], value) {
			_ = enc.Nack(seq)
			return
		}
		_ = enc.Ack(seq, nil)
	})

	d.Register(protocol.CmdSetVisible, func(seq byte, p []byte) {
		if len(p) < 2 {
			_ = enc.Nack(seq)
			return
		}
		if !ui.SetVisible(p[0], p[1] != 0) {
			_ = enc.Nack(seq)
			return
		}
		_ = enc.Ack(seq, nil)
	})

	d.Register(protocol.CmdSetEnabled, func(seq byte, p []byte) {
		if len(p) < 2 {
			_ = enc.Nack(seq)
			return
		}
		if !ui.SetEnabled(p[0], p[1] != 0) {
			_ = enc.Nack(seq)
			return
		}
		_ = enc.Ack(seq, nil)
	})
}
