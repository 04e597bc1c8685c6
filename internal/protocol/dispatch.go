package protocol

// HandlerFunc processes one validated frame's command. It receives the
// echoed sequence ID and the payload (valid only for the duration of the
// call) and must emit exactly one reply — ACK or NACK — through the
// encoder it was constructed with. The host blocks logically on one reply
// per request, so a handler that stays silent is a protocol bug, not a
// style choice.
type HandlerFunc func(seq byte, payload []byte)

// Dispatcher routes validated frames to registered command handlers.
//
// The table is pre-populated with fail-safe defaults: ping and get-version
// ACK, reset ACKs (the owning layer performs the actual restart out of
// band), and everything else NACKs until an application registers its own
// handler. A command with no entry at all — outside the known command
// space — also gets an automatic NACK, the only error the host can
// actually observe as a reply.
type Dispatcher struct {
	enc      *Encoder
	plat     Platform
	handlers map[byte]HandlerFunc
}

// NewDispatcher creates a dispatcher replying through enc, with the
// default handler table installed. version is the firmware version triple
// returned by get-version.
func NewDispatcher(enc *Encoder, plat Platform, version [3]byte) *Dispatcher {
	d := &Dispatcher{
		enc:      enc,
		plat:     plat,
		handlers: make(map[byte]HandlerFunc),
	}

	d.Register(CmdPing, func(seq byte, _ []byte) {
		_ = enc.Ack(seq, nil)
	})
	d.Register(CmdGetVersion, func(seq byte, _ []byte) {
		v := version
		_ = enc.Ack(seq, v[:])
	})
	d.Register(CmdReset, func(seq byte, _ []byte) {
		// ACK first; the collaborator that registered around us is
		// expected to restart afterwards. The engine cannot confirm
		// that it did.
		_ = enc.Ack(seq, nil)
	})
	d.Register(CmdEnterBootloader, d.nackHandler)

	// UI commands fail safe until the binder overrides them, so an
	// application that forgets to wire a handler NACKs instead of
	// silently succeeding.
	d.Register(CmdShowPage, d.nackHandler)
	d.Register(CmdSetText, d.nackHandler)
	d.Register(CmdSetValue, d.nackHandler)
	d.Register(CmdSetVisible, d.nackHandler)
	d.Register(CmdSetEnabled, d.nackHandler)

	return d
}

func (d *Dispatcher) nackHandler(seq byte, _ []byte) {
	_ = d.enc.Nack(seq)
}

// Register installs (or replaces) the handler for a command ID. Call
// before the first Dispatch; the dispatcher is not locked.
func (d *Dispatcher) Register(cmd byte, h HandlerFunc) {
	d.handlers[cmd] = h
}

// Dispatch routes a validated frame to its handler. Unknown commands
// receive an automatic NACK carrying the frame's sequence ID.
func (d *Dispatcher) Dispatch(f *Frame) {
	h, ok := d.handlers[f.Command]
	if !ok {
		if d.plat != nil {
			d.plat.Log("unknown command, sending NACK")
		}
		_ = d.enc.Nack(f.SeqID)
		return
	}
	h(f.SeqID, f.Payload)
}
