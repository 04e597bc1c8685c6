package protocol

// Engine ties one parser, dispatcher, and encoder together for a single
// physical interface. It is the explicitly-owned replacement for what a
// firmware port would keep in module-private globals: construct one Engine
// per interface and feed it bytes.
//
// Everything runs on the caller's goroutine: a byte that completes a frame
// dispatches the command, runs its handler, and transmits the reply before
// Receive returns.
type Engine struct {
	plat       Platform
	parser     *Parser
	dispatcher *Dispatcher
	encoder    *Encoder
}

// NewEngine creates an engine for one interface. version is the firmware
// version triple reported by get-version.
func NewEngine(plat Platform, version [3]byte) *Engine {
	e := &Engine{plat: plat}
	e.encoder = NewEncoder(plat)
	e.dispatcher = NewDispatcher(e.encoder, plat, version)
	e.parser = NewParser(plat, e.dispatcher.Dispatch)
	return e
}

// ReceiveByte feeds one received byte into the protocol parser.
func (e *Engine) ReceiveByte(b byte) {
	e.parser.Feed(b)
}

// Receive feeds a buffer of received bytes into the protocol parser.
func (e *Engine) Receive(data []byte) {
	e.parser.FeedBytes(data)
}

// Dispatcher exposes the handler table so the application layer can
// register command handlers before traffic starts.
func (e *Engine) Dispatcher() *Dispatcher {
	return e.dispatcher
}

// Encoder exposes the outbound frame builder for handlers and for
// device-originated events.
func (e *Engine) Encoder() *Encoder {
	return e.encoder
}

// Stats returns the parser's frame counters.
func (e *Engine) Stats() Stats {
	return e.parser.Stats()
}
