package transport

import "io"

// loopbackPort is one end of an in-memory pipe pair.
type loopbackPort struct {
	r *io.PipeReader
	w *io.PipeWriter
}

// Loopback returns two connected ports: bytes written to one are read
// from the other. Used to wire a host client directly to an in-process
// simulator without a physical link.
func Loopback() (Port, Port) {
	ar, aw := io.Pipe()
	br, bw := io.Pipe()
	return &loopbackPort{r: ar, w: bw}, &loopbackPort{r: br, w: aw}
}

func (p *loopbackPort) Read(b []byte) (int, error)  { return p.r.Read(b) }
func (p *loopbackPort) Write(b []byte) (int, error) { return p.w.Write(b) }
func (p *loopbackPort) Flush() error                { return nil }

func (p *loopbackPort) Close() error {
	p.r.Close()
	return p.w.Close()
}
