package transport

import (
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"
)

// serialPort wraps a tarm/serial port.
type serialPort struct {
	port *serial.Port
}

// OpenSerial opens a serial device at the given baud rate. The read
// timeout is short so callers polling in a loop stay responsive to
// shutdown.
func OpenSerial(device string, baud int) (Port, error) {
	p, err := serial.OpenPort(&serial.Config{
		Name:        device,
		Baud:        baud,
		ReadTimeout: 100 * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", device, err)
	}
	return &serialPort{port: p}, nil
}

// Read blocks until at least one byte arrives. tarm/serial reports a
// read timeout as (0, io.EOF) on POSIX; that is an idle line, not end
// of stream, so retry until real data or a real error shows up.
func (p *serialPort) Read(b []byte) (int, error) {
	for {
		n, err := p.port.Read(b)
		if n == 0 && err == io.EOF {
			continue
		}
		return n, err
	}
}
func (p *serialPort) Write(b []byte) (int, error) { return p.port.Write(b) }
func (p *serialPort) Close() error                { return p.port.Close() }

// Flush is a no-op: tarm/serial writes through to the device driver.
func (p *serialPort) Flush() error { return nil }
