package transport

import (
	"fmt"
	"io"

	"github.com/openhmi/hmilink/internal/config"
)

// Port is a byte-stream link to a device. Implementations:
//   - serial (github.com/tarm/serial) for a wired panel
//   - websocket (github.com/gorilla/websocket) for a networked or
//     simulated panel
//   - loopback, an in-memory pair for tests
type Port interface {
	io.ReadWriteCloser

	// Flush pushes any buffered outbound bytes to the wire.
	Flush() error
}

// Open opens the port described by the host configuration.
func Open(cfg *config.HostConfig) (Port, error) {
	switch cfg.Transport {
	case "serial":
		return OpenSerial(cfg.Device, cfg.Baud)
	case "ws":
		return DialWebSocket(cfg.Address)
	default:
		return nil, fmt.Errorf("unknown transport %q (want serial or ws)", cfg.Transport)
	}
}
