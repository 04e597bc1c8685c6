package transport

import (
	"fmt"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/openhmi/hmilink/internal/logging"
	"go.uber.org/zap"
)

// wsPort carries the frame byte stream over a WebSocket connection.
// Each outbound Write becomes one binary message; inbound messages are
// buffered so Read can drain them in arbitrary chunk sizes.
//
// gorilla allows only one concurrent writer per connection, and the
// host client sends from whichever goroutine issued the request, so
// Write and Close serialize on a mutex. Reads stay lock-free: the
// client's single read loop is the only reader.
type wsPort struct {
	wmu  sync.Mutex
	conn *websocket.Conn
	rbuf []byte
}

// DialWebSocket connects to a device (or simulator) listening at addr.
// addr may be "host:port" or a full ws:// URL.
func DialWebSocket(addr string) (Port, error) {
	u := addr
	if _, err := url.Parse(addr); err != nil || !hasScheme(addr) {
		u = "ws://" + addr + "/stream"
	}

	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", u, err)
	}

	logging.Debug("WebSocket transport connected",
		zap.String("url", u),
		zap.String("remote_addr", conn.RemoteAddr().String()),
	)
	return &wsPort{conn: conn}, nil
}

func hasScheme(addr string) bool {
	u, err := url.Parse(addr)
	return err == nil && (u.Scheme == "ws" || u.Scheme == "wss")
}

func (p *wsPort) Read(b []byte) (int, error) {
	for len(p.rbuf) == 0 {
		msgType, data, err := p.conn.ReadMessage()
		if err != nil {
			return 0, err
		}
		if msgType != websocket.BinaryMessage {
			// Text and control traffic is not part of the byte stream.
			continue
		}
		p.rbuf = data
	}
	n := copy(b, p.rbuf)
	p.rbuf = p.rbuf[n:]
	return n, nil
}

func (p *wsPort) Write(b []byte) (int, error) {
	p.wmu.Lock()
	defer p.wmu.Unlock()
	if err := p.conn.WriteMessage(websocket.BinaryMessage, b); err != nil {
		return 0, err
	}
	return len(b), nil
}

func (p *wsPort) Close() error {
	p.wmu.Lock()
	// Best-effort close handshake before tearing the TCP connection.
	_ = p.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	p.wmu.Unlock()
	return p.conn.Close()
}

func (p *wsPort) Flush() error { return nil }
