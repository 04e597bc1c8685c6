package sim

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/openhmi/hmilink/internal/config"
	"github.com/openhmi/hmilink/internal/discovery"
	"github.com/openhmi/hmilink/internal/logging"
	"github.com/openhmi/hmilink/internal/version"
	"go.uber.org/zap"
)

// ServerConfig holds the simulator server configuration.
type ServerConfig struct {
	Host      string
	Port      int
	Model     *config.DeviceModel
	Advertise bool // announce over mDNS like real hardware
}

// Server exposes a simulated panel's byte stream at ws://host:port/stream.
// Each connection gets its own Device, so two hosts connecting see two
// independent panels.
type Server struct {
	cfg        *ServerConfig
	listener   net.Listener
	httpServer *http.Server
	advertiser *discovery.Advertiser
	wg         sync.WaitGroup
}

// NewServer creates a simulator server. The model must already be
// validated.
func NewServer(cfg *ServerConfig) *Server {
	return &Server{cfg: cfg}
}

// Addr returns the bound address, valid after Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Start binds the listener and begins serving. It returns once the
// server is accepting; use Wait or Shutdown to manage its lifetime.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener

	mux := http.NewServeMux()
	mux.HandleFunc("/stream", s.handleStream)

	s.httpServer = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logging.Info("Simulator listening",
		zap.String("addr", listener.Addr().String()),
		zap.String("model", s.cfg.Model.Name),
		zap.Int("pages", len(s.cfg.Model.Pages)),
	)

	if s.cfg.Advertise {
		port := listener.Addr().(*net.TCPAddr).Port
		adv, err := discovery.Advertise("hmilink-sim", s.cfg.Model.Serial, version.ProtocolString(), port)
		if err != nil {
			// Discovery is a convenience; the stream still works.
			logging.Warn("mDNS advertisement failed", zap.Error(err))
		} else {
			s.advertiser = adv
			logging.Info("Advertising over mDNS",
				zap.String("service", discovery.ServiceType),
				zap.String("serial", s.cfg.Model.Serial),
			)
		}
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logging.Error("Simulator server error", zap.Error(err))
		}
	}()

	return nil
}

// Shutdown stops advertising and closes the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.advertiser != nil {
		s.advertiser.Shutdown()
	}
	err := s.httpServer.Shutdown(ctx)
	s.wg.Wait()
	return err
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The simulator is a development tool on a trusted network.
	CheckOrigin: func(*http.Request) bool { return true },
}

// wsWriter serializes outbound binary messages onto one connection.
// The engine writes replies from the read goroutine and events can be
// injected from elsewhere, so writes need the lock.
type wsWriter struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *wsWriter) Write(b []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.conn.WriteMessage(websocket.BinaryMessage, b); err != nil {
		return 0, err
	}
	return len(b), nil
}

// handleStream upgrades the connection and runs a panel on it until
// the peer disconnects.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}
	remoteAddr := conn.RemoteAddr().String()
	logging.LogConnection(remoteAddr, "connected")

	defer func() {
		conn.Close()
		logging.LogConnection(remoteAddr, "disconnected")
	}()

	device := New(s.cfg.Model, &wsWriter{conn: conn})

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if err != io.EOF && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Debug("Connection read error",
					zap.String("remote_addr", remoteAddr),
					zap.Error(err),
				)
			}
			return
		}
		if msgType != websocket.BinaryMessage {
			continue
		}
		logging.LogFrame("sim", "rx", data)
		device.Receive(data)
	}
}
