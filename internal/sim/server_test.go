package sim

import (
	"context"
	"testing"
	"time"

	"github.com/openhmi/hmilink/internal/config"
	"github.com/openhmi/hmilink/internal/host"
	"github.com/openhmi/hmilink/internal/transport"
	"github.com/openhmi/hmilink/internal/version"
)

func startTestServer(t *testing.T) *Server {
	t.Helper()
	s := NewServer(&ServerConfig{
		Host:  "127.0.0.1",
		Port:  0, // pick a free port
		Model: config.DefaultDeviceModel(),
	})
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		s.Shutdown(ctx)
	})
	return s
}

func TestServerEndToEnd(t *testing.T) {
	s := startTestServer(t)

	port, err := transport.DialWebSocket(s.Addr())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	c := host.NewClient(port, 2*time.Second)
	defer c.Close()

	ctx := context.Background()
	if err := c.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	v, err := c.GetVersion(ctx)
	if err != nil {
		t.Fatalf("get-version: %v", err)
	}
	if v != version.Protocol {
		t.Errorf("version = %v, want %v", v, version.Protocol)
	}

	if err := c.ShowPage(ctx, 1); err != nil {
		t.Fatalf("show-page: %v", err)
	}
	select {
	case ev := <-c.Events():
		if pc, ok := ev.(*host.PageChanged); !ok || pc.Page != 1 {
			t.Errorf("event = %s, want PageChanged{page=1}", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no page-changed event")
	}
}

func TestServerConnectionsAreIndependent(t *testing.T) {
	s := startTestServer(t)

	dial := func() *host.Client {
		port, err := transport.DialWebSocket(s.Addr())
		if err != nil {
			t.Fatalf("dial: %v", err)
		}
		return host.NewClient(port, 2*time.Second)
	}
	a := dial()
	defer a.Close()
	b := dial()
	defer b.Close()

	ctx := context.Background()
	if err := a.SetText(ctx, 0, "only on a"); err != nil {
		t.Fatalf("set-text: %v", err)
	}

	// The other connection's panel keeps its defaults: flipping its
	// page still works and its own commands still ACK.
	if err := b.Ping(ctx); err != nil {
		t.Fatalf("ping on second connection: %v", err)
	}
	if err := b.ShowPage(ctx, 0); err != nil {
		t.Fatalf("show-page on second connection: %v", err)
	}
}
