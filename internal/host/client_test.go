package host

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/openhmi/hmilink/internal/binder"
	"github.com/openhmi/hmilink/internal/config"
	"github.com/openhmi/hmilink/internal/pages"
	"github.com/openhmi/hmilink/internal/protocol"
	"github.com/openhmi/hmilink/internal/transport"
)

// portPlatform adapts a transport port into the engine's output sink.
type portPlatform struct {
	port transport.Port
}

func (p *portPlatform) WriteBytes(data []byte) error {
	_, err := p.port.Write(data)
	return err
}

func (p *portPlatform) Millis() uint32 { return 0 }
func (p *portPlatform) Log(string)     {}

// startDevice runs a full device stack (engine + page model) on one end
// of a loopback link.
func startDevice(t *testing.T, port transport.Port, version [3]byte) {
	t.Helper()
	eng := protocol.NewEngine(&portPlatform{port: port}, version)
	binder.Bind(eng, pages.New(config.DefaultDeviceModel()))

	go func() {
		buf := make([]byte, 256)
		for {
			n, err := port.Read(buf)
			if n > 0 {
				eng.Receive(buf[:n])
			}
			if err != nil {
				return
			}
		}
	}()
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	hostEnd, deviceEnd := transport.Loopback()
	startDevice(t, deviceEnd, [3]byte{1, 2, 3})
	c := NewClient(hostEnd, 2*time.Second)
	t.Cleanup(func() {
		c.Close()
		deviceEnd.Close()
	})
	return c
}

func TestPingRoundTrip(t *testing.T) {
	c := newTestClient(t)
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestGetVersion(t *testing.T) {
	c := newTestClient(t)
	v, err := c.GetVersion(context.Background())
	if err != nil {
		t.Fatalf("get-version: %v", err)
	}
	if v != [3]byte{1, 2, 3} {
		t.Errorf("version = %v, want [1 2 3]", v)
	}
}

func TestShowPageDeliversPageChangedEvent(t *testing.T) {
	c := newTestClient(t)

	if err := c.ShowPage(context.Background(), 1); err != nil {
		t.Fatalf("show-page: %v", err)
	}

	select {
	case ev := <-c.Events():
		pc, ok := ev.(*PageChanged)
		if !ok {
			t.Fatalf("event = %s, want PageChanged", ev)
		}
		if pc.Page != 1 {
			t.Errorf("page = %d, want 1", pc.Page)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no event delivered")
	}
}

func TestRejectedCommandReturnsErrNack(t *testing.T) {
	c := newTestClient(t)

	// Widget 3 is a slider; set-text only applies to labels and buttons.
	err := c.SetText(context.Background(), 3, "nope")
	if !errors.Is(err, ErrNack) {
		t.Fatalf("err = %v, want ErrNack", err)
	}
}

func TestUICommandSequence(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	steps := []struct {
		name string
		op   func() error
	}{
		{"set-text", func() error { return c.SetText(ctx, 0, "hello") }},
		{"set-value", func() error { return c.SetValue(ctx, 3, 75) }},
		{"set-visible", func() error { return c.SetVisible(ctx, 2, false) }},
		{"set-enabled", func() error { return c.SetEnabled(ctx, 2, false) }},
		{"show-page", func() error { return c.ShowPage(ctx, 0) }},
	}
	for _, s := range steps {
		if err := s.op(); err != nil {
			t.Fatalf("%s: %v", s.name, err)
		}
	}
}

func TestRequestTimesOutWithoutDevice(t *testing.T) {
	hostEnd, deviceEnd := transport.Loopback()
	// Drain the device end so writes complete, but never reply.
	go func() {
		buf := make([]byte, 64)
		for {
			if _, err := deviceEnd.Read(buf); err != nil {
				return
			}
		}
	}()

	c := NewClient(hostEnd, 50*time.Millisecond)
	defer func() {
		c.Close()
		deviceEnd.Close()
	}()

	if err := c.Ping(context.Background()); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestCancelledContextAbortsRequest(t *testing.T) {
	hostEnd, deviceEnd := transport.Loopback()
	go func() {
		buf := make([]byte, 64)
		for {
			if _, err := deviceEnd.Read(buf); err != nil {
				return
			}
		}
	}()

	c := NewClient(hostEnd, time.Minute)
	defer func() {
		c.Close()
		deviceEnd.Close()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Ping(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
