package host

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/openhmi/hmilink/internal/logging"
	"github.com/openhmi/hmilink/internal/protocol"
	"github.com/openhmi/hmilink/internal/transport"
	"go.uber.org/zap"
)

// ErrNack is returned when the device rejects a command.
var ErrNack = errors.New("device rejected command")

// DefaultReplyTimeout bounds how long a request waits for the device's
// ACK or NACK before failing.
const DefaultReplyTimeout = 1 * time.Second

// reply is an ACK or NACK captured off the read loop. The payload is a
// copy and outlives the parser buffer.
type reply struct {
	nack    bool
	payload []byte
}

// Client drives a device over a transport port: commands out, replies
// and events in. Safe for concurrent use; commands are serialized on
// the wire and correlated to replies by the echoed sequence number.
type Client struct {
	port    transport.Port
	timeout time.Duration

	mu      sync.Mutex
	seq     byte
	pending map[byte]chan reply
	closed  bool

	parser *protocol.Parser
	events chan Event
	done   chan struct{}
}

// NewClient starts a client on the given port. A read loop runs until
// Close or a port error; decoded events are delivered on Events.
func NewClient(port transport.Port, replyTimeout time.Duration) *Client {
	if replyTimeout <= 0 {
		replyTimeout = DefaultReplyTimeout
	}
	c := &Client{
		port:    port,
		timeout: replyTimeout,
		pending: make(map[byte]chan reply),
		events:  make(chan Event, 64),
		done:    make(chan struct{}),
	}
	c.parser = protocol.NewParser(nil, c.onFrame)
	go c.readLoop()
	return c
}

// Events returns the stream of unsolicited device events. The channel
// is closed when the read loop exits. Events arriving while the buffer
// is full are dropped; a monitoring consumer that cannot keep up loses
// notifications, not correctness.
func (c *Client) Events() <-chan Event {
	return c.events
}

// Stats returns the receive-side frame counters.
func (c *Client) Stats() protocol.Stats {
	return c.parser.Stats()
}

// Close shuts down the client and its port.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()
	return c.port.Close()
}

// Ping checks link liveness.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.request(ctx, protocol.CmdPing, nil)
	return err
}

// GetVersion returns the device's major.minor.patch version triple.
func (c *Client) GetVersion(ctx context.Context) ([3]byte, error) {
	payload, err := c.request(ctx, protocol.CmdGetVersion, nil)
	if err != nil {
		return [3]byte{}, err
	}
	if len(payload) < 3 {
		return [3]byte{}, fmt.Errorf("version reply too short: % x", payload)
	}
	return [3]byte{payload[0], payload[1], payload[2]}, nil
}

// Reset asks the device to restart. The ACK arrives before the device
// goes down; the link may drop immediately after.
func (c *Client) Reset(ctx context.Context) error {
	_, err := c.request(ctx, protocol.CmdReset, nil)
	return err
}

// EnterBootloader asks the device to drop into its firmware-update
// mode. Devices without one NACK.
func (c *Client) EnterBootloader(ctx context.Context) error {
	_, err := c.request(ctx, protocol.CmdEnterBootloader, nil)
	return err
}

// ShowPage makes the given page active on the device.
func (c *Client) ShowPage(ctx context.Context, page byte) error {
	_, err := c.request(ctx, protocol.CmdShowPage, []byte{page})
	return err
}

// SetText replaces a text widget's content.
func (c *Client) SetText(ctx context.Context, widget byte, text string) error {
	payload := append([]byte{widget}, text...)
	_, err := c.request(ctx, protocol.CmdSetText, payload)
	return err
}

// SetValue sets a slider or checkbox value.
func (c *Client) SetValue(ctx context.Context, widget byte, value int16) error {
	payload := []byte{widget, byte(uint16(value) >> 8), byte(value)}
	_, err := c.request(ctx, protocol.CmdSetValue, payload)
	return err
}

// SetVisible shows or hides a widget.
func (c *Client) SetVisible(ctx context.Context, widget byte, visible bool) error {
	_, err := c.request(ctx, protocol.CmdSetVisible, []byte{widget, boolByte(visible)})
	return err
}

// SetEnabled enables or disables a widget.
func (c *Client) SetEnabled(ctx context.Context, widget byte, enabled bool) error {
	_, err := c.request(ctx, protocol.CmdSetEnabled, []byte{widget, boolByte(enabled)})
	return err
}

func boolByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}

// request sends one command frame and waits for the reply carrying the
// same sequence number.
func (c *Client) request(ctx context.Context, cmd byte, payload []byte) ([]byte, error) {
	ch := make(chan reply, 1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, errors.New("client is closed")
	}
	seq := c.seq
	c.seq++ // wraps at 256 by byte arithmetic
	c.pending[seq] = ch
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, seq)
		c.mu.Unlock()
	}()

	frame := protocol.EncodeFrame(cmd, seq, payload)
	logging.LogFrame("host", "tx", frame)
	if _, err := c.port.Write(frame); err != nil {
		return nil, fmt.Errorf("failed to send %s: %w", protocol.CommandName(cmd), err)
	}

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case r := <-ch:
		if r.nack {
			return nil, fmt.Errorf("%s: %w", protocol.CommandName(cmd), ErrNack)
		}
		return r.payload, nil
	case <-timer.C:
		return nil, fmt.Errorf("%s: no reply within %v", protocol.CommandName(cmd), c.timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.done:
		return nil, errors.New("connection lost")
	}
}

// onFrame routes validated frames: ACK/NACK to the waiting request,
// everything else to the event stream.
func (c *Client) onFrame(f *protocol.Frame) {
	switch f.Command {
	case protocol.EvtAck, protocol.EvtNack:
		c.mu.Lock()
		ch := c.pending[f.SeqID]
		c.mu.Unlock()
		if ch == nil {
			// Late reply after a timeout, or a seq we never used.
			logging.Debug("unmatched reply discarded",
				zap.String("command", protocol.CommandName(f.Command)),
				zap.Uint8("seq", f.SeqID),
			)
			return
		}
		ch <- reply{
			nack:    f.Command == protocol.EvtNack,
			payload: append([]byte(nil), f.Payload...),
		}
	default:
		select {
		case c.events <- decodeEvent(f):
		default:
			logging.Warn("event channel full, dropping event",
				zap.String("command", protocol.CommandName(f.Command)),
			)
		}
	}
}

// readLoop feeds received bytes through the parser until the port
// fails or is closed.
func (c *Client) readLoop() {
	defer close(c.done)
	defer close(c.events)

	buf := make([]byte, 512)
	for {
		n, err := c.port.Read(buf)
		if n > 0 {
			logging.LogFrame("host", "rx", buf[:n])
			c.parser.FeedBytes(buf[:n])
		}
		if err != nil {
			c.mu.Lock()
			closed := c.closed
			c.mu.Unlock()
			if !closed {
				logging.Debug("read loop exiting", zap.Error(err))
			}
			return
		}
	}
}
