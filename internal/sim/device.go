package sim

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/openhmi/hmilink/internal/binder"
	"github.com/openhmi/hmilink/internal/config"
	"github.com/openhmi/hmilink/internal/logging"
	"github.com/openhmi/hmilink/internal/pages"
	"github.com/openhmi/hmilink/internal/protocol"
	"github.com/openhmi/hmilink/internal/version"
)

// Device is a software panel: a full protocol engine and page model
// behind a byte-stream interface. It behaves like firmware — commands
// in, ACK/NACK and events out — but runs in-process.
//
// All entry points (Receive and the Inject* methods) serialize on one
// mutex, standing in for the single-threaded main loop of a real panel.
type Device struct {
	mu    sync.Mutex
	eng   *protocol.Engine
	model *pages.Model
	spec  *config.DeviceModel
	start time.Time
}

// devicePlatform adapts the simulator's output writer and clock.
type devicePlatform struct {
	out io.Writer
	d   *Device
	log func(string)
}

func (p *devicePlatform) WriteBytes(data []byte) error {
	_, err := p.out.Write(data)
	return err
}

func (p *devicePlatform) Millis() uint32 {
	return uint32(time.Since(p.d.start).Milliseconds())
}

func (p *devicePlatform) Log(msg string) { p.log(msg) }

// New creates a simulated panel built from the given model spec,
// writing its outbound frames to out.
func New(spec *config.DeviceModel, out io.Writer) *Device {
	d := &Device{spec: spec, start: time.Now()}
	plat := &devicePlatform{out: out, d: d, log: logging.Sink("sim")}

	d.eng = protocol.NewEngine(plat, version.Protocol)
	d.model = pages.New(spec)
	binder.Bind(d.eng, d)

	// A reset on real hardware reboots into the model's defaults.
	d.eng.Dispatcher().Register(protocol.CmdReset, func(seq byte, _ []byte) {
		_ = d.eng.Encoder().Ack(seq, nil)
		d.model = pages.New(d.spec)
		_ = d.eng.Encoder().PageChanged(0)
	})

	return d
}

// Receive feeds received bytes through the panel's engine. Replies and
// events are written to the output before Receive returns.
func (d *Device) Receive(data []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.eng.Receive(data)
}

// Stats returns the panel's receive-side frame counters.
func (d *Device) Stats() protocol.Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.eng.Stats()
}

// Model returns a snapshot accessor for inspecting panel state in
// tests. The caller must not retain it across Receive calls.
func (d *Device) Model() *pages.Model {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.model
}

// InjectButtonPress simulates a user tapping a button widget and emits
// the corresponding event.
func (d *Device) InjectButtonPress(widget byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	w, ok := d.model.Widget(widget)
	if !ok || w.Kind != config.KindButton {
		return fmt.Errorf("widget %d is not a button", widget)
	}
	if !w.Visible || !w.Enabled {
		return fmt.Errorf("widget %d is not interactive", widget)
	}
	return d.eng.Encoder().ButtonPressed(widget)
}

// InjectSliderChange simulates a user dragging a slider. The value is
// clamped to the widget's range before the event is emitted, matching
// what a real panel would report.
func (d *Device) InjectSliderChange(widget byte, value int16) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	w, ok := d.model.Widget(widget)
	if !ok || w.Kind != config.KindSlider {
		return fmt.Errorf("widget %d is not a slider", widget)
	}
	if !w.Visible || !w.Enabled {
		return fmt.Errorf("widget %d is not interactive", widget)
	}
	d.model.SetValue(widget, value)
	w, _ = d.model.Widget(widget)
	return d.eng.Encoder().SliderChanged(widget, w.Value)
}

// InjectTouch simulates a raw touch at the given coordinates.
func (d *Device) InjectTouch(x, y int16) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.eng.Encoder().Touch(x, y)
}

// The engine dispatches while Receive holds the mutex, so these
// forwarders access the model without locking again.

func (d *Device) ShowPage(page byte) bool { return d.model.ShowPage(page) }

func (d *Device) SetText(w byte, text string) bool { return d.model.SetText(w, text) }

func (d *Device) SetValue(w byte, value int16) bool { return d.model.SetValue(w, value) }

func (d *Device) SetVisible(w byte, visible bool) bool { return d.model.SetVisible(w, visible) }

func (d *Device) SetEnabled(w byte, enabled bool) bool { return d.model.SetEnabled(w, enabled) }
