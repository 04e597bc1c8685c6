package config

// Limits shared by the simulator's page model and the YAML loader. These
// mirror the device firmware's compile-time bounds.
const (
	MaxPages   = 8
	MaxWidgets = 64
	MaxTextLen = 64
)

// Widget kinds understood by the page model.
const (
	KindLabel    = "label"
	KindButton   = "button"
	KindSlider   = "slider"
	KindCheckbox = "checkbox"
)

// DeviceModel describes a simulated device panel: its pages and the
// widgets on them. Widgets are addressed on the wire by a global index
// assigned in declaration order across all pages.
type DeviceModel struct {
	Name   string     `yaml:"name"`             // Panel name (e.g., "demo-panel")
	Serial string     `yaml:"serial,omitempty"` // Serial advertised over mDNS
	Pages  []PageSpec `yaml:"pages"`
}

// PageSpec describes one page of the panel.
type PageSpec struct {
	Name    string       `yaml:"name"`
	Widgets []WidgetSpec `yaml:"widgets,omitempty"`
}

// WidgetSpec describes one widget. Visible and Enabled default to true
// when omitted.
type WidgetSpec struct {
	Name    string `yaml:"name"`
	Kind    string `yaml:"kind"`              // label, button, slider, checkbox
	Text    string `yaml:"text,omitempty"`    // Initial text (labels, buttons)
	Value   int16  `yaml:"value,omitempty"`   // Initial value (sliders)
	Min     int16  `yaml:"min,omitempty"`     // Slider minimum
	Max     int16  `yaml:"max,omitempty"`     // Slider maximum
	Visible *bool  `yaml:"visible,omitempty"` // nil means true
	Enabled *bool  `yaml:"enabled,omitempty"` // nil means true
}

// IsVisible resolves the visible flag with its default.
func (w *WidgetSpec) IsVisible() bool {
	return w.Visible == nil || *w.Visible
}

// IsEnabled resolves the enabled flag with its default.
func (w *WidgetSpec) IsEnabled() bool {
	return w.Enabled == nil || *w.Enabled
}

// HostConfig holds the host CLI's connection preferences.
type HostConfig struct {
	// Transport selects how to reach the device: "serial" or "ws".
	Transport string `yaml:"transport"`

	// Device is the serial device path (e.g., "/dev/ttyUSB0") when
	// Transport is "serial".
	Device string `yaml:"device,omitempty"`

	// Baud is the serial baud rate.
	Baud int `yaml:"baud,omitempty"`

	// Address is the device address (e.g., "192.168.1.40:9000") when
	// Transport is "ws".
	Address string `yaml:"address,omitempty"`

	// ReplyTimeoutMS is how long a request waits for its ACK/NACK
	// before giving up, in milliseconds.
	ReplyTimeoutMS int `yaml:"reply_timeout_ms"`
}

// Config is the root of the user configuration file.
type Config struct {
	Version int        `yaml:"version"`
	Host    HostConfig `yaml:"host"`
}

// NewConfig returns a Config with default values.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Host: HostConfig{
			Transport:      "serial",
			Device:         "/dev/ttyUSB0",
			Baud:           115200,
			ReplyTimeoutMS: 1000,
		},
	}
}

// DefaultDeviceModel returns the built-in demo panel used by the
// simulator when no model file is given: two pages, a handful of
// widgets of each kind.
func DefaultDeviceModel() *DeviceModel {
	return &DeviceModel{
		Name:   "demo-panel",
		Serial: "SIM000001",
		Pages: []PageSpec{
			{
				Name: "Home",
				Widgets: []WidgetSpec{
					{Name: "title", Kind: KindLabel, Text: "hmilink demo"},
					{Name: "status", Kind: KindLabel, Text: "ready"},
					{Name: "ok", Kind: KindButton, Text: "OK"},
					{Name: "brightness", Kind: KindSlider, Value: 50, Min: 0, Max: 100},
				},
			},
			{
				Name: "Settings",
				Widgets: []WidgetSpec{
					{Name: "volume", Kind: KindSlider, Value: 25, Min: 0, Max: 100},
					{Name: "mute", Kind: KindCheckbox},
					{Name: "back", Kind: KindButton, Text: "Back"},
				},
			},
		},
	}
}
