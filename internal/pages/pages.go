package pages

import (
	"fmt"

	"github.com/openhmi/hmilink/internal/config"
)

// Widget is one entry in the global widget table. Widgets are addressed
// by their table index in protocol payloads; the page a widget sits on
// only matters for rendering.
type Widget struct {
	Name    string
	Kind    string
	Page    byte
	Text    string
	Value   int16
	Min     int16
	Max     int16
	Visible bool
	Enabled bool
}

// Page is a named page holding the indices of its widgets.
type Page struct {
	Name    string
	Widgets []byte
}

// Model is the in-memory page/widget state of a simulated panel. It
// stands in for the graphical toolkit on real hardware: an
// index-addressed operation set over stateful visual objects.
//
// Model is not safe for concurrent use; the owning device serializes
// access.
type Model struct {
	name    string
	pages   []Page
	widgets []Widget
	active  byte
}

// New builds a Model from a device model description. The description
// must already be validated.
func New(spec *config.DeviceModel) *Model {
	m := &Model{name: spec.Name}
	for pi, ps := range spec.Pages {
		page := Page{Name: ps.Name}
		for _, ws := range ps.Widgets {
			page.Widgets = append(page.Widgets, byte(len(m.widgets)))
			m.widgets = append(m.widgets, Widget{
				Name:    ws.Name,
				Kind:    ws.Kind,
				Page:    byte(pi),
				Text:    ws.Text,
				Value:   ws.Value,
				Min:     ws.Min,
				Max:     ws.Max,
				Visible: ws.IsVisible(),
				Enabled: ws.IsEnabled(),
			})
		}
		m.pages = append(m.pages, page)
	}
	return m
}

// ActivePage returns the currently shown page index.
func (m *Model) ActivePage() byte {
	return m.active
}

// PageCount returns the number of pages.
func (m *Model) PageCount() int {
	return len(m.pages)
}

// WidgetCount returns the size of the widget table.
func (m *Model) WidgetCount() int {
	return len(m.widgets)
}

// Widget returns a copy of the widget at the given table index.
func (m *Model) Widget(idx byte) (Widget, bool) {
	if int(idx) >= len(m.widgets) {
		return Widget{}, false
	}
	return m.widgets[idx], true
}

// ShowPage switches the active page. Returns false if the page index is
// out of range.
func (m *Model) ShowPage(page byte) bool {
	if int(page) >= len(m.pages) {
		return false
	}
	m.active = page
	return true
}

// SetText sets the text of a label or button widget. Text longer than
// the firmware bound is truncated, matching the device's fixed buffers.
func (m *Model) SetText(idx byte, text string) bool {
	if int(idx) >= len(m.widgets) {
		return false
	}
	w := &m.widgets[idx]
	if w.Kind != config.KindLabel && w.Kind != config.KindButton {
		return false
	}
	if len(text) > config.MaxTextLen {
		text = text[:config.MaxTextLen]
	}
	w.Text = text
	return true
}

// SetValue sets a slider's value, clamped to its range, or toggles a
// checkbox (zero = unchecked).
func (m *Model) SetValue(idx byte, value int16) bool {
	if int(idx) >= len(m.widgets) {
		return false
	}
	w := &m.widgets[idx]
	switch w.Kind {
	case config.KindSlider:
		if value < w.Min {
			value = w.Min
		}
		if value > w.Max {
			value = w.Max
		}
		w.Value = value
		return true
	case config.KindCheckbox:
		if value != 0 {
			w.Value = 1
		} else {
			w.Value = 0
		}
		return true
	default:
		return false
	}
}

// SetVisible shows or hides a widget.
func (m *Model) SetVisible(idx byte, visible bool) bool {
	if int(idx) >= len(m.widgets) {
		return false
	}
	m.widgets[idx].Visible = visible
	return true
}

// SetEnabled enables or disables a widget.
func (m *Model) SetEnabled(idx byte, enabled bool) bool {
	if int(idx) >= len(m.widgets) {
		return false
	}
	m.widgets[idx].Enabled = enabled
	return true
}

// String returns a one-line summary of the model state.
func (m *Model) String() string {
	return fmt.Sprintf("Model{name=%s, pages=%d, widgets=%d, active=%d}",
		m.name, len(m.pages), len(m.widgets), m.active)
}
