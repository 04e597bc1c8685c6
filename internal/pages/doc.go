// Package pages implements the simulator's page and widget model.
//
// On real hardware the protocol binder drives a graphical toolkit; the
// simulator drives this package instead. It keeps the same shape the
// firmware exposes: an index-addressed widget table spanning all pages,
// and an operation set of show-page, set-text, set-value, set-visible,
// and set-enabled.
//
// The model is deliberately dumb — no rendering, no events of its own.
// Event injection (button presses, slider drags, touches) belongs to the
// device layer that owns both the model and the packet encoder.
package pages
