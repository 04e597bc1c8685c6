package sim

import (
	"bytes"
	"testing"

	"github.com/openhmi/hmilink/internal/config"
	"github.com/openhmi/hmilink/internal/protocol"
)

// frameLog captures outbound frames and re-parses them for assertions.
type frameLog struct {
	buf bytes.Buffer
}

func (l *frameLog) Write(b []byte) (int, error) {
	return l.buf.Write(b)
}

type loggedFrame struct {
	cmd     byte
	seq     byte
	payload []byte
}

func (l *frameLog) frames(t *testing.T) []loggedFrame {
	t.Helper()
	var frames []loggedFrame
	parser := protocol.NewParser(nil, func(f *protocol.Frame) {
		frames = append(frames, loggedFrame{
			cmd:     f.Command,
			seq:     f.SeqID,
			payload: append([]byte(nil), f.Payload...),
		})
	})
	parser.FeedBytes(l.buf.Bytes())
	return frames
}

func newTestDevice() (*Device, *frameLog) {
	out := &frameLog{}
	return New(config.DefaultDeviceModel(), out), out
}

func TestDeviceAnswersPing(t *testing.T) {
	d, out := newTestDevice()

	d.Receive(protocol.EncodeFrame(protocol.CmdPing, 9, nil))

	frames := out.frames(t)
	if len(frames) != 1 || frames[0].cmd != protocol.EvtAck || frames[0].seq != 9 {
		t.Fatalf("frames = %+v, want single ack seq 9", frames)
	}
}

func TestResetRestoresModelDefaults(t *testing.T) {
	d, out := newTestDevice()

	// Mutate state, then reset.
	d.Receive(protocol.EncodeFrame(protocol.CmdShowPage, 1, []byte{1}))
	d.Receive(protocol.EncodeFrame(protocol.CmdSetText, 2, append([]byte{0}, "changed"...)))
	d.Receive(protocol.EncodeFrame(protocol.CmdReset, 3, nil))

	if d.Model().ActivePage() != 0 {
		t.Errorf("active page after reset = %d, want 0", d.Model().ActivePage())
	}
	w, _ := d.Model().Widget(0)
	if w.Text == "changed" {
		t.Error("widget text survived reset")
	}

	frames := out.frames(t)
	last := frames[len(frames)-1]
	if last.cmd != protocol.EvtPageChanged || !bytes.Equal(last.payload, []byte{0}) {
		t.Errorf("last frame = %+v, want page-changed to 0", last)
	}
}

func TestInjectButtonPress(t *testing.T) {
	d, out := newTestDevice()

	// Widget 2 is the "ok" button on the home page.
	if err := d.InjectButtonPress(2); err != nil {
		t.Fatalf("inject: %v", err)
	}

	frames := out.frames(t)
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
	if frames[0].cmd != protocol.EvtButtonPressed || !bytes.Equal(frames[0].payload, []byte{2}) {
		t.Errorf("frame = %+v, want button-pressed widget 2", frames[0])
	}
}

func TestInjectButtonPressRejectsNonButtons(t *testing.T) {
	d, _ := newTestDevice()

	if err := d.InjectButtonPress(0); err == nil {
		t.Error("pressing a label should fail")
	}
	if err := d.InjectButtonPress(200); err == nil {
		t.Error("pressing an unknown widget should fail")
	}
}

func TestInjectButtonPressRejectsDisabledWidget(t *testing.T) {
	d, out := newTestDevice()

	d.Receive(protocol.EncodeFrame(protocol.CmdSetEnabled, 1, []byte{2, 0}))
	if err := d.InjectButtonPress(2); err == nil {
		t.Error("pressing a disabled button should fail")
	}

	for _, f := range out.frames(t) {
		if f.cmd == protocol.EvtButtonPressed {
			t.Error("button-pressed event emitted for disabled widget")
		}
	}
}

func TestInjectSliderChangeClampsToRange(t *testing.T) {
	d, out := newTestDevice()

	// Widget 3 is the brightness slider, range 0..100.
	if err := d.InjectSliderChange(3, 999); err != nil {
		t.Fatalf("inject: %v", err)
	}

	frames := out.frames(t)
	if len(frames) != 1 || frames[0].cmd != protocol.EvtSliderChanged {
		t.Fatalf("frames = %+v, want slider-changed", frames)
	}
	if !bytes.Equal(frames[0].payload, []byte{3, 0x00, 0x64}) {
		t.Errorf("payload = % x, want 03 00 64 (clamped to 100)", frames[0].payload)
	}
	w, _ := d.Model().Widget(3)
	if w.Value != 100 {
		t.Errorf("model value = %d, want 100", w.Value)
	}
}

func TestInjectTouch(t *testing.T) {
	d, out := newTestDevice()

	if err := d.InjectTouch(-1, 320); err != nil {
		t.Fatalf("inject: %v", err)
	}

	frames := out.frames(t)
	if len(frames) != 1 || frames[0].cmd != protocol.EvtTouch {
		t.Fatalf("frames = %+v, want touch", frames)
	}
	if !bytes.Equal(frames[0].payload, []byte{0xFF, 0xFF, 0x01, 0x40}) {
		t.Errorf("payload = % x", frames[0].payload)
	}
}

func TestEventSequenceIndependentFromReplies(t *testing.T) {
	d, out := newTestDevice()

	d.Receive(protocol.EncodeFrame(protocol.CmdPing, 40, nil))
	d.InjectButtonPress(2)
	d.Receive(protocol.EncodeFrame(protocol.CmdPing, 41, nil))
	d.InjectButtonPress(2)

	var eventSeqs []byte
	for _, f := range out.frames(t) {
		if f.cmd == protocol.EvtButtonPressed {
			eventSeqs = append(eventSeqs, f.seq)
		}
	}
	if len(eventSeqs) != 2 || eventSeqs[0] != 0 || eventSeqs[1] != 1 {
		t.Errorf("event seqs = %v, want [0 1]", eventSeqs)
	}
}
