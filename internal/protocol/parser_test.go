package protocol

import (
	"bytes"
	"testing"
)

// testPlatform captures transmitted frames and log lines for assertions.
type testPlatform struct {
	writes [][]byte
	logs   []string
	ms     uint32
}

func (p *testPlatform) WriteBytes(data []byte) error {
	p.writes = append(p.writes, append([]byte(nil), data...))
	return nil
}

func (p *testPlatform) Millis() uint32 { return p.ms }

func (p *testPlatform) Log(msg string) { p.logs = append(p.logs, msg) }

// collect wires a parser to a slice of copied frames.
func collect(frames *[]Frame) FrameFunc {
	return func(f *Frame) {
		*frames = append(*frames, Frame{
			Version: f.Version,
			Command: f.Command,
			SeqID:   f.SeqID,
			Payload: append([]byte(nil), f.Payload...),
		})
	}
}

// Precomputed wire frames (CRC16-CCITT over version..payload).
var (
	pingFrame     = []byte{0xAA, 0x01, 0x01, 0x01, 0x00, 0xF6, 0x75}       // ping, seq 1, empty payload
	showPageFrame = []byte{0xAA, 0x01, 0x10, 0x02, 0x01, 0x01, 0xED, 0x8A} // show-page 1, seq 2
)

func TestParserValidFrame(t *testing.T) {
	tests := []struct {
		name  string
		wire  []byte
		check func(t *testing.T, f Frame)
	}{
		{
			name: "empty payload frame",
			wire: pingFrame,
			check: func(t *testing.T, f Frame) {
				if f.Command != CmdPing {
					t.Errorf("command = 0x%02x, want 0x%02x", f.Command, CmdPing)
				}
				if f.SeqID != 1 {
					t.Errorf("seq = %d, want 1", f.SeqID)
				}
				if len(f.Payload) != 0 {
					t.Errorf("payload len = %d, want 0", len(f.Payload))
				}
			},
		},
		{
			name: "one byte payload frame",
			wire: showPageFrame,
			check: func(t *testing.T, f Frame) {
				if f.Command != CmdShowPage {
					t.Errorf("command = 0x%02x, want 0x%02x", f.Command, CmdShowPage)
				}
				if f.SeqID != 2 {
					t.Errorf("seq = %d, want 2", f.SeqID)
				}
				if !bytes.Equal(f.Payload, []byte{0x01}) {
					t.Errorf("payload = % x, want 01", f.Payload)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var frames []Frame
			p := NewParser(&testPlatform{}, collect(&frames))

			p.FeedBytes(tt.wire)

			if len(frames) != 1 {
				t.Fatalf("delivered %d frames, want 1", len(frames))
			}
			tt.check(t, frames[0])

			stats := p.Stats()
			if stats.FramesOK != 1 || stats.FramesCRCErr != 0 || stats.FramesLenErr != 0 {
				t.Errorf("stats = %s, want ok=1 and no errors", stats)
			}
		})
	}
}

func TestParserResyncOnGarbage(t *testing.T) {
	var frames []Frame
	p := NewParser(&testPlatform{}, collect(&frames))

	// Arbitrary garbage (no 0xAA) before a valid frame must not change
	// the decoded result.
	garbage := []byte{0x00, 0x13, 0x37, 0xFF, 0x7E, 0x55}
	p.FeedBytes(garbage)
	p.FeedBytes(pingFrame)

	if len(frames) != 1 {
		t.Fatalf("delivered %d frames, want 1", len(frames))
	}
	if frames[0].Command != CmdPing || frames[0].SeqID != 1 {
		t.Errorf("decoded %s, want ping seq 1", frames[0].String())
	}
}

// A truncated frame costs at most one frame's worth of bytes: the stale
// payload swallows part of the next frame, the CRC check fails, and the
// frame after that decodes cleanly.
func TestParserRecoversFromTruncatedFrame(t *testing.T) {
	var frames []Frame
	p := NewParser(&testPlatform{}, collect(&frames))

	// Header declaring 5 payload bytes, then only one of them.
	p.FeedBytes([]byte{0xAA, 0x01, 0x20, 0x09, 0x05, 0x41})
	// This frame gets partially swallowed as the stale frame's payload.
	p.FeedBytes(pingFrame)
	// This one decodes.
	p.FeedBytes(pingFrame)

	if len(frames) != 1 {
		t.Fatalf("delivered %d frames, want 1", len(frames))
	}
	if frames[0].Command != CmdPing || frames[0].SeqID != 1 {
		t.Errorf("decoded %s, want ping seq 1", frames[0].String())
	}
	if got := p.Stats().FramesCRCErr; got != 1 {
		t.Errorf("crc errors = %d, want 1 (the swallowed frame)", got)
	}
}

func TestParserLengthOverflow(t *testing.T) {
	plat := &testPlatform{}
	var frames []Frame
	p := NewParser(plat, collect(&frames))

	// Declared length 255 with MaxPayload 128: counted, logged,
	// resynchronized, and a valid frame right after still decodes.
	p.FeedBytes([]byte{0xAA, 0x01, 0x20, 0x07, 0xFF})
	p.FeedBytes(pingFrame)

	stats := p.Stats()
	if stats.FramesLenErr != 1 {
		t.Errorf("len errors = %d, want 1", stats.FramesLenErr)
	}
	if stats.FramesOK != 1 {
		t.Errorf("frames ok = %d, want 1", stats.FramesOK)
	}
	if len(frames) != 1 || frames[0].Command != CmdPing {
		t.Fatalf("subsequent valid frame not decoded, got %d frames", len(frames))
	}
	if len(plat.logs) == 0 {
		t.Error("length overflow emitted no diagnostic")
	}
}

func TestParserMaxPayloadBoundary(t *testing.T) {
	var frames []Frame
	p := NewParser(&testPlatform{}, collect(&frames))

	// Exactly MaxPayload is legal.
	payload := make([]byte, MaxPayload)
	for i := range payload {
		payload[i] = byte(i)
	}
	p.FeedBytes(EncodeFrame(CmdSetText, 9, payload))

	if len(frames) != 1 {
		t.Fatalf("delivered %d frames, want 1", len(frames))
	}
	if !bytes.Equal(frames[0].Payload, payload) {
		t.Error("max-size payload not delivered intact")
	}
	if got := p.Stats().FramesLenErr; got != 0 {
		t.Errorf("len errors = %d, want 0", got)
	}
}

// A single bit flip anywhere in the frame after the start byte must drop
// the frame with exactly one CRC-error count and no delivery. Flips in
// the length byte may instead count as length errors when they push the
// declared length past the bound; either way nothing is delivered.
func TestParserSingleBitFlip(t *testing.T) {
	for i := 1; i < len(showPageFrame); i++ {
		for bit := 0; bit < 8; bit++ {
			corrupted := append([]byte(nil), showPageFrame...)
			corrupted[i] ^= 1 << bit

			var frames []Frame
			p := NewParser(&testPlatform{}, collect(&frames))
			p.FeedBytes(corrupted)

			if len(frames) != 0 {
				t.Fatalf("byte %d bit %d: corrupted frame was delivered", i, bit)
			}
			stats := p.Stats()
			if stats.FramesOK != 0 {
				t.Errorf("byte %d bit %d: frames ok = %d, want 0", i, bit, stats.FramesOK)
			}
			// A flip that lands mid-frame can leave the parser parked
			// waiting for more bytes (e.g. length shrank); flush with
			// enough filler to force a terminal state, none of it 0xAA.
			p.FeedBytes(bytes.Repeat([]byte{0x00}, MaxFrameSize))
			if len(frames) != 0 {
				t.Errorf("byte %d bit %d: delivery after flush", i, bit)
			}
		}
	}
}

func TestParserCorruptedCRCCounter(t *testing.T) {
	var frames []Frame
	p := NewParser(&testPlatform{}, collect(&frames))

	bad := append([]byte(nil), pingFrame...)
	bad[len(bad)-1] ^= 0xFF
	p.FeedBytes(bad)

	stats := p.Stats()
	if stats.FramesCRCErr != 1 {
		t.Errorf("crc errors = %d, want 1", stats.FramesCRCErr)
	}
	if stats.FramesOK != 0 {
		t.Errorf("frames ok = %d, want 0", stats.FramesOK)
	}
	if len(frames) != 0 {
		t.Error("corrupted frame was delivered")
	}

	// The parser recovers: the same frame, uncorrupted, decodes next.
	p.FeedBytes(pingFrame)
	if len(frames) != 1 {
		t.Errorf("delivered %d frames after recovery, want 1", len(frames))
	}
}

func TestParserBackToBackFrames(t *testing.T) {
	var frames []Frame
	p := NewParser(&testPlatform{}, collect(&frames))

	stream := append(append([]byte(nil), pingFrame...), showPageFrame...)
	stream = append(stream, pingFrame...)
	p.FeedBytes(stream)

	if len(frames) != 3 {
		t.Fatalf("delivered %d frames, want 3", len(frames))
	}
	if frames[1].Command != CmdShowPage {
		t.Errorf("middle frame = %s, want show-page", frames[1].String())
	}
}

// Payload bytes equal to the start byte must not confuse the parser: 0xAA
// is only special while hunting.
func TestParserStartByteInsidePayload(t *testing.T) {
	var frames []Frame
	p := NewParser(&testPlatform{}, collect(&frames))

	payload := []byte{0xAA, 0xAA, 0xAA}
	p.FeedBytes(EncodeFrame(CmdSetText, 4, payload))

	if len(frames) != 1 {
		t.Fatalf("delivered %d frames, want 1", len(frames))
	}
	if !bytes.Equal(frames[0].Payload, payload) {
		t.Errorf("payload = % x, want % x", frames[0].Payload, payload)
	}
}

// Stats is polled from monitoring goroutines while the read loop feeds;
// the counters must hold up under the race detector.
func TestParserStatsConcurrentWithFeed(t *testing.T) {
	p := NewParser(nil, func(*Frame) {})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 2000; i++ {
			p.FeedBytes(pingFrame)
		}
	}()

	var last Stats
	for {
		select {
		case <-done:
			if got := p.Stats().FramesOK; got != 2000 {
				t.Errorf("FramesOK = %d, want 2000", got)
			}
			return
		default:
			s := p.Stats()
			if s.FramesOK < last.FramesOK {
				t.Fatalf("FramesOK went backwards: %d after %d", s.FramesOK, last.FramesOK)
			}
			last = s
		}
	}
}

func BenchmarkParserFeed(b *testing.B) {
	p := NewParser(nil, func(*Frame) {})
	frame := EncodeFrame(CmdSetValue, 7, []byte{0x02, 0x01, 0x90})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.FeedBytes(frame)
	}
}
