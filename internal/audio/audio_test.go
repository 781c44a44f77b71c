package audio

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"testing"
)

func TestDecodePCM16(t *testing.T) {
	raw := []byte{0x00, 0x00, 0xff, 0x7f, 0x00, 0x80, 0x01}
	got := DecodePCM16(raw)
	want := []int16{0, 32767, -32768}
	if len(got) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}

func TestNormalizeRange(t *testing.T) {
	got := Normalize([]int16{0, 16384, -32768, 32767})
	if got[0] != 0 || got[1] != 0.5 || got[2] != -1 {
		t.Fatalf("unexpected normalized values: %v", got)
	}
	if got[3] >= 1 {
		t.Fatalf("expected max sample below 1, got %v", got[3])
	}
}

func TestEncodeWAVHeader(t *testing.T) {
	samples := []float32{0, 0.5, -1}
	wav := EncodeWAV(samples, 24000, 1)
	if len(wav) != 44+len(samples)*4 {
		t.Fatalf("unexpected length %d", len(wav))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" || string(wav[36:40]) != "data" {
		t.Fatalf("unexpected chunk ids: %q", wav[:44])
	}
	if format := binary.LittleEndian.Uint16(wav[20:]); format != 3 {
		t.Fatalf("expected float format 3, got %d", format)
	}
	if rate := binary.LittleEndian.Uint32(wav[24:]); rate != 24000 {
		t.Fatalf("unexpected sample rate %d", rate)
	}
	if byteRate := binary.LittleEndian.Uint32(wav[28:]); byteRate != 96000 {
		t.Fatalf("unexpected byte rate %d", byteRate)
	}
	if v := math.Float32frombits(binary.LittleEndian.Uint32(wav[48:])); v != 0.5 {
		t.Fatalf("unexpected second sample %v", v)
	}
}

func TestDuration(t *testing.T) {
	if d := Duration(48000, 24000); d != 2 {
		t.Fatalf("expected 2 seconds, got %v", d)
	}
	if d := Duration(10, 0); d != 0 {
		t.Fatalf("expected 0 for invalid rate, got %v", d)
	}
}

func TestExecPlayerNoPlayer(t *testing.T) {
	p := NewExecPlayer("")
	p.lookPath = func(string) (string, error) { return "", errors.New("missing") }
	if p.Available() {
		t.Fatal("expected player unavailable")
	}
	if err := p.Play(context.Background(), []float32{0}, 24000); !errors.Is(err, ErrNoPlayer) {
		t.Fatalf("expected ErrNoPlayer, got %v", err)
	}
}

func TestExecPlayerWritesWavAndRuns(t *testing.T) {
	p := NewExecPlayer("myplayer")
	p.tempDir = t.TempDir()
	p.lookPath = func(name string) (string, error) { return "/usr/bin/" + name, nil }
	var ranWith string
	var size int64
	p.run = func(_ context.Context, name string, args ...string) error {
		if name != "/usr/bin/myplayer" || len(args) != 1 {
			t.Errorf("unexpected invocation %s %v", name, args)
		}
		ranWith = args[0]
		info, err := os.Stat(args[0])
		if err != nil {
			t.Errorf("expected wav to exist during playback: %v", err)
			return nil
		}
		size = info.Size()
		return nil
	}
	if err := p.Play(context.Background(), []float32{0, 0.25}, 24000); err != nil {
		t.Fatalf("play: %v", err)
	}
	if size != 44+8 {
		t.Fatalf("unexpected wav size %d", size)
	}
	if _, err := os.Stat(ranWith); !os.IsNotExist(err) {
		t.Fatalf("expected temp wav removed after playback, got %v", err)
	}
}
