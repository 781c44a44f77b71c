// Package audio turns raw speech output (16-bit little-endian mono PCM) into
// something a desktop player can open.
package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

const DefaultSampleRate = 24000

var ErrNoPlayer = errors.New("audio: no playback program available")

// DecodePCM16 reads little-endian signed 16-bit samples. A trailing odd byte
// is dropped.
func DecodePCM16(raw []byte) []int16 {
	n := len(raw) / 2
	out := make([]int16, n)
	for i := 0; i < n; i++ {
		out[i] = int16(binary.LittleEndian.Uint16(raw[2*i:]))
	}
	return out
}

// Normalize maps samples into [-1, 1) by dividing by 32768.
func Normalize(samples []int16) []float32 {
	out := make([]float32, len(samples))
	for i, s := range samples {
		out[i] = float32(s) / 32768
	}
	return out
}

// EncodeWAV writes a 32-bit IEEE float WAV file.
func EncodeWAV(samples []float32, sampleRate, channels int) []byte {
	if channels <= 0 {
		channels = 1
	}
	const bitsPerSample = 32
	blockAlign := channels * bitsPerSample / 8
	dataLen := len(samples) * 4

	var buf bytes.Buffer
	buf.Grow(44 + dataLen)
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(3)) // IEEE float
	_ = binary.Write(&buf, binary.LittleEndian, uint16(channels))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*blockAlign))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(dataLen))
	for _, s := range samples {
		_ = binary.Write(&buf, binary.LittleEndian, math.Float32bits(s))
	}
	return buf.Bytes()
}

// Duration returns the playback length in seconds.
func Duration(samples, sampleRate int) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return float64(samples) / float64(sampleRate)
}

type Player interface {
	Play(ctx context.Context, samples []float32, sampleRate int) error
}

// ExecPlayer writes a temporary WAV file and hands it to the first available
// system player.
type ExecPlayer struct {
	candidates []string
	lookPath   func(string) (string, error)
	run        func(ctx context.Context, name string, args ...string) error
	tempDir    string
}

// NewExecPlayer uses preferred when set, otherwise paplay, aplay or afplay.
func NewExecPlayer(preferred string) *ExecPlayer {
	candidates := []string{"paplay", "aplay"}
	if runtime.GOOS == "darwin" {
		candidates = []string{"afplay"}
	}
	if p := strings.TrimSpace(preferred); p != "" {
		candidates = []string{p}
	}
	return &ExecPlayer{
		candidates: candidates,
		lookPath:   exec.LookPath,
		run: func(ctx context.Context, name string, args ...string) error {
			return exec.CommandContext(ctx, name, args...).Run()
		},
	}
}

func (p *ExecPlayer) Available() bool {
	_, err := p.resolve()
	return err == nil
}

func (p *ExecPlayer) resolve() (string, error) {
	for _, c := range p.candidates {
		if path, err := p.lookPath(c); err == nil {
			return path, nil
		}
	}
	return "", ErrNoPlayer
}

func (p *ExecPlayer) Play(ctx context.Context, samples []float32, sampleRate int) error {
	bin, err := p.resolve()
	if err != nil {
		return err
	}
	f, err := os.CreateTemp(p.tempDir, "yalla-summary-*.wav")
	if err != nil {
		return fmt.Errorf("create temp wav: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)
	if _, err := f.Write(EncodeWAV(samples, sampleRate, 1)); err != nil {
		_ = f.Close()
		return fmt.Errorf("write temp wav: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp wav: %w", err)
	}
	if err := p.run(ctx, bin, path); err != nil {
		return fmt.Errorf("play %s: %w", bin, err)
	}
	return nil
}
