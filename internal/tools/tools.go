// Package tools implements the two document tools: an audio summary read
// aloud by a speech model, and an infographic extracted as structured JSON.
package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/yallatask/yalla/internal/applog"
	"github.com/yallatask/yalla/internal/audio"
	"github.com/yallatask/yalla/internal/gemini"
	"github.com/yallatask/yalla/internal/model"
)

// ErrBusy is returned while another document is being processed. Overlapping
// requests are rejected, not queued.
var ErrBusy = errors.New("tools: a document is already being processed")

const (
	SummaryFallback = "We could not summarize the document."

	summaryPrompt     = "Summarize this document very briefly and usefully in %s."
	speechPrompt      = "Read this summary clearly: %s"
	infographicPrompt = "Turn this explanation into an engaging infographic. Output JSON containing a main title, a summary, and a list of steps (each step has a title, content, and a fitting FontAwesome icon). Write all text in %s."
)

type Generator interface {
	GenerateFromFile(ctx context.Context, model string, data []byte, mimeType, prompt string, cfg *gemini.GenerationConfig) (string, error)
	Synthesize(ctx context.Context, model, voice, text string) ([]byte, string, error)
}

type Options struct {
	TextModel  string
	TTSModel   string
	Voice      string
	Language   string
	SampleRate int
	Logger     *log.Logger
}

type AudioSummary struct {
	Text       string
	Samples    []float32
	SampleRate int
}

type Runner struct {
	gen        Generator
	textModel  string
	ttsModel   string
	voice      string
	language   string
	sampleRate int
	logger     *log.Logger
	busy       atomic.Bool
}

func NewRunner(gen Generator, opts Options) *Runner {
	if opts.Language == "" {
		opts.Language = "English"
	}
	if opts.SampleRate <= 0 {
		opts.SampleRate = audio.DefaultSampleRate
	}
	return &Runner{
		gen:        gen,
		textModel:  opts.TextModel,
		ttsModel:   opts.TTSModel,
		voice:      opts.Voice,
		language:   opts.Language,
		sampleRate: opts.SampleRate,
		logger:     applog.OrDiscard(opts.Logger),
	}
}

func (r *Runner) Busy() bool {
	return r.busy.Load()
}

func (r *Runner) acquire() error {
	if !r.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	return nil
}

func (r *Runner) release() {
	r.busy.Store(false)
}

// Summarize asks for a short summary of doc and then for speech of that
// summary. A speech answer without audio keeps the text and returns no
// samples; any other failure fails the whole operation.
func (r *Runner) Summarize(ctx context.Context, doc Document) (AudioSummary, error) {
	if err := r.acquire(); err != nil {
		return AudioSummary{}, err
	}
	defer r.release()

	text, err := r.gen.GenerateFromFile(ctx, r.textModel, doc.Data, doc.MIMEType, fmt.Sprintf(summaryPrompt, r.language), nil)
	if err != nil {
		r.logger.Error("summary request failed", "doc", doc.Name, "err", err)
		return AudioSummary{}, fmt.Errorf("summarize %s: %w", doc.Name, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		text = SummaryFallback
	}

	pcm, _, err := r.gen.Synthesize(ctx, r.ttsModel, r.voice, fmt.Sprintf(speechPrompt, text))
	if errors.Is(err, gemini.ErrEmptyResponse) {
		r.logger.Warn("speech response carried no audio", "doc", doc.Name)
		return AudioSummary{Text: text, SampleRate: r.sampleRate}, nil
	}
	if err != nil {
		r.logger.Error("speech request failed", "doc", doc.Name, "err", err)
		return AudioSummary{}, fmt.Errorf("synthesize summary: %w", err)
	}
	samples := audio.Normalize(audio.DecodePCM16(pcm))
	r.logger.Info("audio summary ready", "doc", doc.Name, "seconds", audio.Duration(len(samples), r.sampleRate))
	return AudioSummary{Text: text, Samples: samples, SampleRate: r.sampleRate}, nil
}

// Infographic extracts a structured infographic from doc. An empty or
// malformed answer yields an empty record without error.
func (r *Runner) Infographic(ctx context.Context, doc Document) (model.InfographicData, error) {
	if err := r.acquire(); err != nil {
		return model.InfographicData{}, err
	}
	defer r.release()

	raw, err := r.gen.GenerateFromFile(ctx, r.textModel, doc.Data, doc.MIMEType, fmt.Sprintf(infographicPrompt, r.language), &gemini.GenerationConfig{
		ResponseMimeType: "application/json",
		ResponseSchema:   InfographicSchema(),
	})
	if err != nil {
		r.logger.Error("infographic request failed", "doc", doc.Name, "err", err)
		return model.InfographicData{}, fmt.Errorf("infographic %s: %w", doc.Name, err)
	}
	data, problems := ParseInfographic(raw)
	for _, p := range problems {
		r.logger.Warn("infographic response does not match schema", "doc", doc.Name, "problem", p)
	}
	return data, nil
}
