package advisor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/yallatask/yalla/internal/applog"
	"github.com/yallatask/yalla/internal/model"
)

const (
	DefaultRevealInterval = 25 * time.Millisecond

	EmptyAdvice    = "Great plan! Yalla, let's get things done smartly!"
	FallbackAdvice = "Stay focused and reach your goals!"
)

const promptTemplate = `I have the following tasks planned: %s.
Give a short, motivating summary and one tip to boost productivity, in %s.
Keep the tone friendly and energetic, fitting an app called "Yalla Task".
Reply in %s only.`

type TextGenerator interface {
	GenerateText(ctx context.Context, model, prompt string) (string, error)
}

type Options struct {
	Model    string
	Language string
	Logger   *log.Logger
}

type Advisor struct {
	gen      TextGenerator
	model    string
	language string
	logger   *log.Logger
}

func New(gen TextGenerator, opts Options) *Advisor {
	lang := strings.TrimSpace(opts.Language)
	if lang == "" {
		lang = "English"
	}
	return &Advisor{
		gen:      gen,
		model:    opts.Model,
		language: lang,
		logger:   applog.OrDiscard(opts.Logger),
	}
}

// Describe renders tasks as "<title> at <time> (<priority> priority)" joined
// by commas.
func Describe(tasks []model.Task) string {
	parts := make([]string, 0, len(tasks))
	for _, t := range tasks {
		parts = append(parts, fmt.Sprintf("%s at %s (%s priority)", t.Title, t.Time, t.Priority))
	}
	return strings.Join(parts, ", ")
}

func (a *Advisor) Prompt(tasks []model.Task) string {
	return fmt.Sprintf(promptTemplate, Describe(tasks), a.language, a.language)
}

// Advise never fails: a call error yields FallbackAdvice and an empty answer
// yields EmptyAdvice.
func (a *Advisor) Advise(ctx context.Context, tasks []model.Task) string {
	if a.gen == nil {
		return FallbackAdvice
	}
	text, err := a.gen.GenerateText(ctx, a.model, a.Prompt(tasks))
	if err != nil {
		a.logger.Error("advice request failed", "err", err)
		return FallbackAdvice
	}
	if strings.TrimSpace(text) == "" {
		return EmptyAdvice
	}
	return strings.TrimSpace(text)
}
