package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yallatask/yalla/internal/model"
)

type stubGenerator struct {
	text   string
	err    error
	model  string
	prompt string
}

func (s *stubGenerator) GenerateText(_ context.Context, model, prompt string) (string, error) {
	s.model = model
	s.prompt = prompt
	return s.text, s.err
}

var planned = []model.Task{
	{Title: "Standup", Time: "09:30", Priority: model.PriorityHigh},
	{Title: "Gym", Time: "18:00", Priority: model.PriorityLow},
}

func TestDescribe(t *testing.T) {
	got := Describe(planned)
	want := "Standup at 09:30 (high priority), Gym at 18:00 (low priority)"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if Describe(nil) != "" {
		t.Fatal("expected empty description for no tasks")
	}
}

func TestAdviseReturnsTrimmedText(t *testing.T) {
	gen := &stubGenerator{text: "  Crush it today!\n"}
	a := New(gen, Options{Model: "gemini-3-flash-preview", Language: "Arabic"})
	if got := a.Advise(t.Context(), planned); got != "Crush it today!" {
		t.Fatalf("unexpected advice %q", got)
	}
	if gen.model != "gemini-3-flash-preview" {
		t.Fatalf("unexpected model %q", gen.model)
	}
	if !strings.Contains(gen.prompt, "Standup at 09:30 (high priority)") || !strings.Contains(gen.prompt, "Arabic") {
		t.Fatalf("unexpected prompt %q", gen.prompt)
	}
	if !strings.Contains(gen.prompt, "Yalla Task") {
		t.Fatalf("expected app name in prompt: %q", gen.prompt)
	}
}

func TestAdviseFallbacks(t *testing.T) {
	failing := New(&stubGenerator{err: errors.New("network down")}, Options{})
	if got := failing.Advise(t.Context(), planned); got != FallbackAdvice {
		t.Fatalf("expected fallback advice, got %q", got)
	}

	empty := New(&stubGenerator{text: "   "}, Options{})
	if got := empty.Advise(t.Context(), planned); got != EmptyAdvice {
		t.Fatalf("expected empty advice placeholder, got %q", got)
	}

	none := New(nil, Options{})
	if got := none.Advise(t.Context(), planned); got != FallbackAdvice {
		t.Fatalf("expected fallback without generator, got %q", got)
	}
}

func TestPromptDefaultsToEnglish(t *testing.T) {
	a := New(&stubGenerator{}, Options{})
	if !strings.Contains(a.Prompt(planned), "in English") {
		t.Fatalf("expected English prompt, got %q", a.Prompt(planned))
	}
}

func TestRevealStepsOneRuneAtATime(t *testing.T) {
	var r Reveal
	gen := r.Start("يلا go")
	if r.Visible() != "" || r.Done() {
		t.Fatal("expected nothing visible before the first step")
	}
	steps := 0
	for r.Step(gen) {
		steps++
	}
	steps++
	if steps != 6 {
		t.Fatalf("expected 6 steps for 6 runes, got %d", steps)
	}
	if r.Visible() != "يلا go" || !r.Done() {
		t.Fatalf("expected full text visible, got %q", r.Visible())
	}
	if r.Step(gen) {
		t.Fatal("expected no further steps once done")
	}
}

func TestRevealRestartCancelsStaleGeneration(t *testing.T) {
	var r Reveal
	old := r.Start("first answer")
	r.Step(old)
	r.Step(old)

	current := r.Start("second")
	if r.Step(old) {
		t.Fatal("expected stale generation to be ignored")
	}
	if r.Visible() != "" {
		t.Fatalf("expected restart from empty, got %q", r.Visible())
	}
	r.Step(current)
	if r.Visible() != "s" {
		t.Fatalf("expected one rune of new text, got %q", r.Visible())
	}
	r.Finish()
	if r.Visible() != "second" || r.Full() != "second" {
		t.Fatalf("expected finished text, got %q", r.Visible())
	}
}

func TestRevealEmptyTextIsDone(t *testing.T) {
	var r Reveal
	gen := r.Start("")
	if !r.Done() || r.Step(gen) {
		t.Fatal("expected empty reveal to be done immediately")
	}
}
