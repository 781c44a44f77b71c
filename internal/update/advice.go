package update

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yallatask/yalla/internal/model"
	"github.com/yallatask/yalla/internal/views"
)

// startAdvice asks for advice on the visible tasks. A newer request
// supersedes any in flight; stale answers are dropped on arrival.
func (m Model) startAdvice() (Model, tea.Cmd) {
	if m.advisor == nil {
		m.Status = StatusBar{Text: "AI advice is not configured", IsError: true}
		return m, nil
	}
	id := m.adviceSlot.Begin()
	m.Advice.Loading = true
	m.Status = StatusBar{Text: "thinking..."}
	tasks := append([]model.Task(nil), m.Visible...)
	return m, tea.Batch(m.busySpinner.Tick, adviseCmd(m.ctx, m.advisor, id, tasks))
}

func adviseCmd(ctx context.Context, a Advisor, id uint64, tasks []model.Task) tea.Cmd {
	return func() tea.Msg {
		return AdviceResultMsg{ID: id, Text: a.Advise(ctx, tasks)}
	}
}

func revealTickCmd(d time.Duration, gen uint64) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return AdviceRevealMsg{Gen: gen} })
}

func (m Model) onAdviceResult(msg AdviceResultMsg) (Model, tea.Cmd) {
	if !m.adviceSlot.IsCurrent(msg.ID) {
		m.logger.Debug("dropping stale advice", "id", msg.ID, "latest", m.adviceSlot.Latest())
		return m, nil
	}
	m.Advice.Loading = false
	m.Status = StatusBar{}
	gen := m.Advice.Reveal.Start(msg.Text)
	if m.Advice.Reveal.Done() {
		return m, nil
	}
	return m, revealTickCmd(m.cfg.RevealInterval, gen)
}

func (m Model) onAdviceReveal(msg AdviceRevealMsg) (Model, tea.Cmd) {
	if !m.Advice.Reveal.Step(msg.Gen) {
		return m, nil
	}
	return m, revealTickCmd(m.cfg.RevealInterval, msg.Gen)
}

func (m Model) copyAdvice() Model {
	text := m.Advice.Reveal.Full()
	if text == "" {
		m.Status = StatusBar{Text: "no advice to copy yet"}
		return m
	}
	if err := m.clipboard(text); err != nil {
		m.logger.Warn("clipboard write failed", "err", err)
		m.Status = StatusBar{Text: "could not copy to the clipboard", IsError: true}
		return m
	}
	m.Advice.Reveal.Finish()
	m.Status = StatusBar{Text: "advice copied"}
	return m
}

func (m Model) renderAdviceView() string {
	return views.RenderAdvicePanel(views.AdvicePanelData{
		Text:        m.Advice.Reveal.Visible(),
		Loading:     m.Advice.Loading,
		SpinnerView: m.busySpinner.View(),
		Revealing:   !m.Advice.Reveal.Done(),
	})
}
