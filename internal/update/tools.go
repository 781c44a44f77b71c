package update

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yallatask/yalla/internal/audio"
	"github.com/yallatask/yalla/internal/model"
	"github.com/yallatask/yalla/internal/tools"
	"github.com/yallatask/yalla/internal/views"
)

const (
	toolFailedText = "Something went wrong while processing the file."
	toolBusyText   = "a document is already being processed"
)

func (m Model) handleToolsKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "s":
		return m.openPathPrompt(ToolSummarize), nil
	case "i":
		return m.openPathPrompt(ToolInfographic), nil
	case m.Keys.Copy:
		if m.Tools.Summary == "" {
			m.Status = StatusBar{Text: "no summary to copy yet"}
			return m, nil
		}
		if err := m.clipboard(m.Tools.Summary); err != nil {
			m.logger.Warn("clipboard write failed", "err", err)
			m.Status = StatusBar{Text: "could not copy to the clipboard", IsError: true}
			return m, nil
		}
		m.Status = StatusBar{Text: "summary copied"}
		return m, nil
	}
	var cmd tea.Cmd
	m.toolViewport, cmd = m.toolViewport.Update(msg)
	return m, cmd
}

func (m Model) openPathPrompt(kind ToolKind) Model {
	if m.Tools.Loading {
		m.Status = StatusBar{Text: toolBusyText, IsError: true}
		return m
	}
	m.Tools.Prompting = kind
	m.pathInput.SetValue("")
	m.pathInput.Focus()
	m.Status = StatusBar{Text: "enter the path of a PDF, image, text or HTML file"}
	return m
}

func (m Model) handlePathPromptKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Tools.Prompting = ""
		m.pathInput.Blur()
		m.Status = StatusBar{Text: "cancelled"}
		return m, nil
	case "enter":
		kind := m.Tools.Prompting
		path := m.pathInput.Value()
		m.Tools.Prompting = ""
		m.pathInput.Blur()
		return m.runTool(kind, path)
	}
	var cmd tea.Cmd
	m.pathInput, cmd = typeInto(m.pathInput, msg)
	return m, cmd
}

// runTool starts a document tool. Only one runs at a time; earlier results
// are cleared when a new one starts.
func (m Model) runTool(kind ToolKind, path string) (Model, tea.Cmd) {
	if m.tools == nil {
		m.Status = StatusBar{Text: "document tools are not configured", IsError: true}
		return m, nil
	}
	if m.Tools.Loading || m.tools.Busy() {
		m.Status = StatusBar{Text: toolBusyText, IsError: true}
		return m, nil
	}
	path = expandHome(strings.TrimSpace(path))
	if path == "" {
		m.Status = StatusBar{Text: "no file selected"}
		return m, nil
	}

	m.Tools.Loading = true
	m.Tools.Running = kind
	m.Tools.Summary = ""
	m.Tools.Infographic = model.InfographicData{}
	m.Tools.Playing = false
	m.toolViewport.SetContent("")
	m.Status = StatusBar{Text: views.ProcessingText}

	var run tea.Cmd
	switch kind {
	case ToolSummarize:
		run = summarizeCmd(m.ctx, m.tools, path, m.cfg.MaxFileBytes)
	default:
		run = infographicCmd(m.ctx, m.tools, path, m.cfg.MaxFileBytes)
	}
	return m, tea.Batch(m.busySpinner.Tick, run)
}

func summarizeCmd(ctx context.Context, t DocumentTools, path string, maxBytes int64) tea.Cmd {
	return func() tea.Msg {
		doc, err := tools.ReadDocument(path, maxBytes)
		if err != nil {
			return SummaryResultMsg{Err: err}
		}
		summary, err := t.Summarize(ctx, doc)
		return SummaryResultMsg{Summary: summary, Err: err}
	}
}

func infographicCmd(ctx context.Context, t DocumentTools, path string, maxBytes int64) tea.Cmd {
	return func() tea.Msg {
		doc, err := tools.ReadDocument(path, maxBytes)
		if err != nil {
			return InfographicResultMsg{Err: err}
		}
		data, err := t.Infographic(ctx, doc)
		return InfographicResultMsg{Data: data, Err: err}
	}
}

// playerAvailable reports whether p can play audio. Players that cannot tell
// are assumed to work.
func playerAvailable(p audio.Player) bool {
	if p == nil {
		return false
	}
	if a, ok := p.(interface{ Available() bool }); ok {
		return a.Available()
	}
	return true
}

func playCmd(ctx context.Context, p audio.Player, samples []float32, rate int) tea.Cmd {
	return func() tea.Msg {
		return AudioPlayedMsg{Err: p.Play(ctx, samples, rate)}
	}
}

func (m Model) toolFailure(err error) Model {
	m.Tools.Loading = false
	m.Tools.Running = ""
	m.LastError = err
	m.logger.Error("document tool failed", "err", err)
	switch {
	case errors.Is(err, tools.ErrBusy):
		m.Status = StatusBar{Text: toolBusyText, IsError: true}
	case errors.Is(err, tools.ErrTooLarge):
		m.Status = StatusBar{Text: "the file is larger than " + formatBytes(m.cfg.MaxFileBytes), IsError: true}
	default:
		m.Status = StatusBar{Text: toolFailedText, IsError: true}
	}
	m.notify("Tools", m.Status.Text, "error")
	return m
}

func (m Model) onSummaryResult(msg SummaryResultMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		return m.toolFailure(msg.Err), nil
	}
	m.Tools.Loading = false
	m.Tools.Running = ""
	m.Tools.Summary = msg.Summary.Text
	m.Status = StatusBar{Text: "summary ready"}
	if !m.audioReady || len(msg.Summary.Samples) == 0 {
		return m, nil
	}
	m.Tools.Playing = true
	return m, playCmd(m.ctx, m.player, msg.Summary.Samples, msg.Summary.SampleRate)
}

func (m Model) onInfographicResult(msg InfographicResultMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		return m.toolFailure(msg.Err), nil
	}
	m.Tools.Loading = false
	m.Tools.Running = ""
	m.Tools.Infographic = msg.Data
	if msg.Data.IsEmpty() {
		m.Status = StatusBar{Text: "the document did not produce an infographic"}
		return m, nil
	}
	m.toolViewport.SetContent(views.RenderMarkdown(msg.Data.Markdown()))
	m.toolViewport.GotoTop()
	m.Status = StatusBar{Text: "infographic ready"}
	return m, nil
}

func (m Model) onAudioPlayed(msg AudioPlayedMsg) (Model, tea.Cmd) {
	m.Tools.Playing = false
	switch {
	case errors.Is(msg.Err, audio.ErrNoPlayer):
		m.Status = StatusBar{Text: "audio playback is not available: install paplay, aplay or afplay", IsError: true}
	case msg.Err != nil:
		m.logger.Warn("audio playback failed", "err", msg.Err)
		m.Status = StatusBar{Text: "could not play the audio summary", IsError: true}
	}
	return m, nil
}

func (m Model) renderToolsView() string {
	label := ""
	prompt := ""
	if m.Tools.Prompting != "" {
		label = "File for the audio summary:"
		if m.Tools.Prompting == ToolInfographic {
			label = "File for the infographic:"
		}
		prompt = m.pathInput.View()
	}
	return views.RenderToolsPanel(views.ToolsPanelData{
		Loading:     m.Tools.Loading,
		SpinnerView: m.busySpinner.View(),
		PromptLabel: label,
		PromptView:  prompt,
		SummaryText: m.Tools.Summary,
		Playing:     m.Tools.Playing,
		NoAudio:     !m.audioReady,
	})
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20 && n%(1<<20) == 0:
		return fmt.Sprintf("%d MB", n>>20)
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%d KB", n>>10)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}

func (m Model) renderToolOutput() string {
	if m.Tools.Infographic.IsEmpty() {
		return "infographic:\n(none yet)"
	}
	return m.toolViewport.View()
}
