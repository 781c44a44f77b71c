package update

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yallatask/yalla/internal/install"
)

const installUnavailableText = "Sorry, installing is not available here. Run Yalla Task from a Linux desktop session to add a launcher."

func (m Model) acceptInstall() tea.Cmd {
	if m.installer == nil {
		return func() tea.Msg { return InstallOutcomeMsg{Err: install.ErrUnavailable} }
	}
	return installCmd(m.ctx, m.installer)
}

func installCmd(ctx context.Context, in Installer) tea.Cmd {
	return func() tea.Msg {
		outcome, err := in.Accept(ctx)
		return InstallOutcomeMsg{Outcome: outcome, Err: err}
	}
}

func (m Model) dismissInstall() Model {
	m.InstallVisible = false
	if m.installer == nil {
		return m
	}
	if err := m.installer.Dismiss(m.ctx); err != nil {
		m.Status = StatusBar{Text: "could not remember the dismissal", IsError: true}
		return m
	}
	m.Status = StatusBar{Text: "install banner dismissed"}
	return m
}

func (m Model) onInstallOutcome(msg InstallOutcomeMsg) (Model, tea.Cmd) {
	switch {
	case errors.Is(msg.Err, install.ErrUnavailable):
		m.Status = StatusBar{Text: installUnavailableText}
		m.notify("Install", installUnavailableText, "info")
	case msg.Err != nil:
		m.LastError = msg.Err
		m.Status = StatusBar{Text: msg.Err.Error(), IsError: true}
	case msg.Outcome == install.OutcomeAccepted:
		m.InstallVisible = false
		m.Status = StatusBar{Text: "Yalla Task installed"}
	default:
		m.Status = StatusBar{Text: "install declined"}
	}
	if m.installer != nil && !m.installer.Visible() {
		m.InstallVisible = false
	}
	return m, nil
}
