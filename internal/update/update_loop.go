package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/yallatask/yalla/internal/model"
	"github.com/yallatask/yalla/internal/notify"
	"github.com/yallatask/yalla/internal/views"
)

func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.reminders != nil {
		cmds = append(cmds, waitForReminderCmd(m.reminders))
	}
	if m.taskUpdates != nil {
		cmds = append(cmds, waitForTasksCmd(m.taskUpdates))
	}
	if m.Welcome {
		cmds = append(cmds, welcomeTimerCmd(m.cfg.WelcomeFor))
	}
	if m.notifier.Permission() == notify.PermissionDefault {
		cmds = append(cmds, requestPermissionCmd(m.ctx, m.notifier))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
		if m.Palette.Active {
			return m.handlePaletteKey(typed)
		}
		if m.Form.Active {
			return m.handleFormKey(typed)
		}
		if m.Tools.Prompting != "" {
			return m.handlePathPromptKey(typed)
		}

		switch typed.String() {
		case "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.SetValue("")
			m.commandInput.Focus()
			m.Status = StatusBar{Text: "command palette active"}
			return m, nil
		case m.Keys.Today:
			return m.switchView(model.ViewToday), nil
		case m.Keys.Tomorrow:
			return m.switchView(model.ViewTomorrow), nil
		case m.Keys.All:
			return m.switchView(model.ViewAll), nil
		case m.Keys.Tools:
			return m.switchView(model.ViewTools), nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			if m.HelpVisible {
				m.Status = StatusBar{Text: "help shown"}
			} else {
				m.Status = StatusBar{Text: "help hidden"}
			}
			return m, nil
		case "I":
			if m.InstallVisible {
				return m, m.acceptInstall()
			}
		case "N":
			if m.InstallVisible {
				return m.dismissInstall(), nil
			}
		case m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}
		if m.Mode == model.ViewTools {
			return m.handleToolsKey(typed)
		}
		return m.handleTaskKey(typed)
	case spinner.TickMsg:
		if m.busy() {
			var cmd tea.Cmd
			m.busySpinner, cmd = m.busySpinner.Update(typed)
			return m, cmd
		}
		return m, nil
	case SwitchViewMsg:
		if typed.Mode.IsValid() {
			m = m.switchView(typed.Mode)
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		m.notify("Status", typed.Text, levelFromError(typed.IsError))
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	case TasksChangedMsg:
		m.Tasks = typed.Tasks
		m.refresh()
		return m, waitForTasksCmd(m.taskUpdates)
	case ReminderDueMsg:
		return m.onReminder(typed)
	case AdviceResultMsg:
		return m.onAdviceResult(typed)
	case AdviceRevealMsg:
		return m.onAdviceReveal(typed)
	case SummaryResultMsg:
		return m.onSummaryResult(typed)
	case InfographicResultMsg:
		return m.onInfographicResult(typed)
	case AudioPlayedMsg:
		return m.onAudioPlayed(typed)
	case InstallOutcomeMsg:
		return m.onInstallOutcome(typed)
	case PermissionMsg:
		return m.onPermission(typed)
	case WelcomeExpiredMsg:
		m.Welcome = false
		return m, nil
	}

	return m, nil
}

func (m Model) switchView(mode model.ViewMode) Model {
	if m.Mode != mode {
		m.Cursor = 0
	}
	m.Mode = mode
	m.Form.Active = false
	m.Tools.Prompting = ""
	m.refresh()
	return m
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	var leftPane, rightPane string
	if m.Mode == model.ViewTools {
		leftPane = m.renderToolsView()
		rightPane = m.renderToolOutput()
	} else {
		leftPane = m.renderTasksView()
		rightPane = m.renderAdviceView()
	}
	rightPane = joinSections(rightPane, m.renderCommandPalette(), m.renderHelpIfVisible())

	banner := views.RenderInstallBanner(m.InstallVisible)
	if banner == "" {
		banner = views.RenderWelcome(m.Welcome)
	}

	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("Yalla Task | view: %s | %s", viewLabel(m.Mode), m.now().Format("Mon 2 Jan 15:04")),
		Banner:       banner,
		LeftPane:     leftPane,
		RightPane:    rightPane,
		StatusLine:   status,
		StatusError:  m.Status.IsError,
		Notification: joinSections(m.renderLastReminder(), m.renderNotificationsView()),
		Footer: fmt.Sprintf("keys: %s today | %s tomorrow | %s all | %s tools | %s add | %s advise | / cmd | %s help | %s quit",
			m.Keys.Today, m.Keys.Tomorrow, m.Keys.All, m.Keys.Tools, m.Keys.Add, m.Keys.Advise, m.Keys.Help, m.Keys.Quit),
	})
}

func viewLabel(mode model.ViewMode) string {
	switch mode {
	case model.ViewTomorrow:
		return "Tomorrow"
	case model.ViewAll:
		return "All tasks"
	case model.ViewTools:
		return "Tools"
	default:
		return "Today"
	}
}

func joinSections(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}
