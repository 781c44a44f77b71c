package update

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/yallatask/yalla/internal/model"
	"github.com/yallatask/yalla/internal/notify"
	"github.com/yallatask/yalla/internal/scheduler"
)

func levelFromError(isErr bool) string {
	if isErr {
		return "error"
	}
	return "info"
}

// typeInto edits a text input without depending on its focus state.
func typeInto(in textinput.Model, msg tea.KeyMsg) (textinput.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyRunes:
		in.SetValue(in.Value() + string(msg.Runes))
		return in, nil
	case tea.KeySpace:
		in.SetValue(in.Value() + " ")
		return in, nil
	case tea.KeyBackspace:
		v := []rune(in.Value())
		if len(v) > 0 {
			in.SetValue(string(v[:len(v)-1]))
		}
		return in, nil
	}
	return in.Update(msg)
}

func waitForReminderCmd(ch <-chan scheduler.ReminderEvent) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return ReminderDueMsg{Event: ev}
	}
}

func waitForTasksCmd(ch <-chan []model.Task) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		tasks, ok := <-ch
		if !ok {
			return nil
		}
		return TasksChangedMsg{Tasks: tasks}
	}
}

func welcomeTimerCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return WelcomeExpiredMsg{} })
}

func requestPermissionCmd(ctx context.Context, n notify.Notifier) tea.Cmd {
	return func() tea.Msg {
		return PermissionMsg{Permission: n.RequestPermission(ctx)}
	}
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
