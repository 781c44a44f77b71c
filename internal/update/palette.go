package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yallatask/yalla/internal/commands"
	"github.com/yallatask/yalla/internal/model"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m = m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	}
	var cmd tea.Cmd
	m.commandInput, cmd = typeInto(m.commandInput, msg)
	m.Palette.Input = m.commandInput.Value()
	return m, cmd
}

func (m Model) closePalette() Model {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
	return m
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m = m.closePalette()
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	m.Status = StatusBar{}
	var next tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			if !m.Mode.ShowsTasks() || m.Mode == model.ViewAll {
				m = m.switchView(model.ViewToday)
			}
			if m.store == nil {
				return commands.Result{}, fmt.Errorf("task storage is not available")
			}
			draft, err := a.Draft.Normalize()
			if err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: formError(err)}
			}
			task, err := m.store.Add(m.ctx, draft, model.DateForNewTask(m.Mode, m.now()))
			if err != nil {
				return commands.Result{}, err
			}
			m.Tasks = m.store.Snapshot()
			m.refresh()
			next = m.permissionIfUnset()
			return commands.Result{Message: fmt.Sprintf("added: %s at %s", task.Title, task.Time)}, nil
		},
		Done: func(a commands.TargetArgs) (commands.Result, error) {
			task, err := m.taskAt(a.Index)
			if err != nil {
				return commands.Result{}, err
			}
			m = m.toggleTask(task)
			return commands.Result{Message: m.Status.Text}, nil
		},
		Remove: func(a commands.TargetArgs) (commands.Result, error) {
			task, err := m.taskAt(a.Index)
			if err != nil {
				return commands.Result{}, err
			}
			m = m.deleteTask(task)
			return commands.Result{Message: m.Status.Text}, nil
		},
		View: func(a commands.ViewArgs) (commands.Result, error) {
			m = m.switchView(a.Mode)
			return commands.Result{Message: fmt.Sprintf("view: %s", viewLabel(a.Mode))}, nil
		},
		Advise: func() (commands.Result, error) {
			if m.Mode == model.ViewTools {
				m = m.switchView(model.ViewToday)
			}
			m, next = m.startAdvice()
			return commands.Result{Message: m.Status.Text}, nil
		},
		Summarize: func(a commands.PathArgs) (commands.Result, error) {
			m = m.switchView(model.ViewTools)
			m, next = m.runTool(ToolSummarize, a.Path)
			return commands.Result{Message: m.Status.Text}, nil
		},
		Infographic: func(a commands.PathArgs) (commands.Result, error) {
			m = m.switchView(model.ViewTools)
			m, next = m.runTool(ToolInfographic, a.Path)
			return commands.Result{Message: m.Status.Text}, nil
		},
		Install: func() (commands.Result, error) {
			next = m.acceptInstall()
			return commands.Result{Message: "installing..."}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Command Failed", err.Error(), "error")
		return m, nil
	}
	if !m.Status.IsError {
		m.Status = StatusBar{Text: res.Message}
	}
	return m, next
}

// taskAt resolves a 1-based row of the current view.
func (m Model) taskAt(index int) (model.Task, error) {
	if index < 1 || index > len(m.Visible) {
		return model.Task{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no task #%d in this view", index)}
	}
	return m.Visible[index-1], nil
}
