package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yallatask/yalla/internal/model"
	"github.com/yallatask/yalla/internal/notify"
	"github.com/yallatask/yalla/internal/views"
)

func (m Model) handleTaskKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.Cursor < len(m.Visible)-1 {
			m.Cursor++
		}
	case "k", "up":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case m.Keys.Add:
		if m.Mode == model.ViewAll {
			m.Status = StatusBar{Text: "switch to today or tomorrow to add a task"}
			return m, nil
		}
		m.openForm()
		return m, nil
	case " ", "x":
		if task, ok := m.selectedTask(); ok {
			m = m.toggleTask(task)
		}
	case "d", "delete":
		if task, ok := m.selectedTask(); ok {
			m = m.deleteTask(task)
		}
	case m.Keys.Advise:
		return m.startAdvice()
	case m.Keys.Copy:
		return m.copyAdvice(), nil
	}
	m.syncBubbleData()
	return m, nil
}

func (m Model) toggleTask(task model.Task) Model {
	if m.store == nil {
		return m
	}
	if err := m.store.ToggleCompleted(m.ctx, task.ID); err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}
	m.Tasks = m.store.Snapshot()
	m.refresh()
	if !task.Completed {
		m.Status = StatusBar{Text: fmt.Sprintf("done: %s", task.Title)}
	} else {
		m.Status = StatusBar{Text: fmt.Sprintf("reopened: %s", task.Title)}
	}
	return m
}

func (m Model) deleteTask(task model.Task) Model {
	if m.store == nil {
		return m
	}
	if err := m.store.Delete(m.ctx, task.ID); err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}
	m.Tasks = m.store.Snapshot()
	m.refresh()
	m.Status = StatusBar{Text: fmt.Sprintf("deleted: %s", task.Title)}
	return m
}

func (m *Model) openForm() {
	m.resetForm()
	m.Form.Active = true
	m.focusField(FieldTitle)
	m.Status = StatusBar{Text: "new task"}
}

func (m *Model) focusField(f FormField) {
	m.Form.Focus = f
	m.titleInput.Blur()
	m.descArea.Blur()
	m.timeInput.Blur()
	m.categoryInput.Blur()
	switch f {
	case FieldTitle:
		m.titleInput.Focus()
	case FieldDescription:
		m.descArea.Focus()
	case FieldTime:
		m.timeInput.Focus()
	case FieldCategory:
		m.categoryInput.Focus()
	}
}

func (m Model) handleFormKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.resetForm()
		m.Status = StatusBar{Text: "task form closed"}
		return m, nil
	case "enter":
		return m.submitForm()
	case "tab", "down":
		m.focusField((m.Form.Focus + 1) % fieldCount)
		return m, nil
	case "shift+tab", "up":
		m.focusField((m.Form.Focus + fieldCount - 1) % fieldCount)
		return m, nil
	}

	if m.Form.Focus == FieldPriority {
		switch msg.String() {
		case "right", "l", " ":
			m.Form.Priority = m.Form.Priority.Next()
		case "left", "h":
			m.Form.Priority = m.Form.Priority.Prev()
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.Form.Focus {
	case FieldTitle:
		m.titleInput, cmd = typeInto(m.titleInput, msg)
	case FieldDescription:
		switch msg.Type {
		case tea.KeyRunes:
			m.descArea.InsertString(string(msg.Runes))
		case tea.KeySpace:
			m.descArea.InsertString(" ")
		default:
			m.descArea, cmd = m.descArea.Update(msg)
		}
	case FieldTime:
		m.timeInput, cmd = typeInto(m.timeInput, msg)
	case FieldCategory:
		m.categoryInput, cmd = typeInto(m.categoryInput, msg)
	}
	return m, cmd
}

// submitForm adds the task to the date the current view shows. Invalid input
// keeps the form open with the problem shown.
func (m Model) submitForm() (Model, tea.Cmd) {
	draft, err := model.Draft{
		Title:       m.titleInput.Value(),
		Description: strings.TrimSpace(m.descArea.Value()),
		Time:        m.timeInput.Value(),
		Priority:    m.Form.Priority,
		Category:    strings.TrimSpace(m.categoryInput.Value()),
	}.Normalize()
	if err != nil {
		m.Form.Err = formError(err)
		return m, nil
	}
	if m.store == nil {
		m.Form.Err = "task storage is not available"
		return m, nil
	}
	task, err := m.store.Add(m.ctx, draft, model.DateForNewTask(m.Mode, m.now()))
	if err != nil {
		m.Form.Err = err.Error()
		return m, nil
	}
	m.resetForm()
	m.Tasks = m.store.Snapshot()
	m.refresh()
	m.Status = StatusBar{Text: fmt.Sprintf("added: %s at %s", task.Title, task.Time)}
	return m, m.permissionIfUnset()
}

func formError(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "); i >= 0 && strings.HasPrefix(msg, "model") {
		msg = msg[i+2:]
	}
	return msg
}

func (m Model) permissionIfUnset() tea.Cmd {
	if m.notifier.Permission() != notify.PermissionDefault {
		return nil
	}
	return requestPermissionCmd(m.ctx, m.notifier)
}

func (m Model) onPermission(msg PermissionMsg) (Model, tea.Cmd) {
	switch msg.Permission {
	case notify.PermissionGranted:
		m.notify("Notifications", "desktop reminders are on", "info")
	case notify.PermissionDenied:
		m.notify("Notifications", "desktop reminders are unavailable; reminders show here instead", "info")
	}
	return m, nil
}

func (m Model) renderTasksView() string {
	heading := "Today's tasks"
	switch m.Mode {
	case model.ViewTomorrow:
		heading = "Tomorrow's tasks"
	case model.ViewAll:
		heading = "All scheduled tasks"
	}

	list := views.TaskListData{Heading: heading}
	if m.Mode == model.ViewAll && len(m.Visible) > 0 {
		list.TableView = m.historyTable.View()
	} else {
		today := model.Today(m.now())
		for i, t := range m.Visible {
			date := ""
			if m.Mode == model.ViewAll && t.Date != today {
				date = t.Date
			}
			list.Rows = append(list.Rows, views.TaskRowData{
				Index:       i + 1,
				Title:       t.Title,
				Description: t.Description,
				Time:        t.Time,
				Date:        date,
				Priority:    string(t.Priority),
				Category:    t.Category,
				Completed:   t.Completed,
				Selected:    i == m.Cursor,
			})
		}
	}

	stats := views.RenderStats(views.StatsData{
		Completed:    m.Stats.Completed,
		Total:        m.Stats.Total,
		Percent:      m.Stats.Percent,
		ProgressView: m.statsProgress.ViewAs(float64(m.Stats.Percent) / 100),
	})
	return joinSections(stats, m.renderFormIfActive(), views.RenderTaskList(list))
}

func (m Model) renderFormIfActive() string {
	if !m.Form.Active {
		return ""
	}
	target := "today"
	if m.Mode == model.ViewTomorrow {
		target = "tomorrow"
	}
	return views.RenderTaskForm(views.FormPanelData{
		TargetLabel: target,
		Fields: []views.FormFieldData{
			{Label: "Task name", View: m.titleInput.View(), Focused: m.Form.Focus == FieldTitle},
			{Label: "Description (optional)", View: m.descArea.View(), Focused: m.Form.Focus == FieldDescription},
			{Label: "Time", View: m.timeInput.View(), Focused: m.Form.Focus == FieldTime},
			{Label: "Priority", View: views.PriorityBadge(string(m.Form.Priority)), Focused: m.Form.Focus == FieldPriority},
			{Label: "Category", View: m.categoryInput.View(), Focused: m.Form.Focus == FieldCategory},
		},
		ErrorText: m.Form.Err,
	})
}
