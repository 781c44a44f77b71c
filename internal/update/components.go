package update

import (
	"strconv"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/yallatask/yalla/internal/model"
)

func (m *Model) initBubbleComponents() {
	m.titleInput = textinput.New()
	m.titleInput.Placeholder = "e.g. Review the programming course"
	m.titleInput.CharLimit = 120
	m.titleInput.Width = 40

	m.descArea = textarea.New()
	m.descArea.Placeholder = "What exactly do you want to get done?"
	m.descArea.ShowLineNumbers = false
	m.descArea.SetWidth(40)
	m.descArea.SetHeight(2)

	m.timeInput = textinput.New()
	m.timeInput.Placeholder = "HH:MM"
	m.timeInput.CharLimit = 5
	m.timeInput.Width = 6

	m.categoryInput = textinput.New()
	m.categoryInput.Placeholder = m.cfg.DefaultCategory
	m.categoryInput.CharLimit = 40
	m.categoryInput.Width = 20

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.pathInput = textinput.New()
	m.pathInput.Prompt = "file> "
	m.pathInput.Placeholder = "/path/to/document.pdf"
	m.pathInput.CharLimit = 1024
	m.pathInput.Width = 44

	m.statsProgress = progress.New(progress.WithDefaultGradient(), progress.WithWidth(30), progress.WithoutPercentage())

	m.busySpinner = spinner.New()
	m.busySpinner.Spinner = spinner.Dot

	m.helpModel = help.New()

	cols := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Date", Width: 10},
		{Title: "Time", Width: 5},
		{Title: "Priority", Width: 8},
		{Title: "Done", Width: 4},
		{Title: "Title", Width: 18},
	}
	m.historyTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(12))

	m.toolViewport = viewport.New(54, 16)
	m.resetForm()
}

func (m *Model) resetForm() {
	m.Form = FormState{Priority: model.DefaultPriority}
	m.titleInput.SetValue("")
	m.descArea.Reset()
	m.timeInput.SetValue(m.cfg.DefaultTime)
	m.categoryInput.SetValue(m.cfg.DefaultCategory)
	m.titleInput.Blur()
	m.descArea.Blur()
	m.timeInput.Blur()
	m.categoryInput.Blur()
}

// refresh recomputes the visible list and everything derived from it.
func (m *Model) refresh() {
	now := m.now()
	m.Visible = model.Filter(m.Tasks, m.Mode, model.Today(now), model.Tomorrow(now))
	m.Stats = model.ComputeStats(m.Tasks, m.Visible, m.Mode)
	if m.Cursor >= len(m.Visible) {
		m.Cursor = len(m.Visible) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	m.syncBubbleData()
}

func (m *Model) syncBubbleData() {
	if m.Mode == model.ViewAll {
		rows := make([]table.Row, 0, len(m.Visible))
		for i, t := range m.Visible {
			done := ""
			if t.Completed {
				done = "yes"
			}
			rows = append(rows, table.Row{strconv.Itoa(i + 1), t.Date, t.Time, string(t.Priority), done, t.Title})
		}
		m.historyTable.SetRows(rows)
		if len(rows) > 0 {
			m.historyTable.SetCursor(m.Cursor)
		}
	}
	if m.Tools.Infographic.IsEmpty() {
		m.toolViewport.SetContent("")
	}
}

func (m Model) selectedTask() (model.Task, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Visible) {
		return model.Task{}, false
	}
	return m.Visible[m.Cursor], true
}

func (m Model) busy() bool {
	return m.Advice.Loading || m.Tools.Loading
}
