package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

const reminderLogSize = 20

// onReminder records a fired reminder. The store change it caused arrives
// separately as TasksChangedMsg.
func (m Model) onReminder(msg ReminderDueMsg) (Model, tea.Cmd) {
	m.ReminderLog = append(m.ReminderLog, msg.Event)
	if len(m.ReminderLog) > reminderLogSize {
		m.ReminderLog = m.ReminderLog[len(m.ReminderLog)-reminderLogSize:]
	}
	m.Status = StatusBar{Text: msg.Event.Title}
	m.notify("Reminder", fmt.Sprintf("%s: %s", msg.Event.Title, msg.Event.Body), "info")
	return m, waitForReminderCmd(m.reminders)
}

func (m Model) renderLastReminder() string {
	if len(m.ReminderLog) == 0 {
		return ""
	}
	last := m.ReminderLog[len(m.ReminderLog)-1]
	return fmt.Sprintf("last-reminder: %s @ %s", last.Title, last.FiredAt.Format("15:04"))
}
