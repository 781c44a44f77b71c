package update

import (
	"strings"

	"github.com/yallatask/yalla/internal/views"
)

const notificationLogSize = 40

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.Palette.Input)
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(n.Level, n.Body)
}

// notify keeps an in-app log of notices. Desktop notifications are sent by
// the reminder poller, not from here.
func (m *Model) notify(title, body, level string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	m.Notifications = append(m.Notifications, Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    m.now(),
	})
	if len(m.Notifications) > notificationLogSize {
		m.Notifications = m.Notifications[len(m.Notifications)-notificationLogSize:]
	}
}
