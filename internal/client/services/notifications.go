package services

import "time"

type NotificationKind string

const (
	NotifySystem    NotificationKind = "system"
	NotifyPortfolio NotificationKind = "portfolio"
	NotifySuccess   NotificationKind = "success"
	NotifyError     NotificationKind = "error"
)

type Notification struct {
	ID      int
	Kind    NotificationKind
	Message string
	Read    bool
	At      time.Time
}

// notify prepends a notification; the feed is newest first.
func (d *Dashboard) notify(kind NotificationKind, msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.noteSeq++
	n := Notification{ID: d.noteSeq, Kind: kind, Message: msg, At: d.now()}
	d.notifications = append([]Notification{n}, d.notifications...)
}

// MarkNotificationRead reports whether a notification with id exists.
func (d *Dashboard) MarkNotificationRead(id int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.notifications {
		if d.notifications[i].ID == id {
			d.notifications[i].Read = true
			return true
		}
	}
	return false
}

func (d *Dashboard) MarkAllNotificationsRead() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.notifications {
		d.notifications[i].Read = true
	}
}
