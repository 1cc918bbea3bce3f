package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"crawlprep/internal/ui/theme"
)

const toastTTL = 4 * time.Second

// ToastExpiredMsg clears the toast it was scheduled for. Seq guards against
// an older timer hiding a newer message.
type ToastExpiredMsg struct{ Seq int }

type Toast struct {
	message string
	failure bool
	seq     int
}

// Show replaces the current message and schedules its expiry.
func (t *Toast) Show(message string, failure bool) tea.Cmd {
	t.seq++
	t.message = message
	t.failure = failure
	seq := t.seq
	return tea.Tick(toastTTL, func(time.Time) tea.Msg { return ToastExpiredMsg{Seq: seq} })
}

func (t *Toast) Expire(msg ToastExpiredMsg) {
	if msg.Seq == t.seq {
		t.message = ""
	}
}

func (t Toast) Visible() bool { return t.message != "" }

func (t Toast) View() string {
	if t.message == "" {
		return ""
	}
	if t.failure {
		return theme.Bad.Render("✗ " + t.message)
	}
	return theme.Ok.Render("✓ " + t.message)
}
