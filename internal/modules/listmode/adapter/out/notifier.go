package out

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"crawlprep/internal/modules/listmode/domain"
	listmodeout "crawlprep/internal/modules/listmode/port/out"
)

// LogNotifier routes operator notifications into the structured log.
type LogNotifier struct {
	log *log.Logger
}

func NewLogNotifier(logger *log.Logger) listmodeout.Notifier {
	return LogNotifier{log: logger}
}

func (n LogNotifier) Notify(_ context.Context, message string, kind domain.NotificationKind) {
	if kind == domain.NotifyError {
		n.log.Error(message, "kind", kind)
		return
	}
	n.log.Info(message, "kind", kind)
}

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8")).Bold(true)
)

// WriterNotifier prints notifications as styled lines, for CLI use.
type WriterNotifier struct {
	w io.Writer
}

func NewWriterNotifier(w io.Writer) listmodeout.Notifier {
	return WriterNotifier{w: w}
}

func (n WriterNotifier) Notify(_ context.Context, message string, kind domain.NotificationKind) {
	style := successStyle
	mark := "✓"
	if kind == domain.NotifyError {
		style = errorStyle
		mark = "✗"
	}
	_, _ = fmt.Fprintln(n.w, style.Render(mark)+" "+message)
}
