package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	listmodedto "crawlprep/internal/modules/listmode/dto"
	"crawlprep/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

// Port is the slice of the list-mode use-case this view drives.
type Port interface {
	Snapshot(ctx context.Context) listmodedto.SnapshotOutput
	SwitchMode(ctx context.Context, mode string) (listmodedto.SnapshotOutput, error)
	SwitchTab(ctx context.Context, tab string) (listmodedto.SnapshotOutput, error)
	SetSeed(ctx context.Context, url string) (listmodedto.SnapshotOutput, error)
	SetPasteText(ctx context.Context, text string) (listmodedto.SnapshotOutput, error)
	Validate(ctx context.Context) listmodedto.ValidateOutput
	Upload(ctx context.Context, path string) listmodedto.UploadOutput
	ClearFile(ctx context.Context) (listmodedto.SnapshotOutput, error)
	ToggleCollapse(ctx context.Context) (listmodedto.SnapshotOutput, error)
	Collapse(ctx context.Context) (listmodedto.SnapshotOutput, error)
	Expand(ctx context.Context) (listmodedto.SnapshotOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type SnapshotMsg struct {
	Snapshot listmodedto.SnapshotOutput
	Err      error
}

type ValidatedMsg struct {
	Out listmodedto.ValidateOutput
}

// UploadedMsg bubbles up to the app so it can raise the upload notification.
type UploadedMsg struct {
	Out listmodedto.UploadOutput
}

// ─── model ───────────────────────────────────────────────────────────────────

type focus int

const (
	focusNone focus = iota
	focusSeed
	focusPaste
	focusPath
)

type Model struct {
	port     Port
	snap     listmodedto.SnapshotOutput
	seed     textinput.Model
	paste    textarea.Model
	path     textinput.Model
	report   viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	focus    focus
	pending  int
	lastErr  string
	width    int
	height   int
}

func New(port Port) Model {
	seed := textinput.New()
	seed.Placeholder = "https://example.com"
	seed.Prompt = "seed › "

	paste := textarea.New()
	paste.Placeholder = "One URL per line"
	paste.ShowLineNumbers = false
	paste.CharLimit = 0

	path := textinput.New()
	path.Placeholder = "/path/to/urls.txt"
	path.Prompt = "file › "

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	r, _ := glamour.NewTermRenderer(glamour.WithStylePath("dark"), glamour.WithWordWrap(0))

	return Model{
		port:     port,
		seed:     seed,
		paste:    paste,
		path:     path,
		report:   viewport.New(0, 0),
		spinner:  sp,
		renderer: r,
	}
}

func (m Model) Init() tea.Cmd {
	return m.snapshotCmd()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case SnapshotMsg:
		m.settle()
		if msg.Err != nil {
			m.lastErr = msg.Err.Error()
		}
		m.apply(msg.Snapshot)

	case ValidatedMsg:
		m.settle()
		m.lastErr = ""
		if msg.Out.Err != nil && !msg.Out.Stale {
			m.lastErr = msg.Out.Err.Error()
		}
		if !msg.Out.Stale {
			m.apply(msg.Out.Snapshot)
		}

	case UploadedMsg:
		m.settle()
		m.lastErr = ""
		if !msg.Out.Stale && !msg.Out.NoFile {
			m.apply(msg.Out.Snapshot)
		}
		if msg.Out.Applied {
			m.path.SetValue("")
		}

	case spinner.TickMsg:
		if m.pending > 0 {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.KeyMsg:
		if m.focus != focusNone {
			return m.updateEditing(msg)
		}
		if cmd := m.handleKey(msg); cmd != nil {
			return m, cmd
		}
	}

	var vCmd tea.Cmd
	m.report, vCmd = m.report.Update(msg)
	cmds = append(cmds, vCmd)
	return m, tea.Batch(cmds...)
}

// Editing reports whether a text field owns the keyboard. The app checks it
// before applying global bindings.
func (m Model) Editing() bool { return m.focus != focusNone }

func (m Model) Snapshot() listmodedto.SnapshotOutput { return m.snap }

// Refresh reloads the snapshot, e.g. after a crawl start collapsed the panel.
func (m Model) Refresh() tea.Cmd { return m.snapshotCmd() }

func (m *Model) SwitchMode(mode string) tea.Cmd {
	return m.run(func(ctx context.Context, port Port) tea.Msg {
		snap, err := port.SwitchMode(ctx, mode)
		return SnapshotMsg{Snapshot: snap, Err: err}
	})
}

func (m *Model) SwitchTab(tab string) tea.Cmd {
	return m.run(func(ctx context.Context, port Port) tea.Msg {
		snap, err := port.SwitchTab(ctx, tab)
		return SnapshotMsg{Snapshot: snap, Err: err}
	})
}

// Validate stores the textarea content and classifies it.
func (m *Model) Validate() tea.Cmd {
	text := m.paste.Value()
	return m.run(func(ctx context.Context, port Port) tea.Msg {
		if _, err := port.SetPasteText(ctx, text); err != nil {
			return ValidatedMsg{Out: listmodedto.ValidateOutput{Err: err, Snapshot: port.Snapshot(ctx)}}
		}
		return ValidatedMsg{Out: port.Validate(ctx)}
	})
}

func (m *Model) Upload(path string) tea.Cmd {
	return m.run(func(ctx context.Context, port Port) tea.Msg {
		return UploadedMsg{Out: port.Upload(ctx, path)}
	})
}

func (m *Model) ClearFile() tea.Cmd {
	return m.run(func(ctx context.Context, port Port) tea.Msg {
		snap, err := port.ClearFile(ctx)
		return SnapshotMsg{Snapshot: snap, Err: err}
	})
}

func (m *Model) ToggleCollapse() tea.Cmd {
	return m.run(func(ctx context.Context, port Port) tea.Msg {
		snap, err := port.ToggleCollapse(ctx)
		return SnapshotMsg{Snapshot: snap, Err: err}
	})
}

// Collapse and Expand are idempotent; collapsing again only refreshes the label.
func (m *Model) Collapse() tea.Cmd {
	return m.run(func(ctx context.Context, port Port) tea.Msg {
		snap, err := port.Collapse(ctx)
		return SnapshotMsg{Snapshot: snap, Err: err}
	})
}

func (m *Model) Expand() tea.Cmd {
	return m.run(func(ctx context.Context, port Port) tea.Msg {
		snap, err := port.Expand(ctx)
		return SnapshotMsg{Snapshot: snap, Err: err}
	})
}

func (m *Model) SetSeed(url string) tea.Cmd {
	return m.run(func(ctx context.Context, port Port) tea.Msg {
		snap, err := port.SetSeed(ctx, url)
		return SnapshotMsg{Snapshot: snap, Err: err}
	})
}

func (m Model) View() string {
	sections := []string{m.renderModeSelector()}
	if m.snap.StandardPanelVisible {
		sections = append(sections, m.renderStandardPanel())
	} else {
		sections = append(sections, m.renderListPanel())
	}
	if m.pending > 0 {
		sections = append(sections, m.spinner.View()+theme.Muted.Render(" waiting for the URL list service…"))
	}
	if m.lastErr != "" {
		sections = append(sections, theme.Bad.Render("Error: "+m.lastErr))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "m":
		next := "list"
		if m.snap.ListPanelVisible {
			next = "standard"
		}
		return m.SwitchMode(next)
	case "t":
		if !m.snap.ListPanelVisible || m.snap.Collapsed {
			return nil
		}
		next := "upload"
		if m.snap.UploadPanelVisible {
			next = "paste"
		}
		return m.SwitchTab(next)
	case "e", "i":
		return m.startEditing()
	case "v":
		if m.snap.ListPanelVisible {
			return m.Validate()
		}
	case "x":
		if m.snap.FileInfoVisible {
			return m.ClearFile()
		}
	case "c":
		if m.snap.ListPanelVisible {
			return m.ToggleCollapse()
		}
	}
	return nil
}

func (m *Model) startEditing() tea.Cmd {
	switch {
	case m.snap.StandardPanelVisible:
		m.focus = focusSeed
		return m.seed.Focus()
	case m.snap.Collapsed:
		return nil
	case m.snap.PastePanelVisible:
		m.focus = focusPaste
		return m.paste.Focus()
	default:
		m.focus = focusPath
		return m.path.Focus()
	}
}

// updateEditing routes keys to the focused field. esc leaves the field and
// commits its value; enter submits single-line fields.
func (m Model) updateEditing(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.stopEditing(false)
	case "enter":
		if m.focus == focusSeed || m.focus == focusPath {
			return m.stopEditing(true)
		}
	case "ctrl+s":
		if m.focus == focusPaste {
			return m.stopEditing(true)
		}
	}
	var cmd tea.Cmd
	switch m.focus {
	case focusSeed:
		m.seed, cmd = m.seed.Update(msg)
	case focusPaste:
		m.paste, cmd = m.paste.Update(msg)
	case focusPath:
		m.path, cmd = m.path.Update(msg)
	}
	return m, cmd
}

func (m Model) stopEditing(submit bool) (Model, tea.Cmd) {
	field := m.focus
	m.focus = focusNone
	m.seed.Blur()
	m.paste.Blur()
	m.path.Blur()
	switch field {
	case focusSeed:
		cmd := m.SetSeed(strings.TrimSpace(m.seed.Value()))
		return m, cmd
	case focusPaste:
		if submit {
			cmd := m.Validate()
			return m, cmd
		}
		text := m.paste.Value()
		cmd := m.run(func(ctx context.Context, port Port) tea.Msg {
			snap, err := port.SetPasteText(ctx, text)
			return SnapshotMsg{Snapshot: snap, Err: err}
		})
		return m, cmd
	case focusPath:
		if submit {
			cmd := m.Upload(strings.TrimSpace(m.path.Value()))
			return m, cmd
		}
	}
	return m, nil
}

func (m *Model) run(fn func(ctx context.Context, port Port) tea.Msg) tea.Cmd {
	m.pending++
	port := m.port
	return tea.Batch(func() tea.Msg { return fn(context.Background(), port) }, m.spinner.Tick)
}

func (m *Model) settle() {
	if m.pending > 0 {
		m.pending--
	}
}

func (m Model) snapshotCmd() tea.Cmd {
	port := m.port
	return func() tea.Msg {
		return SnapshotMsg{Snapshot: port.Snapshot(context.Background())}
	}
}

// apply installs snap unless a newer revision is already on screen. Port calls
// finish on their own goroutines, so replies can arrive out of order.
func (m *Model) apply(snap listmodedto.SnapshotOutput) {
	if snap.Revision < m.snap.Revision {
		return
	}
	m.snap = snap
	if m.focus != focusSeed {
		m.seed.SetValue(snap.SeedURL)
	}
	if m.focus != focusPaste {
		m.paste.SetValue(snap.PasteText)
	}
	m.report.SetContent(m.renderReport())
}

func (m *Model) resize() {
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	m.seed.Width = w - 8
	m.path.Width = w - 8
	m.paste.SetWidth(w)
	m.paste.SetHeight(max(3, m.height/4))
	m.report.Width = w
	m.report.Height = max(3, m.height-m.height/4-12)
	if r, err := glamour.NewTermRenderer(glamour.WithStylePath("dark"), glamour.WithWordWrap(w)); err == nil {
		m.renderer = r
	}
	m.report.SetContent(m.renderReport())
}

func (m Model) renderModeSelector() string {
	standard, list := theme.SelectorOff, theme.SelectorOff
	if m.snap.StandardPanelVisible {
		standard = theme.SelectorOn
	} else {
		list = theme.SelectorOn
	}
	return theme.Title.Render("Crawl mode ") + standard.Render("Standard") + " " + list.Render("List") +
		theme.Muted.Render("   m: switch")
}

func (m Model) renderStandardPanel() string {
	style := theme.Pane
	if m.focus == focusSeed {
		style = theme.PaneActive
	}
	hint := theme.Muted.Render("e: edit  enter: save  s: start crawl")
	return style.Width(max(20, m.width-2)).Render(m.seed.View() + "\n" + hint)
}

func (m Model) renderListPanel() string {
	if m.snap.Collapsed {
		label := m.snap.CollapseLabel
		if label == "" {
			label = "no URLs"
		}
		return theme.Pane.Width(max(20, m.width-2)).Render("▸ " + theme.Hot.Render(label) + theme.Muted.Render("   c: expand"))
	}

	paste, upload := theme.SelectorOff, theme.SelectorOff
	if m.snap.PastePanelVisible {
		paste = theme.SelectorOn
	} else {
		upload = theme.SelectorOn
	}
	tabs := paste.Render("Paste") + " " + upload.Render("Upload") + theme.Muted.Render("   t: switch  c: collapse")

	var body string
	if m.snap.PastePanelVisible {
		body = m.paste.View() + "\n" + theme.Muted.Render("e: edit  ctrl+s/v: validate  esc: done")
	} else {
		body = m.path.View() + "\n" + theme.Muted.Render("e: edit path  enter: upload (.txt)")
		if m.snap.FileInfoVisible {
			body += "\n" + theme.Ok.Render("📄 "+m.snap.FileName) + theme.Muted.Render("   x: clear")
		}
	}

	style := theme.Pane
	if m.focus == focusPaste || m.focus == focusPath {
		style = theme.PaneActive
	}
	parts := []string{tabs, body}
	if m.snap.StatsVisible {
		parts = append(parts, m.renderStats())
	}
	parts = append(parts, m.report.View())
	return style.Width(max(20, m.width-2)).Render(strings.Join(parts, "\n"))
}

func (m Model) renderStats() string {
	s := m.snap.Stats
	line := fmt.Sprintf("%s %d   %s %d   %s %d",
		theme.Muted.Render("valid"), s.ValidCount,
		theme.Muted.Render("invalid"), s.InvalidCount,
		theme.Muted.Render("domains"), s.UniqueDomains)
	if m.snap.InvalidBadgeVisible {
		line += "  " + theme.Badge.Render(fmt.Sprintf("%d invalid", len(m.snap.InvalidURLs)))
	}
	return line
}

func (m Model) renderReport() string {
	if len(m.snap.ValidURLs) == 0 && len(m.snap.InvalidURLs) == 0 {
		return theme.Muted.Render("(no URLs classified yet)")
	}
	md := ReportMarkdown(m.snap.ValidURLs, m.snap.InvalidURLs)
	if m.renderer != nil {
		if out, err := m.renderer.Render(md); err == nil {
			return out
		}
	}
	return md
}

// ReportMarkdown lists both classified sets as markdown.
func ReportMarkdown(valid, invalid []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "### Valid (%d)\n\n", len(valid))
	for _, u := range valid {
		sb.WriteString("- " + u + "\n")
	}
	if len(invalid) > 0 {
		fmt.Fprintf(&sb, "\n### Invalid (%d)\n\n", len(invalid))
		for _, u := range invalid {
			sb.WriteString("- `" + strings.ReplaceAll(u, "`", "'") + "`\n")
		}
	}
	return sb.String()
}
