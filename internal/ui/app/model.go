package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	crawldto "crawlprep/internal/modules/crawl/dto"
	listmodedto "crawlprep/internal/modules/listmode/dto"
	apperrors "crawlprep/internal/platform/errors"
	"crawlprep/internal/ui/components"
	"crawlprep/internal/ui/theme"
	historyview "crawlprep/internal/ui/views/history"
	ingestview "crawlprep/internal/ui/views/ingest"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type listModePort interface {
	ingestview.Port
	History(ctx context.Context, limit int) ([]listmodedto.HistoryEntryOutput, error)
}

type crawlPort interface {
	Start(ctx context.Context) (crawldto.StartOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabIngest tabID = iota
	tabHistory
	tabCount
)

var tabLabels = [tabCount]string{"Ingest", "History"}

// hints must stay in sync with the switch in executePalette.
var paletteHints = []string{
	"mode:standard",
	"mode:list",
	"tab:paste",
	"tab:upload",
	"seed <url>",
	"list:validate",
	"list:upload <path>",
	"list:clear",
	"list:collapse",
	"list:expand",
	"list:toggle",
	"crawl:start",
	"history:reload",
}

// ─── async messages ───────────────────────────────────────────────────────────

type crawlStartedMsg struct {
	out crawldto.StartOutput
	err error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab      key.Binding
	Help     key.Binding
	Palette  key.Binding
	Quit     key.Binding
	Mode     key.Binding
	ListTab  key.Binding
	Edit     key.Binding
	Validate key.Binding
	Clear    key.Binding
	Collapse key.Binding
	Start    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette:  key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Mode:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "crawl mode")),
		ListTab:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "paste/upload")),
		Edit:     key.NewBinding(key.WithKeys("e", "i"), key.WithHelp("e", "edit field")),
		Validate: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "validate")),
		Clear:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear file")),
		Collapse: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "collapse")),
		Start:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start crawl")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Mode, k.ListTab, k.Edit},
		{k.Validate, k.Clear, k.Collapse, k.Start},
		{k.Tab, k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the help overlay,
// the command palette and the notification toast. Ingestion logic lives
// behind the list-mode port; crawl handoff behind the crawl port.
type Model struct {
	serverURL string

	crawl crawlPort

	ingestView  ingestview.Model
	historyView historyview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	toast     components.Toast
	spinner   spinner.Model
	starting  bool
	status    string
	width     int
	height    int
}

func NewModel(serverURL string, listMode listModePort, crawl crawlPort) Model {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Peach)

	return Model{
		serverURL:   serverURL,
		crawl:       crawl,
		ingestView:  ingestview.New(listMode),
		historyView: historyview.New(listMode),
		activeTab:   tabIngest,
		keys:        defaultKeys(),
		help:        help.New(),
		palette:     components.NewPalette(paletteHints),
		spinner:     sp,
		status:      "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.ingestView.Init(), m.historyView.Init())
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	// Ingestion results always reach the ingest view, whichever tab is shown.
	case ingestview.SnapshotMsg:
		if msg.Err != nil {
			m.status = "state: " + msg.Err.Error()
		}
		return m.forwardIngest(msg)

	case ingestview.ValidatedMsg:
		switch {
		case msg.Out.Skipped:
			m.status = "nothing to validate"
		case msg.Out.Applied:
			m.status = fmt.Sprintf("validated: %d valid, %d invalid", msg.Out.Snapshot.Stats.ValidCount, msg.Out.Snapshot.Stats.InvalidCount)
			cmds = append(cmds, m.historyView.Reload())
		case msg.Out.Stale:
			m.status = "superseded validation discarded"
		case msg.Out.Err != nil:
			m.status = "validation failed"
		}
		model, cmd := m.forwardIngest(msg)
		return model, tea.Batch(append(cmds, cmd)...)

	case ingestview.UploadedMsg:
		if msg.Out.NoFile {
			m.status = "no file selected"
		}
		if msg.Out.Notification != "" {
			cmds = append(cmds, m.toast.Show(msg.Out.Notification, !msg.Out.Applied))
		}
		if msg.Out.Applied {
			cmds = append(cmds, m.historyView.Reload())
		}
		model, cmd := m.forwardIngest(msg)
		return model, tea.Batch(append(cmds, cmd)...)

	case historyview.LoadedMsg:
		var cmd tea.Cmd
		m.historyView, cmd = m.historyView.Update(msg)
		return m, cmd

	case crawlStartedMsg:
		m.starting = false
		if msg.err != nil {
			m.status = "crawl start failed"
			cmd := m.toast.Show(msg.err.Error(), true)
			return m, cmd
		}
		m.status = fmt.Sprintf("crawl running (%s, %d targets)", msg.out.Mode, msg.out.Size)
		cmd := tea.Batch(m.toast.Show("Crawl started", false), m.ingestView.Refresh())
		return m, cmd

	case components.ToastExpiredMsg:
		m.toast.Expire(msg)
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	// Every spinner sees every tick and drops the ones carrying another ID, so
	// a pending view keeps animating while its tab is hidden.
	case spinner.TickMsg:
		if m.starting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		var ingestCmd, historyCmd tea.Cmd
		m.ingestView, ingestCmd = m.ingestView.Update(msg)
		m.historyView, historyCmd = m.historyView.Update(msg)
		return m, tea.Batch(append(cmds, ingestCmd, historyCmd)...)

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		if m.subViewCapturing() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			cmd := m.palette.Open()
			return m, cmd
		case "s":
			cmd := m.startCrawlCmd()
			return m, cmd
		}
	}

	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabIngest:
		m.ingestView, tabCmd = m.ingestView.Update(msg)
	case tabHistory:
		m.historyView, tabCmd = m.historyView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := m.height - lipgloss.Height(tabBar) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.activeTab == tabHistory:
		content = m.historyView.View()
	default:
		content = m.ingestView.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + tabLabels[i] + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + tabLabels[i] + " ")
		}
	}
	bar := "crawlprep  " + strings.Join(parts, theme.Muted.Render(" │ ")) + theme.Muted.Render("   "+m.serverURL)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.starting {
		left = m.spinner.View() + " starting crawl…"
	}
	if m.toast.Visible() {
		left = m.toast.View() + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)
	arg := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))

	switch parts[0] {
	case "mode:standard":
		cmd := m.ingestView.SwitchMode("standard")
		return m, cmd
	case "mode:list":
		cmd := m.ingestView.SwitchMode("list")
		return m, cmd
	case "tab:paste":
		m.activeTab = tabIngest
		cmd := m.ingestView.SwitchTab("paste")
		return m, cmd
	case "tab:upload":
		m.activeTab = tabIngest
		cmd := m.ingestView.SwitchTab("upload")
		return m, cmd
	case "seed":
		if arg == "" {
			m.status = "usage: seed <url>"
			return m, nil
		}
		cmd := m.ingestView.SetSeed(arg)
		return m, cmd
	case "list:validate":
		m.activeTab = tabIngest
		cmd := m.ingestView.Validate()
		return m, cmd
	case "list:upload":
		m.activeTab = tabIngest
		cmd := m.ingestView.Upload(arg)
		return m, cmd
	case "list:clear":
		cmd := m.ingestView.ClearFile()
		return m, cmd
	case "list:collapse":
		cmd := m.ingestView.Collapse()
		return m, cmd
	case "list:expand":
		cmd := m.ingestView.Expand()
		return m, cmd
	case "list:toggle":
		cmd := m.ingestView.ToggleCollapse()
		return m, cmd
	case "crawl:start":
		cmd := m.startCrawlCmd()
		return m, cmd
	case "history:reload":
		m.activeTab = tabHistory
		return m, m.historyView.Reload()
	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// subViewCapturing reports whether the active tab owns the keyboard: a text
// field is being edited or a list filter is open.
func (m Model) subViewCapturing() bool {
	switch m.activeTab {
	case tabIngest:
		return m.ingestView.Editing()
	case tabHistory:
		return m.historyView.Filtering()
	}
	return false
}

func (m Model) forwardIngest(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.ingestView, cmd = m.ingestView.Update(msg)
	return m, cmd
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.ingestView, _ = m.ingestView.Update(sz)
	m.historyView, _ = m.historyView.Update(sz)
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m *Model) startCrawlCmd() tea.Cmd {
	if m.crawl == nil {
		return func() tea.Msg {
			return crawlStartedMsg{err: fmt.Errorf("crawl: %w", apperrors.ErrNotConfigured)}
		}
	}
	if m.starting {
		return nil
	}
	m.starting = true
	crawl := m.crawl
	return tea.Batch(func() tea.Msg {
		out, err := crawl.Start(context.Background())
		return crawlStartedMsg{out: out, err: err}
	}, m.spinner.Tick)
}
