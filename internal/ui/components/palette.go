package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"crawlprep/internal/ui/theme"
)

const maxPaletteMatches = 6

// PaletteSubmitMsg carries the confirmed command line.
type PaletteSubmitMsg struct{ Input string }

type PaletteCancelMsg struct{}

var (
	promptBox = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Peach).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1)

	matchStyle    = lipgloss.NewStyle().Foreground(theme.Subtext0)
	matchSelected = lipgloss.NewStyle().Foreground(theme.Peach).Bold(true)
)

// Palette is the ":" command prompt. Hints look like "list:upload <path>";
// the part before the first space is the command word, anything after it is
// an argument placeholder.
type Palette struct {
	input    textinput.Model
	hints    []string
	matches  []string
	selected int
	last     string
	visible  bool
	width    int
}

func NewPalette(hints []string) Palette {
	ti := textinput.New()
	ti.Prompt = ": "
	ti.Placeholder = "command"
	ti.CharLimit = 4096
	p := Palette{input: ti, hints: hints}
	p.refilter()
	return p
}

func (p Palette) Visible() bool { return p.visible }

// Value is the text currently typed into the prompt.
func (p Palette) Value() string { return p.input.Value() }

// Matches lists the hints whose command word starts with the typed word.
func (p Palette) Matches() []string { return p.matches }

func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.input.SetValue("")
	p.refilter()
	return p.input.Focus()
}

func (p *Palette) SetWidth(w int) { p.width = w }

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			p.close()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "enter":
			line := strings.TrimSpace(p.input.Value())
			p.close()
			if line != "" {
				p.last = line
			}
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: line} }
		case "up", "ctrl+k":
			if p.selected > 0 {
				p.selected--
			}
			return p, nil
		case "down", "ctrl+j":
			if p.selected < len(p.matches)-1 {
				p.selected++
			}
			return p, nil
		case "tab":
			p.complete()
			return p, nil
		case "ctrl+r":
			if p.last != "" {
				p.input.SetValue(p.last)
				p.input.CursorEnd()
				p.refilter()
			}
			return p, nil
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	p.refilter()
	return p, cmd
}

// complete replaces the typed word with the selected hint's command word.
// Commands that take an argument get a trailing space so typing can continue.
func (p *Palette) complete() {
	if len(p.matches) == 0 {
		return
	}
	word, placeholder, hasArg := strings.Cut(p.matches[p.selected], " ")
	value := word
	if hasArg && placeholder != "" {
		value += " "
	}
	p.input.SetValue(value)
	p.input.CursorEnd()
	p.refilter()
}

func (p *Palette) refilter() {
	typed := strings.ToLower(strings.TrimLeft(p.input.Value(), " "))
	word, _, typingArg := strings.Cut(typed, " ")
	matches := make([]string, 0, len(p.hints))
	for _, h := range p.hints {
		cmdWord, _, _ := strings.Cut(h, " ")
		if typingArg && cmdWord != word {
			continue
		}
		if strings.HasPrefix(cmdWord, word) {
			matches = append(matches, h)
		}
	}
	p.matches = matches
	if p.selected >= len(p.matches) {
		p.selected = max(len(p.matches)-1, 0)
	}
}

func (p *Palette) close() {
	p.visible = false
	p.selected = 0
	p.input.Blur()
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Command") + "\n")
	sb.WriteString(p.input.View() + "\n")

	// Keep the selection inside the visible window.
	start := 0
	if p.selected >= maxPaletteMatches {
		start = p.selected - maxPaletteMatches + 1
	}
	end := min(start+maxPaletteMatches, len(p.matches))
	if end > start {
		sb.WriteString("\n")
	}
	for i := start; i < end; i++ {
		if i == p.selected {
			sb.WriteString(matchSelected.Render("› "+p.matches[i]) + "\n")
			continue
		}
		sb.WriteString(matchStyle.Render("  "+p.matches[i]) + "\n")
	}
	sb.WriteString(theme.Muted.Render("tab complete · ↑↓ select · ctrl+r last"))

	w := p.width
	if w < 20 {
		w = 64
	}
	return promptBox.Width(w - 2).Render(sb.String())
}
