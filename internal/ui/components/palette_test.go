package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testHints = []string{"mode:standard", "mode:list", "list:validate", "list:upload <path>", "seed <url>"}

func typeText(p Palette, s string) Palette {
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return p
}

func press(p Palette, k tea.KeyType) (Palette, tea.Cmd) {
	return p.Update(tea.KeyMsg{Type: k})
}

func TestPaletteFiltersByCommandWord(t *testing.T) {
	p := NewPalette(testHints)
	_ = p.Open()
	assert.Len(t, p.Matches(), len(testHints))

	p = typeText(p, "mode")
	assert.Equal(t, []string{"mode:standard", "mode:list"}, p.Matches())

	p = typeText(p, ":l")
	assert.Equal(t, []string{"mode:list"}, p.Matches())
}

func TestPaletteTabCompletesSelection(t *testing.T) {
	p := NewPalette(testHints)
	_ = p.Open()
	p = typeText(p, "list")
	p, _ = press(p, tea.KeyDown)
	p, _ = press(p, tea.KeyTab)
	assert.Equal(t, "list:upload ", p.Value())
	// Typing the argument keeps the single command in view.
	p = typeText(p, "urls.txt")
	assert.Equal(t, []string{"list:upload <path>"}, p.Matches())

	p, cmd := press(p, tea.KeyEnter)
	require.NotNil(t, cmd)
	assert.Equal(t, PaletteSubmitMsg{Input: "list:upload urls.txt"}, cmd())
	assert.False(t, p.Visible())
}

func TestPaletteRecallsLastCommand(t *testing.T) {
	p := NewPalette(testHints)
	_ = p.Open()
	p = typeText(p, "mode:list")
	p, _ = press(p, tea.KeyEnter)

	_ = p.Open()
	assert.Equal(t, "", p.Value())
	p, _ = press(p, tea.KeyCtrlR)
	assert.Equal(t, "mode:list", p.Value())
}

func TestPaletteEscCancels(t *testing.T) {
	p := NewPalette(testHints)
	_ = p.Open()
	p = typeText(p, "seed")
	p, cmd := press(p, tea.KeyEsc)
	require.NotNil(t, cmd)
	assert.Equal(t, PaletteCancelMsg{}, cmd())
	assert.False(t, p.Visible())
	assert.Empty(t, p.View())
}
