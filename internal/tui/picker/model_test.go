package picker

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/brandkit/internal/tokens"
)

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func TestNewStartsOnCurrentProvider(t *testing.T) {
	m := New(tokens.ProviderLocal)
	assert.Equal(t, 2, m.cursor)

	m = New("unknown")
	assert.Equal(t, 0, m.cursor)
}

func TestNavigateAndSelect(t *testing.T) {
	m := New(tokens.ProviderGoogle)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, m.cursor)

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	p, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, tokens.ProviderBunny, p.ID)
	assert.Empty(t, m.View())
}

func TestCursorStaysInBounds(t *testing.T) {
	m := New(tokens.ProviderGoogle)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.cursor)

	for i := 0; i < 10; i++ {
		m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	assert.Equal(t, len(tokens.ProviderIDs)-1, m.cursor)
}

func TestCancel(t *testing.T) {
	m := New(tokens.ProviderGoogle)
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)

	assert.True(t, m.Cancelled())
	_, ok := m.Selected()
	assert.False(t, ok)

	m = New(tokens.ProviderGoogle)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, m.Cancelled())
}

func TestViewListsProviders(t *testing.T) {
	view := New(tokens.ProviderBunny).View()

	for _, id := range tokens.ProviderIDs {
		assert.Contains(t, view, tokens.Providers[id].Name)
	}
	assert.Contains(t, view, "Bunny Fonts (current)")
	assert.Contains(t, view, "Choose a font provider")
}
