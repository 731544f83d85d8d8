// Package picker is an interactive font-provider selector.
package picker

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/brandkit/internal/tokens"
)

// Model lists the font providers and records the user's choice.
type Model struct {
	providers []tokens.FontProvider
	current   string
	cursor    int
	chosen    *tokens.FontProvider
	cancelled bool
	keys      keyMap
	help      help.Model
}

// New creates a picker with the cursor on current.
func New(current string) Model {
	m := Model{
		current: current,
		keys:    defaultKeyMap(),
		help:    help.New(),
	}
	for i, id := range tokens.ProviderIDs {
		m.providers = append(m.providers, tokens.Providers[id])
		if id == current {
			m.cursor = i
		}
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.cancelled = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.providers)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Select):
			p := m.providers[m.cursor]
			m.chosen = &p
			return m, tea.Quit
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.chosen != nil || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Choose a font provider"))
	b.WriteString("\n")
	for i, p := range m.providers {
		label := p.Name
		if p.ID == m.current {
			label += " (current)"
		}
		line := fmt.Sprintf("%s %s", label, detailStyle.Render(describe(p)))
		if i == m.cursor {
			b.WriteString(selectedItemStyle.Render("› " + line))
		} else {
			b.WriteString(itemStyle.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	b.WriteString("\n")
	return b.String()
}

// Selected returns the chosen provider once the user pressed enter.
func (m Model) Selected() (tokens.FontProvider, bool) {
	if m.chosen == nil {
		return tokens.FontProvider{}, false
	}
	return *m.chosen, true
}

// Cancelled reports whether the user quit without choosing.
func (m Model) Cancelled() bool { return m.cancelled }

func describe(p tokens.FontProvider) string {
	switch p.ID {
	case tokens.ProviderLocal:
		return "self-hosted, not loaded automatically"
	case tokens.ProviderSystem:
		return "no stylesheets"
	default:
		return p.BaseURL
	}
}

// Run shows the picker on in/out and returns the chosen provider. ok is
// false when the user cancelled.
func Run(current string, in io.Reader, out io.Writer) (provider tokens.FontProvider, ok bool, err error) {
	final, err := tea.NewProgram(New(current), tea.WithInput(in), tea.WithOutput(out)).Run()
	if err != nil {
		return tokens.FontProvider{}, false, fmt.Errorf("run provider picker: %w", err)
	}
	m, isModel := final.(Model)
	if !isModel {
		return tokens.FontProvider{}, false, nil
	}
	provider, ok = m.Selected()
	return provider, ok, nil
}
