package cli

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/mindgrid/pkg/errors"
	"github.com/matzehuels/mindgrid/pkg/synth"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
)

// ThemeListModel is the bubbletea model for interactive theme selection.
// Each row shows the theme name and a swatch of its three depth tiers.
type ThemeListModel struct {
	Themes   []string
	Cursor   int
	Selected string
}

// NewThemeListModel creates a theme list over all available themes.
func NewThemeListModel() ThemeListModel {
	return ThemeListModel{Themes: synth.ThemeNames()}
}

func (m ThemeListModel) Init() tea.Cmd {
	return nil
}

func (m ThemeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Themes)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = m.Themes[m.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ThemeListModel) View() string {
	var b strings.Builder
	b.WriteString(StyleDim.Render("Select a theme (enter to confirm, q to cancel)") + "\n\n")

	for i, name := range m.Themes {
		cursor := "  "
		style := listNormalStyle
		if i == m.Cursor {
			cursor = listSelectedStyle.Render("> ")
			style = listSelectedStyle
		}
		b.WriteString(cursor + style.Render(name) + " " + themeSwatch(name) + "\n")
	}
	return b.String()
}

// themeSwatch renders the three tier backgrounds of a theme as colored blocks.
func themeSwatch(name string) string {
	theme, err := synth.LookupTheme(name)
	if err != nil {
		return ""
	}
	var b strings.Builder
	for depth := range 3 {
		tier := theme.Tier(depth)
		b.WriteString(lipgloss.NewStyle().Background(lipgloss.Color(tier.Background)).Render("  "))
	}
	return b.String()
}

// pickTheme runs the interactive theme picker and returns the chosen theme.
func pickTheme() (string, error) {
	final, err := tea.NewProgram(NewThemeListModel()).Run()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "theme picker")
	}
	m, ok := final.(ThemeListModel)
	if !ok || m.Selected == "" {
		return "", errors.New(errors.ErrCodeInvalidInput, "no theme selected")
	}
	return m.Selected, nil
}
