package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/nestsquare/pkg/core/render/colors"
	"github.com/matzehuels/nestsquare/pkg/dataset"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PresetListModel - Interactive preset selection
// =============================================================================

// PresetListModel is the bubbletea model behind "render -i".
type PresetListModel struct {
	Presets  []dataset.Series
	Cursor   int
	Selected *dataset.Series
	Height   int
	Offset   int
}

// NewPresetListModel creates a list over the given presets.
func NewPresetListModel(presets []dataset.Series) PresetListModel {
	return PresetListModel{Presets: presets, Height: 10}
}

func (m PresetListModel) Init() tea.Cmd {
	return nil
}

func (m PresetListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Presets)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Presets) == 0 {
				return m, tea.Quit
			}
			p := m.Presets[m.Cursor]
			m.Selected = &p
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 3)
	}
	return m, nil
}

func (m PresetListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Preset"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Presets))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		p := m.Presets[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, p.Name, fmt.Sprintf("%d", len(p.Values)), swatches(p), p.Title})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Preset", "Squares", "Colors", "Title").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			// Swatches carry their own background.
			if col == 3 {
				return lipgloss.NewStyle()
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col == 4 {
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Presets))))

	return b.String()
}

// swatches renders one color block per square, outermost first.
func swatches(s dataset.Series) string {
	names, err := s.ResolvedColors()
	if err != nil {
		return "—"
	}
	var b strings.Builder
	for _, name := range names {
		c, err := colors.Parse(name)
		if err != nil {
			b.WriteString("  ")
			continue
		}
		b.WriteString(swatch(colors.Hex(c)))
	}
	return b.String()
}

// pickPreset runs the preset picker and returns the chosen name, or "" when
// the user quit without choosing.
func pickPreset() (string, error) {
	final, err := tea.NewProgram(NewPresetListModel(dataset.Presets())).Run()
	if err != nil {
		return "", fmt.Errorf("preset picker: %w", err)
	}
	m, ok := final.(PresetListModel)
	if !ok || m.Selected == nil {
		return "", nil
	}
	return m.Selected.Name, nil
}
