package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/avatarshuffle/pkg/suggest"
)

// errCancelled is returned when the user quits a picker.
var errCancelled = errors.New("cancelled")

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PickerModel - Interactive suggestion selection
// =============================================================================

// PickerModel is the bubbletea model for choosing one suggestion.
type PickerModel struct {
	Title    string
	Items    []suggest.Suggestion
	Cursor   int
	Selected *suggest.Suggestion
	Height   int
	Offset   int
}

// NewPickerModel creates a picker over items.
func NewPickerModel(title string, items []suggest.Suggestion) PickerModel {
	return PickerModel{Title: title, Items: items, Height: 10}
}

func (m PickerModel) Init() tea.Cmd {
	return nil
}

func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Items)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Items) == 0 {
				return m, tea.Quit
			}
			item := m.Items[m.Cursor]
			m.Selected = &item
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 3 {
			m.Height = 3
		}
	}
	return m, nil
}

func (m PickerModel) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Items))
	for i := m.Offset; i < end; i++ {
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + m.Items[i].Name))
		} else {
			b.WriteString(listNormalStyle.Render("  " + m.Items[i].Name))
		}
		b.WriteString("\n")
	}

	if len(m.Items) > m.Height {
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Items))))
	}
	return b.String()
}

// runPicker shows items and returns the chosen one. ok is false when the
// user quit without choosing.
func runPicker(title string, items []suggest.Suggestion) (suggest.Suggestion, bool, error) {
	final, err := tea.NewProgram(NewPickerModel(title, items), tea.WithOutput(os.Stderr)).Run()
	if err != nil {
		return suggest.Suggestion{}, false, err
	}
	m := final.(PickerModel)
	if m.Selected == nil {
		return suggest.Suggestion{}, false, nil
	}
	return *m.Selected, true, nil
}
