package prompt

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Limit caps how many matches a select prompt shows at once
const Limit = 40

// Choice is one entry of a select prompt
type Choice struct {
	Title       string
	Description string
}

// Filter returns the indexes of choices whose title contains query, ignoring
// case, in their original order and at most limit of them.
func Filter(choices []Choice, query string, limit int) []int {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]int, 0, min(len(choices), limit))
	for i, c := range choices {
		if len(out) >= limit {
			break
		}
		if q == "" || strings.Contains(strings.ToLower(c.Title), q) {
			out = append(out, i)
		}
	}
	return out
}

type selectModel struct {
	title     string
	choices   []Choice
	filter    textinput.Model
	matches   []int
	cursor    int
	chosen    int
	cancelled bool
}

func newSelectModel(title string, choices []Choice) selectModel {
	ti := textinput.New()
	ti.Placeholder = "type to filter"
	ti.Prompt = "> "
	ti.Focus()

	return selectModel{
		title:   title,
		choices: choices,
		filter:  ti,
		matches: Filter(choices, "", Limit),
		chosen:  -1,
	}
}

func (m selectModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case "ctrl+c", "esc":
		m.cancelled = true
		return m, tea.Quit
	case "enter":
		if len(m.matches) == 0 {
			return m, nil
		}
		m.chosen = m.matches[m.cursor]
		return m, tea.Quit
	case "up", "ctrl+p", "shift+tab":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "ctrl+n", "tab":
		if m.cursor < len(m.matches)-1 {
			m.cursor++
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.matches = Filter(m.choices, m.filter.Value(), Limit)
	if m.cursor >= len(m.matches) {
		m.cursor = max(len(m.matches)-1, 0)
	}
	return m, cmd
}

func (m selectModel) View() string {
	if m.chosen >= 0 || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(m.filter.View())
	b.WriteString("\n")

	if len(m.matches) == 0 {
		b.WriteString(helpStyle.Render("  no matches"))
		b.WriteString("\n")
	}
	for i, idx := range m.matches {
		c := m.choices[idx]
		line := normalItemStyle.Render(c.Title)
		marker := "  "
		if i == m.cursor {
			marker = cursorStyle.Render("❯ ")
			line = selectedItemStyle.Render(c.Title)
		}
		if c.Description != "" {
			line += " " + descriptionStyle.Render(c.Description)
		}
		b.WriteString(marker + line + "\n")
	}

	b.WriteString(helpStyle.Render(fmt.Sprintf("↑/↓ move • enter select • esc cancel (%d/%d)", len(m.matches), len(m.choices))))
	b.WriteString("\n")
	return b.String()
}
