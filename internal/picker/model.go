package picker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
	"github.com/sahilm/fuzzy"
)

// regenLabel is the extra row offered below the candidates.
const regenLabel = "Regenerate messages"

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Cancel key.Binding
	Nums   [9]key.Binding
}

func newKeyMap(opts Options) keyMap {
	upKeys := []string{"up"}
	downKeys := []string{"down"}
	if opts.Vim {
		upKeys = append(upKeys, "k")
		downKeys = append(downKeys, "j")
	}
	cancelKeys := []string{"esc", "ctrl+c"}
	if !opts.fuzzy() {
		// "q" is reserved for the filter input in fuzzy mode
		cancelKeys = append(cancelKeys, "q")
	}

	km := keyMap{
		Up: key.NewBinding(
			key.WithKeys(upKeys...),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys(downKeys...),
			key.WithHelp("↓", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Cancel: key.NewBinding(
			key.WithKeys(cancelKeys...),
			key.WithHelp("esc", "cancel"),
		),
	}
	for i := 0; i < 9; i++ {
		km.Nums[i] = key.NewBinding(key.WithKeys(fmt.Sprintf("%d", i+1)))
		km.Nums[i].SetEnabled(opts.Numeric)
	}
	return km
}

// Model is the Bubble Tea model for the commit message selector.
type Model struct {
	candidates []string
	opts       Options
	keys       keyMap
	filter     textinput.Model

	// visible maps display rows to candidate indices; len(candidates)
	// is the regenerate sentinel and is always the last row.
	visible []int
	cursor  int

	result Result
	done   bool

	width  int
	height int
}

// New creates a selector model over the candidate messages.
func New(candidates []string, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "Type to filter..."
	ti.CharLimit = 60
	ti.Width = 40
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#cba6f7"))
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#cdd6f4"))
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7086"))
	if opts.fuzzy() {
		ti.Focus()
	}

	m := Model{
		candidates: candidates,
		opts:       opts,
		keys:       newKeyMap(opts),
		filter:     ti,
		width:      80,
		height:     24,
	}
	m.updateVisible()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.opts.fuzzy() {
		return textinput.Blink
	}
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.result = Result{Outcome: OutcomeCancelled}
			m.done = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.visible)-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, m.keys.Select):
			if len(m.visible) > 0 {
				m.pick(m.visible[m.cursor])
				return m, tea.Quit
			}
			return m, nil
		}

		for i := range m.keys.Nums {
			if key.Matches(msg, m.keys.Nums[i]) {
				if i < len(m.visible) {
					m.pick(m.visible[i])
					return m, tea.Quit
				}
				return m, nil
			}
		}
	}

	if m.opts.fuzzy() {
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.updateVisible()
		return m, cmd
	}
	return m, nil
}

func (m *Model) pick(idx int) {
	m.done = true
	if idx == len(m.candidates) {
		m.result = Result{Outcome: OutcomeRegenerate}
		return
	}
	m.result = Result{Outcome: OutcomeSelected, Index: idx, Message: m.candidates[idx]}
}

// updateVisible recomputes the display rows from the filter query.
// The regenerate row never filters out.
func (m *Model) updateVisible() {
	query := strings.TrimSpace(m.filter.Value())
	if query == "" {
		m.visible = make([]int, 0, len(m.candidates)+1)
		for i := range m.candidates {
			m.visible = append(m.visible, i)
		}
	} else {
		matches := fuzzy.Find(query, m.candidates)
		m.visible = make([]int, 0, len(matches)+1)
		for _, match := range matches {
			m.visible = append(m.visible, match.Index)
		}
	}
	m.visible = append(m.visible, len(m.candidates))
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.done {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#cba6f7"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7086"))
	textStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#cdd6f4"))
	pointerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f5c2e7"))
	regenStyle := lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#94e2d5"))

	boxWidth := m.width - 4
	if boxWidth > 72 {
		boxWidth = 72
	}
	if boxWidth < 20 {
		boxWidth = 20
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(headerStyle.Render("  Select a commit message") + "\n")
	b.WriteString(dimStyle.Render("  "+strings.Repeat("─", boxWidth)) + "\n")

	if m.opts.fuzzy() {
		b.WriteString("  " + m.filter.View() + "\n")
	}
	b.WriteString("\n")

	for row, idx := range m.visible {
		var line strings.Builder
		if row == m.cursor {
			line.WriteString(pointerStyle.Render("❯ "))
		} else {
			line.WriteString("  ")
		}
		if m.opts.Numeric && row < 9 {
			line.WriteString(dimStyle.Render(fmt.Sprintf("%d ", row+1)))
		}

		if idx == len(m.candidates) {
			line.WriteString(regenStyle.Render(regenLabel))
		} else {
			text := runewidth.Truncate(m.candidates[idx], boxWidth-4, "…")
			if row == m.cursor {
				line.WriteString(pointerStyle.Render(text))
			} else {
				line.WriteString(textStyle.Render(text))
			}
		}
		b.WriteString("  " + line.String() + "\n")
	}

	// Full text of the highlighted candidate, wrapped, in case the row
	// above had to be truncated to fit.
	if idx := m.visible[m.cursor]; idx < len(m.candidates) {
		full := m.candidates[idx]
		if runewidth.StringWidth(full) > boxWidth-4 {
			b.WriteString("\n")
			for _, l := range strings.Split(wordwrap.String(full, boxWidth-4), "\n") {
				b.WriteString("  " + dimStyle.Render(l) + "\n")
			}
		}
	}

	b.WriteString(dimStyle.Render("  "+strings.Repeat("─", boxWidth)) + "\n")

	keyStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#cba6f7"))
	help := []string{
		keyStyle.Render("↑/↓") + dimStyle.Render(" navigate"),
		keyStyle.Render("enter") + dimStyle.Render(" select"),
		keyStyle.Render("esc") + dimStyle.Render(" cancel"),
	}
	if m.opts.Vim {
		help[0] = keyStyle.Render("j/k") + dimStyle.Render(" navigate")
	}
	if m.opts.Numeric {
		help = append([]string{keyStyle.Render("1-9") + dimStyle.Render(" quick select")}, help...)
	}
	b.WriteString("  " + strings.Join(help, dimStyle.Render(" • ")) + "\n")

	return b.String()
}

// Result returns the terminal outcome once the program has quit.
func (m Model) Result() Result {
	if !m.done {
		return Result{Outcome: OutcomeCancelled}
	}
	return m.result
}
