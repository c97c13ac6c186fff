// Package tui implements the `skypie-oracle inspect` Bubble Tea browser
// for a persisted run: the once-per-run WrapperRecord and its Decision
// records, read back via internal/persist. Adapted from
// internal/ui/model.go's Model/ViewState shape, narrowed from that
// package's live-scan HUD to a static read-only browser.
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/skypie-oracle/precomputer/internal/persist"
)

type ViewState int

const (
	ViewStateList ViewState = iota
	ViewStateDetail
)

// Model browses one worker's persisted output: the wrapper stats plus the
// list of surviving (optimal) Decision records.
type Model struct {
	Wrapper   persist.WrapperRecord
	Decisions []persist.DecisionRecord

	state  ViewState
	cursor int
	width  int
	height int

	quitting bool
}

// NewModel builds a browser over one worker's already-loaded output.
func NewModel(wrapper persist.WrapperRecord, decisions []persist.DecisionRecord) Model {
	return Model{Wrapper: wrapper, Decisions: decisions, state: ViewStateList}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.state == ViewStateDetail {
				m.state = ViewStateList
				return m, nil
			}
			m.quitting = true
			return m, tea.Quit
		case "esc":
			m.state = ViewStateList
			return m, nil
		case "up", "k":
			if m.state == ViewStateList && m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.state == ViewStateList && m.cursor < len(m.Decisions)-1 {
				m.cursor++
			}
		case "enter", " ":
			if m.state == ViewStateList && len(m.Decisions) > 0 {
				m.state = ViewStateDetail
			}
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	hud := m.viewHUD()
	var body string
	switch m.state {
	case ViewStateDetail:
		body = m.viewDetail()
	default:
		body = m.viewList()
	}
	help := subtle.Render(helpLine(m.state))
	return fmt.Sprintf("%s\n%s\n\n%s", hud, body, help)
}

func helpLine(state ViewState) string {
	if state == ViewStateDetail {
		return " [esc/q] back "
	}
	return " [up/down] move  [enter] details  [q] quit "
}
