package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/eivindmo/statbank/internal/ssb"
)

const listRows = 10

// varState tracks cursor, filter and selection for one variable. The
// selected slice keeps option indexes in toggle order; visible maps
// list positions to option indexes after filtering. Both refer into
// the variable's option slice, so the label/value alignment of the
// underlying metadata is never disturbed.
type varState struct {
	options  []ssb.Option
	cursor   int
	filter   string
	visible  []int
	selected []int
	isSet    map[int]bool
}

func newVarState(options []ssb.Option) varState {
	st := varState{
		options: options,
		isSet:   make(map[int]bool),
	}
	st.applyFilter("")
	return st
}

func (st *varState) applyFilter(filter string) {
	st.filter = filter
	st.visible = st.visible[:0]
	needle := strings.ToLower(strings.TrimSpace(filter))
	for i, opt := range st.options {
		if needle == "" ||
			strings.Contains(strings.ToLower(opt.Label), needle) ||
			strings.Contains(strings.ToLower(opt.Value), needle) {
			st.visible = append(st.visible, i)
		}
	}
	if st.cursor >= len(st.visible) {
		st.cursor = 0
	}
}

// toggle flips the option under the cursor. Newly chosen options are
// appended, so selection order is toggle order.
func (st *varState) toggle() {
	if st.cursor >= len(st.visible) {
		return
	}
	idx := st.visible[st.cursor]
	if st.isSet[idx] {
		delete(st.isSet, idx)
		for i, sel := range st.selected {
			if sel == idx {
				st.selected = append(st.selected[:i], st.selected[i+1:]...)
				break
			}
		}
		return
	}
	st.isSet[idx] = true
	st.selected = append(st.selected, idx)
}

func (st *varState) selectAll() {
	st.selected = st.selected[:0]
	st.isSet = make(map[int]bool)
	for i := range st.options {
		st.selected = append(st.selected, i)
		st.isSet[i] = true
	}
}

func (st *varState) clear() {
	st.selected = st.selected[:0]
	st.isSet = make(map[int]bool)
}

func (st *varState) values() []string {
	vals := make([]string, 0, len(st.selected))
	for _, idx := range st.selected {
		vals = append(vals, st.options[idx].Value)
	}
	return vals
}

// Model is the bubbletea state for the selection surface. It performs
// no I/O; it only captures the user's choices per variable.
type Model struct {
	table  *ssb.Table
	keys   keyMap
	styles Styles

	active int
	vars   []varState

	filtering   bool
	filterInput textinput.Model

	confirmed bool
	aborted   bool
	width     int
}

// New builds the selection model for a resolved table.
func New(table *ssb.Table) Model {
	vars := make([]varState, 0, len(table.Variables))
	for _, v := range table.Variables {
		vars = append(vars, newVarState(v.Options()))
	}

	input := textinput.New()
	input.Placeholder = "filter values"
	input.CharLimit = 64

	return Model{
		table:       table,
		keys:        defaultKeyMap(),
		styles:      defaultStyles(),
		vars:        vars,
		filterInput: input,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFiltering(msg)
		}
		return m.updateBrowsing(msg)
	}
	return m, nil
}

func (m Model) updateFiltering(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		if msg.Type == tea.KeyEsc {
			m.filterInput.SetValue("")
			m.vars[m.active].applyFilter("")
		}
		m.filtering = false
		m.filterInput.Blur()
		return m, nil
	case tea.KeyCtrlC:
		m.aborted = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.vars[m.active].applyFilter(m.filterInput.Value())
	return m, cmd
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := &m.vars[m.active]

	switch {
	case key.Matches(msg, m.keys.Abort):
		m.aborted = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Confirm):
		m.confirmed = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.NextVar):
		m.active = (m.active + 1) % len(m.vars)
		m.syncFilterInput()

	case key.Matches(msg, m.keys.PrevVar):
		m.active = (m.active - 1 + len(m.vars)) % len(m.vars)
		m.syncFilterInput()

	case key.Matches(msg, m.keys.Up):
		if st.cursor > 0 {
			st.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if st.cursor < len(st.visible)-1 {
			st.cursor++
		}

	case key.Matches(msg, m.keys.Top):
		st.cursor = 0

	case key.Matches(msg, m.keys.Bottom):
		if len(st.visible) > 0 {
			st.cursor = len(st.visible) - 1
		}

	case key.Matches(msg, m.keys.Toggle):
		st.toggle()

	case key.Matches(msg, m.keys.All):
		st.selectAll()

	case key.Matches(msg, m.keys.None):
		st.clear()

	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		m.filterInput.SetValue(st.filter)
		m.filterInput.Focus()
		return m, textinput.Blink
	}
	return m, nil
}

func (m *Model) syncFilterInput() {
	m.filterInput.SetValue(m.vars[m.active].filter)
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Header.Render(m.table.Title))
	b.WriteString("\n\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(m.styles.Border.Render(m.renderList()))
	b.WriteString("\n")

	if m.filtering {
		b.WriteString(m.styles.Filter.Render("/ " + m.filterInput.View()))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Footer.Render(m.table.MetadataURL))
	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render(
		"space toggle · a all · n none · / filter · tab next variable · enter done · q abort"))
	return b.String()
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, len(m.vars))
	for i, v := range m.table.Variables {
		label := fmt.Sprintf("%s (%d/%d)", v.Text, len(m.vars[i].selected), len(m.vars[i].options))
		if i == m.active {
			tabs = append(tabs, m.styles.TabActive.Render(label))
		} else {
			tabs = append(tabs, m.styles.TabIdle.Render(label))
		}
	}
	return strings.Join(tabs, " ")
}

func (m Model) renderList() string {
	st := m.vars[m.active]
	if len(st.visible) == 0 {
		return m.styles.Muted.Render("no values match the filter")
	}

	start := 0
	if st.cursor >= listRows {
		start = st.cursor - listRows + 1
	}
	end := start + listRows
	if end > len(st.visible) {
		end = len(st.visible)
	}

	var lines []string
	for pos := start; pos < end; pos++ {
		idx := st.visible[pos]
		opt := st.options[idx]

		cursor := "  "
		if pos == st.cursor {
			cursor = m.styles.Cursor.Render("> ")
		}
		mark := "[ ]"
		style := m.styles.Option
		if st.isSet[idx] {
			mark = "[x]"
			style = m.styles.Selected
		}
		lines = append(lines, cursor+style.Render(mark+" "+opt.Label)+
			m.styles.Muted.Render("  "+opt.Value))
	}

	if len(st.visible) > listRows {
		lines = append(lines, m.styles.Muted.Render(
			fmt.Sprintf("%d–%d of %d", start+1, end, len(st.visible))))
	}
	return strings.Join(lines, "\n")
}

// Aborted reports whether the user left without confirming.
func (m Model) Aborted() bool { return m.aborted }

// Confirmed reports whether the user confirmed the selection.
func (m Model) Confirmed() bool { return m.confirmed }

// Selections returns the chosen machine values per variable, one entry
// per table variable in table order, empty entries included.
func (m Model) Selections() []ssb.Selection {
	selections := make([]ssb.Selection, 0, len(m.vars))
	for i, v := range m.table.Variables {
		selections = append(selections, ssb.Selection{
			Code:   v.Code,
			Values: m.vars[i].values(),
		})
	}
	return selections
}
