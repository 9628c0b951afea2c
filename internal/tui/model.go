// Package tui is the interactive Bubble Tea view over a todo.Controller.
// Every controller mutation happens inside Update; network halves run as
// commands and come back as outcomeMsg.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/clock"
	"github.com/Makepad-fr/tada/internal/todo"
)

type outcomeMsg struct{ outcome todo.Outcome }

// noticeExpiredMsg fires NoticeTTL after the notice of generation gen was raised.
type noticeExpiredMsg struct{ gen uint64 }

type modelTUI struct {
	ctrl  *todo.Controller
	clock clock.Clock
	log   *log.Logger
	keys  keyMap

	list list.Model
	spin spinner.Model
	ti   textinput.Model // shared text input (add & edit)

	adding  bool
	editing bool
	editID  int

	// scheduled is the notice generation whose expiry is already waiting.
	scheduled uint64

	width, height int

	// exec turns a task into a command.
	exec func(todo.Task) tea.Cmd
}

func newModel(ctx context.Context, ctrl *todo.Controller, opts Options) modelTUI {
	clk := opts.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	keys := defaultKeys()

	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.AdditionalShortHelpKeys = keys.help
	l.AdditionalFullHelpKeys = keys.help

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = pendingStyle

	m := modelTUI{
		ctrl:   ctrl,
		clock:  clk,
		log:    logger,
		keys:   keys,
		list:   l,
		spin:   sp,
		ti:     ti,
		width:  80,
		height: 24,
	}
	m.exec = func(t todo.Task) tea.Cmd {
		return func() tea.Msg { return outcomeMsg{t(ctx)} }
	}
	m.resize()
	m.refresh()
	return m
}

func (m modelTUI) Init() tea.Cmd {
	return tea.Batch(m.dispatch(m.ctrl.Load()), m.spin.Tick)
}

func (m modelTUI) dispatch(tasks ...todo.Task) tea.Cmd {
	var cmds []tea.Cmd
	for _, t := range tasks {
		if t == nil {
			continue
		}
		cmds = append(cmds, m.exec(t))
	}
	return tea.Batch(cmds...)
}

func (m modelTUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
	case outcomeMsg:
		m.ctrl.Apply(msg.outcome)
		m.afterOutcome()
	case noticeExpiredMsg:
		m.ctrl.ExpireNotice(msg.gen)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)
	case tea.KeyMsg:
		var cmd tea.Cmd
		switch {
		case m.adding:
			m, cmd = m.updateAdding(msg)
		case m.editing:
			m, cmd = m.updateEditing(msg)
		default:
			m, cmd = m.updateList(msg)
		}
		cmds = append(cmds, cmd)
	}

	m.resize()
	m.refresh()
	cmds = append(cmds, m.scheduleExpiry())
	return m, tea.Batch(cmds...)
}

// afterOutcome keeps the add input in step with the controller draft: a
// successful create clears it, and the input reopens once the placeholder
// is gone.
func (m *modelTUI) afterOutcome() {
	if !m.adding {
		return
	}
	if m.ti.Value() != m.ctrl.Draft() {
		m.ti.SetValue(m.ctrl.Draft())
	}
	if _, pending := m.ctrl.Placeholder(); !pending && !m.ti.Focused() {
		m.ti.Focus()
	}
}

func (m *modelTUI) scheduleExpiry() tea.Cmd {
	gen := m.ctrl.NoticeGeneration()
	if gen == m.scheduled {
		return nil
	}
	m.scheduled = gen
	if m.ctrl.Notice() == "" {
		return nil
	}
	clk := m.clock
	return func() tea.Msg {
		<-clk.After(todo.NoticeTTL)
		return noticeExpiredMsg{gen: gen}
	}
}

func (m modelTUI) updateAdding(msg tea.KeyMsg) (modelTUI, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.adding = false
		m.ti.Blur()
		// A pending create still owns the draft; it is cleared only on success.
		if _, pending := m.ctrl.Placeholder(); !pending {
			m.ti.SetValue("")
			m.ctrl.SetDraft("")
		}
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		if _, pending := m.ctrl.Placeholder(); pending {
			return m, nil
		}
		task := m.ctrl.Create(m.ti.Value())
		if task == nil {
			return m, nil
		}
		m.ti.Blur()
		return m, m.dispatch(task)
	}
	if !m.ti.Focused() {
		return m, nil
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	m.ctrl.SetDraft(m.ti.Value())
	return m, cmd
}

func (m modelTUI) updateEditing(msg tea.KeyMsg) (modelTUI, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.editing = false
		m.ti.SetValue("")
		m.ti.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		id, title := m.editID, m.ti.Value()
		m.editing = false
		m.ti.SetValue("")
		m.ti.Blur()
		if it, ok := m.ctrl.Item(id); ok && it.Title == strings.TrimSpace(title) {
			return m, nil
		}
		return m, m.dispatch(m.ctrl.Rename(id, title))
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m modelTUI) updateList(msg tea.KeyMsg) (modelTUI, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.log.Debug("quit", "inflight", len(m.ctrl.InFlight()))
		m.ctrl.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Dismiss):
		m.ctrl.DismissNotice()
		return m, nil
	case key.Matches(msg, m.keys.Add):
		m.adding = true
		m.ti.SetValue(m.ctrl.Draft())
		m.ti.CursorEnd()
		m.ti.Placeholder = "What needs to be done?"
		if _, pending := m.ctrl.Placeholder(); !pending {
			m.ti.Focus()
		}
		return m, nil
	case key.Matches(msg, m.keys.Edit):
		if id, ok := m.selected(); ok {
			it, _ := m.ctrl.Item(id)
			m.editing = true
			m.editID = id
			m.ti.SetValue(it.Title)
			m.ti.CursorEnd()
			m.ti.Placeholder = "Empty title deletes the item"
			m.ti.Focus()
		}
		return m, nil
	case key.Matches(msg, m.keys.Toggle):
		if id, ok := m.selected(); ok {
			return m, m.dispatch(m.ctrl.ToggleCompleted(id))
		}
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		if id, ok := m.selected(); ok {
			return m, m.dispatch(m.ctrl.Remove(id))
		}
		return m, nil
	case key.Matches(msg, m.keys.ToggleAll):
		if !m.ctrl.ToggleAllVisible() {
			return m, nil
		}
		return m, m.dispatch(m.ctrl.ToggleAll())
	case key.Matches(msg, m.keys.ClearDone):
		var ids []int
		for _, id := range m.ctrl.CompletedIDs() {
			if !m.ctrl.Busy(id) {
				ids = append(ids, id)
			}
		}
		return m, m.dispatch(m.ctrl.ClearCompleted(ids)...)
	case key.Matches(msg, m.keys.NextFilter):
		m.ctrl.SetFilter(m.ctrl.Filter().Next())
		m.list.Select(0)
		return m, nil
	case key.Matches(msg, m.keys.FilterAll):
		m.ctrl.SetFilter(todo.FilterAll)
		return m, nil
	case key.Matches(msg, m.keys.FilterAct):
		m.ctrl.SetFilter(todo.FilterActive)
		return m, nil
	case key.Matches(msg, m.keys.FilterDone):
		m.ctrl.SetFilter(todo.FilterCompleted)
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// selected returns the id under the cursor when it is a confirmed item
// with no request pending.
func (m modelTUI) selected() (int, bool) {
	li, ok := m.list.SelectedItem().(listItem)
	if !ok || li.item.IsPlaceholder() || li.busy {
		return 0, false
	}
	return li.item.ID, true
}

// refresh re-derives the list rows from the controller.
func (m *modelTUI) refresh() {
	visible := m.ctrl.Visible()
	rows := make([]list.Item, 0, len(visible)+1)
	for _, it := range visible {
		rows = append(rows, listItem{item: it, busy: m.ctrl.Busy(it.ID)})
	}
	if ph, ok := m.ctrl.Placeholder(); ok {
		rows = append(rows, listItem{item: ph, busy: true})
	}
	m.list.SetDelegate(itemDelegate{frame: m.spin.View()})
	m.list.SetItems(rows)
	if n := len(rows); n > 0 && m.list.Index() >= n {
		m.list.Select(n - 1)
	}
}

func (m *modelTUI) resize() {
	h := m.height - 8
	if m.adding || m.editing {
		h -= 3
	}
	if h < 3 {
		h = 3
	}
	m.list.SetSize(m.width-4, h)
}

func (m modelTUI) View() string {
	if !m.ctrl.Loaded() {
		return panelString(fmt.Sprintf("%s Loading items…", m.spin.View()))
	}

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")
	if len(m.ctrl.Items()) == 0 {
		if _, pending := m.ctrl.Placeholder(); !pending {
			b.WriteString(mutedStyle.Render("Nothing to do. Press a to add an item."))
			b.WriteString("\n")
		}
	}
	b.WriteString(m.list.View())

	if m.adding || m.editing {
		bar := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderColor).Padding(0, 1)
		title := "Add new item"
		if m.editing {
			title = "Edit item"
		} else if _, pending := m.ctrl.Placeholder(); pending {
			title += " " + pendingStyle.Render(m.spin.View()+" saving")
		}
		b.WriteString("\n")
		b.WriteString(bar.Render(title + "\n" + m.ti.View()))
	}

	if len(m.ctrl.Items()) > 0 {
		b.WriteString("\n")
		b.WriteString(m.footer())
	}
	if text := m.ctrl.Notice(); text != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("✖ "+text) + mutedStyle.Render("  (esc to dismiss)"))
	}
	return panelString(b.String())
}

func (m modelTUI) header() string {
	items := m.ctrl.Items()
	done := len(m.ctrl.CompletedIDs())
	h := fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		titleStyle.Render("todos"),
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), m.ctrl.ActiveCount(),
		accentStyle.Render("Total"), len(items),
	)
	if m.ctrl.ToggleAllVisible() {
		label := "mark all done"
		if m.ctrl.AllCompleted() {
			label = "mark all active"
		}
		h += "   " + mutedStyle.Render("t "+label)
	}
	return h
}

func (m modelTUI) footer() string {
	left := fmt.Sprintf("%d items left", m.ctrl.ActiveCount())
	if m.ctrl.ActiveCount() == 1 {
		left = "1 item left"
	}
	parts := []string{mutedStyle.Render(left)}
	for _, f := range todo.Filters {
		if f == m.ctrl.Filter() {
			parts = append(parts, accentStyle.Underline(true).Render(f.String()))
		} else {
			parts = append(parts, mutedStyle.Render(f.String()))
		}
	}
	if len(m.ctrl.CompletedIDs()) > 0 {
		parts = append(parts, mutedStyle.Render("c clear completed"))
	}
	return strings.Join(parts, "  ")
}
