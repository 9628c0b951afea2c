package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/model"
)

// listItem adapts a model.Item to bubbles/list.Item.
type listItem struct {
	item model.Item
	busy bool
}

func (i listItem) Title() string       { return i.item.Title }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.item.Title }

// itemDelegate renders one line per item. frame is the spinner frame
// drawn on rows awaiting the server.
type itemDelegate struct {
	frame string
}

func (d itemDelegate) Height() int                         { return 1 }
func (d itemDelegate) Spacing() int                        { return 0 }
func (d itemDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, li list.Item) {
	it, ok := li.(listItem)
	if !ok {
		return
	}

	box := mutedStyle.Render(boxUnchecked)
	text := it.item.Title
	if it.item.Completed {
		box = successStyle.Render(boxChecked)
		text = doneStyle.Render(text)
	}
	if it.busy {
		text = busyStyle.Render(it.item.Title) + " " + pendingStyle.Render(d.frame)
	}

	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render(">") + " "
	}
	fmt.Fprintf(w, "%s%s %s", prefix, box, text)
}
