package cli

import (
	"fmt"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/todo"
	"github.com/Makepad-fr/tada/internal/ui"
)

const maxTitleWidth = 80

// row is an item with its 1-based position in the full list, the index
// done/edit/rm expect.
type row struct {
	n  int
	it model.Item
}

func listLines(ctrl *todo.Controller, group bool) []string {
	items := ctrl.Items()
	done := len(ctrl.CompletedIDs())
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		ui.C(ui.Current().Title, "Todos"),
		ui.C(ui.Current().Success, ui.Current().SymDone), done,
		ui.C(ui.Current().Pending, ui.Current().SymUnchecked), ctrl.ActiveCount(),
		ui.C(ui.Current().Accent, "Total"), len(items),
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, ui.C(ui.Current().Muted, ui.ProgressBar(done, len(items), 28)))
	lines = append(lines, "")

	visible := map[int]bool{}
	for _, it := range ctrl.Visible() {
		visible[it.ID] = true
	}
	var rows []row
	for i, it := range items {
		if visible[it.ID] {
			rows = append(rows, row{n: i + 1, it: it})
		}
	}

	if group {
		lines = append(lines, groupLines(rows)...)
	} else {
		lines = append(lines, flatLines(rows)...)
	}
	lines = append(lines, "")
	footer := fmt.Sprintf("%d items left  ·  %s", ctrl.ActiveCount(), ctrl.Filter())
	lines = append(lines, ui.C(ui.Current().Muted, footer))
	if len(items) == 0 {
		lines = append(lines, ui.C(ui.Current().Muted, "Tip: add with `todo add \"Buy milk\"`"))
	}
	return lines
}

func flatLines(rows []row) []string {
	if len(rows) == 0 {
		return []string{ui.C(ui.Current().Muted, "no items")}
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		idx := fmt.Sprintf("%2d.", r.n)
		box := ui.Current().BoxUnchecked
		color := ui.Current().Muted
		if r.it.Completed {
			box, color = ui.Current().BoxChecked, ui.Current().Success
		}
		out = append(out, fmt.Sprintf("%s %s %s",
			ui.Dim(idx), ui.C(color, box), ui.Truncate(r.it.Title, maxTitleWidth)))
	}
	return out
}

func groupLines(rows []row) []string {
	var pend, done []row
	for _, r := range rows {
		if r.it.Completed {
			done = append(done, r)
		} else {
			pend = append(pend, r)
		}
	}
	var lines []string
	lines = append(lines, ui.C(ui.Current().Accent, "Active"))
	if len(pend) == 0 {
		lines = append(lines, ui.C(ui.Current().Muted, "(none)"))
	} else {
		lines = append(lines, flatLines(pend)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(ui.Current().Accent, "Completed"))
	if len(done) == 0 {
		lines = append(lines, ui.C(ui.Current().Muted, "(none)"))
	} else {
		lines = append(lines, flatLines(done)...)
	}
	return lines
}
