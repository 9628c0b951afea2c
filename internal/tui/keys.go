package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Add        key.Binding
	Edit       key.Binding
	Toggle     key.Binding
	Delete     key.Binding
	ToggleAll  key.Binding
	ClearDone  key.Binding
	NextFilter key.Binding
	FilterAll  key.Binding
	FilterAct  key.Binding
	FilterDone key.Binding
	Dismiss    key.Binding
	Quit       key.Binding
	Submit     key.Binding
	Cancel     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Add:        key.NewBinding(key.WithKeys("a", "n"), key.WithHelp("a", "add")),
		Edit:       key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
		Toggle:     key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "done")),
		Delete:     key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		ToggleAll:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle all")),
		ClearDone:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear completed")),
		NextFilter: key.NewBinding(key.WithKeys("f", "tab"), key.WithHelp("f", "filter")),
		FilterAll:  key.NewBinding(key.WithKeys("1")),
		FilterAct:  key.NewBinding(key.WithKeys("2")),
		FilterDone: key.NewBinding(key.WithKeys("3")),
		Dismiss:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Submit:     key.NewBinding(key.WithKeys("enter")),
		Cancel:     key.NewBinding(key.WithKeys("esc")),
	}
}

// help lists the bindings appended to the list's own help.
func (k keyMap) help() []key.Binding {
	return []key.Binding{k.Add, k.Edit, k.Toggle, k.Delete, k.ToggleAll, k.ClearDone, k.NextFilter, k.Dismiss}
}
