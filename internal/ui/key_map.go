package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	next       key.Binding
	prev       key.Binding
	submit     key.Binding
	toggle     key.Binding
	switchForm key.Binding
	pane       key.Binding
	search     key.Binding
	logout     key.Binding
	back       key.Binding
	quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		next:       key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		prev:       key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous field")),
		submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		toggle:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle terms")),
		switchForm: key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "sign up / sign in")),
		pane:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "results")),
		search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		logout:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "log out")),
		back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.next, k.prev, k.submit, k.toggle},
		{k.switchForm, k.pane, k.search, k.logout},
		{k.back, k.quit},
	}
}
