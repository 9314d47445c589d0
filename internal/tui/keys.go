package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next  key.Binding
	Prev  key.Binding
	Left  key.Binding
	Right key.Binding
	Clear key.Binding
	Quit  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Next:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next filter")),
		Prev:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev filter")),
		Left:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "change value")),
		Right: key.NewBinding(key.WithKeys("right", "l")),
		Clear: key.NewBinding(key.WithKeys("backspace", "x"), key.WithHelp("x", "clear filter")),
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp 实现 help.KeyMap。
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Left, k.Clear, k.Quit}
}

// FullHelp 实现 help.KeyMap。
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
