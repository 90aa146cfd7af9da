package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit       key.Binding
	Up         key.Binding
	Down       key.Binding
	Prev       key.Binding
	Next       key.Binding
	View       key.Binding
	Hidden     key.Binding
	Search     key.Binding
	PageSize   key.Binding
	Multi      key.Binding
	Select     key.Binding
	Actions    key.Binding
	Open       key.Binding
	Back       key.Binding
	Copy       key.Binding
	Refresh    key.Binding
	Dismiss    key.Binding
	Visibility key.Binding
	Tab        key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Prev:       key.NewBinding(key.WithKeys("left", "["), key.WithHelp("←", "prev page")),
		Next:       key.NewBinding(key.WithKeys("right", "]"), key.WithHelp("→", "next page")),
		View:       key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "view")),
		Hidden:     key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "show hidden")),
		Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		PageSize:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "page size")),
		Multi:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "multi-select")),
		Select:     key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "select")),
		Actions:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "actions")),
		Open:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Copy:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy id")),
		Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Dismiss:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss error")),
		Visibility: key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "hide/show")),
		Tab:        key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next field")),
	}
}

// help renders bindings the way the footer lists them.
func help(bindings ...key.Binding) string {
	out := ""
	for i, b := range bindings {
		if i > 0 {
			out += "  "
		}
		h := b.Help()
		out += "[" + h.Key + "] " + h.Desc
	}
	return out
}
