// Package keymap defines keybindings for the dashboard.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds every dashboard binding.
type KeyMap struct {
	Quit       key.Binding
	Help       key.Binding
	Back       key.Binding
	Search     key.Binding
	Expand     key.Binding
	Up         key.Binding
	Down       key.Binding
	SwitchView key.Binding
	Refresh    key.Binding
	NewSearch  key.Binding
}

// Section is a titled group of bindings on the help screen.
type Section struct {
	Title    string
	Bindings []key.Binding
}

func bind(help, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit:       bind("q", "quit", "q", "ctrl+c"),
		Help:       bind("?", "help", "?"),
		Back:       bind("esc", "back", "esc"),
		Search:     bind("enter", "search", "enter"),
		Expand:     bind("enter", "show content", "enter"),
		Up:         bind("↑/k", "up", "up", "k"),
		Down:       bind("↓/j", "down", "down", "j"),
		SwitchView: bind("tab", "switch view", "tab"),
		Refresh:    bind("r", "poll now", "r"),
		NewSearch:  bind("n", "new search", "n"),
	}
}

// ShortHelp is shown in the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SwitchView, k.Refresh, k.Help, k.Quit}
}

// ResultsHelp is shown in the status bar while search results are listed.
func (k *KeyMap) ResultsHelp() []key.Binding {
	return []key.Binding{k.NewSearch, k.Up, k.Down, k.Back}
}

// Sections lists the bindings for the help screen, grouped by view.
func (k *KeyMap) Sections() []Section {
	return []Section{
		{Title: "Global", Bindings: []key.Binding{k.SwitchView, k.Help, k.Quit}},
		{Title: "Changes", Bindings: []key.Binding{k.Up, k.Down, k.Expand, k.Refresh}},
		{Title: "Search", Bindings: []key.Binding{k.Search, k.NewSearch, k.Back}},
	}
}

type keyName string

func (k keyName) String() string { return string(k) }

// Matches reports whether the pressed key, as given by tea.KeyMsg.String,
// triggers an enabled binding.
func Matches(pressed string, binding key.Binding) bool {
	return key.Matches(keyName(pressed), binding)
}
