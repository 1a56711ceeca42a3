package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap describes the bindings for the help bar. Dispatch itself happens in
// the input modes.
type keyMap struct {
	Tabs     key.Binding
	Rows     key.Binding
	Pages    key.Binding
	Ends     key.Binding
	Jump     key.Binding
	PageSize key.Binding
	Filter   key.Binding
	Refresh  key.Binding
	Edit     key.Binding
	Fields   key.Binding
	Options  key.Binding
	Submit   key.Binding
	Sample   key.Binding
	Clear    key.Binding
	Resource key.Binding
	Search   key.Binding
	Leave    key.Binding
	Help     key.Binding
	Quit     key.Binding

	// context, set before rendering
	onList     bool
	filterable bool
	editing    bool
	resource   bool
}

func newKeyMap() keyMap {
	return keyMap{
		Tabs:     key.NewBinding(key.WithKeys("1", "2", "3", "tab", "shift+tab"), key.WithHelp("1-3/tab", "switch tab")),
		Rows:     key.NewBinding(key.WithKeys("up", "down", "k", "j"), key.WithHelp("↑/↓", "move")),
		Pages:    key.NewBinding(key.WithKeys("left", "right", "h", "l"), key.WithHelp("←/→", "prev/next page")),
		Ends:     key.NewBinding(key.WithKeys("g", "G", "home", "end"), key.WithHelp("g/G", "first/last page")),
		Jump:     key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "go to page")),
		PageSize: key.NewBinding(key.WithKeys("+", "-"), key.WithHelp("+/-", "items per page")),
		Filter:   key.NewBinding(key.WithKeys("f", "t", "u", "p"), key.WithHelp("f/t/u/p", "all/today/upcoming/past")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Edit:     key.NewBinding(key.WithKeys("enter", "i"), key.WithHelp("enter", "edit form")),
		Fields:   key.NewBinding(key.WithKeys("tab", "shift+tab", "up", "down"), key.WithHelp("tab/↑↓", "field")),
		Options:  key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←/→", "change option")),
		Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "book")),
		Sample:   key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "sample data")),
		Clear:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "clear all")),
		Resource: key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "view FHIR")),
		Search:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "search now")),
		Leave:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "leave form")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	switch {
	case k.onList && k.filterable:
		return []key.Binding{k.Tabs, k.Rows, k.Pages, k.Filter, k.Refresh, k.Help, k.Quit}
	case k.onList:
		return []key.Binding{k.Tabs, k.Rows, k.Pages, k.Refresh, k.Help, k.Quit}
	case k.editing:
		bindings := []key.Binding{k.Fields, k.Options, k.Submit, k.Sample, k.Clear}
		if k.resource {
			bindings = append(bindings, k.Resource)
		}
		return append(bindings, k.Leave)
	default:
		return []key.Binding{k.Tabs, k.Edit, k.Sample, k.Help, k.Quit}
	}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tabs, k.Help, k.Quit},
		{k.Rows, k.Pages, k.Ends, k.Jump, k.PageSize, k.Filter, k.Refresh},
		{k.Edit, k.Fields, k.Options, k.Submit, k.Search, k.Sample, k.Clear, k.Resource, k.Leave},
	}
}
