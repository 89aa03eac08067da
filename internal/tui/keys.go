package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Prev          key.Binding
	Next          key.Binding
	Up            key.Binding
	Down          key.Binding
	Submit        key.Binding
	SwitchTab     key.Binding
	Edit          key.Binding
	Add           key.Binding
	Duplicate     key.Binding
	Delete        key.Binding
	Style         key.Binding
	Custom        key.Binding
	Write         key.Binding
	NewPrompt     key.Binding
	History       key.Binding
	PromptHistory key.Binding
	Save          key.Binding
	Back          key.Binding
	Help          key.Binding
	Quit          key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Prev: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "previous"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "next"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓", "down"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		SwitchTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "preview/editor"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit slide"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add slide"),
		),
		Duplicate: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "duplicate"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete"),
		),
		Style: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "style"),
		),
		Custom: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "custom colour"),
		),
		Write: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "write .pptx"),
		),
		NewPrompt: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new prompt"),
		),
		History: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "history"),
		),
		PromptHistory: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "history"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "quit"),
		),
	}
}

// contextKeys adapts the key map to the bindings valid in one mode.
type contextKeys struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k contextKeys) ShortHelp() []key.Binding  { return k.short }
func (k contextKeys) FullHelp() [][]key.Binding { return k.full }

func (k keyMap) forMode(m mode) contextKeys {
	switch m {
	case modePrompt:
		return contextKeys{
			short: []key.Binding{k.Submit, k.PromptHistory, k.Back},
			full:  [][]key.Binding{{k.Submit, k.PromptHistory, k.Back}},
		}
	case modePreview:
		return contextKeys{
			short: []key.Binding{k.Prev, k.Next, k.SwitchTab, k.Write, k.Help, k.Quit},
			full: [][]key.Binding{
				{k.Prev, k.Next, k.SwitchTab},
				{k.Write, k.NewPrompt, k.History, k.Quit},
			},
		}
	case modeEditor:
		return contextKeys{
			short: []key.Binding{k.Prev, k.Next, k.Edit, k.Style, k.Write, k.Help, k.Quit},
			full: [][]key.Binding{
				{k.Prev, k.Next, k.SwitchTab},
				{k.Edit, k.Add, k.Duplicate, k.Delete, k.Style},
				{k.Write, k.NewPrompt, k.History, k.Quit},
			},
		}
	case modeEditSlide:
		return contextKeys{
			short: []key.Binding{k.Save, k.Back},
			full:  [][]key.Binding{{k.Save, k.Back}},
		}
	case modeStyle:
		return contextKeys{
			short: []key.Binding{k.Up, k.Down, k.Prev, k.Next, k.Custom, k.Back},
			full:  [][]key.Binding{{k.Up, k.Down, k.Prev, k.Next, k.Custom, k.Back}},
		}
	default:
		return contextKeys{
			short: []key.Binding{k.Up, k.Down, k.Submit, k.Back},
			full:  [][]key.Binding{{k.Up, k.Down, k.Submit, k.Back}},
		}
	}
}
