package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keybindings of the configuration screen
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Tab      key.Binding
	ShiftTab key.Binding
	Space    key.Binding
	Enter    key.Binding
	Escape   key.Binding
	Help     key.Binding
	Quit     key.Binding

	// List actions
	Select   key.Binding // Make the row under the cursor active
	Add      key.Binding // Open the add form
	Edit     key.Binding // Open the edit form for the row
	Remove   key.Binding // Remove a custom row
	Hide     key.Binding // Toggle hidden on the row
	RootPath key.Binding // Focus the root project path field
	Preview  key.Binding // Show the settings file
	Copy     key.Binding // Copy the row's command to the clipboard

	// Form actions
	Save   key.Binding
	Browse key.Binding // Open the path picker for the focused field
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("PgUp", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("PgDn", "page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("Home/g", "first"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("End/G", "last"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Space: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),

		Select: key.NewBinding(
			key.WithKeys("enter", "s"),
			key.WithHelp("enter/s", "select"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add ide"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "remove"),
		),
		Hide: key.NewBinding(
			key.WithKeys("h", " "),
			key.WithHelp("h/space", "hide"),
		),
		RootPath: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "root path"),
		),
		Preview: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "settings file"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy command"),
		),

		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Browse: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "browse"),
		),
	}
}

// ShortHelp returns keybindings to show in short help
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Add, k.Edit, k.Hide, k.Remove, k.Help, k.Quit}
}

// FullHelp returns all keybindings for full help
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		// Navigation
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End},
		// List
		{k.Select, k.Add, k.Edit, k.Hide, k.Remove},
		// Root path & settings
		{k.RootPath, k.Preview, k.Copy},
		// Form
		{k.Tab, k.ShiftTab, k.Space, k.Browse, k.Save, k.Escape},
		// General
		{k.Help, k.Quit},
	}
}

// FormHelp returns the bindings shown while a form is open.
func (k KeyMap) FormHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Space, k.Browse, k.Save, k.Escape}
}
