// Package view turns the settings snapshot into a view model that surfaces
// render. Build is pure; RenderHTML is the browser rendering of the model.
package view

import (
	"editorjump/internal/host"
	"editorjump/internal/models"
)

// Text shown by every surface.
const (
	Title                  = "EditorJumper Configurations"
	SelectedGlyph          = "✓"
	CustomSuffix           = " (Custom)"
	ExistsSuffix           = " (Already exists)"
	RemoveDisabledTitle    = "Cannot remove currently selected IDE"
	RootPathLabel          = "JetBrains root project path (optional)"
	RootPathPlaceholder    = "Directory containing .idea (multi-module / multi-root)"
	RootPathNote           = "Leave empty to use workspace folder as project path."
	CommandNoteMac         = "Note: Please provide the command name (e.g., idea, pycharm, webstorm). App paths (.app) are not supported."
	CommandNoteDefault     = "Note: If left empty, system default path will be used if available."
	commandLabelMac        = "Command"
	commandLabelOther      = "Command Path"
	selectLabel            = "Select"
	selectedLabel          = "Selected"
	elementIDPrefix        = "ide-"
	hiddenCheckboxIDPrefix = "hidden-"
)

// Row is one line of the IDE list.
type Row struct {
	Name           string `json:"name"`
	DisplayName    string `json:"displayName"`
	ElementID      string `json:"elementId"`
	HiddenID       string `json:"hiddenId"`
	Custom         bool   `json:"custom"`
	Hidden         bool   `json:"hidden"`
	Selected       bool   `json:"selected"`
	Removable      bool   `json:"removable"`
	RemoveDisabled bool   `json:"removeDisabled"`
	RemoveTitle    string `json:"removeTitle,omitempty"`
	SelectLabel    string `json:"selectLabel"`
	CommandPath    string `json:"commandPath"`
}

// NameOption is one entry of the builtin name selector.
type NameOption struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Disabled bool   `json:"disabled"`
}

// Model is everything a surface needs to draw the configuration page.
type Model struct {
	Title               string        `json:"title"`
	Platform            host.Platform `json:"platform"`
	IsMac               bool          `json:"isMac"`
	CommandLabel        string        `json:"commandLabel"`
	BuiltinCommand      bool          `json:"builtinCommand"` // builtin entries expose a command field
	CommandNote         string        `json:"commandNote"`
	RootPath            string        `json:"rootPath"`
	RootPathPlaceholder string        `json:"rootPathPlaceholder"`
	Selected            string        `json:"selected"`
	Rows                []Row         `json:"rows"`
	NameOptions         []NameOption  `json:"nameOptions"`
	KnownNames          []string      `json:"knownNames"`
	IDEs                []models.IDE  `json:"ides"`
}

// Build computes the view model. It does not touch the store.
func Build(ides []models.IDE, selected string, platform host.Platform, rootPath string) Model {
	if ides == nil {
		ides = []models.IDE{}
	}

	m := Model{
		Title:               Title,
		Platform:            platform,
		IsMac:               platform.IsMac(),
		CommandLabel:        CommandLabel(platform),
		BuiltinCommand:      !platform.IsMac(),
		CommandNote:         CommandNoteDefault,
		RootPath:            rootPath,
		RootPathPlaceholder: RootPathPlaceholder,
		Selected:            selected,
		Rows:                make([]Row, 0, len(ides)),
		NameOptions:         NameOptions(ides, ""),
		KnownNames:          append([]string(nil), models.KnownIDENames...),
		IDEs:                append([]models.IDE{}, ides...),
	}
	if m.IsMac {
		m.CommandNote = CommandNoteMac
	}

	for _, ide := range ides {
		m.Rows = append(m.Rows, BuildRow(ide, selected))
	}
	return m
}

// BuildRow computes the list row for one descriptor.
func BuildRow(ide models.IDE, selected string) Row {
	isSelected := ide.Name == selected
	row := Row{
		Name:        ide.Name,
		DisplayName: ide.DisplayName(),
		ElementID:   elementIDPrefix + ide.Name,
		HiddenID:    hiddenCheckboxIDPrefix + ide.Name,
		Custom:      ide.IsCustom,
		Hidden:      ide.Hidden,
		Selected:    isSelected,
		Removable:   ide.IsCustom,
		SelectLabel: selectLabel,
		CommandPath: ide.CommandPath,
	}
	if isSelected {
		row.SelectLabel = selectedLabel
	}
	if row.Removable && isSelected {
		row.RemoveDisabled = true
		row.RemoveTitle = RemoveDisabledTitle
	}
	return row
}

// NameOptions lists the builtin names, disabling those already used by a
// builtin entry other than editing.
func NameOptions(ides []models.IDE, editing string) []NameOption {
	opts := make([]NameOption, 0, len(models.KnownIDENames))
	for _, name := range models.KnownIDENames {
		disabled := models.HasBuiltin(ides, name, editing)
		label := name
		if disabled {
			label += ExistsSuffix
		}
		opts = append(opts, NameOption{Value: name, Label: label, Disabled: disabled})
	}
	return opts
}

// FirstEnabled returns the first option that can be picked.
func FirstEnabled(opts []NameOption) (NameOption, bool) {
	for _, o := range opts {
		if !o.Disabled {
			return o, true
		}
	}
	return NameOption{}, false
}

// CommandLabel is the label of the command field on platform.
func CommandLabel(platform host.Platform) string {
	if platform.IsMac() {
		return commandLabelMac
	}
	return commandLabelOther
}

// ShowCommandField reports whether the form shows a command field for the
// given entry kind.
func (m Model) ShowCommandField(custom bool) bool {
	return custom || m.BuiltinCommand
}
