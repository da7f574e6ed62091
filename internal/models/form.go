package models

import (
	"errors"
	"strings"
)

var (
	ErrNameRequired    = errors.New("please provide an IDE name")
	ErrCommandRequired = errors.New("please provide a command name or path")
)

// FormInput is what the user entered in the add/edit form.
type FormInput struct {
	Custom       bool
	SelectedName string // Known product picked in the name selector
	CustomName   string // Free text, used when Custom is set
	Hidden       bool
	Command      string
}

// Name returns the name field that applies to the current mode.
func (in FormInput) Name() string {
	if in.Custom {
		return in.CustomName
	}
	return in.SelectedName
}

// BuildIDE validates the form and packages it as a descriptor payload.
// restricted is set on platforms where only custom entries carry a command;
// there a non-custom entry always gets an empty command.
func BuildIDE(in FormInput, restricted bool) (IDE, error) {
	name := in.Name()
	command := in.Command

	switch {
	case restricted && !in.Custom:
		command = ""
	case !in.Custom && command == "":
		// builtin product falls back to the platform default
	case in.Custom && strings.TrimSpace(command) == "":
		return IDE{}, ErrCommandRequired
	}

	if name == "" {
		return IDE{}, ErrNameRequired
	}
	if in.Custom && strings.TrimSpace(name) == "" {
		return IDE{}, ErrNameRequired
	}

	return IDE{
		Name:        name,
		IsCustom:    in.Custom,
		Hidden:      in.Hidden,
		CommandPath: command,
	}, nil
}
