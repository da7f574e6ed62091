package panel

import (
	"bytes"
	"encoding/json"
	"fmt"

	"editorjump/internal/models"
)

// Command tags used on the wire.
const (
	CmdAddIDE                   = "addIDE"
	CmdUpdateIDE                = "updateIDE"
	CmdRemoveIDE                = "removeIDE"
	CmdSelectIDE                = "selectIDE"
	CmdSelectPath               = "selectPath"
	CmdSelectPathForRootProject = "selectPathForRootProject"
	CmdSaveRootProjectPath      = "saveRootProjectPath"

	CmdSetPath            = "setPath"
	CmdSetRootProjectPath = "setRootProjectPath"
	CmdHighlightIDE       = "highlightIDE"
)

// Action is a user request coming from a surface. The set of implementations
// is closed; Controller.Handle switches over all of them.
type Action interface {
	Command() string
	isAction()
}

// AddIDE creates or replaces a descriptor by name. Both the add and the edit
// form send it.
type AddIDE struct {
	IDE models.IDE
}

// UpdateIDE merges fields into an existing descriptor.
type UpdateIDE struct {
	Patch models.IDEPatch
}

// RemoveIDE deletes a descriptor.
type RemoveIDE struct {
	Name string
}

// SelectIDE makes a descriptor the active one.
type SelectIDE struct {
	Name string
}

// SelectPath asks for a command file picker; the result comes back as SetPath.
type SelectPath struct {
	IDEType string
}

// SelectPathForRootProject asks for a folder picker and saves the result as root path.
type SelectPathForRootProject struct{}

// SaveRootProjectPath stores Path as root path; nil stores "".
type SaveRootProjectPath struct {
	Path *string
}

func (AddIDE) Command() string                   { return CmdAddIDE }
func (UpdateIDE) Command() string                { return CmdUpdateIDE }
func (RemoveIDE) Command() string                { return CmdRemoveIDE }
func (SelectIDE) Command() string                { return CmdSelectIDE }
func (SelectPath) Command() string               { return CmdSelectPath }
func (SelectPathForRootProject) Command() string { return CmdSelectPathForRootProject }
func (SaveRootProjectPath) Command() string      { return CmdSaveRootProjectPath }

func (AddIDE) isAction()                   {}
func (UpdateIDE) isAction()                {}
func (RemoveIDE) isAction()                {}
func (SelectIDE) isAction()                {}
func (SelectPath) isAction()               {}
func (SelectPathForRootProject) isAction() {}
func (SaveRootProjectPath) isAction()      {}

// Outbound is a message the controller pushes into an open surface.
type Outbound interface {
	Command() string
	isOutbound()
}

// SetPath fills the command field of the open form.
type SetPath struct {
	Path string
}

// SetRootProjectPath fills the root path field.
type SetRootProjectPath struct {
	Path string
}

// HighlightIDE scrolls to a row, marks it and opens it for editing.
type HighlightIDE struct {
	Name string
}

func (SetPath) Command() string            { return CmdSetPath }
func (SetRootProjectPath) Command() string { return CmdSetRootProjectPath }
func (HighlightIDE) Command() string       { return CmdHighlightIDE }

func (SetPath) isOutbound()            {}
func (SetRootProjectPath) isOutbound() {}
func (HighlightIDE) isOutbound()       {}

type envelope struct {
	Command string          `json:"command"`
	IDE     json.RawMessage `json:"ide,omitempty"`
	IDEName string          `json:"ideName,omitempty"`
	IDEType string          `json:"ideType,omitempty"`
	Path    json.RawMessage `json:"path,omitempty"`
}

type wireIDE struct {
	Name        string          `json:"name"`
	IsCustom    json.RawMessage `json:"isCustom"`
	Hidden      json.RawMessage `json:"hidden"`
	CommandPath *string         `json:"commandPath"`
}

// DecodeAction parses a {"command": ...} message. Flags are true only when the
// JSON value is literally true.
func DecodeAction(data []byte) (Action, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}

	switch env.Command {
	case CmdAddIDE:
		w, err := decodeIDE(env.IDE)
		if err != nil {
			return nil, err
		}
		ide := models.IDE{
			Name:     w.Name,
			IsCustom: isTrue(w.IsCustom),
			Hidden:   isTrue(w.Hidden),
		}
		if w.CommandPath != nil {
			ide.CommandPath = *w.CommandPath
		}
		return AddIDE{IDE: ide}, nil

	case CmdUpdateIDE:
		w, err := decodeIDE(env.IDE)
		if err != nil {
			return nil, err
		}
		patch := models.IDEPatch{Name: w.Name, CommandPath: w.CommandPath}
		if len(w.IsCustom) > 0 {
			v := isTrue(w.IsCustom)
			patch.IsCustom = &v
		}
		if len(w.Hidden) > 0 {
			v := isTrue(w.Hidden)
			patch.Hidden = &v
		}
		return UpdateIDE{Patch: patch}, nil

	case CmdRemoveIDE:
		return RemoveIDE{Name: env.IDEName}, nil

	case CmdSelectIDE:
		return SelectIDE{Name: env.IDEName}, nil

	case CmdSelectPath:
		return SelectPath{IDEType: env.IDEType}, nil

	case CmdSelectPathForRootProject:
		return SelectPathForRootProject{}, nil

	case CmdSaveRootProjectPath:
		return SaveRootProjectPath{Path: decodePath(env.Path)}, nil

	case "":
		return nil, fmt.Errorf("decode message: missing command")
	}
	return nil, fmt.Errorf("decode message: unknown command %q", env.Command)
}

func decodeIDE(raw json.RawMessage) (wireIDE, error) {
	var w wireIDE
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return w, fmt.Errorf("decode message: missing ide payload")
	}
	if err := json.Unmarshal(raw, &w); err != nil {
		return w, fmt.Errorf("decode ide payload: %w", err)
	}
	return w, nil
}

func isTrue(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("true"))
}

// decodePath turns any JSON value into a string the way the page would
// stringify it; null or a missing field yields nil.
func decodePath(raw json.RawMessage) *string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return &s
	}
	s = string(raw)
	return &s
}

// EncodeAction renders an action in wire form.
func EncodeAction(a Action) ([]byte, error) {
	msg := map[string]any{"command": a.Command()}
	switch a := a.(type) {
	case AddIDE:
		msg["ide"] = a.IDE
	case UpdateIDE:
		ide := map[string]any{"name": a.Patch.Name}
		if a.Patch.IsCustom != nil {
			ide["isCustom"] = *a.Patch.IsCustom
		}
		if a.Patch.Hidden != nil {
			ide["hidden"] = *a.Patch.Hidden
		}
		if a.Patch.CommandPath != nil {
			ide["commandPath"] = *a.Patch.CommandPath
		}
		msg["ide"] = ide
	case RemoveIDE:
		msg["ideName"] = a.Name
	case SelectIDE:
		msg["ideName"] = a.Name
	case SelectPath:
		msg["ideType"] = a.IDEType
	case SelectPathForRootProject:
	case SaveRootProjectPath:
		if a.Path != nil {
			msg["path"] = *a.Path
		} else {
			msg["path"] = nil
		}
	default:
		return nil, fmt.Errorf("encode action: unknown type %T", a)
	}
	return json.Marshal(msg)
}

// EncodeOutbound renders an outbound message in wire form.
func EncodeOutbound(o Outbound) ([]byte, error) {
	msg := map[string]any{"command": o.Command()}
	switch o := o.(type) {
	case SetPath:
		msg["path"] = o.Path
	case SetRootProjectPath:
		msg["path"] = o.Path
	case HighlightIDE:
		msg["ideName"] = o.Name
	default:
		return nil, fmt.Errorf("encode message: unknown type %T", o)
	}
	return json.Marshal(msg)
}
