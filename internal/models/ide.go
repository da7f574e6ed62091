package models

import (
	"errors"
	"strings"
)

// IDE is one launch target in the ordered configuration list, keyed by Name.
type IDE struct {
	Name        string `yaml:"name" json:"name"`
	IsCustom    bool   `yaml:"isCustom" json:"isCustom"`
	Hidden      bool   `yaml:"hidden" json:"hidden"`
	CommandPath string `yaml:"commandPath" json:"commandPath"` // Empty = platform default
}

// IDEPatch carries the fields of an updateIDE request.
// Nil pointers mean the field was not sent.
type IDEPatch struct {
	Name        string
	IsCustom    *bool
	Hidden      *bool
	CommandPath *string
}

// KnownIDENames are the product names a non-custom entry may use, in display order.
var KnownIDENames = []string{
	"IDEA",
	"WebStorm",
	"PyCharm",
	"GoLand",
	"CLion",
	"PhpStorm",
	"RubyMine",
	"Rider",
	"Android Studio",
}

var (
	// ErrDuplicateIDE is returned when a non-custom name is already taken by another entry.
	ErrDuplicateIDE = errors.New("ide already exists")
	// ErrRemoveSelected is returned when removing the active entry.
	ErrRemoveSelected = errors.New("cannot remove currently selected ide")
)

// IsKnownIDEName reports whether name is one of KnownIDENames.
func IsKnownIDEName(name string) bool {
	for _, n := range KnownIDENames {
		if n == name {
			return true
		}
	}
	return false
}

// DefaultIDEs returns one visible non-custom entry per known product.
func DefaultIDEs() []IDE {
	ides := make([]IDE, 0, len(KnownIDENames))
	for _, name := range KnownIDENames {
		ides = append(ides, IDE{Name: name})
	}
	return ides
}

// FindIndex returns the index of the first entry named name, or -1.
func FindIndex(ides []IDE, name string) int {
	for i, ide := range ides {
		if ide.Name == name {
			return i
		}
	}
	return -1
}

// Find returns the first entry named name.
func Find(ides []IDE, name string) (IDE, bool) {
	if i := FindIndex(ides, name); i >= 0 {
		return ides[i], true
	}
	return IDE{}, false
}

// HasBuiltin reports whether a non-custom entry named name exists,
// ignoring the entry currently being edited.
func HasBuiltin(ides []IDE, name, editing string) bool {
	for _, ide := range ides {
		if !ide.IsCustom && ide.Name == name && ide.Name != editing {
			return true
		}
	}
	return false
}

// Upsert replaces every entry named ide.Name with ide, or appends it when
// none exists. A non-custom payload is rejected with ErrDuplicateIDE when a
// non-custom entry of the same name sits anywhere other than the first match,
// so an entry editing itself never collides.
func Upsert(ides []IDE, ide IDE) ([]IDE, error) {
	existing := FindIndex(ides, ide.Name)

	if !ide.IsCustom {
		for i, other := range ides {
			if !other.IsCustom && other.Name == ide.Name && i != existing {
				return ides, ErrDuplicateIDE
			}
		}
	}

	out := make([]IDE, 0, len(ides)+1)
	if existing < 0 {
		out = append(out, ides...)
		return append(out, ide), nil
	}

	for _, other := range ides {
		if other.Name == ide.Name {
			out = append(out, ide)
			continue
		}
		out = append(out, other)
	}
	return out, nil
}

// Merge applies patch to every entry named patch.Name. The boolean flags are
// strict: a flag that was not sent becomes false.
func Merge(ides []IDE, patch IDEPatch) []IDE {
	out := make([]IDE, len(ides))
	for i, ide := range ides {
		if ide.Name == patch.Name {
			if patch.CommandPath != nil {
				ide.CommandPath = *patch.CommandPath
			}
			ide.IsCustom = patch.IsCustom != nil && *patch.IsCustom
			ide.Hidden = patch.Hidden != nil && *patch.Hidden
		}
		out[i] = ide
	}
	return out
}

// Remove filters out every entry named name. The active entry cannot be removed.
func Remove(ides []IDE, name, selected string) ([]IDE, error) {
	if name == selected {
		return ides, ErrRemoveSelected
	}

	out := make([]IDE, 0, len(ides))
	for _, ide := range ides {
		if ide.Name != name {
			out = append(out, ide)
		}
	}
	return out, nil
}

// FirstVisible returns the first entry that is not hidden.
func FirstVisible(ides []IDE) (IDE, bool) {
	for _, ide := range ides {
		if !ide.Hidden {
			return ide, true
		}
	}
	return IDE{}, false
}

// DisplayName returns the list label, with a suffix for custom entries.
func (i IDE) DisplayName() string {
	if i.IsCustom {
		return i.Name + " (Custom)"
	}
	return i.Name
}

// Slug returns the lower-case form used as the ideType of a path request.
func (i IDE) Slug() string {
	return strings.ToLower(i.Name)
}
