package settings

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffOp says whether a line was kept, added or removed.
type DiffOp int

const (
	DiffEqual DiffOp = iota
	DiffInsert
	DiffDelete
)

// DiffLine is one line of a line-level diff.
type DiffLine struct {
	Op   DiffOp
	Text string
}

// Change records what one Update did to the settings file.
type Change struct {
	Key     string
	Lines   []DiffLine
	Added   int
	Removed int
}

// NewChange diffs the file contents before and after writing key.
func NewChange(key, before, after string) *Change {
	c := &Change{Key: key, Lines: DiffLines(before, after)}
	for _, l := range c.Lines {
		switch l.Op {
		case DiffInsert:
			c.Added++
		case DiffDelete:
			c.Removed++
		}
	}
	return c
}

// DiffLines computes a line-level diff using go-diff.
func DiffLines(before, after string) []DiffLine {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out []DiffLine
	for _, d := range diffs {
		op := DiffEqual
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = DiffInsert
		case diffmatchpatch.DiffDelete:
			op = DiffDelete
		}

		text := strings.TrimSuffix(d.Text, "\n")
		if text == "" && d.Text == "" {
			continue
		}
		for _, line := range strings.Split(text, "\n") {
			out = append(out, DiffLine{Op: op, Text: line})
		}
	}
	return out
}

// Changed returns only the inserted and deleted lines.
func (c *Change) Changed() []DiffLine {
	var out []DiffLine
	for _, l := range c.Lines {
		if l.Op != DiffEqual {
			out = append(out, l)
		}
	}
	return out
}
