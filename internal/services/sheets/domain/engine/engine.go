// Package engine runs the recompute pipeline that turns a snapshot plus
// edits into a consistent character sheet.
package engine

import (
	"sort"

	"github.com/louisbranch/grandline/internal/services/sheets/domain/character"
	"github.com/louisbranch/grandline/internal/services/sheets/domain/derive"
	"github.com/louisbranch/grandline/internal/services/sheets/domain/vitals"
)

// Edit assigns one record field.
type Edit struct {
	Field string
	Value any
}

// EditsFromRecord turns a partial record into edits, ordered by field name
// so the result is deterministic.
func EditsFromRecord(record map[string]any) []Edit {
	names := make([]string, 0, len(record))
	for name := range record {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]Edit, 0, len(names))
	for _, name := range names {
		out = append(out, Edit{Field: name, Value: record[name]})
	}
	return out
}

// Recompute applies edits to a copy of snapshot, then recomputes every
// derived field and reconciles both pools. The snapshot is never modified.
func Recompute(snapshot character.Character, edits ...Edit) (character.Character, error) {
	next := snapshot.Clone()
	for _, edit := range edits {
		if err := next.Set(edit.Field, edit.Value); err != nil {
			return snapshot, err
		}
	}
	return Settle(next), nil
}

// Settle recomputes derived fields and reconciles pools without edits.
func Settle(c character.Character) character.Character {
	c = derive.Apply(c)
	return vitals.ReconcileAll(c)
}

// New returns a freshly created, settled character.
func New() character.Character {
	return Settle(character.Default())
}
