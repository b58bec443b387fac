// Package progression manages the ordered entry lists of a character sheet:
// leveled competencies and aptitudes, trophies, skills, attacks, inventory
// and session logs.
package progression

import (
	"fmt"
	"strconv"

	apperrors "github.com/louisbranch/grandline/internal/platform/errors"
	"github.com/louisbranch/grandline/internal/services/sheets/domain/character"
)

// Action names a ledger operation.
type Action string

const (
	ActionAdd               Action = "add"
	ActionRemove            Action = "remove"
	ActionUpdate            Action = "update"
	ActionSetLevel          Action = "set_level"
	ActionAdjustLevel       Action = "adjust_level"
	ActionSetPurchased      Action = "set_purchased"
	ActionSetSpecialization Action = "set_specialization"
	ActionAdjustDurability  Action = "adjust_durability"
)

// Op is one ledger operation as received from a caller. Only the fields
// used by Action are read.
type Op struct {
	Action         Action
	List           character.List
	Index          int
	Level          int
	Delta          int
	Purchased      bool
	Specialization string
	Entry          map[string]any
}

// Apply runs op against c and returns the new snapshot. c is not modified.
func Apply(c character.Character, op Op) (character.Character, error) {
	switch op.Action {
	case ActionAdd:
		return AddEntry(c, op.List, op.Entry)
	case ActionRemove:
		return RemoveEntry(c, op.List, op.Index)
	case ActionUpdate:
		return UpdateEntry(c, op.List, op.Index, op.Entry)
	case ActionSetLevel:
		return SetLevel(c, op.Index, op.Level)
	case ActionAdjustLevel:
		return AdjustLevel(c, op.Index, op.Delta)
	case ActionSetPurchased:
		return SetPurchased(c, op.List, op.Index, op.Purchased)
	case ActionSetSpecialization:
		return SetSpecialization(c, op.Index, op.Specialization)
	case ActionAdjustDurability:
		return AdjustDurability(c, op.Index, op.Delta)
	}
	return c, apperrors.WithMetadata(apperrors.CodeEntryActionUnknown, "unknown progression action "+string(op.Action), map[string]string{"Action": string(op.Action)})
}

// ParseList validates a list name.
func ParseList(name string) (character.List, error) {
	list, ok := character.ParseList(name)
	if !ok {
		return "", apperrors.WithMetadata(apperrors.CodeEntryListUnknown, "unknown entry list "+name, map[string]string{"List": name})
	}
	return list, nil
}

// AddEntry appends a new entry built from its record form.
func AddEntry(c character.Character, list character.List, raw map[string]any) (character.Character, error) {
	c = c.Clone()
	if raw == nil {
		raw = map[string]any{}
	}
	var err error
	switch list {
	case character.ListEntries:
		c.Entries, err = appendDecoded(c.Entries, raw, character.DecodeEntry)
	case character.ListSkills:
		c.Skills, err = appendDecoded(c.Skills, raw, character.DecodeSkill)
	case character.ListFruitSkills:
		c.FruitSkills, err = appendDecoded(c.FruitSkills, raw, character.DecodeSkill)
	case character.ListAttacks:
		c.Attacks, err = appendDecoded(c.Attacks, raw, character.DecodeAttack)
	case character.ListItems:
		c.Items, err = appendDecoded(c.Items, raw, character.DecodeItem)
	case character.ListSessions:
		c.Sessions, err = appendDecoded(c.Sessions, raw, character.DecodeSession)
	default:
		_, err = ParseList(string(list))
	}
	return c, err
}

func appendDecoded[T any](items []T, raw map[string]any, decode func(map[string]any) (T, error)) ([]T, error) {
	item, err := decode(raw)
	if err != nil {
		return items, err
	}
	return append(items, item), nil
}

// RemoveEntry deletes the entry at index, keeping the order of the rest.
func RemoveEntry(c character.Character, list character.List, index int) (character.Character, error) {
	c = c.Clone()
	var err error
	switch list {
	case character.ListEntries:
		c.Entries, err = removeAt(c.Entries, list, index)
	case character.ListSkills:
		c.Skills, err = removeAt(c.Skills, list, index)
	case character.ListFruitSkills:
		c.FruitSkills, err = removeAt(c.FruitSkills, list, index)
	case character.ListAttacks:
		c.Attacks, err = removeAt(c.Attacks, list, index)
	case character.ListItems:
		c.Items, err = removeAt(c.Items, list, index)
	case character.ListSessions:
		c.Sessions, err = removeAt(c.Sessions, list, index)
	default:
		_, err = ParseList(string(list))
	}
	return c, err
}

func removeAt[T any](items []T, list character.List, index int) ([]T, error) {
	if err := checkIndex(list, index, len(items)); err != nil {
		return items, err
	}
	return append(items[:index], items[index+1:]...), nil
}

// UpdateEntry merges the fields in raw onto the entry at index. Fields not
// present in raw keep their current value.
func UpdateEntry(c character.Character, list character.List, index int, raw map[string]any) (character.Character, error) {
	c = c.Clone()
	var err error
	switch list {
	case character.ListEntries:
		err = updateAt(c.Entries, list, index, raw, character.Entry.Record, character.DecodeEntry)
	case character.ListSkills:
		err = updateAt(c.Skills, list, index, raw, character.Skill.Record, character.DecodeSkill)
	case character.ListFruitSkills:
		err = updateAt(c.FruitSkills, list, index, raw, character.Skill.Record, character.DecodeSkill)
	case character.ListAttacks:
		err = updateAt(c.Attacks, list, index, raw, character.Attack.Record, character.DecodeAttack)
	case character.ListItems:
		err = updateAt(c.Items, list, index, raw, character.Item.Record, character.DecodeItem)
	case character.ListSessions:
		err = updateAt(c.Sessions, list, index, raw, character.Session.Record, character.DecodeSession)
	default:
		_, err = ParseList(string(list))
	}
	return c, err
}

func updateAt[T any](items []T, list character.List, index int, raw map[string]any, record func(T) map[string]any, decode func(map[string]any) (T, error)) error {
	if err := checkIndex(list, index, len(items)); err != nil {
		return err
	}
	merged := record(items[index])
	for key, value := range raw {
		merged[key] = value
	}
	item, err := decode(merged)
	if err != nil {
		return err
	}
	items[index] = item
	return nil
}

// SetLevel sets the level of a competency or aptitude, clamped to [0, 5].
// Dropping below the specialization level clears the specialization.
func SetLevel(c character.Character, index int, level int) (character.Character, error) {
	c = c.Clone()
	entry, err := leveledEntry(c.Entries, index)
	if err != nil {
		return c, err
	}
	entry.Level = character.ClampLevel(level)
	if entry.Level < SpecializationLevel {
		entry.Specialization = ""
	}
	c.Entries[index] = entry.Normalize()
	return c, nil
}

// AdjustLevel moves a leveled entry up or down by delta, clamped.
func AdjustLevel(c character.Character, index int, delta int) (character.Character, error) {
	entry, err := leveledEntry(c.Entries, index)
	if err != nil {
		return c, err
	}
	return SetLevel(c, index, entry.Level+delta)
}

// SetPurchased toggles the purchased flag of a skill or fruit skill. Point
// budgets are not touched.
func SetPurchased(c character.Character, list character.List, index int, purchased bool) (character.Character, error) {
	c = c.Clone()
	var skills []character.Skill
	switch list {
	case character.ListSkills:
		skills = c.Skills
	case character.ListFruitSkills:
		skills = c.FruitSkills
	default:
		if _, err := ParseList(string(list)); err != nil {
			return c, err
		}
		return c, invalidForList(list, "only skills can be purchased")
	}
	if err := checkIndex(list, index, len(skills)); err != nil {
		return c, err
	}
	skills[index].Purchased = purchased
	return c, nil
}

// SetSpecialization picks a specialization for a competency at level 4 or
// higher. An empty name clears it.
func SetSpecialization(c character.Character, index int, name string) (character.Character, error) {
	c = c.Clone()
	if err := checkIndex(character.ListEntries, index, len(c.Entries)); err != nil {
		return c, err
	}
	entry := c.Entries[index]
	if name == "" {
		entry.Specialization = ""
		c.Entries[index] = entry
		return c, nil
	}
	spec, ok := LookupSpecialization(name)
	if !ok {
		return c, apperrors.WithMetadata(apperrors.CodeSpecializationUnknown, "unknown specialization "+name, map[string]string{"Specialization": name})
	}
	if entry.Kind != character.KindCompetency || entry.Level < SpecializationLevel {
		return c, apperrors.WithMetadata(apperrors.CodeSpecializationUnavailable, "specialization requires a level 4 competency", map[string]string{
			"Index":          strconv.Itoa(index),
			"Specialization": spec.Name,
		})
	}
	entry.Specialization = spec.Name
	c.Entries[index] = entry
	return c, nil
}

// AdjustDurability moves an item's current durability by delta.
func AdjustDurability(c character.Character, index int, delta int) (character.Character, error) {
	c = c.Clone()
	if err := checkIndex(character.ListItems, index, len(c.Items)); err != nil {
		return c, err
	}
	item := c.Items[index]
	if item.OriginalDurability <= 0 && item.Durability <= 0 && delta != 0 {
		return c, apperrors.WithMetadata(apperrors.CodeDurabilityNotApplicable, "item has no durability", map[string]string{"Index": strconv.Itoa(index)})
	}
	item.Durability += delta
	c.Items[index] = item.Clamp()
	return c, nil
}

func leveledEntry(entries []character.Entry, index int) (character.Entry, error) {
	if err := checkIndex(character.ListEntries, index, len(entries)); err != nil {
		return character.Entry{}, err
	}
	entry := entries[index]
	if !entry.Kind.Leveled() {
		return entry, apperrors.WithMetadata(apperrors.CodeEntryNotLeveled, fmt.Sprintf("entry %d is a %s", index, entry.Kind), map[string]string{
			"Index": strconv.Itoa(index),
			"Kind":  string(entry.Kind),
		})
	}
	return entry, nil
}

func checkIndex(list character.List, index, length int) error {
	if index < 0 || index >= length {
		return apperrors.WithMetadata(apperrors.CodeEntryIndexOutOfRange, fmt.Sprintf("index %d out of range for %s (%d entries)", index, list, length), map[string]string{
			"Index": strconv.Itoa(index),
			"List":  string(list),
		})
	}
	return nil
}

func invalidForList(list character.List, reason string) error {
	return apperrors.WithMetadata(apperrors.CodeEntryInvalid, fmt.Sprintf("%s: %s", list, reason), map[string]string{"Reason": reason})
}
