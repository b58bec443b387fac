// Package derive computes every value on a character sheet that follows
// from the player's attribute choices. All functions are pure.
package derive

import "github.com/louisbranch/grandline/internal/services/sheets/domain/character"

// band maps every value up to and including upTo onto label.
type band struct {
	upTo  int
	label string
}

// stepLookup returns the label of the first band covering value, or last
// when value exceeds every band.
func stepLookup(bands []band, last string, value int) string {
	for _, b := range bands {
		if value <= b.upTo {
			return b.label
		}
	}
	return last
}

var movementBands = []band{
	{0, "1.5m p/min"},
	{4, "3m p/min"},
	{9, "15m p/min"},
	{19, "30m p/min"},
	{39, "60m p/min"},
}

// MovementRate maps an agility total onto a movement band.
func MovementRate(agility int) string {
	return stepLookup(movementBands, "120m p/min", agility)
}

var diceBands = []band{
	{-1, "0"},
	{0, "1"},
	{2, "1d2"},
	{4, "1d4"},
	{6, "1d6"},
	{8, "1d8"},
	{10, "1d10"},
	{12, "2d6"},
	{14, "1d8+1d6"},
	{16, "2d8"},
	{18, "1d10+1d8"},
}

// DiceTier maps an attribute point total onto a recovery dice expression.
// The same table serves life dice, vigor dice and point-based reserves.
func DiceTier(points int) string {
	return stepLookup(diceBands, "2d10", points)
}

// AccuracyClass returns CA for the given resistance and agility totals.
func AccuracyClass(resistance, agility int) int {
	return 1 + max(resistance, agility)
}

// DifficultyClass returns CD for the given persistence and discipline totals.
func DifficultyClass(persistence, discipline int) int {
	return 1 + max(persistence, discipline)
}

// Totals fills every primary total, derived base and derived total. Base and
// bonus inputs are clamped to character.MaxMagnitude first.
func Totals(c character.Character) character.Character {
	for _, s := range character.Stats() {
		attr := &c.Primaries[s]
		attr.Base, attr.Bonus = clamp(attr.Base), clamp(attr.Bonus)
		attr.Total = attr.Base + attr.Bonus
	}
	for _, d := range character.DerivedStats() {
		a, b := d.Pair()
		attr := &c.Derived[d]
		attr.Bonus = clamp(attr.Bonus)
		attr.Base = c.Primaries[a].Total + c.Primaries[b].Total
		attr.Total = attr.Base + attr.Bonus
	}
	return c
}

func clamp(n int) int {
	return min(max(n, -character.MaxMagnitude), character.MaxMagnitude)
}

// CombatStats computes CA, CD and movement from derived totals.
func CombatStats(c character.Character) character.Combat {
	return character.Combat{
		AccuracyClass:   AccuracyClass(c.Derived[character.Resistance].Total, c.Derived[character.Agility].Total),
		DifficultyClass: DifficultyClass(c.Derived[character.Persistence].Total, c.Derived[character.Discipline].Total),
		Movement:        MovementRate(c.Derived[character.Agility].Total),
	}
}

// Apply recomputes every computed field of c. User-tracked reserve counts
// are kept.
func Apply(c character.Character) character.Character {
	c = Totals(c)
	c.Combat = CombatStats(c)
	c.LifeDice = DiceTier(c.Derived[character.Resistance].Total)
	c.VigorDice = DiceTier(c.Derived[character.Persistence].Total)
	return c
}
