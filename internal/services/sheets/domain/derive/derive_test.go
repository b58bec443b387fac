package derive

import (
	"math"
	"testing"

	"github.com/louisbranch/grandline/internal/services/sheets/domain/character"
)

func TestDiceTier(t *testing.T) {
	tests := []struct {
		points int
		want   string
	}{
		{-50, "0"},
		{-1, "0"},
		{0, "1"},
		{1, "1d2"},
		{2, "1d2"},
		{3, "1d4"},
		{4, "1d4"},
		{5, "1d6"},
		{6, "1d6"},
		{7, "1d8"},
		{8, "1d8"},
		{9, "1d10"},
		{10, "1d10"},
		{11, "2d6"},
		{12, "2d6"},
		{13, "1d8+1d6"},
		{14, "1d8+1d6"},
		{15, "2d8"},
		{16, "2d8"},
		{17, "1d10+1d8"},
		{18, "1d10+1d8"},
		{19, "2d10"},
		{25, "2d10"},
	}
	for _, tt := range tests {
		if got := DiceTier(tt.points); got != tt.want {
			t.Fatalf("DiceTier(%d) = %q, want %q", tt.points, got, tt.want)
		}
	}
}

func TestDiceTierMonotonic(t *testing.T) {
	order := map[string]int{}
	for i, b := range diceBands {
		order[b.label] = i
	}
	order["2d10"] = len(diceBands)
	prev := -1
	for points := -5; points <= 30; points++ {
		rank, ok := order[DiceTier(points)]
		if !ok {
			t.Fatalf("DiceTier(%d) returned unknown tier", points)
		}
		if rank < prev {
			t.Fatalf("DiceTier(%d) stepped down", points)
		}
		prev = rank
	}
}

func TestMovementRate(t *testing.T) {
	tests := []struct {
		agility int
		want    string
	}{
		{-3, "1.5m p/min"},
		{0, "1.5m p/min"},
		{1, "3m p/min"},
		{4, "3m p/min"},
		{5, "15m p/min"},
		{9, "15m p/min"},
		{10, "30m p/min"},
		{19, "30m p/min"},
		{20, "60m p/min"},
		{39, "60m p/min"},
		{40, "120m p/min"},
		{400, "120m p/min"},
	}
	for _, tt := range tests {
		if got := MovementRate(tt.agility); got != tt.want {
			t.Fatalf("MovementRate(%d) = %q, want %q", tt.agility, got, tt.want)
		}
	}
}

func TestCombatClasses(t *testing.T) {
	for a := 0; a <= 12; a++ {
		for b := 0; b <= 12; b++ {
			want := 1 + a
			if b > a {
				want = 1 + b
			}
			if got := AccuracyClass(a, b); got != want {
				t.Fatalf("AccuracyClass(%d, %d) = %d, want %d", a, b, got, want)
			}
			if got := DifficultyClass(a, b); got != want {
				t.Fatalf("DifficultyClass(%d, %d) = %d, want %d", a, b, got, want)
			}
		}
	}
}

func TestTotalsInvariants(t *testing.T) {
	c := character.Default()
	for i, s := range character.Stats() {
		c.Primaries[s] = character.Attribute{Base: i + 1, Bonus: i % 3, Total: -99}
	}
	for i, d := range character.DerivedStats() {
		c.Derived[d] = character.Attribute{Base: -99, Bonus: i, Total: -99}
	}

	got := Totals(c)
	for _, s := range character.Stats() {
		attr := got.Primary(s)
		if attr.Total != attr.Base+attr.Bonus {
			t.Fatalf("%s total = %d, want %d", s.Key(), attr.Total, attr.Base+attr.Bonus)
		}
	}
	for _, d := range character.DerivedStats() {
		a, b := d.Pair()
		attr := got.DerivedAttribute(d)
		if attr.Base != got.Primary(a).Total+got.Primary(b).Total {
			t.Fatalf("%s base = %d, want pair sum", d.Key(), attr.Base)
		}
		if attr.Total != attr.Base+attr.Bonus {
			t.Fatalf("%s total = %d, want base+bonus", d.Key(), attr.Total)
		}
	}
}

func TestTotalsClampsExtremeInputs(t *testing.T) {
	c := character.Default()
	for _, s := range character.Stats() {
		c.Primaries[s] = character.Attribute{Base: math.MaxInt, Bonus: math.MaxInt}
	}
	for _, d := range character.DerivedStats() {
		c.Derived[d] = character.Attribute{Bonus: math.MinInt}
	}

	got := Apply(c)
	for _, s := range character.Stats() {
		if total := got.Primary(s).Total; total != 2*character.MaxMagnitude {
			t.Fatalf("%s total = %d, want %d", s.Key(), total, 2*character.MaxMagnitude)
		}
	}
	for _, d := range character.DerivedStats() {
		attr := got.DerivedAttribute(d)
		if attr.Base != 4*character.MaxMagnitude || attr.Total != 3*character.MaxMagnitude {
			t.Fatalf("%s = %+v, want base %d total %d", d.Key(), attr, 4*character.MaxMagnitude, 3*character.MaxMagnitude)
		}
	}
	if got.Combat.AccuracyClass <= 0 || got.Combat.DifficultyClass <= 0 {
		t.Fatalf("combat = %+v, want positive classes", got.Combat)
	}
}

func TestApplyStrengthScenario(t *testing.T) {
	c := character.Default()
	c.Primaries[character.Strength] = character.Attribute{Base: 5, Bonus: 2}
	c.Primaries[character.Resilience] = character.Attribute{Base: 3}
	c.Primaries[character.Dexterity] = character.Attribute{Base: 2}
	c.Primaries[character.Speed] = character.Attribute{Base: 2}

	got := Apply(c)
	if got.Primary(character.Strength).Total != 7 {
		t.Fatalf("strength total = %d, want 7", got.Primary(character.Strength).Total)
	}
	resistance := got.DerivedAttribute(character.Resistance)
	if resistance.Base != 10 || resistance.Total != 10 {
		t.Fatalf("resistance = %+v, want base/total 10", resistance)
	}
	if got.DerivedAttribute(character.Agility).Total != 4 {
		t.Fatalf("agility total = %d, want 4", got.DerivedAttribute(character.Agility).Total)
	}
	if got.AccuracyClass != 11 {
		t.Fatalf("CA = %d, want 11", got.AccuracyClass)
	}
	if got.Movement != "3m p/min" {
		t.Fatalf("movement = %q, want 3m p/min", got.Movement)
	}
	if got.LifeDice != "1d10" {
		t.Fatalf("life dice = %q, want 1d10", got.LifeDice)
	}
}

func TestApplyPersistenceScenario(t *testing.T) {
	c := character.Default()
	c.Primaries[character.Knowledge] = character.Attribute{Base: 6}
	c.Primaries[character.Vitality] = character.Attribute{Base: 5, Bonus: 1}
	c.Derived[character.Persistence].Bonus = 1

	got := Apply(c)
	if got.DerivedAttribute(character.Persistence).Total != 13 {
		t.Fatalf("persistence total = %d, want 13", got.DerivedAttribute(character.Persistence).Total)
	}
	if got.VigorDice != "1d8+1d6" {
		t.Fatalf("vigor dice = %q, want 1d8+1d6", got.VigorDice)
	}
	if got.DifficultyClass != 14 {
		t.Fatalf("CD = %d, want 14", got.DifficultyClass)
	}
}

func TestApplyOverwritesManualCombatValues(t *testing.T) {
	c := character.Default()
	c.AccuracyClass = 99
	c.Movement = "teleport"
	c.LifeDice = "9d9"
	c.LifeCount = 3

	got := Apply(c)
	if got.AccuracyClass != 1 || got.Movement != "1.5m p/min" || got.LifeDice != "1" {
		t.Fatalf("manual values survived: %+v %+v", got.Combat, got.Reserves)
	}
	if got.LifeCount != 3 {
		t.Fatalf("reserve count = %d, want 3", got.LifeCount)
	}
}

func TestApplyIsDeterministic(t *testing.T) {
	c := character.Default()
	c.Primaries[character.Will] = character.Attribute{Base: 4, Bonus: 1}
	first := Apply(c)
	second := Apply(first)
	if first.Combat != second.Combat || first.Derived != second.Derived || first.Primaries != second.Primaries {
		t.Fatal("recompute is not idempotent")
	}
}
