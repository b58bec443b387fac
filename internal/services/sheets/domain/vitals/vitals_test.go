package vitals

import (
	"math"
	"testing"

	apperrors "github.com/louisbranch/grandline/internal/platform/errors"
	"github.com/louisbranch/grandline/internal/services/sheets/domain/character"
)

func TestWoundClampsCurrent(t *testing.T) {
	p := character.VitalPool{Current: 10, Max: 10}
	got := ApplyWound(p, 4)
	if got.AdjustedMax() != 6 {
		t.Fatalf("adjusted max = %d, want 6", got.AdjustedMax())
	}
	if got.Current != 6 {
		t.Fatalf("current = %d, want 6", got.Current)
	}
	if got.InjuryReduction != 4 {
		t.Fatalf("injury reduction = %d, want 4", got.InjuryReduction)
	}
}

func TestWoundSaturates(t *testing.T) {
	p := ApplyWound(character.VitalPool{Current: 10, Max: 10, InjuryReduction: 2}, math.MaxInt)
	if p.InjuryReduction != math.MaxInt {
		t.Fatalf("injury reduction = %d, want %d", p.InjuryReduction, math.MaxInt)
	}
	if p.AdjustedMax() != 1 || p.Current != 1 {
		t.Fatalf("adjusted max = %d, current = %d, want 1 and 1", p.AdjustedMax(), p.Current)
	}
	p = ApplyWound(p, math.MaxInt)
	if p.InjuryReduction != math.MaxInt {
		t.Fatalf("second wound: injury reduction = %d", p.InjuryReduction)
	}
	p = HealWound(p, math.MaxInt)
	if p.InjuryReduction != 0 || p.AdjustedMax() != 10 {
		t.Fatalf("healed: injury = %d, adjusted max = %d", p.InjuryReduction, p.AdjustedMax())
	}
}

func TestWoundRoundTrip(t *testing.T) {
	for _, start := range []int{0, 2, 9} {
		for _, w := range []int{1, 3, 10, 25} {
			p := character.VitalPool{Current: 5, Max: 10, InjuryReduction: start}
			got := HealWound(ApplyWound(p, w), w)
			if got.InjuryReduction != start {
				t.Fatalf("start=%d wound=%d: injury reduction = %d", start, w, got.InjuryReduction)
			}
			if got.AdjustedMax() < 1 {
				t.Fatalf("adjusted max below 1: %d", got.AdjustedMax())
			}
		}
	}
}

func TestHealWoundDoesNotRestoreCurrent(t *testing.T) {
	p := ApplyWound(character.VitalPool{Current: 10, Max: 10}, 4)
	got := HealWound(p, 4)
	if got.Current != 6 {
		t.Fatalf("current = %d, want 6", got.Current)
	}
	if got := HealWound(character.VitalPool{Max: 10, InjuryReduction: 2}, 9); got.InjuryReduction != 0 {
		t.Fatalf("injury reduction = %d, want floor 0", got.InjuryReduction)
	}
}

func TestDamageAndHealClamp(t *testing.T) {
	tests := []struct {
		name   string
		pool   character.VitalPool
		action func(character.VitalPool, int) character.VitalPool
		amount int
		want   int
	}{
		{"damage", character.VitalPool{Current: 8, Max: 10}, ApplyDamage, 3, 5},
		{"overkill", character.VitalPool{Current: 8, Max: 10}, ApplyDamage, 1000, 0},
		{"heal", character.VitalPool{Current: 2, Max: 10}, ApplyHeal, 3, 5},
		{"overheal", character.VitalPool{Current: 2, Max: 10}, ApplyHeal, 1000, 10},
		{"overheal wounded", character.VitalPool{Current: 2, Max: 10, InjuryReduction: 3}, ApplyHeal, 1000, 7},
		{"zero damage", character.VitalPool{Current: 4, Max: 10}, ApplyDamage, 0, 4},
		{"negative heal", character.VitalPool{Current: 4, Max: 10}, ApplyHeal, -5, 4},
		{"max heal", character.VitalPool{Current: 5, Max: 10}, ApplyHeal, math.MaxInt, 10},
		{"max damage", character.VitalPool{Current: -3, Max: 10}, ApplyDamage, math.MaxInt, 0},
		{"max damage full", character.VitalPool{Current: 10, Max: 10}, ApplyDamage, math.MaxInt, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.action(tt.pool, tt.amount)
			if got.Current != tt.want {
				t.Fatalf("current = %d, want %d", got.Current, tt.want)
			}
			if got.Current < 0 || got.Current > got.AdjustedMax() {
				t.Fatalf("current %d out of [0, %d]", got.Current, got.AdjustedMax())
			}
		})
	}
}

func TestResetAndReconcile(t *testing.T) {
	p := character.VitalPool{Current: 1, Max: 10, InjuryReduction: 12}
	if got := ResetToMax(p); got.Current != 1 {
		t.Fatalf("reset current = %d, want floor adjusted max 1", got.Current)
	}
	if got := ResetToMax(character.VitalPool{Max: 8, InjuryReduction: 2}); got.Current != 6 {
		t.Fatalf("reset current = %d, want 6", got.Current)
	}
	if got := Reconcile(character.VitalPool{Current: -4, Max: 5}); got.Current != 0 {
		t.Fatalf("reconcile current = %d, want 0", got.Current)
	}
	if got := Reconcile(character.VitalPool{Current: 40, Max: 5}); got.Current != 5 {
		t.Fatalf("reconcile current = %d, want 5", got.Current)
	}
}

func TestApplyToLeavesOtherPool(t *testing.T) {
	c := character.Default()
	c.Life.Current = 3
	got, err := ApplyTo(c, Life, ActionHeal, 4)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got.Life.Current != 7 {
		t.Fatalf("life = %d, want 7", got.Life.Current)
	}
	if got.Vigor != c.Vigor {
		t.Fatalf("vigor changed: %+v", got.Vigor)
	}
}

func TestRestoreAll(t *testing.T) {
	c := character.Default()
	c.Life = character.VitalPool{Current: 0, Max: 10, InjuryReduction: 2}
	c.Vigor = character.VitalPool{Current: 1, Max: 6}
	got := RestoreAll(c)
	if got.Life.Current != 8 || got.Vigor.Current != 6 {
		t.Fatalf("restore all = %+v / %+v", got.Life, got.Vigor)
	}
	if got.Life.InjuryReduction != 2 {
		t.Fatalf("restore all touched injuries: %d", got.Life.InjuryReduction)
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := ParsePool("mana"); !apperrors.IsCode(err, apperrors.CodeVitalPoolUnknown) {
		t.Fatalf("pool error = %v", err)
	}
	if _, err := ParseAction("explode"); !apperrors.IsCode(err, apperrors.CodeVitalActionUnknown) {
		t.Fatalf("action error = %v", err)
	}
	if pool, err := ParsePool(" Life "); err != nil || pool != Life {
		t.Fatalf("ParsePool(Life) = %q, %v", pool, err)
	}
	if action, err := ParseAction("HEAL_WOUND"); err != nil || action != ActionHealWound {
		t.Fatalf("ParseAction = %q, %v", action, err)
	}
	if _, err := ApplyTo(character.Default(), Pool("mana"), ActionHeal, 1); !apperrors.IsCode(err, apperrors.CodeVitalPoolUnknown) {
		t.Fatalf("ApplyTo error = %v", err)
	}
}
