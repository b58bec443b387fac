// Package vitals applies damage, healing and wounds to the life and vigor
// pools of a character.
package vitals

import (
	"math"
	"strings"

	apperrors "github.com/louisbranch/grandline/internal/platform/errors"
	"github.com/louisbranch/grandline/internal/services/sheets/domain/character"
)

// Pool names a vital pool by its record prefix.
type Pool string

const (
	Life  Pool = "vida"
	Vigor Pool = "vigor"
)

// Action names an operation on a single pool.
type Action string

const (
	ActionDamage    Action = "damage"
	ActionHeal      Action = "heal"
	ActionWound     Action = "wound"
	ActionHealWound Action = "heal_wound"
	ActionReset     Action = "reset"
)

// ParsePool accepts "vida"/"vigor" and the English "life".
func ParsePool(value string) (Pool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "vida", "life":
		return Life, nil
	case "vigor":
		return Vigor, nil
	}
	return "", apperrors.WithMetadata(apperrors.CodeVitalPoolUnknown, "unknown vital pool "+value, map[string]string{"Pool": value})
}

// ParseAction validates an action name.
func ParseAction(value string) (Action, error) {
	action := Action(strings.ToLower(strings.TrimSpace(value)))
	switch action {
	case ActionDamage, ActionHeal, ActionWound, ActionHealWound, ActionReset:
		return action, nil
	}
	return "", apperrors.WithMetadata(apperrors.CodeVitalActionUnknown, "unknown vital action "+value, map[string]string{"Action": value})
}

func clamp(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// Reconcile clamps current into [0, adjustedMax].
func Reconcile(p character.VitalPool) character.VitalPool {
	p.Current = clamp(p.Current, 0, p.AdjustedMax())
	return p
}

// ApplyDamage lowers current by amount, never below 0.
func ApplyDamage(p character.VitalPool, amount int) character.VitalPool {
	if amount <= 0 {
		return p
	}
	p = Reconcile(p)
	if amount >= p.Current {
		p.Current = 0
		return p
	}
	p.Current -= amount
	return p
}

// ApplyHeal raises current by amount, never above the adjusted max.
func ApplyHeal(p character.VitalPool, amount int) character.VitalPool {
	if amount <= 0 {
		return p
	}
	p = Reconcile(p)
	adjusted := p.AdjustedMax()
	if amount >= adjusted-p.Current {
		p.Current = adjusted
		return p
	}
	p.Current += amount
	return p
}

// ApplyWound raises the injury reduction and pulls current down to the new
// adjusted max when needed.
func ApplyWound(p character.VitalPool, amount int) character.VitalPool {
	if amount <= 0 {
		return p
	}
	if p.InjuryReduction < 0 {
		p.InjuryReduction = 0
	}
	if amount > math.MaxInt-p.InjuryReduction {
		p.InjuryReduction = math.MaxInt
	} else {
		p.InjuryReduction += amount
	}
	return Reconcile(p)
}

// HealWound lowers the injury reduction, floored at 0. Current is left as
// it was.
func HealWound(p character.VitalPool, amount int) character.VitalPool {
	if amount <= 0 {
		return p
	}
	if amount >= p.InjuryReduction {
		p.InjuryReduction = 0
	} else {
		p.InjuryReduction -= amount
	}
	return Reconcile(p)
}

// ResetToMax fills current up to the adjusted max.
func ResetToMax(p character.VitalPool) character.VitalPool {
	p.Current = p.AdjustedMax()
	return p
}

// Apply runs one action against a pool.
func Apply(p character.VitalPool, action Action, amount int) (character.VitalPool, error) {
	switch action {
	case ActionDamage:
		return ApplyDamage(p, amount), nil
	case ActionHeal:
		return ApplyHeal(p, amount), nil
	case ActionWound:
		return ApplyWound(p, amount), nil
	case ActionHealWound:
		return HealWound(p, amount), nil
	case ActionReset:
		return ResetToMax(p), nil
	}
	return p, apperrors.WithMetadata(apperrors.CodeVitalActionUnknown, "unknown vital action "+string(action), map[string]string{"Action": string(action)})
}

// ApplyTo runs one action against the named pool of c. The other pool is
// untouched.
func ApplyTo(c character.Character, pool Pool, action Action, amount int) (character.Character, error) {
	target, err := poolOf(&c, pool)
	if err != nil {
		return c, err
	}
	next, err := Apply(*target, action, amount)
	if err != nil {
		return c, err
	}
	*target = next
	return c, nil
}

// RestoreAll resets both pools to their adjusted max.
func RestoreAll(c character.Character) character.Character {
	c.Life = ResetToMax(c.Life)
	c.Vigor = ResetToMax(c.Vigor)
	return c
}

// ReconcileAll clamps both pools.
func ReconcileAll(c character.Character) character.Character {
	c.Life = Reconcile(c.Life)
	c.Vigor = Reconcile(c.Vigor)
	return c
}

func poolOf(c *character.Character, pool Pool) (*character.VitalPool, error) {
	switch pool {
	case Life:
		return &c.Life, nil
	case Vigor:
		return &c.Vigor, nil
	}
	return nil, apperrors.WithMetadata(apperrors.CodeVitalPoolUnknown, "unknown vital pool "+string(pool), map[string]string{"Pool": string(pool)})
}
