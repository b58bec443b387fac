package character

import (
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/grandline/internal/platform/errors"
)

// EntryKind tags a leveled progression entry.
type EntryKind string

const (
	KindCompetency EntryKind = "Competência"
	KindAptitude   EntryKind = "Aptidão"
	KindTrophy     EntryKind = "Trunfo"
)

// Level bounds for leveled entries.
const (
	MinLevel = 0
	MaxLevel = 5
)

// ParseEntryKind accepts the canonical kind names and their unaccented or
// lowercase spellings.
func ParseEntryKind(value string) (EntryKind, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "competência", "competencia":
		return KindCompetency, true
	case "aptidão", "aptidao":
		return KindAptitude, true
	case "trunfo":
		return KindTrophy, true
	default:
		return "", false
	}
}

// Leveled reports whether entries of this kind carry a 0–5 level.
func (k EntryKind) Leveled() bool {
	return k == KindCompetency || k == KindAptitude
}

// Entry is a competency, aptitude or trophy.
type Entry struct {
	Kind  EntryKind
	Name  string
	Level int
	Notes string
	// Specialization is only meaningful for competencies.
	Specialization string
}

// Skill is a purchasable skill or devil fruit skill.
type Skill struct {
	Name         string
	Cost         string
	Description  string
	PurchaseCost string
	Range        string
	Purchased    bool
}

// Attack is a free-form attack line.
type Attack struct {
	Name   string
	Bonus  string
	Damage string
}

// Item is an inventory item with optional durability tracking.
type Item struct {
	Name               string
	Description        string
	Durability         int
	OriginalDurability int
}

// Session is a play-session log entry.
type Session struct {
	Title   string
	Summary string
	XP      int
	Rewards string
	Notes   string
}

// ClampLevel clamps a level into [MinLevel, MaxLevel].
func ClampLevel(level int) int {
	if level < MinLevel {
		return MinLevel
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// Normalize enforces the per-kind invariants of an entry.
func (e Entry) Normalize() Entry {
	if e.Kind.Leveled() {
		e.Level = ClampLevel(e.Level)
	} else {
		e.Level = 0
	}
	if e.Kind != KindCompetency {
		e.Specialization = ""
	}
	return e
}

// DecodeEntry builds an entry from its record form.
func DecodeEntry(raw map[string]any) (Entry, error) {
	kind, ok := ParseEntryKind(String(raw["tipo"], ""))
	if !ok {
		return Entry{}, invalidEntry(fmt.Sprintf("unknown entry kind %q", String(raw["tipo"], "")))
	}
	return entryOf(kind, raw), nil
}

// loadEntry decodes a stored or imported entry, treating a missing or
// unknown kind as a competency.
func loadEntry(raw map[string]any) (Entry, error) {
	kind, ok := ParseEntryKind(String(raw["tipo"], ""))
	if !ok {
		kind = KindCompetency
	}
	return entryOf(kind, raw), nil
}

func entryOf(kind EntryKind, raw map[string]any) Entry {
	entry := Entry{
		Kind:           kind,
		Name:           String(raw["nome"], ""),
		Level:          Int(raw["nivel"]),
		Notes:          String(raw["observacoes"], ""),
		Specialization: String(raw["especializacao"], ""),
	}
	return entry.Normalize()
}

// Record returns the record form of the entry.
func (e Entry) Record() map[string]any {
	out := map[string]any{
		"nome":        e.Name,
		"tipo":        string(e.Kind),
		"nivel":       e.Level,
		"observacoes": e.Notes,
	}
	if e.Kind == KindCompetency {
		out["especializacao"] = e.Specialization
	}
	return out
}

// DecodeSkill builds a skill from its record form.
func DecodeSkill(raw map[string]any) (Skill, error) {
	return Skill{
		Name:         String(raw["nome"], ""),
		Cost:         String(raw["custo"], ""),
		Description:  String(raw["descricao"], ""),
		PurchaseCost: String(raw["custoCompra"], ""),
		Range:        String(raw["alcance"], ""),
		Purchased:    Bool(raw["comprada"]),
	}, nil
}

// Record returns the record form of the skill.
func (s Skill) Record() map[string]any {
	return map[string]any{
		"nome":        s.Name,
		"custo":       s.Cost,
		"descricao":   s.Description,
		"custoCompra": s.PurchaseCost,
		"alcance":     s.Range,
		"comprada":    s.Purchased,
	}
}

// DecodeAttack builds an attack from its record form.
func DecodeAttack(raw map[string]any) (Attack, error) {
	return Attack{
		Name:   String(raw["nome"], ""),
		Bonus:  String(raw["bonus"], ""),
		Damage: String(raw["dano"], ""),
	}, nil
}

// Record returns the record form of the attack.
func (a Attack) Record() map[string]any {
	return map[string]any{
		"nome":  a.Name,
		"bonus": a.Bonus,
		"dano":  a.Damage,
	}
}

// DecodeItem builds an item from its record form.
func DecodeItem(raw map[string]any) (Item, error) {
	item := Item{
		Name:               String(raw["nome"], ""),
		Description:        String(raw["descricao"], ""),
		Durability:         Int(raw["durabilidadeAtual"]),
		OriginalDurability: Int(raw["durabilidadeOriginal"]),
	}
	if item.OriginalDurability < 0 {
		item.OriginalDurability = 0
	}
	return item.Clamp(), nil
}

// Clamp keeps durability within [0, OriginalDurability] when an original
// durability is tracked, and non-negative otherwise.
func (i Item) Clamp() Item {
	if i.Durability < 0 {
		i.Durability = 0
	}
	if i.OriginalDurability > 0 && i.Durability > i.OriginalDurability {
		i.Durability = i.OriginalDurability
	}
	return i
}

// Record returns the record form of the item.
func (i Item) Record() map[string]any {
	return map[string]any{
		"nome":                 i.Name,
		"descricao":            i.Description,
		"durabilidadeAtual":    i.Durability,
		"durabilidadeOriginal": i.OriginalDurability,
	}
}

// DecodeSession builds a session log entry from its record form.
func DecodeSession(raw map[string]any) (Session, error) {
	return Session{
		Title:   String(raw["titulo"], ""),
		Summary: String(raw["resumo"], ""),
		XP:      Int(raw["xpGanho"]),
		Rewards: String(raw["recompensas"], ""),
		Notes:   String(raw["anotacoes"], ""),
	}, nil
}

// Record returns the record form of the session.
func (s Session) Record() map[string]any {
	return map[string]any{
		"titulo":      s.Title,
		"resumo":      s.Summary,
		"xpGanho":     s.XP,
		"recompensas": s.Rewards,
		"anotacoes":   s.Notes,
	}
}

func invalidEntry(reason string) error {
	return apperrors.WithMetadata(apperrors.CodeEntryInvalid, "invalid entry: "+reason, map[string]string{"Reason": reason})
}
