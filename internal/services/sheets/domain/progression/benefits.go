package progression

import (
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/grandline/internal/platform/errors"
	"github.com/louisbranch/grandline/internal/platform/i18n"
	"github.com/louisbranch/grandline/internal/services/sheets/domain/character"
)

// SpecializationLevel is the competency level that unlocks a specialization.
const SpecializationLevel = 4

// Specialization is one entry of the fixed specialization table.
type Specialization struct {
	Slug string
	Name string
}

var specializations = []Specialization{
	{Slug: "ataque_frenetico", Name: "Ataque Frenético"},
	{Slug: "critico_2", Name: "Crítico 2.0"},
	{Slug: "critico_supremo", Name: "Crítico Supremo"},
	{Slug: "pico_de_poder", Name: "Pico de Poder"},
	{Slug: "dano_maximum", Name: "Dano Maximum"},
	{Slug: "golpe_pesado", Name: "Golpe Pesado"},
	{Slug: "golpe_de_desespero", Name: "Golpe de Desespero"},
	{Slug: "raspao", Name: "Raspão"},
	{Slug: "manus_ferrea", Name: "Manus Férrea"},
}

// Specializations returns the specialization table in display order.
func Specializations() []Specialization {
	return append([]Specialization(nil), specializations...)
}

// LookupSpecialization finds a specialization by display name or slug,
// ignoring case.
func LookupSpecialization(name string) (Specialization, bool) {
	name = strings.TrimSpace(name)
	for _, spec := range specializations {
		if strings.EqualFold(spec.Name, name) || strings.EqualFold(spec.Slug, name) {
			return spec, true
		}
	}
	return Specialization{}, false
}

// Description returns the localized rules text of the specialization.
func (s Specialization) Description(locale string) string {
	return i18n.Text(locale, "progression.specialization."+s.Slug)
}

// Benefit is the rules text unlocked at one level.
type Benefit struct {
	Level int
	Text  string
}

func benefitTable(kind character.EntryKind) (string, error) {
	switch kind {
	case character.KindCompetency:
		return "competency", nil
	case character.KindAptitude:
		return "aptitude", nil
	}
	return "", apperrors.WithMetadata(apperrors.CodeBenefitTableUnknown, "no benefit table for "+string(kind), map[string]string{"Kind": string(kind)})
}

// Benefits returns the benefits for levels 0 through level, in order. The
// level is clamped to [0, 5].
func Benefits(kind character.EntryKind, level int, locale string) ([]Benefit, error) {
	table, err := benefitTable(kind)
	if err != nil {
		return nil, err
	}
	level = character.ClampLevel(level)
	out := make([]Benefit, 0, level+1)
	for l := character.MinLevel; l <= level; l++ {
		out = append(out, Benefit{
			Level: l,
			Text:  i18n.Text(locale, "progression."+table+"."+strconv.Itoa(l)),
		})
	}
	return out, nil
}

// BenefitLines renders cumulative benefits as "Nível N: text" lines in the
// requested locale.
func BenefitLines(kind character.EntryKind, level int, locale string) ([]string, error) {
	benefits, err := Benefits(kind, level, locale)
	if err != nil {
		return nil, err
	}
	printer := i18n.Printer(locale)
	out := make([]string, 0, len(benefits))
	for _, b := range benefits {
		out = append(out, printer.Sprintf("progression.benefit.line", b.Level, b.Text))
	}
	return out, nil
}

// EntryBenefits returns the cumulative benefit lines for the entry at index,
// followed by the specialization text when one is chosen.
func EntryBenefits(c character.Character, index int, locale string) ([]string, error) {
	if err := checkIndex(character.ListEntries, index, len(c.Entries)); err != nil {
		return nil, err
	}
	entry := c.Entries[index]
	lines, err := BenefitLines(entry.Kind, entry.Level, locale)
	if err != nil {
		return nil, err
	}
	if spec, ok := LookupSpecialization(entry.Specialization); ok {
		lines = append(lines, spec.Name+": "+spec.Description(locale))
	}
	return lines, nil
}
