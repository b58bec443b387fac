package character

import (
	"fmt"
	"sort"

	apperrors "github.com/louisbranch/grandline/internal/platform/errors"
)

// List names one of the sheet's entry lists by its record key.
type List string

const (
	ListEntries     List = "competenciasAptidoesTrunfos"
	ListSkills      List = "habilidades"
	ListFruitSkills List = "frutaHabilidades"
	ListAttacks     List = "ataques"
	ListItems       List = "listaItens"
	ListSessions    List = "listaSessoes"
)

// Lists returns every entry list in sheet order.
func Lists() []List {
	return []List{ListEntries, ListSkills, ListFruitSkills, ListAttacks, ListItems, ListSessions}
}

// ParseList reports whether name is a known entry list.
func ParseList(name string) (List, bool) {
	for _, list := range Lists() {
		if string(list) == name {
			return list, true
		}
	}
	return "", false
}

// Access describes how a record field may be written.
type Access int

const (
	// Editable fields are written directly by user edits.
	Editable Access = iota
	// Computed fields accept writes that the next recompute overwrites.
	Computed
	// Managed fields change only through dedicated actions or import.
	Managed
)

type field struct {
	name   string
	access Access
	get    func(c *Character) any
	set    func(c *Character, value any) error
	// load, when set, replaces set in FromRecord.
	load func(c *Character, value any)
}

var (
	fields     []field
	fieldIndex map[string]int
)

func init() {
	fields = buildFields()
	fieldIndex = make(map[string]int, len(fields))
	for i, f := range fields {
		if _, exists := fieldIndex[f.name]; exists {
			panic(fmt.Sprintf("duplicate character field %q", f.name))
		}
		fieldIndex[f.name] = i
	}
}

func intField(name string, access Access, ptr func(c *Character) *int) field {
	return field{
		name:   name,
		access: access,
		get:    func(c *Character) any { return *ptr(c) },
		set: func(c *Character, value any) error {
			*ptr(c) = Int(value)
			return nil
		},
	}
}

func stringField(name string, access Access, fallback string, ptr func(c *Character) *string) field {
	return field{
		name:   name,
		access: access,
		get:    func(c *Character) any { return *ptr(c) },
		set: func(c *Character, value any) error {
			*ptr(c) = String(value, fallback)
			return nil
		},
	}
}

func maxField(name string, fallback int, ptr func(c *Character) *int) field {
	return field{
		name:   name,
		access: Editable,
		get:    func(c *Character) any { return *ptr(c) },
		set: func(c *Character, value any) error {
			*ptr(c) = max(Int(value), 1)
			return nil
		},
		load: func(c *Character, value any) {
			limit := Int(value)
			if limit == 0 {
				limit = fallback
			}
			*ptr(c) = max(limit, 1)
		},
	}
}

func listField[T any](list List, ptr func(c *Character) *[]T, decode func(map[string]any) (T, error), record func(T) map[string]any) field {
	return field{
		name:   string(list),
		access: Editable,
		get: func(c *Character) any {
			items := *ptr(c)
			out := make([]any, 0, len(items))
			for _, item := range items {
				out = append(out, record(item))
			}
			return out
		},
		set: func(c *Character, value any) error {
			raws := recordList(value)
			items := make([]T, 0, len(raws))
			for _, raw := range raws {
				item, err := decode(raw)
				if err != nil {
					continue
				}
				items = append(items, item)
			}
			*ptr(c) = items
			return nil
		},
	}
}

// recordList coerces a list value: anything that is not a list becomes
// empty and items that are not objects are dropped.
func recordList(value any) []map[string]any {
	switch v := value.(type) {
	case []map[string]any:
		return v
	case []any:
		out := make([]map[string]any, 0, len(v))
		for _, item := range v {
			if raw, ok := item.(map[string]any); ok {
				out = append(out, raw)
			}
		}
		return out
	default:
		return nil
	}
}

func buildFields() []field {
	out := []field{
		stringField("nome", Editable, "", func(c *Character) *string { return &c.Name }),
		stringField("raca", Editable, DefaultRace, func(c *Character) *string { return &c.Race }),
		stringField("classe", Editable, DefaultClass, func(c *Character) *string { return &c.Class }),
		stringField("profissao", Editable, DefaultProfession, func(c *Character) *string { return &c.Profession }),
		stringField("potencial", Editable, DefaultPotential, func(c *Character) *string { return &c.Potential }),
		intField("nivelClasse", Editable, func(c *Character) *int { return &c.ClassLevel }),
		intField("nivelProfissao", Editable, func(c *Character) *int { return &c.ProfessionLevel }),

		intField("vidaAtual", Editable, func(c *Character) *int { return &c.Life.Current }),
		maxField("vidaMax", DefaultLifeMax, func(c *Character) *int { return &c.Life.Max }),
		intField("ferimentosAtivos", Managed, func(c *Character) *int { return &c.Life.InjuryReduction }),
		intField("vigorAtual", Editable, func(c *Character) *int { return &c.Vigor.Current }),
		maxField("vigorMax", DefaultVigorMax, func(c *Character) *int { return &c.Vigor.Max }),
		intField("lesoesAtivas", Managed, func(c *Character) *int { return &c.Vigor.InjuryReduction }),

		intField("classeAcerto", Computed, func(c *Character) *int { return &c.AccuracyClass }),
		intField("classeDificuldade", Computed, func(c *Character) *int { return &c.DifficultyClass }),
		stringField("deslocamento", Computed, "", func(c *Character) *string { return &c.Movement }),
		intField("determinacao", Editable, func(c *Character) *int { return &c.Determination }),
		intField("bonusMaestria", Editable, func(c *Character) *int { return &c.Mastery }),
		intField("sorte", Editable, func(c *Character) *int { return &c.Luck }),

		stringField("reservaVidaDados", Computed, "", func(c *Character) *string { return &c.LifeDice }),
		stringField("reservaVigorDados", Computed, "", func(c *Character) *string { return &c.VigorDice }),
		intField("reservaVidaQtd", Editable, func(c *Character) *int { return &c.LifeCount }),
		intField("reservaVigorQtd", Editable, func(c *Character) *int { return &c.VigorCount }),

		stringField("akumaNome", Editable, "", func(c *Character) *string { return &c.Fruit.Name }),
		stringField("akumaTipo", Editable, DefaultFruitType, func(c *Character) *string { return &c.Fruit.Type }),
		stringField("akumaSubtipo", Editable, "", func(c *Character) *string { return &c.Fruit.Subtype }),
		stringField("akumaTematica", Editable, "", func(c *Character) *string { return &c.Fruit.Theme }),
		stringField("akumaDesejo", Editable, "", func(c *Character) *string { return &c.Fruit.Desire }),
		intField("nivelFruta", Editable, func(c *Character) *int { return &c.Fruit.Level }),

		intField("pontosCompetenciaDisponiveis", Editable, func(c *Character) *int { return &c.Points.Competency }),
		intField("pontosAptidaoDisponiveis", Editable, func(c *Character) *int { return &c.Points.Aptitude }),
		intField("habilidadePontos", Editable, func(c *Character) *int { return &c.Points.Skill }),
		intField("habilidadeFrutaPontos", Editable, func(c *Character) *int { return &c.Points.FruitSkill }),

		stringField("ilhaOrigem", Editable, "", func(c *Character) *string { return &c.Origin }),
		stringField("historia", Editable, "", func(c *Character) *string { return &c.History }),
		stringField("sonho", Editable, "", func(c *Character) *string { return &c.Dream }),
		stringField("pessoaImportante", Editable, "", func(c *Character) *string { return &c.ImportantPerson }),
		stringField("objetivos", Editable, "", func(c *Character) *string { return &c.Goals }),
		stringField("qualidades", Editable, "", func(c *Character) *string { return &c.Qualities }),
		stringField("habilidadeInutil", Editable, "", func(c *Character) *string { return &c.UselessSkill }),
		stringField("defeitos", Editable, "", func(c *Character) *string { return &c.Flaws }),
		stringField("reputacao", Editable, "", func(c *Character) *string { return &c.Reputation }),
		stringField("moral", Editable, "", func(c *Character) *string { return &c.Moral }),
		stringField("bounty", Editable, "", func(c *Character) *string { return &c.Bounty }),
		stringField("dinheiro", Editable, "", func(c *Character) *string { return &c.Money }),
		stringField("anotacoesGerais", Editable, "", func(c *Character) *string { return &c.Personal.Notes }),
		stringField("avatarBase64", Editable, "", func(c *Character) *string { return &c.Avatar }),

		listField(ListEntries, func(c *Character) *[]Entry { return &c.Entries }, loadEntry, Entry.Record),
		listField(ListSkills, func(c *Character) *[]Skill { return &c.Skills }, DecodeSkill, Skill.Record),
		listField(ListFruitSkills, func(c *Character) *[]Skill { return &c.FruitSkills }, DecodeSkill, Skill.Record),
		listField(ListAttacks, func(c *Character) *[]Attack { return &c.Attacks }, DecodeAttack, Attack.Record),
		listField(ListItems, func(c *Character) *[]Item { return &c.Items }, DecodeItem, Item.Record),
		listField(ListSessions, func(c *Character) *[]Session { return &c.Sessions }, DecodeSession, Session.Record),
	}

	for _, s := range Stats() {
		out = append(out,
			intField(s.Key()+"Base", Editable, func(c *Character) *int { return &c.Primaries[s].Base }),
			intField(s.Key()+"Bonus", Editable, func(c *Character) *int { return &c.Primaries[s].Bonus }),
			intField(s.Key()+"Total", Computed, func(c *Character) *int { return &c.Primaries[s].Total }),
		)
	}
	for _, d := range DerivedStats() {
		out = append(out,
			intField(d.Key()+"Base", Computed, func(c *Character) *int { return &c.Derived[d].Base }),
			intField(d.Key()+"Bonus", Editable, func(c *Character) *int { return &c.Derived[d].Bonus }),
			intField(d.Key()+"Total", Computed, func(c *Character) *int { return &c.Derived[d].Total }),
		)
	}
	return out
}

// FieldNames returns every record field name, sorted.
func FieldNames() []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.name)
	}
	sort.Strings(out)
	return out
}

// FieldAccess reports how the named field may be written.
func FieldAccess(name string) (Access, bool) {
	i, ok := fieldIndex[name]
	if !ok {
		return 0, false
	}
	return fields[i].access, true
}

// Set writes one field through coercion. Managed fields are rejected;
// computed fields are written as given.
func (c *Character) Set(name string, value any) error {
	i, ok := fieldIndex[name]
	if !ok {
		return apperrors.Field(apperrors.CodeFieldUnknown, "unknown field "+name, name)
	}
	f := fields[i]
	if f.access == Managed {
		return apperrors.Field(apperrors.CodeFieldNotEditable, "field "+name+" is not editable", name)
	}
	return f.set(c, value)
}

// Get returns the record value of one field.
func (c Character) Get(name string) (any, bool) {
	i, ok := fieldIndex[name]
	if !ok {
		return nil, false
	}
	return fields[i].get(&c), true
}

// Record returns the flat record form with every field present.
func (c Character) Record() map[string]any {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		out[f.name] = f.get(&c)
	}
	return out
}

// FromRecord builds a character from a flat record, starting from Default.
// Unknown keys are ignored and present keys are coerced. Malformed lists
// load as empty, entries without a known kind load as competencies and a
// zero or blank pool max loads as the default pool.
func FromRecord(record map[string]any) (Character, error) {
	c := Default()
	for _, f := range fields {
		value, ok := record[f.name]
		if !ok {
			continue
		}
		if f.load != nil {
			f.load(&c, value)
			continue
		}
		if err := f.set(&c, value); err != nil {
			return Character{}, err
		}
	}
	return c, nil
}
