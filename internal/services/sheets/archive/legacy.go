package archive

import (
	"strings"

	apperrors "github.com/louisbranch/grandline/internal/platform/errors"
	"github.com/louisbranch/grandline/internal/services/sheets/domain/character"
)

// shapeKeys are the fields of which at least one must be present for a
// document to be accepted as a character sheet: name, race, class or any
// primary base attribute.
var shapeKeys = func() []string {
	keys := []string{"nome", "raca", "classe"}
	for _, s := range character.Stats() {
		keys = append(keys, s.Key()+"Base")
	}
	return keys
}()

var raceNames = map[string]string{
	"umano":         "Humano",
	"Humano":        "Humano",
	"Humano-Peixe":  "Humano-Peixe",
	"Tritao":        "Tritão",
	"Tritão":        "Tritão",
	"Mink":          "Mink",
	"Povo do Ceu":   "Povo do Céu",
	"Povo do Céu":   "Povo do Céu",
	"Anao Tontatta": "Anão Tontatta",
	"Anão Tontatta": "Anão Tontatta",
}

var classNames = map[string]string{
	"Lutador":         "Lutador",
	"Guerrilheiro":    "Guerrilheiro",
	"ArtistaMarcial":  "Artista Marcial",
	"Artista Marcial": "Artista Marcial",
	"Espadachim":      "Espadachim",
	"Atirador":        "Atirador",
	"Especialista":    "Especialista",
	"Assassino":       "Assassino",
	"Ladrao":          "Ladrão",
	"Ladrão":          "Ladrão",
}

var professionNames = map[string]string{
	"Capitao":                "Capitão",
	"Capitão":                "Capitão",
	"Imediato":               "Imediato",
	"Navegador":              "Navegador",
	"Cozinheiro":             "Cozinheiro",
	"Medico":                 "Médico",
	"Médico":                 "Médico",
	"Arqueologo":             "Arqueólogo",
	"Arqueólogo":             "Arqueólogo",
	"Carpinteiro":            "Carpinteiro",
	"Musico":                 "Músico",
	"Músico":                 "Músico",
	"Atirador":               "Atirador",
	"Marinheiro":             "Marinheiro",
	"Cacador":                "Caçador de Recompensas",
	"Cacador de Recompensas": "Caçador de Recompensas",
	"Caçador de Recompensas": "Caçador de Recompensas",
	"Revolucionario":         "Revolucionário",
	"Revolucionário":         "Revolucionário",
	"Combatente":             "Combatente",
	"Outro":                  "Outro",
}

var potentialNames = map[string]string{
	"Desastre Sobrenatural": "Desastre Sobrenatural",
	"Monstro":               "Monstro",
	"Sobre-Humano":          "Sobre-Humano",
	"Humano":                "Humano",
	"Ciborgue":              "Ciborgue",
}

// renames maps a legacy key to its canonical key. The legacy value is used
// only when the canonical key is absent.
var renames = []struct{ legacy, canonical string }{
	{"vida", "vidaAtual"},
	{"vigor", "vigorAtual"},
	{"competenciaPontos", "pontosCompetenciaDisponiveis"},
	{"aptidaoPontos", "pontosAptidaoDisponiveis"},
	{"aparenciaBase64", "avatarBase64"},
}

// legacyEntryLists are the split lists older sheets kept before
// competencies, aptitudes and trophies shared one list.
var legacyEntryLists = []struct {
	key   string
	kind  character.EntryKind
	notes []string
}{
	{"listaCompetencias", character.KindCompetency, []string{"observacoes", "especializacao"}},
	{"listaAptidoes", character.KindAptitude, []string{"observacoes", "atributo"}},
	{"listaTrunfos", character.KindTrophy, []string{"descricao", "observacoes"}},
}

// CheckShape rejects documents that carry none of the identifying fields.
func CheckShape(raw map[string]any) error {
	for _, key := range shapeKeys {
		if _, ok := raw[key]; ok {
			return nil
		}
	}
	return apperrors.New(apperrors.CodeImportShapeMismatch, "document is not a character sheet")
}

// Normalize rewrites legacy keys and values into the canonical record form.
// The input map is not modified.
func Normalize(raw map[string]any) (map[string]any, error) {
	if err := CheckShape(raw); err != nil {
		return nil, err
	}
	out := make(map[string]any, len(raw))
	for key, value := range raw {
		out[key] = value
	}

	for _, r := range renames {
		if legacy, ok := out[r.legacy]; ok {
			if _, exists := out[r.canonical]; !exists {
				out[r.canonical] = legacy
			}
			delete(out, r.legacy)
		}
	}

	mergeEntryLists(out)
	sumDamage(out, "ferimentos", "ferimentosAtivos")
	sumDamage(out, "lesoes", "lesoesAtivas")
	for _, list := range []character.List{character.ListSkills, character.ListFruitSkills} {
		if value, ok := out[string(list)]; ok {
			out[string(list)] = renameInList(value, "desc", "descricao")
		}
	}
	if value, ok := out[string(character.ListItems)]; ok {
		out[string(character.ListItems)] = splitDurability(value)
	}

	mapValue(out, "raca", raceNames, character.DefaultRace)
	mapValue(out, "classe", classNames, character.DefaultClass)
	mapValue(out, "profissao", professionNames, "")
	mapValue(out, "potencial", potentialNames, character.DefaultPotential)
	return out, nil
}

// mapValue canonicalizes a picklist value. Unknown values fall back to
// fallback, or are kept as given when fallback is empty.
func mapValue(out map[string]any, key string, names map[string]string, fallback string) {
	value, ok := out[key]
	if !ok {
		return
	}
	text := strings.TrimSpace(character.String(value, ""))
	if canonical, ok := names[text]; ok {
		out[key] = canonical
		return
	}
	if fallback != "" {
		out[key] = fallback
		return
	}
	out[key] = text
}

func mergeEntryLists(out map[string]any) {
	_, hasCanonical := out[string(character.ListEntries)]
	var merged []any
	found := false
	for _, legacy := range legacyEntryLists {
		value, ok := out[legacy.key]
		if !ok {
			continue
		}
		delete(out, legacy.key)
		found = true
		items, _ := value.([]any)
		for _, item := range items {
			raw, ok := item.(map[string]any)
			if !ok || character.String(raw["nome"], "") == "" {
				continue
			}
			level := 0
			if legacy.kind.Leveled() {
				level = character.Int(raw["nivel"])
			}
			merged = append(merged, map[string]any{
				"nome":        raw["nome"],
				"tipo":        string(legacy.kind),
				"nivel":       level,
				"observacoes": firstText(raw, legacy.notes...),
			})
		}
	}
	if found && !hasCanonical {
		if merged == nil {
			merged = []any{}
		}
		out[string(character.ListEntries)] = merged
	}
}

func firstText(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		if text := character.String(raw[key], ""); text != "" {
			return text
		}
	}
	return ""
}

// sumDamage folds a legacy wound log into its active-injury counter.
func sumDamage(out map[string]any, legacyKey, canonical string) {
	value, ok := out[legacyKey]
	if !ok {
		return
	}
	delete(out, legacyKey)
	if _, exists := out[canonical]; exists {
		return
	}
	items, _ := value.([]any)
	total := 0
	for _, item := range items {
		if raw, ok := item.(map[string]any); ok {
			total += character.Int(raw["dano"])
		}
	}
	out[canonical] = total
}

func renameInList(value any, legacy, canonical string) any {
	items, ok := value.([]any)
	if !ok {
		return value
	}
	out := make([]any, 0, len(items))
	for _, item := range items {
		raw, ok := item.(map[string]any)
		if !ok {
			out = append(out, item)
			continue
		}
		if old, ok := raw[legacy]; ok {
			copied := copyMap(raw)
			if _, exists := copied[canonical]; !exists {
				copied[canonical] = old
			}
			delete(copied, legacy)
			raw = copied
		}
		out = append(out, raw)
	}
	return out
}

func splitDurability(value any) any {
	items, ok := value.([]any)
	if !ok {
		return value
	}
	out := make([]any, 0, len(items))
	for _, item := range items {
		raw, ok := item.(map[string]any)
		if !ok {
			out = append(out, item)
			continue
		}
		if old, ok := raw["durabilidade"]; ok {
			copied := copyMap(raw)
			if _, exists := copied["durabilidadeAtual"]; !exists {
				copied["durabilidadeAtual"] = old
			}
			if _, exists := copied["durabilidadeOriginal"]; !exists {
				copied["durabilidadeOriginal"] = old
			}
			delete(copied, "durabilidade")
			raw = copied
		}
		out = append(out, raw)
	}
	return out
}

func copyMap(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))
	for key, value := range raw {
		out[key] = value
	}
	return out
}
