// Package character defines the typed character sheet record and its flat
// record representation.
package character

// Stat identifies one of the ten primary attributes.
type Stat int

const (
	Strength Stat = iota
	Dexterity
	Vitality
	Appearance
	Knowledge
	Reasoning
	Will
	Destiny
	Speed
	Resilience
)

// StatCount is the number of primary attributes.
const StatCount = 10

var statKeys = [StatCount]string{
	"forca",
	"destreza",
	"vitalidade",
	"aparencia",
	"conhecimento",
	"raciocinio",
	"vontade",
	"destino",
	"velocidade",
	"resiliencia",
}

// Stats lists every primary attribute in sheet order.
func Stats() []Stat {
	out := make([]Stat, 0, StatCount)
	for s := Stat(0); s < StatCount; s++ {
		out = append(out, s)
	}
	return out
}

// Key returns the record key prefix for the attribute.
func (s Stat) Key() string {
	if s < 0 || s >= StatCount {
		return ""
	}
	return statKeys[s]
}

// DerivedStat identifies one of the five derived attributes.
type DerivedStat int

const (
	Agility DerivedStat = iota
	Resistance
	Persistence
	Discipline
	Charisma
)

// DerivedCount is the number of derived attributes.
const DerivedCount = 5

var derivedKeys = [DerivedCount]string{
	"agilidade",
	"resistencia",
	"persistencia",
	"disciplina",
	"carisma",
}

var derivedPairs = [DerivedCount][2]Stat{
	{Dexterity, Speed},
	{Strength, Resilience},
	{Knowledge, Vitality},
	{Reasoning, Will},
	{Appearance, Destiny},
}

// DerivedStats lists every derived attribute in sheet order.
func DerivedStats() []DerivedStat {
	out := make([]DerivedStat, 0, DerivedCount)
	for d := DerivedStat(0); d < DerivedCount; d++ {
		out = append(out, d)
	}
	return out
}

// Key returns the record key prefix for the derived attribute.
func (d DerivedStat) Key() string {
	if d < 0 || d >= DerivedCount {
		return ""
	}
	return derivedKeys[d]
}

// Pair returns the two primary attributes whose totals form the base.
func (d DerivedStat) Pair() (Stat, Stat) {
	if d < 0 || d >= DerivedCount {
		return -1, -1
	}
	p := derivedPairs[d]
	return p[0], p[1]
}

// Attribute holds one attribute's base, bonus and computed total.
type Attribute struct {
	Base  int
	Bonus int
	Total int
}

// VitalPool tracks a current/max resource reduced by injuries.
type VitalPool struct {
	Current         int
	Max             int
	InjuryReduction int
}

// AdjustedMax returns the max after injuries, never below 1.
func (p VitalPool) AdjustedMax() int {
	injury := max(p.InjuryReduction, 0)
	if p.Max < 1 || injury >= p.Max {
		return 1
	}
	adjusted := p.Max - injury
	if adjusted < 1 {
		return 1
	}
	return adjusted
}

// Combat holds values computed from derived attribute totals.
type Combat struct {
	AccuracyClass   int
	DifficultyClass int
	Movement        string
}

// Reserves holds recovery dice and their user-tracked counts.
type Reserves struct {
	LifeDice   string
	VigorDice  string
	LifeCount  int
	VigorCount int
}

// Identity holds the bio fields shown at the top of the sheet.
type Identity struct {
	Name            string
	Race            string
	Class           string
	Profession      string
	Potential       string
	ClassLevel      int
	ProfessionLevel int
}

// Status holds general status counters.
type Status struct {
	Determination int
	Mastery       int
	Luck          int
}

// DevilFruit describes the character's devil fruit, if any.
type DevilFruit struct {
	Name    string
	Type    string
	Subtype string
	Theme   string
	Desire  string
	Level   int
}

// Points holds the advisory point budgets.
type Points struct {
	Competency int
	Aptitude   int
	Skill      int
	FruitSkill int
}

// Personal holds free-form biography text.
type Personal struct {
	Origin          string
	History         string
	Dream           string
	ImportantPerson string
	Goals           string
	Qualities       string
	UselessSkill    string
	Flaws           string
	Reputation      string
	Moral           string
	Bounty          string
	Money           string
	Notes           string
}

// Character aggregates one full character sheet.
type Character struct {
	Identity
	Status
	Primaries [StatCount]Attribute
	Derived   [DerivedCount]Attribute
	Life      VitalPool
	Vigor     VitalPool
	Combat
	Reserves
	Fruit DevilFruit
	Points
	Personal
	Avatar string

	Entries     []Entry
	Skills      []Skill
	FruitSkills []Skill
	Attacks     []Attack
	Items       []Item
	Sessions    []Session
}

// Default values for a freshly created sheet.
const (
	DefaultRace       = "Humano"
	DefaultClass      = "Lutador"
	DefaultProfession = "Combatente"
	DefaultPotential  = "Monstro"
	DefaultFruitType  = "Paramecia"
	DefaultLifeMax    = 10
	DefaultVigorMax   = 6
)

// Default returns a new character with the documented starting values.
// Computed fields are left zero; run the engine to fill them.
func Default() Character {
	return Character{
		Identity: Identity{
			Race:            DefaultRace,
			Class:           DefaultClass,
			Profession:      DefaultProfession,
			Potential:       DefaultPotential,
			ClassLevel:      1,
			ProfessionLevel: 1,
		},
		Status: Status{Mastery: 1},
		Life:   VitalPool{Current: DefaultLifeMax, Max: DefaultLifeMax},
		Vigor:  VitalPool{Current: DefaultVigorMax, Max: DefaultVigorMax},
		Combat: Combat{AccuracyClass: 1, DifficultyClass: 1},
		Reserves: Reserves{
			LifeCount:  1,
			VigorCount: 1,
		},
		Fruit: DevilFruit{Type: DefaultFruitType},
	}
}

// Primary returns the primary attribute s.
func (c Character) Primary(s Stat) Attribute {
	if s < 0 || s >= StatCount {
		return Attribute{}
	}
	return c.Primaries[s]
}

// DerivedAttribute returns the derived attribute d.
func (c Character) DerivedAttribute(d DerivedStat) Attribute {
	if d < 0 || d >= DerivedCount {
		return Attribute{}
	}
	return c.Derived[d]
}

// Clone returns a deep copy whose lists share no backing arrays with c.
func (c Character) Clone() Character {
	out := c
	out.Entries = append([]Entry(nil), c.Entries...)
	out.Skills = append([]Skill(nil), c.Skills...)
	out.FruitSkills = append([]Skill(nil), c.FruitSkills...)
	out.Attacks = append([]Attack(nil), c.Attacks...)
	out.Items = append([]Item(nil), c.Items...)
	out.Sessions = append([]Session(nil), c.Sessions...)
	return out
}
