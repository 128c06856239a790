package actor

// Class is a character class. Demi-human races are classes of their own.
type Class string

const (
	ClassCleric    Class = "cleric"
	ClassDwarf     Class = "dwarf"
	ClassElf       Class = "elf"
	ClassFighter   Class = "fighter"
	ClassHalfling  Class = "halfling"
	ClassMagicUser Class = "magic-user"
	ClassThief     Class = "thief"
	ClassNormal    Class = "normal"
)

// Classes lists the playable classes in sheet order.
var Classes = []Class{ClassCleric, ClassDwarf, ClassElf, ClassFighter, ClassHalfling, ClassMagicUser, ClassThief}

// Save is a saving throw category. The values match the save-group-<type>
// classes on the sheet.
type Save string

const (
	SaveDeath     Save = "death"
	SaveWands     Save = "wands"
	SaveParalysis Save = "paralysis"
	SaveBreath    Save = "breath"
	SaveSpells    Save = "spells"
)

var SaveOrder = []Save{SaveDeath, SaveWands, SaveParalysis, SaveBreath, SaveSpells}

// saveBand is the target numbers for every level up to and including
// MaxLevel, in SaveOrder.
type saveBand struct {
	MaxLevel int
	Targets  [5]int
}

var saveTables = map[Class][]saveBand{
	ClassCleric: {
		{4, [5]int{11, 12, 14, 16, 15}},
		{8, [5]int{9, 10, 12, 14, 12}},
		{12, [5]int{6, 7, 9, 11, 9}},
		{14, [5]int{3, 5, 7, 8, 7}},
	},
	ClassDwarf: {
		{3, [5]int{8, 9, 10, 13, 12}},
		{6, [5]int{6, 7, 8, 10, 10}},
		{9, [5]int{4, 5, 6, 7, 8}},
		{12, [5]int{2, 3, 4, 4, 6}},
	},
	ClassElf: {
		{3, [5]int{12, 13, 13, 15, 15}},
		{6, [5]int{10, 11, 11, 13, 12}},
		{9, [5]int{8, 9, 9, 10, 10}},
		{10, [5]int{6, 7, 8, 8, 8}},
	},
	ClassFighter: {
		{3, [5]int{12, 13, 14, 15, 16}},
		{6, [5]int{10, 11, 12, 13, 14}},
		{9, [5]int{8, 9, 10, 10, 12}},
		{12, [5]int{6, 7, 8, 8, 10}},
		{14, [5]int{4, 5, 6, 5, 8}},
	},
	// Halflings save as dwarves but top out at level 8.
	ClassHalfling: {
		{3, [5]int{8, 9, 10, 13, 12}},
		{6, [5]int{6, 7, 8, 10, 10}},
		{8, [5]int{4, 5, 6, 7, 8}},
	},
	ClassMagicUser: {
		{5, [5]int{13, 14, 13, 16, 15}},
		{10, [5]int{11, 12, 11, 14, 12}},
		{14, [5]int{8, 9, 8, 11, 8}},
	},
	ClassThief: {
		{4, [5]int{13, 14, 13, 16, 15}},
		{8, [5]int{12, 13, 11, 14, 13}},
		{12, [5]int{10, 11, 9, 12, 10}},
		{14, [5]int{8, 9, 7, 10, 8}},
	},
	ClassNormal: {
		{0, [5]int{14, 15, 16, 17, 18}},
	},
}

// xpTables holds the experience needed for each level, starting at level 1.
var xpTables = map[Class][]int{
	ClassCleric:    {0, 1500, 3000, 6000, 12000, 25000, 50000, 100000, 200000, 300000, 400000, 500000, 600000, 700000},
	ClassDwarf:     {0, 2200, 4400, 8800, 17000, 35000, 70000, 140000, 270000, 400000, 530000, 660000},
	ClassElf:       {0, 4000, 8000, 16000, 32000, 64000, 120000, 250000, 400000, 600000},
	ClassFighter:   {0, 2000, 4000, 8000, 16000, 32000, 64000, 120000, 240000, 360000, 480000, 600000, 720000, 840000},
	ClassHalfling:  {0, 2000, 4000, 8000, 16000, 32000, 64000, 120000},
	ClassMagicUser: {0, 2500, 5000, 10000, 20000, 40000, 80000, 150000, 300000, 450000, 600000, 750000, 900000, 1050000},
	ClassThief:     {0, 1200, 2400, 4800, 9600, 20000, 40000, 80000, 160000, 280000, 400000, 520000, 640000, 760000},
	ClassNormal:    {0},
}

// SavingThrows returns the target numbers for class at level. Levels past
// the table use its last band.
func SavingThrows(class Class, level int) (map[Save]int, bool) {
	bands, ok := saveTables[class]
	if !ok {
		return nil, false
	}
	band := bands[len(bands)-1]
	for _, b := range bands {
		if level <= b.MaxLevel {
			band = b
			break
		}
	}
	out := make(map[Save]int, len(SaveOrder))
	for i, s := range SaveOrder {
		out[s] = band.Targets[i]
	}
	return out, true
}

// MaxLevel returns the highest level class can reach.
func MaxLevel(class Class) int {
	return len(xpTables[class])
}

// LevelForXP returns the level reached with xp experience points.
func LevelForXP(class Class, xp int) int {
	table, ok := xpTables[class]
	if !ok {
		return 1
	}
	level := 1
	for i, need := range table {
		if xp >= need {
			level = i + 1
		}
	}
	return level
}

// NextLevelXP returns the experience needed for the level after level, or
// false at the class maximum.
func NextLevelXP(class Class, level int) (int, bool) {
	table := xpTables[class]
	if level < 1 || level >= len(table) {
		return 0, false
	}
	return table[level], true
}

// Modifier returns the ability score modifier for score.
func Modifier(score int) int {
	switch {
	case score <= 3:
		return -3
	case score <= 5:
		return -2
	case score <= 8:
		return -1
	case score <= 12:
		return 0
	case score <= 15:
		return 1
	case score <= 17:
		return 2
	}
	return 3
}
