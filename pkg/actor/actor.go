// Package actor is the character data behind a sheet: abilities, class and
// level, saving throws, experience and carried items.
package actor

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Ability is an ability score code. The values match the attr-<code>
// classes on the sheet.
type Ability string

const (
	STR Ability = "str"
	INT Ability = "int"
	WIS Ability = "wis"
	DEX Ability = "dex"
	CON Ability = "con"
	CHA Ability = "cha"
)

var Abilities = []Ability{STR, INT, WIS, DEX, CON, CHA}

var ErrItemNotFound = errors.New("item not found")

type Item struct {
	ID       string  `yaml:"id"`
	Name     string  `yaml:"name"`
	Quantity int     `yaml:"quantity"`
	Weight   float64 `yaml:"weight,omitempty"`
	Equipped bool    `yaml:"equipped,omitempty"`
}

type Actor struct {
	ID         string          `yaml:"id"`
	Name       string          `yaml:"name"`
	OwnerID    string          `yaml:"owner"`
	Class      Class           `yaml:"class"`
	Level      int             `yaml:"level"`
	XP         int             `yaml:"xp"`
	HP         int             `yaml:"hp"`
	MaxHP      int             `yaml:"max_hp"`
	ArmorClass int             `yaml:"armor_class"`
	Scores     map[Ability]int `yaml:"abilities"`
	Items      []Item          `yaml:"items,omitempty"`
}

// New returns a level 1 actor with average scores.
func New(name, ownerID string, class Class) *Actor {
	a := &Actor{
		ID:         uuid.NewString(),
		Name:       name,
		OwnerID:    ownerID,
		Class:      class,
		Level:      1,
		ArmorClass: 9,
		Scores:     make(map[Ability]int, len(Abilities)),
	}
	for _, ab := range Abilities {
		a.Scores[ab] = 10
	}
	return a
}

// Score returns an ability score, 10 when unset.
func (a *Actor) Score(ab Ability) int {
	if v, ok := a.Scores[ab]; ok {
		return v
	}
	return 10
}

func (a *Actor) Modifier(ab Ability) int {
	return Modifier(a.Score(ab))
}

// Saves returns the actor's saving throw targets.
func (a *Actor) Saves() map[Save]int {
	saves, ok := SavingThrows(a.Class, a.Level)
	if !ok {
		saves, _ = SavingThrows(ClassNormal, 0)
	}
	return saves
}

// AwardXP adds experience and raises the level to match. It reports
// whether the level changed.
func (a *Actor) AwardXP(xp int) bool {
	if xp <= 0 {
		return false
	}
	a.XP += xp
	level := LevelForXP(a.Class, a.XP)
	if level <= a.Level {
		return false
	}
	a.Level = level
	return true
}

// AddItem adds an item and returns it with its new id.
func (a *Actor) AddItem(name string, quantity int) Item {
	if quantity < 1 {
		quantity = 1
	}
	it := Item{ID: uuid.NewString(), Name: strings.TrimSpace(name), Quantity: quantity}
	a.Items = append(a.Items, it)
	return it
}

func (a *Actor) index(id string) int {
	for i, it := range a.Items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func (a *Actor) Item(id string) (Item, error) {
	i := a.index(id)
	if i < 0 {
		return Item{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	return a.Items[i], nil
}

// UpdateItem applies fn to the item with id.
func (a *Actor) UpdateItem(id string, fn func(*Item)) error {
	i := a.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	fn(&a.Items[i])
	a.Items[i].ID = id
	return nil
}

func (a *Actor) RemoveItem(id string) error {
	i := a.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	a.Items = append(a.Items[:i], a.Items[i+1:]...)
	return nil
}

// Encumbrance sums the weight of carried items.
func (a *Actor) Encumbrance() float64 {
	total := 0.0
	for _, it := range a.Items {
		total += it.Weight * float64(it.Quantity)
	}
	return total
}

// Load reads an actor from a YAML file. A missing id is generated.
func Load(path string) (*Actor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read actor: %w", err)
	}
	var a Actor
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse actor %s: %w", path, err)
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Level < 1 {
		a.Level = LevelForXP(a.Class, a.XP)
	}
	if a.Scores == nil {
		a.Scores = make(map[Ability]int)
	}
	return &a, nil
}

// Save writes a to path as YAML.
func (a *Actor) Save(path string) error {
	data, err := yaml.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode actor: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write actor: %w", err)
	}
	return nil
}
