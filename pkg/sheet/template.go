package sheet

import (
	"bytes"
	_ "embed"
	"fmt"
	"strconv"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"charsheet/pkg/actor"
)

//go:embed templates/sheet.html.tmpl
var defaultTemplate string

// DefaultTabs are the tab anchors of the built-in template.
var DefaultTabs = []string{"abilities", "saves", "items", "notes"}

type abilityValues struct {
	Code     string
	Score    int
	Modifier int
}

type saveValues struct {
	Type   string
	Target int
}

// templateValues is what sheet templates see. Everything is flattened to
// plain types so sprig string functions apply directly.
type templateValues struct {
	ID          string
	Name        string
	Class       string
	Mode        string
	Level       int
	XP          int
	NextXP      int
	HP          int
	MaxHP       int
	ArmorClass  int
	Abilities   []abilityValues
	Saves       []saveValues
	Tabs        []string
	Items       []actor.Item
	Encumbrance float64
	Scripts     []string
}

func newTemplateValues(a *actor.Actor, mode string, tabs, scripts []string) *templateValues {
	v := &templateValues{
		ID:          a.ID,
		Name:        a.Name,
		Class:       string(a.Class),
		Mode:        mode,
		Level:       a.Level,
		XP:          a.XP,
		HP:          a.HP,
		MaxHP:       a.MaxHP,
		ArmorClass:  a.ArmorClass,
		Tabs:        tabs,
		Items:       a.Items,
		Encumbrance: a.Encumbrance(),
		Scripts:     scripts,
	}
	if next, ok := actor.NextLevelXP(a.Class, a.Level); ok {
		v.NextXP = next
	}
	for _, ab := range actor.Abilities {
		v.Abilities = append(v.Abilities, abilityValues{Code: string(ab), Score: a.Score(ab), Modifier: a.Modifier(ab)})
	}
	saves := a.Saves()
	for _, s := range actor.SaveOrder {
		if target, ok := saves[s]; ok {
			v.Saves = append(v.Saves, saveValues{Type: string(s), Target: target})
		}
	}
	return v
}

// signed formats a modifier with an explicit sign, e.g. "+1", "-2", "0".
func signed(n int) string {
	if n > 0 {
		return "+" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func expandTemplate(name, text string, values *templateValues) (string, error) {
	funcMap := sprig.FuncMap()
	funcMap["signed"] = signed

	tmpl, err := template.New(name).Funcs(funcMap).Parse(text)
	if err != nil {
		return "", fmt.Errorf("unable to parse sheet template %s: %w", name, err)
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", fmt.Errorf("unable to expand sheet template %s: %w", name, err)
	}
	return buf.String(), nil
}
