package sherdog

import (
	"strconv"
	"strings"
)

// weight limits in pounds for division names the site sometimes renders
// without a numeric weight
var categoryWeights = map[string]int{
	"atomweight":               105,
	"strawweight":              115,
	"flyweight":                125,
	"bantamweight":             135,
	"featherweight":            145,
	"lightweight":              155,
	"super lightweight":        165,
	"welterweight":             170,
	"super welterweight":       175,
	"middleweight":             185,
	"super middleweight":       195,
	"light heavyweight":        205,
	"cruiserweight":            225,
	"heavyweight":              265,
	"super heavyweight":        300,
	"women's strawweight":      115,
	"women's flyweight":        125,
	"women's bantamweight":     135,
	"women's featherweight":    145,
}

// ParseCategory splits a division cell into a category name and a weight
// limit. "185 Middleweight" carries its own weight; a bare "Middleweight"
// resolves through the static table. Trailing "Title"/"Bout" markers are
// not part of the category name.
func ParseCategory(cell string) (Category, error) {
	tokens := strings.Fields(strings.TrimSpace(cell))
	for len(tokens) > 0 {
		last := strings.ToLower(tokens[len(tokens)-1])
		if last != "title" && last != "bout" && last != "fight" {
			break
		}
		tokens = tokens[:len(tokens)-1]
	}
	if len(tokens) == 0 {
		return Category{}, &ParseError{Row: -1, Missing: []string{"division"}}
	}

	if weight, err := strconv.Atoi(tokens[0]); err == nil {
		name := strings.Join(tokens[1:], " ")
		if name == "" {
			return Category{}, &ParseError{Row: -1, Missing: []string{"division"}}
		}
		return Category{Name: name, Weight: weight}, nil
	}

	name := strings.Join(tokens, " ")
	weight, ok := categoryWeights[strings.ToLower(name)]
	if !ok {
		return Category{}, &ParseError{Row: -1, Missing: []string{"weight"}}
	}
	return Category{Name: name, Weight: weight}, nil
}

// IsTitleFight reports whether a division cell marks a championship bout.
func IsTitleFight(cell string) bool {
	return strings.Contains(strings.ToLower(cell), "title")
}
