package friendly

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/beevik/etree"
)

// Mode selects which rule table the resolver scores names with.
type Mode uint8

const (
	// ModeDisplay prefers human-readable names.
	ModeDisplay Mode = iota
	// ModeKey prefers identifiers.
	ModeKey
)

func (m Mode) String() string {
	if m == ModeKey {
		return "key"
	}
	return "display"
}

// nameRule scores an upper-cased candidate name. Rules are tried in order and
// the first match wins.
type nameRule struct {
	match func(upper string) bool
	score int
}

func is(names ...string) func(string) bool {
	return func(upper string) bool {
		for _, n := range names {
			if upper == n {
				return true
			}
		}
		return false
	}
}

func endsWith(suffixes ...string) func(string) bool {
	return func(upper string) bool {
		for _, s := range suffixes {
			if strings.HasSuffix(upper, s) {
				return true
			}
		}
		return false
	}
}

func contains(parts ...string) func(string) bool {
	return func(upper string) bool {
		for _, p := range parts {
			if strings.Contains(upper, p) {
				return true
			}
		}
		return false
	}
}

func anyOf(preds ...func(string) bool) func(string) bool {
	return func(upper string) bool {
		for _, p := range preds {
			if p(upper) {
				return true
			}
		}
		return false
	}
}

var displayRules = []nameRule{
	{endsWith("INTERNALGAMENAME"), -2500},
	{endsWith("TYPENAME"), -2000},
	{endsWith("MEASUREMENTNAME"), -1800},
	{contains("TEMPERATURE", "WINDSPEED", "WINDDIRECTION", "DATETIME"), -1600},
	{is("FULLNAME"), 5000},
	{is("DISPLAYNAME"), 4500},
	{is("NAME"), 4000},
	{is("TITLE"), 3800},
	{is("DESCRIPTION"), 3600},
	{is("AGENCYID"), 3500},
	{is("LABEL"), 3400},
	{is("GROUPNAME"), 3300},
	{is("MODITEMNAME"), 3200},
	{endsWith("FULLNAME"), 3000},
	{endsWith("DISPLAYNAME"), 2950},
	{endsWith("NAME"), 2800},
	{endsWith("TITLE"), 2700},
	{endsWith("DESCRIPTION"), 2600},
	{anyOf(is("ID", "KEY"), endsWith("ID", "KEY")), 800},
}

var keyRules = []nameRule{
	{endsWith("TYPENAME", "MEASUREMENTNAME"), -1200},
	{is("ID"), 5000},
	// GUID before ID: every *GUID name also ends in ID.
	{endsWith("GUID"), 3400},
	{endsWith("ID"), 4200},
	{anyOf(is("KEY"), endsWith("KEY")), 3800},
	{endsWith("HASH"), 3200},
}

// NamePriority returns the base score of a candidate name. Names matching no
// rule score zero.
func NamePriority(name string, mode Mode) int {
	rules := displayRules
	if mode == ModeKey {
		rules = keyRules
	}
	upper := strings.ToUpper(name)
	for _, r := range rules {
		if r.match(upper) {
			return r.score
		}
	}
	return 0
}

// adjustment is an additive correction applied on top of the name priority.
type adjustment struct {
	modes   []Mode
	applies func(name, upper, value string, runes int) bool
	delta   int
}

var bothModes = []Mode{ModeDisplay, ModeKey}

var adjustments = []adjustment{
	{bothModes, func(_, _, _ string, n int) bool { return n > 500 }, -5000},
	{[]Mode{ModeDisplay}, func(_, _, v string, n int) bool { return hasLetter(v) && n >= 2 && n <= 120 }, 600},
	{[]Mode{ModeDisplay}, func(_, _, v string, _ int) bool { return looksNumeric(v) }, -900},
	{[]Mode{ModeKey}, func(_, _, v string, _ int) bool { return looksNumeric(v) }, 150},
	{bothModes, func(_, _, _ string, n int) bool { return n >= 3 && n <= 120 }, 50},
	{bothModes, func(name, _, _ string, _ int) bool { return strings.HasPrefix(name, "Is") }, -800},
	{bothModes, func(_, upper, _ string, _ int) bool { return contains("ENABLED", "DISABLED", "FLAGS")(upper) }, -800},
}

// Score is the total score of a (name, value) candidate.
func Score(name, value string, mode Mode) int {
	total := NamePriority(name, mode)
	upper := strings.ToUpper(name)
	runes := utf8.RuneCountInString(value)
	for _, adj := range adjustments {
		if !hasMode(adj.modes, mode) {
			continue
		}
		if adj.applies(name, upper, value, runes) {
			total += adj.delta
		}
	}
	return total
}

func hasMode(modes []Mode, m Mode) bool {
	for _, x := range modes {
		if x == m {
			return true
		}
	}
	return false
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func looksNumeric(s string) bool {
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' || r == '-' || r == '.' || r == ',':
		default:
			return false
		}
	}
	return digits > 0
}

type candidate struct {
	name  string
	value string
}

// candidates lists attributes, childless children and, for a leaf, the
// element itself. Empty names and values are dropped.
func candidates(el *etree.Element) []candidate {
	var out []candidate
	add := func(name, value string) {
		value = strings.TrimSpace(value)
		if name == "" || value == "" {
			return
		}
		out = append(out, candidate{name: name, value: value})
	}

	for _, a := range el.Attr {
		add(a.Key, a.Value)
	}
	children := el.ChildElements()
	for _, c := range children {
		if len(c.ChildElements()) == 0 {
			add(c.Tag, c.Text())
		}
	}
	if len(children) == 0 {
		add(el.Tag, el.Text())
	}
	return out
}

// Resolve picks the best identifying value of el for mode. Ties keep the
// earliest candidate. It reports false when el offers no candidate at all.
func Resolve(el *etree.Element, mode Mode) (string, bool) {
	if el == nil {
		return "", false
	}
	var (
		best      string
		bestScore int
		found     bool
	)
	for _, c := range candidates(el) {
		s := Score(c.name, c.value, mode)
		if !found || s > bestScore {
			best, bestScore, found = c.value, s, true
		}
	}
	return best, found
}
