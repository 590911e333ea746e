// Package versions compares plugin version strings the way the host platform
// does: "1.0.0-beta2" < "1.0.0RC1" < "1.0.0" < "1.0.0.1" < "1.0.0pl1".
package versions

import (
	"strconv"
	"strings"
	"unicode"
)

// Operators accepted by Compare. Aliases follow the host's spelling.
const (
	OpLess         = "<"
	OpLessEqual    = "<="
	OpGreater      = ">"
	OpGreaterEqual = ">="
	OpEqual        = "=="
	OpNotEqual     = "!="
)

var operatorAliases = map[string]string{
	"<": OpLess, "lt": OpLess,
	"<=": OpLessEqual, "le": OpLessEqual,
	">": OpGreater, "gt": OpGreater,
	">=": OpGreaterEqual, "ge": OpGreaterEqual,
	"==": OpEqual, "=": OpEqual, "eq": OpEqual,
	"!=": OpNotEqual, "<>": OpNotEqual, "ne": OpNotEqual,
}

// numberMarker stands in for a numeric part when it is compared to a word.
const numberMarker = "#"

// specialForms orders the pre- and post-release words. Matching is by prefix,
// so "alpha1" never reaches here (digits are split off first) but "beta" and
// "b" both resolve to the same rank.
var specialForms = []struct {
	name string
	rank int
}{
	{"dev", 0},
	{"alpha", 1}, {"a", 1},
	{"beta", 2}, {"b", 2},
	{"RC", 3}, {"rc", 3},
	{numberMarker, 4},
	{"pl", 5}, {"p", 5},
}

// Compare reports whether "a op b" holds. An unknown operator yields false.
func Compare(a, b, op string) bool {
	canonical, ok := operatorAliases[op]
	if !ok {
		return false
	}

	c := Cmp(a, b)
	switch canonical {
	case OpLess:
		return c < 0
	case OpLessEqual:
		return c <= 0
	case OpGreater:
		return c > 0
	case OpGreaterEqual:
		return c >= 0
	case OpEqual:
		return c == 0
	default:
		return c != 0
	}
}

// IsNewer reports whether remote is strictly newer than local.
func IsNewer(remote, local string) bool {
	return Cmp(local, remote) < 0
}

// Cmp returns -1, 0 or 1 depending on whether a is older, equal or newer than b.
func Cmp(a, b string) int {
	if a == "" || b == "" {
		switch {
		case a == "" && b == "":
			return 0
		case a == "":
			return -1
		default:
			return 1
		}
	}

	pa := strings.Split(Canonicalize(a), ".")
	pb := strings.Split(Canonicalize(b), ".")

	n := len(pa)
	if len(pb) < n {
		n = len(pb)
	}

	for i := 0; i < n; i++ {
		if c := comparePart(pa[i], pb[i]); c != 0 {
			return c
		}
	}

	switch {
	case len(pa) > n:
		if isNumeric(pa[n]) {
			return 1
		}
		return Cmp(strings.Join(pa[n:], "."), numberMarker)
	case len(pb) > n:
		if isNumeric(pb[n]) {
			return -1
		}
		return Cmp(numberMarker, strings.Join(pb[n:], "."))
	}
	return 0
}

// Canonicalize normalizes separators and splits digit/word runs with dots:
// "1.0-rc1" becomes "1.0.rc.1".
func Canonicalize(v string) string {
	if v == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(v) * 2)

	runes := []rune(v)
	b.WriteRune(runes[0])
	last := runes[0]
	prev := runes[0]

	for _, r := range runes[1:] {
		switch {
		case r == '-' || r == '_' || r == '+':
			if last != '.' {
				b.WriteRune('.')
				last = '.'
			}
		case (isWordRune(prev) && unicode.IsDigit(r)) || (unicode.IsDigit(prev) && isWordRune(r)):
			if last != '.' {
				b.WriteRune('.')
			}
			b.WriteRune(r)
			last = r
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			if last != '.' {
				b.WriteRune('.')
				last = '.'
			}
		default:
			b.WriteRune(r)
			last = r
		}
		prev = r
	}

	return b.String()
}

func comparePart(a, b string) int {
	an, bn := isNumeric(a), isNumeric(b)
	switch {
	case an && bn:
		return compareNumbers(a, b)
	case !an && !bn:
		return compareForms(a, b)
	case an:
		return compareForms(numberMarker, b)
	default:
		return compareForms(a, numberMarker)
	}
}

func compareNumbers(a, b string) int {
	x, errA := strconv.ParseInt(a, 10, 64)
	y, errB := strconv.ParseInt(b, 10, 64)
	if errA != nil || errB != nil {
		// overflow: fall back to length then lexical order of the digits
		a, b = strings.TrimLeft(a, "0"), strings.TrimLeft(b, "0")
		if len(a) != len(b) {
			return sign(len(a) - len(b))
		}
		return strings.Compare(a, b)
	}
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func compareForms(a, b string) int {
	return sign(formRank(a) - formRank(b))
}

func formRank(part string) int {
	for _, f := range specialForms {
		if strings.HasPrefix(part, f.name) {
			return f.rank
		}
	}
	return -1
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return !unicode.IsDigit(r) && r != '.'
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
