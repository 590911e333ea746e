package versions

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestCanonicalize(t *testing.T) {
	tests := map[string]string{
		"1.0.0":       "1.0.0",
		"1.0-rc1":     "1.0.rc.1",
		"1.0.0RC1":    "1.0.0.RC.1",
		"2.1_beta+3":  "2.1.beta.3",
		"1..2":        "1.2",
		"5.3pl1":      "5.3.pl.1",
		"":            "",
		"1.0.0-alpha": "1.0.0.alpha",
	}
	for in, want := range tests {
		assert.Equal(t, want, Canonicalize(in), in)
	}
}

func TestCmp(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.0.0", "1.0.1", -1},
		{"1.10.0", "1.9.9", 1},
		{"1.0", "1.0.0", -1},
		{"1.0.0", "1.0.0.1", -1},
		{"1.0.0-dev", "1.0.0-alpha", -1},
		{"1.0.0-alpha", "1.0.0-beta", -1},
		{"1.0.0-beta", "1.0.0RC1", -1},
		{"1.0.0RC1", "1.0.0", -1},
		{"1.0.0", "1.0.0pl1", -1},
		{"1.0.0a1", "1.0.0alpha1", 0},
		{"1.0.0b2", "1.0.0beta2", 0},
		{"1.0.0-rc1", "1.0.0RC1", 0},
		{"1.0.0-foo", "1.0.0-dev", -1},
		{"", "", 0},
		{"", "1.0", -1},
		{"1.0", "", 1},
		{"99999999999999999999.0", "99999999999999999998.0", 1},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_vs_%s", tt.a, tt.b), func(t *testing.T) {
			assert.Equal(t, tt.want, Cmp(tt.a, tt.b))
		})
	}
}

func TestCompare_Operators(t *testing.T) {
	assert.True(t, Compare("1.0.0", "1.1.0", "<"))
	assert.True(t, Compare("1.0.0", "1.1.0", "lt"))
	assert.True(t, Compare("1.1.0", "1.1.0", "<="))
	assert.True(t, Compare("1.1.0", "1.1.0", "le"))
	assert.True(t, Compare("1.2.0", "1.1.0", ">"))
	assert.True(t, Compare("1.2.0", "1.1.0", "gt"))
	assert.True(t, Compare("1.1.0", "1.1.0", ">="))
	assert.True(t, Compare("1.1.0", "1.1.0", "ge"))
	assert.True(t, Compare("1.1.0", "1.1.0", "=="))
	assert.True(t, Compare("1.1.0", "1.1.0", "="))
	assert.True(t, Compare("1.1.0", "1.1.0", "eq"))
	assert.True(t, Compare("1.1.0", "1.2.0", "!="))
	assert.True(t, Compare("1.1.0", "1.2.0", "<>"))
	assert.True(t, Compare("1.1.0", "1.2.0", "ne"))
	assert.False(t, Compare("1.1.0", "1.2.0", "~="))
}

func TestIsNewer(t *testing.T) {
	assert.True(t, IsNewer("1.1.0", "1.0.0"))
	assert.False(t, IsNewer("1.0.0", "1.0.0"))
	assert.False(t, IsNewer("0.9", "1.0.0"))
}

func genVersion() gopter.Gen {
	part := gen.OneGenOf(
		gen.IntRange(0, 30).Map(func(n int) string { return fmt.Sprint(n) }),
		gen.OneConstOf("dev", "alpha", "a", "beta", "b", "RC", "rc", "pl", "p"),
	)
	return gen.SliceOfN(4, part).Map(func(parts []string) string {
		v := parts[0]
		for _, p := range parts[1:] {
			v += "." + p
		}
		return v
	})
}

func TestCmp_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("reflexive", prop.ForAll(
		func(v string) bool { return Cmp(v, v) == 0 },
		genVersion(),
	))

	properties.Property("antisymmetric", prop.ForAll(
		func(a, b string) bool { return Cmp(a, b) == -Cmp(b, a) },
		genVersion(), genVersion(),
	))

	properties.Property("operators agree with Cmp", prop.ForAll(
		func(a, b string) bool {
			c := Cmp(a, b)
			return Compare(a, b, OpLess) == (c < 0) &&
				Compare(a, b, OpGreaterEqual) == (c >= 0) &&
				Compare(a, b, OpEqual) == (c == 0) &&
				Compare(a, b, OpNotEqual) == (c != 0)
		},
		genVersion(), genVersion(),
	))

	properties.Property("numeric tail is newer", prop.ForAll(
		func(v string, n int) bool { return Cmp(fmt.Sprintf("%s.%d", v, n), v) == 1 },
		genVersion(), gen.IntRange(0, 100),
	))

	properties.TestingRun(t)
}
