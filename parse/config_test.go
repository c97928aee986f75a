package parse

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntConv(t *testing.T) {
	var x int64
	ok := intConv(&x)("41891")
	if !ok {
		t.Errorf("intConv unsuccessful on valid input.")
	}
	if x != 41891 {
		t.Errorf("intConv did not write input to pointer.")
	}
	ok = intConv(&x)("meow")
	if ok {
		t.Errorf("intConv successful on invalid input.")
	}
}

func TestFloatConv(t *testing.T) {
	var x float64
	ok := floatConv(&x)("41891.0")
	if !ok {
		t.Errorf("floatConv unsuccessful on valid input.")
	}
	if x != 41891.0 {
		t.Errorf("floatConv did not write input to pointer.")
	}
	ok = floatConv(&x)("meow")
	if ok {
		t.Errorf("floatConv successful on invalid input.")
	}
}

func TestBoolConv(t *testing.T) {
	var x bool
	ok := boolConv(&x)("true")
	if !ok || !x {
		t.Errorf("boolConv unsuccessful on valid input.")
	}
	ok = boolConv(&x)("meow")
	if ok {
		t.Errorf("boolConv successful on invalid input.")
	}
}

func TestParseAngle(t *testing.T) {
	tests := []struct {
		s     string
		x     float64
		valid bool
	}{
		{"1", 1, true},
		{"0.25 rad", 0.25, true},
		{"180deg", math.Pi, true},
		{"  90 DEG ", math.Pi / 2, true},
		{"60 arcmin", math.Pi / 180, true},
		{"3600arcsec", math.Pi / 180, true},
		{"1e-3", 1e-3, true},
		{"", 0, false},
		{"deg", 0, false},
		{"12 furlongs", 0, false},
	}

	for i := range tests {
		x, err := ParseAngle(tests[i].s)
		if (err == nil) != tests[i].valid {
			t.Errorf("%d) Expected ParseAngle('%s') valid = %v, got err = %v.",
				i+1, tests[i].s, tests[i].valid, err)
		} else if err == nil && math.Abs(x-tests[i].x) > 1e-15 {
			t.Errorf("%d) Expected ParseAngle('%s') = %g, got %g.",
				i+1, tests[i].s, tests[i].x, x)
		}
	}
}

func stringsEq(xs, ys []string) bool {
	if len(xs) != len(ys) {
		return false
	}
	for i := range xs {
		if xs[i] != ys[i] {
			return false
		}
	}
	return true
}

func intsEq(xs, ys []int) bool {
	if len(xs) != len(ys) {
		return false
	}
	for i := range xs {
		if xs[i] != ys[i] {
			return false
		}
	}
	return true
}

func TestRemoveComments(t *testing.T) {
	table := []struct {
		in, out  []string
		lineNums []int
	}{
		{[]string{}, []string{}, []int{}},
		{[]string{"meow"}, []string{"meow"}, []int{0}},
		{[]string{"#meow"}, []string{}, []int{}},
		{[]string{"meow", " # comment", "", "   mew "},
			[]string{"meow", "mew"}, []int{0, 3}},
	}

	for i := range table {
		res, lineNums := removeComments(table[i].in)
		if !stringsEq(table[i].out, res) {
			t.Errorf("%d) Called removeComments(%v), got %v",
				i+1, table[i].in, res)
		}
		if !intsEq(table[i].lineNums, lineNums) {
			t.Errorf("%d) Called removeComments(%v), got %v lineNums",
				i+1, table[i].in, lineNums)
		}
	}
}

func TestAssociationList(t *testing.T) {
	table := []struct {
		lines       []string
		names, vals []string
		errLine     int
	}{
		{[]string{"a=b"}, []string{"a"}, []string{"b"}, -1},
		{[]string{"a"}, []string{}, []string{}, 0},
		{[]string{"=b"}, []string{}, []string{}, 0},
		{[]string{"a=b", "C=", " a = "},
			[]string{"a", "c", "a"},
			[]string{"b", "", ""}, -1},
	}

	for i := range table {
		names, vals, errLine := associationList(table[i].lines)
		if errLine != table[i].errLine {
			t.Errorf("%d) Expected errLine = %d, got %d",
				i+1, table[i].errLine, errLine)
		}
		if errLine != -1 {
			continue
		}

		if !stringsEq(names, table[i].names) {
			t.Errorf("%d) Expected names = %v, got %v.",
				i+1, table[i].names, names)
		}
		if !stringsEq(vals, table[i].vals) {
			t.Errorf("%d) Expected vals = %v, got %v.",
				i+1, table[i].vals, vals)
		}
	}
}

func TestCheckDuplicateNames(t *testing.T) {
	table := []struct {
		names []string
		i, j  int
	}{
		{[]string{"a", "b", "c"}, -1, -1},
		{[]string{"a", "b", "b", "c", "c"}, 1, 2},
	}

	for k := range table {
		i, j := checkDuplicateNames(table[k].names)
		if i != table[k].i || j != table[k].j {
			t.Errorf("%d) expected (i, j) = (%d, %d) but got (%d, %d)",
				k+1, table[k].i, table[k].j, i, j)
		}
	}
}

type testConfig struct {
	num    int64
	float  float64
	word   string
	okay   bool
	radius float64
}

func makeTestConfig() (*testConfig, *ConfigVars) {
	config := &testConfig{}
	vars := NewConfigVars("config")
	vars.Int(&config.num, "Num", 7)
	vars.Float(&config.float, "Float", 0)
	vars.String(&config.word, "Word", "")
	vars.Bool(&config.okay, "Okay", false)
	vars.Angle(&config.radius, "Radius", 1)
	return config, vars
}

const validConfig = `[config]
# A comment on its own line.
Float = -1.2e4
word = meow    # trailing comment

OKAY = true
Radius = 30 arcmin
`

func TestValidConfig(t *testing.T) {
	config, vars := makeTestConfig()
	require.NoError(t, ParseConfig("valid.config", validConfig, vars))

	assert.Equal(t, int64(7), config.num, "defaults are kept")
	assert.Equal(t, -1.2e4, config.float)
	assert.Equal(t, "meow", config.word)
	assert.True(t, config.okay)
	assert.InDelta(t, math.Pi/360, config.radius, 1e-15)
}

func TestReadConfig(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "test.config")
	require.NoError(t, os.WriteFile(fname, []byte(validConfig), 0644))

	config, vars := makeTestConfig()
	require.NoError(t, ReadConfig(fname, vars))
	assert.Equal(t, "meow", config.word)

	err := ReadConfig(filepath.Join(t.TempDir(), "missing.config"), vars)
	assert.Error(t, err)
}

func TestInvalidConfig(t *testing.T) {
	tests := []struct {
		text, msg string
	}{
		{"", "header"},
		{"[meow]\nNum = 3", "header"},
		{"# comment\n\nNum = 3", "header"},
		{"[config]\nNum = 3\nmeow", "line 3"},
		{"[config]\n = 3", "line 2"},
		{"[config]\nNum = 3\n\nnum = 4", "Lines 2 and 4"},
		{"[config]\n#\nMeow = 4", "Line 3"},
		{"[config]\nNum = 3\nOkay = meow", "line 3"},
		{"[config]\nRadius = 3 parsecs", "an angle"},
		{"[config]\nFloat = 1,2", "a float"},
	}

	for i := range tests {
		_, vars := makeTestConfig()
		err := ParseConfig("test.config", tests[i].text, vars)
		if err == nil {
			t.Errorf("%d) No error was reported when parsing %q.",
				i+1, tests[i].text)
		} else if !strings.Contains(err.Error(), tests[i].msg) {
			t.Errorf("%d) Expected the error for %q to mention %q, got '%s'.",
				i+1, tests[i].text, tests[i].msg, err.Error())
		}
	}
}

func TestSet(t *testing.T) {
	config, vars := makeTestConfig()
	require.NoError(t, vars.Set("num", "12"))
	require.NoError(t, vars.Set("RADIUS", " 2deg "))
	assert.Equal(t, int64(12), config.num)
	assert.InDelta(t, math.Pi/90, config.radius, 1e-15)

	assert.Error(t, vars.Set("meow", "1"))
	assert.Error(t, vars.Set("Num", "1.5"))
	assert.Equal(t, "config", vars.Name())
}
