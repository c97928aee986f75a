/*package parse reads the small ini-like configuration files used by the
healcone command line modes.

A config file starts with a [name] header, followed by one "Name = value"
assignment per line. Everything after a '#' is a comment. Variable names are
case-insensitive. Values are typed: ints, floats, strings, bools, and
angles, which take an optional unit suffix (rad, deg, arcmin or arcsec).
*/
package parse

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

type varType int

const (
	intVar varType = iota
	floatVar
	stringVar
	boolVar
	angleVar
)

func (v varType) String() string {
	switch v {
	case intVar:
		return "int"
	case floatVar:
		return "float"
	case stringVar:
		return "string"
	case boolVar:
		return "bool"
	case angleVar:
		return "angle"
	}
	panic("Impossible")
}

type conversionFunc func(string) bool

type variable struct {
	name    string
	typ     varType
	convert conversionFunc
}

// ConfigVars is the registry of the variables a config file may assign.
// Each variable is bound to a pointer which receives its value.
type ConfigVars struct {
	name string
	vars []variable
}

func intConv(ptr *int64) conversionFunc {
	return func(s string) bool {
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return false
		}
		*ptr = i
		return true
	}
}

func floatConv(ptr *float64) conversionFunc {
	return func(s string) bool {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return false
		}
		*ptr = f
		return true
	}
}

func stringConv(ptr *string) conversionFunc {
	return func(s string) bool {
		*ptr = strings.TrimSpace(s)
		return true
	}
}

func boolConv(ptr *bool) conversionFunc {
	return func(s string) bool {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return false
		}
		*ptr = b
		return true
	}
}

func angleConv(ptr *float64) conversionFunc {
	return func(s string) bool {
		a, err := ParseAngle(s)
		if err != nil {
			return false
		}
		*ptr = a
		return true
	}
}

var angleUnits = []struct {
	suffix string
	scale  float64
}{
	{"arcmin", math.Pi / (180 * 60)},
	{"arcsec", math.Pi / (180 * 3600)},
	{"deg", math.Pi / 180},
	{"rad", 1},
}

// ParseAngle parses an angle written as a number followed by an optional
// unit: rad, deg, arcmin or arcsec. Angles without a unit are in radians.
// The result is in radians.
func ParseAngle(s string) (float64, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	scale := 1.0
	for _, u := range angleUnits {
		if strings.HasSuffix(s, u.suffix) {
			s = strings.TrimSpace(s[:len(s)-len(u.suffix)])
			scale = u.scale
			break
		}
	}

	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("'%s' is not a number followed by one of the "+
			"units rad, deg, arcmin, or arcsec", s)
	}
	return x * scale, nil
}

// NewConfigVars returns an empty registry for config files with the header
// [name].
func NewConfigVars(name string) *ConfigVars {
	return &ConfigVars{name: name}
}

// Name returns the header name of the config file.
func (vars *ConfigVars) Name() string { return vars.name }

func (vars *ConfigVars) add(name string, typ varType, f conversionFunc) {
	vars.vars = append(vars.vars, variable{
		name: strings.ToLower(name), typ: typ, convert: f,
	})
}

// Int registers an integer variable with the default value value.
func (vars *ConfigVars) Int(ptr *int64, name string, value int64) {
	*ptr = value
	vars.add(name, intVar, intConv(ptr))
}

// Float registers a floating point variable with the default value value.
func (vars *ConfigVars) Float(ptr *float64, name string, value float64) {
	*ptr = value
	vars.add(name, floatVar, floatConv(ptr))
}

// String registers a string variable with the default value value.
func (vars *ConfigVars) String(ptr *string, name string, value string) {
	*ptr = value
	vars.add(name, stringVar, stringConv(ptr))
}

// Bool registers a boolean variable with the default value value.
func (vars *ConfigVars) Bool(ptr *bool, name string, value bool) {
	*ptr = value
	vars.add(name, boolVar, boolConv(ptr))
}

// Angle registers an angle variable, stored in radians, with the default
// value value.
func (vars *ConfigVars) Angle(ptr *float64, name string, value float64) {
	*ptr = value
	vars.add(name, angleVar, angleConv(ptr))
}

func (vars *ConfigVars) lookup(name string) int {
	name = strings.ToLower(name)
	for i := range vars.vars {
		if vars.vars[i].name == name {
			return i
		}
	}
	return -1
}

// Set assigns a single variable, as if the line "name = value" had been
// read from a config file.
func (vars *ConfigVars) Set(name, value string) error {
	i := vars.lookup(name)
	if i == -1 {
		return fmt.Errorf("Config files of type %s don't have the "+
			"variable '%s'.", vars.name, name)
	}
	if !vars.vars[i].convert(strings.TrimSpace(value)) {
		return fmt.Errorf("The variable '%s' expects values of type %s "+
			"and '%s' cannot be converted to %s.", vars.vars[i].name,
			vars.vars[i].typ, value, article(vars.vars[i].typ))
	}
	return nil
}

func article(typ varType) string {
	s := typ.String()
	switch s[0] {
	case 'a', 'e', 'i', 'o', 'u':
		return "an " + s
	}
	return "a " + s
}

//////////////////
// Parsing Code //
//////////////////

// ReadConfig reads the config file fname and writes every assigned value
// through the pointers registered in vars.
func ReadConfig(fname string, vars *ConfigVars) error {
	bs, err := os.ReadFile(fname)
	if err != nil {
		return err
	}
	return ParseConfig(fname, string(bs), vars)
}

// ParseConfig is ReadConfig for a config file which has already been read
// into memory. fname is only used in error messages.
func ParseConfig(fname, text string, vars *ConfigVars) error {
	lines := strings.Split(text, "\n")
	lines, lineNums := removeComments(lines)
	for i := range lineNums {
		lineNums[i]++
	}

	if len(lines) == 0 || lines[0] != fmt.Sprintf("[%s]", vars.name) {
		return fmt.Errorf(
			"I expected the config file %s to have the header "+
				"[%s] at the top, but didn't find it.", fname, vars.name,
		)
	}
	lines, lineNums = lines[1:], lineNums[1:]

	names, vals, errLine := associationList(lines)
	if errLine != -1 {
		return fmt.Errorf(
			"I could not parse line %d of the config file %s because it "+
				"did not take the form of a variable assignment.",
			lineNums[errLine], fname,
		)
	}

	if errLine = checkValidNames(names, vars); errLine != -1 {
		return fmt.Errorf(
			"Line %d of the config file %s assigns a value to the "+
				"variable '%s', but config files of type %s don't have that "+
				"variable.", lineNums[errLine], fname, names[errLine], vars.name,
		)
	}

	if errLine1, errLine2 := checkDuplicateNames(names); errLine1 != -1 {
		return fmt.Errorf(
			"Lines %d and %d of the config file %s both assign a value to "+
				"the variable '%s'.", lineNums[errLine1], lineNums[errLine2],
			fname, names[errLine1],
		)
	}

	if errLine = convertAssoc(names, vals, vars); errLine != -1 {
		v := vars.vars[vars.lookup(names[errLine])]
		return fmt.Errorf(
			"I could not parse line %d of the config file %s because '%s' "+
				"expects values of type %s and '%s' cannot be converted to "+
				"%s.", lineNums[errLine], fname, v.name, v.typ,
			vals[errLine], article(v.typ),
		)
	}

	return nil
}

func removeComments(lines []string) ([]string, []int) {
	out, lineNums := []string{}, []int{}
	for i := range lines {
		line := lines[i]
		if comment := strings.Index(line, "#"); comment != -1 {
			line = line[:comment]
		}
		line = strings.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		out = append(out, line)
		lineNums = append(lineNums, i)
	}

	return out, lineNums
}

func associationList(lines []string) ([]string, []string, int) {
	names, vals := []string{}, []string{}
	for i := range lines {
		eq := strings.Index(lines[i], "=")
		if eq == -1 {
			return nil, nil, i
		}
		name := strings.ToLower(strings.TrimSpace(lines[i][:eq]))
		if len(name) == 0 {
			return nil, nil, i
		}
		names = append(names, name)
		vals = append(vals, strings.TrimSpace(lines[i][eq+1:]))
	}
	return names, vals, -1
}

func checkValidNames(names []string, vars *ConfigVars) int {
	for i := range names {
		if vars.lookup(names[i]) == -1 {
			return i
		}
	}
	return -1
}

func checkDuplicateNames(names []string) (int, int) {
	for i := range names {
		for j := i + 1; j < len(names); j++ {
			if names[i] == names[j] {
				return i, j
			}
		}
	}
	return -1, -1
}

func convertAssoc(names, vals []string, vars *ConfigVars) int {
	for i := range names {
		if !vars.vars[vars.lookup(names[i])].convert(vals[i]) {
			return i
		}
	}
	return -1
}
