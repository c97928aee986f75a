/*package cmd contains code for running healcone in its various command line
modes. Each mode is configured by a config file (see ExampleConfig) whose
variables can also be overridden from the command line, reads a catalog from
stdin and writes a catalog to stdout.
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/phil-mansfield/healcone/parse"
)

// ModeNames maps the name of every command line mode to a constructor for
// it.
var ModeNames = map[string]func() Mode{
	"cone":   func() Mode { return &ConeConfig{} },
	"hash":   func() Mode { return &HashConfig{} },
	"random": func() Mode { return &RandomConfig{} },
}

// Mode represents the interface used by the main binary when interacting with
// a given command line mode.
type Mode interface {
	// Vars registers the mode's config variables with their default values
	// and returns the registry. Values read through the registry are stored
	// within the Mode.
	Vars() *parse.ConfigVars
	// Validate checks the values stored within the Mode once every config
	// variable has been read.
	Validate() error
	// ExampleConfig returns the text of an example config file of this mode.
	ExampleConfig() string
	// Shortcuts returns the command line flags which set config variables.
	Shortcuts() []Shortcut
	// Run executes the mode. It takes the contents of stdin and returns the
	// lines which should be written to stdout along with an error if one
	// occurs.
	Run(stdin []byte) ([]string, error)
}

// Shortcut is a command line flag which sets the config variable Var. If
// NoOptValue isn't empty, the flag may be given without a value and then
// sets Var to NoOptValue.
type Shortcut struct {
	Flag, Short string
	Var         string
	Usage       string
	NoOptValue  string
}

// ReadConfig configures a mode: the defaults are overwritten by the config
// file fname, if it isn't empty, then by every "Name = value" string in
// overrides. The result is validated.
func ReadConfig(mode Mode, fname string, overrides []string) error {
	vars := mode.Vars()
	if fname != "" {
		if err := parse.ReadConfig(fname, vars); err != nil {
			return err
		}
	}

	for _, o := range overrides {
		name, value, ok := strings.Cut(o, "=")
		if !ok {
			return fmt.Errorf("The override '%s' does not take the form "+
				"Name=value.", o)
		}
		if err := vars.Set(strings.TrimSpace(name), value); err != nil {
			return err
		}
	}

	return mode.Validate()
}

// columnIndex checks that a column index read from a config file can be
// used.
func columnIndex(name string, col int64) error {
	if col < 0 {
		return fmt.Errorf("The '%s' variable is set to %d, but column "+
			"indices start at 0.", name, col)
	}
	return nil
}
