/*package version tracks the version of the healcone source code and checks
that config files were written for a compatible version.*/
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// SourceVersion is the semantic version number of the source code.
const SourceVersion = "0.1.0"

// ErrInvalid is returned (wrapped) for malformed version strings.
var ErrInvalid = errors.New("version string does not take the form of " +
	"three period-separated non-negative numbers")

// Parse parses a semantic version number string.
func Parse(s string) (major, minor, patch int, err error) {
	toks := strings.Split(strings.TrimSpace(s), ".")
	if len(toks) != 3 {
		return -1, -1, -1, fmt.Errorf("'%s': %w", s, ErrInvalid)
	}

	out := [3]int{}
	for i := range toks {
		out[i], err = strconv.Atoi(toks[i])
		if err != nil || out[i] < 0 {
			return -1, -1, -1, fmt.Errorf("'%s': %w", s, ErrInvalid)
		}
	}

	return out[0], out[1], out[2], nil
}

// Later returns true if s1 represents a later version of the source than
// s2. An error is returned if either is invalid.
func Later(s1, s2 string) (bool, error) {
	major1, minor1, patch1, err := Parse(s1)
	if err != nil {
		return false, err
	}
	major2, minor2, patch2, err := Parse(s2)
	if err != nil {
		return false, err
	}

	switch {
	case major1 != major2:
		return major1 > major2, nil
	case minor1 != minor2:
		return minor1 > minor2, nil
	default:
		return patch1 > patch2, nil
	}
}

// Check returns an error if a config file which declares the version s
// can't be read by this source version, either because s is malformed or
// because it is later than SourceVersion.
func Check(s string) error {
	later, err := Later(s, SourceVersion)
	if err != nil {
		return err
	} else if later {
		return fmt.Errorf("The config file has version %s, but this is "+
			"version %s of healcone. Either update healcone or change the "+
			"version of the file.", s, SourceVersion)
	}
	return nil
}
