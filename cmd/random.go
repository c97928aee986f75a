package cmd

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/healcone/cmd/catalog"
	"github.com/phil-mansfield/healcone/geom"
	"github.com/phil-mansfield/healcone/math/rand"
	"github.com/phil-mansfield/healcone/parse"
	"github.com/phil-mansfield/healcone/version"
)

// RandomConfig contains the config variables of the random mode, which
// writes positions drawn uniformly from the sky or from a single cap. Its
// output can be piped into the cone and hash modes.
type RandomConfig struct {
	version   string
	n         int64
	seed      int64
	generator string
	lon, lat  float64
	radius    float64

	gt rand.GeneratorType
}

var _ Mode = &RandomConfig{}

// Vars implements Mode.
func (config *RandomConfig) Vars() *parse.ConfigVars {
	vars := parse.NewConfigVars("random")
	vars.String(&config.version, "Version", version.SourceVersion)
	vars.Int(&config.n, "N", 100)
	vars.Int(&config.seed, "Seed", -1)
	vars.String(&config.generator, "Generator", "xorshift")
	vars.Angle(&config.lon, "Lon", 0)
	vars.Angle(&config.lat, "Lat", 0)
	vars.Angle(&config.radius, "Radius", math.Pi)
	return vars
}

// Validate implements Mode.
func (config *RandomConfig) Validate() error {
	if err := version.Check(config.version); err != nil {
		return fmt.Errorf("I couldn't use the 'Version' variable: %w", err)
	}

	var err error
	if config.gt, err = rand.ParseGeneratorType(config.generator); err != nil {
		return err
	}

	switch {
	case config.n < 0:
		return fmt.Errorf("The 'N' variable is set to %d, but it can't be "+
			"negative.", config.n)
	case config.radius <= 0 || config.radius > math.Pi*(1+1e-12):
		return fmt.Errorf("The 'Radius' variable is set to %g rad, but it "+
			"must be in (0, pi].", config.radius)
	}
	return geom.CheckLonLat(config.lon, config.lat)
}

// ExampleConfig implements Mode.
func (config *RandomConfig) ExampleConfig() string {
	return fmt.Sprintf(`[random]
# Target version of healcone.
Version = %s

# Number of positions to write.
N = 100

# Seed of the random number generator. Negative seeds are replaced by the
# current time.
Seed = -1

# Random number generator: xorshift or golang.
Generator = xorshift

# Positions are drawn uniformly from the cap of radius Radius around
# (Lon, Lat). The default radius of pi covers the whole sky. Angles may end
# in one of the units rad, deg, arcmin or arcsec.
Lon = 0 deg
Lat = 0 deg
Radius = 180 deg`, version.SourceVersion)
}

// Shortcuts implements Mode.
func (config *RandomConfig) Shortcuts() []Shortcut {
	return []Shortcut{
		{Flag: "number", Short: "n", Var: "N", Usage: "number of positions"},
		{Flag: "seed", Var: "Seed", Usage: "random seed"},
		{Flag: "radius", Short: "r", Var: "Radius",
			Usage: "radius of the sampled cap"},
	}
}

// Run implements Mode. stdin is ignored. Positions are written in degrees.
func (config *RandomConfig) Run(stdin []byte) ([]string, error) {
	var gen *rand.Generator
	if config.seed < 0 {
		gen = rand.NewTimeSeed(config.gt)
	} else {
		gen = rand.New(config.gt, uint64(config.seed))
	}

	lons, lats := make([]float64, config.n), make([]float64, config.n)
	if config.radius >= math.Pi {
		gen.UniformSphereAt(lons, lats)
	} else {
		for i := range lons {
			lons[i], lats[i] = gen.UniformCap(
				config.lon, config.lat, config.radius,
			)
		}
	}
	for i := range lons {
		lons[i] /= degree
		lats[i] /= degree
	}

	header := catalog.CommentString([]string{"Lon", "Lat"}, []int{1, 1})
	lines := catalog.FormatCols(nil, [][]float64{lons, lats}, []int{0, 1})
	return append([]string{header}, lines...), nil
}
