/*package rand provides seeded pseudo random number generators and uniform
sampling of positions on the sphere.

    // A single value
    gen := rand.New(rand.Xorshift, 1337)
    x := gen.Uniform(3, 7)

    // A random position on the sky and one inside a cone
    lon, lat := gen.UniformSphere()
    lon, lat = gen.UniformCap(lon, lat, 0.01)

Two types of generators are provided. Xorshift is very fast, and Golang is a
wrapper around Go's standard library generator.
*/
package rand

import (
	"fmt"
	"math"
	"time"

	"github.com/phil-mansfield/healcone/geom"
)

// generatorBackend is an interface which is used by the generators to supply
// the functionality needed for top-level functions like Uniform().
type generatorBackend interface {
	Init(seed uint64)
	Next() float64
	NextSequence(target []float64)
}

// Generator is a random number generator. Generators are not safe for
// concurrent use.
type Generator struct {
	backend generatorBackend
}

// GeneratorType is a flag used to indicate the desired algorithm for a
// random number generator.
type GeneratorType uint8

const (
	Xorshift GeneratorType = iota
	Golang
)

// ParseGeneratorType converts the name of a generator into a GeneratorType.
func ParseGeneratorType(s string) (GeneratorType, error) {
	switch s {
	case "xorshift":
		return Xorshift, nil
	case "golang":
		return Golang, nil
	}
	return 0, fmt.Errorf("The generator '%s' is not one of 'xorshift' or "+
		"'golang'.", s)
}

// NewTimeSeed returns a new random number generator that uses the current
// time as the seed.
func NewTimeSeed(gt GeneratorType) *Generator {
	return New(gt, uint64(time.Now().UnixNano()))
}

// New returns a new random number generator.
func New(gt GeneratorType, seed uint64) *Generator {
	var backend generatorBackend

	switch gt {
	case Xorshift:
		backend = new(xorshiftGenerator)
	case Golang:
		backend = new(golangGenerator)
	default:
		panic("Unrecognized GeneratorType")
	}

	backend.Init(seed)
	return &Generator{backend}
}

// UniformInt returns an integer uniformly at random within in the
// range [low, high).
func (gen *Generator) UniformInt(low, high int) int {
	f := gen.backend.Next()
	return int(math.Floor(float64(high-low)*f + float64(low)))
}

// Uniform returns a float uniformly at random within the range [low, high).
func (gen *Generator) Uniform(low, high float64) float64 {
	if low == 0.0 && high == 1.0 {
		return gen.backend.Next()
	}
	return (gen.backend.Next() * (high - low)) + low
}

// UniformAt writes floats generated uniformly at random in the range
// [low, high) to every element in a target slice. This is generally faster
// than calling Uniform the corresponding number of times.
func (gen *Generator) UniformAt(low, high float64, target []float64) {
	gen.backend.NextSequence(target)
	if low == 0.0 && high == 1.0 {
		return
	}
	for i := range target {
		target[i] = target[i]*(high-low) + low
	}
}

// UniformSphere returns a position drawn uniformly from the surface of the
// sphere. lon is in [0, 2 pi) and lat in [-pi/2, pi/2].
func (gen *Generator) UniformSphere() (lon, lat float64) {
	lon = gen.Uniform(0, geom.TwoPi)
	lat = math.Asin(gen.Uniform(-1, 1))
	return lon, lat
}

// UniformSphereAt fills lons and lats, which must have the same length,
// with positions drawn uniformly from the surface of the sphere.
func (gen *Generator) UniformSphereAt(lons, lats []float64) {
	if len(lons) != len(lats) {
		panic(fmt.Sprintf("len(lons) = %d, but len(lats) = %d",
			len(lons), len(lats)))
	}
	gen.UniformAt(0, geom.TwoPi, lons)
	gen.UniformAt(-1, 1, lats)
	for i := range lats {
		lats[i] = math.Asin(lats[i])
	}
}

// UniformCap returns a position drawn uniformly from the spherical cap of
// angular radius r around (lon, lat). r must be in (0, pi].
func (gen *Generator) UniformCap(lon, lat, r float64) (lon2, lat2 float64) {
	// The area within distance d of the center goes as 1 - cos(d).
	u := gen.Uniform(0, 1)
	d := math.Acos(1 - u*(1-math.Cos(r)))
	bearing := gen.Uniform(0, geom.TwoPi)
	return geom.Destination(lon, lat, d, bearing)
}
