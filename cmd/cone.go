package cmd

import (
	"fmt"
	"math"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/phil-mansfield/healcone/bmoc"
	"github.com/phil-mansfield/healcone/cmd/catalog"
	"github.com/phil-mansfield/healcone/cone"
	"github.com/phil-mansfield/healcone/geom"
	"github.com/phil-mansfield/healcone/healpix"
	"github.com/phil-mansfield/healcone/logging"
	"github.com/phil-mansfield/healcone/parse"
	"github.com/phil-mansfield/healcone/version"
)

const degree = math.Pi / 180

// ConeConfig contains the config variables of the cone mode, which computes
// the cells covered by a cone around every position read from stdin.
type ConeConfig struct {
	version       string
	depth         int64
	radius        float64
	mode          string
	workers       int64
	boundarySlack float64
	lonColumn     int64
	latColumn     int64
	summary       bool

	returned cone.ReturnedCells
	computer *cone.FixedRadiusComputer
}

var _ Mode = &ConeConfig{}

// Vars implements Mode.
func (config *ConeConfig) Vars() *parse.ConfigVars {
	vars := parse.NewConfigVars("cone")
	vars.String(&config.version, "Version", version.SourceVersion)
	vars.Int(&config.depth, "Depth", 10)
	vars.Angle(&config.radius, "Radius", 0)
	vars.String(&config.mode, "Mode", cone.Overlapping.String())
	vars.Int(&config.workers, "Workers", 0)
	vars.Float(&config.boundarySlack, "BoundarySlack",
		cone.DefaultBoundarySlack)
	vars.Int(&config.lonColumn, "LonColumn", 0)
	vars.Int(&config.latColumn, "LatColumn", 1)
	vars.Bool(&config.summary, "Summary", false)
	return vars
}

// Validate implements Mode.
func (config *ConeConfig) Validate() error {
	if err := version.Check(config.version); err != nil {
		return fmt.Errorf("I couldn't use the 'Version' variable: %w", err)
	}

	var err error
	config.returned, err = cone.ParseReturnedCells(config.mode)
	if err != nil {
		return fmt.Errorf("The 'Mode' variable is set to '%s', which I "+
			"don't recognize.", config.mode)
	}

	switch {
	case config.radius <= 0:
		return fmt.Errorf("The 'Radius' variable isn't set to a positive " +
			"angle.")
	case config.workers < 0:
		return fmt.Errorf("The 'Workers' variable is set to %d, but it "+
			"can't be negative.", config.workers)
	case config.lonColumn == config.latColumn:
		return fmt.Errorf("'LonColumn' and 'LatColumn' are both set to %d.",
			config.lonColumn)
	}
	if err = columnIndex("LonColumn", config.lonColumn); err != nil {
		return err
	}
	if err = columnIndex("LatColumn", config.latColumn); err != nil {
		return err
	}

	config.computer, err = cone.NewFixedRadiusComputer(
		int(config.depth), config.radius,
		cone.WithBoundarySlack(config.boundarySlack),
	)
	return err
}

// ExampleConfig implements Mode.
func (config *ConeConfig) ExampleConfig() string {
	return fmt.Sprintf(`[cone]
# Target version of healcone. This option merely allows healcone to notice
# when a config file was written for a later version than the source.
#
# This variable defaults to the source version if not included.
Version = %s

# Depth of the deepest cells in the output. A depth d splits the sky into
# 12*4^d cells, so depth 10 cells are about 3.4 arcminutes across. Must be
# between 0 and %d.
Depth = 10

# Radius of every cone. Angles may end in one of the units rad, deg, arcmin
# or arcsec and are in radians otherwise.
Radius = 1 deg

# Which cells are written for each cone:
# overlapping - every cell which touches the cone.
# fully-in - only the cells which lie entirely inside the cone.
# center-in - cells inside the cone and the deepest cells whose centers are
#     inside it.
Mode = %s

# Number of cones computed in parallel. 0 uses every available CPU.
Workers = 0

# Factor applied to the bounding radius of every cell before the cheap
# rejection test. Must be at least 1.
BoundarySlack = %g

# Columns of the input catalog holding the longitude and latitude of each
# cone center, in degrees. Columns are counted from 0.
LonColumn = 0
LatColumn = 1

# If true, a single line per cone is written with the number of cells and
# the area of the cone's coverage instead of the cells themselves.
Summary = false`, version.SourceVersion, healpix.MaxDepth,
		cone.Overlapping, cone.DefaultBoundarySlack)
}

// Shortcuts implements Mode.
func (config *ConeConfig) Shortcuts() []Shortcut {
	return []Shortcut{
		{Flag: "depth", Short: "d", Var: "Depth",
			Usage: "depth of the deepest output cells"},
		{Flag: "radius", Short: "r", Var: "Radius",
			Usage: "cone radius, e.g. '30 arcmin'"},
		{Flag: "mode", Short: "m", Var: "Mode",
			Usage: "overlapping, fully-in or center-in"},
		{Flag: "workers", Short: "w", Var: "Workers",
			Usage: "number of parallel workers"},
		{Flag: "summary", Short: "s", Var: "Summary",
			Usage: "write one summary line per cone", NoOptValue: "true"},
	}
}

// Run implements Mode.
func (config *ConeConfig) Run(stdin []byte) ([]string, error) {
	lons, lats, err := readPositions(stdin,
		int(config.lonColumn), int(config.latColumn))
	if err != nil {
		return nil, err
	}

	start := time.Now()
	results := make([]*bmoc.BMOC, len(lons))
	if err = config.query(lons, lats, results); err != nil {
		return nil, err
	}

	if logging.Mode >= logging.Performance {
		logging.L().Info("cone mode finished", append([]zap.Field{
			zap.Int("cones", len(lons)),
			zap.Duration("elapsed", time.Since(start)),
			zap.Stringer("mode", config.returned),
		}, logging.MemFields()...)...)
	}

	if config.summary {
		return formatSummary(results), nil
	}
	return formatCells(results), nil
}

// query computes results[i] for the cone centered on (lons[i], lats[i]).
// The rows are split into contiguous blocks and each block is handled by
// its own clone of the computer.
func (config *ConeConfig) query(
	lons, lats []float64, results []*bmoc.BMOC,
) error {
	workers := int(config.workers)
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	n := len(lons)
	block := (n + workers - 1) / workers

	g := errgroup.Group{}
	for lo := 0; lo < n; lo += block {
		hi := min(lo+block, n)
		c := config.computer.Clone()
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				m, err := c.Query(lons[i], lats[i], config.returned)
				if err != nil {
					return fmt.Errorf("Data line %d: %w", i+1, err)
				}
				results[i] = m
			}
			return nil
		})
	}
	return g.Wait()
}

// readPositions reads lon and lat columns in degrees from a catalog and
// returns them in radians.
func readPositions(data []byte, lonCol, latCol int) (
	lons, lats []float64, err error,
) {
	_, fcols, err := catalog.Parse(data, nil, []int{lonCol, latCol})
	if err != nil {
		return nil, nil, err
	}

	lons, lats = fcols[0], fcols[1]
	for i := range lons {
		lons[i] *= degree
		lats[i] *= degree
		if err = geom.CheckLonLat(lons[i], lats[i]); err != nil {
			return nil, nil, fmt.Errorf("Data line %d: %w", i+1, err)
		}
	}
	return lons, lats, nil
}

func formatCells(results []*bmoc.BMOC) []string {
	var rows, depths, hashes, full []int
	for i, m := range results {
		for _, cell := range m.Cells() {
			rows = append(rows, i)
			depths = append(depths, cell.Depth)
			hashes = append(hashes, int(cell.Hash))
			if cell.Full {
				full = append(full, 1)
			} else {
				full = append(full, 0)
			}
		}
	}

	header := catalog.CommentString(
		[]string{"Row", "Depth", "Hash", "Full"}, []int{1, 1, 1, 1},
	)
	lines := catalog.FormatCols(
		[][]int{rows, depths, hashes, full}, nil, []int{0, 1, 2, 3},
	)
	return append([]string{header}, lines...)
}

func formatSummary(results []*bmoc.BMOC) []string {
	rows, sizes := make([]int, len(results)), make([]int, len(results))
	areas, fullAreas := make([]float64, len(results)),
		make([]float64, len(results))
	for i, m := range results {
		rows[i], sizes[i] = i, m.Size()
		areas[i], fullAreas[i] = m.Area(), m.FullArea()
	}

	header := catalog.CommentString(
		[]string{"Row", "Cells", "Area", "FullArea"}, []int{1, 1, 1, 1},
	)
	lines := catalog.FormatCols(
		[][]int{rows, sizes}, [][]float64{areas, fullAreas},
		[]int{0, 1, 2, 3},
	)
	return append([]string{header}, lines...)
}
