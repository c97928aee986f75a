package cmd

import (
	"fmt"

	"github.com/phil-mansfield/healcone/cmd/catalog"
	"github.com/phil-mansfield/healcone/healpix"
	"github.com/phil-mansfield/healcone/parse"
	"github.com/phil-mansfield/healcone/version"
)

// HashConfig contains the config variables of the hash mode, which finds
// the cell containing every position read from stdin.
type HashConfig struct {
	version   string
	depth     int64
	lonColumn int64
	latColumn int64
}

var _ Mode = &HashConfig{}

// Vars implements Mode.
func (config *HashConfig) Vars() *parse.ConfigVars {
	vars := parse.NewConfigVars("hash")
	vars.String(&config.version, "Version", version.SourceVersion)
	vars.Int(&config.depth, "Depth", 10)
	vars.Int(&config.lonColumn, "LonColumn", 0)
	vars.Int(&config.latColumn, "LatColumn", 1)
	return vars
}

// Validate implements Mode.
func (config *HashConfig) Validate() error {
	if err := version.Check(config.version); err != nil {
		return fmt.Errorf("I couldn't use the 'Version' variable: %w", err)
	}
	if err := healpix.CheckDepth(int(config.depth)); err != nil {
		return fmt.Errorf("The 'Depth' variable can't be used: %w", err)
	}
	if err := columnIndex("LonColumn", config.lonColumn); err != nil {
		return err
	}
	return columnIndex("LatColumn", config.latColumn)
}

// ExampleConfig implements Mode.
func (config *HashConfig) ExampleConfig() string {
	return fmt.Sprintf(`[hash]
# Target version of healcone.
Version = %s

# Depth of the cells. Must be between 0 and %d.
Depth = 10

# Columns of the input catalog holding longitudes and latitudes, in degrees.
LonColumn = 0
LatColumn = 1`, version.SourceVersion, healpix.MaxDepth)
}

// Shortcuts implements Mode.
func (config *HashConfig) Shortcuts() []Shortcut {
	return []Shortcut{
		{Flag: "depth", Short: "d", Var: "Depth", Usage: "depth of the cells"},
	}
}

// Run implements Mode. Every output row holds the cell's index and the
// position of its center in degrees.
func (config *HashConfig) Run(stdin []byte) ([]string, error) {
	lons, lats, err := readPositions(stdin,
		int(config.lonColumn), int(config.latColumn))
	if err != nil {
		return nil, err
	}

	layer := healpix.Get(int(config.depth))
	hashes := make([]int, len(lons))
	cLons, cLats := make([]float64, len(lons)), make([]float64, len(lons))
	for i := range lons {
		h := layer.Hash(lons[i], lats[i])
		hashes[i] = int(h)
		cLons[i], cLats[i] = layer.Center(h)
		cLons[i] /= degree
		cLats[i] /= degree
	}

	header := catalog.CommentString(
		[]string{"Hash", "CenterLon", "CenterLat"}, []int{1, 1, 1},
	)
	lines := catalog.FormatCols(
		[][]int{hashes}, [][]float64{cLons, cLats}, []int{0, 1, 2},
	)
	return append([]string{header}, lines...), nil
}
