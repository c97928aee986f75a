package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentString(t *testing.T) {
	tests := []struct {
		names []string
		sizes []int
		out   string
	}{
		{[]string{"A"}, []int{1}, "# Column contents: A(0)"},
		{[]string{"A"}, []int{11}, "# Column contents: A(0-10)"},
		{[]string{"A", "B"}, []int{1, 1}, "# Column contents: A(0) B(1)"},
		{[]string{"B", "A"}, []int{2, 1}, "# Column contents: B(0-1) A(2)"},
		{[]string{"A", "B", "C"}, []int{1, 2, 1},
			"# Column contents: A(0) B(1-2) C(3)"},
	}

	for i, test := range tests {
		out := CommentString(test.names, test.sizes)
		if out != test.out {
			t.Errorf("%d) Expected '%s', got '%s'.", i, test.out, out)
		}
	}
}

func TestFormatCols(t *testing.T) {
	ints := [][]int{{1, 20, 300}}
	floats := [][]float64{{0.5, 1.25, 10}}

	lines := FormatCols(ints, floats, []int{0, 1})
	assert.Equal(t, []string{"  1  0.5", " 20 1.25", "300   10"}, lines)

	lines = FormatCols(ints, floats, []int{1, 0})
	assert.Equal(t, []string{" 0.5   1", "1.25  20", "  10 300"}, lines)

	assert.Empty(t, FormatCols(nil, nil, nil))
	assert.Empty(t, FormatCols([][]int{{}}, nil, []int{0}))

	assert.Panics(t, func() { FormatCols(ints, floats, []int{2}) })
	assert.Panics(t, func() {
		FormatCols([][]int{{1, 2}}, [][]float64{{1}}, []int{0, 1})
	})
}

func TestParse(t *testing.T) {
	data := []byte(`# lon lat id
10.5 -3 7

  20 4.25 8   # trailing comment
30	0 9
`)
	icols, fcols, err := Parse(data, []int{2}, []int{0, 1})
	require.NoError(t, err)
	assert.Equal(t, [][]int{{7, 8, 9}}, icols)
	assert.Equal(t, [][]float64{{10.5, 20, 30}, {-3, 4.25, 0}}, fcols)

	icols, fcols, err = Parse([]byte("# nothing here\n\n"), nil, []int{0})
	require.NoError(t, err)
	assert.Empty(t, icols)
	assert.Equal(t, [][]float64{{}}, fcols)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		data  string
		icols []int
		fcols []int
		msg   string
	}{
		{"1 2\n3 4 5\n", nil, []int{0}, "line 2 has 3 columns, not 2"},
		{"1 2\n3\n", nil, []int{0}, "line 2 has 1 columns, not 2"},
		{"1 2\n", nil, []int{2}, "only has 2 columns"},
		{"1 x\n", nil, []int{1}, "line 1, column 1"},
		{"1.5 2\n", []int{0}, nil, "line 1, column 0"},
	}

	for i, test := range tests {
		_, _, err := Parse([]byte(test.data), test.icols, test.fcols)
		if assert.Error(t, err, "%d", i) {
			assert.Contains(t, err.Error(), test.msg, "%d", i)
		}
	}
}
