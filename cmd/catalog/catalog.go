/*package catalog reads and writes the whitespace-separated text catalogs
which the healcone command line modes use for stdin and stdout.

Catalog lines hold one row each. Everything after a '#' is a comment and
blank lines are skipped. Output catalogs start with a comment line naming
each column, e.g.

    # Column contents: Row(0) Depth(1) Hash(2) Full(3)
*/
package catalog

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// FloatDigits is the number of significant digits written for float
// columns.
const FloatDigits = 10

// CommentString returns the header line which names the columns of a
// catalog. sizes[i] is the number of columns taken up by names[i].
func CommentString(names []string, sizes []int) string {
	if len(names) != len(sizes) {
		panic(fmt.Sprintf("%d column names, but %d column sizes.",
			len(names), len(sizes)))
	}

	tokens := []string{"# Column contents:"}
	n := 0
	for i := range names {
		if sizes[i] == 1 {
			tokens = append(tokens, fmt.Sprintf("%s(%d)", names[i], n))
		} else {
			tokens = append(tokens, fmt.Sprintf("%s(%d-%d)",
				names[i], n, n+sizes[i]-1))
		}
		n += sizes[i]
	}

	return strings.Join(tokens, " ")
}

// FormatCols formats int and float columns into aligned catalog lines.
// order lists the columns to write: indices below len(intCols) refer to
// int columns, the rest to float columns. All columns must have the same
// height.
func FormatCols(intCols [][]int, floatCols [][]float64, order []int) []string {
	formatted := make([][]string, 0, len(order))
	height := -1
	for _, idx := range order {
		var col []string
		switch {
		case idx < 0 || idx >= len(intCols)+len(floatCols):
			panic("Column ordering out of range.")
		case idx < len(intCols):
			col = formatIntCol(intCols[idx])
		default:
			col = formatFloatCol(floatCols[idx-len(intCols)])
		}

		if height == -1 {
			height = len(col)
		} else if height != len(col) {
			panic("Columns of unequal height.")
		}
		formatted = append(formatted, col)
	}
	if height <= 0 {
		return []string{}
	}

	lines := make([]string, height)
	tokens := make([]string, len(formatted))
	for i := range lines {
		for j := range formatted {
			tokens[j] = formatted[j][i]
		}
		lines[i] = strings.Join(tokens, " ")
	}
	return lines
}

func formatIntCol(col []int) []string {
	out := make([]string, len(col))
	width := 0
	for i := range col {
		out[i] = strconv.Itoa(col[i])
		if len(out[i]) > width {
			width = len(out[i])
		}
	}
	return pad(out, width)
}

func formatFloatCol(col []float64) []string {
	out := make([]string, len(col))
	width := 0
	for i := range col {
		out[i] = strconv.FormatFloat(col[i], 'g', FloatDigits, 64)
		if len(out[i]) > width {
			width = len(out[i])
		}
	}
	return pad(out, width)
}

// pad right-aligns every string in col to width characters.
func pad(col []string, width int) []string {
	for i := range col {
		if n := width - len(col[i]); n > 0 {
			col[i] = strings.Repeat(" ", n) + col[i]
		}
	}
	return col
}

// Parse parses the specified columns of a catalog. Every non-empty line
// must have the same number of columns.
func Parse(data []byte, icolIdxs, fcolIdxs []int) (
	[][]int, [][]float64, error,
) {
	lines, nComm := split(data, '\n', '#')
	lines = uncomment(lines, '#', nComm)
	lines = trim(lines)
	return parse(lines, icolIdxs, fcolIdxs)
}

// split splits data at each separator. Slicing is used instead of
// allocating new lines, and the comment characters are counted on the way.
func split(data []byte, sep, comm byte) (lines [][]byte, nComm int) {
	n := bytes.Count(data, []byte{sep})
	nComm = bytes.Count(data, []byte{comm})

	lines = make([][]byte, 0, n+1)
	for i := 0; i < n; i++ {
		idx := bytes.IndexByte(data, sep)
		lines = append(lines, data[:idx])
		data = data[idx+1:]
	}
	return append(lines, data), nComm
}

// uncomment removes comments in the form of "data # comment". It stops
// early once all nComm comment characters have been seen.
func uncomment(lines [][]byte, comm byte, nComm int) [][]byte {
	for i := 0; i < len(lines) && nComm > 0; i++ {
		start := bytes.IndexByte(lines[i], comm)
		if start == -1 {
			continue
		}
		nComm -= bytes.Count(lines[i][start:], []byte{comm})
		lines[i] = lines[i][:start]
	}
	return lines
}

// trim removes blank lines.
func trim(lines [][]byte) [][]byte {
	j := 0
	for i := range lines {
		if len(bytes.TrimSpace(lines[i])) > 0 {
			lines[j] = lines[i]
			j++
		}
	}
	return lines[:j]
}

func parse(lines [][]byte, icolIdxs, fcolIdxs []int) (
	[][]int, [][]float64, error,
) {
	icols := make([][]int, len(icolIdxs))
	fcols := make([][]float64, len(fcolIdxs))
	for i := range icols {
		icols[i] = make([]int, len(lines))
	}
	for i := range fcols {
		fcols[i] = make([]float64, len(lines))
	}
	if len(lines) == 0 {
		return icols, fcols, nil
	}

	nCols := len(bytes.Fields(lines[0]))
	for _, idx := range append(append([]int{}, icolIdxs...), fcolIdxs...) {
		if idx < 0 || idx >= nCols {
			return nil, nil, fmt.Errorf("Column %d was requested, but the "+
				"catalog only has %d columns.", idx, nCols)
		}
	}

	buf := make([][]byte, nCols)
	var err error
	for i, line := range lines {
		words := fields(line, buf)
		if len(words) != nCols {
			return nil, nil, fmt.Errorf(
				"Data (not file) line %d has %d columns, not %d.",
				i+1, len(words), nCols,
			)
		}

		for j, idx := range icolIdxs {
			icols[j][i], err = strconv.Atoi(string(words[idx]))
			if err != nil {
				return nil, nil, fmt.Errorf("Data (not file) line %d, "+
					"column %d: %w", i+1, idx, err)
			}
		}
		for j, idx := range fcolIdxs {
			fcols[j][i], err = strconv.ParseFloat(string(words[idx]), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("Data (not file) line %d, "+
					"column %d: %w", i+1, idx, err)
			}
		}
	}

	return icols, fcols, nil
}

// fields is a buffered analog of bytes.Fields. It never writes more than
// len(buf) fields, and returns one extra field if the line has too many so
// the caller can report it.
func fields(line []byte, buf [][]byte) [][]byte {
	n := 0
	start := -1
	for i := 0; i <= len(line); i++ {
		space := i == len(line) || isSpace(line[i])
		if start == -1 && !space {
			start = i
		} else if start != -1 && space {
			if n == len(buf) {
				return append(buf[:n:n], line[start:i])
			}
			buf[n] = line[start:i]
			n++
			start = -1
		}
	}
	return buf[:n]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r'
}
