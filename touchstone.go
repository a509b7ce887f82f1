package sparam

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Touchstone value formats.
const (
	formatRI = "RI"
	formatMA = "MA"
	formatDB = "DB"
)

// dbToLinearDivisor converts dB magnitudes via 10^(a/20).
const dbToLinearDivisor = 20.0

// unitScales maps Touchstone frequency unit tokens to Hz.
var unitScales = map[string]float64{
	"HZ":  1.0,
	"KHZ": 1e3,
	"MHZ": 1e6,
	"GHZ": 1e9,
}

// Expected data-row widths: frequency plus interleaved value pairs.
const (
	columnsTwoPort  = 9  // 1 + 2·4
	columnsFourPort = 33 // 1 + 2·16
)

// touchstoneHeader holds the decoded option line.
type touchstoneHeader struct {
	unitScale float64
	format    string
	refZ      float64
}

// ParseTouchstone decodes Touchstone-style S-parameter text into a Network.
// The option line `# <unit> S <format> R <refZ>` selects the frequency
// unit (default Hz), value format (default RI) and reference impedance
// (default 50 Ω). Comment lines start with `!`; inline comments are
// stripped. The port count is inferred from the dominant data-row width:
// 9 columns is a two-port, 33 columns a four-port with column-major pair
// order. Rows of any other width are discarded.
func ParseTouchstone(text, name string) (*Network, error) {
	header, rows, err := scanTouchstone(text)
	if err != nil {
		return nil, err
	}

	width := dominantWidth(rows)
	ports, err := portsForWidth(width)
	if err != nil {
		return nil, err
	}

	kept := rows[:0]
	dropped := 0
	for _, row := range rows {
		if len(row) == width {
			kept = append(kept, row)
		} else {
			dropped++
		}
	}
	if dropped > 0 {
		logger.Warn().
			Int("dropped_rows", dropped).
			Int("columns", width).
			Msg("discarded data rows with non-conforming width")
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i][0] < kept[j][0] })

	freqs := make([]float64, len(kept))
	s := make([][][]complex128, len(kept))
	for k, row := range kept {
		freqs[k] = row[0] * header.unitScale
		m, err := matrixFromRow(row[1:], ports, header.format)
		if err != nil {
			return nil, err
		}
		s[k] = m
	}

	nw, err := NewNetwork(freqs, s, header.refZ, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	logger.Debug().
		Str("name", name).
		Int("ports", ports).
		Int("points", nw.NumPoints()).
		Str("format", header.format).
		Msg("parsed touchstone data")

	return nw, nil
}

// scanTouchstone separates the option line and the numeric data rows.
func scanTouchstone(text string) (touchstoneHeader, [][]float64, error) {
	header := touchstoneHeader{
		unitScale: unitScales["HZ"],
		format:    formatRI,
		refZ:      DefaultReferenceImpedance,
	}
	haveHeader := false

	var rows [][]float64
	for _, line := range strings.Split(text, "\n") {
		if idx := strings.IndexByte(line, '!'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#") {
			if !haveHeader {
				header = parseOptionLine(line)
				haveHeader = true
			}
			continue
		}

		row, ok := numericRow(line)
		if ok {
			rows = append(rows, row)
		}
	}

	if !haveHeader {
		return header, nil, fmt.Errorf("%w: no option line found", ErrParse)
	}
	if len(rows) == 0 {
		return header, nil, fmt.Errorf("%w: no numeric data rows", ErrParse)
	}
	return header, rows, nil
}

// parseOptionLine decodes the `#` option line. Unknown tokens are ignored;
// missing tokens keep their defaults.
func parseOptionLine(line string) touchstoneHeader {
	header := touchstoneHeader{
		unitScale: unitScales["HZ"],
		format:    formatRI,
		refZ:      DefaultReferenceImpedance,
	}

	tokens := strings.Fields(strings.ToUpper(strings.TrimPrefix(line, "#")))
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if scale, ok := unitScales[tok]; ok {
			header.unitScale = scale
			continue
		}
		switch tok {
		case formatRI, formatMA, formatDB:
			header.format = tok
		case "R":
			if i+1 < len(tokens) {
				if v, err := strconv.ParseFloat(tokens[i+1], 64); err == nil && v > 0 {
					header.refZ = v
					i++
				}
			}
		}
	}
	return header
}

// numericRow parses a whitespace-separated line of floats; non-numeric
// lines are not data rows.
func numericRow(line string) ([]float64, bool) {
	fields := strings.Fields(line)
	row := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, false
		}
		row[i] = v
	}
	return row, true
}

// dominantWidth returns the most common row width.
func dominantWidth(rows [][]float64) int {
	counts := make(map[int]int)
	for _, row := range rows {
		counts[len(row)]++
	}
	width, best := 0, 0
	for w, c := range counts {
		if c > best || (c == best && w > width) {
			width, best = w, c
		}
	}
	return width
}

// portsForWidth infers the port count from a data-row width. Widths other
// than the canonical two- and four-port layouts fall back to treating
// (width-1)/2 as a pair count whose integer square root is the port count.
func portsForWidth(width int) (int, error) {
	switch width {
	case columnsTwoPort:
		return portsTwo, nil
	case columnsFourPort:
		return portsFour, nil
	}

	pairs := (width - 1) / 2
	root := isqrt(pairs)
	if root*root == pairs && (root == portsTwo || root == portsFour) {
		return root, nil
	}
	return 0, fmt.Errorf("%w: cannot infer port count from %d-column rows", ErrParse, width)
}

// isqrt returns the integer square root of n.
func isqrt(n int) int {
	if n < 0 {
		return 0
	}
	r := int(math.Sqrt(float64(n)))
	for r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}

// matrixFromRow decodes the interleaved value pairs of one data row.
// Two-port rows carry S11, S21, S12, S22; four-port rows are column-major
// over (i, j).
func matrixFromRow(values []float64, ports int, format string) ([][]complex128, error) {
	pairs := make([]complex128, len(values)/2)
	for k := range pairs {
		pairs[k] = pairToComplex(values[2*k], values[2*k+1], format)
	}

	m := make([][]complex128, ports)
	for i := range m {
		m[i] = make([]complex128, ports)
	}

	if ports == portsTwo {
		m[0][0] = pairs[0]
		m[1][0] = pairs[1]
		m[0][1] = pairs[2]
		m[1][1] = pairs[3]
		return m, nil
	}

	k := 0
	for j := 0; j < ports; j++ {
		for i := 0; i < ports; i++ {
			m[i][j] = pairs[k]
			k++
		}
	}
	return m, nil
}

// pairToComplex converts one Touchstone value pair to a complex sample.
func pairToComplex(a, b float64, format string) complex128 {
	switch format {
	case formatMA:
		phase := b * math.Pi / 180
		return complex(a*math.Cos(phase), a*math.Sin(phase))
	case formatDB:
		mag := math.Pow(10, a/dbToLinearDivisor)
		phase := b * math.Pi / 180
		return complex(mag*math.Cos(phase), mag*math.Sin(phase))
	default:
		return complex(a, b)
	}
}
