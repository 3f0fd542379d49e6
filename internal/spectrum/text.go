package spectrum

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// readText parses two-column wavelength/flux tables separated by commas or
// whitespace. Blank lines and lines starting with '#' are ignored, as is a
// single non-numeric header line before the first data row.
func readText(r io.Reader) (*Spectrum, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1<<20)

	s := &Spectrum{}
	lineNo := 0
	headerSeen := false
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || unicode.IsSpace(r)
		})
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: expected 2 columns, got %d", lineNo, len(fields))
		}
		wave, werr := strconv.ParseFloat(fields[0], 64)
		flux, ferr := strconv.ParseFloat(fields[1], 64)
		if werr != nil || ferr != nil {
			if s.Len() == 0 && !headerSeen {
				headerSeen = true
				continue
			}
			return nil, fmt.Errorf("line %d: non-numeric value", lineNo)
		}
		s.Wavelength = append(s.Wavelength, wave)
		s.Flux = append(s.Flux, flux)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return s, nil
}
