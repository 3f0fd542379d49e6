// Package spectrum reads 1D spectra from the file formats produced by the
// survey pipeline and simulations.
package spectrum

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
)

const (
	FormatText = "text"
	FormatFITS = "fits"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported spectrum format")
	ErrEmpty             = errors.New("spectrum has no data points")
)

// Spectrum is a parsed spectrum. Values returned by a Loader are shared and
// must be treated as read-only.
type Spectrum struct {
	Path       string    `json:"path"`
	Format     string    `json:"format"`
	Wavelength []float64 `json:"wavelength"`
	Flux       []float64 `json:"flux"`
}

func (s *Spectrum) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Wavelength)
}

// WavelengthRange returns the smallest and largest finite wavelength.
func (s *Spectrum) WavelengthRange() (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	if s == nil {
		return 0, 0
	}
	for _, w := range s.Wavelength {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			continue
		}
		lo = math.Min(lo, w)
		hi = math.Max(hi, w)
	}
	if math.IsInf(lo, 1) {
		return 0, 0
	}
	return lo, hi
}

// Summary is the small description stored alongside an attached spectrum.
func (s *Spectrum) Summary() map[string]any {
	lo, hi := s.WavelengthRange()
	return map[string]any{
		"format":         s.Format,
		"points":         s.Len(),
		"wavelength_min": lo,
		"wavelength_max": hi,
	}
}

// FormatOf maps a file extension onto a reader.
func FormatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".spec", ".csv", ".dat":
		return FormatText, nil
	case ".fits", ".fit":
		return FormatFITS, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func Load(path string) (*Spectrum, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	s.Path = path
	return s, nil
}

func Read(r io.Reader, format string) (*Spectrum, error) {
	var (
		s   *Spectrum
		err error
	)
	switch format {
	case FormatText:
		s, err = readText(r)
	case FormatFITS:
		s, err = readFITS(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	if s.Len() == 0 {
		return nil, ErrEmpty
	}
	if len(s.Wavelength) != len(s.Flux) {
		return nil, fmt.Errorf("wavelength/flux length mismatch: %d != %d", len(s.Wavelength), len(s.Flux))
	}
	s.Format = format
	return s, nil
}
