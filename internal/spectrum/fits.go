package spectrum

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/astrogo/fitsio"
)

const (
	fitsWaveColumn = "WAVE"
	fitsFluxColumn = "FLUX"
)

// readFITS reads the first binary table carrying WAVE and FLUX columns. Both
// layouts seen in practice are accepted: one row per pixel, and a single row
// holding vector columns.
func readFITS(r io.Reader) (*Spectrum, error) {
	f, err := fitsio.Open(r)
	if err != nil {
		return nil, fmt.Errorf("open fits: %w", err)
	}
	defer f.Close()

	for _, hdu := range f.HDUs() {
		tbl, ok := hdu.(*fitsio.Table)
		if !ok {
			continue
		}
		if columnName(tbl, fitsWaveColumn) == "" || columnName(tbl, fitsFluxColumn) == "" {
			continue
		}
		return readFITSTable(tbl)
	}
	return nil, errors.New("no table with WAVE and FLUX columns")
}

func columnName(tbl *fitsio.Table, want string) string {
	for i := 0; i < tbl.NumCols(); i++ {
		name := tbl.Col(i).Name
		if strings.EqualFold(strings.TrimSpace(name), want) {
			return name
		}
	}
	return ""
}

func readFITSTable(tbl *fitsio.Table) (*Spectrum, error) {
	waveCol := columnName(tbl, fitsWaveColumn)
	fluxCol := columnName(tbl, fitsFluxColumn)

	rows, err := tbl.Read(0, tbl.NumRows())
	if err != nil {
		return nil, fmt.Errorf("read table: %w", err)
	}
	defer rows.Close()

	s := &Spectrum{}
	for rows.Next() {
		row := map[string]interface{}{}
		if err := rows.Scan(&row); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		wave, err := toFloats(row[waveCol])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fitsWaveColumn, err)
		}
		flux, err := toFloats(row[fluxCol])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fitsFluxColumn, err)
		}
		s.Wavelength = append(s.Wavelength, wave...)
		s.Flux = append(s.Flux, flux...)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

// toFloats flattens a scalar, array or slice of numbers into float64s.
func toFloats(v interface{}) ([]float64, error) {
	if v == nil {
		return nil, errors.New("missing value")
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Array, reflect.Slice:
		out := make([]float64, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			f, err := toFloat(rv.Index(i))
			if err != nil {
				return nil, err
			}
			out = append(out, f)
		}
		return out, nil
	default:
		f, err := toFloat(rv)
		if err != nil {
			return nil, err
		}
		return []float64{f}, nil
	}
}

func toFloat(rv reflect.Value) (float64, error) {
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	case reflect.Interface:
		if rv.IsNil() {
			return 0, errors.New("missing value")
		}
		return toFloat(rv.Elem())
	default:
		return 0, fmt.Errorf("unsupported column type %s", rv.Type())
	}
}
