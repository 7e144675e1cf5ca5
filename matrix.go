package depthclust

import (
	"fmt"
	"math"
	"os"

	"github.com/sbinet/npyio"
)

// LoadMatrix reads a 2-dimensional numeric array from a NumPy .npy file.
// Rows are items (variants or samples), columns are per-sample depth
// observations. float32/float64 and int32/int64 arrays are accepted and
// returned as float64. Fortran-ordered or non-2D arrays fail with
// ErrInvalidInput.
func LoadMatrix(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading depth matrix: %w", err)
	}
	defer f.Close()

	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("reading depth matrix %s: %w", path, err)
	}

	shape := r.Header.Descr.Shape
	if len(shape) != 2 {
		return nil, fmt.Errorf("%w: %s has rank %d, want a 2-D depth matrix", ErrInvalidInput, path, len(shape))
	}
	if r.Header.Descr.Fortran {
		return nil, fmt.Errorf("%w: %s is Fortran-ordered", ErrInvalidInput, path)
	}
	rows, cols := shape[0], shape[1]
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: %s has shape %dx%d, want at least 1x1", ErrInvalidInput, path, rows, cols)
	}

	flat, err := readFlat(r, rows*cols)
	if err != nil {
		return nil, fmt.Errorf("reading depth matrix %s: %w", path, err)
	}

	m := make([][]float64, rows)
	for i := range m {
		m[i] = flat[i*cols : (i+1)*cols]
	}
	if err := validateMatrix(m); err != nil {
		return nil, err
	}
	return m, nil
}

// readFlat decodes the array body into float64 regardless of the on-disk
// numeric dtype.
func readFlat(r *npyio.Reader, n int) ([]float64, error) {
	switch dt := r.Header.Descr.Type; dt {
	case "<f8", ">f8", "f8":
		out := make([]float64, 0, n)
		if err := r.Read(&out); err != nil {
			return nil, err
		}
		return out, nil
	case "<f4", ">f4", "f4":
		raw := make([]float32, 0, n)
		if err := r.Read(&raw); err != nil {
			return nil, err
		}
		out := make([]float64, len(raw))
		for i, v := range raw {
			out[i] = float64(v)
		}
		return out, nil
	case "<i8", ">i8", "i8":
		raw := make([]int64, 0, n)
		if err := r.Read(&raw); err != nil {
			return nil, err
		}
		out := make([]float64, len(raw))
		for i, v := range raw {
			out[i] = float64(v)
		}
		return out, nil
	case "<i4", ">i4", "i4":
		raw := make([]int32, 0, n)
		if err := r.Read(&raw); err != nil {
			return nil, err
		}
		out := make([]float64, len(raw))
		for i, v := range raw {
			out[i] = float64(v)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unsupported dtype %q", ErrInvalidInput, dt)
	}
}

// validateMatrix checks that m is a rectangular matrix of finite values
// with at least one row and one column.
func validateMatrix(m [][]float64) error {
	if len(m) == 0 {
		return fmt.Errorf("%w: empty matrix", ErrInvalidInput)
	}
	cols := len(m[0])
	if cols == 0 {
		return fmt.Errorf("%w: matrix has zero columns", ErrInvalidInput)
	}
	for i, row := range m {
		if len(row) != cols {
			return fmt.Errorf("%w: row %d has %d columns, row 0 has %d", ErrInvalidInput, i, len(row), cols)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: non-finite value at [%d,%d]", ErrInvalidInput, i, j)
			}
		}
	}
	return nil
}
