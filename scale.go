package depthclust

import (
	"fmt"
	"math"
)

// Scaler selects the depth-matrix normalization policy applied before
// embedding.
type Scaler string

const (
	// ScalerMinMax rescales each column independently to [0, 1] using the
	// column's observed min and max. A constant column fails with
	// ErrDegenerateColumn.
	ScalerMinMax Scaler = "minmax"

	// ScalerCLR applies the centered log-ratio transform row-wise, for
	// relative-abundance style data. Requires strictly positive entries.
	ScalerCLR Scaler = "clr"

	// ScalerNone leaves values unchanged.
	ScalerNone Scaler = "none"
)

// Scale normalizes m under the given policy and returns a new matrix.
// The input matrix is never mutated.
func Scale(m [][]float64, policy Scaler) ([][]float64, error) {
	if err := validateMatrix(m); err != nil {
		return nil, err
	}

	switch policy {
	case ScalerMinMax:
		return scaleMinMax(m)
	case ScalerCLR:
		return scaleCLR(m)
	case ScalerNone:
		out := make([][]float64, len(m))
		for i, row := range m {
			out[i] = append([]float64(nil), row...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unknown scaler %q", ErrInvalidInput, policy)
	}
}

// scaleMinMax rescales each column to [0, 1]. Columns with min == max carry
// no scaling information and are rejected rather than silently zero-filled.
func scaleMinMax(m [][]float64) ([][]float64, error) {
	rows, cols := len(m), len(m[0])

	mins := make([]float64, cols)
	maxs := make([]float64, cols)
	for j := 0; j < cols; j++ {
		mins[j] = math.Inf(1)
		maxs[j] = math.Inf(-1)
	}
	for _, row := range m {
		for j, v := range row {
			if v < mins[j] {
				mins[j] = v
			}
			if v > maxs[j] {
				maxs[j] = v
			}
		}
	}

	for j := 0; j < cols; j++ {
		if mins[j] == maxs[j] {
			return nil, fmt.Errorf("%w: column %d is constant (%g), min-max scaling undefined", ErrDegenerateColumn, j, mins[j])
		}
	}

	out := make([][]float64, rows)
	for i, row := range m {
		out[i] = make([]float64, cols)
		for j, v := range row {
			out[i][j] = (v - mins[j]) / (maxs[j] - mins[j])
		}
	}
	return out, nil
}

// scaleCLR applies the centered log-ratio transform to each row:
// clr(x)_j = ln(x_j) - mean_k ln(x_k).
func scaleCLR(m [][]float64) ([][]float64, error) {
	out := make([][]float64, len(m))
	for i, row := range m {
		logs := make([]float64, len(row))
		var sum float64
		for j, v := range row {
			if v <= 0 {
				return nil, fmt.Errorf("%w: clr requires strictly positive values, got %g at [%d,%d]", ErrInvalidInput, v, i, j)
			}
			logs[j] = math.Log(v)
			sum += logs[j]
		}
		mean := sum / float64(len(row))
		for j := range logs {
			logs[j] -= mean
		}
		out[i] = logs
	}
	return out, nil
}
