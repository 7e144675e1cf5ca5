package umap

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// initScale is the max-abs coordinate value of the initial embedding.
const initScale = 10.0

// pcaInit seeds the layout with the first k principal components of the
// centered input, rescaled into [-initScale, initScale]. PCA keeps the
// dominant structure visible to the optimizer and, unlike a random seed,
// is fully determined by the input.
func pcaInit(flat []float64, n, dims, k int) []float64 {
	centered := make([]float64, len(flat))
	copy(centered, flat)
	for j := 0; j < dims; j++ {
		var mean float64
		for i := 0; i < n; i++ {
			mean += centered[i*dims+j]
		}
		mean /= float64(n)
		for i := 0; i < n; i++ {
			centered[i*dims+j] -= mean
		}
	}

	out := make([]float64, n*k)

	var svd mat.SVD
	if !svd.Factorize(mat.NewDense(n, dims, centered), mat.SVDThin) {
		// Degenerate input; fall back to a deterministic grid so the
		// optimizer still has distinct starting coordinates.
		for i := 0; i < n; i++ {
			out[i*k] = initScale * (2.0*float64(i)/float64(n) - 1.0)
		}
		return out
	}

	var u mat.Dense
	svd.UTo(&u)
	values := svd.Values(nil)

	comps := k
	if len(values) < comps {
		comps = len(values)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < comps; j++ {
			out[i*k+j] = u.At(i, j) * values[j]
		}
	}

	maxAbs := 0.0
	for _, v := range out {
		if av := math.Abs(v); av > maxAbs {
			maxAbs = av
		}
	}
	if maxAbs > 0 {
		scale := initScale / maxAbs
		for i := range out {
			out[i] *= scale
		}
	}
	return out
}
