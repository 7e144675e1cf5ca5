package umap

import "math"

// graphEdge is one undirected edge of the fuzzy simplicial set.
type graphEdge struct {
	i, j   int
	weight float64
}

const (
	smoothKTolerance = 1e-5
	smoothKIters     = 64
	minKDistScale    = 1e-3
)

// smoothKNNDist finds, for one point, the local distance floor rho (the
// distance to the nearest distinct neighbor) and a kernel width sigma such
// that the total fuzzy connectivity equals log2(k).
func smoothKNNDist(dists []float64, k int) (rho, sigma float64) {
	target := math.Log2(float64(k))

	for _, d := range dists {
		if d > 0 {
			rho = d
			break
		}
	}

	lo, hi, mid := 0.0, math.Inf(1), 1.0
	for iter := 0; iter < smoothKIters; iter++ {
		psum := 0.0
		for _, d := range dists {
			if delta := d - rho; delta > 0 {
				psum += math.Exp(-delta / mid)
			} else {
				psum += 1.0
			}
		}

		if math.Abs(psum-target) < smoothKTolerance {
			break
		}
		if psum > target {
			hi = mid
			mid = (lo + hi) / 2
		} else {
			lo = mid
			if math.IsInf(hi, 1) {
				mid *= 2
			} else {
				mid = (lo + hi) / 2
			}
		}
	}

	// Keep sigma away from zero relative to the local distance scale.
	var mean float64
	for _, d := range dists {
		mean += d
	}
	mean /= float64(len(dists))
	if floor := minKDistScale * mean; mid < floor {
		mid = floor
	}

	return rho, mid
}

// fuzzySimplicialSet converts the kNN graph into a symmetric weighted edge
// list via probabilistic t-conorm fuzzy union: w = a + b - a*b. Edges are
// emitted in a fixed order derived from the neighbor lists, so downstream
// optimization is deterministic.
func fuzzySimplicialSet(knnIdx [][]int, knnDist [][]float64, k int) []graphEdge {
	n := len(knnIdx)

	directed := make(map[[2]int]float64, n*k)
	for i := 0; i < n; i++ {
		if len(knnDist[i]) == 0 {
			continue
		}
		rho, sigma := smoothKNNDist(knnDist[i], k)
		for pos, j := range knnIdx[i] {
			if j == i {
				continue
			}
			w := 1.0
			if delta := knnDist[i][pos] - rho; delta > 0 && sigma > 0 {
				w = math.Exp(-delta / sigma)
			}
			directed[[2]int{i, j}] = w
		}
	}

	var edges []graphEdge
	seen := make(map[[2]int]bool, len(directed))
	for i := 0; i < n; i++ {
		for _, j := range knnIdx[i] {
			lo, hi := i, j
			if lo > hi {
				lo, hi = hi, lo
			}
			key := [2]int{lo, hi}
			if lo == hi || seen[key] {
				continue
			}
			seen[key] = true

			a := directed[[2]int{lo, hi}]
			b := directed[[2]int{hi, lo}]
			if w := a + b - a*b; w > 0 {
				edges = append(edges, graphEdge{i: lo, j: hi, weight: w})
			}
		}
	}

	return edges
}
