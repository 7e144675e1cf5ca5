package umap

import (
	"math"
	"math/rand"
)

// gradClip bounds individual gradient components during layout
// optimization.
const gradClip = 4.0

// fitABParams fits the differentiable attraction curve 1/(1 + a*x^(2b)) to
// the target membership curve defined by spread and minDist:
//
//	psi(x) = 1                              for x <= minDist
//	         exp(-(x - minDist) / spread)   otherwise
//
// by least squares over a fixed sample grid, using deterministic grid
// refinement.
func fitABParams(spread, minDist float64) (a, b float64) {
	const samples = 300
	xs := make([]float64, samples)
	ys := make([]float64, samples)
	for i := 0; i < samples; i++ {
		x := 3.0 * spread * float64(i+1) / float64(samples)
		xs[i] = x
		if x <= minDist {
			ys[i] = 1.0
		} else {
			ys[i] = math.Exp(-(x - minDist) / spread)
		}
	}

	sse := func(a, b float64) float64 {
		var sum float64
		for i, x := range xs {
			f := 1.0 / (1.0 + a*math.Pow(x, 2*b))
			d := f - ys[i]
			sum += d * d
		}
		return sum
	}

	a, b = 1.0, 1.0
	aRange, bRange := 10.0, 2.0
	for round := 0; round < 4; round++ {
		bestErr := math.Inf(1)
		bestA, bestB := a, b
		const grid = 40
		for ai := 0; ai <= grid; ai++ {
			ca := a - aRange + 2*aRange*float64(ai)/grid
			if ca <= 0 {
				continue
			}
			for bi := 0; bi <= grid; bi++ {
				cb := b - bRange + 2*bRange*float64(bi)/grid
				if cb <= 0 {
					continue
				}
				if err := sse(ca, cb); err < bestErr {
					bestErr = err
					bestA, bestB = ca, cb
				}
			}
		}
		a, b = bestA, bestB
		aRange /= float64(grid) / 4
		bRange /= float64(grid) / 4
	}

	return a, b
}

// optimizeLayout runs SGD with negative sampling over the fuzzy graph,
// moving both endpoints of each sampled edge. embedding is flat row-major
// (n rows, dim columns) and is updated in place. All randomness comes from
// the seeded PRNG on this goroutine, so the result is reproducible.
func optimizeLayout(embedding []float64, edges []graphEdge, n, dim, nEpochs int, a, b, learningRate float64, negativeSampleRate int, seed int64) {
	if len(edges) == 0 || nEpochs <= 0 {
		return
	}
	rng := rand.New(rand.NewSource(seed))

	maxWeight := 0.0
	for _, e := range edges {
		if e.weight > maxWeight {
			maxWeight = e.weight
		}
	}

	epochsPerSample := make([]float64, len(edges))
	epochOfNext := make([]float64, len(edges))
	epochOfNextNeg := make([]float64, len(edges))
	for i, e := range edges {
		epochsPerSample[i] = maxWeight / e.weight
		epochOfNext[i] = epochsPerSample[i]
		epochOfNextNeg[i] = epochsPerSample[i] / float64(negativeSampleRate)
	}

	alpha := learningRate
	for epoch := 1; epoch <= nEpochs; epoch++ {
		for ei := range edges {
			if epochOfNext[ei] > float64(epoch) {
				continue
			}
			e := edges[ei]
			head := embedding[e.i*dim : (e.i+1)*dim]
			tail := embedding[e.j*dim : (e.j+1)*dim]

			attract(head, tail, a, b, alpha)
			epochOfNext[ei] += epochsPerSample[ei]

			epochsPerNeg := epochsPerSample[ei] / float64(negativeSampleRate)
			nNeg := int((float64(epoch) - epochOfNextNeg[ei]) / epochsPerNeg)
			for s := 0; s < nNeg; s++ {
				other := rng.Intn(n)
				if other == e.i {
					continue
				}
				repel(head, embedding[other*dim:(other+1)*dim], a, b, alpha)
			}
			epochOfNextNeg[ei] += float64(nNeg) * epochsPerNeg
		}
		alpha = learningRate * (1.0 - float64(epoch)/float64(nEpochs))
	}
}

// attract pulls two embedded points together along the attraction curve's
// gradient, moving both endpoints.
func attract(head, tail []float64, a, b, alpha float64) {
	d2 := sqDist(head, tail)
	if d2 <= 0 {
		return
	}
	coeff := (-2.0 * a * b * math.Pow(d2, b-1)) / (1.0 + a*math.Pow(d2, b))
	for d := range head {
		g := clip(coeff * (head[d] - tail[d]))
		head[d] += g * alpha
		tail[d] -= g * alpha
	}
}

// repel pushes an embedded point away from a negative sample.
func repel(head, other []float64, a, b, alpha float64) {
	d2 := sqDist(head, other)
	var coeff float64
	if d2 > 0 {
		coeff = (2.0 * b) / ((0.001 + d2) * (1.0 + a*math.Pow(d2, b)))
	}
	for d := range head {
		g := gradClip
		if coeff > 0 {
			g = clip(coeff * (head[d] - other[d]))
		}
		head[d] += g * alpha
	}
}

func clip(v float64) float64 {
	if v > gradClip {
		return gradClip
	}
	if v < -gradClip {
		return -gradClip
	}
	return v
}
