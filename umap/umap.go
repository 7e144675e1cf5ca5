package umap

import "fmt"

// Config controls the reducer. Start with DefaultConfig and override the
// fields you need.
type Config struct {
	// NNeighbors is the neighborhood size used to build the fuzzy graph.
	// Larger values emphasize global structure. Must be >= 2.
	NNeighbors int

	// NComponents is the embedding dimensionality. Must be >= 1 and at
	// most the input dimensionality.
	NComponents int

	// MinDist is the minimum separation between embedded points.
	MinDist float64

	// Spread is the effective scale of embedded points; together with
	// MinDist it shapes the embedding's attraction curve.
	Spread float64

	// NEpochs is the number of SGD epochs. 0 picks 500 for small inputs
	// and 200 for large ones.
	NEpochs int

	// LearningRate is the initial SGD step size. 0 means 1.0.
	LearningRate float64

	// NegativeSampleRate is the number of repulsive samples drawn per
	// attractive update. 0 means 5.
	NegativeSampleRate int

	// Seed fixes the PRNG driving layout optimization.
	Seed int64
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		NNeighbors:  15,
		NComponents: 2,
		MinDist:     0.1,
		Spread:      1.0,
	}
}

// UMAP reduces row vectors to a low-dimensional embedding. The zero value
// is not usable; construct with New.
type UMAP struct {
	cfg Config
}

// New returns a reducer for the given config.
func New(cfg Config) *UMAP {
	if cfg.NEpochs < 0 {
		cfg.NEpochs = 0
	}
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = 1.0
	}
	if cfg.NegativeSampleRate <= 0 {
		cfg.NegativeSampleRate = 5
	}
	return &UMAP{cfg: cfg}
}

// FitTransform embeds data into cfg.NComponents dimensions. data must be
// rectangular with at least NNeighbors+1 rows.
func (u *UMAP) FitTransform(data [][]float64) ([][]float64, error) {
	cfg := u.cfg
	n := len(data)
	if n == 0 {
		return nil, fmt.Errorf("umap: empty input")
	}
	dims := len(data[0])
	if dims == 0 {
		return nil, fmt.Errorf("umap: input has zero columns")
	}
	for i, row := range data {
		if len(row) != dims {
			return nil, fmt.Errorf("umap: row %d has %d columns, row 0 has %d", i, len(row), dims)
		}
	}
	if cfg.NNeighbors < 2 {
		return nil, fmt.Errorf("umap: NNeighbors must be >= 2, got %d", cfg.NNeighbors)
	}
	if cfg.NComponents < 1 {
		return nil, fmt.Errorf("umap: NComponents must be >= 1, got %d", cfg.NComponents)
	}
	if cfg.NComponents > dims {
		return nil, fmt.Errorf("umap: NComponents %d exceeds input dimensionality %d", cfg.NComponents, dims)
	}

	k := cfg.NNeighbors
	if k > n-1 {
		k = n - 1
	}

	flat := make([]float64, n*dims)
	for i, row := range data {
		copy(flat[i*dims:], row)
	}

	// kNN graph. Queries include the point itself, so ask for one extra
	// neighbor and drop the self entry.
	tree := newKDTree(flat, n, dims)
	knnIdx, knnDist := tree.queryKNN(k + 1)
	for i := range knnIdx {
		knnIdx[i], knnDist[i] = dropSelf(i, knnIdx[i], knnDist[i], k)
	}

	edges := fuzzySimplicialSet(knnIdx, knnDist, k)

	nEpochs := cfg.NEpochs
	if nEpochs == 0 {
		nEpochs = 500
		if n > 10000 {
			nEpochs = 200
		}
	}

	a, b := fitABParams(cfg.Spread, cfg.MinDist)
	embedding := pcaInit(flat, n, dims, cfg.NComponents)
	optimizeLayout(embedding, edges, n, cfg.NComponents, nEpochs, a, b,
		cfg.LearningRate, cfg.NegativeSampleRate, cfg.Seed)

	out := make([][]float64, n)
	for i := range out {
		out[i] = embedding[i*cfg.NComponents : (i+1)*cfg.NComponents]
	}
	return out, nil
}

// dropSelf removes point i from its own neighbor list and truncates to k
// entries.
func dropSelf(i int, idx []int, dist []float64, k int) ([]int, []float64) {
	outIdx := make([]int, 0, k)
	outDist := make([]float64, 0, k)
	for j := range idx {
		if idx[j] == i {
			continue
		}
		outIdx = append(outIdx, idx[j])
		outDist = append(outDist, dist[j])
		if len(outIdx) == k {
			break
		}
	}
	return outIdx, outDist
}
