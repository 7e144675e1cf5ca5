package hdbscan

import (
	"fmt"
	"runtime"
)

// Config controls clustering behavior. Start with DefaultConfig and
// override the fields you need.
type Config struct {
	// MinClusterSize is the smallest group of points considered a cluster.
	// Smaller values find more clusters; larger values find fewer, denser
	// ones. Must be >= 2. Default: 5.
	MinClusterSize int

	// MinSamples controls noise sensitivity. Higher values label more
	// points as noise but may miss sparser clusters. Set to 0 to default
	// to MinClusterSize.
	MinSamples int

	// SelectionMethod chooses how flat clusters are extracted from the
	// condensed tree. "eom" (Excess of Mass) maximizes cluster stability.
	// "leaf" selects the leaves, producing many small homogeneous
	// clusters. Default: "eom".
	SelectionMethod string

	// AllowSingleCluster permits the algorithm to return all points in
	// one cluster rather than splitting into subclusters. Default: false.
	AllowSingleCluster bool

	// Memberships requests per-point soft membership vectors over the
	// discovered clusters, computed from cluster exemplars.
	Memberships bool

	// Workers controls the number of goroutines for the distance-matrix
	// stages. 0 means runtime.NumCPU(). Output does not depend on the
	// worker count.
	Workers int
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		MinClusterSize:  5,
		SelectionMethod: "eom",
	}
}

// Result contains the output of clustering.
type Result struct {
	// Labels assigns each point to a cluster (0-indexed ID) or -1 for
	// noise.
	Labels []int

	// Probabilities indicates how strongly each point belongs to its
	// assigned cluster, in [0, 1]. Noise points have probability 0.
	Probabilities []float64

	// Memberships holds one probability vector per point over the
	// discovered clusters, column order matching label IDs. Noise rows
	// are all-zero. Nil unless Config.Memberships was set.
	Memberships [][]float64

	// Stabilities maps selected cluster node IDs to their stability.
	Stabilities map[int]float64
}

func applyDefaults(cfg *Config) {
	if cfg.MinSamples == 0 {
		cfg.MinSamples = cfg.MinClusterSize
	}
	if cfg.SelectionMethod == "" {
		cfg.SelectionMethod = "eom"
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
}

func validateConfig(cfg *Config) error {
	if cfg.MinClusterSize < 2 {
		return fmt.Errorf("hdbscan: MinClusterSize must be >= 2, got %d", cfg.MinClusterSize)
	}
	if cfg.MinSamples < 0 {
		return fmt.Errorf("hdbscan: MinSamples must be >= 0 (0 means default to MinClusterSize), got %d", cfg.MinSamples)
	}
	if cfg.SelectionMethod != "eom" && cfg.SelectionMethod != "leaf" {
		return fmt.Errorf("hdbscan: SelectionMethod must be \"eom\" or \"leaf\", got %q", cfg.SelectionMethod)
	}
	return nil
}

// noiseResult returns a Result with every point labelled noise.
func noiseResult(n int, withMemberships bool) *Result {
	r := &Result{
		Labels:        make([]int, n),
		Probabilities: make([]float64, n),
		Stabilities:   map[int]float64{},
	}
	for i := range r.Labels {
		r.Labels[i] = -1
	}
	if withMemberships {
		r.Memberships = make([][]float64, n)
		for i := range r.Memberships {
			r.Memberships[i] = []float64{}
		}
	}
	return r
}

// Cluster performs HDBSCAN clustering on the given points. Each element is
// a point (float64 slice); all points must have the same dimensionality.
// Returns an error if the config is invalid.
func Cluster(points [][]float64, cfg Config) (*Result, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	n := len(points)
	if n == 0 {
		r := noiseResult(0, cfg.Memberships)
		return r, nil
	}
	if n == 1 {
		return noiseResult(1, cfg.Memberships), nil
	}

	dims := len(points[0])
	flat := make([]float64, n*dims)
	for i, row := range points {
		copy(flat[i*dims:], row)
	}

	minSamples := cfg.MinSamples
	if minSamples > n-1 {
		minSamples = n - 1
	}

	dist := pairwiseDistances(flat, n, dims, cfg.Workers)
	core := coreDistances(dist, n, minSamples, cfg.Workers)
	mr := mutualReachability(dist, core, n, cfg.Workers)
	edges := primMST(mr, n)
	dendrogram := singleLinkage(edges, n)

	tree := condenseTree(dendrogram, cfg.MinClusterSize)
	if len(tree) == 0 {
		return noiseResult(n, cfg.Memberships), nil
	}

	stability := computeStability(tree)

	var selected map[int]bool
	var selectedStability map[int]float64
	switch cfg.SelectionMethod {
	case "leaf":
		selected = selectLeaf(tree)
		selectedStability = stability
	default:
		selected, selectedStability = selectEOM(tree, stability, cfg.AllowSingleCluster)
	}

	labels, probabilities := labelsAndProbabilities(tree, selected, n, cfg.AllowSingleCluster)

	r := &Result{
		Labels:        labels,
		Probabilities: probabilities,
		Stabilities:   selectedStability,
	}
	if cfg.Memberships {
		r.Memberships = membershipVectors(tree, selected, labels, flat, n, dims)
	}
	return r, nil
}
