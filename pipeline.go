package depthclust

import (
	"fmt"

	"github.com/corella-bio/depthclust/hdbscan"
	"github.com/corella-bio/depthclust/umap"
)

// Config controls the full pipeline. Start with DefaultConfig and override
// the fields you need. NNeighbors, NComponents and MinClusterSize are
// requests: they are clamped to what the input shape supports before the
// backends run.
type Config struct {
	// Scaler is the normalization policy applied to the raw depth matrix.
	Scaler Scaler

	// NNeighbors is the requested UMAP neighborhood size. Clamped to
	// floor(0.2 * rows).
	NNeighbors int

	// MinDist is the minimum separation between embedded points.
	MinDist float64

	// NComponents is the requested embedding dimensionality. Clamped to
	// the column count of the depth matrix.
	NComponents int

	// Spread is the effective scale of embedded points.
	Spread float64

	// Seed fixes the reducer's PRNG. Identical input and seed reproduce
	// the embedding exactly.
	Seed int64

	// MinClusterSize is the requested smallest cluster. If it exceeds
	// 10% of the row count, it is clamped to floor(0.1 * rows) and
	// MinSamples is clamped with it.
	MinClusterSize int

	// MinSamples controls HDBSCAN noise sensitivity. Overridden by the
	// MinClusterSize clamp when that clamp fires.
	MinSamples int

	// SelectionMethod chooses flat-cluster extraction: "eom" or "leaf".
	// Passed through to the clusterer unmodified.
	SelectionMethod string

	// Memberships requests soft per-cluster membership vectors in
	// addition to hard labels.
	Memberships bool
}

// DefaultConfig returns the pipeline defaults used by the fit subcommand.
func DefaultConfig() Config {
	return Config{
		Scaler:          ScalerMinMax,
		NNeighbors:      20,
		MinDist:         0.1,
		NComponents:     2,
		Spread:          1.0,
		Seed:            42,
		MinClusterSize:  5,
		MinSamples:      1,
		SelectionMethod: "eom",
		Memberships:     true,
	}
}

// EmbeddingParams are the clamped parameters handed to a ReducerFactory.
type EmbeddingParams struct {
	NNeighbors  int
	NComponents int
	MinDist     float64
	Spread      float64
	Seed        int64
}

// ClusterParams are the clamped parameters handed to a ClustererFactory.
type ClusterParams struct {
	MinClusterSize  int
	MinSamples      int
	SelectionMethod string
	Memberships     bool
}

// Reducer produces a low-dimensional embedding preserving local
// neighborhood structure of its input.
type Reducer interface {
	FitTransform(data [][]float64) ([][]float64, error)
}

// Clusterer assigns density-based cluster labels to embedded points.
type Clusterer interface {
	Cluster(points [][]float64) (*ClusterResult, error)
}

// ClusterResult is the clusterer output consumed by the reporter.
type ClusterResult struct {
	// Labels holds one cluster ID per point; -1 marks noise.
	Labels []int

	// Probabilities holds the confidence of each point's assignment,
	// in [0, 1]. Noise points have probability 0.
	Probabilities []float64

	// Memberships holds one probability vector per point over the
	// discovered clusters. Noise rows are all-zero. Nil when soft
	// membership was not requested.
	Memberships [][]float64
}

// ReducerFactory builds a Reducer from clamped embedding parameters.
type ReducerFactory func(p EmbeddingParams) Reducer

// ClustererFactory builds a Clusterer from clamped clustering parameters.
type ClustererFactory func(p ClusterParams) Clusterer

// Option customizes a Pipeline, e.g. substituting backend algorithms.
type Option func(*Pipeline)

// WithReducerFactory substitutes the embedding backend.
func WithReducerFactory(f ReducerFactory) Option {
	return func(p *Pipeline) { p.newReducer = f }
}

// WithClustererFactory substitutes the clustering backend.
func WithClustererFactory(f ClustererFactory) Option {
	return func(p *Pipeline) { p.newClusterer = f }
}

// Pipeline wires preprocessing, embedding and clustering into a single
// deterministic run. It owns all intermediate values for the run's
// duration; nothing is shared across runs.
type Pipeline struct {
	cfg          Config
	newReducer   ReducerFactory
	newClusterer ClustererFactory
}

// Result is the output of one pipeline run.
type Result struct {
	// Embedding has one row per input row, NComponents (clamped) columns.
	Embedding [][]float64

	Labels        []int
	Probabilities []float64
	Memberships   [][]float64
}

// New validates cfg and builds a Pipeline with the default UMAP and
// HDBSCAN backends unless options substitute them.
func New(cfg Config, opts ...Option) (*Pipeline, error) {
	if cfg.NNeighbors < 1 {
		return nil, fmt.Errorf("depthclust: NNeighbors must be >= 1, got %d", cfg.NNeighbors)
	}
	if cfg.NComponents < 1 {
		return nil, fmt.Errorf("depthclust: NComponents must be >= 1, got %d", cfg.NComponents)
	}
	if cfg.MinDist < 0 {
		return nil, fmt.Errorf("depthclust: MinDist must be >= 0, got %f", cfg.MinDist)
	}
	if cfg.Spread <= 0 {
		return nil, fmt.Errorf("depthclust: Spread must be > 0, got %f", cfg.Spread)
	}
	if cfg.MinClusterSize < 1 {
		return nil, fmt.Errorf("depthclust: MinClusterSize must be >= 1, got %d", cfg.MinClusterSize)
	}
	if cfg.MinSamples < 0 {
		return nil, fmt.Errorf("depthclust: MinSamples must be >= 0, got %d", cfg.MinSamples)
	}
	if cfg.SelectionMethod != "eom" && cfg.SelectionMethod != "leaf" {
		return nil, fmt.Errorf("depthclust: SelectionMethod must be \"eom\" or \"leaf\", got %q", cfg.SelectionMethod)
	}

	p := &Pipeline{
		cfg:          cfg,
		newReducer:   defaultReducer,
		newClusterer: defaultClusterer,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run executes the pipeline on a depth matrix: scale, embed, cluster.
// Each stage consumes the previous stage's complete output and returns a
// new value. Any stage error aborts the run and propagates unmodified.
func (p *Pipeline) Run(depths [][]float64) (*Result, error) {
	if err := validateMatrix(depths); err != nil {
		return nil, err
	}
	rows, cols := len(depths), len(depths[0])

	scaled, err := Scale(depths, p.cfg.Scaler)
	if err != nil {
		return nil, err
	}
	// Both clamps are defined against the same row count; scaling must not
	// change it.
	if len(scaled) != rows {
		return nil, fmt.Errorf("depthclust: scaling changed row count from %d to %d", rows, len(scaled))
	}

	nNeighbors := clampNeighbors(p.cfg.NNeighbors, rows)
	if nNeighbors < 2 {
		return nil, fmt.Errorf("%w: %d rows support a neighborhood of at most %d, need >= 2", ErrInsufficientData, rows, nNeighbors)
	}
	nComponents := clampComponents(p.cfg.NComponents, cols)

	reducer := p.newReducer(EmbeddingParams{
		NNeighbors:  nNeighbors,
		NComponents: nComponents,
		MinDist:     p.cfg.MinDist,
		Spread:      p.cfg.Spread,
		Seed:        p.cfg.Seed,
	})
	embedding, err := reducer.FitTransform(scaled)
	if err != nil {
		return nil, err
	}
	if len(embedding) != rows {
		return nil, fmt.Errorf("depthclust: embedding changed row count from %d to %d", rows, len(embedding))
	}

	minClusterSize, minSamples := clampClusterSize(p.cfg.MinClusterSize, p.cfg.MinSamples, rows)
	if minClusterSize < 2 {
		return nil, fmt.Errorf("%w: %d rows support a min cluster size of at most %d, need >= 2", ErrInsufficientData, rows, minClusterSize)
	}

	clusterer := p.newClusterer(ClusterParams{
		MinClusterSize:  minClusterSize,
		MinSamples:      minSamples,
		SelectionMethod: p.cfg.SelectionMethod,
		Memberships:     p.cfg.Memberships,
	})
	cres, err := clusterer.Cluster(embedding)
	if err != nil {
		return nil, err
	}
	if len(cres.Labels) != rows {
		return nil, fmt.Errorf("depthclust: clusterer returned %d labels for %d rows", len(cres.Labels), rows)
	}

	return &Result{
		Embedding:     embedding,
		Labels:        cres.Labels,
		Probabilities: cres.Probabilities,
		Memberships:   cres.Memberships,
	}, nil
}

// clampNeighbors reduces the requested neighborhood size to the largest
// value the row count supports: min(requested, floor(0.2 * rows)).
func clampNeighbors(requested, rows int) int {
	limit := rows / 5
	if requested > limit {
		return limit
	}
	return requested
}

// clampComponents reduces the requested embedding dimensionality to the
// input column count.
func clampComponents(requested, cols int) int {
	if requested > cols {
		return cols
	}
	return requested
}

// clampClusterSize applies the coupled min-cluster-size clamp: when the
// requested size exceeds 10% of the row count, both minClusterSize and
// minSamples become floor(0.1 * rows). Otherwise both pass through
// unchanged.
func clampClusterSize(minClusterSize, minSamples, rows int) (int, int) {
	limit := rows / 10
	if minClusterSize > limit {
		return limit, limit
	}
	return minClusterSize, minSamples
}

// defaultReducer is the UMAP backend.
func defaultReducer(p EmbeddingParams) Reducer {
	cfg := umap.DefaultConfig()
	cfg.NNeighbors = p.NNeighbors
	cfg.NComponents = p.NComponents
	cfg.MinDist = p.MinDist
	cfg.Spread = p.Spread
	cfg.Seed = p.Seed
	return umap.New(cfg)
}

// defaultClusterer is the HDBSCAN backend.
func defaultClusterer(p ClusterParams) Clusterer {
	cfg := hdbscan.DefaultConfig()
	cfg.MinClusterSize = p.MinClusterSize
	cfg.MinSamples = p.MinSamples
	cfg.SelectionMethod = p.SelectionMethod
	cfg.Memberships = p.Memberships
	return hdbscanClusterer{cfg: cfg}
}

type hdbscanClusterer struct {
	cfg hdbscan.Config
}

func (c hdbscanClusterer) Cluster(points [][]float64) (*ClusterResult, error) {
	res, err := hdbscan.Cluster(points, c.cfg)
	if err != nil {
		return nil, err
	}
	return &ClusterResult{
		Labels:        res.Labels,
		Probabilities: res.Probabilities,
		Memberships:   res.Memberships,
	}, nil
}
