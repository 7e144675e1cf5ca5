package umap

import (
	"math"
	"testing"
)

// blobData returns two tight groups of points separated by a wide gap.
func blobData(perBlob, dims int) [][]float64 {
	rng := newTestRNG(42)
	data := make([][]float64, 2*perBlob)
	for i := 0; i < perBlob; i++ {
		row := make([]float64, dims)
		for d := range row {
			row[d] = rng.Float64() * 0.5
		}
		data[i] = row
	}
	for i := perBlob; i < 2*perBlob; i++ {
		row := make([]float64, dims)
		for d := range row {
			row[d] = 100 + rng.Float64()*0.5
		}
		data[i] = row
	}
	return data
}

func TestFitTransformShape(t *testing.T) {
	data := blobData(25, 4)

	cfg := DefaultConfig()
	cfg.NNeighbors = 10
	cfg.NEpochs = 50
	out, err := New(cfg).FitTransform(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != len(data) {
		t.Fatalf("expected %d rows, got %d", len(data), len(out))
	}
	for i, row := range out {
		if len(row) != cfg.NComponents {
			t.Fatalf("row %d: expected %d components, got %d", i, cfg.NComponents, len(row))
		}
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("row %d contains non-finite value %v", i, v)
			}
		}
	}
}

func TestFitTransformDeterministic(t *testing.T) {
	data := blobData(20, 3)

	cfg := DefaultConfig()
	cfg.NNeighbors = 8
	cfg.NEpochs = 50
	cfg.Seed = 42

	first, err := New(cfg).FitTransform(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := New(cfg).FitTransform(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range first {
		for j := range first[i] {
			if first[i][j] != second[i][j] {
				t.Errorf("embedding[%d][%d]: %v vs %v across runs", i, j, first[i][j], second[i][j])
			}
		}
	}
}

func TestFitTransformPreservesSeparation(t *testing.T) {
	const perBlob = 25
	data := blobData(perBlob, 3)

	cfg := DefaultConfig()
	cfg.NNeighbors = 10
	cfg.NEpochs = 100
	out, err := New(cfg).FitTransform(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Mean within-blob distance must be smaller than the distance between
	// blob centroids.
	centroid := func(rows [][]float64) []float64 {
		c := make([]float64, len(rows[0]))
		for _, r := range rows {
			for d, v := range r {
				c[d] += v
			}
		}
		for d := range c {
			c[d] /= float64(len(rows))
		}
		return c
	}
	meanDistTo := func(rows [][]float64, c []float64) float64 {
		sum := 0.0
		for _, r := range rows {
			sum += math.Sqrt(sqDist(r, c))
		}
		return sum / float64(len(rows))
	}

	c1 := centroid(out[:perBlob])
	c2 := centroid(out[perBlob:])
	gap := math.Sqrt(sqDist(c1, c2))
	spread1 := meanDistTo(out[:perBlob], c1)
	spread2 := meanDistTo(out[perBlob:], c2)

	if gap <= spread1 || gap <= spread2 {
		t.Errorf("blobs not separated: gap %v, spreads %v and %v", gap, spread1, spread2)
	}
}

func TestFitTransformValidation(t *testing.T) {
	tests := []struct {
		name   string
		data   [][]float64
		mutate func(*Config)
	}{
		{"empty input", [][]float64{}, nil},
		{"zero columns", [][]float64{{}}, nil},
		{"ragged rows", [][]float64{{1, 2}, {3}}, nil},
		{"NNeighbors too small", [][]float64{{1, 2}, {3, 4}, {5, 6}}, func(c *Config) { c.NNeighbors = 1 }},
		{"NComponents zero", [][]float64{{1, 2}, {3, 4}, {5, 6}}, func(c *Config) { c.NComponents = 0 }},
		{"NComponents exceeds dims", [][]float64{{1, 2}, {3, 4}, {5, 6}}, func(c *Config) { c.NComponents = 3 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}
			if _, err := New(cfg).FitTransform(tt.data); err == nil {
				t.Errorf("expected error for %s", tt.name)
			}
		})
	}
}

func TestSmoothKNNDist(t *testing.T) {
	dists := []float64{0, 0.5, 1.0, 1.5, 2.0}
	rho, sigma := smoothKNNDist(dists, len(dists))

	if rho != 0.5 {
		t.Errorf("rho: got %v, want 0.5 (nearest distinct neighbor)", rho)
	}
	if sigma <= 0 {
		t.Errorf("sigma: got %v, want > 0", sigma)
	}

	// Connectivity at the found sigma should approximate log2(k).
	target := math.Log2(float64(len(dists)))
	psum := 0.0
	for _, d := range dists {
		if delta := d - rho; delta > 0 {
			psum += math.Exp(-delta / sigma)
		} else {
			psum += 1.0
		}
	}
	if math.Abs(psum-target) > 0.01 {
		t.Errorf("connectivity at sigma: got %v, want ~%v", psum, target)
	}
}

func TestFuzzySimplicialSetSymmetricWeights(t *testing.T) {
	flat := randomPoints(30, 2, 5)
	tree := newKDTree(flat, 30, 2)
	idx, dist := tree.queryKNN(6)
	for i := range idx {
		idx[i], dist[i] = dropSelf(i, idx[i], dist[i], 5)
	}

	edges := fuzzySimplicialSet(idx, dist, 5)
	if len(edges) == 0 {
		t.Fatal("expected edges for connected data")
	}

	seen := make(map[[2]int]bool)
	for _, e := range edges {
		if e.i >= e.j {
			t.Errorf("edge (%d,%d) not in canonical order", e.i, e.j)
		}
		if e.weight <= 0 || e.weight > 1 {
			t.Errorf("edge (%d,%d) weight %v outside (0,1]", e.i, e.j, e.weight)
		}
		key := [2]int{e.i, e.j}
		if seen[key] {
			t.Errorf("duplicate edge (%d,%d)", e.i, e.j)
		}
		seen[key] = true
	}
}

func TestFitABParams(t *testing.T) {
	a, b := fitABParams(1.0, 0.1)

	// Published reference values for spread=1, min_dist=0.1 are roughly
	// a=1.58, b=0.90; the grid fit should land in the same region.
	if a < 1.0 || a > 2.2 {
		t.Errorf("a: got %v, want roughly 1.58", a)
	}
	if b < 0.7 || b > 1.1 {
		t.Errorf("b: got %v, want roughly 0.90", b)
	}
}

func TestDropSelf(t *testing.T) {
	idx := []int{2, 0, 1}
	dist := []float64{0, 1.5, 2.5}

	outIdx, outDist := dropSelf(2, idx, dist, 2)
	if len(outIdx) != 2 || outIdx[0] != 0 || outIdx[1] != 1 {
		t.Errorf("indices: got %v, want [0 1]", outIdx)
	}
	if outDist[0] != 1.5 || outDist[1] != 2.5 {
		t.Errorf("distances: got %v, want [1.5 2.5]", outDist)
	}
}
