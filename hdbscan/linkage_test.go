package hdbscan

import (
	"math"
	"testing"
)

// threePointMatrix is a dense distance matrix for points 0,1 close together
// and point 2 far away: d(0,1)=1, d(1,2)=10, d(0,2)=11.
func threePointMatrix() []float64 {
	return []float64{
		0, 1, 11,
		1, 0, 10,
		11, 10, 0,
	}
}

func TestPrimMSTChainOrder(t *testing.T) {
	edges := primMST(threePointMatrix(), 3)

	want := []mstEdge{
		{a: 0, b: 1, w: 1},
		{a: 1, b: 2, w: 10},
	}
	if len(edges) != len(want) {
		t.Fatalf("expected %d edges, got %d", len(want), len(edges))
	}
	for i, e := range edges {
		if e != want[i] {
			t.Errorf("edges[%d]: got %+v, want %+v", i, e, want[i])
		}
	}
}

func TestPrimMSTTrivialSizes(t *testing.T) {
	if edges := primMST(nil, 0); edges != nil {
		t.Errorf("n=0: got %v, want nil", edges)
	}
	if edges := primMST([]float64{0}, 1); edges != nil {
		t.Errorf("n=1: got %v, want nil", edges)
	}
}

func TestSingleLinkage(t *testing.T) {
	edges := primMST(threePointMatrix(), 3)
	dendrogram := singleLinkage(edges, 3)

	want := []dendrogramRow{
		{left: 0, right: 1, distance: 1, size: 2},
		{left: 3, right: 2, distance: 10, size: 3},
	}
	if len(dendrogram) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(dendrogram))
	}
	for i, row := range dendrogram {
		if row != want[i] {
			t.Errorf("dendrogram[%d]: got %+v, want %+v", i, row, want[i])
		}
	}
}

func TestCondenseTreeSmallSidesCollapse(t *testing.T) {
	dendrogram := []dendrogramRow{
		{left: 0, right: 1, distance: 1, size: 2},
		{left: 3, right: 2, distance: 10, size: 3},
	}
	tree := condenseTree(dendrogram, 2)

	// Every split has a side below minClusterSize, so the whole hierarchy
	// collapses into the root cluster (ID 3 = numPoints) as point entries.
	want := []condensedEntry{
		{parent: 3, child: 2, lambda: 0.1, childSize: 1},
		{parent: 3, child: 0, lambda: 1, childSize: 1},
		{parent: 3, child: 1, lambda: 1, childSize: 1},
	}
	if len(tree) != len(want) {
		t.Fatalf("expected %d entries, got %d: %+v", len(want), len(tree), tree)
	}
	for i, e := range tree {
		if e != want[i] {
			t.Errorf("tree[%d]: got %+v, want %+v", i, e, want[i])
		}
	}
}

func TestComputeStability(t *testing.T) {
	tree := []condensedEntry{
		{parent: 3, child: 2, lambda: 0.1, childSize: 1},
		{parent: 3, child: 0, lambda: 1, childSize: 1},
		{parent: 3, child: 1, lambda: 1, childSize: 1},
	}
	stability := computeStability(tree)

	// Root birth lambda is 0, so stability is the plain lambda sum.
	if got, want := stability[3], 2.1; math.Abs(got-want) > 1e-12 {
		t.Errorf("stability[3]: got %f, want %f", got, want)
	}
}

// balancedTree is a condensed tree with root 5 splitting into clusters 6
// and 7, with points 0-2 under 6 and points 3-4 under 7.
func balancedTree() []condensedEntry {
	return []condensedEntry{
		{parent: 5, child: 6, lambda: 1, childSize: 3},
		{parent: 5, child: 7, lambda: 1, childSize: 2},
		{parent: 6, child: 0, lambda: 2, childSize: 1},
		{parent: 6, child: 1, lambda: 2, childSize: 1},
		{parent: 6, child: 2, lambda: 2, childSize: 1},
		{parent: 7, child: 3, lambda: 2, childSize: 1},
		{parent: 7, child: 4, lambda: 2, childSize: 1},
	}
}

func TestSelectEOMPicksStableChildren(t *testing.T) {
	tree := balancedTree()
	selected, _ := selectEOM(tree, computeStability(tree), false)

	if len(selected) != 2 || !selected[6] || !selected[7] {
		t.Errorf("selected: got %v, want {6, 7}", selected)
	}
}

func TestSelectLeaf(t *testing.T) {
	tree := balancedTree()
	selected := selectLeaf(tree)
	if len(selected) != 2 || !selected[6] || !selected[7] {
		t.Errorf("selected: got %v, want {6, 7}", selected)
	}
}

func TestSelectLeafNoSplitsFallsBackToRoot(t *testing.T) {
	tree := []condensedEntry{
		{parent: 3, child: 0, lambda: 1, childSize: 1},
		{parent: 3, child: 1, lambda: 1, childSize: 1},
		{parent: 3, child: 2, lambda: 1, childSize: 1},
	}
	selected := selectLeaf(tree)
	if len(selected) != 1 || !selected[3] {
		t.Errorf("selected: got %v, want {3}", selected)
	}
}

func TestLabelsAndProbabilities(t *testing.T) {
	tree := balancedTree()
	selected := map[int]bool{6: true, 7: true}

	labels, probs := labelsAndProbabilities(tree, selected, 5, false)

	wantLabels := []int{0, 0, 0, 1, 1}
	for i, l := range labels {
		if l != wantLabels[i] {
			t.Errorf("labels[%d]: got %d, want %d", i, l, wantLabels[i])
		}
	}
	// All points persist to their cluster's death lambda.
	for i, p := range probs {
		if p != 1.0 {
			t.Errorf("probs[%d]: got %f, want 1.0", i, p)
		}
	}
}

func TestLabelsAndProbabilitiesEmptyTree(t *testing.T) {
	labels, probs := labelsAndProbabilities(nil, nil, 3, false)
	for i, l := range labels {
		if l != -1 {
			t.Errorf("labels[%d]: got %d, want -1", i, l)
		}
		if probs[i] != 0 {
			t.Errorf("probs[%d]: got %f, want 0", i, probs[i])
		}
	}
}

func TestCoreDistances(t *testing.T) {
	core := coreDistances(threePointMatrix(), 3, 2, 1)

	// Point 0: neighbors at 1 and 11; 2nd nearest is 11.
	want := []float64{11, 10, 11}
	for i, c := range core {
		if c != want[i] {
			t.Errorf("core[%d]: got %f, want %f", i, c, want[i])
		}
	}
}

func TestMutualReachability(t *testing.T) {
	dist := threePointMatrix()
	core := []float64{2, 1, 10}
	mr := mutualReachability(dist, core, 3, 1)

	// mr[i][j] = max(dist, core[i], core[j]).
	want := []float64{
		2, 2, 11,
		2, 1, 10,
		11, 10, 10,
	}
	for i, v := range mr {
		if v != want[i] {
			t.Errorf("mr[%d]: got %f, want %f", i, v, want[i])
		}
	}
}

func TestPairwiseDistancesMatchesEuclidean(t *testing.T) {
	points := [][]float64{{0, 0}, {3, 4}, {6, 8}}
	flat := []float64{0, 0, 3, 4, 6, 8}

	for _, workers := range []int{1, 3} {
		dist := pairwiseDistances(flat, 3, 2, workers)
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				want := euclidean(points[i], points[j])
				if got := dist[i*3+j]; got != want {
					t.Errorf("workers=%d dist[%d][%d]: got %f, want %f", workers, i, j, got, want)
				}
			}
		}
	}
}
