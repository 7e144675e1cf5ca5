package hdbscan

import (
	"math"
	"sort"
)

// labelsAndProbabilities assigns each point a flat cluster label and a
// membership probability given the selected clusters. Labels are
// sequential (0, 1, 2, ...) over the sorted selected cluster IDs; noise is
// -1 with probability 0.
func labelsAndProbabilities(tree []condensedEntry, selected map[int]bool, n int, allowSingleCluster bool) ([]int, []float64) {
	if len(tree) == 0 {
		labels := make([]int, n)
		probs := make([]float64, n)
		for i := range labels {
			labels[i] = -1
		}
		return labels, probs
	}

	root := treeRoot(tree)
	deaths := maxLambdas(tree)
	columnOf, clusterAt := clusterColumns(selected)

	labels := doLabelling(tree, selected, columnOf, root, n, allowSingleCluster)
	probs := pointProbabilities(tree, clusterAt, labels, deaths, root)

	return labels, probs
}

// clusterColumns maps selected cluster IDs to sequential label indices and
// back. Sorting the IDs fixes the label order.
func clusterColumns(selected map[int]bool) (columnOf map[int]int, clusterAt map[int]int) {
	sorted := make([]int, 0, len(selected))
	for c := range selected {
		sorted = append(sorted, c)
	}
	sort.Ints(sorted)

	columnOf = make(map[int]int, len(sorted))
	clusterAt = make(map[int]int, len(sorted))
	for i, c := range sorted {
		columnOf[c] = i
		clusterAt[i] = c
	}
	return columnOf, clusterAt
}

// doLabelling assigns each point to a cluster using union-find on the
// condensed tree: edges into non-selected children are contracted, so each
// point resolves to the selected cluster containing it, or above it to the
// root (noise).
func doLabelling(tree []condensedEntry, selected map[int]bool, columnOf map[int]int, root, n int, allowSingleCluster bool) []int {
	maxNode := 0
	for _, e := range tree {
		if e.parent > maxNode {
			maxNode = e.parent
		}
		if e.child > maxNode {
			maxNode = e.child
		}
	}

	uf := newLabelUnionFind(maxNode + 1)
	for _, e := range tree {
		if !selected[e.child] {
			uf.union(e.parent, e.child)
		}
	}

	// Per-point lambdas and the max point lambda under the root, for the
	// single-cluster case.
	pointLambdas := make(map[int]float64)
	rootMaxPointLambda := 0.0
	for _, e := range tree {
		if e.childSize == 1 {
			pointLambdas[e.child] = e.lambda
			if e.parent == root && e.lambda > rootMaxPointLambda {
				rootMaxPointLambda = e.lambda
			}
		}
	}

	result := make([]int, n)
	for i := 0; i < n; i++ {
		cluster := uf.find(i)
		switch {
		case cluster < root:
			result[i] = -1
		case cluster != root:
			result[i] = columnOf[cluster]
		case len(selected) == 1 && allowSingleCluster:
			// Root selected as the single cluster: points that persist to
			// the densest level belong, the rest stay noise.
			if label, ok := columnOf[cluster]; ok && pointLambdas[i] >= rootMaxPointLambda {
				result[i] = label
			} else {
				result[i] = -1
			}
		default:
			result[i] = -1
		}
	}

	return result
}

// pointProbabilities computes the membership probability of each labelled
// point as its lambda relative to the deepest lambda of its cluster.
func pointProbabilities(tree []condensedEntry, clusterAt map[int]int, labels []int, deaths map[int]float64, root int) []float64 {
	result := make([]float64, len(labels))

	for _, e := range tree {
		point := e.child
		if point >= root {
			continue
		}

		label := labels[point]
		if label == -1 {
			continue
		}

		cluster, ok := clusterAt[label]
		if !ok {
			continue
		}

		maxLambda := deaths[cluster]
		if maxLambda == 0.0 || math.IsInf(e.lambda, 0) {
			result[point] = 1.0
		} else {
			result[point] = math.Min(e.lambda, maxLambda) / maxLambda
		}
	}

	return result
}

// maxLambdas computes the maximum (death) lambda observed under each
// cluster.
func maxLambdas(tree []condensedEntry) map[int]float64 {
	deaths := make(map[int]float64)
	for _, e := range tree {
		if e.lambda > deaths[e.parent] {
			deaths[e.parent] = e.lambda
		}
	}
	return deaths
}

// labelUnionFind is a simple union-find with path compression and union by
// rank, used only for flat labelling.
type labelUnionFind struct {
	parent []int
	rank   []int
}

func newLabelUnionFind(size int) *labelUnionFind {
	parent := make([]int, size)
	rank := make([]int, size)
	for i := range parent {
		parent[i] = i
	}
	return &labelUnionFind{parent: parent, rank: rank}
}

func (uf *labelUnionFind) find(x int) int {
	if uf.parent[x] != x {
		uf.parent[x] = uf.find(uf.parent[x])
	}
	return uf.parent[x]
}

func (uf *labelUnionFind) union(x, y int) {
	xRoot := uf.find(x)
	yRoot := uf.find(y)
	if xRoot == yRoot {
		return
	}
	switch {
	case uf.rank[xRoot] < uf.rank[yRoot]:
		uf.parent[xRoot] = yRoot
	case uf.rank[xRoot] > uf.rank[yRoot]:
		uf.parent[yRoot] = xRoot
	default:
		uf.parent[yRoot] = xRoot
		uf.rank[xRoot]++
	}
}
