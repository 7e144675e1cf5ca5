package hdbscan

import "sort"

// unionFind is a disjoint-set structure sized for 2*n - 1 elements so that
// merged dendrogram clusters (IDs n..2n-2) can be stored as roots.
type unionFind struct {
	parent []int
	size   []int
	// nextLabel is the ID for the next merged cluster, starting at n.
	nextLabel int
}

func newUnionFind(n int) *unionFind {
	total := 2*n - 1
	if total < 1 {
		total = 1
	}
	parent := make([]int, total)
	size := make([]int, total)
	for i := range parent {
		parent[i] = -1 // -1 means "is a root"
	}
	for i := 0; i < n; i++ {
		size[i] = 1
	}
	return &unionFind{parent: parent, size: size, nextLabel: n}
}

func (uf *unionFind) find(x int) int {
	root := x
	for uf.parent[root] != -1 {
		root = uf.parent[root]
	}
	for uf.parent[x] != -1 {
		x, uf.parent[x] = uf.parent[x], root
	}
	return root
}

// dendrogramRow is one merge in the single-linkage hierarchy: the two
// cluster IDs merged, the merge distance, and the merged cluster size.
// Merged cluster IDs start at n, as in scipy's linkage output.
type dendrogramRow struct {
	left, right int
	distance    float64
	size        int
}

// singleLinkage converts MST edges into a single-linkage dendrogram. Edges
// are processed in ascending weight order; ties keep their original (chain)
// order, which is deterministic.
func singleLinkage(edges []mstEdge, n int) []dendrogramRow {
	if len(edges) == 0 {
		return nil
	}

	sorted := make([]mstEdge, len(edges))
	copy(sorted, edges)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].w < sorted[j].w
	})

	uf := newUnionFind(n)
	result := make([]dendrogramRow, 0, len(sorted))

	for _, e := range sorted {
		aa := uf.find(e.a)
		bb := uf.find(e.b)
		newSize := uf.size[aa] + uf.size[bb]

		result = append(result, dendrogramRow{left: aa, right: bb, distance: e.w, size: newSize})

		// Relabel the merged root to the next dendrogram cluster ID.
		uf.size[uf.nextLabel] = newSize
		uf.parent[aa] = uf.nextLabel
		uf.parent[bb] = uf.nextLabel
		uf.nextLabel++
	}

	return result
}
