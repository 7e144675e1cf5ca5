package hdbscan

import (
	"math"
	"sort"
)

// treeRoot returns the root cluster ID (smallest parent) of the condensed
// tree.
func treeRoot(tree []condensedEntry) int {
	root := math.MaxInt
	for _, e := range tree {
		if e.parent < root {
			root = e.parent
		}
	}
	return root
}

// clusterEntries returns only the cluster-to-cluster entries
// (childSize > 1).
func clusterEntries(tree []condensedEntry) []condensedEntry {
	entries := make([]condensedEntry, 0, len(tree)/2)
	for _, e := range tree {
		if e.childSize > 1 {
			entries = append(entries, e)
		}
	}
	return entries
}

// clusterChildrenMap builds a parent-to-children mapping from cluster
// entries. Child lists preserve tree order, so traversals are
// deterministic.
func clusterChildrenMap(clusterTree []condensedEntry) map[int][]int {
	childrenOf := make(map[int][]int)
	for _, e := range clusterTree {
		childrenOf[e.parent] = append(childrenOf[e.parent], e.child)
	}
	return childrenOf
}

// bfsDescendants returns a node and all its cluster descendants.
func bfsDescendants(childrenOf map[int][]int, bfsRoot int) []int {
	result := []int{bfsRoot}
	toProcess := []int{bfsRoot}

	for len(toProcess) > 0 {
		var next []int
		for _, node := range toProcess {
			for _, child := range childrenOf[node] {
				result = append(result, child)
				next = append(next, child)
			}
		}
		toProcess = next
	}

	return result
}

// selectEOM performs Excess-of-Mass cluster selection: a bottom-up walk of
// the condensed tree in which a parent keeps its children's place only when
// the children's combined stability beats its own. Returns the selected
// cluster IDs and the updated stability map.
func selectEOM(tree []condensedEntry, stability map[int]float64, allowSingleCluster bool) (map[int]bool, map[int]float64) {
	stab := make(map[int]float64, len(stability))
	for k, v := range stability {
		stab[k] = v
	}

	root := treeRoot(tree)
	childrenOf := clusterChildrenMap(clusterEntries(tree))

	// Candidates in reverse topological order. Cluster IDs are assigned in
	// BFS order, so a reverse numeric sort visits children before parents.
	var nodeList []int
	for k := range stab {
		if allowSingleCluster || k != root {
			nodeList = append(nodeList, k)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(nodeList)))

	isCluster := make(map[int]bool, len(nodeList))
	for _, n := range nodeList {
		isCluster[n] = true
	}

	for _, node := range nodeList {
		children := childrenOf[node]
		if len(children) == 0 {
			continue
		}

		subtreeStability := 0.0
		for _, child := range children {
			subtreeStability += stab[child]
		}

		if subtreeStability > stab[node] {
			isCluster[node] = false
			stab[node] = subtreeStability
		} else {
			// Parent wins; deselect all descendants.
			for _, d := range bfsDescendants(childrenOf, node) {
				if d != node {
					isCluster[d] = false
				}
			}
		}
	}

	selected := make(map[int]bool)
	for k, v := range isCluster {
		if v {
			selected[k] = true
		}
	}

	return selected, stab
}

// selectLeaf selects all leaf clusters of the condensed tree. When the
// tree has no cluster splits at all, the root is the only candidate.
func selectLeaf(tree []condensedEntry) map[int]bool {
	clusterTree := clusterEntries(tree)
	if len(clusterTree) == 0 {
		return map[int]bool{treeRoot(tree): true}
	}

	isParent := make(map[int]bool)
	for _, e := range clusterTree {
		isParent[e.parent] = true
	}

	leaves := make(map[int]bool)
	for _, e := range clusterTree {
		if !isParent[e.child] {
			leaves[e.child] = true
		}
	}

	return leaves
}
