package hdbscan

import "math"

// condensedEntry is one edge of the condensed tree: Child (a point or a
// cluster) separates from Parent at density lambda = 1/distance.
// ChildSize is 1 for points.
type condensedEntry struct {
	parent    int
	child     int
	lambda    float64
	childSize int
}

// condenseTree collapses the single-linkage dendrogram into a condensed
// tree by dissolving clusters smaller than minClusterSize into their
// parent. Cluster node IDs start at n (the root) and are assigned in BFS
// order.
func condenseTree(dendrogram []dendrogramRow, minClusterSize int) []condensedEntry {
	numRows := len(dendrogram)
	if numRows == 0 {
		return nil
	}

	numPoints := numRows + 1
	root := 2 * numRows
	nextLabel := numPoints + 1

	nodeList := bfsFromDendrogram(dendrogram, root, numPoints)

	relabel := make(map[int]int)
	relabel[root] = numPoints

	ignore := make(map[int]bool)

	var result []condensedEntry

	// collapseSubtree walks the subtree rooted at node, emitting a point
	// entry for each leaf and marking every visited node as ignored.
	collapseSubtree := func(subtreeRoot, parentCluster int, lambda float64) {
		for _, subNode := range bfsFromDendrogram(dendrogram, subtreeRoot, numPoints) {
			if subNode < numPoints {
				result = append(result, condensedEntry{
					parent:    parentCluster,
					child:     subNode,
					lambda:    lambda,
					childSize: 1,
				})
			}
			ignore[subNode] = true
		}
	}

	for _, node := range nodeList {
		if ignore[node] || node < numPoints {
			continue
		}

		row := dendrogram[node-numPoints]

		var lambda float64
		if row.distance > 0.0 {
			lambda = 1.0 / row.distance
		} else {
			lambda = math.Inf(1)
		}

		leftCount := 1
		if row.left >= numPoints {
			leftCount = dendrogram[row.left-numPoints].size
		}
		rightCount := 1
		if row.right >= numPoints {
			rightCount = dendrogram[row.right-numPoints].size
		}

		leftBig := leftCount >= minClusterSize
		rightBig := rightCount >= minClusterSize
		parentCluster := relabel[node]

		switch {
		case leftBig && rightBig:
			relabel[row.left] = nextLabel
			nextLabel++
			result = append(result, condensedEntry{
				parent:    parentCluster,
				child:     relabel[row.left],
				lambda:    lambda,
				childSize: leftCount,
			})

			relabel[row.right] = nextLabel
			nextLabel++
			result = append(result, condensedEntry{
				parent:    parentCluster,
				child:     relabel[row.right],
				lambda:    lambda,
				childSize: rightCount,
			})

		case !leftBig && !rightBig:
			collapseSubtree(row.left, parentCluster, lambda)
			collapseSubtree(row.right, parentCluster, lambda)

		case !leftBig:
			// Left too small; right continues as the same cluster.
			relabel[row.right] = parentCluster
			collapseSubtree(row.left, parentCluster, lambda)

		default:
			// Right too small; left continues as the same cluster.
			relabel[row.left] = parentCluster
			collapseSubtree(row.right, parentCluster, lambda)
		}
	}

	return result
}

// bfsFromDendrogram returns all node IDs reachable from bfsRoot in the
// dendrogram, in breadth-first order.
func bfsFromDendrogram(dendrogram []dendrogramRow, bfsRoot, numPoints int) []int {
	toProcess := []int{bfsRoot}
	var result []int

	for len(toProcess) > 0 {
		result = append(result, toProcess...)

		var nextLevel []int
		for _, x := range toProcess {
			if x >= numPoints {
				idx := x - numPoints
				if idx < len(dendrogram) {
					nextLevel = append(nextLevel, idx)
				}
			}
		}

		if len(nextLevel) == 0 {
			break
		}

		toProcess = toProcess[:0]
		for _, idx := range nextLevel {
			toProcess = append(toProcess, dendrogram[idx].left, dendrogram[idx].right)
		}
	}

	return result
}

// computeStability computes the stability of each cluster in the condensed
// tree:
//
//	sum over entries with parent==C of (entry.lambda - lambdaBirth(C)) * entry.childSize
//
// where lambdaBirth(C) is the lambda at which C first appears as a child.
// The root cluster has lambdaBirth = 0.
func computeStability(tree []condensedEntry) map[int]float64 {
	if len(tree) == 0 {
		return nil
	}

	root := math.MaxInt
	births := make(map[int]float64)
	for _, e := range tree {
		if e.parent < root {
			root = e.parent
		}
		if existing, ok := births[e.child]; !ok || e.lambda < existing {
			births[e.child] = e.lambda
		}
	}
	births[root] = 0.0

	stability := make(map[int]float64)
	for _, e := range tree {
		stability[e.parent] += (e.lambda - births[e.parent]) * float64(e.childSize)
	}

	return stability
}
