package hdbscan

import "math"

// membershipEpsilon guards the inverse-distance weights when a point sits
// exactly on an exemplar.
const membershipEpsilon = 1e-8

// membershipVectors computes a soft membership distribution for every
// point over the selected clusters. Each cluster is represented by its
// exemplars (the points that persist to the cluster's deepest density
// level); a point's affinity for a cluster is the inverse of its distance
// to the nearest exemplar, normalized across clusters. Noise points get
// all-zero rows.
func membershipVectors(tree []condensedEntry, selected map[int]bool, labels []int, flat []float64, n, dims int) [][]float64 {
	cols := len(selected)
	_, clusterAt := clusterColumns(selected)
	exemplars := clusterExemplars(tree, selected)

	memberships := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, cols)
		memberships[i] = row
		if labels[i] == -1 {
			continue
		}

		point := flat[i*dims : (i+1)*dims]
		sum := 0.0
		for col := 0; col < cols; col++ {
			dmin := math.Inf(1)
			for _, e := range exemplars[clusterAt[col]] {
				if d := euclidean(point, flat[e*dims:(e+1)*dims]); d < dmin {
					dmin = d
				}
			}
			if !math.IsInf(dmin, 1) {
				row[col] = 1.0 / (dmin + membershipEpsilon)
				sum += row[col]
			}
		}

		if sum > 0 {
			for col := range row {
				row[col] /= sum
			}
		} else {
			row[labels[i]] = 1.0
		}
	}

	return memberships
}

// clusterExemplars finds, for each selected cluster, the points that
// survive to the maximum lambda of each leaf cluster beneath it.
func clusterExemplars(tree []condensedEntry, selected map[int]bool) map[int][]int {
	clusterTree := clusterEntries(tree)
	childrenOf := clusterChildrenMap(clusterTree)

	// Point entries grouped by parent cluster, in tree order.
	pointsOf := make(map[int][]condensedEntry)
	for _, e := range tree {
		if e.childSize == 1 {
			pointsOf[e.parent] = append(pointsOf[e.parent], e)
		}
	}

	exemplars := make(map[int][]int, len(selected))
	for c := range selected {
		var points []int
		for _, node := range bfsDescendants(childrenOf, c) {
			if len(childrenOf[node]) > 0 {
				continue // not a leaf cluster
			}
			entries := pointsOf[node]
			maxLambda := 0.0
			for _, e := range entries {
				if e.lambda > maxLambda {
					maxLambda = e.lambda
				}
			}
			for _, e := range entries {
				if e.lambda == maxLambda {
					points = append(points, e.child)
				}
			}
		}
		exemplars[c] = points
	}

	return exemplars
}
