package hdbscan

import "math"

// mstEdge is a spanning-tree edge: endpoints a, b and weight w.
type mstEdge struct {
	a, b int
	w    float64
}

// primMST computes a minimum spanning tree of the dense mutual reachability
// matrix using Prim's algorithm. mrMatrix is flat n×n row-major. Returns
// n-1 edges in the chain order Prim's produces: each edge connects the most
// recently added node to the next nearest one, with ties broken by the
// lowest point index.
func primMST(mrMatrix []float64, n int) []mstEdge {
	if n <= 1 {
		return nil
	}

	inTree := make([]bool, n)
	currentDistances := make([]float64, n)

	inTree[0] = true
	currentNode := 0
	currentDistances[0] = math.Inf(1)
	for j := 1; j < n; j++ {
		currentDistances[j] = mrMatrix[j]
	}

	edges := make([]mstEdge, 0, n-1)

	for i := 0; i < n-1; i++ {
		minDist := math.Inf(1)
		minNode := -1
		for j := 0; j < n; j++ {
			if !inTree[j] && currentDistances[j] < minDist {
				minDist = currentDistances[j]
				minNode = j
			}
		}

		// All remaining distances are +Inf (disconnected input): take the
		// first node not yet in the tree.
		if minNode == -1 {
			for j := 0; j < n; j++ {
				if !inTree[j] {
					minNode = j
					minDist = currentDistances[j]
					break
				}
			}
		}

		edges = append(edges, mstEdge{a: currentNode, b: minNode, w: minDist})

		inTree[minNode] = true
		currentNode = minNode

		for k := 0; k < n; k++ {
			if !inTree[k] {
				if d := mrMatrix[minNode*n+k]; d < currentDistances[k] {
					currentDistances[k] = d
				}
			}
		}
	}

	return edges
}
