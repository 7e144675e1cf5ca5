package umap

import (
	"container/heap"
	"math"
	"sort"
)

// kdTree is a KD-tree over flat row-major points, specialized to squared
// Euclidean bounds for kNN queries. The tree is stored as a complete
// binary tree in array form: node i has children at 2*i+1 and 2*i+2.
type kdTree struct {
	data     []float64
	n        int
	dims     int
	leafSize int
	idxArray []int // permutation: tree-order position -> original index
	nodes    []kdNode
	// boundsMin[node*dims + j] = min value of feature j in node
	boundsMin []float64
	boundsMax []float64
}

type kdNode struct {
	start, end int
	leaf       bool
}

const kdLeafSize = 30

func newKDTree(data []float64, n, dims int) *kdTree {
	dataCopy := make([]float64, len(data))
	copy(dataCopy, data)
	idxArray := make([]int, n)
	for i := range idxArray {
		idxArray[i] = i
	}

	t := &kdTree{
		data:     dataCopy,
		n:        n,
		dims:     dims,
		leafSize: kdLeafSize,
		idxArray: idxArray,
	}

	maxNodes := kdMaxNodes(n, t.leafSize)
	t.nodes = make([]kdNode, maxNodes)
	t.boundsMin = make([]float64, maxNodes*dims)
	t.boundsMax = make([]float64, maxNodes*dims)

	if n > 0 {
		t.build(0, 0, n)
	}
	return t
}

// kdMaxNodes bounds the node count for a binary tree with n points and the
// given leaf size.
func kdMaxNodes(n, leafSize int) int {
	if n == 0 {
		return 1
	}
	leaves := (n + leafSize - 1) / leafSize
	depth := 0
	v := 1
	for v < leaves {
		v *= 2
		depth++
	}
	return (1 << (depth + 1)) + 1
}

func (t *kdTree) build(nodeID, start, end int) {
	for nodeID >= len(t.nodes) {
		t.nodes = append(t.nodes, kdNode{})
		t.boundsMin = append(t.boundsMin, make([]float64, t.dims)...)
		t.boundsMax = append(t.boundsMax, make([]float64, t.dims)...)
	}

	base := nodeID * t.dims
	for d := 0; d < t.dims; d++ {
		t.boundsMin[base+d] = math.Inf(1)
		t.boundsMax[base+d] = math.Inf(-1)
	}
	for i := start; i < end; i++ {
		pt := t.idxArray[i]
		for d := 0; d < t.dims; d++ {
			v := t.data[pt*t.dims+d]
			if v < t.boundsMin[base+d] {
				t.boundsMin[base+d] = v
			}
			if v > t.boundsMax[base+d] {
				t.boundsMax[base+d] = v
			}
		}
	}

	count := end - start
	if count <= t.leafSize {
		t.nodes[nodeID] = kdNode{start: start, end: end, leaf: true}
		return
	}

	// Split at the median of the widest dimension.
	splitDim := 0
	maxSpread := -1.0
	for d := 0; d < t.dims; d++ {
		if spread := t.boundsMax[base+d] - t.boundsMin[base+d]; spread > maxSpread {
			maxSpread = spread
			splitDim = d
		}
	}

	sub := t.idxArray[start:end]
	data, dims := t.data, t.dims
	sort.SliceStable(sub, func(i, j int) bool {
		return data[sub[i]*dims+splitDim] < data[sub[j]*dims+splitDim]
	})
	mid := start + count/2

	t.nodes[nodeID] = kdNode{start: start, end: end}
	t.build(2*nodeID+1, start, mid)
	t.build(2*nodeID+2, mid, end)
}

// queryKNN returns the k nearest neighbors of every point in the tree,
// sorted by ascending distance with ties broken by point index. The query
// point itself is included (at distance 0).
func (t *kdTree) queryKNN(k int) (indices [][]int, distances [][]float64) {
	indices = make([][]int, t.n)
	distances = make([][]float64, t.n)

	for q := 0; q < t.n; q++ {
		query := t.data[q*t.dims : (q+1)*t.dims]
		h := &knnHeap{}
		t.search(0, query, k, h)

		m := h.Len()
		items := make([]knnItem, m)
		for i := m - 1; i >= 0; i-- {
			items[i] = heap.Pop(h).(knnItem)
		}
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].dist2 != items[j].dist2 {
				return items[i].dist2 < items[j].dist2
			}
			return items[i].index < items[j].index
		})

		idx := make([]int, m)
		dist := make([]float64, m)
		for i, it := range items {
			idx[i] = it.index
			dist[i] = math.Sqrt(it.dist2)
		}
		indices[q] = idx
		distances[q] = dist
	}

	return indices, distances
}

func (t *kdTree) search(nodeID int, query []float64, k int, h *knnHeap) {
	if nodeID >= len(t.nodes) {
		return
	}
	node := t.nodes[nodeID]
	if node.start == node.end && nodeID != 0 {
		return // uninitialized node
	}

	if node.leaf {
		for i := node.start; i < node.end; i++ {
			pt := t.idxArray[i]
			d2 := sqDist(query, t.data[pt*t.dims:(pt+1)*t.dims])
			if h.Len() < k {
				heap.Push(h, knnItem{index: pt, dist2: d2})
			} else if d2 < (*h)[0].dist2 {
				(*h)[0] = knnItem{index: pt, dist2: d2}
				heap.Fix(h, 0)
			}
		}
		return
	}

	left := 2*nodeID + 1
	right := 2*nodeID + 2

	leftBound := t.minSqDist(left, query)
	rightBound := t.minSqDist(right, query)

	nearChild, farChild, farBound := left, right, rightBound
	if rightBound < leftBound {
		nearChild, farChild, farBound = right, left, leftBound
	}

	t.search(nearChild, query, k, h)
	if h.Len() < k || (*h)[0].dist2 > farBound {
		t.search(farChild, query, k, h)
	}
}

// minSqDist is a lower bound on the squared distance from a point to any
// point in the node's bounding box.
func (t *kdTree) minSqDist(nodeID int, point []float64) float64 {
	if nodeID >= len(t.nodes) {
		return math.Inf(1)
	}
	base := nodeID * t.dims
	var sum float64
	for j := 0; j < t.dims; j++ {
		lo := t.boundsMin[base+j]
		hi := t.boundsMax[base+j]
		var d float64
		if point[j] < lo {
			d = lo - point[j]
		} else if point[j] > hi {
			d = point[j] - hi
		}
		sum += d * d
	}
	return sum
}

func sqDist(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// knnItem pairs a point index with its squared distance to the query.
type knnItem struct {
	index int
	dist2 float64
}

// knnHeap is a bounded max-heap (largest distance on top) used as a
// priority queue for kNN queries.
type knnHeap []knnItem

func (h knnHeap) Len() int           { return len(h) }
func (h knnHeap) Less(i, j int) bool { return h[i].dist2 > h[j].dist2 }
func (h knnHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *knnHeap) Push(x any)        { *h = append(*h, x.(knnItem)) }
func (h *knnHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
