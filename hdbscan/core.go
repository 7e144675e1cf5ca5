package hdbscan

import (
	"sort"
	"sync"
)

// coreDistances computes, for each point, the distance to its
// minSamples-th nearest neighbor. distMatrix is flat n×n row-major.
// minSamples is clamped to [0, n-1]; 0 yields all-zero core distances.
func coreDistances(distMatrix []float64, n, minSamples, workers int) []float64 {
	if minSamples > n-1 {
		minSamples = n - 1
	}
	if minSamples < 0 {
		minSamples = 0
	}

	core := make([]float64, n)
	if minSamples == 0 {
		return core
	}

	fill := func(start, end int) {
		neighbors := make([]float64, n-1)
		for i := start; i < end; i++ {
			k := 0
			for j := 0; j < n; j++ {
				if j != i {
					neighbors[k] = distMatrix[i*n+j]
					k++
				}
			}
			sort.Float64s(neighbors)
			core[i] = neighbors[minSamples-1]
		}
	}

	if workers <= 1 || n <= 1 {
		fill(0, n)
		return core
	}

	var wg sync.WaitGroup
	rowsPerWorker := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * rowsPerWorker
		if start >= n {
			break
		}
		end := start + rowsPerWorker
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			fill(start, end)
		}(start, end)
	}
	wg.Wait()
	return core
}

// mutualReachability computes the mutual reachability distance matrix:
// mr[i,j] = max(core[i], core[j], dist[i,j]).
func mutualReachability(distMatrix, core []float64, n, workers int) []float64 {
	result := make([]float64, n*n)

	fill := func(start, end int) {
		for i := start; i < end; i++ {
			ci := core[i]
			for j := 0; j < n; j++ {
				result[i*n+j] = max(distMatrix[i*n+j], ci, core[j])
			}
		}
	}

	if workers <= 1 || n <= 1 {
		fill(0, n)
		return result
	}

	var wg sync.WaitGroup
	rowsPerWorker := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * rowsPerWorker
		if start >= n {
			break
		}
		end := start + rowsPerWorker
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			fill(start, end)
		}(start, end)
	}
	wg.Wait()
	return result
}
