package hdbscan

import (
	"math"
	"sync"
)

// euclidean computes the Euclidean (L2) distance between two points.
func euclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// pairwiseDistances computes the full n×n Euclidean distance matrix.
// data is flat row-major with n rows and dims columns. workers controls
// parallelism; each worker fills a disjoint range of source rows, so the
// result is identical for any worker count: a flat []float64 of length n×n
// in row-major order.
func pairwiseDistances(data []float64, n, dims, workers int) []float64 {
	result := make([]float64, n*n)

	fill := func(start, end int) {
		for i := start; i < end; i++ {
			for j := i + 1; j < n; j++ {
				d := euclidean(data[i*dims:(i+1)*dims], data[j*dims:(j+1)*dims])
				result[i*n+j] = d
				result[j*n+i] = d
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
