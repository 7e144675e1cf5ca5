// Package umap implements Uniform Manifold Approximation and Projection
// for dimensionality reduction.
//
// The reducer builds a k-nearest-neighbor graph over the input rows,
// converts it into a fuzzy simplicial set with locally adaptive kernel
// widths, and lays the graph out in the target space by stochastic
// gradient descent with negative sampling. Nearby rows in the input space
// stay nearby in the embedding; global distances are not preserved.
//
// Basic usage:
//
//	cfg := umap.DefaultConfig()
//	cfg.NNeighbors = 20
//	embedding, err := umap.New(cfg).FitTransform(data)
//
// All randomness flows from Config.Seed through a single PRNG on a single
// goroutine, so identical input and seed reproduce the embedding exactly
// within one build of this package.
package umap
