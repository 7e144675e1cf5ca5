// Package hdbscan implements Hierarchical Density-Based Spatial Clustering
// of Applications with Noise over low-dimensional embeddings.
//
// The implementation follows the classic pipeline: pairwise Euclidean
// distances, core distances, mutual reachability, a minimum spanning tree,
// single-linkage dendrogram, condensed tree, and flat-cluster extraction by
// cluster stability ("eom") or by taking the tree leaves ("leaf").
//
// Basic usage:
//
//	cfg := hdbscan.DefaultConfig()
//	cfg.MinClusterSize = 10
//	result, err := hdbscan.Cluster(points, cfg)
//	// result.Labels[i] is the cluster ID for point i (-1 = noise)
//	// result.Probabilities[i] is how strongly point i belongs to its cluster
//	// result.Memberships[i] is point i's soft distribution over clusters
//
// Results are deterministic: no output depends on map iteration order, and
// ties break by point index.
package hdbscan
