// Package depthclust clusters genomic variants or samples by their
// per-sample coverage-depth profiles.
//
// The pipeline reduces a high-dimensional depth matrix to a low-dimensional
// embedding with UMAP, clusters the embedding with HDBSCAN, and exports both
// hard labels and soft membership probabilities, plus a diagnostic scatter
// plot.
//
// Basic usage:
//
//	depths, err := depthclust.LoadMatrix("depths.npy")
//	pipe, err := depthclust.New(depthclust.DefaultConfig())
//	res, err := pipe.Run(depths)
//	// res.Labels[i] is the cluster ID for row i (-1 = noise)
//	// res.Memberships[i] is row i's probability over discovered clusters
//	err = depthclust.RenderPlot(res.Embedding, res.Labels, res.Probabilities, "out.png")
//	err = depthclust.ExportLabels(res.Labels, "out_labels.npy")
//
// Requested UMAP and HDBSCAN parameters are clamped to what the input shape
// can support before the backends run: n_neighbors to 20% of the row count,
// n_components to the column count, and min_cluster_size (together with
// min_samples) to 10% of the row count. Runs are deterministic for a fixed
// seed.
package depthclust
