package depthclust

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sbinet/npyio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFitArtifacts runs the full pipeline on a 500x4 depth matrix and
// checks the two output artifacts: the scatter PNG and the int8 labels
// file.
func TestFitArtifacts(t *testing.T) {
	if testing.Short() {
		t.Skip("full pipeline run")
	}

	m := blobMatrix(250, 4)

	p, err := New(DefaultConfig())
	require.NoError(t, err)
	res, err := p.Run(m)
	require.NoError(t, err)

	dir := t.TempDir()
	plotPath := filepath.Join(dir, "depths_UMAP_projection_with_clusters.png")
	labelsPath := filepath.Join(dir, "depths_labels.npy")

	require.NoError(t, RenderPlot(res.Embedding, res.Labels, res.Probabilities, plotPath))
	require.NoError(t, ExportLabels(res.Labels, labelsPath))

	info, err := os.Stat(plotPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	f, err := os.Open(labelsPath)
	require.NoError(t, err)
	defer f.Close()

	r, err := npyio.NewReader(f)
	require.NoError(t, err)
	require.Equal(t, []int{500}, r.Header.Descr.Shape)

	var labels []int8
	require.NoError(t, r.Read(&labels))
	require.Len(t, labels, 500)

	maxLabel := int8(-1)
	for i, l := range labels {
		assert.GreaterOrEqual(t, l, int8(-1), "labels[%d]", i)
		assert.Equal(t, int8(res.Labels[i]), l, "labels[%d] round trip", i)
		if l > maxLabel {
			maxLabel = l
		}
	}
	// Cluster IDs are contiguous from 0.
	seen := make([]bool, int(maxLabel)+1)
	for _, l := range labels {
		if l >= 0 {
			seen[l] = true
		}
	}
	for id, ok := range seen {
		assert.True(t, ok, "cluster ID %d unused", id)
	}
	assert.GreaterOrEqual(t, int(maxLabel), 1, "two depth profiles should separate")
}
