package depthclust

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sbinet/npyio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// writeNpy writes v (a slice or gonum matrix) to a fresh .npy file under
// dir and returns its path.
func writeNpy(t *testing.T, dir, name string, v any) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, npyio.Write(f, v))
	require.NoError(t, f.Close())
	return path
}

func TestLoadMatrix(t *testing.T) {
	dir := t.TempDir()
	src := mat.NewDense(3, 2, []float64{
		1, 2,
		3, 4,
		5, 6,
	})
	path := writeNpy(t, dir, "depths.npy", src)

	m, err := LoadMatrix(path)
	require.NoError(t, err)

	want := [][]float64{{1, 2}, {3, 4}, {5, 6}}
	assert.Equal(t, want, m)
}

func TestLoadMatrixRejectsRank1(t *testing.T) {
	dir := t.TempDir()
	path := writeNpy(t, dir, "flat.npy", []float64{1, 2, 3})

	_, err := LoadMatrix(path)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestLoadMatrixMissingFile(t *testing.T) {
	_, err := LoadMatrix(filepath.Join(t.TempDir(), "absent.npy"))
	require.Error(t, err)
}

func TestLoadMatrixNotNpy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "garbage.npy")
	require.NoError(t, os.WriteFile(path, []byte("not a numpy file"), 0o644))

	_, err := LoadMatrix(path)
	require.Error(t, err)
}

func TestValidateMatrix(t *testing.T) {
	require.NoError(t, validateMatrix([][]float64{{1}}))
	require.Error(t, validateMatrix(nil))
	require.Error(t, validateMatrix([][]float64{{}}))
	require.Error(t, validateMatrix([][]float64{{1, 2}, {3}}))
}
