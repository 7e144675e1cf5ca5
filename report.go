package depthclust

import (
	"fmt"
	"os"

	"github.com/sbinet/npyio"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// RenderPlot writes a 2-D scatter of the embedding to path as a PNG. Each
// point sits at its first two embedding coordinates (a 1-D embedding plots
// against y=0), colored by cluster from the fixed palette, desaturated by
// assignment probability, with noise in neutral gray. Inputs are not
// mutated.
func RenderPlot(embedding [][]float64, labels []int, probabilities []float64, path string) error {
	n := len(embedding)
	if n == 0 {
		return fmt.Errorf("%w: empty embedding", ErrInvalidInput)
	}
	if len(labels) != n || len(probabilities) != n {
		return fmt.Errorf("%w: embedding has %d rows, labels %d, probabilities %d",
			ErrInvalidInput, n, len(labels), len(probabilities))
	}

	xys := make(plotter.XYs, n)
	for i, row := range embedding {
		xys[i].X = row[0]
		if len(row) > 1 {
			xys[i].Y = row[1]
		}
	}

	sc, err := plotter.NewScatter(xys)
	if err != nil {
		return fmt.Errorf("building scatter: %w", err)
	}
	sc.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		return draw.GlyphStyle{
			Color:  pointColor(labels[i], probabilities[i], 128),
			Radius: vg.Points(1.5),
			Shape:  draw.CircleGlyph{},
		}
	}

	p := plot.New()
	p.X.Label.Text = "UMAP 1"
	p.Y.Label.Text = "UMAP 2"
	p.Add(sc)

	if err := p.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("saving plot %s: %w", path, err)
	}
	return nil
}

// ExportLabels writes hard labels to path as a one-dimensional int8 NumPy
// array, one record per item in input row order, -1 for noise.
func ExportLabels(labels []int, path string) error {
	out := make([]int8, len(labels))
	for i, l := range labels {
		out[i] = int8(l)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing labels %s: %w", path, err)
	}
	if err := npyio.Write(f, out); err != nil {
		f.Close()
		return fmt.Errorf("writing labels %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing labels %s: %w", path, err)
	}
	return nil
}
