// Command depthclust embeds and clusters a variant depth matrix.
//
// Usage:
//
//	depthclust [--verbosity N] [--log FILE] fit --depths depths.npy [flags]
//
// The fit subcommand runs UMAP and HDBSCAN over the depth matrix and
// writes <prefix>_UMAP_projection_with_clusters.png and
// <prefix>_labels.npy next to the input, where <prefix> is the input path
// without its .npy extension.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/corella-bio/depthclust"
)

const version = "0.1.0"

// verbosity levels: 1 = critical, 2 = error, 3 = warning, 4 = info,
// 5 = debug.
var verbosity = 4

func infof(format string, args ...any) {
	if verbosity >= 4 {
		log.Printf(format, args...)
	}
}

func debugf(format string, args ...any) {
	if verbosity >= 5 {
		log.Printf(format, args...)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage:
  depthclust [global flags] fit [flags]

Subcommands:
  fit    embed a depth matrix with UMAP and cluster it with HDBSCAN

Global flags:
  --verbosity int   1 = critical, 2 = error, 3 = warning, 4 = info, 5 = debug (default 4)
  --log string      append logging output to file (must not exist)
  --version         show version information

Run "depthclust fit -h" for fit flags.
`)
}

func main() {
	globals := flag.NewFlagSet("depthclust", flag.ExitOnError)
	globals.Usage = usage
	verbosityFlag := globals.Int("verbosity", 4, "1 = critical, 2 = error, 3 = warning, 4 = info, 5 = debug")
	logFile := globals.String("log", "", "output logging information to file")
	showVersion := globals.Bool("version", false, "show version information")
	globals.Parse(os.Args[1:])

	if *showVersion {
		fmt.Println(version)
		return
	}

	verbosity = *verbosityFlag
	log.SetFlags(log.LstdFlags)
	if *logFile != "" {
		if _, err := os.Stat(*logFile); err == nil {
			log.Fatalf("log file %s exists", *logFile)
		}
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("opening log file: %v", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	args := globals.Args()
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	switch args[0] {
	case "fit":
		runFit(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n\n", args[0])
		usage()
		os.Exit(1)
	}
}

func runFit(args []string) {
	fs := flag.NewFlagSet("fit", flag.ExitOnError)
	depths := fs.String("depths", "", ".npy file containing depths of variants for each sample (required)")
	nNeighbors := fs.Int("n_neighbors", 20, "number of neighbors considered in UMAP")
	minClusterSize := fs.Int("min_cluster_size", 5, "minimum cluster size for HDBSCAN")
	minSamples := fs.Int("min_samples", 1, "minimum samples for HDBSCAN")
	nComponents := fs.Int("n_components", 2, "dimensionality of the UMAP embedding")
	minDist := fs.Float64("min_dist", 0.1, "minimum distance between embedded points")
	scaler := fs.String("scaler", "minmax", "depth scaling policy: minmax, clr or none")
	method := fs.String("cluster_selection_method", "eom", "HDBSCAN cluster selection: eom or leaf")
	seed := fs.Int64("seed", 42, "random seed for the embedding")
	fs.Parse(args)

	if *depths == "" {
		fmt.Fprintln(os.Stderr, "fit: --depths is required")
		fs.Usage()
		os.Exit(1)
	}

	infof("command: %s", strings.Join(os.Args, " "))

	matrix, err := depthclust.LoadMatrix(*depths)
	if err != nil {
		log.Fatalf("loading depths: %v", err)
	}
	infof("loaded %d items x %d samples from %s", len(matrix), len(matrix[0]), *depths)

	cfg := depthclust.DefaultConfig()
	cfg.Scaler = depthclust.Scaler(*scaler)
	cfg.NNeighbors = *nNeighbors
	cfg.MinClusterSize = *minClusterSize
	cfg.MinSamples = *minSamples
	cfg.NComponents = *nComponents
	cfg.MinDist = *minDist
	cfg.SelectionMethod = *method
	cfg.Seed = *seed

	pipe, err := depthclust.New(cfg)
	if err != nil {
		log.Fatalf("configuring pipeline: %v", err)
	}

	res, err := pipe.Run(matrix)
	if err != nil {
		log.Fatalf("clustering failed: %v", err)
	}

	clusters := 0
	noise := 0
	for _, l := range res.Labels {
		if l < 0 {
			noise++
		} else if l+1 > clusters {
			clusters = l + 1
		}
	}
	infof("found %d clusters, %d noise points", clusters, noise)
	debugf("embedding dimensionality: %d", len(res.Embedding[0]))

	prefix := strings.TrimSuffix(*depths, ".npy")

	plotPath := prefix + "_UMAP_projection_with_clusters.png"
	if err := depthclust.RenderPlot(res.Embedding, res.Labels, res.Probabilities, plotPath); err != nil {
		log.Fatalf("rendering plot: %v", err)
	}
	infof("wrote %s", plotPath)

	labelsPath := prefix + "_labels.npy"
	if err := depthclust.ExportLabels(res.Labels, labelsPath); err != nil {
		log.Fatalf("exporting labels: %v", err)
	}
	infof("wrote %s", labelsPath)
}
