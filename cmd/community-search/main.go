package main

import (
	"cmp"
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dd0wney/cluso-communities/pkg/algorithms"
	"github.com/dd0wney/cluso-communities/pkg/bipartite"
	"github.com/dd0wney/cluso-communities/pkg/config"
	"github.com/dd0wney/cluso-communities/pkg/edgelist"
	"github.com/dd0wney/cluso-communities/pkg/logging"
	"github.com/dd0wney/cluso-communities/pkg/metrics"
	"github.com/dd0wney/cluso-communities/pkg/search"
)

func main() {
	var (
		configFile = flag.String("config", "search.yaml", "Run configuration file")
		metricsOut = flag.String("metrics-out", "", "Write Prometheus metrics to this file when done")
		labelsOut  = flag.String("labels-out", "", "Write the edge list labelled with the best partition to this CSV file (requires search.seed so the partition is reproduced exactly)")
		describe   = flag.Bool("describe", false, "Print a summary of the unfiltered graph before searching")
	)
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := checkLabelsOut(cfg, *labelsOut); err != nil {
		log.Fatalf("Invalid flags: %v", err)
	}

	logger := logging.NewJSONLogger(os.Stderr, cfg.LogLevel())
	logging.SetDefaultLogger(logger)
	reg := metrics.DefaultRegistry()

	edges, err := edgelist.ReadFile(cfg.Input.Path, edgelist.Options{
		SideAColumn: cfg.Input.SideAColumn,
		SideBColumn: cfg.Input.SideBColumn,
		HasHeader:   cfg.Header(),
		Logger:      logger,
	})
	if err != nil {
		log.Fatalf("Failed to read edge list: %v", err)
	}

	fmt.Printf("Community search\n")
	fmt.Printf("================\n\n")
	fmt.Printf("Configuration:\n")
	fmt.Printf("  Input: %s (%d edges)\n", cfg.Input.Path, len(edges))
	fmt.Printf("  Sides: %s / %s\n", cfg.Input.SideAColumn, cfg.Input.SideBColumn)
	fmt.Printf("  Thresholds (min %s degree): %v\n", cfg.Input.SideBColumn, cfg.Search.Thresholds)
	fmt.Printf("  Resolutions: %v\n", cfg.Search.Resolutions)
	fmt.Printf("  Workers: %d\n\n", cfg.Search.Workers)

	if *describe {
		printSummary(cfg, edges, logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := cfg.SearchOptions(logger, reg)
	start := time.Now()
	result, err := search.Search(ctx, edges, opts)
	if err != nil {
		log.Fatalf("Search failed: %v", err)
	}
	duration := time.Since(start)

	fmt.Printf("Modularity by grid point:\n")
	fmt.Printf("  %10s  %10s  %10s\n", "threshold", "resolution", "modularity")
	for _, p := range result.Points() {
		fmt.Printf("  %10d  %10g  %10.6f\n", p.Threshold, p.Resolution, result[p])
	}

	best, q, ok := result.Best()
	if ok {
		fmt.Printf("\nBest: threshold %d, resolution %g (modularity %.6f)\n", best.Threshold, best.Resolution, q)
	}
	fmt.Printf("Completed %d grid points in %v\n", len(result), duration)

	if ok && *labelsOut != "" {
		partition, err := writeLabels(*labelsOut, edges, opts, best, logger)
		if err != nil {
			log.Fatalf("Failed to write labels: %v", err)
		}
		fmt.Printf("Labelled edges written to %s\n", *labelsOut)
		fmt.Printf("Largest %s communities:\n", cfg.Input.SideBColumn)
		for _, c := range largestCommunities(partition, 5) {
			fmt.Printf("  #%d: %d members, e.g. %v\n", c.ID, c.Size, c.Nodes[:min(3, len(c.Nodes))])
		}
	}

	if *metricsOut != "" {
		if err := prometheus.WriteToTextfile(*metricsOut, reg.GetPrometheusRegistry()); err != nil {
			log.Fatalf("Failed to write metrics: %v", err)
		}
	}
}

func printSummary(cfg *config.Config, edges []bipartite.Edge, logger logging.Logger) {
	g, err := bipartite.Build(edges, bipartite.Options{
		SideAKey: cfg.Input.SideAColumn,
		SideBKey: cfg.Input.SideBColumn,
		Logger:   logger,
	})
	if err != nil {
		log.Fatalf("Failed to build graph: %v", err)
	}
	s, err := g.Describe()
	if err != nil {
		log.Fatalf("Graph check failed: %v", err)
	}

	fmt.Printf("Graph summary:\n")
	fmt.Printf("  Interactions: %d\n", s.Interactions)
	fmt.Printf("  Unique %s: %d (avg degree %.2f)\n", s.SideAKey, s.SideANodes, s.AvgSideADegree)
	fmt.Printf("  Unique %s: %d (avg degree %.2f)\n", s.SideBKey, s.SideBNodes, s.AvgSideBDegree)
	fmt.Printf("  Unique edges: %d (avg weight %.2f)\n", s.Edges, s.AvgEdgeWeight)
	fmt.Printf("  Heaviest edges:\n")
	for _, e := range heaviestEdges(g.WeightedEdges(), 5) {
		fmt.Printf("    %s - %s (weight %d)\n", e.A, e.B, e.Weight)
	}
	fmt.Printf("\n")
}

// checkLabelsOut rejects -labels-out without a seed. The labels come from
// a rebuilt graph, and only a seeded run reproduces the partition whose
// modularity was reported.
func checkLabelsOut(cfg *config.Config, labelsOut string) error {
	if labelsOut != "" && cfg.Search.Seed == nil {
		return errors.New("-labels-out requires search.seed in the config")
	}
	return nil
}

// heaviestEdges returns the n edges of greatest weight, ties kept in
// order of first appearance
func heaviestEdges(edges []bipartite.WeightedEdge, n int) []bipartite.WeightedEdge {
	sorted := slices.Clone(edges)
	slices.SortStableFunc(sorted, func(a, b bipartite.WeightedEdge) int {
		return cmp.Compare(b.Weight, a.Weight)
	})
	return sorted[:min(n, len(sorted))]
}

// largestCommunities returns the n largest communities, ties by id
func largestCommunities(p algorithms.Partition, n int) []*algorithms.Community {
	communities := p.Communities()
	slices.SortStableFunc(communities, func(a, b *algorithms.Community) int {
		return cmp.Compare(b.Size, a.Size)
	})
	return communities[:min(n, len(communities))]
}

// writeLabels rebuilds the best grid point's graph and writes its edges
// tagged with the side B community. It returns the partition it used.
func writeLabels(path string, edges []bipartite.Edge, opts search.Options, best search.Point, logger logging.Logger) (algorithms.Partition, error) {
	g, err := bipartite.Build(edges, bipartite.Options{
		SideAKey:       opts.SideAKey,
		SideBKey:       opts.SideBKey,
		MinSideBDegree: best.Threshold,
		Seed:           opts.Seed,
		Logger:         logging.WithLevel(logger, opts.ComponentLevel),
	})
	if err != nil {
		return nil, err
	}
	partition, err := g.PartitionOf(bipartite.SideB, best.Resolution)
	if err != nil {
		return nil, err
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{opts.SideAKey, opts.SideBKey, "community"}); err != nil {
		return nil, err
	}
	for _, e := range bipartite.LabelEdges(g.Edges(), bipartite.SideB, partition) {
		if err := writer.Write([]string{e.A, e.B, strconv.Itoa(e.Community)}); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return partition, file.Close()
}
