package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ttpr0/ch-router/graph"
	"github.com/ttpr0/ch-router/parser"
	"github.com/ttpr0/ch-router/preproc"
	"golang.org/x/exp/slog"
)

// LoadOrBuildGraph loads the stored graph or builds it from the osm file if
// none exists or a rebuild is requested.
func LoadOrBuildGraph(ctx context.Context, options GraphOptions) (*graph.CHGraph, error) {
	if !options.Build && graph.Exists(options.Path) {
		g, err := graph.Load(options.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to load graph: %w", err)
		}
		return g, nil
	}
	if options.OSM == "" {
		return nil, errors.New("no stored graph at " + options.Path + " and no osm file configured")
	}
	return PrepareGraph(ctx, options)
}

// PrepareGraph parses the osm file, contracts the graph and stores it.
func PrepareGraph(ctx context.Context, options GraphOptions) (*graph.CHGraph, error) {
	base, err := parser.ParseGraph(ctx, options.OSM, &parser.DrivingDecoder{})
	if err != nil {
		return nil, err
	}
	g := CreateCH(base)

	if err := os.MkdirAll(filepath.Dir(options.Path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create graph directory: %w", err)
	}
	if err := graph.Store(g, options.Path); err != nil {
		return nil, fmt.Errorf("failed to store graph: %w", err)
	}
	return g, nil
}

func CreateCH(base *graph.GraphBase) *graph.CHGraph {
	weight := graph.BuildDefaultWeighting(base)
	start := time.Now()
	ch := preproc.CalcContraction(base, weight)
	slog.Info(fmt.Sprintf("contracted graph in %v: %v shortcuts", time.Since(start), ch.ShortcutCount()))
	return graph.BuildCHGraph(base, weight, ch)
}
