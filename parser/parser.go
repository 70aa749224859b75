package parser

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/ttpr0/ch-router/graph"
	"golang.org/x/exp/slog"
)

// ParseGraph reads the road network of a pbf file. Ways are split at every
// node so that the graph geometry is given by the node coordinates alone.
func ParseGraph(ctx context.Context, pbf_file string, decoder IOSMDecoder) (*graph.GraphBase, error) {
	file, err := os.Open(pbf_file)
	if err != nil {
		return nil, fmt.Errorf("failed to open osm file: %w", err)
	}
	defer file.Close()

	builder := NewGraphBuilder(decoder)
	passes := []struct {
		name    string
		handler func(osm.Object)
		nodes   bool
	}{
		{"collect ways", builder.CollectWay, false},
		{"nodes", builder.AddNode, true},
		{"ways", builder.AddWay, false},
	}
	for _, pass := range passes {
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		if err := _Scan(ctx, file, pass.nodes, pass.handler); err != nil {
			return nil, fmt.Errorf("failed to scan %v: %w", pass.name, err)
		}
		slog.Debug(fmt.Sprintf("finished pass %v", pass.name))
	}
	base := builder.Build()
	slog.Info(fmt.Sprintf("parsed %v: %v nodes, %v edges", pbf_file, base.NodeCount(), base.EdgeCount()))
	return base, nil
}

func _Scan(ctx context.Context, reader io.Reader, nodes bool, handler func(osm.Object)) error {
	scanner := osmpbf.New(ctx, reader, runtime.GOMAXPROCS(-1))
	defer scanner.Close()
	scanner.SkipNodes = !nodes
	scanner.SkipWays = nodes
	scanner.SkipRelations = true
	for scanner.Scan() {
		handler(scanner.Object())
	}
	return scanner.Err()
}

//*******************************************
// osm decoder
//*******************************************

type IOSMDecoder interface {
	IsValidHighway(tags osm.Tags) bool
	DecodeEdge(tags osm.Tags) EdgeAttribs
}
