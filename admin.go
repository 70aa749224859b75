package main

import (
	"context"
	"net/http"
)

// MapAdmin registers the admin endpoints of the manager.
func MapAdmin(app *http.ServeMux, manager *RoutingManager) {
	MapGet(app, "/admin/status", func(ctx context.Context, req StatusRequest) Result {
		g := manager.GetGraph()
		resp := StatusResponse{
			Generation:    manager.GetEngine().Generation(),
			NodeCount:     g.NodeCount(),
			EdgeCount:     g.EdgeCount(),
			ShortcutCount: g.ShortcutCount(),
			TrafficFile:   manager.config.Traffic.File,
		}
		if last := manager.LastUpdate(); last.HasValue() {
			resp.LastReload = &last.Value.Loaded
			resp.UpdatedEdges = last.Value.UpdatedEdges
		}
		if req.Verbose {
			options := manager.config.Engine
			resp.Engine = &options
		}
		return OK(resp)
	})
	MapPost(app, "/admin/reload", func(ctx context.Context, req ReloadRequest) Result {
		// only the configured file may be reloaded over http
		configured := manager.config.Traffic.File
		if req.File != "" && req.File != configured {
			return BadRequest("reload is limited to the configured traffic file")
		}
		update, err := manager.ReloadTraffic(ctx, configured)
		if err != nil {
			return InternalError(err.Error())
		}
		return OK(ReloadResponse{
			Generation:   update.Generation,
			UpdatedEdges: update.UpdatedEdges,
			SkippedRows:  update.SkippedRows,
		})
	})
}
