package main

import (
	"time"
)

type ErrorResponse struct {
	Request string `json:"request"`
	Error   any    `json:"error"`
}

func NewErrorResponse(request string, error any) ErrorResponse {
	return ErrorResponse{
		Request: request,
		Error:   error,
	}
}

type StatusResponse struct {
	Generation    uint32         `json:"generation"`
	NodeCount     int            `json:"node_count"`
	EdgeCount     int            `json:"edge_count"`
	ShortcutCount int            `json:"shortcut_count"`
	TrafficFile   string         `json:"traffic_file,omitempty"`
	LastReload    *time.Time     `json:"last_reload,omitempty"`
	UpdatedEdges  int            `json:"updated_edges"`
	Engine        *EngineOptions `json:"engine,omitempty"`
}

type ReloadResponse struct {
	Generation   uint32 `json:"generation"`
	UpdatedEdges int    `json:"updated_edges"`
	SkippedRows  int    `json:"skipped_rows"`
}
