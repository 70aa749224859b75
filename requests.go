package main

type StatusRequest struct {
	// include engine options in the response
	Verbose bool `json:"verbose"`
}

type ReloadRequest struct {
	// optional, must name the configured traffic file
	File string `json:"file"`
}
