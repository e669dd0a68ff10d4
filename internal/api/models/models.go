// Package models defines request and response bodies for the HTTP API.
package models

import (
	"github.com/smazurov/movcat/internal/compat"
	"github.com/smazurov/movcat/internal/mov"
)

// Health check models
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Service status"`
	Message string `json:"message" example:"API is healthy" doc:"Status message"`
}

type HealthResponse struct {
	Body HealthData
}

// Version models
type VersionData struct {
	Version   string `json:"version" example:"1.2.0" doc:"Application version"`
	GitCommit string `json:"git_commit" example:"abc123" doc:"Git commit hash"`
	BuildDate string `json:"build_date" example:"2025-01-27T10:30:00Z" doc:"Build timestamp"`
	GoVersion string `json:"go_version" example:"go1.24.11" doc:"Go runtime version"`
	Platform  string `json:"platform" example:"linux/arm64" doc:"Target platform"`
}

type VersionResponse struct {
	Body VersionData
}

// Inspect models
type InspectRequestData struct {
	Paths []string `json:"paths" minItems:"1" doc:"Files or glob patterns to inspect"`
}

type InspectRequest struct {
	Body InspectRequestData
}

// FileResult pairs a path with its extracted profile or error.
type FileResult struct {
	Path    string           `json:"path" doc:"Inspected file path"`
	Profile *mov.FileProfile `json:"profile,omitempty" doc:"Extracted metadata, absent on error"`
	Error   string           `json:"error,omitempty" doc:"Extraction error message"`
	Code    string           `json:"code,omitempty" example:"MISSING_MOVIE_BOX" doc:"Extraction error code"`
}

type InspectData struct {
	Files    []FileResult     `json:"files" doc:"Per-file results in input order"`
	Findings []compat.Finding `json:"findings,omitempty" doc:"Cross-file compatibility findings"`
}

type InspectResponse struct {
	Body InspectData
}

// Plan models
type PlanRequestData struct {
	Paths  []string `json:"paths" minItems:"2" doc:"Input files in output order"`
	Output string   `json:"output" example:"/out/final.mov" doc:"Output file path"`
}

type PlanRequest struct {
	Body PlanRequestData
}

type PlanData struct {
	Inputs     []string `json:"inputs" doc:"Resolved absolute input paths in output order"`
	Output     string   `json:"output" doc:"Resolved absolute output path"`
	ConcatList string   `json:"concat_list" doc:"Rendered ffmpeg concat demuxer list"`
	FfmpegArgs []string `json:"ffmpeg_args" doc:"Arguments for the ffmpeg invocation"`
}

type PlanResponse struct {
	Body PlanData
}

// Join models
type JoinRequestData struct {
	Paths  []string `json:"paths" minItems:"2" doc:"Input files in output order"`
	Output string   `json:"output" example:"/out/final.mov" doc:"Output file path"`
}

type JoinRequest struct {
	Body JoinRequestData
}

type JoinData struct {
	Inputs          []string         `json:"inputs" doc:"Resolved absolute input paths in output order"`
	Output          string           `json:"output" doc:"Resolved absolute output path"`
	ExitCode        int              `json:"exit_code" example:"0" doc:"ffmpeg exit code"`
	DurationSeconds float64          `json:"duration_seconds" example:"2.4" doc:"Wall-clock join duration"`
	Findings        []compat.Finding `json:"findings,omitempty" doc:"Cross-file compatibility findings"`
}

type JoinResponse struct {
	Body JoinData
}

// Log models
type LogEntry struct {
	Timestamp  string         `json:"timestamp" example:"2025-01-27T10:30:00.123Z" doc:"Log timestamp"`
	Level      string         `json:"level" example:"info" doc:"Log level"`
	Module     string         `json:"module" example:"mov" doc:"Source module"`
	Message    string         `json:"message" doc:"Log message"`
	Attributes map[string]any `json:"attributes,omitempty" doc:"Structured log attributes"`
}

type LogsData struct {
	Entries []LogEntry `json:"entries" doc:"Buffered log entries, oldest first"`
	Count   int        `json:"count" example:"120" doc:"Number of entries returned"`
}

type LogsResponse struct {
	Body LogsData
}
