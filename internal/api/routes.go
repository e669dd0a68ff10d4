package api

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/smazurov/movcat/internal/api/models"
	"github.com/smazurov/movcat/internal/compat"
	"github.com/smazurov/movcat/internal/events"
	"github.com/smazurov/movcat/internal/ffmpeg"
	"github.com/smazurov/movcat/internal/inputs"
	"github.com/smazurov/movcat/internal/joinplan"
	"github.com/smazurov/movcat/internal/logging"
	"github.com/smazurov/movcat/internal/mov"
	"github.com/smazurov/movcat/internal/process"
	"github.com/smazurov/movcat/internal/version"
)

// registerRoutes sets up all API endpoints.
func (s *Server) registerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/api/health",
		Summary:     "Health",
		Description: "Check API health status",
		Tags:        []string{"system"},
		Security:    []map[string][]string{},
	}, func(_ context.Context, _ *struct{}) (*models.HealthResponse, error) {
		return &models.HealthResponse{
			Body: models.HealthData{
				Status:  "ok",
				Message: "API is healthy",
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-version",
		Method:      http.MethodGet,
		Path:        "/api/version",
		Summary:     "Version",
		Description: "Get application version information",
		Tags:        []string{"system"},
		Security:    []map[string][]string{},
	}, func(_ context.Context, _ *struct{}) (*models.VersionResponse, error) {
		info := version.Get()
		return &models.VersionResponse{
			Body: models.VersionData{
				Version:   info.Version,
				GitCommit: info.GitCommit,
				BuildDate: info.BuildDate,
				GoVersion: info.GoVersion,
				Platform:  info.Platform,
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "inspect-files",
		Method:      http.MethodPost,
		Path:        "/api/inspect",
		Summary:     "Inspect",
		Description: "Extract metadata from MOV files and validate cross-file compatibility",
		Tags:        []string{"inspect"},
		Security:    withAuth(),
		Errors:      []int{400, 401},
	}, s.handleInspect)

	huma.Register(s.api, huma.Operation{
		OperationID: "plan-join",
		Method:      http.MethodPost,
		Path:        "/api/plan",
		Summary:     "Plan",
		Description: "Build a join plan: resolved inputs, concat list, and ffmpeg arguments",
		Tags:        []string{"join"},
		Security:    withAuth(),
		Errors:      []int{400, 401, 409},
	}, s.handlePlan)

	huma.Register(s.api, huma.Operation{
		OperationID: "run-join",
		Method:      http.MethodPost,
		Path:        "/api/join",
		Summary:     "Join",
		Description: "Run a lossless join through ffmpeg's concat demuxer",
		Tags:        []string{"join"},
		Security:    withAuth(),
		Errors:      []int{400, 401, 409, 500},
	}, s.handleJoin)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-logs",
		Method:      http.MethodGet,
		Path:        "/api/logs",
		Summary:     "Logs",
		Description: "Return buffered log entries, oldest first",
		Tags:        []string{"logs"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(_ context.Context, _ *struct{}) (*models.LogsResponse, error) {
		var entries []models.LogEntry
		if buffer := logging.GetBuffer(); buffer != nil {
			for _, e := range buffer.ReadAll() {
				entries = append(entries, models.LogEntry{
					Timestamp:  e.Timestamp.Format(time.RFC3339Nano),
					Level:      e.Level,
					Module:     e.Module,
					Message:    e.Message,
					Attributes: e.Attributes,
				})
			}
		}
		return &models.LogsResponse{
			Body: models.LogsData{Entries: entries, Count: len(entries)},
		}, nil
	})

	s.registerEventRoutes()
}

func (s *Server) handleInspect(_ context.Context, input *models.InspectRequest) (*models.InspectResponse, error) {
	paths, err := inputs.Expand(input.Body.Paths)
	if err != nil {
		return nil, huma.Error400BadRequest("invalid inputs", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	results := make([]models.FileResult, 0, len(paths))
	profiles := make([]*mov.FileProfile, 0, len(paths))

	for _, path := range paths {
		profile, extractErr := mov.Extract(path)
		result := models.FileResult{Path: path}
		code := ""
		if extractErr != nil {
			result.Error = extractErr.Error()
			var movErr *mov.Error
			if errors.As(extractErr, &movErr) {
				code = movErr.Code
				result.Code = code
			}
		} else {
			result.Profile = profile
			profiles = append(profiles, profile)
		}
		results = append(results, result)

		s.publish(events.InspectDoneEvent{Path: path, ErrorCode: code, Timestamp: now})
	}

	findings := compat.Validate(profiles)
	for _, f := range findings {
		s.publish(events.FindingEvent{
			Severity:  string(f.Severity),
			Category:  string(f.Category),
			Message:   f.Message,
			Paths:     f.Paths,
			Timestamp: now,
		})
	}

	return &models.InspectResponse{
		Body: models.InspectData{Files: results, Findings: findings},
	}, nil
}

func (s *Server) handlePlan(_ context.Context, input *models.PlanRequest) (*models.PlanResponse, error) {
	manifest, err := joinplan.Plan(input.Body.Paths, input.Body.Output)
	if err != nil {
		var planErr *joinplan.Error
		if errors.As(err, &planErr) && planErr.Code == joinplan.ErrCodeOutputCollision {
			return nil, huma.Error409Conflict("output collides with an input", err)
		}
		return nil, huma.Error400BadRequest("invalid join request", err)
	}

	// The list path is a placeholder; callers substitute their own temp
	// file when they actually run ffmpeg.
	args := ffmpeg.BuildConcatArgs("concat.txt", manifest.Output, s.options.FfmpegExtraArgs)

	return &models.PlanResponse{
		Body: models.PlanData{
			Inputs:     manifest.Inputs,
			Output:     manifest.Output,
			ConcatList: manifest.ConcatList(),
			FfmpegArgs: args,
		},
	}, nil
}

func (s *Server) handleJoin(ctx context.Context, input *models.JoinRequest) (*models.JoinResponse, error) {
	paths, err := inputs.Expand(input.Body.Paths)
	if err != nil {
		return nil, huma.Error400BadRequest("invalid inputs", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	profiles := make([]*mov.FileProfile, 0, len(paths))
	for _, path := range paths {
		profile, extractErr := mov.Extract(path)
		if extractErr != nil {
			return nil, huma.Error400BadRequest("cannot parse "+path, extractErr)
		}
		profiles = append(profiles, profile)
	}

	findings := compat.Validate(profiles)
	for _, f := range findings {
		s.publish(events.FindingEvent{
			Severity:  string(f.Severity),
			Category:  string(f.Category),
			Message:   f.Message,
			Paths:     f.Paths,
			Timestamp: now,
		})
	}

	manifest, err := joinplan.Plan(paths, input.Body.Output)
	if err != nil {
		var planErr *joinplan.Error
		if errors.As(err, &planErr) && planErr.Code == joinplan.ErrCodeOutputCollision {
			return nil, huma.Error409Conflict("output collides with an input", err)
		}
		return nil, huma.Error400BadRequest("invalid join request", err)
	}

	bin, err := ffmpeg.Locate(s.options.FfmpegPath)
	if err != nil {
		return nil, huma.Error500InternalServerError("ffmpeg not available", err)
	}

	listFile, err := os.CreateTemp("", "movcat-concat-*.txt")
	if err != nil {
		return nil, huma.Error500InternalServerError("cannot create concat list", err)
	}
	listPath := listFile.Name()
	defer os.Remove(listPath)
	if err = manifest.WriteConcatList(listFile); err != nil {
		listFile.Close()
		return nil, huma.Error500InternalServerError("cannot write concat list", err)
	}
	listFile.Close()

	s.publish(events.JoinStartedEvent{
		Inputs:    manifest.Inputs,
		Output:    manifest.Output,
		Timestamp: now,
	})

	proc := process.New(bin, ffmpeg.BuildConcatArgs(listPath, manifest.Output, s.options.FfmpegExtraArgs), s.logger,
		process.WithLogParser(logging.GetLogger("ffmpeg"), ffmpeg.ParseLogLevel))

	started := time.Now()
	code, _ := proc.Run(ctx)
	duration := time.Since(started).Seconds()

	s.publish(events.JoinFinishedEvent{
		Output:          manifest.Output,
		ExitCode:        code,
		DurationSeconds: duration,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
	})

	return &models.JoinResponse{
		Body: models.JoinData{
			Inputs:          manifest.Inputs,
			Output:          manifest.Output,
			ExitCode:        code,
			DurationSeconds: duration,
			Findings:        findings,
		},
	}, nil
}

func (s *Server) publish(ev events.Event) {
	if s.eventBus != nil {
		s.eventBus.Publish(ev)
	}
}
