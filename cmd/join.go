package cmd

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/smazurov/movcat/internal/compat"
	"github.com/smazurov/movcat/internal/ffmpeg"
	"github.com/smazurov/movcat/internal/inputs"
	"github.com/smazurov/movcat/internal/joinplan"
	"github.com/smazurov/movcat/internal/logging"
	"github.com/smazurov/movcat/internal/mov"
	"github.com/smazurov/movcat/internal/process"
	"github.com/smazurov/movcat/internal/report"
)

const extractWorkers = 4

// CreateJoinCmd creates the join command.
func CreateJoinCmd() *cobra.Command {
	var output string
	var ffmpegPath string
	var extraArgs []string
	var jsonOut bool
	var logLevel string

	cmd := &cobra.Command{
		Use:   "join -o <output> <file-or-glob>...",
		Short: "Concatenate QuickTime/MOV files without re-encoding",
		Long: `Parses the inputs, validates them for compatibility against the ` +
			`first file, then runs ffmpeg's concat demuxer in stream-copy mode. ` +
			`Compatibility findings are warnings; the join proceeds regardless.`,
		Args: cobra.MinimumNArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			logging.Initialize(logging.Config{Level: logLevel, Format: "text"})
			logger := logging.GetLogger("join")

			paths, err := inputs.Expand(args)
			if err != nil {
				logger.Error("Failed to resolve inputs", "error", err)
				os.Exit(exitInputError)
			}

			profiles, err := extractAll(paths, logger)
			if err != nil {
				os.Exit(exitParseError)
			}

			findings := compat.Validate(profiles)
			rep := &report.Report{Files: profiles, Findings: findings}
			if jsonOut {
				err = report.WriteJSON(os.Stderr, rep)
			} else {
				err = report.WriteText(os.Stderr, rep)
			}
			if err != nil {
				logger.Warn("Failed to write report", "error", err)
			}

			manifest, err := joinplan.Plan(paths, output)
			if err != nil {
				logger.Error("Join plan rejected", "error", err)
				os.Exit(exitPlanError)
			}

			listFile, err := os.CreateTemp("", "movcat-concat-*.txt")
			if err != nil {
				logger.Error("Failed to create concat list", "error", err)
				os.Exit(1)
			}
			listPath := listFile.Name()
			defer os.Remove(listPath)
			if err = manifest.WriteConcatList(listFile); err != nil {
				listFile.Close()
				logger.Error("Failed to write concat list", "error", err)
				os.Exit(1)
			}
			listFile.Close()

			bin, err := ffmpeg.Locate(ffmpegPath)
			if err != nil {
				logger.Error("ffmpeg not found", "error", err)
				os.Exit(exitFFmpegError)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if ver, verErr := ffmpeg.Version(ctx, bin); verErr == nil {
				logger.Debug("Using ffmpeg", "binary", bin, "version", ver)
			}

			ffmpegArgs := ffmpeg.BuildConcatArgs(listPath, manifest.Output, extraArgs)
			proc := process.New(bin, ffmpegArgs, logger,
				process.WithLogParser(logging.GetLogger("ffmpeg"), ffmpeg.ParseLogLevel))

			started := time.Now()
			logger.Info("Starting join", "inputs", len(manifest.Inputs), "output", manifest.Output)
			code, runErr := proc.Run(ctx)
			if runErr != nil && code == 0 {
				code = 1
			}
			logger.Info("Join finished",
				"exit_code", code,
				"duration", time.Since(started).Round(time.Millisecond))
			os.Exit(code)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (required)")
	cmd.Flags().StringVar(&ffmpegPath, "ffmpeg", "", "Path to the ffmpeg binary (defaults to PATH lookup)")
	cmd.Flags().StringSliceVar(&extraArgs, "ffmpeg-args", nil, "Extra arguments passed to ffmpeg before the output path")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the pre-join report as JSON")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Logging level (debug, info, warn, error)")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

// extractAll parses the inputs with a bounded worker pool, keeping
// results in input order.
func extractAll(paths []string, logger logging.Logger) ([]*mov.FileProfile, error) {
	profiles := make([]*mov.FileProfile, len(paths))
	errs := make([]error, len(paths))

	sem := make(chan struct{}, extractWorkers)
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			profiles[i], errs[i] = mov.Extract(path)
		}(i, path)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			logger.Error("Failed to parse file", "path", paths[i], "error", err)
			return nil, err
		}
	}
	return profiles, nil
}
