package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/smazurov/movcat/internal/compat"
	"github.com/smazurov/movcat/internal/inputs"
	"github.com/smazurov/movcat/internal/logging"
	"github.com/smazurov/movcat/internal/mov"
	"github.com/smazurov/movcat/internal/report"
)

// Exit codes shared by the inspect and join commands. FFmpeg failures
// propagate the subprocess exit code instead.
const (
	exitInputError  = 2
	exitParseError  = 3
	exitPlanError   = 4
	exitFFmpegError = 5
)

// CreateInspectCmd creates the inspect command.
func CreateInspectCmd() *cobra.Command {
	var jsonOut bool
	var logLevel string

	cmd := &cobra.Command{
		Use:   "inspect <file-or-glob>...",
		Short: "Print metadata for QuickTime/MOV files",
		Long: `Parses each input file and prints brand, duration, and per-track ` +
			`metadata. With two or more files the report also includes ` +
			`compatibility findings against the first file. Arguments containing ` +
			`glob metacharacters are expanded.`,
		Args: cobra.MinimumNArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			logging.Initialize(logging.Config{Level: logLevel, Format: "text"})
			logger := logging.GetLogger("inspect")

			paths, err := inputs.Expand(args)
			if err != nil {
				logger.Error("Failed to resolve inputs", "error", err)
				os.Exit(exitInputError)
			}

			profiles := make([]*mov.FileProfile, 0, len(paths))
			for _, path := range paths {
				profile, extractErr := mov.Extract(path)
				if extractErr != nil {
					logger.Error("Failed to parse file", "path", path, "error", extractErr)
					os.Exit(exitParseError)
				}
				profiles = append(profiles, profile)
			}

			rep := &report.Report{Files: profiles}
			if len(profiles) >= 2 {
				rep.Findings = compat.Validate(profiles)
			}

			if jsonOut {
				err = report.WriteJSON(os.Stdout, rep)
			} else {
				err = report.WriteText(os.Stdout, rep)
			}
			if err != nil {
				logger.Error("Failed to write report", "error", err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the report as JSON")
	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "Logging level (debug, info, warn, error)")

	return cmd
}
