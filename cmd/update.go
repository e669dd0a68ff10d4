package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/smazurov/movcat/internal/logging"
	"github.com/smazurov/movcat/internal/updater"
	"github.com/smazurov/movcat/internal/version"
)

const updateRepository = "smazurov/movcat"

// CreateUpdateCmd creates the update command.
func CreateUpdateCmd() *cobra.Command {
	var checkOnly bool
	var prerelease bool
	var rollback bool

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update movcat to the latest release",
		Long: `Checks GitHub for a newer release and replaces the running binary. ` +
			`The previous binary is kept as a backup and can be restored with --rollback.`,
		Args: cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			logging.Initialize(logging.Config{Level: "warn", Format: "text"})

			u, err := updater.New(&updater.Options{
				Repository: updateRepository,
				Prerelease: prerelease,
			})
			if err != nil {
				fmt.Fprintf(os.Stderr, "update unavailable: %v\n", err)
				os.Exit(1)
			}
			if !u.IsEnabled() {
				fmt.Fprintf(os.Stderr, "update disabled: %s\n", u.DisabledReason())
				os.Exit(1)
			}

			if rollback {
				if err := u.Rollback(); err != nil {
					fmt.Fprintf(os.Stderr, "rollback failed: %v\n", err)
					os.Exit(1)
				}
				fmt.Println("previous version restored")
				return
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()

			info, err := u.CheckForUpdate(ctx)
			if err != nil {
				fmt.Fprintf(os.Stderr, "update check failed: %v\n", err)
				os.Exit(1)
			}
			if !info.UpdateAvailable {
				fmt.Printf("movcat %s is up to date\n", version.String())
				return
			}

			fmt.Printf("update available: %s -> %s\n", info.CurrentVersion, info.LatestVersion)
			if checkOnly {
				return
			}

			if err := u.ApplyUpdate(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "update failed: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("updated to %s\n", info.LatestVersion)
		},
	}

	cmd.Flags().BoolVar(&checkOnly, "check", false, "Only check for a newer release")
	cmd.Flags().BoolVar(&prerelease, "prerelease", false, "Include prerelease versions")
	cmd.Flags().BoolVar(&rollback, "rollback", false, "Restore the backed-up previous version")

	return cmd
}
