// Package updater replaces the running binary with the latest GitHub
// release, keeping a backup of the previous version for rollback.
package updater

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/creativeprojects/go-selfupdate"

	"github.com/smazurov/movcat/internal/logging"
	"github.com/smazurov/movcat/internal/version"
)

// Options configures the updater.
type Options struct {
	Repository string // e.g. "smazurov/movcat"
	Prerelease bool
}

// UpdateInfo describes the latest release relative to the running
// version.
type UpdateInfo struct {
	CurrentVersion  string    `json:"current_version"`
	LatestVersion   string    `json:"latest_version"`
	ReleaseNotes    string    `json:"release_notes,omitempty"`
	ReleaseURL      string    `json:"release_url,omitempty"`
	PublishedAt     time.Time `json:"published_at"`
	UpdateAvailable bool      `json:"update_available"`
}

// Updater checks for and applies self-updates.
type Updater struct {
	repository selfupdate.Repository
	updater    *selfupdate.Updater
	backup     *backupManager

	enabled        bool
	disabledReason string

	latestRelease *selfupdate.Release
	logger        *slog.Logger
}

// New creates an updater. When the binary's directory is not writable
// the updater comes back disabled rather than failing.
func New(opts *Options) (*Updater, error) {
	logger := logging.GetLogger("updater")

	if ok, reason := checkWritePermission(); !ok {
		logger.Warn("Self-update disabled", "reason", reason)
		return &Updater{disabledReason: reason, logger: logger}, nil
	}

	source, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{})
	if err != nil {
		return nil, fmt.Errorf("creating GitHub source: %w", err)
	}

	u, err := selfupdate.NewUpdater(selfupdate.Config{
		Source:     source,
		Prerelease: opts.Prerelease,
	})
	if err != nil {
		return nil, fmt.Errorf("creating updater: %w", err)
	}

	backup, err := newBackupManager(logger)
	if err != nil {
		logger.Warn("Backup manager unavailable", "error", err)
	}

	return &Updater{
		repository: selfupdate.ParseSlug(opts.Repository),
		updater:    u,
		backup:     backup,
		enabled:    true,
		logger:     logger,
	}, nil
}

func checkWritePermission() (bool, string) {
	exe, err := os.Executable()
	if err != nil {
		return false, fmt.Sprintf("failed to get executable path: %v", err)
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return false, fmt.Sprintf("failed to resolve symlinks: %v", err)
	}

	dir := filepath.Dir(exe)
	tmp := filepath.Join(dir, ".movcat.update.test")
	f, err := os.Create(tmp)
	if err != nil {
		return false, fmt.Sprintf("no write permission to %s: %v", dir, err)
	}
	f.Close()
	os.Remove(tmp)
	return true, ""
}

// IsEnabled reports whether self-update is operational.
func (u *Updater) IsEnabled() bool {
	return u.enabled
}

// DisabledReason returns why self-update is disabled, empty when
// enabled.
func (u *Updater) DisabledReason() string {
	return u.disabledReason
}

// CheckForUpdate queries GitHub for the latest release and compares it
// against the running version, without downloading anything.
func (u *Updater) CheckForUpdate(ctx context.Context) (*UpdateInfo, error) {
	if !u.enabled {
		return nil, newError(ErrCodeDisabled, u.disabledReason, nil)
	}

	current := version.Version

	release, found, err := u.updater.DetectLatest(ctx, u.repository)
	if err != nil {
		return nil, newError(ErrCodeCheckFailed, "failed to check for updates", err)
	}
	if !found {
		return nil, newError(ErrCodeNotFound, "repository not found or has no releases", nil)
	}

	// A dev build is always considered outdated.
	isNewer := current == "dev" || release.GreaterThan(current)
	if !isNewer {
		return &UpdateInfo{
			CurrentVersion:  current,
			LatestVersion:   release.Version(),
			UpdateAvailable: false,
		}, nil
	}

	u.latestRelease = release
	return &UpdateInfo{
		CurrentVersion:  current,
		LatestVersion:   release.Version(),
		ReleaseNotes:    release.ReleaseNotes,
		ReleaseURL:      release.URL,
		PublishedAt:     release.PublishedAt,
		UpdateAvailable: true,
	}, nil
}

// ApplyUpdate downloads the detected release and replaces the running
// binary, backing up the current one first. On failure the backup is
// restored.
func (u *Updater) ApplyUpdate(ctx context.Context) error {
	if !u.enabled {
		return newError(ErrCodeDisabled, u.disabledReason, nil)
	}

	if u.latestRelease == nil {
		info, err := u.CheckForUpdate(ctx)
		if err != nil {
			return err
		}
		if !info.UpdateAvailable {
			return newError(ErrCodeNoUpdate, "already running the latest version", nil)
		}
	}

	if u.backup != nil {
		if err := u.backup.createBackup(); err != nil {
			return newError(ErrCodeBackupFailed, "failed to back up current binary", err)
		}
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return newError(ErrCodeApplyFailed, "failed to get executable path", err)
	}

	if err := u.updater.UpdateTo(ctx, u.latestRelease, exe); err != nil {
		u.attemptRollback()
		return newError(ErrCodeApplyFailed, "failed to apply update", err)
	}

	u.logger.Info("Update applied", "version", u.latestRelease.Version())
	return nil
}

// Rollback restores the previously backed up binary.
func (u *Updater) Rollback() error {
	if u.backup == nil || !u.backup.hasBackup() {
		return newError(ErrCodeBackupFailed, "no backup available for rollback", nil)
	}
	return u.backup.restore()
}

func (u *Updater) attemptRollback() {
	if u.backup == nil || !u.backup.hasBackup() {
		u.logger.Error("No backup available for automatic rollback")
		return
	}
	if err := u.backup.restore(); err != nil {
		u.logger.Error("Failed to restore backup", "error", err)
		return
	}
	u.logger.Info("Automatic rollback completed")
}
