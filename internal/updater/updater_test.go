package updater

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/creativeprojects/go-selfupdate"
)

func TestUpdateInfoCarriesReleaseFields(t *testing.T) {
	published := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	release := selfupdate.Release{
		URL:          "https://example.com/releases/v1.2.0",
		ReleaseNotes: "fixes",
		PublishedAt:  published,
	}

	// Mirrors the assignment in CheckForUpdate; the field types must
	// stay compatible with the library's release struct.
	info := UpdateInfo{
		CurrentVersion:  "dev",
		LatestVersion:   "1.2.0",
		ReleaseNotes:    release.ReleaseNotes,
		ReleaseURL:      release.URL,
		PublishedAt:     release.PublishedAt,
		UpdateAvailable: true,
	}

	if !info.PublishedAt.Equal(published) {
		t.Errorf("PublishedAt = %v, want %v", info.PublishedAt, published)
	}

	data, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"published_at":"2026-03-14T09:30:00Z"`) {
		t.Errorf("published_at missing or malformed: %s", data)
	}
}

func TestCopyFilePreservesContentAndMode(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")
	if err := os.WriteFile(src, []byte("binary payload"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := copyFile(src, dst); err != nil {
		t.Fatalf("copyFile failed: %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "binary payload" {
		t.Errorf("content = %q", data)
	}

	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm()&0o100 == 0 {
		t.Errorf("mode = %o, want owner-executable", info.Mode().Perm())
	}
}

func TestCopyFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	if err := copyFile(filepath.Join(dir, "absent"), filepath.Join(dir, "out")); err == nil {
		t.Error("expected error for missing source")
	}
}
