package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Locate resolves the ffmpeg binary to invoke. An explicit path wins;
// otherwise PATH is searched.
func Locate(explicit string) (string, error) {
	if explicit != "" {
		path, err := exec.LookPath(explicit)
		if err != nil {
			return "", fmt.Errorf("ffmpeg not found at %q: %w", explicit, err)
		}
		return path, nil
	}
	path, err := exec.LookPath("ffmpeg")
	if err != nil {
		return "", fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}
	return path, nil
}

// Version returns the first line of `ffmpeg -version` output.
func Version(ctx context.Context, bin string) (string, error) {
	out, err := exec.CommandContext(ctx, bin, "-version").Output()
	if err != nil {
		return "", fmt.Errorf("probing ffmpeg version: %w", err)
	}
	line, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimSpace(line), nil
}

// BuildConcatArgs builds the argument list for a lossless concat run.
// The concat demuxer reads the input list, streams are copied without
// re-encoding, and timestamps are shifted to start at zero so players
// do not choke on edit-list offsets.
func BuildConcatArgs(listPath, outputPath string, extra []string) []string {
	args := []string{
		"-hide_banner",
		"-nostdin",
		"-loglevel", "level+info",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		"-avoid_negative_ts", "make_zero",
	}
	args = append(args, extra...)
	args = append(args, "-y", outputPath)
	return args
}
