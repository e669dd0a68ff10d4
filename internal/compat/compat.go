// Package compat compares a set of file profiles for lossless
// concatenation and reports advisory findings. Nothing here blocks a
// join: every default-policy finding is a warning, and the hard
// preconditions live in the join planner.
package compat

import (
	"fmt"

	"github.com/smazurov/movcat/internal/mov"
)

// Severity of a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Category identifies the kind of incompatibility detected.
type Category string

const (
	BrandMismatch      Category = "brand_mismatch"
	TimescaleMismatch  Category = "timescale_mismatch"
	MissingVideoTrack  Category = "missing_video_track"
	MissingAudioTrack  Category = "missing_audio_track"
	TrackCountMismatch Category = "track_count_mismatch"
)

// categoryOrder fixes the enumeration order of emitted findings.
var categoryOrder = []Category{
	BrandMismatch,
	TimescaleMismatch,
	MissingVideoTrack,
	MissingAudioTrack,
	TrackCountMismatch,
}

// Finding is one detected incompatibility. Findings are produced fresh
// per validation run and never persisted.
type Finding struct {
	Severity Severity `json:"severity"`
	Category Category `json:"category"`
	Message  string   `json:"message"`
	Paths    []string `json:"paths"`
}

// Validate compares every profile after the first against the first.
// The first profile is the reference: concatenation order is caller
// supplied, so the first file's parameters define the target format.
// (An N-way majority comparison was considered and rejected; findings
// would then depend on inputs the caller may not control.)
//
// Output is deterministic: findings are grouped by category in
// enumeration order, then by profile index. Fewer than two profiles
// yield no findings.
func Validate(profiles []*mov.FileProfile) []Finding {
	if len(profiles) < 2 {
		return nil
	}

	var findings []Finding
	for _, cat := range categoryOrder {
		findings = append(findings, checkCategory(cat, profiles)...)
	}
	return findings
}

func checkCategory(cat Category, profiles []*mov.FileProfile) []Finding {
	ref := profiles[0]
	var out []Finding

	switch cat {
	case BrandMismatch:
		for _, p := range profiles[1:] {
			if p.MajorBrand == ref.MajorBrand {
				continue
			}
			// A brand listed as compatible in either direction is fine.
			if p.HasCompatibleBrand(ref.MajorBrand) || ref.HasCompatibleBrand(p.MajorBrand) {
				continue
			}
			out = append(out, warning(cat,
				fmt.Sprintf("major brand %q differs from reference brand %q", p.MajorBrand, ref.MajorBrand),
				ref.Path, p.Path))
		}

	case TimescaleMismatch:
		for _, p := range profiles[1:] {
			if p.Timescale != ref.Timescale {
				out = append(out, warning(cat,
					fmt.Sprintf("movie timescale %d differs from reference timescale %d; the concat engine may report inconsistent durations", p.Timescale, ref.Timescale),
					ref.Path, p.Path))
			}
		}

	case MissingVideoTrack:
		out = missingKindFindings(cat, mov.MediaVideo, profiles)

	case MissingAudioTrack:
		out = missingKindFindings(cat, mov.MediaAudio, profiles)

	case TrackCountMismatch:
		for _, p := range profiles[1:] {
			if p.TrackCount() != ref.TrackCount() {
				out = append(out, warning(cat,
					fmt.Sprintf("%d tracks differ from reference's %d tracks", p.TrackCount(), ref.TrackCount()),
					ref.Path, p.Path))
			}
		}
	}
	return out
}

// missingKindFindings flags every profile, the reference included, that
// has no track of the given kind while some other profile in the set
// does.
func missingKindFindings(cat Category, kind mov.MediaKind, profiles []*mov.FileProfile) []Finding {
	anyHas := false
	for _, p := range profiles {
		if p.CountKind(kind) > 0 {
			anyHas = true
			break
		}
	}
	if !anyHas {
		return nil
	}

	var out []Finding
	for _, p := range profiles {
		if p.CountKind(kind) == 0 {
			out = append(out, warning(cat,
				fmt.Sprintf("no %s track while other inputs have one", kind),
				p.Path))
		}
	}
	return out
}

func warning(cat Category, msg string, paths ...string) Finding {
	return Finding{
		Severity: SeverityWarning,
		Category: cat,
		Message:  msg,
		Paths:    paths,
	}
}
