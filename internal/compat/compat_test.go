package compat

import (
	"testing"

	"github.com/smazurov/movcat/internal/mov"
)

func profile(path, brand string, compatible []string, timescale uint32, kinds ...mov.MediaKind) *mov.FileProfile {
	p := &mov.FileProfile{
		Path:             path,
		MajorBrand:       brand,
		CompatibleBrands: compatible,
		Timescale:        timescale,
		Duration:         uint64(timescale) * 10,
	}
	for i, k := range kinds {
		p.Tracks = append(p.Tracks, mov.TrackInfo{
			ID:        uint32(i + 1),
			Kind:      k,
			Timescale: timescale,
			Duration:  uint64(timescale) * 10,
		})
	}
	return p
}

func countCategory(findings []Finding, cat Category) int {
	n := 0
	for _, f := range findings {
		if f.Category == cat {
			n++
		}
	}
	return n
}

func TestValidateIdenticalProfiles(t *testing.T) {
	ref := profile("/a.mov", "qt  ", []string{"qt  "}, 600, mov.MediaVideo, mov.MediaAudio)
	clone := profile("/b.mov", "qt  ", []string{"qt  "}, 600, mov.MediaVideo, mov.MediaAudio)

	if findings := Validate([]*mov.FileProfile{ref, clone, clone}); len(findings) != 0 {
		t.Errorf("expected no findings for identical profiles, got %v", findings)
	}
}

func TestValidateFewerThanTwoProfiles(t *testing.T) {
	if findings := Validate(nil); findings != nil {
		t.Errorf("expected nil findings for empty input, got %v", findings)
	}
	one := profile("/a.mov", "qt  ", nil, 600, mov.MediaVideo)
	if findings := Validate([]*mov.FileProfile{one}); findings != nil {
		t.Errorf("expected nil findings for single profile, got %v", findings)
	}
}

func TestValidateBrandMismatch(t *testing.T) {
	ref := profile("/a.mov", "isom", nil, 600, mov.MediaVideo)
	other := profile("/b.mov", "qt  ", nil, 600, mov.MediaVideo)

	findings := Validate([]*mov.FileProfile{ref, other})
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1: %v", len(findings), findings)
	}
	f := findings[0]
	if f.Category != BrandMismatch || f.Severity != SeverityWarning {
		t.Errorf("finding = %+v, want brand_mismatch warning", f)
	}
	referencesB := false
	for _, p := range f.Paths {
		if p == "/b.mov" {
			referencesB = true
		}
	}
	if !referencesB {
		t.Errorf("finding paths %v do not reference /b.mov", f.Paths)
	}
}

func TestValidateCompatibleBrandSuppressesMismatch(t *testing.T) {
	cases := []struct {
		name       string
		ref, other *mov.FileProfile
	}{
		{
			"reference brand in other's compatible set",
			profile("/a.mov", "isom", nil, 600, mov.MediaVideo),
			profile("/b.mov", "qt  ", []string{"isom"}, 600, mov.MediaVideo),
		},
		{
			"other brand in reference's compatible set",
			profile("/a.mov", "isom", []string{"qt  "}, 600, mov.MediaVideo),
			profile("/b.mov", "qt  ", nil, 600, mov.MediaVideo),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			findings := Validate([]*mov.FileProfile{tc.ref, tc.other})
			if n := countCategory(findings, BrandMismatch); n != 0 {
				t.Errorf("got %d brand findings, want 0: %v", n, findings)
			}
		})
	}
}

func TestValidateTimescaleMismatchThirdFile(t *testing.T) {
	a := profile("/a.mov", "qt  ", nil, 600, mov.MediaVideo)
	b := profile("/b.mov", "qt  ", nil, 600, mov.MediaVideo)
	c := profile("/c.mov", "qt  ", nil, 1000, mov.MediaVideo)

	findings := Validate([]*mov.FileProfile{a, b, c})
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want exactly 1: %v", len(findings), findings)
	}
	f := findings[0]
	if f.Category != TimescaleMismatch {
		t.Errorf("category = %q, want timescale_mismatch", f.Category)
	}
	if countCategory(findings, BrandMismatch) != 0 {
		t.Errorf("unexpected brand findings: %v", findings)
	}
	referencesC := false
	for _, p := range f.Paths {
		if p == "/c.mov" {
			referencesC = true
		}
	}
	if !referencesC {
		t.Errorf("finding paths %v do not reference /c.mov", f.Paths)
	}
}

func TestValidateMissingTracksFlagsEveryProfile(t *testing.T) {
	// Reference has video only, second has audio only: the reference is
	// flagged for missing audio and the second for missing video.
	a := profile("/a.mov", "qt  ", nil, 600, mov.MediaVideo)
	b := profile("/b.mov", "qt  ", nil, 600, mov.MediaAudio)

	findings := Validate([]*mov.FileProfile{a, b})

	if n := countCategory(findings, MissingVideoTrack); n != 1 {
		t.Errorf("got %d missing-video findings, want 1: %v", n, findings)
	}
	if n := countCategory(findings, MissingAudioTrack); n != 1 {
		t.Errorf("got %d missing-audio findings, want 1: %v", n, findings)
	}
	for _, f := range findings {
		switch f.Category {
		case MissingVideoTrack:
			if len(f.Paths) != 1 || f.Paths[0] != "/b.mov" {
				t.Errorf("missing-video paths = %v, want [/b.mov]", f.Paths)
			}
		case MissingAudioTrack:
			if len(f.Paths) != 1 || f.Paths[0] != "/a.mov" {
				t.Errorf("missing-audio paths = %v, want [/a.mov]", f.Paths)
			}
		}
	}
}

func TestValidateNoMissingTrackWhenNobodyHasKind(t *testing.T) {
	a := profile("/a.mov", "qt  ", nil, 600, mov.MediaVideo)
	b := profile("/b.mov", "qt  ", nil, 600, mov.MediaVideo)

	findings := Validate([]*mov.FileProfile{a, b})
	if n := countCategory(findings, MissingAudioTrack); n != 0 {
		t.Errorf("got %d missing-audio findings with no audio anywhere, want 0", n)
	}
}

func TestValidateTrackCountMismatch(t *testing.T) {
	a := profile("/a.mov", "qt  ", nil, 600, mov.MediaVideo, mov.MediaAudio)
	b := profile("/b.mov", "qt  ", nil, 600, mov.MediaVideo)

	findings := Validate([]*mov.FileProfile{a, b})
	if n := countCategory(findings, TrackCountMismatch); n != 1 {
		t.Errorf("got %d track-count findings, want 1: %v", n, findings)
	}
}

func TestValidateDeterministicOrder(t *testing.T) {
	a := profile("/a.mov", "isom", nil, 600, mov.MediaVideo, mov.MediaAudio)
	b := profile("/b.mov", "qt  ", nil, 1000, mov.MediaVideo)
	c := profile("/c.mov", "qt  ", nil, 1000)

	first := Validate([]*mov.FileProfile{a, b, c})
	second := Validate([]*mov.FileProfile{a, b, c})

	if len(first) != len(second) {
		t.Fatalf("runs differ in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Category != second[i].Category || first[i].Message != second[i].Message {
			t.Errorf("finding %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}

	// Categories must appear in enumeration order.
	rank := map[Category]int{
		BrandMismatch:      0,
		TimescaleMismatch:  1,
		MissingVideoTrack:  2,
		MissingAudioTrack:  3,
		TrackCountMismatch: 4,
	}
	for i := 1; i < len(first); i++ {
		if rank[first[i].Category] < rank[first[i-1].Category] {
			t.Errorf("findings out of category order at %d: %v before %v",
				i, first[i-1].Category, first[i].Category)
		}
	}

	// No Error severity in the default policy.
	for _, f := range first {
		if f.Severity != SeverityWarning {
			t.Errorf("finding %+v has severity %q, want warning", f, f.Severity)
		}
	}
}
