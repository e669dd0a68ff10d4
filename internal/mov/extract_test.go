package mov

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeMovie(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.mov")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestExtractSimpleMovie(t *testing.T) {
	path := writeMovie(t, simpleMovie())

	profile, err := Extract(path)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if profile.Path != path {
		t.Errorf("Path = %q, want %q", profile.Path, path)
	}
	if profile.MajorBrand != "qt  " {
		t.Errorf("MajorBrand = %q, want %q", profile.MajorBrand, "qt  ")
	}
	if !reflect.DeepEqual(profile.CompatibleBrands, []string{"qt  "}) {
		t.Errorf("CompatibleBrands = %v, want [qt  ]", profile.CompatibleBrands)
	}
	if profile.Timescale != 600 || profile.Duration != 1800 {
		t.Errorf("timescale/duration = %d/%d, want 600/1800", profile.Timescale, profile.Duration)
	}
	if got := profile.DurationSeconds(); got != 3.0 {
		t.Errorf("DurationSeconds = %v, want 3.0", got)
	}

	if profile.TrackCount() != 2 {
		t.Fatalf("TrackCount = %d, want 2", profile.TrackCount())
	}
	video, audio := profile.Tracks[0], profile.Tracks[1]
	if video.ID != 1 || video.Kind != MediaVideo || video.Timescale != 600 {
		t.Errorf("track 0 = %+v, want video track 1 @600", video)
	}
	if audio.ID != 2 || audio.Kind != MediaAudio || audio.Timescale != 48000 {
		t.Errorf("track 1 = %+v, want audio track 2 @48000", audio)
	}
	if profile.CountKind(MediaVideo) != 1 || profile.CountKind(MediaAudio) != 1 {
		t.Errorf("kind counts = %d video, %d audio, want 1/1",
			profile.CountKind(MediaVideo), profile.CountKind(MediaAudio))
	}
}

func TestExtractIsIdempotent(t *testing.T) {
	path := writeMovie(t, simpleMovie())

	first, err := Extract(path)
	if err != nil {
		t.Fatalf("first Extract failed: %v", err)
	}
	second, err := Extract(path)
	if err != nil {
		t.Fatalf("second Extract failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("profiles differ between runs:\n%+v\n%+v", first, second)
	}
}

func TestExtractVersion1Headers(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(ftypBox("isom", "isom", "qt  "))
	mdia := makeBox("mdia", hdlrBox("vide"), mdhdV1(90000, 4500000))
	trak := makeBox("trak", tkhdV1(7), mdia)
	buf.Write(makeBox("moov", mvhdV1(1000, 90000), trak))

	profile, err := ExtractReaderAt(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if profile.Timescale != 1000 || profile.Duration != 90000 {
		t.Errorf("movie timescale/duration = %d/%d, want 1000/90000", profile.Timescale, profile.Duration)
	}
	if len(profile.Tracks) != 1 {
		t.Fatalf("got %d tracks, want 1", len(profile.Tracks))
	}
	track := profile.Tracks[0]
	if track.ID != 7 {
		t.Errorf("track ID = %d, want 7", track.ID)
	}
	if track.Timescale != 90000 || track.Duration != 4500000 {
		t.Errorf("track timescale/duration = %d/%d, want 90000/4500000", track.Timescale, track.Duration)
	}
	if got := track.DurationSeconds(); got != 50.0 {
		t.Errorf("track DurationSeconds = %v, want 50.0", got)
	}
}

func TestExtractMediaKinds(t *testing.T) {
	cases := []struct {
		handler string
		want    MediaKind
	}{
		{"vide", MediaVideo},
		{"soun", MediaAudio},
		{"text", MediaSubtitle},
		{"sbtl", MediaSubtitle},
		{"tmcd", MediaOther},
	}
	for _, tc := range cases {
		t.Run(tc.handler, func(t *testing.T) {
			var buf bytes.Buffer
			buf.Write(ftypBox("qt  "))
			buf.Write(makeBox("moov", mvhdV0(600, 600), trakBox(1, tc.handler, 600, 600)))

			profile, err := ExtractReaderAt(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
			if err != nil {
				t.Fatalf("Extract failed: %v", err)
			}
			if got := profile.Tracks[0].Kind; got != tc.want {
				t.Errorf("kind = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestExtractFailureCodes(t *testing.T) {
	noMvhd := func() []byte {
		var buf bytes.Buffer
		buf.Write(ftypBox("qt  "))
		buf.Write(makeBox("moov", trakBox(1, "vide", 600, 600)))
		return buf.Bytes()
	}
	zeroTimescale := func() []byte {
		var buf bytes.Buffer
		buf.Write(ftypBox("qt  "))
		buf.Write(makeBox("moov", mvhdV0(0, 600)))
		return buf.Bytes()
	}
	zeroTrackTimescale := func() []byte {
		var buf bytes.Buffer
		buf.Write(ftypBox("qt  "))
		buf.Write(makeBox("moov", mvhdV0(600, 600), trakBox(1, "vide", 0, 600)))
		return buf.Bytes()
	}

	cases := []struct {
		name string
		data []byte
		code string
	}{
		{"empty file", nil, ErrCodeNotAMovContainer},
		{"first box not ftyp", makeBox("mdat", []byte("xx")), ErrCodeNotAMovContainer},
		// Garbage decodes to a bogus box size; the wrong-format verdict
		// must win over the size bound.
		{"plain text file", []byte("this is not a movie file"), ErrCodeNotAMovContainer},
		{"truncated to six bytes", simpleMovie()[:6], ErrCodeTruncatedHeader},
		{"ftyp size past end of file", simpleMovie()[:12], ErrCodeTruncatedHeader},
		{"no moov", ftypBox("qt  "), ErrCodeMissingMovieBox},
		{"moov without mvhd", noMvhd(), ErrCodeInvalidTimescale},
		{"zero movie timescale", zeroTimescale(), ErrCodeInvalidTimescale},
		{"zero track timescale", zeroTrackTimescale(), ErrCodeInvalidTimescale},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ExtractReaderAt(bytes.NewReader(tc.data), int64(len(tc.data)))
			if err == nil {
				t.Fatal("expected extraction to fail")
			}
			if code := codeOf(t, err); code != tc.code {
				t.Errorf("code = %q, want %q", code, tc.code)
			}
		})
	}
}

func TestExtractErrorCarriesPath(t *testing.T) {
	path := writeMovie(t, simpleMovie()[:6])

	_, err := Extract(path)
	if err == nil {
		t.Fatal("expected extraction to fail")
	}
	me, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *mov.Error, got %T", err)
	}
	if me.Path != path {
		t.Errorf("error path = %q, want %q", me.Path, path)
	}
	if me.Code != ErrCodeTruncatedHeader {
		t.Errorf("error code = %q, want %q", me.Code, ErrCodeTruncatedHeader)
	}
}

func TestExtractIgnoresUnknownTopLevelBoxes(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(ftypBox("qt  "))
	buf.Write(makeBox("free", bytes.Repeat([]byte{0}, 24)))
	buf.Write(makeBox("moov", mvhdV0(600, 1200), trakBox(1, "vide", 600, 1200)))
	buf.Write(makeBox("mdat", []byte("media")))

	profile, err := ExtractReaderAt(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if profile.Timescale != 600 || len(profile.Tracks) != 1 {
		t.Errorf("profile = %+v, want timescale 600 with one track", profile)
	}
}
