package mov

// MediaKind classifies a track by its media handler subtype.
type MediaKind string

const (
	MediaVideo    MediaKind = "video"
	MediaAudio    MediaKind = "audio"
	MediaSubtitle MediaKind = "subtitle"
	MediaOther    MediaKind = "other"
)

// TrackInfo summarizes one trak box, in declaration order.
type TrackInfo struct {
	ID        uint32    `json:"id"`
	Kind      MediaKind `json:"kind"`
	Timescale uint32    `json:"timescale"`
	Duration  uint64    `json:"duration"` // in track timescale ticks
}

// DurationSeconds returns the track duration in real seconds.
func (t TrackInfo) DurationSeconds() float64 {
	if t.Timescale == 0 {
		return 0
	}
	return float64(t.Duration) / float64(t.Timescale)
}

// FileProfile is the immutable structural summary of one input file.
// Ticks and timescale are stored separately so the validator can compare
// raw timescales without precision loss.
type FileProfile struct {
	Path             string      `json:"path"`
	MajorBrand       string      `json:"major_brand"`
	CompatibleBrands []string    `json:"compatible_brands"`
	Timescale        uint32      `json:"timescale"`
	Duration         uint64      `json:"duration"` // in movie timescale ticks
	Tracks           []TrackInfo `json:"tracks"`
}

// DurationSeconds returns the movie duration in real seconds.
func (p *FileProfile) DurationSeconds() float64 {
	if p.Timescale == 0 {
		return 0
	}
	return float64(p.Duration) / float64(p.Timescale)
}

// TrackCount returns the total number of tracks.
func (p *FileProfile) TrackCount() int {
	return len(p.Tracks)
}

// CountKind returns the number of tracks of the given media kind.
func (p *FileProfile) CountKind(kind MediaKind) int {
	n := 0
	for _, t := range p.Tracks {
		if t.Kind == kind {
			n++
		}
	}
	return n
}

// HasCompatibleBrand reports whether brand appears in the compatible
// brands list.
func (p *FileProfile) HasCompatibleBrand(brand string) bool {
	for _, b := range p.CompatibleBrands {
		if b == brand {
			return true
		}
	}
	return false
}
