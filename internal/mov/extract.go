package mov

import (
	"encoding/binary"
	"errors"
	"io"
	"os"
)

// Extract profiles the MOV container at path. It fails with a coded
// *Error (NOT_A_MOV_CONTAINER, MISSING_MOVIE_BOX, TRUNCATED_HEADER,
// INVALID_BOX_SIZE, INVALID_TIMESCALE) and never returns a partially
// populated profile.
func Extract(path string) (*FileProfile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	profile, err := ExtractReaderAt(f, fi.Size())
	if err != nil {
		var me *Error
		if errors.As(err, &me) {
			me.Path = path
		}
		return nil, err
	}
	profile.Path = path
	return profile, nil
}

// ExtractReaderAt profiles a MOV container held in an arbitrary byte
// source of the given size. The returned profile has no Path set.
func ExtractReaderAt(src io.ReaderAt, size int64) (*FileProfile, error) {
	r := NewReader(src, size)

	// Classify the leading box type before trusting its declared size:
	// arbitrary non-MOV bytes routinely decode to a bogus size, and that
	// is a wrong-format file, not a truncated one.
	if size == 0 {
		return nil, newError(ErrCodeNotAMovContainer, "empty input", 0)
	}
	if size >= 8 {
		var hdr [8]byte
		if _, err := src.ReadAt(hdr[:], 0); err != nil {
			e := newError(ErrCodeTruncatedHeader, "short read on box header", 0)
			e.Cause = err
			return nil, e
		}
		var typ FourCC
		copy(typ[:], hdr[4:8])
		if typ != TypeFtyp {
			return nil, newError(ErrCodeNotAMovContainer, "first top-level box is not ftyp", 0)
		}
	}

	first, err := r.Next()
	if err != nil {
		return nil, err
	}
	if first == nil || first.Type != TypeFtyp {
		return nil, newError(ErrCodeNotAMovContainer, "first top-level box is not ftyp", 0)
	}

	profile := &FileProfile{}
	if err := decodeFtyp(first, profile); err != nil {
		return nil, err
	}

	moov, err := r.find(TypeMoov)
	if err != nil {
		return nil, err
	}
	if moov == nil {
		return nil, newError(ErrCodeMissingMovieBox, "no moov box at top level", size)
	}

	children, err := moov.Children()
	if err != nil {
		return nil, err
	}

	sawMvhd := false
	for {
		child, err := children.Next()
		if err != nil {
			return nil, err
		}
		if child == nil {
			break
		}
		switch child.Type {
		case TypeMvhd:
			if err := decodeMvhd(child, profile); err != nil {
				return nil, err
			}
			sawMvhd = true
		case TypeTrak:
			track, err := decodeTrak(child)
			if err != nil {
				return nil, err
			}
			profile.Tracks = append(profile.Tracks, track)
		}
	}

	// A moov without a usable movie header leaves the timescale at zero,
	// which would poison every duration computation downstream.
	if !sawMvhd || profile.Timescale == 0 {
		return nil, newError(ErrCodeInvalidTimescale, "movie timescale is zero or mvhd is missing", moov.Start)
	}

	return profile, nil
}

// decodeFtyp reads the major brand and the 4-byte-aligned compatible
// brand entries.
func decodeFtyp(box *Box, profile *FileProfile) error {
	payload, err := box.Payload()
	if err != nil {
		return err
	}
	if len(payload) < 8 {
		return newError(ErrCodeInvalidBoxSize, "ftyp too small for major brand and minor version", box.Start)
	}
	profile.MajorBrand = string(payload[0:4])
	for off := 8; off+4 <= len(payload); off += 4 {
		profile.CompatibleBrands = append(profile.CompatibleBrands, string(payload[off:off+4]))
	}
	return nil
}

// decodeMvhd reads the movie timescale and duration. Version 1 headers
// use 64-bit creation/modification times and a 64-bit duration, shifting
// the field offsets; version 0 packs everything in 32 bits.
func decodeMvhd(box *Box, profile *FileProfile) error {
	payload, err := box.Payload()
	if err != nil {
		return err
	}
	ts, dur, err := decodeTimeHeader(box, payload, "mvhd")
	if err != nil {
		return err
	}
	profile.Timescale = ts
	profile.Duration = dur
	return nil
}

// decodeTimeHeader handles the shared mvhd/mdhd layout: version byte,
// flags, creation and modification times, then timescale and duration.
func decodeTimeHeader(box *Box, payload []byte, name string) (uint32, uint64, error) {
	if len(payload) < 4 {
		return 0, 0, newError(ErrCodeInvalidBoxSize, name+" too small for version and flags", box.Start)
	}
	var (
		timescale uint32
		duration  uint64
	)
	switch payload[0] {
	case 1:
		if len(payload) < 32 {
			return 0, 0, newError(ErrCodeInvalidBoxSize, name+" version 1 too small for 64-bit fields", box.Start)
		}
		timescale = binary.BigEndian.Uint32(payload[20:24])
		duration = binary.BigEndian.Uint64(payload[24:32])
	default:
		if len(payload) < 20 {
			return 0, 0, newError(ErrCodeInvalidBoxSize, name+" version 0 too small for 32-bit fields", box.Start)
		}
		timescale = binary.BigEndian.Uint32(payload[12:16])
		duration = uint64(binary.BigEndian.Uint32(payload[16:20]))
	}
	if timescale == 0 {
		return 0, 0, newError(ErrCodeInvalidTimescale, name+" timescale is zero", box.Start)
	}
	return timescale, duration, nil
}

// decodeTrak reads the track header, media handler, and media header of
// one trak box.
func decodeTrak(trak *Box) (TrackInfo, error) {
	track := TrackInfo{Kind: MediaOther}

	children, err := trak.Children()
	if err != nil {
		return TrackInfo{}, err
	}
	for {
		child, err := children.Next()
		if err != nil {
			return TrackInfo{}, err
		}
		if child == nil {
			break
		}
		switch child.Type {
		case TypeTkhd:
			if err := decodeTkhd(child, &track); err != nil {
				return TrackInfo{}, err
			}
		case TypeMdia:
			if err := decodeMdia(child, &track); err != nil {
				return TrackInfo{}, err
			}
		}
	}
	return track, nil
}

// decodeTkhd reads the track ID. The ID field follows 32- or 64-bit
// creation/modification times depending on the version byte.
func decodeTkhd(box *Box, track *TrackInfo) error {
	payload, err := box.Payload()
	if err != nil {
		return err
	}
	if len(payload) < 4 {
		return newError(ErrCodeInvalidBoxSize, "tkhd too small for version and flags", box.Start)
	}
	switch payload[0] {
	case 1:
		if len(payload) < 24 {
			return newError(ErrCodeInvalidBoxSize, "tkhd version 1 too small for track ID", box.Start)
		}
		track.ID = binary.BigEndian.Uint32(payload[20:24])
	default:
		if len(payload) < 16 {
			return newError(ErrCodeInvalidBoxSize, "tkhd version 0 too small for track ID", box.Start)
		}
		track.ID = binary.BigEndian.Uint32(payload[12:16])
	}
	return nil
}

// decodeMdia walks mdia for the handler (media kind) and media header
// (track timescale and duration).
func decodeMdia(mdia *Box, track *TrackInfo) error {
	children, err := mdia.Children()
	if err != nil {
		return err
	}
	for {
		child, err := children.Next()
		if err != nil {
			return err
		}
		if child == nil {
			return nil
		}
		switch child.Type {
		case TypeHdlr:
			kind, err := decodeHdlr(child)
			if err != nil {
				return err
			}
			track.Kind = kind
		case TypeMdhd:
			payload, err := child.Payload()
			if err != nil {
				return err
			}
			ts, dur, err := decodeTimeHeader(child, payload, "mdhd")
			if err != nil {
				return err
			}
			track.Timescale = ts
			track.Duration = dur
		}
	}
}

// decodeHdlr classifies the media handler subtype.
func decodeHdlr(box *Box) (MediaKind, error) {
	payload, err := box.Payload()
	if err != nil {
		return MediaOther, err
	}
	if len(payload) < 12 {
		return MediaOther, newError(ErrCodeInvalidBoxSize, "hdlr too small for handler subtype", box.Start)
	}
	var subtype FourCC
	copy(subtype[:], payload[8:12])
	switch subtype {
	case handlerVideo:
		return MediaVideo, nil
	case handlerAudio:
		return MediaAudio, nil
	case handlerText, handlerSubtitle:
		return MediaSubtitle, nil
	default:
		return MediaOther, nil
	}
}
