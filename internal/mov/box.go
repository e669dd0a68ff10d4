// Package mov reads QuickTime/MOV container structure: the box tree and
// the handful of metadata boxes needed to profile a file for lossless
// concatenation. It never touches media payloads.
package mov

import (
	"encoding/binary"
	"errors"
	"io"
)

// FourCC is a 4-byte box type identifier.
type FourCC [4]byte

func (c FourCC) String() string {
	return string(c[:])
}

// Box types the extractor knows about.
var (
	TypeFtyp = FourCC{'f', 't', 'y', 'p'}
	TypeMoov = FourCC{'m', 'o', 'o', 'v'}
	TypeMvhd = FourCC{'m', 'v', 'h', 'd'}
	TypeTrak = FourCC{'t', 'r', 'a', 'k'}
	TypeTkhd = FourCC{'t', 'k', 'h', 'd'}
	TypeEdts = FourCC{'e', 'd', 't', 's'}
	TypeMdia = FourCC{'m', 'd', 'i', 'a'}
	TypeMdhd = FourCC{'m', 'd', 'h', 'd'}
	TypeHdlr = FourCC{'h', 'd', 'l', 'r'}
	TypeMinf = FourCC{'m', 'i', 'n', 'f'}
	TypeDinf = FourCC{'d', 'i', 'n', 'f'}
	TypeStbl = FourCC{'s', 't', 'b', 'l'}
	TypeUdta = FourCC{'u', 'd', 't', 'a'}
	TypeMvex = FourCC{'m', 'v', 'e', 'x'}
	TypeMdat = FourCC{'m', 'd', 'a', 't'}
)

// Handler subtypes found in hdlr boxes.
var (
	handlerVideo    = FourCC{'v', 'i', 'd', 'e'}
	handlerAudio    = FourCC{'s', 'o', 'u', 'n'}
	handlerText     = FourCC{'t', 'e', 'x', 't'}
	handlerSubtitle = FourCC{'s', 'b', 't', 'l'}
)

// isContainer reports whether a box type holds child boxes. Anything not
// on this allowlist is treated as an opaque leaf and skipped by byte
// range, which keeps unknown box types forward compatible.
func isContainer(t FourCC) bool {
	switch t {
	case TypeMoov, TypeTrak, TypeEdts, TypeMdia, TypeMinf, TypeDinf, TypeStbl, TypeUdta, TypeMvex:
		return true
	}
	return false
}

// ErrNotContainer is returned by Box.Children for leaf box types.
var ErrNotContainer = errors.New("not a container box")

// Box is one node in the container tree. It records byte positions only;
// payload bytes are read on demand.
type Box struct {
	Type      FourCC
	Start     int64 // offset of the box header
	End       int64 // exclusive end of the box
	HeaderLen int64 // 8, or 16 when the extended size field is present

	src io.ReaderAt
}

// Size returns the total box size including its header.
func (b *Box) Size() int64 {
	return b.End - b.Start
}

// Children returns a reader over the box's immediate children. Valid only
// for container box types; leaf boxes return ErrNotContainer.
func (b *Box) Children() (*Reader, error) {
	if !isContainer(b.Type) {
		return nil, ErrNotContainer
	}
	return newReader(b.src, b.Start+b.HeaderLen, b.End), nil
}

// Payload reads and returns the box payload. Only called for the small
// metadata boxes (ftyp, mvhd, tkhd, hdlr, mdhd); never for media data.
func (b *Box) Payload() ([]byte, error) {
	buf := make([]byte, b.End-b.Start-b.HeaderLen)
	if _, err := b.src.ReadAt(buf, b.Start+b.HeaderLen); err != nil {
		e := newError(ErrCodeTruncatedHeader, "box payload extends past end of data", b.Start+b.HeaderLen)
		e.Cause = err
		return nil, e
	}
	return buf, nil
}

// Reader is a forward-only cursor over the sibling boxes in a byte range.
// The zero memory cost per box bounds memory use on large files; child
// expansion happens only when Children is called.
type Reader struct {
	src io.ReaderAt
	pos int64
	end int64
}

// NewReader returns a Reader over the top-level boxes of a container that
// spans size bytes.
func NewReader(src io.ReaderAt, size int64) *Reader {
	return newReader(src, 0, size)
}

func newReader(src io.ReaderAt, start, end int64) *Reader {
	return &Reader{src: src, pos: start, end: end}
}

// Next decodes the next sibling box header and advances the cursor past
// the whole box. It returns (nil, nil) when the range is exhausted.
func (r *Reader) Next() (*Box, error) {
	if r.pos == r.end {
		return nil, nil
	}
	if r.end-r.pos < 8 {
		return nil, newError(ErrCodeTruncatedHeader, "fewer than 8 bytes remain for a box header", r.pos)
	}

	var hdr [8]byte
	if _, err := r.src.ReadAt(hdr[:], r.pos); err != nil {
		e := newError(ErrCodeTruncatedHeader, "short read on box header", r.pos)
		e.Cause = err
		return nil, e
	}

	size32 := binary.BigEndian.Uint32(hdr[0:4])
	var typ FourCC
	copy(typ[:], hdr[4:8])

	box := &Box{Type: typ, Start: r.pos, HeaderLen: 8, src: r.src}

	switch size32 {
	case 0:
		// Sentinel: box extends to the end of the enclosing range.
		box.End = r.end
	case 1:
		if r.end-r.pos < 16 {
			return nil, newError(ErrCodeTruncatedHeader, "fewer than 16 bytes remain for an extended box header", r.pos)
		}
		var ext [8]byte
		if _, err := r.src.ReadAt(ext[:], r.pos+8); err != nil {
			e := newError(ErrCodeTruncatedHeader, "short read on extended box size", r.pos+8)
			e.Cause = err
			return nil, e
		}
		size64 := binary.BigEndian.Uint64(ext[:])
		box.HeaderLen = 16
		if size64 < 16 {
			return nil, newError(ErrCodeInvalidBoxSize, "extended box size smaller than its header", r.pos)
		}
		box.End = r.pos + int64(size64)
	default:
		if size32 < 8 {
			return nil, newError(ErrCodeInvalidBoxSize, "box size smaller than its header", r.pos)
		}
		box.End = r.pos + int64(size32)
	}

	if box.End > r.end {
		return nil, newError(ErrCodeTruncatedHeader, "box extends past end of enclosing range", r.pos)
	}

	r.pos = box.End
	return box, nil
}

// find scans the remaining siblings for the first box of the given type.
// Returns nil when the range is exhausted without a match.
func (r *Reader) find(t FourCC) (*Box, error) {
	for {
		box, err := r.Next()
		if err != nil || box == nil {
			return nil, err
		}
		if box.Type == t {
			return box, nil
		}
	}
}
