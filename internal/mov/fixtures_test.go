package mov

import (
	"bytes"
	"encoding/binary"
)

// Fixture helpers building synthetic MOV structures in memory.

// b32 encodes a big-endian uint32.
func b32(v uint32) []byte {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	return buf[:]
}

// b64 encodes a big-endian uint64.
func b64(v uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	return buf[:]
}

// makeBox assembles a box with a 32-bit size header.
func makeBox(typ string, payload ...[]byte) []byte {
	var body bytes.Buffer
	for _, p := range payload {
		body.Write(p)
	}
	out := make([]byte, 0, 8+body.Len())
	out = append(out, b32(uint32(8+body.Len()))...)
	out = append(out, typ...)
	out = append(out, body.Bytes()...)
	return out
}

// makeLargeBox assembles a box with the 64-bit extended size header.
func makeLargeBox(typ string, payload ...[]byte) []byte {
	var body bytes.Buffer
	for _, p := range payload {
		body.Write(p)
	}
	out := make([]byte, 0, 16+body.Len())
	out = append(out, b32(1)...)
	out = append(out, typ...)
	out = append(out, b64(uint64(16+body.Len()))...)
	out = append(out, body.Bytes()...)
	return out
}

// makeZeroSizeBox assembles a box with size 0, extending to end of range.
func makeZeroSizeBox(typ string, payload ...[]byte) []byte {
	out := append(b32(0), typ...)
	for _, p := range payload {
		out = append(out, p...)
	}
	return out
}

func ftypBox(major string, compatible ...string) []byte {
	parts := [][]byte{[]byte(major), b32(0x200)}
	for _, c := range compatible {
		parts = append(parts, []byte(c))
	}
	return makeBox("ftyp", parts...)
}

func mvhdV0(timescale uint32, duration uint32) []byte {
	return makeBox("mvhd",
		b32(0),         // version 0, no flags
		b32(0), b32(0), // creation, modification
		b32(timescale),
		b32(duration),
	)
}

func mvhdV1(timescale uint32, duration uint64) []byte {
	return makeBox("mvhd",
		[]byte{1, 0, 0, 0},
		b64(0), b64(0), // creation, modification
		b32(timescale),
		b64(duration),
	)
}

func tkhdV0(id uint32) []byte {
	return makeBox("tkhd",
		b32(0),
		b32(0), b32(0),
		b32(id),
	)
}

func tkhdV1(id uint32) []byte {
	return makeBox("tkhd",
		[]byte{1, 0, 0, 0},
		b64(0), b64(0),
		b32(id),
	)
}

func hdlrBox(subtype string) []byte {
	return makeBox("hdlr",
		b32(0),
		[]byte("mhlr"),
		[]byte(subtype),
	)
}

func mdhdV0(timescale uint32, duration uint32) []byte {
	return makeBox("mdhd",
		b32(0),
		b32(0), b32(0),
		b32(timescale),
		b32(duration),
	)
}

func mdhdV1(timescale uint32, duration uint64) []byte {
	return makeBox("mdhd",
		[]byte{1, 0, 0, 0},
		b64(0), b64(0),
		b32(timescale),
		b64(duration),
	)
}

func trakBox(id uint32, handler string, timescale uint32, duration uint32) []byte {
	mdia := makeBox("mdia", hdlrBox(handler), mdhdV0(timescale, duration))
	return makeBox("trak", tkhdV0(id), mdia)
}

// simpleMovie builds a well-formed movie: ftyp, moov with mvhd and one
// video plus one audio track, and a small mdat.
func simpleMovie() []byte {
	var buf bytes.Buffer
	buf.Write(ftypBox("qt  ", "qt  "))
	buf.Write(makeBox("moov",
		mvhdV0(600, 1800),
		trakBox(1, "vide", 600, 1800),
		trakBox(2, "soun", 48000, 144000),
	))
	buf.Write(makeBox("mdat", []byte{0xde, 0xad, 0xbe, 0xef}))
	return buf.Bytes()
}
