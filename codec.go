package blockindex

import "encoding/binary"

// ValueCodec packs values of type V into fixed-width binary records. The
// same codec (or one with an identical layout) must be used by the writer
// and the reader of a file.
type ValueCodec[V any] interface {
	// Size returns the fixed width of a packed value in bytes.
	Size() int
	// Pack encodes v into dst, which is exactly Size() bytes long.
	Pack(dst []byte, v V)
	// Unpack decodes a value from src, which is exactly Size() bytes long.
	Unpack(src []byte) V
}

// Uint64Codec stores a single little-endian uint64.
type Uint64Codec struct{}

func (Uint64Codec) Size() int { return 8 }
func (Uint64Codec) Pack(dst []byte, v uint64) { binary.LittleEndian.PutUint64(dst, v) }
func (Uint64Codec) Unpack(src []byte) uint64 { return binary.LittleEndian.Uint64(src) }

// Uint32Codec stores a single little-endian uint32.
type Uint32Codec struct{}

func (Uint32Codec) Size() int { return 4 }
func (Uint32Codec) Pack(dst []byte, v uint32) { binary.LittleEndian.PutUint32(dst, v) }
func (Uint32Codec) Unpack(src []byte) uint32 { return binary.LittleEndian.Uint32(src) }

// Uint64sCodec stores a fixed number of little-endian uint64 fields, e.g. a
// (file, offset, length) location triple.
type Uint64sCodec int

func (c Uint64sCodec) Size() int { return 8 * int(c) }

func (c Uint64sCodec) Pack(dst []byte, v []uint64) {
	for i := 0; i < int(c); i++ {
		var x uint64
		if i < len(v) {
			x = v[i]
		}
		binary.LittleEndian.PutUint64(dst[8*i:], x)
	}
}

func (c Uint64sCodec) Unpack(src []byte) []uint64 {
	v := make([]uint64, int(c))
	for i := range v {
		v[i] = binary.LittleEndian.Uint64(src[8*i:])
	}
	return v
}

// FixedBytesCodec stores raw values of a fixed width. Shorter values are
// zero-padded, longer ones are truncated. Unpack returns a copy.
type FixedBytesCodec int

func (c FixedBytesCodec) Size() int { return int(c) }

func (c FixedBytesCodec) Pack(dst []byte, v []byte) {
	n := copy(dst, v)
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
}

func (c FixedBytesCodec) Unpack(src []byte) []byte {
	return append(make([]byte, 0, len(src)), src...)
}
