package blockindex

import (
	"encoding/binary"
	"errors"

	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("blockindex")

const (
	headerSize       = 8
	defaultBlockSize = 64 * 1024
	defaultSpill     = 32 * 1024 * 1024
	ptrSize          = 4
)

var (
	// ErrNotFound is returned by the reader when a key cannot be found.
	ErrNotFound = errors.New("blockindex: not found")

	// ErrRecordTooLarge is returned by the writer when a single key/value record
	// (or the index entry derived from its key) cannot fit into one block.
	ErrRecordTooLarge = errors.New("blockindex: record exceeds block size")

	// ErrMalformedBlock is returned when a block lacks a terminating sentinel
	// or the file is truncated.
	ErrMalformedBlock = errors.New("blockindex: malformed block")

	// ErrOutOfOrder is returned by the writer when keys are not appended in
	// non-decreasing order.
	ErrOutOfOrder = errors.New("blockindex: out-of-order append")

	// ErrInvalidKey is returned by the writer for empty keys and for keys
	// containing the sentinel byte.
	ErrInvalidKey = errors.New("blockindex: invalid key")
)

var (
	errClosed   = errors.New("blockindex: is closed")
	errReleased = errors.New("blockindex: iterator was released")
)

// Header is the fixed-size file header.
type Header struct {
	BlockSize       uint32 // size of every block in bytes
	IndexBlockCount uint32 // number of index blocks, data blocks start at this block number
}

func (h Header) appendTo(dst []byte) []byte {
	var tmp [headerSize]byte
	binary.LittleEndian.PutUint32(tmp[0:], h.BlockSize)
	binary.LittleEndian.PutUint32(tmp[4:], h.IndexBlockCount)
	return append(dst, tmp[:]...)
}

func parseHeader(p []byte) (Header, error) {
	if len(p) < headerSize {
		return Header{}, ErrMalformedBlock
	}
	h := Header{
		BlockSize:       binary.LittleEndian.Uint32(p[0:]),
		IndexBlockCount: binary.LittleEndian.Uint32(p[4:]),
	}
	if h.BlockSize == 0 {
		return Header{}, ErrMalformedBlock
	}
	return h, nil
}

// --------------------------------------------------------------------

// Compression is the compression codec applied to the writer's temporary
// spill files. The finished file is never compressed.
type Compression byte

func (c Compression) isValid() bool {
	return c >= NoCompression && c < unknownCompression
}

// Supported compression codecs
const (
	NoCompression Compression = iota
	SnappyCompression
	unknownCompression
)
