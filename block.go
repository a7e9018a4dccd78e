package blockindex

import (
	"bytes"
	"io"
)

// dataBlockWriter packs key/value records into fixed-size blocks.
type dataBlockWriter struct {
	w        io.Writer
	buf      []byte // the current block
	size     int    // the block size
	sentinel byte
	blocks   int // the number of flushed blocks
}

func newDataBlockWriter(w io.Writer, size int, sentinel byte) *dataBlockWriter {
	return &dataBlockWriter{
		w:        w,
		buf:      make([]byte, 0, size),
		size:     size,
		sentinel: sentinel,
	}
}

// fits returns true if a record of n bytes fits into the current block.
func (b *dataBlockWriter) fits(n int) bool {
	return len(b.buf)+n <= b.size
}

func (b *dataBlockWriter) append(key, value []byte) {
	b.buf = append(b.buf, key...)
	b.buf = append(b.buf, b.sentinel)
	b.buf = append(b.buf, value...)
}

// flush pads the current block and writes it, even if it is empty.
func (b *dataBlockWriter) flush() error {
	b.buf = pad(b.buf, b.size, b.sentinel)
	if _, err := b.w.Write(b.buf); err != nil {
		return err
	}
	b.buf = b.buf[:0]
	b.blocks++
	return nil
}

func pad(p []byte, size int, c byte) []byte {
	for len(p) < size {
		p = append(p, c)
	}
	return p
}

// --------------------------------------------------------------------

// BlockScanner iterates over the records of a single data block.
type BlockScanner struct {
	block     []byte
	valueSize int
	sentinel  byte
	off       int

	key, val []byte
	err      error
}

// NewBlockScanner inits a new scanner.
func NewBlockScanner(block []byte, valueSize int, sentinel byte) *BlockScanner {
	s := new(BlockScanner)
	s.reset(block, valueSize, sentinel)
	return s
}

func (s *BlockScanner) reset(block []byte, valueSize int, sentinel byte) {
	*s = BlockScanner{block: block, valueSize: valueSize, sentinel: sentinel}
}

// Next advances the cursor to the next record and returns true if successful.
// It returns false at the end of the block, i.e. when the padding is reached.
func (s *BlockScanner) Next() bool {
	if s.err != nil || s.off >= len(s.block) {
		return false
	}

	pos := bytes.IndexByte(s.block[s.off:], s.sentinel)
	if pos < 0 {
		s.err = ErrMalformedBlock
		return false
	}
	if pos == 0 { // padding
		s.off = len(s.block)
		return false
	}

	vpos := s.off + pos + 1
	if vpos+s.valueSize > len(s.block) {
		s.err = ErrMalformedBlock
		return false
	}

	s.key = s.block[s.off : s.off+pos]
	s.val = s.block[vpos : vpos+s.valueSize]
	s.off = vpos + s.valueSize
	return true
}

// Key returns the key of the current record.
func (s *BlockScanner) Key() []byte { return s.key }

// Value returns the raw value of the current record.
func (s *BlockScanner) Value() []byte { return s.val }

// Err exposes scanner errors, if any.
func (s *BlockScanner) Err() error { return s.err }
