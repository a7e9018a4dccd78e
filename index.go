package blockindex

import (
	"bytes"
	"encoding/binary"
	"sort"
)

// IndexScanner iterates over the (pointer, separator) entries of a single
// index block.
type IndexScanner struct {
	block    []byte
	sentinel byte
	off      int

	ptrOff int
	ptr    uint32
	key    []byte
	err    error
}

// NewIndexScanner inits a new scanner.
func NewIndexScanner(block []byte, sentinel byte) *IndexScanner {
	s := &IndexScanner{block: block, sentinel: sentinel, off: ptrSize}
	if len(block) < ptrSize {
		s.err = ErrMalformedBlock
	}
	return s
}

// Leftmost returns the pointer to the child block holding keys that sort
// before the first separator.
func (s *IndexScanner) Leftmost() uint32 {
	if len(s.block) < ptrSize {
		return 0
	}
	return binary.LittleEndian.Uint32(s.block)
}

// Next advances the cursor to the next entry and returns true if successful.
// The trailing padding is never returned as an entry.
func (s *IndexScanner) Next() bool {
	if s.err != nil || s.off+ptrSize >= len(s.block) {
		return false
	}

	kpos := s.off + ptrSize
	pos := bytes.IndexByte(s.block[kpos:], s.sentinel)
	if pos < 0 {
		s.err = ErrMalformedBlock
		return false
	}
	if pos == 0 { // padding
		s.off = len(s.block)
		return false
	}

	s.ptrOff = s.off
	s.ptr = binary.LittleEndian.Uint32(s.block[s.off:])
	s.key = s.block[kpos : kpos+pos]
	s.off = kpos + pos + 1
	return true
}

// Pointer returns the child pointer of the current entry.
func (s *IndexScanner) Pointer() uint32 { return s.ptr }

// Key returns the separator of the current entry.
func (s *IndexScanner) Key() []byte { return s.key }

// Err exposes scanner errors, if any.
func (s *IndexScanner) Err() error { return s.err }

type indexEntry struct {
	ptr uint32
	key []byte
}

// FindIndexBlock returns the pointer to the child of an index block which
// is the lower bound for key, i.e. the child referenced by the last
// separator < key, or the leftmost child.
func FindIndexBlock(block []byte, key []byte, sentinel byte) (uint32, error) {
	s := NewIndexScanner(block, sentinel)

	var entries []indexEntry
	for s.Next() {
		entries = append(entries, indexEntry{ptr: s.Pointer(), key: s.Key()})
	}
	if err := s.Err(); err != nil {
		return 0, err
	}

	n := sort.Search(len(entries), func(i int) bool {
		return bytes.Compare(entries[i].key, key) >= 0
	})
	if n == 0 {
		return s.Leftmost(), nil
	}
	return entries[n-1].ptr, nil
}

// rebaseIndexBlock adds delta to every pointer of an index block, in place.
func rebaseIndexBlock(block []byte, sentinel byte, delta uint32) error {
	s := NewIndexScanner(block, sentinel)
	if err := s.Err(); err != nil {
		return err
	}

	binary.LittleEndian.PutUint32(block, s.Leftmost()+delta)
	for s.Next() {
		binary.LittleEndian.PutUint32(block[s.ptrOff:], s.Pointer()+delta)
	}
	return s.Err()
}
