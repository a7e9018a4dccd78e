package blockindex

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// indexLevel is a single level of the index under construction. Full blocks
// are appended to the spool, pointers are relative to the level below.
type indexLevel struct {
	spool  *spool
	buf    []byte // the current block
	blocks int    // the number of flushed blocks
}

// levelBuilder builds the multi-level index bottom-up.
type levelBuilder struct {
	o      *WriterOptions
	levels []*indexLevel
}

func newLevelBuilder(o *WriterOptions) *levelBuilder {
	return &levelBuilder{o: o}
}

// NumLevels returns the number of levels.
func (b *levelBuilder) NumLevels() int { return len(b.levels) }

func (b *levelBuilder) newLevel() *indexLevel {
	l := &indexLevel{
		spool: newSpool(b.o),
		buf:   make([]byte, 0, b.o.BlockSize),
	}
	l.buf = appendPointer(l.buf, 0)
	return l
}

// add appends an entry pointing at block ptr of the level below (or the
// data segment for level 0). If the current block of the level overflows,
// it is flushed, the entry's child becomes the leftmost child of the next
// block and the separator is pushed one level up.
func (b *levelBuilder) add(level int, ptr uint32, sep []byte) error {
	need := ptrSize + len(sep) + 1
	if ptrSize+need > b.o.BlockSize {
		return ErrRecordTooLarge
	}

	if level == len(b.levels) {
		b.levels = append(b.levels, b.newLevel())
		log.Debugw("index level created", "level", level)
	}

	l := b.levels[level]
	if len(l.buf)+need > b.o.BlockSize {
		if err := l.flush(b.o.BlockSize, b.o.Sentinel); err != nil {
			return err
		}
		l.buf = appendPointer(l.buf, ptr)
		return b.add(level+1, uint32(l.blocks), sep)
	}

	l.buf = appendPointer(l.buf, ptr)
	l.buf = append(l.buf, sep...)
	l.buf = append(l.buf, b.o.Sentinel)
	return nil
}

// finish writes the header followed by all levels, topmost first, with
// pointers rewritten to absolute block numbers.
func (b *levelBuilder) finish(w io.Writer, dataBlocks int) (Header, error) {
	size, sentinel := b.o.BlockSize, b.o.Sentinel

	total := 0
	for _, l := range b.levels {
		if err := l.flush(size, sentinel); err != nil {
			return Header{}, err
		}
		total += l.blocks
	}
	if int64(total)+int64(dataBlocks) > math.MaxUint32 {
		return Header{}, fmt.Errorf("blockindex: too many blocks (%d), increase the block size", total+dataBlocks)
	}

	hdr := Header{BlockSize: uint32(size), IndexBlockCount: uint32(total)}
	if _, err := w.Write(hdr.appendTo(nil)); err != nil {
		return hdr, err
	}

	block := make([]byte, size)
	written := 0
	for n := len(b.levels) - 1; n >= 0; n-- {
		l := b.levels[n]

		// children are emitted right after this level
		delta := uint32(written + l.blocks)

		rd, err := l.spool.Reader()
		if err != nil {
			return hdr, err
		}
		for i := 0; i < l.blocks; i++ {
			if _, err := io.ReadFull(rd, block); err != nil {
				return hdr, err
			}
			if err := rebaseIndexBlock(block, sentinel, delta); err != nil {
				return hdr, err
			}
			if _, err := w.Write(block); err != nil {
				return hdr, err
			}
		}
		written += l.blocks
	}
	return hdr, nil
}

// Close releases all spools.
func (b *levelBuilder) Close() (err error) {
	for _, l := range b.levels {
		if e := l.spool.Close(); e != nil && err == nil {
			err = e
		}
	}
	return
}

func (l *indexLevel) flush(size int, sentinel byte) error {
	l.buf = pad(l.buf, size, sentinel)
	if _, err := l.spool.Write(l.buf); err != nil {
		return err
	}
	l.buf = l.buf[:0]
	l.blocks++
	return nil
}

func appendPointer(dst []byte, ptr uint32) []byte {
	var tmp [ptrSize]byte
	binary.LittleEndian.PutUint32(tmp[:], ptr)
	return append(dst, tmp[:]...)
}
