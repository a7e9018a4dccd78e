package blockindex

import (
	"bytes"
	"io"
	"sync"
)

// ReaderOptions define reader specific options.
type ReaderOptions struct {
	// Sentinel must match the sentinel used by the writer.
	// Default: 0x00.
	Sentinel byte
}

func (o *ReaderOptions) norm() *ReaderOptions {
	var oo ReaderOptions
	if o != nil {
		oo = *o
	}
	return &oo
}

// Reader instances can look up and iterate across data in an index. Readers
// are safe for concurrent use.
type Reader[V any] struct {
	data   []byte      // in-memory or mapped data
	ra     io.ReaderAt // alternative source
	closer io.Closer

	hdr       Header
	numBlocks int
	codec     ValueCodec[V]
	sentinel  byte
}

// NewReader opens a reader over a complete, in-memory or memory-mapped file.
func NewReader[V any](data []byte, codec ValueCodec[V], o *ReaderOptions) (*Reader[V], error) {
	hdr, err := parseHeader(data)
	if err != nil {
		return nil, err
	}

	r := &Reader[V]{data: data}
	if err := r.setup(hdr, int64(len(data)), codec, o); err != nil {
		return nil, err
	}
	return r, nil
}

// NewReaderAt opens a reader over an io.ReaderAt, blocks are read on demand.
func NewReaderAt[V any](ra io.ReaderAt, size int64, codec ValueCodec[V], o *ReaderOptions) (*Reader[V], error) {
	tmp := make([]byte, headerSize)
	if _, err := ra.ReadAt(tmp, 0); err != nil {
		return nil, err
	}

	hdr, err := parseHeader(tmp)
	if err != nil {
		return nil, err
	}

	r := &Reader[V]{ra: ra}
	if err := r.setup(hdr, size, codec, o); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Reader[V]) setup(hdr Header, size int64, codec ValueCodec[V], o *ReaderOptions) error {
	bsz := int64(hdr.BlockSize)
	if (size-headerSize)%bsz != 0 {
		return ErrMalformedBlock
	}

	r.hdr = hdr
	r.numBlocks = int((size - headerSize) / bsz)
	r.codec = codec
	r.sentinel = o.norm().Sentinel

	if r.numBlocks <= int(hdr.IndexBlockCount) {
		return ErrMalformedBlock
	}
	return nil
}

// Header returns the file header.
func (r *Reader[V]) Header() Header { return r.hdr }

// NumBlocks returns the total number of index and data blocks.
func (r *Reader[V]) NumBlocks() int { return r.numBlocks }

// BlockBytes returns the contents of the n-th block. Index and data blocks
// share the same address space.
func (r *Reader[V]) BlockBytes(n int) ([]byte, error) {
	if n < 0 || n >= r.numBlocks {
		return nil, ErrMalformedBlock
	}

	bsz := int64(r.hdr.BlockSize)
	off := headerSize + int64(n)*bsz
	if r.data != nil {
		return r.data[off : off+bsz : off+bsz], nil
	}

	buf := make([]byte, bsz)
	if _, err := r.ra.ReadAt(buf, off); err != nil {
		return nil, err
	}
	return buf, nil
}

// Descend walks the index from the root and returns the number of the first
// data block that may contain key.
func (r *Reader[V]) Descend(key []byte) (int, error) {
	icnt := r.hdr.IndexBlockCount

	cur := uint32(0)
	for cur < icnt {
		block, err := r.readBlock(int(cur))
		if err != nil {
			return 0, err
		}

		ptr, err := FindIndexBlock(block, key, r.sentinel)
		r.releaseBlock(block)
		if err != nil {
			return 0, err
		}
		if ptr <= cur || int(ptr) >= r.numBlocks {
			return 0, ErrMalformedBlock
		}
		cur = ptr
	}
	return int(cur), nil
}

// Height returns the number of index levels.
func (r *Reader[V]) Height() (int, error) {
	icnt := r.hdr.IndexBlockCount

	cur, height := uint32(0), 0
	for cur < icnt {
		block, err := r.readBlock(int(cur))
		if err != nil {
			return 0, err
		}

		ptr := NewIndexScanner(block, r.sentinel).Leftmost()
		r.releaseBlock(block)
		if ptr <= cur || int(ptr) >= r.numBlocks {
			return 0, ErrMalformedBlock
		}
		cur = ptr
		height++
	}
	return height, nil
}

// Get retrieves a single value for a key.
// It may return an ErrNotFound error.
func (r *Reader[V]) Get(key []byte) (V, error) {
	var zero V

	iter, err := r.Seek(key)
	if err != nil {
		return zero, err
	}
	defer iter.Release()

	if !iter.Next() {
		if err := iter.Err(); err != nil {
			return zero, err
		}
		return zero, ErrNotFound
	}
	if !bytes.Equal(iter.Key(), key) {
		return zero, ErrNotFound
	}
	return iter.Value(), nil
}

// Seek returns an iterator starting at the position >= key.
func (r *Reader[V]) Seek(key []byte) (*Iterator[V], error) {
	bpos, err := r.Descend(key)
	if err != nil {
		return nil, err
	}

	iter := &Iterator[V]{r: r, bpos: bpos - 1, start: key}
	return iter, nil
}

// PrefixScan returns an iterator over all entries with keys starting
// with prefix, in sorted order.
func (r *Reader[V]) PrefixScan(prefix []byte) (*Iterator[V], error) {
	iter, err := r.Seek(prefix)
	if err != nil {
		return nil, err
	}
	iter.prefix = prefix
	iter.bounded = true
	return iter, nil
}

// Close releases the underlying memory map, if any.
func (r *Reader[V]) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

func (r *Reader[V]) readBlock(n int) ([]byte, error) {
	if r.data != nil {
		return r.BlockBytes(n)
	}
	if n < 0 || n >= r.numBlocks {
		return nil, ErrMalformedBlock
	}

	bsz := int(r.hdr.BlockSize)
	buf := fetchBuffer(bsz)
	if _, err := r.ra.ReadAt(buf, headerSize+int64(n)*int64(bsz)); err != nil {
		releaseBuffer(buf)
		return nil, err
	}
	return buf, nil
}

func (r *Reader[V]) releaseBlock(p []byte) {
	if r.data == nil {
		releaseBuffer(p)
	}
}

// --------------------------------------------------------------------

// Iterator can (forward-) iterate over entries across block boundaries.
type Iterator[V any] struct {
	r *Reader[V]

	bpos  int    // the current block position
	block []byte // the current block
	s     BlockScanner

	start   []byte // skip entries before start
	prefix  []byte
	bounded bool
	done    bool

	err error
}

// Key returns the key of the current entry. Please note that keys may be
// temporary buffers and must be copied if used beyond the next cursor move.
func (i *Iterator[V]) Key() []byte { return i.s.Key() }

// RawValue returns the packed value of the current entry. Please note that
// values may be temporary buffers and must be copied if used beyond the next
// cursor move.
func (i *Iterator[V]) RawValue() []byte { return i.s.Value() }

// Value returns the decoded value of the current entry.
func (i *Iterator[V]) Value() V { return i.r.codec.Unpack(i.s.Value()) }

// Next advances the cursor to the next entry and returns true if successful.
func (i *Iterator[V]) Next() bool {
	if i.err != nil || i.done {
		return false
	}

	for {
		if i.block != nil && i.s.Next() {
			key := i.s.Key()
			if i.start != nil {
				if bytes.Compare(key, i.start) < 0 {
					continue
				}
				i.start = nil
			}
			if i.bounded && !bytes.HasPrefix(key, i.prefix) {
				i.done = true
				return false
			}
			return true
		}
		if err := i.s.Err(); err != nil {
			i.err = err
			return false
		}

		// more blocks
		if i.block != nil {
			i.r.releaseBlock(i.block)
			i.block = nil
		}
		if i.bpos+1 >= i.r.numBlocks {
			i.done = true
			return false
		}
		i.bpos++

		block, err := i.r.readBlock(i.bpos)
		if err != nil {
			i.err = err
			return false
		}
		i.block = block
		i.s.reset(block, i.r.codec.Size(), i.r.sentinel)
	}
}

// Err exposes iterator errors, if any.
func (i *Iterator[V]) Err() error {
	return i.err
}

// Release releases the iterator and frees up resources. The iterator must not be used
// after this method is called.
func (i *Iterator[V]) Release() {
	if i.block != nil {
		i.r.releaseBlock(i.block)
		i.block = nil
	}
	i.err = errReleased
}

// --------------------------------------------------------------------

var bufPool sync.Pool

func fetchBuffer(sz int) []byte {
	if v := bufPool.Get(); v != nil {
		if p := v.([]byte); sz <= cap(p) {
			return p[:sz]
		}
	}
	return make([]byte, sz)
}

func releaseBuffer(p []byte) {
	if cap(p) != 0 {
		bufPool.Put(p)
	}
}
