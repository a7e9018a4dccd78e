package blockindex

import (
	"bytes"
	"fmt"
	"io"
)

// WriterOptions define writer specific options.
type WriterOptions struct {
	// BlockSize is the size in bytes of each index and data block.
	// Default: 64KiB.
	BlockSize int

	// Sentinel is the byte which terminates keys and pads blocks. Keys must
	// not contain it.
	// Default: 0x00.
	Sentinel byte

	// SpillThreshold is the number of bytes each temporary buffer may hold
	// in memory before it is spilled to a file in TempDir. A negative value
	// keeps everything in memory.
	// Default: 32MiB.
	SpillThreshold int

	// TempDir is the directory for spill files.
	// Default: os.TempDir().
	TempDir string

	// SpoolCompression is the compression codec for spill files.
	// Default: NoCompression.
	SpoolCompression Compression
}

func (o *WriterOptions) norm() *WriterOptions {
	var oo WriterOptions
	if o != nil {
		oo = *o
	}

	if oo.BlockSize < 1 {
		oo.BlockSize = defaultBlockSize
	}
	if oo.SpillThreshold == 0 {
		oo.SpillThreshold = defaultSpill
	}
	if !oo.SpoolCompression.isValid() {
		oo.SpoolCompression = NoCompression
	}

	return &oo
}

// Writer instances can write an index. Keys must be appended in sorted order.
type Writer[V any] struct {
	w     io.Writer
	o     *WriterOptions
	codec ValueCodec[V]

	spool *spool           // spooled data blocks
	data  *dataBlockWriter // the data block packer
	index *levelBuilder

	lastKey []byte
	count   int
	val     []byte // scratch buffer
}

// NewWriter wraps a writer and returns a Writer.
func NewWriter[V any](w io.Writer, codec ValueCodec[V], o *WriterOptions) *Writer[V] {
	o = o.norm()
	sp := newSpool(o)
	return &Writer[V]{
		w:     w,
		o:     o,
		codec: codec,
		spool: sp,
		data:  newDataBlockWriter(sp, o.BlockSize, o.Sentinel),
		index: newLevelBuilder(o),
		val:   make([]byte, codec.Size()),
	}
}

// Append appends a key and its value.
func (w *Writer[V]) Append(key []byte, value V) error {
	if w.data == nil {
		return errClosed
	}
	w.codec.Pack(w.val, value)
	return w.AppendRaw(key, w.val)
}

// AppendRaw appends a key and its packed value.
func (w *Writer[V]) AppendRaw(key, value []byte) error {
	if w.data == nil {
		return errClosed
	}
	if len(value) != w.codec.Size() {
		return fmt.Errorf("blockindex: value size is %d, expected %d", len(value), w.codec.Size())
	}
	if len(key) == 0 || bytes.IndexByte(key, w.o.Sentinel) > -1 {
		return fmt.Errorf("%w %q", ErrInvalidKey, key)
	}
	if w.count != 0 && bytes.Compare(key, w.lastKey) < 0 {
		return fmt.Errorf("%w, %q must be >= %q", ErrOutOfOrder, key, w.lastKey)
	}

	size := len(key) + 1 + len(value)
	if size > w.o.BlockSize {
		return fmt.Errorf("%w, %d > %d bytes", ErrRecordTooLarge, size, w.o.BlockSize)
	}

	if !w.data.fits(size) {
		if err := w.data.flush(); err != nil {
			return err
		}

		sep := MinimalSeparator(w.lastKey, key)
		if err := w.index.add(0, uint32(w.data.blocks), sep); err != nil {
			return fmt.Errorf("%w, separator of %d bytes", err, len(sep))
		}
	}

	w.data.append(key, value)
	w.lastKey = append(w.lastKey[:0], key...)
	w.count++
	return nil
}

// Close writes the index followed by the data blocks and releases all
// temporary resources. It does not close the underlying writer.
func (w *Writer[V]) Close() error {
	if w.data == nil {
		return errClosed
	}
	defer w.release()

	if err := w.data.flush(); err != nil {
		return err
	}

	hdr, err := w.index.finish(w.w, w.data.blocks)
	if err != nil {
		return err
	}

	rd, err := w.spool.Reader()
	if err != nil {
		return err
	}
	if _, err := io.Copy(w.w, rd); err != nil {
		return err
	}

	log.Infow("index written",
		"entries", w.count,
		"data_blocks", w.data.blocks,
		"index_blocks", hdr.IndexBlockCount,
		"levels", w.index.NumLevels(),
	)
	return nil
}

func (w *Writer[V]) release() {
	if err := w.spool.Close(); err != nil {
		log.Warnw("failed to remove spool", "error", err)
	}
	if err := w.index.Close(); err != nil {
		log.Warnw("failed to remove spool", "error", err)
	}
	w.data = nil
}
