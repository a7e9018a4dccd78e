package blockindex

import (
	"os"

	mmap "github.com/edsrzf/mmap-go"
)

// Open maps a file into memory and opens a reader. The reader must be
// closed after use.
func Open[V any](name string, codec ValueCodec[V], o *ReaderOptions) (*Reader[V], error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	r, err := NewReader(m, codec, o)
	if err != nil {
		_ = m.Unmap()
		_ = f.Close()
		return nil, err
	}
	r.closer = &mappedFile{file: f, mmap: m}
	return r, nil
}

type mappedFile struct {
	file *os.File
	mmap mmap.MMap
}

func (m *mappedFile) Close() error {
	if err := m.mmap.Unmap(); err != nil {
		return err
	}
	return m.file.Close()
}
