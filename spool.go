package blockindex

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/golang/snappy"
)

// spool is an append-only buffer which is kept in memory until it exceeds
// a threshold and is then spilled to a temporary file.
type spool struct {
	dir   string
	limit int
	comp  Compression

	mem  bytes.Buffer
	file *os.File
	w    io.Writer
	bw   *bufio.Writer
	zw   *snappy.Writer
}

func newSpool(o *WriterOptions) *spool {
	return &spool{
		dir:   o.TempDir,
		limit: o.SpillThreshold,
		comp:  o.SpoolCompression,
	}
}

// Write implements io.Writer.
func (s *spool) Write(p []byte) (int, error) {
	if s.file == nil {
		if s.limit < 0 || s.mem.Len()+len(p) <= s.limit {
			return s.mem.Write(p)
		}
		if err := s.spill(); err != nil {
			return 0, err
		}
	}
	return s.w.Write(p)
}

func (s *spool) spill() error {
	f, err := os.CreateTemp(s.dir, "blockindex-*.spool")
	if err != nil {
		return err
	}
	s.file = f

	switch s.comp {
	case SnappyCompression:
		s.zw = snappy.NewBufferedWriter(f)
		s.w = s.zw
	default:
		s.bw = bufio.NewWriterSize(f, 64*1024)
		s.w = s.bw
	}

	log.Debugw("spilling to disk", "path", f.Name(), "buffered", s.mem.Len(), "compression", s.comp == SnappyCompression)
	if _, err := s.w.Write(s.mem.Bytes()); err != nil {
		return err
	}
	s.mem = bytes.Buffer{}
	return nil
}

// Reader flushes pending writes and returns a reader over the full content.
// The spool must not be written to afterwards.
func (s *spool) Reader() (io.Reader, error) {
	if s.file == nil {
		return bytes.NewReader(s.mem.Bytes()), nil
	}

	if s.zw != nil {
		if err := s.zw.Close(); err != nil {
			return nil, err
		}
	} else if err := s.bw.Flush(); err != nil {
		return nil, err
	}

	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	if s.zw != nil {
		return snappy.NewReader(s.file), nil
	}
	return bufio.NewReaderSize(s.file, 64*1024), nil
}

// Close releases the memory and removes the temporary file, if any.
func (s *spool) Close() error {
	s.mem = bytes.Buffer{}
	if s.file == nil {
		return nil
	}

	name := s.file.Name()
	err := s.file.Close()
	if e := os.Remove(name); e != nil && err == nil {
		err = e
	}
	s.file = nil
	return err
}
