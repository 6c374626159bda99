// Package vfstest provides in-memory image backings and fixture
// builders for exercising the fs package without touching the host
// filesystem.
package vfstest

import (
	"io"

	"github.com/xaionaro-go/bytesextra"
)

// randomAccess is the subset of bytesextra's ReadWriteSeeker this
// package relies on.
type randomAccess interface {
	io.ReaderAt
	io.WriterAt
	io.Seeker
}

// MemBacking is an fs.Backing over a fixed-capacity in-memory buffer.
// The underlying buffer is sized up front (bytesextra's
// ReadWriteSeeker cannot grow), but Size reports only the portion of
// it a caller has actually reached through WriteAt or Truncate,
// reproducing a host file's monotonically-growing length without
// needing a capacity anywhere near the full block address space.
type MemBacking struct {
	rws    randomAccess
	length int64
}

// NewMemBacking allocates a zero-filled buffer of capacity bytes and
// returns a backing over it whose reported length starts at zero.
func NewMemBacking(capacity int64) *MemBacking {
	return &MemBacking{
		rws: bytesextra.NewReadWriteSeeker(make([]byte, capacity)),
	}
}

func (m *MemBacking) ReadAt(p []byte, off int64) (int, error) {
	return m.rws.ReadAt(p, off)
}

func (m *MemBacking) WriteAt(p []byte, off int64) (int, error) {
	n, err := m.rws.WriteAt(p, off)
	if err == nil && off+int64(n) > m.length {
		m.length = off + int64(n)
	}
	return n, err
}

func (m *MemBacking) Seek(offset int64, whence int) (int64, error) {
	return m.rws.Seek(offset, whence)
}

func (m *MemBacking) Truncate(size int64) error {
	m.length = size
	return nil
}

func (m *MemBacking) Size() (int64, error) {
	return m.length, nil
}

func (m *MemBacking) Close() error {
	return nil
}
