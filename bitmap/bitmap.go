// Package bitmap implements the bit-level primitives the block and
// inode allocators are built on: bit read/write on a byte buffer, and
// bulk paged I/O of a bitmap region so that scanning the 512 MiB block
// bitmap never requires holding the whole thing in memory at once.
package bitmap

import (
	"io"

	gobitmap "github.com/boljen/go-bitmap"
)

// PageSize is the size, in bytes, of one bitmap page: 8192 bytes, i.e.
// 65536 bits. The block bitmap is read and written one page at a time;
// the inode bitmap (8192 bytes total) is exactly one page and is always
// read and written whole.
const PageSize = 8192

// BitsPerPage is the number of bits addressable within a single page.
const BitsPerPage = PageSize * 8

// Page is one page's worth of bitmap bits, addressable bit-by-bit.
// It is a thin wrapper around the upstream go-bitmap representation so
// that the bit layout (bit i at byte i/8, mask 1<<(i%8)) matches the
// on-disk format exactly.
type Page gobitmap.Bitmap

// NewPage allocates a zeroed page.
func NewPage() Page {
	return Page(make([]byte, PageSize))
}

// Get reports whether bit i is set.
func (p Page) Get(i int) bool {
	return gobitmap.Bitmap(p).Get(i)
}

// Set sets or clears bit i.
func (p Page) Set(i int, value bool) {
	gobitmap.Bitmap(p).Set(i, value)
}

// Bytes returns the page's underlying raw bytes, suitable for writing
// back to the image verbatim.
func (p Page) Bytes() []byte {
	return []byte(p)
}

// FindClear scans the page for the lowest-indexed clear bit. It skips
// entire 0xFF bytes without examining individual bits, since a fully
// allocated page is the common case once a bitmap fills up.
func (p Page) FindClear() (int, bool) {
	raw := p.Bytes()
	for byteIdx, b := range raw {
		if b == 0xFF {
			continue
		}
		for bit := 0; bit < 8; bit++ {
			if b&(1<<uint(bit)) == 0 {
				return byteIdx*8 + bit, true
			}
		}
	}
	return 0, false
}

// ReadPageAt reads one page of bitmap data from r starting at byteOffset.
func ReadPageAt(r io.ReaderAt, byteOffset int64) (Page, error) {
	page := NewPage()
	if _, err := r.ReadAt(page.Bytes(), byteOffset); err != nil {
		return nil, err
	}
	return page, nil
}

// WritePageAt writes one page of bitmap data to w starting at byteOffset.
func WritePageAt(w io.WriterAt, byteOffset int64, page Page) error {
	_, err := w.WriteAt(page.Bytes(), byteOffset)
	return err
}
