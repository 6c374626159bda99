package bitmap_test

import (
	"bytes"
	"testing"

	"github.com/bsurber/vfsimage/bitmap"
	"github.com/stretchr/testify/assert"
	"github.com/xaionaro-go/bytesextra"
)

func TestGetSetRoundTrip(t *testing.T) {
	page := bitmap.NewPage()
	page.Set(0, true)
	page.Set(65, true)
	page.Set(bitmap.BitsPerPage-1, true)

	assert.True(t, page.Get(0))
	assert.True(t, page.Get(65))
	assert.True(t, page.Get(bitmap.BitsPerPage-1))
	assert.False(t, page.Get(1))
}

func TestFindClearSkipsFullBytes(t *testing.T) {
	page := bitmap.NewPage()
	for i := 0; i < 20; i++ {
		page.Set(i, true)
	}

	idx, ok := page.FindClear()
	assert.True(t, ok)
	assert.Equal(t, 20, idx)
}

func TestFindClearReportsExhaustion(t *testing.T) {
	page := bitmap.NewPage()
	for i := 0; i < bitmap.BitsPerPage; i++ {
		page.Set(i, true)
	}

	_, ok := page.FindClear()
	assert.False(t, ok)
}

func TestReadWritePageAtRoundTrip(t *testing.T) {
	backing := bytesextra.NewReadWriteSeeker(make([]byte, bitmap.PageSize*2))

	page := bitmap.NewPage()
	page.Set(3, true)
	page.Set(4096, true)

	assert.NoError(t, bitmap.WritePageAt(backing, bitmap.PageSize, page))

	readBack, err := bitmap.ReadPageAt(backing, bitmap.PageSize)
	assert.NoError(t, err)
	assert.True(t, bytes.Equal(page.Bytes(), readBack.Bytes()))
}
