package fs

import (
	"github.com/bsurber/vfsimage/bitmap"
	"github.com/bsurber/vfsimage/errs"
)

// numBlockBitmapPages is the number of bitmap.PageSize pages needed to
// cover the full 2^32-bit block address space.
const numBlockBitmapPages = blockBitmapBytes / bitmap.PageSize

func blockBitmapPageOffset(page int) int64 {
	return blockBitmapOffset + int64(page)*bitmap.PageSize
}

// isBlockAllocated reports whether block p is both marked allocated in
// the block bitmap and within the current host-file length; a set bit
// whose byte offset has not yet been materialized by a Write is not
// considered allocated.
func (img *Image) isBlockAllocated(p BlockPtr) (bool, error) {
	page, bit, err := img.readBlockBitmapPage(p)
	if err != nil {
		return false, err
	}
	if !page.Get(bit) {
		return false, nil
	}

	length, err := img.backing.Size()
	if err != nil {
		return false, errs.ErrHostIO.Wrap(err)
	}
	return blockOffset(p)+BlockSize <= length, nil
}

func blockOffset(p BlockPtr) int64 {
	return BlocksOffset + int64(p)*BlockSize
}

func (img *Image) readBlockBitmapPage(p BlockPtr) (bitmap.Page, int, error) {
	pageIdx := int(p) / bitmap.BitsPerPage
	bit := int(p) % bitmap.BitsPerPage
	page, err := bitmap.ReadPageAt(img.backing, blockBitmapPageOffset(pageIdx))
	if err != nil {
		return nil, 0, errs.ErrHostIO.Wrap(err)
	}
	return page, bit, nil
}

// occupyBlock scans the block bitmap page by page for the first clear
// bit, sets it, and extends the host file with a zero-filled block at
// the new block's offset. It returns errs.ErrNoSpace if every page is
// full.
func (img *Image) occupyBlock() (BlockPtr, error) {
	for pageIdx := 0; pageIdx < numBlockBitmapPages; pageIdx++ {
		offset := blockBitmapPageOffset(pageIdx)
		page, err := bitmap.ReadPageAt(img.backing, offset)
		if err != nil {
			return 0, errs.ErrHostIO.Wrap(err)
		}

		bit, ok := page.FindClear()
		if !ok {
			continue
		}

		page.Set(bit, true)
		if err := bitmap.WritePageAt(img.backing, offset, page); err != nil {
			return 0, errs.ErrHostIO.Wrap(err)
		}

		p := BlockPtr(pageIdx*bitmap.BitsPerPage + bit)
		zero := make([]byte, BlockSize)
		if _, err := img.backing.WriteAt(zero, blockOffset(p)); err != nil {
			return 0, errs.ErrHostIO.Wrap(err)
		}
		return p, nil
	}

	return 0, errs.ErrNoSpace
}

// freeBlock clears block p's bitmap bit. The host file is never
// shrunk; the block merely becomes reusable.
func (img *Image) freeBlock(p BlockPtr) error {
	page, bit, err := img.readBlockBitmapPage(p)
	if err != nil {
		return err
	}
	page.Set(bit, false)

	pageIdx := int(p) / bitmap.BitsPerPage
	if err := bitmap.WritePageAt(img.backing, blockBitmapPageOffset(pageIdx), page); err != nil {
		return errs.ErrHostIO.Wrap(err)
	}
	return nil
}

// getBlock reads the raw contents of data block p.
func (img *Image) getBlock(p BlockPtr) ([]byte, error) {
	buf := make([]byte, BlockSize)
	if _, err := img.backing.ReadAt(buf, blockOffset(p)); err != nil {
		return nil, errs.ErrHostIO.Wrap(err)
	}
	return buf, nil
}

// updateBlock overwrites the raw contents of data block p. data must be
// exactly BlockSize bytes.
func (img *Image) updateBlock(p BlockPtr, data []byte) error {
	if _, err := img.backing.WriteAt(data, blockOffset(p)); err != nil {
		return errs.ErrHostIO.Wrap(err)
	}
	return nil
}
