package fs

import (
	"encoding/binary"

	"github.com/bsurber/vfsimage/bitmap"
	"github.com/bsurber/vfsimage/errs"
)

// readInodeBitmap reads the whole inode bitmap (8192 bytes, exactly one
// bitmap.Page) in a single call.
func (img *Image) readInodeBitmap() (bitmap.Page, error) {
	page, err := bitmap.ReadPageAt(img.backing, inodeBitmapOffset)
	if err != nil {
		return nil, errs.ErrHostIO.Wrap(err)
	}
	return page, nil
}

func (img *Image) writeInodeBitmap(page bitmap.Page) error {
	if err := bitmap.WritePageAt(img.backing, inodeBitmapOffset, page); err != nil {
		return errs.ErrHostIO.Wrap(err)
	}
	return nil
}

// occupyInode scans the inode bitmap for the lowest-indexed free inode,
// marks it allocated, resets its slot to the empty state, and returns
// its pointer. It fails with errs.ErrNoSpace if every inode is in use.
func (img *Image) occupyInode() (InodePtr, error) {
	page, err := img.readInodeBitmap()
	if err != nil {
		return 0, err
	}

	bit, ok := page.FindClear()
	if !ok {
		return 0, errs.ErrNoSpace
	}

	page.Set(bit, true)
	if err := img.writeInodeBitmap(page); err != nil {
		return 0, err
	}

	p := InodePtr(bit)
	if err := img.updateInode(p, Inode{FileType: TypeNone}); err != nil {
		return 0, err
	}
	return p, nil
}

// freeInode clears p's bitmap bit. The slot's contents are left as-is
// for the next occupier to overwrite.
func (img *Image) freeInode(p InodePtr) error {
	page, err := img.readInodeBitmap()
	if err != nil {
		return err
	}
	page.Set(int(p), false)
	return img.writeInodeBitmap(page)
}

func inodeOffset(p InodePtr) int64 {
	return inodeTableOffset + int64(p)*InodeRecordSize
}

// getInode reads and decodes inode p's 64-byte record.
func (img *Image) getInode(p InodePtr) (Inode, error) {
	buf := make([]byte, InodeRecordSize)
	if _, err := img.backing.ReadAt(buf, inodeOffset(p)); err != nil {
		return Inode{}, errs.ErrHostIO.Wrap(err)
	}
	return decodeInode(buf)
}

// updateInode encodes and writes inode p's 64-byte record.
func (img *Image) updateInode(p InodePtr, inode Inode) error {
	buf := encodeInode(inode)
	if _, err := img.backing.WriteAt(buf, inodeOffset(p)); err != nil {
		return errs.ErrHostIO.Wrap(err)
	}
	return nil
}

// readBlockPointer reads the p-th 4-byte little-endian block pointer
// out of an index block's raw bytes.
func readBlockPointer(indexBlock []byte, p int) BlockPtr {
	return BlockPtr(binary.LittleEndian.Uint32(indexBlock[p*4 : p*4+4]))
}

// writeBlockPointer writes the p-th 4-byte little-endian block pointer
// into an index block's raw bytes.
func writeBlockPointer(indexBlock []byte, p int, value BlockPtr) {
	binary.LittleEndian.PutUint32(indexBlock[p*4:p*4+4], uint32(value))
}
