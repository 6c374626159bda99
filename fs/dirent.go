package fs

import (
	"bytes"

	"github.com/bsurber/vfsimage/errs"
)

// selfName is the name ".", used for a directory's self-entry.
const selfName = "."

// parentName is the name "..", used for a directory's parent entry.
const parentName = ".."

func recordOffset(idx int) int {
	return idx * DirRecordSize
}

// isRecordEmpty reports whether the record at idx in a raw directory
// block is empty: its name field's first byte is NUL.
func isRecordEmpty(block []byte, idx int) bool {
	return block[recordOffset(idx)+2] == 0
}

// readDirRecord decodes the inode pointer and name of the record at
// idx in a raw directory block.
func readDirRecord(block []byte, idx int) (InodePtr, string) {
	off := recordOffset(idx)
	inodeP := InodePtr(uint16(block[off]) | uint16(block[off+1])<<8)

	nameBytes := block[off+2 : off+DirRecordSize]
	end := bytes.IndexByte(nameBytes, 0)
	if end == -1 {
		end = len(nameBytes)
	}
	return inodeP, string(nameBytes[:end])
}

// writeDirRecord encodes an inode pointer and NUL-padded name into the
// record at idx in a raw directory block.
func writeDirRecord(block []byte, idx int, inode InodePtr, name string) {
	off := recordOffset(idx)
	block[off] = byte(inode)
	block[off+1] = byte(inode >> 8)

	nameField := block[off+2 : off+DirRecordSize]
	for i := range nameField {
		nameField[i] = 0
	}
	copy(nameField, name)
}

// clearDirRecord overwrites the record at idx with an empty record.
func clearDirRecord(block []byte, idx int) {
	off := recordOffset(idx)
	for i := 0; i < DirRecordSize; i++ {
		block[off+i] = 0
	}
}

// clearDirBlock resets every record in a raw directory block to empty.
func clearDirBlock(block []byte) {
	for i := range block {
		block[i] = 0
	}
}

// initDirBlock resets a raw directory block to empty and then writes
// "." -> self and ".." -> parent as the first two records. This is
// only ever done for the first block of a directory; later blocks are
// appended through appendBlock, whose newly occupied block is already
// zero-filled and so holds only empty records.
func initDirBlock(block []byte, self, parent InodePtr) {
	clearDirBlock(block)
	writeDirRecord(block, 0, self, selfName)
	writeDirRecord(block, 1, parent, parentName)
}

// isDirBlockFull reports whether every record in a raw directory block
// is occupied.
func isDirBlockFull(block []byte) bool {
	for i := 0; i < RecordsPerDirBlock; i++ {
		if isRecordEmpty(block, i) {
			return false
		}
	}
	return true
}

// isDirBlockEmpty reports whether every record in a raw directory
// block is empty.
func isDirBlockEmpty(block []byte) bool {
	return isRecordEmpty(block, 0)
}

// getInodeByName scans dirInode's blocks in order for a record whose
// name matches name, and returns its inode pointer. It fails with
// errs.ErrNotFound if no record matches.
func (img *Image) getInodeByName(dirInode Inode, name string) (InodePtr, error) {
	for k := uint64(0); k < uint64(dirInode.FileSize); k++ {
		p, err := img.getBlockK(dirInode, k)
		if err != nil {
			return 0, err
		}
		block, err := img.getBlock(p)
		if err != nil {
			return 0, err
		}

		for i := 0; i < RecordsPerDirBlock; i++ {
			if isRecordEmpty(block, i) {
				break
			}
			recInode, recName := readDirRecord(block, i)
			if recName == name {
				return recInode, nil
			}
		}
	}
	return 0, errs.ErrNotFound.WithMessage(name)
}

// getNameByInode scans dirInode's blocks in order for a record whose
// inode pointer matches target, and returns its name. It fails with
// errs.ErrNotFound if no record matches.
func (img *Image) getNameByInode(dirInode Inode, target InodePtr) (string, error) {
	for k := uint64(0); k < uint64(dirInode.FileSize); k++ {
		p, err := img.getBlockK(dirInode, k)
		if err != nil {
			return "", err
		}
		block, err := img.getBlock(p)
		if err != nil {
			return "", err
		}

		for i := 0; i < RecordsPerDirBlock; i++ {
			if isRecordEmpty(block, i) {
				break
			}
			recInode, recName := readDirRecord(block, i)
			if recInode == target {
				return recName, nil
			}
		}
	}
	return "", errs.ErrNotFound
}
