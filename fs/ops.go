package fs

import (
	"bytes"

	"github.com/bsurber/vfsimage/errs"
)

// CreateFileInDir creates a new regular file or directory named name
// inside dir, attaching a directory record, allocating a fresh inode,
// and (for directories) initializing the child's first block. It
// fails with errs.ErrInvalidName, errs.ErrUnsupported, errs.ErrWrongType,
// or errs.ErrNameTaken before anything is allocated.
func (img *Image) CreateFileInDir(dir InodePtr, fileType FileType, name string) (InodePtr, error) {
	if !IsValidName(name) {
		return 0, errs.ErrInvalidName.WithMessage(name)
	}
	if fileType != TypeDirectory && fileType != TypeRegular {
		return 0, errs.ErrUnsupported
	}

	dirInode, err := img.getInode(dir)
	if err != nil {
		return 0, err
	}
	if !dirInode.IsDirectory() {
		return 0, errs.ErrWrongType
	}

	if _, err := img.getInodeByName(dirInode, name); err == nil {
		return 0, errs.ErrNameTaken.WithMessage(name)
	}

	lastBlockP, err := img.getBlockK(dirInode, uint64(dirInode.FileSize-1))
	if err != nil {
		return 0, err
	}
	lastBlock, err := img.getBlock(lastBlockP)
	if err != nil {
		return 0, err
	}

	if isDirBlockFull(lastBlock) {
		if err := img.appendBlock(&dirInode); err != nil {
			return 0, err
		}
		lastBlockP, err = img.getBlockK(dirInode, uint64(dirInode.FileSize-1))
		if err != nil {
			return 0, err
		}
		lastBlock, err = img.getBlock(lastBlockP)
		if err != nil {
			return 0, err
		}
	}

	newInodeP, err := img.occupyInode()
	if err != nil {
		return 0, err
	}

	newInode := Inode{FileType: fileType}
	if fileType == TypeDirectory {
		if err := img.appendBlock(&newInode); err != nil {
			return 0, err
		}
		childBlock, err := img.getBlock(newInode.BlockP[0])
		if err != nil {
			return 0, err
		}
		initDirBlock(childBlock, newInodeP, dir)
		if err := img.updateBlock(newInode.BlockP[0], childBlock); err != nil {
			return 0, err
		}
	}
	if err := img.updateInode(newInodeP, newInode); err != nil {
		return 0, err
	}

	for i := 0; i < RecordsPerDirBlock; i++ {
		if isRecordEmpty(lastBlock, i) {
			writeDirRecord(lastBlock, i, newInodeP, name)
			break
		}
	}
	if err := img.updateBlock(lastBlockP, lastBlock); err != nil {
		return 0, err
	}
	if err := img.updateInode(dir, dirInode); err != nil {
		return 0, err
	}

	return newInodeP, nil
}

// DirEntry is one record of a directory listing.
type DirEntry struct {
	Inode InodePtr
	Name  string
}

// ListDir returns every record in dir, including "." and "..".
func (img *Image) ListDir(dir InodePtr) ([]DirEntry, error) {
	dirInode, err := img.getInode(dir)
	if err != nil {
		return nil, err
	}
	if !dirInode.IsDirectory() {
		return nil, errs.ErrWrongType
	}

	var entries []DirEntry
	for k := uint64(0); k < uint64(dirInode.FileSize); k++ {
		blockP, err := img.getBlockK(dirInode, k)
		if err != nil {
			return nil, err
		}
		block, err := img.getBlock(blockP)
		if err != nil {
			return nil, err
		}

		for i := 0; i < RecordsPerDirBlock; i++ {
			if isRecordEmpty(block, i) {
				break
			}
			inodeP, name := readDirRecord(block, i)
			entries = append(entries, DirEntry{Inode: inodeP, Name: name})
		}
	}
	return entries, nil
}

// RemoveFile recursively removes p: if it is a directory, every child
// (other than "." and "..") is removed first, then p's own blocks are
// popped one at a time and its inode is freed. It does not touch any
// directory record pointing at p; callers that need that use
// RemoveFileFromDir.
func (img *Image) RemoveFile(p InodePtr) error {
	inode, err := img.getInode(p)
	if err != nil {
		return err
	}

	if inode.IsDirectory() {
		for k := uint64(0); k < uint64(inode.FileSize); k++ {
			blockP, err := img.getBlockK(inode, k)
			if err != nil {
				return err
			}
			block, err := img.getBlock(blockP)
			if err != nil {
				return err
			}

			first := 0
			if k == 0 {
				first = 2 // skip "." and ".."
			}
			for i := first; i < RecordsPerDirBlock; i++ {
				if isRecordEmpty(block, i) {
					break
				}
				childP, _ := readDirRecord(block, i)
				if err := img.RemoveFile(childP); err != nil {
					return err
				}
			}
		}
	}

	for inode.FileSize > 0 {
		if _, err := img.popBlock(&inode); err != nil {
			return err
		}
	}
	return img.freeInode(p)
}

// RemoveFileFromDir removes victim's record from dir, preserving the
// directory's front-packed invariant by swapping in the last record
// before recursively removing victim, then recurses into RemoveFile.
// It fails with errs.ErrWrongType, errs.ErrOutOfRange, or
// errs.ErrNotFound.
func (img *Image) RemoveFileFromDir(dir InodePtr, victim InodePtr) error {
	dirInode, err := img.getInode(dir)
	if err != nil {
		return err
	}
	if !dirInode.IsDirectory() {
		return errs.ErrWrongType
	}

	lastK := uint64(dirInode.FileSize - 1)
	lastBlockP, err := img.getBlockK(dirInode, lastK)
	if err != nil {
		return err
	}
	lastBlock, err := img.getBlock(lastBlockP)
	if err != nil {
		return err
	}

	firstIdx := 0
	if lastK == 0 {
		firstIdx = 2
	}

	lastRecordIdx := -1
	for i := RecordsPerDirBlock - 1; i >= firstIdx; i-- {
		if !isRecordEmpty(lastBlock, i) {
			lastRecordIdx = i
			break
		}
	}
	if lastRecordIdx == -1 {
		return errs.ErrNotFound.WithMessage("directory has no entries")
	}

	lastRecordInode, lastRecordName := readDirRecord(lastBlock, lastRecordIdx)
	clearDirRecord(lastBlock, lastRecordIdx)

	blockNowEmpty := lastK != 0 && isDirBlockEmpty(lastBlock)
	if err := img.updateBlock(lastBlockP, lastBlock); err != nil {
		return err
	}

	if blockNowEmpty {
		if _, err := img.popBlock(&dirInode); err != nil {
			return err
		}
		if err := img.updateInode(dir, dirInode); err != nil {
			return err
		}
	}

	if lastRecordInode == victim {
		return img.RemoveFile(victim)
	}

	found := false
	for k := uint64(0); k < uint64(dirInode.FileSize) && !found; k++ {
		blockP, err := img.getBlockK(dirInode, k)
		if err != nil {
			return err
		}
		block, err := img.getBlock(blockP)
		if err != nil {
			return err
		}

		first := 0
		if k == 0 {
			first = 2
		}
		for i := first; i < RecordsPerDirBlock; i++ {
			if isRecordEmpty(block, i) {
				break
			}
			recInode, _ := readDirRecord(block, i)
			if recInode == victim {
				writeDirRecord(block, i, lastRecordInode, lastRecordName)
				if err := img.updateBlock(blockP, block); err != nil {
					return err
				}
				found = true
				break
			}
		}
	}
	if !found {
		return errs.ErrNotFound.WithMessage("victim not present in directory")
	}

	return img.RemoveFile(victim)
}

func ceilDiv(a, b uint64) uint64 {
	return (a + b - 1) / b
}

func min64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

// GetSizeOnDisk computes the number of blocks inode occupies, data
// blocks plus whatever index blocks its last data block's region
// requires, without reading the image.
func GetSizeOnDisk(inode Inode) uint32 {
	remaining := uint64(inode.FileSize)
	total := remaining

	direct := min64(remaining, NumDirectPointers)
	remaining -= direct

	levelCapacity := [3]uint64{
		PointersPerIndexBlock,
		PointersPerIndexBlock * PointersPerIndexBlock,
		PointersPerIndexBlock * PointersPerIndexBlock * PointersPerIndexBlock,
	}

	for level := 1; level <= 3 && remaining > 0; level++ {
		cap := levelCapacity[level-1]
		dataInLevel := min64(remaining, cap)

		total++ // the level's top index block
		for j := level - 1; j >= 1; j-- {
			total += ceilDiv(dataInLevel, pow256(j))
		}
		remaining -= dataInLevel
	}

	return uint32(total)
}

// GetRegularFileSize returns the logical byte length of a regular
// file's payload: the data up to (not including) the end-of-file
// sentinel byte in the last block. An empty file (FileSize 0) has
// length 0. It fails with errs.ErrCorruptFile if the last block has no
// sentinel.
func (img *Image) GetRegularFileSize(inode Inode) (int64, error) {
	if inode.FileSize == 0 {
		return 0, nil
	}

	lastK := uint64(inode.FileSize - 1)
	lastBlockP, err := img.getBlockK(inode, lastK)
	if err != nil {
		return 0, err
	}
	lastBlock, err := img.getBlock(lastBlockP)
	if err != nil {
		return 0, err
	}

	idx := bytes.IndexByte(lastBlock, sentinelByte)
	if idx == -1 {
		return 0, errs.ErrCorruptFile
	}
	return int64(inode.FileSize-1)*BlockSize + int64(idx), nil
}
