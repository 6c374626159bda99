package fs

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Validate walks the whole image and reports every invariant
// violation it finds. It never modifies the image; callers decide
// whether a non-nil result is fatal. The checks performed are:
//
//  1. every data block an allocated inode reaches through its
//     indirection tree is marked allocated in the block bitmap, and no
//     two inodes claim the same data block (index blocks are not
//     checked);
//  2. every directory's first block begins with "." pointing at
//     itself and ".." pointing at its true parent;
//  3. every directory block is front-packed: no empty record precedes
//     an occupied one;
//  4. an inode's file_size never exceeds the indirection tree's
//     addressable capacity for its block_p contents.
func (img *Image) Validate() error {
	var result *multierror.Error

	claimed := make(map[BlockPtr]InodePtr)

	inodeBitmap, err := img.readInodeBitmap()
	if err != nil {
		return fmt.Errorf("reading inode bitmap: %w", err)
	}

	for i := 0; i < NumInodes; i++ {
		if !inodeBitmap.Get(i) {
			continue
		}
		p := InodePtr(i)
		inode, err := img.getInode(p)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("inode %d: %w", p, err))
			continue
		}

		if _, _, err := levelForIndex(uint64(inode.FileSize) - 1); inode.FileSize > 0 && err != nil {
			result = multierror.Append(result, fmt.Errorf("inode %d: file_size %d exceeds indirection capacity", p, inode.FileSize))
		}

		for k := uint64(0); k < uint64(inode.FileSize); k++ {
			blockP, err := img.getBlockK(inode, k)
			if err != nil {
				result = multierror.Append(result, fmt.Errorf("inode %d: block %d: %w", p, k, err))
				continue
			}
			allocated, err := img.isBlockAllocated(blockP)
			if err != nil {
				result = multierror.Append(result, fmt.Errorf("inode %d: block %d: %w", p, k, err))
				continue
			}
			if !allocated {
				result = multierror.Append(result, fmt.Errorf("inode %d: data block %d (physical %d) not marked allocated", p, k, blockP))
			}
			if owner, taken := claimed[blockP]; taken {
				result = multierror.Append(result, fmt.Errorf("physical block %d claimed by both inode %d and inode %d", blockP, owner, p))
			} else {
				claimed[blockP] = p
			}
		}

		if inode.IsDirectory() {
			if err := img.validateDirectory(p, inode); err != nil {
				result = multierror.Append(result, err)
			}
		}
	}

	return result.ErrorOrNil()
}

func (img *Image) validateDirectory(p InodePtr, inode Inode) error {
	var result *multierror.Error

	if inode.FileSize == 0 {
		return fmt.Errorf("directory %d: has no blocks", p)
	}

	firstBlockP, err := img.getBlockK(inode, 0)
	if err != nil {
		return fmt.Errorf("directory %d: %w", p, err)
	}
	firstBlock, err := img.getBlock(firstBlockP)
	if err != nil {
		return fmt.Errorf("directory %d: %w", p, err)
	}

	selfP, selfName := readDirRecord(firstBlock, 0)
	if selfName != "." || selfP != p {
		result = multierror.Append(result, fmt.Errorf("directory %d: record 0 is %q -> %d, want \".\" -> %d", p, selfName, selfP, p))
	}

	upP, upName := readDirRecord(firstBlock, 1)
	upOK := upName == ".."
	if upOK && p == RootInode {
		upOK = upP == RootInode
	} else if upOK {
		upInode, err := img.getInode(upP)
		upOK = err == nil && upInode.IsDirectory()
		if upOK {
			_, err = img.getNameByInode(upInode, p)
			upOK = err == nil
		}
	}
	if !upOK {
		result = multierror.Append(result, fmt.Errorf("directory %d: record 1 is %q -> %d, want \"..\" -> a directory that lists it", p, upName, upP))
	}

	for k := uint64(0); k < uint64(inode.FileSize); k++ {
		blockP, err := img.getBlockK(inode, k)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("directory %d: block %d: %w", p, k, err))
			continue
		}
		block, err := img.getBlock(blockP)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("directory %d: block %d: %w", p, k, err))
			continue
		}

		seenEmpty := false
		for i := 0; i < RecordsPerDirBlock; i++ {
			if isRecordEmpty(block, i) {
				seenEmpty = true
				continue
			}
			if seenEmpty {
				result = multierror.Append(result, fmt.Errorf("directory %d: block %d: occupied record %d follows an empty one", p, k, i))
			}
		}
	}

	return result.ErrorOrNil()
}
