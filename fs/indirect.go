package fs

import "github.com/bsurber/vfsimage/errs"

// topSlotForLevel maps an indirection level (1, 2, or 3) to the
// inode's block_p slot holding that level's top index block. Index 0
// is unused; level 0 (direct) never consults this table.
var topSlotForLevel = [4]int{-1, singleIndirectIndex, doubleIndirectIndex, tripleIndirectIndex}

func pow256(n int) uint64 {
	result := uint64(1)
	for i := 0; i < n; i++ {
		result *= PointersPerIndexBlock
	}
	return result
}

// levelForIndex classifies a logical block index k into the
// indirection level that addresses it (0 = direct, 1/2/3 = single,
// double, triple indirect) and the index's offset within that level's
// region. It fails with errs.ErrOutOfRange past triple-indirect
// capacity.
func levelForIndex(k uint64) (level int, offsetInLevel uint64, err error) {
	if k < NumDirectPointers {
		return 0, k, nil
	}
	k -= NumDirectPointers

	if k < PointersPerIndexBlock {
		return 1, k, nil
	}
	k -= PointersPerIndexBlock

	if k < PointersPerIndexBlock*PointersPerIndexBlock {
		return 2, k, nil
	}
	k -= PointersPerIndexBlock * PointersPerIndexBlock

	if k < PointersPerIndexBlock*PointersPerIndexBlock*PointersPerIndexBlock {
		return 3, k, nil
	}
	return 0, 0, errs.ErrOutOfRange
}

// getBlockK translates logical data-block index k of inode into a
// physical block number, descending direct, single, double, or triple
// indirection as needed. It fails with errs.ErrOutOfRange if k is not
// less than inode.FileSize.
func (img *Image) getBlockK(inode Inode, k uint64) (BlockPtr, error) {
	if k >= uint64(inode.FileSize) {
		return 0, errs.ErrOutOfRange
	}

	level, rem, err := levelForIndex(k)
	if err != nil {
		return 0, err
	}
	if level == 0 {
		return inode.BlockP[rem], nil
	}

	currentBlock := inode.BlockP[topSlotForLevel[level]]
	remaining := rem

	for l := level; l >= 1; l-- {
		divisor := pow256(l - 1)
		p := remaining / divisor
		remaining = remaining % divisor

		indexData, err := img.getBlock(currentBlock)
		if err != nil {
			return 0, err
		}
		ptr := readBlockPointer(indexData, int(p))

		if l == 1 {
			return ptr, nil
		}
		currentBlock = ptr
	}

	return 0, errs.ErrOutOfRange
}

// appendBlock allocates one new data block, growing inode by one
// logical block, allocating whatever index blocks are newly needed
// along the path. The caller is responsible for persisting inode with
// updateInode afterward.
func (img *Image) appendBlock(inode *Inode) error {
	k := uint64(inode.FileSize)
	level, rem, err := levelForIndex(k)
	if err != nil {
		return err
	}

	if level == 0 {
		newBlock, err := img.occupyBlock()
		if err != nil {
			return err
		}
		inode.BlockP[rem] = newBlock
		inode.FileSize++
		return nil
	}

	topSlot := topSlotForLevel[level]
	currentBlock := inode.BlockP[topSlot]
	if rem == 0 {
		// First logical block of this indirection region: the top
		// index block doesn't exist yet.
		newTop, err := img.occupyBlock()
		if err != nil {
			return err
		}
		if err := img.updateBlock(newTop, make([]byte, BlockSize)); err != nil {
			return err
		}
		currentBlock = newTop
		inode.BlockP[topSlot] = newTop
	}

	remaining := rem
	for l := level; l >= 1; l-- {
		divisor := pow256(l - 1)
		p := remaining / divisor
		remaining = remaining % divisor

		indexData, err := img.getBlock(currentBlock)
		if err != nil {
			return err
		}

		if l == 1 {
			dataBlock, err := img.occupyBlock()
			if err != nil {
				return err
			}
			writeBlockPointer(indexData, int(p), dataBlock)
			if err := img.updateBlock(currentBlock, indexData); err != nil {
				return err
			}
			inode.FileSize++
			return nil
		}

		firstUseOfSlot := remaining == 0
		var child BlockPtr
		if firstUseOfSlot {
			child, err = img.occupyBlock()
			if err != nil {
				return err
			}
			if err := img.updateBlock(child, make([]byte, BlockSize)); err != nil {
				return err
			}
			writeBlockPointer(indexData, int(p), child)
			if err := img.updateBlock(currentBlock, indexData); err != nil {
				return err
			}
		} else {
			child = readBlockPointer(indexData, int(p))
		}
		currentBlock = child
	}

	return errs.ErrOutOfRange
}

// PopResult is the tri-valued outcome of popBlock.
type PopResult int

const (
	// PopSuccess means a block was removed.
	PopSuccess PopResult = iota
	// PopNothing means the inode already had zero data blocks.
	PopNothing
	// PopOutOfRange means the inode's last logical index could not be
	// classified into a valid indirection level; this should not
	// happen for an inode only ever grown through appendBlock.
	PopOutOfRange
)

// popBlock removes inode's last data block, freeing any index blocks
// that become empty as a result. An index block at level L becomes
// empty exactly when the entry being removed was at offset 0 within
// it, since blocks are always appended/popped at the tail.
func (img *Image) popBlock(inode *Inode) (PopResult, error) {
	if inode.FileSize == 0 {
		return PopNothing, nil
	}

	k := uint64(inode.FileSize - 1)
	level, rem, err := levelForIndex(k)
	if err != nil {
		return PopOutOfRange, err
	}

	if level == 0 {
		if err := img.freeBlock(inode.BlockP[rem]); err != nil {
			return PopSuccess, err
		}
		inode.BlockP[rem] = 0
		inode.FileSize--
		return PopSuccess, nil
	}

	topSlot := topSlotForLevel[level]
	currentBlock := inode.BlockP[topSlot]
	remaining := rem
	topFreed := false

	for l := level; l >= 1; l-- {
		divisor := pow256(l - 1)
		p := remaining / divisor
		remaining = remaining % divisor

		indexData, err := img.getBlock(currentBlock)
		if err != nil {
			return PopSuccess, err
		}
		ptr := readBlockPointer(indexData, int(p))

		if l == 1 {
			if err := img.freeBlock(ptr); err != nil {
				return PopSuccess, err
			}
		}

		if p == 0 && remaining == 0 {
			if err := img.freeBlock(currentBlock); err != nil {
				return PopSuccess, err
			}
			if l == level {
				topFreed = true
			}
		}

		if l > 1 {
			currentBlock = ptr
		}
	}

	if topFreed {
		inode.BlockP[topSlot] = 0
	}
	inode.FileSize--
	return PopSuccess, nil
}
