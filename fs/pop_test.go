package fs

import "testing"

// testBacking is a tiny in-memory Backing used only by this file's
// white-box tests, so they can reach unexported helpers (popBlock,
// getInode, readBlockPointer) without importing vfstest, which would
// import this package and create an import cycle.
type testBacking struct {
	buf []byte
}

func newTestBacking(size int64) *testBacking {
	return &testBacking{buf: make([]byte, size)}
}

func (b *testBacking) ReadAt(p []byte, off int64) (int, error) {
	n := copy(p, b.buf[off:])
	return n, nil
}

func (b *testBacking) WriteAt(p []byte, off int64) (int, error) {
	n := copy(b.buf[off:], p)
	return n, nil
}

func (b *testBacking) Seek(offset int64, whence int) (int64, error) { return offset, nil }
func (b *testBacking) Close() error                                 { return nil }

func (b *testBacking) Truncate(size int64) error {
	if int64(len(b.buf)) >= size {
		return nil
	}
	grown := make([]byte, size)
	copy(grown, b.buf)
	b.buf = grown
	return nil
}

func (b *testBacking) Size() (int64, error) {
	return int64(len(b.buf)), nil
}

// TestPopBlockDoesNotFreeDoubleIndirectTopWhenChildStillLive builds a
// file whose last four data blocks live in the double-indirect
// region's first mid-block (logical indices 267-270), then pops a
// single block and checks that the double-indirect top index block,
// and the mid-block beneath it, are left in place: only the bottom
// entry (p==0 at the mid level) should ever free an index block, and
// only once every higher level's remaining offset is also zero.
func TestPopBlockDoesNotFreeDoubleIndirectTopWhenChildStillLive(t *testing.T) {
	backing := newTestBacking(BlocksOffset + int64(400)*BlockSize)
	img, err := CreateBacking(backing)
	if err != nil {
		t.Fatalf("CreateBacking: %v", err)
	}

	p, err := img.CreateFileInDir(RootInode, TypeRegular, "big")
	if err != nil {
		t.Fatalf("CreateFileInDir: %v", err)
	}
	inode, err := img.getInode(p)
	if err != nil {
		t.Fatalf("getInode: %v", err)
	}

	// 271 data blocks: 11 direct + 256 single-indirect + 4 double-indirect
	// (logical indices 267, 268, 269, 270), all within the first mid-block
	// under the double-indirect top index block.
	for i := 0; i < 271; i++ {
		if err := img.appendBlock(&inode); err != nil {
			t.Fatalf("appendBlock %d: %v", i, err)
		}
	}
	if err := img.updateInode(p, inode); err != nil {
		t.Fatalf("updateInode: %v", err)
	}

	topBefore := inode.BlockP[doubleIndirectIndex]
	if topBefore == 0 {
		t.Fatalf("expected a double-indirect top index block to exist")
	}
	topData, err := img.getBlock(topBefore)
	if err != nil {
		t.Fatalf("getBlock(top): %v", err)
	}
	midBlock := readBlockPointer(topData, 0)
	if midBlock == 0 {
		t.Fatalf("expected mid-block 0 under the double-indirect top to exist")
	}

	// Pop the last block (logical index 270, the fourth entry in the
	// mid-block). The mid-block still holds three live entries
	// afterward, so neither it nor the top index block may be freed.
	if _, err := img.popBlock(&inode); err != nil {
		t.Fatalf("popBlock: %v", err)
	}
	if err := img.updateInode(p, inode); err != nil {
		t.Fatalf("updateInode after pop: %v", err)
	}

	if inode.BlockP[doubleIndirectIndex] != topBefore {
		t.Fatalf("double-indirect top index block was freed while its mid-block still had live entries")
	}

	topAllocated, err := img.isBlockAllocated(topBefore)
	if err != nil {
		t.Fatalf("isBlockAllocated(top): %v", err)
	}
	if !topAllocated {
		t.Fatalf("double-indirect top index block was marked free while still referenced")
	}

	midAllocated, err := img.isBlockAllocated(midBlock)
	if err != nil {
		t.Fatalf("isBlockAllocated(mid): %v", err)
	}
	if !midAllocated {
		t.Fatalf("mid-block was marked free while it still holds three live data-block pointers")
	}

	// The mid-block's remaining three entries must still resolve to
	// allocated data blocks.
	midData, err := img.getBlock(midBlock)
	if err != nil {
		t.Fatalf("getBlock(mid): %v", err)
	}
	for i := 0; i < 3; i++ {
		dataBlock := readBlockPointer(midData, i)
		if dataBlock == 0 {
			t.Fatalf("mid-block entry %d was cleared by the pop", i)
		}
		allocated, err := img.isBlockAllocated(dataBlock)
		if err != nil {
			t.Fatalf("isBlockAllocated(data %d): %v", i, err)
		}
		if !allocated {
			t.Fatalf("mid-block entry %d points at a freed block", i)
		}
	}
}
