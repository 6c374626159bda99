// Package fs implements the on-image filesystem engine: the superblock,
// the block and inode bitmap allocators, the inode block-pointer
// indirection tree, directory record management, path resolution, and
// the composite operations that build file-tree semantics on top of
// those primitives.
package fs

const (
	// BlockSize is the fixed size of a data block, in bytes.
	BlockSize = 1024

	// Magic is the superblock's magic number.
	Magic = 0x53EF53EF

	// NumInodes is the total number of inode slots the image reserves,
	// covering the full 16-bit inode pointer space.
	NumInodes = 1 << 16

	// InodeRecordSize is the fixed on-disk size of one inode, in bytes.
	InodeRecordSize = 64

	// blockBitmapBytes covers the full 32-bit block address space: one
	// bit per block, 2^32/8 bytes.
	blockBitmapBytes = (1 << 32) / 8

	// inodeBitmapBytes covers NumInodes, one bit per inode.
	inodeBitmapBytes = NumInodes / 8

	// inodeTableBytes is the fixed size of the whole inode table region.
	inodeTableBytes = NumInodes * InodeRecordSize

	// superblockBytes is the on-disk size of the superblock: two
	// little-endian uint32 fields, magic and block size.
	superblockBytes = 8

	// PointersPerIndexBlock is the number of 4-byte block pointers that
	// fit in one index block.
	PointersPerIndexBlock = BlockSize / 4

	// DirRecordSize is the fixed on-disk size of one directory record.
	DirRecordSize = 16
	// DirNameSize is the size of the NUL-padded name field within a
	// directory record.
	DirNameSize = 14
	// RecordsPerDirBlock is the number of directory records packed into
	// one data block.
	RecordsPerDirBlock = BlockSize / DirRecordSize

	// NumDirectPointers is the count of direct block pointers in
	// block_p, entries [0..NumDirectPointers).
	NumDirectPointers = 11
	// singleIndirectIndex is the inode's block_p slot holding the
	// single-indirect index block.
	singleIndirectIndex = 11
	// doubleIndirectIndex is the inode's block_p slot holding the
	// double-indirect index block.
	doubleIndirectIndex = 12
	// tripleIndirectIndex is the inode's block_p slot holding the
	// triple-indirect index block.
	tripleIndirectIndex = 13
	// NumBlockPointers is the total size of the block_p array.
	NumBlockPointers = 14
)

// Region offsets, the running sums of the fixed-size regions in their
// on-disk order: superblock, block bitmap, inode bitmap, inode table,
// blocks.
const (
	superblockOffset  = 0
	blockBitmapOffset = superblockOffset + superblockBytes
	inodeBitmapOffset = blockBitmapOffset + blockBitmapBytes
	inodeTableOffset  = inodeBitmapOffset + inodeBitmapBytes
	// BlocksOffset is the byte offset of the start of the blocks region;
	// block p's data lives at BlocksOffset + BlockSize*p.
	BlocksOffset = inodeTableOffset + inodeTableBytes
)

// RootInode is the inode pointer reserved for the root directory. It is
// always allocated and is never freed.
const RootInode InodePtr = 0

// sentinelByte marks the first byte past a regular file's payload in
// its last data block. It is written by upload and stops cat/download;
// a regular file's payload may not contain this byte.
const sentinelByte byte = 0xFF

// maxLogicalBlock is the highest logical block index an inode can
// address via direct + single + double + triple indirection.
const maxLogicalBlock = NumDirectPointers +
	PointersPerIndexBlock +
	PointersPerIndexBlock*PointersPerIndexBlock +
	PointersPerIndexBlock*PointersPerIndexBlock*PointersPerIndexBlock - 1
