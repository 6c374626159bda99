package fs

import (
	"bytes"
	"encoding/binary"
)

// rawInode is the exact 64-byte on-disk layout: a 32-bit signed file
// type, a 32-bit file size in data blocks, and 14 block pointers.
type rawInode struct {
	FileType int32
	FileSize uint32
	BlockP   [NumBlockPointers]uint32
}

// Inode is the decoded, convenient-to-use form of a rawInode.
type Inode struct {
	// FileType is NONE, DIRECTORY, or REGULAR.
	FileType FileType
	// FileSize is the number of data blocks holding the file's payload;
	// it does not count intermediate index blocks.
	FileSize uint32
	// BlockP holds the 14 block pointers: [0..10] direct, [11] single
	// indirect, [12] double indirect, [13] triple indirect.
	BlockP [NumBlockPointers]BlockPtr
}

// IsDirectory reports whether the inode describes a directory.
func (inode Inode) IsDirectory() bool {
	return inode.FileType == TypeDirectory
}

// IsRegular reports whether the inode describes a regular file.
func (inode Inode) IsRegular() bool {
	return inode.FileType == TypeRegular
}

func decodeInode(data []byte) (Inode, error) {
	var raw rawInode
	reader := bytes.NewReader(data)
	if err := binary.Read(reader, binary.LittleEndian, &raw); err != nil {
		return Inode{}, err
	}

	inode := Inode{
		FileType: FileType(raw.FileType),
		FileSize: raw.FileSize,
	}
	for i, p := range raw.BlockP {
		inode.BlockP[i] = BlockPtr(p)
	}
	return inode, nil
}

func encodeInode(inode Inode) []byte {
	raw := rawInode{
		FileType: int32(inode.FileType),
		FileSize: inode.FileSize,
	}
	for i, p := range inode.BlockP {
		raw.BlockP[i] = uint32(p)
	}

	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, &raw)
	return buf.Bytes()
}
