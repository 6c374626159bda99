package fs

import (
	"bytes"

	"github.com/bsurber/vfsimage/errs"
)

// ReadRegularFile returns inode's payload bytes, the data preceding
// the end-of-file sentinel in its last block. It fails with
// errs.ErrWrongType if inode is not a regular file, or
// errs.ErrCorruptFile if the last block has no sentinel.
func (img *Image) ReadRegularFile(inode Inode) ([]byte, error) {
	if !inode.IsRegular() {
		return nil, errs.ErrWrongType
	}

	size, err := img.GetRegularFileSize(inode)
	if err != nil {
		return nil, err
	}

	result := make([]byte, 0, size)
	for k := uint64(0); k < uint64(inode.FileSize); k++ {
		blockP, err := img.getBlockK(inode, k)
		if err != nil {
			return nil, err
		}
		block, err := img.getBlock(blockP)
		if err != nil {
			return nil, err
		}

		if k == uint64(inode.FileSize-1) {
			idx := bytes.IndexByte(block, sentinelByte)
			if idx == -1 {
				return nil, errs.ErrCorruptFile
			}
			result = append(result, block[:idx]...)
		} else {
			result = append(result, block...)
		}
	}
	return result, nil
}

// WriteRegularFile replaces inode's entire payload with data, freeing
// any previously held blocks first. The last block written always
// carries one end-of-file sentinel byte immediately after the
// payload; when len(data) is an exact multiple of BlockSize there is
// no room for it in a payload block, so one extra block consisting
// entirely of sentinel bytes is appended, reproducing the short-write
// behavior of the format this engine is compatible with. The caller
// is responsible for persisting inode with updateInode afterward.
func (img *Image) WriteRegularFile(inode *Inode, data []byte) error {
	if !inode.IsRegular() {
		return errs.ErrWrongType
	}

	for inode.FileSize > 0 {
		if _, err := img.popBlock(inode); err != nil {
			return err
		}
	}

	full := len(data) / BlockSize
	rem := len(data) % BlockSize

	for i := 0; i < full; i++ {
		if err := img.appendBlock(inode); err != nil {
			return err
		}
		blockP, err := img.getBlockK(*inode, uint64(inode.FileSize-1))
		if err != nil {
			return err
		}
		if err := img.updateBlock(blockP, data[i*BlockSize:(i+1)*BlockSize]); err != nil {
			return err
		}
	}

	if err := img.appendBlock(inode); err != nil {
		return err
	}
	blockP, err := img.getBlockK(*inode, uint64(inode.FileSize-1))
	if err != nil {
		return err
	}

	block := make([]byte, BlockSize)
	if rem > 0 {
		copy(block, data[full*BlockSize:])
		block[rem] = sentinelByte
	} else {
		for i := range block {
			block[i] = sentinelByte
		}
	}
	return img.updateBlock(blockP, block)
}

// UploadFile overwrites p's payload with data and persists the
// resulting inode. p must be a regular file.
func (img *Image) UploadFile(p InodePtr, data []byte) error {
	inode, err := img.getInode(p)
	if err != nil {
		return err
	}
	if err := img.WriteRegularFile(&inode, data); err != nil {
		return err
	}
	return img.updateInode(p, inode)
}

// DownloadFile returns the full payload of regular file p.
func (img *Image) DownloadFile(p InodePtr) ([]byte, error) {
	inode, err := img.getInode(p)
	if err != nil {
		return nil, err
	}
	return img.ReadRegularFile(inode)
}
