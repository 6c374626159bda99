package fs_test

import (
	"testing"

	"github.com/bsurber/vfsimage/fs"
	"github.com/bsurber/vfsimage/vfstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fillPayload(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i % 251)
	}
	return data
}

func TestUploadCrossesSingleIndirectBoundary(t *testing.T) {
	img, _, err := vfstest.NewImage(300)
	require.NoError(t, err)
	defer img.Close()

	p, err := img.CreateFileInDir(fs.RootInode, fs.TypeRegular, "big")
	require.NoError(t, err)

	// 12 blocks: one past the 11 direct pointers, forcing the first
	// single-indirect index block into existence.
	payload := fillPayload(fs.BlockSize*12 + 5)
	require.NoError(t, img.UploadFile(p, payload))

	inode, err := img.Stat(p)
	require.NoError(t, err)
	assert.EqualValues(t, 13, inode.FileSize)

	got, err := img.DownloadFile(p)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	assert.EqualValues(t, fs.GetSizeOnDisk(inode), 13+1) // 13 data blocks + 1 single-indirect index block
}

func TestUploadFillsSingleIndirectRegionExactly(t *testing.T) {
	img, _, err := vfstest.NewImage(300)
	require.NoError(t, err)
	defer img.Close()

	p, err := img.CreateFileInDir(fs.RootInode, fs.TypeRegular, "full")
	require.NoError(t, err)

	// 11 direct + 256 single-indirect = 267 data blocks exactly.
	payload := fillPayload(fs.BlockSize * 267)
	require.NoError(t, img.UploadFile(p, payload))

	inode, err := img.Stat(p)
	require.NoError(t, err)
	assert.EqualValues(t, 268, inode.FileSize) // 267 payload blocks + 1 all-sentinel block

	got, err := img.DownloadFile(p)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestRemoveFileFreesIndexBlocksAcrossIndirectBoundary(t *testing.T) {
	img, _, err := vfstest.NewImage(300)
	require.NoError(t, err)
	defer img.Close()

	p, err := img.CreateFileInDir(fs.RootInode, fs.TypeRegular, "big")
	require.NoError(t, err)
	require.NoError(t, img.UploadFile(p, fillPayload(fs.BlockSize*20)))
	before, err := img.Stat(p)
	require.NoError(t, err)

	require.NoError(t, img.RemoveFileFromDir(fs.RootInode, p))

	assert.NoError(t, img.Validate())

	// With every data and index block freed, the same upload into a new
	// file gets exactly the same blocks back, single-indirect index
	// block included.
	again, err := img.CreateFileInDir(fs.RootInode, fs.TypeRegular, "again")
	require.NoError(t, err)
	require.NoError(t, img.UploadFile(again, fillPayload(fs.BlockSize*20)))
	after, err := img.Stat(again)
	require.NoError(t, err)
	assert.Equal(t, before.BlockP, after.BlockP)
}
