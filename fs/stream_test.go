package fs_test

import (
	"testing"

	"github.com/bsurber/vfsimage/fs"
	"github.com/bsurber/vfsimage/vfstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadRejectsDirectory(t *testing.T) {
	img, _, err := vfstest.NewImage(vfstest.DefaultDataBlockCapacity)
	require.NoError(t, err)
	defer img.Close()

	dirP, err := img.CreateFileInDir(fs.RootInode, fs.TypeDirectory, "d")
	require.NoError(t, err)

	err = img.UploadFile(dirP, []byte("nope"))
	assert.Error(t, err)
}

func TestUploadReplacesExistingPayload(t *testing.T) {
	img, _, err := vfstest.NewImage(vfstest.DefaultDataBlockCapacity)
	require.NoError(t, err)
	defer img.Close()

	p, err := img.CreateFileInDir(fs.RootInode, fs.TypeRegular, "f")
	require.NoError(t, err)

	require.NoError(t, img.UploadFile(p, make([]byte, fs.BlockSize*3+100)))
	require.NoError(t, img.UploadFile(p, []byte("short")))

	got, err := img.DownloadFile(p)
	require.NoError(t, err)
	assert.Equal(t, []byte("short"), got)

	inode, err := img.Stat(p)
	require.NoError(t, err)
	assert.EqualValues(t, 1, inode.FileSize)
}

func TestUploadPartialLastBlockSentinelPlacement(t *testing.T) {
	img, _, err := vfstest.NewImage(vfstest.DefaultDataBlockCapacity)
	require.NoError(t, err)
	defer img.Close()

	p, err := img.CreateFileInDir(fs.RootInode, fs.TypeRegular, "f")
	require.NoError(t, err)

	payload := make([]byte, fs.BlockSize+17)
	for i := range payload {
		payload[i] = 0x42
	}
	require.NoError(t, img.UploadFile(p, payload))

	inode, err := img.Stat(p)
	require.NoError(t, err)
	assert.EqualValues(t, 2, inode.FileSize)

	size, err := img.GetRegularFileSize(inode)
	require.NoError(t, err)
	assert.EqualValues(t, len(payload), size)
}
