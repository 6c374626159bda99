package fs_test

import (
	"testing"

	"github.com/bsurber/vfsimage/fs"
	"github.com/bsurber/vfsimage/vfstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCleanTreePasses(t *testing.T) {
	img, _, err := vfstest.NewImage(vfstest.DefaultDataBlockCapacity)
	require.NoError(t, err)
	defer img.Close()

	sub, err := img.CreateFileInDir(fs.RootInode, fs.TypeDirectory, "sub")
	require.NoError(t, err)
	_, err = img.CreateFileInDir(sub, fs.TypeRegular, "file")
	require.NoError(t, err)

	assert.NoError(t, img.Validate())
}

func TestValidateFreshImagePasses(t *testing.T) {
	img, _, err := vfstest.NewImage(vfstest.DefaultDataBlockCapacity)
	require.NoError(t, err)
	defer img.Close()

	assert.NoError(t, img.Validate())
}
