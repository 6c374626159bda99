package shell_test

import (
	"strings"
	"testing"

	"github.com/bsurber/vfsimage/shell"
	"github.com/bsurber/vfsimage/vfstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchMkdirCdPwd(t *testing.T) {
	img, _, err := vfstest.NewImage(vfstest.DefaultDataBlockCapacity)
	require.NoError(t, err)
	defer img.Close()

	state := shell.NewState()

	_, err = shell.Dispatch(img, state, "mkdir sub")
	require.NoError(t, err)

	_, err = shell.Dispatch(img, state, "cd sub")
	require.NoError(t, err)

	out, err := shell.Dispatch(img, state, "pwd")
	require.NoError(t, err)
	assert.Equal(t, "/sub", out)

	_, err = shell.Dispatch(img, state, "cd ..")
	require.NoError(t, err)

	out, err = shell.Dispatch(img, state, "pwd")
	require.NoError(t, err)
	assert.Equal(t, "/", out)
}

func TestDispatchLsShowsDirectorySuffix(t *testing.T) {
	img, _, err := vfstest.NewImage(vfstest.DefaultDataBlockCapacity)
	require.NoError(t, err)
	defer img.Close()

	state := shell.NewState()
	_, err = shell.Dispatch(img, state, "mkdir sub")
	require.NoError(t, err)
	_, err = shell.Dispatch(img, state, "touch file.txt")
	require.NoError(t, err)

	out, err := shell.Dispatch(img, state, "ls")
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "sub/"))
	assert.True(t, strings.Contains(out, "file.txt"))
	assert.False(t, strings.Contains(out, "file.txt/"))
}

func TestDispatchRmdirRejectsNonEmpty(t *testing.T) {
	img, _, err := vfstest.NewImage(vfstest.DefaultDataBlockCapacity)
	require.NoError(t, err)
	defer img.Close()

	state := shell.NewState()
	_, err = shell.Dispatch(img, state, "mkdir sub")
	require.NoError(t, err)
	_, err = shell.Dispatch(img, state, "cd sub")
	require.NoError(t, err)
	_, err = shell.Dispatch(img, state, "touch f")
	require.NoError(t, err)
	_, err = shell.Dispatch(img, state, "cd ..")
	require.NoError(t, err)

	_, err = shell.Dispatch(img, state, "rmdir sub")
	assert.Error(t, err)
}

func TestDispatchUnmountSignalsEnd(t *testing.T) {
	img, _, err := vfstest.NewImage(vfstest.DefaultDataBlockCapacity)
	require.NoError(t, err)
	defer img.Close()

	state := shell.NewState()
	_, err = shell.Dispatch(img, state, "unmount")
	assert.ErrorIs(t, err, shell.ErrUnmount)
}

func TestDispatchHelp(t *testing.T) {
	img, _, err := vfstest.NewImage(vfstest.DefaultDataBlockCapacity)
	require.NoError(t, err)
	defer img.Close()

	state := shell.NewState()
	out, err := shell.Dispatch(img, state, "help pwd")
	require.NoError(t, err)
	assert.Contains(t, out, "pwd")
}
