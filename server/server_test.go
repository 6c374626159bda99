package server_test

import (
	"net"
	"testing"

	"github.com/bsurber/vfsimage/client"
	"github.com/bsurber/vfsimage/server"
	"github.com/bsurber/vfsimage/vfstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeHandlesOneConnectionThenUnmounts(t *testing.T) {
	img, _, err := vfstest.NewImage(vfstest.DefaultDataBlockCapacity)
	require.NoError(t, err)
	defer img.Close()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- server.Serve(ln, img) }()

	addr := ln.Addr().String()

	text, cmdErr, err := client.RunCommand(addr, "mkdir sub")
	require.NoError(t, err)
	require.NoError(t, cmdErr)
	assert.Equal(t, "", text)

	text, cmdErr, err = client.RunCommand(addr, "unmount")
	require.NoError(t, err)
	require.NoError(t, cmdErr)
	assert.Equal(t, "", text)

	require.NoError(t, <-done)
}
