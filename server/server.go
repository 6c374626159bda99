// Package server implements a socket front end over a mounted image,
// sharing the shell package's command dispatch with the interactive
// shell. The engine has no internal locking, so the server accepts and
// fully drains one connection before the next.
package server

import (
	"bufio"
	"fmt"
	"io"
	"net"

	"github.com/bsurber/vfsimage/fs"
	"github.com/bsurber/vfsimage/proto"
	"github.com/bsurber/vfsimage/shell"
)

// Serve accepts connections on ln and handles them one at a time
// against img, until ln is closed or a connection's session ends with
// "unmount", at which point Serve returns nil.
func Serve(ln net.Listener, img *fs.Image) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}

		unmounted, err := handleConn(conn, img)
		conn.Close()
		if err != nil {
			fmt.Printf("server: connection error: %s\n", err)
		}
		if unmounted {
			return nil
		}
	}
}

// handleConn drains one connection's request/reply exchanges until it
// closes or sends "unmount". It reports whether the session ended via
// unmount.
func handleConn(conn net.Conn, img *fs.Image) (unmounted bool, err error) {
	reader := bufio.NewReader(conn)
	state := shell.NewState()

	for {
		line, err := proto.ReadRequest(reader)
		if err == io.EOF {
			return false, nil
		}
		if err != nil {
			return false, err
		}

		text, cmdErr := shell.Dispatch(img, state, line)
		if cmdErr == shell.ErrUnmount {
			return true, proto.WriteReply(conn, text, nil)
		}
		if err := proto.WriteReply(conn, text, cmdErr); err != nil {
			return false, err
		}
	}
}
