// Package shell implements the interactive command surface shared by
// the local shell and the socket server: parsing a command line,
// dispatching it against a mounted image, and rendering a result or
// error as text.
package shell

import "github.com/bsurber/vfsimage/fs"

// State holds the one piece of session-local state a command needs
// beyond the image itself: the current directory.
type State struct {
	Cwd fs.InodePtr
}

// NewState returns a session rooted at the image's root directory.
func NewState() *State {
	return &State{Cwd: fs.RootInode}
}
