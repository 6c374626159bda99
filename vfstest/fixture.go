package vfstest

import "github.com/bsurber/vfsimage/fs"

// DefaultDataBlockCapacity is enough spare block-region capacity for
// tests that exercise the single-indirect boundary and a modest
// directory tree. Tests that walk into double- or triple-indirection
// should pass a larger capacity to NewImage explicitly.
const DefaultDataBlockCapacity = 4096

// NewImage formats a fresh MemBacking sized to hold the fixed regions
// plus dataBlockCapacity data blocks, and returns the resulting image
// already mounted.
func NewImage(dataBlockCapacity int64) (*fs.Image, *MemBacking, error) {
	backing := NewMemBacking(fs.BlocksOffset + dataBlockCapacity*fs.BlockSize)
	img, err := fs.CreateBacking(backing)
	if err != nil {
		return nil, nil, err
	}
	return img, backing, nil
}
