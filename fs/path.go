package fs

import (
	"strings"

	"github.com/bsurber/vfsimage/errs"
)

// GetParentDirectory returns the inode pointer recorded in p's ".."
// entry. It fails with errs.ErrWrongType if p is not a directory.
func (img *Image) GetParentDirectory(p InodePtr) (InodePtr, error) {
	inode, err := img.getInode(p)
	if err != nil {
		return 0, err
	}
	if !inode.IsDirectory() {
		return 0, errs.ErrWrongType
	}
	return img.getInodeByName(inode, parentName)
}

// GetDirectoryName returns the name under which p appears in its
// parent's records. The root directory has no name and returns "".
func (img *Image) GetDirectoryName(p InodePtr) (string, error) {
	if p == RootInode {
		return "", nil
	}
	parent, err := img.GetParentDirectory(p)
	if err != nil {
		return "", err
	}
	parentInode, err := img.getInode(parent)
	if err != nil {
		return "", err
	}
	return img.getNameByInode(parentInode, p)
}

// GetFullPath reconstructs p's absolute path by climbing ".." to the
// root and then emitting "/name" for each step top-down. A step whose
// name cannot be resolved contributes "/..." instead of failing the
// whole reconstruction.
func (img *Image) GetFullPath(p InodePtr) (string, error) {
	if p == RootInode {
		return "/", nil
	}

	type step struct {
		child, parent InodePtr
	}
	var steps []step

	current := p
	for current != RootInode {
		parent, err := img.GetParentDirectory(current)
		if err != nil {
			return "", err
		}
		steps = append(steps, step{child: current, parent: parent})
		current = parent
	}

	var sb strings.Builder
	for i := len(steps) - 1; i >= 0; i-- {
		parentInode, err := img.getInode(steps[i].parent)
		var name string
		if err == nil {
			name, err = img.getNameByInode(parentInode, steps[i].child)
		}
		if err != nil {
			sb.WriteString("/...")
			continue
		}
		sb.WriteByte('/')
		sb.WriteString(name)
	}
	return sb.String(), nil
}

// getDir resolves name within dir, requiring both dir and the result
// to be directories.
func (img *Image) getDir(dir InodePtr, name string) (InodePtr, error) {
	dirInode, err := img.getInode(dir)
	if err != nil {
		return 0, err
	}
	if !dirInode.IsDirectory() {
		return 0, errs.ErrWrongType
	}

	childP, err := img.getInodeByName(dirInode, name)
	if err != nil {
		return 0, err
	}
	childInode, err := img.getInode(childP)
	if err != nil {
		return 0, err
	}
	if !childInode.IsDirectory() {
		return 0, errs.ErrWrongType
	}
	return childP, nil
}

// ResolvePath walks text, split on '/', starting at the root if text
// begins with '/' or at start otherwise. Each non-empty segment is
// looked up as a directory within the current inode. On any failure
// the original start inode's caller sees only an error; no partial
// state is returned.
func (img *Image) ResolvePath(start InodePtr, text string) (InodePtr, error) {
	current := start
	if strings.HasPrefix(text, "/") {
		current = RootInode
	}

	for _, seg := range strings.Split(text, "/") {
		if seg == "" {
			continue
		}
		next, err := img.getDir(current, seg)
		if err != nil {
			return 0, err
		}
		current = next
	}
	return current, nil
}
