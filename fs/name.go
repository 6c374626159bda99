package fs

import "strings"

// IsValidName reports whether name can be used as a directory entry
// name: shorter than DirNameSize (reserving the terminating NUL),
// containing no '/', and not equal to "." or "..". The empty string is
// a valid name.
func IsValidName(name string) bool {
	if len(name) >= DirNameSize {
		return false
	}
	if strings.Contains(name, "/") {
		return false
	}
	if name == selfName || name == parentName {
		return false
	}
	return true
}
