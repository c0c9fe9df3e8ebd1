package git

import (
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
)

// isMemoryFilesystem reports whether fs, or a filesystem it wraps, keeps its
// files in memory. The git CLI cannot see such repositories.
func isMemoryFilesystem(fs billy.Basic) bool {
	for fs != nil {
		if _, ok := fs.(*memfs.Memory); ok {
			return true
		}
		wrapper, ok := fs.(interface{ Underlying() billy.Basic })
		if !ok {
			return false
		}
		fs = wrapper.Underlying()
	}
	return false
}
