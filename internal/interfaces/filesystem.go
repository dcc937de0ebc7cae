// Package interfaces defines the abstraction boundaries between the engine
// and its collaborators. The engine never touches the filesystem directly -
// it consumes an injected enumeration/read capability so hosts can supply
// virtual workspaces and tests can supply fixtures.
package interfaces

import (
	"io/fs"
	"os"
	"path/filepath"
)

// FileSystem is the injected file enumeration and read capability.
type FileSystem interface {
	// ReadFile returns the content of the file at path.
	ReadFile(path string) ([]byte, error)
	// Stat returns file metadata for path.
	Stat(path string) (fs.FileInfo, error)
	// WalkDir walks the tree rooted at root in lexical order.
	WalkDir(root string, fn fs.WalkDirFunc) error
}

// OSFileSystem implements FileSystem against the host operating system.
type OSFileSystem struct{}

// NewOSFileSystem returns the default operating-system backed capability.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

// ReadFile implements FileSystem
func (OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat implements FileSystem
func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// WalkDir implements FileSystem
func (OSFileSystem) WalkDir(root string, fn fs.WalkDirFunc) error {
	return filepath.WalkDir(root, fn)
}
