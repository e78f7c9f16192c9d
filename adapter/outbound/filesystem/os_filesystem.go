package filesystem

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/ajkula/dirtidy/domain/model"
	"github.com/ajkula/dirtidy/domain/port/outbound"
)

// OSFileSystem is the host filesystem with errors translated for the organizer
type OSFileSystem struct{}

func NewOSFileSystem() outbound.FileSystem {
	return &OSFileSystem{}
}

func (f *OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

func (f *OSFileSystem) ReadDir(dir string) ([]fs.DirEntry, error) {
	return os.ReadDir(dir)
}

func (f *OSFileSystem) Mkdir(path string) error {
	return os.Mkdir(path, 0o755)
}

// Rename never replaces dst. Busy errors are wrapped with model.ErrTransientLock.
func (f *OSFileSystem) Rename(src, dst string) error {
	err := renameNoReplace(src, dst)
	if err != nil && isBusy(err) {
		return fmt.Errorf("%w: %w", model.ErrTransientLock, err)
	}
	return err
}

// renameChecked is the portable fallback: check, then rename.
// It leaves a small window in which a file created at dst would be replaced.
func renameChecked(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return &os.LinkError{Op: "rename", Old: src, New: dst, Err: fs.ErrExist}
	}
	return os.Rename(src, dst)
}
