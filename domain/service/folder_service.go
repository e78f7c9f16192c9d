package service

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ajkula/dirtidy/domain/model"
	"github.com/ajkula/dirtidy/domain/port/outbound"
)

// FolderMaterializer creates category folders under a base directory
type FolderMaterializer struct {
	fs     outbound.FileSystem
	logger outbound.Logger
}

func NewFolderMaterializer(fs outbound.FileSystem, logger outbound.Logger) *FolderMaterializer {
	return &FolderMaterializer{fs: fs, logger: logger}
}

// EnsureFolder returns base/name, creating it when absent.
// A folder created concurrently by another session is not an error.
func (m *FolderMaterializer) EnsureFolder(base, name string) (string, bool, error) {
	path := filepath.Join(base, name)

	err := m.fs.Mkdir(path)
	if err == nil {
		m.logger.Info("Created folder", "path", path)
		return path, true, nil
	}

	if !errors.Is(err, model.ErrAlreadyExists) {
		return "", false, fmt.Errorf("create folder %s: %w", path, err)
	}

	info, err := m.fs.Stat(path)
	if err != nil {
		return "", false, fmt.Errorf("stat folder %s: %w", path, err)
	}
	if !info.IsDir() {
		return "", false, fmt.Errorf("%w: %s", model.ErrNotADirectory, path)
	}

	m.logger.Debug("Folder already exists", "path", path)
	return path, false, nil
}
