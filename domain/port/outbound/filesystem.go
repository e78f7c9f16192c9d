package outbound

import "io/fs"

// FileSystem is the filesystem surface the organizer mutates.
// Implementations wrap errors so that errors.Is matches model.ErrNotFound,
// model.ErrAlreadyExists and model.ErrTransientLock.
type FileSystem interface {
	// Stat follows symlinks
	Stat(path string) (fs.FileInfo, error)

	// ReadDir lists the direct entries of dir
	ReadDir(dir string) ([]fs.DirEntry, error)

	// Mkdir creates one directory; an existing path is reported as model.ErrAlreadyExists
	Mkdir(path string) error

	// Rename moves src to dst and must never replace an existing dst
	Rename(src, dst string) error
}

// PathFilter decides which file names are never organized
type PathFilter interface {
	IsIgnored(path string) bool
}

// OthersLedger records extensions of files sent to the catch-all folder
type OthersLedger interface {
	Record(othersFolder, extension string) error
}
