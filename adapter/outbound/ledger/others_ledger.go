package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ajkula/dirtidy/domain/port/outbound"
)

const DefaultFileName = "extensoes.txt"

// FileLedger appends one extension per line to a manifest inside the others folder.
// Lines are never rewritten or deduplicated.
type FileLedger struct {
	fileName string
	mu       sync.Mutex
}

func NewFileLedger(fileName string) outbound.OthersLedger {
	if fileName == "" {
		fileName = DefaultFileName
	}
	return &FileLedger{fileName: fileName}
}

// Record appends "<extension>\n", creating the manifest when absent.
// Writes are serialized so lines from concurrent sessions never interleave.
func (l *FileLedger) Record(othersFolder, extension string) error {
	path := filepath.Join(othersFolder, l.fileName)

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open ledger %s: %w", path, err)
	}

	if _, err := f.WriteString(extension + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("append to ledger %s: %w", path, err)
	}
	return f.Close()
}
