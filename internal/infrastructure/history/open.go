package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/doeshing/aocenv/internal/domain"
	"github.com/doeshing/aocenv/internal/ports"
)

// Store is a SampleHistory that can also be emptied and exported.
type Store interface {
	ports.SampleHistory
	Clear() error
	ExportJSONL(dest string) error
	Path() string
}

// Open returns the backend named by performance.history_backend.
func Open(backend, path string) (Store, error) {
	switch backend {
	case "", "sqlite":
		return NewSQLiteStore(path)
	case "jsonl":
		return NewFileStore(path), nil
	default:
		return nil, fmt.Errorf("unknown history backend %q", backend)
	}
}

func writeJSONL(dest string, records []domain.PerformanceRecord) error {
	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
			return err
		}
	}
	file, err := os.Create(dest)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(file)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			file.Close()
			return err
		}
	}
	return file.Close()
}
