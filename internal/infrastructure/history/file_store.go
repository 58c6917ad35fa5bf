package history

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/doeshing/aocenv/internal/domain"
	"github.com/doeshing/aocenv/internal/ports"
)

// FileStore appends performance samples to a jsonl file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store for the jsonl file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Append implements ports.SampleHistory.
func (f *FileStore) Append(record domain.PerformanceRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(f.path), domain.DirectoryPermissions); err != nil {
		return err
	}
	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, domain.FilePermissions)
	if err != nil {
		return err
	}
	defer file.Close()
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	_, err = file.Write(append(data, '\n'))
	return err
}

// Samples loads matching samples in file order (best-effort: bad lines are skipped).
func (f *FileStore) Samples(year, day int, part domain.Part) ([]domain.PerformanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var records []domain.PerformanceRecord
	for _, line := range bytes.Split(bytes.TrimSpace(data), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var rec domain.PerformanceRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		if matches(rec, year, day, part) {
			records = append(records, rec)
		}
	}
	return records, nil
}

// Clear removes the history file.
func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ExportJSONL copies every readable sample to dest.
func (f *FileStore) ExportJSONL(dest string) error {
	records, err := f.Samples(0, 0, domain.PartNone)
	if err != nil {
		return err
	}
	return writeJSONL(dest, records)
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

// Close is a no-op; every append opens and closes the file.
func (f *FileStore) Close() error {
	return nil
}

func matches(rec domain.PerformanceRecord, year, day int, part domain.Part) bool {
	return (year == 0 || rec.Year == year) &&
		(day == 0 || rec.Day == day) &&
		(part == domain.PartNone || rec.Part == part)
}

var _ ports.SampleHistory = (*FileStore)(nil)
