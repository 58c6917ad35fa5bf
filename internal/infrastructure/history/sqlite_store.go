package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/aocenv/internal/domain"
	"github.com/doeshing/aocenv/internal/ports"
)

// SQLiteStore keeps performance samples in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// NewSQLiteStore creates (or opens) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	store := &SQLiteStore{db: db, path: path}
	if err := store.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing %s: %w", path, err)
	}
	return store, nil
}

func (s *SQLiteStore) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS performance_samples (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		year INTEGER NOT NULL,
		day INTEGER NOT NULL,
		part INTEGER NOT NULL,
		duration_ms REAL NOT NULL,
		timestamp TEXT NOT NULL
	);`)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_performance_samples_puzzle
		ON performance_samples (year, day, part);`)
	return err
}

// Append inserts a new sample.
func (s *SQLiteStore) Append(record domain.PerformanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO performance_samples
		(year, day, part, duration_ms, timestamp)
		VALUES (?, ?, ?, ?, ?)`,
		record.Year,
		record.Day,
		int(record.Part),
		record.DurationMS,
		record.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// Samples returns samples in insertion order. Zero values widen the filter:
// year 0 matches every year, day 0 every day, PartNone every part.
func (s *SQLiteStore) Samples(year, day int, part domain.Part) ([]domain.PerformanceRecord, error) {
	builder := strings.Builder{}
	builder.WriteString("SELECT year, day, part, duration_ms, timestamp FROM performance_samples")
	var (
		clauses []string
		args    []interface{}
	)
	if year > 0 {
		clauses = append(clauses, "year = ?")
		args = append(args, year)
	}
	if day > 0 {
		clauses = append(clauses, "day = ?")
		args = append(args, day)
	}
	if part != domain.PartNone {
		clauses = append(clauses, "part = ?")
		args = append(args, int(part))
	}
	if len(clauses) > 0 {
		builder.WriteString(" WHERE " + strings.Join(clauses, " AND "))
	}
	builder.WriteString(" ORDER BY id ASC")

	rows, err := s.db.Query(builder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []domain.PerformanceRecord
	for rows.Next() {
		var (
			rec  domain.PerformanceRecord
			part int
			ts   string
		)
		if err := rows.Scan(&rec.Year, &rec.Day, &part, &rec.DurationMS, &ts); err != nil {
			return nil, err
		}
		rec.Part = domain.Part(part)
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			rec.Timestamp = t
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear deletes all samples.
func (s *SQLiteStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM performance_samples")
	return err
}

// ExportJSONL writes every sample to dest, one JSON document per line.
func (s *SQLiteStore) ExportJSONL(dest string) error {
	records, err := s.Samples(0, 0, domain.PartNone)
	if err != nil {
		return err
	}
	return writeJSONL(dest, records)
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ ports.SampleHistory = (*SQLiteStore)(nil)
