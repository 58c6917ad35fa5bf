package reconcile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/doeshing/aocenv/internal/domain"
	"github.com/doeshing/aocenv/internal/infrastructure/progress"
	"github.com/doeshing/aocenv/internal/pkg/logger"
	"github.com/doeshing/aocenv/internal/ports"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type stubSite struct {
	mu     sync.Mutex
	stars  map[int][]domain.PuzzleKey
	fail   map[int]error
	called []int
}

func (s *stubSite) FetchText(context.Context, int, int) (string, error) {
	return "", errors.New("unexpected fetch")
}

func (s *stubSite) FetchInput(context.Context, int, int) (string, error) {
	return "", errors.New("unexpected fetch")
}

func (s *stubSite) SubmitAnswer(context.Context, int, int, domain.Part, string) (string, error) {
	return "", errors.New("unexpected submit")
}

func (s *stubSite) FetchYearOverview(_ context.Context, year int) ([]domain.PuzzleKey, error) {
	s.mu.Lock()
	s.called = append(s.called, year)
	s.mu.Unlock()
	if err := s.fail[year]; err != nil {
		return nil, err
	}
	return s.stars[year], nil
}

func k(year, day int, part domain.Part) domain.PuzzleKey {
	return domain.PuzzleKey{Year: year, Day: day, Part: part}
}

func newService(t *testing.T, site *stubSite) (*Service, *progress.FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "progress.json")
	store := progress.NewFileStore(path, logger.NewNop())
	return &Service{
		Progress:    store,
		Remote:      site,
		Clock:       ports.ClockFunc(func() time.Time { return time.Date(2017, 12, 30, 0, 0, 0, 0, time.UTC) }),
		Logger:      logger.NewNop(),
		Concurrency: 2,
	}, store, path
}

func TestReconcileIsMonotonic(t *testing.T) {
	svc, store, _ := newService(t, &stubSite{})
	require.NoError(t, store.Update(func(p domain.Progress) (bool, error) {
		return p.MarkSolved(k(2023, 1, domain.PartOne), time.Now(), domain.SourceSubmission), nil
	}))

	diff, err := svc.Reconcile(domain.StarGrid{2023: {k(2023, 1, domain.PartOne), k(2023, 1, domain.PartTwo), k(2023, 2, domain.PartOne)}})
	require.NoError(t, err)
	assert.Equal(t, []domain.PuzzleKey{k(2023, 1, domain.PartTwo), k(2023, 2, domain.PartOne)}, diff.NewlySolved)

	diff, err = svc.Reconcile(domain.StarGrid{2023: {}})
	require.NoError(t, err)
	assert.Empty(t, diff.NewlySolved)

	p, err := store.Load()
	require.NoError(t, err)
	assert.Len(t, p.SolvedKeys(), 3)
	assert.Equal(t, domain.SourceSubmission, p.Get(k(2023, 1, domain.PartOne)).Source)
}

func TestReconcileWithoutChangesDoesNotWrite(t *testing.T) {
	svc, _, path := newService(t, &stubSite{})

	_, err := svc.Reconcile(domain.StarGrid{})
	require.NoError(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSyncFetchesEveryYear(t *testing.T) {
	site := &stubSite{stars: map[int][]domain.PuzzleKey{
		2015: {k(2015, 1, domain.PartOne)},
		2017: {k(2017, 25, domain.PartOne), k(2017, 25, domain.PartTwo)},
	}}
	svc, _, _ := newService(t, site)

	diff, err := svc.Sync(context.Background(), nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{2015, 2016, 2017}, site.called)
	assert.Equal(t, []domain.PuzzleKey{
		k(2015, 1, domain.PartOne),
		k(2017, 25, domain.PartOne),
		k(2017, 25, domain.PartTwo),
	}, diff.NewlySolved)
}

func TestSyncFailureWritesNothing(t *testing.T) {
	site := &stubSite{
		stars: map[int][]domain.PuzzleKey{2015: {k(2015, 1, domain.PartOne)}},
		fail:  map[int]error{2016: domain.ErrAuthentication},
	}
	svc, _, path := newService(t, site)

	_, err := svc.Sync(context.Background(), []int{2015, 2016})
	assert.ErrorIs(t, err, domain.ErrAuthentication)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
