package app

import (
	"context"
	"errors"

	"github.com/doeshing/aocenv/internal/application/doctor"
	"github.com/doeshing/aocenv/internal/application/performance"
	"github.com/doeshing/aocenv/internal/application/puzzle"
	"github.com/doeshing/aocenv/internal/application/puzzlecontext"
	"github.com/doeshing/aocenv/internal/application/reconcile"
	"github.com/doeshing/aocenv/internal/application/submission"
	"github.com/doeshing/aocenv/internal/application/testrun"
	"github.com/doeshing/aocenv/internal/domain"
	"github.com/doeshing/aocenv/internal/infrastructure/aocweb"
	"github.com/doeshing/aocenv/internal/infrastructure/archive"
	"github.com/doeshing/aocenv/internal/infrastructure/cache"
	"github.com/doeshing/aocenv/internal/infrastructure/classifier"
	"github.com/doeshing/aocenv/internal/infrastructure/config"
	"github.com/doeshing/aocenv/internal/infrastructure/contextfile"
	"github.com/doeshing/aocenv/internal/infrastructure/history"
	"github.com/doeshing/aocenv/internal/infrastructure/progress"
	"github.com/doeshing/aocenv/internal/infrastructure/solution"
	"github.com/doeshing/aocenv/internal/pkg/logger"
	"github.com/doeshing/aocenv/internal/ports"
)

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config         domain.Config
	ConfigProvider ports.ConfigProvider
	ConfigLoader   *config.FileLoader
	Logger         *logger.Zap
	Clock          ports.Clock

	ContextService     *puzzlecontext.Service
	PuzzleService      *puzzle.Service
	SubmissionEngine   *submission.Engine
	ReconcileService   *reconcile.Service
	TestService        *testrun.Service
	PerformanceService *performance.Service
	DoctorService      *doctor.Service

	CacheStore    ports.CacheRepository
	ProgressStore ports.ProgressRepository
	Runner        ports.SolutionRunner
	Archiver      *archive.FileArchiver
	Classifier    *classifier.Rules

	history history.Store
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.New(verbose)

	rules, err := classifier.NewRules(cfg.Classifier.RulesFile)
	if err != nil {
		log.Warn("classifier rules invalid, using defaults", map[string]interface{}{"path": cfg.Classifier.RulesFile, "error": err.Error()})
		rules = classifier.Default()
	}

	clock := ports.SystemClock
	cacheStore := cache.NewFileCache(cfg.CacheDir(), log)
	progressStore := progress.NewFileStore(cfg.ProgressPath(), log)
	contextStore := contextfile.NewStore(cfg.ContextPath())
	runner := solution.NewShellRunner(cfg.Solution, log)
	archiver := archive.NewFileArchiver(cfg.Solution, log)

	site := aocweb.New(aocweb.Options{
		BaseURL:      cfg.Remote.BaseURL,
		UserAgent:    cfg.Remote.UserAgent,
		Timeout:      cfg.RemoteTimeout(),
		RetryBackoff: cfg.RetryBackoff(),
		Session: func() (string, error) {
			cookie, _, err := config.SessionCookie(cfg)
			return cookie, err
		},
		Logger: log,
	})

	var samples history.Store
	if cfg.Performance.KeepHistory {
		samples, err = history.Open(cfg.HistoryBackend(), cfg.HistoryPath())
		if err != nil {
			return nil, err
		}
	}

	puzzleService := &puzzle.Service{Cache: cacheStore, Remote: site, Logger: log}

	container := &Container{
		Config:         cfg,
		ConfigProvider: cfgLoader,
		ConfigLoader:   cfgLoader,
		Logger:         log,
		Clock:          clock,
		ContextService: &puzzlecontext.Service{
			Repo:   contextStore,
			Clock:  clock,
			Logger: log,
		},
		PuzzleService: puzzleService,
		SubmissionEngine: &submission.Engine{
			Cache:            cacheStore,
			Progress:         progressStore,
			Remote:           site,
			Classifier:       rules,
			Archiver:         archiver,
			ArchiveOnCorrect: cfg.Solution.ArchiveOnCorrect,
			Clock:            clock,
			Logger:           log,
		},
		ReconcileService: &reconcile.Service{
			Progress:    progressStore,
			Remote:      site,
			Clock:       clock,
			Logger:      log,
			Concurrency: cfg.SyncConcurrency(),
		},
		TestService: &testrun.Service{
			Cache:  cacheStore,
			Runner: runner,
			Clock:  clock,
			Logger: log,
		},
		PerformanceService: &performance.Service{
			Cache:       cacheStore,
			Inputs:      puzzleService,
			Runner:      runner,
			KeepHistory: cfg.Performance.KeepHistory,
			Clock:       clock,
			Logger:      log,
		},
		DoctorService: &doctor.Service{
			ConfigProvider: cfgLoader,
			Session:        config.SessionCookie,
			Rules: func(path string) (int, string, error) {
				r, err := classifier.NewRules(path)
				if err != nil {
					return 0, "", err
				}
				return r.Len(), r.Source(), nil
			},
		},
		CacheStore:    cacheStore,
		ProgressStore: progressStore,
		Runner:        runner,
		Archiver:      archiver,
		Classifier:    rules,
		history:       samples,
	}
	if samples != nil {
		container.PerformanceService.History = samples
	}
	return container, nil
}

// History returns the sample history, opening it on first use when
// performance.keep_history is off.
func (c *Container) History() (history.Store, error) {
	if c.history != nil {
		return c.history, nil
	}
	store, err := history.Open(c.Config.HistoryBackend(), c.Config.HistoryPath())
	if err != nil {
		return nil, err
	}
	c.history = store
	return store, nil
}

// Close releases the history handle and flushes the logger.
func (c *Container) Close() error {
	var errs []error
	if c.history != nil {
		errs = append(errs, c.history.Close())
	}
	_ = c.Logger.Sync()
	return errors.Join(errs...)
}
