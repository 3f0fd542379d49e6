package main

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"tidestom/internal/config"
	"tidestom/internal/db"
	"tidestom/internal/logger"
	"tidestom/internal/metrics"
	gormrepository "tidestom/internal/repository/gorm"
	"tidestom/internal/service"
	"tidestom/internal/spectrum"
	"tidestom/internal/taxonomy"
)

// app holds the shared dependencies of every command.
type app struct {
	cfg      config.Config
	logger   *zap.Logger
	conn     *db.DB
	store    *gormrepository.Store
	taxonomy *taxonomy.Taxonomy
	metrics  *metrics.Metrics
	spectra  *spectrum.Loader
}

// newApp loads config, builds the logger, opens and migrates the database.
// A non-empty run name adds a per-run log file under log.dir.
func newApp(opts *rootOptions, run string) (*app, error) {
	cfg, err := config.Load(opts.configPath, opts.envOnly)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	var log *zap.Logger
	if run != "" {
		var path string
		log, path, err = logger.NewForRun(cfg.Log, run, time.Now())
		if err == nil && path != "" {
			log.Info("writing run log", zap.String("path", path))
		}
	} else {
		log, err = logger.New(cfg.Log)
	}
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	tax := taxonomy.Default()
	if cfg.Taxonomy.Path != "" {
		tax, err = taxonomy.Load(cfg.Taxonomy.Path)
		if err != nil {
			return nil, fmt.Errorf("load taxonomy: %w", err)
		}
	}

	conn, err := db.Open(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	if err := db.SetTimezone(conn, cfg.DB.Timezone); err != nil {
		log.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(conn, cfg.DB.MigrateExternal); err != nil {
		_ = db.Close(conn)
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m, err := metrics.New(registry)
	if err != nil {
		_ = db.Close(conn)
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	return &app{
		cfg:      cfg,
		logger:   log,
		conn:     conn,
		store:    gormrepository.New(conn.Gorm),
		taxonomy: tax,
		metrics:  m,
		spectra:  spectrum.NewLoader(cfg.Spectrum.CacheTTL),
	}, nil
}

func (a *app) Close() {
	_ = db.Close(a.conn)
	_ = a.logger.Sync()
}

func (a *app) candidateSync() *service.CandidateSyncService {
	return &service.CandidateSyncService{
		Repo:     a.store,
		Metrics:  a.metrics,
		Logger:   a.logger,
		PageSize: a.cfg.Sync.PageSize,
	}
}

func (a *app) spectraIngest() *service.SpectraIngestService {
	return &service.SpectraIngestService{
		Repo:                a.store,
		Taxonomy:            a.taxonomy,
		Spectra:             a.spectra,
		Metrics:             a.metrics,
		Logger:              a.logger,
		TestDir:             a.cfg.Ingest.TestDir,
		MockCatalogue:       a.cfg.Ingest.MockCatalogue,
		MockSpectrumPattern: a.cfg.Ingest.MockSpectrumPattern,
	}
}

func (a *app) query() *service.QueryService {
	return &service.QueryService{
		Repo:             a.store,
		Spectra:          a.spectra,
		Logger:           a.logger,
		SpectraDir:       a.cfg.Ingest.SpectraDir,
		DefaultDaysRange: a.cfg.Latest.DefaultDaysRange,
		PageSize:         a.cfg.Latest.PageSize,
	}
}

func (a *app) classifications() *service.ClassificationService {
	return &service.ClassificationService{
		Repo:    a.store,
		Metrics: a.metrics,
		Logger:  a.logger,
	}
}
