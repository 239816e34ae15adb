package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/samvad-hq/tmdb-people/internal/config"
	"github.com/samvad-hq/tmdb-people/internal/logger"
	"github.com/samvad-hq/tmdb-people/internal/storage"
	"github.com/samvad-hq/tmdb-people/internal/syncer"
	"github.com/samvad-hq/tmdb-people/pkg/feeds"
	"github.com/samvad-hq/tmdb-people/pkg/metrics"
	"github.com/samvad-hq/tmdb-people/pkg/publishers"
)

const metricsShutdownTimeout = 5 * time.Second

// Syncer is the people sync runtime. It owns the sync loop, the dedupe store,
// the publisher fanout and the optional metrics endpoint.
type Syncer struct {
	cfg          *config.Config
	feedReg      *feeds.Registry
	fanout       *publishers.Fanout
	service      *syncer.Service
	metrics      *metrics.Manager
	syncInterval time.Duration
	log          logger.Logger
	store        storage.Store
}

// NewSyncer builds a syncer runtime from config files.
func NewSyncer(ctx context.Context, cfg *config.Config, log logger.Logger) (*Syncer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if !cfg.HasCredentials() {
		return nil, fmt.Errorf("tmdb_api_key or tmdb_access_token is required")
	}

	feedReg, err := feeds.LoadRegistry(cfg.FeedsFile)
	if err != nil {
		return nil, fmt.Errorf("load feeds registry: %w", err)
	}
	log.InfoObj("feeds registry loaded", "feeds_meta", map[string]any{
		"count": len(feedReg.IDs()),
		"ids":   feedReg.IDs(),
	})

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		RecordTTL:       cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		return nil, errors.Join(fmt.Errorf("init storage: %w", err), fanout.Close())
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"record_ttl_seconds":       int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	people := NewTMDBClient(cfg).People()
	m := metrics.NewManager()
	service := syncer.NewService(
		feeds.DefaultFetcherRegistry(people),
		syncer.NewEnricher(people, m),
		fanout,
		m,
		store,
	)

	return &Syncer{
		cfg:          cfg,
		feedReg:      feedReg,
		fanout:       fanout,
		service:      service,
		metrics:      m,
		syncInterval: cfg.SyncInterval,
		log:          log,
		store:        store,
	}, nil
}

// Run starts the sync loop until the context is cancelled.
func (s *Syncer) Run(ctx context.Context) error {
	if s == nil || s.service == nil {
		return fmt.Errorf("syncer is not initialized")
	}
	defer s.close()

	if s.cfg.MetricsAddr != "" {
		stop := s.serveMetrics(s.cfg.MetricsAddr)
		defer stop()
	}

	list := s.feedReg.All()
	if len(list) == 0 {
		s.log.WarnObj("no feeds configured; syncer idle", "feeds_file", s.cfg.FeedsFile)
		<-ctx.Done()
		return ctx.Err()
	}

	s.log.InfoObj("sync loop starting", "syncer_state", map[string]any{
		"feeds_count":      len(list),
		"publishers_count": s.fanout.Size(),
		"sync_interval":    s.syncInterval.String(),
	})

	if err := s.runOnce(ctx, list); err != nil {
		s.log.ErrorObj("initial sync failed", "error", err)
	}

	ticker := time.NewTicker(s.syncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.InfoObj("sync loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := s.runOnce(ctx, list); err != nil {
				s.log.ErrorObj("scheduled sync failed", "error", err)
			}
		}
	}
}

// runOnce performs a single sync pass across all feeds.
func (s *Syncer) runOnce(ctx context.Context, list []feeds.Feed) error {
	start := time.Now()
	s.log.InfoObj("sync started", "sync_meta", map[string]any{
		"feeds_count": len(list),
		"started_at":  start.UTC(),
	})
	if err := s.service.Run(ctx, list); err != nil {
		return err
	}
	s.log.InfoObj("sync completed", "sync_meta", map[string]any{
		"feeds_count": len(list),
		"elapsed_ms":  time.Since(start).Milliseconds(),
		"remembered":  s.remembered(list),
	})
	return nil
}

// remembered reports how many live fingerprints the store holds per feed.
func (s *Syncer) remembered(list []feeds.Feed) map[string]int {
	out := make(map[string]int, len(list))
	for _, feed := range list {
		n, err := s.store.Count(feed.ID)
		if err != nil {
			s.log.WarnObj("storage count failed", "error", err)
			continue
		}
		out[feed.ID] = n
	}
	return out
}

// serveMetrics exposes /metrics on addr and returns a shutdown func.
func (s *Syncer) serveMetrics(addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", s.metrics.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		s.log.InfoObj("metrics server starting", "metrics_addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.ErrorObj("metrics server failed", "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			s.log.WarnObj("metrics server shutdown failed", "error", err)
		}
	}
}

// close releases the store and publisher clients, logging any errors encountered.
func (s *Syncer) close() {
	if s == nil {
		return
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.log.ErrorObj("storage close failed", "error", err)
		}
	}
	if err := s.fanout.Close(); err != nil {
		s.log.ErrorObj("publisher close failed", "error", err)
	}
}
