// Package app wires the matching engine to its sources, sinks and HTTP API.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	kpiapi "github.com/portlink/streetturn/api/kpi"
	runsapi "github.com/portlink/streetturn/api/runs"
	suggestionsapi "github.com/portlink/streetturn/api/suggestions"
	"github.com/portlink/streetturn/app/plugins"
	"github.com/portlink/streetturn/config"
	"github.com/portlink/streetturn/core/matching"
	"github.com/portlink/streetturn/core/matching/journal"
	coremetrics "github.com/portlink/streetturn/core/metrics"
	"github.com/portlink/streetturn/core/metrics/eco"
	coremon "github.com/portlink/streetturn/core/monitoring"
	"github.com/portlink/streetturn/core/model"
	"github.com/portlink/streetturn/core/notify"
	"github.com/portlink/streetturn/core/source"
	"github.com/portlink/streetturn/infra/fixture"
	"github.com/portlink/streetturn/infra/logger"
	"github.com/portlink/streetturn/infra/metrics"
	"github.com/portlink/streetturn/infra/monitoring"
	"github.com/portlink/streetturn/infra/postgres"
	"github.com/portlink/streetturn/internal/eventbus"
)

// notifyTimeout bounds the delivery of one run to the notifiers.
const notifyTimeout = 30 * time.Second

// Service runs the engine for the configured organizations on a schedule and
// on demand, and fans every run out to the journal, metrics and notifiers.
type Service struct {
	Engine   *matching.Engine
	Source   source.Source
	Journal  journal.Store
	KPI      eco.Store
	Sink     coremetrics.MetricsSink
	Notifier notify.Notifier

	cfg     *config.Config
	bus     *eventbus.Bus[matching.Run]
	log     logger.Logger
	closers []func() error
	now     func() time.Time
	newID   func() string
}

// New builds a Service from the configuration.
func New(ctx context.Context, cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, err
	}
	coremon.Init(mon)

	s := &Service{
		Engine: matching.NewEngine(cfg.Matching, logger.New("engine")),
		cfg:    cfg,
		bus:    eventbus.New[matching.Run](),
		log:    logg,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	if err := s.build(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Service) build(ctx context.Context) error {
	src, err := s.newSource(ctx)
	if err != nil {
		return fmt.Errorf("source: %w", err)
	}
	s.Source = src

	if s.Journal, err = plugins.NewJournal(s.cfg.Journal); err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	s.closers = append(s.closers, s.Journal.Close)

	store, closer, err := plugins.NewKPIStore(s.cfg.KPI)
	if err != nil {
		return fmt.Errorf("kpi store: %w", err)
	}
	s.KPI = store
	if closer != nil {
		s.closers = append(s.closers, closer.Close)
	}

	sink, err := coremetrics.NewMetricsSink(s.cfg.Metrics.Sinks)
	if err != nil {
		return fmt.Errorf("metrics sink: %w", err)
	}
	ecoSink, err := metrics.NewEcoSink(store, prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("eco sink: %w", err)
	}
	multi := coremetrics.NewMultiSink(sink, ecoSink)
	s.Sink = multi
	s.closers = append(s.closers, func() error { multi.Close(); return nil })

	if s.Notifier, err = notify.New(s.cfg.Notifiers); err != nil {
		return fmt.Errorf("notifiers: %w", err)
	}
	n := s.Notifier
	s.closers = append(s.closers, func() error { notify.Close(n); return nil })
	return nil
}

func (s *Service) newSource(ctx context.Context) (source.Source, error) {
	switch s.cfg.Source.Type {
	case "postgres":
		pool, err := postgres.NewPool(ctx, s.cfg.Postgres, logger.New("postgres"))
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, closePool(pool))
		return postgres.NewSource(pool, s.cfg.Postgres.QueryTimeout), nil
	default:
		src, err := fixture.NewSource(s.cfg.Source.Path)
		if err != nil {
			return nil, err
		}
		return src, nil
	}
}

func closePool(p *pgxpool.Pool) func() error {
	return func() error { p.Close(); return nil }
}

// Match scores the given pools with the configured engine. The run is not
// journaled.
func (s *Service) Match(containers []model.DropOffContainer, bookings []model.PickupBooking, f matching.Filters) (matching.Result, error) {
	return s.Engine.Match(containers, bookings, f)
}

// MatchNow fetches the organization's pools, runs the engine and publishes
// the run to the subscribers.
func (s *Service) MatchNow(ctx context.Context, orgID string, f matching.Filters) (matching.Run, error) {
	start := s.now()
	run, err := s.matchOrg(ctx, orgID, f, start)
	s.recordLatency(orgID, s.now().Sub(start), err != nil)
	if err != nil {
		return matching.Run{}, err
	}
	s.bus.Publish(run)
	return run, nil
}

func (s *Service) matchOrg(ctx context.Context, orgID string, f matching.Filters, ts time.Time) (matching.Run, error) {
	pool, err := s.Source.Pool(ctx, orgID)
	if err != nil {
		return matching.Run{}, fmt.Errorf("pool %s: %w", orgID, err)
	}
	res, err := s.Engine.Match(pool.Containers, pool.Bookings, f)
	if err != nil {
		return matching.Run{}, err
	}
	return matching.NewRun(s.newID(), orgID, ts, f.Merge(s.Engine.Defaults), res), nil
}

func (s *Service) recordLatency(orgID string, d time.Duration, failed bool) {
	rec, ok := s.Sink.(coremetrics.LatencyRecorder)
	if !ok {
		return
	}
	if err := rec.RecordRunLatency(coremetrics.RunLatency{OrgID: orgID, Duration: d, Failed: failed}); err != nil {
		s.log.Errorf("record latency: %v", err)
	}
}

// RunScheduled matches every configured organization once. Failures are
// logged and reported; they do not stop the remaining organizations.
func (s *Service) RunScheduled(ctx context.Context) {
	for _, org := range s.cfg.Schedule.Organizations {
		if ctx.Err() != nil {
			return
		}
		run, err := s.MatchNow(ctx, org, matching.Filters{})
		if err != nil {
			s.log.Errorf("scheduled run for %s: %v", org, err)
			coremon.CaptureException(err, map[string]string{"module": "scheduler", "org_id": org})
			continue
		}
		s.log.Infof("run %s for %s: %d suggestions, %d pairs, %d skipped",
			run.ID, org, run.Summary.Containers, run.Summary.Pairs, run.Skipped)
	}
}

// Handler returns the HTTP API routes.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/suggestions", suggestionsapi.NewHandler(s))
	mux.Handle("/api/runs", runsapi.NewHandler(s.Journal, s.cfg.Server.APIToken))
	mux.Handle("/api/kpi/", kpiapi.NewHandler(s.KPI))
	return mux
}

// Run starts the subscribers, the scheduler and the HTTP servers, and blocks
// until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	s.startSubscribers(ctx, &wg)
	collectorDone := metrics.StartRunCollector(s.bus, s.Sink, logger.New("collector"))

	if addr := s.cfg.Metrics.PrometheusAddr; addr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       s.cfg.Server.ReadTimeout,
		WriteTimeout:      s.cfg.Server.WriteTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	s.log.Infof("API listening on %s", s.cfg.Server.Addr)

	if interval := s.cfg.Schedule.Interval(); interval > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer coremon.Recover()
			s.schedule(ctx, interval)
		}()
	}

	var runErr error
	select {
	case err := <-errCh:
		runErr = fmt.Errorf("api server: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.log.Errorf("api shutdown: %v", err)
	}
	s.bus.Close()
	<-collectorDone
	wg.Wait()
	coremon.Flush(2 * time.Second)
	return runErr
}

func (s *Service) schedule(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	s.RunScheduled(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunScheduled(ctx)
		}
	}
}

// startSubscribers attaches the journal and notifier consumers to the bus.
// Both drain their subscription until the bus is closed.
func (s *Service) startSubscribers(ctx context.Context, wg *sync.WaitGroup) {
	journalSub := s.bus.Subscribe()
	notifySub := s.bus.Subscribe()
	wg.Add(2)
	go func() {
		defer wg.Done()
		defer coremon.Recover()
		for run := range journalSub {
			if err := s.Journal.Append(context.WithoutCancel(ctx), journal.FromRun(run)); err != nil {
				s.log.Errorf("journal append %s: %v", run.ID, err)
				coremon.CaptureException(err, map[string]string{"module": "journal", "run_id": run.ID})
			}
		}
	}()
	go func() {
		defer wg.Done()
		defer coremon.Recover()
		for run := range notifySub {
			nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
			if err := s.Notifier.Notify(nctx, run); err != nil {
				s.log.Errorf("notify run %s: %v", run.ID, err)
			}
			cancel()
		}
	}()
}

// Close releases the resources held by the service.
func (s *Service) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
