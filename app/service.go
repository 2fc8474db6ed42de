// Package app wires the admission engine, the placement store and the
// surrounding adapters into a runnable service.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	apidecisions "github.com/lessonbird/timetable/api/decisions"
	apiplacements "github.com/lessonbird/timetable/api/placements"
	apistats "github.com/lessonbird/timetable/api/stats"
	"github.com/lessonbird/timetable/config"
	"github.com/lessonbird/timetable/core/admission"
	"github.com/lessonbird/timetable/core/admission/logging"
	"github.com/lessonbird/timetable/core/catalog"
	"github.com/lessonbird/timetable/core/events"
	coremetrics "github.com/lessonbird/timetable/core/metrics"
	"github.com/lessonbird/timetable/core/model"
	"github.com/lessonbird/timetable/infra/logger"
	"github.com/lessonbird/timetable/infra/metrics"
	"github.com/lessonbird/timetable/infra/mqtt"
	"github.com/lessonbird/timetable/infra/store"
	"github.com/lessonbird/timetable/internal/eventbus"
)

// maxStaleRetries bounds how often Admit re-resolves after a concurrent
// commit invalidated its snapshot.
const maxStaleRetries = 3

// Service orchestrates the admission engine and its collaborators.
type Service struct {
	Engine *admission.Engine

	store     store.Store
	decisions logging.LogStore
	notifier  mqtt.Notifier
	bus       eventbus.EventBus
	sink      coremetrics.MetricsSink
	log       logger.Logger

	apiAddr     string
	apiToken    string
	promEnabled bool
	promPort    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	subjects := make([]model.Subject, 0, len(cfg.Subjects))
	for _, s := range cfg.Subjects {
		subjects = append(subjects, s.Subject())
	}
	cat := catalog.NewMapCatalog(subjects...)

	var sinks []coremetrics.MetricsSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink()
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sink := metrics.NewInfluxSinkWithFallback(cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken, cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket)
		sinks = append(sinks, sink)
	}
	var sink coremetrics.MetricsSink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	engine, err := admission.NewEngine(cat, logger.New("admission"), sink)
	if err != nil {
		return nil, fmt.Errorf("admission engine: %w", err)
	}

	st, err := newStore(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("placement store: %w", err)
	}

	decisions, err := newDecisionLog(cfg.Decisions)
	if err != nil {
		return nil, fmt.Errorf("decision log: %w", err)
	}

	var notifier mqtt.Notifier = mqtt.NopNotifier{}
	if cfg.MQTT.Enabled {
		n, err := mqtt.NewPahoNotifier(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt notifier: %w", err)
		}
		notifier = n
	}

	return &Service{
		Engine:      engine,
		store:       st,
		decisions:   decisions,
		notifier:    notifier,
		bus:         eventbus.New(),
		sink:        sink,
		log:         logg,
		apiAddr:     cfg.API.Addr,
		apiToken:    cfg.API.Token,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promPort:    cfg.Metrics.PrometheusPort,
	}, nil
}

func newStore(cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Backend {
	case "memory":
		return store.NewMemoryStore(), nil
	case "sqlite":
		return store.NewSQLiteStore(cfg.Path)
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		return store.NewRedisStore(client), nil
	default:
		return nil, fmt.Errorf("unknown store backend %s", cfg.Backend)
	}
}

func newDecisionLog(cfg config.DecisionsConfig) (logging.LogStore, error) {
	switch cfg.Backend {
	case "none":
		return nil, nil
	case "jsonl":
		return logging.NewJSONLStore(cfg.Path)
	case "sqlite":
		return logging.NewSQLiteStore(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown decisions backend %s", cfg.Backend)
	}
}

// Admit submits a candidate placement: snapshot, resolve, commit. When the
// commit finds the snapshot stale it re-resolves against a fresh one, up to
// maxStaleRetries times. On success the persisted placement and the evicted
// ids are returned.
func (s *Service) Admit(ctx context.Context, candidate model.Placement) (model.Placement, []string, error) {
	if candidate.ID == "" {
		candidate.ID = uuid.NewString()
	}
	var retries int
	for {
		snapshot, version, err := s.store.Snapshot(ctx, candidate.SchoolID, candidate.TermID)
		if err != nil {
			return model.Placement{}, nil, fmt.Errorf("snapshot: %w", err)
		}
		if sr, ok := s.sink.(coremetrics.SnapshotSizeRecorder); ok {
			if err := sr.RecordSnapshotSize(len(snapshot)); err != nil {
				s.log.Errorf("snapshot size metrics error: %v", err)
			}
		}

		dec := s.Engine.Resolve(snapshot, candidate)
		if dec.Err != nil {
			s.logDecision(ctx, candidate, dec)
			s.bus.Publish(events.RejectedEvent{
				Candidate: candidate,
				Kind:      admission.KindOf(dec.Err).String(),
				Reason:    dec.Err.Error(),
				Time:      time.Now(),
			})
			return model.Placement{}, nil, dec.Err
		}

		err = s.store.Apply(ctx, candidate.SchoolID, candidate.TermID, version, dec.EntriesToDelete, candidate)
		s.recordApply(candidate, retries, err)
		if errors.Is(err, store.ErrStaleSnapshot) {
			retries++
			if retries > maxStaleRetries {
				return model.Placement{}, nil, fmt.Errorf("admission abandoned after %d stale snapshots: %w", retries, err)
			}
			s.log.Warnf("snapshot went stale, re-resolving (attempt %d)", retries)
			continue
		}
		if err != nil {
			return model.Placement{}, nil, fmt.Errorf("apply: %w", err)
		}

		s.logDecision(ctx, candidate, dec)
		s.publishAdmitted(snapshot, candidate, dec.EntriesToDelete)
		return candidate, dec.EntriesToDelete, nil
	}
}

// Remove deletes one placement explicitly.
func (s *Service) Remove(ctx context.Context, id string) (model.Placement, error) {
	p, err := s.store.Remove(ctx, id)
	if err != nil {
		return model.Placement{}, err
	}
	s.bus.Publish(events.RemovedEvent{Placement: p, Time: time.Now()})
	return p, nil
}

// List returns the placements of one school/term scope.
func (s *Service) List(ctx context.Context, schoolID, termID string) ([]model.Placement, error) {
	snapshot, _, err := s.store.Snapshot(ctx, schoolID, termID)
	return snapshot, err
}

func (s *Service) logDecision(ctx context.Context, candidate model.Placement, dec admission.Decision) {
	if s.decisions == nil {
		return
	}
	rec := logging.LogRecord{
		Timestamp: time.Now(),
		Candidate: candidate,
		Admitted:  dec.Err == nil,
		Evicted:   dec.EntriesToDelete,
	}
	if dec.Err != nil {
		rec.ErrorKind = admission.KindOf(dec.Err).String()
		rec.ErrorMessage = dec.Err.Error()
	}
	if err := s.decisions.Append(ctx, rec); err != nil {
		s.log.Errorf("decision log append: %v", err)
	}
}

func (s *Service) recordApply(candidate model.Placement, retries int, err error) {
	ar, ok := s.sink.(coremetrics.ApplyRecorder)
	if !ok {
		return
	}
	rec := coremetrics.ApplyRecord{
		SchoolID: candidate.SchoolID,
		TermID:   candidate.TermID,
		Stale:    errors.Is(err, store.ErrStaleSnapshot),
		Retries:  retries,
		Time:     time.Now(),
	}
	if err != nil && !rec.Stale {
		rec.Err = err.Error()
	}
	if rerr := ar.RecordApply(rec); rerr != nil {
		s.log.Errorf("apply metrics error: %v", rerr)
	}
}

func (s *Service) publishAdmitted(snapshot []model.Placement, admitted model.Placement, evicted []string) {
	now := time.Now()
	s.bus.Publish(events.AdmittedEvent{Placement: admitted, Evicted: evicted, Time: now})
	byID := make(map[string]model.Placement, len(snapshot))
	for _, p := range snapshot {
		byID[p.ID] = p
	}
	for _, id := range evicted {
		if p, ok := byID[id]; ok {
			s.bus.Publish(events.EvictedEvent{Placement: p, AdmittedID: admitted.ID, Time: now})
		}
	}
}

// notifyLoop forwards bus events to the MQTT notifier until the context is
// canceled.
func (s *Service) notifyLoop(ctx context.Context) {
	sub := s.bus.Subscribe()
	defer s.bus.Unsubscribe(sub)
	for {
		select {
		case ev, ok := <-sub:
			if !ok {
				return
			}
			var err error
			switch e := ev.(type) {
			case events.AdmittedEvent:
				err = s.notifier.NotifyAdmitted(e)
			case events.RemovedEvent:
				err = s.notifier.NotifyRemoved(e)
			}
			if err != nil {
				s.log.Errorf("notify: %v", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// Run starts the API and metrics servers and blocks until the context is
// canceled.
func (s *Service) Run(ctx context.Context) error {
	go s.notifyLoop(ctx)
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	mux := http.NewServeMux()
	handler := apiplacements.NewHandler(s, s.apiToken)
	mux.Handle("/api/placements", handler)
	mux.Handle("/api/placements/", handler)
	if s.decisions != nil {
		mux.Handle("/api/decisions", apidecisions.NewLogHandler(s.decisions, s.apiToken))
	}
	mux.Handle("/api/stats/teachers", apistats.NewTeacherLoadHandler(s, s.apiToken))

	srv := &http.Server{Addr: s.apiAddr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("api server shutdown: %v", err)
		}
	}()
	s.log.Infof("serving API on %s", s.apiAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	s.notifier.Close()
	var err error
	if s.decisions != nil {
		err = s.decisions.Close()
	}
	if cerr := s.store.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
