// Package server exposes hiring plans over HTTP, one roster per planning session.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/theirongolddev/runway/internal/forecast"
	"github.com/theirongolddev/runway/internal/model"
	"github.com/theirongolddev/runway/internal/pipeline"
)

// Config controls the server runtime behavior.
type Config struct {
	Addr         string
	EventsBuffer int
	Months       int
	Baseline     model.Baseline
	SessionTTL   time.Duration
	Interval     time.Duration
	Forecaster   *forecast.Forecaster
	Logger       *logrus.Logger
}

// Snapshot is a compact roster state for event payloads.
type Snapshot struct {
	TotalNewHires        int     `json:"total_new_hires"`
	TotalMonthlyIncrease float64 `json:"total_monthly_increase"`
	HireEvents           int     `json:"hire_events"`
}

// Delta captures the change between two snapshots.
type Delta struct {
	TotalNewHires        int     `json:"total_new_hires"`
	TotalMonthlyIncrease float64 `json:"total_monthly_increase"`
}

// Event types.
const (
	EventHello          = "hello"
	EventSessionCreated = "session_created"
	EventSessionDeleted = "session_deleted"
	EventSessionExpired = "session_expired"
	EventRoleUpdated    = "role_updated"
	EventRosterReset    = "roster_reset"
)

// Event is emitted whenever a session's roster changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id,omitempty"`
	RoleID    string    `json:"role_id,omitempty"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	UptimeSec       int64     `json:"uptime_sec"`
	Addr            string    `json:"addr"`
	Months          int       `json:"months"`
	Sessions        int       `json:"sessions"`
	SweepCount      int64     `json:"sweep_count"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the planning-session runtime and HTTP API.
type Service struct {
	cfg Config
	log *logrus.Logger

	mu          sync.RWMutex
	startedAt   time.Time
	sweepCount  int64
	sessions    map[string]*session
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new service with the provided config.
func New(cfg Config) *Service {
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8790"
	}
	if cfg.Months <= 0 {
		cfg.Months = model.ProjectionMonths
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if cfg.Interval < time.Second {
		cfg.Interval = time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	if cfg.Forecaster == nil {
		cfg.Forecaster = forecast.NewForecaster(nil, nil, 0, cfg.Logger)
	}

	return &Service{
		cfg:       cfg,
		log:       cfg.Logger,
		startedAt: time.Now(),
		sessions:  make(map[string]*session),
		subs:      make(map[int]chan Event),
	}
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/events", s.handleEvents)
	mux.HandleFunc("GET /v1/stream", s.handleStream)

	mux.HandleFunc("POST /v1/sessions", s.handleCreateSession)
	mux.HandleFunc("DELETE /v1/sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("GET /v1/sessions/{id}/roles", s.handleRoles)
	mux.HandleFunc("PATCH /v1/sessions/{id}/roles/{roleID}", s.handlePatchRole)
	mux.HandleFunc("POST /v1/sessions/{id}/reset", s.handleReset)
	mux.HandleFunc("GET /v1/sessions/{id}/impact", s.handleImpact)
	mux.HandleFunc("GET /v1/sessions/{id}/runway", s.handleRunway)

	return s.logRequests(mux)
}

// Run serves the HTTP API and expires idle sessions until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.WithField("addr", s.cfg.Addr).Info("runway server listening")

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case now := <-ticker.C:
			s.sweep(now)
		case err := <-errCh:
			return fmt.Errorf("runway http server: %w", err)
		}
	}
}

// sweep drops sessions idle for longer than SessionTTL.
func (s *Service) sweep(now time.Time) {
	var expired []string

	s.mu.Lock()
	s.sweepCount++
	for id, sess := range s.sessions {
		if now.Sub(sess.lastUsed()) > s.cfg.SessionTTL {
			delete(s.sessions, id)
			expired = append(expired, id)
		}
	}
	s.mu.Unlock()

	for _, id := range expired {
		s.log.WithField("session", id).Info("session expired")
		s.publish(EventSessionExpired, id, "", Snapshot{}, Snapshot{})
	}
}

func snapshotFromImpact(impact model.HiringImpact) Snapshot {
	return Snapshot{
		TotalNewHires:        pipeline.TotalNewHires(impact.Roles),
		TotalMonthlyIncrease: impact.TotalMonthlyIncrease,
		HireEvents:           len(impact.HireEvents),
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		TotalNewHires:        curr.TotalNewHires - prev.TotalNewHires,
		TotalMonthlyIncrease: curr.TotalMonthlyIncrease - prev.TotalMonthlyIncrease,
	}
}

// publish records a roster event and fans it out to stream subscribers.
// IDs are assigned under the same lock that appends, so the buffer and
// every stream see events in ID order.
func (s *Service) publish(typ, sessionID, roleID string, prev, curr Snapshot) {
	delta := diffSnapshots(prev, curr)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextEventID++
	s.publishLocked(Event{
		ID:        s.nextEventID,
		Type:      typ,
		Timestamp: time.Now(),
		SessionID: sessionID,
		RoleID:    roleID,
		Snapshot:  curr,
		Delta:     delta,
	})
}

// publishLocked requires s.mu held for writing.
func (s *Service) publishLocked(ev Event) {
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		UptimeSec:       int64(time.Since(s.startedAt).Seconds()),
		Addr:            s.cfg.Addr,
		Months:          s.cfg.Months,
		Sessions:        len(s.sessions),
		SweepCount:      s.sweepCount,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
