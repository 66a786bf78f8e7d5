package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	jsonpatch "github.com/evanphx/json-patch/v5"
	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	"github.com/theirongolddev/runway/internal/model"
	"github.com/theirongolddev/runway/internal/pipeline"
	"github.com/theirongolddev/runway/internal/planner"
)

var errPatchNotObject = errors.New("merge patch must be a JSON object")

const (
	maxBodySize = 1 << 20 // 1 MB
	maxMonths   = 120
)

// RolesResponse is served at /v1/sessions/{id}/roles.
type RolesResponse struct {
	SessionID            string       `json:"session_id"`
	Roles                []model.Role `json:"roles"`
	TotalNewHires        int          `json:"total_new_hires"`
	TotalMonthlyIncrease float64      `json:"total_monthly_increase"`
}

// ImpactResponse is served at /v1/sessions/{id}/impact.
type ImpactResponse struct {
	SessionID            string            `json:"session_id"`
	Months               int               `json:"months"`
	TotalMonthlyIncrease float64           `json:"total_monthly_increase"`
	HireEvents           []model.HireEvent `json:"hire_events"`
	ImpactByMonth        []float64         `json:"impact_by_month"`
}

// SessionResponse is returned when a session is created.
type SessionResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	sess := s.addSession()
	impact := sess.view()
	s.publish(EventSessionCreated, sess.id, "", Snapshot{}, snapshotFromImpact(impact))
	writeJSON(w, http.StatusCreated, SessionResponse{ID: sess.id, CreatedAt: sess.created})
}

func (s *Service) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.removeSession(id) {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	s.publish(EventSessionDeleted, id, "", Snapshot{}, Snapshot{})
	w.WriteHeader(http.StatusNoContent)
}

// lookup resolves the {id} path value, writing a 404 when it is unknown.
func (s *Service) lookup(w http.ResponseWriter, r *http.Request) (*session, bool) {
	sess, ok := s.session(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown session")
	}
	return sess, ok
}

func rolesResponse(id string, impact model.HiringImpact) RolesResponse {
	return RolesResponse{
		SessionID:            id,
		Roles:                impact.Roles,
		TotalNewHires:        pipeline.TotalNewHires(impact.Roles),
		TotalMonthlyIncrease: impact.TotalMonthlyIncrease,
	}
}

func (s *Service) handleRoles(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rolesResponse(sess.id, sess.view()))
}

// handlePatchRole applies an RFC 7396 merge patch to one role. Values are
// clamped by the planner. An unknown role id leaves the roster unchanged.
func (s *Service) handlePatchRole(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	roleID := r.PathValue("roleID")

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading body")
		return
	}
	if !json.Valid(body) {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if !isJSONObject(body) {
		writeError(w, http.StatusBadRequest, errPatchNotObject.Error())
		return
	}

	before, after, changed, err := sess.patchRole(roleID, body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if changed {
		s.publish(EventRoleUpdated, sess.id, roleID, snapshotFromImpact(before), snapshotFromImpact(after))
	}
	writeJSON(w, http.StatusOK, rolesResponse(sess.id, after))
}

// mergeRolePatch merges body into role and returns the resulting field
// values as a RolePatch. The role id cannot be changed, and body must be a
// JSON object: any other document would replace the whole role.
func mergeRolePatch(role model.Role, body []byte) (model.RolePatch, error) {
	if !isJSONObject(body) {
		return model.RolePatch{}, errPatchNotObject
	}
	original, err := json.Marshal(role)
	if err != nil {
		return model.RolePatch{}, fmt.Errorf("encoding role: %w", err)
	}
	merged, err := jsonpatch.MergePatch(original, body)
	if err != nil {
		return model.RolePatch{}, fmt.Errorf("applying merge patch: %w", err)
	}

	var updated model.Role
	if err := json.Unmarshal(merged, &updated); err != nil {
		return model.RolePatch{}, fmt.Errorf("invalid role fields: %w", err)
	}
	return model.RolePatch{
		Title:      &updated.Title,
		Salary:     &updated.Salary,
		Count:      &updated.Count,
		StartMonth: &updated.StartMonth,
		Color:      &updated.Color,
	}, nil
}

func isJSONObject(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func (s *Service) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	before, after, changed := sess.mutate(func(p *planner.Planner) {
		p.Reset()
	})
	if changed {
		s.publish(EventRosterReset, sess.id, "", snapshotFromImpact(before), snapshotFromImpact(after))
	}
	writeJSON(w, http.StatusOK, rolesResponse(sess.id, after))
}

// months reads the ?months= query value, defaulting to the server window.
func (s *Service) months(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("months")
	if raw == "" {
		return s.cfg.Months, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid months %q", raw)
	}
	if n <= 0 {
		return s.cfg.Months, nil
	}
	return min(n, maxMonths), nil
}

func (s *Service) handleImpact(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	months, err := s.months(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	impact := sess.view()
	writeJSON(w, http.StatusOK, ImpactResponse{
		SessionID:            sess.id,
		Months:               months,
		TotalMonthlyIncrease: impact.TotalMonthlyIncrease,
		HireEvents:           impact.HireEvents,
		ImpactByMonth:        pipeline.ImpactByMonth(impact, months),
	})
}

func (s *Service) handleRunway(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	months, err := s.months(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res := s.cfg.Forecaster.Forecast(r.Context(), s.cfg.Baseline, sess.view(), months)
	writeJSON(w, http.StatusOK, res.Summary)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	writeSSE(w, Event{Type: EventHello, Timestamp: time.Now()})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *Service) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).Round(time.Microsecond),
		}).Debug("request")
	})
}
