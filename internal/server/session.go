package server

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/theirongolddev/runway/internal/model"
	"github.com/theirongolddev/runway/internal/planner"
)

// session owns one roster. The planner is not safe for concurrent use,
// so every access goes through mu.
type session struct {
	id      string
	created time.Time

	mu       sync.Mutex
	planner  *planner.Planner
	lastSeen time.Time
}

func newSession() *session {
	now := time.Now()
	return &session{
		id:       uuid.NewString(),
		created:  now,
		planner:  planner.NewDefault(),
		lastSeen: now,
	}
}

func (s *session) lastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// view returns the current impact snapshot.
func (s *session) view() model.HiringImpact {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	return s.planner.Impact()
}

// patchRole merges body into the role with the given id and applies the
// result. Lookup, merge and update share one lock so overlapping patches
// to the same role never write back a stale field. An unknown id changes
// nothing.
func (s *session) patchRole(id string, body []byte) (before, after model.HiringImpact, changed bool, err error) {
	before, after, changed = s.mutate(func(p *planner.Planner) {
		current, ok := p.Role(id)
		if !ok {
			return
		}
		var patch model.RolePatch
		patch, err = mergeRolePatch(current, body)
		if err != nil {
			return
		}
		p.UpdateRole(id, patch)
	})
	return before, after, changed, err
}

// mutate applies fn and reports the impact before and after, plus whether
// the roster changed.
func (s *session) mutate(fn func(p *planner.Planner)) (before, after model.HiringImpact, changed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()

	before = s.planner.Impact()
	fn(s.planner)
	after = s.planner.Impact()
	return before, after, !slices.Equal(before.Roles, after.Roles)
}

func (s *Service) addSession() *session {
	sess := newSession()
	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	return sess
}

func (s *Service) session(id string) (*session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *Service) removeSession(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}
