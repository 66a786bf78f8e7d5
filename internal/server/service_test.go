package server

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestDiffSnapshots(t *testing.T) {
	prev := Snapshot{TotalNewHires: 2, TotalMonthlyIncrease: 24000, HireEvents: 1}
	curr := Snapshot{TotalNewHires: 5, TotalMonthlyIncrease: 40000.5, HireEvents: 2}

	delta := diffSnapshots(prev, curr)
	if delta.TotalNewHires != 3 {
		t.Fatalf("TotalNewHires delta = %d, want 3", delta.TotalNewHires)
	}
	if math.Abs(delta.TotalMonthlyIncrease-16000.5) > 1e-9 {
		t.Fatalf("TotalMonthlyIncrease delta = %.2f, want 16000.50", delta.TotalMonthlyIncrease)
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{EventsBuffer: 2, Logger: quietLogger()})

	for range 3 {
		s.publish(EventRoleUpdated, "x", "eng", Snapshot{}, Snapshot{})
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestConcurrentPublishKeepsIDOrder(t *testing.T) {
	const publishers, perPublisher = 8, 50
	total := publishers * perPublisher

	s := New(Config{EventsBuffer: total, Logger: quietLogger()})
	ch := make(chan Event, total)
	s.addSubscriber(ch)

	var wg sync.WaitGroup
	for range publishers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perPublisher {
				s.publish(EventRoleUpdated, "x", "eng", Snapshot{}, Snapshot{})
			}
		}()
	}
	wg.Wait()

	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.events) != total {
		t.Fatalf("events len = %d, want %d", len(s.events), total)
	}
	for i, ev := range s.events {
		if ev.ID != int64(i+1) {
			t.Fatalf("buffered event %d has ID %d, want %d", i, ev.ID, i+1)
		}
	}
	for i := range total {
		if ev := <-ch; ev.ID != int64(i+1) {
			t.Fatalf("streamed event %d has ID %d, want %d", i, ev.ID, i+1)
		}
	}
}

func TestPublishDoesNotBlockOnSlowSubscriber(t *testing.T) {
	s := New(Config{Logger: quietLogger()})
	ch := make(chan Event) // unbuffered and never read
	s.addSubscriber(ch)

	done := make(chan struct{})
	go func() {
		s.publish(EventRosterReset, "x", "", Snapshot{}, Snapshot{})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on subscriber")
	}
}

func TestSweepExpiresIdleSessions(t *testing.T) {
	s := New(Config{SessionTTL: time.Hour, Logger: quietLogger()})
	idle := s.addSession()
	fresh := s.addSession()

	idle.mu.Lock()
	idle.lastSeen = time.Now().Add(-2 * time.Hour)
	idle.mu.Unlock()

	s.sweep(time.Now())

	if _, ok := s.session(idle.id); ok {
		t.Fatal("idle session survived sweep")
	}
	if _, ok := s.session(fresh.id); !ok {
		t.Fatal("fresh session expired")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.events) != 1 || s.events[0].Type != EventSessionExpired {
		t.Fatalf("events = %+v, want one %s", s.events, EventSessionExpired)
	}
	if s.sweepCount != 1 {
		t.Fatalf("sweepCount = %d, want 1", s.sweepCount)
	}
}
