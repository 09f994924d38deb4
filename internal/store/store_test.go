package store

import (
	"errors"
	"testing"
	"time"

	"github.com/quadrant-labs/StrategyPipe/internal/flow"
)

func TestSessionStoreSaveAndGet(t *testing.T) {
	s := NewSessionStore(time.Minute)
	sess := flow.NewSession()
	s.Save(sess)

	got, err := s.Get(sess.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != sess {
		t.Error("Get returned a different session instance")
	}
	if s.Count() != 1 {
		t.Errorf("Expected count 1, got %d", s.Count())
	}
}

func TestSessionStoreGetUnknown(t *testing.T) {
	s := NewSessionStore(time.Minute)
	if _, err := s.Get("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionStoreDelete(t *testing.T) {
	s := NewSessionStore(time.Minute)
	sess := flow.NewSession()
	s.Save(sess)
	s.Delete(sess.ID)

	if _, err := s.Get(sess.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound after delete, got %v", err)
	}
	if s.Count() != 0 {
		t.Errorf("Expected count 0, got %d", s.Count())
	}
}

func TestSessionStoreExpiry(t *testing.T) {
	s := NewSessionStore(30 * time.Millisecond)
	sess := flow.NewSession()
	s.Save(sess)

	time.Sleep(80 * time.Millisecond)
	if _, err := s.Get(sess.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected expired session to be gone, got %v", err)
	}
}

func TestSessionStoreGetRefreshesExpiry(t *testing.T) {
	s := NewSessionStore(60 * time.Millisecond)
	sess := flow.NewSession()
	s.Save(sess)

	// keep touching the session past its original TTL
	for i := 0; i < 4; i++ {
		time.Sleep(30 * time.Millisecond)
		if _, err := s.Get(sess.ID); err != nil {
			t.Fatalf("Session expired despite being touched: %v", err)
		}
	}
}

func TestSessionStoreDefaultTTL(t *testing.T) {
	s := NewSessionStore(0)
	if s.ttl != DefaultTTL {
		t.Errorf("Expected default TTL %v, got %v", DefaultTTL, s.ttl)
	}
}
