package auth

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1000, 0)
	s := NewMemoryStore(time.Hour)
	s.now = func() time.Time { return now }

	if err := s.Set(ctx, "sid", "u1"); err != nil {
		t.Fatal(err)
	}
	if uid, ok, _ := s.Get(ctx, "sid"); !ok || uid != "u1" {
		t.Fatalf("got %q %v", uid, ok)
	}

	now = now.Add(59 * time.Minute)
	if _, ok, _ := s.Get(ctx, "sid"); !ok {
		t.Fatalf("session expired early")
	}

	now = now.Add(time.Minute)
	if _, ok, _ := s.Get(ctx, "sid"); ok {
		t.Fatalf("session should have expired")
	}
}

func TestMemoryStoreClearAndSweep(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(0, 0)
	s := NewMemoryStore(time.Minute)
	s.now = func() time.Time { return now }

	_ = s.Set(ctx, "a", "u1")
	_ = s.Set(ctx, "b", "u2")
	_ = s.Clear(ctx, "a")
	if _, ok, _ := s.Get(ctx, "a"); ok {
		t.Fatalf("cleared session still present")
	}

	now = now.Add(2 * time.Minute)
	if n := s.Sweep(); n != 1 {
		t.Fatalf("swept %d, want 1", n)
	}
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Hour)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := NewSessionID()
			_ = s.Set(ctx, id, "u")
			_, _, _ = s.Get(ctx, id)
			_ = s.Clear(ctx, id)
		}(i)
	}
	wg.Wait()
}
