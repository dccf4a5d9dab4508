package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	ctx := context.Background()
	s := NewRedisStore(client, time.Hour)

	if err := s.Set(ctx, "sid", "u1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mr.Exists("session:sid") {
		t.Fatalf("expected prefixed key")
	}
	if ttl := mr.TTL("session:sid"); ttl != time.Hour {
		t.Fatalf("ttl=%v", ttl)
	}
	if uid, ok, err := s.Get(ctx, "sid"); err != nil || !ok || uid != "u1" {
		t.Fatalf("get: %q %v %v", uid, ok, err)
	}

	mr.FastForward(time.Hour)
	if _, ok, err := s.Get(ctx, "sid"); err != nil || ok {
		t.Fatalf("expected expiry, ok=%v err=%v", ok, err)
	}

	_ = s.Set(ctx, "sid2", "u2")
	if err := s.Clear(ctx, "sid2"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "sid2"); ok {
		t.Fatalf("cleared session still present")
	}
}

func TestDialRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	client, err := DialRedis(context.Background(), addr, "", 0)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	client.Close()

	mr.Close()
	if _, err := DialRedis(context.Background(), addr, "", 0); err == nil {
		t.Fatalf("expected dial error after server close")
	}
}
