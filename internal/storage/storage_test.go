package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/diewo77/medicine-recommendation/internal/config"
)

func TestValidKey(t *testing.T) {
	good := []string{"u1_abc.png", "avatar.JPG", "a-b_c.gif"}
	bad := []string{"", ".", "..", "../etc/passwd", "a/b.png", `a\b.png`, "..png", "x\x00.png"}
	for _, k := range good {
		if !ValidKey(k) {
			t.Errorf("ValidKey(%q)=false", k)
		}
	}
	for _, k := range bad {
		if ValidKey(k) {
			t.Errorf("ValidKey(%q)=true", k)
		}
	}
}

func TestContentType(t *testing.T) {
	if ct := ContentType("x.PNG"); ct != "image/png" {
		t.Errorf("png=%q", ct)
	}
	if ct := ContentType("x.unknownext"); ct != "application/octet-stream" {
		t.Errorf("unknown=%q", ct)
	}
}

func TestLocalRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := New(ctx, config.StorageConfig{Backend: "local", UploadDir: t.TempDir()})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := s.Put(ctx, "a.png", strings.NewReader("img"), 3, "image/png"); err != nil {
		t.Fatalf("put: %v", err)
	}
	rc, err := s.Get(ctx, "a.png")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "img" {
		t.Fatalf("data=%q", data)
	}
	if err := s.Delete(ctx, "a.png"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, "a.png"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	// Deleting a missing object is not an error.
	if err := s.Delete(ctx, "a.png"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestLocalRejectsTraversal(t *testing.T) {
	s, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := s.Put(ctx, "../escape.png", strings.NewReader("x"), 1, ""); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("put err=%v", err)
	}
	if _, err := s.Get(ctx, "../../etc/passwd"); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("get err=%v", err)
	}
}

func TestNewRejectsUnknownBackend(t *testing.T) {
	if _, err := New(context.Background(), config.StorageConfig{Backend: "ftp"}); err == nil {
		t.Fatal("expected error")
	}
}
