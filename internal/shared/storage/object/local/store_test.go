package local

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestPutThenOpen(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	n, err := store.Put(ctx, "requestlogs/tech_stack/abc.json", "application/json", strings.NewReader(`{"id":"abc"}`))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if n != int64(len(`{"id":"abc"}`)) {
		t.Fatalf("size = %d", n)
	}

	rc, err := store.Open(ctx, "requestlogs/tech_stack/abc.json")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	body, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(body) != `{"id":"abc"}` {
		t.Fatalf("body = %q", body)
	}
}

func TestRejectsTraversal(t *testing.T) {
	store := New(t.TempDir())
	for _, key := range []string{"../escape.json", "/abs/path.json", ""} {
		if _, err := store.Put(context.Background(), key, "", strings.NewReader("x")); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
		if _, err := store.Open(context.Background(), key); err == nil {
			t.Fatalf("expected open error for key %q", key)
		}
	}
}

func TestPutHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(t.TempDir()).Put(ctx, "a.json", "", strings.NewReader("x")); err == nil {
		t.Fatalf("expected context error")
	}
}
