package local

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"documate/internal/shared/storage/object"
)

func TestSaveOpenDelete(t *testing.T) {
	ctx := context.Background()
	store := New(t.TempDir())

	key, size, mimeType, err := store.Save(ctx, "tg:42", "notes.pdf", strings.NewReader("%PDF-1.4 hello"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if size != int64(len("%PDF-1.4 hello")) {
		t.Fatalf("unexpected size %d", size)
	}
	if mimeType != "application/pdf" {
		t.Fatalf("expected sniffed application/pdf, got %q", mimeType)
	}
	if !strings.HasSuffix(key, "_notes.pdf") {
		t.Fatalf("unexpected key %q", key)
	}

	rc, err := store.Open(ctx, key)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "%PDF-1.4 hello" {
		t.Fatalf("unexpected content %q", data)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Open(ctx, key); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("second delete should be a no-op, got %v", err)
	}
}

func TestRejectsTraversalKeys(t *testing.T) {
	ctx := context.Background()
	store := New(t.TempDir())

	for _, key := range []string{"../outside", "/etc/passwd", ""} {
		if _, err := store.Open(ctx, key); err == nil {
			t.Fatalf("expected open error for %q", key)
		}
		if err := store.Delete(ctx, key); err == nil {
			t.Fatalf("expected delete error for %q", key)
		}
	}
}
