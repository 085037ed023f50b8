package local

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestSaveOpenDelete(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	key, size, err := store.Save(ctx, "report.xlsx", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if size != 5 {
		t.Fatalf("expected 5 bytes written, got %d", size)
	}
	if !strings.HasSuffix(key, "_report.xlsx") {
		t.Fatalf("expected key to end with original name, got %q", key)
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
	if string(data) != "hello" {
		t.Fatalf("unexpected content %q", data)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Open(ctx, key); err == nil {
		t.Fatal("expected open after delete to fail")
	}
}

func TestSaveUniqueKeys(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	k1, _, err := store.Save(ctx, "a.xlsx", strings.NewReader("1"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	k2, _, err := store.Save(ctx, "a.xlsx", strings.NewReader("2"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if k1 == k2 {
		t.Fatalf("expected distinct keys for same name, got %q twice", k1)
	}
}

func TestOpenRejectsTraversal(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Open(context.Background(), "../outside"); err == nil {
		t.Fatal("expected traversal key to be rejected")
	}
}
