package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}

	err = s.Save(ctx, "a.jpg", strings.NewReader("original"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	err = s.Save(ctx, "thumbs/a.jpg", strings.NewReader("thumb"))
	if err != nil {
		t.Fatalf("save thumb: %v", err)
	}

	rc, info, err := s.Open(ctx, "thumbs/a.jpg")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(body) != "thumb" || info.Size != 5 {
		t.Errorf("got %q (size %d)", body, info.Size)
	}

	keys, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	sort.Strings(keys)
	if strings.Join(keys, ",") != "a.jpg,thumbs/a.jpg" {
		t.Errorf("keys = %v", keys)
	}

	err = s.Delete(ctx, "a.jpg")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	ok, err := s.Exists(ctx, "a.jpg")
	if err != nil || ok {
		t.Errorf("exists after delete = %v, %v", ok, err)
	}

	// deleting twice is fine
	if err := s.Delete(ctx, "a.jpg"); err != nil {
		t.Errorf("second delete: %v", err)
	}

	_, _, err = s.Open(ctx, "a.jpg")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("open missing = %v, want ErrNotFound", err)
	}
}

func TestLocalStorageRejectsEscapes(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewLocalStorage(filepath.Join(dir, "uploads"))
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "secret.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	for _, key := range []string{"../secret.txt", "/etc/passwd", "thumbs/../../secret.txt", `..\secret.txt`, "", ".", "a\x00b"} {
		_, _, err := s.Open(ctx, key)
		if !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Open(%q) = %v, want ErrInvalidKey", key, err)
		}
		if err := s.Save(ctx, key, strings.NewReader("x")); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Save(%q) = %v, want ErrInvalidKey", key, err)
		}
	}
}
