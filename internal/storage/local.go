package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStorage keeps objects as files below a root directory.
type LocalStorage struct {
	root string
}

func NewLocalStorage(root string) (*LocalStorage, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve upload dir: %w", err)
	}

	err = os.MkdirAll(abs, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	return &LocalStorage{root: abs}, nil
}

// Root is the absolute upload directory.
func (s *LocalStorage) Root() string {
	return s.root
}

// resolve maps a key to a file path, refusing anything outside the root.
func (s *LocalStorage) resolve(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, "\\\x00") || path.IsAbs(key) {
		return "", ErrInvalidKey
	}

	p := filepath.Join(s.root, filepath.FromSlash(key))
	rel, err := filepath.Rel(s.root, p)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrInvalidKey
	}

	return p, nil
}

// Save writes to a temp file first so readers never see a partial object.
func (s *LocalStorage) Save(ctx context.Context, key string, r io.Reader) error {
	p, err := s.resolve(key)
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(p), 0755)
	if err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	_, err = io.Copy(tmp, r)
	if err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}

	err = tmp.Close()
	if err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	err = os.Rename(tmp.Name(), p)
	if err != nil {
		return fmt.Errorf("failed to move file into place: %w", err)
	}

	return nil
}

// Open returns an *os.File, so callers can seek it for range requests.
func (s *LocalStorage) Open(ctx context.Context, key string) (io.ReadCloser, *ObjectInfo, error) {
	p, err := s.resolve(key)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	if st.IsDir() {
		_ = f.Close()
		return nil, nil, ErrNotFound
	}

	return f, &ObjectInfo{Size: st.Size(), ModTime: st.ModTime()}, nil
}

func (s *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	p, err := s.resolve(key)
	if err != nil {
		return false, err
	}

	st, err := os.Stat(p)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return !st.IsDir(), nil
}

func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	p, err := s.resolve(key)
	if err != nil {
		return err
	}

	err = os.Remove(p)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

func (s *LocalStorage) List(ctx context.Context) ([]string, error) {
	var keys []string

	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}

	return keys, nil
}
