package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStorage keeps objects as files below root.
type LocalStorage struct {
	root    string
	urlBase string
}

func NewLocalStorage(root, urlBase string) (*LocalStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}
	return &LocalStorage{root: root, urlBase: strings.TrimSuffix(urlBase, "/")}, nil
}

// Root is the directory served as static media.
func (s *LocalStorage) Root() string {
	return s.root
}

// path.Clean on a rooted key drops any ".." segments before joining with root
func (s *LocalStorage) filePath(key string) string {
	clean := path.Clean("/" + key)
	return filepath.Join(s.root, filepath.FromSlash(clean))
}

func (s *LocalStorage) Save(ctx context.Context, key string, r io.Reader) error {
	dst := s.filePath(key)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create object dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("write object %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close object %s: %w", key, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}

type limitedFile struct {
	io.Reader
	io.Closer
}

func (s *LocalStorage) Open(ctx context.Context, key string, offset, length int64) (io.ReadCloser, error) {
	f, err := os.Open(s.filePath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrObjectNotFound
		}
		return nil, err
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("seek object %s: %w", key, err)
	}
	return limitedFile{Reader: io.LimitReader(f, length), Closer: f}, nil
}

func (s *LocalStorage) Size(ctx context.Context, key string) (int64, error) {
	info, err := os.Stat(s.filePath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, ErrObjectNotFound
		}
		return 0, err
	}
	return info.Size(), nil
}

func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	err := os.Remove(s.filePath(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *LocalStorage) URL(key string) string {
	return s.urlBase + path.Clean("/"+key)
}
