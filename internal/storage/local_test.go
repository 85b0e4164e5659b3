package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

// LocalStorageTestSuite runs every test against a fresh media root
type LocalStorageTestSuite struct {
	suite.Suite
	root  string
	store *LocalStorage
	ctx   context.Context
}

func (s *LocalStorageTestSuite) SetupTest() {
	s.root = s.T().TempDir()
	store, err := NewLocalStorage(s.root, "/media/")
	s.Require().NoError(err)
	s.store = store
	s.ctx = context.Background()
}

func (s *LocalStorageTestSuite) TestRoundTrip() {
	key := "videos/clip.mp4"
	s.Require().NoError(s.store.Save(s.ctx, key, strings.NewReader("0123456789")))

	size, err := s.store.Size(s.ctx, key)
	s.Require().NoError(err)
	s.Equal(int64(10), size)

	rc, err := s.store.Open(s.ctx, key, 2, 5)
	s.Require().NoError(err)
	data, err := io.ReadAll(rc)
	s.Require().NoError(err)
	s.Require().NoError(rc.Close())
	s.Equal("23456", string(data))

	s.Equal("/media/videos/clip.mp4", s.store.URL(key))

	s.Require().NoError(s.store.Delete(s.ctx, key))
	_, err = s.store.Size(s.ctx, key)
	s.ErrorIs(err, ErrObjectNotFound)

	// deleting twice is fine
	s.NoError(s.store.Delete(s.ctx, key))
}

func (s *LocalStorageTestSuite) TestOverwrite() {
	s.Require().NoError(s.store.Save(s.ctx, "a.txt", strings.NewReader("first")))
	s.Require().NoError(s.store.Save(s.ctx, "a.txt", strings.NewReader("2nd")))

	size, err := s.store.Size(s.ctx, "a.txt")
	s.Require().NoError(err)
	s.Equal(int64(3), size)
}

func (s *LocalStorageTestSuite) TestOpenMissing() {
	_, err := s.store.Open(s.ctx, "nope.mp4", 0, 1)
	s.ErrorIs(err, ErrObjectNotFound)
}

func (s *LocalStorageTestSuite) TestKeyCannotEscapeRoot() {
	s.Require().NoError(s.store.Save(s.ctx, "../../escape.txt", strings.NewReader("x")))

	_, err := os.Stat(filepath.Join(s.root, "escape.txt"))
	s.NoError(err)
}

func TestLocalStorageTestSuite(t *testing.T) {
	suite.Run(t, new(LocalStorageTestSuite))
}

func TestNewKey(t *testing.T) {
	key := NewKey("previews", "Holiday.PNG")
	assert.True(t, strings.HasPrefix(key, "previews/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.NotEqual(t, key, NewKey("previews", "Holiday.PNG"))
}
