package filestore

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

// localStore keeps uploads on disk under a root directory, one
// subdirectory per category. References are paths relative to the root so
// they stay valid if the root moves.
type localStore struct {
	root string
}

var _ core.FileStore = (*localStore)(nil)

func NewLocalStore(root string) (core.FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating media root")
	}
	return &localStore{root: root}, nil
}

func (fs *localStore) Save(category, filename string, content io.Reader) (string, error) {
	dir := filepath.Join(fs.root, category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "creating category dir")
	}

	// avoid collisions; keep the original extension for content sniffing
	name := uuid.New().String() + strings.ToLower(filepath.Ext(filename))
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "creating file")
	}
	defer func() { _ = f.Close() }()

	if _, err = io.Copy(f, content); err != nil {
		_ = os.Remove(path)
		return "", errors.Wrap(err, "writing file")
	}
	return filepath.ToSlash(filepath.Join(category, name)), nil
}

func (fs *localStore) Open(ref string) (io.ReadCloser, error) {
	f, err := os.Open(fs.path(ref))
	return f, errors.Wrap(err, "opening file")
}

func (fs *localStore) Delete(ref string) error {
	if err := os.Remove(fs.path(ref)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing file")
	}
	return nil
}

func (fs *localStore) path(ref string) string {
	return filepath.Join(fs.root, filepath.FromSlash(ref))
}
