package filestore

import (
	"bytes"
	"io"
	"io/ioutil"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

// memStore is a test double keeping files in memory.
type memStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

var _ core.FileStore = (*memStore)(nil)

func NewMemStoreMock() core.FileStore {
	return &memStore{files: make(map[string][]byte)}
}

func (fs *memStore) Save(category, filename string, content io.Reader) (string, error) {
	data, err := ioutil.ReadAll(content)
	if err != nil {
		return "", errors.Wrap(err, "reading content")
	}
	ref := category + "/" + uuid.New().String()

	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.files[ref] = data
	return ref, nil
}

func (fs *memStore) Open(ref string) (io.ReadCloser, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, ok := fs.files[ref]
	if !ok {
		return nil, errors.New("file not found: " + ref)
	}
	return ioutil.NopCloser(bytes.NewReader(data)), nil
}

func (fs *memStore) Delete(ref string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	delete(fs.files, ref)
	return nil
}
