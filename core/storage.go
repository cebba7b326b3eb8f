package core

import "io"

// FileStore is any service that can persist named byte streams under a
// destination category and hand back a stable reference for later
// retrieval or deletion.
type FileStore interface {
	Save(category, filename string, content io.Reader) (ref string, err error)
	Open(ref string) (io.ReadCloser, error)
	Delete(ref string) error
}
