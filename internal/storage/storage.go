// Package storage persists a todo.List between sessions.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"ticktodo/internal/todo"
)

const (
	KindSQLite = "sqlite"
	KindJSON   = "json"
)

// ErrInvalidData reports persisted state that could not be decoded. The file
// is never rewritten when this is returned.
var ErrInvalidData = errors.New("invalid persisted data")

// Backend loads and saves a whole list. Load creates an empty default when
// nothing has been stored at the path yet.
type Backend interface {
	Load() (*todo.List, error)
	Save(l *todo.List) error
	Path() string
	Close() error
}

// Open returns the backend of the given kind rooted at path.
func Open(kind, path string) (Backend, error) {
	if path == "" {
		return nil, errors.New("data path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	switch kind {
	case KindSQLite, "":
		return openSQLite(path)
	case KindJSON:
		return openJSON(path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", kind)
	}
}

func normalize(l *todo.List) *todo.List {
	if l.Pending == nil {
		l.Pending = []todo.Item{}
	}
	if l.Completed == nil {
		l.Completed = []todo.Item{}
	}
	for i := range l.Pending {
		l.Pending[i].Completed = false
		if l.Pending[i].ID == "" {
			l.Pending[i].ID = uuid.NewString()
		}
	}
	for i := range l.Completed {
		l.Completed[i].Completed = true
		if l.Completed[i].ID == "" {
			l.Completed[i].ID = uuid.NewString()
		}
	}
	return l
}
