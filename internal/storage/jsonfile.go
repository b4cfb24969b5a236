package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/peterbourgon/diskv/v3"

	"ticktodo/internal/todo"
)

// jsonBackend keeps the list as one JSON document. diskv writes through a
// temporary file in the same directory and renames it into place.
type jsonBackend struct {
	d    *diskv.Diskv
	key  string
	path string
}

func openJSON(path string) (*jsonBackend, error) {
	dir := filepath.Dir(path)
	d := diskv.New(diskv.Options{
		BasePath:          dir,
		TempDir:           dir,
		AdvancedTransform: flatTransform,
		InverseTransform:  flatInverseTransform,
		FilePerm:          0o644,
		PathPerm:          0o755,
	})
	return &jsonBackend{d: d, key: filepath.Base(path), path: path}, nil
}

func flatTransform(key string) *diskv.PathKey {
	return &diskv.PathKey{Path: []string{}, FileName: key}
}

func flatInverseTransform(pk *diskv.PathKey) string {
	return pk.FileName
}

func (j *jsonBackend) Path() string {
	return j.path
}

func (j *jsonBackend) Close() error {
	return nil
}

func (j *jsonBackend) Load() (*todo.List, error) {
	if !j.d.Has(j.key) {
		l := todo.New()
		if err := j.Save(l); err != nil {
			return nil, fmt.Errorf("create %s: %w", j.path, err)
		}
		return l, nil
	}
	data, err := j.d.Read(j.key)
	if err != nil {
		return nil, err
	}
	l := todo.New()
	if len(bytes.TrimSpace(data)) == 0 {
		return l, nil
	}
	if err := json.Unmarshal(data, l); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidData, j.path, err)
	}
	return normalize(l), nil
}

func (j *jsonBackend) Save(l *todo.List) error {
	data, err := json.MarshalIndent(normalize(l), "", "  ")
	if err != nil {
		return err
	}
	return j.d.Write(j.key, data)
}
