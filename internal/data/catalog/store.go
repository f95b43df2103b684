// Package catalog persists locale catalogs: flat JSON objects mapping a
// source text key to its translation.
package catalog

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"os"

	"litscan/internal/core/errors"
	"litscan/internal/shared/observability"
	"litscan/internal/shared/util"
)

// Store reads and writes catalog files. Inserts into the same path are
// serialized, so concurrent read-modify-write cycles never lose a key.
type Store struct {
	locks *util.KeyedMutex
	perm  fs.FileMode
}

func NewStore() *Store {
	return &Store{locks: util.NewKeyedMutex(), perm: 0o644}
}

// Insert adds key=value to the catalog at path unless key already exists.
// The file and its parent directories are created on demand. Values that are
// not strings (nested objects) survive the rewrite untouched.
func (s *Store) Insert(path, key, value string) (bool, error) {
	unlock := s.locks.Lock(path)
	defer unlock()

	entries, err := readRaw(path)
	if err != nil {
		observability.CatalogWritesTotal.WithLabelValues("error").Inc()
		return false, err
	}
	if _, ok := entries[key]; ok {
		observability.CatalogWritesTotal.WithLabelValues("exists").Inc()
		return false, nil
	}

	raw, err := encode(value)
	if err != nil {
		observability.CatalogWritesTotal.WithLabelValues("error").Inc()
		return false, errors.AddContext(errors.Wrap(err, errors.CodeInternal, "encode catalog value"), errors.CtxPath, path)
	}
	entries[key] = json.RawMessage(bytes.TrimRight(raw, "\n"))

	data, err := encode(entries)
	if err != nil {
		observability.CatalogWritesTotal.WithLabelValues("error").Inc()
		return false, errors.AddContext(errors.Wrap(err, errors.CodeInternal, "encode catalog"), errors.CtxPath, path)
	}
	if err := util.WriteFileAtomic(path, data, s.perm); err != nil {
		observability.CatalogWritesTotal.WithLabelValues("error").Inc()
		return false, errors.AddContext(errors.Wrap(err, errors.CodeIO, "write catalog"), errors.CtxPath, path)
	}
	observability.CatalogWritesTotal.WithLabelValues("inserted").Inc()
	return true, nil
}

// Contains reports whether key is already present in the catalog at path.
func (s *Store) Contains(path, key string) (bool, error) {
	unlock := s.locks.Lock(path)
	defer unlock()

	entries, err := readRaw(path)
	if err != nil {
		return false, err
	}
	_, ok := entries[key]
	return ok, nil
}

// Load returns the string entries of the catalog at path. A missing file is
// an empty catalog.
func (s *Store) Load(path string) (map[string]string, error) {
	unlock := s.locks.Lock(path)
	defer unlock()

	entries, err := readRaw(path)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(entries))
	for k, raw := range entries {
		var v string
		if json.Unmarshal(raw, &v) == nil {
			out[k] = v
		}
	}
	return out, nil
}

func readRaw(path string) (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return make(map[string]json.RawMessage), nil
	}
	if err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeIO, "read catalog"), errors.CtxPath, path)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return make(map[string]json.RawMessage), nil
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeValidationError, "malformed catalog"), errors.CtxPath, path)
	}
	if entries == nil {
		// The file holds JSON null.
		entries = make(map[string]json.RawMessage)
	}
	return entries, nil
}

// encode writes pretty JSON with sorted keys and without HTML escaping, so
// "<b>" stays readable in catalogs.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
