package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"charsheet/pkg/geom"
)

// fileDocument is the on-disk layout: namespace -> entity -> key -> geometry.
type fileDocument map[string]map[string]map[string]geom.Geometry

// File keeps overrides in one YAML file. Every write rewrites the file
// through a temporary sibling and a rename.
type File struct {
	mu        sync.Mutex
	path      string
	namespace string
	doc       fileDocument
	closed    bool
}

// OpenFile loads path, creating an empty document when it does not exist.
func OpenFile(path, namespace string) (*File, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	f := &File{path: filepath.Clean(path), namespace: namespace, doc: make(fileDocument)}
	data, err := os.ReadFile(f.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return f, nil
	case err != nil:
		return nil, fmt.Errorf("read overrides: %w", err)
	}
	if err := yaml.Unmarshal(data, &f.doc); err != nil {
		return nil, fmt.Errorf("parse overrides %s: %w", f.path, err)
	}
	if f.doc == nil {
		f.doc = make(fileDocument)
	}
	return f, nil
}

func (f *File) Get(ctx context.Context, entityID, key string) (geom.Geometry, bool, error) {
	if err := validate(ctx, entityID, key); err != nil {
		return geom.Geometry{}, false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return geom.Geometry{}, false, ErrClosed
	}
	g, ok := f.doc[f.namespace][entityID][key]
	return g, ok, nil
}

func (f *File) Set(ctx context.Context, entityID, key string, g geom.Geometry) error {
	if err := validate(ctx, entityID, key); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	entity := f.entityCopy(entityID)
	entity[key] = g
	return f.commit(entityID, entity)
}

func (f *File) Delete(ctx context.Context, entityID, key string) error {
	if err := validate(ctx, entityID, key); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	if _, ok := f.doc[f.namespace][entityID][key]; !ok {
		return nil
	}
	entity := f.entityCopy(entityID)
	delete(entity, key)
	return f.commit(entityID, entity)
}

func (f *File) List(ctx context.Context, entityID string) (map[string]geom.Geometry, error) {
	if err := validate(ctx, entityID, "*"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil, ErrClosed
	}
	return f.entityCopy(entityID), nil
}

func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *File) entityCopy(entityID string) map[string]geom.Geometry {
	out := make(map[string]geom.Geometry)
	for k, g := range f.doc[f.namespace][entityID] {
		out[k] = g
	}
	return out
}

// commit installs entity and writes the file. A failed write restores the
// previous records so nothing unsaved is served afterwards.
func (f *File) commit(entityID string, entity map[string]geom.Geometry) error {
	ns, hadNS := f.doc[f.namespace]
	if !hadNS {
		ns = make(map[string]map[string]geom.Geometry)
		f.doc[f.namespace] = ns
	}
	prev, hadEntity := ns[entityID]
	if len(entity) == 0 {
		delete(ns, entityID)
	} else {
		ns[entityID] = entity
	}

	if err := f.flush(); err != nil {
		switch {
		case !hadNS:
			delete(f.doc, f.namespace)
		case hadEntity:
			ns[entityID] = prev
		default:
			delete(ns, entityID)
		}
		return err
	}
	return nil
}

func (f *File) flush() error {
	data, err := yaml.Marshal(f.doc)
	if err != nil {
		return fmt.Errorf("encode overrides: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create overrides dir: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write overrides: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace overrides: %w", err)
	}
	return nil
}
