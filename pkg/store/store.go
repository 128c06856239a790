// Package store persists layout overrides: one geometry per (entity, field
// key), scoped under a namespace so several plugins can share a backend.
//
// Backends:
//   - memory: in-process map, for tests and one-shot renders
//   - file: a single YAML document, for the CLI
//   - sqlite: a local database file
//   - redis: one hash per entity, for shared deployments
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charsheet/pkg/geom"
)

// DefaultNamespace scopes every record this module writes.
const DefaultNamespace = "charsheet"

var (
	// ErrClosed is returned by every method after Close.
	ErrClosed = errors.New("store closed")

	// ErrInvalidKey is returned for an empty entity id or field key.
	ErrInvalidKey = errors.New("entity id and key are required")

	// ErrUnknownDriver is returned by Open for an unsupported driver name.
	ErrUnknownDriver = errors.New("unknown store driver")
)

// Store is the persistence interface for overrides.
type Store interface {
	// Get returns the override for key, or false when none exists.
	Get(ctx context.Context, entityID, key string) (geom.Geometry, bool, error)

	// Set creates or replaces the override for key.
	Set(ctx context.Context, entityID, key string, g geom.Geometry) error

	// Delete removes the override for key. Deleting a missing record is not
	// an error.
	Delete(ctx context.Context, entityID, key string) error

	// List returns every override of one entity.
	List(ctx context.Context, entityID string) (map[string]geom.Geometry, error)

	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Driver    string `toml:"driver" env:"DRIVER"`
	Path      string `toml:"path" env:"PATH"`
	Namespace string `toml:"namespace" env:"NAMESPACE"`
	RedisAddr string `toml:"redis_addr" env:"REDIS_ADDR"`
	RedisDB   int    `toml:"redis_db" env:"REDIS_DB"`
}

// Open returns the backend named by cfg.Driver.
func Open(ctx context.Context, cfg Config) (Store, error) {
	ns := strings.TrimSpace(cfg.Namespace)
	if ns == "" {
		ns = DefaultNamespace
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "memory":
		return NewMemory(ns), nil
	case "file", "yaml":
		return OpenFile(cfg.Path, ns)
	case "sqlite":
		return OpenSQLite(ctx, cfg.Path, ns)
	case "redis":
		return OpenRedis(ctx, RedisConfig{Addr: cfg.RedisAddr, DB: cfg.RedisDB, Namespace: ns})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

func validate(ctx context.Context, entityID, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(entityID) == "" || strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	return nil
}
