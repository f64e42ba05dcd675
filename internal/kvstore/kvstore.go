package kvstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is an asynchronous-friendly blob store keyed by string. Every call
// takes a context because backends may hit disk or the network.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Kind names a backend.
type Kind string

const (
	KindMemory Kind = "memory"
	KindFile   Kind = "file"
	KindSQLite Kind = "sqlite"
	KindRedis  Kind = "redis"
)

// Options select and configure a backend for Open.
type Options struct {
	Kind Kind

	// Dir holds the file backend's blobs and the sqlite database.
	Dir string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	// Prefix namespaces redis keys.
	Prefix string
}

// ParseKind normalizes a backend name. Empty means file.
func ParseKind(value string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(value))); k {
	case "":
		return KindFile, nil
	case KindMemory, KindFile, KindSQLite, KindRedis:
		return k, nil
	default:
		return "", fmt.Errorf("unknown storage kind %q", value)
	}
}

// Open constructs the backend described by opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	kind, err := ParseKind(string(opts.Kind))
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindMemory:
		return NewMemory(), nil
	case KindFile:
		return NewFile(opts.Dir)
	case KindSQLite:
		return OpenSQLite(sqlitePath(opts.Dir))
	case KindRedis:
		return OpenRedis(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB, opts.Prefix)
	}
	return nil, fmt.Errorf("unknown storage kind %q", opts.Kind)
}

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("kvstore: empty key")
	}
	return nil
}
