package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

// The two fixed slots holding the persisted session.
const (
	TokenSlot = "journalToken"
	UserSlot  = "journalUser"
)

// ErrNoSlot is returned by Read when a slot has never been written or was erased.
var ErrNoSlot = errors.New("store: slot is empty")

// Slots is durable key/value storage for the session. Only the session store
// writes to it.
type Slots interface {
	Read(key string) ([]byte, error)
	Write(key string, val []byte) error
	// Erase removes the slot. Erasing an empty slot is not an error.
	Erase(key string) error
	Has(key string) bool
	Watch(ctx context.Context) (<-chan Event, error)
}

// Load creates Slots backed by diskv under cfg.BasePath.
func Load(cfg Config) (Slots, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	if strings.TrimSpace(basePath) == "" {
		return nil, errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(basePath, 0o700); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	// No read cache: another process may log in or out underneath us.
	return &slots{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		Transform:    flatTransform,
		CacheSizeMax: 0,
		PathPerm:     0o700,
		FilePerm:     0o600,
	}), basePath: basePath}, nil
}

type slots struct {
	d        *diskv.Diskv
	basePath string
}

func (s *slots) Read(key string) ([]byte, error) {
	val, err := s.d.Read(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSlot
		}
		return nil, fmt.Errorf("store: read %s: %w", key, err)
	}
	return val, nil
}

func (s *slots) Write(key string, val []byte) error {
	if err := s.d.Write(key, val); err != nil {
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	return nil
}

func (s *slots) Erase(key string) error {
	if err := s.d.Erase(key); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("store: erase %s: %w", key, err)
	}
	return nil
}

func (s *slots) Has(key string) bool {
	return s.d.Has(key)
}

func flatTransform(string) []string {
	return []string{}
}

func isSlot(name string) bool {
	return name == TokenSlot || name == UserSlot
}
