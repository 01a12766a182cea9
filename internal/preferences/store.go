package preferences

import (
	"context"
	"errors"
	"fmt"

	"github.com/JaimeStill/portfolio/pkg/storage"
)

// Store persists preference scalars for one client.
type Store interface {
	// Get returns the value at key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set overwrites the value at key.
	Set(ctx context.Context, key, value string) error
}

// StorageStore keeps one client's preferences under preferences/<client>/.
type StorageStore struct {
	sys    storage.System
	prefix string
}

// NewStorageStore creates a store for clientID backed by sys.
func NewStorageStore(sys storage.System, clientID string) *StorageStore {
	return &StorageStore{
		sys:    sys,
		prefix: "preferences/" + clientID + "/",
	}
}

func (s *StorageStore) Get(ctx context.Context, key string) (string, bool, error) {
	data, err := s.sys.Retrieve(ctx, s.prefix+key)
	if errors.Is(err, storage.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return string(data), true, nil
}

func (s *StorageStore) Set(ctx context.Context, key, value string) error {
	if err := s.sys.Store(ctx, s.prefix+key, []byte(value)); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
