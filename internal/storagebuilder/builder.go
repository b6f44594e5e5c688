package storagebuilder

import (
	"context"
	"fmt"
	"time"

	"github.com/lomoval/otus-golang/eventrsvp/internal/storage"
	memorystorage "github.com/lomoval/otus-golang/eventrsvp/internal/storage/memory"
	sqlstorage "github.com/lomoval/otus-golang/eventrsvp/internal/storage/sql"
)

const (
	TypeMemory = "memory"
	TypeSQL    = "sql"
)

const connectTimeout = 15 * time.Second

type Config struct {
	StorageType string            `validate:"in:memory,sql"`
	Database    sqlstorage.Config `validate:"nested"`
}

// New creates the configured storage and connects it.
func New(config Config) (storage.Storage, error) {
	switch config.StorageType {
	case TypeMemory:
		return memorystorage.New(), nil
	case TypeSQL:
		s, err := sqlstorage.New(config.Database)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		err = s.Connect(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database %s %d: %w", config.Database.Host, config.Database.Port, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage type %s", config.StorageType)
	}
}
