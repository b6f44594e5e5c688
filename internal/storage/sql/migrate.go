package sqlstorage

import (
	"embed"
	"fmt"

	migrate "github.com/rubenv/sql-migrate"
	log "github.com/sirupsen/logrus"
)

//go:embed migrations
var migrations embed.FS

// Migrate applies the embedded schema migrations for the configured driver
// and returns the number of applied migrations.
func (s *Storage) Migrate() (int, error) {
	if s.db == nil {
		return 0, fmt.Errorf("failed to migrate: not connected")
	}
	dialect := s.dialect()
	source := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrations,
		Root:       "migrations/" + dialect,
	}

	n, err := migrate.Exec(s.db.DB, dialect, source, migrate.Up)
	if err != nil {
		return n, fmt.Errorf("failed to apply migrations: %w", err)
	}
	log.Infof("applied %d migrations", n)
	return n, nil
}

func (s *Storage) dialect() string {
	if s.driver == DriverPgx {
		return DriverPostgres
	}
	return s.driver
}
