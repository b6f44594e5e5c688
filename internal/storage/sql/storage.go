package sqlstorage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the pgx driver
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/lomoval/otus-golang/eventrsvp/internal/storage"
	"github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"
)

const (
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite3"
)

const (
	pgErrUniqueViolation     = "23505"
	pgErrForeignKeyViolation = "23503"
	mysqlErrDuplicateEntry   = 1062
	mysqlErrNoReferencedRow  = 1452
	defaultPostgresPort      = 5432
	defaultMySQLPort         = 3306
)

type Config struct {
	Driver   string `validate:"in:postgres,pgx,mysql,sqlite3"`
	Host     string
	Port     int    `validate:"min:0|max:65535"`
	Database string `validate:"required"`
	Username string
	Password string
}

type Storage struct {
	driver string
	dsn    string
	host   string
	port   int
	db     *sqlx.DB
}

func New(config Config) (*Storage, error) {
	dsn, err := dataSourceName(config)
	if err != nil {
		return nil, err
	}
	return &Storage{driver: config.Driver, dsn: dsn, host: config.Host, port: config.Port}, nil
}

func (s *Storage) Driver() string {
	return s.driver
}

func (s *Storage) Connect(ctx context.Context) error {
	db, err := sqlx.ConnectContext(ctx, s.driver, s.dsn)
	if err != nil {
		log.Errorf("failed to connect to %s %s:%d: %v", s.driver, s.host, s.port, err)
		return fmt.Errorf("%w: %v", storage.ErrConnectionFailed, err)
	}
	s.db = db
	return nil
}

func (s *Storage) Close(_ context.Context) error {
	if s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}
	return nil
}

func (s *Storage) Ping(ctx context.Context) error {
	if s.db == nil {
		return storage.ErrConnectionFailed
	}
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", storage.ErrConnectionFailed, err)
	}
	return nil
}

func (s *Storage) ListEvents(ctx context.Context, filter storage.EventFilter) (storage.EventList, error) {
	conn, err := s.acquire(ctx)
	if err != nil {
		return storage.EventList{}, err
	}
	defer conn.Close()

	query, args := storage.BuildEventsQuery(filter)
	var rows []eventRow
	if err := conn.SelectContext(ctx, &rows, conn.Rebind(query), args...); err != nil {
		return storage.EventList{}, fmt.Errorf("failed to list events: %w", err)
	}

	events := make([]storage.Event, 0, len(rows))
	for _, r := range rows {
		events = append(events, r.event())
	}
	return storage.NewEventList(events), nil
}

func (s *Storage) GetEvent(ctx context.Context, id int64) (storage.Event, error) {
	conn, err := s.acquire(ctx)
	if err != nil {
		return storage.Event{}, err
	}
	defer conn.Close()

	query, args := storage.BuildEventQuery(id)
	var row eventRow
	err = conn.GetContext(ctx, &row, conn.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Event{}, fmt.Errorf("failed to get event with id %d: %w", id, storage.ErrNotFoundEvent)
	}
	if err != nil {
		return storage.Event{}, fmt.Errorf("failed to get event with id %d: %w", id, err)
	}
	return row.event(), nil
}

func (s *Storage) AddRSVP(ctx context.Context, userID int64, eventID int64) error {
	conn, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	_, err = conn.ExecContext(ctx, conn.Rebind("INSERT INTO rsvps (user_id, event_id) VALUES (?, ?)"), userID, eventID)
	if isUniqueViolation(err) {
		return fmt.Errorf("user %d for event %d: %w", userID, eventID, storage.ErrDuplicateRSVP)
	}
	if isForeignKeyViolation(err) {
		return fmt.Errorf("user %d for event %d: %w: %v", userID, eventID, storage.ErrUnknownRSVPPair, err)
	}
	if err != nil {
		return fmt.Errorf("failed to add rsvp: %w", err)
	}
	return nil
}

func (s *Storage) RemoveRSVP(ctx context.Context, userID int64, eventID int64) error {
	conn, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	_, err = conn.ExecContext(ctx, conn.Rebind("DELETE FROM rsvps WHERE user_id = ? AND event_id = ?"), userID, eventID)
	if err != nil {
		return fmt.Errorf("failed to remove rsvp: %w", err)
	}
	return nil
}

func (s *Storage) ListAttendees(ctx context.Context, eventID int64) ([]storage.Attendee, error) {
	conn, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	attendees := make([]storage.Attendee, 0)
	err = conn.SelectContext(
		ctx,
		&attendees,
		conn.Rebind("SELECT users.id, users.username, users.email "+
			"FROM rsvps JOIN users ON rsvps.user_id = users.id "+
			"WHERE rsvps.event_id = ?"),
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendees: %w", err)
	}
	return attendees, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (storage.User, error) {
	conn, err := s.acquire(ctx)
	if err != nil {
		return storage.User{}, err
	}
	defer conn.Close()

	var row userRow
	err = conn.GetContext(
		ctx,
		&row,
		conn.Rebind("SELECT id, username, email, password_hash FROM users WHERE username = ?"),
		username,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.User{}, fmt.Errorf("failed to get user %q: %w", username, storage.ErrNotFoundUser)
	}
	if err != nil {
		return storage.User{}, fmt.Errorf("failed to get user %q: %w", username, err)
	}
	return row.user(), nil
}

// acquire takes a dedicated connection from the pool, callers must close it.
func (s *Storage) acquire(ctx context.Context) (*sqlx.Conn, error) {
	if s.db == nil {
		return nil, storage.ErrConnectionFailed
	}
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrConnectionFailed, err)
	}
	return conn, nil
}

func dataSourceName(config Config) (string, error) {
	switch config.Driver {
	case DriverPostgres, DriverPgx:
		port := config.Port
		if port == 0 {
			port = defaultPostgresPort
		}
		return fmt.Sprintf(
			"sslmode=disable host=%s port=%d dbname=%s user=%s password=%s",
			config.Host, port, config.Database, config.Username, config.Password), nil
	case DriverMySQL:
		port := config.Port
		if port == 0 {
			port = defaultMySQLPort
		}
		c := mysql.NewConfig()
		c.User = config.Username
		c.Passwd = config.Password
		c.Net = "tcp"
		c.Addr = net.JoinHostPort(config.Host, strconv.Itoa(port))
		c.DBName = config.Database
		return c.FormatDSN(), nil
	case DriverSQLite:
		return fmt.Sprintf("file:%s?_foreign_keys=on", config.Database), nil
	default:
		return "", fmt.Errorf("%w: %q", storage.ErrUnknownDriver, config.Driver)
	}
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgErrUniqueViolation
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgErrUniqueViolation
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlErrDuplicateEntry
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgErrForeignKeyViolation
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgErrForeignKeyViolation
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlErrNoReferencedRow
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return false
}
