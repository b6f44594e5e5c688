package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/lomoval/otus-golang/eventrsvp/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

const (
	ModeStatic   = "static"
	ModeDatabase = "database"
)

var (
	ErrInvalidCredentials = errors.New("bad username or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUnknownMode        = errors.New("unknown auth mode")
)

type Config struct {
	Mode     string `validate:"in:static,database"`
	Username string
	Password string
	Secret   string `validate:"required"`
	TokenTTL string
}

type Principal struct {
	UserID   int64
	Username string
}

type Verifier interface {
	Verify(ctx context.Context, username string, password string) (Principal, error)
}

type userGetter interface {
	GetUserByUsername(ctx context.Context, username string) (storage.User, error)
}

// NewVerifier returns the verifier for the configured mode.
func NewVerifier(config Config, users userGetter) (Verifier, error) {
	switch config.Mode {
	case "", ModeStatic:
		return NewStaticVerifier(config.Username, config.Password), nil
	case ModeDatabase:
		return NewStoreVerifier(users), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, config.Mode)
	}
}

// StaticVerifier accepts exactly one username/password pair.
type StaticVerifier struct {
	username string
	password string
}

func NewStaticVerifier(username string, password string) *StaticVerifier {
	return &StaticVerifier{username: username, password: password}
}

func (v *StaticVerifier) Verify(_ context.Context, username string, password string) (Principal, error) {
	if v.username == "" || v.password == "" {
		return Principal{}, ErrInvalidCredentials
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(v.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(v.password)) == 1
	if !userOK || !passOK {
		return Principal{}, ErrInvalidCredentials
	}
	return Principal{Username: v.username}, nil
}

// StoreVerifier checks the password against the bcrypt hash stored for the user.
type StoreVerifier struct {
	users userGetter
}

func NewStoreVerifier(users userGetter) *StoreVerifier {
	return &StoreVerifier{users: users}
}

func (v *StoreVerifier) Verify(ctx context.Context, username string, password string) (Principal, error) {
	if username == "" || password == "" {
		return Principal{}, ErrInvalidCredentials
	}
	user, err := v.users.GetUserByUsername(ctx, username)
	if errors.Is(err, storage.ErrNotFoundUser) {
		return Principal{}, ErrInvalidCredentials
	}
	if err != nil {
		return Principal{}, fmt.Errorf("failed to verify user %q: %w", username, err)
	}
	if user.PasswordHash == "" {
		return Principal{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return Principal{}, ErrInvalidCredentials
	}
	return Principal{UserID: user.ID, Username: user.Username}, nil
}
