package store

import (
	"context"
	"errors"

	"github.com/suinership/auth/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface for durable identity records.
// Concrete drivers (sqlite today) implement this. Token state is not stored
// here: tokens are stateless and ephemeral secrets live in the secrets
// package.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks up a user by lowercased email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserByFederatedID looks up a user by external provider subject.
	GetUserByFederatedID(ctx context.Context, federatedID string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the email or federated id is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash sets the password_hash (argon2) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error

	// SetActive flips the is_active flag.
	SetActive(ctx context.Context, userID string, active bool) error

	// UpdateTOTPSecret sets the TOTP secret without enabling it yet.
	UpdateTOTPSecret(ctx context.Context, userID string, secret string) error

	// EnableTOTP marks the TOTP second factor as active.
	EnableTOTP(ctx context.Context, userID string) error

	// DisableTOTP clears the TOTP secret and enabled timestamp.
	DisableTOTP(ctx context.Context, userID string) error
}
