// Package identities is the credential store: registered identities with
// unique usernames and emails.
//
// # Usage
//
//	repo := identities.NewRepository(db)
//	identity, err := repo.Create(ctx, "alice", hash, "alice@example.com")
//	if errors.Is(err, identities.ErrDuplicateKey) { ... }
package identities

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	"github.com/mrlokans/llm-aggregator/internal/entities"
)

const (
	FieldUsername = "username"
	FieldEmail    = "email"
)

var (
	ErrNotFound     = errors.New("identity not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

// DuplicateKeyError reports which unique field collided. Field is empty
// when the database did not say.
type DuplicateKeyError struct {
	Field string
}

func (e *DuplicateKeyError) Error() string {
	if e.Field == "" {
		return "duplicate key: username or email already exists"
	}
	return fmt.Sprintf("duplicate key: %s already exists", e.Field)
}

func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

// Repository handles all identity database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new identities repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create stores a new identity. Username and email are trimmed and must be
// unique independently of each other.
func (r *Repository) Create(ctx context.Context, username, passwordHash, email string) (*entities.Identity, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	for _, field := range []struct{ column, value string }{
		{FieldUsername, username},
		{FieldEmail, email},
	} {
		taken, err := r.exists(ctx, field.column, field.value)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing %s: %w", field.column, err)
		}
		if taken {
			return nil, &DuplicateKeyError{Field: field.column}
		}
	}

	identity := &entities.Identity{
		Username:     username,
		PasswordHash: passwordHash,
		Email:        email,
	}

	// The unique indexes are the final word when two signups race past
	// the checks above.
	if err := r.db.WithContext(ctx).Create(identity).Error; err != nil {
		if dup := asDuplicateKey(err); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}

	return identity, nil
}

// FindByUsername returns ErrNotFound when no identity has the username.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*entities.Identity, error) {
	var identity entities.Identity
	err := r.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&identity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &identity, nil
}

// FindByID returns ErrNotFound when no identity has the id.
func (r *Repository) FindByID(ctx context.Context, id string) (*entities.Identity, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	var identity entities.Identity
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&identity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &identity, nil
}

// Count returns the number of registered identities.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Identity{}).Count(&count).Error
	return count, err
}

func (r *Repository) exists(ctx context.Context, column, value string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Identity{}).Where(column+" = ?", value).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// asDuplicateKey maps driver-level unique violations to DuplicateKeyError.
func asDuplicateKey(err error) *DuplicateKeyError {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) &&
		(sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique || sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey) {
		return &DuplicateKeyError{Field: fieldFromMessage(sqliteErr.Error())}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return &DuplicateKeyError{Field: fieldFromMessage(pgErr.ConstraintName)}
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &DuplicateKeyError{}
	}
	return nil
}

// fieldFromMessage picks the column out of "UNIQUE constraint failed:
// identities.email" or a constraint name like "idx_identities_email".
func fieldFromMessage(msg string) string {
	msg = strings.ToLower(msg)
	switch {
	case strings.Contains(msg, FieldUsername):
		return FieldUsername
	case strings.Contains(msg, FieldEmail):
		return FieldEmail
	default:
		return ""
	}
}
