package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already exists")
	ErrReferenced     = errors.New("record is referenced by loans")
	ErrStaleObject    = errors.New("record was modified concurrently")
)

// postgres SQLSTATE codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Store is the unit of work the services run against. Repositories obtained
// from the tx argument of WithinTransaction share one database transaction.
type Store interface {
	Books() BookRepository
	Users() UserRepository
	Loans() LoanRepository
	WithinTransaction(ctx context.Context, fn func(tx Store) error) error
}

type gormStore struct {
	db *gorm.DB
}

// NewStore creates a Store backed by GORM
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Books() BookRepository { return NewBookRepository(s.db) }
func (s *gormStore) Users() UserRepository { return NewUserRepository(s.db) }
func (s *gormStore) Loans() LoanRepository { return NewLoanRepository(s.db) }

func (s *gormStore) WithinTransaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

// forUpdate locks the selected rows until the surrounding transaction ends.
func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// translateError maps driver and GORM errors onto the repository sentinels.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			if pgErr.ConstraintName == "idx_users_email" {
				return fmt.Errorf("%s: %w", op, ErrDuplicateEmail)
			}
		case pgForeignKeyViolation:
			return fmt.Errorf("%s: %w: %s", op, ErrReferenced, pgErr.Detail)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
