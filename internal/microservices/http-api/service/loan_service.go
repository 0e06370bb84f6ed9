package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/repository"
)

// DefaultLoanPeriod is used when a borrow request carries no due date.
const DefaultLoanPeriod = 14 * 24 * time.Hour

// CreateLoanInput is a borrow request. Nil timestamps default to now and
// now plus the loan period.
type CreateLoanInput struct {
	BookID     int64
	UserID     int64
	BorrowedAt *time.Time
	DueAt      *time.Time
}

type LoanService interface {
	CreateLoan(ctx context.Context, in CreateLoanInput) (*models.Loan, error)
	GetLoan(ctx context.Context, id int64) (*models.Loan, error)
	ListLoans(ctx context.Context, status *models.LoanStatus) ([]models.Loan, error)
	ReturnLoan(ctx context.Context, id int64) (*models.Loan, error)
	DeleteLoan(ctx context.Context, id int64) error
	SweepOverdue(ctx context.Context) ([]int64, error)
}

type loanService struct {
	store      repository.Store
	cache      DashboardCache
	loanPeriod time.Duration
	logger     *slog.Logger
	clock      func() time.Time
}

func NewLoanService(store repository.Store, cache DashboardCache, loanPeriod time.Duration, logger *slog.Logger) LoanService {
	if loanPeriod <= 0 {
		loanPeriod = DefaultLoanPeriod
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &loanService{
		store:      store,
		cache:      cache,
		loanPeriod: loanPeriod,
		logger:     logger,
		clock:      time.Now,
	}
}

// CreateLoan borrows one copy of a book. Every failed precondition is reported
// together and nothing is written in that case.
func (s *loanService) CreateLoan(ctx context.Context, in CreateLoanInput) (*models.Loan, error) {
	now := s.clock().UTC()
	borrowedAt := now
	if in.BorrowedAt != nil {
		borrowedAt = in.BorrowedAt.UTC()
	}
	dueAt := borrowedAt.Add(s.loanPeriod)
	if in.DueAt != nil {
		dueAt = in.DueAt.UTC()
	}

	var loan *models.Loan
	err := s.store.WithinTransaction(ctx, func(tx repository.Store) error {
		verr := &ValidationError{}

		// lock the book first so concurrent borrows of the last copy serialize here
		book, err := tx.Books().GetForUpdate(ctx, in.BookID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			verr.Add("book_id", "Selected book does not exist.")
		case err != nil:
			return err
		case !book.CanBorrow():
			verr.Add("book_id", "Selected book is not available for borrowing.")
		}

		if _, err := tx.Users().GetByID(ctx, in.UserID); err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				return err
			}
			verr.Add("user_id", "Selected reader does not exist.")
		}

		if dueAt.Before(borrowedAt) {
			verr.Add("due_at", "Due date must be after borrowed date.")
		}

		if verr.HasErrors() {
			return verr
		}

		loan = &models.Loan{
			BookID:     in.BookID,
			UserID:     in.UserID,
			BorrowedAt: borrowedAt,
			DueAt:      dueAt,
			Status:     models.LoanBorrowed,
		}
		if err := tx.Loans().Create(ctx, loan); err != nil {
			return err
		}

		book.TakeCopy()
		return tx.Books().UpdateAvailability(ctx, book)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("loan created", "loan_id", loan.ID, "book_id", loan.BookID, "user_id", loan.UserID, "due_at", loan.DueAt)
	s.invalidate(ctx)
	return s.GetLoan(ctx, loan.ID)
}

func (s *loanService) GetLoan(ctx context.Context, id int64) (*models.Loan, error) {
	loan, err := s.store.Loans().GetByID(ctx, id)
	if err != nil {
		return nil, fromStoreError("loan", id, err)
	}
	return loan, nil
}

// ListLoans is read-only; overdue detection happens in SweepOverdue.
func (s *loanService) ListLoans(ctx context.Context, status *models.LoanStatus) ([]models.Loan, error) {
	return s.store.Loans().List(ctx, status)
}

// ReturnLoan closes a loan and puts the copy back on the shelf. Returning an
// already returned loan succeeds without touching anything.
func (s *loanService) ReturnLoan(ctx context.Context, id int64) (*models.Loan, error) {
	var changed bool
	err := s.store.WithinTransaction(ctx, func(tx repository.Store) error {
		l, err := tx.Loans().GetForUpdate(ctx, id)
		if err != nil {
			return fromStoreError("loan", id, err)
		}
		if l.Status == models.LoanReturned {
			return nil
		}

		returnedAt := s.clock().UTC()
		l.ReturnedAt = &returnedAt
		l.Status = models.LoanReturned
		if err := tx.Loans().UpdateStatus(ctx, l); err != nil {
			return err
		}
		changed = true
		return s.releaseCopy(ctx, tx, l)
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.logger.Info("loan returned", "loan_id", id)
		s.invalidate(ctx)
	}
	// re-read outside the lock so the response carries book and user
	return s.GetLoan(ctx, id)
}

// DeleteLoan removes a loan record. A loan that still held a copy releases it
// first. Deleting an unknown id is a no-op.
func (s *loanService) DeleteLoan(ctx context.Context, id int64) error {
	deleted := false
	err := s.store.WithinTransaction(ctx, func(tx repository.Store) error {
		l, err := tx.Loans().GetForUpdate(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if l.Status != models.LoanReturned {
			if err := s.releaseCopy(ctx, tx, l); err != nil {
				return err
			}
		}
		if err := tx.Loans().Delete(ctx, id); err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return err
	}

	if deleted {
		s.logger.Info("loan deleted", "loan_id", id)
		s.invalidate(ctx)
	}
	return nil
}

// SweepOverdue moves every Borrowed loan past its due date to Overdue and
// returns the ids it changed.
func (s *loanService) SweepOverdue(ctx context.Context) ([]int64, error) {
	now := s.clock().UTC()
	var ids []int64
	err := s.store.WithinTransaction(ctx, func(tx repository.Store) error {
		var err error
		ids, err = tx.Loans().MarkOverdue(ctx, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	if len(ids) > 0 {
		s.logger.Info("overdue sweep", "marked", len(ids))
		s.invalidate(ctx)
	}
	return ids, nil
}

// releaseCopy increments the loan's book counter, capped at TotalCopies.
func (s *loanService) releaseCopy(ctx context.Context, tx repository.Store, loan *models.Loan) error {
	book, err := tx.Books().GetForUpdate(ctx, loan.BookID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if !book.ReleaseCopy() {
		s.logger.Warn("available copies already at total, increment clamped",
			"book_id", book.ID, "total_copies", book.TotalCopies, "loan_id", loan.ID)
	}
	return tx.Books().UpdateAvailability(ctx, book)
}

func (s *loanService) invalidate(ctx context.Context) {
	invalidateDashboard(ctx, s.cache, s.logger)
}
