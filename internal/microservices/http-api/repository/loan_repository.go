package repository

import (
	"context"
	"time"

	"libraryhub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type LoanRepository interface {
	// List returns loans newest first with Book and User preloaded; a nil status returns all.
	List(ctx context.Context, status *models.LoanStatus) ([]models.Loan, error)
	GetByID(ctx context.Context, id int64) (*models.Loan, error)
	// GetForUpdate reads the loan and holds a row lock until the transaction ends.
	GetForUpdate(ctx context.Context, id int64) (*models.Loan, error)
	Create(ctx context.Context, loan *models.Loan) error
	// UpdateStatus persists Status and ReturnedAt.
	UpdateStatus(ctx context.Context, loan *models.Loan) error
	Delete(ctx context.Context, id int64) error
	// MarkOverdue flips Borrowed loans due before now to Overdue and returns their IDs.
	MarkOverdue(ctx context.Context, now time.Time) ([]int64, error)
	CountActive(ctx context.Context) (int64, error)
	CountByBook(ctx context.Context, bookID int64) (int64, error)
	CountByUser(ctx context.Context, userID int64) (int64, error)
	Recent(ctx context.Context, limit int) ([]models.Loan, error)
}

type loanRepository struct {
	db *gorm.DB
}

func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) List(ctx context.Context, status *models.LoanStatus) ([]models.Loan, error) {
	var loans []models.Loan
	q := r.db.WithContext(ctx).
		Preload("Book").
		Preload("User").
		Order("borrowed_at DESC")
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	if err := q.Find(&loans).Error; err != nil {
		return nil, translateError("list loans", err)
	}
	return loans, nil
}

func (r *loanRepository) GetByID(ctx context.Context, id int64) (*models.Loan, error) {
	var loan models.Loan
	if err := r.db.WithContext(ctx).Preload("Book").Preload("User").First(&loan, id).Error; err != nil {
		return nil, translateError("get loan", err)
	}
	return &loan, nil
}

func (r *loanRepository) GetForUpdate(ctx context.Context, id int64) (*models.Loan, error) {
	var loan models.Loan
	if err := forUpdate(r.db.WithContext(ctx)).First(&loan, id).Error; err != nil {
		return nil, translateError("lock loan", err)
	}
	return &loan, nil
}

func (r *loanRepository) Create(ctx context.Context, loan *models.Loan) error {
	if err := r.db.WithContext(ctx).Omit("Book", "User").Create(loan).Error; err != nil {
		return translateError("create loan", err)
	}
	return nil
}

func (r *loanRepository) UpdateStatus(ctx context.Context, loan *models.Loan) error {
	result := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("id = ?", loan.ID).
		Updates(map[string]interface{}{
			"status":      loan.Status,
			"returned_at": loan.ReturnedAt,
		})
	if result.Error != nil {
		return translateError("update loan", result.Error)
	}
	if result.RowsAffected == 0 {
		return translateError("update loan", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *loanRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&models.Loan{}, id).Error; err != nil {
		return translateError("delete loan", err)
	}
	return nil
}

func (r *loanRepository) MarkOverdue(ctx context.Context, now time.Time) ([]int64, error) {
	var ids []int64
	if err := forUpdate(r.db.WithContext(ctx)).
		Model(&models.Loan{}).
		Where("status = ? AND due_at < ?", models.LoanBorrowed, now).
		Order("id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, translateError("select overdue loans", err)
	}
	if len(ids) == 0 {
		return ids, nil
	}

	if err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("id IN ? AND status = ?", ids, models.LoanBorrowed).
		Update("status", models.LoanOverdue).Error; err != nil {
		return nil, translateError("mark loans overdue", err)
	}
	return ids, nil
}

func (r *loanRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("status IN ?", []models.LoanStatus{models.LoanBorrowed, models.LoanOverdue}).
		Count(&count).Error; err != nil {
		return 0, translateError("count active loans", err)
	}
	return count, nil
}

func (r *loanRepository) CountByBook(ctx context.Context, bookID int64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Loan{}).Where("book_id = ?", bookID).Count(&count).Error; err != nil {
		return 0, translateError("count loans by book", err)
	}
	return count, nil
}

func (r *loanRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Loan{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, translateError("count loans by user", err)
	}
	return count, nil
}

func (r *loanRepository) Recent(ctx context.Context, limit int) ([]models.Loan, error) {
	var loans []models.Loan
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Preload("User").
		Order("borrowed_at DESC").
		Limit(limit).
		Find(&loans).Error; err != nil {
		return nil, translateError("recent loans", err)
	}
	return loans, nil
}
