package repository

import (
	"context"

	"libraryhub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type BookRepository interface {
	List(ctx context.Context) ([]models.Book, error)
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	// GetForUpdate reads the book and holds a row lock until the transaction ends.
	GetForUpdate(ctx context.Context, id int64) (*models.Book, error)
	Create(ctx context.Context, book *models.Book) error
	// Update writes the editable fields if book.Version still matches the stored row.
	Update(ctx context.Context, book *models.Book) error
	// UpdateAvailability persists AvailableCopies and bumps the version.
	UpdateAvailability(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) List(ctx context.Context) ([]models.Book, error) {
	var books []models.Book
	if err := r.db.WithContext(ctx).Order("title ASC").Find(&books).Error; err != nil {
		return nil, translateError("list books", err)
	}
	return books, nil
}

func (r *bookRepository) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	var book models.Book
	if err := r.db.WithContext(ctx).First(&book, id).Error; err != nil {
		return nil, translateError("get book", err)
	}
	return &book, nil
}

func (r *bookRepository) GetForUpdate(ctx context.Context, id int64) (*models.Book, error) {
	var book models.Book
	if err := forUpdate(r.db.WithContext(ctx)).First(&book, id).Error; err != nil {
		return nil, translateError("lock book", err)
	}
	return &book, nil
}

func (r *bookRepository) Create(ctx context.Context, book *models.Book) error {
	book.Version = 1
	if err := r.db.WithContext(ctx).Create(book).Error; err != nil {
		return translateError("create book", err)
	}
	return nil
}

func (r *bookRepository) Update(ctx context.Context, book *models.Book) error {
	result := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ? AND version = ?", book.ID, book.Version).
		Updates(map[string]interface{}{
			"title":            book.Title,
			"author":           book.Author,
			"category":         book.Category,
			"isbn":             book.ISBN,
			"total_copies":     book.TotalCopies,
			"available_copies": book.AvailableCopies,
			"cover_url":        book.CoverURL,
			"description":      book.Description,
			"version":          gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return translateError("update book", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrStaleObject
	}
	book.Version++
	return nil
}

func (r *bookRepository) UpdateAvailability(ctx context.Context, book *models.Book) error {
	result := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ?", book.ID).
		Updates(map[string]interface{}{
			"available_copies": book.AvailableCopies,
			"version":          gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return translateError("update book availability", result.Error)
	}
	if result.RowsAffected == 0 {
		return translateError("update book availability", gorm.ErrRecordNotFound)
	}
	book.Version++
	return nil
}

func (r *bookRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Book{}, id)
	if result.Error != nil {
		return translateError("delete book", result.Error)
	}
	if result.RowsAffected == 0 {
		return translateError("delete book", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *bookRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Book{}).Count(&count).Error; err != nil {
		return 0, translateError("count books", err)
	}
	return count, nil
}
