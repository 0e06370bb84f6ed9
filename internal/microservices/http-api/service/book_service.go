package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/repository"
)

// BookInput carries the editable book fields. Version is only read by Update.
type BookInput struct {
	Title           string
	Author          string
	Category        *string
	ISBN            *string
	TotalCopies     int
	AvailableCopies int
	CoverURL        *string
	Description     *string
	Version         int64
}

type BookService interface {
	List(ctx context.Context) ([]models.Book, error)
	Get(ctx context.Context, id int64) (*models.Book, error)
	Create(ctx context.Context, in BookInput) (*models.Book, error)
	Update(ctx context.Context, id int64, in BookInput) (*models.Book, error)
	Delete(ctx context.Context, id int64) error
}

type bookService struct {
	store  repository.Store
	cache  DashboardCache
	logger *slog.Logger
}

func NewBookService(store repository.Store, cache DashboardCache, logger *slog.Logger) BookService {
	if logger == nil {
		logger = slog.Default()
	}
	return &bookService{store: store, cache: cache, logger: logger}
}

func (s *bookService) List(ctx context.Context) ([]models.Book, error) {
	return s.store.Books().List(ctx)
}

func (s *bookService) Get(ctx context.Context, id int64) (*models.Book, error) {
	book, err := s.store.Books().GetByID(ctx, id)
	if err != nil {
		return nil, fromStoreError("book", id, err)
	}
	return book, nil
}

// Create adds a book. Zero available copies means every copy is on the shelf.
func (s *bookService) Create(ctx context.Context, in BookInput) (*models.Book, error) {
	if verr := validateBook(in); verr.HasErrors() {
		return nil, verr
	}

	book := &models.Book{}
	applyBookInput(book, in)
	if book.AvailableCopies == 0 {
		book.AvailableCopies = book.TotalCopies
	}

	if err := s.store.Books().Create(ctx, book); err != nil {
		return nil, err
	}
	s.logger.Info("book created", "book_id", book.ID, "title", book.Title)
	invalidateDashboard(ctx, s.cache, s.logger)
	return book, nil
}

func (s *bookService) Update(ctx context.Context, id int64, in BookInput) (*models.Book, error) {
	if verr := validateBook(in); verr.HasErrors() {
		return nil, verr
	}

	book, err := s.store.Books().GetByID(ctx, id)
	if err != nil {
		return nil, fromStoreError("book", id, err)
	}
	applyBookInput(book, in)
	book.Version = in.Version

	if err := s.store.Books().Update(ctx, book); err != nil {
		if errors.Is(err, repository.ErrStaleObject) {
			return nil, s.staleBook(ctx, id)
		}
		return nil, fromStoreError("book", id, err)
	}
	s.logger.Info("book updated", "book_id", book.ID, "version", book.Version)
	invalidateDashboard(ctx, s.cache, s.logger)
	return book, nil
}

// Delete refuses books that still have loan records.
func (s *bookService) Delete(ctx context.Context, id int64) error {
	if _, err := s.store.Books().GetByID(ctx, id); err != nil {
		return fromStoreError("book", id, err)
	}

	n, err := s.store.Loans().CountByBook(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return &ConflictError{Reason: "book has loan records and cannot be deleted"}
	}

	if err := s.store.Books().Delete(ctx, id); err != nil {
		return fromStoreError("book", id, err)
	}
	s.logger.Info("book deleted", "book_id", id)
	invalidateDashboard(ctx, s.cache, s.logger)
	return nil
}

// staleBook decides between NotFound and Conflict after a lost optimistic update.
func (s *bookService) staleBook(ctx context.Context, id int64) error {
	if _, err := s.store.Books().GetByID(ctx, id); err != nil {
		return fromStoreError("book", id, err)
	}
	return &ConflictError{Reason: "book was modified by another request, reload and try again"}
}

func validateBook(in BookInput) *ValidationError {
	verr := &ValidationError{}
	requireText(verr, "title", "Title", in.Title, 200)
	requireText(verr, "author", "Author", in.Author, 150)
	optionalMaxLength(verr, "category", "Category", in.Category, 100)
	optionalMaxLength(verr, "isbn", "ISBN", in.ISBN, 20)
	copiesInRange(verr, "total_copies", "Total copies", in.TotalCopies)
	copiesInRange(verr, "available_copies", "Available copies", in.AvailableCopies)
	if in.AvailableCopies > in.TotalCopies {
		verr.Add("available_copies", "Available copies cannot exceed total copies.")
	}
	if u := trimmed(in.CoverURL); u != nil {
		if err := validate.Var(*u, "url"); err != nil {
			verr.Add("cover_url", "Cover image URL is not a valid URL.")
		}
	}
	return verr
}

func applyBookInput(book *models.Book, in BookInput) {
	book.Title = strings.TrimSpace(in.Title)
	book.Author = strings.TrimSpace(in.Author)
	book.Category = trimmed(in.Category)
	book.ISBN = trimmed(in.ISBN)
	book.TotalCopies = in.TotalCopies
	book.AvailableCopies = in.AvailableCopies
	book.CoverURL = trimmed(in.CoverURL)
	book.Description = trimmed(in.Description)
}
