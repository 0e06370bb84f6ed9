package dto

import (
	"time"

	"libraryhub/internal/microservices/http-api/models"
)

// CreateBookRequest: payload to add a book to the catalog
type CreateBookRequest struct {
	Title           string  `json:"title"`
	Author          string  `json:"author"`
	Category        *string `json:"category"`
	ISBN            *string `json:"isbn"`
	TotalCopies     int     `json:"total_copies"`
	AvailableCopies int     `json:"available_copies"`
	CoverURL        *string `json:"cover_url"`
	Description     *string `json:"description"`
}

// UpdateBookRequest: full replacement of the editable fields. Version must be
// the value last read by the client.
type UpdateBookRequest struct {
	CreateBookRequest
	Version int64 `json:"version" binding:"required,min=1"`
}

type BookResponse struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Category        *string   `json:"category,omitempty"`
	ISBN            *string   `json:"isbn,omitempty"`
	TotalCopies     int       `json:"total_copies"`
	AvailableCopies int       `json:"available_copies"`
	CoverURL        *string   `json:"cover_url,omitempty"`
	Description     *string   `json:"description,omitempty"`
	Version         int64     `json:"version"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// BookSummary is the compact form embedded in loan responses
type BookSummary struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

func FromModelToBookResponse(b *models.Book) BookResponse {
	return BookResponse{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		Category:        b.Category,
		ISBN:            b.ISBN,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
		CoverURL:        b.CoverURL,
		Description:     b.Description,
		Version:         b.Version,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// BookListResponse: list of catalog books
type BookListResponse struct {
	Items []BookResponse `json:"items"`
	Total int            `json:"total"`
}
