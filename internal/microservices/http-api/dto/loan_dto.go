package dto

import (
	"time"

	"libraryhub/internal/microservices/http-api/models"
)

// CreateLoanRequest: borrow a book. borrowed_at defaults to now and due_at to
// borrowed_at plus the configured loan period. Missing ids are reported by the
// service together with every other violation.
type CreateLoanRequest struct {
	BookID     int64      `json:"book_id"`
	UserID     int64      `json:"user_id"`
	BorrowedAt *time.Time `json:"borrowed_at"`
	DueAt      *time.Time `json:"due_at"`
}

type LoanResponse struct {
	ID         int64             `json:"id"`
	BookID     int64             `json:"book_id"`
	UserID     int64             `json:"user_id"`
	Book       *BookSummary      `json:"book,omitempty"`
	User       *UserSummary      `json:"user,omitempty"`
	BorrowedAt time.Time         `json:"borrowed_at"`
	DueAt      time.Time         `json:"due_at"`
	ReturnedAt *time.Time        `json:"returned_at,omitempty"`
	Status     models.LoanStatus `json:"status"`
}

func FromModelToLoanResponse(l *models.Loan) LoanResponse {
	resp := LoanResponse{
		ID:         l.ID,
		BookID:     l.BookID,
		UserID:     l.UserID,
		BorrowedAt: l.BorrowedAt,
		DueAt:      l.DueAt,
		ReturnedAt: l.ReturnedAt,
		Status:     l.Status,
	}
	if l.Book != nil {
		resp.Book = &BookSummary{ID: l.Book.ID, Title: l.Book.Title, Author: l.Book.Author}
	}
	if l.User != nil {
		resp.User = &UserSummary{ID: l.User.ID, FullName: l.User.FullName, Email: l.User.Email}
	}
	return resp
}

func FromModelsToLoanResponses(loans []models.Loan) []LoanResponse {
	out := make([]LoanResponse, 0, len(loans))
	for i := range loans {
		out = append(out, FromModelToLoanResponse(&loans[i]))
	}
	return out
}

type LoanListResponse struct {
	Items []LoanResponse `json:"items"`
	Total int            `json:"total"`
}

// SweepResponse: result of an overdue sweep
type SweepResponse struct {
	Marked  int     `json:"marked"`
	LoanIDs []int64 `json:"loan_ids"`
}
