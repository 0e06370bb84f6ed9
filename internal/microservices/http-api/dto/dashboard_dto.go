package dto

import "time"

// DashboardSummary holds the home page counters
type DashboardSummary struct {
	BookCount       int64          `json:"book_count"`
	ReaderCount     int64          `json:"reader_count"`
	LibrarianCount  int64          `json:"librarian_count"`
	ActiveLoanCount int64          `json:"active_loan_count"`
	RecentLoans     []LoanResponse `json:"recent_loans"`
	GeneratedAt     time.Time      `json:"generated_at"`
}
