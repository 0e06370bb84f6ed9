package models

import "time"

type LoanStatus string

const (
	LoanBorrowed LoanStatus = "Borrowed"
	LoanOverdue  LoanStatus = "Overdue"
	LoanReturned LoanStatus = "Returned"
)

// ParseLoanStatus accepts the canonical status names only.
func ParseLoanStatus(s string) (LoanStatus, bool) {
	switch LoanStatus(s) {
	case LoanBorrowed, LoanOverdue, LoanReturned:
		return LoanStatus(s), true
	}
	return "", false
}

// Active reports whether the loan still holds a copy of the book.
func (s LoanStatus) Active() bool {
	return s == LoanBorrowed || s == LoanOverdue
}

type Loan struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	BookID     int64      `gorm:"not null;index" json:"book_id"`
	UserID     int64      `gorm:"not null;index" json:"user_id"`
	BorrowedAt time.Time  `gorm:"not null;index" json:"borrowed_at"`
	DueAt      time.Time  `gorm:"not null;index" json:"due_at"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"`
	Status     LoanStatus `gorm:"type:varchar(20);not null;default:'Borrowed';index" json:"status"`

	// Associations. Deleting a referenced book or user is rejected by the database.
	Book *Book `gorm:"foreignKey:BookID;constraint:OnDelete:RESTRICT;" json:"book,omitempty"`
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT;" json:"user,omitempty"`
}

func (Loan) TableName() string {
	return "loans"
}

// IsOverdueAt reports whether a Borrowed loan has passed its due date at now.
func (l *Loan) IsOverdueAt(now time.Time) bool {
	return l.Status == LoanBorrowed && l.DueAt.Before(now)
}
