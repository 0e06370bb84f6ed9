package models

import "time"

type Book struct {
	ID              int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title           string    `json:"title" gorm:"size:200;not null"`
	Author          string    `json:"author" gorm:"size:150;not null"`
	Category        *string   `json:"category,omitempty" gorm:"size:100"`
	ISBN            *string   `json:"isbn,omitempty" gorm:"column:isbn;size:20"`
	TotalCopies     int       `json:"total_copies" gorm:"not null;default:0;check:total_copies >= 0"`
	AvailableCopies int       `json:"available_copies" gorm:"not null;default:0;check:available_copies >= 0"`
	CoverURL        *string   `json:"cover_url,omitempty"`
	Description     *string   `json:"description,omitempty" gorm:"type:text"`
	Version         int64     `json:"version" gorm:"not null;default:1"` // bumped on every edit, compared on update
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Book) TableName() string {
	return "books"
}

// CanBorrow reports whether at least one copy is on the shelf.
func (b *Book) CanBorrow() bool {
	return b.AvailableCopies > 0
}

// TakeCopy decrements the available counter, floored at zero.
func (b *Book) TakeCopy() {
	b.AvailableCopies--
	if b.AvailableCopies < 0 {
		b.AvailableCopies = 0
	}
}

// ReleaseCopy increments the available counter, capped at TotalCopies.
// It returns false when the cap had to be applied.
func (b *Book) ReleaseCopy() bool {
	b.AvailableCopies++
	if b.AvailableCopies > b.TotalCopies {
		b.AvailableCopies = b.TotalCopies
		return false
	}
	return true
}
