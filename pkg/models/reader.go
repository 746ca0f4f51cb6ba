package models

import "time"

// Favorite is an edition a user has pinned on the landing page.
type Favorite struct {
	UserID      string    `json:"user_id"`
	Source      string    `json:"source"`
	EditionID   int       `json:"edition_id"`
	EditionName string    `json:"edition_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReadState remembers where a user left off inside one edition, so the
// page-turning UI can resume at the same page on another device.
type ReadState struct {
	UserID    string    `json:"user_id"`
	Source    string    `json:"source"`
	EditionID int       `json:"edition_id"`
	Date      string    `json:"date"` // edition date the position belongs to
	PageIndex int       `json:"page_index"`
	UpdatedAt time.Time `json:"updated_at"`
}
