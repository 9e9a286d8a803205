package db

import (
	"time"
)

// Todo is a single task owned by a user. Ownership is convention-based:
// OwnerID is not a declared foreign key, and every read and write is
// scoped by an owner_id predicate instead of a separate authorization
// step.
type Todo struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	OwnerID uint `gorm:"index" json:"owner_id"`

	Task string `gorm:"type:text" json:"task"`
	Done bool   `gorm:"default:false" json:"done"`
}
