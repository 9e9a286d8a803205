package db

import (
	"time"
)

// User is an account identified by the API key issued at registration.
// Rows are only ever created via /register; there is no update or
// delete path, and a key is never rotated.
type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Username string `gorm:"uniqueIndex;size:20" json:"username"`

	// APIKey is the UUID v1 bearer credential. It is returned to the
	// client exactly once, in the /register response.
	APIKey string `gorm:"uniqueIndex;size:36;not null" json:"api_key"`
}
