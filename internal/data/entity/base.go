package entity

import (
	"time"
)

// Base holds the identity columns every row carries. Both are set once
// at creation and never updated.
type Base struct {
	ID        string    `db:"id"`
	CreatedAt time.Time `db:"created_at"`
}
