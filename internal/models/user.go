package models

import "time"

// ItemKind distinguishes what a saved item refers to.
type ItemKind string

const (
	ItemUniversity  ItemKind = "university"
	ItemScholarship ItemKind = "scholarship"
)

// Valid reports whether k is a known kind.
func (k ItemKind) Valid() bool {
	return k == ItemUniversity || k == ItemScholarship
}

// User is a registered student account. PasswordHash is a bcrypt hash and is never serialized.
type User struct {
	ID           string         `json:"id" db:"id"`
	Email        string         `json:"email" db:"email"`
	Name         string         `json:"name" db:"name"`
	PasswordHash string         `json:"-" db:"password_hash"`
	Profile      StudentProfile `json:"profile"`
	CreatedAt    time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time      `json:"updatedAt" db:"updated_at"`
}

// SavedItem is a university or scholarship bookmarked by a user, keyed by its unique name.
type SavedItem struct {
	Kind    ItemKind  `json:"kind" db:"item_kind"`
	Name    string    `json:"name" db:"item_name"`
	SavedAt time.Time `json:"savedAt" db:"saved_at"`
}
