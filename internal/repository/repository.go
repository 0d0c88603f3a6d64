// Package repository persists accounts, profiles, saved items and sessions,
// and searches the university index.
package repository

import (
	"context"
	"errors"

	"collegeequity-workers/internal/models"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepository stores accounts together with their student profile and saved items.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetProfile(ctx context.Context, userID string) (*models.StudentProfile, error)
	UpdateProfile(ctx context.Context, userID string, profile models.StudentProfile) error
	ListSavedItems(ctx context.Context, userID string) ([]models.SavedItem, error)
	ToggleSavedItem(ctx context.Context, userID string, kind models.ItemKind, name string) (bool, error)
}

// SessionRepository holds login sessions until they expire.
type SessionRepository interface {
	CreateSession(ctx context.Context, user *models.User) (*models.Session, error)
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)
	DeleteSession(ctx context.Context, userID, sessionID string) (bool, error)
	DeleteUserSessions(ctx context.Context, userID string) (int, error)
}

// ProfileCache is a read-through cache in front of UserRepository.GetProfile.
type ProfileCache interface {
	Get(ctx context.Context, userID string) (*models.StudentProfile, error)
	Set(ctx context.Context, userID string, profile *models.StudentProfile) error
	Invalidate(ctx context.Context, userID string) error
}

// UniversitySearcher finds university names matching a free-text term.
type UniversitySearcher interface {
	SearchNames(ctx context.Context, term string, size int) ([]string, error)
}
