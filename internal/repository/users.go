package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"collegeequity-workers/internal/models"
)

const uniqueViolation = "23505"

const selectUser = `
		SELECT u.id, u.email, u.name, u.password_hash, u.created_at, u.updated_at,
		       p.gpa, p.sat, p.activities, p.essays, p.country, p.first_gen, p.ethnicity, p.financial_need
		FROM users u
		JOIN student_profiles p ON p.user_id = u.id`

// PostgresUserRepository implements UserRepository on the users, student_profiles and saved_items tables.
type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser inserts the account and its profile in one transaction.
func (r *PostgresUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, email, name, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Email, user.Name, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}

	p := user.Profile
	_, err = tx.ExecContext(ctx, `
		INSERT INTO student_profiles (user_id, gpa, sat, activities, essays, country, first_gen, ethnicity, financial_need)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		user.ID, p.GPA, p.SAT, p.Activities, p.Essays, p.Country, p.FirstGen, p.Ethnicity, p.FinancialNeed)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}

	return tx.Commit()
}

func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getUser(ctx, selectUser+` WHERE u.email = $1`, email)
}

func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return r.getUser(ctx, selectUser+` WHERE u.id = $1`, id)
}

func (r *PostgresUserRepository) getUser(ctx context.Context, query string, arg string) (*models.User, error) {
	var u models.User
	p := &u.Profile
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
		&p.GPA, &p.SAT, &p.Activities, &p.Essays, &p.Country, &p.FirstGen, &p.Ethnicity, &p.FinancialNeed,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	p.Name = u.Name
	p.Email = u.Email
	return &u, nil
}

func (r *PostgresUserRepository) GetProfile(ctx context.Context, userID string) (*models.StudentProfile, error) {
	u, err := r.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &u.Profile, nil
}

// UpdateProfile overwrites the stored profile. A non-empty profile name also renames the account.
func (r *PostgresUserRepository) UpdateProfile(ctx context.Context, userID string, p models.StudentProfile) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, `
		UPDATE student_profiles
		SET gpa = $2, sat = $3, activities = $4, essays = $5, country = $6,
		    first_gen = $7, ethnicity = $8, financial_need = $9, updated_at = now()
		WHERE user_id = $1`,
		userID, p.GPA, p.SAT, p.Activities, p.Essays, p.Country, p.FirstGen, p.Ethnicity, p.FinancialNeed)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	if p.Name != "" {
		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET name = $2, updated_at = now() WHERE id = $1`, userID, p.Name); err != nil {
			return fmt.Errorf("update user name: %w", err)
		}
	}

	return tx.Commit()
}

func (r *PostgresUserRepository) ListSavedItems(ctx context.Context, userID string) ([]models.SavedItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT item_kind, item_name, saved_at
		FROM saved_items
		WHERE user_id = $1
		ORDER BY saved_at, item_name`, userID)
	if err != nil {
		return nil, fmt.Errorf("select saved items: %w", err)
	}
	defer rows.Close()

	items := []models.SavedItem{}
	for rows.Next() {
		var it models.SavedItem
		if err := rows.Scan(&it.Kind, &it.Name, &it.SavedAt); err != nil {
			return nil, fmt.Errorf("scan saved item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ToggleSavedItem removes the item if it is saved, otherwise saves it. It returns the new saved state.
func (r *PostgresUserRepository) ToggleSavedItem(ctx context.Context, userID string, kind models.ItemKind, name string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM saved_items WHERE user_id = $1 AND item_kind = $2 AND item_name = $3`,
		userID, string(kind), name)
	if err != nil {
		return false, fmt.Errorf("delete saved item: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return false, nil
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO saved_items (user_id, item_kind, item_name)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING`,
		userID, string(kind), name)
	if err != nil {
		return false, fmt.Errorf("insert saved item: %w", err)
	}
	return true, nil
}
