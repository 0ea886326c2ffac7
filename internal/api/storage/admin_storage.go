package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/agrotalent/talent-hub/internal/api/domain"
	"github.com/agrotalent/talent-hub/internal/api/model"
)

func (s *Storage) GetAdminByEmail(ctx context.Context, email string) (*model.Admin, error) {
	var admin model.Admin
	query := `SELECT id, email, password_hash, created_at FROM admins WHERE email = $1`

	err := s.db.GetContext(ctx, &admin, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAdminNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return &admin, nil
}

// EnsureAdmin inserts the admin unless one with the same email exists.
// It reports whether a row was created.
func (s *Storage) EnsureAdmin(ctx context.Context, admin *model.Admin) (bool, error) {
	query := `
		INSERT INTO admins (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO NOTHING
	`
	res, err := s.db.ExecContext(ctx, query, admin.ID, admin.Email, admin.PasswordHash, admin.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to create admin: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n == 1, nil
}
