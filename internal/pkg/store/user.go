package store

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/ougirez/transport-index/internal/domain"
)

var userColumns = []string{"id::text as id", "email", "password_hash", "created_at"}

func getUserByEmailQuery(email string) sq.SelectBuilder {
	return builder().Select(userColumns...).
		From(tableUsers).
		Where(sq.Eq{"lower(email)": strings.ToLower(strings.TrimSpace(email))})
}

func (s *store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var selected domain.User
	if err := s.pool.Getx(ctx, &selected, getUserByEmailQuery(email)); err != nil {
		return nil, wrapErr(err)
	}

	return &selected, nil
}

// IsAdmin calls the security-definer function is_admin. A missing function or a
// permission problem comes back as an error; it is never read as "false".
func (s *store) IsAdmin(ctx context.Context, userID string) (bool, error) {
	var isAdmin bool
	if err := s.pool.QueryRow(ctx, "select is_admin($1::uuid)", userID).Scan(&isAdmin); err != nil {
		return false, err
	}

	return isAdmin, nil
}
