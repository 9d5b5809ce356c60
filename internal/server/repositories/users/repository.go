// Package users is the credential store: it persists accounts and enforces
// unique usernames and emails through schema constraints.
package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/bookstore/internal/server/models"
)

// Repository persists users. Implementations translate unique-constraint
// violations into common.ErrDuplicateUsername / common.ErrDuplicateEmail and
// report missing rows as common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	UpdateProfile(ctx context.Context, id int64, upd models.ProfileUpdate) error
}

const selectUser = `SELECT id, username, password_hash, email, bio, profile_pic, created_at FROM users`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.Bio, &u.ProfilePic, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// profileUpdateQuery renders the UPDATE for the non-nil fields of upd.
// placeholder(n) returns the n-th bind parameter in the driver's syntax.
func profileUpdateQuery(id int64, upd models.ProfileUpdate, placeholder func(n int) string) (string, []any) {
	var sets []string
	var args []any

	add := func(col string, v *string) {
		if v == nil {
			return
		}
		args = append(args, *v)
		sets = append(sets, fmt.Sprintf("%s = %s", col, placeholder(len(args))))
	}
	add("email", upd.Email)
	add("bio", upd.Bio)
	add("profile_pic", upd.ProfilePic)

	args = append(args, id)
	query := fmt.Sprintf("UPDATE users SET %s WHERE id = %s", strings.Join(sets, ", "), placeholder(len(args)))
	return query, args
}
