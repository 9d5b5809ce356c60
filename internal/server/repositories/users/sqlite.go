package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/bookstore/internal/common"
	"github.com/dmitrijs2005/bookstore/internal/dbx"
	"github.com/dmitrijs2005/bookstore/internal/server/models"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (username, password_hash, email, bio, profile_pic, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 RETURNING id`

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.PasswordHash, user.Email, user.Bio, user.ProfilePic, user.CreatedAt).Scan(&user.ID)
	if err != nil {
		if dup := sqliteDuplicate(err); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *SQLiteRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, selectUser+` WHERE username = ?`, username)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, selectUser+` WHERE id = ?`, id)
}

func (r *SQLiteRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *SQLiteRepository) UpdateProfile(ctx context.Context, id int64, upd models.ProfileUpdate) error {
	if upd.Empty() {
		_, err := r.GetByID(ctx, id)
		return err
	}

	query, args := profileUpdateQuery(id, upd, func(int) string { return "?" })

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if dup := sqliteDuplicate(err); dup != nil {
			return dup
		}
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// sqliteDuplicate maps a unique violation on users onto the matching
// sentinel. SQLite names the offending column ("users.email") in the message.
func sqliteDuplicate(err error) error {
	var sqliteErr *msqlite.Error
	isUnique := false
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_UNIQUE, sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY:
			isUnique = true
		}
	}

	message := strings.ToLower(err.Error())
	if !isUnique && !strings.Contains(message, "unique constraint failed") {
		return nil
	}
	switch {
	case strings.Contains(message, "users.username"):
		return common.ErrDuplicateUsername
	case strings.Contains(message, "users.email"):
		return common.ErrDuplicateEmail
	}
	return nil
}
