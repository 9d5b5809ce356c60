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
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (username, password_hash, email, bio, profile_pic, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.PasswordHash, user.Email, user.Bio, user.ProfilePic, user.CreatedAt).Scan(&user.ID)
	if err != nil {
		if dup := pgDuplicate(err); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, selectUser+` WHERE username = $1`, username)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, selectUser+` WHERE id = $1`, id)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, id int64, upd models.ProfileUpdate) error {
	if upd.Empty() {
		_, err := r.GetByID(ctx, id)
		return err
	}

	query, args := profileUpdateQuery(id, upd, func(n int) string { return fmt.Sprintf("$%d", n) })

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if dup := pgDuplicate(err); dup != nil {
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

// pgDuplicate maps a unique violation on users onto the matching sentinel.
func pgDuplicate(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return nil
	}
	switch {
	case strings.Contains(pgErr.ConstraintName, "username"):
		return common.ErrDuplicateUsername
	case strings.Contains(pgErr.ConstraintName, "email"):
		return common.ErrDuplicateEmail
	}
	return nil
}
