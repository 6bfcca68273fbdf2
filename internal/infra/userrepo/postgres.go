package userrepo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zwinglabs/support-chat/internal/domain/user"
)

// PostgresRepository persists users in Postgres. user_no comes from a
// dedicated sequence so the public ids stay small and sequential.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new user row.
func (r *PostgresRepository) Create(ctx context.Context, fullName, username, number, role string) (user.User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (user_no, full_name, username, number, role)
		VALUES (nextval('user_no_seq'), $1, $2, $3, $4)
		RETURNING id, user_no, full_name, username, number, role, created_at
	`, fullName, username, number, role)
	return scanUser(row)
}

// FindByNumber fetches a user by phone number.
func (r *PostgresRepository) FindByNumber(ctx context.Context, number string) (user.User, bool, error) {
	return r.findOne(ctx, `WHERE number = $1`, number)
}

// FindByUserNo fetches a user by public id.
func (r *PostgresRepository) FindByUserNo(ctx context.Context, userNo int64) (user.User, bool, error) {
	return r.findOne(ctx, `WHERE user_no = $1`, userNo)
}

// List returns every user, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]user.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_no, full_name, username, number, role, created_at
		FROM users
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *PostgresRepository) findOne(ctx context.Context, where string, arg any) (user.User, bool, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_no, full_name, username, number, role, created_at
		FROM users
	`+where+` LIMIT 1`, arg)
	if err != nil {
		return user.User{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return user.User{}, false, rows.Err()
	}
	u, err := scanUser(rows)
	if err != nil {
		return user.User{}, false, err
	}
	return u, true, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (user.User, error) {
	var u user.User
	var created time.Time
	if err := row.Scan(&u.ID, &u.UserNo, &u.FullName, &u.Username, &u.Number, &u.Role, &created); err != nil {
		return user.User{}, err
	}
	u.CreatedAt = created.UTC()
	return u, nil
}

var _ user.Repository = (*PostgresRepository)(nil)
