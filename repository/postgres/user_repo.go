package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/taskmanager/domain"
	"github.com/fastygo/taskmanager/repository"
)

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository instantiates a Postgres-backed user repository.
func NewUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	const query = `
		SELECT id, first_name, last_name, timezone, is_active
		FROM users
		WHERE id = $1
	`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	const query = `
		SELECT id, first_name, last_name, timezone, is_active
		FROM users
		ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (r *userRepository) Save(ctx context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrInvalidPayload
	}

	if user.ID == 0 {
		const insert = `
		INSERT INTO users (first_name, last_name, timezone, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id
		`
		return r.pool.QueryRow(ctx, insert,
			user.FirstName,
			user.LastName,
			user.Timezone,
			user.IsActive,
		).Scan(&user.ID)
	}

	const update = `
	UPDATE users
	SET first_name = $2,
		last_name = $3,
		timezone = $4,
		is_active = $5
	WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, update,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Timezone,
		user.IsActive,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Delete fails with a foreign key violation while tasks still reference the user.
func (r *userRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(&user.ID, &user.FirstName, &user.LastName, &user.Timezone, &user.IsActive); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
