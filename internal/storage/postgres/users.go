package postgres

import (
	"context"

	"github.com/sentinelai/sentinel-core/internal/models"
)

type UserRepo struct {
	client *Client
}

func NewUserRepo(c *Client) *UserRepo {
	return &UserRepo{client: c}
}

const userColumns = `id, username, email, hashed_password, role, created_at, updated_at`

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	row := r.client.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username=$1`, username)
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.HashedPassword, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	row := r.client.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.HashedPassword, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.client.Pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n)
	return n, err
}

func (r *UserRepo) Create(ctx context.Context, u *models.User) error {
	row := r.client.Pool.QueryRow(ctx, `
		INSERT INTO users (username, email, hashed_password, role)
		VALUES ($1,$2,$3,$4)
		RETURNING id, created_at`,
		u.Username, u.Email, u.HashedPassword, u.Role,
	)
	if err := row.Scan(&u.ID, &u.CreatedAt); err != nil {
		return mapError(err)
	}
	return nil
}
