package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/user-service/internal/domain"
)

// UserRepository defines persistence access for credential records. Each
// method is a single logical read or write; callers get no multi-statement
// atomicity.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, offset, limit int) ([]*domain.User, error)
	Count(ctx context.Context) (int64, error)
}

const userColumns = `id, nickname, first_name, last_name, bio,
        profile_picture_url, linkedin_profile_url, github_profile_url,
        email, password_hash, role, email_verified, is_locked,
        failed_login_count, is_professional, last_login_at, created_at, updated_at`

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (nickname, first_name, last_name, bio,
            profile_picture_url, linkedin_profile_url, github_profile_url,
            email, password_hash, role, email_verified, is_locked,
            failed_login_count, is_professional)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		user.Nickname,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.ProfilePictureURL,
		user.LinkedInURL,
		user.GitHubURL,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.EmailVerified,
		user.IsLocked,
		user.FailedLoginCount,
		user.IsProfessional,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET nickname=$1, first_name=$2, last_name=$3, bio=$4,
            profile_picture_url=$5, linkedin_profile_url=$6, github_profile_url=$7,
            email=$8, password_hash=$9, role=$10, email_verified=$11,
            is_locked=$12, failed_login_count=$13, is_professional=$14,
            last_login_at=$15, updated_at=NOW()
        WHERE id=$16`

	cmd, err := r.pool.Exec(ctx, query,
		user.Nickname,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.ProfilePictureURL,
		user.LinkedInURL,
		user.GitHubURL,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.EmailVerified,
		user.IsLocked,
		user.FailedLoginCount,
		user.IsProfessional,
		user.LastLoginAt,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	const query = `SELECT ` + userColumns + `
        FROM users ORDER BY created_at DESC OFFSET $1 LIMIT $2`

	rows, err := r.pool.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*domain.User, 0, limit)
	for rows.Next() {
		user, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total)
	return total, err
}

func (r *userRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Nickname,
		&user.FirstName,
		&user.LastName,
		&user.Bio,
		&user.ProfilePictureURL,
		&user.LinkedInURL,
		&user.GitHubURL,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.EmailVerified,
		&user.IsLocked,
		&user.FailedLoginCount,
		&user.IsProfessional,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
