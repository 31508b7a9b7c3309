package repository

import (
	"context"
	"errors"

	"megamind_api/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrAlreadyExists = errors.New("user already exists")
)

const userColumns = `id, email, COALESCE(name, ''), COALESCE(birthdate, ''), password_hash,
		verified, COALESCE(verify_code, ''), streak, last_streak_date, last_task_date,
		completed_tasks, created_at`

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, email, name, birthdate, password_hash, verified, verify_code, completed_tasks)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Email, u.Name, u.Birthdate, u.PasswordHash, u.Verified, u.VerifyCode, u.CompletedTasks,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.scanOne(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.scanOne(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// WithUser runs fn on the user's record inside a transaction, holding a row
// lock so concurrent read-modify-write cycles for the same user serialize.
// The mutated record is persisted on commit and returned.
func (r *UserRepository) WithUser(ctx context.Context, id string, fn func(*domain.User) error) (*domain.User, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	u, err := r.scanOne(tx.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, err
	}

	if err := fn(u); err != nil {
		return nil, err
	}

	if u.CompletedTasks == nil {
		u.CompletedTasks = []string{}
	}

	_, err = tx.Exec(ctx,
		`UPDATE users
		 SET verified = $1, verify_code = $2, streak = $3,
		     last_streak_date = $4, last_task_date = $5, completed_tasks = $6
		 WHERE id = $7`,
		u.Verified, u.VerifyCode, u.Streak,
		u.LastStreakDate, u.LastTaskDate, u.CompletedTasks, u.ID,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) scanOne(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.Birthdate, &u.PasswordHash,
		&u.Verified, &u.VerifyCode, &u.Streak, &u.LastStreakDate, &u.LastTaskDate,
		&u.CompletedTasks, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
