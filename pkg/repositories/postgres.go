package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/cbodonnell/bullseye/pkg/log"
	"github.com/cbodonnell/bullseye/pkg/repositories/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the SQLSTATE for a unique constraint violation
const uniqueViolation = "23505"

type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository connects to the database and applies the migrations.
// The caller is responsible for calling Close() on the repository.
func NewPostgresRepository(ctx context.Context, connStr string, migrations string) (Repository, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %v", err)
	}

	var username string
	var database string
	err = pool.QueryRow(ctx, "SELECT current_user, current_database()").Scan(&username, &database)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to query database: %v", err)
	}
	log.Info("Connected to %s as %s", database, username)

	statements, err := readMigrations(migrations)
	if err != nil {
		pool.Close()
		return nil, err
	}
	for i, migration := range statements {
		if _, err := pool.Exec(ctx, migration); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to execute migration %d: %v", i, err)
		}
	}

	return &PostgresRepository{
		pool: pool,
	}, nil
}

func (r *PostgresRepository) Close(ctx context.Context) error {
	r.pool.Close()
	return nil
}

func (r *PostgresRepository) CreateUser(ctx context.Context, username string, passwordHash string) (*models.User, error) {
	q := `
	INSERT INTO users (username, password_hash) VALUES ($1, $2)
	RETURNING username, password_hash, best_score, total_games, created_at;
	`
	user := &models.User{}
	err := r.pool.QueryRow(ctx, q, username, passwordHash).Scan(&user.Username, &user.PasswordHash, &user.BestScore, &user.TotalGames, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, &ErrUserExists{}
		}
		return nil, fmt.Errorf("failed to insert user: %v", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetUser(ctx context.Context, username string) (*models.User, error) {
	q := `
	SELECT username, password_hash, best_score, total_games, created_at FROM users WHERE username = $1;
	`
	user := &models.User{}
	err := r.pool.QueryRow(ctx, q, username).Scan(&user.Username, &user.PasswordHash, &user.BestScore, &user.TotalGames, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan user: %v", err)
	}

	return user, nil
}

func (r *PostgresRepository) BestScore(ctx context.Context, username string) (int, error) {
	q := `
	SELECT best_score FROM users WHERE username = $1;
	`
	var bestScore int
	if err := r.pool.QueryRow(ctx, q, username).Scan(&bestScore); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, &ErrNotFound{}
		}
		return 0, fmt.Errorf("failed to scan best score: %v", err)
	}

	return bestScore, nil
}

func (r *PostgresRepository) RecordBestScore(ctx context.Context, username string, score int) (bool, error) {
	q := `
	UPDATE users SET best_score = $1 WHERE username = $2 AND best_score < $1;
	`
	tag, err := r.pool.Exec(ctx, q, score, username)
	if err != nil {
		return false, fmt.Errorf("failed to update best score: %v", err)
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}

	if _, err := r.BestScore(ctx, username); err != nil {
		return false, err
	}
	return false, nil
}

func (r *PostgresRepository) RecordGamePlayed(ctx context.Context, username string) error {
	q := `
	UPDATE users SET total_games = total_games + 1 WHERE username = $1;
	`
	tag, err := r.pool.Exec(ctx, q, username)
	if err != nil {
		return fmt.Errorf("failed to update total games: %v", err)
	}
	if tag.RowsAffected() == 0 {
		return &ErrNotFound{}
	}

	return nil
}
