package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cbodonnell/bullseye/pkg/repositories/models"
	"github.com/mattn/go-sqlite3"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(ctx context.Context, path string, migrations string) (Repository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}
	// a single connection keeps :memory: databases shared and avoids lock contention
	db.SetMaxOpenConns(1)

	statements, err := readMigrations(migrations)
	if err != nil {
		db.Close()
		return nil, err
	}
	for i, migration := range statements {
		if _, err := db.ExecContext(ctx, migration); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute migration %d: %v", i, err)
		}
	}

	return &SQLiteRepository{
		db: db,
	}, nil
}

func (r *SQLiteRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

func (r *SQLiteRepository) CreateUser(ctx context.Context, username string, passwordHash string) (*models.User, error) {
	q := `
	INSERT INTO users (username, password_hash, best_score, total_games, created_at)
	VALUES (?, ?, 0, 0, ?);
	`
	createdAt := time.Now().UTC()
	if _, err := r.db.ExecContext(ctx, q, username, passwordHash, createdAt); err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return nil, &ErrUserExists{}
		}
		return nil, fmt.Errorf("failed to insert user: %v", err)
	}

	return &models.User{
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    createdAt,
	}, nil
}

func (r *SQLiteRepository) GetUser(ctx context.Context, username string) (*models.User, error) {
	q := `
	SELECT username, password_hash, best_score, total_games, created_at FROM users WHERE username = ?;
	`
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, q, username).Scan(&user.Username, &user.PasswordHash, &user.BestScore, &user.TotalGames, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan user: %v", err)
	}

	return user, nil
}

func (r *SQLiteRepository) BestScore(ctx context.Context, username string) (int, error) {
	q := `
	SELECT best_score FROM users WHERE username = ?;
	`
	var bestScore int
	if err := r.db.QueryRowContext(ctx, q, username).Scan(&bestScore); err != nil {
		if err == sql.ErrNoRows {
			return 0, &ErrNotFound{}
		}
		return 0, fmt.Errorf("failed to scan best score: %v", err)
	}

	return bestScore, nil
}

func (r *SQLiteRepository) RecordBestScore(ctx context.Context, username string, score int) (bool, error) {
	q := `
	UPDATE users SET best_score = ? WHERE username = ? AND best_score < ?;
	`
	result, err := r.db.ExecContext(ctx, q, score, username, score)
	if err != nil {
		return false, fmt.Errorf("failed to update best score: %v", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %v", err)
	}
	if affected > 0 {
		return true, nil
	}

	// no update: either the user is unknown or the stored score is not lower
	if _, err := r.BestScore(ctx, username); err != nil {
		return false, err
	}
	return false, nil
}

func (r *SQLiteRepository) RecordGamePlayed(ctx context.Context, username string) error {
	q := `
	UPDATE users SET total_games = total_games + 1 WHERE username = ?;
	`
	result, err := r.db.ExecContext(ctx, q, username)
	if err != nil {
		return fmt.Errorf("failed to update total games: %v", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %v", err)
	}
	if affected == 0 {
		return &ErrNotFound{}
	}

	return nil
}
