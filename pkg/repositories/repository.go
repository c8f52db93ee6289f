package repositories

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cbodonnell/bullseye/pkg/repositories/models"
)

// Repository is the account store.
type Repository interface {
	Close(ctx context.Context) error
	// CreateUser returns ErrUserExists if the username is taken.
	CreateUser(ctx context.Context, username string, passwordHash string) (*models.User, error)
	GetUser(ctx context.Context, username string) (*models.User, error)
	BestScore(ctx context.Context, username string) (int, error)
	// RecordBestScore stores score only if it is greater than the stored best
	// and reports whether it did.
	RecordBestScore(ctx context.Context, username string, score int) (bool, error)
	// RecordGamePlayed increments the number of games played.
	RecordGamePlayed(ctx context.Context, username string) error
}

// NewRepository opens the repository named by databaseURL:
// memory://, sqlite://<path> or postgres(ql)://<dsn>.
// migrations is the directory holding the sqlite and postgres migration folders.
func NewRepository(ctx context.Context, databaseURL string, migrations string) (Repository, error) {
	scheme, rest, ok := strings.Cut(databaseURL, "://")
	if !ok {
		return nil, fmt.Errorf("invalid database url %q", databaseURL)
	}

	switch scheme {
	case "memory":
		return NewMemoryRepository(), nil
	case "sqlite", "sqlite3":
		return NewSQLiteRepository(ctx, rest, filepath.Join(migrations, "sqlite"))
	case "postgres", "postgresql":
		return NewPostgresRepository(ctx, databaseURL, filepath.Join(migrations, "postgres"))
	default:
		return nil, fmt.Errorf("unsupported database scheme %q", scheme)
	}
}

// readMigrations returns the contents of the .sql files in dir, in name order.
func readMigrations(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %v", err)
	}

	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".sql" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	migrations := make([]string, 0, len(names))
	for _, name := range names {
		migrationPath := filepath.Join(dir, name)
		migration, err := os.ReadFile(migrationPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %v", migrationPath, err)
		}
		migrations = append(migrations, string(migration))
	}

	return migrations, nil
}
