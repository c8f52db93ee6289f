package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/cbodonnell/bullseye/pkg/repositories/models"
)

// MemoryRepository keeps accounts in process memory. Accounts are lost on restart.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]*models.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users: make(map[string]*models.User),
	}
}

func (r *MemoryRepository) Close(ctx context.Context) error {
	return nil
}

func (r *MemoryRepository) CreateUser(ctx context.Context, username string, passwordHash string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[username]; ok {
		return nil, &ErrUserExists{}
	}
	user := &models.User{
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	r.users[username] = user
	copy := *user
	return &copy, nil
}

func (r *MemoryRepository) GetUser(ctx context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[username]
	if !ok {
		return nil, &ErrNotFound{}
	}
	copy := *user
	return &copy, nil
}

func (r *MemoryRepository) BestScore(ctx context.Context, username string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[username]
	if !ok {
		return 0, &ErrNotFound{}
	}
	return user.BestScore, nil
}

func (r *MemoryRepository) RecordBestScore(ctx context.Context, username string, score int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[username]
	if !ok {
		return false, &ErrNotFound{}
	}
	if score <= user.BestScore {
		return false, nil
	}
	user.BestScore = score
	return true, nil
}

func (r *MemoryRepository) RecordGamePlayed(ctx context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[username]
	if !ok {
		return &ErrNotFound{}
	}
	user.TotalGames++
	return nil
}
