package network

import (
	"math/rand"
	"sort"
	"sync"

	"github.com/cbodonnell/bullseye/pkg/messages"
)

// TargetTracker mirrors the live targets announced by the server.
type TargetTracker struct {
	mu      sync.Mutex
	targets map[uint64]messages.Target
}

func NewTargetTracker() *TargetTracker {
	return &TargetTracker{
		targets: make(map[uint64]messages.Target),
	}
}

// Reset replaces the tracked targets.
func (t *TargetTracker) Reset(targets []messages.Target) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.targets = make(map[uint64]messages.Target, len(targets))
	for _, target := range targets {
		t.targets[target.ID] = target
	}
}

func (t *TargetTracker) Add(target messages.Target) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.targets[target.ID] = target
}

func (t *TargetTracker) Remove(id uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.targets, id)
}

func (t *TargetTracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.targets)
}

// Random returns a random tracked target.
func (t *TargetTracker) Random(r *rand.Rand) (messages.Target, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.targets) == 0 {
		return messages.Target{}, false
	}
	ids := make([]uint64, 0, len(t.targets))
	for id := range t.targets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return t.targets[ids[r.Intn(len(ids))]], true
}
