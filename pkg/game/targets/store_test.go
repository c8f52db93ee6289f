package targets

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	opts := DefaultOptions()
	opts.Rand = rand.New(rand.NewSource(42))
	s, err := NewStore(opts)
	require.NoError(t, err)
	return s
}

func assertInside(t *testing.T, s *Store, target Target) {
	t.Helper()
	width, height := s.Bounds()
	assert.GreaterOrEqual(t, target.Position.X, target.Radius)
	assert.LessOrEqual(t, target.Position.X, width-target.Radius)
	assert.GreaterOrEqual(t, target.Position.Y, target.Radius)
	assert.LessOrEqual(t, target.Position.Y, height-target.Radius)
}

func TestNewStoreValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(o *Options)
	}{
		{name: "zero min radius", modify: func(o *Options) { o.MinRadius = 0 }},
		{name: "max below min", modify: func(o *Options) { o.MaxRadius = o.MinRadius - 1 }},
		{name: "arena too small", modify: func(o *Options) { o.Width = o.MaxRadius }},
		{name: "negative speed", modify: func(o *Options) { o.MaxSpeed = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.modify(&opts)
			_, err := NewStore(opts)
			assert.Error(t, err)
		})
	}
}

func TestSpawnAssignsIncreasingIDs(t *testing.T) {
	s := newTestStore(t)

	first := s.Spawn()
	second := s.Spawn()
	assert.Equal(t, uint64(1), first.ID)
	assert.Equal(t, uint64(2), second.ID)

	require.True(t, s.Remove(second.ID))
	third := s.Spawn()
	assert.Equal(t, uint64(3), third.ID, "ids are never reused")
}

func TestSpawnProducesValidTargets(t *testing.T) {
	s := newTestStore(t)
	opts := DefaultOptions()

	for i := 0; i < 200; i++ {
		target := s.Spawn()
		assert.GreaterOrEqual(t, target.Radius, opts.MinRadius)
		assert.Less(t, target.Radius, opts.MaxRadius)
		assert.LessOrEqual(t, target.Velocity.X, opts.MaxSpeed)
		assert.GreaterOrEqual(t, target.Velocity.X, -opts.MaxSpeed)
		assert.LessOrEqual(t, target.Velocity.Y, opts.MaxSpeed)
		assert.GreaterOrEqual(t, target.Velocity.Y, -opts.MaxSpeed)
		assert.Regexp(t, `^hsl\(\d+, 70%, 50%\)$`, target.Color)
		assertInside(t, s, target)
	}
	assert.Equal(t, 200, s.Count())
}

func TestAdvanceKeepsTargetsInside(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 8; i++ {
		s.Spawn()
	}

	for tick := 0; tick < 3000; tick++ {
		before := s.Snapshot()
		s.Advance(1.0 / 30.0)
		after := s.Snapshot()
		require.Len(t, after, len(before))
		for i, target := range after {
			assertInside(t, s, target)
			// speed is conserved by reflection
			assert.InDelta(t, abs(before[i].Velocity.X), abs(target.Velocity.X), 1e-9)
			assert.InDelta(t, abs(before[i].Velocity.Y), abs(target.Velocity.Y), 1e-9)
		}
	}
}

func TestAdvanceReflectsAtWall(t *testing.T) {
	s := newTestStore(t)
	target := s.Spawn()
	e := s.entries[0]
	e.target.Position.X = target.Radius + 0.5
	e.target.Velocity.X = -60
	e.target.Velocity.Y = 0

	s.Advance(0.1)

	got, ok := s.Get(target.ID)
	require.True(t, ok)
	assert.Equal(t, 60.0, got.Velocity.X)
	assert.Greater(t, got.Position.X, got.Radius)
}

func TestRemove(t *testing.T) {
	s := newTestStore(t)
	a := s.Spawn()
	b := s.Spawn()
	c := s.Spawn()

	assert.True(t, s.Remove(b.ID))
	assert.False(t, s.Remove(b.ID), "second removal reports absence")
	assert.False(t, s.Remove(999))

	_, ok := s.Get(b.ID)
	assert.False(t, ok)

	snapshot := s.Snapshot()
	require.Len(t, snapshot, 2)
	assert.Equal(t, a.ID, snapshot[0].ID)
	assert.Equal(t, c.ID, snapshot[1].ID)
}

func TestSnapshotIsACopy(t *testing.T) {
	s := newTestStore(t)
	target := s.Spawn()

	snapshot := s.Snapshot()
	snapshot[0].Radius = 1

	got, ok := s.Get(target.ID)
	require.True(t, ok)
	assert.Equal(t, target.Radius, got.Radius)
}

func TestSpawnAvoidsOverlapWhenThereIsRoom(t *testing.T) {
	opts := DefaultOptions()
	opts.Rand = rand.New(rand.NewSource(7))
	opts.SpawnAttempts = 50
	s, err := NewStore(opts)
	require.NoError(t, err)

	s.Spawn()
	second := s.Spawn()

	first := s.entries[0]
	assert.Nil(t, s.entries[1].object.Check(0, 0, CollisionSpaceTagTarget), "second target overlaps %v", first.target)
	assertInside(t, s, second)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
