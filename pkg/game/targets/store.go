package targets

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/cbodonnell/bullseye/pkg/collisions"
	"github.com/cbodonnell/bullseye/pkg/game/constants"
	"github.com/cbodonnell/bullseye/pkg/kinematic"
	"github.com/solarlune/resolv"
)

const (
	// CollisionSpaceTagTarget tags target objects in the collision space
	CollisionSpaceTagTarget string = "target"
)

// Target is a live, moving, hittable object in the arena.
type Target struct {
	ID       uint64
	Position kinematic.Vector
	Velocity kinematic.Vector
	Radius   float64
	Color    string
}

type Options struct {
	Width         float64
	Height        float64
	SpawnMargin   float64
	MinRadius     float64
	MaxRadius     float64
	MaxSpeed      float64
	SpawnAttempts int
	// Rand is the random source used for spawning. A time seeded source is used when nil.
	Rand *rand.Rand
}

// DefaultOptions returns options matching the standard arena.
func DefaultOptions() Options {
	return Options{
		Width:         constants.ArenaWidth,
		Height:        constants.ArenaHeight,
		SpawnMargin:   constants.ArenaSpawnMargin,
		MinRadius:     constants.TargetMinRadius,
		MaxRadius:     constants.TargetMaxRadius,
		MaxSpeed:      constants.TargetMaxSpeed,
		SpawnAttempts: constants.TargetSpawnAttempts,
	}
}

// Validate checks that every target the options can produce fits the arena.
func (o Options) Validate() error {
	if o.MinRadius <= 0 {
		return fmt.Errorf("min radius must be positive, got %v", o.MinRadius)
	}
	if o.MaxRadius < o.MinRadius {
		return fmt.Errorf("max radius %v is smaller than min radius %v", o.MaxRadius, o.MinRadius)
	}
	if o.Width < 2*o.MaxRadius || o.Height < 2*o.MaxRadius {
		return fmt.Errorf("arena %vx%v cannot hold a target of radius %v", o.Width, o.Height, o.MaxRadius)
	}
	if o.MaxSpeed < 0 {
		return fmt.Errorf("max speed must not be negative, got %v", o.MaxSpeed)
	}
	return nil
}

type entry struct {
	target Target
	object *resolv.Object
}

// Store owns the live targets and their kinematics.
// It is not safe for concurrent use; callers serialize access (see types.GameState).
type Store struct {
	opts    Options
	rand    *rand.Rand
	entries []*entry
	nextID  uint64
	space   *resolv.Space
}

func NewStore(opts Options) (*Store, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid target options: %v", err)
	}
	if opts.SpawnAttempts < 1 {
		opts.SpawnAttempts = 1
	}
	r := opts.Rand
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Store{
		opts:  opts,
		rand:  r,
		space: collisions.NewCollisionSpace(opts.Width, opts.Height),
	}, nil
}

// Spawn creates a target with a fresh id, a random radius, velocity and color,
// and a position fully inside the arena. Placements overlapping live targets are
// retried a few times; the last candidate is kept when the arena is crowded.
func (s *Store) Spawn() Target {
	s.nextID++
	radius := s.randomRadius()
	t := Target{
		ID:     s.nextID,
		Radius: radius,
		Velocity: kinematic.Vector{
			X: (s.rand.Float64()*2 - 1) * s.opts.MaxSpeed,
			Y: (s.rand.Float64()*2 - 1) * s.opts.MaxSpeed,
		},
		Color: fmt.Sprintf("hsl(%d, 70%%, 50%%)", s.rand.Intn(360)),
	}

	object := resolv.NewObject(0, 0, 2*radius, 2*radius, CollisionSpaceTagTarget)
	s.space.Add(object)
	for attempt := 0; attempt < s.opts.SpawnAttempts; attempt++ {
		t.Position = s.randomPosition(radius)
		syncObject(object, t)
		if object.Check(0, 0, CollisionSpaceTagTarget) == nil {
			break
		}
	}

	s.entries = append(s.entries, &entry{target: t, object: object})
	return t
}

// Advance integrates every target by dt seconds, bouncing off the arena walls.
func (s *Store) Advance(dt float64) {
	for _, e := range s.entries {
		t := &e.target
		t.Position.X, t.Velocity.X, _ = kinematic.Bounce(t.Position.X, t.Velocity.X, t.Radius, s.opts.Width, dt)
		t.Position.Y, t.Velocity.Y, _ = kinematic.Bounce(t.Position.Y, t.Velocity.Y, t.Radius, s.opts.Height, dt)
		syncObject(e.object, *t)
	}
}

// Remove deletes the target with the given id and reports whether it was live.
func (s *Store) Remove(id uint64) bool {
	for i, e := range s.entries {
		if e.target.ID != id {
			continue
		}
		s.space.Remove(e.object)
		s.entries = append(s.entries[:i], s.entries[i+1:]...)
		return true
	}
	return false
}

// Get returns a copy of a live target.
func (s *Store) Get(id uint64) (Target, bool) {
	for _, e := range s.entries {
		if e.target.ID == id {
			return e.target, true
		}
	}
	return Target{}, false
}

// Snapshot returns a copy of all live targets ordered by id.
func (s *Store) Snapshot() []Target {
	snapshot := make([]Target, 0, len(s.entries))
	for _, e := range s.entries {
		snapshot = append(snapshot, e.target)
	}
	return snapshot
}

// Count returns the number of live targets.
func (s *Store) Count() int {
	return len(s.entries)
}

// Bounds returns the arena width and height.
func (s *Store) Bounds() (float64, float64) {
	return s.opts.Width, s.opts.Height
}

func (s *Store) randomRadius() float64 {
	radius := s.opts.MinRadius + s.rand.Float64()*(s.opts.MaxRadius-s.opts.MinRadius)
	// radius feeds a division when scoring
	if radius < s.opts.MinRadius {
		radius = s.opts.MinRadius
	}
	return radius
}

func (s *Store) randomPosition(radius float64) kinematic.Vector {
	margin := s.opts.SpawnMargin
	x := margin + s.rand.Float64()*(s.opts.Width-2*margin)
	y := margin + s.rand.Float64()*(s.opts.Height-2*margin)
	return kinematic.Vector{
		X: kinematic.Clamp(x, radius, s.opts.Width-radius),
		Y: kinematic.Clamp(y, radius, s.opts.Height-radius),
	}
}

// syncObject moves the collision object to the target's bounding box
func syncObject(object *resolv.Object, t Target) {
	object.Position.X = t.Position.X - t.Radius
	object.Position.Y = t.Position.Y - t.Radius
	object.Update()
}
