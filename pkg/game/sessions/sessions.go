package sessions

import (
	"sort"
	"time"
)

// Session is the game identity of a logged-in connection.
type Session struct {
	// ID is the id of the connection that owns the session
	ID       string
	Username string
	// Score is the running score of this session only
	Score int
	// BestScore is the account best score read at join
	BestScore  int
	TargetsHit int
	JoinedAt   time.Time
}

// Registry maps connection ids to sessions. It is not safe for concurrent use.
type Registry struct {
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
	}
}

// Add registers a session, replacing any session the connection already held.
// It returns true if a previous session was replaced.
func (r *Registry) Add(s Session) bool {
	_, replaced := r.sessions[s.ID]
	session := s
	r.sessions[s.ID] = &session
	return replaced
}

// Remove deletes the session for a connection and reports whether it existed.
func (r *Registry) Remove(id string) bool {
	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}

// Get returns a copy of the session for a connection.
func (r *Registry) Get(id string) (Session, bool) {
	s, ok := r.sessions[id]
	if !ok {
		return Session{}, false
	}
	return *s, true
}

// AddScore credits points to a session and returns the updated session.
func (r *Registry) AddScore(id string, points int) (Session, bool) {
	s, ok := r.sessions[id]
	if !ok {
		return Session{}, false
	}
	s.Score += points
	s.TargetsHit++
	return *s, true
}

// SetBestScore updates the cached account best score of a session.
func (r *Registry) SetBestScore(id string, score int) {
	if s, ok := r.sessions[id]; ok {
		s.BestScore = score
	}
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	return len(r.sessions)
}

// IDs returns the connection ids of all live sessions, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
