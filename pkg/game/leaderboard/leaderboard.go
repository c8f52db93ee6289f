package leaderboard

import (
	"sort"
)

// Entry is a ranked (username, score) pair.
type Entry struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
}

type record struct {
	Entry
	// seq orders entries with equal scores; earlier reports rank first
	seq uint64
}

// Leaderboard keeps the best score per username, capped to a fixed number of entries.
// It is not safe for concurrent use.
type Leaderboard struct {
	capacity int
	seq      uint64
	records  []record
}

func New(capacity int) *Leaderboard {
	if capacity < 1 {
		capacity = 1
	}
	return &Leaderboard{
		capacity: capacity,
		records:  make([]record, 0, capacity+1),
	}
}

// Report records a score for username. A lower or equal score than the one
// already held is ignored. It returns true if the leaderboard changed.
func (l *Leaderboard) Report(username string, score int) bool {
	for i := range l.records {
		if l.records[i].Username != username {
			continue
		}
		if score <= l.records[i].Score {
			return false
		}
		l.seq++
		l.records[i].Score = score
		l.records[i].seq = l.seq
		l.sort()
		return true
	}

	if len(l.records) == l.capacity && score <= l.records[len(l.records)-1].Score {
		return false
	}

	l.seq++
	l.records = append(l.records, record{Entry: Entry{Username: username, Score: score}, seq: l.seq})
	l.sort()
	if len(l.records) > l.capacity {
		l.records = l.records[:l.capacity]
	}
	return true
}

// TopN returns a copy of the ranked entries, best first.
func (l *Leaderboard) TopN() []Entry {
	entries := make([]Entry, len(l.records))
	for i, r := range l.records {
		entries[i] = r.Entry
	}
	return entries
}

// Len returns the number of ranked entries.
func (l *Leaderboard) Len() int {
	return len(l.records)
}

func (l *Leaderboard) sort() {
	sort.SliceStable(l.records, func(i, j int) bool {
		if l.records[i].Score != l.records[j].Score {
			return l.records[i].Score > l.records[j].Score
		}
		return l.records[i].seq < l.records[j].seq
	})
}
