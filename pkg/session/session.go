// Package session runs interactive ranking sessions on top of the rank engine.
//
// A [Session] is the persisted record of one ranking exercise: the item
// labels plus every judgement and skip, in the order they were given.
// Replaying that record into a fresh [rank.RankGraph] reproduces the engine
// state exactly, so stores only ever hold the record.
//
// # Architecture
//
// Sessions are kept in a [Store]. Backends:
//   - memory: In-memory storage for tests and the HTTP server default
//   - file: JSON files for CLI use (~/.local/share/pairrank/sessions/)
//   - redis: Redis-backed storage shared by several server instances
//
// A [Manager] creates sessions and opens them as live [Ranker] values. A
// Ranker owns the replayed graph and serializes access to it with a mutex;
// every mutation is written through to the store.
//
// # Usage
//
//	store, err := session.NewFileStore("")
//	if err != nil {
//	    return err
//	}
//	m := session.NewManager(store, logger)
//
//	r, err := m.Create(ctx, "fruit", []string{"apple", "pear", "plum"})
//	q, ok := r.Next(ctx)
//	if ok {
//	    err = r.Compare(ctx, q.From, q.To) // q.From won
//	}
//	levels := r.Ranking(ctx)
package session

import (
	"cmp"
	"context"
	"encoding/json"
	"slices"
	"time"

	"github.com/google/uuid"

	errs "github.com/matzehuels/pairrank/pkg/errors"
	"github.com/matzehuels/pairrank/pkg/rank"
)

// Comparison is one judgement: the item at index Winner ranks above Loser.
type Comparison struct {
	Winner int       `json:"winner"`
	Loser  int       `json:"loser"`
	At     time.Time `json:"at"`
}

// Skip is a comparison that was asked but left undecided.
type Skip struct {
	A  int       `json:"a"`
	B  int       `json:"b"`
	At time.Time `json:"at"`
}

// Session is the persisted record of a ranking exercise.
type Session struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Items       []string     `json:"items"`
	Comparisons []Comparison `json:"comparisons"`
	Skips       []Skip       `json:"skips,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// New creates a session with a fresh ID for the given items.
// Items must be unique, valid labels and there must be at least two.
func New(name string, items []string) (*Session, error) {
	if err := errs.ValidateItems(items); err != nil {
		return nil, err
	}
	if name == "" {
		name = "untitled"
	}

	now := time.Now().UTC()
	return &Session{
		ID:        GenerateID(),
		Name:      name,
		Items:     slices.Clone(items),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// GenerateID returns a new random session ID.
func GenerateID() string {
	return uuid.NewString()
}

// Graph replays the session into a new ranking graph. Node i is Items[i].
// Records referencing unknown items yield an INVALID_SESSION error.
func (s *Session) Graph(opts ...rank.Option) (*rank.RankGraph, error) {
	g := rank.New(opts...)
	for range s.Items {
		g.AddNode()
	}
	for i, c := range s.Comparisons {
		if err := g.AddEdge(rank.NodeID(c.Winner), rank.NodeID(c.Loser)); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidSession, err, "session %s: comparison %d", s.ID, i)
		}
	}
	for i, sk := range s.Skips {
		if err := g.MarkQueried(rank.NodeID(sk.A), rank.NodeID(sk.B)); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidSession, err, "session %s: skip %d", s.ID, i)
		}
	}
	return g, nil
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	c := *s
	c.Items = slices.Clone(s.Items)
	c.Comparisons = slices.Clone(s.Comparisons)
	c.Skips = slices.Clone(s.Skips)
	return &c
}

// Encode serializes the session for storage.
func Encode(s *Session) ([]byte, error) {
	return json.Marshal(s)
}

// Decode parses a stored session.
func Decode(data []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidSession, err, "decode session")
	}
	return &s, nil
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session, replacing any previous version.
	Set(ctx context.Context, s *Session) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// List returns all sessions, most recently updated first.
	List(ctx context.Context) ([]*Session, error)

	// Close releases backend resources.
	Close() error
}

func sortByUpdated(sessions []*Session) {
	slices.SortFunc(sessions, func(a, b *Session) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
