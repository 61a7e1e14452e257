package session

import (
	"context"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/pairrank/pkg/errors"
	"github.com/matzehuels/pairrank/pkg/observability"
	"github.com/matzehuels/pairrank/pkg/rank"
)

// Question is a comparison proposed to the user, with item labels resolved.
type Question struct {
	From     int    `json:"from"`
	To       int    `json:"to"`
	FromItem string `json:"from_item"`
	ToItem   string `json:"to_item"`
}

// Snapshot is a consistent read-only view of a session's graph, used for
// rendering.
type Snapshot struct {
	Name       string
	Items      []string
	Ranking    rank.Ranking
	Edges      []rank.Edge
	CycleNodes []rank.NodeID
}

// Ranker is a live session: the persisted record plus its replayed graph.
// All methods are safe for concurrent use; access to the graph is
// serialized by a single mutex.
type Ranker struct {
	id    string
	items []string // immutable, read without the lock

	mu     sync.Mutex
	sess   *Session
	graph  *rank.RankGraph
	store  Store
	logger *log.Logger
	closed bool
}

func newRanker(sess *Session, store Store, logger *log.Logger) (*Ranker, error) {
	l := logger.With("session", sess.ID)
	g, err := sess.Graph(rank.WithLogger(l))
	if err != nil {
		return nil, err
	}
	return &Ranker{id: sess.ID, items: slices.Clone(sess.Items), sess: sess, graph: g, store: store, logger: l}, nil
}

// ID returns the session ID.
func (r *Ranker) ID() string { return r.id }

// Items returns the item labels in node order.
func (r *Ranker) Items() []string { return slices.Clone(r.items) }

// Session returns a copy of the persisted record.
func (r *Ranker) Session() *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sess.Clone()
}

// Resolve maps an item reference to its index. A reference is either an
// exact item label or a decimal index; labels take precedence.
func (r *Ranker) Resolve(ref string) (int, error) {
	if i, err := r.Lookup(ref); err == nil {
		return i, nil
	}
	if i, err := strconv.Atoi(ref); err == nil {
		return r.Index(i)
	}
	return 0, errs.New(errs.ErrCodeUnknownItem, "no item %q in session %s", ref, r.id)
}

// Lookup returns the index of the item labelled exactly label.
func (r *Ranker) Lookup(label string) (int, error) {
	if i := slices.Index(r.items, label); i >= 0 {
		return i, nil
	}
	return 0, errs.New(errs.ErrCodeUnknownItem, "no item %q in session %s", label, r.id)
}

// Index checks that i refers to an item of the session.
func (r *Ranker) Index(i int) (int, error) {
	if i < 0 || i >= len(r.items) {
		return 0, errs.New(errs.ErrCodeUnknownItem, "no item #%d in session %s", i, r.id)
	}
	return i, nil
}

// Compare records that the item at winner ranks above the item at loser and
// persists the session. The live graph only changes once the store accepted
// the new record.
func (r *Ranker) Compare(ctx context.Context, winner, loser int) (err error) {
	defer func() { observability.Rank().OnComparison(ctx, r.id, err) }()

	if winner == loser {
		return errs.New(errs.ErrCodeInvalidInput, "an item cannot be compared with itself")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkBounds(winner, loser); err != nil {
		return err
	}
	next := r.sess.Clone()
	now := time.Now().UTC()
	next.Comparisons = append(next.Comparisons, Comparison{Winner: winner, Loser: loser, At: now})
	next.UpdatedAt = now
	if err := r.save(ctx, next); err != nil {
		return err
	}
	if err := r.graph.AddEdge(rank.NodeID(winner), rank.NodeID(loser)); err != nil {
		return err
	}
	r.sess = next
	r.logger.Debug("comparison recorded", "winner", r.items[winner], "loser", r.items[loser])
	return nil
}

// Skip records that the comparison between a and b was asked without a
// judgement, so it is not proposed again.
func (r *Ranker) Skip(ctx context.Context, a, b int) (err error) {
	defer func() { observability.Rank().OnSkip(ctx, r.id, err) }()

	if a == b {
		return errs.New(errs.ErrCodeInvalidInput, "an item cannot be compared with itself")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkBounds(a, b); err != nil {
		return err
	}
	next := r.sess.Clone()
	now := time.Now().UTC()
	next.Skips = append(next.Skips, Skip{A: a, B: b, At: now})
	next.UpdatedAt = now
	if err := r.save(ctx, next); err != nil {
		return err
	}
	if err := r.graph.MarkQueried(rank.NodeID(a), rank.NodeID(b)); err != nil {
		return err
	}
	r.sess = next
	r.logger.Debug("comparison skipped", "a", r.items[a], "b", r.items[b])
	return nil
}

// Next returns the next comparison to ask, and false once none is left.
func (r *Ranker) Next(ctx context.Context) (Question, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.nextLocked(ctx)
}

func (r *Ranker) nextLocked(ctx context.Context) (Question, bool) {
	q, ok := r.graph.NextQuery()
	observability.Rank().OnQuery(ctx, r.id, ok)
	if !ok {
		return Question{}, false
	}
	return Question{
		From:     int(q.From),
		To:       int(q.To),
		FromItem: r.items[q.From],
		ToItem:   r.items[q.To],
	}, true
}

// RankingIDs returns the current ranking as item indices.
func (r *Ranker) RankingIDs(ctx context.Context) rank.Ranking {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rankingLocked(ctx)
}

// Ranking returns the current ranking as item labels, best level first.
func (r *Ranker) Ranking(ctx context.Context) [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.labels(r.rankingLocked(ctx))
}

// View is the ranking of a session together with the question to ask next,
// taken from a single graph state.
type View struct {
	Levels [][]string
	IDs    rank.Ranking
	Next   *Question
}

// View returns the ranking and next question under one lock.
func (r *Ranker) View(ctx context.Context) View {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := r.rankingLocked(ctx)
	v := View{Levels: r.labels(ids), IDs: ids}
	if q, ok := r.nextLocked(ctx); ok {
		v.Next = &q
	}
	return v
}

func (r *Ranker) labels(ids rank.Ranking) [][]string {
	out := make([][]string, len(ids))
	for i, level := range ids {
		out[i] = make([]string, len(level))
		for j, n := range level {
			out[i][j] = r.items[n]
		}
	}
	return out
}

// Snapshot returns a consistent view of the graph for rendering.
func (r *Ranker) Snapshot(ctx context.Context) Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot{
		Name:       r.sess.Name,
		Items:      slices.Clone(r.items),
		Ranking:    r.rankingLocked(ctx),
		Edges:      r.graph.Edges(),
		CycleNodes: r.graph.CycleNodes(),
	}
}

func (r *Ranker) rankingLocked(ctx context.Context) rank.Ranking {
	start := time.Now()
	cached := !r.graph.Stale()
	levels := r.graph.Ranking()
	observability.Rank().OnRanking(ctx, r.id, len(levels), cached, time.Since(start))
	return levels
}

func (r *Ranker) checkBounds(ids ...int) error {
	for _, id := range ids {
		if id < 0 || id >= len(r.items) {
			return errs.Wrap(errs.ErrCodeOutOfBounds, rank.ErrOutOfBounds, "node %d not in [0, %d)", id, len(r.items))
		}
	}
	return nil
}

// close marks the ranker deleted. Later writes fail with SESSION_NOT_FOUND
// instead of recreating the stored record.
func (r *Ranker) close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
}

func (r *Ranker) save(ctx context.Context, sess *Session) error {
	if r.closed {
		return errs.New(errs.ErrCodeSessionNotFound, "session %s was deleted", sess.ID)
	}
	if err := r.store.Set(ctx, sess); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "save session %s", sess.ID)
	}
	return nil
}
