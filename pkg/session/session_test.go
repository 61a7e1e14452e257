package session

import (
	"reflect"
	"testing"

	errs "github.com/matzehuels/pairrank/pkg/errors"
	"github.com/matzehuels/pairrank/pkg/rank"
)

func TestNew(t *testing.T) {
	sess, err := New("fruit", []string{"apple", "pear", "plum"})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if sess.ID == "" {
		t.Error("New() returned an empty ID")
	}
	if err := errs.ValidateSessionID(sess.ID); err != nil {
		t.Errorf("generated ID %q is not a valid session ID: %v", sess.ID, err)
	}
	if sess.CreatedAt.IsZero() || !sess.CreatedAt.Equal(sess.UpdatedAt) {
		t.Errorf("timestamps not initialized: created %v, updated %v", sess.CreatedAt, sess.UpdatedAt)
	}

	other, _ := New("fruit", []string{"a", "b"})
	if other.ID == sess.ID {
		t.Error("New() generated duplicate IDs")
	}
}

func TestNew_DefaultName(t *testing.T) {
	sess, err := New("", []string{"a", "b"})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if sess.Name != "untitled" {
		t.Errorf("Name = %q, want %q", sess.Name, "untitled")
	}
}

func TestNew_InvalidItems(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		code  errs.Code
	}{
		{"too few", []string{"a"}, errs.ErrCodeInvalidInput},
		{"duplicate", []string{"a", "a"}, errs.ErrCodeDuplicateItem},
		{"blank", []string{"a", " "}, errs.ErrCodeInvalidItem},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("x", tt.items)
			if !errs.Is(err, tt.code) {
				t.Errorf("New() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestSession_Graph(t *testing.T) {
	sess, _ := New("x", []string{"a", "b", "c"})
	sess.Comparisons = []Comparison{{Winner: 2, Loser: 0}, {Winner: 0, Loser: 1}}
	sess.Skips = []Skip{{A: 1, B: 2}}

	g, err := sess.Graph()
	if err != nil {
		t.Fatalf("Graph() error: %v", err)
	}
	if g.Size() != 3 {
		t.Errorf("Size() = %d, want 3", g.Size())
	}
	if got, want := g.Ranking(), (rank.Ranking{{2}, {0}, {1}}); !reflect.DeepEqual(got, want) {
		t.Errorf("Ranking() = %v, want %v", got, want)
	}
	if !g.Queried(2, 1) {
		t.Error("skip was not replayed into the query log")
	}
}

func TestSession_GraphCorrupt(t *testing.T) {
	sess, _ := New("x", []string{"a", "b"})
	sess.Comparisons = []Comparison{{Winner: 0, Loser: 5}}

	if _, err := sess.Graph(); !errs.Is(err, errs.ErrCodeInvalidSession) {
		t.Errorf("Graph() error = %v, want INVALID_SESSION", err)
	}
}

func TestSession_Clone(t *testing.T) {
	sess, _ := New("x", []string{"a", "b"})
	sess.Comparisons = []Comparison{{Winner: 0, Loser: 1}}

	c := sess.Clone()
	c.Items[0] = "changed"
	c.Comparisons[0].Winner = 1

	if sess.Items[0] != "a" || sess.Comparisons[0].Winner != 0 {
		t.Error("Clone() shares slices with the original")
	}
}

func TestEncodeDecode(t *testing.T) {
	sess, _ := New("x", []string{"a", "b"})
	sess.Comparisons = []Comparison{{Winner: 1, Loser: 0, At: sess.CreatedAt}}

	data, err := Encode(sess)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if got.ID != sess.ID || got.Comparisons[0] != sess.Comparisons[0] {
		t.Errorf("Decode(Encode()) = %+v, want %+v", got, sess)
	}

	if _, err := Decode([]byte("{not json")); !errs.Is(err, errs.ErrCodeInvalidSession) {
		t.Errorf("Decode(garbage) error = %v, want INVALID_SESSION", err)
	}
}
