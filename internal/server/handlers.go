package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	errs "github.com/matzehuels/pairrank/pkg/errors"
	"github.com/matzehuels/pairrank/pkg/rank"
	"github.com/matzehuels/pairrank/pkg/render/nodelink"
	"github.com/matzehuels/pairrank/pkg/session"
)

type createRequest struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

// summary is the list view of a session.
type summary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Items       int       `json:"items"`
	Comparisons int       `json:"comparisons"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func summarize(s *session.Session) summary {
	return summary{
		ID:          s.ID,
		Name:        s.Name,
		Items:       len(s.Items),
		Comparisons: len(s.Comparisons),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

type rankingResponse struct {
	Levels [][]string        `json:"levels"`
	IDs    rank.Ranking      `json:"ids"`
	Next   *session.Question `json:"next,omitempty"`
}

// itemRef is an item given either by index (a JSON number) or by label (a
// JSON string). The two are never confused: labels that look like numbers
// still resolve as labels.
type itemRef struct {
	index   int
	label   string
	isIndex bool
	set     bool
}

func (r *itemRef) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &r.index); err == nil {
		r.isIndex, r.set = true, true
		return nil
	}
	if err := json.Unmarshal(data, &r.label); err != nil {
		return errs.New(errs.ErrCodeInvalidInput, "item must be an index or a label")
	}
	r.set = r.label != ""
	return nil
}

func (r itemRef) resolve(rk *session.Ranker) (int, error) {
	if r.isIndex {
		return rk.Index(r.index)
	}
	return rk.Lookup(r.label)
}

type comparisonRequest struct {
	Winner itemRef `json:"winner"`
	Loser  itemRef `json:"loser"`
}

type skipRequest struct {
	A itemRef `json:"a"`
	B itemRef `json:"b"`
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	rk, err := s.manager.Create(r.Context(), req.Name, req.Items)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/sessions/"+rk.ID())
	writeJSON(w, http.StatusCreated, rk.Session())
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	list, err := s.manager.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]summary, len(list))
	for i, sess := range list {
		out[i] = summarize(sess)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	rk, ok := s.open(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rk.Session())
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getRanking(w http.ResponseWriter, r *http.Request) {
	rk, ok := s.open(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.ranking(r, rk))
}

func (s *Server) getNext(w http.ResponseWriter, r *http.Request) {
	rk, ok := s.open(w, r)
	if !ok {
		return
	}
	q, found := rk.Next(r.Context())
	if !found {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) postComparison(w http.ResponseWriter, r *http.Request) {
	rk, ok := s.open(w, r)
	if !ok {
		return
	}
	var req comparisonRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	winner, loser, err := resolvePair(rk, req.Winner, req.Loser)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := rk.Compare(r.Context(), winner, loser); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.ranking(r, rk))
}

func (s *Server) postSkip(w http.ResponseWriter, r *http.Request) {
	rk, ok := s.open(w, r)
	if !ok {
		return
	}
	var req skipRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	a, b, err := resolvePair(rk, req.A, req.B)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := rk.Skip(r.Context(), a, b); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.ranking(r, rk))
}

var contentTypes = map[string]string{
	nodelink.FormatDOT: "text/vnd.graphviz; charset=utf-8",
	nodelink.FormatSVG: "image/svg+xml",
	nodelink.FormatPNG: "image/png",
}

func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	rk, ok := s.open(w, r)
	if !ok {
		return
	}
	format := chi.URLParam(r, "format")
	detailed := s.opts.Detailed || r.URL.Query().Get("detailed") == "true"

	dot := nodelink.ToDOT(rk.Snapshot(r.Context()), nodelink.Options{Detailed: detailed})
	data, _, err := s.renderer.Render(r.Context(), dot, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) open(w http.ResponseWriter, r *http.Request) (*session.Ranker, bool) {
	rk, err := s.manager.Open(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return rk, true
}

func (s *Server) ranking(r *http.Request, rk *session.Ranker) rankingResponse {
	v := rk.View(r.Context())
	return rankingResponse{Levels: v.Levels, IDs: v.IDs, Next: v.Next}
}

func resolvePair(rk *session.Ranker, a, b itemRef) (int, int, error) {
	if !a.set || !b.set {
		return 0, 0, errs.New(errs.ErrCodeInvalidInput, "both items are required")
	}
	x, err := a.resolve(rk)
	if err != nil {
		return 0, 0, err
	}
	y, err := b.resolve(rk)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}
