package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/pairrank/pkg/buildinfo"
	errs "github.com/matzehuels/pairrank/pkg/errors"
	"github.com/matzehuels/pairrank/pkg/observability"
	"github.com/matzehuels/pairrank/pkg/observability/prom"
	"github.com/matzehuels/pairrank/pkg/rank"
	"github.com/matzehuels/pairrank/pkg/session"
)

type testServer struct {
	t  *testing.T
	ts *httptest.Server
}

func newTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()
	m := session.NewManager(session.NewMemoryStore(), nil)
	ts := httptest.NewServer(New(m, opts).Handler())
	t.Cleanup(ts.Close)
	return &testServer{t: t, ts: ts}
}

func (s *testServer) do(method, path, body string) *http.Response {
	s.t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, s.ts.URL+path, r)
	if err != nil {
		s.t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		s.t.Fatal(err)
	}
	s.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("%s %s = %d, want %d: %s", resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, want, body)
	}
}

func (s *testServer) create(items ...string) string {
	s.t.Helper()
	body, _ := json.Marshal(createRequest{Name: "test", Items: items})
	resp := s.do(http.MethodPost, "/sessions", string(body))
	expectStatus(s.t, resp, http.StatusCreated)
	return decode[session.Session](s.t, resp).ID
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestServer(t, Options{})
	id := s.create("apple", "pear", "plum")

	resp := s.do(http.MethodGet, "/sessions/"+id+"/next", "")
	expectStatus(t, resp, http.StatusOK)
	q := decode[session.Question](t, resp)
	if q.FromItem != "apple" || q.ToItem != "pear" {
		t.Errorf("next = %+v, want apple vs pear", q)
	}

	resp = s.do(http.MethodPost, "/sessions/"+id+"/comparisons", `{"winner": "pear", "loser": 0}`)
	expectStatus(t, resp, http.StatusOK)
	got := decode[rankingResponse](t, resp)
	if len(got.Levels) != 2 || got.Levels[1][0] != "apple" {
		t.Errorf("ranking after comparison = %v", got.Levels)
	}
	if got.Next == nil || got.Next.From != 1 || got.Next.To != 2 {
		t.Errorf("next after comparison = %+v, want pear vs plum", got.Next)
	}

	resp = s.do(http.MethodGet, "/sessions/"+id, "")
	expectStatus(t, resp, http.StatusOK)
	if sess := decode[session.Session](t, resp); len(sess.Comparisons) != 1 {
		t.Errorf("session comparisons = %+v", sess.Comparisons)
	}

	resp = s.do(http.MethodGet, "/sessions", "")
	expectStatus(t, resp, http.StatusOK)
	if list := decode[[]summary](t, resp); len(list) != 1 || list[0].Comparisons != 1 || list[0].Items != 3 {
		t.Errorf("list = %+v", list)
	}

	expectStatus(t, s.do(http.MethodDelete, "/sessions/"+id, ""), http.StatusNoContent)
	expectStatus(t, s.do(http.MethodGet, "/sessions/"+id, ""), http.StatusNotFound)
}

func TestNextExhausted(t *testing.T) {
	s := newTestServer(t, Options{})
	id := s.create("a", "b")

	expectStatus(t, s.do(http.MethodPost, "/sessions/"+id+"/skips", `{"a": "a", "b": "b"}`), http.StatusOK)
	expectStatus(t, s.do(http.MethodGet, "/sessions/"+id+"/next", ""), http.StatusNoContent)

	resp := s.do(http.MethodGet, "/sessions/"+id+"/ranking", "")
	expectStatus(t, resp, http.StatusOK)
	got := decode[rankingResponse](t, resp)
	if len(got.Levels) != 1 || len(got.Levels[0]) != 2 || got.Next != nil {
		t.Errorf("ranking = %+v, want one tied level and no next", got)
	}
}

func TestErrors(t *testing.T) {
	s := newTestServer(t, Options{})
	id := s.create("a", "b")

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   errs.Code
	}{
		{"missing session", http.MethodGet, "/sessions/nope/ranking", "", http.StatusNotFound, errs.ErrCodeSessionNotFound},
		{"bad session id", http.MethodGet, "/sessions/bad.id/ranking", "", http.StatusBadRequest, errs.ErrCodeInvalidSession},
		{"too few items", http.MethodPost, "/sessions", `{"items": ["solo"]}`, http.StatusBadRequest, errs.ErrCodeInvalidInput},
		{"duplicate items", http.MethodPost, "/sessions", `{"items": ["a", "a"]}`, http.StatusBadRequest, errs.ErrCodeDuplicateItem},
		{"malformed body", http.MethodPost, "/sessions", `{"items":`, http.StatusBadRequest, errs.ErrCodeInvalidInput},
		{"unknown field", http.MethodPost, "/sessions", `{"itemz": []}`, http.StatusBadRequest, errs.ErrCodeInvalidInput},
		{"unknown item", http.MethodPost, "/sessions/" + id + "/comparisons", `{"winner": "a", "loser": "z"}`, http.StatusBadRequest, errs.ErrCodeUnknownItem},
		{"index out of range", http.MethodPost, "/sessions/" + id + "/comparisons", `{"winner": 5, "loser": 0}`, http.StatusBadRequest, errs.ErrCodeUnknownItem},
		{"missing item", http.MethodPost, "/sessions/" + id + "/comparisons", `{"winner": "a"}`, http.StatusBadRequest, errs.ErrCodeInvalidInput},
		{"self comparison", http.MethodPost, "/sessions/" + id + "/comparisons", `{"winner": 1, "loser": "b"}`, http.StatusBadRequest, errs.ErrCodeInvalidInput},
		{"bad item type", http.MethodPost, "/sessions/" + id + "/skips", `{"a": true, "b": 1}`, http.StatusBadRequest, errs.ErrCodeInvalidInput},
		{"unsupported format", http.MethodGet, "/sessions/" + id + "/graph.pdf", "", http.StatusNotImplemented, errs.ErrCodeUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := s.do(tt.method, tt.path, tt.body)
			expectStatus(t, resp, tt.status)
			if got := decode[errorResponse](t, resp); got.Code != tt.code {
				t.Errorf("code = %s (%s), want %s", got.Code, got.Message, tt.code)
			}
		})
	}
}

func TestComparisonNumericLabels(t *testing.T) {
	tests := []struct {
		name string
		body string
		want rank.Ranking
	}{
		{"indices", `{"winner": 0, "loser": 1}`, rank.Ranking{{0}, {1}}},
		{"labels", `{"winner": "0", "loser": "1"}`, rank.Ranking{{1}, {0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, Options{})
			id := s.create("1", "0")

			resp := s.do(http.MethodPost, "/sessions/"+id+"/comparisons", tt.body)
			expectStatus(t, resp, http.StatusOK)
			if got := decode[rankingResponse](t, resp); !reflect.DeepEqual(got.IDs, tt.want) {
				t.Errorf("ids = %v, want %v", got.IDs, tt.want)
			}
		})
	}
}

func TestGraphDOT(t *testing.T) {
	s := newTestServer(t, Options{})
	id := s.create("apple", "pear")
	expectStatus(t, s.do(http.MethodPost, "/sessions/"+id+"/comparisons", `{"winner": 0, "loser": 1}`), http.StatusOK)

	resp := s.do(http.MethodGet, "/sessions/"+id+"/graph.dot", "")
	expectStatus(t, resp, http.StatusOK)
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/vnd.graphviz") {
		t.Errorf("Content-Type = %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "n0 -> n1;") {
		t.Errorf("graph.dot missing edge:\n%s", body)
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	observability.SetRankHooks(prom.New(reg))
	t.Cleanup(observability.Reset)

	s := newTestServer(t, Options{Gatherer: reg})
	id := s.create("a", "b")
	expectStatus(t, s.do(http.MethodPost, "/sessions/"+id+"/comparisons", `{"winner": "a", "loser": "b"}`), http.StatusOK)

	resp := s.do(http.MethodGet, "/metrics", "")
	expectStatus(t, resp, http.StatusOK)
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `pairrank_comparisons_total{result="ok"} 1`) {
		t.Errorf("metrics missing comparison counter:\n%s", body)
	}
}

func TestMetricsDisabled(t *testing.T) {
	s := newTestServer(t, Options{})
	expectStatus(t, s.do(http.MethodGet, "/metrics", ""), http.StatusNotFound)
}

func TestVersion(t *testing.T) {
	s := newTestServer(t, Options{})
	resp := s.do(http.MethodGet, "/version", "")
	expectStatus(t, resp, http.StatusOK)
	if info := decode[buildinfo.Info](t, resp); info.Version == "" {
		t.Errorf("version = %+v", info)
	}
}
