package store

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/tsawler/stylemark/linkcheck"
	"github.com/tsawler/stylemark/reader"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cache", "stylemark.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_LinkRoundTrip(t *testing.T) {
	s := openStore(t)

	if err := s.Put(linkcheck.LinkResult{URL: "https://a.test/", Status: linkcheck.StatusOK, Code: 200}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := s.Put(linkcheck.LinkResult{URL: "https://b.test/", Status: linkcheck.StatusBroken, Code: 404}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, ok := s.Get("https://a.test/", time.Hour)
	if !ok {
		t.Fatal("Get() miss for fresh entry")
	}
	if got.Status != linkcheck.StatusOK || got.Code != 200 {
		t.Errorf("Get() = %+v", got)
	}

	got, ok = s.Get("https://b.test/", time.Hour)
	if !ok || got.Status != linkcheck.StatusBroken || got.Code != 404 {
		t.Errorf("Get() = %+v, ok %v", got, ok)
	}
}

func TestStore_TTLExpiry(t *testing.T) {
	s := openStore(t)

	if err := s.Put(linkcheck.LinkResult{URL: "https://a.test/", Status: linkcheck.StatusOK, Code: 200}); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Get("https://a.test/", -time.Second); ok {
		t.Error("Get() hit with expired ttl")
	}
	if _, ok := s.Get("https://never.seen/", time.Hour); ok {
		t.Error("Get() hit for unknown URL")
	}
}

func TestStore_ReplaceKeepsLatest(t *testing.T) {
	s := openStore(t)

	if err := s.Put(linkcheck.LinkResult{URL: "https://a.test/", Status: linkcheck.StatusBroken, Code: 500}); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(linkcheck.LinkResult{URL: "https://a.test/", Status: linkcheck.StatusOK, Code: 200}); err != nil {
		t.Fatal(err)
	}

	got, ok := s.Get("https://a.test/", time.Hour)
	if !ok || got.Status != linkcheck.StatusOK || got.Code != 200 {
		t.Errorf("Get() = %+v, ok %v, want replaced row", got, ok)
	}
}

func TestStore_PruneLinks(t *testing.T) {
	s := openStore(t)

	for i := 0; i < 3; i++ {
		url := fmt.Sprintf("https://a.test/%d", i)
		if err := s.Put(linkcheck.LinkResult{URL: url, Status: linkcheck.StatusOK, Code: 200}); err != nil {
			t.Fatal(err)
		}
	}

	// A negative ttl moves the cutoff into the future, so everything
	// counts as stale.
	n, err := s.PruneLinks(-time.Second)
	if err != nil {
		t.Fatalf("PruneLinks() error = %v", err)
	}
	if n != 3 {
		t.Errorf("PruneLinks() = %d, want 3", n)
	}
	if _, ok := s.Get("https://a.test/0", time.Hour); ok {
		t.Error("Get() hit after prune")
	}
}

func TestStore_Runs(t *testing.T) {
	s := openStore(t)

	now := time.Now()
	runs := []Run{
		{ID: "r1", Kind: "links", Source: "guide.md", Started: now.Add(-2 * time.Hour), Broken: 2},
		{ID: "r2", Kind: "lint", Source: "guide.md", Started: now.Add(-time.Hour), Findings: 5},
		{ID: "r3", Kind: "links", Source: "guide.md", Started: now},
	}
	for _, r := range runs {
		if err := s.RecordRun(r); err != nil {
			t.Fatalf("RecordRun(%s) error = %v", r.ID, err)
		}
	}

	got, err := s.RecentRuns(2)
	if err != nil {
		t.Fatalf("RecentRuns() error = %v", err)
	}
	if len(got) != 2 || got[0].ID != "r3" || got[1].ID != "r2" {
		t.Errorf("RecentRuns() = %+v, want r3 then r2", got)
	}
	if got[1].Kind != "lint" || got[1].Findings != 5 {
		t.Errorf("run r2 = %+v", got[1])
	}
}

type countingTransport struct {
	base http.RoundTripper
	mu   sync.Mutex
	n    int
}

func (t *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.mu.Lock()
	t.n++
	t.mu.Unlock()
	return t.base.RoundTrip(req)
}

func (t *countingTransport) CloseIdleConnections() {
	if tr, ok := t.base.(interface{ CloseIdleConnections() }); ok {
		tr.CloseIdleConnections()
	}
}

func (t *countingTransport) total() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.n
}

func TestStore_ChecksServedFromCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	s := openStore(t)

	src := fmt.Sprintf("# G\n\nSee [a](%s/x) and [b](%s/y).\n", srv.URL, srv.URL)
	r, err := reader.FromBytes([]byte(src), "guide.md")
	if err != nil {
		t.Fatal(err)
	}
	doc, _, err := r.Document()
	if err != nil {
		t.Fatal(err)
	}

	ct := &countingTransport{base: &http.Transport{}}
	opts := linkcheck.DefaultOptions()
	opts.CacheTTL = time.Hour
	c := linkcheck.NewWithOptions(opts)
	c.SetClient(&http.Client{Transport: ct, Timeout: 5 * time.Second})
	c.SetCache(s)
	t.Cleanup(c.CloseIdleConnections)

	first := c.CheckDocument(context.Background(), doc)
	if first.OK != 2 {
		t.Fatalf("first run = %+v", first)
	}
	requests := ct.total()
	if requests == 0 {
		t.Fatal("first run made no requests")
	}

	second := c.CheckDocument(context.Background(), doc)
	if second.OK != 2 {
		t.Fatalf("second run = %+v", second)
	}
	if got := ct.total(); got != requests {
		t.Errorf("second run hit the network: %d -> %d", requests, got)
	}
	for _, res := range second.Results {
		if !res.Cached {
			t.Errorf("result %s not cached: %+v", res.URL, res)
		}
	}
}
