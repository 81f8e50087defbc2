package linkcheck

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tsawler/stylemark/model"
)

// Status classifies the outcome of checking one URL.
type Status int

const (
	// StatusOK means the server answered with a success or redirect.
	StatusOK Status = iota

	// StatusBroken means the server answered with a 4xx/5xx.
	StatusBroken

	// StatusErrored means the request failed before an HTTP status
	// came back.
	StatusErrored

	// StatusSkipped means the URL was not checked: non-http scheme or
	// excluded by pattern.
	StatusSkipped
)

// String returns the lowercase name of the status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusBroken:
		return "broken"
	case StatusErrored:
		return "errored"
	case StatusSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// MarshalJSON encodes the status as its name.
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// ParseStatus converts a status name back to a Status.
func ParseStatus(name string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ok":
		return StatusOK, nil
	case "broken":
		return StatusBroken, nil
	case "errored":
		return StatusErrored, nil
	case "skipped":
		return StatusSkipped, nil
	default:
		return StatusErrored, fmt.Errorf("unknown status %q", name)
	}
}

// LinkResult is the outcome of checking one URL.
type LinkResult struct {
	URL      string        `json:"url"`
	Status   Status        `json:"status"`
	Code     int           `json:"code,omitempty"`
	Err      string        `json:"error,omitempty"`
	Cached   bool          `json:"cached,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Report aggregates the results for one document.
type Report struct {
	RunID   uuid.UUID     `json:"run_id"`
	Path    string        `json:"path"`
	Started time.Time     `json:"started"`
	Results []LinkResult  `json:"results"`
	OK      int           `json:"ok"`
	Broken  int           `json:"broken"`
	Errored int           `json:"errored"`
	Skipped int           `json:"skipped"`
	Elapsed time.Duration `json:"elapsed"`
}

// Cache stores past results keyed by URL. Implementations must be safe
// for concurrent use.
type Cache interface {
	// Get returns the cached result for url if it is younger than ttl.
	Get(url string, ttl time.Duration) (LinkResult, bool)

	// Put stores a result.
	Put(result LinkResult) error
}

// Options holds checker configuration.
type Options struct {
	// Timeout per request
	Timeout time.Duration

	// Concurrency bounds the number of in-flight requests
	Concurrency int

	// Retries after the first attempt, for rate limits and transport
	// errors
	Retries int

	// UserAgent sent with every request
	UserAgent string

	// Exclude patterns: path globs matched against the full URL and
	// the host, or plain substrings
	Exclude []string

	// CacheTTL is how long a cached result stays fresh
	CacheTTL time.Duration

	// Insecure disables TLS certificate verification
	Insecure bool
}

// DefaultOptions returns the options used by the command line tool.
func DefaultOptions() Options {
	return Options{
		Timeout:     10 * time.Second,
		Concurrency: 8,
		Retries:     2,
		UserAgent:   "stylemark-linkcheck/1.0",
		CacheTTL:    24 * time.Hour,
	}
}

// Checker verifies external links.
type Checker struct {
	opts   Options
	client *http.Client
	cache  Cache
}

// New creates a checker with default options.
func New() *Checker {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions creates a checker with custom options.
func NewWithOptions(opts Options) *Checker {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConnsPerHost: opts.Concurrency,
	}
	if opts.Insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Checker{
		opts: opts,
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
	}
}

// SetCache attaches a result cache. Fresh hits bypass the network.
func (c *Checker) SetCache(cache Cache) {
	c.cache = cache
}

// SetClient replaces the HTTP client. Tests use this to install a
// counting transport.
func (c *Checker) SetClient(client *http.Client) {
	c.client = client
}

// CloseIdleConnections closes keepalive connections held by the
// underlying client.
func (c *Checker) CloseIdleConnections() {
	c.client.CloseIdleConnections()
}

// Check verifies urls and returns one result per unique URL, in first
// occurrence order. All goroutines exit before Check returns.
func (c *Checker) Check(ctx context.Context, urls []string) []LinkResult {
	unique := dedupe(urls)
	results := make([]LinkResult, len(unique))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(c.opts.Concurrency)
	for i, u := range unique {
		eg.Go(func() error {
			results[i] = c.checkOne(egCtx, u)
			return nil
		})
	}
	_ = eg.Wait()

	if ctx.Err() != nil {
		c.CloseIdleConnections()
	}
	return results
}

// CheckDocument verifies every external link in doc, including link
// reference definitions, and aggregates a report. Mailto and other
// non-http destinations are reported as skipped.
func (c *Checker) CheckDocument(ctx context.Context, doc *model.Document) Report {
	var urls []string
	for _, l := range doc.Links {
		switch l.Kind {
		case model.KindExternal, model.KindMailto, model.KindOther:
			urls = append(urls, l.Dest)
		}
	}
	for _, def := range doc.RefDefs {
		switch model.ClassifyDest(def.Dest) {
		case model.KindExternal, model.KindMailto, model.KindOther:
			urls = append(urls, def.Dest)
		}
	}

	started := time.Now()
	rep := Report{
		RunID:   uuid.New(),
		Path:    doc.Path,
		Started: started,
		Results: c.Check(ctx, urls),
	}
	rep.Elapsed = time.Since(started)
	for _, r := range rep.Results {
		switch r.Status {
		case StatusOK:
			rep.OK++
		case StatusBroken:
			rep.Broken++
		case StatusErrored:
			rep.Errored++
		case StatusSkipped:
			rep.Skipped++
		}
	}
	return rep
}

// checkOne classifies a single URL, consulting the cache first.
func (c *Checker) checkOne(ctx context.Context, rawURL string) LinkResult {
	start := time.Now()
	res := LinkResult{URL: rawURL}

	u, err := url.Parse(rawURL)
	if err != nil {
		res.Status = StatusErrored
		res.Err = err.Error()
		res.Duration = time.Since(start)
		return res
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		res.Status = StatusSkipped
		res.Duration = time.Since(start)
		return res
	}
	if c.excluded(rawURL, u.Host) {
		res.Status = StatusSkipped
		res.Duration = time.Since(start)
		return res
	}

	if c.cache != nil {
		if hit, ok := c.cache.Get(rawURL, c.opts.CacheTTL); ok {
			hit.Cached = true
			hit.Duration = time.Since(start)
			return hit
		}
	}

	res = c.fetch(ctx, rawURL)
	res.Duration = time.Since(start)

	// Transient failures are not worth remembering.
	if c.cache != nil && res.Status != StatusErrored {
		_ = c.cache.Put(res)
	}
	return res
}

// fetch probes the URL, retrying rate limits and transport errors.
func (c *Checker) fetch(ctx context.Context, rawURL string) LinkResult {
	res := LinkResult{URL: rawURL}
	retryAfter := ""
	lastCode := 0
	var lastErr error

	for attempt := 0; attempt <= c.opts.Retries; attempt++ {
		if attempt > 0 {
			if !sleep(ctx, backoffDelay(attempt, retryAfter)) {
				break
			}
		}

		code, ra, err := c.request(ctx, rawURL)
		if err != nil {
			lastErr = err
			lastCode = 0
			if ctx.Err() != nil {
				break
			}
			continue
		}
		lastErr = nil
		lastCode = code
		retryAfter = ra

		switch {
		case code < 400:
			res.Status = StatusOK
			res.Code = code
			return res
		case code == http.StatusTooManyRequests || code == http.StatusServiceUnavailable:
			continue
		default:
			// 404, 410 and the rest are answers, not conditions.
			res.Status = StatusBroken
			res.Code = code
			return res
		}
	}

	res.Code = lastCode
	if lastErr != nil {
		res.Status = StatusErrored
		res.Err = lastErr.Error()
		return res
	}
	res.Status = StatusBroken
	return res
}

// request performs one HEAD probe with a GET fallback for servers that
// mishandle HEAD. Rate limits are never retried with GET.
func (c *Checker) request(ctx context.Context, rawURL string) (int, string, error) {
	code, retryAfter, err := c.do(ctx, http.MethodHead, rawURL)
	if err == nil && code >= 400 && code != http.StatusTooManyRequests {
		code, retryAfter, err = c.do(ctx, http.MethodGet, rawURL)
	}
	return code, retryAfter, err
}

// drainLimit bounds how much of a GET body is read before closing.
const drainLimit = 64 << 10

func (c *Checker) do(ctx context.Context, method, rawURL string) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "*/*")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, drainLimit))

	return resp.StatusCode, resp.Header.Get("Retry-After"), nil
}

// excluded reports whether the URL matches an exclude pattern.
func (c *Checker) excluded(rawURL, host string) bool {
	for _, pat := range c.opts.Exclude {
		if ok, _ := path.Match(pat, rawURL); ok {
			return true
		}
		if ok, _ := path.Match(pat, host); ok {
			return true
		}
		if !strings.ContainsAny(pat, "*?[") && strings.Contains(rawURL, pat) {
			return true
		}
	}
	return false
}

const maxBackoff = 30 * time.Second

// backoffDelay computes the wait before a retry. A parseable
// Retry-After wins; otherwise exponential with jitter: 500ms, 1s, 2s...
func backoffDelay(attempt int, retryAfter string) time.Duration {
	if retryAfter != "" {
		if secs, err := strconv.Atoi(retryAfter); err == nil && secs >= 0 {
			d := time.Duration(secs) * time.Second
			if d > maxBackoff {
				d = maxBackoff
			}
			return d
		}
	}
	base := 500 * time.Millisecond << uint(attempt-1)
	if base > maxBackoff {
		base = maxBackoff
	}
	return base/2 + rand.N(base/2)
}

// sleep waits for d unless the context ends first.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// dedupe drops empty and repeated URLs, keeping first occurrence order.
func dedupe(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	var out []string
	for _, u := range urls {
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}
