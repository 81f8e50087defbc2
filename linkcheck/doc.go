// Package linkcheck verifies that external links still resolve.
//
// Style guides accumulate links to blog posts, API docs and issue
// trackers, and those rot. The [Checker] probes each http(s) URL with a
// HEAD request (falling back to GET for servers that mishandle HEAD)
// and classifies the outcome:
//
//   - StatusOK - the server answered with a 2xx/3xx
//   - StatusBroken - the server answered with a 4xx/5xx
//   - StatusErrored - the request itself failed (DNS, TLS, refused)
//   - StatusSkipped - non-http scheme or excluded by pattern
//
// Checks run concurrently with a bounded worker count. Rate-limited
// responses (429, 503) are retried with exponential backoff, honoring
// Retry-After. Results can be cached through the [Cache] interface so
// repeated runs inside the TTL never touch the network.
//
//	checker := linkcheck.New()
//	report := checker.CheckDocument(ctx, doc)
//	fmt.Printf("%d ok, %d broken\n", report.OK, report.Broken)
package linkcheck
