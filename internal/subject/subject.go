// Package subject defines the behavior under test: resolve an endpoint
// URL into a classifiable textual outcome.
//
// The harness treats the subject as a black box with a single
// capability. Production code uses the HTTP greeting fetcher below;
// tests inject deterministic stubs so no unit test ever touches the
// network.
package subject

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Texts produced by the greeting application.
const (
	Greeting    = "Hello, CI/CD Pipeline!"
	FailureText = "Failed to fetch greeting"
)

// Response is the outcome of a subject call that reached the endpoint.
// StatusCode carries the HTTP status; Text is the application-level
// output for that status.
type Response struct {
	StatusCode int
	Text       string
}

// Subject resolves an endpoint into a Response, or an error for
// network-level failures (DNS, connection refused, timeout). A non-2xx
// status is NOT an error: the endpoint answered, and the answer is the
// outcome.
type Subject interface {
	Fetch(ctx context.Context, endpoint string) (Response, error)
}

// readLimit bounds how much of a response body is drained. The greeting
// does not depend on the body; draining keeps connections reusable.
const readLimit = 1 << 20

// GreetingFetcher is the production subject. It issues a GET against
// the endpoint and maps the status to the application's greeting text.
type GreetingFetcher struct {
	client *http.Client
}

// NewGreetingFetcher creates a fetcher whose calls are bounded by the
// given timeout in addition to any deadline on the caller's context.
func NewGreetingFetcher(timeout time.Duration) *GreetingFetcher {
	return &GreetingFetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch issues the GET and classifies the answer:
//
//	2xx      -> Greeting
//	anything else -> FailureText
//
// Transport failures are returned as errors for the harness to classify.
func (f *GreetingFetcher) Fetch(ctx context.Context, endpoint string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Response{}, fmt.Errorf("build request for %s: %w", endpoint, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, readLimit))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return Response{StatusCode: resp.StatusCode, Text: Greeting}, nil
	}
	return Response{StatusCode: resp.StatusCode, Text: FailureText}, nil
}
