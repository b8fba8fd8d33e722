package store

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dgallion1/manweave/internal/manual"
)

// RemoteStore fetches page bodies from a content service over HTTP:
// GET {base}/pages/{id} returns the raw body as text/plain. A 404 maps to
// NotFound; 5xx responses are retried with jittered exponential backoff.
type RemoteStore struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewRemoteStore(baseURL, apiKey string) *RemoteStore {
	return &RemoteStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

const maxFetchRetries = 3

func (s *RemoteStore) Load(ctx context.Context, id string) (string, error) {
	var lastErr error
	for attempt := range maxFetchRetries {
		body, err := s.fetch(ctx, id)
		if err == nil {
			return body, nil
		}
		if !isRetryable(err) {
			return "", err
		}
		lastErr = err
		select {
		case <-time.After(backoff(attempt)):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "", fmt.Errorf("fetch page %s: %w", id, lastErr)
}

func (s *RemoteStore) fetch(ctx context.Context, id string) (string, error) {
	u := s.baseURL + "/pages/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", &fetchError{err: err, retryable: true}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("read page %s: %w", id, err)
		}
		return strings.ReplaceAll(string(data), "\r\n", "\n"), nil
	case resp.StatusCode == http.StatusNotFound:
		return "", &manual.NotFoundError{ID: id}
	case resp.StatusCode >= 500:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", &fetchError{
			err:       fmt.Errorf("get page %s: status %d: %s", id, resp.StatusCode, string(respBody)),
			retryable: true,
		}
	default:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("get page %s: status %d: %s", id, resp.StatusCode, string(respBody))
	}
}

// Close releases idle connections.
func (s *RemoteStore) Close() {
	s.httpClient.CloseIdleConnections()
}

type fetchError struct {
	err       error
	retryable bool
}

func (e *fetchError) Error() string { return e.err.Error() }
func (e *fetchError) Unwrap() error { return e.err }

func isRetryable(err error) bool {
	fe, ok := err.(*fetchError)
	return ok && fe.retryable
}

// backoff returns a duration for attempt n (0-indexed) with jitter.
func backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}
