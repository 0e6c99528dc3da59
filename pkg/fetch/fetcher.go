// Package fetch downloads a remote resource into a sink and reports how it
// went as a typed Result.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/core-tools/hsu-charm-nginx/pkg/errors"
	"github.com/core-tools/hsu-charm-nginx/pkg/logging"

	"github.com/hashicorp/go-cleanhttp"
)

type Fetcher struct {
	client *http.Client
	logger logging.Logger
}

// NewFetcher returns a Fetcher using client, or a pooled cleanhttp client
// when client is nil. No overall timeout is applied.
func NewFetcher(client *http.Client, logger logging.Logger) *Fetcher {
	if client == nil {
		client = cleanhttp.DefaultPooledClient()
	}
	return &Fetcher{
		client: client,
		logger: logger,
	}
}

// Fetch downloads url into sink
func (f *Fetcher) Fetch(ctx context.Context, url string, sink Sink) Result {
	result := Result{URL: url, Path: sink.Path()}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return f.failed(result, ResultNetwork, errors.NewNetworkError("invalid request", err))
	}

	f.logger.Debugf("Fetching file, url: %s, path: %s", url, result.Path)

	resp, err := f.client.Do(req)
	if err != nil {
		return f.failed(result, ResultNetwork, errors.NewNetworkError("request failed", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return f.failed(result, ResultNetwork,
			errors.NewNetworkError(fmt.Sprintf("unexpected response status: %s", resp.Status), nil).
				WithContext("status_code", resp.StatusCode))
	}

	body := &countingReader{reader: resp.Body}
	if err := sink.Write(ctx, body); err != nil {
		result.Bytes = body.n
		if body.err != nil {
			return f.failed(result, ResultNetwork, errors.NewNetworkError("failed reading response body", body.err))
		}
		return f.failed(result, ResultFilesystem, errors.NewIOError("failed to store download", err))
	}

	result.Kind = ResultSuccess
	result.Bytes = body.n
	f.logger.Infof("Fetched %s from %s into %s", result.Size(), url, result.Path)
	return result
}

func (f *Fetcher) failed(result Result, kind ResultKind, err *errors.DomainError) Result {
	result.Kind = kind
	err = err.WithContext("url", result.URL).WithContext("path", result.Path)
	if result.Bytes > 0 {
		err = err.WithContext("received", result.Size())
	}
	result.Err = err
	f.logger.Errorf("Fetch failed, kind: %s, url: %s, path: %s, error: %v", kind, result.URL, result.Path, err)
	return result
}

// countingReader remembers how much was read and the first read failure
type countingReader struct {
	reader io.Reader
	n      int64
	err    error
}

func (r *countingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.n += int64(n)
	if err != nil && err != io.EOF && r.err == nil {
		r.err = err
	}
	return n, err
}
