// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package jschema

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// maxDocumentSize bounds a single fetched document.
const maxDocumentSize = 32 << 20

func isRemote(uri string) bool {
	return strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://")
}

// fetch reads a document from the filesystem or over HTTP.
func (l *Loader) fetch(ctx context.Context, uri string) ([]byte, error) {
	if isRemote(uri) {
		return l.fetchRemote(ctx, uri)
	}
	return l.fetchFile(uri)
}

func (l *Loader) fetchFile(name string) ([]byte, error) {
	if l.fsys == nil {
		return nil, newError(ErrSchemaNotFound, name, "", errors.New("no filesystem configured"))
	}
	f, err := l.fsys.Open(name)
	if err != nil {
		return nil, newError(ErrSchemaNotFound, name, "", err)
	}
	defer f.Close() //nolint:errcheck

	if info, statErr := f.Stat(); statErr == nil && info.IsDir() {
		return nil, newError(ErrSchemaNotFound, name, "", fmt.Errorf("%s is a directory", name))
	}

	data, err := io.ReadAll(io.LimitReader(f, maxDocumentSize))
	if err != nil {
		return nil, newError(ErrSchemaNotFound, name, "", err)
	}
	return data, nil
}

// retryableError marks an attempt that may succeed when repeated.
type retryableError struct{ err error }

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

func (l *Loader) fetchRemote(ctx context.Context, uri string) ([]byte, error) {
	var lastErr error
	backoff := l.backoff
	for attempt := 0; attempt <= l.retries; attempt++ {
		if attempt > 0 {
			l.logger.Debug("retrying schema fetch",
				zap.String("uri", uri),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
				zap.Error(lastErr))
			select {
			case <-ctx.Done():
				return nil, newError(ErrSchemaFetchTimeout, uri, "", ctx.Err())
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		data, err := l.fetchOnce(ctx, uri)
		if err == nil {
			return data, nil
		}
		var retry *retryableError
		if !errors.As(err, &retry) {
			return nil, err
		}
		lastErr = retry.err
	}

	if isTimeout(lastErr) {
		return nil, newError(ErrSchemaFetchTimeout, uri, "", lastErr)
	}
	return nil, newError(ErrSchemaNotFound, uri, "", lastErr)
}

func (l *Loader) fetchOnce(ctx context.Context, uri string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, newError(ErrSchemaNotFound, uri, "", err)
	}
	req.Header.Set("Accept", "application/schema+json, application/json, application/yaml;q=0.9, */*;q=0.5")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, &retryableError{err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	switch {
	case resp.StatusCode >= 500:
		return nil, &retryableError{err: fmt.Errorf("server returned %s", resp.Status)}
	case resp.StatusCode != http.StatusOK:
		return nil, newError(ErrSchemaNotFound, uri, "", fmt.Errorf("server returned %s", resp.Status))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, &retryableError{err: err}
	}
	return data, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// fsPathValid reports whether name can be opened through an fs.FS.
func fsPathValid(name string) bool {
	return fs.ValidPath(name)
}
