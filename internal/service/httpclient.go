package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wpsix/breakdance-icon-fix/internal/logger"
	"github.com/wpsix/breakdance-icon-fix/internal/utils"
)

// MaxBodyBytes caps the metadata payload read from the update server.
const MaxBodyBytes = 2 << 20

// DefaultTimeout bounds a fetch when the caller passes no positive timeout.
var DefaultTimeout = 10 * time.Second

var (
	ErrUnavailable = errors.New("remote metadata unavailable")
	ErrEmptyBody   = errors.New("empty response body")
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type DefaultHTTPClient struct{ *http.Client }

func NewHTTPClient(timeout time.Duration) *DefaultHTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &DefaultHTTPClient{Client: &http.Client{Timeout: timeout}}
}

// GetJSON performs a GET bounded by timeout (DefaultTimeout when not
// positive) with an Accept: application/json header and returns the raw body. Every failure wraps ErrUnavailable so callers can
// collapse them into a single "no data" state.
func GetJSON(ctx context.Context, c HTTPClient, rawURL string, timeout time.Duration) ([]byte, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	parsed, err := utils.ParseSecureURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer utils.Try(resp.Body.Close)

	if resp.StatusCode != http.StatusOK {
		logger.Debug("update server answered %d for %s", resp.StatusCode, parsed.Redacted())
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, ErrEmptyBody)
	}

	return body, nil
}
