// Package offerapi talks to the offer aggregation backend.
//
// Only three endpoints are used: POST /api/offers, POST /api/share and
// GET /api/share/{id}. Nothing is retried; a failed call is reported once.
package offerapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/MrSnakeDoc/netcompare/internal/domain"
	"github.com/MrSnakeDoc/netcompare/internal/logger"
)

var (
	// ErrMissingShareID is returned when the share endpoint answers 2xx
	// without a shareId.
	ErrMissingShareID = errors.New("share link could not be created: response has no share id")
	// ErrNoShareID is returned when asked to fetch an empty share id.
	ErrNoShareID = errors.New("No Share ID provided.")
)

// Options configures a Client.
type Options struct {
	BaseURL    string        // ex: "http://localhost:5001"
	Timeout    time.Duration // per request, 0 = no client-side timeout
	HTTPClient *http.Client  // optional, overrides Timeout
}

// Client is safe for concurrent use.
type Client struct {
	base   string
	http   *http.Client
	logger logger.Logger
	shared singleflight.Group
}

// New builds a client for the backend at opts.BaseURL.
func New(opts Options, log logger.Logger) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	return &Client{
		base:   strings.TrimRight(opts.BaseURL, "/"),
		http:   hc,
		logger: log,
	}
}

// FetchOffers posts the address and returns every offer the backend found.
func (c *Client) FetchOffers(ctx context.Context, addr domain.Address) ([]domain.Offer, error) {
	start := time.Now()
	var offers []domain.Offer
	if err := c.do(ctx, http.MethodPost, "/api/offers", addr, &offers); err != nil {
		return nil, err
	}
	if offers == nil {
		offers = []domain.Offer{}
	}
	c.logger.Info("offers fetched",
		logger.Int("count", len(offers)),
		logger.String("postal_code", addr.PostalCode),
		logger.Duration("elapsed", time.Since(start)))
	return offers, nil
}

type shareResponse struct {
	ShareID string `json:"shareId"`
	Message string `json:"message,omitempty"`
}

// CreateShare stores offers on the backend and returns the share id.
func (c *Client) CreateShare(ctx context.Context, offers []domain.Offer) (string, error) {
	if offers == nil {
		offers = []domain.Offer{}
	}
	var resp shareResponse
	if err := c.do(ctx, http.MethodPost, "/api/share", offers, &resp); err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.ShareID) == "" {
		return "", ErrMissingShareID
	}
	c.logger.Info("share link created",
		logger.String("share_id", resp.ShareID),
		logger.Int("count", len(offers)))
	return resp.ShareID, nil
}

// GetShare loads a shared snapshot. Concurrent requests for the same id
// share one backend call. The shared call is detached from the first
// caller's cancellation and bounded by the client timeout; each caller
// still stops waiting when its own ctx is done.
func (c *Client) GetShare(ctx context.Context, id string) ([]domain.Offer, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNoShareID
	}
	ch := c.shared.DoChan(id, func() (interface{}, error) {
		fetchCtx := context.WithoutCancel(ctx)
		if c.http.Timeout > 0 {
			var cancel context.CancelFunc
			fetchCtx, cancel = context.WithTimeout(fetchCtx, c.http.Timeout)
			defer cancel()
		}
		var offers []domain.Offer
		if err := c.do(fetchCtx, http.MethodGet, "/api/share/"+url.PathEscape(id), nil, &offers); err != nil {
			return nil, err
		}
		return offers, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	src := res.Val.([]domain.Offer)
	out := make([]domain.Offer, len(src))
	copy(out, src)
	return out, nil
}

// ShareURL joins the public origin and a share id into the link handed out
// to users.
func ShareURL(origin, id string) string {
	return strings.TrimRight(origin, "/") + "/share/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body *bytes.Buffer
	if in != nil {
		body = new(bytes.Buffer)
		if err := json.NewEncoder(body).Encode(in); err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.base+path, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.base+path, http.NoBody)
	}
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, br")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("backend request failed",
			logger.String("method", method),
			logger.String("path", path),
			logger.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := readBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode/100 != 2 {
		herr := newHTTPError(resp.StatusCode, raw)
		c.logger.Warn("backend returned an error",
			logger.String("method", method),
			logger.String("path", path),
			logger.Int("status", resp.StatusCode),
			logger.String("message", herr.Message))
		return herr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
