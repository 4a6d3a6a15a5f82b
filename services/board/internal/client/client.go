// Package client talks to the board HTTP API the way a browser would: the
// identity cookie set by the server is kept in a jar and replayed.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// ClientConfig holds configurable settings for the board client.
type ClientConfig struct {
	Timeout        time.Duration
	MaxRetries     int
	RetryBaseDelay time.Duration
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Config     ClientConfig
	CB         *gobreaker.CircuitBreaker
	Log        *zap.Logger
}

// Option configures the Client.
type Option func(*Client)

func WithCircuitBreaker(cb *gobreaker.CircuitBreaker) Option {
	return func(c *Client) { c.CB = cb }
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.Log = log }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTPClient = hc }
}

// NewBreaker builds the breaker the CLI uses: it opens after threshold
// consecutive server or transport failures.
func NewBreaker(name string, threshold uint32, timeout time.Duration, log *zap.Logger) *gobreaker.CircuitBreaker {
	if log == nil {
		log = zap.NewNop()
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info("circuit-breaker state change", zap.String("name", name), zap.String("from", from.String()), zap.String("to", to.String()))
		},
	})
}

func New(baseURL string, cfg ClientConfig, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("board api url: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = 200 * time.Millisecond
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	c := &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: cfg.Timeout, Jar: jar},
		Config:     cfg,
		Log:        zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *Client) ListPosts(ctx context.Context) ([]PostSummary, error) {
	var out []PostSummary
	err := c.do(ctx, http.MethodGet, "/posts", nil, &out)
	return out, err
}

func (c *Client) GetPost(ctx context.Context, postID string) (*PostDetail, error) {
	var out PostDetail
	if err := c.do(ctx, http.MethodGet, "/posts/"+url.PathEscape(postID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type messageBody struct {
	Message  string  `json:"message"`
	ParentID *string `json:"parentId,omitempty"`
}

func (c *Client) CreateComment(ctx context.Context, postID, message string, parentID *string) (*Comment, error) {
	var out Comment
	path := "/posts/" + url.PathEscape(postID) + "/comments"
	if err := c.do(ctx, http.MethodPost, path, messageBody{Message: message, ParentID: parentID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateComment(ctx context.Context, postID, commentID, message string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	err := c.do(ctx, http.MethodPut, commentPath(postID, commentID), messageBody{Message: message}, &out)
	return out.Message, err
}

func (c *Client) DeleteComment(ctx context.Context, postID, commentID string) error {
	return c.do(ctx, http.MethodDelete, commentPath(postID, commentID), nil, nil)
}

func (c *Client) ToggleLike(ctx context.Context, postID, commentID string) (bool, error) {
	var out struct {
		AddLike bool `json:"addLike"`
	}
	err := c.do(ctx, http.MethodPost, commentPath(postID, commentID)+"/toggleLike", nil, &out)
	return out.AddLike, err
}

func commentPath(postID, commentID string) string {
	return "/posts/" + url.PathEscape(postID) + "/comments/" + url.PathEscape(commentID)
}

// do retries GETs with exponential backoff. Mutations are sent once.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	attempts := 1
	if method == http.MethodGet {
		attempts += c.Config.MaxRetries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := c.Config.RetryBaseDelay * time.Duration(math.Pow(2, float64(attempt-1)))
			c.Log.Debug("retrying request", zap.String("path", path), zap.Int("attempt", attempt), zap.Duration("delay", delay))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
		err := c.withBreaker(ctx, method, path, in, out)
		if err == nil {
			return nil
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.Temporary() {
			return err
		}
		if errors.Is(err, gobreaker.ErrOpenState) || ctx.Err() != nil {
			return err
		}
		lastErr = err
		c.Log.Warn("request failed", zap.String("method", method), zap.String("path", path), zap.Int("attempt", attempt), zap.Error(err))
	}
	return lastErr
}

// withBreaker runs one round trip. 4xx answers are returned outside the
// breaker and never count as failures.
func (c *Client) withBreaker(ctx context.Context, method, path string, in, out any) error {
	if c.CB == nil {
		return c.roundTrip(ctx, method, path, in, out)
	}
	var clientErr error
	_, err := c.CB.Execute(func() (interface{}, error) {
		err := c.roundTrip(ctx, method, path, in, out)
		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.Temporary() {
			clientErr = err
			return nil, nil
		}
		return nil, err
	})
	if err != nil {
		return err
	}
	return clientErr
}

func (c *Client) roundTrip(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return decodeAPIError(resp.StatusCode, b)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("board api: decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeAPIError(status int, body []byte) *APIError {
	var env struct {
		Error struct {
			Code      string `json:"code"`
			Message   string `json:"message"`
			RequestID string `json:"request_id"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err == nil && (env.Error.Code != "" || env.Error.Message != "") {
		return &APIError{Status: status, Code: env.Error.Code, Message: env.Error.Message, RequestID: env.Error.RequestID}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{Status: status, Message: msg}
}
