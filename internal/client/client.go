// Package client talks to the TapQuest persistence API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/osse101/TapQuest_Go/internal/domain"
)

// Client handles communication with the persistence API
type Client struct {
	baseURL        string
	apiKey         string
	http           *http.Client
	requestTimeout time.Duration
	maxRetries     int
	retryDelay     time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRequestTimeout bounds each attempt
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Client) { c.requestTimeout = d }
}

// WithRetry sets the retry count and base backoff delay for idempotent calls
func WithRetry(maxRetries int, delay time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.retryDelay = delay
	}
}

// New creates a client for the API rooted at baseURL (for example http://localhost:8080/api/v1)
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		apiKey:         apiKey,
		http:           &http.Client{},
		requestTimeout: DefaultRequestTimeout,
		maxRetries:     DefaultMaxRetries,
		retryDelay:     DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type updateUserRequest struct {
	UserID      string `json:"user_id"`
	Balance     int64  `json:"balance"`
	TotalEarned int64  `json:"total_earned"`
}

type registerUserRequest struct {
	Identity  string `json:"identity"`
	Name      string `json:"name"`
	IsPremium bool   `json:"is_premium"`
}

type purchaseRequest struct {
	UserID   string          `json:"user_id"`
	ItemType domain.ItemType `json:"item_type"`
}

type claimRequest struct {
	UserID string `json:"user_id"`
	TaskID string `json:"task_id"`
}

// GetUser fetches the user record. Retried.
func (c *Client) GetUser(ctx context.Context, identity string) (domain.UserProgress, error) {
	var u domain.UserProgress
	err := c.do(ctx, http.MethodGet, PathUser+"?"+idQuery(identity), nil, &u, true)
	return u, err
}

// GetProfile fetches the user record with level info. Retried.
func (c *Client) GetProfile(ctx context.Context, identity string) (domain.Profile, error) {
	var p domain.Profile
	err := c.do(ctx, http.MethodGet, PathUserProfile+"?"+idQuery(identity), nil, &p, true)
	return p, err
}

// RegisterUser creates the user if missing and returns the stored record. Retried, since registration is an upsert.
func (c *Client) RegisterUser(ctx context.Context, identity, name string, isPremium bool) (domain.UserProgress, error) {
	var u domain.UserProgress
	body := registerUserRequest{Identity: identity, Name: name, IsPremium: isPremium}
	err := c.do(ctx, http.MethodPost, PathUserRegister, body, &u, true)
	return u, err
}

// UpdateUser writes absolute balance and total earned. Retried, since the write is last-write-wins.
func (c *Client) UpdateUser(ctx context.Context, identity string, balance, totalEarned int64) error {
	body := updateUserRequest{UserID: identity, Balance: balance, TotalEarned: totalEarned}
	return c.do(ctx, http.MethodPost, PathUserUpdate, body, nil, true)
}

// ListShop returns the upgrade catalog priced for the user
func (c *Client) ListShop(ctx context.Context, identity string) ([]domain.ShopOffer, error) {
	var offers []domain.ShopOffer
	err := c.do(ctx, http.MethodGet, PathShopItems+"?"+idQuery(identity), nil, &offers, true)
	return offers, err
}

// PurchaseItem buys the next level of an upgrade. Never retried.
func (c *Client) PurchaseItem(ctx context.Context, identity string, item domain.ItemType) (domain.PurchaseResult, error) {
	var res domain.PurchaseResult
	err := c.do(ctx, http.MethodPost, PathShopPurchase, purchaseRequest{UserID: identity, ItemType: item}, &res, false)
	return res, err
}

// ListTasks returns the social tasks with the user's completion state
func (c *Client) ListTasks(ctx context.Context, identity string) ([]domain.TaskStatus, error) {
	var tasks []domain.TaskStatus
	err := c.do(ctx, http.MethodGet, PathTasks+"?"+idQuery(identity), nil, &tasks, true)
	return tasks, err
}

// ClaimTask credits a task reward. Never retried.
func (c *Client) ClaimTask(ctx context.Context, identity, taskID string) (domain.ClaimResult, error) {
	var res domain.ClaimResult
	err := c.do(ctx, http.MethodPost, PathTasksClaim, claimRequest{UserID: identity, TaskID: taskID}, &res, false)
	return res, err
}

// Leaderboard returns the top entries by total earned
func (c *Client) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	var entries []domain.LeaderboardEntry
	path := PathLeaderboard
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	err := c.do(ctx, http.MethodGet, path, nil, &entries, true)
	return entries, err
}

func idQuery(identity string) string {
	return url.Values{"id": {identity}}.Encode()
}

// do performs a request, retrying transport errors and 5xx responses with exponential backoff when retry is set
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, retry bool) error {
	var reqBody []byte
	if body != nil {
		var err error
		reqBody, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal body: %w", err)
		}
	}

	attempts := 1
	if retry {
		attempts += c.maxRetries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := c.retryDelay * time.Duration(1<<uint(attempt-1))
			slog.Info(LogMsgRetrying, "attempt", attempt, "path", path, "delay", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("%w: %w", ErrUnavailable, ctx.Err())
			}
		}

		err := c.attempt(ctx, method, path, reqBody, out)
		if err == nil {
			return nil
		}
		lastErr = err

		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status < 500 {
			return err
		}
		if ctx.Err() != nil {
			break
		}
		slog.Warn(LogMsgRequestFailed, "error", err, "path", path, "attempt", attempt)
	}

	if retry {
		return fmt.Errorf("max retries exceeded: %w", lastErr)
	}
	return lastErr
}

func (c *Client) attempt(ctx context.Context, method, path string, reqBody []byte, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	var bodyReader io.Reader
	if reqBody != nil {
		bodyReader = bytes.NewReader(reqBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set(HeaderContentType, ContentTypeJSON)
	}
	if c.apiKey != "" {
		req.Header.Set(HeaderAPIKey, c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&errResp)
		return &APIError{Status: resp.StatusCode, Message: errResp.Error}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
