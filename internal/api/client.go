package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ecom-labs/storefront/internal/metrics"
	"github.com/ecom-labs/storefront/internal/model"
	"github.com/ecom-labs/storefront/internal/storage"
)

const defaultTimeout = 10 * time.Second

// TokenSource yields the bearer token to attach to outbound requests,
// or empty when the session is anonymous.
type TokenSource interface {
	Token() string
}

// StoreTokenSource reads the token from durable client storage, so the
// client and the session store share one source of truth.
type StoreTokenSource struct {
	Store storage.Store
}

func (s StoreTokenSource) Token() string {
	token, err := s.Store.Get(storage.KeyToken)
	if err != nil {
		return ""
	}
	return token
}

// Client is the thin HTTP client every backend call goes through. It
// attaches the bearer token, enforces the request timeout, maps
// responses onto the error taxonomy and funnels 401s into a single
// logout-and-redirect side effect.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  *zap.Logger

	// onUnauthorized fires at most once per authenticated session,
	// however many concurrent requests hit a 401.
	onUnauthorized func()
	unauthMu       sync.Mutex
	unauthHandled  bool
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithUnauthorizedHandler installs the logout-and-navigate hook invoked
// on the first 401 of a session.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

func NewClient(baseURL string, tokens TokenSource, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		tokens:  tokens,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ResetUnauthorized re-arms the 401 handler. The session store calls
// this after a successful login so the next expired session triggers a
// fresh logout.
func (c *Client) ResetUnauthorized() {
	c.unauthMu.Lock()
	c.unauthHandled = false
	c.unauthMu.Unlock()
}

func (c *Client) Login(ctx context.Context, creds model.Credentials) (*model.AuthResponse, error) {
	var resp model.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Register(ctx context.Context, reg model.Registration) (*model.AuthResponse, error) {
	var resp model.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", reg, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	if err := c.do(ctx, http.MethodGet, "/orders/"+orderID, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) ListOrders(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	if err := c.do(ctx, http.MethodGet, "/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) ListProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// No retry here: callers decide what a dead backend means.
		c.logger.Warn("request failed without response",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		metrics.APIRequestsTotal.WithLabelValues(method, "network_error").Inc()
		return fmt.Errorf("%w: %v", ErrNetworkUnavailable, err)
	}
	defer resp.Body.Close()

	metrics.APIRequestsTotal.WithLabelValues(method, outcomeClass(resp.StatusCode)).Inc()

	if resp.StatusCode >= 400 {
		apiErr := newAPIError(resp.StatusCode, decodeMessage(resp.Body))
		// A 401 on the auth endpoints is a rejected credential, not an
		// expired session; only the latter forces a logout.
		if resp.StatusCode == http.StatusUnauthorized && !strings.HasPrefix(path, "/auth/") {
			c.handleUnauthorized()
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// handleUnauthorized collapses concurrent 401s into one side effect.
func (c *Client) handleUnauthorized() {
	c.unauthMu.Lock()
	if c.unauthHandled {
		c.unauthMu.Unlock()
		return
	}
	c.unauthHandled = true
	c.unauthMu.Unlock()

	metrics.UnauthorizedTotal.Inc()
	c.logger.Info("session rejected by backend, logging out")
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}

func decodeMessage(body io.Reader) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return ""
	}
	return payload.Message
}

func outcomeClass(status int) string {
	if status < 400 {
		return "ok"
	}
	return strconv.Itoa(status/100*100) + "s"
}
