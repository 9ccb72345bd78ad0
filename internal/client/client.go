// Package client talks to the storefront REST API. Every cart call returns
// the server's full cart snapshot.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storefront/internal/logging"

	"go.uber.org/zap"
)

// TokenSource returns the bearer token to send, or "" for none.
type TokenSource func() string

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenSource
	logger     *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.token = ts }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = logging.OrNop(l) }
}

// New returns a Client for the API rooted at baseURL, e.g.
// "http://localhost:3800/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchCart returns the cart for the given identity. Empty ids are sent as
// null.
func (c *Client) FetchCart(ctx context.Context, guestSessionID, userID string) (*Cart, error) {
	var cart Cart
	body := fetchCartRequest{GuestSessionID: nullable(guestSessionID), UserID: nullable(userID)}
	if err := c.do(ctx, OpFetchCart, http.MethodPost, "/cart", body, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddToCart adds quantity units of the product to the guest cart.
func (c *Client) AddToCart(ctx context.Context, guestSessionID, productID string, quantity int) (*Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	var cart Cart
	body := cartRequest{GuestSessionID: nullable(guestSessionID), ProductID: productID, Quantity: quantity}
	if err := c.do(ctx, "add to cart", http.MethodPost, "/cart/add", body, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// SetQuantity sets the line's absolute quantity.
func (c *Client) SetQuantity(ctx context.Context, guestSessionID, productID string, quantity int) (*Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	var cart Cart
	body := cartRequest{GuestSessionID: nullable(guestSessionID), ProductID: productID, Quantity: quantity}
	if err := c.do(ctx, "update cart", http.MethodPut, "/cart/update", body, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) RemoveLine(ctx context.Context, guestSessionID, productID string) (*Cart, error) {
	var cart Cart
	body := cartRequest{GuestSessionID: nullable(guestSessionID), ProductID: productID}
	if err := c.do(ctx, "remove from cart", http.MethodDelete, "/cart/remove", body, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) ClearCart(ctx context.Context, guestSessionID string) error {
	body := cartRequest{GuestSessionID: nullable(guestSessionID)}
	return c.do(ctx, "clear cart", http.MethodDelete, "/cart/clear", body, nil)
}

func (c *Client) ListProducts(ctx context.Context) ([]ProductRef, error) {
	var out struct {
		Products []ProductRef `json:"products"`
	}
	if err := c.do(ctx, "list products", http.MethodGet, "/products", nil, &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*ProductRef, error) {
	var out struct {
		Product ProductRef `json:"product"`
	}
	if err := c.do(ctx, "get product", http.MethodGet, "/products/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out.Product, nil
}

// Login signs in. A non-empty guestSessionID asks the server to merge that
// guest cart into the user's cart.
func (c *Client) Login(ctx context.Context, email, password, guestSessionID string) (*Auth, error) {
	var out Auth
	body := loginRequest{Email: email, Password: password, GuestSessionID: nullable(guestSessionID)}
	if err := c.do(ctx, "login", http.MethodPost, "/users/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, username, email, password string) (*Auth, error) {
	var out Auth
	body := registerRequest{Username: username, Email: email, Password: password}
	if err := c.doExpect(ctx, "register", http.MethodPost, "/users/register", http.StatusCreated, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	return c.doExpect(ctx, op, method, path, http.StatusOK, body, out)
}

// doExpect sends body as JSON and decodes the response into out. Any status
// other than want is a RemoteError.
func (c *Client) doExpect(ctx context.Context, op, method, path string, want int, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &RemoteError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", zap.String("op", op), zap.Error(err))
		return &RemoteError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	c.logger.Debug("request",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode != want {
		return &RemoteError{Op: op, Status: resp.StatusCode, Message: errorMessage(resp.Body)}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RemoteError{Op: op, Status: resp.StatusCode, Message: "malformed response", Err: err}
	}
	return nil
}

func errorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4<<10))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &body) == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return strings.TrimSpace(string(raw))
}
