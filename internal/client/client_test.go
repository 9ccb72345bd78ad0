package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cartPayload = `{
  "_id": "c1",
  "user_id": null,
  "guestSessionId": "g1",
  "products": [
    {"product_id": {"_id": "p1", "name": "Lamp", "price": 100, "stock": 5}, "quantity": 2},
    {"product_id": {"_id": "p2", "name": "Mug", "price": "12.50", "stock": 0}, "quantity": 1}
  ],
  "createdAt": "2024-01-01T00:00:00Z",
  "updatedAt": "2024-01-02T00:00:00Z"
}`

type recorded struct {
	method string
	path   string
	auth   string
	body   map[string]any
}

func newServer(t *testing.T, status int, payload string) (*httptest.Server, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.auth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			rec.body = map[string]any{}
			_ = json.Unmarshal(raw, &rec.body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, payload)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestFetchCart_SendsNullsAndDecodes(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, cartPayload)
	c := New(srv.URL + "/api/")

	cart, err := c.FetchCart(context.Background(), "g1", "")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/api/cart", rec.path)
	assert.Equal(t, "g1", rec.body["guestSessionId"])
	v, present := rec.body["userId"]
	assert.True(t, present, "userId is sent explicitly")
	assert.Nil(t, v)

	require.Len(t, cart.Products, 2)
	assert.Equal(t, "c1", cart.ID)
	assert.Nil(t, cart.UserID)
	assert.Equal(t, "p1", cart.Products[0].Product.ID)
	assert.True(t, cart.Products[0].Product.Price.Equal(decimal.NewFromInt(100)))
	assert.True(t, cart.Products[1].Product.Price.Equal(decimal.RequireFromString("12.5")))
	assert.Equal(t, 2, cart.Products[0].Quantity)
}

func TestMutations_RouteAndBody(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name   string
		call   func(c *Client) error
		method string
		path   string
		qty    any
	}{
		{
			name:   "add",
			call:   func(c *Client) error { _, err := c.AddToCart(ctx, "g1", "p1", 2); return err },
			method: http.MethodPost, path: "/cart/add", qty: float64(2),
		},
		{
			name:   "update",
			call:   func(c *Client) error { _, err := c.SetQuantity(ctx, "g1", "p1", 3); return err },
			method: http.MethodPut, path: "/cart/update", qty: float64(3),
		},
		{
			name:   "remove",
			call:   func(c *Client) error { _, err := c.RemoveLine(ctx, "g1", "p1"); return err },
			method: http.MethodDelete, path: "/cart/remove",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, rec := newServer(t, http.StatusOK, cartPayload)
			require.NoError(t, tc.call(New(srv.URL)))
			assert.Equal(t, tc.method, rec.method)
			assert.Equal(t, tc.path, rec.path)
			assert.Equal(t, "g1", rec.body["guestSessionId"])
			assert.Equal(t, "p1", rec.body["product_id"])
			assert.Equal(t, tc.qty, rec.body["quantity"])
		})
	}
}

func TestClearCart(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, "")
	require.NoError(t, New(srv.URL).ClearCart(context.Background(), "g1"))
	assert.Equal(t, http.MethodDelete, rec.method)
	assert.Equal(t, "/cart/clear", rec.path)
}

func TestSetQuantity_RejectsBelowOneLocally(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.SetQuantity(context.Background(), "g1", "p1", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = c.AddToCart(context.Background(), "g1", "p1", -1)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Zero(t, hits.Load())
}

func TestNon200IsRemoteError(t *testing.T) {
	srv, _ := newServer(t, http.StatusBadRequest, `{"error":"only 5 in stock"}`)
	_, err := New(srv.URL).SetQuantity(context.Background(), "g1", "p1", 9)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRemote)
	var remote *RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, http.StatusBadRequest, remote.Status)
	assert.Equal(t, "only 5 in stock", remote.Message)
	assert.Equal(t, "update cart", remote.Op)
}

func TestTransportFailureIsRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(url).FetchCart(context.Background(), "g1", "")
	assert.ErrorIs(t, err, ErrRemote)
	var remote *RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Zero(t, remote.Status)
}

func TestMalformedResponse(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{"_id": 12`)
	_, err := New(srv.URL).FetchCart(context.Background(), "g1", "")
	assert.ErrorIs(t, err, ErrRemote)
}

func TestTokenSourceSetsBearer(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, cartPayload)
	c := New(srv.URL, WithTokenSource(func() string { return "tok" }))
	_, err := c.FetchCart(context.Background(), "", "u1")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", rec.auth)
	assert.Nil(t, rec.body["guestSessionId"])
	assert.Equal(t, "u1", rec.body["userId"])
}

func TestLoginAndRegister(t *testing.T) {
	payload := `{"accessToken":"a","refreshToken":"r","expiresIn":60,"user":{"_id":"u1","email":"x@example.com","role":"user"}}`

	srv, rec := newServer(t, http.StatusOK, payload)
	auth, err := New(srv.URL).Login(context.Background(), "x@example.com", "pw", "g1")
	require.NoError(t, err)
	assert.Equal(t, "a", auth.AccessToken)
	assert.Equal(t, "u1", auth.User.ID)
	assert.Equal(t, "/users/login", rec.path)
	assert.Equal(t, "g1", rec.body["guestSessionId"])

	srv, _ = newServer(t, http.StatusCreated, payload)
	_, err = New(srv.URL).Register(context.Background(), "x", "x@example.com", "pw")
	require.NoError(t, err)
}

func TestProducts(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, `{"products":[{"_id":"p1","name":"Lamp","price":19.99,"stock":3}]}`)
	list, err := New(srv.URL).ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "19.99", list[0].Price.String())
	assert.Equal(t, "/products", rec.path)

	srv, rec = newServer(t, http.StatusOK, `{"product":{"_id":"p1","name":"Lamp","price":1,"stock":3}}`)
	p, err := New(srv.URL).GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Lamp", p.Name)
	assert.Equal(t, "/products/p1", rec.path)
}
