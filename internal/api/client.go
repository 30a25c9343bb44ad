// Package api is the typed client for the storefront REST backend. Every
// endpoint funnels through the same request/response normalization so that
// callers see exactly one failure shape (APIError with a displayable message)
// regardless of what went wrong on the wire.
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
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Client struct {
	baseURL string
	httpc   *http.Client
	log     zerolog.Logger
}

// New builds a client against baseURL. A zero timeout leaves the transport's
// default in place.
func New(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
		log:     logger,
	}
}

func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	return doJSON[[]Product](ctx, c, http.MethodGet, "/api/products", nil)
}

func (c *Client) GetProduct(ctx context.Context, id int64) (Product, error) {
	return doJSON[Product](ctx, c, http.MethodGet, "/api/products/"+strconv.FormatInt(id, 10), nil)
}

func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) (User, error) {
	return doJSON[User](ctx, c, http.MethodPost, "/api/users", req)
}

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	return doJSON[[]User](ctx, c, http.MethodGet, "/api/users", nil)
}

func (c *Client) GetUser(ctx context.Context, id int64) (User, error) {
	return doJSON[User](ctx, c, http.MethodGet, "/api/users/"+strconv.FormatInt(id, 10), nil)
}

func (c *Client) UpdateUser(ctx context.Context, id int64, req UpdateUserRequest) (User, error) {
	return doJSON[User](ctx, c, http.MethodPut, "/api/users/"+strconv.FormatInt(id, 10), req)
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.doVoid(ctx, http.MethodDelete, "/api/users/"+strconv.FormatInt(id, 10), nil)
}

// GetCart returns the user's cart lines. An empty cart is an empty slice,
// never an error.
func (c *Client) GetCart(ctx context.Context, userID int64) ([]CartItem, error) {
	return doJSON[[]CartItem](ctx, c, http.MethodGet, "/api/cart?"+userQuery(userID), nil)
}

func (c *Client) AddToCart(ctx context.Context, userID int64, req AddToCartRequest) error {
	return c.doVoid(ctx, http.MethodPost, "/api/cart/add?"+userQuery(userID), req)
}

func (c *Client) RemoveFromCart(ctx context.Context, userID, productID int64) error {
	path := "/api/cart/remove/" + strconv.FormatInt(productID, 10) + "?" + userQuery(userID)
	return c.doVoid(ctx, http.MethodDelete, path, nil)
}

// Checkout asks the server to settle the cart. A declined checkout is a
// successful response with Success=false; only transport, HTTP and decode
// problems come back as errors.
func (c *Client) Checkout(ctx context.Context, userID int64) (CheckoutResult, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/cart/checkout?"+userQuery(userID), nil)
	if err != nil {
		return CheckoutResult{}, err
	}
	req.Header.Set("Idempotency-Key", uuid.NewString())
	resp, err := c.send(req)
	if err != nil {
		return CheckoutResult{}, err
	}
	return decodeResponse[CheckoutResult](c, resp)
}

func userQuery(userID int64) string {
	return "userId=" + strconv.FormatInt(userID, 10)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		rdr = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) send(req *http.Request) (*http.Response, error) {
	c.log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Msg("api request")
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	return resp, nil
}

// decodeResponse finishes a request whose caller expects a typed body:
// non-2xx becomes an APIError, 204 resolves to the zero value without
// touching the body, and a 2xx body that fails to decode is a failure
// despite the status.
func decodeResponse[T any](c *Client, resp *http.Response) (T, error) {
	var zero T
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return zero, c.failure(resp)
	}
	if resp.StatusCode == http.StatusNoContent {
		return zero, nil
	}
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return zero, malformedError(err)
	}
	return out, nil
}

func doJSON[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var zero T
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return zero, err
	}
	resp, err := c.send(req)
	if err != nil {
		return zero, err
	}
	return decodeResponse[T](c, resp)
}

// doVoid is for endpoints that answer with no content. Success never
// attempts a body parse.
func (c *Client) doVoid(ctx context.Context, method, path string, body any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.failure(resp)
	}
	return nil
}

// failure turns a non-2xx response into an APIError, preferring the JSON
// body's message field, then the status text, then a generic HTTP string.
func (c *Client) failure(resp *http.Response) *APIError {
	body, _ := io.ReadAll(resp.Body)
	var wire struct {
		Message string `json:"message"`
	}
	msg := ""
	if err := json.Unmarshal(body, &wire); err == nil {
		msg = wire.Message
	}
	apiErr := httpError(resp.StatusCode, msg)
	c.log.Debug().Int("status", resp.StatusCode).Str("message", apiErr.Message).Msg("api error response")
	return apiErr
}
