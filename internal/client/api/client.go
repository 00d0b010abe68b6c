// Package api is the HTTP client the CLI uses to talk to the booklib server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/booklib/internal/common"
)

// ErrUnavailable is returned when the server cannot be reached.
var ErrUnavailable = errors.New("server unavailable")

// Book mirrors a catalog entry as served by the API.
type Book struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

// Client calls the booklib HTTP API. The zero value is not usable; build one
// with NewClient.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for the server at baseURL
// (for example "http://localhost:8080" or "http://host/api").
func NewClient(baseURL string, timeout time.Duration) *Client {
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, username string, password []byte) error {
	body := credentials{Username: username, Password: string(password)}
	return c.do(ctx, http.MethodPost, "/register", "", body, nil)
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, username string, password []byte) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	body := credentials{Username: username, Password: string(password)}
	if err := c.do(ctx, http.MethodPost, "/login", "", body, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Books returns the whole catalog.
func (c *Client) Books(ctx context.Context, token string) ([]Book, error) {
	var books []Book
	if err := c.do(ctx, http.MethodGet, "/books", token, nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// ListFavorites returns the caller's favorite books in catalog order.
func (c *Client) ListFavorites(ctx context.Context, token string) ([]Book, error) {
	var books []Book
	if err := c.do(ctx, http.MethodGet, "/favorites", token, nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// AddFavorite adds bookID to the caller's favorites.
func (c *Client) AddFavorite(ctx context.Context, token, bookID string) error {
	body := struct {
		BookID string `json:"bookId"`
	}{BookID: bookID}
	return c.do(ctx, http.MethodPost, "/favorites", token, body, nil)
}

// RemoveFavorite removes bookID from the caller's favorites.
func (c *Client) RemoveFavorite(ctx context.Context, token, bookID string) error {
	return c.do(ctx, http.MethodDelete, "/favorites/"+url.PathEscape(bookID), token, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return mapStatus(resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// mapStatus turns an error response into one of the common sentinels,
// keeping the server's message.
func mapStatus(status int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	var m messageResponse
	if json.Unmarshal(body, &m) == nil && m.Message != "" {
		msg = m.Message
	}
	if msg == "" {
		msg = http.StatusText(status)
	}

	var category error
	switch status {
	case http.StatusBadRequest:
		category = common.ErrorValidation
	case http.StatusUnauthorized:
		category = common.ErrorUnauthorized
	case http.StatusForbidden:
		category = common.ErrInvalidToken
	case http.StatusNotFound:
		category = common.ErrorNotFound
	case http.StatusConflict:
		category = common.ErrorAlreadyExists
	case http.StatusTooManyRequests:
		category = common.ErrRateLimited
	default:
		category = common.ErrorInternal
	}
	return common.NewError(category, msg)
}
