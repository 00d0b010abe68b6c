package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/booklib/internal/common"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, time.Second)
}

func TestClient_Login_SendsCredentials(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "sandra", body.Username)
		assert.Equal(t, "pw", body.Password)

		_, _ = w.Write([]byte(`{"token":"abc"}`))
	})

	tok, err := c.Login(context.Background(), "sandra", []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)
}

func TestClient_Favorites_UseBearerToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/favorites":
			_, _ = w.Write([]byte(`[{"id":"1","title":"Dune","author":"Frank Herbert"}]`))
		case r.Method == http.MethodPost && r.URL.Path == "/favorites":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "7", body["bookId"])
			_, _ = w.Write([]byte(`{"message":"Book added to favorites"}`))
		case r.Method == http.MethodDelete && r.URL.Path == "/favorites/7":
			_, _ = w.Write([]byte(`{"message":"Book removed from favorites"}`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})
	ctx := context.Background()

	books, err := c.ListFavorites(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, []Book{{ID: "1", Title: "Dune", Author: "Frank Herbert"}}, books)

	require.NoError(t, c.AddFavorite(ctx, "tok", "7"))
	require.NoError(t, c.RemoveFavorite(ctx, "tok", "7"))
}

func TestClient_ErrorStatusesMapToSentinels(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
		msg    string
	}{
		{"bad request", http.StatusBadRequest, `{"message":"Book ID required"}`, common.ErrorValidation, "Book ID required"},
		{"unauthenticated", http.StatusUnauthorized, `{"message":"Invalid credentials"}`, common.ErrorUnauthorized, "Invalid credentials"},
		{"forbidden", http.StatusForbidden, `{"message":"Invalid token"}`, common.ErrInvalidToken, "Invalid token"},
		{"not found", http.StatusNotFound, `{"message":"User not found"}`, common.ErrorNotFound, "User not found"},
		{"conflict", http.StatusConflict, `{"message":"User already exists"}`, common.ErrorAlreadyExists, "User already exists"},
		{"rate limited plain text", http.StatusTooManyRequests, "Too many login attempts from this IP, please try again after 15 minutes", common.ErrRateLimited, "Too many login attempts from this IP, please try again after 15 minutes"},
		{"internal empty body", http.StatusInternalServerError, "", common.ErrorInternal, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			err := c.Register(context.Background(), "u", []byte("p"))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.msg, err.Error())
		})
	}
}

func TestClient_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c := NewClient(addr, time.Second)
	_, err := c.Books(context.Background(), "tok")
	assert.True(t, errors.Is(err, ErrUnavailable), "got %v", err)
}

func TestNewClient_AddsSchemeAndTrimsSlash(t *testing.T) {
	c := NewClient("localhost:8080/", time.Second)
	assert.Equal(t, "http://localhost:8080", c.baseURL)
}
