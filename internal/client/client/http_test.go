package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/studiogate/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.Handler) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL+"/", 5*time.Second)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestHTTPClient_Login_StoresToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "pw" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, models.LoginResult{
			Username: body["username"], Pages: []string{"p1"}, LinkedInPages: []string{}, AccessToken: "tok",
		})
	})
	mux.HandleFunc("GET /api/users", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"users": []models.User{{Username: "alice", Pages: []string{"p1"}}}})
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	_, err := c.ListUsers(ctx)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = c.Login(ctx, "alice", "bad")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, c.AccessToken())

	res, err := c.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, res.Pages)
	assert.Equal(t, "tok", c.AccessToken())

	users, err := c.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.User{{Username: "alice", Pages: []string{"p1"}}}, users)
}

func TestHTTPClient_UpdateUser_OmitsUnsetFields(t *testing.T) {
	var got map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/users", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	})
	c := newTestClient(t, mux)

	pages := []string{}
	require.NoError(t, c.UpdateUser(context.Background(), UpdateUserRequest{Username: "alice", Pages: &pages}))

	assert.Equal(t, map[string]any{"username": "alice", "pages": []any{}}, got)
}

func TestHTTPClient_APIError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/users", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "User exists"})
	})
	mux.HandleFunc("GET /api/v1/social/pages", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	err := c.CreateUser(ctx, CreateUserRequest{Username: "alice", Password: "pw"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "User exists", apiErr.Error())

	_, err = c.SocialPages(ctx)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := NewHTTPClient(srv.URL, time.Second).LinkedInPages(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPClient_Publish_Multipart(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/social/publish", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "hello", r.FormValue("caption"))
		assert.Equal(t, []string{"p1", "p2"}, r.Form["page_ids"])

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "cat.jpg", hdr.Filename)
		assert.Equal(t, "IMG", string(data))

		writeJSON(w, http.StatusOK, map[string]any{"results": []models.PublishResult{{PageID: "p1", Status: 200}, {PageID: "p2", Status: 502}}})
	})
	c := newTestClient(t, mux)

	res, err := c.Publish(context.Background(), PublishRequest{
		Caption:   "hello",
		PageIDs:   []string{"p1", "p2"},
		Image:     strings.NewReader("IMG"),
		ImageName: "cat.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, []models.PublishResult{{PageID: "p1", Status: 200}, {PageID: "p2", Status: 502}}, res)
}
