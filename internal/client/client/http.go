package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/studiogate/internal/client/models"
)

// HTTPClient calls the gateway JSON API. It is safe for concurrent use.
type HTTPClient struct {
	baseURL string
	hc      *http.Client

	mu          sync.RWMutex
	accessToken string
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

// SetAccessToken replaces the bearer token; "" sends none.
func (c *HTTPClient) SetAccessToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = token
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (*models.LoginResult, error) {
	body := map[string]string{"username": username, "password": password}

	var res models.LoginResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth", body, &res); err != nil {
		return nil, err
	}

	c.SetAccessToken(res.AccessToken)
	return &res, nil
}

func (c *HTTPClient) ListUsers(ctx context.Context) ([]models.User, error) {
	var res struct {
		Users []models.User `json:"users"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/users", nil, &res); err != nil {
		return nil, err
	}
	return res.Users, nil
}

type CreateUserRequest struct {
	Username      string   `json:"username"`
	Password      string   `json:"password"`
	Pages         []string `json:"pages"`
	LinkedInPages []string `json:"linkedin_pages"`
}

func (c *HTTPClient) CreateUser(ctx context.Context, req CreateUserRequest) error {
	return c.doJSON(ctx, http.MethodPost, "/api/users", req, nil)
}

// UpdateUserRequest leaves fields at their zero value untouched: an empty
// Password and nil page sets are not sent.
type UpdateUserRequest struct {
	Username      string    `json:"username"`
	Password      string    `json:"password,omitempty"`
	Pages         *[]string `json:"pages,omitempty"`
	LinkedInPages *[]string `json:"linkedin_pages,omitempty"`
}

func (c *HTTPClient) UpdateUser(ctx context.Context, req UpdateUserRequest) error {
	return c.doJSON(ctx, http.MethodPut, "/api/users", req, nil)
}

func (c *HTTPClient) SocialPages(ctx context.Context) ([]models.Page, error) {
	var res struct {
		Pages []models.Page `json:"pages"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/social/pages", nil, &res); err != nil {
		return nil, err
	}
	return res.Pages, nil
}

func (c *HTTPClient) LinkedInPages(ctx context.Context) ([]models.LinkedInPage, error) {
	var res struct {
		Pages []models.LinkedInPage `json:"pages"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/linkedin/pages", nil, &res); err != nil {
		return nil, err
	}
	return res.Pages, nil
}

// PublishRequest posts Caption to PageIDs with either ImageURL or an
// uploaded Image read from ImageName.
type PublishRequest struct {
	Caption   string
	ImageURL  string
	PageIDs   []string
	Image     io.Reader
	ImageName string
}

func (c *HTTPClient) Publish(ctx context.Context, req PublishRequest) ([]models.PublishResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	_ = mw.WriteField("caption", req.Caption)
	if req.ImageURL != "" {
		_ = mw.WriteField("image_url", req.ImageURL)
	}
	for _, id := range req.PageIDs {
		_ = mw.WriteField("page_ids", id)
	}
	if req.Image != nil {
		fw, err := mw.CreateFormFile("file", req.ImageName)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(fw, req.Image); err != nil {
			return nil, fmt.Errorf("reading image: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var res struct {
		Results []models.PublishResult `json:"results"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/social/publish", mw.FormDataContentType(), &buf, &res); err != nil {
		return nil, err
	}
	return res.Results, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	return c.do(ctx, method, path, "application/json", body, out)
}

func (c *HTTPClient) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&payload)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		if payload.Error == "" {
			return ErrUnauthorized
		}
		return fmt.Errorf("%w: %s", ErrUnauthorized, payload.Error)
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	default:
		return &APIError{Status: resp.StatusCode, Message: payload.Error}
	}
}
