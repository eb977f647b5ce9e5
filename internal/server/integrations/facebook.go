// Package integrations talks to the page APIs of the connected social
// accounts: the Facebook Graph API (page listing and photo posts) and the
// LinkedIn organisation API (page listing across several accounts).
package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/studiogate/internal/common"
	"github.com/dmitrijs2005/studiogate/internal/server/models"
)

// FacebookClient uses one user access token for every call. An empty token
// disables the integration: no pages are listed and publishing fails with
// common.ErrNotConfigured.
type FacebookClient struct {
	baseURL string
	version string
	token   string
	http    *http.Client
}

func NewFacebookClient(baseURL, version, token string, hc *http.Client) *FacebookClient {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &FacebookClient{baseURL: strings.TrimRight(baseURL, "/"), version: version, token: token, http: hc}
}

func (c *FacebookClient) Enabled() bool { return c.token != "" }

type graphAccounts struct {
	Data []struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		AccessToken string `json:"access_token"`
	} `json:"data"`
}

// Pages lists the pages the token can manage (GET /{version}/me/accounts).
func (c *FacebookClient) Pages(ctx context.Context) ([]models.Page, error) {
	if !c.Enabled() {
		return []models.Page{}, nil
	}

	q := url.Values{"access_token": {c.token}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("me/accounts")+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("facebook pages: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, upstreamError("facebook pages", resp)
	}

	var body graphAccounts
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("facebook pages: decode: %w", err)
	}

	pages := make([]models.Page, 0, len(body.Data))
	for _, p := range body.Data {
		pages = append(pages, models.Page{ID: p.ID, Name: p.Name, AccessToken: p.AccessToken})
	}
	return pages, nil
}

// Publish posts a photo with caption to pageID and returns the Graph API
// status code. Non-2xx statuses are reported, not returned as errors.
func (c *FacebookClient) Publish(ctx context.Context, pageID, caption, imageURL string) (int, error) {
	if !c.Enabled() {
		return 0, common.ErrNotConfigured
	}

	form := url.Values{
		"url":          {imageURL},
		"message":      {caption},
		"access_token": {c.token},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint(url.PathEscape(pageID)+"/photos"), strings.NewReader(form.Encode()))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("facebook publish: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}

func (c *FacebookClient) endpoint(path string) string {
	return c.baseURL + "/" + c.version + "/" + path
}

func upstreamError(op string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("%s failed: %s; body: %s", op, resp.Status, strings.TrimSpace(string(b)))
}
