package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/dmitrijs2005/studiogate/internal/server/models"
)

// LinkedInClient lists the organisation pages administered by each
// connected account. The same page may be reachable through more than one
// account, so pages carry the account id they were listed under.
type LinkedInClient struct {
	baseURL  string
	accounts map[string]string // account id -> access token
	http     *http.Client
}

func NewLinkedInClient(baseURL string, accounts map[string]string, hc *http.Client) *LinkedInClient {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &LinkedInClient{baseURL: strings.TrimRight(baseURL, "/"), accounts: accounts, http: hc}
}

type organizationAcls struct {
	Elements []struct {
		Organization struct {
			ID            json.Number `json:"id"`
			LocalizedName string      `json:"localizedName"`
		} `json:"organization~"`
	} `json:"elements"`
}

// Pages lists the pages of every account, accounts in id order. Any failing
// account fails the whole listing.
func (c *LinkedInClient) Pages(ctx context.Context) ([]models.LinkedInPage, error) {
	ids := make([]string, 0, len(c.accounts))
	for id := range c.accounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	pages := []models.LinkedInPage{}
	for _, id := range ids {
		p, err := c.accountPages(ctx, id, c.accounts[id])
		if err != nil {
			return nil, err
		}
		pages = append(pages, p...)
	}
	return pages, nil
}

func (c *LinkedInClient) accountPages(ctx context.Context, accountID, token string) ([]models.LinkedInPage, error) {
	q := url.Values{
		"q":          {"roleAssignee"},
		"role":       {"ADMINISTRATOR"},
		"projection": {"(elements*(organization~(id,localizedName)))"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/organizationAcls?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("linkedin pages[%s]: %w", accountID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, upstreamError("linkedin pages["+accountID+"]", resp)
	}

	var body organizationAcls
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("linkedin pages[%s]: decode: %w", accountID, err)
	}

	pages := make([]models.LinkedInPage, 0, len(body.Elements))
	for _, e := range body.Elements {
		if e.Organization.ID == "" {
			continue
		}
		pages = append(pages, models.LinkedInPage{
			ID:        e.Organization.ID.String(),
			Name:      e.Organization.LocalizedName,
			AccountID: accountID,
		})
	}
	return pages, nil
}
