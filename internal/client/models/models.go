// Package models holds the API shapes the CLI exchanges with the gateway.
package models

type User struct {
	Username      string   `json:"username"`
	Pages         []string `json:"pages"`
	LinkedInPages []string `json:"linkedin_pages"`
}

type Page struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type LinkedInPage struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AccountID string `json:"account_id"`
}

type PublishResult struct {
	PageID string `json:"page_id"`
	Status int    `json:"status"`
}

// LoginResult is what a successful login returns.
type LoginResult struct {
	Username      string   `json:"username"`
	Pages         []string `json:"pages"`
	LinkedInPages []string `json:"linkedin_pages"`
	AccessToken   string   `json:"access_token"`
}
