package models

// User is one credential store record. The JSON names match the documents
// written by the previous deployment so existing stores load unchanged.
type User struct {
	Username       string   `json:"username"`
	PasswordDigest string   `json:"password"`
	Pages          []string `json:"pages"`
	LinkedInPages  []string `json:"linkedin_pages"`
}

// Normalize replaces nil page sets with empty ones.
func (u *User) Normalize() {
	if u.Pages == nil {
		u.Pages = []string{}
	}
	if u.LinkedInPages == nil {
		u.LinkedInPages = []string{}
	}
}

// Page is a connected publishing page (e.g. a Facebook page).
type Page struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AccessToken string `json:"-"`
}

// LinkedInPage is an organisation page reachable through one of several
// connected LinkedIn accounts.
type LinkedInPage struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AccountID string `json:"account_id"`
}

// PublishResult reports the upstream status for one target page.
type PublishResult struct {
	PageID string `json:"page_id"`
	Status int    `json:"status"`
}
