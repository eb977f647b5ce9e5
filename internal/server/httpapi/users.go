package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/studiogate/internal/server/services"
)

type authRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Username      string   `json:"username"`
	Pages         []string `json:"pages"`
	LinkedInPages []string `json:"linkedin_pages"`
	AccessToken   string   `json:"access_token"`
}

func (h *Handler) handleAuth(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	p, err := h.auth.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	token, err := h.auth.IssueToken(p)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Username:      p.Username,
		Pages:         p.Pages,
		LinkedInPages: p.LinkedInPages,
		AccessToken:   token,
	})
}

type userItem struct {
	Username      string   `json:"username"`
	Pages         []string `json:"pages"`
	LinkedInPages []string `json:"linkedin_pages"`
}

type listUsersResponse struct {
	Users []userItem `json:"users"`
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	list, err := h.users.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := listUsersResponse{Users: make([]userItem, 0, len(list))}
	for _, u := range list {
		resp.Users = append(resp.Users, userItem{Username: u.Username, Pages: u.Pages, LinkedInPages: u.LinkedInPages})
	}
	writeJSON(w, http.StatusOK, resp)
}

type createUserRequest struct {
	Username      string   `json:"username"`
	Password      string   `json:"password"`
	Pages         []string `json:"pages"`
	LinkedInPages []string `json:"linkedin_pages"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	err := h.users.Create(r.Context(), services.CreateUserInput{
		Username:      req.Username,
		Password:      req.Password,
		Pages:         req.Pages,
		LinkedInPages: req.LinkedInPages,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// updateUserRequest uses pointers so an absent (or null) page set can be
// told apart from an empty one.
type updateUserRequest struct {
	Username      string    `json:"username"`
	Password      string    `json:"password"`
	Pages         *[]string `json:"pages"`
	LinkedInPages *[]string `json:"linkedin_pages"`
}

func (h *Handler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	err := h.users.Update(r.Context(), services.UpdateUserInput{
		Username:      req.Username,
		Password:      req.Password,
		Pages:         req.Pages,
		LinkedInPages: req.LinkedInPages,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
