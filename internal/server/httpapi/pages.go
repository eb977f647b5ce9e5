package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/studiogate/internal/common"
	"github.com/dmitrijs2005/studiogate/internal/server/models"
	"github.com/dmitrijs2005/studiogate/internal/server/services"
)

type pagesResponse struct {
	Pages []models.Page `json:"pages"`
}

type linkedInPagesResponse struct {
	Pages []models.LinkedInPage `json:"pages"`
}

type publishResponse struct {
	Results []models.PublishResult `json:"results"`
}

func (h *Handler) handleSocialPages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.pages.Pages(r.Context(), principalFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pagesResponse{Pages: pages})
}

func (h *Handler) handleLinkedInPages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.pages.LinkedInPages(r.Context(), principalFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, linkedInPagesResponse{Pages: pages})
}

// handlePublish accepts a multipart or urlencoded form with caption,
// image_url or file, and one page_ids value per target page.
func (h *Handler) handlePublish(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes)

	multipart := strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")

	var err error
	if multipart {
		err = r.ParseMultipartForm(h.opts.MaxUploadBytes)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		h.writeError(w, r, common.ErrInvalidInput)
		return
	}

	in := services.PublishInput{
		Caption:  r.FormValue("caption"),
		ImageURL: r.FormValue("image_url"),
		PageIDs:  r.Form["page_ids"],
	}

	if multipart {
		file, header, err := r.FormFile("file")
		switch {
		case err == nil:
			defer file.Close()
			in.Image = &services.ImageUpload{
				ContentType: header.Header.Get("Content-Type"),
				Body:        file,
				Size:        header.Size,
			}
		case !errors.Is(err, http.ErrMissingFile):
			h.writeError(w, r, common.ErrInvalidInput)
			return
		}
	}

	results, err := h.pages.Publish(r.Context(), principalFrom(r.Context()), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, publishResponse{Results: results})
}
