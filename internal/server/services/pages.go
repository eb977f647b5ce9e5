package services

import (
	"context"
	"io"
	"net/http"

	"github.com/dmitrijs2005/studiogate/internal/authz"
	"github.com/dmitrijs2005/studiogate/internal/common"
	"github.com/dmitrijs2005/studiogate/internal/logging"
	"github.com/dmitrijs2005/studiogate/internal/server/models"
)

// PagePublisher lists the connected publishing pages and posts to them.
type PagePublisher interface {
	Enabled() bool
	Pages(ctx context.Context) ([]models.Page, error)
	Publish(ctx context.Context, pageID, caption, imageURL string) (int, error)
}

// LinkedInPageLister lists organisation pages across connected accounts.
type LinkedInPageLister interface {
	Pages(ctx context.Context) ([]models.LinkedInPage, error)
}

// Uploader stores an image and returns a URL the page API can fetch.
type Uploader interface {
	Upload(ctx context.Context, contentType string, body io.Reader, size int64) (string, error)
}

// ImageUpload is an image sent with a manual post.
type ImageUpload struct {
	ContentType string
	Body        io.Reader
	Size        int64
}

// PublishInput describes one post. Exactly one of ImageURL and Image is
// expected; Image wins when both are set.
type PublishInput struct {
	Caption  string
	ImageURL string
	Image    *ImageUpload
	PageIDs  []string
}

type PageService struct {
	pages    PagePublisher
	linkedin LinkedInPageLister
	uploader Uploader
	logger   logging.Logger
}

// NewPageService builds the service. uploader may be nil, in which case
// posts with an uploaded image are rejected.
func NewPageService(pages PagePublisher, linkedin LinkedInPageLister, uploader Uploader, logger logging.Logger) *PageService {
	return &PageService{pages: pages, linkedin: linkedin, uploader: uploader, logger: logger.With("module", "page_service")}
}

// Pages returns the publishing pages p may act on.
func (s *PageService) Pages(ctx context.Context, p *Principal) ([]models.Page, error) {
	all, err := s.pages.Pages(ctx)
	if err != nil {
		s.logger.Error(ctx, "error fetching pages", "error", err)
		return nil, common.ErrInternal
	}
	return authz.Filter(all, p.Pages, func(pg models.Page) string { return pg.ID }), nil
}

// LinkedInPages returns the LinkedIn pages p may act on, matched by
// "<account-id>:<page-id>".
func (s *PageService) LinkedInPages(ctx context.Context, p *Principal) ([]models.LinkedInPage, error) {
	all, err := s.linkedin.Pages(ctx)
	if err != nil {
		s.logger.Error(ctx, "error fetching linkedin pages", "error", err)
		return nil, common.ErrInternal
	}
	return authz.Filter(all, p.LinkedInPages, func(pg models.LinkedInPage) string {
		return authz.CompositeKey(pg.AccountID, pg.ID)
	}), nil
}

// Publish posts in.Caption with its image to every page in in.PageIDs.
// Nothing is posted when any target is outside p's pages. The upstream
// status is reported per page; a page that could not be reached gets 502.
func (s *PageService) Publish(ctx context.Context, p *Principal, in PublishInput) ([]models.PublishResult, error) {
	if in.Caption == "" || (in.ImageURL == "" && in.Image == nil) || len(in.PageIDs) == 0 {
		return nil, common.ErrInvalidInput
	}
	if err := authz.CheckTargets(p.Pages, in.PageIDs); err != nil {
		s.logger.Warn(ctx, "publish outside page scope", "username", p.Username, "error", err)
		return nil, common.ErrForbidden
	}
	if !s.pages.Enabled() {
		return nil, common.ErrNotConfigured
	}

	imageURL := in.ImageURL
	if in.Image != nil {
		if s.uploader == nil {
			return nil, common.ErrNotConfigured
		}
		url, err := s.uploader.Upload(ctx, in.Image.ContentType, in.Image.Body, in.Image.Size)
		if err != nil {
			s.logger.Error(ctx, "error uploading image", "error", err)
			return nil, common.ErrInternal
		}
		imageURL = url
	}

	results := make([]models.PublishResult, 0, len(in.PageIDs))
	for _, id := range in.PageIDs {
		status, err := s.pages.Publish(ctx, id, in.Caption, imageURL)
		if err != nil {
			s.logger.Error(ctx, "error publishing", "page_id", id, "error", err)
			status = http.StatusBadGateway
		}
		results = append(results, models.PublishResult{PageID: id, Status: status})
	}

	s.logger.Info(ctx, "published", "username", p.Username, "pages", len(results))
	return results, nil
}
