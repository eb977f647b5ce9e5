package services

import (
	"context"

	"github.com/dmitrijs2005/studiogate/internal/authz"
	"github.com/dmitrijs2005/studiogate/internal/client/models"
	"github.com/dmitrijs2005/studiogate/internal/client/session"
)

type pageAPI interface {
	SocialPages(ctx context.Context) ([]models.Page, error)
	LinkedInPages(ctx context.Context) ([]models.LinkedInPage, error)
}

// PageService lists the pages the session may act on.
type PageService struct {
	api     pageAPI
	session *session.Store
}

func NewPageService(api pageAPI, store *session.Store) *PageService {
	return &PageService{api: api, session: store}
}

func (s *PageService) Pages(ctx context.Context) ([]models.Page, error) {
	all, err := s.api.SocialPages(ctx)
	if err != nil {
		return nil, err
	}
	return authz.Filter(all, s.session.State().Pages, func(p models.Page) string { return p.ID }), nil
}

// LinkedInPages matches on account:page composite keys.
func (s *PageService) LinkedInPages(ctx context.Context) ([]models.LinkedInPage, error) {
	all, err := s.api.LinkedInPages(ctx)
	if err != nil {
		return nil, err
	}
	return authz.Filter(all, s.session.State().LinkedInPages, func(p models.LinkedInPage) string {
		return authz.CompositeKey(p.AccountID, p.ID)
	}), nil
}
