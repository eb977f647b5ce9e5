package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/studiogate/internal/common"
	"github.com/dmitrijs2005/studiogate/internal/logging"
	"github.com/dmitrijs2005/studiogate/internal/passwd"
	"github.com/dmitrijs2005/studiogate/internal/server/models"
	"github.com/dmitrijs2005/studiogate/internal/server/repositories/users"
)

// UserView is a user record without its password digest.
type UserView struct {
	Username      string
	Pages         []string
	LinkedInPages []string
}

type CreateUserInput struct {
	Username      string
	Password      string
	Pages         []string
	LinkedInPages []string
}

// UpdateUserInput changes only what is set: an empty Password keeps the
// digest, a nil page set keeps the stored one and a non-nil set (even an
// empty one) replaces it.
type UpdateUserInput struct {
	Username      string
	Password      string
	Pages         *[]string
	LinkedInPages *[]string
}

// UserService manages credential store records. Every mutation is one
// read-modify-write through users.Repository.Modify.
type UserService struct {
	users  users.Repository
	logger logging.Logger
}

func NewUserService(repo users.Repository, logger logging.Logger) *UserService {
	return &UserService{users: repo, logger: logger.With("module", "user_service")}
}

func (s *UserService) List(ctx context.Context) ([]UserView, error) {
	list, err := s.users.Load(ctx)
	if err != nil {
		s.logger.Error(ctx, "error loading users", "error", err)
		return nil, common.ErrInternal
	}

	views := make([]UserView, 0, len(list))
	for i := range list {
		p := principalOf(&list[i])
		views = append(views, UserView{Username: p.Username, Pages: p.Pages, LinkedInPages: p.LinkedInPages})
	}
	return views, nil
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) error {
	if in.Username == "" || in.Password == "" {
		return common.ErrInvalidInput
	}

	digest, err := passwd.Hash(in.Password)
	if err != nil {
		s.logger.Error(ctx, "error hashing password", "error", err)
		return common.ErrInternal
	}

	err = s.users.Modify(ctx, func(list []models.User) ([]models.User, error) {
		if findUser(list, in.Username) != nil {
			return nil, common.ErrUserExists
		}
		u := models.User{
			Username:       in.Username,
			PasswordDigest: digest,
			Pages:          copySet(in.Pages),
			LinkedInPages:  copySet(in.LinkedInPages),
		}
		return append(list, u), nil
	})
	if err != nil {
		return s.mapError(ctx, "create", err)
	}

	s.logger.Info(ctx, "user created", "username", in.Username)
	return nil
}

func (s *UserService) Update(ctx context.Context, in UpdateUserInput) error {
	if in.Username == "" {
		return common.ErrInvalidInput
	}

	var digest string
	if in.Password != "" {
		var err error
		if digest, err = passwd.Hash(in.Password); err != nil {
			s.logger.Error(ctx, "error hashing password", "error", err)
			return common.ErrInternal
		}
	}

	err := s.users.Modify(ctx, func(list []models.User) ([]models.User, error) {
		u := findUser(list, in.Username)
		if u == nil {
			return nil, common.ErrNotFound
		}
		if digest != "" {
			u.PasswordDigest = digest
		}
		if in.Pages != nil {
			u.Pages = copySet(*in.Pages)
		}
		if in.LinkedInPages != nil {
			u.LinkedInPages = copySet(*in.LinkedInPages)
		}
		return list, nil
	})
	if err != nil {
		return s.mapError(ctx, "update", err)
	}

	s.logger.Info(ctx, "user updated", "username", in.Username)
	return nil
}

// Delete removes username. The admin record cannot be deleted.
func (s *UserService) Delete(ctx context.Context, username string) error {
	if username == "" || username == common.AdminUsername {
		return common.ErrInvalidInput
	}

	err := s.users.Modify(ctx, func(list []models.User) ([]models.User, error) {
		out := make([]models.User, 0, len(list))
		for _, u := range list {
			if u.Username != username {
				out = append(out, u)
			}
		}
		if len(out) == len(list) {
			return nil, common.ErrNotFound
		}
		return out, nil
	})
	if err != nil {
		return s.mapError(ctx, "delete", err)
	}

	s.logger.Info(ctx, "user deleted", "username", username)
	return nil
}

func (s *UserService) mapError(ctx context.Context, op string, err error) error {
	for _, known := range []error{common.ErrUserExists, common.ErrNotFound, common.ErrInvalidInput} {
		if errors.Is(err, known) {
			return known
		}
	}
	s.logger.Error(ctx, fmt.Sprintf("error on user %s", op), "error", err)
	return common.ErrInternal
}

func copySet(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}
