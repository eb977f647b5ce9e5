package users

import (
	"context"

	"github.com/dmitrijs2005/studiogate/internal/server/models"
)

// ModifyFunc receives the current records (admin already seeded) and
// returns the records to persist.
type ModifyFunc func(users []models.User) ([]models.User, error)

// Repository is the credential store: the whole list of user records is
// read and written as one document.
type Repository interface {
	// Load returns all records. It seeds and persists the admin record
	// when missing, so it may write.
	Load(ctx context.Context) ([]models.User, error)
	// Save overwrites the stored list.
	Save(ctx context.Context, users []models.User) error
	// Modify runs fn as one read-modify-write; concurrent calls are
	// serialised.
	Modify(ctx context.Context, fn ModifyFunc) error
}
