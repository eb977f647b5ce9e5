// Package users implements the credential store on top of the shared
// settings area, under the "users" key.
package users

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/studiogate/internal/common"
	"github.com/dmitrijs2005/studiogate/internal/server/models"
	"github.com/dmitrijs2005/studiogate/internal/server/repositories/settings"
)

// SettingsKey names the settings entry holding the user list.
const SettingsKey = "users"

type SettingsRepository struct {
	// mu keeps read-modify-write cycles of this process in order even
	// when the backend itself has no row locking.
	mu          sync.Mutex
	settings    settings.Repository
	adminDigest string
}

// NewSettingsRepository builds the store. adminDigest is the password
// digest given to the admin record whenever it has to be recreated.
func NewSettingsRepository(s settings.Repository, adminDigest string) *SettingsRepository {
	return &SettingsRepository{settings: s, adminDigest: adminDigest}
}

func (r *SettingsRepository) Load(ctx context.Context) ([]models.User, error) {
	raw, err := r.settings.Get(ctx, SettingsKey)
	if err != nil {
		return nil, fmt.Errorf("error loading users: %w", err)
	}

	users, err := decode(raw)
	if err != nil {
		return nil, err
	}
	if hasUser(users, common.AdminUsername) {
		return users, nil
	}

	// seed through Modify so the write happens under the lock
	var seeded []models.User
	err = r.Modify(ctx, func(current []models.User) ([]models.User, error) {
		seeded = current
		return current, nil
	})
	if err != nil {
		return nil, err
	}
	return seeded, nil
}

func (r *SettingsRepository) Save(ctx context.Context, users []models.User) error {
	raw, err := encode(users)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.settings.Set(ctx, SettingsKey, raw); err != nil {
		return fmt.Errorf("error saving users: %w", err)
	}
	return nil
}

func (r *SettingsRepository) Modify(ctx context.Context, fn ModifyFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.settings.Update(ctx, SettingsKey, func(current []byte) ([]byte, error) {
		users, err := decode(current)
		if err != nil {
			return nil, err
		}
		users = r.seedAdmin(users)

		next, err := fn(users)
		if err != nil {
			return nil, err
		}
		return encode(next)
	})
}

func (r *SettingsRepository) seedAdmin(users []models.User) []models.User {
	if hasUser(users, common.AdminUsername) {
		return users
	}
	return append(users, models.User{
		Username:       common.AdminUsername,
		PasswordDigest: r.adminDigest,
		Pages:          []string{},
		LinkedInPages:  []string{},
	})
}

func hasUser(users []models.User, username string) bool {
	for _, u := range users {
		if u.Username == username {
			return true
		}
	}
	return false
}

func decode(raw []byte) ([]models.User, error) {
	users := []models.User{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &users); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrCorruptStore, err)
		}
	}
	if users == nil {
		// stored as JSON null
		users = []models.User{}
	}
	if err := validate(users); err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Normalize()
	}
	return users, nil
}

func encode(users []models.User) ([]byte, error) {
	if err := validate(users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	raw, err := json.Marshal(users)
	if err != nil {
		return nil, fmt.Errorf("error encoding users: %w", err)
	}
	return raw, nil
}

func validate(users []models.User) error {
	seen := make(map[string]struct{}, len(users))
	for i, u := range users {
		if u.Username == "" {
			return fmt.Errorf("%w: record %d has no username", common.ErrCorruptStore, i)
		}
		if _, dup := seen[u.Username]; dup {
			return fmt.Errorf("%w: duplicate username %q", common.ErrCorruptStore, u.Username)
		}
		seen[u.Username] = struct{}{}
	}
	return nil
}
