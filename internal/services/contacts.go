package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/notevault/internal/common"
	"github.com/dmitrijs2005/notevault/internal/models"
	"github.com/dmitrijs2005/notevault/internal/repositories/users"
)

// ContactService records user profiles on contact.
type ContactService struct {
	users users.Repository
}

func NewContactService(users users.Repository) *ContactService {
	return &ContactService{users: users}
}

// RegisterContact upserts the user and marks them as having initiated
// contact. Called on every inbound event so the profile name stays fresh.
func (s *ContactService) RegisterContact(ctx context.Context, id int64, name string, isAdmin bool) (*models.User, error) {
	u := &models.User{ID: id, Name: name, IsAdmin: isAdmin}

	if err := s.users.Upsert(ctx, u); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrRecordStore, err)
	}
	u.Started = true

	return u, nil
}
