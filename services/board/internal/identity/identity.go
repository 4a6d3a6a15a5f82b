// Package identity resolves the stand-in user that unverified requests are
// attributed to.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/comment-board/internal/platform/auth"
	"github.com/example/comment-board/services/board/internal/store"
)

const DefaultName = "Kyle"

// StandIn looks the stand-in user up by display name on every call, so a
// reseeded database is picked up without a restart.
type StandIn struct {
	users store.UserStore
	name  string
}

func NewStandIn(users store.UserStore, name string) *StandIn {
	if name == "" {
		name = DefaultName
	}
	return &StandIn{users: users, name: name}
}

func (s *StandIn) Name() string { return s.name }

func (s *StandIn) Resolve(ctx context.Context) (auth.Identity, error) {
	u, err := s.users.FindUserByName(ctx, s.name)
	if errors.Is(err, store.ErrNotFound) {
		return auth.Identity{}, fmt.Errorf("stand-in user %q not found", s.name)
	}
	if err != nil {
		return auth.Identity{}, fmt.Errorf("resolve stand-in user %q: %w", s.name, err)
	}
	return auth.Identity{UserID: u.ID, Name: u.Name}, nil
}
