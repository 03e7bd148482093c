package admin

import (
	"context"

	"artnexus/internal/domain/auth"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*auth.User, error)
	ListByRole(ctx context.Context, role auth.Role) ([]auth.User, error)
	UpdateArtisteProfile(ctx context.Context, p *auth.ArtisteProfile) error
}

type ArtCounter interface {
	CountByOwner(ctx context.Context, ownerID int64) (int64, error)
}

type CollaborationCounter interface {
	CountByMember(ctx context.Context, userID int64) (int64, error)
}
