package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"artnexus/internal/domain/auth"
)

type Service struct {
	users   UserRepository
	arts    ArtCounter
	collabs CollaborationCounter
	log     logrus.FieldLogger
}

func NewService(users UserRepository, arts ArtCounter, collabs CollaborationCounter, log logrus.FieldLogger) *Service {
	return &Service{users: users, arts: arts, collabs: collabs, log: log}
}

type ArtisteDetails struct {
	User               *auth.User           `json:"user"`
	Profile            *auth.ArtisteProfile `json:"profile"`
	ArtCount           int64                `json:"art_count"`
	CollaborationCount int64                `json:"collaboration_count"`
}

// AccessInput is a partial membership update. Nil fields are left as they are.
type AccessInput struct {
	IsMembershipPaid *bool      `json:"is_membership_paid"`
	MembershipExpiry *time.Time `json:"membership_expiry"`
	ClearExpiry      bool       `json:"clear_expiry"`
}

func (s *Service) ListArtistes(ctx context.Context) ([]auth.User, error) {
	return s.users.ListByRole(ctx, auth.RoleArtiste)
}

func (s *Service) GetArtiste(ctx context.Context, id int64) (*ArtisteDetails, error) {
	u, err := s.artiste(ctx, id)
	if err != nil {
		return nil, err
	}

	arts, err := s.arts.CountByOwner(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count arts: %w", err)
	}
	collabs, err := s.collabs.CountByMember(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count collaborations: %w", err)
	}

	return &ArtisteDetails{
		User:               u,
		Profile:            u.ArtisteProfile,
		ArtCount:           arts,
		CollaborationCount: collabs,
	}, nil
}

// EditArtisteAccess writes only the membership payload.
func (s *Service) EditArtisteAccess(ctx context.Context, adminID, artisteID int64, in AccessInput) (*auth.ArtisteProfile, error) {
	u, err := s.artiste(ctx, artisteID)
	if err != nil {
		return nil, err
	}

	p := auth.ArtisteProfile{UserID: artisteID}
	if u.ArtisteProfile != nil {
		p = *u.ArtisteProfile
	}
	if in.IsMembershipPaid != nil {
		p.IsMembershipPaid = *in.IsMembershipPaid
	}
	if in.MembershipExpiry != nil {
		t := in.MembershipExpiry.UTC()
		p.MembershipExpiry = &t
	}
	if in.ClearExpiry {
		p.MembershipExpiry = nil
	}

	if err := s.users.UpdateArtisteProfile(ctx, &p); err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return nil, ErrArtisteNotFound
		}
		return nil, err
	}

	s.log.WithField("admin_id", adminID).
		WithField("artiste_id", artisteID).
		WithField("is_membership_paid", p.IsMembershipPaid).
		Info("artiste access updated")
	return &p, nil
}

func (s *Service) artiste(ctx context.Context, id int64) (*auth.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return nil, ErrArtisteNotFound
		}
		return nil, err
	}
	if u.Role != auth.RoleArtiste {
		return nil, ErrArtisteNotFound
	}
	return u, nil
}
