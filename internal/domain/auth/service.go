package auth

import (
	"context"
	"errors"
	"slices"

	"github.com/sirupsen/logrus"

	"artnexus/internal/pkg/jwt"
	"artnexus/internal/pkg/validator"
)

type Service struct {
	users UserRepository
	jwt   *jwt.Service
	log   logrus.FieldLogger
}

func NewService(users UserRepository, jwtSvc *jwt.Service, log logrus.FieldLogger) *Service {
	return &Service{users: users, jwt: jwtSvc, log: log}
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     Role   `json:"role" validate:"required"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	User        *User  `json:"user"`
}

// Register creates a user or artiste. Admin accounts are only seeded.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	if err := validator.Check(in); err != nil {
		return nil, err
	}
	if in.Role != RoleUser && in.Role != RoleArtiste {
		return nil, ErrRoleNotAllowed
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Name:         in.Name,
		Email:        normalizeEmail(in.Email),
		PasswordHash: hash,
		Role:         in.Role,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	s.log.WithField("user_id", u.ID).WithField("role", u.Role).Info("user registered")
	return u, nil
}

func (s *Service) Login(ctx context.Context, in LoginInput) (*TokenResult, error) {
	if err := validator.Check(in); err != nil {
		return nil, err
	}

	u, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := CheckPassword(in.Password, u.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(u.ID, string(u.Role))
	if err != nil {
		return nil, err
	}

	return &TokenResult{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.jwt.TTL().Seconds()),
		User:        u,
	}, nil
}

// Authenticate resolves a bearer token to an identity.
func (s *Service) Authenticate(token string) (Identity, error) {
	return Authenticate(s.jwt, token)
}

type MeResult struct {
	User    *User   `json:"user"`
	Variant Variant `json:"variant"`
}

func (s *Service) Me(ctx context.Context, userID int64) (*MeResult, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	v, err := u.Variant()
	if err != nil {
		return nil, err
	}
	return &MeResult{User: u, Variant: v}, nil
}

// Authenticate verifies token with jwtSvc. Any failure is ErrUnauthorized.
func Authenticate(jwtSvc *jwt.Service, token string) (Identity, error) {
	claims, err := jwtSvc.ValidateToken(token)
	if err != nil {
		return Identity{}, ErrUnauthorized
	}
	role, ok := ParseRole(claims.Role)
	if !ok {
		return Identity{}, ErrUnknownRole
	}
	return Identity{UserID: claims.UserID, Role: role}, nil
}

// Authorize passes id through when its role is exactly one of allowed.
// There is no role hierarchy.
func Authorize(id Identity, allowed ...Role) (Identity, error) {
	if slices.Contains(allowed, id.Role) {
		return id, nil
	}
	return Identity{}, ErrForbidden
}
