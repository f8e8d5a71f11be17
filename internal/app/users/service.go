package users

import (
	"context"
	"fmt"
	"strings"

	"soundshelf/internal/apperr"
	"soundshelf/shared/go/models"
)

// TokenType is reported alongside issued tokens.
const TokenType = "bearer"

// Authenticator describes the credential operations required by the user service.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, models.User, error)
	Verify(ctx context.Context, token string) (models.User, error)
}

// Session is returned by a successful login.
type Session struct {
	Token string         `json:"token"`
	Type  string         `json:"type"`
	User  models.Profile `json:"user"`
}

// Service exposes user-related workflows.
type Service interface {
	Login(ctx context.Context, username, password string) (Session, error)
	Profile(ctx context.Context, token string) (models.Profile, error)
}

type service struct {
	auth Authenticator
}

// New wires a Service backed by the provided Authenticator.
func New(auth Authenticator) Service {
	return &service{auth: auth}
}

func (s *service) Login(ctx context.Context, username, password string) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	if strings.TrimSpace(username) == "" || password == "" {
		return Session{}, fmt.Errorf("%w: username and password are required", apperr.ErrInvalidInput)
	}

	token, user, err := s.auth.Login(ctx, username, password)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, Type: TokenType, User: user.Profile()}, nil
}

func (s *service) Profile(ctx context.Context, token string) (models.Profile, error) {
	if err := ctx.Err(); err != nil {
		return models.Profile{}, err
	}
	user, err := s.auth.Verify(ctx, token)
	if err != nil {
		return models.Profile{}, err
	}
	return user.Profile(), nil
}
