// Package auth issues and verifies bearer tokens for catalog users.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"soundshelf/internal/apperr"
	"soundshelf/shared/go/models"
)

// DefaultTokenTTL is used when no expiry is configured.
const DefaultTokenTTL = time.Hour

var (
	// ErrInvalidCredentials indicates a login failure.
	ErrInvalidCredentials = fmt.Errorf("invalid username or password: %w", apperr.ErrUnauthorized)
	// ErrInvalidToken covers malformed, expired and badly signed tokens.
	ErrInvalidToken = fmt.Errorf("invalid token: %w", apperr.ErrUnauthorized)
	// ErrUnknownUser is returned when a valid token names a user that no longer exists.
	ErrUnknownUser = fmt.Errorf("unknown user: %w", apperr.ErrUnauthorized)

	dummyPasswordHash = []byte("$2a$10$CwTycUXWue0Thq9StjUM0uJ8n4VWeNseyX2fA9DE.D7su7J6iYGTC")
)

// Users looks up accounts by id and by username.
type Users interface {
	User(id string) (models.User, bool)
	UserByUsername(username string) (models.User, bool)
}

// Claims is the token payload. Subject carries the user id.
type Claims struct {
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// Authenticator verifies credentials and tokens against a user directory.
type Authenticator struct {
	users  Users
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithTTL overrides the token lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(a *Authenticator) {
		if ttl > 0 {
			a.ttl = ttl
		}
	}
}

// WithClock replaces the wall clock, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(a *Authenticator) {
		if now != nil {
			a.now = now
		}
	}
}

// New builds an Authenticator signing HS256 tokens with secret.
func New(users Users, secret string, opts ...Option) (*Authenticator, error) {
	if users == nil {
		return nil, errors.New("auth: user directory is required")
	}
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth: signing secret is required")
	}

	a := &Authenticator{
		users:  users,
		secret: []byte(secret),
		ttl:    DefaultTokenTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Login checks the password and returns a signed token for the user.
func (a *Authenticator) Login(ctx context.Context, username, password string) (string, models.User, error) {
	if err := ctx.Err(); err != nil {
		return "", models.User{}, err
	}

	user, ok := a.users.UserByUsername(strings.TrimSpace(username))
	if !ok {
		_ = bcrypt.CompareHashAndPassword(dummyPasswordHash, []byte(password))
		return "", models.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", models.User{}, ErrInvalidCredentials
	}

	token, err := a.Issue(user)
	if err != nil {
		return "", models.User{}, err
	}
	return token, user, nil
}

// Issue signs a token for user without checking a password.
func (a *Authenticator) Issue(user models.User) (string, error) {
	now := a.now()
	claims := Claims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify resolves a token to the user it was issued for.
func (a *Authenticator) Verify(ctx context.Context, token string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return models.User{}, ErrInvalidToken
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return models.User{}, ErrInvalidToken
	}

	user, ok := a.users.User(claims.Subject)
	if !ok {
		return models.User{}, ErrUnknownUser
	}
	return user, nil
}

// HashPassword returns a bcrypt hash suitable for models.User.PasswordHash.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password is required: %w", apperr.ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// IsHashed reports whether value already looks like a bcrypt hash.
func IsHashed(value string) bool {
	_, err := bcrypt.Cost([]byte(value))
	return err == nil
}
