// Package auth manages local reader accounts and the bearer tokens that
// identify them to the HTTP API.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/errs"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/store"
)

const (
	issuer      = "storytutor"
	bcryptCost  = 12
	minPassword = 6
	maxUsername = 64
)

// DefaultTTL is how long an issued token stays valid.
const DefaultTTL = 24 * time.Hour

// ErrInvalidCredentials is returned for an unknown user or wrong password.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrInvalidToken is returned for a malformed, expired or forged token.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the JWT claims issued to a reader.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Service registers accounts and issues tokens.
type Service struct {
	users  store.UserRepo
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService returns a Service signing tokens with secret.
func NewService(users store.UserRepo, secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{users: users, secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Register creates an account and returns a token for it.
func (s *Service) Register(ctx context.Context, username, password string) (*store.User, string, error) {
	username = strings.TrimSpace(username)
	if err := validateCredentials(username, password); err != nil {
		return nil, "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}
	u := &store.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrUsernameTaken) {
			return nil, "", &errs.ValidationError{Field: "username", Reason: "already taken"}
		}
		return nil, "", err
	}
	tok, err := s.Issue(u)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

// Login verifies a password and returns a fresh token.
func (s *Service) Login(ctx context.Context, username, password string) (*store.User, string, error) {
	u, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if errs.IsNotFound(err) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}
	tok, err := s.Issue(u)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

// EnsureLocal returns the passwordless account the terminal reader runs
// as, creating it on first use. Such accounts cannot log in over HTTP.
func EnsureLocal(ctx context.Context, users store.UserRepo, username string) (*store.User, error) {
	u, err := users.GetUserByUsername(ctx, username)
	if err == nil {
		return u, nil
	}
	if !errs.IsNotFound(err) {
		return nil, err
	}
	u = &store.User{
		ID:        uuid.NewString(),
		Username:  username,
		CreatedAt: time.Now().UTC(),
	}
	err = users.CreateUser(ctx, u)
	if errors.Is(err, store.ErrUsernameTaken) {
		return users.GetUserByUsername(ctx, username)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Issue signs a token for u.
func (s *Service) Issue(u *store.User) (string, error) {
	now := s.now()
	claims := &Claims{
		Username: u.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies a token and returns its claims.
func (s *Service) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	c, ok := token.Claims.(*Claims)
	if !ok || c.Subject == "" {
		return nil, ErrInvalidToken
	}
	return c, nil
}

func validateCredentials(username, password string) error {
	switch {
	case username == "":
		return &errs.ValidationError{Field: "username", Reason: "must not be empty"}
	case len(username) > maxUsername:
		return &errs.ValidationError{Field: "username", Reason: fmt.Sprintf("longer than %d characters", maxUsername)}
	case len(password) < minPassword:
		return &errs.ValidationError{Field: "password", Reason: fmt.Sprintf("shorter than %d characters", minPassword)}
	}
	return nil
}
