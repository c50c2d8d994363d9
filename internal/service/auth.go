package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"alunosapi/internal/config"
	"alunosapi/internal/model"
	"alunosapi/internal/repository"
)

var (
	ErrCredentialsRequired = errors.New("email and password required")
	ErrEmailTaken          = errors.New("email already in use")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidSession      = errors.New("invalid session")
)

// SignUpInput is the raw sign-up payload.
type SignUpInput struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// AuthService resolves and issues session identities. Tokens are HS256
// JWTs carrying only the user id; the user record is re-fetched on every
// resolution so a deleted account invalidates its sessions.
type AuthService interface {
	// SignUp registers a new account and returns it with a session token.
	SignUp(ctx context.Context, in SignUpInput) (*model.User, string, error)

	// SignIn verifies credentials and returns the account with a session token.
	SignIn(ctx context.Context, email, password string) (*model.User, string, error)

	// CurrentUser resolves a session token to its account, or ErrInvalidSession.
	CurrentUser(ctx context.Context, token string) (*model.User, error)
}

type sessionClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

type authService struct {
	users  repository.UserRepository
	secret []byte
	ttl    time.Duration
}

// NewAuthService constructs an AuthService from the auth configuration.
func NewAuthService(users repository.UserRepository, cfg config.AuthConfig) AuthService {
	return &authService{
		users:  users,
		secret: []byte(cfg.JWTSecret),
		ttl:    time.Duration(cfg.TokenTTLHours) * time.Hour,
	}
}

func (a *authService) SignUp(ctx context.Context, in SignUpInput) (*model.User, string, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || in.Password == "" {
		return nil, "", ErrCredentialsRequired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user, err := a.users.Create(ctx, &model.User{
		Email:        email,
		DisplayName:  strings.TrimSpace(in.DisplayName),
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, err := a.signToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (a *authService) SignIn(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, "", ErrCredentialsRequired
	}

	user, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := a.signToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (a *authService) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	claims, err := a.parseToken(token)
	if err != nil {
		return nil, ErrInvalidSession
	}

	user, err := a.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}
	return user, nil
}

func (a *authService) signToken(userID string) (string, error) {
	claims := &sessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(a.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(a.secret)
}

func (a *authService) parseToken(tokenStr string) (*sessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if c, ok := token.Claims.(*sessionClaims); ok && token.Valid && c.UserID != "" {
		return c, nil
	}
	return nil, errors.New("invalid token")
}
