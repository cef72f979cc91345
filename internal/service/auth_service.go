//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock
package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"skim/backend/internal/model"
	"skim/backend/internal/repository"
)

const tokenTTL = 7 * 24 * time.Hour

type AuthService interface {
	Register(ctx context.Context, username, email, password string) (model.User, error)
	Login(ctx context.Context, username, password string) (string, model.User, error)
	ValidateToken(token string) (model.AuthContext, error)
}

type authService struct {
	users  repository.UserRepository
	secret []byte
}

func NewAuthService(users repository.UserRepository, secret string) AuthService {
	return &authService{users: users, secret: []byte(secret)}
}

func (s *authService) Register(ctx context.Context, username, email, password string) (model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || len(password) < 8 {
		return model.User{}, ErrInvalid
	}

	if existing, err := s.users.FindByUsername(ctx, username); err != nil {
		return model.User{}, fmt.Errorf("check username: %w", err)
	} else if existing != nil {
		return model.User{}, ErrConflict
	}
	if existing, err := s.users.FindByEmail(ctx, email); err != nil {
		return model.User{}, fmt.Errorf("check email: %w", err)
	} else if existing != nil {
		return model.User{}, ErrConflict
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	return s.users.Create(ctx, model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	})
}

func (s *authService) Login(ctx context.Context, username, password string) (string, model.User, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return "", model.User{}, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		// Same failure as a bad password so logins don't leak which
		// usernames exist.
		return "", model.User{}, ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", model.User{}, ErrUnauthorized
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return "", model.User{}, fmt.Errorf("issue token: %w", err)
	}
	return token, *user, nil
}

func (s *authService) issueToken(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ValidateToken checks signature and expiry and returns the caller identity.
func (s *authService) ValidateToken(token string) (model.AuthContext, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return model.AuthContext{}, ErrUnauthorized
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return model.AuthContext{}, ErrUnauthorized
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return model.AuthContext{}, ErrUnauthorized
	}

	return model.AuthContext{UserID: userID}, nil
}
