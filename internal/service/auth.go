package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"digistore/internal/apperr"
	"digistore/internal/config"
	"digistore/internal/dto"
	"digistore/internal/model"
	"digistore/internal/repository"
)

// SessionClaims is the payload of a login token. Subject carries the
// user id.
type SessionClaims struct {
	IsAdmin bool `json:"is_admin"`
	jwt.RegisteredClaims
}

// ParseSessionToken verifies a session token and returns its claims.
// The auth middleware uses it on every authenticated request.
func ParseSessionToken(secret, token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Profile(ctx context.Context, userID string) (*model.User, error)
	// EnsureAdmin seeds the administrator account on startup; an already
	// registered email wins and is left untouched.
	EnsureAdmin(ctx context.Context, email, password string) error
}

type authServiceImpl struct {
	userRepo repository.UserRepository
	cfg      config.Auth
	now      func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, cfg config.Auth) AuthService {
	return &authServiceImpl{
		userRepo: userRepo,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        strings.ToLower(req.Email),
		PasswordHash: string(hash),
		Name:         req.Name,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.InvalidState("email %s is already registered", user.Email)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.sessionResponse(user)
}

func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// same rejection as a wrong password; do not reveal which
			return nil, apperr.InvalidState("invalid email or password")
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperr.InvalidState("invalid email or password")
	}

	return s.sessionResponse(user)
}

func (s *authServiceImpl) Profile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user", userID)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *authServiceImpl) EnsureAdmin(ctx context.Context, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	user := &model.User{
		Email:        strings.ToLower(email),
		PasswordHash: string(hash),
		Name:         "Administrator",
		IsAdmin:      true,
	}
	err = s.userRepo.Create(ctx, user)
	if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("seed admin user: %w", err)
	}

	return nil
}

func (s *authServiceImpl) sessionResponse(user *model.User) (*dto.AuthResponse, error) {
	claims := &SessionClaims{
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ExpiresAt: jwt.NewNumericDate(s.now().Add(s.cfg.TokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	return &dto.AuthResponse{Token: token, User: user}, nil
}
