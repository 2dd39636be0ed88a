package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/wifight/wifight/internal/domain"
	"github.com/wifight/wifight/internal/ports"
	"github.com/wifight/wifight/pkg/config"
)

// Claims are the JWT claims carried by an access token.
type Claims struct {
	jwt.RegisteredClaims
	Role       string `json:"role"`
	LocationID string `json:"location_id,omitempty"`
}

type Service struct {
	users ports.UserRepository
	cfg   config.JWTConfig
	log   *zap.Logger
}

func NewService(users ports.UserRepository, cfg config.JWTConfig, log *zap.Logger) ports.AuthService {
	return &Service{
		users: users,
		cfg:   cfg,
		log:   log,
	}
}

func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.cfg.Issuer,
			ID:        uuid.New().String(),
		},
		Role:       string(user.Role),
		LocationID: user.LocationID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}

	s.log.Info("User logged in", zap.String("user_id", user.ID))
	return signed, nil
}

func (s *Service) Register(ctx context.Context, user *domain.User) error {
	if user.Email == "" || !domain.ValidEmail(user.Email) {
		return fmt.Errorf("%w: a valid email is required", domain.ErrInvalidInput)
	}
	if len(user.Password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", domain.ErrInvalidInput)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = domain.UserRoleOperator
	}
	if user.Status == "" {
		user.Status = "active"
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	if err := s.users.Save(ctx, user); err != nil {
		return err
	}

	s.log.Info("User registered", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return nil
}

func (s *Service) ValidateToken(ctx context.Context, tokenStr string) (*domain.User, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrAuthenticationFailed
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return nil, domain.ErrAuthenticationFailed
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrAuthenticationFailed
	}
	return user, nil
}
