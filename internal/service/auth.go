package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/vlasovm/shop_backend/internal/hash"
	"github.com/vlasovm/shop_backend/internal/logging"
	"github.com/vlasovm/shop_backend/internal/models"
	"github.com/vlasovm/shop_backend/internal/mykafka"
	"github.com/vlasovm/shop_backend/internal/repo"
	"github.com/vlasovm/shop_backend/internal/tokens"
	"github.com/vlasovm/shop_backend/internal/transport"
)

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
	Producer      *mykafka.Producer
}

type TokenPair struct {
	Access  string
	Refresh string
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if req.Email == "" {
		return nil, newError(ErrValidation, "Email is required.")
	}
	if req.Username == "" {
		return nil, newError(ErrValidation, "Username is required.")
	}
	if req.FirstName == "" {
		return nil, newError(ErrValidation, "First name is required.")
	}
	if req.LastName == "" {
		return nil, newError(ErrValidation, "Last name is required.")
	}
	if req.Password == "" {
		return nil, newError(ErrValidation, "Password is required.")
	}
	if req.Password != req.RePassword {
		return nil, newError(ErrValidation, "Passwords do not match.")
	}

	taken, err := s.Repo.EmailOrUsernameTaken(ctx, req.Email, req.Username)
	if err != nil {
		l.Error("register_error", "status", 500, "error", err)
		return nil, err
	}
	if taken {
		return nil, newError(ErrValidation, "A user with that email or username already exists.")
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: pwHash,
		IsActive:     true,
		DateJoined:   time.Now().UTC(),
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		l.Error("register_error", "status", 500, "error", err)
		return nil, err
	}

	s.publish(ctx, map[string]interface{}{
		"type":     "user_registered",
		"userID":   user.ID,
		"username": user.Username,
	}, fmt.Sprint(user.ID))

	l.Info("register_success", "userID", user.ID)
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// same detail as a wrong password, no account enumeration
			return nil, newError(ErrInvalidCredentials, "Invalid credentials")
		}
		l.Error("login_error", "status", 500, "error", err)
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, newError(ErrInvalidCredentials, "Invalid credentials")
	}

	now := time.Now().UTC()
	if err := s.Repo.TouchLastLogin(ctx, user.ID, now); err != nil {
		l.Error("login_error", "status", 500, "error", err)
		return nil, err
	}

	access, err := tokens.SignAccessToken(user.ID, s.JWTSecret, now.Add(tokens.AccessTTL))
	if err != nil {
		l.Error("login_error", "status", 500, "error", err)
		return nil, err
	}

	refreshExp := now.Add(tokens.RefreshTTL)
	refresh, jti, err := tokens.SignRefreshToken(user.ID, s.RefreshSecret, refreshExp)
	if err != nil {
		l.Error("login_error", "status", 500, "error", err)
		return nil, err
	}

	record := &models.RefreshToken{
		JTI:       jti,
		TokenHash: tokens.Sha256Hex(refresh),
		UserID:    user.ID,
		ExpiresAt: refreshExp.Unix(),
	}
	if err := s.Repo.AddRefresh(ctx, record); err != nil {
		l.Error("login_error", "status", 500, "error", err)
		return nil, err
	}

	s.publish(ctx, map[string]interface{}{
		"type":     "user_logged_in",
		"userID":   user.ID,
		"username": user.Username,
	}, fmt.Sprint(user.ID))

	l.Info("login_success", "userID", user.ID)
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// Logout revokes the refresh token's JTI so it can no longer be exchanged.
func (s *AuthService) Logout(ctx context.Context, rawRefresh string) error {
	record, err := s.validRefresh(ctx, rawRefresh)
	if err != nil {
		return err
	}
	if err := s.Repo.RevokeRefresh(ctx, record.JTI); err != nil {
		logging.FromContext(ctx).Error("logout_error", "status", 500, "error", err)
		return err
	}
	return nil
}

func (s *AuthService) Refresh(ctx context.Context, rawRefresh string) (string, error) {
	record, err := s.validRefresh(ctx, rawRefresh)
	if err != nil {
		return "", err
	}
	return tokens.SignAccessToken(record.UserID, s.JWTSecret, time.Now().UTC().Add(tokens.AccessTTL))
}

func (s *AuthService) validRefresh(ctx context.Context, rawRefresh string) (*models.RefreshToken, error) {
	claims, err := tokens.RefreshClaimsFromToken(rawRefresh, s.RefreshSecret)
	if err != nil {
		return nil, newError(ErrInvalidToken, "Token is invalid or expired")
	}

	record, err := s.Repo.RefreshByJTI(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrInvalidToken, "Token is invalid or expired")
		}
		logging.FromContext(ctx).Error("refresh_lookup_error", "status", 500, "error", err)
		return nil, err
	}

	if record.TokenHash != tokens.Sha256Hex(rawRefresh) ||
		record.Revoked ||
		record.ExpiresAt < time.Now().Unix() {
		return nil, newError(ErrInvalidToken, "Token is invalid or expired")
	}
	return record, nil
}

func (s *AuthService) publish(ctx context.Context, event map[string]interface{}, key string) {
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(pubCtx, "user_events", key, event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "error", err)
	}
}
