package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"hotel-ops/apperr"
	"hotel-ops/auth"
	"hotel-ops/metrics"
	"hotel-ops/models"
)

const (
	invalidCredentials    = "invalid credentials"
	couldNotValidateToken = "could not validate credentials"
)

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// AuthService turns credentials into bearer tokens and bearer tokens back
// into users.
type AuthService struct {
	DB      *gorm.DB
	Tokens  *auth.Tokens
	Revoker auth.Revoker
	log     zerolog.Logger

	// compared against when the username is unknown so both failure paths
	// pay for one bcrypt comparison
	dummyHash []byte
}

func NewAuthService(db *gorm.DB, tokens *auth.Tokens, revoker auth.Revoker, log zerolog.Logger) (*AuthService, error) {
	if revoker == nil {
		revoker = auth.NopRevoker{}
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash placeholder password: %w", err)
	}
	return &AuthService{
		DB:        db,
		Tokens:    tokens,
		Revoker:   revoker,
		log:       log.With().Str("component", "auth").Logger(),
		dummyHash: dummy,
	}, nil
}

// Authenticate checks a username and password. Unknown users and wrong
// passwords produce the same error.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*TokenResponse, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		metrics.LoginAttempts.WithLabelValues("rejected").Inc()
		return nil, apperr.Unauthorized(invalidCredentials)
	}

	var user models.User
	err := s.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal(err, "failed to load user")
	}
	if err != nil {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		metrics.LoginAttempts.WithLabelValues("rejected").Inc()
		s.log.Info().Str("username", username).Msg("login rejected")
		return nil, apperr.Unauthorized(invalidCredentials)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)) != nil {
		metrics.LoginAttempts.WithLabelValues("rejected").Inc()
		s.log.Info().Str("username", username).Msg("login rejected")
		return nil, apperr.Unauthorized(invalidCredentials)
	}

	token, _, err := s.Tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		return nil, apperr.Internal(err, "failed to issue token")
	}
	metrics.LoginAttempts.WithLabelValues("success").Inc()
	s.log.Info().Uint("user_id", user.ID).Msg("login succeeded")
	return &TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

// Resolve maps a bearer token to its user. Expired, revoked or malformed
// tokens and tokens of deleted users all fail the same way.
func (s *AuthService) Resolve(ctx context.Context, raw string) (*models.User, *auth.Claims, error) {
	claims, err := s.Tokens.Parse(raw)
	if err != nil {
		return nil, nil, apperr.Unauthorized(couldNotValidateToken)
	}

	revoked, err := s.Revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.log.Error().Err(err).Msg("revocation lookup failed")
		return nil, nil, apperr.Unauthorized(couldNotValidateToken)
	}
	if revoked {
		return nil, nil, apperr.Unauthorized(couldNotValidateToken)
	}

	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, claims.UserID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Error().Err(err).Uint("user_id", claims.UserID).Msg("user lookup failed")
		}
		return nil, nil, apperr.Unauthorized(couldNotValidateToken)
	}
	return &user, claims, nil
}

// Logout revokes the token until its expiry.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return apperr.Unauthorized(couldNotValidateToken)
	}
	until := time.Now()
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	if err := s.Revoker.Revoke(ctx, claims.ID, until); err != nil {
		return apperr.Internal(err, "failed to revoke token")
	}
	s.log.Info().Uint("user_id", claims.UserID).Msg("logged out")
	return nil
}
