// Package token issues access/refresh token pairs and rotates the
// server-stored refresh tokens.
package token

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/artfit-app/backend/internal/apperr"
	"github.com/artfit-app/backend/internal/models"
	"github.com/artfit-app/backend/internal/utils"
)

// Pair bundles a short-lived access token and a long-lived refresh token.
type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Service struct {
	db         *gorm.DB
	secret     string
	accessMin  int
	refreshTTL time.Duration
}

func NewService(db *gorm.DB, secret string, accessMin int, refreshTTL time.Duration) *Service {
	return &Service{db: db, secret: secret, accessMin: accessMin, refreshTTL: refreshTTL}
}

// AccessTokenMaxAge is the cookie lifetime in seconds.
func (s *Service) AccessTokenMaxAge() int { return s.accessMin * 60 }

// Issue mints a token pair for the user and persists the refresh half.
func (s *Service) Issue(ctx context.Context, userID uuid.UUID, role models.Role) (*Pair, error) {
	return s.issue(s.db.WithContext(ctx), userID, role)
}

// Refresh validates the presented refresh token, rotates it transactionally
// and returns a fresh pair. Unknown or expired tokens yield ErrAuth.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*Pair, error) {
	var stored models.RefreshToken
	err := s.db.WithContext(ctx).Where("token = ?", refreshToken).First(&stored).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: unknown refresh token", apperr.ErrAuth)
	}
	if err != nil {
		return nil, err
	}
	if stored.ExpiresAt.Before(time.Now()) {
		_ = s.db.WithContext(ctx).Delete(&stored).Error
		return nil, fmt.Errorf("%w: refresh token expired", apperr.ErrAuth)
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", stored.UserID).Error; err != nil {
		return nil, fmt.Errorf("%w: account no longer exists", apperr.ErrAuth)
	}

	var pair *Pair
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.RefreshToken{}, "token = ?", refreshToken).Error; err != nil {
			return err
		}
		var issueErr error
		pair, issueErr = s.issue(tx, user.ID, user.Role)
		return issueErr
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Revoke deletes the presented refresh token. Unknown tokens are a no-op.
func (s *Service) Revoke(ctx context.Context, refreshToken string) error {
	return s.db.WithContext(ctx).Delete(&models.RefreshToken{}, "token = ?", refreshToken).Error
}

func (s *Service) issue(tx *gorm.DB, userID uuid.UUID, role models.Role) (*Pair, error) {
	access, err := utils.SignJWT(s.secret, userID.String(), string(role), s.accessMin)
	if err != nil {
		return nil, err
	}

	refresh, err := randomHex(32)
	if err != nil {
		return nil, err
	}

	row := models.RefreshToken{
		UserID:    userID,
		Token:     refresh,
		ExpiresAt: time.Now().Add(s.refreshTTL),
	}
	if err := tx.Create(&row).Error; err != nil {
		return nil, err
	}

	return &Pair{AccessToken: access, RefreshToken: refresh}, nil
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
