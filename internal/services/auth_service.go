package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/config"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/dto"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/form"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = apperr.ErrEmailTaken
	ErrInvalidCredentials = apperr.ErrInvalidCredentials
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
)

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(req *dto.RegisterRequest) (resp *dto.AuthResponse, err error) {
	defer func() { metrics.RecordAuth("register", err) }()

	email := normalizeEmail(req.Email)
	if err := form.ValidateCredentials(email, req.Password); err != nil {
		return nil, err
	}

	var taken int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&taken).Error; err != nil {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}
	if taken > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Email:    email,
		Password: string(hash),
	}
	if err := s.insertUser(&user); err != nil {
		return nil, err
	}

	return s.generateTokenPair(s.db, &user)
}

// insertUser relies on the unique email index when two sign-ups race past
// the lookup.
func (s *AuthService) insertUser(user *models.User) error {
	err := s.db.Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *AuthService) Login(req *dto.LoginRequest) (resp *dto.AuthResponse, err error) {
	defer func() { metrics.RecordAuth("login", err) }()

	var user models.User
	if err := s.db.Where("email = ?", normalizeEmail(req.Email)).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokenPair(s.db, &user)
}

// Refresh rotates a refresh token: the presented one is revoked and a new
// pair is issued. A token can be rotated once; concurrent presentations of
// the same token yield a single new pair.
func (s *AuthService) Refresh(req *dto.RefreshRequest) (resp *dto.AuthResponse, err error) {
	defer func() { metrics.RecordAuth("refresh", err) }()

	tokenHash := hashToken(req.RefreshToken)
	expired := false

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var stored models.RefreshToken
		err := tx.Where("token_hash = ? AND revoked = ?", tokenHash, false).First(&stored).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidToken
		}
		if err != nil {
			return fmt.Errorf("failed to look up refresh token: %w", err)
		}

		if err := revokeOnce(tx, stored.ID); err != nil {
			return err
		}
		if time.Now().After(stored.ExpiresAt) {
			// Commit the revocation, then refuse.
			expired = true
			return nil
		}

		var user models.User
		if err := tx.First(&user, "id = ?", stored.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidToken
			}
			return fmt.Errorf("failed to load user: %w", err)
		}

		resp, err = s.generateTokenPair(tx, &user)
		return err
	})
	if err != nil {
		return nil, err
	}
	if expired {
		return nil, ErrInvalidToken
	}
	return resp, nil
}

// revokeOnce flips the revoked flag of an active token. It fails with
// ErrInvalidToken when another request revoked it first.
func revokeOnce(tx *gorm.DB, id uuid.UUID) error {
	res := tx.Model(&models.RefreshToken{}).
		Where("id = ? AND revoked = ?", id, false).
		Update("revoked", true)
	if res.Error != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", res.Error)
	}
	if res.RowsAffected != 1 {
		return ErrInvalidToken
	}
	return nil
}

// Logout revokes the refresh token if it belongs to userID.
func (s *AuthService) Logout(userID uuid.UUID, req *dto.LogoutRequest) (err error) {
	defer func() { metrics.RecordAuth("logout", err) }()

	return s.db.Model(&models.RefreshToken{}).
		Where("token_hash = ? AND user_id = ?", hashToken(req.RefreshToken), userID).
		Update("revoked", true).Error
}

func (s *AuthService) generateTokenPair(db *gorm.DB, user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(db, user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: dto.UserResponse{
			ID:    user.ID,
			Email: user.Email,
		},
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateRefreshToken(db *gorm.DB, user *models.User) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)

	record := models.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}
	if err := db.Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return rawToken, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
