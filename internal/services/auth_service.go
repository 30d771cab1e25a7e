package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/arunanksharan/rivo/internal/dto"
	"github.com/arunanksharan/rivo/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService owns registration, login, token refresh and the
// reconciliation of Google identities into local user records.
type AuthService struct {
	db     *gorm.DB
	tokens *TokenManager
	google *GoogleOAuth
}

func NewAuthService(db *gorm.DB, tokens *TokenManager, google *GoogleOAuth) *AuthService {
	return &AuthService{db: db, tokens: tokens, google: google}
}

func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}
	if len(req.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	hashStr := string(hash)
	user := models.User{
		Email:          email,
		HashedPassword: &hashStr,
		FullName:       req.FullName,
		AuthProvider:   "email",
		IsActive:       true,
	}
	if err := s.db.Create(&user).Error; err != nil {
		if translated := translateDBError(err); errors.Is(translated, ErrDuplicateEmail) {
			return nil, translated
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID, "provider", "email")
	return s.tokenPair(&user)
}

func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Username))

	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.HashedPassword == nil {
		// Google-only account, no password to check against.
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.HashedPassword), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.tokenPair(&user)
}

func (s *AuthService) Refresh(refreshToken string) (*dto.AuthResponse, error) {
	userID, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrInvalidToken
	}

	return s.tokenPair(&user)
}

// Me resolves the user record behind a token subject.
func (s *AuthService) Me(userID string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GoogleAuthURL builds the consent URL for the frontend to redirect to.
func (s *AuthService) GoogleAuthURL(state, redirectURI string) string {
	return s.google.AuthCodeURL(state, redirectURI)
}

// GoogleSignIn completes the OAuth code flow: exchange the code, fetch the
// profile and reconcile it into a local user.
func (s *AuthService) GoogleSignIn(ctx context.Context, req *dto.GoogleCallbackRequest) (*dto.AuthResponse, error) {
	if req.Code == "" {
		return nil, fmt.Errorf("%w: authorization code is required", ErrValidation)
	}

	accessToken, err := s.google.Exchange(ctx, req.Code, req.RedirectURI)
	if err != nil {
		return nil, err
	}

	profile, err := s.google.FetchProfile(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	user, err := s.ReconcileGoogle(profile)
	if err != nil {
		return nil, err
	}

	return s.tokenPair(user)
}

// ReconcileGoogle maps a Google identity assertion to a local user:
// lookup by google_id first, then by email (backfilling the google_id),
// creating a fresh record when neither matches. Idempotent.
func (s *AuthService) ReconcileGoogle(profile *GoogleProfile) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(profile.Email))

	var user models.User
	err := s.db.Where("google_id = ?", profile.Sub).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = s.db.Where("email = ?", email).First(&user).Error
	if err == nil {
		if user.GoogleID == nil {
			if err := s.db.Model(&user).Update("google_id", profile.Sub).Error; err != nil {
				return nil, fmt.Errorf("failed to link Google identity: %w", err)
			}
			sub := profile.Sub
			user.GoogleID = &sub
		}
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	sub := profile.Sub
	user = models.User{
		Email:        email,
		FullName:     profile.Name,
		AuthProvider: "google",
		GoogleID:     &sub,
		IsActive:     true,
	}
	if err := s.db.Create(&user).Error; err != nil {
		// A concurrent sign-in for the same identity can win the insert;
		// fall back to reading the winner's row.
		if errors.Is(translateDBError(err), ErrDuplicateEmail) {
			var existing models.User
			if lookupErr := s.db.Where("google_id = ? OR email = ?", profile.Sub, email).First(&existing).Error; lookupErr == nil {
				return &existing, nil
			}
		}
		return nil, fmt.Errorf("failed to create Google user: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID, "provider", "google")
	return &user, nil
}

func (s *AuthService) tokenPair(user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := s.tokens.IssueAccessToken(user.ID)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		User:         NewUserResponse(user),
	}, nil
}

// NewUserResponse shapes a user row for API responses.
func NewUserResponse(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		FullName:     user.FullName,
		AuthProvider: user.AuthProvider,
		IsActive:     user.IsActive,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}
