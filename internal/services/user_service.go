package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/arunanksharan/rivo/internal/dto"
	"github.com/arunanksharan/rivo/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserService exposes the user directory and self-service profile updates.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) List(skip, limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if skip < 0 {
		skip = 0
	}

	var users []models.User
	if err := s.db.Order("created_at DESC").Offset(skip).Limit(limit).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserService) Get(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

// Update lets a user edit their own profile only. Email changes must keep
// the unique-email invariant.
func (s *UserService) Update(id uuid.UUID, caller *models.User, req *dto.UserUpdateRequest) (*models.User, error) {
	if caller.ID != id {
		return nil, fmt.Errorf("%w: cannot update another user's profile", ErrForbidden)
	}

	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email == "" {
			return nil, fmt.Errorf("%w: email cannot be empty", ErrValidation)
		}
		if email != user.Email {
			var existing models.User
			if err := s.db.Where("email = ? AND id != ?", email, id).First(&existing).Error; err == nil {
				return nil, ErrDuplicateEmail
			}
			user.Email = email
		}
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}

	if err := s.db.Save(user).Error; err != nil {
		if translated := translateDBError(err); errors.Is(translated, ErrDuplicateEmail) {
			return nil, translated
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	slog.Info("user updated", "user_id", user.ID)
	return user, nil
}
