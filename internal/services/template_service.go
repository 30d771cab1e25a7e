package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/arunanksharan/rivo/internal/dto"
	"github.com/arunanksharan/rivo/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TemplateService is owner-scoped CRUD over email templates. Users only
// ever see their own templates; there is no sharing model.
type TemplateService struct {
	db *gorm.DB
}

func NewTemplateService(db *gorm.DB) *TemplateService {
	return &TemplateService{db: db}
}

func (s *TemplateService) List(owner *models.User) ([]models.EmailTemplate, error) {
	var templates []models.EmailTemplate
	err := s.db.Where("user_id = ?", owner.ID).
		Order("created_at DESC").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

func (s *TemplateService) Create(owner *models.User, req *dto.EmailTemplateCreateRequest) (*models.EmailTemplate, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: template name is required", ErrValidation)
	}
	if strings.TrimSpace(req.Subject) == "" {
		return nil, fmt.Errorf("%w: template subject is required", ErrValidation)
	}
	if strings.TrimSpace(req.Body) == "" {
		return nil, fmt.Errorf("%w: template body is required", ErrValidation)
	}

	template := models.EmailTemplate{
		UserID:    owner.ID,
		Name:      name,
		Subject:   req.Subject,
		Body:      req.Body,
		IsDefault: req.IsDefault,
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if template.IsDefault {
			if err := tx.Model(&models.EmailTemplate{}).
				Where("user_id = ?", owner.ID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&template).Error
	}); err != nil {
		return nil, fmt.Errorf("failed to create email template: %w", err)
	}
	return &template, nil
}

func (s *TemplateService) Get(id uuid.UUID, owner *models.User) (*models.EmailTemplate, error) {
	var template models.EmailTemplate
	if err := s.db.First(&template, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: email template not found", ErrNotFound)
		}
		return nil, err
	}
	if template.UserID != owner.ID {
		return nil, fmt.Errorf("%w: not the template owner", ErrForbidden)
	}
	return &template, nil
}

func (s *TemplateService) Update(id uuid.UUID, owner *models.User, req *dto.EmailTemplateUpdateRequest) (*models.EmailTemplate, error) {
	template, err := s.Get(id, owner)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: template name cannot be empty", ErrValidation)
		}
		template.Name = name
	}
	if req.Subject != nil {
		template.Subject = *req.Subject
	}
	if req.Body != nil {
		template.Body = *req.Body
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if req.IsDefault != nil {
			if *req.IsDefault && !template.IsDefault {
				if err := tx.Model(&models.EmailTemplate{}).
					Where("user_id = ? AND id != ?", owner.ID, template.ID).
					Update("is_default", false).Error; err != nil {
					return err
				}
			}
			template.IsDefault = *req.IsDefault
		}
		return tx.Save(template).Error
	}); err != nil {
		return nil, fmt.Errorf("failed to update email template: %w", err)
	}
	return template, nil
}

func (s *TemplateService) Delete(id uuid.UUID, owner *models.User) error {
	template, err := s.Get(id, owner)
	if err != nil {
		return err
	}
	if err := s.db.Delete(template).Error; err != nil {
		return fmt.Errorf("failed to delete email template: %w", err)
	}
	return nil
}
