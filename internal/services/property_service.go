package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/arunanksharan/rivo/internal/dto"
	"github.com/arunanksharan/rivo/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const defaultListLimit = 20

// PropertyService implements listing CRUD with ownership and visibility
// checks, plus image upload/management against the object store.
type PropertyService struct {
	db      *gorm.DB
	storage ObjectStorage
	vision  Vision
	audio   Transcriber
}

func NewPropertyService(db *gorm.DB, storage ObjectStorage, vision Vision, audio Transcriber) *PropertyService {
	return &PropertyService{db: db, storage: storage, vision: vision, audio: audio}
}

// NormalizeCategory lowercases and validates a category against the
// fixed enum.
func NormalizeCategory(category string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(category))
	for _, c := range models.PropertyCategories {
		if normalized == c {
			return normalized, nil
		}
	}
	return "", fmt.Errorf("%w: category must be one of: %s",
		ErrValidation, strings.Join(models.PropertyCategories, ", "))
}

func (s *PropertyService) Create(owner *models.User, req *dto.PropertyCreateRequest) (*models.Property, error) {
	title := strings.TrimSpace(req.Title)
	if len(title) < 3 {
		return nil, fmt.Errorf("%w: title must be at least 3 characters", ErrValidation)
	}

	category, err := NormalizeCategory(req.Category)
	if err != nil {
		return nil, err
	}

	published := true
	if req.IsPublished != nil {
		published = *req.IsPublished
	}

	property := models.Property{
		UserID:      owner.ID,
		Title:       title,
		Description: req.Description,
		Category:    category,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		ZipCode:     req.ZipCode,
		Country:     req.Country,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Price:       req.Price,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		SquareFeet:  req.SquareFeet,
		YearBuilt:   req.YearBuilt,
		Features:    datatypes.NewJSONSlice(req.Features),
		IsPublished: published,
	}

	if err := s.db.Create(&property).Error; err != nil {
		return nil, fmt.Errorf("failed to create property: %w", err)
	}

	slog.Info("property created", "property_id", property.ID, "user_id", owner.ID)
	return &property, nil
}

// List returns published properties matching the filters, with images
// preloaded for the derived primary-image/count response fields.
// Unpublished properties never appear here, regardless of the caller.
func (s *PropertyService) List(filters *dto.PropertyFilters) ([]models.Property, error) {
	query := s.db.Model(&models.Property{}).
		Preload("Images").
		Where("is_published = ?", true)

	if filters.Category != "" {
		query = query.Where("category = ?", strings.ToLower(filters.Category))
	}
	if filters.MinPrice != nil {
		query = query.Where("price >= ?", *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		query = query.Where("price <= ?", *filters.MaxPrice)
	}
	if filters.Bedrooms != nil {
		query = query.Where("bedrooms = ?", *filters.Bedrooms)
	}
	if filters.Bathrooms != nil {
		query = query.Where("bathrooms = ?", *filters.Bathrooms)
	}
	if filters.City != "" {
		query = query.Where("LOWER(city) LIKE ?", "%"+strings.ToLower(filters.City)+"%")
	}
	if filters.State != "" {
		query = query.Where("LOWER(state) LIKE ?", "%"+strings.ToLower(filters.State)+"%")
	}
	if filters.Search != "" {
		term := "%" + strings.ToLower(filters.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", term, term)
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	skip := filters.Skip
	if skip < 0 {
		skip = 0
	}

	var properties []models.Property
	if err := query.Order("created_at DESC").Offset(skip).Limit(limit).Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

// Get returns a property by id. Unpublished properties are visible only to
// their owner; anonymous and non-owner callers get ErrForbidden, not an
// empty result.
func (s *PropertyService) Get(id uuid.UUID, caller *models.User) (*models.Property, error) {
	var property models.Property
	if err := s.db.Preload("Images").First(&property, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: property not found", ErrNotFound)
		}
		return nil, err
	}

	if !property.IsPublished {
		if caller == nil || property.UserID != caller.ID {
			return nil, fmt.Errorf("%w: property is not published", ErrForbidden)
		}
	}
	return &property, nil
}

// Update applies partial-update semantics: only non-nil fields overwrite.
func (s *PropertyService) Update(id uuid.UUID, caller *models.User, req *dto.PropertyUpdateRequest) (*models.Property, error) {
	property, err := s.getOwned(id, caller)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if len(title) < 3 {
			return nil, fmt.Errorf("%w: title must be at least 3 characters", ErrValidation)
		}
		property.Title = title
	}
	if req.Category != nil {
		category, err := NormalizeCategory(*req.Category)
		if err != nil {
			return nil, err
		}
		property.Category = category
	}
	if req.Description != nil {
		property.Description = *req.Description
	}
	if req.Address != nil {
		property.Address = *req.Address
	}
	if req.City != nil {
		property.City = *req.City
	}
	if req.State != nil {
		property.State = *req.State
	}
	if req.ZipCode != nil {
		property.ZipCode = *req.ZipCode
	}
	if req.Country != nil {
		property.Country = *req.Country
	}
	if req.Latitude != nil {
		property.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		property.Longitude = req.Longitude
	}
	if req.Price != nil {
		property.Price = req.Price
	}
	if req.Bedrooms != nil {
		property.Bedrooms = req.Bedrooms
	}
	if req.Bathrooms != nil {
		property.Bathrooms = req.Bathrooms
	}
	if req.SquareFeet != nil {
		property.SquareFeet = req.SquareFeet
	}
	if req.YearBuilt != nil {
		property.YearBuilt = req.YearBuilt
	}
	if req.Features != nil {
		property.Features = datatypes.NewJSONSlice(*req.Features)
	}
	if req.IsPublished != nil {
		property.IsPublished = *req.IsPublished
	}

	if err := s.db.Save(property).Error; err != nil {
		return nil, fmt.Errorf("failed to update property: %w", err)
	}

	slog.Info("property updated", "property_id", property.ID)
	return property, nil
}

// Delete removes a property and its images. Stored objects are cleaned up
// best-effort after the database delete; the row delete cascades to images.
func (s *PropertyService) Delete(ctx context.Context, id uuid.UUID, caller *models.User) error {
	property, err := s.getOwned(id, caller)
	if err != nil {
		return err
	}

	var images []models.PropertyImage
	if err := s.db.Where("property_id = ?", id).Find(&images).Error; err != nil {
		return err
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("property_id = ?", id).Delete(&models.PropertyImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(property).Error
	}); err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}

	for _, img := range images {
		s.storage.Delete(ctx, img.StoragePath)
		if img.VoiceNotePath != nil {
			s.storage.Delete(ctx, *img.VoiceNotePath)
		}
	}

	slog.Info("property deleted", "property_id", id)
	return nil
}

// ImageUpload carries one multipart file plus its metadata.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
	Caption     *string
	IsPrimary   bool
}

// UploadImage stores the file at properties/{id}/{filename}, captions it
// fail-soft, and inserts the row. When the new image is primary, sibling
// primary flags are cleared in the same transaction as the insert so the
// at-most-one-primary invariant holds under concurrent uploads.
func (s *PropertyService) UploadImage(ctx context.Context, propertyID uuid.UUID, caller *models.User, upload *ImageUpload) (*models.PropertyImage, error) {
	property, err := s.getOwned(propertyID, caller)
	if err != nil {
		return nil, err
	}

	storagePath := fmt.Sprintf("properties/%s/%s", property.ID, path.Base(upload.Filename))
	url, err := s.storage.Upload(ctx, storagePath, upload.ContentType, upload.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	// Captioning is enrichment only; an AI outage must not block the upload.
	var aiDescription *string
	description := s.vision.DescribeImage(ctx, url)
	if description.Description != "" {
		text := description.Description
		if description.Title != "" {
			text = description.Title + "\n" + description.Description
		}
		aiDescription = &text
	}

	image := models.PropertyImage{
		PropertyID:             property.ID,
		StoragePath:            storagePath,
		URL:                    url,
		Caption:                upload.Caption,
		AIGeneratedDescription: aiDescription,
		IsPrimary:              upload.IsPrimary,
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if upload.IsPrimary {
			if err := tx.Model(&models.PropertyImage{}).
				Where("property_id = ?", property.ID).
				Update("is_primary", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&image).Error
	}); err != nil {
		s.storage.Delete(ctx, storagePath)
		return nil, fmt.Errorf("failed to save image: %w", err)
	}

	slog.Info("image uploaded", "property_id", property.ID, "image_id", image.ID, "primary", image.IsPrimary)
	return &image, nil
}

// ListImages returns a property's images, primary first then oldest first.
// Parent visibility rules match Get.
func (s *PropertyService) ListImages(propertyID uuid.UUID, caller *models.User) ([]models.PropertyImage, error) {
	if _, err := s.Get(propertyID, caller); err != nil {
		return nil, err
	}

	var images []models.PropertyImage
	err := s.db.Where("property_id = ?", propertyID).
		Order("is_primary DESC, created_at ASC").
		Find(&images).Error
	if err != nil {
		return nil, err
	}
	return images, nil
}

// DeleteImage removes one image row and best-effort deletes its objects.
func (s *PropertyService) DeleteImage(ctx context.Context, propertyID, imageID uuid.UUID, caller *models.User) error {
	if _, err := s.getOwned(propertyID, caller); err != nil {
		return err
	}

	var image models.PropertyImage
	if err := s.db.First(&image, "id = ? AND property_id = ?", imageID, propertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: image not found", ErrNotFound)
		}
		return err
	}

	if err := s.db.Delete(&image).Error; err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	s.storage.Delete(ctx, image.StoragePath)
	if image.VoiceNotePath != nil {
		s.storage.Delete(ctx, *image.VoiceNotePath)
	}
	return nil
}

// AttachVoiceNote stores an audio note against an image and transcribes it
// fail-soft; an empty transcription still persists the stored path.
func (s *PropertyService) AttachVoiceNote(ctx context.Context, propertyID, imageID uuid.UUID, caller *models.User, filename, contentType string, audio []byte) (*models.PropertyImage, error) {
	if _, err := s.getOwned(propertyID, caller); err != nil {
		return nil, err
	}

	var image models.PropertyImage
	if err := s.db.First(&image, "id = ? AND property_id = ?", imageID, propertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: image not found", ErrNotFound)
		}
		return nil, err
	}

	notePath := fmt.Sprintf("properties/%s/voice_notes/%s", propertyID, path.Base(filename))
	_, err := s.storage.Upload(ctx, notePath, contentType, audio)
	if err != nil {
		return nil, fmt.Errorf("failed to upload voice note: %w", err)
	}

	text := s.audio.Transcribe(ctx, filename, audio)

	image.VoiceNotePath = &notePath
	if text != "" {
		image.VoiceNoteText = &text
	}
	if err := s.db.Save(&image).Error; err != nil {
		return nil, fmt.Errorf("failed to save voice note: %w", err)
	}
	return &image, nil
}

// getOwned loads a property and enforces that caller owns it.
func (s *PropertyService) getOwned(id uuid.UUID, caller *models.User) (*models.Property, error) {
	var property models.Property
	if err := s.db.First(&property, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: property not found", ErrNotFound)
		}
		return nil, err
	}
	if property.UserID != caller.ID {
		return nil, fmt.Errorf("%w: not the property owner", ErrForbidden)
	}
	return &property, nil
}
