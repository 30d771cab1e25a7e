package handlers

import (
	"io"
	"strconv"

	"github.com/arunanksharan/rivo/internal/dto"
	"github.com/arunanksharan/rivo/internal/middleware"
	"github.com/arunanksharan/rivo/internal/models"
	"github.com/arunanksharan/rivo/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const maxUploadBytes = 20 << 20 // 20 MiB per file

type PropertyHandler struct {
	properties *services.PropertyService
}

func NewPropertyHandler(properties *services.PropertyService) *PropertyHandler {
	return &PropertyHandler{properties: properties}
}

func (h *PropertyHandler) Create(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	var req dto.PropertyCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	property, err := h.properties.Create(user, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(propertyResponse(property))
}

func (h *PropertyHandler) List(c *fiber.Ctx) error {
	filters := dto.PropertyFilters{
		Category: c.Query("category"),
		City:     c.Query("city"),
		State:    c.Query("state"),
		Search:   c.Query("search"),
		Skip:     c.QueryInt("skip", 0),
		Limit:    c.QueryInt("limit", 0),
	}
	filters.MinPrice = queryFloat(c, "min_price")
	filters.MaxPrice = queryFloat(c, "max_price")
	filters.Bedrooms = queryFloat(c, "bedrooms")
	filters.Bathrooms = queryFloat(c, "bathrooms")

	properties, err := h.properties.List(&filters)
	if err != nil {
		return serviceError(c, err)
	}

	out := make([]dto.PropertyResponse, 0, len(properties))
	for i := range properties {
		out = append(out, propertyResponse(&properties[i]))
	}
	return c.JSON(out)
}

func (h *PropertyHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid property id")
	}

	property, err := h.properties.Get(id, middleware.CurrentUser(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(propertyResponse(property))
}

func (h *PropertyHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid property id")
	}

	var req dto.PropertyUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	property, err := h.properties.Update(id, middleware.CurrentUser(c), &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(propertyResponse(property))
}

func (h *PropertyHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid property id")
	}

	if err := h.properties.Delete(c.Context(), id, middleware.CurrentUser(c)); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Property deleted successfully"})
}

func (h *PropertyHandler) UploadImage(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid property id")
	}

	filename, contentType, data, err := readUpload(c, "file")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, err.Error())
	}

	upload := services.ImageUpload{
		Filename:    filename,
		ContentType: contentType,
		Data:        data,
		IsPrimary:   c.FormValue("is_primary") == "true",
	}
	if caption := c.FormValue("caption"); caption != "" {
		upload.Caption = &caption
	}

	image, err := h.properties.UploadImage(c.Context(), id, middleware.CurrentUser(c), &upload)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(imageResponse(image))
}

func (h *PropertyHandler) ListImages(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid property id")
	}

	images, err := h.properties.ListImages(id, middleware.CurrentUser(c))
	if err != nil {
		return serviceError(c, err)
	}

	out := make([]dto.PropertyImageResponse, 0, len(images))
	for i := range images {
		out = append(out, imageResponse(&images[i]))
	}
	return c.JSON(out)
}

func (h *PropertyHandler) DeleteImage(c *fiber.Ctx) error {
	propertyID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid property id")
	}
	imageID, err := parseID(c, "imageId")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid image id")
	}

	if err := h.properties.DeleteImage(c.Context(), propertyID, imageID, middleware.CurrentUser(c)); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Image deleted successfully"})
}

func (h *PropertyHandler) AttachVoiceNote(c *fiber.Ctx) error {
	propertyID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid property id")
	}
	imageID, err := parseID(c, "imageId")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid image id")
	}

	filename, contentType, data, err := readUpload(c, "file")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, err.Error())
	}

	image, err := h.properties.AttachVoiceNote(c.Context(), propertyID, imageID, middleware.CurrentUser(c), filename, contentType, data)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(imageResponse(image))
}

func propertyResponse(p *models.Property) dto.PropertyResponse {
	resp := dto.PropertyResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		Address:     p.Address,
		City:        p.City,
		State:       p.State,
		ZipCode:     p.ZipCode,
		Country:     p.Country,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		Price:       p.Price,
		Bedrooms:    p.Bedrooms,
		Bathrooms:   p.Bathrooms,
		SquareFeet:  p.SquareFeet,
		YearBuilt:   p.YearBuilt,
		Features:    []string(p.Features),
		IsPublished: p.IsPublished,
		ImageCount:  len(p.Images),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if primary := p.PrimaryImage(); primary != nil {
		resp.PrimaryImageURL = &primary.URL
	}
	return resp
}

func imageResponse(img *models.PropertyImage) dto.PropertyImageResponse {
	return dto.PropertyImageResponse{
		ID:                     img.ID,
		PropertyID:             img.PropertyID,
		StoragePath:            img.StoragePath,
		URL:                    img.URL,
		Caption:                img.Caption,
		AIGeneratedDescription: img.AIGeneratedDescription,
		VoiceNoteText:          img.VoiceNoteText,
		VoiceNotePath:          img.VoiceNotePath,
		IsPrimary:              img.IsPrimary,
		CreatedAt:              img.CreatedAt,
		UpdatedAt:              img.UpdatedAt,
	}
}

func parseID(c *fiber.Ctx, param string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(param))
}

func queryFloat(c *fiber.Ctx, key string) *float64 {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

// readUpload pulls one multipart file into memory with a size cap.
func readUpload(c *fiber.Ctx, field string) (filename, contentType string, data []byte, err error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return "", "", nil, fiber.NewError(fiber.StatusBadRequest, "file is required")
	}
	if fileHeader.Size > maxUploadBytes {
		return "", "", nil, fiber.NewError(fiber.StatusBadRequest, "file too large")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return "", "", nil, err
	}
	defer f.Close()

	data, err = io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		return "", "", nil, err
	}

	contentType = fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return fileHeader.Filename, contentType, data, nil
}
