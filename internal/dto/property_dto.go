package dto

import (
	"time"

	"github.com/google/uuid"
)

type PropertyCreateRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Address     string   `json:"address"`
	City        string   `json:"city"`
	State       string   `json:"state"`
	ZipCode     string   `json:"zip_code"`
	Country     string   `json:"country"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Price       *float64 `json:"price"`
	Bedrooms    *float64 `json:"bedrooms"`
	Bathrooms   *float64 `json:"bathrooms"`
	SquareFeet  *float64 `json:"square_feet"`
	YearBuilt   *int     `json:"year_built"`
	Features    []string `json:"features"`
	IsPublished *bool    `json:"is_published"`
}

// PropertyUpdateRequest carries PATCH semantics: only non-nil fields are
// applied to the stored row.
type PropertyUpdateRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Address     *string   `json:"address"`
	City        *string   `json:"city"`
	State       *string   `json:"state"`
	ZipCode     *string   `json:"zip_code"`
	Country     *string   `json:"country"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	Price       *float64  `json:"price"`
	Bedrooms    *float64  `json:"bedrooms"`
	Bathrooms   *float64  `json:"bathrooms"`
	SquareFeet  *float64  `json:"square_feet"`
	YearBuilt   *int      `json:"year_built"`
	Features    *[]string `json:"features"`
	IsPublished *bool     `json:"is_published"`
}

type PropertyFilters struct {
	Category  string
	MinPrice  *float64
	MaxPrice  *float64
	Bedrooms  *float64
	Bathrooms *float64
	City      string
	State     string
	Search    string
	Skip      int
	Limit     int
}

type PropertyResponse struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	Address         string    `json:"address"`
	City            string    `json:"city"`
	State           string    `json:"state"`
	ZipCode         string    `json:"zip_code"`
	Country         string    `json:"country"`
	Latitude        *float64  `json:"latitude"`
	Longitude       *float64  `json:"longitude"`
	Price           *float64  `json:"price"`
	Bedrooms        *float64  `json:"bedrooms"`
	Bathrooms       *float64  `json:"bathrooms"`
	SquareFeet      *float64  `json:"square_feet"`
	YearBuilt       *int      `json:"year_built"`
	Features        []string  `json:"features"`
	IsPublished     bool      `json:"is_published"`
	PrimaryImageURL *string   `json:"primary_image_url"`
	ImageCount      int       `json:"image_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type PropertyImageResponse struct {
	ID                     uuid.UUID `json:"id"`
	PropertyID             uuid.UUID `json:"property_id"`
	StoragePath            string    `json:"storage_path"`
	URL                    string    `json:"url"`
	Caption                *string   `json:"caption"`
	AIGeneratedDescription *string   `json:"ai_generated_description"`
	VoiceNoteText          *string   `json:"voice_note_text"`
	VoiceNotePath          *string   `json:"voice_note_path"`
	IsPrimary              bool      `json:"is_primary"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}
