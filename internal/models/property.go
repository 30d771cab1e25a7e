package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PropertyCategories is the fixed set of allowed listing categories.
// Input is normalized to lowercase before validation.
var PropertyCategories = []string{
	"residential", "commercial", "land", "industrial",
	"apartment", "house", "condo", "townhouse", "other",
}

type Property struct {
	ID          uuid.UUID                     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID                     `gorm:"type:uuid;not null;index" json:"user_id"`
	Title       string                        `gorm:"size:255;not null" json:"title"`
	Description string                        `gorm:"type:text" json:"description"`
	Category    string                        `gorm:"size:50;not null" json:"category"`
	Address     string                        `gorm:"size:255" json:"address"`
	City        string                        `gorm:"size:100" json:"city"`
	State       string                        `gorm:"size:100" json:"state"`
	ZipCode     string                        `gorm:"size:20" json:"zip_code"`
	Country     string                        `gorm:"size:100" json:"country"`
	Latitude    *float64                      `json:"latitude"`
	Longitude   *float64                      `json:"longitude"`
	Price       *float64                      `json:"price"`
	Bedrooms    *float64                      `json:"bedrooms"`
	Bathrooms   *float64                      `json:"bathrooms"`
	SquareFeet  *float64                      `json:"square_feet"`
	YearBuilt   *int                          `json:"year_built"`
	Features    datatypes.JSONSlice[string]   `json:"features"`
	IsPublished bool                          `gorm:"not null;default:true" json:"is_published"`
	CreatedAt   time.Time                     `json:"created_at"`
	UpdatedAt   time.Time                     `json:"updated_at"`

	Images []PropertyImage `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (p *Property) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PrimaryImage returns the image flagged primary, or nil.
func (p *Property) PrimaryImage() *PropertyImage {
	for i := range p.Images {
		if p.Images[i].IsPrimary {
			return &p.Images[i]
		}
	}
	return nil
}
