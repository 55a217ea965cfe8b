package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Product struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Price       float64        `gorm:"not null" json:"price"`
	Image       string         `json:"image"`
	CategoryID  uuid.UUID      `gorm:"type:uuid;not null" json:"category_id"`
	Category    Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Description string         `json:"description"`
	Brand       string         `json:"brand"`
	Stock       int            `gorm:"default:0" json:"stock"`
	Sizes       string         `json:"sizes"`  // comma-separated variant sizes, informational only
	Colors      string         `json:"colors"` // comma-separated variant colors, informational only
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
