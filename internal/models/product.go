package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product represents a catalog entry. Its image collection is owned:
// images are created, replaced and destroyed only together with the
// product they belong to.
type Product struct {
	ID          string         `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Title       string         `json:"title" gorm:"type:varchar(255);not null" validate:"required,min=1,max=255"`
	Slug        string         `json:"slug" gorm:"uniqueIndex;type:varchar(255);not null"`
	Price       float64        `json:"price" validate:"gte=0"`
	Stock       int            `json:"stock" validate:"gte=0"`
	Description string         `json:"description" validate:"omitempty,max=1000"`
	Images      []ProductImage `json:"images" gorm:"constraint:OnDelete:CASCADE"`
	UserID      string         `json:"-" gorm:"type:varchar(36);index"`
	User        *User          `json:"user,omitempty"`
	gorm.Model                 // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// BeforeSave derives the slug from the title when none was supplied and
// normalizes whatever value is present.
func (p *Product) BeforeSave(tx *gorm.DB) error {
	if p.Slug == "" {
		p.Slug = p.Title
	}
	p.Slug = Slugify(p.Slug)
	return nil
}

// Slugify turns a title or caller-supplied slug into the canonical slug
// form: lowercase, spaces as underscores, apostrophes stripped.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "'", "")
	return s
}

// ProductImage is a child record of Product. It has no lifecycle of its
// own; a product update either replaces the whole set or keeps it intact.
type ProductImage struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	URL       string `json:"url" gorm:"type:varchar(500);not null"`
	ProductID string `json:"-" gorm:"type:varchar(36);index;not null"`
}

// BeforeCreate assigns an ID so freshly built collections can be inserted
// in the same write as their parent.
func (i *ProductImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}
