package models

import "time"

// Product is a purchasable catalog item. Images are stored inline as blobs.
type Product struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"size:150;not null" json:"title"`
	Description   string    `gorm:"type:text;not null" json:"description"`
	Price         float64   `gorm:"not null" json:"price"`
	ImageData     []byte    `gorm:"type:mediumblob" json:"-"`
	ImageMimetype string    `gorm:"size:255" json:"image_mimetype,omitempty"`
	ImageFilename string    `gorm:"size:255" json:"image_filename,omitempty"`
	IsAvailable   bool      `gorm:"default:true;not null" json:"is_available"`
	CategoryID    *uint     `gorm:"index" json:"category_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HasImage reports whether inline image bytes are present.
func (p *Product) HasImage() bool {
	return len(p.ImageData) > 0
}
