package models

import "time"

// BlogPost is a published article. Posts are written either by the daily
// editorial pipeline or by an administrator; the retention policy keeps only
// the newest ones. The optional illustration is stored inline with the row
// so a post and its image are deleted together.
type BlogPost struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"size:200;not null" json:"title"`
	Content       string    `gorm:"type:mediumtext;not null" json:"content"`
	ImageData     []byte    `gorm:"type:mediumblob" json:"-"`
	ImageMimetype string    `gorm:"size:255" json:"image_mimetype,omitempty"`
	ImageFilename string    `gorm:"size:255" json:"image_filename,omitempty"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HasImage reports whether inline image bytes are present.
func (p *BlogPost) HasImage() bool {
	return len(p.ImageData) > 0
}
