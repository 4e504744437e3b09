package models

import "time"

// Document is a downloadable file (certificate, spec sheet) stored inline.
type Document struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"size:200;not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	FileName     string    `gorm:"size:255;not null" json:"file_name"`
	FileMimetype string    `gorm:"size:255;not null" json:"file_mimetype"`
	FileData     []byte    `gorm:"type:mediumblob;not null" json:"-"`
	UploadedAt   time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}
