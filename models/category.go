package models

import "time"

// Category groups products in the shop catalog.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Products    []Product `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"products,omitempty"`
}
