package model

import (
	"time"

	"gorm.io/gorm"
)

// Faculty represents an academic faculty (e.g., Faculty of Information Technology)
type Faculty struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Code        string         `gorm:"uniqueIndex;not null" json:"code"` // e.g., "FIT", "FBA"
	Name        string         `gorm:"not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`

	// Relationships
	Majors []Major `gorm:"foreignKey:FacultyID;constraint:OnDelete:SET NULL" json:"majors,omitempty"`
}
