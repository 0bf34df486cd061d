package model

import (
	"time"

	"gorm.io/gorm"
)

// Major represents a field of study offered by a faculty (e.g., Software Engineering)
type Major struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Code      string         `gorm:"uniqueIndex;not null" json:"code"` // e.g., "SE", "CS"
	Name      string         `gorm:"not null" json:"name"`
	FacultyID *uint          `gorm:"index" json:"faculty_id"`

	// Relationships
	Faculty  *Faculty  `gorm:"foreignKey:FacultyID;constraint:OnDelete:SET NULL" json:"faculty,omitempty"`
	Programs []Program `gorm:"foreignKey:MajorID;constraint:OnDelete:SET NULL" json:"programs,omitempty"`
}
