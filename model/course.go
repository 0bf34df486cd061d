package model

import (
	"time"

	"gorm.io/gorm"
)

// Course represents an individual academic course with a fixed credit value
type Course struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Code         string         `gorm:"uniqueIndex;not null" json:"code"` // e.g., "CS101"
	Name         string         `gorm:"not null" json:"name"`
	Description  string         `gorm:"type:text" json:"description"`
	TotalCredits int            `gorm:"default:0" json:"total_credits"`

	// Relationships
	ProgramCourses []ProgramCourse `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}
