package model

import (
	"time"

	"gorm.io/gorm"
)

// Program represents a concrete curriculum/degree track tied to a major and start year
type Program struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Code        string         `gorm:"uniqueIndex;not null" json:"code"` // e.g., "SE-2024"
	Name        string         `gorm:"not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	StartDate   *time.Time     `json:"start_date"`
	EndDate     *time.Time     `json:"end_date"`
	StartYear   int            `gorm:"index" json:"start_year"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	MajorID     *uint          `gorm:"index" json:"major_id"`

	// TotalCredits is a persisted projection over the attached knowledge blocks.
	// It is recomputed by the credit aggregator, never hand-edited.
	TotalCredits   *int     `json:"total_credits"`
	PricePerCredit *float64 `json:"price_per_credit"`

	// Relationships
	Major           *Major           `gorm:"foreignKey:MajorID;constraint:OnDelete:SET NULL" json:"major,omitempty"`
	ProgramCourses  []ProgramCourse  `gorm:"foreignKey:ProgramID;constraint:OnDelete:CASCADE" json:"program_courses,omitempty"`
	KnowledgeBlocks []KnowledgeBlock `gorm:"many2many:program_knowledge_blocks;constraint:OnDelete:CASCADE" json:"knowledge_blocks,omitempty"`
}

// ProgramKnowledgeBlock records that a knowledge block belongs to a program
type ProgramKnowledgeBlock struct {
	ProgramID        uint  `gorm:"primaryKey" json:"program_id"`
	KnowledgeBlockID uint  `gorm:"primaryKey" json:"knowledge_block_id"`
	AttachedAt       int64 `gorm:"autoCreateTime" json:"attached_at"`

	// Relationships
	Program        Program        `gorm:"foreignKey:ProgramID;constraint:OnDelete:CASCADE" json:"-"`
	KnowledgeBlock KnowledgeBlock `gorm:"foreignKey:KnowledgeBlockID;constraint:OnDelete:CASCADE" json:"knowledge_block,omitempty"`
}

// TableName keeps the join table name aligned with the many2many tag on Program
func (ProgramKnowledgeBlock) TableName() string {
	return "program_knowledge_blocks"
}
