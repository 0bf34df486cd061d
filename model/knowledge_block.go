package model

import (
	"time"

	"gorm.io/gorm"
)

// KnowledgeBlock represents a named grouping of credit requirements
// (e.g., "General Education") with its own credit policy
type KnowledgeBlock struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Code         string         `gorm:"uniqueIndex;not null" json:"code"` // e.g., "GE", "FND"
	Name         string         `gorm:"not null" json:"name"`
	Description  string         `gorm:"type:text" json:"description"`
	MinCredits   *int           `json:"min_credits"`
	MaxCredits   *int           `json:"max_credits"`
	TotalCredits *int           `json:"total_credits"`
	IsRequired   bool           `gorm:"default:false" json:"is_required"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`

	// Relationships
	Programs []Program `gorm:"many2many:program_knowledge_blocks;constraint:OnDelete:CASCADE" json:"-"`
}

// EffectiveCredits returns the credit value used by the aggregator:
// total_credits, falling back to max_credits, then min_credits, then 0.
func (kb *KnowledgeBlock) EffectiveCredits() int {
	switch {
	case kb.TotalCredits != nil:
		return *kb.TotalCredits
	case kb.MaxCredits != nil:
		return *kb.MaxCredits
	case kb.MinCredits != nil:
		return *kb.MinCredits
	default:
		return 0
	}
}
