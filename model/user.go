package model

import (
	"time"

	"gorm.io/gorm"
)

// User represents an administrative account (registrar staff or admin)
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"` // Never expose password in JSON
	Name         string         `gorm:"not null" json:"name"`
	Role         string         `gorm:"type:varchar(20);default:'staff'" json:"role"` // staff, admin

	// Relationships
	AuditLogs []AdminAuditLog `gorm:"foreignKey:AdminID;constraint:OnDelete:CASCADE" json:"-"`
}
