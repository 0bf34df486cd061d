package model

import "time"

// CourseType classifies how a course counts inside a program
type CourseType string

const (
	CourseTypeRequired CourseType = "Bắt buộc"
	CourseTypeElective CourseType = "Tự chọn"
	CourseTypeFree     CourseType = "Tự do"
)

// Valid reports whether the course type is one of the known values
func (t CourseType) Valid() bool {
	switch t {
	case CourseTypeRequired, CourseTypeElective, CourseTypeFree:
		return true
	}
	return false
}

// ProgramCourse records that a course is part of a program, with its
// pedagogical type, semester and owning knowledge block.
// The (program_id, course_id) pair is unique. Rows are hard-deleted on
// removal so the pair can be re-attached later without tripping the index.
type ProgramCourse struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	ProgramID        uint       `gorm:"not null;uniqueIndex:idx_program_course" json:"program_id"`
	CourseID         uint       `gorm:"not null;uniqueIndex:idx_program_course" json:"course_id"`
	CourseType       CourseType `gorm:"type:varchar(20);not null" json:"course_type"`
	Semester         *int       `json:"semester"`
	KnowledgeBlockID *uint      `gorm:"index" json:"knowledge_block_id"`
	Notes            string     `gorm:"type:text" json:"notes"`

	// Relationships
	Program        Program         `gorm:"foreignKey:ProgramID;constraint:OnDelete:CASCADE" json:"-"`
	Course         Course          `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"course,omitempty"`
	KnowledgeBlock *KnowledgeBlock `gorm:"foreignKey:KnowledgeBlockID;constraint:OnDelete:SET NULL" json:"knowledge_block,omitempty"`
}
