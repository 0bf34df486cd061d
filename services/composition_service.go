package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/sahilchouksey/uni-admin-api/model"
)

// CompositionService manages which courses and knowledge blocks make up a
// program. Knowledge-block membership drives the program's credit total;
// course membership does not.
type CompositionService struct {
	db         *gorm.DB
	aggregator *CreditAggregator
}

// NewCompositionService creates a new composition service
func NewCompositionService(db *gorm.DB, aggregator *CreditAggregator) *CompositionService {
	return &CompositionService{
		db:         db,
		aggregator: aggregator,
	}
}

// AddCourseInput carries the attributes of a course being attached to a program
type AddCourseInput struct {
	CourseID         uint
	CourseType       model.CourseType
	Semester         *int
	KnowledgeBlockID *uint
	Notes            string
}

// UpdateCourseInput carries partial updates for an existing program-course row
type UpdateCourseInput struct {
	CourseType        *model.CourseType
	Semester          *int
	SemesterSet       bool
	KnowledgeBlockID  *uint
	KnowledgeBlockSet bool
	Notes             *string
}

// blockAttached reports whether the knowledge block currently belongs to the program
func (s *CompositionService) blockAttached(tx *gorm.DB, programID, blockID uint) (bool, error) {
	var count int64
	err := tx.Model(&model.ProgramKnowledgeBlock{}).
		Where("program_id = ? AND knowledge_block_id = ?", programID, blockID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *CompositionService) programExists(tx *gorm.DB, programID uint) error {
	var program model.Program
	if err := tx.Select("id").First(&program, programID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("program %d: %w", programID, ErrNotFound)
		}
		return err
	}
	return nil
}

// AddCourse attaches a course to a program. The (program, course) pair must be
// new, and an assigned knowledge block must already belong to the program.
// Does not touch the program's credit total.
func (s *CompositionService) AddCourse(programID uint, input AddCourseInput) (*model.ProgramCourse, error) {
	if input.CourseID == 0 {
		return nil, fmt.Errorf("course_id is required: %w", ErrValidation)
	}
	if !input.CourseType.Valid() {
		return nil, fmt.Errorf("course_type %q is not valid: %w", input.CourseType, ErrValidation)
	}
	if input.Semester != nil && *input.Semester < 0 {
		return nil, fmt.Errorf("semester must be a non-negative integer: %w", ErrValidation)
	}

	var row model.ProgramCourse

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.programExists(tx, programID); err != nil {
			return err
		}

		var course model.Course
		if err := tx.First(&course, input.CourseID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("course %d: %w", input.CourseID, ErrNotFound)
			}
			return err
		}

		if input.KnowledgeBlockID != nil {
			attached, err := s.blockAttached(tx, programID, *input.KnowledgeBlockID)
			if err != nil {
				return err
			}
			if !attached {
				return fmt.Errorf("knowledge block %d is not attached to program %d: %w",
					*input.KnowledgeBlockID, programID, ErrValidation)
			}
		}

		var count int64
		if err := tx.Model(&model.ProgramCourse{}).
			Where("program_id = ? AND course_id = ?", programID, input.CourseID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("course %d is already part of program %d: %w",
				input.CourseID, programID, ErrDuplicate)
		}

		row = model.ProgramCourse{
			ProgramID:        programID,
			CourseID:         input.CourseID,
			CourseType:       input.CourseType,
			Semester:         input.Semester,
			KnowledgeBlockID: input.KnowledgeBlockID,
			Notes:            input.Notes,
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		return nil, err
	}

	s.db.Preload("Course").Preload("KnowledgeBlock").First(&row, row.ID)
	return &row, nil
}

// UpdateCourse updates the type, semester, knowledge block or notes of an
// existing program-course row. Knowledge-block membership is validated the
// same way as in AddCourse.
func (s *CompositionService) UpdateCourse(programID, courseID uint, input UpdateCourseInput) (*model.ProgramCourse, error) {
	if input.CourseType != nil && !input.CourseType.Valid() {
		return nil, fmt.Errorf("course_type %q is not valid: %w", *input.CourseType, ErrValidation)
	}
	if input.SemesterSet && input.Semester != nil && *input.Semester < 0 {
		return nil, fmt.Errorf("semester must be a non-negative integer: %w", ErrValidation)
	}

	var row model.ProgramCourse

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("program_id = ? AND course_id = ?", programID, courseID).
			First(&row).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("course %d is not part of program %d: %w", courseID, programID, ErrNotFound)
			}
			return err
		}

		if input.KnowledgeBlockSet && input.KnowledgeBlockID != nil {
			attached, err := s.blockAttached(tx, programID, *input.KnowledgeBlockID)
			if err != nil {
				return err
			}
			if !attached {
				return fmt.Errorf("knowledge block %d is not attached to program %d: %w",
					*input.KnowledgeBlockID, programID, ErrValidation)
			}
		}

		if input.CourseType != nil {
			row.CourseType = *input.CourseType
		}
		if input.SemesterSet {
			row.Semester = input.Semester
		}
		if input.KnowledgeBlockSet {
			row.KnowledgeBlockID = input.KnowledgeBlockID
		}
		if input.Notes != nil {
			row.Notes = *input.Notes
		}

		return tx.Save(&row).Error
	})
	if err != nil {
		return nil, err
	}

	s.db.Preload("Course").Preload("KnowledgeBlock").First(&row, row.ID)
	return &row, nil
}

// RemoveCourse detaches a course from a program. Removing a pair that does
// not exist is an error (ErrNotFound), not a silent no-op.
func (s *CompositionService) RemoveCourse(programID, courseID uint) error {
	result := s.db.Where("program_id = ? AND course_id = ?", programID, courseID).
		Delete(&model.ProgramCourse{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("course %d is not part of program %d: %w", courseID, programID, ErrNotFound)
	}
	return nil
}

// ListCourses returns all program-course rows for the program with their
// course and knowledge-block summaries, in creation order.
func (s *CompositionService) ListCourses(programID uint) ([]model.ProgramCourse, error) {
	if err := s.programExists(s.db, programID); err != nil {
		return nil, err
	}

	var rows []model.ProgramCourse
	err := s.db.Preload("Course").Preload("KnowledgeBlock").
		Where("program_id = ?", programID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// AddKnowledgeBlock attaches a knowledge block to a program and recomputes
// the program's credit total in the same transaction.
func (s *CompositionService) AddKnowledgeBlock(programID, blockID uint) (total int, err error) {
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.programExists(tx, programID); err != nil {
			return err
		}

		var block model.KnowledgeBlock
		if err := tx.First(&block, blockID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("knowledge block %d: %w", blockID, ErrNotFound)
			}
			return err
		}

		attached, err := s.blockAttached(tx, programID, blockID)
		if err != nil {
			return err
		}
		if attached {
			return fmt.Errorf("knowledge block %d is already attached to program %d: %w",
				blockID, programID, ErrDuplicate)
		}

		join := model.ProgramKnowledgeBlock{
			ProgramID:        programID,
			KnowledgeBlockID: blockID,
		}
		if err := tx.Create(&join).Error; err != nil {
			return err
		}

		total, err = s.aggregator.RecalculateProgramTx(tx, programID)
		return err
	})
	return total, err
}

// RemoveKnowledgeBlock detaches a knowledge block from a program. The detach
// is rejected (ErrConflict) while any program-course row still references the
// block; courses must be detached or reassigned first. No cascade.
func (s *CompositionService) RemoveKnowledgeBlock(programID, blockID uint) (total int, err error) {
	err = s.db.Transaction(func(tx *gorm.DB) error {
		attached, err := s.blockAttached(tx, programID, blockID)
		if err != nil {
			return err
		}
		if !attached {
			return fmt.Errorf("knowledge block %d is not attached to program %d: %w",
				blockID, programID, ErrNotFound)
		}

		var refs int64
		if err := tx.Model(&model.ProgramCourse{}).
			Where("program_id = ? AND knowledge_block_id = ?", programID, blockID).
			Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return fmt.Errorf("knowledge block %d still has %d course(s) assigned in program %d: %w",
				blockID, refs, programID, ErrConflict)
		}

		if err := tx.Where("program_id = ? AND knowledge_block_id = ?", programID, blockID).
			Delete(&model.ProgramKnowledgeBlock{}).Error; err != nil {
			return err
		}

		total, err = s.aggregator.RecalculateProgramTx(tx, programID)
		return err
	})
	return total, err
}
