package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahilchouksey/uni-admin-api/model"
)

func TestAddCourseToProgram(t *testing.T) {
	db := setupTestDB(t)
	service := NewCompositionService(db, NewCreditAggregator(db))

	program := createProgram(t, db, "SE-2024", 2024, nil)
	course := createCourse(t, db, "CS101", 3)

	row, err := service.AddCourse(program.ID, AddCourseInput{
		CourseID:   course.ID,
		CourseType: model.CourseTypeRequired,
		Semester:   intPtr(1),
	})
	require.NoError(t, err)
	assert.Equal(t, program.ID, row.ProgramID)
	assert.Equal(t, model.CourseTypeRequired, row.CourseType)
	assert.Equal(t, "CS101", row.Course.Code)
}

func TestAddCourseRejectsDuplicatePair(t *testing.T) {
	db := setupTestDB(t)
	service := NewCompositionService(db, NewCreditAggregator(db))

	program := createProgram(t, db, "SE-2024", 2024, nil)
	course := createCourse(t, db, "CS101", 3)

	_, err := service.AddCourse(program.ID, AddCourseInput{
		CourseID:   course.ID,
		CourseType: model.CourseTypeRequired,
	})
	require.NoError(t, err)

	_, err = service.AddCourse(program.ID, AddCourseInput{
		CourseID:   course.ID,
		CourseType: model.CourseTypeElective,
	})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestAddCourseRejectsUnknownCourse(t *testing.T) {
	db := setupTestDB(t)
	service := NewCompositionService(db, NewCreditAggregator(db))

	program := createProgram(t, db, "SE-2024", 2024, nil)

	_, err := service.AddCourse(program.ID, AddCourseInput{
		CourseID:   9999,
		CourseType: model.CourseTypeRequired,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddCourseRejectsInvalidType(t *testing.T) {
	db := setupTestDB(t)
	service := NewCompositionService(db, NewCreditAggregator(db))

	program := createProgram(t, db, "SE-2024", 2024, nil)
	course := createCourse(t, db, "CS101", 3)

	_, err := service.AddCourse(program.ID, AddCourseInput{
		CourseID:   course.ID,
		CourseType: model.CourseType("Optional"),
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAddCourseRejectsUnattachedKnowledgeBlock(t *testing.T) {
	db := setupTestDB(t)
	service := NewCompositionService(db, NewCreditAggregator(db))

	program := createProgram(t, db, "SE-2024", 2024, nil)
	course := createCourse(t, db, "CS101", 3)
	block := createBlock(t, db, "GE", intPtr(30)) // exists but not attached

	_, err := service.AddCourse(program.ID, AddCourseInput{
		CourseID:         course.ID,
		CourseType:       model.CourseTypeRequired,
		KnowledgeBlockID: &block.ID,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateCourseClearsSemester(t *testing.T) {
	db := setupTestDB(t)
	service := NewCompositionService(db, NewCreditAggregator(db))

	program := createProgram(t, db, "SE-2024", 2024, nil)
	course := createCourse(t, db, "CS101", 3)

	_, err := service.AddCourse(program.ID, AddCourseInput{
		CourseID:   course.ID,
		CourseType: model.CourseTypeRequired,
		Semester:   intPtr(2),
	})
	require.NoError(t, err)

	row, err := service.UpdateCourse(program.ID, course.ID, UpdateCourseInput{
		Semester:    nil,
		SemesterSet: true,
	})
	require.NoError(t, err)
	assert.Nil(t, row.Semester)
}

func TestUpdateCourseUnknownPair(t *testing.T) {
	db := setupTestDB(t)
	service := NewCompositionService(db, NewCreditAggregator(db))

	program := createProgram(t, db, "SE-2024", 2024, nil)

	courseType := model.CourseTypeElective
	_, err := service.UpdateCourse(program.ID, 9999, UpdateCourseInput{CourseType: &courseType})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveCourseUnknownPair(t *testing.T) {
	db := setupTestDB(t)
	service := NewCompositionService(db, NewCreditAggregator(db))

	program := createProgram(t, db, "SE-2024", 2024, nil)

	err := service.RemoveCourse(program.ID, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReAddCourseAfterRemoval(t *testing.T) {
	db := setupTestDB(t)
	service := NewCompositionService(db, NewCreditAggregator(db))

	program := createProgram(t, db, "SE-2024", 2024, nil)
	course := createCourse(t, db, "CS101", 3)

	_, err := service.AddCourse(program.ID, AddCourseInput{
		CourseID:   course.ID,
		CourseType: model.CourseTypeRequired,
	})
	require.NoError(t, err)

	require.NoError(t, service.RemoveCourse(program.ID, course.ID))

	// The pair must be attachable again after removal
	row, err := service.AddCourse(program.ID, AddCourseInput{
		CourseID:   course.ID,
		CourseType: model.CourseTypeElective,
	})
	require.NoError(t, err)
	assert.Equal(t, model.CourseTypeElective, row.CourseType)

	rows, err := service.ListCourses(program.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestListCoursesReturnsRowsInCreationOrder(t *testing.T) {
	db := setupTestDB(t)
	service := NewCompositionService(db, NewCreditAggregator(db))

	program := createProgram(t, db, "SE-2024", 2024, nil)
	first := createCourse(t, db, "CS101", 3)
	second := createCourse(t, db, "CS102", 4)

	for _, c := range []*model.Course{first, second} {
		_, err := service.AddCourse(program.ID, AddCourseInput{
			CourseID:   c.ID,
			CourseType: model.CourseTypeRequired,
		})
		require.NoError(t, err)
	}

	rows, err := service.ListCourses(program.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "CS101", rows[0].Course.Code)
	assert.Equal(t, "CS102", rows[1].Course.Code)
}

func TestAddKnowledgeBlockRecalculatesTotal(t *testing.T) {
	db := setupTestDB(t)
	service := NewCompositionService(db, NewCreditAggregator(db))

	program := createProgram(t, db, "SE-2024", 2024, nil)
	general := createBlock(t, db, "GE", intPtr(30))
	foundation := createBlock(t, db, "FND", intPtr(45))

	total, err := service.AddKnowledgeBlock(program.ID, general.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, total)

	total, err = service.AddKnowledgeBlock(program.ID, foundation.ID)
	require.NoError(t, err)
	assert.Equal(t, 75, total)
}

func TestAddKnowledgeBlockRejectsDuplicate(t *testing.T) {
	db := setupTestDB(t)
	service := NewCompositionService(db, NewCreditAggregator(db))

	program := createProgram(t, db, "SE-2024", 2024, nil)
	block := createBlock(t, db, "GE", intPtr(30))

	_, err := service.AddKnowledgeBlock(program.ID, block.ID)
	require.NoError(t, err)

	_, err = service.AddKnowledgeBlock(program.ID, block.ID)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestRemoveKnowledgeBlockRejectsWhileCoursesAssigned(t *testing.T) {
	db := setupTestDB(t)
	service := NewCompositionService(db, NewCreditAggregator(db))

	program := createProgram(t, db, "SE-2024", 2024, nil)
	block := createBlock(t, db, "GE", intPtr(30))
	course := createCourse(t, db, "CS101", 3)

	_, err := service.AddKnowledgeBlock(program.ID, block.ID)
	require.NoError(t, err)

	_, err = service.AddCourse(program.ID, AddCourseInput{
		CourseID:         course.ID,
		CourseType:       model.CourseTypeRequired,
		KnowledgeBlockID: &block.ID,
	})
	require.NoError(t, err)

	_, err = service.RemoveKnowledgeBlock(program.ID, block.ID)
	assert.ErrorIs(t, err, ErrConflict)

	// Detach the course, then the block can go
	require.NoError(t, service.RemoveCourse(program.ID, course.ID))

	total, err := service.RemoveKnowledgeBlock(program.ID, block.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestRemoveKnowledgeBlockUnknownPair(t *testing.T) {
	db := setupTestDB(t)
	service := NewCompositionService(db, NewCreditAggregator(db))

	program := createProgram(t, db, "SE-2024", 2024, nil)

	_, err := service.RemoveKnowledgeBlock(program.ID, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}
