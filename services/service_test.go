package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sahilchouksey/uni-admin-api/model"
)

// setupTestDB opens a fresh in-memory SQLite database and migrates the
// schema. One connection only, because every :memory: connection is its
// own database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Faculty{},
		&model.Major{},
		&model.Program{},
		&model.Course{},
		&model.KnowledgeBlock{},
		&model.ProgramKnowledgeBlock{},
		&model.ProgramCourse{},
	))

	return db
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func createMajor(t *testing.T, db *gorm.DB, code string) *model.Major {
	t.Helper()
	major := &model.Major{Code: code, Name: "Major " + code}
	require.NoError(t, db.Create(major).Error)
	return major
}

func createProgram(t *testing.T, db *gorm.DB, code string, startYear int, majorID *uint) *model.Program {
	t.Helper()
	zero := 0
	program := &model.Program{
		Code:         code,
		Name:         "Program " + code,
		StartYear:    startYear,
		MajorID:      majorID,
		TotalCredits: &zero,
	}
	require.NoError(t, db.Create(program).Error)
	return program
}

func createCourse(t *testing.T, db *gorm.DB, code string, credits int) *model.Course {
	t.Helper()
	course := &model.Course{Code: code, Name: "Course " + code, TotalCredits: credits}
	require.NoError(t, db.Create(course).Error)
	return course
}

func createBlock(t *testing.T, db *gorm.DB, code string, totalCredits *int) *model.KnowledgeBlock {
	t.Helper()
	block := &model.KnowledgeBlock{Code: code, Name: "Block " + code, TotalCredits: totalCredits}
	require.NoError(t, db.Create(block).Error)
	return block
}

func attachBlock(t *testing.T, db *gorm.DB, programID, blockID uint) {
	t.Helper()
	require.NoError(t, db.Create(&model.ProgramKnowledgeBlock{
		ProgramID:        programID,
		KnowledgeBlockID: blockID,
	}).Error)
}
