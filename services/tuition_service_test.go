package services

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahilchouksey/uni-admin-api/model"
)

func TestComputeTuition(t *testing.T) {
	program := &model.Program{
		TotalCredits:   intPtr(120),
		PricePerCredit: floatPtr(1500000),
	}

	result, err := ComputeTuition(program, nil)
	require.NoError(t, err)
	assert.Equal(t, 120, result.TotalCredits)
	assert.Equal(t, float64(180000000), result.TotalTuition)
	assert.Equal(t, float64(1500000), result.PricePerCredit)
}

func TestComputeTuitionOverrideDoesNotPersist(t *testing.T) {
	program := &model.Program{
		TotalCredits:   intPtr(100),
		PricePerCredit: floatPtr(1000000),
	}

	result, err := ComputeTuition(program, floatPtr(2000000))
	require.NoError(t, err)
	assert.Equal(t, float64(200000000), result.TotalTuition)
	assert.Equal(t, float64(2000000), result.PricePerCredit)

	// The program itself is untouched
	assert.Equal(t, float64(1000000), *program.PricePerCredit)
}

func TestComputeTuitionIsRepeatable(t *testing.T) {
	program := &model.Program{
		TotalCredits:   intPtr(90),
		PricePerCredit: floatPtr(1200000),
	}

	first, err := ComputeTuition(program, nil)
	require.NoError(t, err)
	second, err := ComputeTuition(program, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestComputeTuitionRequiresPositivePrice(t *testing.T) {
	tests := []struct {
		name    string
		program model.Program
	}{
		{"missing price", model.Program{TotalCredits: intPtr(120)}},
		{"zero price", model.Program{TotalCredits: intPtr(120), PricePerCredit: floatPtr(0)}},
		{"negative price", model.Program{TotalCredits: intPtr(120), PricePerCredit: floatPtr(-5)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeTuition(&tt.program, nil)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestComputeTuitionTreatsMissingCreditsAsZero(t *testing.T) {
	program := &model.Program{PricePerCredit: floatPtr(1500000)}

	result, err := ComputeTuition(program, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalCredits)
	assert.Equal(t, float64(0), result.TotalTuition)
}

func TestComputeForProgramUnknownProgram(t *testing.T) {
	db := setupTestDB(t)
	service := NewTuitionService(db, nil)

	_, err := service.ComputeForProgram(9999, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSavePricePersistsAndValidates(t *testing.T) {
	db := setupTestDB(t)
	service := NewTuitionService(db, nil)

	program := createProgram(t, db, "SE-2024", 2024, nil)

	_, err := service.SavePrice(program.ID, 0)
	assert.ErrorIs(t, err, ErrValidation)

	updated, err := service.SavePrice(program.ID, 1500000)
	require.NoError(t, err)
	require.NotNil(t, updated.PricePerCredit)
	assert.Equal(t, float64(1500000), *updated.PricePerCredit)

	var persisted model.Program
	require.NoError(t, db.First(&persisted, program.ID).Error)
	require.NotNil(t, persisted.PricePerCredit)
	assert.Equal(t, float64(1500000), *persisted.PricePerCredit)
}

func TestMajorTuitionByYearLookbackWindow(t *testing.T) {
	db := setupTestDB(t)
	service := NewTuitionService(db, nil)

	major := createMajor(t, db, "SE")
	for _, year := range []int{2021, 2022, 2023, 2024, 2025, 2026} {
		program := createProgram(t, db, "SE-"+strconv.Itoa(year), year, &major.ID)
		require.NoError(t, db.Model(program).Updates(map[string]interface{}{
			"total_credits":    120,
			"price_per_credit": 1000000,
		}).Error)
	}

	years, err := service.MajorTuitionByYear(major.ID, 0) // default lookback of 5
	require.NoError(t, err)
	require.Len(t, years, 5)

	// Most recent first; 2021 falls outside the window
	wantYears := []int{2026, 2025, 2024, 2023, 2022}
	for i, entry := range years {
		assert.Equal(t, wantYears[i], entry.Year)
		assert.Equal(t, 1, entry.TotalPrograms)
		assert.Equal(t, 120, entry.TotalCredits)
		assert.Equal(t, float64(120000000), entry.MinTuition)
	}
}

func TestMajorTuitionByYearExcludesUnpricedFromSums(t *testing.T) {
	db := setupTestDB(t)
	service := NewTuitionService(db, nil)

	major := createMajor(t, db, "SE")
	priced := createProgram(t, db, "SE-2024A", 2024, &major.ID)
	require.NoError(t, db.Model(priced).Updates(map[string]interface{}{
		"total_credits":    120,
		"price_per_credit": 1000000,
	}).Error)
	createProgram(t, db, "SE-2024B", 2024, &major.ID) // no price set

	years, err := service.MajorTuitionByYear(major.ID, 5)
	require.NoError(t, err)
	require.Len(t, years, 1)

	entry := years[0]
	assert.Equal(t, 2024, entry.Year)
	assert.Equal(t, 2, entry.TotalPrograms)
	assert.Equal(t, 120, entry.TotalCredits)
	assert.Equal(t, float64(120000000), entry.MinTuition)
}

func TestMajorTuitionByYearUnknownMajor(t *testing.T) {
	db := setupTestDB(t)
	service := NewTuitionService(db, nil)

	_, err := service.MajorTuitionByYear(9999, 5)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMajorsWithLatestPrograms(t *testing.T) {
	db := setupTestDB(t)
	service := NewTuitionService(db, nil)

	se := createMajor(t, db, "SE")
	createProgram(t, db, "SE-2023", 2023, &se.ID)
	createProgram(t, db, "SE-2024A", 2024, &se.ID)
	createProgram(t, db, "SE-2024B", 2024, &se.ID)

	empty := createMajor(t, db, "CS") // no programs yet

	result, err := service.MajorsWithLatestPrograms(context.Background())
	require.NoError(t, err)
	require.Len(t, result, 2)

	// Ordered by major code
	assert.Equal(t, empty.ID, result[0].ID)
	assert.Nil(t, result[0].LatestYear)
	assert.Empty(t, result[0].Programs)

	assert.Equal(t, se.ID, result[1].ID)
	require.NotNil(t, result[1].LatestYear)
	assert.Equal(t, 2024, *result[1].LatestYear)
	require.Len(t, result[1].Programs, 2) // ties on the latest year all included
}
