package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahilchouksey/uni-admin-api/model"
)

func TestRecalculateProgramSumsAttachedBlocks(t *testing.T) {
	db := setupTestDB(t)
	aggregator := NewCreditAggregator(db)

	program := createProgram(t, db, "SE-2024", 2024, nil)
	general := createBlock(t, db, "GE", intPtr(30))
	foundation := createBlock(t, db, "FND", intPtr(45))
	attachBlock(t, db, program.ID, general.ID)
	attachBlock(t, db, program.ID, foundation.ID)

	total, err := aggregator.RecalculateProgram(program.ID)
	require.NoError(t, err)
	assert.Equal(t, 75, total)

	var persisted model.Program
	require.NoError(t, db.First(&persisted, program.ID).Error)
	require.NotNil(t, persisted.TotalCredits)
	assert.Equal(t, 75, *persisted.TotalCredits)
}

func TestRecalculateProgramIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	aggregator := NewCreditAggregator(db)

	program := createProgram(t, db, "SE-2024", 2024, nil)
	block := createBlock(t, db, "GE", intPtr(32))
	attachBlock(t, db, program.ID, block.ID)

	first, err := aggregator.RecalculateProgram(program.ID)
	require.NoError(t, err)
	second, err := aggregator.RecalculateProgram(program.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRecalculateProgramWithoutBlocksIsZero(t *testing.T) {
	db := setupTestDB(t)
	aggregator := NewCreditAggregator(db)

	program := createProgram(t, db, "SE-2024", 2024, nil)

	total, err := aggregator.RecalculateProgram(program.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestRecalculateProgramUnknownProgram(t *testing.T) {
	db := setupTestDB(t)
	aggregator := NewCreditAggregator(db)

	_, err := aggregator.RecalculateProgram(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEffectiveCreditsFallbackChain(t *testing.T) {
	tests := []struct {
		name  string
		block model.KnowledgeBlock
		want  int
	}{
		{"total wins", model.KnowledgeBlock{TotalCredits: intPtr(32), MaxCredits: intPtr(35), MinCredits: intPtr(30)}, 32},
		{"max when no total", model.KnowledgeBlock{MaxCredits: intPtr(35), MinCredits: intPtr(30)}, 35},
		{"min when nothing else", model.KnowledgeBlock{MinCredits: intPtr(30)}, 30},
		{"zero when unset", model.KnowledgeBlock{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.block.EffectiveCredits())
		})
	}
}

func TestRecalculateForBlockRefreshesAttachedPrograms(t *testing.T) {
	db := setupTestDB(t)
	aggregator := NewCreditAggregator(db)

	first := createProgram(t, db, "SE-2023", 2023, nil)
	second := createProgram(t, db, "SE-2024", 2024, nil)
	other := createProgram(t, db, "CS-2024", 2024, nil)

	block := createBlock(t, db, "GE", intPtr(30))
	extra := createBlock(t, db, "FND", intPtr(45))
	attachBlock(t, db, first.ID, block.ID)
	attachBlock(t, db, second.ID, block.ID)
	attachBlock(t, db, other.ID, extra.ID)

	_, err := aggregator.RecalculateProgram(first.ID)
	require.NoError(t, err)
	_, err = aggregator.RecalculateProgram(second.ID)
	require.NoError(t, err)
	_, err = aggregator.RecalculateProgram(other.ID)
	require.NoError(t, err)

	// A credit change on the block must propagate to both attached programs
	require.NoError(t, db.Model(block).Update("total_credits", 36).Error)
	require.NoError(t, aggregator.RecalculateForBlock(block.ID))

	for _, id := range []uint{first.ID, second.ID} {
		var p model.Program
		require.NoError(t, db.First(&p, id).Error)
		require.NotNil(t, p.TotalCredits)
		assert.Equal(t, 36, *p.TotalCredits)
	}

	// Programs not attached to the block keep their own total
	var untouched model.Program
	require.NoError(t, db.First(&untouched, other.ID).Error)
	require.NotNil(t, untouched.TotalCredits)
	assert.Equal(t, 45, *untouched.TotalCredits)
}

func TestRecalculateAllBackfillsStaleTotals(t *testing.T) {
	db := setupTestDB(t)
	aggregator := NewCreditAggregator(db)

	first := createProgram(t, db, "SE-2023", 2023, nil)
	second := createProgram(t, db, "SE-2024", 2024, nil)
	block := createBlock(t, db, "GE", intPtr(30))
	attachBlock(t, db, first.ID, block.ID)
	attachBlock(t, db, second.ID, block.ID)

	// Simulate totals written by older code
	require.NoError(t, db.Model(&model.Program{}).
		Where("id IN ?", []uint{first.ID, second.ID}).
		Update("total_credits", 999).Error)

	processed, failed := aggregator.RecalculateAll()
	assert.Equal(t, 2, processed)
	assert.Equal(t, 0, failed)

	for _, id := range []uint{first.ID, second.ID} {
		var p model.Program
		require.NoError(t, db.First(&p, id).Error)
		require.NotNil(t, p.TotalCredits)
		assert.Equal(t, 30, *p.TotalCredits)
	}
}
