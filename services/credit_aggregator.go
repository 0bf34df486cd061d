package services

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/sahilchouksey/uni-admin-api/model"
)

// CreditAggregator maintains Program.total_credits as a persisted projection
// over the program's attached knowledge blocks. The value is recomputed after
// every membership mutation and once at startup as a backfill pass.
type CreditAggregator struct {
	db *gorm.DB
}

// NewCreditAggregator creates a new credit aggregator
func NewCreditAggregator(db *gorm.DB) *CreditAggregator {
	return &CreditAggregator{db: db}
}

// RecalculateProgram recomputes and persists the credit total for one program.
// Idempotent: reapplying with unchanged associations yields the same result.
func (a *CreditAggregator) RecalculateProgram(programID uint) (int, error) {
	return a.RecalculateProgramTx(a.db, programID)
}

// RecalculateProgramTx is RecalculateProgram running on the caller's transaction,
// so membership mutations and the recompute commit together.
func (a *CreditAggregator) RecalculateProgramTx(tx *gorm.DB, programID uint) (int, error) {
	var program model.Program
	if err := tx.Preload("KnowledgeBlocks").First(&program, programID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, fmt.Errorf("program %d: %w", programID, ErrNotFound)
		}
		return 0, fmt.Errorf("failed to load program %d: %w", programID, err)
	}

	total := 0
	for _, kb := range program.KnowledgeBlocks {
		total += kb.EffectiveCredits()
	}

	if err := tx.Model(&model.Program{}).
		Where("id = ?", programID).
		Update("total_credits", total).Error; err != nil {
		return 0, fmt.Errorf("failed to persist credit total for program %d: %w", programID, err)
	}

	return total, nil
}

// RecalculateForBlock recomputes the credit total of every program the
// knowledge block is attached to. Called after a block's credit values
// change, so attached programs never wait for the nightly pass.
func (a *CreditAggregator) RecalculateForBlock(blockID uint) error {
	var programIDs []uint
	if err := a.db.Model(&model.ProgramKnowledgeBlock{}).
		Where("knowledge_block_id = ?", blockID).
		Pluck("program_id", &programIDs).Error; err != nil {
		return fmt.Errorf("failed to list programs for knowledge block %d: %w", blockID, err)
	}

	for _, id := range programIDs {
		if _, err := a.RecalculateProgram(id); err != nil {
			return err
		}
	}
	return nil
}

// RecalculateAll iterates every program and recomputes its credit total
// sequentially. A failure on one program is logged and skipped; the batch
// never aborts. Returns the number of programs processed and failed.
func (a *CreditAggregator) RecalculateAll() (processed int, failed int) {
	var programIDs []uint
	if err := a.db.Model(&model.Program{}).Pluck("id", &programIDs).Error; err != nil {
		log.Printf("Credit backfill: failed to list programs: %v", err)
		return 0, 0
	}

	for _, id := range programIDs {
		if _, err := a.RecalculateProgram(id); err != nil {
			log.Printf("Credit backfill: skipping program %d: %v", id, err)
			failed++
			continue
		}
		processed++
	}

	return processed, failed
}
