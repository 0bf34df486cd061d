package cron

import (
	"fmt"
	"time"

	"github.com/sahilchouksey/uni-admin-api/model"
)

// cronLogRetention is how long completed job logs are kept
const cronLogRetention = 90 * 24 * time.Hour

// ReconcileCreditTotals recomputes every program's credit total. The same
// routine runs at startup; the nightly pass catches any drift from partial
// failures during the day.
func (m *CronManager) ReconcileCreditTotals() {
	processed, failed := m.aggregator.RecalculateAll()

	msg := fmt.Sprintf("recalculated %d program(s), %d failure(s)", processed, failed)
	if failed > 0 {
		m.logJobError("reconcile_credit_totals", fmt.Errorf("%s", msg))
		return
	}
	m.logJobComplete("reconcile_credit_totals", msg)
}

// CleanupCronLogs prunes cron job logs older than the retention window
func (m *CronManager) CleanupCronLogs() {
	cutoff := time.Now().Add(-cronLogRetention)

	result := m.db.Unscoped().
		Where("created_at < ? AND status <> ?", cutoff, "running").
		Delete(&model.CronJobLog{})
	if result.Error != nil {
		m.logJobError("cleanup_cron_logs", result.Error)
		return
	}

	m.logJobComplete("cleanup_cron_logs", fmt.Sprintf("deleted %d old log row(s)", result.RowsAffected))
}
