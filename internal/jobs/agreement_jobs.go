package jobs

import (
	"context"
	"time"

	"carrental-settlement-backend/internal/logger"
)

// MarkOverdueAgreements flags rented agreements whose agreed duration has
// elapsed with no return requested. The flag is for dashboard filtering
// and reminders only; settlement math never reads the clock.
func (jr *JobRunner) MarkOverdueAgreements() {
	jr.runWithRecovery("MarkOverdueAgreements", func() {
		ctx := context.Background()

		query := `
			UPDATE agreements
			SET is_overdue = TRUE,
			    updated_on = NOW()
			WHERE is_rented = TRUE
			  AND return_requested = FALSE
			  AND is_overdue = FALSE
			  AND start_time + (duration_units * $1) * interval '1 minute' < $2
			RETURNING id, renter, asset_name
		`

		rows, err := jr.db.QueryContext(ctx, query, jr.config.Engine.TimeUnitMinutes, time.Now())
		if err != nil {
			logger.Error("Failed to mark overdue agreements", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var id, renter, assetName string
			if err := rows.Scan(&id, &renter, &assetName); err != nil {
				logger.Error("Failed to scan overdue agreement", "error", err)
				continue
			}
			count++
			logger.Debug("Marked agreement as overdue", "agreement_id", id, "renter", renter, "asset", assetName)
		}

		if err := rows.Err(); err != nil {
			logger.Error("Error iterating overdue agreements", "error", err)
			return
		}

		logger.Info("Marked agreements as overdue", "count", count)
	})
}

// SendOverdueReturnReminders emails renters of overdue agreements that
// still have no return in motion. Renters without a registered contact
// are skipped.
func (jr *JobRunner) SendOverdueReturnReminders() {
	jr.runWithRecovery("SendOverdueReturnReminders", func() {
		ctx := context.Background()

		query := `
			SELECT a.id, a.asset_name, c.email
			FROM agreements a
			JOIN party_contacts c ON c.party = a.renter
			WHERE a.is_overdue = TRUE
			  AND a.is_rented = TRUE
			  AND a.return_requested = FALSE
		`

		rows, err := jr.db.QueryContext(ctx, query)
		if err != nil {
			logger.Error("Failed to list overdue agreements", "error", err)
			return
		}
		defer rows.Close()

		sent := 0
		for rows.Next() {
			var id, assetName, email string
			if err := rows.Scan(&id, &assetName, &email); err != nil {
				logger.Error("Failed to scan overdue agreement", "error", err)
				continue
			}
			if err := jr.emailSvc.SendOverdueReturnReminder(ctx, email, assetName); err != nil {
				logger.Error("Failed to send overdue reminder", "agreement_id", id, "error", err)
				continue
			}
			sent++
		}

		if err := rows.Err(); err != nil {
			logger.Error("Error iterating overdue agreements", "error", err)
			return
		}

		logger.Info("Sent overdue return reminders", "count", sent)
	})
}
