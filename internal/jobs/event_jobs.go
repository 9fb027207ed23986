package jobs

import (
	"context"

	"presign-backend/internal/logger"
)

// LockPastEvents disables signup for events whose lock date has passed.
// The lock date falls back to the event date when not set explicitly.
func (jr *JobRunner) LockPastEvents() {
	jr.runWithRecovery("LockPastEvents", func() {
		ctx := context.Background()

		query := `
			UPDATE events
			SET enabled = FALSE
			WHERE enabled = TRUE
			  AND COALESCE(lock_date, event_date) < NOW()
			RETURNING id, slug
		`

		rows, err := jr.db.QueryContext(ctx, query)
		if err != nil {
			logger.Error("Failed to lock past events", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var id, slug string
			if err := rows.Scan(&id, &slug); err != nil {
				logger.Error("Failed to scan locked event", "error", err)
				continue
			}
			logger.Debug("Locked event", "event_id", id, "slug", slug)
			count++
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating locked events", "error", err)
			return
		}

		logger.Info("Locked past events", "count", count)
	})
}
