package jobs

import (
	"context"
	"fmt"

	"presign-backend/internal/domain"
	"presign-backend/internal/logger"
)

// SendReviewReminders mails each organizer member a digest of applications
// waiting for a decision. New applications and stage-2 submissions both
// count as pending review.
func (jr *JobRunner) SendReviewReminders() {
	jr.runWithRecovery("SendReviewReminders", func() {
		ctx := context.Background()

		query := `
			SELECT o.id, o.slug, COUNT(p.id) AS pending
			FROM participants p
			JOIN events e ON e.id = p.event_id
			JOIN organizers o ON o.id = e.organizer_id
			WHERE p.state IN ($1, $2)
			GROUP BY o.id, o.slug
		`

		rows, err := jr.db.QueryContext(ctx, query,
			string(domain.StateNew), string(domain.StateNeedsReview))
		if err != nil {
			logger.Error("Failed to query pending reviews", "error", err)
			return
		}
		defer rows.Close()

		type digest struct {
			organizerID string
			slug        string
			pending     int
		}
		var digests []digest
		for rows.Next() {
			var d digest
			if err := rows.Scan(&d.organizerID, &d.slug, &d.pending); err != nil {
				logger.Error("Failed to scan review digest", "error", err)
				continue
			}
			digests = append(digests, d)
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating review digests", "error", err)
			return
		}

		sent := 0
		for _, d := range digests {
			emails, err := jr.memberEmails(ctx, d.organizerID)
			if err != nil {
				logger.Error("Failed to load organizer members",
					"organizer", d.slug, "error", err)
				continue
			}

			subject := fmt.Sprintf("%d application(s) waiting for review", d.pending)
			body := fmt.Sprintf(
				"There are %d application(s) waiting for a decision in %s.",
				d.pending, d.slug)
			for _, email := range emails {
				if err := jr.services.Email.Send(ctx, email, subject, body, ""); err != nil {
					logger.Error("Failed to send review reminder",
						"organizer", d.slug, "to", email, "error", err)
					continue
				}
				sent++
			}
		}

		logger.Info("Sent review reminders", "organizers", len(digests), "emails", sent)
	})
}

func (jr *JobRunner) memberEmails(ctx context.Context, organizerID string) ([]string, error) {
	query := `
		SELECT u.email
		FROM organizer_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.organizer_id = $1
	`
	rows, err := jr.db.QueryContext(ctx, query, organizerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}
