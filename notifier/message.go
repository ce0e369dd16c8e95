// Package notifier delivers claim status-change notices to claim owners. Delivery is
// best-effort: messages are queued, sent by a background worker, logged, and never retried.
package notifier

import (
	"context"
	"fmt"

	"claims-management-api/models"
)

const subject = "Claim Status Update"

type Message struct {
	ClaimID  string             `json:"claim_id"`
	To       string             `json:"to"`
	Name     string             `json:"name"`
	PolicyID string             `json:"policy_id"`
	Status   models.ClaimStatus `json:"status"`
}

func (m Message) Subject() string {
	return subject
}

func (m Message) Body() string {
	return fmt.Sprintf(
		"Dear %s,\n\nYour claim for policy %s has been updated to: %s.\n\nBest regards,\nClaims Management Team",
		m.Name, m.PolicyID, m.Status,
	)
}

// Sender delivers a single message. Implementations must honor ctx cancellation.
type Sender interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}
