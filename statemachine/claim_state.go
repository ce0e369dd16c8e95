package statemachine

import (
	"claims-management-api/models"
)

// Transition describes a status change and who may perform it.
type Transition struct {
	From  models.ClaimStatus `json:"from"`
	To    models.ClaimStatus `json:"to"`
	Actor models.UserRole    `json:"actor"`
}

var statuses = []models.ClaimStatus{
	models.StatusPending,
	models.StatusApproved,
	models.StatusRejected,
}

// uiFlow is the review flow the dashboard offers; the API itself accepts any pair.
var uiFlow = []Transition{
	{From: models.StatusPending, To: models.StatusApproved, Actor: models.RoleAdmin},
	{From: models.StatusPending, To: models.StatusRejected, Actor: models.RoleAdmin},
}

var statusSet = func() map[models.ClaimStatus]bool {
	m := make(map[models.ClaimStatus]bool, len(statuses))
	for _, s := range statuses {
		m[s] = true
	}
	return m
}()

// Statuses returns the enumerated claim statuses in display order.
func Statuses() []models.ClaimStatus {
	out := make([]models.ClaimStatus, len(statuses))
	copy(out, statuses)
	return out
}

func IsValid(status models.ClaimStatus) bool {
	return statusSet[status]
}

// Parse converts raw input into a ClaimStatus, rejecting anything outside the set.
func Parse(raw string) (models.ClaimStatus, bool) {
	status := models.ClaimStatus(raw)
	return status, IsValid(status)
}

// CanTransition reports whether a claim may move from one status to another. Admins may
// move a claim between any two statuses, including back to pending.
func CanTransition(from, to models.ClaimStatus) bool {
	return IsValid(from) && IsValid(to)
}

// ValidTransitionsFrom returns all statuses reachable from the given one.
func ValidTransitionsFrom(status models.ClaimStatus) []models.ClaimStatus {
	if !IsValid(status) {
		return nil
	}
	var nexts []models.ClaimStatus
	for _, s := range statuses {
		if s != status {
			nexts = append(nexts, s)
		}
	}
	return nexts
}

func UIFlow() []Transition {
	out := make([]Transition, len(uiFlow))
	copy(out, uiFlow)
	return out
}
