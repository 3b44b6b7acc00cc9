package domain

import "time"

// HistoryAction tags what happened to a distribution.
type HistoryAction string

const (
	ActionCreated            HistoryAction = "created"
	ActionUpdated            HistoryAction = "updated"
	ActionDeleted            HistoryAction = "deleted"
	ActionDocumentsAttached  HistoryAction = "documents_attached"
	ActionDocumentDetached   HistoryAction = "document_detached"
	ActionVerifiedBySender   HistoryAction = "verified_by_sender"
	ActionSent               HistoryAction = "sent"
	ActionReceived           HistoryAction = "received"
	ActionVerifiedByReceiver HistoryAction = "verified_by_receiver"
	ActionDiscrepancyFound   HistoryAction = "discrepancy_found"
	ActionCompleted          HistoryAction = "completed"
)

// transitionActions maps each reachable status to the history action recorded on entry.
var transitionActions = map[DistributionStatus]HistoryAction{
	StatusVerifiedBySender:   ActionVerifiedBySender,
	StatusSent:               ActionSent,
	StatusReceived:           ActionReceived,
	StatusVerifiedByReceiver: ActionVerifiedByReceiver,
	StatusCompleted:          ActionCompleted,
}

// ActionForStatus returns the history action for entering status s.
func ActionForStatus(s DistributionStatus) (HistoryAction, bool) {
	a, ok := transitionActions[s]
	return a, ok
}

// HistoryEntry is an immutable audit record of one action on a distribution.
type HistoryEntry struct {
	EntryID        int64          `json:"entryID"`
	DistributionID string         `json:"distributionID"`
	Action         HistoryAction  `json:"action"`
	UserID         string         `json:"userID"`
	Notes          string         `json:"notes,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
}
