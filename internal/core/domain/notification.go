package domain

import "time"

// NotificationEvent names a distribution event delivered to the notification sink.
type NotificationEvent string

const (
	EventCreated     NotificationEvent = "created"
	EventSent        NotificationEvent = "sent"
	EventReceived    NotificationEvent = "received"
	EventDiscrepancy NotificationEvent = "discrepancy"
	EventCompleted   NotificationEvent = "completed"
)

// RecipientDepartment is the department a notification for d is addressed to.
// Discrepancies go back to the origin; everything else goes to the destination.
func (e NotificationEvent) RecipientDepartment(d Distribution) string {
	if e == EventDiscrepancy {
		return d.OriginDepartmentID
	}
	return d.DestinationDepartmentID
}

// OutboxStatus tracks delivery of an outbox message.
type OutboxStatus string

const (
	OutboxPending    OutboxStatus = "pending"
	OutboxDispatched OutboxStatus = "dispatched"
	OutboxFailed     OutboxStatus = "failed"
)

// OutboxMessage is a notification committed together with the state change that caused it.
type OutboxMessage struct {
	MessageID      string            `json:"messageID"`
	DistributionID string            `json:"distributionID"`
	Event          NotificationEvent `json:"event"`
	Payload        map[string]any    `json:"payload,omitempty"`
	Status         OutboxStatus      `json:"status"`
	Attempts       int               `json:"attempts"`
	LastError      *string           `json:"lastError,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
	DispatchedAt   *time.Time        `json:"dispatchedAt,omitempty"`
}
