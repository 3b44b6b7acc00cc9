package services

import (
	"context"
	"time"

	"github.com/SscSPs/document_distribution_app/internal/core/domain"
)

// Notification is what a sink receives for one outbox message.
type Notification struct {
	MessageID           string
	Event               domain.NotificationEvent
	RecipientDepartment string
	Distribution        domain.Distribution
	Documents           []domain.DistributionDocument
	Payload             map[string]any
}

// NotificationSink delivers distribution events. Errors are recorded by the dispatcher and retried.
type NotificationSink interface {
	Notify(ctx context.Context, n Notification) error
}

// DispatchTrigger asks the outbox dispatcher to run now instead of waiting for its next poll.
type DispatchTrigger interface {
	Trigger()
}

// ManifestStore archives distribution manifests in object storage.
type ManifestStore interface {
	PutManifest(ctx context.Context, key string, body []byte) error
	PresignManifest(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// ManifestSvc hands out links to archived manifests.
type ManifestSvc interface {
	GetManifestURL(ctx context.Context, distributionID string, event domain.NotificationEvent) (string, time.Time, error)
}
