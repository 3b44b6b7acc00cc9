package notification

import (
	"context"
	"errors"

	portssvc "github.com/SscSPs/document_distribution_app/internal/core/ports/services"
)

// MultiSink fans a notification out to every sink. All sinks are tried; the
// joined error of the failing ones is returned.
type MultiSink []portssvc.NotificationSink

func (m MultiSink) Notify(ctx context.Context, n portssvc.Notification) error {
	var errs []error
	for _, sink := range m {
		if err := sink.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
