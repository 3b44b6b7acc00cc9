package notification

import (
	"context"
	"log/slog"

	portssvc "github.com/SscSPs/document_distribution_app/internal/core/ports/services"
)

// LogSink delivers notifications as structured log records. It stands in for
// email and realtime delivery, which live outside this service.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger.With(slog.String("component", "notification"))}
}

func (s *LogSink) Notify(ctx context.Context, n portssvc.Notification) error {
	s.logger.InfoContext(ctx, "Distribution notification",
		slog.String("message_id", n.MessageID),
		slog.String("event", string(n.Event)),
		slog.String("recipient_department_id", n.RecipientDepartment),
		slog.String("distribution_id", n.Distribution.DistributionID),
		slog.String("distribution_number", n.Distribution.DistributionNumber),
		slog.String("status", string(n.Distribution.Status)),
		slog.Int("documents", len(n.Documents)),
		slog.Any("payload", n.Payload))
	return nil
}
