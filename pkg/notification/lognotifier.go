package notification

import (
	"context"
	"log/slog"
)

// LogNotifier writes notices to the structured log
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier logs to logger, or slog.Default when nil
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, notice Notice) error {
	args := []any{"type", notice.Type, "subject", notice.Subject}
	for k, v := range notice.Data {
		args = append(args, k, v)
	}
	n.logger.WarnContext(ctx, "Operator notice", args...)
	return nil
}
