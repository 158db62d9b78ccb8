package sync

import "github.com/MrSnakeDoc/websaver/internal/logger"

// Notifier receives user-visible notices (the toast equivalent).
// Implementations must not block: notices are advisory and never affect
// the mutation or load protocols.
type Notifier interface {
	Notify(msg string)
}

// LogNotifier writes notices to the structured log.
type LogNotifier struct {
	Logger logger.Logger
}

func (n LogNotifier) Notify(msg string) {
	n.Logger.Info("notice", logger.String("msg", msg))
}

// NopNotifier discards notices. Useful in tests.
type NopNotifier struct{}

func (NopNotifier) Notify(string) {}
