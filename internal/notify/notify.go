// Package notify provides the default workflow event sink. Delivery is
// a structured log line; transports with real delivery guarantees plug
// in behind the same interface.
package notify

import (
	"log/slog"

	"github.com/ekrsw/knowledge-app-sub001/knowledge"
)

// LogNotifier announces workflow events to the service log.
type LogNotifier struct{}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// Notify implements knowledge.Notifier.
func (n *LogNotifier) Notify(recipientID int, kind knowledge.EventKind, revisionID string, metadata map[string]string) error {
	attrs := []any{
		"recipient", recipientID,
		"event", kind,
		"revision", revisionID,
	}
	for key, value := range metadata {
		attrs = append(attrs, key, value)
	}
	slog.Info("workflow notification", attrs...)
	return nil
}
