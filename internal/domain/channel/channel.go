package channel

import "time"

// MonitoredChannel is a chat opted into graphics lifecycle tracking.
// Disabling keeps the row but cascades removal of the chat's tracked records.
type MonitoredChannel struct {
	ID        int64
	ChatID    int64
	Enabled   bool
	EnabledAt time.Time
}

// AttachmentOnlyChannel is a chat where plain text messages are removed and
// only messages carrying an attachment are allowed to remain.
type AttachmentOnlyChannel struct {
	ID      int64
	ChatID  int64
	Enabled bool
}
