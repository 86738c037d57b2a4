package channel

import (
	"context"
)

// Repository defines the operations for persisting monitored channels.
type Repository interface {
	// Upsert creates the channel row or re-enables an existing one.
	Upsert(ctx context.Context, ch *MonitoredChannel) error
	GetByChatID(ctx context.Context, chatID int64) (*MonitoredChannel, error)
	SetEnabled(ctx context.Context, chatID int64, enabled bool) error
	ListEnabled(ctx context.Context) ([]*MonitoredChannel, error)
}

// AttachmentOnlyRepository persists the attachment-only channel toggle.
type AttachmentOnlyRepository interface {
	SetEnabled(ctx context.Context, chatID int64, enabled bool) error
	IsEnabled(ctx context.Context, chatID int64) (bool, error)
	ListEnabled(ctx context.Context) ([]int64, error)
}
