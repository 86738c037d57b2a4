// internal/domain/graphic/repository.go
package graphic

import (
	"context"
	"database/sql"
	"time"
)

// Repository defines persistence operations for Graphic records. The store
// owns record lifetime. Every mutation is a single conditional statement
// guarded by the state it transitions from, so concurrent writers (the two
// evaluator passes and the handler goroutines) can never overwrite each
// other's transitions with stale reads: a guard that matches zero rows means
// another writer got there first and the caller's transition is void.
type Repository interface {
	Create(ctx context.Context, g *Graphic) error
	GetByID(ctx context.Context, id int64) (*Graphic, error)
	GetByMessage(ctx context.Context, chatID, messageID int64) (*Graphic, error)
	// GetByPromptMessageID resolves the record an outstanding moderator DM
	// belongs to, so classification replies survive restarts.
	GetByPromptMessageID(ctx context.Context, promptMessageID int64) (*Graphic, error)

	// Reschedule applies a new validity window and resets the reminder,
	// approval and unresolved sub-state. Guarded on the record not being in
	// the expiry phase (reminder dispatched or approval pending).
	Reschedule(ctx context.Context, g *Graphic) error
	// MarkReminderSent flips reminder_sent exactly once and records the
	// posted artifact. Guarded on reminder_sent still being false.
	MarkReminderSent(ctx context.Context, id int64, reminderMessageID sql.NullInt64) error
	// MarkPendingApproval records the outstanding approval prompt. Guarded
	// on no approval being pending yet.
	MarkPendingApproval(ctx context.Context, id, promptMessageID int64) error
	// SetClassificationPrompt attaches the classification prompt to a record
	// still awaiting resolution. Guarded on the record being unresolved.
	SetClassificationPrompt(ctx context.Context, id, promptMessageID int64) error
	// MarkUnresolved clears all scheduling, reminder and approval state and
	// routes the record to manual follow-up.
	MarkUnresolved(ctx context.Context, id int64) error

	Delete(ctx context.Context, id int64) error
	// DeleteByChat removes every record scoped to a chat and reports how many
	// were removed. Used when monitoring is disabled for the chat.
	DeleteByChat(ctx context.Context, chatID int64) (int64, error)

	ListAll(ctx context.Context) ([]*Graphic, error)
	// ListDueReminders returns scheduled records with reminder_at <= now that
	// have not had their reminder dispatched yet.
	ListDueReminders(ctx context.Context, now time.Time) ([]*Graphic, error)
	// ListDueExpiries returns scheduled records with expiry_at <= now that
	// have no approval request outstanding.
	ListDueExpiries(ctx context.Context, now time.Time) ([]*Graphic, error)
	// ListKeys returns the content keys of all records, for rebuilding the
	// duplicate-submission index at startup.
	ListKeys(ctx context.Context) ([]Key, error)
}
