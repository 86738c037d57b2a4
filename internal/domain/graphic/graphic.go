// internal/domain/graphic/graphic.go
package graphic

import (
	"database/sql"
	"time"
)

// Graphic is one tracked content item. Corresponds to the
// 'monitored_graphics' table.
//
// A record is either scheduled (EffectiveAt/ExpiryAt set) or needs attention
// (Unresolved set, no scheduling instants), never both. An unresolved record
// with a live prompt is awaiting moderator classification; without one it is
// terminal and carries a visible marker on the original message.
type Graphic struct {
	ID        int64
	ChatID    int64
	MessageID int64 // unique together with ChatID
	AuthorID  int64

	DateLabel   sql.NullString // original date string as matched, or canonical month name
	EffectiveAt sql.NullTime
	ExpiryAt    sql.NullTime // window end plus one-day grace period

	ReminderAt        sql.NullTime
	ReminderSent      bool
	ReminderMessageID sql.NullInt64 // the posted reminder reply, if any

	PendingApproval bool
	PromptMessageID sql.NullInt64 // outstanding approval or classification DM

	Unresolved bool
	CreatedAt  time.Time
}

// Key identifies the tracked content. Telegram message ids are sequences per
// chat, so the pair is the unique content identifier.
type Key struct {
	ChatID    int64
	MessageID int64
}

func (g *Graphic) Key() Key {
	return Key{ChatID: g.ChatID, MessageID: g.MessageID}
}

// AwaitingClassification reports whether a moderator still has to supply a
// date string or skip tracking for this record.
func (g *Graphic) AwaitingClassification() bool {
	return g.Unresolved && g.PromptMessageID.Valid
}

// ReminderTime computes the instant a reminder should be posted for content
// that comes into effect at effectiveAt and was submitted at submittedAt.
// Returns false when the lead time is under 48 hours - too late to warn
// ahead. Otherwise, the reminder fires at hour:minute local to loc on the
// calendar day preceding effectiveAt's date, stored as a UTC instant.
func ReminderTime(effectiveAt, submittedAt time.Time, loc *time.Location, hour, minute int) (time.Time, bool) {
	if effectiveAt.Sub(submittedAt) < 48*time.Hour {
		return time.Time{}, false
	}
	dayBefore := effectiveAt.UTC().AddDate(0, 0, -1)
	local := time.Date(dayBefore.Year(), dayBefore.Month(), dayBefore.Day(), hour, minute, 0, 0, loc)
	return local.UTC(), true
}
