// internal/infra/database/postgres_graphic_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"graphics_monitor_bot/internal/domain/graphic"
)

// Custom errors specific to the graphic repository
var ErrGraphicNotFound = fmt.Errorf("monitored graphic not found")
var ErrDuplicateGraphic = fmt.Errorf("graphic for this (chat_id, message_id) already monitored")

// ErrStaleGraphic is returned when a guarded transition matched no row: the
// record was removed or another writer already moved it past the guarded
// state. Callers treat their transition as void and move on.
var ErrStaleGraphic = fmt.Errorf("monitored graphic changed concurrently or no longer exists")

const graphicColumns = `id, chat_id, message_id, author_id, date_label, effective_at, expiry_at,
               reminder_at, reminder_sent, reminder_message_id, pending_approval, prompt_message_id,
               unresolved, created_at`

type PostgresGraphicRepository struct {
	db *sql.DB
}

func NewPostgresGraphicRepository(db *sql.DB) *PostgresGraphicRepository {
	return &PostgresGraphicRepository{db: db}
}

func (r *PostgresGraphicRepository) Create(ctx context.Context, g *graphic.Graphic) error {
	query := `INSERT INTO monitored_graphics
               (chat_id, message_id, author_id, date_label, effective_at, expiry_at,
                reminder_at, reminder_sent, reminder_message_id, pending_approval, prompt_message_id, unresolved)
               VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
               RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query,
		g.ChatID, g.MessageID, g.AuthorID, g.DateLabel, g.EffectiveAt, g.ExpiryAt,
		g.ReminderAt, g.ReminderSent, g.ReminderMessageID, g.PendingApproval, g.PromptMessageID, g.Unresolved,
	).Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "monitored_graphics_chat_message_unique") {
			return ErrDuplicateGraphic
		}
		return fmt.Errorf("error creating monitored graphic: %w", err)
	}
	return nil
}

func scanGraphicRow(row *sql.Row) (*graphic.Graphic, error) {
	g := &graphic.Graphic{}
	err := row.Scan(
		&g.ID, &g.ChatID, &g.MessageID, &g.AuthorID, &g.DateLabel, &g.EffectiveAt, &g.ExpiryAt,
		&g.ReminderAt, &g.ReminderSent, &g.ReminderMessageID, &g.PendingApproval, &g.PromptMessageID,
		&g.Unresolved, &g.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrGraphicNotFound
		}
		return nil, fmt.Errorf("error scanning monitored graphic: %w", err)
	}
	return g, nil
}

func (r *PostgresGraphicRepository) GetByID(ctx context.Context, id int64) (*graphic.Graphic, error) {
	query := `SELECT ` + graphicColumns + ` FROM monitored_graphics WHERE id = $1`
	return scanGraphicRow(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresGraphicRepository) GetByMessage(ctx context.Context, chatID, messageID int64) (*graphic.Graphic, error) {
	query := `SELECT ` + graphicColumns + ` FROM monitored_graphics WHERE chat_id = $1 AND message_id = $2`
	return scanGraphicRow(r.db.QueryRowContext(ctx, query, chatID, messageID))
}

func (r *PostgresGraphicRepository) GetByPromptMessageID(ctx context.Context, promptMessageID int64) (*graphic.Graphic, error) {
	query := `SELECT ` + graphicColumns + ` FROM monitored_graphics WHERE prompt_message_id = $1`
	return scanGraphicRow(r.db.QueryRowContext(ctx, query, promptMessageID))
}

// Reschedule replaces the monitored window and resets the reminder and
// approval sub-state. The guard keeps a concurrent reminder or expiry tick
// from being clobbered: once reminder_sent or pending_approval flips, edits
// no longer reschedule the record.
func (r *PostgresGraphicRepository) Reschedule(ctx context.Context, g *graphic.Graphic) error {
	query := `UPDATE monitored_graphics
               SET date_label = $1, effective_at = $2, expiry_at = $3, reminder_at = $4,
                   reminder_sent = FALSE, reminder_message_id = NULL,
                   pending_approval = FALSE, prompt_message_id = NULL, unresolved = FALSE
               WHERE id = $5 AND reminder_sent = FALSE AND pending_approval = FALSE
               RETURNING id`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		g.DateLabel, g.EffectiveAt, g.ExpiryAt, g.ReminderAt, g.ID,
	).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrStaleGraphic
		}
		return fmt.Errorf("error rescheduling monitored graphic: %w", err)
	}
	return nil
}

func (r *PostgresGraphicRepository) MarkReminderSent(ctx context.Context, id int64, reminderMessageID sql.NullInt64) error {
	query := `UPDATE monitored_graphics
               SET reminder_sent = TRUE, reminder_message_id = $1
               WHERE id = $2 AND reminder_sent = FALSE
               RETURNING id`
	var got int64
	err := r.db.QueryRowContext(ctx, query, reminderMessageID, id).Scan(&got)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrStaleGraphic
		}
		return fmt.Errorf("error marking reminder sent: %w", err)
	}
	return nil
}

func (r *PostgresGraphicRepository) MarkPendingApproval(ctx context.Context, id, promptMessageID int64) error {
	query := `UPDATE monitored_graphics
               SET pending_approval = TRUE, prompt_message_id = $1
               WHERE id = $2 AND pending_approval = FALSE
               RETURNING id`
	var got int64
	err := r.db.QueryRowContext(ctx, query, promptMessageID, id).Scan(&got)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrStaleGraphic
		}
		return fmt.Errorf("error marking pending approval: %w", err)
	}
	return nil
}

func (r *PostgresGraphicRepository) SetClassificationPrompt(ctx context.Context, id, promptMessageID int64) error {
	query := `UPDATE monitored_graphics
               SET prompt_message_id = $1
               WHERE id = $2 AND unresolved = TRUE
               RETURNING id`
	var got int64
	err := r.db.QueryRowContext(ctx, query, promptMessageID, id).Scan(&got)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrStaleGraphic
		}
		return fmt.Errorf("error setting classification prompt: %w", err)
	}
	return nil
}

// MarkUnresolved retracts all scheduling state so the record waits for a new
// classification. reminder_sent is cleared along with reminder_at so the pair
// never disagrees.
func (r *PostgresGraphicRepository) MarkUnresolved(ctx context.Context, id int64) error {
	query := `UPDATE monitored_graphics
               SET date_label = NULL, effective_at = NULL, expiry_at = NULL,
                   reminder_at = NULL, reminder_sent = FALSE, reminder_message_id = NULL,
                   pending_approval = FALSE, prompt_message_id = NULL, unresolved = TRUE
               WHERE id = $1
               RETURNING id`
	var got int64
	err := r.db.QueryRowContext(ctx, query, id).Scan(&got)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrGraphicNotFound
		}
		return fmt.Errorf("error marking graphic unresolved: %w", err)
	}
	return nil
}

func (r *PostgresGraphicRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM monitored_graphics WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting monitored graphic: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking delete result: %w", err)
	}
	if affected == 0 {
		return ErrGraphicNotFound
	}
	return nil
}

func (r *PostgresGraphicRepository) DeleteByChat(ctx context.Context, chatID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM monitored_graphics WHERE chat_id = $1`, chatID)
	if err != nil {
		return 0, fmt.Errorf("error deleting monitored graphics for chat %d: %w", chatID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error checking delete result: %w", err)
	}
	return affected, nil
}

// Helper to scan multiple rows
func scanGraphics(rows *sql.Rows) ([]*graphic.Graphic, error) {
	graphics := make([]*graphic.Graphic, 0)
	for rows.Next() {
		g := &graphic.Graphic{}
		if err := rows.Scan(
			&g.ID, &g.ChatID, &g.MessageID, &g.AuthorID, &g.DateLabel, &g.EffectiveAt, &g.ExpiryAt,
			&g.ReminderAt, &g.ReminderSent, &g.ReminderMessageID, &g.PendingApproval, &g.PromptMessageID,
			&g.Unresolved, &g.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning monitored graphic row: %w", err)
		}
		graphics = append(graphics, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monitored graphic rows: %w", err)
	}
	return graphics, nil
}

func (r *PostgresGraphicRepository) ListAll(ctx context.Context) ([]*graphic.Graphic, error) {
	query := `SELECT ` + graphicColumns + ` FROM monitored_graphics ORDER BY expiry_at NULLS LAST, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing monitored graphics: %w", err)
	}
	defer rows.Close()
	return scanGraphics(rows)
}

func (r *PostgresGraphicRepository) ListDueReminders(ctx context.Context, now time.Time) ([]*graphic.Graphic, error) {
	query := `SELECT ` + graphicColumns + ` FROM monitored_graphics
               WHERE reminder_at IS NOT NULL AND reminder_at <= $1
                 AND reminder_sent = FALSE AND unresolved = FALSE
               ORDER BY reminder_at ASC`
	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("error querying due reminders: %w", err)
	}
	defer rows.Close()
	return scanGraphics(rows)
}

func (r *PostgresGraphicRepository) ListDueExpiries(ctx context.Context, now time.Time) ([]*graphic.Graphic, error) {
	query := `SELECT ` + graphicColumns + ` FROM monitored_graphics
               WHERE expiry_at IS NOT NULL AND expiry_at <= $1
                 AND pending_approval = FALSE AND unresolved = FALSE
               ORDER BY expiry_at ASC`
	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("error querying due expiries: %w", err)
	}
	defer rows.Close()
	return scanGraphics(rows)
}

func (r *PostgresGraphicRepository) ListKeys(ctx context.Context) ([]graphic.Key, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT chat_id, message_id FROM monitored_graphics`)
	if err != nil {
		return nil, fmt.Errorf("error listing graphic keys: %w", err)
	}
	defer rows.Close()

	keys := make([]graphic.Key, 0)
	for rows.Next() {
		var k graphic.Key
		if err := rows.Scan(&k.ChatID, &k.MessageID); err != nil {
			return nil, fmt.Errorf("error scanning graphic key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating graphic keys: %w", err)
	}
	return keys, nil
}
