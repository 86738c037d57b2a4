package database

import (
	"context"
	"database/sql"
	"fmt"

	"graphics_monitor_bot/internal/domain/channel"
)

// Custom errors
var ErrChannelNotFound = fmt.Errorf("monitored channel not found")

type PostgresChannelRepository struct {
	db *sql.DB
}

func NewPostgresChannelRepository(db *sql.DB) *PostgresChannelRepository {
	return &PostgresChannelRepository{db: db}
}

func (r *PostgresChannelRepository) Upsert(ctx context.Context, ch *channel.MonitoredChannel) error {
	query := `INSERT INTO monitored_channels (chat_id, enabled)
               VALUES ($1, TRUE)
               ON CONFLICT (chat_id) DO UPDATE SET enabled = TRUE
               RETURNING id, enabled, enabled_at`
	err := r.db.QueryRowContext(ctx, query, ch.ChatID).Scan(&ch.ID, &ch.Enabled, &ch.EnabledAt)
	if err != nil {
		return fmt.Errorf("error upserting monitored channel: %w", err)
	}
	return nil
}

func (r *PostgresChannelRepository) GetByChatID(ctx context.Context, chatID int64) (*channel.MonitoredChannel, error) {
	query := `SELECT id, chat_id, enabled, enabled_at FROM monitored_channels WHERE chat_id = $1`
	ch := &channel.MonitoredChannel{}
	err := r.db.QueryRowContext(ctx, query, chatID).Scan(&ch.ID, &ch.ChatID, &ch.Enabled, &ch.EnabledAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrChannelNotFound
		}
		return nil, fmt.Errorf("error getting monitored channel: %w", err)
	}
	return ch, nil
}

func (r *PostgresChannelRepository) SetEnabled(ctx context.Context, chatID int64, enabled bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE monitored_channels SET enabled = $1 WHERE chat_id = $2`, enabled, chatID)
	if err != nil {
		return fmt.Errorf("error updating monitored channel: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking update result: %w", err)
	}
	if affected == 0 {
		return ErrChannelNotFound
	}
	return nil
}

func (r *PostgresChannelRepository) ListEnabled(ctx context.Context) ([]*channel.MonitoredChannel, error) {
	query := `SELECT id, chat_id, enabled, enabled_at FROM monitored_channels WHERE enabled = TRUE ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing monitored channels: %w", err)
	}
	defer rows.Close()

	channels := make([]*channel.MonitoredChannel, 0)
	for rows.Next() {
		ch := &channel.MonitoredChannel{}
		if err := rows.Scan(&ch.ID, &ch.ChatID, &ch.Enabled, &ch.EnabledAt); err != nil {
			return nil, fmt.Errorf("error scanning monitored channel: %w", err)
		}
		channels = append(channels, ch)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monitored channels: %w", err)
	}
	return channels, nil
}

// PostgresAttachmentOnlyRepository persists the attachment-only toggle.
type PostgresAttachmentOnlyRepository struct {
	db *sql.DB
}

func NewPostgresAttachmentOnlyRepository(db *sql.DB) *PostgresAttachmentOnlyRepository {
	return &PostgresAttachmentOnlyRepository{db: db}
}

func (r *PostgresAttachmentOnlyRepository) SetEnabled(ctx context.Context, chatID int64, enabled bool) error {
	query := `INSERT INTO attachment_only_channels (chat_id, enabled)
               VALUES ($1, $2)
               ON CONFLICT (chat_id) DO UPDATE SET enabled = $2`
	if _, err := r.db.ExecContext(ctx, query, chatID, enabled); err != nil {
		return fmt.Errorf("error updating attachment-only channel: %w", err)
	}
	return nil
}

func (r *PostgresAttachmentOnlyRepository) IsEnabled(ctx context.Context, chatID int64) (bool, error) {
	var enabled bool
	err := r.db.QueryRowContext(ctx, `SELECT enabled FROM attachment_only_channels WHERE chat_id = $1`, chatID).Scan(&enabled)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("error checking attachment-only channel: %w", err)
	}
	return enabled, nil
}

func (r *PostgresAttachmentOnlyRepository) ListEnabled(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT chat_id FROM attachment_only_channels WHERE enabled = TRUE ORDER BY chat_id`)
	if err != nil {
		return nil, fmt.Errorf("error listing attachment-only channels: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning attachment-only channel: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attachment-only channels: %w", err)
	}
	return ids, nil
}
