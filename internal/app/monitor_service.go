// internal/app/monitor_service.go
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"graphics_monitor_bot/internal/domain/channel"
	"graphics_monitor_bot/internal/domain/dateparse"
	"graphics_monitor_bot/internal/domain/graphic"
	domTelegram "graphics_monitor_bot/internal/domain/telegram"
	idb "graphics_monitor_bot/internal/infra/database"
	"graphics_monitor_bot/internal/infra/metrics"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// Custom application-level errors for the monitor service
var ErrDateRangeRejected = fmt.Errorf("text matched no supported date format")
var ErrGraphicAlreadyMonitored = fmt.Errorf("message is already being monitored")
var ErrNotAwaitingClassification = fmt.Errorf("record is not awaiting classification")
var ErrContentGone = fmt.Errorf("referenced message no longer exists")

// IncomingMessage is the platform-neutral shape of a message push event.
type IncomingMessage struct {
	ChatID        int64
	MessageID     int64
	AuthorID      int64
	Text          string
	HasAttachment bool
	FromBot       bool
	SentAt        time.Time
}

// MonitorService owns the graphic lifecycle: submission and edit handling,
// the two periodic evaluator passes, and the moderator approval and
// classification workflows.
type MonitorService interface {
	HandleNewMessage(ctx context.Context, msg IncomingMessage) error
	HandleEditedMessage(ctx context.Context, msg IncomingMessage) error
	EnforceAttachmentOnly(ctx context.Context, msg IncomingMessage) error

	ProcessDueReminders(ctx context.Context) error
	ProcessDueExpiries(ctx context.Context) error

	ResolveApproval(ctx context.Context, graphicID int64, approved bool) (string, error)
	ClassifyWithDate(ctx context.Context, graphicID int64, text string) (*graphic.Graphic, error)
	ClassifyByPromptReply(ctx context.Context, promptMessageID int64, text string) (*graphic.Graphic, error)
	SkipClassification(ctx context.Context, graphicID int64) error

	AddGraphic(ctx context.Context, chatID, messageID, authorID int64, dateRange string) (*graphic.Graphic, error)
	RemoveGraphic(ctx context.Context, chatID, messageID int64) error
}

// ReminderSettings groups the reminder computation configuration.
type ReminderSettings struct {
	Enabled  bool
	Location *time.Location
	Hour     int
	Minute   int
	Text     string
}

type MonitorServiceImpl struct {
	graphicRepo graphic.Repository
	channelRepo channel.Repository
	attachRepo  channel.AttachmentOnlyRepository
	tg          domTelegram.Client
	index       *DuplicateIndex
	logger      *logrus.Entry
	moderatorID int64
	reminder    ReminderSettings

	now func() time.Time // swapped out in tests
}

func NewMonitorService(
	gr graphic.Repository,
	cr channel.Repository,
	ar channel.AttachmentOnlyRepository,
	tg domTelegram.Client,
	index *DuplicateIndex,
	logger *logrus.Entry,
	moderatorID int64,
	reminder ReminderSettings,
) *MonitorServiceImpl {
	return &MonitorServiceImpl{
		graphicRepo: gr,
		channelRepo: cr,
		attachRepo:  ar,
		tg:          tg,
		index:       index,
		logger:      logger,
		moderatorID: moderatorID,
		reminder:    reminder,
		now:         time.Now,
	}
}

// applyWindow moves a record into the scheduled state. The reminder instant
// is anchored to submittedAt, which for edits is the original submission
// instant, not the edit instant.
func (s *MonitorServiceImpl) applyWindow(g *graphic.Graphic, w dateparse.Window, submittedAt time.Time) {
	g.DateLabel = sql.NullString{String: w.Label, Valid: true}
	g.EffectiveAt = sql.NullTime{Time: w.EffectiveAt, Valid: true}
	g.ExpiryAt = sql.NullTime{Time: w.ExpiryAt, Valid: true}
	g.ReminderAt = sql.NullTime{}
	g.ReminderSent = false
	g.ReminderMessageID = sql.NullInt64{}
	g.Unresolved = false
	if at, ok := graphic.ReminderTime(w.EffectiveAt, submittedAt, s.reminder.Location, s.reminder.Hour, s.reminder.Minute); ok {
		g.ReminderAt = sql.NullTime{Time: at, Valid: true}
	}
}

// HandleNewMessage reacts to a message pushed by the platform. Non-human
// senders, unmonitored chats, senders without elevated rights, messages
// without attachments and already-tracked messages are all ignored.
func (s *MonitorServiceImpl) HandleNewMessage(ctx context.Context, msg IncomingMessage) error {
	if msg.FromBot {
		return nil
	}

	ch, err := s.channelRepo.GetByChatID(ctx, msg.ChatID)
	if err != nil {
		if err == idb.ErrChannelNotFound {
			return nil
		}
		return fmt.Errorf("failed to check monitored channel %d: %w", msg.ChatID, err)
	}
	if !ch.Enabled {
		return nil
	}

	elevated, err := s.tg.IsAdmin(msg.ChatID, msg.AuthorID)
	if err != nil {
		s.logger.WithError(err).WithField("chat_id", msg.ChatID).Warn("Could not verify sender role, skipping message")
		return nil
	}
	if !elevated {
		return nil
	}

	if !msg.HasAttachment {
		return nil
	}

	key := graphic.Key{ChatID: msg.ChatID, MessageID: msg.MessageID}
	if s.index.Contains(key) {
		return nil
	}
	if _, err := s.graphicRepo.GetByMessage(ctx, msg.ChatID, msg.MessageID); err == nil {
		s.index.Add(key)
		return nil
	} else if err != idb.ErrGraphicNotFound {
		return fmt.Errorf("failed to check existing graphic: %w", err)
	}

	g := &graphic.Graphic{ChatID: msg.ChatID, MessageID: msg.MessageID, AuthorID: msg.AuthorID}
	w, ok := dateparse.Parse(msg.Text, msg.SentAt)
	if ok {
		s.applyWindow(g, w, msg.SentAt)
	} else {
		metrics.ParseRejected.Inc()
		g.Unresolved = true
	}

	if err := s.graphicRepo.Create(ctx, g); err != nil {
		if err == idb.ErrDuplicateGraphic {
			s.index.Add(key)
			return nil
		}
		return fmt.Errorf("failed to create graphic record: %w", err)
	}
	s.index.Add(key)

	if ok {
		metrics.GraphicsTracked.Inc()
		s.logger.WithFields(logrus.Fields{
			"chat_id": g.ChatID, "message_id": g.MessageID,
			"date_label": w.Label, "expiry_at": w.ExpiryAt,
		}).Info("Graphic added to monitoring")
		return nil
	}
	return s.requestClassification(ctx, g)
}

// requestClassification asks the moderator to supply a date range for a
// record whose text matched no format. The forward of the original message
// serves as the preview and as the proof the content still exists.
func (s *MonitorServiceImpl) requestClassification(ctx context.Context, g *graphic.Graphic) error {
	if _, err := s.tg.Forward(s.moderatorID, g.ChatID, g.MessageID); err != nil {
		switch {
		case errors.Is(err, domTelegram.ErrMessageNotFound):
			return s.removeRecord(ctx, g)
		case errors.Is(err, domTelegram.ErrDeliveryForbidden):
			return s.markUnresolved(ctx, g)
		}
		return fmt.Errorf("failed to forward graphic %d for classification: %w", g.ID, err)
	}

	markup := &telebot.ReplyMarkup{}
	btnSkip := markup.Data("Skip tracking", fmt.Sprintf("cls_skip_%d", g.ID))
	markup.Inline(markup.Row(btnSkip))

	text := fmt.Sprintf(
		"The graphic above has no recognized date range.\nReply to this message with a date range, or skip tracking.\n\n%s",
		dateparse.SupportedFormats,
	)
	promptID, err := s.tg.Send(s.moderatorID, text, &telebot.SendOptions{ReplyMarkup: markup})
	if err != nil {
		if errors.Is(err, domTelegram.ErrDeliveryForbidden) {
			return s.markUnresolved(ctx, g)
		}
		return fmt.Errorf("failed to send classification prompt for graphic %d: %w", g.ID, err)
	}

	g.PromptMessageID = sql.NullInt64{Int64: promptID, Valid: true}
	if err := s.graphicRepo.SetClassificationPrompt(ctx, g.ID, promptID); err != nil {
		if err == idb.ErrStaleGraphic {
			// Record was classified or removed while the prompt was in flight.
			s.retractPrompt(g)
			return nil
		}
		return fmt.Errorf("failed to store classification prompt id for graphic %d: %w", g.ID, err)
	}
	s.logger.WithFields(logrus.Fields{"graphic_id": g.ID, "prompt_id": promptID}).Info("Classification prompt sent")
	return nil
}

// markUnresolved routes a record to manual follow-up: the original message
// gets a visible marker, scheduling fields are cleared, the record stays.
func (s *MonitorServiceImpl) markUnresolved(ctx context.Context, g *graphic.Graphic) error {
	if _, err := s.tg.Reply(g.ChatID, g.MessageID, "❌"); err != nil {
		if errors.Is(err, domTelegram.ErrMessageNotFound) {
			return s.removeRecord(ctx, g)
		}
		s.logger.WithError(err).WithField("graphic_id", g.ID).Warn("Could not add marker to message")
	}

	s.retractReminder(g)
	s.retractPrompt(g)
	if err := s.graphicRepo.MarkUnresolved(ctx, g.ID); err != nil {
		if err == idb.ErrGraphicNotFound {
			s.index.Remove(g.Key())
			return nil
		}
		return fmt.Errorf("failed to mark graphic %d unresolved: %w", g.ID, err)
	}
	metrics.GraphicsUnresolved.Inc()
	s.logger.WithFields(logrus.Fields{"graphic_id": g.ID, "chat_id": g.ChatID, "message_id": g.MessageID}).
		Warn("Graphic marked for manual follow-up")
	return nil
}

func (s *MonitorServiceImpl) removeRecord(ctx context.Context, g *graphic.Graphic) error {
	if err := s.graphicRepo.Delete(ctx, g.ID); err != nil && err != idb.ErrGraphicNotFound {
		return fmt.Errorf("failed to delete graphic record %d: %w", g.ID, err)
	}
	s.index.Remove(g.Key())
	return nil
}

// retractReminder deletes the posted reminder reply, if any. Best effort:
// a missing artifact is not an error.
func (s *MonitorServiceImpl) retractReminder(g *graphic.Graphic) {
	if !g.ReminderMessageID.Valid {
		return
	}
	if err := s.tg.Delete(g.ChatID, g.ReminderMessageID.Int64); err != nil && !errors.Is(err, domTelegram.ErrMessageNotFound) {
		s.logger.WithError(err).WithField("graphic_id", g.ID).Warn("Could not retract reminder artifact")
	}
}

// retractPrompt deletes an outstanding moderator DM, if any.
func (s *MonitorServiceImpl) retractPrompt(g *graphic.Graphic) {
	if !g.PromptMessageID.Valid {
		return
	}
	if err := s.tg.Delete(s.moderatorID, g.PromptMessageID.Int64); err != nil && !errors.Is(err, domTelegram.ErrMessageNotFound) {
		s.logger.WithError(err).WithField("graphic_id", g.ID).Warn("Could not retract moderator prompt")
	}
}

// HandleEditedMessage re-parses the new text of a tracked message. Once the
// reminder went out or an approval is pending the item is in its expiry
// phase and edits are ignored.
func (s *MonitorServiceImpl) HandleEditedMessage(ctx context.Context, msg IncomingMessage) error {
	g, err := s.graphicRepo.GetByMessage(ctx, msg.ChatID, msg.MessageID)
	if err != nil {
		if err == idb.ErrGraphicNotFound {
			return nil
		}
		return fmt.Errorf("failed to look up edited graphic: %w", err)
	}
	if g.ReminderSent || g.PendingApproval {
		return nil
	}

	w, ok := dateparse.Parse(msg.Text, s.now())
	if !ok {
		s.retractReminder(g)
		s.retractPrompt(g)
		s.logger.WithFields(logrus.Fields{"graphic_id": g.ID, "message_id": g.MessageID}).
			Info("Edited text no longer parses, dropping tracking")
		return s.removeRecord(ctx, g)
	}

	s.retractPrompt(g)
	s.applyWindow(g, w, g.CreatedAt)
	g.PromptMessageID = sql.NullInt64{}
	if err := s.graphicRepo.Reschedule(ctx, g); err != nil {
		if err == idb.ErrStaleGraphic {
			// Reminder or approval fired since the read; the edit no longer applies.
			return nil
		}
		return fmt.Errorf("failed to update graphic %d after edit: %w", g.ID, err)
	}
	s.logger.WithFields(logrus.Fields{"graphic_id": g.ID, "date_label": w.Label, "expiry_at": w.ExpiryAt}).
		Info("Graphic rescheduled after edit")
	return nil
}

// EnforceAttachmentOnly deletes plain text messages posted in a chat that is
// configured to allow attachments only.
func (s *MonitorServiceImpl) EnforceAttachmentOnly(ctx context.Context, msg IncomingMessage) error {
	if msg.FromBot || msg.HasAttachment {
		return nil
	}
	enabled, err := s.attachRepo.IsEnabled(ctx, msg.ChatID)
	if err != nil {
		return fmt.Errorf("failed to check attachment-only chat %d: %w", msg.ChatID, err)
	}
	if !enabled {
		return nil
	}
	if err := s.tg.Delete(msg.ChatID, msg.MessageID); err != nil && !errors.Is(err, domTelegram.ErrMessageNotFound) {
		s.logger.WithError(err).WithField("chat_id", msg.ChatID).Warn("Could not delete non-attachment message")
	}
	return nil
}

// ProcessDueReminders is the reminder evaluator pass. A failure on one
// record never stops the remaining records in the same pass.
func (s *MonitorServiceImpl) ProcessDueReminders(ctx context.Context) error {
	if !s.reminder.Enabled {
		s.logger.Debug("Reminders disabled, skipping pass")
		return nil
	}
	due, err := s.graphicRepo.ListDueReminders(ctx, s.now())
	if err != nil {
		return fmt.Errorf("failed to list due reminders: %w", err)
	}
	for _, g := range due {
		if err := s.sendReminder(ctx, g); err != nil {
			metrics.EvaluatorErrors.WithLabelValues("reminder").Inc()
			s.logger.WithError(err).WithFields(logrus.Fields{
				"graphic_id": g.ID, "chat_id": g.ChatID, "message_id": g.MessageID,
			}).Error("Reminder dispatch failed, will retry next tick")
		}
	}
	s.logger.WithField("due_count", len(due)).Debug("Reminder pass finished")
	return nil
}

func (s *MonitorServiceImpl) sendReminder(ctx context.Context, g *graphic.Graphic) error {
	reminderMessageID := sql.NullInt64{}
	replyID, err := s.tg.Reply(g.ChatID, g.MessageID, s.reminder.Text)
	switch {
	case err == nil:
		reminderMessageID = sql.NullInt64{Int64: replyID, Valid: true}
		metrics.RemindersSent.Inc()
		s.logger.WithFields(logrus.Fields{"graphic_id": g.ID, "reminder_message_id": replyID}).Info("Reminder posted")
	case errors.Is(err, domTelegram.ErrMessageNotFound):
		// Original message is gone, no reminder possible.
		return s.removeRecord(ctx, g)
	case errors.Is(err, domTelegram.ErrDeliveryForbidden):
		// Mark sent anyway so the evaluator does not retry forever.
		s.logger.WithError(err).WithField("graphic_id", g.ID).Error("No rights to post reminder, marking as sent")
	default:
		return err
	}
	if err := s.graphicRepo.MarkReminderSent(ctx, g.ID, reminderMessageID); err != nil {
		if err == idb.ErrStaleGraphic {
			return nil
		}
		return fmt.Errorf("failed to mark reminder sent for graphic %d: %w", g.ID, err)
	}
	return nil
}

// ProcessDueExpiries is the expiry evaluator pass: every expired record gets
// a deletion approval request, once.
func (s *MonitorServiceImpl) ProcessDueExpiries(ctx context.Context) error {
	due, err := s.graphicRepo.ListDueExpiries(ctx, s.now())
	if err != nil {
		return fmt.Errorf("failed to list due expiries: %w", err)
	}
	for _, g := range due {
		if err := s.requestDeletionApproval(ctx, g); err != nil {
			metrics.EvaluatorErrors.WithLabelValues("expiry").Inc()
			s.logger.WithError(err).WithFields(logrus.Fields{
				"graphic_id": g.ID, "chat_id": g.ChatID, "message_id": g.MessageID,
			}).Error("Approval request failed, will retry next tick")
		}
	}
	s.logger.WithField("due_count", len(due)).Debug("Expiry pass finished")
	return nil
}

func (s *MonitorServiceImpl) requestDeletionApproval(ctx context.Context, g *graphic.Graphic) error {
	if _, err := s.tg.Forward(s.moderatorID, g.ChatID, g.MessageID); err != nil {
		switch {
		case errors.Is(err, domTelegram.ErrMessageNotFound):
			// Already deleted externally; nothing to approve.
			return s.removeRecord(ctx, g)
		case errors.Is(err, domTelegram.ErrDeliveryForbidden):
			return s.markUnresolved(ctx, g)
		}
		return fmt.Errorf("failed to forward graphic %d for approval: %w", g.ID, err)
	}

	markup := &telebot.ReplyMarkup{}
	btnDelete := markup.Data("Delete message", fmt.Sprintf("appr_yes_%d", g.ID))
	btnKeep := markup.Data("Keep message", fmt.Sprintf("appr_no_%d", g.ID))
	markup.Inline(markup.Row(btnDelete, btnKeep))

	label := "n/a"
	if g.DateLabel.Valid {
		label = g.DateLabel.String
	}
	text := fmt.Sprintf(
		"The graphic above has expired.\nDate range: %s\nExpired: %s\nShould it be deleted?",
		label, g.ExpiryAt.Time.Format("2006-01-02 15:04 UTC"),
	)
	promptID, err := s.tg.Send(s.moderatorID, text, &telebot.SendOptions{ReplyMarkup: markup})
	if err != nil {
		if errors.Is(err, domTelegram.ErrDeliveryForbidden) {
			return s.markUnresolved(ctx, g)
		}
		return fmt.Errorf("failed to send approval prompt for graphic %d: %w", g.ID, err)
	}

	g.PendingApproval = true
	g.PromptMessageID = sql.NullInt64{Int64: promptID, Valid: true}
	if err := s.graphicRepo.MarkPendingApproval(ctx, g.ID, promptID); err != nil {
		if err == idb.ErrStaleGraphic {
			// Another writer resolved the record first; withdraw the prompt.
			s.retractPrompt(g)
			return nil
		}
		return fmt.Errorf("failed to store approval state for graphic %d: %w", g.ID, err)
	}
	metrics.ApprovalRequests.Inc()
	s.logger.WithFields(logrus.Fields{"graphic_id": g.ID, "prompt_id": promptID}).Info("Deletion approval requested")
	return nil
}

// ResolveApproval applies the moderator's decision. The returned string is
// the acknowledgement shown on the button callback; stale callbacks (record
// already resolved) degrade to a no-op.
func (s *MonitorServiceImpl) ResolveApproval(ctx context.Context, graphicID int64, approved bool) (string, error) {
	g, err := s.graphicRepo.GetByID(ctx, graphicID)
	if err != nil {
		if err == idb.ErrGraphicNotFound {
			return "Already resolved.", nil
		}
		return "", fmt.Errorf("failed to get graphic %d: %w", graphicID, err)
	}
	if !g.PendingApproval {
		return "Already resolved.", nil
	}

	if approved {
		err := s.tg.Delete(g.ChatID, g.MessageID)
		switch {
		case err == nil, errors.Is(err, domTelegram.ErrMessageNotFound):
			// Deleted now or already gone externally; both end in cleanup.
		case errors.Is(err, domTelegram.ErrDeliveryForbidden):
			if err := s.markUnresolved(ctx, g); err != nil {
				return "", err
			}
			return "No rights to delete the message; marked for manual follow-up.", nil
		default:
			return "", fmt.Errorf("failed to delete message for graphic %d: %w", g.ID, err)
		}
	}

	s.retractReminder(g)
	if err := s.removeRecord(ctx, g); err != nil {
		return "", err
	}

	outcome := "kept"
	ack := "Message kept, tracking removed."
	if approved {
		outcome = "deleted"
		ack = "Message deleted."
	}
	metrics.ApprovalsResolved.WithLabelValues(outcome).Inc()
	s.logger.WithFields(logrus.Fields{"graphic_id": g.ID, "outcome": outcome}).Info("Approval resolved")
	return ack, nil
}

// ClassifyWithDate re-enters the parser with a moderator-supplied date
// string for a record awaiting classification.
func (s *MonitorServiceImpl) ClassifyWithDate(ctx context.Context, graphicID int64, text string) (*graphic.Graphic, error) {
	g, err := s.graphicRepo.GetByID(ctx, graphicID)
	if err != nil {
		if err == idb.ErrGraphicNotFound {
			return nil, ErrNotAwaitingClassification
		}
		return nil, fmt.Errorf("failed to get graphic %d: %w", graphicID, err)
	}
	if !g.AwaitingClassification() {
		return nil, ErrNotAwaitingClassification
	}

	w, ok := dateparse.Parse(text, s.now())
	if !ok {
		return nil, ErrDateRangeRejected
	}

	// Re-verify the referenced message still exists before scheduling it.
	if _, err := s.tg.Forward(s.moderatorID, g.ChatID, g.MessageID); err != nil {
		switch {
		case errors.Is(err, domTelegram.ErrMessageNotFound):
			s.retractPrompt(g)
			if err := s.removeRecord(ctx, g); err != nil {
				return nil, err
			}
			return nil, ErrContentGone
		case errors.Is(err, domTelegram.ErrDeliveryForbidden):
			if err := s.markUnresolved(ctx, g); err != nil {
				return nil, err
			}
			return nil, ErrContentGone
		}
		return nil, fmt.Errorf("failed to verify graphic %d still exists: %w", g.ID, err)
	}

	s.applyWindow(g, w, g.CreatedAt)
	g.PromptMessageID = sql.NullInt64{}
	if err := s.graphicRepo.Reschedule(ctx, g); err != nil {
		if err == idb.ErrStaleGraphic {
			return nil, ErrNotAwaitingClassification
		}
		return nil, fmt.Errorf("failed to schedule classified graphic %d: %w", g.ID, err)
	}
	metrics.GraphicsTracked.Inc()
	s.logger.WithFields(logrus.Fields{"graphic_id": g.ID, "date_label": w.Label}).Info("Graphic classified and scheduled")
	return g, nil
}

// ClassifyByPromptReply resolves which record a moderator's reply refers to
// by the prompt message it replies to, then classifies it.
func (s *MonitorServiceImpl) ClassifyByPromptReply(ctx context.Context, promptMessageID int64, text string) (*graphic.Graphic, error) {
	g, err := s.graphicRepo.GetByPromptMessageID(ctx, promptMessageID)
	if err != nil {
		if err == idb.ErrGraphicNotFound {
			return nil, ErrNotAwaitingClassification
		}
		return nil, fmt.Errorf("failed to look up graphic by prompt %d: %w", promptMessageID, err)
	}
	return s.ClassifyWithDate(ctx, g.ID, text)
}

// SkipClassification abandons tracking for a record awaiting classification.
func (s *MonitorServiceImpl) SkipClassification(ctx context.Context, graphicID int64) error {
	g, err := s.graphicRepo.GetByID(ctx, graphicID)
	if err != nil {
		if err == idb.ErrGraphicNotFound {
			return nil
		}
		return fmt.Errorf("failed to get graphic %d: %w", graphicID, err)
	}
	if !g.AwaitingClassification() {
		return nil
	}
	s.logger.WithField("graphic_id", g.ID).Info("Classification skipped, tracking abandoned")
	return s.removeRecord(ctx, g)
}

// AddGraphic puts a message under monitoring with an operator-supplied date
// range. The reminder is anchored to the add instant.
func (s *MonitorServiceImpl) AddGraphic(ctx context.Context, chatID, messageID, authorID int64, dateRange string) (*graphic.Graphic, error) {
	w, ok := dateparse.Parse(dateRange, s.now())
	if !ok {
		return nil, ErrDateRangeRejected
	}

	if _, err := s.graphicRepo.GetByMessage(ctx, chatID, messageID); err == nil {
		return nil, ErrGraphicAlreadyMonitored
	} else if err != idb.ErrGraphicNotFound {
		return nil, fmt.Errorf("failed to check existing graphic: %w", err)
	}

	// Re-verify the referenced message exists before creating a record for it.
	if _, err := s.tg.Forward(s.moderatorID, chatID, messageID); err != nil {
		if errors.Is(err, domTelegram.ErrMessageNotFound) {
			return nil, ErrContentGone
		}
		return nil, fmt.Errorf("failed to verify message %d in chat %d exists: %w", messageID, chatID, err)
	}

	g := &graphic.Graphic{ChatID: chatID, MessageID: messageID, AuthorID: authorID}
	s.applyWindow(g, w, s.now())
	if err := s.graphicRepo.Create(ctx, g); err != nil {
		if err == idb.ErrDuplicateGraphic {
			return nil, ErrGraphicAlreadyMonitored
		}
		return nil, fmt.Errorf("failed to create graphic record: %w", err)
	}
	s.index.Add(g.Key())
	metrics.GraphicsTracked.Inc()
	s.logger.WithFields(logrus.Fields{
		"chat_id": chatID, "message_id": messageID, "date_label": w.Label, "expiry_at": w.ExpiryAt,
	}).Info("Graphic manually added to monitoring")
	return g, nil
}

// RemoveGraphic stops tracking a message without touching the message
// itself. Safe to invoke while an evaluator pass is running: the record is
// deleted through the store, and outstanding artifacts are retracted.
func (s *MonitorServiceImpl) RemoveGraphic(ctx context.Context, chatID, messageID int64) error {
	g, err := s.graphicRepo.GetByMessage(ctx, chatID, messageID)
	if err != nil {
		return err
	}
	s.retractReminder(g)
	s.retractPrompt(g)
	s.logger.WithFields(logrus.Fields{"graphic_id": g.ID, "message_id": messageID}).Info("Graphic removed from monitoring")
	return s.removeRecord(ctx, g)
}
