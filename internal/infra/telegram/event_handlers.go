// internal/infra/telegram/event_handlers.go
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"graphics_monitor_bot/internal/app"
	"graphics_monitor_bot/internal/domain/dateparse"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// hasAttachment reports whether a message carries any media the monitor
// treats as an attachment.
func hasAttachment(m *telebot.Message) bool {
	return m.Photo != nil || m.Document != nil || m.Video != nil ||
		m.Animation != nil || m.Audio != nil || m.Voice != nil ||
		m.VideoNote != nil || m.Sticker != nil
}

func incomingFromMessage(m *telebot.Message) app.IncomingMessage {
	text := m.Text
	if text == "" {
		text = m.Caption
	}
	return app.IncomingMessage{
		ChatID:        m.Chat.ID,
		MessageID:     int64(m.ID),
		AuthorID:      m.Sender.ID,
		Text:          text,
		HasAttachment: hasAttachment(m),
		FromBot:       m.Sender.IsBot,
		SentAt:        m.Time(),
	}
}

// RegisterEventHandlers wires message pushes, edits and button callbacks
// into the monitor service. Telebot dispatches each media kind to its own
// endpoint, so the same handler is registered for all of them.
func RegisterEventHandlers(ctx context.Context, b *telebot.Bot, monitorService app.MonitorService, moderatorTelegramID int64, baseLogger *logrus.Entry) {
	onMessage := func(c telebot.Context) error {
		m := c.Message()
		if m == nil || m.Sender == nil {
			return nil
		}

		// Replies the moderator sends to a classification prompt arrive in
		// the private chat; everything else goes through the monitor path.
		if m.Chat.Type == telebot.ChatPrivate {
			if m.Sender.ID == moderatorTelegramID && m.ReplyTo != nil {
				return handleClassificationReply(ctx, c, monitorService, baseLogger)
			}
			return nil
		}

		msg := incomingFromMessage(m)
		if err := monitorService.EnforceAttachmentOnly(ctx, msg); err != nil {
			baseLogger.WithError(err).WithField("chat_id", msg.ChatID).Error("Attachment-only enforcement failed")
		}
		if err := monitorService.HandleNewMessage(ctx, msg); err != nil {
			baseLogger.WithError(err).WithFields(logrus.Fields{
				"chat_id": msg.ChatID, "message_id": msg.MessageID,
			}).Error("Message intake failed")
		}
		return nil
	}

	for _, endpoint := range []string{
		telebot.OnText, telebot.OnPhoto, telebot.OnDocument,
		telebot.OnVideo, telebot.OnAnimation,
	} {
		b.Handle(endpoint, onMessage)
	}

	b.Handle(telebot.OnEdited, func(c telebot.Context) error {
		m := c.Message()
		if m == nil || m.Sender == nil || m.Chat.Type == telebot.ChatPrivate {
			return nil
		}
		msg := incomingFromMessage(m)
		if err := monitorService.HandleEditedMessage(ctx, msg); err != nil {
			baseLogger.WithError(err).WithFields(logrus.Fields{
				"chat_id": msg.ChatID, "message_id": msg.MessageID,
			}).Error("Edit intake failed")
		}
		return nil
	})

	b.Handle(telebot.OnCallback, func(c telebot.Context) error {
		// Inline button callbacks carry a \f-prefixed unique.
		data := strings.TrimPrefix(c.Callback().Data, "\f")

		switch {
		case strings.HasPrefix(data, "appr_yes_"), strings.HasPrefix(data, "appr_no_"):
			graphicID, err := parseCallbackID(data)
			if err != nil {
				c.Bot().OnError(fmt.Errorf("invalid approval callback data %q: %w", data, err), c)
				return c.Respond(&telebot.CallbackResponse{Text: "Could not process this action."})
			}
			approved := strings.HasPrefix(data, "appr_yes_")
			ack, err := monitorService.ResolveApproval(ctx, graphicID, approved)
			if err != nil {
				c.Bot().OnError(fmt.Errorf("error resolving approval for graphic %d: %w", graphicID, err), c)
				return c.Respond(&telebot.CallbackResponse{Text: "Something went wrong."})
			}
			return c.Respond(&telebot.CallbackResponse{Text: ack})

		case strings.HasPrefix(data, "cls_skip_"):
			graphicID, err := parseCallbackID(data)
			if err != nil {
				c.Bot().OnError(fmt.Errorf("invalid skip callback data %q: %w", data, err), c)
				return c.Respond(&telebot.CallbackResponse{Text: "Could not process this action."})
			}
			if err := monitorService.SkipClassification(ctx, graphicID); err != nil {
				c.Bot().OnError(fmt.Errorf("error skipping classification for graphic %d: %w", graphicID, err), c)
				return c.Respond(&telebot.CallbackResponse{Text: "Something went wrong."})
			}
			return c.Respond(&telebot.CallbackResponse{Text: "Tracking skipped."})
		}

		c.Bot().OnError(fmt.Errorf("unhandled callback data: %s", data), c)
		return c.Respond(&telebot.CallbackResponse{Text: "Unknown action."})
	})
}

// parseCallbackID extracts the trailing record id from callback data like
// "appr_yes_123" or "cls_skip_123".
func parseCallbackID(data string) (int64, error) {
	idx := strings.LastIndex(data, "_")
	if idx < 0 || idx == len(data)-1 {
		return 0, fmt.Errorf("no id segment")
	}
	return strconv.ParseInt(data[idx+1:], 10, 64)
}

func handleClassificationReply(ctx context.Context, c telebot.Context, monitorService app.MonitorService, baseLogger *logrus.Entry) error {
	m := c.Message()
	g, err := monitorService.ClassifyByPromptReply(ctx, int64(m.ReplyTo.ID), m.Text)
	if err != nil {
		switch err {
		case app.ErrNotAwaitingClassification:
			return c.Send("This prompt is no longer active.")
		case app.ErrDateRangeRejected:
			return c.Send(fmt.Sprintf("That date range matched no supported format.\n\n%s", dateparse.SupportedFormats))
		case app.ErrContentGone:
			return c.Send("The original message no longer exists; tracking was removed.")
		default:
			baseLogger.WithError(err).WithField("prompt_id", m.ReplyTo.ID).Error("Classification reply failed")
			return c.Send("Something went wrong, please try again.")
		}
	}
	return c.Send(fmt.Sprintf("Scheduled as \"%s\", expires %s.",
		g.DateLabel.String, g.ExpiryAt.Time.Format("2006-01-02 15:04 UTC")))
}
