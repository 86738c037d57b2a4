package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"graphics_monitor_bot/internal/app"
	idb "graphics_monitor_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterAdminHandlers registers handlers for the admin commands. The
// service layer enforces authorization too; the sender check here only
// short-circuits the obvious case.
func RegisterAdminHandlers(ctx context.Context, b *telebot.Bot, adminService *app.AdminService, monitorService app.MonitorService, adminTelegramID int64, baseLogger *logrus.Entry) {
	b.Handle("/monitor_enable", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/monitor_enable",
			"sender_id": c.Sender().ID,
			"chat_id":   c.Chat().ID,
		})
		handlerLogger.Info("Command received")

		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send("Error: you are not allowed to run this command.")
		}

		err := adminService.EnableChannel(ctx, c.Sender().ID, c.Chat().ID)
		if err != nil {
			logWithError := handlerLogger.WithError(err)
			switch err {
			case app.ErrAdminNotAuthorized:
				logWithError.Warn("Admin not authorized (service level)")
				return c.Send("Error: you are not allowed to run this command.")
			case app.ErrChannelAlreadyEnabled:
				logWithError.Warn("Monitoring already enabled")
				return c.Send("Monitoring is already enabled for this chat.")
			default:
				logWithError.Error("Failed to enable monitoring")
				return c.Send(fmt.Sprintf("Failed to enable monitoring: %s", err.Error()))
			}
		}

		handlerLogger.Info("Monitoring enabled")
		return c.Send("Monitoring enabled. Graphics with attachments posted by admins in this chat will now be tracked.")
	})

	b.Handle("/monitor_disable", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/monitor_disable",
			"sender_id": c.Sender().ID,
			"chat_id":   c.Chat().ID,
		})
		handlerLogger.Info("Command received")

		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send("Error: you are not allowed to run this command.")
		}

		removed, err := adminService.DisableChannel(ctx, c.Sender().ID, c.Chat().ID)
		if err != nil {
			logWithError := handlerLogger.WithError(err)
			switch err {
			case app.ErrAdminNotAuthorized:
				logWithError.Warn("Admin not authorized (service level)")
				return c.Send("Error: you are not allowed to run this command.")
			case app.ErrChannelNotEnabled:
				logWithError.Warn("Monitoring not enabled")
				return c.Send("Monitoring is not enabled for this chat.")
			default:
				logWithError.Error("Failed to disable monitoring")
				return c.Send(fmt.Sprintf("Failed to disable monitoring: %s", err.Error()))
			}
		}

		handlerLogger.WithField("removed_graphics", removed).Info("Monitoring disabled")
		return c.Send(fmt.Sprintf("Monitoring disabled. %d tracked graphic(s) dropped; the messages themselves are untouched.", removed))
	})

	b.Handle("/monitor_list", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/monitor_list",
			"sender_id": c.Sender().ID,
		})
		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send("Error: you are not allowed to run this command.")
		}

		graphics, err := adminService.ListGraphics(ctx, c.Sender().ID)
		if err != nil {
			handlerLogger.WithError(err).Error("Failed to list tracked graphics")
			return c.Send(fmt.Sprintf("Failed to list tracked graphics: %s", err.Error()))
		}
		if len(graphics) == 0 {
			return c.Send("No graphics are currently tracked.")
		}

		handlerLogger.WithField("graphics_count", len(graphics)).Info("Tracked graphics listed")

		var response strings.Builder
		response.WriteString(fmt.Sprintf("--- Tracked graphics (%d) ---\n", len(graphics)))
		for _, g := range graphics {
			switch {
			case g.PendingApproval:
				response.WriteString(fmt.Sprintf("#%d chat %d msg %d — %s, awaiting deletion approval\n",
					g.ID, g.ChatID, g.MessageID, g.DateLabel.String))
			case g.AwaitingClassification():
				response.WriteString(fmt.Sprintf("#%d chat %d msg %d — awaiting classification\n",
					g.ID, g.ChatID, g.MessageID))
			case g.Unresolved:
				response.WriteString(fmt.Sprintf("#%d chat %d msg %d — needs manual follow-up\n",
					g.ID, g.ChatID, g.MessageID))
			default:
				response.WriteString(fmt.Sprintf("#%d chat %d msg %d — %s, expires %s\n",
					g.ID, g.ChatID, g.MessageID, g.DateLabel.String,
					g.ExpiryAt.Time.Format("2006-01-02 15:04 UTC")))
			}
		}
		return c.Send(response.String())
	})

	b.Handle("/monitor_add", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/monitor_add",
			"sender_id": c.Sender().ID,
			"chat_id":   c.Chat().ID,
		})
		handlerLogger.Info("Command received")

		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send("Error: you are not allowed to run this command.")
		}

		// Two forms: reply to the target message with just a date range, or
		// /monitor_add <MessageID> <date range>.
		args := c.Args()
		var messageID int64
		var dateRange string
		if reply := c.Message().ReplyTo; reply != nil {
			if len(args) < 1 {
				return c.Send("Invalid format. Reply with: /monitor_add <date range>")
			}
			messageID = int64(reply.ID)
			dateRange = strings.Join(args, " ")
		} else {
			if len(args) < 2 {
				handlerLogger.WithField("args_count", len(args)).Warn("Invalid command format")
				return c.Send("Invalid format. Use: /monitor_add <MessageID> <date range>, or reply to a message with /monitor_add <date range>")
			}
			var err error
			messageID, err = strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return c.Send("Error: message ID must be a number.")
			}
			dateRange = strings.Join(args[1:], " ")
		}
		handlerLogger = handlerLogger.WithFields(logrus.Fields{
			"message_id": messageID,
			"date_range": dateRange,
		})

		g, err := monitorService.AddGraphic(ctx, c.Chat().ID, messageID, c.Sender().ID, dateRange)
		if err != nil {
			logWithError := handlerLogger.WithError(err)
			switch err {
			case app.ErrDateRangeRejected:
				logWithError.Warn("Date range rejected")
				return c.Send("That date range matched no supported format.")
			case app.ErrGraphicAlreadyMonitored:
				logWithError.Warn("Message already monitored")
				return c.Send("That message is already being monitored.")
			case app.ErrContentGone:
				logWithError.Warn("Referenced message no longer exists")
				return c.Send("That message no longer exists.")
			default:
				logWithError.Error("Failed to add graphic")
				return c.Send(fmt.Sprintf("Failed to add graphic: %s", err.Error()))
			}
		}

		handlerLogger.WithField("graphic_id", g.ID).Info("Graphic manually added")
		return c.Send(fmt.Sprintf("Tracking message %d as \"%s\", expires %s.",
			messageID, g.DateLabel.String, g.ExpiryAt.Time.Format("2006-01-02 15:04 UTC")))
	})

	b.Handle("/monitor_remove", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/monitor_remove",
			"sender_id": c.Sender().ID,
			"chat_id":   c.Chat().ID,
		})
		handlerLogger.Info("Command received")

		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send("Error: you are not allowed to run this command.")
		}

		args := c.Args()
		var messageID int64
		if reply := c.Message().ReplyTo; reply != nil {
			messageID = int64(reply.ID)
		} else {
			// Expected format: /monitor_remove <MessageID>
			if len(args) != 1 {
				return c.Send("Invalid format. Use: /monitor_remove <MessageID>, or reply to a message with /monitor_remove")
			}
			var err error
			messageID, err = strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				handlerLogger.WithField("arg", args[0]).Warn("Invalid message ID format")
				return c.Send("Error: message ID must be a number.")
			}
		}
		handlerLogger = handlerLogger.WithField("message_id", messageID)

		if err := monitorService.RemoveGraphic(ctx, c.Chat().ID, messageID); err != nil {
			logWithError := handlerLogger.WithError(err)
			if err == idb.ErrGraphicNotFound {
				logWithError.Warn("Graphic to remove not found")
				return c.Send(fmt.Sprintf("Message %d is not being monitored.", messageID))
			}
			logWithError.Error("Failed to remove graphic")
			return c.Send(fmt.Sprintf("Failed to remove graphic: %s", err.Error()))
		}

		handlerLogger.Info("Graphic removed from monitoring")
		return c.Send(fmt.Sprintf("Message %d removed from monitoring. The message itself is untouched.", messageID))
	})

	b.Handle("/attachments_only", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/attachments_only",
			"sender_id": c.Sender().ID,
			"chat_id":   c.Chat().ID,
		})
		handlerLogger.Info("Command received")

		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send("Error: you are not allowed to run this command.")
		}

		args := c.Args()
		// Expected format: /attachments_only on|off|list
		if len(args) != 1 {
			return c.Send("Invalid format. Use: /attachments_only on|off|list")
		}
		mode := strings.ToLower(args[0])
		handlerLogger = handlerLogger.WithField("mode", mode)

		switch mode {
		case "on", "off":
			enabled := mode == "on"
			if err := adminService.SetAttachmentsOnly(ctx, c.Sender().ID, c.Chat().ID, enabled); err != nil {
				handlerLogger.WithError(err).Error("Failed to change attachment-only setting")
				return c.Send(fmt.Sprintf("Failed to change attachment-only setting: %s", err.Error()))
			}
			handlerLogger.Info("Attachment-only setting changed")
			if enabled {
				return c.Send("Attachment-only enforcement enabled: plain text messages in this chat will be deleted.")
			}
			return c.Send("Attachment-only enforcement disabled for this chat.")
		case "list":
			chats, err := adminService.ListAttachmentsOnly(ctx, c.Sender().ID)
			if err != nil {
				handlerLogger.WithError(err).Error("Failed to list attachment-only chats")
				return c.Send(fmt.Sprintf("Failed to list attachment-only chats: %s", err.Error()))
			}
			if len(chats) == 0 {
				return c.Send("No chats have attachment-only enforcement enabled.")
			}
			var response strings.Builder
			response.WriteString("--- Attachment-only chats ---\n")
			for _, chatID := range chats {
				response.WriteString(fmt.Sprintf("chat %d\n", chatID))
			}
			return c.Send(response.String())
		default:
			handlerLogger.Warn("Invalid mode argument")
			return c.Send("Invalid argument. Use 'on', 'off' or 'list'.")
		}
	})
}
