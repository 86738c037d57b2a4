// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"fmt"
	"strings"

	"graphics_monitor_bot/internal/infra/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func RegisterBotCommands(
	b *telebot.Bot,
	cfg *config.AppConfig, // for AdminTelegramID / ModeratorTelegramID
	baseLogger *logrus.Entry,
) {
	startHelpLogger := baseLogger.WithField("handler_group", "start_help")

	b.Handle("/start", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := startHelpLogger.WithField("command", "/start").WithField("sender_id", senderID)
		logCtx.Info("Processing /start command")

		if senderID == cfg.AdminTelegramID {
			logCtx.Info("User identified as Admin")
			return c.Send(fmt.Sprintf("Hello, %s! I track graphics and their date ranges. Use /help for the command list.", c.Sender().FirstName))
		}
		if senderID == cfg.ModeratorTelegramID {
			logCtx.Info("User identified as Moderator")
			return c.Send(fmt.Sprintf("Hello, %s! I will message you here when a tracked graphic expires or needs a date range.", c.Sender().FirstName))
		}

		logCtx.Info("User is unknown")
		return c.Send("Hello! I monitor graphics in configured chats. There is nothing for you to set up here.")
	})

	b.Handle("/help", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := startHelpLogger.WithField("command", "/help").WithField("sender_id", senderID)
		logCtx.Info("Processing /help command")

		if senderID == cfg.AdminTelegramID {
			logCtx.Info("User identified as Admin, sending admin help.")
			var helpText strings.Builder
			helpText.WriteString("Available admin commands:\n\n")
			helpText.WriteString("`/monitor_enable`\n - Enable graphics monitoring in the current chat.\n\n")
			helpText.WriteString("`/monitor_disable`\n - Disable monitoring in the current chat and drop its tracked graphics.\n\n")
			helpText.WriteString("`/monitor_list`\n - Show every tracked graphic and its state.\n\n")
			helpText.WriteString("`/monitor_add <MessageID> <date range>`\n - Track a message in the current chat with an explicit date range.\n\n")
			helpText.WriteString("`/monitor_remove <MessageID>`\n - Stop tracking a message. The message itself stays.\n\n")
			helpText.WriteString("`/attachments_only on|off|list`\n - Toggle attachment-only enforcement for the current chat.\n\n")
			helpText.WriteString("`/help`\n - Show this help message.")
			return c.Send(helpText.String(), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
		}

		if senderID == cfg.ModeratorTelegramID {
			logCtx.Info("User identified as Moderator, sending moderator help.")
			return c.Send("When a tracked graphic expires I forward it here with Delete/Keep buttons. When a graphic has no recognized date range I forward it with a prompt: reply to that prompt with a date range, or press Skip tracking.\n\n`/help` - Show this message.")
		}

		logCtx.Info("User is unknown, sending restricted help.")
		return c.Send("There are no commands available for you. Graphics monitoring is configured by the administrator.")
	})
}
