package telegram

import (
	"errors"

	"gopkg.in/telebot.v3"
)

// ErrMessageNotFound signals that the referenced message no longer exists on
// the platform. Callers treat it as "content gone" and clean up the record.
var ErrMessageNotFound = errors.New("telegram: message not found")

// ErrDeliveryForbidden signals a permission failure: the bot is blocked by
// the recipient, cannot initiate a conversation, or lacks rights in a chat.
// Callers route the affected record to manual follow-up instead of retrying.
var ErrDeliveryForbidden = errors.New("telegram: delivery forbidden")

// Client defines an interface for interacting with Telegram. It decouples
// the application logic from the bot library; implementations map platform
// errors onto ErrMessageNotFound and ErrDeliveryForbidden.
//
// Telegram exposes no way to fetch an arbitrary message, so existence is
// re-verified by the side-effecting call itself: a reply, forward or delete
// against a removed message reports ErrMessageNotFound.
type Client interface {
	// Send posts a message to a chat and returns its message id.
	Send(chatID int64, text string, options *telebot.SendOptions) (int64, error)
	// Reply posts a reply to an existing message and returns the reply's id.
	Reply(chatID, messageID int64, text string) (int64, error)
	// Forward copies a message into another chat, serving both as a content
	// preview and as proof the original still exists.
	Forward(toChatID, fromChatID, messageID int64) (int64, error)
	Delete(chatID, messageID int64) error
	// IsAdmin reports whether the user holds an elevated role in the chat.
	IsAdmin(chatID, userID int64) (bool, error)
}
