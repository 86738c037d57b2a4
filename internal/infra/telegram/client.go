// internal/infra/telegram/client.go
package telegram

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	domtg "graphics_monitor_bot/internal/domain/telegram"

	"gopkg.in/telebot.v3"
)

// TelebotAdapter implements the domain telegram.Client interface using the
// gopkg.in/telebot.v3 library.
type TelebotAdapter struct {
	bot *telebot.Bot
}

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

func (tba *TelebotAdapter) Send(chatID int64, text string, options *telebot.SendOptions) (int64, error) {
	if options == nil {
		options = &telebot.SendOptions{}
	}
	msg, err := tba.bot.Send(telebot.ChatID(chatID), text, options)
	if err != nil {
		return 0, mapTelebotError(err)
	}
	return int64(msg.ID), nil
}

func (tba *TelebotAdapter) Reply(chatID, messageID int64, text string) (int64, error) {
	opts := &telebot.SendOptions{
		ReplyTo: &telebot.Message{ID: int(messageID), Chat: &telebot.Chat{ID: chatID}},
	}
	msg, err := tba.bot.Send(telebot.ChatID(chatID), text, opts)
	if err != nil {
		return 0, mapTelebotError(err)
	}
	return int64(msg.ID), nil
}

func (tba *TelebotAdapter) Forward(toChatID, fromChatID, messageID int64) (int64, error) {
	src := &telebot.Message{ID: int(messageID), Chat: &telebot.Chat{ID: fromChatID}}
	msg, err := tba.bot.Forward(telebot.ChatID(toChatID), src)
	if err != nil {
		return 0, mapTelebotError(err)
	}
	return int64(msg.ID), nil
}

func (tba *TelebotAdapter) Delete(chatID, messageID int64) error {
	stored := telebot.StoredMessage{MessageID: strconv.FormatInt(messageID, 10), ChatID: chatID}
	return mapTelebotError(tba.bot.Delete(stored))
}

func (tba *TelebotAdapter) IsAdmin(chatID, userID int64) (bool, error) {
	member, err := tba.bot.ChatMemberOf(&telebot.Chat{ID: chatID}, &telebot.User{ID: userID})
	if err != nil {
		return false, mapTelebotError(err)
	}
	return member.Role == telebot.Creator || member.Role == telebot.Administrator, nil
}

// mapTelebotError translates Bot API failures onto the domain error taxonomy:
// 403s and permission 400s become ErrDeliveryForbidden, "not found" 400s
// become ErrMessageNotFound. Anything else passes through unchanged.
func mapTelebotError(err error) error {
	if err == nil {
		return nil
	}
	var tberr *telebot.Error
	if !errors.As(err, &tberr) {
		return err
	}
	desc := strings.ToLower(tberr.Description)
	switch {
	case tberr.Code == 403:
		return fmt.Errorf("%w: %s", domtg.ErrDeliveryForbidden, tberr.Description)
	case tberr.Code == 400 && strings.Contains(desc, "not found"):
		return fmt.Errorf("%w: %s", domtg.ErrMessageNotFound, tberr.Description)
	case tberr.Code == 400 && strings.Contains(desc, "can't be deleted"):
		return fmt.Errorf("%w: %s", domtg.ErrDeliveryForbidden, tberr.Description)
	}
	return err
}
