package telegram

import (
	"errors"
	"testing"

	domtg "graphics_monitor_bot/internal/domain/telegram"

	"github.com/stretchr/testify/assert"
	"gopkg.in/telebot.v3"
)

func TestMapTelebotError(t *testing.T) {
	cases := []struct {
		name string
		in   error
		want error
	}{
		{
			name: "nil passes through",
			in:   nil,
			want: nil,
		},
		{
			name: "blocked by user",
			in:   &telebot.Error{Code: 403, Description: "Forbidden: bot was blocked by the user"},
			want: domtg.ErrDeliveryForbidden,
		},
		{
			name: "message to reply not found",
			in:   &telebot.Error{Code: 400, Description: "Bad Request: message to forward not found"},
			want: domtg.ErrMessageNotFound,
		},
		{
			name: "message cannot be deleted",
			in:   &telebot.Error{Code: 400, Description: "Bad Request: message can't be deleted"},
			want: domtg.ErrDeliveryForbidden,
		},
		{
			name: "other bad request passes through",
			in:   &telebot.Error{Code: 400, Description: "Bad Request: message text is empty"},
			want: nil, // unchanged, not mapped
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := mapTelebotError(tc.in)
			if tc.want == nil {
				assert.Equal(t, tc.in, got)
				return
			}
			assert.ErrorIs(t, got, tc.want)
		})
	}
}

func TestMapTelebotErrorNonAPIError(t *testing.T) {
	plain := errors.New("connection reset")
	assert.Equal(t, plain, mapTelebotError(plain))
}

func TestParseCallbackID(t *testing.T) {
	id, err := parseCallbackID("appr_yes_123")
	assert.NoError(t, err)
	assert.Equal(t, int64(123), id)

	id, err = parseCallbackID("cls_skip_7")
	assert.NoError(t, err)
	assert.Equal(t, int64(7), id)

	_, err = parseCallbackID("appr_yes_")
	assert.Error(t, err)
	_, err = parseCallbackID("nounderscore")
	assert.Error(t, err)
	_, err = parseCallbackID("appr_yes_notanumber")
	assert.Error(t, err)
}
