package app

import (
	"context"
	"testing"

	"graphics_monitor_bot/internal/domain/channel"
	"graphics_monitor_bot/internal/domain/graphic"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminID = int64(1)

type adminFixture struct {
	repo     *fakeGraphicRepo
	channels *fakeChannelRepo
	attach   *fakeAttachRepo
	index    *DuplicateIndex
	svc      *AdminService
}

func newAdminFixture() *adminFixture {
	fx := &adminFixture{
		repo:     newFakeGraphicRepo(),
		channels: newFakeChannelRepo(),
		attach:   newFakeAttachRepo(),
		index:    NewDuplicateIndex(),
	}
	fx.svc = NewAdminService(fx.channels, fx.attach, fx.repo, fx.index, testLogger(), adminID)
	return fx
}

func TestEnableChannel(t *testing.T) {
	fx := newAdminFixture()

	require.NoError(t, fx.svc.EnableChannel(context.Background(), adminID, testChatID))
	ch, err := fx.channels.GetByChatID(context.Background(), testChatID)
	require.NoError(t, err)
	assert.True(t, ch.Enabled)

	err = fx.svc.EnableChannel(context.Background(), adminID, testChatID)
	assert.ErrorIs(t, err, ErrChannelAlreadyEnabled)
}

func TestEnableChannelReenablesDisabledRow(t *testing.T) {
	fx := newAdminFixture()
	fx.channels.channels[testChatID] = &channel.MonitoredChannel{ChatID: testChatID, Enabled: false}

	require.NoError(t, fx.svc.EnableChannel(context.Background(), adminID, testChatID))
	ch, err := fx.channels.GetByChatID(context.Background(), testChatID)
	require.NoError(t, err)
	assert.True(t, ch.Enabled)
}

func TestDisableChannelCascades(t *testing.T) {
	fx := newAdminFixture()
	fx.channels.channels[testChatID] = &channel.MonitoredChannel{ChatID: testChatID, Enabled: true}
	fx.channels.channels[-200] = &channel.MonitoredChannel{ChatID: -200, Enabled: true}

	for _, msgID := range []int64{100, 101} {
		g := fx.repo.add(&graphic.Graphic{ChatID: testChatID, MessageID: msgID})
		fx.index.Add(g.Key())
	}
	other := fx.repo.add(&graphic.Graphic{ChatID: -200, MessageID: 300})
	fx.index.Add(other.Key())

	removed, err := fx.svc.DisableChannel(context.Background(), adminID, testChatID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	assert.Len(t, fx.repo.records, 1, "records of other chats stay")
	assert.False(t, fx.index.Contains(graphic.Key{ChatID: testChatID, MessageID: 100}))
	assert.False(t, fx.index.Contains(graphic.Key{ChatID: testChatID, MessageID: 101}))
	assert.True(t, fx.index.Contains(graphic.Key{ChatID: -200, MessageID: 300}))

	ch, err := fx.channels.GetByChatID(context.Background(), testChatID)
	require.NoError(t, err)
	assert.False(t, ch.Enabled, "the row survives disabling")
}

func TestDisableChannelNotEnabled(t *testing.T) {
	fx := newAdminFixture()

	_, err := fx.svc.DisableChannel(context.Background(), adminID, testChatID)
	assert.ErrorIs(t, err, ErrChannelNotEnabled)

	fx.channels.channels[testChatID] = &channel.MonitoredChannel{ChatID: testChatID, Enabled: false}
	_, err = fx.svc.DisableChannel(context.Background(), adminID, testChatID)
	assert.ErrorIs(t, err, ErrChannelNotEnabled)
}

func TestAdminAuthorization(t *testing.T) {
	fx := newAdminFixture()
	intruder := int64(666)

	assert.ErrorIs(t, fx.svc.EnableChannel(context.Background(), intruder, testChatID), ErrAdminNotAuthorized)
	_, err := fx.svc.DisableChannel(context.Background(), intruder, testChatID)
	assert.ErrorIs(t, err, ErrAdminNotAuthorized)
	_, err = fx.svc.ListGraphics(context.Background(), intruder)
	assert.ErrorIs(t, err, ErrAdminNotAuthorized)
	assert.ErrorIs(t, fx.svc.SetAttachmentsOnly(context.Background(), intruder, testChatID, true), ErrAdminNotAuthorized)
	_, err = fx.svc.ListAttachmentsOnly(context.Background(), intruder)
	assert.ErrorIs(t, err, ErrAdminNotAuthorized)
}

func TestListGraphics(t *testing.T) {
	fx := newAdminFixture()
	fx.repo.add(&graphic.Graphic{ChatID: testChatID, MessageID: 100})
	fx.repo.add(&graphic.Graphic{ChatID: testChatID, MessageID: 101})

	graphics, err := fx.svc.ListGraphics(context.Background(), adminID)
	require.NoError(t, err)
	assert.Len(t, graphics, 2)
}

func TestAttachmentsOnlyToggle(t *testing.T) {
	fx := newAdminFixture()

	require.NoError(t, fx.svc.SetAttachmentsOnly(context.Background(), adminID, testChatID, true))
	require.NoError(t, fx.svc.SetAttachmentsOnly(context.Background(), adminID, -200, true))
	require.NoError(t, fx.svc.SetAttachmentsOnly(context.Background(), adminID, -200, false))

	chats, err := fx.svc.ListAttachmentsOnly(context.Background(), adminID)
	require.NoError(t, err)
	assert.Equal(t, []int64{testChatID}, chats)
}
