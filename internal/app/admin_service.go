package app

import (
	"context"
	"fmt"

	"graphics_monitor_bot/internal/domain/channel"
	"graphics_monitor_bot/internal/domain/graphic"
	idb "graphics_monitor_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
)

// Custom application-level errors for admin service
var ErrAdminNotAuthorized = fmt.Errorf("performing user is not authorized as an admin")
var ErrChannelAlreadyEnabled = fmt.Errorf("monitoring is already enabled for this chat")
var ErrChannelNotEnabled = fmt.Errorf("monitoring is not enabled for this chat")

// AdminService gates the configuration commands behind the configured
// administrator and owns the monitored-channel registry.
type AdminService struct {
	channelRepo     channel.Repository
	attachRepo      channel.AttachmentOnlyRepository
	graphicRepo     graphic.Repository
	index           *DuplicateIndex
	logger          *logrus.Entry
	adminTelegramID int64
}

func NewAdminService(
	cr channel.Repository,
	ar channel.AttachmentOnlyRepository,
	gr graphic.Repository,
	index *DuplicateIndex,
	logger *logrus.Entry,
	adminID int64,
) *AdminService {
	return &AdminService{
		channelRepo:     cr,
		attachRepo:      ar,
		graphicRepo:     gr,
		index:           index,
		logger:          logger,
		adminTelegramID: adminID,
	}
}

// EnableChannel turns monitoring on for a chat.
func (s *AdminService) EnableChannel(ctx context.Context, performingUserID, chatID int64) error {
	if performingUserID != s.adminTelegramID {
		return ErrAdminNotAuthorized
	}

	existing, err := s.channelRepo.GetByChatID(ctx, chatID)
	if err == nil && existing.Enabled {
		return ErrChannelAlreadyEnabled
	}
	if err != nil && err != idb.ErrChannelNotFound {
		return fmt.Errorf("failed to check monitored channel %d: %w", chatID, err)
	}

	if err := s.channelRepo.Upsert(ctx, &channel.MonitoredChannel{ChatID: chatID, Enabled: true}); err != nil {
		return fmt.Errorf("failed to enable monitoring for chat %d: %w", chatID, err)
	}
	s.logger.WithField("chat_id", chatID).Info("Monitoring enabled for chat")
	return nil
}

// DisableChannel turns monitoring off for a chat and drops every tracked
// graphic that belongs to it. The messages themselves are untouched.
func (s *AdminService) DisableChannel(ctx context.Context, performingUserID, chatID int64) (int64, error) {
	if performingUserID != s.adminTelegramID {
		return 0, ErrAdminNotAuthorized
	}

	existing, err := s.channelRepo.GetByChatID(ctx, chatID)
	if err != nil {
		if err == idb.ErrChannelNotFound {
			return 0, ErrChannelNotEnabled
		}
		return 0, fmt.Errorf("failed to check monitored channel %d: %w", chatID, err)
	}
	if !existing.Enabled {
		return 0, ErrChannelNotEnabled
	}

	if err := s.channelRepo.SetEnabled(ctx, chatID, false); err != nil {
		return 0, fmt.Errorf("failed to disable monitoring for chat %d: %w", chatID, err)
	}

	removed, err := s.graphicRepo.DeleteByChat(ctx, chatID)
	if err != nil {
		return 0, fmt.Errorf("failed to drop tracked graphics for chat %d: %w", chatID, err)
	}
	s.index.RemoveChat(chatID)

	s.logger.WithFields(logrus.Fields{"chat_id": chatID, "removed_graphics": removed}).
		Info("Monitoring disabled for chat")
	return removed, nil
}

// ListGraphics returns every tracked record for the admin overview.
func (s *AdminService) ListGraphics(ctx context.Context, performingUserID int64) ([]*graphic.Graphic, error) {
	if performingUserID != s.adminTelegramID {
		return nil, ErrAdminNotAuthorized
	}
	graphics, err := s.graphicRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked graphics: %w", err)
	}
	return graphics, nil
}

// SetAttachmentsOnly toggles attachment-only enforcement for a chat.
func (s *AdminService) SetAttachmentsOnly(ctx context.Context, performingUserID, chatID int64, enabled bool) error {
	if performingUserID != s.adminTelegramID {
		return ErrAdminNotAuthorized
	}
	if err := s.attachRepo.SetEnabled(ctx, chatID, enabled); err != nil {
		return fmt.Errorf("failed to set attachment-only for chat %d: %w", chatID, err)
	}
	s.logger.WithFields(logrus.Fields{"chat_id": chatID, "enabled": enabled}).Info("Attachment-only setting changed")
	return nil
}

// ListAttachmentsOnly returns the chat ids with attachment-only enforcement on.
func (s *AdminService) ListAttachmentsOnly(ctx context.Context, performingUserID int64) ([]int64, error) {
	if performingUserID != s.adminTelegramID {
		return nil, ErrAdminNotAuthorized
	}
	chats, err := s.attachRepo.ListEnabled(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachment-only chats: %w", err)
	}
	return chats, nil
}
