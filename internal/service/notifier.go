package service

import (
	"context"
	"strconv"

	"github.com/ourmemory/ourmemory-backend/internal/domain"
	"github.com/ourmemory/ourmemory-backend/pkg/logger"
	"github.com/rs/zerolog"
)

// notifier records a notice and sends the matching push.
// Failures are logged and never fail the calling request.
type notifier struct {
	notices NoticeService
	fcm     FcmService
}

func (n *notifier) notify(ctx context.Context, userID uint64, noticeType domain.NoticeType, value uint64, body string) {
	if n == nil {
		return
	}
	log := logger.WithUserID(userID)

	if n.notices != nil {
		if _, err := n.notices.CreateNotice(ctx, userID, noticeType, value); err != nil {
			log.Warn().Err(err).Str("type", string(noticeType)).Msg("notice create failed")
		}
	}

	if n.fcm != nil {
		data := map[string]string{
			"type":  string(noticeType),
			"value": strconv.FormatUint(value, 10),
		}
		if _, err := n.fcm.SendToUser(ctx, userID, pushText("push.title"), body, data); err != nil {
			log.Warn().Err(err).Str("type", string(noticeType)).Msg("push send failed")
		}
	}
}

// logWithUser returns the global logger with user_id attached
func logWithUser(userID uint64) *zerolog.Logger {
	log := logger.WithUserID(userID)
	return &log
}
