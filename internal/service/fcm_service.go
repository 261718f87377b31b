package service

import (
	"context"
	"strings"

	"github.com/ourmemory/ourmemory-backend/internal/common"
	"github.com/ourmemory/ourmemory-backend/internal/domain"
	"github.com/ourmemory/ourmemory-backend/internal/repository"
	"github.com/ourmemory/ourmemory-backend/pkg/fcm"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	pushResultSent     = "sent"
	pushResultSkipped  = "skipped"
	pushResultFailed   = "failed"
	pushResultDisabled = "disabled"
)

var fcmMessagesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "fcm_messages_total",
		Help: "Total number of push messages by result",
	},
	[]string{"result"},
)

// FcmService push notification business logic
type FcmService interface {
	// SendToUser pushes to a user's device. sent is false when the user
	// turned alarms off, has no token, or push is disabled.
	SendToUser(ctx context.Context, userID uint64, title, body string, data map[string]string) (bool, error)
	SendToToken(ctx context.Context, req *domain.FcmSendRequest) (*domain.FcmSendResponse, error)
}

type fcmService struct {
	pusher   Pusher
	userRepo repository.UserRepository
}

// NewFcmService creates a new FcmService. pusher may be nil (FCM disabled).
func NewFcmService(pusher Pusher, userRepo repository.UserRepository) FcmService {
	return &fcmService{pusher: pusher, userRepo: userRepo}
}

func (s *fcmService) SendToUser(ctx context.Context, userID uint64, title, body string, data map[string]string) (bool, error) {
	if s.pusher == nil {
		fcmMessagesTotal.WithLabelValues(pushResultDisabled).Inc()
		return false, nil
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return false, notFoundOr(err, common.ErrUserNotFound, common.ResourceUser)
	}
	if !user.PushAlarm || strings.TrimSpace(user.PushToken) == "" {
		fcmMessagesTotal.WithLabelValues(pushResultSkipped).Inc()
		return false, nil
	}

	_, err = s.pusher.Send(ctx, &fcm.Message{Token: user.PushToken, Title: title, Body: body, Data: data})
	if err != nil {
		fcmMessagesTotal.WithLabelValues(pushResultFailed).Inc()
		if fcm.IsUnregistered(err) {
			// 앱 삭제 등으로 만료된 토큰은 비운다
			if clearErr := s.userRepo.UpdateFields(ctx, userID, map[string]interface{}{"push_token": ""}); clearErr != nil {
				logWithUser(userID).Warn().Err(clearErr).Msg("failed to clear push token")
			}
		}
		return false, &common.Error{Resource: common.ResourcePush, Kind: common.KindInternal, Key: "push.send_failed", Err: err}
	}

	fcmMessagesTotal.WithLabelValues(pushResultSent).Inc()
	return true, nil
}

func (s *fcmService) SendToToken(ctx context.Context, req *domain.FcmSendRequest) (*domain.FcmSendResponse, error) {
	if s.pusher == nil {
		fcmMessagesTotal.WithLabelValues(pushResultDisabled).Inc()
		return nil, common.ErrPushDisabled
	}

	name, err := s.pusher.Send(ctx, &fcm.Message{Token: req.Token, Title: req.Title, Body: req.Body, Data: req.Data})
	if err != nil {
		fcmMessagesTotal.WithLabelValues(pushResultFailed).Inc()
		return nil, &common.Error{Resource: common.ResourcePush, Kind: common.KindInternal, Key: "push.send_failed", Err: err}
	}

	fcmMessagesTotal.WithLabelValues(pushResultSent).Inc()
	return &domain.FcmSendResponse{Sent: true, MessageID: name}, nil
}
