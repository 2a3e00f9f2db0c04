package service

import (
	"context"
	"fmt"
	"time"

	"coinstore/internal/domain"
	"coinstore/internal/models"
	"coinstore/internal/repository"

	"github.com/sirupsen/logrus"
)

const pushTimeout = 10 * time.Second

// Pusher delivers one push message to a device token.
type Pusher interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

// NotificationService pushes operational alerts to managers and admins.
type NotificationService struct {
	userRepo *repository.UserRepository
	push     Pusher
	log      *logrus.Logger
}

// NewNotificationService returns a service that does nothing when push is nil.
func NewNotificationService(userRepo *repository.UserRepository, push Pusher, log *logrus.Logger) *NotificationService {
	return &NotificationService{userRepo: userRepo, push: push, log: log}
}

// NotifyPendingRedemption alerts every manager and admin that a payout is owed.
func (s *NotificationService) NotifyPendingRedemption(ctx context.Context, e *models.GameEntry) {
	if s == nil || s.push == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, pushTimeout)
	defer cancel()

	users, err := s.userRepo.ListPushTargets(ctx, domain.RoleAdmin, domain.RoleManager)
	if err != nil {
		s.log.WithError(err).Warn("list push targets failed")
		return
	}
	title := "Pending redemption"
	body := fmt.Sprintf("%s on %s is owed %s via %s", e.PlayerLabel(), e.GameName, e.RemainingPay.StringFixed(2), e.Method)
	data := map[string]string{
		"type":      "PENDING_REDEMPTION",
		"entry_id":  e.ID,
		"game_name": e.GameName,
	}
	sent := 0
	for i := range users {
		if err := s.push.Send(ctx, users[i].FCMToken, title, body, data); err == nil {
			sent++
		}
	}
	s.log.WithFields(logrus.Fields{"entry_id": e.ID, "sent": sent, "targets": len(users)}).Debug("pending redemption alert sent")
}
