package services

import (
	"context"

	"online-canteen-api/logger"
	"online-canteen-api/metrics"
	"online-canteen-api/models"
	"online-canteen-api/repository"

	"go.uber.org/zap"
)

//go:generate mockgen -destination=mocks/mock_notifier.go -package=mocks online-canteen-api/services Notifier

// Notifier delivers fire-and-forget messages to a user. Implementations must
// swallow their own failures.
type Notifier interface {
	Notify(ctx context.Context, userID uint, message string)
}

type NotificationService struct {
	store *repository.Store
}

func NewNotificationService(store *repository.Store) *NotificationService {
	return &NotificationService{store: store}
}

// CreateNotification stores a message for userID. It returns nil without an
// error when the user does not exist.
func (s *NotificationService) CreateNotification(ctx context.Context, userID uint, message string) (*models.Notification, error) {
	user, err := s.store.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	n := &models.Notification{UserID: userID, Message: message}
	if err := s.store.Notifications.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// Notify implements Notifier
func (s *NotificationService) Notify(ctx context.Context, userID uint, message string) {
	n, err := s.CreateNotification(ctx, userID, message)
	log := logger.FromContext(ctx)
	switch {
	case err != nil:
		metrics.NotificationFailures.Inc()
		log.Warn("notification not stored", zap.Uint("user_id", userID), zap.Error(err))
	case n == nil:
		log.Warn("notification target missing", zap.Uint("user_id", userID))
	}
}

func (s *NotificationService) GetUserNotifications(ctx context.Context, userID uint) ([]models.Notification, error) {
	return s.store.Notifications.ListByUser(ctx, userID)
}

// MarkRead is a no-op for unknown ids or notifications of another user
func (s *NotificationService) MarkRead(ctx context.Context, id, userID uint) error {
	_, err := s.store.Notifications.MarkRead(ctx, id, userID)
	return err
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	return s.store.Notifications.MarkAllRead(ctx, userID)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.store.Notifications.CountUnread(ctx, userID)
}
