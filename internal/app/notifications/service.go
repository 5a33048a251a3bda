package notifications

import (
	"context"
	"errors"
	"net/http"

	"github.com/nomadnova/nomadnova-api/internal/app/apperr"
	"github.com/nomadnova/nomadnova-api/internal/domain"
	"github.com/nomadnova/nomadnova-api/internal/ports/out/notificationrepo"
)

// Service exposes a recipient's notification feed. Notifications are owned by
// their recipient: lookups are recipient-scoped, so acting on someone else's
// notification reads as not-found.
type Service struct {
	notifications notificationrepo.Repository
}

func NewService(notificationsRepo notificationrepo.Repository) *Service {
	return &Service{notifications: notificationsRepo}
}

// List returns the recipient's notifications in creation order.
func (s *Service) List(ctx context.Context, recipientID domain.UserID) ([]domain.Notification, error) {
	return s.notifications.ListByRecipient(ctx, recipientID)
}

func (s *Service) MarkRead(ctx context.Context, recipientID domain.UserID, id domain.NotificationID) error {
	if err := s.notifications.MarkRead(ctx, recipientID, id); err != nil {
		if errors.Is(err, notificationrepo.ErrNotFound) {
			return apperr.New(http.StatusNotFound, "NOTIFICATION_NOT_FOUND", "notification not found")
		}
		return err
	}
	return nil
}

func (s *Service) ClearAll(ctx context.Context, recipientID domain.UserID) error {
	return s.notifications.ClearByRecipient(ctx, recipientID)
}
