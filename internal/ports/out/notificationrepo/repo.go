package notificationrepo

import (
	"context"

	"github.com/nomadnova/nomadnova-api/internal/domain"
)

// Repository is the read/manage side of a recipient's notification feed.
// Implementations also act as a notifier.Sink for the write side.
type Repository interface {
	Append(ctx context.Context, n domain.Notification) error

	// ListByRecipient returns the recipient's notifications in creation
	// order (FIFO).
	ListByRecipient(ctx context.Context, recipientID domain.UserID) ([]domain.Notification, error)

	// MarkRead flags a notification as read. The lookup is scoped to the
	// recipient; a notification owned by someone else is ErrNotFound.
	MarkRead(ctx context.Context, recipientID domain.UserID, id domain.NotificationID) error

	// ClearByRecipient removes all of the recipient's notifications.
	ClearByRecipient(ctx context.Context, recipientID domain.UserID) error
}
