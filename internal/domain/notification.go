package domain

import "time"

type NotificationType string

const (
	NotificationJoinRequest   NotificationType = "join_request"
	NotificationMemberLeft    NotificationType = "member_left"
	NotificationTripCancelled NotificationType = "trip_cancelled"
	NotificationTripCompleted NotificationType = "trip_completed"
)

// Notification is an append-only, per-recipient record of an event. Only the
// recipient may toggle Read or clear the record.
type Notification struct {
	ID          NotificationID
	Type        NotificationType
	TripID      TripID
	RecipientID UserID

	// Payload carries display data (actor name, destination, ...). It is
	// opaque to the backend.
	Payload map[string]string

	Read      bool
	CreatedAt time.Time
}
