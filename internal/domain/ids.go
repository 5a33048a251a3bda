package domain

// UserID is an internal identifier for a user record.
type UserID string

// TripID is an internal identifier for a trip record.
type TripID string

// NotificationID is an internal identifier for a notification record.
type NotificationID string

// MemoryID is an internal identifier for a memory photo record.
type MemoryID string

// MessageID is an internal identifier for a chat message record.
type MessageID string
