package model

import "time"

// Notification type constants
const (
	NotifTypeApprovalNeeded = "approval_needed"
	NotifTypeChoreApproved  = "chore_approved"
)

type PushSubscription struct {
	ID         int64     `json:"id"`
	ParentID   int64     `json:"parent_id"`
	Endpoint   string    `json:"endpoint"`
	P256dhKey  string    `json:"p256dh_key"`
	AuthKey    string    `json:"auth_key"`
	DeviceName string    `json:"device_name"`
	CreatedAt  time.Time `json:"created_at"`
}
