package core

import "time"

// ActivityType classifies an audit trail entry.
type ActivityType string

const (
	ActivityAdminLogin          ActivityType = "admin_login"
	ActivityAdminLogout         ActivityType = "admin_logout"
	ActivityCheckIn             ActivityType = "checkin"
	ActivityCheckOut            ActivityType = "checkout"
	ActivityRegistrationCreated ActivityType = "registration_created"
	ActivityRegistrationUpdated ActivityType = "registration_updated"
	ActivityRegistrationDeleted ActivityType = "registration_deleted"
	ActivitySessionsInvalidated ActivityType = "sessions_invalidated"
	ActivitySessionsCleaned     ActivityType = "sessions_cleaned"
)

// Activity is one audit trail entry for a privileged action. The store
// retains a bounded window of recent entries on a FIFO basis.
type Activity struct {
	ID          string            `json:"id"`
	Type        ActivityType      `json:"type"`
	AdminWallet string            `json:"adminWallet"`
	Details     map[string]string `json:"details,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
}
