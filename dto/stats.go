package dto

import "time"

type UserStatsResponse struct {
	TotalNotes     int       `json:"total_notes"`
	ActiveSessions int       `json:"active_sessions"`
	AccountCreated time.Time `json:"account_created"`
	LastActive     time.Time `json:"last_active,omitempty"`
}
