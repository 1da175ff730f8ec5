package dto

import "time"

// ActivityEntryResponse is the public view of one activity-log entry.
type ActivityEntryResponse struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	StaffID   string    `json:"staff_id"`
	StaffName string    `json:"staff_name"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
}
