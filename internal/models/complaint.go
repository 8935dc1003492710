package models

import "time"

// Status is the lifecycle state of a complaint.
type Status string

const (
	StatusInProgress  Status = "In-Progress"
	StatusResolved    Status = "Resolved"
	StatusNoComplaint Status = "No Complaint"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusInProgress, StatusResolved, StatusNoComplaint}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible from s.
func (s Status) Terminal() bool {
	return s == StatusResolved || s == StatusNoComplaint
}

// Complaint is a facility issue report. Action and ResolutionDate are written
// together, exactly when the complaint is resolved (or attested).
type Complaint struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	UserID          uint       `gorm:"not null;index" json:"user_id"`
	Building        string     `gorm:"type:text;not null;index" json:"building"`
	Floor           string     `gorm:"type:text;not null" json:"floor"`
	AreaID          *uint      `gorm:"index" json:"area_id"`
	ComplaintTypeID *uint      `gorm:"index" json:"complaint_type_id"`
	Details         string     `gorm:"type:text;not null" json:"details"`
	Status          Status     `gorm:"type:varchar(20);not null;default:'In-Progress';index" json:"status"`
	Date            time.Time  `gorm:"not null;index" json:"date"`
	Action          *string    `gorm:"type:text" json:"action"`
	ResolutionDate  *time.Time `json:"resolution_date"`
	Seen            bool       `gorm:"not null;default:false" json:"seen"`
	SeenDate        *time.Time `json:"seen_date"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ComplaintView is a complaint joined with its reference names and routing queue.
type ComplaintView struct {
	Complaint
	AreaName          string  `json:"area_name"`
	ComplaintTypeName string  `json:"complaint_type_name"`
	Queue             *string `json:"queue"`
}

// ComplaintSeen records that a user acknowledged a complaint.
type ComplaintSeen struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_complaint_seen_user_complaint" json:"user_id"`
	ComplaintID uint      `gorm:"not null;uniqueIndex:idx_complaint_seen_user_complaint;index" json:"complaint_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName keeps the singular table name used by existing deployments.
func (ComplaintSeen) TableName() string {
	return "complaint_seen"
}
