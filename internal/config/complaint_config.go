package config

import "time"

const (
	// SentinelReferenceID marks the area and type of a "No Complaint" attestation.
	SentinelReferenceID uint = 999

	// NoComplaintText fills the free-text columns of an attestation row.
	NoComplaintText = "No Complaint"

	// Display fallbacks for complaints whose reference row was deleted.
	DeletedAreaName = "Deleted Area"
	DeletedTypeName = "Deleted Type"

	// Complaint routing queues carried by ComplaintType.Queue.
	QueueFacilities = "facilities"
	QueueIT         = "it"

	// Dashboard
	DashboardWindowDays = 30

	// Suggestions
	SuggestionLimit    = 10
	SuggestionKeepSize = 50
	SuggestionTTL      = 90 * 24 * time.Hour

	// Events
	ComplaintEventsChannel = "complaints:events"

	// DateLayout is the wire format of date-only fields.
	DateLayout = "2006-01-02"
)

// Buildings and Floors are the selectable locations offered to the complaint form.
var Buildings = []string{
	"Building 1",
	"Building 2",
	"Building 3 (O/A Level)",
	"Building 3 (6 to 8)",
}

var Floors = []string{
	"Basement Floor",
	"Ground Floor",
	"1st Floor",
	"2nd Floor",
}
