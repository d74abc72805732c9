package model

import "time"

// Category selects which form fields are required and which staff receive
// the notification.
type Category string

const (
	CategoryMeeting Category = "meeting"
	CategoryPickup  Category = "pickup"
)

// SubmissionRequest is one check-in as posted by the kiosk form. It is never
// persisted; it exists only for the duration of the request.
//
// Field names mirror the kiosk form. The optional embedded config lets a
// kiosk running against an unseeded backend supply its own settings.
type SubmissionRequest struct {
	ActiveTab Category `json:"activeTab" binding:"required,oneof=meeting pickup"`

	// Meeting fields.
	WhomToMeet  string `json:"whomToMeet" binding:"required_if=ActiveTab meeting"`
	Appointment string `json:"appointment" binding:"omitempty,oneof=Yes No"`
	Purpose     string `json:"purpose" binding:"required_if=ActiveTab meeting"`

	// Parent pickup fields.
	ChildName    string `json:"childName" binding:"required_if=ActiveTab pickup"`
	Grade        string `json:"grade" binding:"required_if=ActiveTab pickup"`
	ParentName   string `json:"parentName" binding:"required_if=ActiveTab pickup"`
	Contact      string `json:"contact" binding:"required_if=ActiveTab pickup"`
	Relationship string `json:"relationship" binding:"required_if=ActiveTab pickup"`

	// Selfie is a data-URI encoded still image. Required for every category;
	// checked in the service so the kiosk gets a distinct error code.
	Selfie string `json:"selfie"`

	Config *KioskConfig `json:"config,omitempty"`
}

// CheckinEvent is published on the Redis check-in channel after a successful
// dispatch, feeding the admin live monitor. It carries no visitor PII beyond
// the composed subject line.
type CheckinEvent struct {
	ID       string    `json:"id"`
	Category Category  `json:"category"`
	Subject  string    `json:"subject"`
	At       time.Time `json:"at"`
}
