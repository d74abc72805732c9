package notify

import (
	"strings"

	"github.com/schoolgate/visitdesk-backend/internal/model"
)

// Message is a composed staff notification: a subject line and a plain-text
// body with one labeled field per line.
type Message struct {
	Subject string
	Body    string
}

// Compose maps a submitted check-in form onto the notification text for its
// category. Pure and deterministic: identical input yields byte-identical
// output. Unknown categories must be rejected by the caller before this
// point; the handler's binding rules guarantee that.
func Compose(sub model.SubmissionRequest) Message {
	if sub.ActiveTab == model.CategoryPickup {
		return Message{
			Subject: "Parent pickup request",
			Body: strings.Join([]string{
				"Child name: " + sub.ChildName,
				"Grade: " + sub.Grade,
				"Relationship: " + sub.Relationship,
				"Parent name: " + sub.ParentName,
				"Contact: " + sub.Contact,
			}, "\n"),
		}
	}

	return Message{
		Subject: "Meeting request",
		Body: strings.Join([]string{
			"Whom to meet: " + sub.WhomToMeet,
			"Appointment: " + sub.Appointment,
			"Purpose: " + sub.Purpose,
		}, "\n"),
	}
}
