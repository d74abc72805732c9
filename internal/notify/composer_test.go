package notify

import (
	"testing"

	"github.com/schoolgate/visitdesk-backend/internal/model"
)

func TestComposeMeeting(t *testing.T) {
	sub := model.SubmissionRequest{
		ActiveTab:   model.CategoryMeeting,
		WhomToMeet:  "Mr. Sharma",
		Appointment: "Yes",
		Purpose:     "Project review",
	}

	msg := Compose(sub)

	if msg.Subject != "Meeting request" {
		t.Errorf("subject = %q, want %q", msg.Subject, "Meeting request")
	}
	want := "Whom to meet: Mr. Sharma\nAppointment: Yes\nPurpose: Project review"
	if msg.Body != want {
		t.Errorf("body = %q, want %q", msg.Body, want)
	}
}

func TestComposePickup(t *testing.T) {
	sub := model.SubmissionRequest{
		ActiveTab:    model.CategoryPickup,
		ChildName:    "Asha",
		Grade:        "5B",
		ParentName:   "Priya Nair",
		Contact:      "+911234567890",
		Relationship: "Mother",
	}

	msg := Compose(sub)

	if msg.Subject != "Parent pickup request" {
		t.Errorf("subject = %q, want %q", msg.Subject, "Parent pickup request")
	}
	want := "Child name: Asha\nGrade: 5B\nRelationship: Mother\nParent name: Priya Nair\nContact: +911234567890"
	if msg.Body != want {
		t.Errorf("body = %q, want %q", msg.Body, want)
	}
}

func TestComposeIsPure(t *testing.T) {
	sub := model.SubmissionRequest{
		ActiveTab:  model.CategoryMeeting,
		WhomToMeet: "Principal",
		Purpose:    "Admission enquiry",
	}

	first := Compose(sub)
	for i := 0; i < 5; i++ {
		if got := Compose(sub); got != first {
			t.Fatalf("call %d produced %+v, first call produced %+v", i+1, got, first)
		}
	}
}
