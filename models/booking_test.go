package models

import "testing"

func TestValidBookingTransition(t *testing.T) {
	allowed := []struct{ from, to BookingStatus }{
		{BookingStatusPending, BookingStatusConfirmed},
		{BookingStatusPending, BookingStatusRejected},
		{BookingStatusPending, BookingStatusCancelled},
		{BookingStatusConfirmed, BookingStatusInProgress},
		{BookingStatusConfirmed, BookingStatusCancelled},
		{BookingStatusConfirmed, BookingStatusRescheduled},
		{BookingStatusInProgress, BookingStatusCompleted},
		{BookingStatusRescheduled, BookingStatusConfirmed},
		{BookingStatusRescheduled, BookingStatusCancelled},
	}
	for _, tr := range allowed {
		if !ValidBookingTransition(tr.from, tr.to) {
			t.Errorf("%s -> %s should be allowed", tr.from, tr.to)
		}
	}

	denied := []struct{ from, to BookingStatus }{
		{BookingStatusPending, BookingStatusCompleted},
		{BookingStatusPending, BookingStatusInProgress},
		{BookingStatusPending, BookingStatusRescheduled},
		{BookingStatusConfirmed, BookingStatusCompleted},
		{BookingStatusConfirmed, BookingStatusRejected},
		{BookingStatusInProgress, BookingStatusCancelled},
		{BookingStatusRescheduled, BookingStatusRejected},
		{BookingStatusRejected, BookingStatusPending},
		{BookingStatusCancelled, BookingStatusConfirmed},
		{BookingStatusCompleted, BookingStatusInProgress},
		// re-entrant transitions are not allowed
		{BookingStatusPending, BookingStatusPending},
		{BookingStatusConfirmed, BookingStatusConfirmed},
		// unknown statuses never transition
		{"archived", BookingStatusConfirmed},
		{BookingStatusPending, "archived"},
	}
	for _, tr := range denied {
		if ValidBookingTransition(tr.from, tr.to) {
			t.Errorf("%s -> %s should be denied", tr.from, tr.to)
		}
	}
}

func TestBookingStatusTerminal(t *testing.T) {
	terminal := []BookingStatus{BookingStatusRejected, BookingStatusCancelled, BookingStatusCompleted}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
	}

	active := []BookingStatus{BookingStatusPending, BookingStatusConfirmed, BookingStatusInProgress, BookingStatusRescheduled}
	for _, s := range active {
		if s.IsTerminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}

	// unknown statuses are neither valid nor terminal
	if BookingStatus("archived").IsTerminal() {
		t.Error("unknown status must not report terminal")
	}
	if BookingStatus("archived").IsValid() {
		t.Error("unknown status must not report valid")
	}
}

func TestIsValidEventType(t *testing.T) {
	for _, et := range []EventType{EventWedding, EventParty, EventCorporate, EventConcert,
		EventFestival, EventBarClub, EventRestaurant, EventPrivate, EventCharity, EventOther} {
		if !IsValidEventType(et) {
			t.Errorf("%s should be a valid event type", et)
		}
	}
	if IsValidEventType("birthday") {
		t.Error("unknown event type should be rejected")
	}
}
