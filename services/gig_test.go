package services

import (
	"testing"
	"time"

	"gig-booking-server/models"
	"gig-booking-server/utils"
)

func gigRequest(date, start string, end *string) *models.GigCreate {
	return &models.GigCreate{
		Title:     "Friday night residency",
		VenueName: "Purple Haze",
		GigDate:   date,
		StartTime: start,
		EndTime:   end,
		GigType:   models.EventBarClub,
	}
}

func TestCreateGigDefaultsAndValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewGigService(db, nil)
	musician := seedUser(t, db, models.RoleMusician)

	req := gigRequest(futureDate(5), "21:00", strPtr("23:30"))
	req.GigType = ""
	gig, err := svc.CreateGig(musician.ID, req)
	if err != nil {
		t.Fatalf("CreateGig failed: %v", err)
	}
	if gig.Status != models.GigStatusScheduled {
		t.Errorf("new gig status = %s, want scheduled", gig.Status)
	}
	if gig.GigType != models.EventOther {
		t.Errorf("empty gig type defaulted to %s, want other", gig.GigType)
	}
	if gig.BookingID != nil {
		t.Error("standalone gig must not reference a booking")
	}

	bad := gigRequest(futureDate(5), "23:00", strPtr("21:00"))
	_, err = svc.CreateGig(musician.ID, bad)
	expectKind(t, err, ErrKindValidation)

	negative := gigRequest(futureDate(6), "20:00", nil)
	negative.AgreedAmount = floatPtr(-1)
	_, err = svc.CreateGig(musician.ID, negative)
	expectKind(t, err, ErrKindValidation)
}

func TestStandaloneGigBlocksBookings(t *testing.T) {
	db := newTestDB(t)
	gigs := NewGigService(db, nil)
	bookings := NewBookingService(db, nil)
	client := seedUser(t, db, models.RoleClient)
	musician := seedUser(t, db, models.RoleMusician)

	date := futureDate(12)
	if _, err := gigs.CreateGig(musician.ID, gigRequest(date, "20:00", strPtr("23:00"))); err != nil {
		t.Fatalf("CreateGig failed: %v", err)
	}

	// A booking request into the gig's slot is refused outright
	_, err := bookings.CreateBooking(client.ID, bookingRequest(musician.ID, date, "21:00", strPtr("22:00")))
	expectKind(t, err, ErrKindConflict)

	// An adjacent slot is fine
	if _, err := bookings.CreateBooking(client.ID, bookingRequest(musician.ID, date, "17:00", strPtr("20:00"))); err != nil {
		t.Fatalf("adjacent booking failed: %v", err)
	}
}

func TestGigScheduleUpdateChecksConflicts(t *testing.T) {
	db := newTestDB(t)
	svc := NewGigService(db, nil)
	musician := seedUser(t, db, models.RoleMusician)

	date := futureDate(8)
	first, err := svc.CreateGig(musician.ID, gigRequest(date, "18:00", strPtr("20:00")))
	if err != nil {
		t.Fatalf("CreateGig failed: %v", err)
	}
	second, err := svc.CreateGig(musician.ID, gigRequest(date, "21:00", strPtr("23:00")))
	if err != nil {
		t.Fatalf("CreateGig failed: %v", err)
	}

	// Moving the second gig onto the first must fail
	_, err = svc.UpdateGig(second.ID, musician.ID, &models.GigUpdate{StartTime: strPtr("19:00"), EndTime: strPtr("22:00")})
	expectKind(t, err, ErrKindConflict)

	// Shifting it within its own free window is fine; the gig excludes
	// itself from the check
	updated, err := svc.UpdateGig(second.ID, musician.ID, &models.GigUpdate{StartTime: strPtr("20:30"), EndTime: strPtr("23:30")})
	if err != nil {
		t.Fatalf("UpdateGig failed: %v", err)
	}
	if updated.StartTime != "20:30" || updated.EndTime == nil || *updated.EndTime != "23:30" {
		t.Errorf("gig schedule = %s-%v", updated.StartTime, updated.EndTime)
	}

	// Non-schedule edits skip the conflict check entirely
	if _, err := svc.UpdateGig(first.ID, musician.ID, &models.GigUpdate{Title: strPtr("Early evening set")}); err != nil {
		t.Fatalf("UpdateGig failed: %v", err)
	}
}

func TestGigOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := NewGigService(db, nil)
	musician := seedUser(t, db, models.RoleMusician)
	other := seedUser(t, db, models.RoleMusician)

	gig, err := svc.CreateGig(musician.ID, gigRequest(futureDate(5), "20:00", nil))
	if err != nil {
		t.Fatalf("CreateGig failed: %v", err)
	}

	_, err = svc.UpdateGig(gig.ID, other.ID, &models.GigUpdate{Title: strPtr("Mine now")})
	expectKind(t, err, ErrKindUnauthorized)

	_, err = svc.UpdateGigStatus(gig.ID, other.ID, models.GigStatusConfirmed)
	expectKind(t, err, ErrKindUnauthorized)

	err = svc.DeleteGig(gig.ID, other.ID)
	expectKind(t, err, ErrKindUnauthorized)
}

func TestDeleteGigRules(t *testing.T) {
	db := newTestDB(t)
	gigs := NewGigService(db, nil)
	bookings := NewBookingService(db, nil)
	client := seedUser(t, db, models.RoleClient)
	musician := seedUser(t, db, models.RoleMusician)

	// Standalone scheduled gig deletes cleanly
	gig, err := gigs.CreateGig(musician.ID, gigRequest(futureDate(5), "20:00", strPtr("22:00")))
	if err != nil {
		t.Fatalf("CreateGig failed: %v", err)
	}
	if err := gigs.DeleteGig(gig.ID, musician.ID); err != nil {
		t.Fatalf("DeleteGig failed: %v", err)
	}
	if _, err := gigs.GetGig(gig.ID); err == nil {
		t.Fatal("deleted gig still loads")
	}

	// An in-progress gig cannot be deleted
	busy, err := gigs.CreateGig(musician.ID, gigRequest(futureDate(6), "20:00", strPtr("22:00")))
	if err != nil {
		t.Fatalf("CreateGig failed: %v", err)
	}
	if _, err := gigs.UpdateGigStatus(busy.ID, musician.ID, models.GigStatusInProgress); err != nil {
		t.Fatalf("UpdateGigStatus failed: %v", err)
	}
	err = gigs.DeleteGig(busy.ID, musician.ID)
	expectKind(t, err, ErrKindInvalidTransition)

	// A booking-derived gig is owned by the booking lifecycle
	booking, err := bookings.CreateBooking(client.ID, bookingRequest(musician.ID, futureDate(9), "18:00", strPtr("21:00")))
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}
	booking, err = bookings.UpdateStatus(booking.ID, musician.ID, &models.BookingStatusUpdate{Status: models.BookingStatusConfirmed})
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	err = gigs.DeleteGig(*booking.GigID, musician.ID)
	expectKind(t, err, ErrKindValidation)
}

func TestListAndCalendarGigs(t *testing.T) {
	db := newTestDB(t)
	svc := NewGigService(db, nil)
	musician := seedUser(t, db, models.RoleMusician)

	slots := []struct {
		days  int
		start string
	}{
		{3, "18:00"},
		{4, "19:00"},
		{40, "20:00"},
	}
	for _, slot := range slots {
		req := gigRequest(futureDate(slot.days), slot.start, nil)
		req.AgreedAmount = floatPtr(5000)
		if _, err := svc.CreateGig(musician.ID, req); err != nil {
			t.Fatalf("CreateGig failed: %v", err)
		}
	}

	all, pagination, err := svc.ListGigs(musician.ID, GigFilter{Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("ListGigs failed: %v", err)
	}
	if len(all) != 3 || pagination.TotalItems != 3 {
		t.Errorf("listed %d gigs (total %d), want 3", len(all), pagination.TotalItems)
	}

	upcoming, err := svc.UpcomingGigs(musician.ID, 2)
	if err != nil {
		t.Fatalf("UpcomingGigs failed: %v", err)
	}
	if len(upcoming) != 2 {
		t.Fatalf("upcoming returned %d gigs, want 2", len(upcoming))
	}
	// Soonest first
	if upcoming[0].StartTime != "18:00" || upcoming[1].StartTime != "19:00" {
		t.Errorf("upcoming gigs out of order: %s, %s", upcoming[0].StartTime, upcoming[1].StartTime)
	}

	from := utils.NormalizeDate(time.Now().UTC())
	to := from.AddDate(0, 0, 7)
	calendar, err := svc.CalendarGigs(musician.ID, from, to)
	if err != nil {
		t.Fatalf("CalendarGigs failed: %v", err)
	}
	if len(calendar) != 2 {
		t.Errorf("calendar returned %d gigs, want 2 inside the week", len(calendar))
	}

	// Completing a gig moves its agreed amount into earnings
	if _, err := svc.UpdateGigStatus(all[0].ID, musician.ID, models.GigStatusInProgress); err != nil {
		t.Fatalf("status update failed: %v", err)
	}
	if _, err := svc.UpdateGigStatus(all[0].ID, musician.ID, models.GigStatusCompleted); err != nil {
		t.Fatalf("status update failed: %v", err)
	}

	stats, err := svc.MusicianGigStats(musician.ID)
	if err != nil {
		t.Fatalf("MusicianGigStats failed: %v", err)
	}
	if stats.TotalGigs != 3 {
		t.Errorf("total gigs = %d, want 3", stats.TotalGigs)
	}
	if stats.ByStatus[models.GigStatusCompleted] != 1 || stats.ByStatus[models.GigStatusScheduled] != 2 {
		t.Errorf("by-status counts wrong: %+v", stats.ByStatus)
	}
	if stats.UpcomingGigs != 2 {
		t.Errorf("upcoming gigs = %d, want 2", stats.UpcomingGigs)
	}
	if stats.CompletedEarnings != 5000 {
		t.Errorf("completed earnings = %v, want 5000", stats.CompletedEarnings)
	}
}
