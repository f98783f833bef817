package services

import (
	"testing"
	"time"

	"gig-booking-server/models"
	"gig-booking-server/utils"
)

func TestListBookingsFilters(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db, nil)
	client := seedUser(t, db, models.RoleClient)
	musician := seedUser(t, db, models.RoleMusician)

	seed := []struct {
		title     string
		date      string
		start     string
		eventType models.EventType
		confirm   bool
	}{
		{"Spring wedding", futureDate(3), "10:00", models.EventWedding, true},
		{"Office retreat", futureDate(5), "14:00", models.EventCorporate, false},
		{"Club night", futureDate(20), "22:00", models.EventBarClub, false},
	}
	for _, row := range seed {
		req := bookingRequest(musician.ID, row.date, row.start, nil)
		req.EventTitle = row.title
		req.EventType = row.eventType
		booking, err := svc.CreateBooking(client.ID, req)
		if err != nil {
			t.Fatalf("seed booking %q failed: %v", row.title, err)
		}
		if row.confirm {
			if _, err := svc.UpdateStatus(booking.ID, musician.ID, &models.BookingStatusUpdate{Status: models.BookingStatusConfirmed}); err != nil {
				t.Fatalf("confirm failed: %v", err)
			}
		}
	}

	all, pagination, err := svc.ListMusicianBookings(musician.ID, BookingFilter{})
	if err != nil {
		t.Fatalf("ListMusicianBookings failed: %v", err)
	}
	if len(all) != 3 || pagination.TotalItems != 3 {
		t.Errorf("listed %d bookings (total %d), want 3", len(all), pagination.TotalItems)
	}

	confirmed, _, err := svc.ListMusicianBookings(musician.ID, BookingFilter{Status: models.BookingStatusConfirmed})
	if err != nil {
		t.Fatalf("filter by status failed: %v", err)
	}
	if len(confirmed) != 1 || confirmed[0].EventTitle != "Spring wedding" {
		t.Errorf("status filter returned %d rows", len(confirmed))
	}

	weddings, _, err := svc.ListClientBookings(client.ID, BookingFilter{EventType: models.EventWedding})
	if err != nil {
		t.Fatalf("filter by event type failed: %v", err)
	}
	if len(weddings) != 1 {
		t.Errorf("event type filter returned %d rows, want 1", len(weddings))
	}

	searched, _, err := svc.ListMusicianBookings(musician.ID, BookingFilter{Search: "retreat"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(searched) != 1 || searched[0].EventTitle != "Office retreat" {
		t.Errorf("search returned %d rows", len(searched))
	}

	weekFrom := time.Now().UTC()
	weekTo := weekFrom.AddDate(0, 0, 7)
	withinWeek, _, err := svc.ListMusicianBookings(musician.ID, BookingFilter{DateFrom: &weekFrom, DateTo: &weekTo})
	if err != nil {
		t.Fatalf("date range filter failed: %v", err)
	}
	if len(withinWeek) != 2 {
		t.Errorf("date range returned %d rows, want 2", len(withinWeek))
	}

	ordered, _, err := svc.ListMusicianBookings(musician.ID, BookingFilter{SortBy: "date_asc"})
	if err != nil {
		t.Fatalf("sorted listing failed: %v", err)
	}
	if ordered[0].EventTitle != "Spring wedding" || ordered[2].EventTitle != "Club night" {
		t.Error("date_asc ordering is wrong")
	}

	paged, pagination, err := svc.ListMusicianBookings(musician.ID, BookingFilter{Page: 2, PerPage: 2, SortBy: "date_asc"})
	if err != nil {
		t.Fatalf("paged listing failed: %v", err)
	}
	if len(paged) != 1 || pagination.TotalPages != 2 || !pagination.HasPrev || pagination.HasNext {
		t.Errorf("pagination math wrong: %d rows, %+v", len(paged), pagination)
	}
}

func TestMusicianBookingStats(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db, nil)
	client := seedUser(t, db, models.RoleClient)
	musician := seedUser(t, db, models.RoleMusician)

	// Two confirmed at 1000 each, one rejected, one still pending
	for i, outcome := range []models.BookingStatus{
		models.BookingStatusConfirmed,
		models.BookingStatusConfirmed,
		models.BookingStatusRejected,
		models.BookingStatusPending,
	} {
		req := bookingRequest(musician.ID, futureDate(3+i), "18:00", strPtr("21:00"))
		booking, err := svc.CreateBooking(client.ID, req)
		if err != nil {
			t.Fatalf("seed booking failed: %v", err)
		}
		if outcome == models.BookingStatusPending {
			continue
		}
		update := &models.BookingStatusUpdate{Status: outcome}
		if outcome == models.BookingStatusConfirmed {
			update.TotalAmount = floatPtr(1000)
		}
		if _, err := svc.UpdateStatus(booking.ID, musician.ID, update); err != nil {
			t.Fatalf("transition failed: %v", err)
		}
	}

	stats, err := svc.MusicianBookingStats(musician.ID, "all")
	if err != nil {
		t.Fatalf("MusicianBookingStats failed: %v", err)
	}

	if stats.TotalBookings != 4 {
		t.Errorf("total = %d, want 4", stats.TotalBookings)
	}
	if stats.ByStatus[models.BookingStatusConfirmed] != 2 || stats.ByStatus[models.BookingStatusRejected] != 1 {
		t.Errorf("by-status counts wrong: %+v", stats.ByStatus)
	}
	if stats.PendingEarnings != 2000 {
		t.Errorf("pending earnings = %v, want 2000", stats.PendingEarnings)
	}
	// 3 of 4 requests answered, 2 of 4 confirmed
	if stats.ResponseRate != 75 {
		t.Errorf("response rate = %v, want 75", stats.ResponseRate)
	}
	if stats.ConfirmationRate != 50 {
		t.Errorf("confirmation rate = %v, want 50", stats.ConfirmationRate)
	}
}

func TestUpcomingAndCalendarBookings(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db, nil)
	client := seedUser(t, db, models.RoleClient)
	musician := seedUser(t, db, models.RoleMusician)

	// One confirmed tomorrow, one confirmed far out, one pending tomorrow
	near, err := svc.CreateBooking(client.ID, bookingRequest(musician.ID, futureDate(1), "18:00", strPtr("20:00")))
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if _, err := svc.UpdateStatus(near.ID, musician.ID, &models.BookingStatusUpdate{Status: models.BookingStatusConfirmed}); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	far, err := svc.CreateBooking(client.ID, bookingRequest(musician.ID, futureDate(30), "18:00", strPtr("20:00")))
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if _, err := svc.UpdateStatus(far.ID, musician.ID, &models.BookingStatusUpdate{Status: models.BookingStatusConfirmed}); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	if _, err := svc.CreateBooking(client.ID, bookingRequest(musician.ID, futureDate(1), "21:00", strPtr("23:00"))); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	upcoming, err := svc.UpcomingBookings(musician.ID, 10)
	if err != nil {
		t.Fatalf("UpcomingBookings failed: %v", err)
	}
	// Only the committed booking inside the week counts
	if len(upcoming) != 1 || upcoming[0].ID != near.ID {
		t.Errorf("upcoming returned %d bookings", len(upcoming))
	}

	from := utils.NormalizeDate(time.Now().UTC())
	to := from.AddDate(0, 0, 60)
	calendar, err := svc.CalendarBookings(musician.ID, from, to)
	if err != nil {
		t.Fatalf("CalendarBookings failed: %v", err)
	}
	// Pending bookings show on the calendar; only rejected and cancelled
	// are hidden
	if len(calendar) != 3 {
		t.Errorf("calendar returned %d bookings, want 3", len(calendar))
	}

	if _, err := svc.CancelBooking(near.ID, client.ID, "change of plans"); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	calendar, err = svc.CalendarBookings(musician.ID, from, to)
	if err != nil {
		t.Fatalf("CalendarBookings failed: %v", err)
	}
	if len(calendar) != 2 {
		t.Errorf("calendar after cancel returned %d bookings, want 2", len(calendar))
	}
}
