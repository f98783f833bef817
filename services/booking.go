package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gig-booking-server/models"
	"gig-booking-server/utils"
)

// BookingService owns the booking lifecycle: creation, status
// transitions, client cancellation and rescheduling, plus the read side
// (filtered listings, stats, calendar feeds). Every mutation runs inside
// a single transaction together with its gig cascade.
type BookingService struct {
	db       *gorm.DB
	activity *ActivityRecorder
}

func NewBookingService(db *gorm.DB, activity *ActivityRecorder) *BookingService {
	return &BookingService{db: db, activity: activity}
}

// lockForUpdate adds FOR UPDATE row locking so the in-transaction
// conflict re-check and the confirming write are atomic under concurrent
// transitions. SQLite (used in tests) serializes writers on its own and
// does not accept the clause.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// CreateBooking validates a booking request, gates it through the
// conflict checker and persists it as pending.
func (s *BookingService) CreateBooking(clientID uint, req *models.BookingCreate) (*models.Booking, error) {
	date, err := utils.ParseEventDate(req.EventDate)
	if err != nil {
		return nil, validationError("%v", err)
	}
	if utils.IsPastDate(date) {
		return nil, validationError("event date cannot be in the past")
	}

	start, end, err := parseSchedule(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	if !models.IsValidEventType(req.EventType) {
		return nil, validationError("invalid event type %q", req.EventType)
	}
	if req.TotalAmount != nil && *req.TotalAmount < 0 {
		return nil, validationError("total amount must not be negative")
	}
	if req.AudienceSize != nil && *req.AudienceSize < 0 {
		return nil, validationError("audience size must not be negative")
	}

	// The musician must exist, be active and not have marked themselves
	// unavailable
	var musician models.User
	if err := s.db.Preload("MusicianProfile").First(&musician, req.MusicianID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("musician not found")
		}
		return nil, persistenceError(err)
	}
	if !musician.IsMusician() || !musician.IsActive {
		return nil, validationError("selected musician account is not active")
	}
	if musician.MusicianProfile != nil && musician.MusicianProfile.AvailabilityStatus == "unavailable" {
		return nil, conflictError("musician is not accepting bookings")
	}

	checker := NewConflictChecker(s.db)
	conflict, err := checker.HasConflict(req.MusicianID, date, start, end, nil, nil)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, conflictError("musician is not available at the requested time")
	}

	booking := models.Booking{
		ClientID:          clientID,
		MusicianID:        req.MusicianID,
		EventTitle:        req.EventTitle,
		EventDate:         utils.NormalizeDate(date),
		StartTime:         start,
		EndTime:           end,
		VenueName:         req.VenueName,
		VenueAddress:      req.VenueAddress,
		EventType:         req.EventType,
		AudienceSize:      req.AudienceSize,
		GenresRequested:   req.GenresRequested,
		SpecialRequests:   req.SpecialRequests,
		EquipmentProvided: req.EquipmentProvided,
		TotalAmount:       req.TotalAmount,
		PaymentTerms:      req.PaymentTerms,
		ContractTerms:     req.ContractTerms,
		Status:            models.BookingStatusPending,
		PaymentStatus:     models.RollupUnpaid,
	}

	if err := s.db.Create(&booking).Error; err != nil {
		return nil, persistenceError(err)
	}

	s.activity.Record(clientID, models.ActivityBookingRequest, "Booking request sent for: "+booking.EventTitle)
	s.activity.Record(booking.MusicianID, models.ActivityBookingReceived, "New booking request received")

	return &booking, nil
}

// UpdateStatus performs a musician-side status transition. The status
// update, any commercial-field update and the gig cascade either all
// commit or none do.
func (s *BookingService) UpdateStatus(bookingID, musicianID uint, req *models.BookingStatusUpdate) (*models.Booking, error) {
	if !req.Status.IsValid() {
		return nil, validationError("invalid booking status %q", req.Status)
	}

	var booking models.Booking
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("booking not found")
			}
			return persistenceError(err)
		}

		if booking.MusicianID != musicianID {
			return unauthorizedError("you can only update your own bookings")
		}

		if !models.ValidBookingTransition(booking.Status, req.Status) {
			return transitionError("cannot move booking from %s to %s", booking.Status, req.Status)
		}

		switch req.Status {
		case models.BookingStatusConfirmed:
			// Re-check availability inside the locked transaction so two
			// overlapping confirmations cannot both pass the gate
			checker := NewConflictChecker(tx)
			conflict, err := checker.HasConflict(booking.MusicianID, booking.EventDate,
				booking.StartTime, booking.EndTime, &booking.ID, booking.GigID)
			if err != nil {
				return err
			}
			if conflict {
				return conflictError("musician already has a commitment in this slot")
			}

			if req.TotalAmount != nil {
				booking.TotalAmount = req.TotalAmount
			}
			if req.PaymentTerms != nil {
				booking.PaymentTerms = req.PaymentTerms
			}
			if req.ContractTerms != nil {
				booking.ContractTerms = req.ContractTerms
			}

			if err := syncGigOnConfirm(tx, &booking); err != nil {
				return err
			}

		case models.BookingStatusRejected:
			if req.RejectionReason != nil {
				booking.RejectionReason = req.RejectionReason
			}

		case models.BookingStatusCancelled:
			if err := cancelLinkedGig(tx, &booking); err != nil {
				return err
			}
		}

		booking.Status = req.Status
		if err := tx.Save(&booking).Error; err != nil {
			return persistenceError(err)
		}
		return nil
	})
	if err != nil {
		return nil, AsServiceError(err)
	}

	s.activity.Record(musicianID, models.ActivityBookingStatus, fmt.Sprintf("Booking #%d status updated to: %s", booking.ID, booking.Status))
	if booking.Status == models.BookingStatusConfirmed {
		s.activity.Record(booking.ClientID, models.ActivityBookingConfirmed, "Your booking has been confirmed")
	}
	if booking.Status == models.BookingStatusRejected {
		s.activity.Record(booking.ClientID, models.ActivityBookingRejected, "Your booking request was declined")
	}

	return &booking, nil
}

// CancelBooking is the client-side cancellation. Legal only from pending
// or confirmed; cancelling a once-confirmed booking also cancels its gig.
func (s *BookingService) CancelBooking(bookingID, clientID uint, reason string) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("booking not found")
			}
			return persistenceError(err)
		}

		if booking.ClientID != clientID {
			return unauthorizedError("you can only cancel your own bookings")
		}

		if booking.Status != models.BookingStatusPending && booking.Status != models.BookingStatusConfirmed {
			return transitionError("booking cannot be cancelled in status %s", booking.Status)
		}

		wasConfirmed := booking.Status == models.BookingStatusConfirmed

		booking.Status = models.BookingStatusCancelled
		if reason != "" {
			booking.CancellationReason = &reason
		}
		if err := tx.Save(&booking).Error; err != nil {
			return persistenceError(err)
		}

		if wasConfirmed {
			if err := cancelLinkedGig(tx, &booking); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, AsServiceError(err)
	}

	s.activity.Record(clientID, models.ActivityBookingCancelled, "Booking cancelled: "+booking.EventTitle)
	s.activity.Record(booking.MusicianID, models.ActivityBookingCancelled, "Client cancelled booking #"+fmt.Sprint(booking.ID))

	return &booking, nil
}

// RescheduleBooking moves a booking to a new slot. Either party may
// request it; the new slot is conflict-checked against everything except
// the booking's own current commitment. The booking ends up rescheduled
// and must be re-confirmed (or cancelled) by the musician.
func (s *BookingService) RescheduleBooking(bookingID, actorID uint, req *models.BookingReschedule) (*models.Booking, error) {
	date, err := utils.ParseEventDate(req.EventDate)
	if err != nil {
		return nil, validationError("%v", err)
	}
	if utils.IsPastDate(date) {
		return nil, validationError("new event date cannot be in the past")
	}
	start, end, err := parseSchedule(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	var booking models.Booking
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("booking not found")
			}
			return persistenceError(err)
		}

		if actorID != booking.ClientID && actorID != booking.MusicianID {
			return unauthorizedError("not a party to this booking")
		}

		if !models.ValidBookingTransition(booking.Status, models.BookingStatusRescheduled) {
			return transitionError("booking cannot be rescheduled in status %s", booking.Status)
		}

		checker := NewConflictChecker(tx)
		conflict, err := checker.HasConflict(booking.MusicianID, date, start, end, &booking.ID, booking.GigID)
		if err != nil {
			return err
		}
		if conflict {
			return conflictError("musician is not available at the new requested time")
		}

		booking.EventDate = utils.NormalizeDate(date)
		booking.StartTime = start
		booking.EndTime = end
		booking.Status = models.BookingStatusRescheduled
		if req.Reason != "" {
			booking.RescheduleReason = &req.Reason
		}
		if err := tx.Save(&booking).Error; err != nil {
			return persistenceError(err)
		}

		return rescheduleLinkedGig(tx, &booking)
	})
	if txErr != nil {
		return nil, AsServiceError(txErr)
	}

	s.activity.Record(actorID, models.ActivityBookingRescheduled, "Booking rescheduled: "+booking.EventTitle)
	other := booking.MusicianID
	if actorID == booking.MusicianID {
		other = booking.ClientID
	}
	s.activity.Record(other, models.ActivityBookingRescheduled, "Booking has been rescheduled")

	return &booking, nil
}

// GetBooking loads one booking with its parties and linked gig
func (s *BookingService) GetBooking(bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.Preload("Client").Preload("Musician").Preload("Gig").First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("booking not found")
		}
		return nil, persistenceError(err)
	}
	return &booking, nil
}

func parseSchedule(startRaw string, endRaw *string) (string, *string, error) {
	start, err := utils.ParseClockTime(startRaw)
	if err != nil {
		return "", nil, validationError("%v", err)
	}
	var end *string
	if endRaw != nil && *endRaw != "" {
		e, err := utils.ParseClockTime(*endRaw)
		if err != nil {
			return "", nil, validationError("%v", err)
		}
		if e <= start {
			return "", nil, validationError("end time must be after start time")
		}
		end = &e
	}
	return start, end, nil
}
