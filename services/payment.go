package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"gig-booking-server/models"
)

// PaymentService records settlements against bookings and keeps each
// booking's derived payment rollup current. It never touches the
// booking lifecycle status: a completed booking can be unpaid and a
// pending one fully paid.
type PaymentService struct {
	db       *gorm.DB
	activity *ActivityRecorder
}

func NewPaymentService(db *gorm.DB, activity *ActivityRecorder) *PaymentService {
	return &PaymentService{db: db, activity: activity}
}

// RecordPayment creates a payment record for a booking and, when the
// payment is already settled, recomputes the booking's rollup in the
// same transaction.
func (s *PaymentService) RecordPayment(bookingID uint, req *models.PaymentCreate) (*models.Payment, error) {
	if req.Amount <= 0 {
		return nil, validationError("payment amount must be positive")
	}
	paymentType := req.Type
	if paymentType == "" {
		paymentType = models.PaymentTypeBooking
	}
	if !paymentType.IsValid() {
		return nil, validationError("invalid payment type %q", paymentType)
	}
	if paymentType == models.PaymentTypeRefund {
		return nil, validationError("refunds are recorded through the refund operation")
	}
	if !req.Method.IsValid() {
		return nil, validationError("invalid payment method %q", req.Method)
	}
	status := req.Status
	if status == "" {
		status = models.PaymentStatusPending
	}
	if !status.IsValid() {
		return nil, validationError("invalid payment status %q", status)
	}

	reference := generateReferenceNumber()
	if req.ReferenceNumber != nil && *req.ReferenceNumber != "" {
		reference = *req.ReferenceNumber
	}

	payment := models.Payment{
		BookingID:       bookingID,
		Amount:          req.Amount,
		Type:            paymentType,
		Method:          req.Method,
		Status:          status,
		ReferenceNumber: reference,
		Notes:           req.Notes,
	}
	if status == models.PaymentStatusPaid {
		now := time.Now().UTC()
		payment.PaymentDate = &now
	}

	var booking models.Booking
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("booking not found")
			}
			return persistenceError(err)
		}

		if err := tx.Create(&payment).Error; err != nil {
			return persistenceError(err)
		}

		return s.recomputeRollup(tx, &booking)
	})
	if err != nil {
		return nil, AsServiceError(err)
	}

	s.activity.Record(booking.MusicianID, models.ActivityPaymentRecorded,
		fmt.Sprintf("Payment %s of %.2f recorded for booking #%d", payment.ReferenceNumber, payment.Amount, bookingID))

	return &payment, nil
}

// UpdatePaymentStatus changes a payment's status and recomputes the
// booking rollup
func (s *PaymentService) UpdatePaymentStatus(paymentID uint, status models.PaymentStatus) (*models.Payment, error) {
	if !status.IsValid() {
		return nil, validationError("invalid payment status %q", status)
	}

	var payment models.Payment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&payment, paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("payment not found")
			}
			return persistenceError(err)
		}

		updates := map[string]interface{}{"status": status}
		if status == models.PaymentStatusPaid && payment.PaymentDate == nil {
			now := time.Now().UTC()
			updates["payment_date"] = &now
			payment.PaymentDate = &now
		}
		if err := tx.Model(&payment).Updates(updates).Error; err != nil {
			return persistenceError(err)
		}
		payment.Status = status

		var booking models.Booking
		if err := tx.First(&booking, payment.BookingID).Error; err != nil {
			return persistenceError(err)
		}
		return s.recomputeRollup(tx, &booking)
	})
	if err != nil {
		return nil, AsServiceError(err)
	}
	return &payment, nil
}

// ProcessRefund records a refund against an existing paid payment as a
// negative-amount paid row. A full refund also flips the original
// payment to refunded.
func (s *PaymentService) ProcessRefund(paymentID uint, amount float64, reason string) (*models.Payment, error) {
	if amount <= 0 {
		return nil, validationError("refund amount must be positive")
	}

	var refund models.Payment
	var booking models.Booking
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var original models.Payment
		if err := lockForUpdate(tx).First(&original, paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("payment not found")
			}
			return persistenceError(err)
		}

		if original.Status != models.PaymentStatusPaid {
			return transitionError("only paid payments can be refunded")
		}
		if amount > original.Amount {
			return validationError("refund amount exceeds the original payment")
		}

		now := time.Now().UTC()
		notes := fmt.Sprintf("Refund for payment #%d. Reason: %s", original.ID, reason)
		refund = models.Payment{
			BookingID:       original.BookingID,
			Amount:          -amount, // negative amount encodes the refund
			Type:            models.PaymentTypeRefund,
			Method:          original.Method,
			Status:          models.PaymentStatusPaid,
			ReferenceNumber: "REFUND-" + original.ReferenceNumber,
			PaymentDate:     &now,
			Notes:           &notes,
		}
		if err := tx.Create(&refund).Error; err != nil {
			return persistenceError(err)
		}

		if amount == original.Amount {
			if err := tx.Model(&original).Update("status", models.PaymentStatusRefunded).Error; err != nil {
				return persistenceError(err)
			}
		}

		if err := tx.First(&booking, original.BookingID).Error; err != nil {
			return persistenceError(err)
		}
		return s.recomputeRollup(tx, &booking)
	})
	if err != nil {
		return nil, AsServiceError(err)
	}

	s.activity.Record(booking.ClientID, models.ActivityPaymentRefunded,
		fmt.Sprintf("Refund of %.2f processed for booking #%d", amount, refund.BookingID))

	return &refund, nil
}

// recomputeRollup derives the booking's payment rollup from the sum of
// its paid settlement rows (refunds contribute negative amounts):
// nothing effectively paid means unpaid, the full total or more means
// paid, anything in between means partial.
func (s *PaymentService) recomputeRollup(tx *gorm.DB, booking *models.Booking) error {
	var totalPaid float64
	err := tx.Model(&models.Payment{}).
		Where("booking_id = ? AND status = ?", booking.ID, models.PaymentStatusPaid).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totalPaid).Error
	if err != nil {
		return persistenceError(err)
	}

	rollup := models.RollupUnpaid
	if totalPaid > 0 {
		rollup = models.RollupPartial
		if booking.TotalAmount != nil && totalPaid >= *booking.TotalAmount {
			rollup = models.RollupPaid
		}
	}

	if rollup == booking.PaymentStatus {
		return nil
	}
	if err := tx.Model(booking).Update("payment_status", rollup).Error; err != nil {
		return persistenceError(err)
	}
	booking.PaymentStatus = rollup
	return nil
}

// GetPaymentsByBooking returns all payments for one booking, newest first
func (s *PaymentService) GetPaymentsByBooking(bookingID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := s.db.Where("booking_id = ?", bookingID).
		Order("created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, persistenceError(err)
	}
	return payments, nil
}

// PaymentFilter holds the optional filters for payment listings
type PaymentFilter struct {
	Status  models.PaymentStatus
	Type    models.PaymentType
	Page    int
	PerPage int
}

// ListMusicianPayments returns payments on the musician's bookings
func (s *PaymentService) ListMusicianPayments(musicianID uint, filter PaymentFilter) ([]models.Payment, *Pagination, error) {
	q := s.db.Model(&models.Payment{}).
		Joins("JOIN bookings ON bookings.id = payments.booking_id").
		Where("bookings.musician_id = ?", musicianID)
	if filter.Status != "" {
		q = q.Where("payments.status = ?", filter.Status)
	}
	if filter.Type != "" {
		q = q.Where("payments.type = ?", filter.Type)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, nil, persistenceError(err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 {
		perPage = 20
	}

	var payments []models.Payment
	err := q.Order("payments.created_at DESC").
		Limit(perPage).Offset((page - 1) * perPage).
		Find(&payments).Error
	if err != nil {
		return nil, nil, persistenceError(err)
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	return payments, &Pagination{
		CurrentPage: page,
		PerPage:     perPage,
		TotalItems:  total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}, nil
}

// PaymentStats aggregates a musician's payment activity
type PaymentStats struct {
	TotalEarned       float64 `json:"total_earned"`
	EarnedThisMonth   float64 `json:"earned_this_month"`
	PendingAmount     float64 `json:"pending_amount"`
	AveragePayment    float64 `json:"average_payment"`
	CompletedPayments int64   `json:"completed_payments"`
	PendingPayments   int64   `json:"pending_payments"`
	FailedPayments    int64   `json:"failed_payments"`
}

// MusicianPaymentStats sums the musician's payment records by status
func (s *PaymentService) MusicianPaymentStats(musicianID uint) (*PaymentStats, error) {
	stats := &PaymentStats{}

	base := func() *gorm.DB {
		return s.db.Model(&models.Payment{}).
			Joins("JOIN bookings ON bookings.id = payments.booking_id").
			Where("bookings.musician_id = ?", musicianID)
	}

	if err := base().Where("payments.status = ?", models.PaymentStatusPaid).
		Select("COALESCE(SUM(payments.amount), 0)").Scan(&stats.TotalEarned).Error; err != nil {
		return nil, persistenceError(err)
	}
	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if err := base().Where("payments.status = ? AND payments.payment_date >= ?", models.PaymentStatusPaid, monthStart).
		Select("COALESCE(SUM(payments.amount), 0)").Scan(&stats.EarnedThisMonth).Error; err != nil {
		return nil, persistenceError(err)
	}
	if err := base().Where("payments.status = ?", models.PaymentStatusPending).
		Select("COALESCE(SUM(payments.amount), 0)").Scan(&stats.PendingAmount).Error; err != nil {
		return nil, persistenceError(err)
	}
	if err := base().Where("payments.status = ? AND payments.amount > 0", models.PaymentStatusPaid).
		Select("COALESCE(AVG(payments.amount), 0)").Scan(&stats.AveragePayment).Error; err != nil {
		return nil, persistenceError(err)
	}
	if err := base().Where("payments.status = ?", models.PaymentStatusPaid).
		Count(&stats.CompletedPayments).Error; err != nil {
		return nil, persistenceError(err)
	}
	if err := base().Where("payments.status = ?", models.PaymentStatusPending).
		Count(&stats.PendingPayments).Error; err != nil {
		return nil, persistenceError(err)
	}
	if err := base().Where("payments.status = ?", models.PaymentStatusFailed).
		Count(&stats.FailedPayments).Error; err != nil {
		return nil, persistenceError(err)
	}

	return stats, nil
}

// generateReferenceNumber builds a PAY-YYYYMMDD-XXXXXX reference
func generateReferenceNumber() string {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		// Fall back to a time-derived suffix; uniqueness is still
		// enforced by the database index
		return fmt.Sprintf("PAY-%s-%06d", time.Now().UTC().Format("20060102"), time.Now().UnixNano()%1000000)
	}
	return fmt.Sprintf("PAY-%s-%s", time.Now().UTC().Format("20060102"), strings.ToUpper(hex.EncodeToString(buf)))
}
