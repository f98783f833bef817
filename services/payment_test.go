package services

import (
	"regexp"
	"testing"

	"gorm.io/gorm"

	"gig-booking-server/models"
)

func seedBookingWithTotal(t *testing.T, db *gorm.DB, total *float64) (*BookingService, *models.Booking, models.User, models.User) {
	t.Helper()
	svc := NewBookingService(db, nil)
	client := seedUser(t, db, models.RoleClient)
	musician := seedUser(t, db, models.RoleMusician)

	req := bookingRequest(musician.ID, futureDate(7), "18:00", strPtr("22:00"))
	req.TotalAmount = total
	booking, err := svc.CreateBooking(client.ID, req)
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}
	return svc, booking, client, musician
}

func reloadBooking(t *testing.T, db *gorm.DB, id uint) models.Booking {
	t.Helper()
	var booking models.Booking
	if err := db.First(&booking, id).Error; err != nil {
		t.Fatalf("reload booking failed: %v", err)
	}
	return booking
}

func TestPaymentRollup(t *testing.T) {
	db := newTestDB(t)
	_, booking, _, _ := seedBookingWithTotal(t, db, floatPtr(1000))
	payments := NewPaymentService(db, nil)

	// A pending payment does not move the rollup
	pendingPayment, err := payments.RecordPayment(booking.ID, &models.PaymentCreate{
		Amount: 400,
		Method: models.MethodEsewa,
	})
	if err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}
	if got := reloadBooking(t, db, booking.ID).PaymentStatus; got != models.RollupUnpaid {
		t.Errorf("rollup after pending payment = %s, want unpaid", got)
	}

	// Marking it paid makes the booking partially paid
	if _, err := payments.UpdatePaymentStatus(pendingPayment.ID, models.PaymentStatusPaid); err != nil {
		t.Fatalf("UpdatePaymentStatus failed: %v", err)
	}
	if got := reloadBooking(t, db, booking.ID).PaymentStatus; got != models.RollupPartial {
		t.Errorf("rollup after 400/1000 = %s, want partial", got)
	}

	// Settling the remainder flips it to paid
	if _, err := payments.RecordPayment(booking.ID, &models.PaymentCreate{
		Amount: 600,
		Type:   models.PaymentTypeFinal,
		Method: models.MethodBankTransfer,
		Status: models.PaymentStatusPaid,
	}); err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}
	if got := reloadBooking(t, db, booking.ID).PaymentStatus; got != models.RollupPaid {
		t.Errorf("rollup after 1000/1000 = %s, want paid", got)
	}
}

func TestPaymentRollupWithoutTotal(t *testing.T) {
	db := newTestDB(t)
	_, booking, _, _ := seedBookingWithTotal(t, db, nil)
	payments := NewPaymentService(db, nil)

	// With no agreed total a settled payment can only ever mean partial
	if _, err := payments.RecordPayment(booking.ID, &models.PaymentCreate{
		Amount: 500,
		Method: models.MethodCash,
		Status: models.PaymentStatusPaid,
	}); err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}
	if got := reloadBooking(t, db, booking.ID).PaymentStatus; got != models.RollupPartial {
		t.Errorf("rollup without total = %s, want partial", got)
	}
}

func TestRollupNeverTouchesLifecycle(t *testing.T) {
	db := newTestDB(t)
	_, booking, _, _ := seedBookingWithTotal(t, db, floatPtr(1000))
	payments := NewPaymentService(db, nil)

	if _, err := payments.RecordPayment(booking.ID, &models.PaymentCreate{
		Amount: 1000,
		Method: models.MethodKhalti,
		Status: models.PaymentStatusPaid,
	}); err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}

	reloaded := reloadBooking(t, db, booking.ID)
	if reloaded.PaymentStatus != models.RollupPaid {
		t.Errorf("rollup = %s, want paid", reloaded.PaymentStatus)
	}
	// Full payment of a pending booking does not confirm it
	if reloaded.Status != models.BookingStatusPending {
		t.Errorf("lifecycle status = %s, want pending", reloaded.Status)
	}
}

func TestGeneratedReferenceFormat(t *testing.T) {
	db := newTestDB(t)
	_, booking, _, _ := seedBookingWithTotal(t, db, floatPtr(1000))
	payments := NewPaymentService(db, nil)

	payment, err := payments.RecordPayment(booking.ID, &models.PaymentCreate{
		Amount: 100,
		Method: models.MethodCash,
	})
	if err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}

	pattern := regexp.MustCompile(`^PAY-\d{8}-[0-9A-F]{6}$`)
	if !pattern.MatchString(payment.ReferenceNumber) {
		t.Errorf("generated reference %q does not match PAY-YYYYMMDD-XXXXXX", payment.ReferenceNumber)
	}

	// A caller-supplied reference is preserved untouched
	custom, err := payments.RecordPayment(booking.ID, &models.PaymentCreate{
		Amount:          50,
		Method:          models.MethodCash,
		ReferenceNumber: strPtr("INV-2026-0042"),
	})
	if err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}
	if custom.ReferenceNumber != "INV-2026-0042" {
		t.Errorf("custom reference was rewritten to %q", custom.ReferenceNumber)
	}
}

func TestRecordPaymentValidation(t *testing.T) {
	db := newTestDB(t)
	_, booking, _, _ := seedBookingWithTotal(t, db, floatPtr(1000))
	payments := NewPaymentService(db, nil)

	cases := []struct {
		name string
		req  models.PaymentCreate
		kind ErrorKind
	}{
		{"zero amount", models.PaymentCreate{Amount: 0, Method: models.MethodCash}, ErrKindValidation},
		{"negative amount", models.PaymentCreate{Amount: -10, Method: models.MethodCash}, ErrKindValidation},
		{"bad method", models.PaymentCreate{Amount: 100, Method: "paypal"}, ErrKindValidation},
		{"bad type", models.PaymentCreate{Amount: 100, Method: models.MethodCash, Type: "tip"}, ErrKindValidation},
		{"refund via create", models.PaymentCreate{Amount: 100, Method: models.MethodCash, Type: models.PaymentTypeRefund}, ErrKindValidation},
		{"bad status", models.PaymentCreate{Amount: 100, Method: models.MethodCash, Status: "settled"}, ErrKindValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := tc.req
			_, err := payments.RecordPayment(booking.ID, &req)
			expectKind(t, err, tc.kind)
		})
	}

	t.Run("unknown booking", func(t *testing.T) {
		_, err := payments.RecordPayment(9999, &models.PaymentCreate{Amount: 100, Method: models.MethodCash})
		expectKind(t, err, ErrKindNotFound)
	})
}

func TestRefunds(t *testing.T) {
	db := newTestDB(t)
	_, booking, _, _ := seedBookingWithTotal(t, db, floatPtr(1000))
	payments := NewPaymentService(db, nil)

	payment, err := payments.RecordPayment(booking.ID, &models.PaymentCreate{
		Amount: 1000,
		Method: models.MethodBankTransfer,
		Status: models.PaymentStatusPaid,
	})
	if err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}
	if got := reloadBooking(t, db, booking.ID).PaymentStatus; got != models.RollupPaid {
		t.Fatalf("rollup = %s, want paid", got)
	}

	// Refunding more than was paid is rejected
	_, err = payments.ProcessRefund(payment.ID, 1500, "overcharge")
	expectKind(t, err, ErrKindValidation)

	// Partial refund drops the rollup back to partial
	refund, err := payments.ProcessRefund(payment.ID, 400, "cancelled second set")
	if err != nil {
		t.Fatalf("ProcessRefund failed: %v", err)
	}
	if refund.Amount != -400 {
		t.Errorf("refund amount = %v, want -400", refund.Amount)
	}
	if refund.Type != models.PaymentTypeRefund || refund.Status != models.PaymentStatusPaid {
		t.Errorf("refund row = %s/%s, want refund/paid", refund.Type, refund.Status)
	}
	if refund.ReferenceNumber != "REFUND-"+payment.ReferenceNumber {
		t.Errorf("refund reference = %q", refund.ReferenceNumber)
	}
	if got := reloadBooking(t, db, booking.ID).PaymentStatus; got != models.RollupPartial {
		t.Errorf("rollup after partial refund = %s, want partial", got)
	}

	// The original payment stays paid after a partial refund
	var original models.Payment
	if err := db.First(&original, payment.ID).Error; err != nil {
		t.Fatalf("reload payment failed: %v", err)
	}
	if original.Status != models.PaymentStatusPaid {
		t.Errorf("original status after partial refund = %s, want paid", original.Status)
	}
}

func TestFullRefundFlipsOriginal(t *testing.T) {
	db := newTestDB(t)
	_, booking, _, _ := seedBookingWithTotal(t, db, floatPtr(800))
	payments := NewPaymentService(db, nil)

	payment, err := payments.RecordPayment(booking.ID, &models.PaymentCreate{
		Amount: 800,
		Method: models.MethodFonepay,
		Status: models.PaymentStatusPaid,
	})
	if err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}

	if _, err := payments.ProcessRefund(payment.ID, 800, "event cancelled"); err != nil {
		t.Fatalf("ProcessRefund failed: %v", err)
	}

	var original models.Payment
	if err := db.First(&original, payment.ID).Error; err != nil {
		t.Fatalf("reload payment failed: %v", err)
	}
	if original.Status != models.PaymentStatusRefunded {
		t.Errorf("original status after full refund = %s, want refunded", original.Status)
	}

	// Net settled amount is zero, so the booking is unpaid again
	if got := reloadBooking(t, db, booking.ID).PaymentStatus; got != models.RollupUnpaid {
		t.Errorf("rollup after full refund = %s, want unpaid", got)
	}

	// A refunded payment cannot be refunded again
	_, err = payments.ProcessRefund(payment.ID, 100, "again")
	expectKind(t, err, ErrKindInvalidTransition)
}

func TestMusicianPaymentQueries(t *testing.T) {
	db := newTestDB(t)
	_, booking, _, musician := seedBookingWithTotal(t, db, floatPtr(1000))
	payments := NewPaymentService(db, nil)

	if _, err := payments.RecordPayment(booking.ID, &models.PaymentCreate{
		Amount: 600, Method: models.MethodCash, Status: models.PaymentStatusPaid,
	}); err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}
	if _, err := payments.RecordPayment(booking.ID, &models.PaymentCreate{
		Amount: 400, Method: models.MethodCash,
	}); err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}

	list, pagination, err := payments.ListMusicianPayments(musician.ID, PaymentFilter{Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("ListMusicianPayments failed: %v", err)
	}
	if len(list) != 2 || pagination.TotalItems != 2 {
		t.Errorf("listed %d payments (total %d), want 2", len(list), pagination.TotalItems)
	}

	paidOnly, _, err := payments.ListMusicianPayments(musician.ID, PaymentFilter{Status: models.PaymentStatusPaid, Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("ListMusicianPayments failed: %v", err)
	}
	if len(paidOnly) != 1 {
		t.Errorf("listed %d paid payments, want 1", len(paidOnly))
	}

	stats, err := payments.MusicianPaymentStats(musician.ID)
	if err != nil {
		t.Fatalf("MusicianPaymentStats failed: %v", err)
	}
	if stats.TotalEarned != 600 {
		t.Errorf("total earned = %v, want 600", stats.TotalEarned)
	}
	if stats.PendingAmount != 400 {
		t.Errorf("pending amount = %v, want 400", stats.PendingAmount)
	}
	if stats.CompletedPayments != 1 || stats.PendingPayments != 1 {
		t.Errorf("counts = %d paid / %d pending, want 1/1", stats.CompletedPayments, stats.PendingPayments)
	}
}
