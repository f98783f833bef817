package services

import (
	"time"

	"gorm.io/gorm"

	"gig-booking-server/models"
	"gig-booking-server/utils"
)

// BookingFilter holds the optional filters for booking listings
type BookingFilter struct {
	Status    models.BookingStatus
	EventType models.EventType
	DateFrom  *time.Time
	DateTo    *time.Time
	Search    string
	SortBy    string
	Page      int
	PerPage   int
}

// Pagination describes one page of a listing
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

// BookingStats is the reporting rollup for one party's bookings
type BookingStats struct {
	TotalBookings    int64                          `json:"total_bookings"`
	ByStatus         map[models.BookingStatus]int64 `json:"by_status"`
	ByEventType      map[models.EventType]int64     `json:"by_event_type,omitempty"`
	TotalEarnings    float64                        `json:"total_earnings,omitempty"`
	PendingEarnings  float64                        `json:"pending_earnings,omitempty"`
	TotalSpent       float64                        `json:"total_spent,omitempty"`
	AverageAmount    float64                        `json:"average_amount,omitempty"`
	ResponseRate     float64                        `json:"response_rate"`
	ConfirmationRate float64                        `json:"confirmation_rate"`
}

// ListMusicianBookings returns the musician's bookings, filtered and paginated
func (s *BookingService) ListMusicianBookings(musicianID uint, filter BookingFilter) ([]models.Booking, *Pagination, error) {
	q := s.db.Model(&models.Booking{}).Where("musician_id = ?", musicianID)
	return s.listBookings(q, filter, "Client")
}

// ListClientBookings returns the client's bookings, filtered and paginated
func (s *BookingService) ListClientBookings(clientID uint, filter BookingFilter) ([]models.Booking, *Pagination, error) {
	q := s.db.Model(&models.Booking{}).Where("client_id = ?", clientID)
	return s.listBookings(q, filter, "Musician")
}

// ListAllBookings returns all bookings for admin reporting
func (s *BookingService) ListAllBookings(filter BookingFilter) ([]models.Booking, *Pagination, error) {
	return s.listBookings(s.db.Model(&models.Booking{}), filter, "Client")
}

func (s *BookingService) listBookings(q *gorm.DB, filter BookingFilter, preload string) ([]models.Booking, *Pagination, error) {
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.EventType != "" {
		q = q.Where("event_type = ?", filter.EventType)
	}
	if filter.DateFrom != nil {
		q = q.Where("event_date >= ?", utils.NormalizeDate(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		q = q.Where("event_date <= ?", utils.NormalizeDate(*filter.DateTo))
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("event_title LIKE ? OR venue_name LIKE ?", like, like)
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
		perPage = 10
	}

	var bookings []models.Booking
	err := q.Preload(preload).Preload("Gig").
		Order(bookingOrderBy(filter.SortBy)).
		Limit(perPage).Offset((page - 1) * perPage).
		Find(&bookings).Error
	if err != nil {
		return nil, nil, persistenceError(err)
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	pagination := &Pagination{
		CurrentPage: page,
		PerPage:     perPage,
		TotalItems:  total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
	return bookings, pagination, nil
}

func bookingOrderBy(sortBy string) string {
	switch sortBy {
	case "date_asc":
		return "event_date ASC, start_time ASC"
	case "date_desc":
		return "event_date DESC, start_time DESC"
	case "title_asc":
		return "event_title ASC"
	case "title_desc":
		return "event_title DESC"
	case "amount_asc":
		return "total_amount ASC"
	case "amount_desc":
		return "total_amount DESC"
	case "created_asc":
		return "created_at ASC"
	case "created_desc":
		return "created_at DESC"
	default:
		return "event_date DESC, created_at DESC"
	}
}

// MusicianBookingStats aggregates booking counts, earnings and response
// rates for a musician over the given period ("week", "month", "year", "all")
func (s *BookingService) MusicianBookingStats(musicianID uint, period string) (*BookingStats, error) {
	stats := &BookingStats{
		ByStatus:    make(map[models.BookingStatus]int64),
		ByEventType: make(map[models.EventType]int64),
	}

	base := func() *gorm.DB {
		q := s.db.Model(&models.Booking{}).Where("musician_id = ?", musicianID)
		return periodScope(q, period)
	}

	if err := base().Count(&stats.TotalBookings).Error; err != nil {
		return nil, persistenceError(err)
	}

	type statusCount struct {
		Status models.BookingStatus
		Count  int64
	}
	var byStatus []statusCount
	if err := base().Select("status, COUNT(*) as count").Group("status").Scan(&byStatus).Error; err != nil {
		return nil, persistenceError(err)
	}
	for _, row := range byStatus {
		stats.ByStatus[row.Status] = row.Count
	}

	type typeCount struct {
		EventType models.EventType
		Count     int64
	}
	var byType []typeCount
	if err := base().Select("event_type, COUNT(*) as count").Group("event_type").Scan(&byType).Error; err != nil {
		return nil, persistenceError(err)
	}
	for _, row := range byType {
		stats.ByEventType[row.EventType] = row.Count
	}

	if err := base().Where("status = ?", models.BookingStatusCompleted).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&stats.TotalEarnings).Error; err != nil {
		return nil, persistenceError(err)
	}
	if err := base().Where("status = ?", models.BookingStatusConfirmed).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&stats.PendingEarnings).Error; err != nil {
		return nil, persistenceError(err)
	}
	if err := base().Where("total_amount > 0").
		Select("COALESCE(AVG(total_amount), 0)").Scan(&stats.AverageAmount).Error; err != nil {
		return nil, persistenceError(err)
	}

	if stats.TotalBookings > 0 {
		responded := stats.ByStatus[models.BookingStatusConfirmed] + stats.ByStatus[models.BookingStatusRejected]
		stats.ResponseRate = round2(float64(responded) / float64(stats.TotalBookings) * 100)
		stats.ConfirmationRate = round2(float64(stats.ByStatus[models.BookingStatusConfirmed]) / float64(stats.TotalBookings) * 100)
	}

	return stats, nil
}

// ClientBookingStats aggregates booking counts and spend for a client
func (s *BookingService) ClientBookingStats(clientID uint, period string) (*BookingStats, error) {
	stats := &BookingStats{ByStatus: make(map[models.BookingStatus]int64)}

	base := func() *gorm.DB {
		q := s.db.Model(&models.Booking{}).Where("client_id = ?", clientID)
		return periodScope(q, period)
	}

	if err := base().Count(&stats.TotalBookings).Error; err != nil {
		return nil, persistenceError(err)
	}

	type statusCount struct {
		Status models.BookingStatus
		Count  int64
	}
	var byStatus []statusCount
	if err := base().Select("status, COUNT(*) as count").Group("status").Scan(&byStatus).Error; err != nil {
		return nil, persistenceError(err)
	}
	for _, row := range byStatus {
		stats.ByStatus[row.Status] = row.Count
	}

	if err := base().Where("status IN ?", []models.BookingStatus{models.BookingStatusConfirmed, models.BookingStatusCompleted}).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&stats.TotalSpent).Error; err != nil {
		return nil, persistenceError(err)
	}

	if stats.TotalBookings > 0 {
		successful := stats.ByStatus[models.BookingStatusConfirmed] + stats.ByStatus[models.BookingStatusCompleted]
		stats.ConfirmationRate = round2(float64(successful) / float64(stats.TotalBookings) * 100)
	}

	return stats, nil
}

// UpcomingBookings returns the musician's committed bookings within the
// next seven days
func (s *BookingService) UpcomingBookings(musicianID uint, limit int) ([]models.Booking, error) {
	if limit < 1 {
		limit = 5
	}
	today := utils.NormalizeDate(time.Now().UTC())
	weekOut := today.AddDate(0, 0, 7)

	var bookings []models.Booking
	err := s.db.Preload("Client").
		Where("musician_id = ? AND event_date >= ? AND event_date <= ? AND status IN ?",
			musicianID, today, weekOut, blockingBookingStatuses).
		Order("event_date ASC, start_time ASC").
		Limit(limit).
		Find(&bookings).Error
	if err != nil {
		return nil, persistenceError(err)
	}
	return bookings, nil
}

// CalendarBookings returns the musician's bookings in a date range,
// excluding rejected and cancelled ones
func (s *BookingService) CalendarBookings(musicianID uint, from, to time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.
		Where("musician_id = ? AND event_date BETWEEN ? AND ? AND status NOT IN ?",
			musicianID, utils.NormalizeDate(from), utils.NormalizeDate(to),
			[]models.BookingStatus{models.BookingStatusRejected, models.BookingStatusCancelled}).
		Order("event_date, start_time").
		Find(&bookings).Error
	if err != nil {
		return nil, persistenceError(err)
	}
	return bookings, nil
}

func periodScope(q *gorm.DB, period string) *gorm.DB {
	now := time.Now().UTC()
	switch period {
	case "week":
		return q.Where("created_at >= ?", now.AddDate(0, 0, -7))
	case "month":
		return q.Where("created_at >= ?", now.AddDate(0, -1, 0))
	case "year":
		return q.Where("created_at >= ?", now.AddDate(-1, 0, 0))
	default:
		return q
	}
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
