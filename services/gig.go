package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"gig-booking-server/models"
	"gig-booking-server/utils"
)

// GigService manages musician-owned gigs created directly, independent
// of any booking. Booking-derived gigs flow through the synchronizer in
// the booking service; everything here operates on behalf of the
// owning musician.
type GigService struct {
	db       *gorm.DB
	activity *ActivityRecorder
}

func NewGigService(db *gorm.DB, activity *ActivityRecorder) *GigService {
	return &GigService{db: db, activity: activity}
}

// CreateGig adds a standalone calendar entry for the musician after a
// conflict check against their existing commitments
func (s *GigService) CreateGig(musicianID uint, req *models.GigCreate) (*models.Gig, error) {
	date, err := utils.ParseEventDate(req.GigDate)
	if err != nil {
		return nil, validationError("%v", err)
	}
	start, end, err := parseSchedule(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	gigType := req.GigType
	if gigType == "" {
		gigType = models.EventOther
	}
	if !models.IsValidEventType(gigType) {
		return nil, validationError("invalid gig type %q", gigType)
	}
	if req.AgreedAmount != nil && *req.AgreedAmount < 0 {
		return nil, validationError("agreed amount must not be negative")
	}

	checker := NewConflictChecker(s.db)
	conflict, err := checker.HasConflict(musicianID, date, start, end, nil, nil)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, conflictError("scheduling conflict with an existing commitment")
	}

	gig := models.Gig{
		MusicianID:          musicianID,
		Title:               req.Title,
		VenueName:           req.VenueName,
		VenueAddress:        req.VenueAddress,
		VenueContact:        req.VenueContact,
		GigDate:             utils.NormalizeDate(date),
		StartTime:           start,
		EndTime:             end,
		GigType:             gigType,
		Status:              models.GigStatusScheduled,
		AgreedAmount:        req.AgreedAmount,
		PaymentTerms:        req.PaymentTerms,
		EquipmentRequired:   req.EquipmentRequired,
		SpecialRequirements: req.SpecialRequirements,
		AudienceSize:        req.AudienceSize,
		PerformanceNotes:    req.PerformanceNotes,
	}

	if err := s.db.Create(&gig).Error; err != nil {
		return nil, persistenceError(err)
	}

	s.activity.Record(musicianID, models.ActivityGigCreated, "Gig created: "+gig.Title)
	return &gig, nil
}

// UpdateGig applies a partial update to the musician's own gig. Schedule
// changes re-run the conflict check with the gig excluded from its own
// prior slot.
func (s *GigService) UpdateGig(gigID, musicianID uint, req *models.GigUpdate) (*models.Gig, error) {
	var gig models.Gig
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&gig, gigID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("gig not found")
			}
			return persistenceError(err)
		}
		if gig.MusicianID != musicianID {
			return unauthorizedError("you can only update your own gigs")
		}

		scheduleChanged := false
		if req.GigDate != nil {
			date, err := utils.ParseEventDate(*req.GigDate)
			if err != nil {
				return validationError("%v", err)
			}
			gig.GigDate = utils.NormalizeDate(date)
			scheduleChanged = true
		}
		if req.StartTime != nil {
			start, err := utils.ParseClockTime(*req.StartTime)
			if err != nil {
				return validationError("%v", err)
			}
			gig.StartTime = start
			scheduleChanged = true
		}
		if req.EndTime != nil {
			if *req.EndTime == "" {
				gig.EndTime = nil
			} else {
				end, err := utils.ParseClockTime(*req.EndTime)
				if err != nil {
					return validationError("%v", err)
				}
				gig.EndTime = &end
			}
			scheduleChanged = true
		}
		if gig.EndTime != nil && *gig.EndTime <= gig.StartTime {
			return validationError("end time must be after start time")
		}

		if scheduleChanged {
			checker := NewConflictChecker(tx)
			conflict, err := checker.HasConflict(musicianID, gig.GigDate, gig.StartTime, gig.EndTime, gig.BookingID, &gig.ID)
			if err != nil {
				return err
			}
			if conflict {
				return conflictError("scheduling conflict with another commitment")
			}
		}

		if req.Title != nil {
			gig.Title = *req.Title
		}
		if req.VenueName != nil {
			gig.VenueName = *req.VenueName
		}
		if req.VenueAddress != nil {
			gig.VenueAddress = req.VenueAddress
		}
		if req.VenueContact != nil {
			gig.VenueContact = req.VenueContact
		}
		if req.GigType != nil {
			if !models.IsValidEventType(*req.GigType) {
				return validationError("invalid gig type %q", *req.GigType)
			}
			gig.GigType = *req.GigType
		}
		if req.AgreedAmount != nil {
			gig.AgreedAmount = req.AgreedAmount
		}
		if req.PaymentTerms != nil {
			gig.PaymentTerms = req.PaymentTerms
		}
		if req.EquipmentRequired != nil {
			gig.EquipmentRequired = req.EquipmentRequired
		}
		if req.SpecialRequirements != nil {
			gig.SpecialRequirements = req.SpecialRequirements
		}
		if req.AudienceSize != nil {
			gig.AudienceSize = req.AudienceSize
		}
		if req.PerformanceNotes != nil {
			gig.PerformanceNotes = req.PerformanceNotes
		}

		if err := tx.Save(&gig).Error; err != nil {
			return persistenceError(err)
		}
		return nil
	})
	if err != nil {
		return nil, AsServiceError(err)
	}
	return &gig, nil
}

// UpdateGigStatus moves the musician's gig to a new status
func (s *GigService) UpdateGigStatus(gigID, musicianID uint, status models.GigStatus) (*models.Gig, error) {
	if !status.IsValid() {
		return nil, validationError("invalid gig status %q", status)
	}

	var gig models.Gig
	if err := s.db.First(&gig, gigID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("gig not found")
		}
		return nil, persistenceError(err)
	}
	if gig.MusicianID != musicianID {
		return nil, unauthorizedError("you can only update your own gigs")
	}

	if err := s.db.Model(&gig).Update("status", status).Error; err != nil {
		return nil, persistenceError(err)
	}
	gig.Status = status

	s.activity.Record(musicianID, models.ActivityGigStatusUpdated, "Gig status updated to: "+string(status))
	return &gig, nil
}

// DeleteGig removes a gig that has not started. Booking-derived gigs
// cannot be deleted directly; the booking lifecycle owns them.
func (s *GigService) DeleteGig(gigID, musicianID uint) error {
	var gig models.Gig
	if err := s.db.First(&gig, gigID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundError("gig not found")
		}
		return persistenceError(err)
	}
	if gig.MusicianID != musicianID {
		return unauthorizedError("you can only delete your own gigs")
	}
	if gig.Status == models.GigStatusInProgress || gig.Status == models.GigStatusCompleted {
		return transitionError("cannot delete gigs that are in progress or completed")
	}
	if gig.BookingID != nil {
		return validationError("gig belongs to booking #%d; cancel the booking instead", *gig.BookingID)
	}

	if err := s.db.Delete(&gig).Error; err != nil {
		return persistenceError(err)
	}
	return nil
}

// GetGig loads one gig
func (s *GigService) GetGig(gigID uint) (*models.Gig, error) {
	var gig models.Gig
	if err := s.db.First(&gig, gigID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("gig not found")
		}
		return nil, persistenceError(err)
	}
	return &gig, nil
}

// GigFilter holds the optional filters for gig listings
type GigFilter struct {
	Status   models.GigStatus
	GigType  models.EventType
	DateFrom *time.Time
	DateTo   *time.Time
	Search   string
	Page     int
	PerPage  int
}

// ListGigs returns the musician's gigs, filtered and paginated
func (s *GigService) ListGigs(musicianID uint, filter GigFilter) ([]models.Gig, *Pagination, error) {
	q := s.db.Model(&models.Gig{}).Where("musician_id = ?", musicianID)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.GigType != "" {
		q = q.Where("gig_type = ?", filter.GigType)
	}
	if filter.DateFrom != nil {
		q = q.Where("gig_date >= ?", utils.NormalizeDate(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		q = q.Where("gig_date <= ?", utils.NormalizeDate(*filter.DateTo))
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("title LIKE ? OR venue_name LIKE ?", like, like)
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

	var gigs []models.Gig
	err := q.Order("gig_date DESC, start_time DESC").
		Limit(perPage).Offset((page - 1) * perPage).
		Find(&gigs).Error
	if err != nil {
		return nil, nil, persistenceError(err)
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	return gigs, &Pagination{
		CurrentPage: page,
		PerPage:     perPage,
		TotalItems:  total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}, nil
}

// UpcomingGigs returns the musician's next active gigs
func (s *GigService) UpcomingGigs(musicianID uint, limit int) ([]models.Gig, error) {
	if limit < 1 {
		limit = 5
	}
	today := utils.NormalizeDate(time.Now().UTC())

	var gigs []models.Gig
	err := s.db.
		Where("musician_id = ? AND gig_date >= ? AND status IN ?", musicianID, today, blockingGigStatuses).
		Order("gig_date ASC, start_time ASC").
		Limit(limit).
		Find(&gigs).Error
	if err != nil {
		return nil, persistenceError(err)
	}
	return gigs, nil
}

// GigStats aggregates a musician's gig counts and earnings
type GigStats struct {
	TotalGigs         int64                      `json:"total_gigs"`
	ByStatus          map[models.GigStatus]int64 `json:"by_status"`
	UpcomingGigs      int64                      `json:"upcoming_gigs"`
	CompletedEarnings float64                    `json:"completed_earnings"`
}

// MusicianGigStats aggregates gig counts by status plus earnings from
// completed gigs
func (s *GigService) MusicianGigStats(musicianID uint) (*GigStats, error) {
	stats := &GigStats{ByStatus: make(map[models.GigStatus]int64)}

	base := func() *gorm.DB {
		return s.db.Model(&models.Gig{}).Where("musician_id = ?", musicianID)
	}

	if err := base().Count(&stats.TotalGigs).Error; err != nil {
		return nil, persistenceError(err)
	}

	type statusCount struct {
		Status models.GigStatus
		Count  int64
	}
	var byStatus []statusCount
	if err := base().Select("status, COUNT(*) as count").Group("status").Scan(&byStatus).Error; err != nil {
		return nil, persistenceError(err)
	}
	for _, row := range byStatus {
		stats.ByStatus[row.Status] = row.Count
	}

	today := utils.NormalizeDate(time.Now().UTC())
	if err := base().Where("gig_date >= ? AND status IN ?", today, blockingGigStatuses).
		Count(&stats.UpcomingGigs).Error; err != nil {
		return nil, persistenceError(err)
	}

	if err := base().Where("status = ?", models.GigStatusCompleted).
		Select("COALESCE(SUM(agreed_amount), 0)").Scan(&stats.CompletedEarnings).Error; err != nil {
		return nil, persistenceError(err)
	}

	return stats, nil
}

// CalendarGigs returns the musician's gigs in a date range, excluding
// cancelled ones
func (s *GigService) CalendarGigs(musicianID uint, from, to time.Time) ([]models.Gig, error) {
	var gigs []models.Gig
	err := s.db.
		Where("musician_id = ? AND gig_date BETWEEN ? AND ? AND status <> ?",
			musicianID, utils.NormalizeDate(from), utils.NormalizeDate(to), models.GigStatusCancelled).
		Order("gig_date, start_time").
		Find(&gigs).Error
	if err != nil {
		return nil, persistenceError(err)
	}
	return gigs, nil
}
