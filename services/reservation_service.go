package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"hotel-ops/apperr"
	"hotel-ops/metrics"
	"hotel-ops/models"
	"hotel-ops/utils"
)

// ReservationService owns the reservation state machine and the room status
// changes it drives. Every read-then-write runs in one transaction holding
// the room row lock.
type ReservationService struct {
	DB      *gorm.DB
	Billing *BillingService
	Now     func() time.Time
	log     zerolog.Logger
}

func NewReservationService(db *gorm.DB, billing *BillingService, log zerolog.Logger) *ReservationService {
	return &ReservationService{
		DB:      db,
		Billing: billing,
		Now:     time.Now,
		log:     log.With().Str("component", "reservations").Logger(),
	}
}

type CreateReservationInput struct {
	RoomID     uint
	GuestID    uint
	CheckIn    time.Time
	CheckOut   time.Time
	NoOfGuests int
}

type ReservationFilter struct {
	Status *models.ReservationStatus
}

var reservationTransitions = map[models.ReservationStatus][]models.ReservationStatus{
	models.ReservationReserved:  {models.ReservationCheckedIn, models.ReservationCancelled},
	models.ReservationCheckedIn: {models.ReservationCheckedOut, models.ReservationCancelled},
}

func canTransition(from, to models.ReservationStatus) bool {
	for _, next := range reservationTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s *ReservationService) today() time.Time {
	return utils.DateOf(s.Now())
}

func (s *ReservationService) Create(ctx context.Context, caller *models.User, in CreateReservationInput) (*models.Reservation, error) {
	if err := requireStaff(caller); err != nil {
		return nil, err
	}

	checkIn := utils.DateOf(in.CheckIn)
	checkOut := utils.DateOf(in.CheckOut)
	today := s.today()

	var (
		reservation models.Reservation
		after       onCommit
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, err := lockRoom(tx, in.RoomID)
		if err != nil {
			return err
		}
		if !room.IsActive {
			return apperr.NotFound("room %d not found or inactive", in.RoomID)
		}
		if room.Status != models.RoomStatusAvailable {
			return apperr.Conflict("room %d is not available for reservation", room.RoomNumber)
		}
		if !checkIn.Before(checkOut) {
			return apperr.InvalidArgument("check-out date must be after check-in date")
		}

		var guest models.Guest
		if err := tx.First(&guest, in.GuestID).Error; err != nil {
			return storeErr(err, apperr.NotFound("guest %d not found", in.GuestID), "load guest")
		}

		if in.NoOfGuests <= 0 {
			return apperr.InvalidArgument("no_of_guests must be greater than 0")
		}
		if in.NoOfGuests > room.Capacity {
			return apperr.InvalidArgument("room %d holds at most %d guests", room.RoomNumber, room.Capacity)
		}

		var overlapping int64
		if err := tx.Model(&models.Reservation{}).
			Where("room_id = ? AND status IN ?", room.ID, []models.ReservationStatus{models.ReservationReserved, models.ReservationCheckedIn}).
			Where("check_in < ? AND check_out > ?", utils.ToDate(checkOut), utils.ToDate(checkIn)).
			Count(&overlapping).Error; err != nil {
			return err
		}
		if overlapping > 0 {
			return apperr.Conflict("room %d is already booked for part of these dates", room.RoomNumber)
		}

		// compare-and-set on the room version: a concurrent writer that read the
		// same room state makes this affect zero rows
		claim := tx.Model(&models.Room{}).
			Where("id = ? AND version = ?", room.ID, room.Version).
			Update("version", gorm.Expr("version + 1"))
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			return apperr.Conflict("room %d was modified concurrently; retry", room.RoomNumber)
		}
		room.Version++

		reservation = models.Reservation{
			RoomID:       room.ID,
			GuestID:      guest.ID,
			CheckIn:      utils.ToDate(checkIn),
			CheckOut:     utils.ToDate(checkOut),
			NoOfGuests:   in.NoOfGuests,
			PerNightRate: room.Price,
			Status:       models.ReservationReserved,
		}
		if err := tx.Create(&reservation).Error; err != nil {
			return err
		}

		if checkIn.Equal(today) {
			return writeRoomStatus(tx, room, models.RoomStatusOccupied, &after)
		}
		return nil
	})
	if err != nil {
		metrics.ReservationsRejected.WithLabelValues(string(apperr.KindOf(err))).Inc()
		err = storeErr(err, nil, "create reservation")
		if apperr.KindOf(err) == apperr.KindInternal {
			s.log.Error().Err(err).Uint("room_id", in.RoomID).Msg("reservation create failed")
		}
		return nil, err
	}

	after.run()
	metrics.ReservationsCreated.Inc()
	s.log.Info().
		Uint("reservation_id", reservation.ID).
		Uint("room_id", reservation.RoomID).
		Uint("guest_id", reservation.GuestID).
		Str("check_in", checkIn.Format(utils.DateLayout)).
		Str("check_out", checkOut.Format(utils.DateLayout)).
		Msg("reservation created")
	return &reservation, nil
}

func (s *ReservationService) Get(ctx context.Context, caller *models.User, id uint) (*models.Reservation, error) {
	if err := requireStaff(caller); err != nil {
		return nil, err
	}
	var reservation models.Reservation
	if err := s.DB.WithContext(ctx).First(&reservation, id).Error; err != nil {
		return nil, storeErr(err, apperr.NotFound("reservation %d not found", id), "load reservation")
	}
	return &reservation, nil
}

// List returns every reservation to admins; staff only see stays that have
// not yet ended (check_out on or after today).
func (s *ReservationService) List(ctx context.Context, caller *models.User, filter ReservationFilter) ([]models.Reservation, error) {
	if err := requireStaff(caller); err != nil {
		return nil, err
	}

	q := s.DB.WithContext(ctx).Model(&models.Reservation{})
	if !caller.IsAdmin() {
		q = q.Where("check_out >= ?", utils.ToDate(s.today()))
	}
	if filter.Status != nil {
		if !filter.Status.Valid() {
			return nil, apperr.InvalidArgument("unknown reservation status %q", *filter.Status)
		}
		q = q.Where("status = ?", *filter.Status)
	}

	reservations := []models.Reservation{}
	if err := q.Order("check_in ASC").Order("id ASC").Find(&reservations).Error; err != nil {
		return nil, storeErr(err, nil, "list reservations")
	}
	return reservations, nil
}

// UpdateStatus moves a reservation along its state machine and applies the
// matching room status in the same transaction. Checking out also produces
// the bill.
func (s *ReservationService) UpdateStatus(ctx context.Context, caller *models.User, id uint, next models.ReservationStatus) (*models.Reservation, error) {
	if err := requireStaff(caller); err != nil {
		return nil, err
	}
	if !next.Valid() {
		return nil, apperr.InvalidArgument("unknown reservation status %q", next)
	}

	var (
		reservation models.Reservation
		previous    models.ReservationStatus
		after       onCommit
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&reservation, id).Error; err != nil {
			return storeErr(err, apperr.NotFound("reservation %d not found", id), "load reservation")
		}
		previous = reservation.Status
		if previous == next {
			return nil
		}
		if !canTransition(previous, next) {
			return apperr.PreconditionFailed("reservation %d cannot move from %s to %s", id, previous, next)
		}

		room, err := lockRoom(tx, reservation.RoomID)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindNotFound {
				return apperr.Internal(err, "reservation %d references a missing room", id)
			}
			return err
		}
		if next == models.ReservationCheckedIn {
			if !room.IsActive {
				return apperr.PreconditionFailed("room %d is inactive; restore before check-in", room.RoomNumber)
			}
			if room.Status == models.RoomStatusMaintenance {
				return apperr.Conflict("room %d is under maintenance", room.RoomNumber)
			}
		}

		if err := tx.Model(&models.Reservation{}).Where("id = ?", id).
			Update("status", next).Error; err != nil {
			return err
		}
		reservation.Status = next

		switch next {
		case models.ReservationCheckedIn:
			if err := writeRoomStatus(tx, room, models.RoomStatusOccupied, &after); err != nil {
				return err
			}
		case models.ReservationCheckedOut, models.ReservationCancelled:
			if _, err := releaseRoom(tx, room.ID, reservation.ID, s.today(), &after); err != nil {
				return err
			}
		}

		if next == models.ReservationCheckedOut {
			if _, err := s.Billing.createForReservation(tx, &reservation, true, &after); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		err = storeErr(err, nil, "update reservation status")
		if apperr.KindOf(err) == apperr.KindInternal {
			s.log.Error().Err(err).Uint("reservation_id", id).Str("to", string(next)).Msg("reservation status update failed")
		}
		return nil, err
	}

	after.run()
	if previous != next {
		metrics.ReservationTransitions.WithLabelValues(string(previous), string(next)).Inc()
		s.log.Info().
			Uint("reservation_id", id).
			Str("from", string(previous)).
			Str("to", string(next)).
			Msg("reservation status changed")
	}
	return &reservation, nil
}

// releaseRoom returns an occupied room to available unless another
// reservation still holds it: one checked in, or one reserved for arrival
// today (created with eager occupancy). Rooms in maintenance or inactive keep
// their status. It reports whether the room was released.
func releaseRoom(tx *gorm.DB, roomID, exceptID uint, today time.Time, after *onCommit) (bool, error) {
	room, err := lockRoom(tx, roomID)
	if err != nil {
		return false, err
	}
	if room.Status != models.RoomStatusOccupied {
		return false, nil
	}

	var holding int64
	if err := tx.Model(&models.Reservation{}).
		Where("room_id = ? AND id <> ?", roomID, exceptID).
		Where("(status = ? OR (status = ? AND check_in = ?))",
			models.ReservationCheckedIn, models.ReservationReserved, utils.ToDate(today)).
		Count(&holding).Error; err != nil {
		return false, err
	}
	if holding > 0 {
		return false, nil
	}
	return true, writeRoomStatus(tx, room, models.RoomStatusAvailable, after)
}
