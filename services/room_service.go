package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"hotel-ops/apperr"
	"hotel-ops/metrics"
	"hotel-ops/models"
)

type RoomService struct {
	DB  *gorm.DB
	log zerolog.Logger
}

func NewRoomService(db *gorm.DB, log zerolog.Logger) *RoomService {
	return &RoomService{DB: db, log: log.With().Str("component", "rooms").Logger()}
}

type CreateRoomInput struct {
	RoomNumber int
	RoomType   models.RoomType
	Capacity   int
	Price      decimal.Decimal
}

// UpdateRoomInput holds the fields to change; nil means keep.
type UpdateRoomInput struct {
	RoomNumber *int
	RoomType   *models.RoomType
	Capacity   *int
	Price      *decimal.Decimal
	Status     *models.RoomStatus
}

type RoomFilter struct {
	Status          *models.RoomStatus
	IncludeInactive bool
}

func validateRoomFields(roomType *models.RoomType, capacity *int, price *decimal.Decimal) error {
	if roomType != nil && !roomType.Valid() {
		return apperr.InvalidArgument("room_type must be one of single, double")
	}
	if capacity != nil && *capacity <= 0 {
		return apperr.InvalidArgument("capacity must be greater than 0")
	}
	if price != nil {
		if !price.IsPositive() {
			return apperr.InvalidArgument("price must be greater than 0")
		}
		// the column is decimal(10,2); finer values would be rounded on write
		if !price.Equal(price.Round(2)) {
			return apperr.InvalidArgument("price must have at most 2 decimal places")
		}
	}
	return nil
}

func (s *RoomService) Create(ctx context.Context, caller *models.User, in CreateRoomInput) (*models.Room, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if in.RoomNumber <= 0 {
		return nil, apperr.InvalidArgument("room_number must be greater than 0")
	}
	if err := validateRoomFields(&in.RoomType, &in.Capacity, &in.Price); err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx)
	var count int64
	if err := db.Model(&models.Room{}).Where("room_number = ?", in.RoomNumber).Count(&count).Error; err != nil {
		return nil, storeErr(err, nil, "check room number")
	}
	if count > 0 {
		return nil, apperr.Conflict("room %d already exists", in.RoomNumber)
	}

	room := models.Room{
		RoomNumber: in.RoomNumber,
		RoomType:   in.RoomType,
		Capacity:   in.Capacity,
		Price:      in.Price,
		Status:     models.RoomStatusAvailable,
		IsActive:   true,
		Version:    1,
	}
	if err := db.Create(&room).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, apperr.Conflict("room %d already exists", in.RoomNumber)
		}
		return nil, storeErr(err, nil, "create room")
	}

	s.log.Info().Uint("room_id", room.ID).Int("room_number", room.RoomNumber).Msg("room created")
	return &room, nil
}

// visible hides inactive rooms from everyone but admins.
func visible(room *models.Room, caller *models.User) bool {
	return room.IsActive || caller.IsAdmin()
}

func (s *RoomService) Get(ctx context.Context, caller *models.User, id uint) (*models.Room, error) {
	if err := requireStaff(caller); err != nil {
		return nil, err
	}
	var room models.Room
	if err := s.DB.WithContext(ctx).First(&room, id).Error; err != nil {
		return nil, storeErr(err, apperr.NotFound("room %d not found", id), "load room")
	}
	if !visible(&room, caller) {
		return nil, apperr.NotFound("room %d not found", id)
	}
	return &room, nil
}

func (s *RoomService) GetByNumber(ctx context.Context, caller *models.User, number int) (*models.Room, error) {
	if err := requireStaff(caller); err != nil {
		return nil, err
	}
	var room models.Room
	if err := s.DB.WithContext(ctx).Where("room_number = ?", number).First(&room).Error; err != nil {
		return nil, storeErr(err, apperr.NotFound("room %d not found", number), "load room")
	}
	if !visible(&room, caller) {
		return nil, apperr.NotFound("room %d not found", number)
	}
	return &room, nil
}

func (s *RoomService) List(ctx context.Context, caller *models.User, filter RoomFilter) ([]models.Room, error) {
	if err := requireStaff(caller); err != nil {
		return nil, err
	}
	if filter.IncludeInactive && !caller.IsAdmin() {
		return nil, apperr.Forbidden("only admins can list inactive rooms")
	}

	q := s.DB.WithContext(ctx).Model(&models.Room{})
	if !filter.IncludeInactive {
		q = q.Where("is_active = ?", true)
	}
	if filter.Status != nil {
		if !filter.Status.Valid() {
			return nil, apperr.InvalidArgument("unknown room status %q", *filter.Status)
		}
		q = q.Where("status = ?", *filter.Status)
	}

	rooms := []models.Room{}
	if err := q.Order("room_number ASC").Find(&rooms).Error; err != nil {
		return nil, storeErr(err, nil, "list rooms")
	}
	return rooms, nil
}

func (s *RoomService) Update(ctx context.Context, caller *models.User, id uint, in UpdateRoomInput) (*models.Room, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if in.RoomNumber != nil && *in.RoomNumber <= 0 {
		return nil, apperr.InvalidArgument("room_number must be greater than 0")
	}
	if err := validateRoomFields(in.RoomType, in.Capacity, in.Price); err != nil {
		return nil, err
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, apperr.InvalidArgument("unknown room status %q", *in.Status)
		}
		if *in.Status == models.RoomStatusInactive {
			return nil, apperr.InvalidArgument("use soft delete to deactivate a room")
		}
	}

	var (
		room  *models.Room
		after onCommit
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		room, err = lockRoom(tx, id)
		if err != nil {
			return err
		}
		if !room.IsActive {
			return apperr.PreconditionFailed("room %d is inactive; restore before updating", id)
		}

		updates := map[string]interface{}{}
		if in.RoomNumber != nil && *in.RoomNumber != room.RoomNumber {
			var count int64
			if err := tx.Model(&models.Room{}).
				Where("room_number = ? AND id <> ?", *in.RoomNumber, id).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return apperr.Conflict("room %d already exists", *in.RoomNumber)
			}
			updates["room_number"] = *in.RoomNumber
			room.RoomNumber = *in.RoomNumber
		}
		if in.RoomType != nil {
			updates["room_type"] = *in.RoomType
			room.RoomType = *in.RoomType
		}
		if in.Capacity != nil {
			updates["capacity"] = *in.Capacity
			room.Capacity = *in.Capacity
		}
		if in.Price != nil {
			updates["price"] = *in.Price
			room.Price = *in.Price
		}
		if len(updates) > 0 {
			updates["version"] = gorm.Expr("version + 1")
			if err := tx.Model(&models.Room{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return err
			}
			room.Version++
		}
		if in.Status != nil && *in.Status != room.Status {
			return writeRoomStatus(tx, room, *in.Status, &after)
		}
		return nil
	})
	if err != nil {
		if isDuplicateKey(err) && in.RoomNumber != nil {
			return nil, apperr.Conflict("room %d already exists", *in.RoomNumber)
		}
		return nil, storeErr(err, nil, "update room")
	}
	after.run()

	s.log.Info().Uint("room_id", id).Msg("room updated")
	return room, nil
}

// SoftDelete marks the room inactive. Deactivating an inactive room is a no-op.
func (s *RoomService) SoftDelete(ctx context.Context, caller *models.User, id uint) (*models.Room, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	var (
		room  *models.Room
		after onCommit
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		room, err = lockRoom(tx, id)
		if err != nil {
			return err
		}
		if !room.IsActive {
			return nil
		}

		var inHouse int64
		if err := tx.Model(&models.Reservation{}).
			Where("room_id = ? AND status = ?", id, models.ReservationCheckedIn).
			Count(&inHouse).Error; err != nil {
			return err
		}
		if inHouse > 0 {
			return apperr.Conflict("room %d has a checked-in guest", room.RoomNumber)
		}
		if err := writeRoomStatus(tx, room, models.RoomStatusInactive, &after); err != nil {
			return err
		}
		after.add(func() { s.log.Info().Uint("room_id", id).Msg("room deactivated") })
		return nil
	})
	if err != nil {
		return nil, storeErr(err, nil, "deactivate room")
	}
	after.run()
	return room, nil
}

// Restore brings an inactive room back as available; the status it had
// before deactivation is not recovered. Restoring an active room is a no-op,
// so an occupied or maintenance room keeps its status.
func (s *RoomService) Restore(ctx context.Context, caller *models.User, id uint) (*models.Room, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	var (
		room  *models.Room
		after onCommit
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		room, err = lockRoom(tx, id)
		if err != nil {
			return err
		}
		if room.IsActive {
			return nil
		}
		if err := writeRoomStatus(tx, room, models.RoomStatusAvailable, &after); err != nil {
			return err
		}
		after.add(func() { s.log.Info().Uint("room_id", id).Msg("room restored") })
		return nil
	})
	if err != nil {
		return nil, storeErr(err, nil, "restore room")
	}
	after.run()
	return room, nil
}

func (s *RoomService) SetStatus(ctx context.Context, caller *models.User, id uint, status models.RoomStatus) (*models.Room, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, apperr.InvalidArgument("unknown room status %q", status)
	}
	if status == models.RoomStatusInactive {
		return nil, apperr.InvalidArgument("use soft delete to deactivate a room")
	}

	var (
		room  *models.Room
		after onCommit
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		room, err = lockRoom(tx, id)
		if err != nil {
			return err
		}
		if !room.IsActive {
			return apperr.PreconditionFailed("room %d is inactive; restore before changing status", id)
		}
		return writeRoomStatus(tx, room, status, &after)
	})
	if err != nil {
		return nil, storeErr(err, nil, "set room status")
	}
	after.run()

	s.log.Info().Uint("room_id", id).Str("status", string(status)).Msg("room status set")
	return room, nil
}

func lockRoom(tx *gorm.DB, id uint) (*models.Room, error) {
	var room models.Room
	if err := forUpdate(tx).First(&room, id).Error; err != nil {
		return nil, storeErr(err, apperr.NotFound("room %d not found", id), "load room")
	}
	return &room, nil
}

// writeRoomStatus is the only place a room's status is persisted, so the
// inactive status and the is_active flag always move together. The metric
// is queued on after and counts only committed writes.
func writeRoomStatus(tx *gorm.DB, room *models.Room, status models.RoomStatus, after *onCommit) error {
	active := status != models.RoomStatusInactive
	if err := tx.Model(&models.Room{}).Where("id = ?", room.ID).Updates(map[string]interface{}{
		"status":    status,
		"is_active": active,
		"version":   gorm.Expr("version + 1"),
	}).Error; err != nil {
		return err
	}
	room.Status = status
	room.IsActive = active
	room.Version++
	after.add(func() { metrics.RoomStatusChanges.WithLabelValues(string(status)).Inc() })
	return nil
}
