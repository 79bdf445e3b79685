package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"hotel-ops/apperr"
	"hotel-ops/models"
	"hotel-ops/utils"
)

type GuestService struct {
	DB  *gorm.DB
	Now func() time.Time
	log zerolog.Logger
}

func NewGuestService(db *gorm.DB, log zerolog.Logger) *GuestService {
	return &GuestService{DB: db, Now: time.Now, log: log.With().Str("component", "guests").Logger()}
}

type CreateGuestInput struct {
	Name  string
	Phone string
	Email string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *GuestService) Create(ctx context.Context, caller *models.User, in CreateGuestInput) (*models.Guest, error) {
	if err := requireStaff(caller); err != nil {
		return nil, err
	}
	guest := models.Guest{
		Name:  strings.TrimSpace(in.Name),
		Phone: strings.TrimSpace(in.Phone),
		Email: normalizeEmail(in.Email),
	}
	if guest.Name == "" {
		return nil, apperr.InvalidArgument("name is required")
	}
	if at := strings.Index(guest.Email, "@"); at <= 0 || at == len(guest.Email)-1 {
		return nil, apperr.InvalidArgument("a valid email is required")
	}

	db := s.DB.WithContext(ctx)
	var count int64
	if err := db.Model(&models.Guest{}).Where("email = ?", guest.Email).Count(&count).Error; err != nil {
		return nil, storeErr(err, nil, "check guest email")
	}
	if count > 0 {
		return nil, apperr.Conflict("guest with email %s already exists", guest.Email)
	}
	if err := db.Create(&guest).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, apperr.Conflict("guest with email %s already exists", guest.Email)
		}
		return nil, storeErr(err, nil, "create guest")
	}

	s.log.Info().Uint("guest_id", guest.ID).Msg("guest created")
	return &guest, nil
}

func (s *GuestService) Get(ctx context.Context, caller *models.User, id uint) (*models.Guest, error) {
	if err := requireStaff(caller); err != nil {
		return nil, err
	}
	var guest models.Guest
	if err := s.DB.WithContext(ctx).First(&guest, id).Error; err != nil {
		return nil, storeErr(err, apperr.NotFound("guest %d not found", id), "load guest")
	}
	return &guest, nil
}

func (s *GuestService) List(ctx context.Context, caller *models.User) ([]models.Guest, error) {
	if err := requireStaff(caller); err != nil {
		return nil, err
	}
	guests := []models.Guest{}
	if err := s.DB.WithContext(ctx).Order("id ASC").Find(&guests).Error; err != nil {
		return nil, storeErr(err, nil, "list guests")
	}
	return guests, nil
}

// Delete removes the guest together with its reservations and their bills.
// A guest currently checked in cannot be removed.
func (s *GuestService) Delete(ctx context.Context, caller *models.User, id uint) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}

	var after onCommit
	today := utils.DateOf(s.Now())
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var guest models.Guest
		if err := forUpdate(tx).First(&guest, id).Error; err != nil {
			return storeErr(err, apperr.NotFound("guest %d not found", id), "load guest")
		}

		var inHouse int64
		if err := tx.Model(&models.Reservation{}).
			Where("guest_id = ? AND status = ?", id, models.ReservationCheckedIn).
			Count(&inHouse).Error; err != nil {
			return err
		}
		if inHouse > 0 {
			return apperr.Conflict("guest %d is checked in; check out first", id)
		}

		var heldRooms []uint
		if err := tx.Model(&models.Reservation{}).
			Where("guest_id = ? AND status = ?", id, models.ReservationReserved).
			Distinct().Pluck("room_id", &heldRooms).Error; err != nil {
			return err
		}

		reservationIDs := tx.Model(&models.Reservation{}).Select("id").Where("guest_id = ?", id)
		if err := tx.Where("reservation_id IN (?)", reservationIDs).Delete(&models.Bill{}).Error; err != nil {
			return err
		}
		if err := tx.Where("guest_id = ?", id).Delete(&models.Reservation{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&guest).Error; err != nil {
			return err
		}

		// a same-day reservation may have been holding its room occupied
		for _, roomID := range heldRooms {
			if _, err := releaseRoom(tx, roomID, 0, today, &after); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return storeErr(err, nil, "delete guest")
	}

	after.run()
	s.log.Info().Uint("guest_id", id).Msg("guest deleted")
	return nil
}
