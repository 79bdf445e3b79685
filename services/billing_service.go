package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"hotel-ops/apperr"
	"hotel-ops/metrics"
	"hotel-ops/models"
	"hotel-ops/utils"
)

// ComputeTotal charges every night of the half-open stay at rate. Amounts
// stay in exact decimal arithmetic.
func ComputeTotal(checkIn, checkOut time.Time, rate decimal.Decimal) decimal.Decimal {
	nights := utils.NightsBetween(checkIn, checkOut)
	if nights <= 0 {
		return decimal.Zero
	}
	return rate.Mul(decimal.NewFromInt(int64(nights)))
}

func ReservationTotal(r *models.Reservation) decimal.Decimal {
	return ComputeTotal(r.CheckInTime(), r.CheckOutTime(), r.PerNightRate)
}

type BillingService struct {
	DB  *gorm.DB
	Now func() time.Time
	log zerolog.Logger
}

func NewBillingService(db *gorm.DB, log zerolog.Logger) *BillingService {
	return &BillingService{DB: db, Now: time.Now, log: log.With().Str("component", "billing").Logger()}
}

type BillFilter struct {
	Paid *bool
}

// CreateBill bills a checked-out reservation. A reservation has at most one bill.
func (s *BillingService) CreateBill(ctx context.Context, caller *models.User, reservationID uint) (*models.Bill, error) {
	if err := requireStaff(caller); err != nil {
		return nil, err
	}

	var (
		bill  *models.Bill
		after onCommit
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reservation models.Reservation
		if err := forUpdate(tx).First(&reservation, reservationID).Error; err != nil {
			return storeErr(err, apperr.NotFound("reservation %d not found", reservationID), "load reservation")
		}
		if reservation.Status != models.ReservationCheckedOut {
			return apperr.PreconditionFailed("reservation %d is %s; bills are issued at checkout", reservationID, reservation.Status)
		}
		var err error
		bill, err = s.createForReservation(tx, &reservation, false, &after)
		return err
	})
	if err != nil {
		if isDuplicateKey(err) {
			return nil, apperr.Conflict("reservation %d already has a bill", reservationID)
		}
		return nil, storeErr(err, nil, "create bill")
	}
	after.run()
	return bill, nil
}

// createForReservation inserts the bill inside tx. With skipExisting an
// existing bill is returned instead of a Conflict.
func (s *BillingService) createForReservation(tx *gorm.DB, r *models.Reservation, skipExisting bool, after *onCommit) (*models.Bill, error) {
	var existing models.Bill
	err := tx.Where("reservation_id = ?", r.ID).Limit(1).Find(&existing).Error
	if err != nil {
		return nil, err
	}
	if existing.ID != 0 {
		if skipExisting {
			return &existing, nil
		}
		return nil, apperr.Conflict("reservation %d already has a bill", r.ID)
	}

	bill := models.Bill{
		ReservationID: r.ID,
		TotalAmount:   ReservationTotal(r),
		Paid:          false,
	}
	if err := tx.Create(&bill).Error; err != nil {
		return nil, err
	}

	after.add(func() {
		metrics.BillsCreated.Inc()
		s.log.Info().
			Uint("bill_id", bill.ID).
			Uint("reservation_id", r.ID).
			Str("total", bill.TotalAmount.StringFixed(2)).
			Msg("bill created")
	})
	return &bill, nil
}

// MarkPaid flips the bill to paid. Paying a paid bill changes nothing.
func (s *BillingService) MarkPaid(ctx context.Context, caller *models.User, billID uint) (*models.Bill, error) {
	if err := requireStaff(caller); err != nil {
		return nil, err
	}

	var bill models.Bill
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&bill, billID).Error; err != nil {
			return storeErr(err, apperr.NotFound("bill %d not found", billID), "load bill")
		}
		if bill.Paid {
			return nil
		}
		now := s.Now().UTC()
		if err := tx.Model(&models.Bill{}).Where("id = ?", billID).Updates(map[string]interface{}{
			"paid":    true,
			"paid_at": now,
		}).Error; err != nil {
			return err
		}
		bill.Paid = true
		bill.PaidAt = &now
		s.log.Info().Uint("bill_id", billID).Msg("bill paid")
		return nil
	})
	if err != nil {
		return nil, storeErr(err, nil, "mark bill paid")
	}
	return &bill, nil
}

func (s *BillingService) Get(ctx context.Context, caller *models.User, id uint) (*models.Bill, error) {
	if err := requireStaff(caller); err != nil {
		return nil, err
	}
	var bill models.Bill
	if err := s.DB.WithContext(ctx).First(&bill, id).Error; err != nil {
		return nil, storeErr(err, apperr.NotFound("bill %d not found", id), "load bill")
	}
	return &bill, nil
}

func (s *BillingService) GetByReservation(ctx context.Context, caller *models.User, reservationID uint) (*models.Bill, error) {
	if err := requireStaff(caller); err != nil {
		return nil, err
	}
	var bill models.Bill
	if err := s.DB.WithContext(ctx).Where("reservation_id = ?", reservationID).First(&bill).Error; err != nil {
		return nil, storeErr(err, apperr.NotFound("no bill for reservation %d", reservationID), "load bill")
	}
	return &bill, nil
}

func (s *BillingService) List(ctx context.Context, caller *models.User, filter BillFilter) ([]models.Bill, error) {
	if err := requireStaff(caller); err != nil {
		return nil, err
	}
	q := s.DB.WithContext(ctx).Model(&models.Bill{})
	if filter.Paid != nil {
		q = q.Where("paid = ?", *filter.Paid)
	}
	bills := []models.Bill{}
	if err := q.Order("id ASC").Find(&bills).Error; err != nil {
		return nil, storeErr(err, nil, "list bills")
	}
	return bills, nil
}
