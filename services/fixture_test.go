package services

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"hotel-ops/dbtest"
	"hotel-ops/models"
)

type fixture struct {
	db           *gorm.DB
	rooms        *RoomService
	guests       *GuestService
	reservations *ReservationService
	billing      *BillingService
	users        *UserService

	admin *models.User
	staff *models.User
}

func date(raw string) time.Time {
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		panic(err)
	}
	return t
}

func newFixture(t *testing.T, today string) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	log := zerolog.Nop()

	billing := NewBillingService(db, log)
	f := &fixture{
		db:           db,
		rooms:        NewRoomService(db, log),
		guests:       NewGuestService(db, log),
		reservations: NewReservationService(db, billing, log),
		billing:      billing,
		users:        NewUserService(db, log),
		admin:        &models.User{Username: "admin", HashedPassword: "x", Role: models.RoleAdmin},
		staff:        &models.User{Username: "desk", HashedPassword: "x", Role: models.RoleStaff},
	}
	now := date(today).Add(10 * time.Hour)
	f.reservations.Now = func() time.Time { return now }
	f.billing.Now = func() time.Time { return now }
	f.guests.Now = func() time.Time { return now }

	require.NoError(t, db.Create(f.admin).Error)
	require.NoError(t, db.Create(f.staff).Error)
	return f
}

func (f *fixture) room(t *testing.T, number, capacity int, price string) *models.Room {
	t.Helper()
	room, err := f.rooms.Create(context.Background(), f.admin, CreateRoomInput{
		RoomNumber: number,
		RoomType:   models.RoomTypeSingle,
		Capacity:   capacity,
		Price:      decimal.RequireFromString(price),
	})
	require.NoError(t, err)
	return room
}

func (f *fixture) guest(t *testing.T, name, email string) *models.Guest {
	t.Helper()
	guest, err := f.guests.Create(context.Background(), f.staff, CreateGuestInput{Name: name, Phone: "555-0100", Email: email})
	require.NoError(t, err)
	return guest
}

func (f *fixture) reserve(t *testing.T, roomID, guestID uint, checkIn, checkOut string) *models.Reservation {
	t.Helper()
	res, err := f.reservations.Create(context.Background(), f.staff, CreateReservationInput{
		RoomID:     roomID,
		GuestID:    guestID,
		CheckIn:    date(checkIn),
		CheckOut:   date(checkOut),
		NoOfGuests: 1,
	})
	require.NoError(t, err)
	return res
}

func (f *fixture) reload(t *testing.T, room *models.Room) *models.Room {
	t.Helper()
	var fresh models.Room
	require.NoError(t, f.db.First(&fresh, room.ID).Error)
	return &fresh
}

func (f *fixture) reloadReservation(t *testing.T, id uint) *models.Reservation {
	t.Helper()
	var fresh models.Reservation
	require.NoError(t, f.db.First(&fresh, id).Error)
	return &fresh
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}
