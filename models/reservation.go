package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type ReservationStatus string

const (
	ReservationReserved   ReservationStatus = "reserved"
	ReservationCheckedIn  ReservationStatus = "checked_in"
	ReservationCheckedOut ReservationStatus = "checked_out"
	ReservationCancelled  ReservationStatus = "cancelled"
)

func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationReserved, ReservationCheckedIn, ReservationCheckedOut, ReservationCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed out of s.
func (s ReservationStatus) Terminal() bool {
	return s == ReservationCheckedOut || s == ReservationCancelled
}

// Active reservations hold their room for the stay interval.
func (s ReservationStatus) Active() bool {
	return s == ReservationReserved || s == ReservationCheckedIn
}

// Reservation references its room and guest by id. The Room and Guest fields
// exist only to declare the foreign keys and are never loaded. The stay is
// the half-open interval [CheckIn, CheckOut).
type Reservation struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	RoomID       uint              `gorm:"column:room_id;not null;index" json:"room_id"`
	GuestID      uint              `gorm:"column:guest_id;not null;index" json:"guest_id"`
	CheckIn      datatypes.Date    `gorm:"column:check_in;not null;index" json:"check_in"`
	CheckOut     datatypes.Date    `gorm:"column:check_out;not null;index" json:"check_out"`
	NoOfGuests   int               `gorm:"column:no_of_guests;not null" json:"no_of_guests"`
	PerNightRate decimal.Decimal   `gorm:"column:per_night_rate;type:decimal(10,2);not null" json:"per_night_rate"`
	Status       ReservationStatus `gorm:"column:status;type:varchar(16);not null;index" json:"status"`

	Room  *Room  `gorm:"foreignKey:RoomID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Guest *Guest `gorm:"foreignKey:GuestID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Reservation) TableName() string {
	return "reservations"
}

func (r Reservation) CheckInTime() time.Time {
	return time.Time(r.CheckIn)
}

func (r Reservation) CheckOutTime() time.Time {
	return time.Time(r.CheckOut)
}
