package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type RoomType string

const (
	RoomTypeSingle RoomType = "single"
	RoomTypeDouble RoomType = "double"
)

func (t RoomType) Valid() bool {
	return t == RoomTypeSingle || t == RoomTypeDouble
}

type RoomStatus string

const (
	RoomStatusAvailable   RoomStatus = "available"
	RoomStatusOccupied    RoomStatus = "occupied"
	RoomStatusMaintenance RoomStatus = "maintenance"
	RoomStatusInactive    RoomStatus = "inactive"
)

func (s RoomStatus) Valid() bool {
	switch s {
	case RoomStatusAvailable, RoomStatusOccupied, RoomStatusMaintenance, RoomStatusInactive:
		return true
	}
	return false
}

// Room is never hard-deleted. Status is inactive exactly when IsActive is false.
type Room struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	RoomNumber int             `gorm:"column:room_number;uniqueIndex;not null" json:"room_number"`
	RoomType   RoomType        `gorm:"column:room_type;type:varchar(16);not null" json:"room_type"`
	Capacity   int             `gorm:"column:capacity;not null" json:"capacity"`
	Price      decimal.Decimal `gorm:"column:price;type:decimal(10,2);not null" json:"price"`
	Status     RoomStatus      `gorm:"column:status;type:varchar(16);not null;index" json:"status"`
	IsActive   bool            `gorm:"column:is_active;not null;default:true" json:"is_active"`

	// bumped on every reservation-driven write; guards against concurrent double booking
	Version int64 `gorm:"column:version;not null;default:1" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Room) TableName() string {
	return "rooms"
}
