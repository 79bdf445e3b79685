package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Bill struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	ReservationID uint            `gorm:"column:reservation_id;uniqueIndex;not null" json:"reservation_id"`
	TotalAmount   decimal.Decimal `gorm:"column:total_amount;type:decimal(12,2);not null" json:"total_amount"`
	Paid          bool            `gorm:"column:paid;not null;default:false" json:"paid"`
	PaidAt        *time.Time      `gorm:"column:paid_at" json:"paid_at,omitempty"`

	Reservation *Reservation `gorm:"foreignKey:ReservationID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

func (Bill) TableName() string {
	return "bills"
}
