package models

import "time"

type Guest struct {
	ID    uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name  string `gorm:"size:255;not null" json:"name"`
	Phone string `gorm:"size:50" json:"phone"`
	Email string `gorm:"size:255;uniqueIndex;not null" json:"email"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Guest) TableName() string {
	return "guests"
}
