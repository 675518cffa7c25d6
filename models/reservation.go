package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Reservation struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	CampgroundID uuid.UUID `gorm:"type:uuid;index;not null"`
	GuestID      uuid.UUID `gorm:"type:uuid;index;not null"`

	Guest Guest `gorm:"foreignKey:GuestID"`

	SiteNumber string
	CheckIn    time.Time
	CheckOut   time.Time
	Status     string  `gorm:"type:varchar(20);default:'confirmed'"`
	BalanceDue float64 `gorm:"type:decimal(10,2);default:0.0"`

	gorm.Model
}

func (r *Reservation) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
