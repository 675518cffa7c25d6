package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Guest is the CRM contact record. The communications engine only ever reads
// guests, to resolve a recipient address for a job.
type Guest struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	CampgroundID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name     string `gorm:"not null"`
	Email    string
	Phone    string
	Notes    string
	LastStay *time.Time
	IsActive bool `gorm:"default:true"`

	Reservations []Reservation `gorm:"foreignKey:GuestID"`

	gorm.Model
}

func (g *Guest) BeforeCreate(tx *gorm.DB) (err error) {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return
}
