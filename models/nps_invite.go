package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NPSInvite is a survey invitation handed off to the NPS subsystem.
type NPSInvite struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	SurveyID     string    `gorm:"not null"`
	CampgroundID uuid.UUID `gorm:"type:uuid;index;not null"`

	GuestID       *uuid.UUID `gorm:"type:uuid"`
	ReservationID *uuid.UUID `gorm:"type:uuid"`

	Channel    string `gorm:"type:varchar(10)"`
	Email      string
	TemplateID *uuid.UUID `gorm:"type:uuid"`

	Token     uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	ExpiresAt time.Time

	gorm.Model
}

func (n *NPSInvite) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return
}
