package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusSent       = "sent"
	JobStatusSkipped    = "skipped"
	JobStatusFailed     = "failed"
)

// CommsJob is one scheduled dispatch attempt derived from a Playbook.
// Jobs are never deleted; terminal rows double as the send audit trail.
type CommsJob struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	PlaybookID   uuid.UUID `gorm:"type:uuid;index;not null"`
	CampgroundID uuid.UUID `gorm:"type:uuid;index;not null"`

	ReservationID *uuid.UUID `gorm:"type:uuid;index"`
	GuestID       *uuid.UUID `gorm:"type:uuid;index"`

	Status      string    `gorm:"type:varchar(20);index;default:'pending'"`
	ScheduledAt time.Time `gorm:"index;not null"`
	Attempts    int       `gorm:"default:0"`
	LastError   string    `gorm:"type:text"`
	Metadata    JSONB     `gorm:"type:jsonb;default:'{}'"`

	gorm.Model
}

func (j *CommsJob) BeforeCreate(tx *gorm.DB) (err error) {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return
}
