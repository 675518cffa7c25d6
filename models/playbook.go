package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
	ChannelNPS   = "nps"
)

// Playbook is configuration describing how a business trigger becomes a
// dispatch job: which template, which channel, how far offset from the
// trigger, and what quiet-hours/throttle policy applies. It is read, never
// consumed.
type Playbook struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	CampgroundID uuid.UUID `gorm:"type:uuid;index;not null"`

	Type    string `gorm:"type:varchar(40);not null"` // e.g. payment_reminder, reservation_created, nps
	Enabled bool   `gorm:"default:true"`

	TemplateID *uuid.UUID       `gorm:"type:uuid"`
	Template   *MessageTemplate `gorm:"foreignKey:TemplateID"`

	Channel       string `gorm:"type:varchar(10);not null"`
	OffsetMinutes int    `gorm:"default:0"`

	// Quiet hours as minutes-since-midnight UTC. Nil means no window.
	QuietHoursStart *int
	QuietHoursEnd   *int

	ThrottlePerMinute *int
	RoutingAssigneeID *uuid.UUID `gorm:"type:uuid"`

	gorm.Model
}

func (p *Playbook) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
