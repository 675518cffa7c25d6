package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Canonical delivery statuses. Provider-specific callback vocabularies are
// collapsed into this set by the status normalizer.
const (
	CommStatusQueued        = "queued"
	CommStatusSent          = "sent"
	CommStatusDelivered     = "delivered"
	CommStatusBounced       = "bounced"
	CommStatusSpamComplaint = "spam_complaint"
	CommStatusDeferred      = "deferred"
	CommStatusFailed        = "failed"
	CommStatusReceived      = "received"
	CommStatusUnknown       = "unknown"
)

const (
	CommTypeEmail = "email"
	CommTypeSMS   = "sms"

	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

// Communication is one message record. Outbound rows are created at send
// time; inbound rows are created directly in 'received' by webhook ingestion.
type Communication struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	CampgroundID uuid.UUID `gorm:"type:uuid;index"`

	Type      string `gorm:"type:varchar(10);not null"`
	Direction string `gorm:"type:varchar(10);not null"`
	Status    string `gorm:"type:varchar(20);index"`

	Provider          string `gorm:"type:varchar(20)"`
	ProviderMessageID string `gorm:"index"`

	ToAddress   string
	FromAddress string
	Metadata    JSONB `gorm:"type:jsonb;default:'{}'"`

	gorm.Model
}

func (c *Communication) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
