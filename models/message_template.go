package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TemplateStatusDraft    = "draft"
	TemplateStatusApproved = "approved"
	TemplateStatusRejected = "rejected"
)

// FieldChange records a before/after pair for one template field.
type FieldChange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// AuditEntry is one append-only line in a template's audit log.
type AuditEntry struct {
	Action  string                 `json:"action"`
	At      time.Time              `json:"at"`
	ActorID *uuid.UUID             `json:"actorId,omitempty"`
	Reason  string                 `json:"reason,omitempty"`
	Changes map[string]FieldChange `json:"changes,omitempty"`
}

// AuditLog is stored as a jsonb array alongside the template row.
type AuditLog []AuditEntry

func (a AuditLog) Value() (driver.Value, error) {
	if a == nil {
		return json.Marshal(AuditLog{})
	}
	return json.Marshal(a)
}

func (a *AuditLog) Scan(value interface{}) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, a)
}

type MessageTemplate struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	CampgroundID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name     string `gorm:"not null"`
	Subject  string
	BodyHTML string `gorm:"column:body_html;type:text"`
	Status   string `gorm:"type:varchar(20);default:'draft'"`
	Version  int    `gorm:"default:1"`

	ApprovedBy *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt *time.Time

	AuditLog AuditLog `gorm:"type:jsonb;default:'[]'"`

	gorm.Model
}

func (t *MessageTemplate) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}

// TemplateFields is the snapshot the update diff is computed over.
type TemplateFields struct {
	Name     string
	Subject  string
	BodyHTML string
	Status   string
}

func (t *MessageTemplate) Fields() TemplateFields {
	return TemplateFields{
		Name:     t.Name,
		Subject:  t.Subject,
		BodyHTML: t.BodyHTML,
		Status:   t.Status,
	}
}

// DiffTemplateFields returns a field-level diff containing only the fields
// that actually changed. An empty map means a no-op update.
func DiffTemplateFields(from, to TemplateFields) map[string]FieldChange {
	changes := map[string]FieldChange{}
	if from.Name != to.Name {
		changes["name"] = FieldChange{From: from.Name, To: to.Name}
	}
	if from.Subject != to.Subject {
		changes["subject"] = FieldChange{From: from.Subject, To: to.Subject}
	}
	if from.BodyHTML != to.BodyHTML {
		changes["bodyHtml"] = FieldChange{From: from.BodyHTML, To: to.BodyHTML}
	}
	if from.Status != to.Status {
		changes["status"] = FieldChange{From: from.Status, To: to.Status}
	}
	return changes
}

// AppendAudit adds exactly one entry to the audit log. Entries are never
// rewritten once appended.
func (t *MessageTemplate) AppendAudit(action string, at time.Time, actorID *uuid.UUID, reason string, changes map[string]FieldChange) {
	t.AuditLog = append(t.AuditLog, AuditEntry{
		Action:  action,
		At:      at,
		ActorID: actorID,
		Reason:  reason,
		Changes: changes,
	})
}
