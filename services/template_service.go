package services

import (
	"errors"
	"time"

	"campreserve-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TemplateService owns the template approval workflow. Every mutation appends
// exactly one audit entry; status only ever changes through Approve/Reject.
type TemplateService struct {
	db *gorm.DB
}

func NewTemplateService(db *gorm.DB) *TemplateService {
	return &TemplateService{db: db}
}

// TemplateUpdate carries the content fields a generic update may rewrite.
type TemplateUpdate struct {
	Name     *string
	Subject  *string
	BodyHTML *string
}

func (s *TemplateService) Create(campgroundID uuid.UUID, name, subject, bodyHTML string, actorID *uuid.UUID) (*models.MessageTemplate, error) {
	template := &models.MessageTemplate{
		CampgroundID: campgroundID,
		Name:         name,
		Subject:      subject,
		BodyHTML:     bodyHTML,
		Status:       models.TemplateStatusDraft,
		Version:      1,
	}
	template.AppendAudit("created", time.Now().UTC(), actorID, "", nil)

	if err := s.db.Create(template).Error; err != nil {
		return nil, err
	}
	return template, nil
}

// Update rewrites content fields and appends one 'updated' audit entry
// carrying the field-level diff. The entry is appended even when nothing
// changed.
func (s *TemplateService) Update(campgroundID, id uuid.UUID, input TemplateUpdate, actorID *uuid.UUID) (*models.MessageTemplate, error) {
	template, err := s.load(campgroundID, id)
	if err != nil {
		return nil, err
	}

	before := template.Fields()
	if input.Name != nil {
		template.Name = *input.Name
	}
	if input.Subject != nil {
		template.Subject = *input.Subject
	}
	if input.BodyHTML != nil {
		template.BodyHTML = *input.BodyHTML
	}

	changes := models.DiffTemplateFields(before, template.Fields())
	template.Version++
	template.AppendAudit("updated", time.Now().UTC(), actorID, "", changes)

	if err := s.db.Save(template).Error; err != nil {
		return nil, err
	}
	return template, nil
}

func (s *TemplateService) Approve(campgroundID, id uuid.UUID, actorID *uuid.UUID, reason string) (*models.MessageTemplate, error) {
	template, err := s.load(campgroundID, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	template.Status = models.TemplateStatusApproved
	template.ApprovedBy = actorID
	template.ApprovedAt = &now
	template.AppendAudit("approved", now, actorID, reason, nil)

	if err := s.db.Save(template).Error; err != nil {
		return nil, err
	}
	return template, nil
}

func (s *TemplateService) Reject(campgroundID, id uuid.UUID, actorID *uuid.UUID, reason string) (*models.MessageTemplate, error) {
	template, err := s.load(campgroundID, id)
	if err != nil {
		return nil, err
	}

	template.Status = models.TemplateStatusRejected
	template.ApprovedBy = nil
	template.ApprovedAt = nil
	template.AppendAudit("rejected", time.Now().UTC(), actorID, reason, nil)

	if err := s.db.Save(template).Error; err != nil {
		return nil, err
	}
	return template, nil
}

func (s *TemplateService) Delete(campgroundID, id uuid.UUID) error {
	template, err := s.load(campgroundID, id)
	if err != nil {
		return err
	}
	return s.db.Delete(template).Error
}

func (s *TemplateService) Get(campgroundID, id uuid.UUID) (*models.MessageTemplate, error) {
	return s.load(campgroundID, id)
}

func (s *TemplateService) List(campgroundID uuid.UUID) ([]models.MessageTemplate, error) {
	var templates []models.MessageTemplate
	if err := s.db.Where("campground_id = ?", campgroundID).Order("created_at desc").Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

func (s *TemplateService) load(campgroundID, id uuid.UUID) (*models.MessageTemplate, error) {
	var template models.MessageTemplate
	if err := s.db.First(&template, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	if template.CampgroundID != campgroundID {
		return nil, ErrScopeMismatch
	}
	return &template, nil
}
