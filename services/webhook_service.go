package services

import (
	"errors"

	"campreserve-backend/models"

	"gorm.io/gorm"
)

// WebhookService reconciles provider callbacks into Communication records.
// Unknown or duplicate delivery reports are accepted silently; ingestion only
// rejects payloads missing required vendor fields.
type WebhookService struct {
	db *gorm.DB
}

func NewWebhookService(db *gorm.DB) *WebhookService {
	return &WebhookService{db: db}
}

func (s *WebhookService) IngestPostmarkStatus(payload PostmarkStatusPayload) error {
	if payload.RecordType == "" || payload.MessageID == "" {
		return ErrMissingWebhookFields
	}

	final := PostmarkFinalStatus(payload.RecordType, payload.Type)
	meta := models.JSONB{"recordType": payload.RecordType}
	if payload.Type != "" {
		meta["bounceType"] = payload.Type
	}
	if payload.Description != "" {
		meta["description"] = payload.Description
	}
	return s.updateByProviderID("postmark", payload.MessageID, final, meta)
}

func (s *WebhookService) IngestPostmarkInbound(payload PostmarkInboundPayload) error {
	if payload.From == "" {
		return ErrMissingWebhookFields
	}

	comm := &models.Communication{
		Type:              models.CommTypeEmail,
		Direction:         models.DirectionInbound,
		Status:            models.CommStatusReceived,
		Provider:          "postmark",
		ProviderMessageID: payload.MessageID,
		ToAddress:         payload.To,
		FromAddress:       payload.From,
		Metadata: models.JSONB{
			"subject":  payload.Subject,
			"textBody": payload.TextBody,
		},
	}
	return s.db.Create(comm).Error
}

func (s *WebhookService) IngestTwilioStatus(payload TwilioStatusPayload) error {
	if payload.MessageSid == "" || payload.MessageStatus == "" {
		return ErrMissingWebhookFields
	}

	status := NormalizeTwilioStatus(payload.MessageStatus)
	meta := models.JSONB{"messageStatus": payload.MessageStatus}
	if payload.ErrorCode != "" {
		meta["errorCode"] = payload.ErrorCode
	}
	return s.updateByProviderID("twilio", payload.MessageSid, status, meta)
}

func (s *WebhookService) IngestTwilioInbound(payload TwilioInboundPayload) error {
	if payload.MessageSid == "" || payload.From == "" {
		return ErrMissingWebhookFields
	}

	comm := &models.Communication{
		Type:              models.CommTypeSMS,
		Direction:         models.DirectionInbound,
		Status:            models.CommStatusReceived,
		Provider:          "twilio",
		ProviderMessageID: payload.MessageSid,
		ToAddress:         payload.To,
		FromAddress:       payload.From,
		Metadata:          models.JSONB{"body": payload.Body},
	}
	return s.db.Create(comm).Error
}

// updateByProviderID applies a status+metadata update to the communication
// matched by provider message id. No match is a no-op, not an error.
func (s *WebhookService) updateByProviderID(provider, providerMessageID, status string, meta models.JSONB) error {
	var comm models.Communication
	err := s.db.First(&comm, "provider = ? AND provider_message_id = ?", provider, providerMessageID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	comm.Status = status
	if comm.Metadata == nil {
		comm.Metadata = models.JSONB{}
	}
	for k, v := range meta {
		comm.Metadata[k] = v
	}
	return s.db.Save(&comm).Error
}
