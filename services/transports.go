package services

import (
	"campreserve-backend/models"

	"github.com/google/uuid"
)

// EmailResult is what an email transport reports back for one send.
type EmailResult struct {
	Provider  string
	MessageID string
	From      string
	Fallback  bool
}

// EmailSender is the outbound email transport contract. An empty from means
// the transport's configured sender address.
type EmailSender interface {
	SendEmail(from, to, subject, html string) (*EmailResult, error)
}

// SMSResult is what an SMS transport reports back for one send.
type SMSResult struct {
	Provider  string
	MessageID string
	From      string
}

// SMSSender is the outbound SMS transport contract.
type SMSSender interface {
	SendSMS(to, body string) (*SMSResult, error)
}

// NPSInviteParams carries everything the NPS collaborator needs to create a
// survey invite.
type NPSInviteParams struct {
	SurveyID      string
	CampgroundID  uuid.UUID
	GuestID       *uuid.UUID
	ReservationID *uuid.UUID
	Channel       string
	Email         string
	TemplateID    *uuid.UUID
	ExpireDays    int
}

// NPSInviter is the NPS collaborator contract.
type NPSInviter interface {
	CreateInvite(params NPSInviteParams) (*models.NPSInvite, error)
}
