package services

import (
	"strings"

	"campreserve-backend/models"
)

// PostmarkStatusPayload is the JSON shape of Postmark delivery webhooks.
// RecordType drives normalization; Type carries the bounce subtype.
type PostmarkStatusPayload struct {
	RecordType  string `json:"RecordType"`
	MessageID   string `json:"MessageID"`
	Type        string `json:"Type"`
	Email       string `json:"Email"`
	Description string `json:"Description"`
	Details     string `json:"Details"`
}

// PostmarkInboundPayload is the JSON shape of Postmark inbound email webhooks.
type PostmarkInboundPayload struct {
	MessageID string `json:"MessageID"`
	From      string `json:"From"`
	To        string `json:"To"`
	Subject   string `json:"Subject"`
	HtmlBody  string `json:"HtmlBody"`
	TextBody  string `json:"TextBody"`
}

// TwilioStatusPayload is the form-encoded shape of Twilio status callbacks.
type TwilioStatusPayload struct {
	MessageSid    string `form:"MessageSid" json:"MessageSid"`
	MessageStatus string `form:"MessageStatus" json:"MessageStatus"`
	To            string `form:"To" json:"To"`
	From          string `form:"From" json:"From"`
	ErrorCode     string `form:"ErrorCode" json:"ErrorCode"`
}

// TwilioInboundPayload is the form-encoded shape of Twilio inbound SMS.
type TwilioInboundPayload struct {
	MessageSid string `form:"MessageSid" json:"MessageSid"`
	From       string `form:"From" json:"From"`
	To         string `form:"To" json:"To"`
	Body       string `form:"Body" json:"Body"`
}

// NormalizePostmarkRecord maps a Postmark record type onto the canonical
// status vocabulary. Unrecognized non-empty values pass through lowercased.
func NormalizePostmarkRecord(recordType string) string {
	switch strings.ToLower(recordType) {
	case "delivery":
		return models.CommStatusDelivered
	case "bounce":
		return models.CommStatusBounced
	case "spamcomplaint":
		return models.CommStatusSpamComplaint
	case "deferred", "tempfail":
		return models.CommStatusDeferred
	case "open", "click":
		return models.CommStatusSent
	case "":
		return models.CommStatusUnknown
	default:
		return strings.ToLower(recordType)
	}
}

// PostmarkFinalStatus applies the hard-fail escalation on top of
// normalization: a normalized bounced/spam_complaint, or a raw HardBounce
// subtype, is stored as failed. Subtypes that normalize elsewhere (tempfail)
// keep their normalized status.
func PostmarkFinalStatus(recordType, bounceType string) string {
	normalized := NormalizePostmarkRecord(recordType)
	if normalized == models.CommStatusBounced ||
		normalized == models.CommStatusSpamComplaint ||
		strings.EqualFold(bounceType, "HardBounce") {
		return models.CommStatusFailed
	}
	return normalized
}

// NormalizeTwilioStatus maps a Twilio message status onto the canonical
// vocabulary. Unrecognized non-empty values pass through lowercased.
func NormalizeTwilioStatus(status string) string {
	switch strings.ToLower(status) {
	case "delivered":
		return models.CommStatusDelivered
	case "sent":
		return models.CommStatusSent
	case "queued", "accepted":
		return models.CommStatusQueued
	case "failed", "undelivered":
		return models.CommStatusFailed
	case "receiving", "received":
		return models.CommStatusReceived
	case "":
		return models.CommStatusUnknown
	default:
		return strings.ToLower(status)
	}
}
