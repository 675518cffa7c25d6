package services

import (
	"testing"

	"campreserve-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePostmarkRecord(t *testing.T) {
	cases := map[string]string{
		"Delivery":      models.CommStatusDelivered,
		"Bounce":        models.CommStatusBounced,
		"SpamComplaint": models.CommStatusSpamComplaint,
		"Deferred":      models.CommStatusDeferred,
		"TempFail":      models.CommStatusDeferred,
		"Open":          models.CommStatusSent,
		"Click":         models.CommStatusSent,
		"":              models.CommStatusUnknown,
		"Subscription":  "subscription", // passthrough, lowercased
	}
	for input, want := range cases {
		assert.Equal(t, want, NormalizePostmarkRecord(input), "record type %q", input)
	}
}

func TestNormalizeTwilioStatus(t *testing.T) {
	cases := map[string]string{
		"delivered":   models.CommStatusDelivered,
		"sent":        models.CommStatusSent,
		"queued":      models.CommStatusQueued,
		"accepted":    models.CommStatusQueued,
		"failed":      models.CommStatusFailed,
		"undelivered": models.CommStatusFailed,
		"receiving":   models.CommStatusReceived,
		"received":    models.CommStatusReceived,
		"":            models.CommStatusUnknown,
		"Scheduled":   "scheduled", // passthrough, lowercased
	}
	for input, want := range cases {
		assert.Equal(t, want, NormalizeTwilioStatus(input), "status %q", input)
	}
}

func TestNormalizationIsIdempotent(t *testing.T) {
	for _, raw := range []string{"Delivery", "Bounce", "Open", "TempFail", "Subscription", ""} {
		once := NormalizePostmarkRecord(raw)
		assert.Equal(t, once, NormalizePostmarkRecord(once), "postmark %q", raw)
	}
	for _, raw := range []string{"delivered", "accepted", "undelivered", "receiving", "Scheduled", ""} {
		once := NormalizeTwilioStatus(raw)
		assert.Equal(t, once, NormalizeTwilioStatus(once), "twilio %q", raw)
	}
}

func TestPostmarkHardFailEscalation(t *testing.T) {
	// Hard bounce: intermediate status is bounced, stored status is failed.
	assert.Equal(t, models.CommStatusBounced, NormalizePostmarkRecord("Bounce"))
	assert.Equal(t, models.CommStatusFailed, PostmarkFinalStatus("Bounce", "HardBounce"))

	// Bounces and spam complaints escalate regardless of subtype.
	assert.Equal(t, models.CommStatusFailed, PostmarkFinalStatus("Bounce", "SoftBounce"))
	assert.Equal(t, models.CommStatusFailed, PostmarkFinalStatus("SpamComplaint", ""))

	// Subtypes that normalize elsewhere keep their normalized status.
	assert.Equal(t, models.CommStatusDeferred, PostmarkFinalStatus("TempFail", "Transient"))
	assert.Equal(t, models.CommStatusDelivered, PostmarkFinalStatus("Delivery", ""))
}
