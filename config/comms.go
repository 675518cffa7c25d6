package config

import (
	"os"
	"strconv"
	"strings"
)

// CommsConfig carries every knob the communications engine needs. It is built
// once at startup and injected into services; the engine itself never reads
// the environment.
type CommsConfig struct {
	// AllowedSenderDomains is the operator-configured allow-list for the
	// immediate-send endpoint. VerifiedSenderDomains mirrors the domains the
	// email provider has verified. A from-address must appear in both.
	AllowedSenderDomains  []string
	VerifiedSenderDomains []string

	// WebhookSecret gates inbound webhook calls via ?token=. Empty means the
	// gate is open.
	WebhookSecret string

	DefaultFromEmail string
	DefaultFromPhone string

	// PollBatchSize bounds how many due jobs a single poll may process.
	PollBatchSize int
}

func LoadCommsConfig() CommsConfig {
	cfg := CommsConfig{
		AllowedSenderDomains:  splitDomains(os.Getenv("COMMS_ALLOWED_SENDER_DOMAINS")),
		VerifiedSenderDomains: splitDomains(os.Getenv("COMMS_VERIFIED_SENDER_DOMAINS")),
		WebhookSecret:         os.Getenv("COMMS_WEBHOOK_SECRET"),
		DefaultFromEmail:      os.Getenv("COMMS_FROM_EMAIL"),
		DefaultFromPhone:      os.Getenv("TWILIO_PHONE_NUMBER"),
		PollBatchSize:         25,
	}
	if env := os.Getenv("COMMS_POLL_BATCH_SIZE"); env != "" {
		if n, err := strconv.Atoi(env); err == nil && n > 0 {
			cfg.PollBatchSize = n
		}
	}
	return cfg
}

// SenderDomainAllowed reports whether the from-address domain appears in
// both the configured-allowed and provider-verified lists. Fails closed on
// malformed addresses or empty lists.
func (c CommsConfig) SenderDomainAllowed(from string) bool {
	at := strings.LastIndex(from, "@")
	if at < 0 || at == len(from)-1 {
		return false
	}
	domain := strings.ToLower(from[at+1:])
	return containsDomain(c.AllowedSenderDomains, domain) &&
		containsDomain(c.VerifiedSenderDomains, domain)
}

func containsDomain(list []string, domain string) bool {
	for _, d := range list {
		if d == domain {
			return true
		}
	}
	return false
}

func splitDomains(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, d := range strings.Split(raw, ",") {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			out = append(out, d)
		}
	}
	return out
}
