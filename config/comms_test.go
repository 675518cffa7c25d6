package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSenderDomainAllowed(t *testing.T) {
	cfg := CommsConfig{
		AllowedSenderDomains:  []string{"camp.example", "mail.camp.example"},
		VerifiedSenderDomains: []string{"camp.example"},
	}

	// must appear in both lists
	assert.True(t, cfg.SenderDomainAllowed("noreply@camp.example"))
	assert.False(t, cfg.SenderDomainAllowed("noreply@mail.camp.example"))
	assert.False(t, cfg.SenderDomainAllowed("noreply@other.example"))

	// case-insensitive on the domain part
	assert.True(t, cfg.SenderDomainAllowed("noreply@Camp.Example"))

	// malformed addresses fail closed
	assert.False(t, cfg.SenderDomainAllowed("not-an-address"))
	assert.False(t, cfg.SenderDomainAllowed("trailing@"))
	assert.False(t, cfg.SenderDomainAllowed(""))
}

func TestSenderDomainAllowedEmptyListsFailClosed(t *testing.T) {
	assert.False(t, CommsConfig{}.SenderDomainAllowed("noreply@camp.example"))
}

func TestSplitDomains(t *testing.T) {
	assert.Equal(t, []string{"a.example", "b.example"}, splitDomains(" A.example, b.example ,"))
	assert.Nil(t, splitDomains(""))
}
