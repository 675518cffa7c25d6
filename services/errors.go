package services

import "errors"

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrPlaybookNotFound = errors.New("playbook not found")
	ErrScopeMismatch    = errors.New("owner scope mismatch")

	// ErrMissingWebhookFields is the only way webhook ingestion rejects a
	// payload; everything else is accepted, matched or not.
	ErrMissingWebhookFields = errors.New("missing required webhook fields")
)
