package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffTemplateFieldsOnlyChanged(t *testing.T) {
	from := TemplateFields{Name: "welcome", Subject: "Hi", BodyHTML: "<p>hi</p>", Status: TemplateStatusDraft}
	to := from
	to.Subject = "Hello"
	to.BodyHTML = "<p>hello</p>"

	changes := DiffTemplateFields(from, to)

	require.Len(t, changes, 2)
	assert.Equal(t, FieldChange{From: "Hi", To: "Hello"}, changes["subject"])
	assert.Equal(t, FieldChange{From: "<p>hi</p>", To: "<p>hello</p>"}, changes["bodyHtml"])
	assert.NotContains(t, changes, "name")
	assert.NotContains(t, changes, "status")
}

func TestDiffTemplateFieldsEmptyWhenIdentical(t *testing.T) {
	fields := TemplateFields{Name: "welcome", Subject: "Hi"}
	assert.Empty(t, DiffTemplateFields(fields, fields))
}

func TestAuditLogAppendOnly(t *testing.T) {
	actor := uuid.New()
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	template := &MessageTemplate{Name: "welcome", Status: TemplateStatusDraft}
	template.AppendAudit("created", now, &actor, "", nil)

	// A no-op update still appends an entry, with an empty changes map.
	before := template.Fields()
	template.AppendAudit("updated", now.Add(time.Minute), &actor, "", DiffTemplateFields(before, template.Fields()))

	template.Subject = "Hi"
	template.AppendAudit("updated", now.Add(2*time.Minute), &actor, "", DiffTemplateFields(before, template.Fields()))

	template.Status = TemplateStatusApproved
	template.AppendAudit("approved", now.Add(3*time.Minute), &actor, "looks good", nil)

	template.Status = TemplateStatusRejected
	template.AppendAudit("rejected", now.Add(4*time.Minute), &actor, "outdated", nil)

	require.Len(t, template.AuditLog, 5)

	// Earlier entries keep their first-written values.
	assert.Equal(t, "created", template.AuditLog[0].Action)
	assert.Equal(t, now, template.AuditLog[0].At)
	assert.Equal(t, "updated", template.AuditLog[1].Action)
	assert.Empty(t, template.AuditLog[1].Changes)
	assert.Equal(t, FieldChange{From: "", To: "Hi"}, template.AuditLog[2].Changes["subject"])
	assert.Equal(t, "looks good", template.AuditLog[3].Reason)
	assert.Equal(t, "outdated", template.AuditLog[4].Reason)
}
