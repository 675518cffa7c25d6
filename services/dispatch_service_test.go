package services

import (
	"errors"
	"testing"
	"time"

	"campreserve-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmailSender struct {
	calls   int
	from    string
	to      string
	subject string
	html    string
	err     error
}

func (f *fakeEmailSender) SendEmail(from, to, subject, html string) (*EmailResult, error) {
	f.calls++
	f.from, f.to, f.subject, f.html = from, to, subject, html
	if f.err != nil {
		return nil, f.err
	}
	return &EmailResult{Provider: "postmark", MessageID: "pm-123", From: "noreply@camp.example"}, nil
}

type fakeSMSSender struct {
	calls int
	to    string
	body  string
	err   error
}

func (f *fakeSMSSender) SendSMS(to, body string) (*SMSResult, error) {
	f.calls++
	f.to, f.body = to, body
	if f.err != nil {
		return nil, f.err
	}
	return &SMSResult{Provider: "twilio", MessageID: "SM123", From: "+15550000000"}, nil
}

type fakeNPSInviter struct {
	calls  int
	params NPSInviteParams
	err    error
}

func (f *fakeNPSInviter) CreateInvite(params NPSInviteParams) (*models.NPSInvite, error) {
	f.calls++
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	return &models.NPSInvite{ID: uuid.New(), SurveyID: params.SurveyID}, nil
}

func testHarness() (*DispatchService, *fakeEmailSender, *fakeSMSSender, *fakeNPSInviter) {
	email := &fakeEmailSender{}
	sms := &fakeSMSSender{}
	nps := &fakeNPSInviter{}
	return NewDispatchService(nil, email, sms, nps), email, sms, nps
}

func approvedTemplate() *models.MessageTemplate {
	return &models.MessageTemplate{
		ID:       uuid.New(),
		Name:     "payment-due",
		Subject:  "Hi",
		BodyHTML: "<p>hi</p>",
		Status:   models.TemplateStatusApproved,
	}
}

func emailPlaybook(template *models.MessageTemplate) *models.Playbook {
	return &models.Playbook{
		ID:         uuid.New(),
		Type:       "payment_reminder",
		Enabled:    true,
		Channel:    models.ChannelEmail,
		TemplateID: &template.ID,
		Template:   template,
	}
}

func pendingJob() *models.CommsJob {
	reservationID := uuid.New()
	return &models.CommsJob{
		ID:            uuid.New(),
		CampgroundID:  uuid.New(),
		ReservationID: &reservationID,
		Status:        models.JobStatusPending,
		Metadata:      models.JSONB{},
	}
}

func resolveTo(guest *models.Guest) RecipientFunc {
	return func() (*models.Guest, error) { return guest, nil }
}

func TestRetryDelayLinearCapped(t *testing.T) {
	assert.Equal(t, 5*time.Minute, RetryDelay(1))
	assert.Equal(t, 10*time.Minute, RetryDelay(2))
	assert.Equal(t, 15*time.Minute, RetryDelay(3))
	assert.Equal(t, 30*time.Minute, RetryDelay(6))
	assert.Equal(t, 30*time.Minute, RetryDelay(100))
}

func TestApplyOutcomeSent(t *testing.T) {
	now := atClock(10, 0)
	job := pendingJob()
	job.LastError = "previous failure"

	ApplyOutcome(job, DispatchResult{Outcome: OutcomeSent}, now)

	assert.Equal(t, models.JobStatusSent, job.Status)
	assert.Equal(t, 1, job.Attempts)
	assert.Empty(t, job.LastError)
}

func TestApplyOutcomeSkippedLeavesAttempts(t *testing.T) {
	now := atClock(10, 0)
	job := pendingJob()
	job.Attempts = 2

	ApplyOutcome(job, DispatchResult{Outcome: OutcomeSkipped, Reason: "Playbook disabled"}, now)

	assert.Equal(t, models.JobStatusSkipped, job.Status)
	assert.Equal(t, 2, job.Attempts)
	assert.Equal(t, "Playbook disabled", job.LastError)
}

func TestApplyOutcomeFailureReschedulesWithBackoff(t *testing.T) {
	now := atClock(10, 0)

	job := pendingJob()
	ApplyOutcome(job, DispatchResult{Outcome: OutcomeFailed, Reason: "boom"}, now)
	assert.Equal(t, models.JobStatusPending, job.Status)
	assert.Equal(t, 1, job.Attempts)
	assert.Equal(t, now.Add(5*time.Minute), job.ScheduledAt)
	assert.Equal(t, "boom", job.LastError)

	ApplyOutcome(job, DispatchResult{Outcome: OutcomeFailed, Reason: "boom"}, now)
	assert.Equal(t, models.JobStatusPending, job.Status)
	assert.Equal(t, 2, job.Attempts)
	assert.Equal(t, now.Add(10*time.Minute), job.ScheduledAt)
}

func TestApplyOutcomeFailureAtMaxIsTerminal(t *testing.T) {
	now := atClock(10, 0)
	job := pendingJob()
	job.Attempts = 2
	scheduled := job.ScheduledAt

	ApplyOutcome(job, DispatchResult{Outcome: OutcomeFailed, Reason: "boom"}, now)

	assert.Equal(t, models.JobStatusFailed, job.Status)
	assert.Equal(t, 3, job.Attempts)
	assert.Equal(t, scheduled, job.ScheduledAt)
}

func TestApplyOutcomeDeferred(t *testing.T) {
	now := atClock(23, 30)
	resume := QuietHoursResumeAt(6*60, now)
	job := pendingJob()

	ApplyOutcome(job, DispatchResult{Outcome: OutcomeDeferred, ResumeAt: resume}, now)

	assert.Equal(t, models.JobStatusPending, job.Status)
	assert.Equal(t, 1, job.Attempts)
	assert.Equal(t, resume, job.ScheduledAt)
}

func TestEvaluateDisabledPlaybookSkips(t *testing.T) {
	svc, email, _, _ := testHarness()
	playbook := emailPlaybook(approvedTemplate())
	playbook.Enabled = false
	job := pendingJob()

	result, comm := svc.evaluate(job, playbook, resolveTo(nil), atClock(10, 0))

	assert.Equal(t, OutcomeSkipped, result.Outcome)
	assert.Equal(t, "Playbook disabled", result.Reason)
	assert.Nil(t, comm)
	assert.Zero(t, email.calls)

	ApplyOutcome(job, result, atClock(10, 0))
	assert.Equal(t, models.JobStatusSkipped, job.Status)
	assert.Zero(t, job.Attempts)
}

func TestEvaluateUnapprovedTemplateSkips(t *testing.T) {
	svc, email, _, _ := testHarness()
	template := approvedTemplate()
	template.Status = models.TemplateStatusDraft
	playbook := emailPlaybook(template)

	result, comm := svc.evaluate(pendingJob(), playbook, resolveTo(nil), atClock(10, 0))

	assert.Equal(t, OutcomeSkipped, result.Outcome)
	assert.Equal(t, "Template not approved", result.Reason)
	assert.Nil(t, comm)
	assert.Zero(t, email.calls)
}

func TestEvaluateMissingRecipientEmailFails(t *testing.T) {
	svc, email, _, _ := testHarness()
	playbook := emailPlaybook(approvedTemplate())
	job := pendingJob()

	result, comm := svc.evaluate(job, playbook, resolveTo(&models.Guest{Name: "A"}), atClock(10, 0))

	assert.Equal(t, OutcomeFailed, result.Outcome)
	assert.Equal(t, "Missing recipient email", result.Reason)
	assert.Nil(t, comm)
	assert.Zero(t, email.calls)

	ApplyOutcome(job, result, atClock(10, 0))
	assert.Equal(t, models.JobStatusPending, job.Status)
	assert.Equal(t, 1, job.Attempts)
}

func TestEvaluateEmailSendSuccess(t *testing.T) {
	// End-to-end scenario: approved template, enabled playbook, resolved
	// guest, outside quiet hours.
	svc, email, _, _ := testHarness()
	playbook := emailPlaybook(approvedTemplate())
	start, end := 22*60, 6*60
	playbook.QuietHoursStart = &start
	playbook.QuietHoursEnd = &end
	job := pendingJob()
	guest := &models.Guest{ID: uuid.New(), Name: "A", Email: "user@example.com"}

	result, comm := svc.evaluate(job, playbook, resolveTo(guest), atClock(12, 0))

	require.Equal(t, OutcomeSent, result.Outcome)
	assert.Equal(t, 1, email.calls)
	assert.Equal(t, "user@example.com", email.to)
	assert.Equal(t, "Hi", email.subject)
	assert.Equal(t, "<p>hi</p>", email.html)

	require.NotNil(t, comm)
	assert.Equal(t, models.CommStatusSent, comm.Status)
	assert.Equal(t, models.DirectionOutbound, comm.Direction)
	assert.Equal(t, "postmark", comm.Provider)
	assert.Equal(t, "pm-123", comm.ProviderMessageID)
	assert.Equal(t, "user@example.com", comm.ToAddress)

	ApplyOutcome(job, result, atClock(12, 0))
	assert.Equal(t, models.JobStatusSent, job.Status)
}

func TestEvaluateQuietHoursDefers(t *testing.T) {
	// End-to-end scenario: same setup but inside the 22:00-06:00 window at
	// 23:30. No transport call; job reschedules to today at window end.
	svc, email, _, _ := testHarness()
	playbook := emailPlaybook(approvedTemplate())
	start, end := 22*60, 6*60
	playbook.QuietHoursStart = &start
	playbook.QuietHoursEnd = &end
	job := pendingJob()
	now := atClock(23, 30)

	result, comm := svc.evaluate(job, playbook, resolveTo(nil), now)

	assert.Equal(t, OutcomeDeferred, result.Outcome)
	assert.Nil(t, comm)
	assert.Zero(t, email.calls)

	ApplyOutcome(job, result, now)
	assert.Equal(t, models.JobStatusPending, job.Status)
	assert.Equal(t, 1, job.Attempts)
	assert.Equal(t, time.Date(2026, 8, 30, 6, 0, 0, 0, time.UTC), job.ScheduledAt)
}

func TestEvaluateSMSFallsBackToSubject(t *testing.T) {
	svc, _, sms, _ := testHarness()
	template := approvedTemplate()
	template.BodyHTML = ""
	template.Subject = "Your site is ready"
	playbook := emailPlaybook(template)
	playbook.Channel = models.ChannelSMS
	guest := &models.Guest{ID: uuid.New(), Name: "A", Phone: "+15551234567"}

	result, comm := svc.evaluate(pendingJob(), playbook, resolveTo(guest), atClock(10, 0))

	assert.Equal(t, OutcomeSent, result.Outcome)
	assert.Equal(t, 1, sms.calls)
	assert.Equal(t, "+15551234567", sms.to)
	assert.Equal(t, "Your site is ready", sms.body)
	require.NotNil(t, comm)
	assert.Equal(t, models.CommTypeSMS, comm.Type)
	assert.Equal(t, "SM123", comm.ProviderMessageID)
}

func TestEvaluateTransportFailureIsRetryable(t *testing.T) {
	svc, email, _, _ := testHarness()
	email.err = errors.New("postmark: send failed (code 300): invalid email")
	playbook := emailPlaybook(approvedTemplate())
	job := pendingJob()
	guest := &models.Guest{ID: uuid.New(), Email: "user@example.com"}
	now := atClock(10, 0)

	result, comm := svc.evaluate(job, playbook, resolveTo(guest), now)

	assert.Equal(t, OutcomeFailed, result.Outcome)
	require.NotNil(t, comm)
	assert.Equal(t, models.CommStatusFailed, comm.Status)

	ApplyOutcome(job, result, now)
	assert.Equal(t, models.JobStatusPending, job.Status)
	assert.Equal(t, 1, job.Attempts)
	assert.Equal(t, now.Add(5*time.Minute), job.ScheduledAt)
	assert.Contains(t, job.LastError, "postmark")
}

func TestEvaluateNPSRequiresSurveyID(t *testing.T) {
	svc, _, _, nps := testHarness()
	playbook := emailPlaybook(approvedTemplate())
	playbook.Type = "nps"
	playbook.Channel = models.ChannelNPS
	guest := &models.Guest{ID: uuid.New(), Email: "user@example.com"}

	result, _ := svc.evaluate(pendingJob(), playbook, resolveTo(guest), atClock(10, 0))

	assert.Equal(t, OutcomeFailed, result.Outcome)
	assert.Equal(t, "Missing surveyId in job metadata", result.Reason)
	assert.Zero(t, nps.calls)
}

func TestEvaluateNPSDispatch(t *testing.T) {
	svc, _, _, nps := testHarness()
	playbook := emailPlaybook(approvedTemplate())
	playbook.Type = "nps"
	playbook.Channel = models.ChannelNPS
	// NPS playbooks do not require an approved template
	playbook.Template.Status = models.TemplateStatusDraft
	job := pendingJob()
	job.Metadata = models.JSONB{"surveyId": "survey-42"}
	guest := &models.Guest{ID: uuid.New(), Email: "user@example.com"}

	result, comm := svc.evaluate(job, playbook, resolveTo(guest), atClock(10, 0))

	assert.Equal(t, OutcomeSent, result.Outcome)
	assert.Nil(t, comm)
	assert.Equal(t, 1, nps.calls)
	assert.Equal(t, "survey-42", nps.params.SurveyID)
	assert.Equal(t, "user@example.com", nps.params.Email)
}

func TestEvaluateRecipientLookupFailure(t *testing.T) {
	svc, _, _, _ := testHarness()
	playbook := emailPlaybook(approvedTemplate())

	result, comm := svc.evaluate(pendingJob(), playbook, func() (*models.Guest, error) {
		return nil, errors.New("reservation r1 not found")
	}, atClock(10, 0))

	assert.Equal(t, OutcomeFailed, result.Outcome)
	assert.Equal(t, "reservation r1 not found", result.Reason)
	assert.Nil(t, comm)
}
