package services

import (
	"errors"
	"fmt"
	"time"

	"campreserve-backend/config"
	"campreserve-backend/models"
	"campreserve-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// MaxJobAttempts is the retry ceiling; a failure at or past it is terminal.
	MaxJobAttempts = 3

	DefaultPollBatchSize = 25
)

// Outcome of evaluating one job.
const (
	OutcomeSent     = "sent"
	OutcomeSkipped  = "skipped"
	OutcomeDeferred = "deferred"
	OutcomeFailed   = "failed"
)

// DispatchResult is the value a single job evaluation produces. The job
// state transition itself is performed separately by ApplyOutcome.
type DispatchResult struct {
	Outcome  string
	Reason   string    // skip reason or failure message
	ResumeAt time.Time // set for deferred outcomes
}

// RecipientFunc lazily resolves the guest a job addresses. It is only called
// once the playbook and quiet-hours gates have passed.
type RecipientFunc func() (*models.Guest, error)

// DispatchService drives jobs through the
// pending -> processing -> {sent|skipped|failed|pending} state machine.
type DispatchService struct {
	db    *gorm.DB
	email EmailSender
	sms   SMSSender
	nps   NPSInviter
}

func NewDispatchService(db *gorm.DB, email EmailSender, sms SMSSender, nps NPSInviter) *DispatchService {
	return &DispatchService{db: db, email: email, sms: sms, nps: nps}
}

// RetryDelay is the linear-capped backoff: 5, 10, 15 ... up to a 30-minute
// ceiling, keyed on the attempt count after the failed attempt.
func RetryDelay(attempts int) time.Duration {
	minutes := attempts * 5
	if minutes > 30 {
		minutes = 30
	}
	return time.Duration(minutes) * time.Minute
}

// ApplyOutcome folds a DispatchResult into the job. It is a pure function of
// (job, result, now): all attempts accounting and backoff arithmetic lives
// here. Skips leave attempts untouched; every other outcome records the
// attempt that was made.
func ApplyOutcome(job *models.CommsJob, result DispatchResult, now time.Time) {
	switch result.Outcome {
	case OutcomeSent:
		job.Attempts++
		job.Status = models.JobStatusSent
		job.LastError = ""
	case OutcomeSkipped:
		job.Status = models.JobStatusSkipped
		job.LastError = result.Reason
	case OutcomeDeferred:
		job.Attempts++
		job.Status = models.JobStatusPending
		job.ScheduledAt = result.ResumeAt
	case OutcomeFailed:
		job.Attempts++
		job.LastError = result.Reason
		if job.Attempts >= MaxJobAttempts {
			job.Status = models.JobStatusFailed
		} else {
			job.Status = models.JobStatusPending
			job.ScheduledAt = now.Add(RetryDelay(job.Attempts))
		}
	}
}

// evaluate runs the per-job pipeline: playbook gates, quiet hours, recipient
// resolution, transport dispatch. It performs no datastore writes; the
// returned Communication, if any, is the outbound record to persist.
func (s *DispatchService) evaluate(job *models.CommsJob, playbook *models.Playbook, resolve RecipientFunc, now time.Time) (DispatchResult, *models.Communication) {
	if playbook == nil || !playbook.Enabled {
		return DispatchResult{Outcome: OutcomeSkipped, Reason: "Playbook disabled"}, nil
	}

	isNPS := playbook.Type == "nps" || playbook.Channel == models.ChannelNPS
	if !isNPS {
		if playbook.Template == nil || playbook.Template.Status != models.TemplateStatusApproved {
			return DispatchResult{Outcome: OutcomeSkipped, Reason: "Template not approved"}, nil
		}
	}

	if playbook.QuietHoursStart != nil && playbook.QuietHoursEnd != nil &&
		IsQuietHours(*playbook.QuietHoursStart, *playbook.QuietHoursEnd, now) {
		return DispatchResult{
			Outcome:  OutcomeDeferred,
			ResumeAt: QuietHoursResumeAt(*playbook.QuietHoursEnd, now),
		}, nil
	}

	guest, err := resolve()
	if err != nil {
		return DispatchResult{Outcome: OutcomeFailed, Reason: err.Error()}, nil
	}

	switch {
	case isNPS:
		return s.dispatchNPS(job, playbook, guest), nil
	case playbook.Channel == models.ChannelEmail:
		return s.dispatchEmail(job, playbook.Template, guest)
	case playbook.Channel == models.ChannelSMS:
		return s.dispatchSMS(job, playbook.Template, guest)
	default:
		return DispatchResult{Outcome: OutcomeFailed, Reason: "Unsupported channel " + playbook.Channel}, nil
	}
}

func (s *DispatchService) dispatchNPS(job *models.CommsJob, playbook *models.Playbook, guest *models.Guest) DispatchResult {
	if guest.Email == "" {
		return DispatchResult{Outcome: OutcomeFailed, Reason: "Missing recipient email"}
	}
	surveyID, _ := job.Metadata["surveyId"].(string)
	if surveyID == "" {
		return DispatchResult{Outcome: OutcomeFailed, Reason: "Missing surveyId in job metadata"}
	}

	_, err := s.nps.CreateInvite(NPSInviteParams{
		SurveyID:      surveyID,
		CampgroundID:  job.CampgroundID,
		GuestID:       job.GuestID,
		ReservationID: job.ReservationID,
		Channel:       playbook.Channel,
		Email:         guest.Email,
		TemplateID:    playbook.TemplateID,
		ExpireDays:    defaultInviteExpireDays,
	})
	if err != nil {
		return DispatchResult{Outcome: OutcomeFailed, Reason: err.Error()}
	}
	return DispatchResult{Outcome: OutcomeSent}
}

func (s *DispatchService) dispatchEmail(job *models.CommsJob, template *models.MessageTemplate, guest *models.Guest) (DispatchResult, *models.Communication) {
	if guest.Email == "" {
		return DispatchResult{Outcome: OutcomeFailed, Reason: "Missing recipient email"}, nil
	}

	comm := &models.Communication{
		CampgroundID: job.CampgroundID,
		Type:         models.CommTypeEmail,
		Direction:    models.DirectionOutbound,
		Status:       models.CommStatusQueued,
		ToAddress:    guest.Email,
		Metadata:     models.JSONB{"jobId": job.ID.String()},
	}

	result, err := s.email.SendEmail("", guest.Email, template.Subject, template.BodyHTML)
	if err != nil {
		comm.Status = models.CommStatusFailed
		return DispatchResult{Outcome: OutcomeFailed, Reason: err.Error()}, comm
	}

	comm.Status = models.CommStatusSent
	comm.Provider = result.Provider
	comm.ProviderMessageID = result.MessageID
	comm.FromAddress = result.From
	return DispatchResult{Outcome: OutcomeSent}, comm
}

func (s *DispatchService) dispatchSMS(job *models.CommsJob, template *models.MessageTemplate, guest *models.Guest) (DispatchResult, *models.Communication) {
	if guest.Phone == "" {
		return DispatchResult{Outcome: OutcomeFailed, Reason: "Missing recipient phone"}, nil
	}
	if !utils.ValidatePhone(guest.Phone) {
		return DispatchResult{Outcome: OutcomeFailed, Reason: "Invalid recipient phone"}, nil
	}

	body := template.BodyHTML
	if body == "" {
		body = template.Subject
	}

	comm := &models.Communication{
		CampgroundID: job.CampgroundID,
		Type:         models.CommTypeSMS,
		Direction:    models.DirectionOutbound,
		Status:       models.CommStatusQueued,
		ToAddress:    guest.Phone,
		Metadata:     models.JSONB{"jobId": job.ID.String()},
	}

	result, err := s.sms.SendSMS(guest.Phone, body)
	if err != nil {
		comm.Status = models.CommStatusFailed
		return DispatchResult{Outcome: OutcomeFailed, Reason: err.Error()}, comm
	}

	comm.Status = models.CommStatusSent
	comm.Provider = result.Provider
	comm.ProviderMessageID = result.MessageID
	comm.FromAddress = result.From
	return DispatchResult{Outcome: OutcomeSent}, comm
}

func (s *DispatchService) resolveRecipient(job *models.CommsJob) (*models.Guest, error) {
	if job.ReservationID != nil {
		var reservation models.Reservation
		if err := s.db.Preload("Guest").First(&reservation, "id = ?", *job.ReservationID).Error; err != nil {
			return nil, fmt.Errorf("reservation %s not found", *job.ReservationID)
		}
		return &reservation.Guest, nil
	}
	if job.GuestID != nil {
		var guest models.Guest
		if err := s.db.First(&guest, "id = ?", *job.GuestID).Error; err != nil {
			return nil, fmt.Errorf("guest %s not found", *job.GuestID)
		}
		return &guest, nil
	}
	return nil, errors.New("job has no reservation or guest")
}

// processJob claims and drives one job. The claim is a conditional
// pending -> processing update; zero rows affected means another poller owns
// the job, so overlapping manual and scheduled polls never double-send.
func (s *DispatchService) processJob(job *models.CommsJob) bool {
	claim := s.db.Model(&models.CommsJob{}).
		Where("id = ? AND status = ?", job.ID, models.JobStatusPending).
		Update("status", models.JobStatusProcessing)
	if claim.Error != nil {
		config.Log.Errorw("failed to claim job", "jobId", job.ID, "error", claim.Error)
		return false
	}
	if claim.RowsAffected == 0 {
		return false
	}
	job.Status = models.JobStatusProcessing

	now := time.Now().UTC()

	var result DispatchResult
	var comm *models.Communication

	playbook, err := s.loadPlaybook(job.PlaybookID)
	if err != nil {
		// Datastore trouble, not a playbook gate: retry rather than skip.
		result = DispatchResult{Outcome: OutcomeFailed, Reason: err.Error()}
	} else {
		result, comm = s.evaluate(job, playbook, func() (*models.Guest, error) {
			return s.resolveRecipient(job)
		}, now)
	}

	ApplyOutcome(job, result, now)

	if comm != nil {
		if err := s.db.Create(comm).Error; err != nil {
			config.Log.Errorw("failed to record communication", "jobId", job.ID, "error", err)
		}
	}
	if err := s.db.Save(job).Error; err != nil {
		config.Log.Errorw("failed to persist job state", "jobId", job.ID, "error", err)
	}

	config.Log.Infow("job processed",
		"jobId", job.ID,
		"outcome", result.Outcome,
		"status", job.Status,
		"attempts", job.Attempts,
	)
	return true
}

// loadPlaybook returns (nil, nil) when the playbook row is gone, which the
// pipeline treats the same as a disabled playbook.
func (s *DispatchService) loadPlaybook(id uuid.UUID) (*models.Playbook, error) {
	var playbook models.Playbook
	err := s.db.Preload("Template").First(&playbook, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &playbook, nil
}

// RunDue selects up to batchSize pending jobs whose scheduled_at has passed,
// in ascending scheduled_at order, and processes them sequentially. Returns
// the number of jobs actually claimed and processed.
func (s *DispatchService) RunDue(campgroundID *uuid.UUID, batchSize int) int {
	if batchSize <= 0 {
		batchSize = DefaultPollBatchSize
	}

	query := s.db.
		Where("status = ? AND scheduled_at <= ?", models.JobStatusPending, time.Now().UTC()).
		Order("scheduled_at asc").
		Limit(batchSize)
	if campgroundID != nil {
		query = query.Where("campground_id = ?", *campgroundID)
	}

	var jobs []models.CommsJob
	if err := query.Find(&jobs).Error; err != nil {
		config.Log.Errorw("failed to select due jobs", "error", err)
		return 0
	}

	processed := 0
	for i := range jobs {
		if s.processJob(&jobs[i]) {
			processed++
		}
	}
	return processed
}

// Enqueue creates a pending job for a playbook, applying the playbook's
// trigger offset to compute the initial schedule.
func (s *DispatchService) Enqueue(playbook *models.Playbook, reservationID, guestID *uuid.UUID, metadata models.JSONB) (*models.CommsJob, error) {
	if metadata == nil {
		metadata = models.JSONB{}
	}
	job := &models.CommsJob{
		PlaybookID:    playbook.ID,
		CampgroundID:  playbook.CampgroundID,
		ReservationID: reservationID,
		GuestID:       guestID,
		Status:        models.JobStatusPending,
		ScheduledAt:   time.Now().UTC().Add(time.Duration(playbook.OffsetMinutes) * time.Minute),
		Metadata:      metadata,
	}
	if err := s.db.Create(job).Error; err != nil {
		return nil, err
	}
	return job, nil
}
