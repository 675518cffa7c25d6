// controllers/communication.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"campreserve-backend/config"
	"campreserve-backend/models"
	"campreserve-backend/services"
	"campreserve-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SendCommunicationInput defines the expected JSON structure for the
// immediate-send endpoint.
type SendCommunicationInput struct {
	To      string `json:"to" binding:"required,email"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// CreateJobInput defines the expected JSON structure for manual enqueue.
type CreateJobInput struct {
	PlaybookID    uuid.UUID    `json:"playbookId" binding:"required"`
	ReservationID *uuid.UUID   `json:"reservationId"`
	GuestID       *uuid.UUID   `json:"guestId"`
	Metadata      models.JSONB `json:"metadata"`
}

type CommunicationController struct {
	Dispatch *services.DispatchService
	Webhooks *services.WebhookService
	Email    services.EmailSender
	Cfg      config.CommsConfig
}

// Send performs an immediate outbound email outside the playbook system.
// The from-address domain must pass both sender allow-lists.
func (cc *CommunicationController) Send(c *gin.Context) {
	campgroundID, ok := campgroundScope(c)
	if !ok {
		return
	}

	var input SendCommunicationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	from := input.From
	if from == "" {
		from = cc.Cfg.DefaultFromEmail
	}
	if !cc.Cfg.SenderDomainAllowed(from) {
		utils.RespondWithError(c, http.StatusBadRequest, "Sender domain not verified")
		return
	}

	comm := models.Communication{
		CampgroundID: campgroundID,
		Type:         models.CommTypeEmail,
		Direction:    models.DirectionOutbound,
		Status:       models.CommStatusQueued,
		ToAddress:    input.To,
		FromAddress:  from,
		Metadata:     models.JSONB{"manual": true},
	}

	result, err := cc.Email.SendEmail(from, input.To, input.Subject, input.HTML)
	if err != nil {
		comm.Status = models.CommStatusFailed
		config.DB.Create(&comm)
		utils.RespondWithError(c, http.StatusBadGateway, "Send failed: "+err.Error())
		return
	}

	comm.Status = models.CommStatusSent
	comm.Provider = result.Provider
	comm.ProviderMessageID = result.MessageID
	if err := config.DB.Create(&comm).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record communication")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":                comm.ID,
		"provider":          comm.Provider,
		"providerMessageId": comm.ProviderMessageID,
	})
}

// List retrieves communications for the campground, optionally filtered by
// direction and status.
func (cc *CommunicationController) List(c *gin.Context) {
	campgroundID, ok := campgroundScope(c)
	if !ok {
		return
	}

	query := config.DB.Where("campground_id = ?", campgroundID)
	if direction := c.Query("direction"); direction != "" {
		query = query.Where("direction = ?", direction)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var communications []models.Communication
	if err := query.Order("created_at desc").Limit(100).Find(&communications).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve communications")
		return
	}

	c.JSON(http.StatusOK, communications)
}

// ListJobs retrieves dispatch jobs for the campground, optionally filtered by
// status. Failed jobs carry lastError for operator diagnosis.
func (cc *CommunicationController) ListJobs(c *gin.Context) {
	campgroundID, ok := campgroundScope(c)
	if !ok {
		return
	}

	query := config.DB.Where("campground_id = ?", campgroundID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var jobs []models.CommsJob
	if err := query.Order("scheduled_at desc").Limit(100).Find(&jobs).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve jobs")
		return
	}

	c.JSON(http.StatusOK, jobs)
}

// CreateJob enqueues a job against a playbook.
func (cc *CommunicationController) CreateJob(c *gin.Context) {
	campgroundID, ok := campgroundScope(c)
	if !ok {
		return
	}

	var input CreateJobInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.ReservationID == nil && input.GuestID == nil {
		utils.RespondWithError(c, http.StatusBadRequest, "reservationId or guestId is required")
		return
	}

	var playbook models.Playbook
	if err := config.DB.Where("campground_id = ? AND id = ?", campgroundID, input.PlaybookID).
		First(&playbook).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Playbook not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	job, err := cc.Dispatch.Enqueue(&playbook, input.ReservationID, input.GuestID, input.Metadata)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to enqueue job")
		return
	}

	c.JSON(http.StatusCreated, job)
}

// RunPlaybooks is the manual batch-poll trigger; the five-minute scheduler
// invokes the same RunDue path.
func (cc *CommunicationController) RunPlaybooks(c *gin.Context) {
	campgroundID, ok := campgroundScope(c)
	if !ok {
		return
	}

	batchSize := cc.Cfg.PollBatchSize
	if raw := c.Query("batchSize"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			batchSize = n
		}
	}

	processed := cc.Dispatch.RunDue(&campgroundID, batchSize)
	c.JSON(http.StatusOK, gin.H{"processed": processed})
}

// WebhookStatus ingests provider delivery-status callbacks. Unknown or
// duplicate message ids are accepted silently; only a bad token, an unknown
// provider, or missing vendor fields produce a 400.
func (cc *CommunicationController) WebhookStatus(c *gin.Context) {
	if !cc.webhookTokenValid(c) {
		return
	}

	var err error
	switch c.Param("provider") {
	case "postmark":
		var payload services.PostmarkStatusPayload
		if bindErr := c.ShouldBindJSON(&payload); bindErr != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid payload: "+bindErr.Error())
			return
		}
		err = cc.Webhooks.IngestPostmarkStatus(payload)
	case "twilio":
		var payload services.TwilioStatusPayload
		if bindErr := c.ShouldBind(&payload); bindErr != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid payload: "+bindErr.Error())
			return
		}
		err = cc.Webhooks.IngestTwilioStatus(payload)
	default:
		utils.RespondWithError(c, http.StatusBadRequest, "Unknown provider")
		return
	}

	cc.respondWebhook(c, err)
}

// WebhookInbound ingests provider inbound-message callbacks.
func (cc *CommunicationController) WebhookInbound(c *gin.Context) {
	if !cc.webhookTokenValid(c) {
		return
	}

	var err error
	switch c.Param("provider") {
	case "postmark":
		var payload services.PostmarkInboundPayload
		if bindErr := c.ShouldBindJSON(&payload); bindErr != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid payload: "+bindErr.Error())
			return
		}
		err = cc.Webhooks.IngestPostmarkInbound(payload)
	case "twilio":
		var payload services.TwilioInboundPayload
		if bindErr := c.ShouldBind(&payload); bindErr != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid payload: "+bindErr.Error())
			return
		}
		err = cc.Webhooks.IngestTwilioInbound(payload)
	default:
		utils.RespondWithError(c, http.StatusBadRequest, "Unknown provider")
		return
	}

	cc.respondWebhook(c, err)
}

// webhookTokenValid checks ?token= against the configured secret. No secret
// configured means the gate is open.
func (cc *CommunicationController) webhookTokenValid(c *gin.Context) bool {
	if cc.Cfg.WebhookSecret == "" {
		return true
	}
	if c.Query("token") != cc.Cfg.WebhookSecret {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid webhook token")
		return false
	}
	return true
}

func (cc *CommunicationController) respondWebhook(c *gin.Context, err error) {
	if errors.Is(err, services.ErrMissingWebhookFields) {
		utils.RespondWithError(c, http.StatusBadRequest, "Missing required fields")
		return
	}
	if err != nil {
		// Providers retry on 5xx; a datastore hiccup is logged, not surfaced.
		config.Log.Errorw("webhook ingestion error", "error", err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}
