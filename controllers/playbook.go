// controllers/playbook.go
package controllers

import (
	"errors"
	"net/http"

	"campreserve-backend/config"
	"campreserve-backend/models"
	"campreserve-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreatePlaybookInput defines the expected JSON structure
type CreatePlaybookInput struct {
	Type              string     `json:"type" binding:"required"`
	Channel           string     `json:"channel" binding:"required,oneof=email sms nps"`
	Enabled           *bool      `json:"enabled"`
	TemplateID        *uuid.UUID `json:"templateId"`
	OffsetMinutes     int        `json:"offsetMinutes"`
	QuietHoursStart   *int       `json:"quietHoursStart" binding:"omitempty,min=0,max=1439"`
	QuietHoursEnd     *int       `json:"quietHoursEnd" binding:"omitempty,min=0,max=1439"`
	ThrottlePerMinute *int       `json:"throttlePerMinute" binding:"omitempty,min=1"`
	RoutingAssigneeID *uuid.UUID `json:"routingAssigneeId"`
}

// UpdatePlaybookInput defines the expected JSON structure
type UpdatePlaybookInput struct {
	Type              *string    `json:"type"`
	Channel           *string    `json:"channel" binding:"omitempty,oneof=email sms nps"`
	Enabled           *bool      `json:"enabled"`
	TemplateID        *uuid.UUID `json:"templateId"`
	OffsetMinutes     *int       `json:"offsetMinutes"`
	QuietHoursStart   *int       `json:"quietHoursStart" binding:"omitempty,min=0,max=1439"`
	QuietHoursEnd     *int       `json:"quietHoursEnd" binding:"omitempty,min=0,max=1439"`
	ThrottlePerMinute *int       `json:"throttlePerMinute" binding:"omitempty,min=1"`
	RoutingAssigneeID *uuid.UUID `json:"routingAssigneeId"`
}

// CreatePlaybook creates a new playbook for the campground
func CreatePlaybook(c *gin.Context) {
	campgroundID, ok := campgroundScope(c)
	if !ok {
		return
	}

	var input CreatePlaybookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	enabled := true
	if input.Enabled != nil {
		enabled = *input.Enabled
	}

	playbook := models.Playbook{
		CampgroundID:      campgroundID,
		Type:              input.Type,
		Enabled:           enabled,
		TemplateID:        input.TemplateID,
		Channel:           input.Channel,
		OffsetMinutes:     input.OffsetMinutes,
		QuietHoursStart:   input.QuietHoursStart,
		QuietHoursEnd:     input.QuietHoursEnd,
		ThrottlePerMinute: input.ThrottlePerMinute,
		RoutingAssigneeID: input.RoutingAssigneeID,
	}

	if err := config.DB.Create(&playbook).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create playbook")
		return
	}

	c.JSON(http.StatusCreated, playbook)
}

// GetPlaybooks retrieves all playbooks for the campground
func GetPlaybooks(c *gin.Context) {
	campgroundID, ok := campgroundScope(c)
	if !ok {
		return
	}

	var playbooks []models.Playbook
	if err := config.DB.Where("campground_id = ?", campgroundID).Find(&playbooks).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve playbooks")
		return
	}

	c.JSON(http.StatusOK, playbooks)
}

// GetPlaybook retrieves a specific playbook by ID
func GetPlaybook(c *gin.Context) {
	campgroundID, ok := campgroundScope(c)
	if !ok {
		return
	}

	playbookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid playbook ID format")
		return
	}

	var playbook models.Playbook
	if err := config.DB.Preload("Template").
		Where("campground_id = ? AND id = ?", campgroundID, playbookID).
		First(&playbook).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Playbook not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, playbook)
}

// UpdatePlaybook updates an existing playbook
func UpdatePlaybook(c *gin.Context) {
	campgroundID, ok := campgroundScope(c)
	if !ok {
		return
	}

	playbookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid playbook ID format")
		return
	}

	var input UpdatePlaybookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var playbook models.Playbook
	if err := config.DB.Where("campground_id = ? AND id = ?", campgroundID, playbookID).
		First(&playbook).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Playbook not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Type != nil {
		playbook.Type = *input.Type
	}
	if input.Channel != nil {
		playbook.Channel = *input.Channel
	}
	if input.Enabled != nil {
		playbook.Enabled = *input.Enabled
	}
	if input.TemplateID != nil {
		playbook.TemplateID = input.TemplateID
	}
	if input.OffsetMinutes != nil {
		playbook.OffsetMinutes = *input.OffsetMinutes
	}
	if input.QuietHoursStart != nil {
		playbook.QuietHoursStart = input.QuietHoursStart
	}
	if input.QuietHoursEnd != nil {
		playbook.QuietHoursEnd = input.QuietHoursEnd
	}
	if input.ThrottlePerMinute != nil {
		playbook.ThrottlePerMinute = input.ThrottlePerMinute
	}
	if input.RoutingAssigneeID != nil {
		playbook.RoutingAssigneeID = input.RoutingAssigneeID
	}

	if err := config.DB.Save(&playbook).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update playbook")
		return
	}

	c.JSON(http.StatusOK, playbook)
}

// DeletePlaybook deletes a playbook
func DeletePlaybook(c *gin.Context) {
	campgroundID, ok := campgroundScope(c)
	if !ok {
		return
	}

	playbookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid playbook ID format")
		return
	}

	result := config.DB.Where("campground_id = ? AND id = ?", campgroundID, playbookID).
		Delete(&models.Playbook{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete playbook")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Playbook not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Playbook deleted successfully"})
}
