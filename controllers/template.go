// controllers/template.go
package controllers

import (
	"errors"
	"net/http"

	"campreserve-backend/models"
	"campreserve-backend/services"
	"campreserve-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateTemplateInput defines the expected JSON structure
type CreateTemplateInput struct {
	Name     string `json:"name" binding:"required"`
	Subject  string `json:"subject"`
	BodyHTML string `json:"bodyHtml"`
}

// UpdateTemplateInput defines the expected JSON structure
type UpdateTemplateInput struct {
	Name     *string `json:"name"`
	Subject  *string `json:"subject"`
	BodyHTML *string `json:"bodyHtml"`
}

// ReviewTemplateInput carries the optional approval/rejection reason
type ReviewTemplateInput struct {
	Reason string `json:"reason"`
}

type TemplateController struct {
	Svc *services.TemplateService
}

func (tc *TemplateController) Create(c *gin.Context) {
	campgroundID, ok := campgroundScope(c)
	if !ok {
		return
	}

	var input CreateTemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	template, err := tc.Svc.Create(campgroundID, input.Name, input.Subject, input.BodyHTML, actorFromContext(c))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create template")
		return
	}

	c.JSON(http.StatusCreated, template)
}

func (tc *TemplateController) List(c *gin.Context) {
	campgroundID, ok := campgroundScope(c)
	if !ok {
		return
	}

	templates, err := tc.Svc.List(campgroundID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve templates")
		return
	}

	c.JSON(http.StatusOK, templates)
}

func (tc *TemplateController) Get(c *gin.Context) {
	campgroundID, ok := campgroundScope(c)
	if !ok {
		return
	}

	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid template ID format")
		return
	}

	template, err := tc.Svc.Get(campgroundID, templateID)
	if err != nil {
		respondTemplateError(c, err)
		return
	}

	c.JSON(http.StatusOK, template)
}

func (tc *TemplateController) Update(c *gin.Context) {
	campgroundID, ok := campgroundScope(c)
	if !ok {
		return
	}

	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid template ID format")
		return
	}

	var input UpdateTemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	template, err := tc.Svc.Update(campgroundID, templateID, services.TemplateUpdate{
		Name:     input.Name,
		Subject:  input.Subject,
		BodyHTML: input.BodyHTML,
	}, actorFromContext(c))
	if err != nil {
		respondTemplateError(c, err)
		return
	}

	c.JSON(http.StatusOK, template)
}

func (tc *TemplateController) Delete(c *gin.Context) {
	campgroundID, ok := campgroundScope(c)
	if !ok {
		return
	}

	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid template ID format")
		return
	}

	if err := tc.Svc.Delete(campgroundID, templateID); err != nil {
		respondTemplateError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Template deleted successfully"})
}

func (tc *TemplateController) Approve(c *gin.Context) {
	tc.review(c, tc.Svc.Approve)
}

func (tc *TemplateController) Reject(c *gin.Context) {
	tc.review(c, tc.Svc.Reject)
}

func (tc *TemplateController) review(c *gin.Context, action func(uuid.UUID, uuid.UUID, *uuid.UUID, string) (*models.MessageTemplate, error)) {
	campgroundID, ok := campgroundScope(c)
	if !ok {
		return
	}

	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid template ID format")
		return
	}

	var input ReviewTemplateInput
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}
	}

	template, err := action(campgroundID, templateID, actorFromContext(c), input.Reason)
	if err != nil {
		respondTemplateError(c, err)
		return
	}

	c.JSON(http.StatusOK, template)
}

func respondTemplateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTemplateNotFound):
		utils.RespondWithError(c, http.StatusNotFound, "Template not found")
	case errors.Is(err, services.ErrScopeMismatch):
		utils.RespondWithError(c, http.StatusForbidden, "Template belongs to another campground")
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
	}
}
