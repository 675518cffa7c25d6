package services

import (
	"time"

	"campreserve-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultInviteExpireDays = 14

type npsService struct {
	db *gorm.DB
}

// NewNPSService returns the in-repo NPS collaborator: it records the invite
// for the survey subsystem to deliver.
func NewNPSService(db *gorm.DB) NPSInviter {
	return &npsService{db: db}
}

func (s *npsService) CreateInvite(params NPSInviteParams) (*models.NPSInvite, error) {
	expireDays := params.ExpireDays
	if expireDays <= 0 {
		expireDays = defaultInviteExpireDays
	}

	invite := &models.NPSInvite{
		SurveyID:      params.SurveyID,
		CampgroundID:  params.CampgroundID,
		GuestID:       params.GuestID,
		ReservationID: params.ReservationID,
		Channel:       params.Channel,
		Email:         params.Email,
		TemplateID:    params.TemplateID,
		Token:         uuid.New(),
		ExpiresAt:     time.Now().UTC().AddDate(0, 0, expireDays),
	}

	if err := s.db.Create(invite).Error; err != nil {
		return nil, err
	}
	return invite, nil
}
