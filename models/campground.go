package models

import (
	"github.com/google/uuid"
)

type Campground struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	Name     string    `gorm:"not null"`
	Address  string
	Timezone string `gorm:"default:'UTC'"`

	EmailNotifications bool `gorm:"default:true"`
	SMSNotifications   bool `gorm:"default:false"`

	Users            []User            `gorm:"foreignKey:CampgroundID"`
	Guests           []Guest           `gorm:"foreignKey:CampgroundID"`
	Reservations     []Reservation     `gorm:"foreignKey:CampgroundID"`
	MessageTemplates []MessageTemplate `gorm:"foreignKey:CampgroundID"`
	Playbooks        []Playbook        `gorm:"foreignKey:CampgroundID"`
}
