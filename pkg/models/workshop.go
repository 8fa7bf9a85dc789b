package models

import "time"

type Workshop struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	CollegeName  string    `gorm:"not null" json:"collegeName"`
	WorkshopName string    `gorm:"not null" json:"workshopName"`
	DateTime     string    `json:"dateTime"`
	Instructions string    `json:"instructions"`
	FormActive   bool      `gorm:"index" json:"formActive"`
	TemplateURL  string    `json:"templateUrl"`
	CreatedBy    string    `json:"createdBy,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
