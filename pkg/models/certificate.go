package models

import "time"

// Certificate is append-only. CertificateURL doubles as its natural key.
type Certificate struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	Name           string    `json:"name"`
	WorkshopName   string    `json:"workShopName"`
	Provider       string    `json:"provider"`
	Date           string    `json:"date"`
	Email          string    `gorm:"index" json:"email"`
	Phone          string    `json:"phone"`
	CertificateURL string    `gorm:"uniqueIndex;not null" json:"certificateUrl"`
	CreatedAt      time.Time `json:"createdAt"`
}
