package models

import "time"

// Submission is one student's feedback for one workshop. CertificateURL is
// filled in once, after the certificate has been published.
type Submission struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	FormID         string    `gorm:"index;not null" json:"formId"`
	Name           string    `gorm:"not null" json:"name"`
	Course         string    `json:"course"`
	LearningGoal   string    `json:"learningGoal"`
	Feedback       string    `json:"feedback"`
	Email          string    `gorm:"index;not null" json:"email"`
	Phone          string    `gorm:"not null" json:"phone"`
	SubmittedAt    time.Time `json:"submittedAt"`
	CertificateURL string    `json:"certificateUrl,omitempty"`
}
