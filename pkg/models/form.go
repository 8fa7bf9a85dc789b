package models

// SendOTPRequest is the body of POST /api/send-otp
type SendOTPRequest struct {
	Phone string `json:"phone"`
}

// VerifyOTPRequest is the body of POST /api/verify-otp
type VerifyOTPRequest struct {
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
}

// SendEmailOTPRequest is the body of POST /api/send-email-otp
type SendEmailOTPRequest struct {
	Email string `json:"email"`
}

// VerifyEmailOTPRequest is the body of POST /api/verify-email-otp
type VerifyEmailOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// CertificateRequest carries the text composited onto a certificate
type CertificateRequest struct {
	Name         string `json:"name"`
	WorkshopName string `json:"workshopName"`
	Provider     string `json:"provider"`
	Date         string `json:"date"`
}

// SendCertificateRequest is the body of POST /send-certificate-to-email
type SendCertificateRequest struct {
	Email          string `json:"email"`
	CertificateURL string `json:"certificateUrl"`
	WorkshopName   string `json:"workshopName"`
	Name           string `json:"name"`
}

// RecordCertificateRequest is the body of POST /api/certificates
type RecordCertificateRequest struct {
	CertificateRequest
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	CertificateURL string `json:"certificateUrl"`
}

// IssueCertificateRequest runs the whole certificate pipeline server-side.
// FormID is optional; when set the workshop's own template is used.
type IssueCertificateRequest struct {
	CertificateRequest
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	FormID string `json:"formId"`
}

// SubmissionRequest is a student's feedback form
type SubmissionRequest struct {
	Name         string `json:"name"`
	Course       string `json:"course"`
	LearningGoal string `json:"learningGoal"`
	Feedback     string `json:"feedback"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
}

// WorkshopRequest is the admin payload for creating or editing a workshop
type WorkshopRequest struct {
	CollegeName  string `json:"collegeName"`
	WorkshopName string `json:"workshopName"`
	DateTime     string `json:"dateTime"`
	Instructions string `json:"instructions"`
	FormActive   *bool  `json:"formActive"`
	TemplateURL  string `json:"templateUrl"`
}
