package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"workshop-feedback/pkg/models"
	"workshop-feedback/pkg/services"
)

type OTPService interface {
	Dispatch(ctx context.Context, ch services.Channel, destination string) error
	Verify(ctx context.Context, ch services.Channel, destination, code string) error
}

type CertificateService interface {
	Generate(ctx context.Context, req models.CertificateRequest) (string, error)
	Deliver(ctx context.Context, req models.SendCertificateRequest) error
	Record(ctx context.Context, req models.RecordCertificateRequest) (services.RecordResult, error)
	Issue(ctx context.Context, req models.IssueCertificateRequest) (services.IssueResult, error)
}

type WorkshopService interface {
	Create(ctx context.Context, adminID string, req models.WorkshopRequest) (*models.Workshop, error)
	Update(ctx context.Context, id string, req models.WorkshopRequest) (*models.Workshop, error)
	Get(ctx context.Context, id string) (*models.Workshop, error)
	List(ctx context.Context) ([]models.Workshop, error)
	ListActive(ctx context.Context) ([]models.Workshop, error)
	UploadTemplate(ctx context.Context, data []byte) (string, error)
}

type SubmissionService interface {
	Create(ctx context.Context, formID string, req models.SubmissionRequest) (*models.Submission, error)
	ListByWorkshop(ctx context.Context, formID string) ([]models.Submission, error)
	ListAll(ctx context.Context) ([]models.Submission, error)
	ListByEmail(ctx context.Context, email string) ([]models.Submission, error)
}

type StatsService interface {
	Get(ctx context.Context) (services.Stats, error)
}

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	log          *slog.Logger
	otp          OTPService
	certificates CertificateService
	workshops    WorkshopService
	submissions  SubmissionService
	stats        StatsService
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	log *slog.Logger,
	otp OTPService,
	certificates CertificateService,
	workshops WorkshopService,
	submissions SubmissionService,
	stats StatsService,
) *Handlers {
	return &Handlers{
		log:          log,
		otp:          otp,
		certificates: certificates,
		workshops:    workshops,
		submissions:  submissions,
		stats:        stats,
	}
}

// HealthCheck handler for monitoring
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Preflight answers an explicitly routed OPTIONS request. CORS headers are
// already set by the middleware.
func (h *Handlers) Preflight(c *gin.Context) {
	c.Status(http.StatusOK)
}

func (h *Handlers) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.log.Debug("invalid request body", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format"})
		return false
	}
	return true
}
