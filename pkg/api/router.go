package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"workshop-feedback/pkg/middleware"
)

type RouterConfig struct {
	AllowedOrigins []string
	JWTSecret      string
}

// NewRouter registers every route on a fresh engine.
func NewRouter(log *slog.Logger, h *Handlers, cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.Logger(log), middleware.CORS(cfg.AllowedOrigins))

	router.GET("/health", h.HealthCheck)

	// Certificate endpoints predate the /api prefix and keep their paths.
	router.POST("/generate-certificate", h.GenerateCertificate)
	router.POST("/send-certificate-to-email", h.SendCertificate)

	api := router.Group("/api")
	api.POST("/send-otp", h.SendOTP)
	api.POST("/verify-otp", h.VerifyOTP)
	api.OPTIONS("/send-email-otp", h.Preflight)
	api.POST("/send-email-otp", h.SendEmailOTP)
	api.POST("/verify-email-otp", h.VerifyEmailOTP)

	api.POST("/send-certificate-to-email", h.SendCertificate)
	api.POST("/certificates", h.RecordCertificate)
	api.POST("/certificates/issue", h.IssueCertificate)

	api.GET("/workshops", h.ListActiveWorkshops)
	api.GET("/workshops/:id", h.GetWorkshop)
	api.POST("/workshops/:id/submissions", h.CreateSubmission)
	api.GET("/submissions", h.ListMySubmissions)

	admin := api.Group("/admin", middleware.RequireAdmin(cfg.JWTSecret))
	admin.GET("/workshops", h.ListAllWorkshops)
	admin.POST("/workshops", h.CreateWorkshop)
	admin.PUT("/workshops/:id", h.UpdateWorkshop)
	admin.GET("/workshops/:id/submissions", h.ListSubmissions)
	admin.GET("/submissions", h.ListAllSubmissions)
	admin.GET("/stats", h.Stats)
	admin.POST("/templates", h.UploadTemplate)

	return router
}
