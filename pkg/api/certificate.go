package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"workshop-feedback/pkg/logger/sl"
	"workshop-feedback/pkg/models"
	"workshop-feedback/pkg/services"
)

func (h *Handlers) GenerateCertificate(c *gin.Context) {
	var req models.CertificateRequest
	if !h.bind(c, &req) {
		return
	}

	url, err := h.certificates.Generate(c.Request.Context(), req)
	if err != nil {
		h.certificateFailed(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// SendCertificate emails an already published certificate. Missing input is
// reported as a server error to match what existing clients expect.
func (h *Handlers) SendCertificate(c *gin.Context) {
	var req models.SendCertificateRequest
	if !h.bind(c, &req) {
		return
	}
	if req.Email == "" || req.CertificateURL == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Email and certificate url is required"})
		return
	}

	if err := h.certificates.Deliver(c.Request.Context(), req); err != nil {
		h.log.Error("send certificate failed", sl.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send certificate email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Certificate sent to email successfully!"})
}

func (h *Handlers) RecordCertificate(c *gin.Context) {
	var req models.RecordCertificateRequest
	if !h.bind(c, &req) {
		return
	}

	res, err := h.certificates.Record(c.Request.Context(), req)
	if errors.Is(err, services.ErrMissingField) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and certificate url is required"})
		return
	}
	if errors.Is(err, services.ErrForeignURL) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Certificate url is not recognised"})
		return
	}
	if err != nil {
		h.log.Error("record certificate failed", sl.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save certificate"})
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *Handlers) IssueCertificate(c *gin.Context) {
	var req models.IssueCertificateRequest
	if !h.bind(c, &req) {
		return
	}

	res, err := h.certificates.Issue(c.Request.Context(), req)
	if errors.Is(err, services.ErrWorkshopNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Workshop not found"})
		return
	}
	if err != nil {
		h.certificateFailed(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *Handlers) certificateFailed(c *gin.Context, err error) {
	if errors.Is(err, services.ErrMissingField) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing certificate data"})
		return
	}
	h.log.Error("certificate generation failed", sl.Err(err))
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "Failed to generate certificate",
		"details": err.Error(),
	})
}
