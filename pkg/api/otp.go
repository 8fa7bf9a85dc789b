package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"workshop-feedback/pkg/logger/sl"
	"workshop-feedback/pkg/models"
	"workshop-feedback/pkg/services"
)

// SendOTP texts a fresh code to the phone number. A missing number or an
// unreadable body surfaces as a send failure, the same way a provider
// rejection does.
func (h *Handlers) SendOTP(c *gin.Context) {
	var req models.SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("send otp failed", sl.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send otp"})
		return
	}

	if err := h.otp.Dispatch(c.Request.Context(), services.ChannelPhone, req.Phone); err != nil {
		h.log.Error("send otp failed", sl.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send otp"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "OTP sent successfully"})
}

func (h *Handlers) VerifyOTP(c *gin.Context) {
	var req models.VerifyOTPRequest
	if !h.bind(c, &req) {
		return
	}
	if req.Phone == "" || req.OTP == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Phone number and otp are required"})
		return
	}

	if err := h.otp.Verify(c.Request.Context(), services.ChannelPhone, req.Phone, req.OTP); err != nil {
		h.verifyFailed(c, err, "Invalid otp")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Otp verified successfully"})
}

func (h *Handlers) SendEmailOTP(c *gin.Context) {
	var req models.SendEmailOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("send email otp failed", sl.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send email OTP"})
		return
	}

	if err := h.otp.Dispatch(c.Request.Context(), services.ChannelEmail, req.Email); err != nil {
		h.log.Error("send email otp failed", sl.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send email OTP"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "OTP sent successfully"})
}

func (h *Handlers) VerifyEmailOTP(c *gin.Context) {
	var req models.VerifyEmailOTPRequest
	if !h.bind(c, &req) {
		return
	}
	if req.Email == "" || req.OTP == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and Otp are required"})
		return
	}

	if err := h.otp.Verify(c.Request.Context(), services.ChannelEmail, req.Email, req.OTP); err != nil {
		h.verifyFailed(c, err, "Invalid email otp")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email otp is verified successfully"})
}

func (h *Handlers) verifyFailed(c *gin.Context, err error, msg string) {
	if !errors.Is(err, services.ErrInvalidCode) {
		h.log.Error("otp verification error", slog.String("path", c.FullPath()), sl.Err(err))
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
