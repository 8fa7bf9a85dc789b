package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"workshop-feedback/pkg/logger/sl"
	"workshop-feedback/pkg/middleware"
	"workshop-feedback/pkg/models"
	"workshop-feedback/pkg/render"
	"workshop-feedback/pkg/services"
)

const maxTemplateSize = 10 << 20

func (h *Handlers) ListActiveWorkshops(c *gin.Context) {
	ws, err := h.workshops.ListActive(c.Request.Context())
	if err != nil {
		h.internalError(c, "list workshops failed", err)
		return
	}
	c.JSON(http.StatusOK, ws)
}

func (h *Handlers) GetWorkshop(c *gin.Context) {
	w, err := h.workshops.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.workshopError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h *Handlers) CreateSubmission(c *gin.Context) {
	var req models.SubmissionRequest
	if !h.bind(c, &req) {
		return
	}

	sub, err := h.submissions.Create(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.workshopError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

func (h *Handlers) ListAllWorkshops(c *gin.Context) {
	ws, err := h.workshops.List(c.Request.Context())
	if err != nil {
		h.internalError(c, "list workshops failed", err)
		return
	}
	c.JSON(http.StatusOK, ws)
}

func (h *Handlers) CreateWorkshop(c *gin.Context) {
	var req models.WorkshopRequest
	if !h.bind(c, &req) {
		return
	}

	var adminID string
	if claims := middleware.Claims(c); claims != nil {
		adminID = claims.UserID
	}

	w, err := h.workshops.Create(c.Request.Context(), adminID, req)
	if err != nil {
		h.workshopError(c, err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

func (h *Handlers) UpdateWorkshop(c *gin.Context) {
	var req models.WorkshopRequest
	if !h.bind(c, &req) {
		return
	}

	w, err := h.workshops.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.workshopError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h *Handlers) ListSubmissions(c *gin.Context) {
	subs, err := h.submissions.ListByWorkshop(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.workshopError(c, err)
		return
	}
	c.JSON(http.StatusOK, subs)
}

// ListAllSubmissions returns every submission across workshops, newest first.
func (h *Handlers) ListAllSubmissions(c *gin.Context) {
	subs, err := h.submissions.ListAll(c.Request.Context())
	if err != nil {
		h.internalError(c, "list submissions failed", err)
		return
	}
	c.JSON(http.StatusOK, subs)
}

// ListMySubmissions returns the submissions for ?email=, which must have
// passed email verification recently.
func (h *Handlers) ListMySubmissions(c *gin.Context) {
	subs, err := h.submissions.ListByEmail(c.Request.Context(), c.Query("email"))
	if err != nil {
		h.workshopError(c, err)
		return
	}
	c.JSON(http.StatusOK, subs)
}

func (h *Handlers) Stats(c *gin.Context) {
	st, err := h.stats.Get(c.Request.Context())
	if err != nil {
		h.internalError(c, "dashboard stats failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// UploadTemplate takes a multipart "template" image and returns its hosted
// URL for use as a workshop templateUrl.
func (h *Handlers) UploadTemplate(c *gin.Context) {
	fh, err := c.FormFile("template")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "template file is required"})
		return
	}
	if fh.Size > maxTemplateSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "template file is too large"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.internalError(c, "open template upload failed", err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxTemplateSize))
	if err != nil {
		h.internalError(c, "read template upload failed", err)
		return
	}

	url, err := h.workshops.UploadTemplate(c.Request.Context(), data)
	switch {
	case errors.Is(err, render.ErrTemplate), errors.Is(err, services.ErrMissingField):
		c.JSON(http.StatusBadRequest, gin.H{"error": "template must be a PNG or JPEG image"})
	case err != nil:
		h.internalError(c, "upload template failed", err)
	default:
		c.JSON(http.StatusCreated, gin.H{"url": url})
	}
}

func (h *Handlers) workshopError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrWorkshopNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Workshop not found"})
	case errors.Is(err, services.ErrWorkshopClosed):
		c.JSON(http.StatusBadRequest, gin.H{"error": "This form is no longer accepting responses"})
	case errors.Is(err, services.ErrNotVerified):
		c.JSON(http.StatusForbidden, gin.H{"error": "Please verify your phone and email first"})
	case errors.Is(err, services.ErrMissingField):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.internalError(c, "workshop request failed", err)
	}
}

func (h *Handlers) internalError(c *gin.Context, msg string, err error) {
	h.log.Error(msg, sl.Err(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
