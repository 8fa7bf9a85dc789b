package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"workshop-feedback/pkg/models"
	"workshop-feedback/pkg/render"
	"workshop-feedback/pkg/repository"
	"workshop-feedback/pkg/utils"
)

const templateFolder = "templates"

type WorkshopService struct {
	log       *slog.Logger
	repo      WorkshopRepository
	publisher Publisher
	newID     func() string
	now       func() time.Time
}

func NewWorkshopService(log *slog.Logger, repo WorkshopRepository, publisher Publisher) *WorkshopService {
	return &WorkshopService{
		log:       log,
		repo:      repo,
		publisher: publisher,
		newID:     uuid.NewString,
		now:       time.Now,
	}
}

func validateWorkshop(req models.WorkshopRequest) error {
	switch {
	case utils.IsBlank(req.CollegeName):
		return fmt.Errorf("%w: collegeName", ErrMissingField)
	case utils.IsBlank(req.WorkshopName):
		return fmt.Errorf("%w: workshopName", ErrMissingField)
	case utils.IsBlank(req.DateTime):
		return fmt.Errorf("%w: dateTime", ErrMissingField)
	case utils.IsBlank(req.Instructions):
		return fmt.Errorf("%w: instructions", ErrMissingField)
	case utils.IsBlank(req.TemplateURL):
		return fmt.Errorf("%w: templateUrl", ErrMissingField)
	}
	return nil
}

// Create stores a new workshop. Forms are open unless the request says
// otherwise.
func (s *WorkshopService) Create(ctx context.Context, adminID string, req models.WorkshopRequest) (*models.Workshop, error) {
	const op = "WorkshopService.Create"

	if err := validateWorkshop(req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	active := true
	if req.FormActive != nil {
		active = *req.FormActive
	}

	now := s.now().UTC()
	w := &models.Workshop{
		ID:           s.newID(),
		CollegeName:  req.CollegeName,
		WorkshopName: req.WorkshopName,
		DateTime:     req.DateTime,
		Instructions: req.Instructions,
		FormActive:   active,
		TemplateURL:  req.TemplateURL,
		CreatedBy:    adminID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, w); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("workshop created",
		slog.String("op", op),
		slog.String("workshop_id", w.ID),
		slog.String("created_by", adminID),
	)
	return w, nil
}

// Update applies the non-empty fields of req to an existing workshop.
func (s *WorkshopService) Update(ctx context.Context, id string, req models.WorkshopRequest) (*models.Workshop, error) {
	const op = "WorkshopService.Update"

	w, err := s.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if req.CollegeName != "" {
		w.CollegeName = req.CollegeName
	}
	if req.WorkshopName != "" {
		w.WorkshopName = req.WorkshopName
	}
	if req.DateTime != "" {
		w.DateTime = req.DateTime
	}
	if req.Instructions != "" {
		w.Instructions = req.Instructions
	}
	if req.TemplateURL != "" {
		w.TemplateURL = req.TemplateURL
	}
	if req.FormActive != nil {
		w.FormActive = *req.FormActive
	}
	w.UpdatedAt = s.now().UTC()

	if err := s.repo.Save(ctx, w); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("workshop updated",
		slog.String("op", op),
		slog.String("workshop_id", w.ID),
		slog.Bool("form_active", w.FormActive),
	)
	return w, nil
}

func (s *WorkshopService) Get(ctx context.Context, id string) (*models.Workshop, error) {
	w, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrWorkshopNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("WorkshopService.Get: %w", err)
	}
	return w, nil
}

func (s *WorkshopService) List(ctx context.Context) ([]models.Workshop, error) {
	ws, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("WorkshopService.List: %w", err)
	}
	return ws, nil
}

// ListActive returns the workshops whose forms are open.
func (s *WorkshopService) ListActive(ctx context.Context) ([]models.Workshop, error) {
	ws, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("WorkshopService.ListActive: %w", err)
	}
	return ws, nil
}

// UploadTemplate publishes a certificate background and returns the URL to
// store as a workshop's templateUrl.
func (s *WorkshopService) UploadTemplate(ctx context.Context, data []byte) (string, error) {
	const op = "WorkshopService.UploadTemplate"

	if len(data) == 0 {
		return "", fmt.Errorf("%s: %w: template", op, ErrMissingField)
	}
	if _, err := render.Decode(data); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	url, err := s.publisher.Upload(ctx, data, templateFolder, "template-"+s.newID())
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", op, ErrPublish, err)
	}

	s.log.Info("certificate template uploaded", slog.String("op", op), slog.String("url", url))
	return url, nil
}
