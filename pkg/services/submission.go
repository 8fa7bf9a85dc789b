package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"workshop-feedback/pkg/models"
	"workshop-feedback/pkg/utils"
)

// Verifications is the part of OTPService submissions depend on.
type Verifications interface {
	IsVerified(ch Channel, destination string) bool
	ConsumeVerified(ch Channel, destination string) bool
	RestoreVerified(ch Channel, destination string)
}

type SubmissionService struct {
	log       *slog.Logger
	subs      SubmissionRepository
	workshops *WorkshopService
	verified  Verifications
	newID     func() string
	now       func() time.Time
}

func NewSubmissionService(
	log *slog.Logger,
	subs SubmissionRepository,
	workshops *WorkshopService,
	verified Verifications,
) *SubmissionService {
	return &SubmissionService{
		log:       log,
		subs:      subs,
		workshops: workshops,
		verified:  verified,
		newID:     uuid.NewString,
		now:       time.Now,
	}
}

func validateSubmission(req models.SubmissionRequest) error {
	switch {
	case utils.IsBlank(req.Name):
		return fmt.Errorf("%w: name", ErrMissingField)
	case utils.IsBlank(req.Course):
		return fmt.Errorf("%w: course", ErrMissingField)
	case utils.IsBlank(req.LearningGoal):
		return fmt.Errorf("%w: learningGoal", ErrMissingField)
	case utils.IsBlank(req.Feedback):
		return fmt.Errorf("%w: feedback", ErrMissingField)
	case utils.IsBlank(req.Email):
		return fmt.Errorf("%w: email", ErrMissingField)
	case utils.IsBlank(req.Phone):
		return fmt.Errorf("%w: phone", ErrMissingField)
	}
	return nil
}

// Create stores a submission for an open workshop. The phone and email must
// match destinations that passed OTP verification; both markers are used up
// by a successful submission.
func (s *SubmissionService) Create(ctx context.Context, formID string, req models.SubmissionRequest) (*models.Submission, error) {
	const op = "SubmissionService.Create"

	log := s.log.With(
		slog.String("op", op),
		slog.String("form_id", formID),
		slog.String("email_hash", utils.HashString(req.Email)),
	)

	w, err := s.workshops.Get(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !w.FormActive {
		return nil, fmt.Errorf("%s: %w", op, ErrWorkshopClosed)
	}

	if err := validateSubmission(req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Both markers are taken before the row is written so one verification
	// can back at most one submission.
	if !s.verified.ConsumeVerified(ChannelPhone, req.Phone) {
		log.Info("submission rejected, phone not verified")
		return nil, fmt.Errorf("%s: %w", op, ErrNotVerified)
	}
	if !s.verified.ConsumeVerified(ChannelEmail, req.Email) {
		s.verified.RestoreVerified(ChannelPhone, req.Phone)
		log.Info("submission rejected, email not verified")
		return nil, fmt.Errorf("%s: %w", op, ErrNotVerified)
	}

	sub := &models.Submission{
		ID:           s.newID(),
		FormID:       w.ID,
		Name:         req.Name,
		Course:       req.Course,
		LearningGoal: req.LearningGoal,
		Feedback:     req.Feedback,
		Email:        req.Email,
		Phone:        req.Phone,
		SubmittedAt:  s.now().UTC(),
	}
	if err := s.subs.Create(ctx, sub); err != nil {
		s.verified.RestoreVerified(ChannelPhone, req.Phone)
		s.verified.RestoreVerified(ChannelEmail, req.Email)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("submission stored", slog.String("submission_id", sub.ID))
	return sub, nil
}

// ListByWorkshop returns a workshop's submissions, newest first.
func (s *SubmissionService) ListByWorkshop(ctx context.Context, formID string) ([]models.Submission, error) {
	const op = "SubmissionService.ListByWorkshop"

	if _, err := s.workshops.Get(ctx, formID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	subs, err := s.subs.FindByFormID(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return subs, nil
}

// ListAll returns every submission across workshops, newest first.
func (s *SubmissionService) ListAll(ctx context.Context) ([]models.Submission, error) {
	subs, err := s.subs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("SubmissionService.ListAll: %w", err)
	}
	return subs, nil
}

// ListByEmail returns a student's own submissions. The email must hold a
// live verification; looking does not use it up.
func (s *SubmissionService) ListByEmail(ctx context.Context, email string) ([]models.Submission, error) {
	const op = "SubmissionService.ListByEmail"

	if utils.IsBlank(email) {
		return nil, fmt.Errorf("%s: %w: email", op, ErrMissingField)
	}
	if !s.verified.IsVerified(ChannelEmail, email) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotVerified)
	}

	subs, err := s.subs.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return subs, nil
}
