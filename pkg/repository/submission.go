package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"workshop-feedback/pkg/models"
)

type SubmissionRepo struct {
	db *gorm.DB
}

func NewSubmissionRepo(db *gorm.DB) *SubmissionRepo {
	return &SubmissionRepo{db: db}
}

func (r *SubmissionRepo) Create(ctx context.Context, s *models.Submission) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// FindByFormID returns a workshop's submissions, newest first.
func (r *SubmissionRepo) FindByFormID(ctx context.Context, formID string) ([]models.Submission, error) {
	var subs []models.Submission
	err := r.db.WithContext(ctx).
		Where("form_id = ?", formID).
		Order("submitted_at DESC").
		Find(&subs).Error
	return subs, err
}

// FindFirstByEmail returns the oldest submission with exactly this email,
// whatever workshop it belongs to.
func (r *SubmissionRepo) FindFirstByEmail(ctx context.Context, email string) (*models.Submission, error) {
	var s models.Submission
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Order("submitted_at ASC").
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SetCertificateURL attaches the certificate link to a submission that has
// none yet. A submission that already carries a link is left untouched and
// ErrAlreadyExists is returned.
func (r *SubmissionRepo) SetCertificateURL(ctx context.Context, id, url string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("id = ?", id).
		Where("(certificate_url = '' OR certificate_url IS NULL)").
		Update("certificate_url", url)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Submission{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrAlreadyExists
}

// List returns every submission across workshops, newest first.
func (r *SubmissionRepo) List(ctx context.Context) ([]models.Submission, error) {
	var subs []models.Submission
	err := r.db.WithContext(ctx).Order("submitted_at DESC").Find(&subs).Error
	return subs, err
}

// FindByEmail returns one student's submissions, newest first.
func (r *SubmissionRepo) FindByEmail(ctx context.Context, email string) ([]models.Submission, error) {
	var subs []models.Submission
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Order("submitted_at DESC").
		Find(&subs).Error
	return subs, err
}

func (r *SubmissionRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Submission{}).Count(&count).Error
	return count, err
}
