package services

import (
	"context"

	"workshop-feedback/pkg/models"
)

type WorkshopRepository interface {
	Create(ctx context.Context, w *models.Workshop) error
	Save(ctx context.Context, w *models.Workshop) error
	FindByID(ctx context.Context, id string) (*models.Workshop, error)
	List(ctx context.Context) ([]models.Workshop, error)
	ListActive(ctx context.Context) ([]models.Workshop, error)
	CountActive(ctx context.Context) (int64, error)
}

type SubmissionRepository interface {
	Create(ctx context.Context, s *models.Submission) error
	FindByFormID(ctx context.Context, formID string) ([]models.Submission, error)
	FindFirstByEmail(ctx context.Context, email string) (*models.Submission, error)
	SetCertificateURL(ctx context.Context, id, url string) error
	List(ctx context.Context) ([]models.Submission, error)
	FindByEmail(ctx context.Context, email string) ([]models.Submission, error)
	Count(ctx context.Context) (int64, error)
}

type CertificateRepository interface {
	ExistsByURL(ctx context.Context, url string) (bool, error)
	Create(ctx context.Context, c *models.Certificate) error
	Count(ctx context.Context) (int64, error)
}

// Publisher stores a PNG under folder/name and returns its public URL. Every
// URL it returns starts with BaseURL.
type Publisher interface {
	Upload(ctx context.Context, data []byte, folder, name string) (string, error)
	BaseURL() string
}
