package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"workshop-feedback/pkg/models"
)

type CertificateRepo struct {
	db *gorm.DB
}

func NewCertificateRepo(db *gorm.DB) *CertificateRepo {
	return &CertificateRepo{db: db}
}

func (r *CertificateRepo) ExistsByURL(ctx context.Context, url string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Certificate{}).
		Where("certificate_url = ?", url).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *CertificateRepo) Create(ctx context.Context, c *models.Certificate) error {
	err := r.db.WithContext(ctx).Create(c).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAlreadyExists
	}
	return err
}

func (r *CertificateRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Certificate{}).Count(&count).Error
	return count, err
}
