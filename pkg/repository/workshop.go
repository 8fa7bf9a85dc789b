package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"workshop-feedback/pkg/models"
)

type WorkshopRepo struct {
	db *gorm.DB
}

func NewWorkshopRepo(db *gorm.DB) *WorkshopRepo {
	return &WorkshopRepo{db: db}
}

func (r *WorkshopRepo) Create(ctx context.Context, w *models.Workshop) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *WorkshopRepo) Save(ctx context.Context, w *models.Workshop) error {
	return r.db.WithContext(ctx).Save(w).Error
}

func (r *WorkshopRepo) FindByID(ctx context.Context, id string) (*models.Workshop, error) {
	var w models.Workshop
	err := r.db.WithContext(ctx).First(&w, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WorkshopRepo) List(ctx context.Context) ([]models.Workshop, error) {
	var ws []models.Workshop
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&ws).Error
	return ws, err
}

func (r *WorkshopRepo) ListActive(ctx context.Context) ([]models.Workshop, error) {
	var ws []models.Workshop
	err := r.db.WithContext(ctx).
		Where("form_active = ?", true).
		Order("created_at DESC").
		Find(&ws).Error
	return ws, err
}

func (r *WorkshopRepo) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Workshop{}).
		Where("form_active = ?", true).
		Count(&count).Error
	return count, err
}
