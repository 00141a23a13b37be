package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"recruitment-agent/domain"
)

type ApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) FindExisting(ctx context.Context, name, email, title string, statuses []string) (*domain.Application, error) {
	var app domain.Application
	err := r.db.WithContext(ctx).
		Where("candidate_name = ? AND email = ? AND matched_title = ? AND status IN ?", name, email, title, statuses).
		First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepository) Insert(ctx context.Context, app *domain.Application) error {
	return r.db.WithContext(ctx).Create(app).Error
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id uint) (*domain.Application, error) {
	var app domain.Application
	err := r.db.WithContext(ctx).First(&app, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepository) GetByIDWithStatus(ctx context.Context, id uint, status string) (*domain.Application, error) {
	var app domain.Application
	err := r.db.WithContext(ctx).Where("id = ? AND status = ?", id, status).First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepository) GetByUsername(ctx context.Context, username string) ([]domain.Application, error) {
	var apps []domain.Application
	err := r.db.WithContext(ctx).Where("username = ?", username).Find(&apps).Error
	return apps, err
}

func (r *ApplicationRepository) List(ctx context.Context, titleFilter string) ([]domain.Application, error) {
	q := r.db.WithContext(ctx)
	if titleFilter != "" {
		q = q.Where("matched_title LIKE ?", "%"+titleFilter+"%")
	}
	var apps []domain.Application
	err := q.Find(&apps).Error
	return apps, err
}

func (r *ApplicationRepository) ListByStatus(ctx context.Context, status, nameFilter string) ([]domain.Application, error) {
	q := r.db.WithContext(ctx).Where("status = ?", status)
	if nameFilter != "" {
		q = q.Where("candidate_name LIKE ?", "%"+nameFilter+"%")
	}
	var apps []domain.Application
	err := q.Find(&apps).Error
	return apps, err
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id uint, status, note string) error {
	fields := map[string]interface{}{"status": status}
	if note != "" {
		fields["justification"] = note
	}
	return r.db.WithContext(ctx).Model(&domain.Application{}).Where("id = ?", id).Updates(fields).Error
}

func (r *ApplicationRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&domain.Application{}).Where("id = ?", id).Updates(fields).Error
}

// Delete removes the application and its follow-up questions. The FK
// cascade covers databases created through AutoMigrate; the explicit
// delete keeps older schemas consistent too.
func (r *ApplicationRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("application_id = ?", id).Delete(&domain.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Application{}, id).Error
	})
}
