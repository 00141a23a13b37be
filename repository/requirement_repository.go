package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"recruitment-agent/domain"
)

type RequirementRepository struct {
	db *gorm.DB
}

func NewRequirementRepository(db *gorm.DB) *RequirementRepository {
	return &RequirementRepository{db: db}
}

func (r *RequirementRepository) GetByID(ctx context.Context, id uint) (*domain.Requirement, error) {
	var req domain.Requirement
	err := r.db.WithContext(ctx).First(&req, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *RequirementRepository) GetByTitle(ctx context.Context, title string) ([]domain.Requirement, error) {
	var reqs []domain.Requirement
	err := r.db.WithContext(ctx).Where("title = ?", title).Find(&reqs).Error
	return reqs, err
}

func (r *RequirementRepository) List(ctx context.Context, titleFilter string) ([]domain.Requirement, error) {
	q := r.db.WithContext(ctx)
	if titleFilter != "" {
		q = q.Where("title LIKE ?", "%"+titleFilter+"%")
	}
	var reqs []domain.Requirement
	err := q.Find(&reqs).Error
	return reqs, err
}

func (r *RequirementRepository) Create(ctx context.Context, req *domain.Requirement) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// FindBySignature loads requirements sharing the candidate's title and
// compares signatures in memory; the skills column is serialized JSON,
// so set comparison cannot happen in SQL.
func (r *RequirementRepository) FindBySignature(ctx context.Context, req domain.Requirement) (*domain.Requirement, error) {
	existing, err := r.GetByTitle(ctx, req.Title)
	if err != nil {
		return nil, err
	}
	want := req.Signature()
	for i := range existing {
		if existing[i].Signature() == want {
			return &existing[i], nil
		}
	}
	return nil, nil
}

func (r *RequirementRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&domain.Requirement{}).Where("id = ?", id).Updates(fields).Error
}

func (r *RequirementRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.Requirement{}, id).Error
}

func (r *RequirementRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&domain.Requirement{}).Error
}
