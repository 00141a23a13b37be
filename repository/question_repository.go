package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"recruitment-agent/domain"
)

type QuestionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

func (r *QuestionRepository) ReplaceForApplication(ctx context.Context, applicationID uint, questions []domain.Question) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("application_id = ?", applicationID).Delete(&domain.Question{}).Error; err != nil {
			return err
		}
		if len(questions) == 0 {
			return nil
		}
		for i := range questions {
			questions[i].ID = 0
			questions[i].ApplicationID = applicationID
		}
		return tx.Create(&questions).Error
	})
}

func (r *QuestionRepository) ListByApplication(ctx context.Context, applicationID uint) ([]domain.Question, error) {
	var questions []domain.Question
	err := r.db.WithContext(ctx).Where("application_id = ?", applicationID).Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) GetByID(ctx context.Context, id uint) (*domain.Question, error) {
	var q domain.Question
	err := r.db.WithContext(ctx).First(&q, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuestionRepository) Edit(ctx context.Context, id uint, newText, editedBy string) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&domain.Question{}).Where("id = ?", id).Updates(map[string]interface{}{
		"edited_question": newText,
		"is_edited":       true,
		"edited_by":       editedBy,
		"edited_at":       now,
	}).Error
}

func (r *QuestionRepository) DeleteForApplication(ctx context.Context, applicationID uint) error {
	return r.db.WithContext(ctx).Where("application_id = ?", applicationID).Delete(&domain.Question{}).Error
}
