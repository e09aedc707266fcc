package repository

import (
	"assessment_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AnswerRepository struct {
	DB *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) *AnswerRepository {
	return &AnswerRepository{DB: db}
}

// Upsert 借 (attempt_id, question_id) 唯一索引做冲突合并，
// 同一题的并发保存在约束上串行化，不会产生重复行。
// score 列不在覆盖范围内，保存作答不会动已有分数
func (r *AnswerRepository) Upsert(answer *model.Answer) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "attempt_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"answer", "saved_at", "updated_at",
		}),
	}).Create(answer).Error
}

func (r *AnswerRepository) FindByAttemptAndQuestion(attemptID, questionID string) (*model.Answer, error) {
	var a model.Answer
	err := r.DB.Where("attempt_id = ? AND question_id = ?", attemptID, questionID).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AnswerRepository) ListByAttempt(attemptID string) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.DB.Where("attempt_id = ?", attemptID).Order("saved_at ASC").Find(&answers).Error
	return answers, err
}

func (r *AnswerRepository) ListByExam(examID string) ([]model.Answer, error) {
	var answers []model.Answer
	sub := r.DB.Model(&model.StudentAttempt{}).Select("id").Where("exam_id = ?", examID)
	err := r.DB.Where("attempt_id IN (?)", sub).Find(&answers).Error
	return answers, err
}
