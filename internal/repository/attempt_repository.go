package repository

import (
	"assessment_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Create(attempt *model.StudentAttempt) error {
	return r.DB.Create(attempt).Error
}

func (r *AttemptRepository) FindByID(id string) (*model.StudentAttempt, error) {
	var a model.StudentAttempt
	if err := r.DB.First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// FindByStudentAndExam 取该学生在该考试上的最新一次记录
func (r *AttemptRepository) FindByStudentAndExam(studentID uint, examID string) (*model.StudentAttempt, error) {
	var a model.StudentAttempt
	err := r.DB.Where("student_id = ? AND exam_id = ?", studentID, examID).
		Order("attempt_no DESC").
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AttemptRepository) ListByStudent(studentID uint) ([]model.StudentAttempt, error) {
	var attempts []model.StudentAttempt
	err := r.DB.Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) ListByStatus(status model.AttemptStatus) ([]model.StudentAttempt, error) {
	var attempts []model.StudentAttempt
	err := r.DB.Where("status = ?", status).Find(&attempts).Error
	return attempts, err
}

// HasNonTerminal 判断该学生在该考试上是否还有未走到终态的记录
func (r *AttemptRepository) HasNonTerminal(studentID uint, examID string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.StudentAttempt{}).
		Where("student_id = ? AND exam_id = ? AND status IN ?", studentID, examID,
			[]model.AttemptStatus{model.AttemptAssigned, model.AttemptInProgress}).
		Count(&count).Error
	return count > 0, err
}

func (r *AttemptRepository) CountByStudentAndExam(studentID uint, examID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.StudentAttempt{}).
		Where("student_id = ? AND exam_id = ?", studentID, examID).
		Count(&count).Error
	return count, err
}

// TransitionStatus 条件更新：仅当当前状态仍为 from 时写入，返回是否真正写成功。
// 并发竞争下只有一个写者能赢，输者拿到 false
func (r *AttemptRepository) TransitionStatus(id string, from model.AttemptStatus, updates map[string]interface{}) (bool, error) {
	res := r.DB.Model(&model.StudentAttempt{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
