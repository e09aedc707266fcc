package service

import (
	"assessment_backend/internal/model"
	"assessment_backend/internal/repository"
	"assessment_backend/internal/util"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// AnswerService 按 (attempt, question) 保存作答，仅在记录 IN_PROGRESS 时可写；
// 读取不受状态限制，交卷后仍可供评分查看
type AnswerService struct {
	AnswerRepo  *repository.AnswerRepository
	AttemptRepo *repository.AttemptRepository
	ExamRepo    *repository.ExamRepository
}

func NewAnswerService(answerRepo *repository.AnswerRepository, attemptRepo *repository.AttemptRepository, examRepo *repository.ExamRepository) *AnswerService {
	return &AnswerService{
		AnswerRepo:  answerRepo,
		AttemptRepo: attemptRepo,
		ExamRepo:    examRepo,
	}
}

type UpsertAnswerRequest struct {
	QuestionID string                 `json:"questionId" binding:"required"`
	Answer     map[string]interface{} `json:"answer" binding:"required"`
}

// Upsert 写入或覆盖某题的作答。写入前实时重查记录状态，不走缓存
func (s *AnswerService) Upsert(studentID uint, attemptID string, req UpsertAnswerRequest) (*model.Answer, error) {
	attempt, err := s.findOwned(studentID, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.Status != model.AttemptInProgress {
		return nil, util.ErrAttemptNotActive
	}

	if _, err := s.ExamRepo.FindQuestionByID(req.QuestionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}

	payload, err := json.Marshal(req.Answer)
	if err != nil {
		return nil, err
	}

	// 学生端只写作答内容，分数一律由评分流程另行写入
	answer := &model.Answer{
		AttemptID:  attemptID,
		QuestionID: req.QuestionID,
		Answer:     payload,
		SavedAt:    time.Now().UTC(),
	}
	if err := s.AnswerRepo.Upsert(answer); err != nil {
		return nil, err
	}

	return s.AnswerRepo.FindByAttemptAndQuestion(attemptID, req.QuestionID)
}

func (s *AnswerService) GetForAttempt(studentID uint, attemptID string) ([]model.Answer, error) {
	if _, err := s.findOwned(studentID, attemptID); err != nil {
		return nil, err
	}
	return s.AnswerRepo.ListByAttempt(attemptID)
}

func (s *AnswerService) GetForQuestion(studentID uint, attemptID, questionID string) (*model.Answer, error) {
	if _, err := s.findOwned(studentID, attemptID); err != nil {
		return nil, err
	}
	answer, err := s.AnswerRepo.FindByAttemptAndQuestion(attemptID, questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	return answer, nil
}

// ListByExam 教师端跨学生查看某考试下全部作答
func (s *AnswerService) ListByExam(examID string) ([]model.Answer, error) {
	if _, err := s.ExamRepo.FindByID(examID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrExamNotFound
		}
		return nil, err
	}
	return s.AnswerRepo.ListByExam(examID)
}

func (s *AnswerService) findOwned(studentID uint, attemptID string) (*model.StudentAttempt, error) {
	attempt, err := s.AttemptRepo.FindByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}
	if attempt.StudentID != studentID {
		return nil, util.ErrNotAttemptOwner
	}
	return attempt, nil
}
