package service

import (
	"assessment_backend/internal/model"
	"assessment_backend/internal/repository"
	"assessment_backend/internal/util"
	"assessment_backend/pkg/logger"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AttemptService 考试作答记录的状态机：
// ASSIGNED → IN_PROGRESS → {SUBMITTED, EXPIRED} → GRADED。
// 所有流转走条件更新，和后台过期清理并发竞争时只有一个写者能赢
type AttemptService struct {
	AttemptRepo *repository.AttemptRepository
	ExamRepo    *repository.ExamRepository
	Loc         *time.Location

	now func() time.Time
}

func NewAttemptService(attemptRepo *repository.AttemptRepository, examRepo *repository.ExamRepository, loc *time.Location) *AttemptService {
	return &AttemptService{
		AttemptRepo: attemptRepo,
		ExamRepo:    examRepo,
		Loc:         loc,
		now:         time.Now,
	}
}

type AssignAttemptRequest struct {
	StudentID uint   `json:"studentId" binding:"required"`
	ExamID    string `json:"examId" binding:"required"`
}

// Assign 把已发布的考试指派给学生。同一 (学生, 考试) 同时只允许一条未终态记录；
// attemptNo 递增只为保住唯一索引，重考入口并未开放
func (s *AttemptService) Assign(req AssignAttemptRequest) (*model.StudentAttempt, error) {
	exam, err := s.ExamRepo.FindByID(req.ExamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrExamNotFound
		}
		return nil, err
	}
	if !exam.IsPublished {
		return nil, util.ErrExamNotPublished
	}

	active, err := s.AttemptRepo.HasNonTerminal(req.StudentID, req.ExamID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, util.ErrAlreadyAssigned
	}

	count, err := s.AttemptRepo.CountByStudentAndExam(req.StudentID, req.ExamID)
	if err != nil {
		return nil, err
	}

	attempt := &model.StudentAttempt{
		StudentID:     req.StudentID,
		ExamID:        req.ExamID,
		AttemptNo:     int(count) + 1,
		Status:        model.AttemptAssigned,
		GradingStatus: model.GradingNotGraded,
	}
	if err := s.AttemptRepo.Create(attempt); err != nil {
		// 并发重复指派会撞唯一索引
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrAlreadyAssigned
		}
		return nil, err
	}

	logger.Log.Info("attempt assigned",
		zap.String("attemptId", attempt.ID),
		zap.Uint("studentId", req.StudentID),
		zap.String("examId", req.ExamID))
	return attempt, nil
}

// Start 开考。要求窗口此刻 ACTIVE；joinAt/startedAt 在这里显式落值
func (s *AttemptService) Start(studentID uint, attemptID string) (*model.StudentAttempt, error) {
	attempt, err := s.findOwned(studentID, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.Status != model.AttemptAssigned {
		return nil, util.ErrInvalidTransition
	}

	exam, err := s.ExamRepo.FindByID(attempt.ExamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrExamNotFound
		}
		return nil, err
	}
	if !exam.IsPublished {
		return nil, util.ErrExamNotPublished
	}

	sch := ScheduleOf(exam)
	now := s.now().In(s.Loc)
	switch ClassifyWindow(sch, now) {
	case WindowNotStarted:
		return nil, util.ErrExamNotStartedYet
	case WindowEnded:
		return nil, util.ErrExamEnded
	}

	nowUTC := now.UTC()
	updates := map[string]interface{}{
		"status":     model.AttemptInProgress,
		"join_at":    nowUTC,
		"started_at": nowUTC,
	}
	if end, ok := WindowEnd(sch, s.Loc); ok {
		updates["ends_at"] = end.UTC()
	}

	ok, err := s.AttemptRepo.TransitionStatus(attempt.ID, model.AttemptAssigned, updates)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, util.ErrInvalidTransition
	}

	logger.Log.Info("attempt started",
		zap.String("attemptId", attempt.ID),
		zap.Uint("studentId", studentID))
	return s.AttemptRepo.FindByID(attempt.ID)
}

type SubmitAttemptRequest struct {
	Score            float64 `json:"score"`
	DurationInMinute float64 `json:"durationInMinute"`
}

// Submit 交卷。交卷时重查窗口：已结束的迟到提交不报错，
// 静默改走 EXPIRED（慢网络下客户端未必知道窗口已关）
func (s *AttemptService) Submit(studentID uint, attemptID string, req SubmitAttemptRequest) (*model.StudentAttempt, error) {
	attempt, err := s.findOwned(studentID, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.Status != model.AttemptInProgress {
		return nil, util.ErrInvalidTransition
	}

	exam, err := s.ExamRepo.FindByID(attempt.ExamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrExamNotFound
		}
		return nil, err
	}

	now := s.now().In(s.Loc)
	updates := map[string]interface{}{
		"score":              req.Score,
		"total_score":        req.Score,
		"duration_in_minute": req.DurationInMinute,
		"submitted_at":       now.UTC(),
	}
	if ClassifyWindow(ScheduleOf(exam), now) == WindowEnded {
		updates["status"] = model.AttemptExpired
		updates["submit_trigger"] = model.SubmitTriggerAuto
		updates["grading_status"] = model.GradingAutoExpired
	} else {
		updates["status"] = model.AttemptSubmitted
		updates["submit_trigger"] = model.SubmitTriggerManual
		updates["grading_status"] = model.GradingPending
	}

	ok, err := s.AttemptRepo.TransitionStatus(attempt.ID, model.AttemptInProgress, updates)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, util.ErrInvalidTransition
	}

	logger.Log.Info("attempt submitted",
		zap.String("attemptId", attempt.ID),
		zap.Any("status", updates["status"]))
	return s.AttemptRepo.FindByID(attempt.ID)
}

type GradeAttemptRequest struct {
	Score         float64 `json:"score"`
	GradingStatus string  `json:"gradingStatus" binding:"required"`
}

// Grade 评分。分数由调用方给出，这里不做任何判卷
func (s *AttemptService) Grade(attemptID string, req GradeAttemptRequest) (*model.StudentAttempt, error) {
	attempt, err := s.AttemptRepo.FindByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}
	if attempt.Status != model.AttemptSubmitted && attempt.Status != model.AttemptExpired {
		return nil, util.ErrInvalidTransition
	}

	updates := map[string]interface{}{
		"status":         model.AttemptGraded,
		"score":          req.Score,
		"total_score":    req.Score,
		"grading_status": req.GradingStatus,
	}
	ok, err := s.AttemptRepo.TransitionStatus(attempt.ID, attempt.Status, updates)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, util.ErrInvalidTransition
	}

	logger.Log.Info("attempt graded",
		zap.String("attemptId", attempt.ID),
		zap.Float64("score", req.Score))
	return s.AttemptRepo.FindByID(attempt.ID)
}

func (s *AttemptService) ListForStudent(studentID uint) ([]model.StudentAttempt, error) {
	return s.AttemptRepo.ListByStudent(studentID)
}

func (s *AttemptService) GetForStudent(studentID uint, examID string) (*model.StudentAttempt, error) {
	attempt, err := s.AttemptRepo.FindByStudentAndExam(studentID, examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}
	return attempt, nil
}

func (s *AttemptService) findOwned(studentID uint, attemptID string) (*model.StudentAttempt, error) {
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
