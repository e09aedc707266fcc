package service

import (
	"assessment_backend/internal/model"
	"assessment_backend/internal/repository"
	"assessment_backend/pkg/logger"
	"assessment_backend/pkg/monitoring"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ExpirySweeper 周期性把窗口已结束却仍 IN_PROGRESS 的记录强制置为 EXPIRED。
// 幂等：已终态的记录在下一轮直接被过滤掉；单行失败只记日志不中断整轮
type ExpirySweeper struct {
	AttemptRepo *repository.AttemptRepository
	ExamRepo    *repository.ExamRepository
	Loc         *time.Location

	mu sync.Mutex
}

func NewExpirySweeper(attemptRepo *repository.AttemptRepository, examRepo *repository.ExamRepository, loc *time.Location) *ExpirySweeper {
	return &ExpirySweeper{
		AttemptRepo: attemptRepo,
		ExamRepo:    examRepo,
		Loc:         loc,
	}
}

// Run 执行一轮清理。now 由调用方传入，定时器传 time.Now()，测试可以传定值。
// 上一轮还没跑完时直接跳过本轮，绝不并行两轮
func (s *ExpirySweeper) Run(now time.Time) error {
	if !s.mu.TryLock() {
		logger.Log.Warn("expiry sweep still running, skipping tick")
		return nil
	}
	defer s.mu.Unlock()

	logger.Log.Debug("expiry sweep started")

	nowBiz := now.In(s.Loc)
	attempts, err := s.AttemptRepo.ListByStatus(model.AttemptInProgress)
	if err != nil {
		// 整轮拿不到列表只能放弃，下一轮从头再来
		logger.Log.Error("expiry sweep: list in-progress attempts failed", zap.Error(err))
		return err
	}
	if len(attempts) == 0 {
		return nil
	}

	exams := make(map[string]*model.Exam)
	expired := 0
	for i := range attempts {
		attempt := &attempts[i]

		exam, ok := exams[attempt.ExamID]
		if !ok {
			exam, err = s.ExamRepo.FindByID(attempt.ExamID)
			if err != nil {
				logger.Log.Error("expiry sweep: load exam failed",
					zap.String("examId", attempt.ExamID),
					zap.String("attemptId", attempt.ID),
					zap.Error(err))
				continue
			}
			exams[attempt.ExamID] = exam
		}

		if ClassifyWindow(ScheduleOf(exam), nowBiz) != WindowEnded {
			continue
		}

		updates := map[string]interface{}{
			"status":         model.AttemptExpired,
			"submitted_at":   now.UTC(),
			"submit_trigger": model.SubmitTriggerAuto,
			"grading_status": model.GradingAutoExpired,
		}
		if attempt.JoinAt != nil {
			// 两端都换算到营业时区再取整分钟差，避免换算取整漂移
			minutes := int64(nowBiz.Sub(attempt.JoinAt.In(s.Loc)).Minutes())
			updates["duration_in_minute"] = float64(minutes)
		}

		won, err := s.AttemptRepo.TransitionStatus(attempt.ID, model.AttemptInProgress, updates)
		if err != nil {
			logger.Log.Error("expiry sweep: expire attempt failed",
				zap.String("attemptId", attempt.ID),
				zap.Error(err))
			continue
		}
		if !won {
			// 和用户提交撞上了，对方赢，跳过即可
			continue
		}

		expired++
		monitoring.ExpiredAttempts.Inc()
		logger.Log.Info("auto-expired attempt",
			zap.String("attemptId", attempt.ID),
			zap.Uint("studentId", attempt.StudentID),
			zap.String("examId", attempt.ExamID))
	}

	if expired > 0 {
		logger.Log.Info("expiry sweep finished", zap.Int("expired", expired))
	}
	return nil
}
