package service

import (
	"assessment_backend/internal/model"
	"assessment_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var examDay = time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)

func inWindow() time.Time     { return time.Date(2024, 5, 20, 9, 30, 0, 0, time.UTC) }
func beforeWindow() time.Time { return time.Date(2024, 5, 20, 8, 0, 0, 0, time.UTC) }
func afterWindow() time.Time  { return time.Date(2024, 5, 20, 11, 0, 0, 0, time.UTC) }

func TestAssign(t *testing.T) {
	f := newFixture(t)
	exam := f.seedExam(t, examDay, "09:00", "10:30", true)

	attempt, err := f.attempts.Assign(AssignAttemptRequest{StudentID: 1, ExamID: exam.ID})
	require.NoError(t, err)

	assert.NotEmpty(t, attempt.ID)
	assert.Equal(t, model.AttemptAssigned, attempt.Status)
	assert.Equal(t, 1, attempt.AttemptNo)
	assert.Equal(t, model.GradingNotGraded, attempt.GradingStatus)
	assert.Nil(t, attempt.JoinAt)
	assert.Nil(t, attempt.SubmittedAt)
}

func TestAssignExamMissing(t *testing.T) {
	f := newFixture(t)

	_, err := f.attempts.Assign(AssignAttemptRequest{StudentID: 1, ExamID: "no-such-exam"})
	assert.ErrorIs(t, err, util.ErrExamNotFound)
}

func TestAssignUnpublished(t *testing.T) {
	f := newFixture(t)
	exam := f.seedExam(t, examDay, "09:00", "10:30", false)

	_, err := f.attempts.Assign(AssignAttemptRequest{StudentID: 1, ExamID: exam.ID})
	assert.ErrorIs(t, err, util.ErrExamNotPublished)
}

func TestAssignWhileActive(t *testing.T) {
	f := newFixture(t)
	exam := f.seedExam(t, examDay, "09:00", "10:30", true)

	_, err := f.attempts.Assign(AssignAttemptRequest{StudentID: 1, ExamID: exam.ID})
	require.NoError(t, err)

	// ASSIGNED 未终结，重复指派被拒
	_, err = f.attempts.Assign(AssignAttemptRequest{StudentID: 1, ExamID: exam.ID})
	assert.ErrorIs(t, err, util.ErrAlreadyAssigned)

	// 另一个学生不受影响
	_, err = f.attempts.Assign(AssignAttemptRequest{StudentID: 2, ExamID: exam.ID})
	assert.NoError(t, err)
}

func TestAssignAfterTerminal(t *testing.T) {
	f := newFixture(t)
	exam := f.seedExam(t, examDay, "09:00", "10:30", true)

	attempt := f.assignAndStart(t, 1, exam, inWindow())
	_, err := f.attempts.Submit(1, attempt.ID, SubmitAttemptRequest{Score: 80})
	require.NoError(t, err)

	// 上一次已终结，可以再次指派，序号递增
	second, err := f.attempts.Assign(AssignAttemptRequest{StudentID: 1, ExamID: exam.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, second.AttemptNo)
	assert.Equal(t, model.AttemptAssigned, second.Status)
}

func TestStart(t *testing.T) {
	f := newFixture(t)
	exam := f.seedExam(t, examDay, "09:00", "10:30", true)

	attempt, err := f.attempts.Assign(AssignAttemptRequest{StudentID: 1, ExamID: exam.ID})
	require.NoError(t, err)

	f.clockAt(inWindow())
	started, err := f.attempts.Start(1, attempt.ID)
	require.NoError(t, err)

	assert.Equal(t, model.AttemptInProgress, started.Status)
	require.NotNil(t, started.JoinAt)
	require.NotNil(t, started.StartedAt)
	assert.WithinDuration(t, inWindow(), *started.JoinAt, time.Second)
	require.NotNil(t, started.EndsAt)
	assert.WithinDuration(t, time.Date(2024, 5, 20, 10, 30, 0, 0, time.UTC), *started.EndsAt, time.Second)
}

func TestStartBeforeWindow(t *testing.T) {
	f := newFixture(t)
	exam := f.seedExam(t, examDay, "09:00", "10:30", true)

	attempt, err := f.attempts.Assign(AssignAttemptRequest{StudentID: 1, ExamID: exam.ID})
	require.NoError(t, err)

	f.clockAt(beforeWindow())
	_, err = f.attempts.Start(1, attempt.ID)
	assert.ErrorIs(t, err, util.ErrExamNotStartedYet)
}

func TestStartAfterWindow(t *testing.T) {
	f := newFixture(t)
	exam := f.seedExam(t, examDay, "09:00", "10:30", true)

	attempt, err := f.attempts.Assign(AssignAttemptRequest{StudentID: 1, ExamID: exam.ID})
	require.NoError(t, err)

	f.clockAt(afterWindow())
	_, err = f.attempts.Start(1, attempt.ID)
	assert.ErrorIs(t, err, util.ErrExamEnded)
}

func TestStartUnscheduled(t *testing.T) {
	f := newFixture(t)
	exam := f.seedUnscheduledExam(t, true)

	attempt, err := f.attempts.Assign(AssignAttemptRequest{StudentID: 1, ExamID: exam.ID})
	require.NoError(t, err)

	// 没有窗口等同尚未开放
	f.clockAt(inWindow())
	_, err = f.attempts.Start(1, attempt.ID)
	assert.ErrorIs(t, err, util.ErrExamNotStartedYet)
}

func TestStartWrongOwner(t *testing.T) {
	f := newFixture(t)
	exam := f.seedExam(t, examDay, "09:00", "10:30", true)

	attempt, err := f.attempts.Assign(AssignAttemptRequest{StudentID: 1, ExamID: exam.ID})
	require.NoError(t, err)

	f.clockAt(inWindow())
	_, err = f.attempts.Start(2, attempt.ID)
	assert.ErrorIs(t, err, util.ErrNotAttemptOwner)
}

func TestStartTwice(t *testing.T) {
	f := newFixture(t)
	exam := f.seedExam(t, examDay, "09:00", "10:30", true)
	attempt := f.assignAndStart(t, 1, exam, inWindow())

	_, err := f.attempts.Start(1, attempt.ID)
	assert.ErrorIs(t, err, util.ErrInvalidTransition)
}

func TestSubmitManual(t *testing.T) {
	f := newFixture(t)
	exam := f.seedExam(t, examDay, "09:00", "10:30", true)
	attempt := f.assignAndStart(t, 1, exam, inWindow())

	f.clockAt(time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC))
	submitted, err := f.attempts.Submit(1, attempt.ID, SubmitAttemptRequest{Score: 85, DurationInMinute: 30})
	require.NoError(t, err)

	assert.Equal(t, model.AttemptSubmitted, submitted.Status)
	assert.Equal(t, model.SubmitTriggerManual, submitted.SubmitTrigger)
	assert.Equal(t, model.GradingPending, submitted.GradingStatus)
	assert.Equal(t, 85.0, submitted.Score)
	assert.Equal(t, 85.0, submitted.TotalScore)
	assert.Equal(t, 30.0, submitted.DurationInMinute)
	require.NotNil(t, submitted.SubmittedAt)
}

func TestSubmitLate(t *testing.T) {
	f := newFixture(t)
	exam := f.seedExam(t, examDay, "09:00", "10:30", true)
	attempt := f.assignAndStart(t, 1, exam, inWindow())

	// 窗口已关的迟到提交不报错，静默转为过期
	f.clockAt(afterWindow())
	submitted, err := f.attempts.Submit(1, attempt.ID, SubmitAttemptRequest{Score: 85, DurationInMinute: 90})
	require.NoError(t, err)

	assert.Equal(t, model.AttemptExpired, submitted.Status)
	assert.Equal(t, model.SubmitTriggerAuto, submitted.SubmitTrigger)
	assert.Equal(t, model.GradingAutoExpired, submitted.GradingStatus)
	assert.Equal(t, 85.0, submitted.Score)
	require.NotNil(t, submitted.SubmittedAt)
}

func TestSubmitNotStarted(t *testing.T) {
	f := newFixture(t)
	exam := f.seedExam(t, examDay, "09:00", "10:30", true)

	attempt, err := f.attempts.Assign(AssignAttemptRequest{StudentID: 1, ExamID: exam.ID})
	require.NoError(t, err)

	f.clockAt(inWindow())
	_, err = f.attempts.Submit(1, attempt.ID, SubmitAttemptRequest{Score: 60})
	assert.ErrorIs(t, err, util.ErrInvalidTransition)
}

func TestSubmitTwice(t *testing.T) {
	f := newFixture(t)
	exam := f.seedExam(t, examDay, "09:00", "10:30", true)
	attempt := f.assignAndStart(t, 1, exam, inWindow())

	f.clockAt(time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC))
	_, err := f.attempts.Submit(1, attempt.ID, SubmitAttemptRequest{Score: 85})
	require.NoError(t, err)

	_, err = f.attempts.Submit(1, attempt.ID, SubmitAttemptRequest{Score: 100})
	assert.ErrorIs(t, err, util.ErrInvalidTransition)

	// 首次提交的分数不被第二次覆盖
	reloaded, err := f.attemptRepo.FindByID(attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, 85.0, reloaded.Score)
}

func TestSubmitLosesToSweeper(t *testing.T) {
	f := newFixture(t)
	exam := f.seedExam(t, examDay, "09:00", "10:30", true)
	attempt := f.assignAndStart(t, 1, exam, inWindow())

	// 后台清理先把记录置为过期
	require.NoError(t, f.sweeper.Run(afterWindow()))

	f.clockAt(afterWindow())
	_, err := f.attempts.Submit(1, attempt.ID, SubmitAttemptRequest{Score: 85, DurationInMinute: 90})
	assert.ErrorIs(t, err, util.ErrInvalidTransition)

	// 赢家写入的字段不被输家覆盖
	reloaded, err := f.attemptRepo.FindByID(attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AttemptExpired, reloaded.Status)
	assert.Equal(t, model.SubmitTriggerAuto, reloaded.SubmitTrigger)
	assert.Equal(t, model.GradingAutoExpired, reloaded.GradingStatus)
	assert.Equal(t, 0.0, reloaded.Score)
}

func TestConditionalWriteLoser(t *testing.T) {
	f := newFixture(t)
	exam := f.seedExam(t, examDay, "09:00", "10:30", true)
	attempt := f.assignAndStart(t, 1, exam, inWindow())

	// 模拟两个写者交错：双方都读到 IN_PROGRESS，清理先落盘
	stale, err := f.attemptRepo.FindByID(attempt.ID)
	require.NoError(t, err)
	require.Equal(t, model.AttemptInProgress, stale.Status)

	require.NoError(t, f.sweeper.Run(afterWindow()))

	// 输家带着过期的前置状态走条件更新，零行命中
	won, err := f.attemptRepo.TransitionStatus(stale.ID, model.AttemptInProgress, map[string]interface{}{
		"status":         model.AttemptSubmitted,
		"submit_trigger": model.SubmitTriggerManual,
		"grading_status": model.GradingPending,
		"score":          85.0,
	})
	require.NoError(t, err)
	assert.False(t, won)

	reloaded, err := f.attemptRepo.FindByID(attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AttemptExpired, reloaded.Status)
	assert.Equal(t, model.GradingAutoExpired, reloaded.GradingStatus)
	assert.Equal(t, 0.0, reloaded.Score)
}

func TestGradeFromSubmitted(t *testing.T) {
	f := newFixture(t)
	exam := f.seedExam(t, examDay, "09:00", "10:30", true)
	attempt := f.assignAndStart(t, 1, exam, inWindow())

	_, err := f.attempts.Submit(1, attempt.ID, SubmitAttemptRequest{Score: 85})
	require.NoError(t, err)

	graded, err := f.attempts.Grade(attempt.ID, GradeAttemptRequest{Score: 92, GradingStatus: "graded"})
	require.NoError(t, err)

	assert.Equal(t, model.AttemptGraded, graded.Status)
	assert.Equal(t, 92.0, graded.Score)
	assert.Equal(t, "graded", graded.GradingStatus)
}

func TestGradeFromExpired(t *testing.T) {
	f := newFixture(t)
	exam := f.seedExam(t, examDay, "09:00", "10:30", true)
	attempt := f.assignAndStart(t, 1, exam, inWindow())

	require.NoError(t, f.sweeper.Run(afterWindow()))

	graded, err := f.attempts.Grade(attempt.ID, GradeAttemptRequest{Score: 40, GradingStatus: "graded"})
	require.NoError(t, err)
	assert.Equal(t, model.AttemptGraded, graded.Status)
}

func TestGradeInvalidStates(t *testing.T) {
	f := newFixture(t)
	exam := f.seedExam(t, examDay, "09:00", "10:30", true)

	attempt, err := f.attempts.Assign(AssignAttemptRequest{StudentID: 1, ExamID: exam.ID})
	require.NoError(t, err)

	_, err = f.attempts.Grade(attempt.ID, GradeAttemptRequest{Score: 50, GradingStatus: "graded"})
	assert.ErrorIs(t, err, util.ErrInvalidTransition)

	started := f.assignAndStart(t, 2, exam, inWindow())
	_, err = f.attempts.Grade(started.ID, GradeAttemptRequest{Score: 50, GradingStatus: "graded"})
	assert.ErrorIs(t, err, util.ErrInvalidTransition)

	// 已评分的记录不能再评
	_, err = f.attempts.Submit(2, started.ID, SubmitAttemptRequest{Score: 70})
	require.NoError(t, err)
	_, err = f.attempts.Grade(started.ID, GradeAttemptRequest{Score: 75, GradingStatus: "graded"})
	require.NoError(t, err)
	_, err = f.attempts.Grade(started.ID, GradeAttemptRequest{Score: 99, GradingStatus: "graded"})
	assert.ErrorIs(t, err, util.ErrInvalidTransition)
}

func TestGradeMissing(t *testing.T) {
	f := newFixture(t)

	_, err := f.attempts.Grade("no-such-attempt", GradeAttemptRequest{Score: 1, GradingStatus: "graded"})
	assert.ErrorIs(t, err, util.ErrAttemptNotFound)
}

func TestListAndGetForStudent(t *testing.T) {
	f := newFixture(t)
	exam := f.seedExam(t, examDay, "09:00", "10:30", true)

	_, err := f.attempts.Assign(AssignAttemptRequest{StudentID: 1, ExamID: exam.ID})
	require.NoError(t, err)

	attempts, err := f.attempts.ListForStudent(1)
	require.NoError(t, err)
	assert.Len(t, attempts, 1)

	attempts, err = f.attempts.ListForStudent(2)
	require.NoError(t, err)
	assert.Empty(t, attempts)

	latest, err := f.attempts.GetForStudent(1, exam.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, latest.AttemptNo)

	_, err = f.attempts.GetForStudent(2, exam.ID)
	assert.ErrorIs(t, err, util.ErrAttemptNotFound)
}
