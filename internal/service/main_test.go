package service

import (
	"assessment_backend/internal/model"
	"assessment_backend/internal/repository"
	"assessment_backend/pkg/database"
	"assessment_backend/pkg/logger"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 内存库每个连接各是一份独立数据，必须限制为单连接
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))
	return db
}

type fixture struct {
	db *gorm.DB

	attemptRepo *repository.AttemptRepository
	examRepo    *repository.ExamRepository
	answerRepo  *repository.AnswerRepository
	groupRepo   *repository.GroupRepository

	attempts *AttemptService
	answers  *AnswerService
	groups   *GroupService
	sweeper  *ExpirySweeper
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := newTestDB(t)
	attemptRepo := repository.NewAttemptRepository(db)
	examRepo := repository.NewExamRepository(db)
	answerRepo := repository.NewAnswerRepository(db)
	groupRepo := repository.NewGroupRepository(db)

	attempts := NewAttemptService(attemptRepo, examRepo, time.UTC)
	return &fixture{
		db:          db,
		attemptRepo: attemptRepo,
		examRepo:    examRepo,
		answerRepo:  answerRepo,
		groupRepo:   groupRepo,
		attempts:    attempts,
		answers:     NewAnswerService(answerRepo, attemptRepo, examRepo),
		groups:      NewGroupService(groupRepo, attempts),
		sweeper:     NewExpirySweeper(attemptRepo, examRepo, time.UTC),
	}
}

// clockAt 把服务的时钟钉死在某一时刻
func (f *fixture) clockAt(ts time.Time) {
	f.attempts.now = func() time.Time { return ts }
}

func (f *fixture) seedExam(t *testing.T, date time.Time, start, end string, published bool) *model.Exam {
	t.Helper()

	exam := &model.Exam{
		Name:        "期末考试",
		IsPublished: published,
		ExamDate:    &date,
		StartTime:   &start,
		EndTime:     &end,
	}
	require.NoError(t, f.db.Create(exam).Error)
	return exam
}

func (f *fixture) seedUnscheduledExam(t *testing.T, published bool) *model.Exam {
	t.Helper()

	exam := &model.Exam{Name: "未排期考试", IsPublished: published}
	require.NoError(t, f.db.Create(exam).Error)
	return exam
}

func (f *fixture) seedQuestion(t *testing.T, examID string) *model.Question {
	t.Helper()

	q := &model.Question{
		ExamID:       examID,
		QuestionType: "single_choice",
		Content:      "1+1=?",
		Points:       5,
	}
	require.NoError(t, f.db.Create(q).Error)
	return q
}

// assignAndStart 在窗口内完成指派并开考，返回 IN_PROGRESS 的记录
func (f *fixture) assignAndStart(t *testing.T, studentID uint, exam *model.Exam, now time.Time) *model.StudentAttempt {
	t.Helper()

	attempt, err := f.attempts.Assign(AssignAttemptRequest{StudentID: studentID, ExamID: exam.ID})
	require.NoError(t, err)

	f.clockAt(now)
	attempt, err = f.attempts.Start(studentID, attempt.ID)
	require.NoError(t, err)
	require.Equal(t, model.AttemptInProgress, attempt.Status)
	return attempt
}
