package service

import (
	"assessment_backend/internal/model"
	"assessment_backend/internal/repository"
	"assessment_backend/internal/util"
	"assessment_backend/pkg/logger"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	examCacheKeyPrefix = "exam:detail:"
	examCacheTTL       = 10 * time.Minute
)

// ExamService 考试内容管理：试卷、小节、题目与考试窗口排期。
// 作答核心只读这里的发布标志和窗口
type ExamService struct {
	Repo  *repository.ExamRepository
	Redis *redis.Client
}

func NewExamService(repo *repository.ExamRepository, rdb *redis.Client) *ExamService {
	return &ExamService{Repo: repo, Redis: rdb}
}

type ExamRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IsQuiz      bool   `json:"isQuiz"`
	SubjectID   string `json:"subjectId"`
}

func (s *ExamService) CreateExam(creatorID uint, req ExamRequest) (*model.Exam, error) {
	exam := &model.Exam{
		Name:        req.Name,
		Description: req.Description,
		IsQuiz:      req.IsQuiz,
		SubjectID:   req.SubjectID,
		CreatedBy:   creatorID,
	}
	if err := s.Repo.Create(exam); err != nil {
		return nil, err
	}
	return exam, nil
}

func (s *ExamService) ListExams(page, limit int) ([]model.Exam, int64, error) {
	return s.Repo.List(page, limit)
}

func (s *ExamService) GetExam(id string) (*model.Exam, error) {
	if cached := s.cacheGet(id); cached != nil {
		return cached, nil
	}

	exam, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrExamNotFound
		}
		return nil, err
	}

	s.cacheSet(exam)
	return exam, nil
}

type ScheduleRequest struct {
	ExamDate    string `json:"examDate" binding:"required"`
	StartTime   string `json:"startTime" binding:"required"`
	EndTime     string `json:"endTime" binding:"required"`
	IsPublished bool   `json:"isPublished"`
}

// UpdateSchedule 设置单日窗口并同步发布标志。窗口三字段全有或全无，
// 这里走全有分支；开始时刻必须早于结束时刻
func (s *ExamService) UpdateSchedule(id string, req ScheduleRequest) (*model.Exam, error) {
	exam, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrExamNotFound
		}
		return nil, err
	}

	date, err := time.Parse(util.DateFormat, req.ExamDate)
	if err != nil {
		return nil, fmt.Errorf("%w: examDate must be %s", util.ErrInvalidSchedule, util.DateFormat)
	}
	start, err := time.Parse(util.TimeOfDayFormat, req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: startTime must be %s", util.ErrInvalidSchedule, util.TimeOfDayFormat)
	}
	end, err := time.Parse(util.TimeOfDayFormat, req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: endTime must be %s", util.ErrInvalidSchedule, util.TimeOfDayFormat)
	}
	if !start.Before(end) {
		return nil, fmt.Errorf("%w: startTime must be before endTime", util.ErrInvalidSchedule)
	}

	startStr := req.StartTime
	endStr := req.EndTime
	exam.ExamDate = &date
	exam.StartTime = &startStr
	exam.EndTime = &endStr
	exam.IsPublished = req.IsPublished

	if err := s.Repo.Update(exam); err != nil {
		return nil, err
	}

	s.cacheDel(exam.ID)
	logger.Log.Info("exam schedule updated",
		zap.String("examId", exam.ID),
		zap.String("examDate", req.ExamDate),
		zap.Bool("published", req.IsPublished))
	return exam, nil
}

type SectionRequest struct {
	Title string `json:"title" binding:"required"`
	Order int    `json:"order"`
}

func (s *ExamService) CreateSection(examID string, req SectionRequest) (*model.Section, error) {
	if _, err := s.Repo.FindByID(examID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrExamNotFound
		}
		return nil, err
	}
	section := &model.Section{
		ExamID: examID,
		Title:  req.Title,
		Order:  req.Order,
	}
	if err := s.Repo.CreateSection(section); err != nil {
		return nil, err
	}
	return section, nil
}

func (s *ExamService) ListSections(examID string) ([]model.Section, error) {
	return s.Repo.ListSections(examID)
}

type QuestionRequest struct {
	SectionID    string          `json:"sectionId"`
	QuestionType string          `json:"questionType" binding:"required"`
	Content      string          `json:"content" binding:"required"`
	Options      json.RawMessage `json:"options"`
	Points       float64         `json:"points"`
	Order        int             `json:"order"`
}

func (s *ExamService) CreateQuestion(examID string, req QuestionRequest) (*model.Question, error) {
	if _, err := s.Repo.FindByID(examID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrExamNotFound
		}
		return nil, err
	}
	q := &model.Question{
		ExamID:       examID,
		SectionID:    req.SectionID,
		QuestionType: req.QuestionType,
		Content:      req.Content,
		Options:      req.Options,
		Points:       req.Points,
		Order:        req.Order,
	}
	if err := s.Repo.CreateQuestion(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *ExamService) ListQuestions(examID string) ([]model.Question, error) {
	return s.Repo.ListQuestions(examID)
}

// 缓存只是读加速，Redis 不可用时全部直连数据库

func (s *ExamService) cacheGet(id string) *model.Exam {
	if s.Redis == nil {
		return nil
	}
	val, err := s.Redis.Get(context.Background(), examCacheKeyPrefix+id).Result()
	if err != nil {
		return nil
	}
	var exam model.Exam
	if err := json.Unmarshal([]byte(val), &exam); err != nil {
		return nil
	}
	return &exam
}

func (s *ExamService) cacheSet(exam *model.Exam) {
	if s.Redis == nil {
		return
	}
	data, err := json.Marshal(exam)
	if err != nil {
		return
	}
	if err := s.Redis.Set(context.Background(), examCacheKeyPrefix+exam.ID, data, examCacheTTL).Err(); err != nil {
		logger.Log.Warn("exam cache set failed", zap.String("examId", exam.ID), zap.Error(err))
	}
}

func (s *ExamService) cacheDel(id string) {
	if s.Redis == nil {
		return
	}
	s.Redis.Del(context.Background(), examCacheKeyPrefix+id)
}
