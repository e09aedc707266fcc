package service

import (
	"assessment_backend/internal/model"
	"assessment_backend/internal/repository"
	"assessment_backend/internal/util"
	"assessment_backend/pkg/logger"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GroupService 学生分组与按组指派。按组指派逐个学生走同一套
// 指派校验，已有未终结记录的成员跳过不报错
type GroupService struct {
	GroupRepo *repository.GroupRepository
	Attempts  *AttemptService
}

func NewGroupService(groupRepo *repository.GroupRepository, attempts *AttemptService) *GroupService {
	return &GroupService{
		GroupRepo: groupRepo,
		Attempts:  attempts,
	}
}

type GroupRequest struct {
	Name string `json:"name" binding:"required"`
}

func (s *GroupService) CreateGroup(creatorID uint, req GroupRequest) (*model.StudentGroup, error) {
	group := &model.StudentGroup{
		Name:      req.Name,
		CreatedBy: creatorID,
	}
	if err := s.GroupRepo.Create(group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *GroupService) ListGroups(page, limit int) ([]model.StudentGroup, int64, error) {
	return s.GroupRepo.List(page, limit)
}

type AddMemberRequest struct {
	StudentID uint `json:"studentId" binding:"required"`
}

func (s *GroupService) AddMember(groupID string, req AddMemberRequest) (*model.GroupMember, error) {
	if _, err := s.GroupRepo.FindByID(groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrGroupNotFound
		}
		return nil, err
	}

	member := &model.GroupMember{
		GroupID:   groupID,
		StudentID: req.StudentID,
	}
	if err := s.GroupRepo.AddMember(member); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrAlreadyMember
		}
		return nil, err
	}
	return member, nil
}

func (s *GroupService) ListMembers(groupID string) ([]model.GroupMember, error) {
	if _, err := s.GroupRepo.FindByID(groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrGroupNotFound
		}
		return nil, err
	}
	return s.GroupRepo.ListMembers(groupID)
}

// GroupAssignResult 按组指派的结果：新建的记录与被跳过的成员数
type GroupAssignResult struct {
	Assigned []model.StudentAttempt `json:"assigned"`
	Skipped  int                    `json:"skipped"`
}

// AssignExam 把考试指派给组内全部成员。个别成员已有未终结记录时跳过该成员，
// 考试不存在或未发布则整体失败
func (s *GroupService) AssignExam(groupID, examID string) (*GroupAssignResult, error) {
	members, err := s.ListMembers(groupID)
	if err != nil {
		return nil, err
	}

	result := &GroupAssignResult{Assigned: []model.StudentAttempt{}}
	for _, member := range members {
		attempt, err := s.Attempts.Assign(AssignAttemptRequest{
			StudentID: member.StudentID,
			ExamID:    examID,
		})
		if err != nil {
			if errors.Is(err, util.ErrAlreadyAssigned) {
				result.Skipped++
				continue
			}
			return nil, err
		}
		result.Assigned = append(result.Assigned, *attempt)
	}

	logger.Log.Info("exam assigned to group",
		zap.String("groupId", groupID),
		zap.String("examId", examID),
		zap.Int("assigned", len(result.Assigned)),
		zap.Int("skipped", result.Skipped))
	return result, nil
}
