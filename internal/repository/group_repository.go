package repository

import (
	"assessment_backend/internal/model"

	"gorm.io/gorm"
)

type GroupRepository struct {
	DB *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{DB: db}
}

func (r *GroupRepository) Create(group *model.StudentGroup) error {
	return r.DB.Create(group).Error
}

func (r *GroupRepository) FindByID(id string) (*model.StudentGroup, error) {
	var g model.StudentGroup
	if err := r.DB.First(&g, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GroupRepository) List(page, limit int) ([]model.StudentGroup, int64, error) {
	var groups []model.StudentGroup
	var total int64

	if err := r.DB.Model(&model.StudentGroup{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.DB.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&groups).Error
	return groups, total, err
}

func (r *GroupRepository) AddMember(member *model.GroupMember) error {
	return r.DB.Create(member).Error
}

func (r *GroupRepository) ListMembers(groupID string) ([]model.GroupMember, error) {
	var members []model.GroupMember
	err := r.DB.Where("group_id = ?", groupID).Order("created_at ASC").Find(&members).Error
	return members, err
}
