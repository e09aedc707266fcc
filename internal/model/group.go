package model

// swagger:model StudentGroup
// StudentGroup 学生分组，教师按组一次性指派考试
type StudentGroup struct {
	UUIDBase
	Name      string `gorm:"size:100;not null" json:"name"`
	CreatedBy uint   `gorm:"index" json:"createdBy"`
}

func (StudentGroup) TableName() string {
	return "student_groups"
}

// swagger:model GroupMember
type GroupMember struct {
	UUIDBase
	GroupID   string `gorm:"type:varchar(36);not null;index;uniqueIndex:uniq_group_student" json:"groupId"`
	StudentID uint   `gorm:"not null;index;uniqueIndex:uniq_group_student" json:"studentId"`
}

func (GroupMember) TableName() string {
	return "group_members"
}
