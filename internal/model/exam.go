package model

import (
	"encoding/json"
	"time"
)

// swagger:model Exam
// Exam 考试（含单日考试窗口），窗口三字段要么全有要么全无
type Exam struct {
	UUIDBase
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	IsQuiz      bool   `gorm:"default:false" json:"isQuiz"`
	SubjectID   string `gorm:"size:36;index" json:"subjectId"`
	IsPublished bool   `gorm:"default:false" json:"isPublished"`

	// 考试窗口，按营业时区解释；时刻格式 "15:04"
	ExamDate  *time.Time `gorm:"type:date" json:"examDate,omitempty"`
	StartTime *string    `gorm:"size:5" json:"startTime,omitempty"`
	EndTime   *string    `gorm:"size:5" json:"endTime,omitempty"`

	CreatedBy uint `gorm:"index" json:"createdBy"`
}

func (Exam) TableName() string {
	return "exams"
}

// swagger:model Section
type Section struct {
	UUIDBase
	ExamID string `gorm:"index;type:varchar(36);not null" json:"examId"`
	Title  string `gorm:"size:255;not null" json:"title"`
	Order  int    `gorm:"default:0" json:"order"`
}

func (Section) TableName() string {
	return "sections"
}

// swagger:model Question
type Question struct {
	UUIDBase
	ExamID       string          `gorm:"index;type:varchar(36);not null" json:"examId"`
	SectionID    string          `gorm:"index;type:varchar(36)" json:"sectionId"`
	QuestionType string          `gorm:"size:50;not null" json:"questionType"`
	Content      string          `gorm:"type:text;not null" json:"content"`
	Options      json.RawMessage `gorm:"type:json" json:"options,omitempty"`
	Points       float64         `gorm:"default:0" json:"points"`
	Order        int             `gorm:"default:0" json:"order"`
}

func (Question) TableName() string {
	return "questions"
}
