package model

import (
	"encoding/json"
	"time"
)

// swagger:model Answer
// Answer 每个 (attempt, question) 至多一条，重复保存就地覆盖
type Answer struct {
	UUIDBase
	AttemptID  string          `gorm:"type:varchar(36);not null;uniqueIndex:uniq_answer_per_attempt_question" json:"attemptId"`
	QuestionID string          `gorm:"type:varchar(36);not null;uniqueIndex:uniq_answer_per_attempt_question" json:"questionId"`
	Answer     json.RawMessage `gorm:"type:json" json:"answer"`
	Score      *float64        `json:"score,omitempty"`
	SavedAt    time.Time       `gorm:"not null" json:"savedAt"`
}

func (Answer) TableName() string {
	return "answers"
}
