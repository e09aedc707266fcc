package model

import "time"

type AttemptStatus string

// 状态只沿 ASSIGNED → IN_PROGRESS → {SUBMITTED, EXPIRED} → GRADED 流转；
// ASSIGNED 不能直接结束，GRADED 为终态
const (
	AttemptAssigned   AttemptStatus = "ASSIGNED"
	AttemptInProgress AttemptStatus = "IN_PROGRESS"
	AttemptSubmitted  AttemptStatus = "SUBMITTED"
	AttemptExpired    AttemptStatus = "EXPIRED"
	AttemptGraded     AttemptStatus = "GRADED"
)

const (
	SubmitTriggerManual = "manual"
	SubmitTriggerAuto   = "auto"
)

const (
	GradingNotGraded   = "not graded"
	GradingPending     = "pending"
	GradingAutoExpired = "auto-expired"
)

// Terminal 终态记录只读保留，不再参与任何流转
func (s AttemptStatus) Terminal() bool {
	return s == AttemptSubmitted || s == AttemptExpired || s == AttemptGraded
}

// swagger:model StudentAttempt
type StudentAttempt struct {
	UUIDBase
	StudentID uint          `gorm:"not null;index;uniqueIndex:uniq_student_exam_attempt" json:"studentId"`
	ExamID    string        `gorm:"type:varchar(36);not null;index;uniqueIndex:uniq_student_exam_attempt" json:"examId"`
	AttemptNo int           `gorm:"default:1;uniqueIndex:uniq_student_exam_attempt" json:"attemptNo"`
	Status    AttemptStatus `gorm:"size:20;index;default:'ASSIGNED'" json:"status"`

	JoinAt      *time.Time `json:"joinAt,omitempty"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	EndsAt      *time.Time `json:"endsAt,omitempty"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`

	SubmitTrigger    string  `gorm:"size:10" json:"submitTrigger"`
	DurationInMinute float64 `gorm:"default:0" json:"durationInMinute"`
	Score            float64 `gorm:"default:0" json:"score"`
	TotalScore       float64 `gorm:"default:0" json:"totalScore"`
	GradingStatus    string  `gorm:"size:50;default:'not graded'" json:"gradingStatus"`
}

func (StudentAttempt) TableName() string {
	return "student_attempts"
}
