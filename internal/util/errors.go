package util

import "errors"

var (
	ErrUserNotFound    = errors.New("用户不存在")
	ErrEmailRegistered = errors.New("该邮箱已被注册")

	ErrExamNotFound     = errors.New("exam not found")
	ErrExamNotPublished = errors.New("exam not published")
	ErrInvalidSchedule  = errors.New("invalid exam schedule")

	ErrGroupNotFound = errors.New("group not found")
	ErrAlreadyMember = errors.New("student already in this group")

	ErrAttemptNotFound   = errors.New("attempt not found")
	ErrQuestionNotFound  = errors.New("question not found")
	ErrAlreadyAssigned   = errors.New("exam already assigned to this student")
	ErrInvalidTransition = errors.New("operation not allowed in current attempt status")
	ErrExamNotStartedYet = errors.New("exam has not started yet")
	ErrExamEnded         = errors.New("exam has ended")
	ErrAttemptNotActive  = errors.New("attempt is not in progress")
	ErrNotAttemptOwner   = errors.New("attempt does not belong to current student")
)
