package service

import (
	"assessment_backend/internal/model"
	"assessment_backend/internal/util"
	"time"
)

// WindowState 单日考试窗口相对某一时刻的状态
type WindowState int

const (
	WindowNotStarted WindowState = iota
	WindowActive
	WindowEnded
)

func (w WindowState) String() string {
	switch w {
	case WindowActive:
		return "ACTIVE"
	case WindowEnded:
		return "ENDED"
	default:
		return "NOT_STARTED"
	}
}

// Schedule 考试窗口三元组，三个字段要么全有要么全无
type Schedule struct {
	Date      *time.Time
	StartTime *string
	EndTime   *string
}

func ScheduleOf(exam *model.Exam) Schedule {
	return Schedule{
		Date:      exam.ExamDate,
		StartTime: exam.StartTime,
		EndTime:   exam.EndTime,
	}
}

func (s Schedule) Complete() bool {
	return s.Date != nil && s.StartTime != nil && s.EndTime != nil
}

// ClassifyWindow 判定窗口状态。now 必须已换算到营业时区；
// 窗口不完整视为尚未开放。纯函数，同输入必同输出
func ClassifyWindow(s Schedule, now time.Time) WindowState {
	if !s.Complete() {
		return WindowNotStarted
	}

	startSec, err := secondOfDay(*s.StartTime)
	if err != nil {
		return WindowNotStarted
	}
	endSec, err := secondOfDay(*s.EndTime)
	if err != nil {
		return WindowNotStarted
	}

	nowY, nowM, nowD := now.Date()
	examY, examM, examD := s.Date.Date()
	today := time.Date(nowY, nowM, nowD, 0, 0, 0, 0, time.UTC)
	examDay := time.Date(examY, examM, examD, 0, 0, 0, 0, time.UTC)

	switch {
	case today.Before(examDay):
		return WindowNotStarted
	case today.After(examDay):
		return WindowEnded
	}

	// 同一天：边界两端均含
	nowSec := now.Hour()*3600 + now.Minute()*60 + now.Second()
	switch {
	case nowSec < startSec:
		return WindowNotStarted
	case nowSec > endSec:
		return WindowEnded
	default:
		return WindowActive
	}
}

// WindowEnd 窗口在营业时区下的结束时刻；窗口不完整时返回 false
func WindowEnd(s Schedule, loc *time.Location) (time.Time, bool) {
	if !s.Complete() {
		return time.Time{}, false
	}
	endSec, err := secondOfDay(*s.EndTime)
	if err != nil {
		return time.Time{}, false
	}
	y, m, d := s.Date.Date()
	return time.Date(y, m, d, endSec/3600, (endSec/60)%60, endSec%60, 0, loc), true
}

func secondOfDay(clock string) (int, error) {
	t, err := time.Parse(util.TimeOfDayFormat, clock)
	if err != nil {
		return 0, err
	}
	return t.Hour()*3600 + t.Minute()*60 + t.Second(), nil
}
