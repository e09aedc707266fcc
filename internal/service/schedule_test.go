package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestClassifyWindow(t *testing.T) {
	day := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	sch := Schedule{
		Date:      &day,
		StartTime: strPtr("09:00"),
		EndTime:   strPtr("10:30"),
	}

	cases := []struct {
		name string
		now  time.Time
		want WindowState
	}{
		{"前一天深夜", time.Date(2024, 5, 19, 23, 59, 59, 0, time.UTC), WindowNotStarted},
		{"当天开考前一秒", time.Date(2024, 5, 20, 8, 59, 59, 0, time.UTC), WindowNotStarted},
		{"开考时刻含边界", time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC), WindowActive},
		{"窗口中段", time.Date(2024, 5, 20, 9, 45, 12, 0, time.UTC), WindowActive},
		{"结束时刻含边界", time.Date(2024, 5, 20, 10, 30, 0, 0, time.UTC), WindowActive},
		{"结束后一秒", time.Date(2024, 5, 20, 10, 30, 1, 0, time.UTC), WindowEnded},
		{"次日凌晨", time.Date(2024, 5, 21, 0, 0, 0, 0, time.UTC), WindowEnded},
		{"一周以后", time.Date(2024, 5, 27, 9, 30, 0, 0, time.UTC), WindowEnded},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyWindow(sch, tc.now))
		})
	}
}

func TestClassifyWindowPure(t *testing.T) {
	day := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	sch := Schedule{Date: &day, StartTime: strPtr("09:00"), EndTime: strPtr("10:30")}
	now := time.Date(2024, 5, 20, 9, 30, 0, 0, time.UTC)

	first := ClassifyWindow(sch, now)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ClassifyWindow(sch, now))
	}
}

func TestClassifyWindowIncomplete(t *testing.T) {
	day := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 5, 20, 9, 30, 0, 0, time.UTC)

	cases := []struct {
		name string
		sch  Schedule
	}{
		{"全空", Schedule{}},
		{"缺日期", Schedule{StartTime: strPtr("09:00"), EndTime: strPtr("10:30")}},
		{"缺开始时刻", Schedule{Date: &day, EndTime: strPtr("10:30")}},
		{"缺结束时刻", Schedule{Date: &day, StartTime: strPtr("09:00")}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, WindowNotStarted, ClassifyWindow(tc.sch, now))
			assert.False(t, tc.sch.Complete())
		})
	}
}

func TestClassifyWindowBadClock(t *testing.T) {
	day := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 5, 20, 9, 30, 0, 0, time.UTC)

	sch := Schedule{Date: &day, StartTime: strPtr("9am"), EndTime: strPtr("10:30")}
	assert.Equal(t, WindowNotStarted, ClassifyWindow(sch, now))

	sch = Schedule{Date: &day, StartTime: strPtr("09:00"), EndTime: strPtr("25:99")}
	assert.Equal(t, WindowNotStarted, ClassifyWindow(sch, now))
}

func TestWindowEnd(t *testing.T) {
	day := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	sch := Schedule{Date: &day, StartTime: strPtr("09:00"), EndTime: strPtr("10:30")}

	end, ok := WindowEnd(sch, time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 5, 20, 10, 30, 0, 0, time.UTC), end)

	_, ok = WindowEnd(Schedule{Date: &day}, time.UTC)
	assert.False(t, ok)
}

func TestWindowStateString(t *testing.T) {
	assert.Equal(t, "NOT_STARTED", WindowNotStarted.String())
	assert.Equal(t, "ACTIVE", WindowActive.String())
	assert.Equal(t, "ENDED", WindowEnded.String())
}
