package util

const (
	DateFormat      = "2006-01-02"
	TimeOfDayFormat = "15:04"
	TimeFormat      = "2006-01-02 15:04:05"
)

// 默认营业时区，所有考试窗口按此时区判定
const DefaultExamTimezone = "Asia/Phnom_Penh"
