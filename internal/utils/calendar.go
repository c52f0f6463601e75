package utils

import "time"

// CalendarDateRange 计算日历视图所需的时间窗口，一周从周日开始
func CalendarDateRange(anchor time.Time) (time.Time, time.Time) {
	return CalendarDateRangeFrom(anchor, time.Sunday)
}

// CalendarDateRangeFrom 返回 anchor 所在月份按整周扩展后的区间：
// 起点为月初所在周的第一天 00:00，终点为月末所在周最后一天的最后一纳秒
func CalendarDateRangeFrom(anchor time.Time, weekStart time.Weekday) (time.Time, time.Time) {
	loc := anchor.Location()
	monthStart := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, loc)
	monthEnd := monthStart.AddDate(0, 1, -1)

	// Modulo 的除数为 7，不会返回错误
	offset, _ := Modulo(int(monthStart.Weekday())-int(weekStart), 7)
	start := monthStart.AddDate(0, 0, -offset)

	remaining, _ := Modulo(int(weekStart)-int(monthEnd.Weekday())-1, 7)
	end := monthEnd.AddDate(0, 0, remaining+1).Add(-time.Nanosecond)

	return start, end
}

// StartOfDay 返回 t 当天的 00:00
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
