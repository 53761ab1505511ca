package timefmt

import (
	"fmt"
	"time"
)

// HoursToClock переводит десятичные часы (например 1.5) в строку ЧЧ:ММ:СС.
// Часы, минуты и секунды округляются вниз, дальше секунд не округляем.
func HoursToClock(hours float64) string {
	wholeHours := int(hours)
	minutes := int((hours - float64(wholeHours)) * 60)
	seconds := int(((hours-float64(wholeHours))*60 - float64(minutes)) * 60)

	return fmt.Sprintf("%02d:%02d:%02d", wholeHours, minutes, seconds)
}

// Elapsed форматирует прошедшее время как ЧЧ:ММ:СС с ведущими нулями.
// Часы не ограничены 24 - счетчик может показывать и 25:00:00.
func Elapsed(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	if totalSeconds < 0 {
		totalSeconds = 0
	}

	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// HoursToHuman переводит десятичные часы в короткий вид "1ч 30м" для списков.
func HoursToHuman(hours float64) string {
	wholeHours := int(hours)
	minutes := int((hours-float64(wholeHours))*60 + 0.5)

	if minutes == 0 {
		return fmt.Sprintf("%dч", wholeHours)
	}
	return fmt.Sprintf("%dч %dм", wholeHours, minutes)
}
