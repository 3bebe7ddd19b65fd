package utils

import (
	"math"
	"time"
)

const day = 24 * time.Hour

// DaysLeft is the number of started days until deadline, never negative.
func DaysLeft(deadline, now time.Time) int {
	if !now.Before(deadline) {
		return 0
	}
	return int(math.Ceil(float64(deadline.Sub(now)) / float64(day)))
}

// TotalPages returns how many pages of size limit hold total items.
func TotalPages(total int64, limit int) int {
	if limit < 1 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// Percent rounds part/whole*100 to the nearest integer.
func Percent(part, whole int64) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}
