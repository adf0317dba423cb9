package utils

import "time"

// SeoulLocation is the zone used for every duty-hour comparison.
var SeoulLocation = loadSeoulLocation()

func loadSeoulLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		return time.FixedZone("KST", 9*60*60)
	}
	return loc
}

// SeoulNow returns the current time in Asia/Seoul.
func SeoulNow() time.Time {
	return time.Now().In(SeoulLocation)
}

// WeekdayIndex maps t to 0=Monday ... 6=Sunday in Seoul local time.
func WeekdayIndex(t time.Time) int {
	return (int(t.In(SeoulLocation).Weekday()) + 6) % 7
}

// ClockHHMM returns the Seoul wall-clock time of t as an HHMM integer (14:30 -> 1430).
func ClockHHMM(t time.Time) int {
	local := t.In(SeoulLocation)
	return local.Hour()*100 + local.Minute()
}
