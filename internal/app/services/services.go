package services

import "time"

// Services defined in this package:
// - AuthService: coordinator signup, login and token verification
// - StudentService: the coordinator's roster, bulk import and export
// - DriveService: vaccination drives, scheduling guard, lifecycle and attendance
// - ReportService: dashboard and report rollups

// Clock returns the current time
type Clock func() time.Time

func defaultClock(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}
