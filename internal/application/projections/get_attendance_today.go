package projections

import (
	"context"
	"sort"
	"time"

	"gymportal/internal/application/listutil"
	"gymportal/internal/domain/attendance"
)

// AttendanceRecordsClient defines the attendance surface needed by the
// records projection.
type AttendanceRecordsClient interface {
	Records(ctx context.Context, token string) ([]attendance.ScanRecord, error)
	CheckedIn(ctx context.Context, token string) ([]attendance.ScanRecord, error)
}

// GetAttendanceTodayQuery carries input for the attendance records projection.
type GetAttendanceTodayQuery struct {
	Token  string
	Params listutil.ListParams
	Now    time.Time // zero means time.Now()
}

// GetAttendanceTodayDeps holds dependencies for the attendance projection.
type GetAttendanceTodayDeps struct {
	Attendance AttendanceRecordsClient
}

// AttendanceTodayResult carries today's scans plus who is on the floor now.
type AttendanceTodayResult struct {
	Records      []attendance.ScanRecord
	CheckedInNow []attendance.ScanRecord
	PageInfo     listutil.PageInfo
}

// QueryGetAttendanceToday lists today's scans, newest first, filtered and
// paged portal-side, alongside the currently-checked-in list.
// POST: Records all fall on today's calendar date
func QueryGetAttendanceToday(ctx context.Context, query GetAttendanceTodayQuery, deps GetAttendanceTodayDeps) (AttendanceTodayResult, error) {
	now := query.Now
	if now.IsZero() {
		now = time.Now()
	}

	all, err := deps.Attendance.Records(ctx, query.Token)
	if err != nil {
		return AttendanceTodayResult{}, err
	}

	y, m, d := now.Date()
	today := listutil.Filter(all, func(r attendance.ScanRecord) bool {
		ry, rm, rd := r.Timestamp.In(now.Location()).Date()
		if ry != y || rm != m || rd != d {
			return false
		}
		if !listutil.MatchSearch(query.Params.Search, r.UserName, r.UserID) {
			return false
		}
		if action := query.Params.Filters["action"]; action != "" && r.Action != action {
			return false
		}
		return true
	})
	sort.SliceStable(today, func(i, j int) bool {
		return today[i].Timestamp.After(today[j].Timestamp)
	})

	page, info := listutil.Paginate(today, query.Params.PageParams)

	onFloor, err := deps.Attendance.CheckedIn(ctx, query.Token)
	if err != nil {
		return AttendanceTodayResult{}, err
	}

	return AttendanceTodayResult{
		Records:      page,
		CheckedInNow: onFloor,
		PageInfo:     info,
	}, nil
}
