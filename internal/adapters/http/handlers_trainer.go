package web

import (
	"net/http"

	"gymportal/internal/application/listutil"
	"gymportal/internal/application/projections"
)

// handleTrainerDashboard renders the trainer home: their scan widget and a
// short view of their upcoming bookings.
func handleTrainerDashboard(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentSession(r)

	widget, err := projections.QueryGetScanWidget(r.Context(),
		projections.GetScanWidgetQuery{Session: sess},
		projections.GetScanWidgetDeps{Attendance: deps.Attendance, Flag: deps.Watcher})
	if err != nil {
		backendError(w, r, err)
		return
	}

	bookings, err := projections.QueryGetBookingList(r.Context(),
		projections.GetBookingListQuery{
			Token:     sess.Token,
			Params:    listutil.ParseListParams(r.URL.Query(), nil, nil),
			TrainerID: sess.User.ID,
		},
		projections.GetBookingListDeps{Bookings: deps.Bookings})
	if err != nil {
		backendError(w, r, err)
		return
	}

	renderTemplate(w, r, "trainer_dashboard.html", map[string]any{
		"Widget":         widget,
		"Bookings":       bookings.Bookings,
		"PollIntervalMS": appConfig.FlagPoll.Milliseconds(),
	})
}

func handleTrainerBookings(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentSession(r)
	lp := listutil.ParseListParams(r.URL.Query(), projections.BookingSortColumns, projections.BookingFilterKeys)

	result, err := projections.QueryGetBookingList(r.Context(),
		projections.GetBookingListQuery{Token: sess.Token, Params: lp, TrainerID: sess.User.ID},
		projections.GetBookingListDeps{Bookings: deps.Bookings})
	if err != nil {
		backendError(w, r, err)
		return
	}

	renderTemplate(w, r, "trainer_bookings.html", map[string]any{
		"Bookings": result.Bookings,
		"PageInfo": result.PageInfo,
		"Search":   lp.Search,
		"Status":   lp.Filters["status"],
		"Sort":     lp.Sort,
		"Dir":      lp.Dir,
	})
}
