package projections

import (
	"context"
	"sort"
	"strings"

	bookingclient "gymportal/internal/adapters/backend/booking"
	"gymportal/internal/application/listutil"
	"gymportal/internal/domain/booking"
	"gymportal/internal/domain/subscription"
)

// BookingListClient defines the backend surface needed by the booking list
// projection.
type BookingListClient interface {
	List(ctx context.Context, token string) ([]booking.Booking, error)
	Options(ctx context.Context, token string) (bookingclient.Options, error)
}

// GetBookingListQuery carries input for the booking list projection.
type GetBookingListQuery struct {
	Token       string
	Params      listutil.ListParams
	TrainerID   string // non-empty restricts to one trainer's bookings
	WithOptions bool
}

// GetBookingListDeps holds dependencies for the booking list projection.
type GetBookingListDeps struct {
	Bookings BookingListClient
}

// BookingListResult carries one page of bookings.
type BookingListResult struct {
	Bookings []booking.Booking
	PageInfo listutil.PageInfo
	Options  bookingclient.Options
}

// BookingFilterKeys are the filter parameters the list recognises.
var BookingFilterKeys = []string{"status", "package_type"}

// BookingSortColumns are the columns the list can sort by.
var BookingSortColumns = []string{"member", "trainer", "price", "status"}

// QueryGetBookingList fetches all bookings and applies search, filters,
// sorting and paging portal-side. Trainers only ever see their own rows.
// POST: Applying the same query twice yields the same page
func QueryGetBookingList(ctx context.Context, query GetBookingListQuery, deps GetBookingListDeps) (BookingListResult, error) {
	all, err := deps.Bookings.List(ctx, query.Token)
	if err != nil {
		return BookingListResult{}, err
	}

	matched := listutil.Filter(all, func(b booking.Booking) bool {
		if query.TrainerID != "" && b.TrainerID != query.TrainerID {
			return false
		}
		f := query.Params.Filters
		if status := f["status"]; status != "" && b.Status != subscription.NormalizeStatus(status) {
			return false
		}
		if pkg := f["package_type"]; pkg != "" && !strings.EqualFold(b.PackageType, pkg) {
			return false
		}
		return listutil.MatchSearch(query.Params.Search, b.MemberName, b.TrainerName, b.PackageType)
	})

	sortBookings(matched, query.Params.SortParams)
	page, info := listutil.Paginate(matched, query.Params.PageParams)

	result := BookingListResult{Bookings: page, PageInfo: info}
	if query.WithOptions {
		opts, err := deps.Bookings.Options(ctx, query.Token)
		if err != nil {
			return BookingListResult{}, err
		}
		result.Options = opts
	}
	return result, nil
}

func sortBookings(rows []booking.Booking, sp listutil.SortParams) {
	if sp.Sort == "" {
		return
	}
	less := func(a, b booking.Booking) bool {
		switch sp.Sort {
		case "trainer":
			return strings.ToLower(a.TrainerName) < strings.ToLower(b.TrainerName)
		case "price":
			return a.Price < b.Price
		case "status":
			return a.Status < b.Status
		default:
			return strings.ToLower(a.MemberName) < strings.ToLower(b.MemberName)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if sp.Dir == "desc" {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
}
