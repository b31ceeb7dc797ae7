package projections

import (
	"context"
	"sort"
	"strings"

	subclient "gymportal/internal/adapters/backend/subscription"
	"gymportal/internal/application/listutil"
	"gymportal/internal/domain/subscription"
)

// SubscriptionListClient defines the backend surface needed by the
// subscription list projection.
type SubscriptionListClient interface {
	List(ctx context.Context, token string) ([]subscription.Subscription, error)
	Options(ctx context.Context, token string) (subclient.Options, error)
}

// GetSubscriptionListQuery carries input for the subscription list projection.
type GetSubscriptionListQuery struct {
	Token       string
	Params      listutil.ListParams
	WithOptions bool // also fetch form dropdown options
}

// GetSubscriptionListDeps holds dependencies for the subscription list projection.
type GetSubscriptionListDeps struct {
	Subscriptions SubscriptionListClient
}

// SubscriptionListResult carries one page of subscriptions.
type SubscriptionListResult struct {
	Subscriptions []subscription.Subscription
	PageInfo      listutil.PageInfo
	Options       subclient.Options
}

// SubscriptionFilterKeys are the filter parameters the list recognises.
var SubscriptionFilterKeys = []string{"status", "paid", "package_type"}

// SubscriptionSortColumns are the columns the list can sort by.
var SubscriptionSortColumns = []string{"member", "price", "status"}

// QueryGetSubscriptionList fetches all subscriptions and applies search,
// status/paid filters, sorting and paging portal-side.
// POST: Applying the same query twice yields the same page
func QueryGetSubscriptionList(ctx context.Context, query GetSubscriptionListQuery, deps GetSubscriptionListDeps) (SubscriptionListResult, error) {
	all, err := deps.Subscriptions.List(ctx, query.Token)
	if err != nil {
		return SubscriptionListResult{}, err
	}

	matched := listutil.Filter(all, func(s subscription.Subscription) bool {
		f := query.Params.Filters
		if status := f["status"]; status != "" && s.Status != subscription.NormalizeStatus(status) {
			return false
		}
		if paid := f["paid"]; paid != "" {
			want := paid == "true" || paid == "paid" || paid == "1"
			if s.Paid != want {
				return false
			}
		}
		if pkg := f["package_type"]; pkg != "" && !strings.EqualFold(s.PackageType, pkg) {
			return false
		}
		return listutil.MatchSearch(query.Params.Search, s.MemberName, s.PackageType)
	})

	sortSubscriptions(matched, query.Params.SortParams)
	page, info := listutil.Paginate(matched, query.Params.PageParams)

	result := SubscriptionListResult{Subscriptions: page, PageInfo: info}
	if query.WithOptions {
		opts, err := deps.Subscriptions.Options(ctx, query.Token)
		if err != nil {
			return SubscriptionListResult{}, err
		}
		result.Options = opts
	}
	return result, nil
}

func sortSubscriptions(subs []subscription.Subscription, sp listutil.SortParams) {
	if sp.Sort == "" {
		return
	}
	less := func(a, b subscription.Subscription) bool {
		switch sp.Sort {
		case "price":
			return a.Price < b.Price
		case "status":
			return a.Status < b.Status
		default:
			return strings.ToLower(a.MemberName) < strings.ToLower(b.MemberName)
		}
	}
	sort.SliceStable(subs, func(i, j int) bool {
		if sp.Dir == "desc" {
			return less(subs[j], subs[i])
		}
		return less(subs[i], subs[j])
	})
}
