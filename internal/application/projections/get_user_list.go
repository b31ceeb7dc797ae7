package projections

import (
	"context"
	"sort"
	"strings"

	usersclient "gymportal/internal/adapters/backend/users"
	"gymportal/internal/application/listutil"
	"gymportal/internal/domain/user"
)

// UserListClient defines the backend surface needed by the user list projection.
type UserListClient interface {
	List(ctx context.Context, token string) ([]user.User, error)
}

// GetUserListQuery carries input for the user list projection.
type GetUserListQuery struct {
	Token  string
	Params listutil.ListParams
}

// GetUserListDeps holds dependencies for the user list projection.
type GetUserListDeps struct {
	Users UserListClient
}

// UserListResult carries one page of users.
type UserListResult struct {
	Users    []user.User
	PageInfo listutil.PageInfo
}

var _ UserListClient = (usersclient.Client)(nil)

// UserListFilterKeys are the filter parameters the user list recognises.
var UserListFilterKeys = []string{"role"}

// UserListSortColumns are the columns the user list can sort by.
var UserListSortColumns = []string{"name", "email", "role"}

// QueryGetUserList fetches all users and applies search, role filter,
// sorting and paging portal-side.
// POST: Applying the same query twice yields the same page
func QueryGetUserList(ctx context.Context, query GetUserListQuery, deps GetUserListDeps) (UserListResult, error) {
	all, err := deps.Users.List(ctx, query.Token)
	if err != nil {
		return UserListResult{}, err
	}

	matched := listutil.Filter(all, func(u user.User) bool {
		if role := query.Params.Filters["role"]; role != "" && u.Role != user.NormalizeRole(role) {
			return false
		}
		return listutil.MatchSearch(query.Params.Search, u.Name, u.Email, u.Phone)
	})

	sortUsers(matched, query.Params.SortParams)
	page, info := listutil.Paginate(matched, query.Params.PageParams)
	return UserListResult{Users: page, PageInfo: info}, nil
}

func sortUsers(users []user.User, sp listutil.SortParams) {
	if sp.Sort == "" {
		return
	}
	less := func(a, b user.User) bool {
		switch sp.Sort {
		case "email":
			return strings.ToLower(a.Email) < strings.ToLower(b.Email)
		case "role":
			return a.Role < b.Role
		default:
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	}
	sort.SliceStable(users, func(i, j int) bool {
		if sp.Dir == "desc" {
			return less(users[j], users[i])
		}
		return less(users[i], users[j])
	})
}
