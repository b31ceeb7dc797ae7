package web

import (
	"net/http"

	"gymportal/internal/adapters/http/middleware"
	"gymportal/internal/domain/user"
)

// registerRoutes maps every page and form action. Role prefixes carry their
// own guard; handlers never re-check the role.
func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /", handleRoot)
	mux.HandleFunc("GET /login", handleLoginPage)
	mux.HandleFunc("POST /login", handleLoginSubmit)
	mux.HandleFunc("POST /logout", handleLogout)

	authed := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireAuth(h)
	}
	admin := middleware.RequireRole(user.RoleAdmin)
	trainer := middleware.RequireRole(user.RoleTrainer)
	member := middleware.RequireRole(user.RoleMember)
	staff := middleware.RequireRole(user.RoleAdmin, user.RoleTrainer)

	// Cross-tab scanner flag stream, any signed-in role.
	mux.Handle("GET /events/scanner", authed(handleScannerEvents))

	// Admin pages.
	mux.Handle("GET /admin/dashboard", admin(http.HandlerFunc(handleAdminDashboard)))
	mux.Handle("GET /admin/dashboard/growth", admin(http.HandlerFunc(handleGrowthJSON)))
	mux.Handle("GET /admin/dashboard/export", admin(http.HandlerFunc(handleDashboardExport)))

	mux.Handle("GET /admin/users", admin(http.HandlerFunc(handleAdminUsers)))
	mux.Handle("POST /admin/users", admin(http.HandlerFunc(handleAdminUserCreate)))
	mux.Handle("POST /admin/users/{id}/update", admin(http.HandlerFunc(handleAdminUserUpdate)))
	mux.Handle("POST /admin/users/{id}/delete", admin(http.HandlerFunc(handleAdminUserDelete)))

	mux.Handle("GET /admin/subscriptions", admin(http.HandlerFunc(handleAdminSubscriptions)))
	mux.Handle("POST /admin/subscriptions", admin(http.HandlerFunc(handleAdminSubscriptionCreate)))
	mux.Handle("POST /admin/subscriptions/{id}/update", admin(http.HandlerFunc(handleAdminSubscriptionUpdate)))
	mux.Handle("POST /admin/subscriptions/{id}/delete", admin(http.HandlerFunc(handleAdminSubscriptionDelete)))

	mux.Handle("GET /admin/bookings", admin(http.HandlerFunc(handleAdminBookings)))
	mux.Handle("POST /admin/bookings", admin(http.HandlerFunc(handleAdminBookingCreate)))
	mux.Handle("POST /admin/bookings/{id}/update", admin(http.HandlerFunc(handleAdminBookingUpdate)))
	mux.Handle("POST /admin/bookings/{id}/delete", admin(http.HandlerFunc(handleAdminBookingDelete)))

	mux.Handle("GET /admin/pricing", admin(http.HandlerFunc(handleAdminPricing)))
	mux.Handle("POST /admin/pricing", admin(http.HandlerFunc(handleAdminPricingCreate)))
	mux.Handle("POST /admin/pricing/{id}/update", admin(http.HandlerFunc(handleAdminPricingUpdate)))
	mux.Handle("POST /admin/pricing/{id}/delete", admin(http.HandlerFunc(handleAdminPricingDelete)))

	mux.Handle("GET /admin/blogs", admin(http.HandlerFunc(handleAdminBlogs)))
	mux.Handle("POST /admin/blogs", admin(http.HandlerFunc(handleAdminBlogCreate)))
	mux.Handle("POST /admin/blogs/{id}/update", admin(http.HandlerFunc(handleAdminBlogUpdate)))
	mux.Handle("POST /admin/blogs/{id}/delete", admin(http.HandlerFunc(handleAdminBlogDelete)))

	mux.Handle("GET /admin/messages", admin(http.HandlerFunc(handleAdminMessages)))
	mux.Handle("GET /admin/messages/{userID}", admin(http.HandlerFunc(handleAdminMessageThread)))
	mux.Handle("POST /admin/messages/{userID}", admin(http.HandlerFunc(handleAdminMessageSend)))

	mux.Handle("GET /admin/attendance", admin(http.HandlerFunc(handleAdminAttendance)))
	mux.Handle("POST /admin/attendance/qr/refresh", admin(http.HandlerFunc(handleQRRefresh)))
	mux.Handle("POST /admin/scanner", admin(http.HandlerFunc(handleScannerToggle)))

	// Kiosk lock for the front-desk attendance screen.
	mux.Handle("POST /admin/kiosk/pin", admin(http.HandlerFunc(handleKioskPINSet)))
	mux.Handle("POST /kiosk/launch", staff(http.HandlerFunc(handleKioskLaunch)))
	mux.Handle("POST /kiosk/exit", staff(http.HandlerFunc(handleKioskExit)))

	// Trainer pages.
	mux.Handle("GET /trainer/dashboard", trainer(http.HandlerFunc(handleTrainerDashboard)))
	mux.Handle("GET /trainer/bookings", trainer(http.HandlerFunc(handleTrainerBookings)))
	mux.Handle("POST /trainer/scan", trainer(http.HandlerFunc(handleScanSubmit)))

	// Member pages.
	mux.Handle("GET /user/dashboard", member(http.HandlerFunc(handleMemberDashboard)))
	mux.Handle("GET /user/subscriptions", member(http.HandlerFunc(handleMemberSubscriptions)))
	mux.Handle("GET /user/messages", member(http.HandlerFunc(handleMemberMessages)))
	mux.Handle("POST /user/messages", member(http.HandlerFunc(handleMemberMessageSend)))
	mux.Handle("GET /user/blogs", member(http.HandlerFunc(handleMemberBlogs)))
	mux.Handle("POST /user/scan", member(http.HandlerFunc(handleScanSubmit)))
}
