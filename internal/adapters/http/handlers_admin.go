package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	blogclient "gymportal/internal/adapters/backend/blog"
	dashclient "gymportal/internal/adapters/backend/dashboard"
	"gymportal/internal/application/listutil"
	"gymportal/internal/application/orchestrators"
	"gymportal/internal/application/projections"
	"gymportal/internal/domain/blog"
	"gymportal/internal/domain/booking"
	"gymportal/internal/domain/pricing"
	"gymportal/internal/domain/subscription"
	"gymportal/internal/domain/user"
)

// --- Dashboard ---

func handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentSession(r)

	result, err := projections.QueryGetDashboard(r.Context(),
		projections.GetDashboardQuery{Token: sess.Token},
		projections.GetDashboardDeps{Dashboard: deps.Dashboard})
	if err != nil {
		backendError(w, r, err)
		return
	}

	state := deps.Watcher.Resolve(r.Context(), sess.Token)

	renderTemplate(w, r, "admin_dashboard.html", map[string]any{
		"Stats":            result.Stats,
		"Growth":           result.Growth,
		"ScannerEnabled":   state.Enabled,
		"FlagSource":       state.Source,
		"GrowthIntervalMS": appConfig.GrowthPoll.Milliseconds(),
	})
}

// handleGrowthJSON feeds the dashboard's periodic growth refresh.
func handleGrowthJSON(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentSession(r)

	growth, err := deps.Dashboard.Growth(r.Context(), sess.Token)
	if err != nil {
		backendError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(growth); err != nil {
		internalError(w, err)
	}
}

// handleDashboardExport proxies the backend's report blob straight through,
// preserving filename and content type. The bearer token never reaches the
// browser.
func handleDashboardExport(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentSession(r)

	format := r.URL.Query().Get("format")
	if format != dashclient.FormatExcel && format != dashclient.FormatJSON {
		redirectWithError(w, r, "/admin/dashboard", "unknown export format")
		return
	}

	body, filename, contentType, err := deps.Dashboard.Export(r.Context(), sess.Token, format)
	if err != nil {
		backendError(w, r, err)
		return
	}
	defer body.Close()

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	if filename != "" {
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	}
	if _, err := io.Copy(w, body); err != nil {
		// Headers are gone; nothing left to do but log.
		internalErrorLogged(err)
	}
}

// --- Users ---

func handleAdminUsers(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentSession(r)
	lp := listutil.ParseListParams(r.URL.Query(), projections.UserListSortColumns, projections.UserListFilterKeys)

	result, err := projections.QueryGetUserList(r.Context(),
		projections.GetUserListQuery{Token: sess.Token, Params: lp},
		projections.GetUserListDeps{Users: deps.Users})
	if err != nil {
		backendError(w, r, err)
		return
	}

	renderTemplate(w, r, "admin_users.html", map[string]any{
		"Users":    result.Users,
		"PageInfo": result.PageInfo,
		"Search":   lp.Search,
		"Role":     lp.Filters["role"],
		"Sort":     lp.Sort,
		"Dir":      lp.Dir,
	})
}

func userFromForm(r *http.Request) user.User {
	return user.User{
		Name:  strings.TrimSpace(r.PostFormValue("name")),
		Email: strings.TrimSpace(r.PostFormValue("email")),
		Phone: strings.TrimSpace(r.PostFormValue("phone")),
		Role:  user.NormalizeRole(r.PostFormValue("role")),
	}
}

func handleAdminUserCreate(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentSession(r)
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "/admin/users", "invalid form submission")
		return
	}

	u := userFromForm(r)
	if err := u.Validate(); err != nil {
		redirectWithError(w, r, "/admin/users", err.Error())
		return
	}
	if _, err := deps.Users.Create(r.Context(), sess.Token, u, r.PostFormValue("password")); err != nil {
		backendError(w, r, err)
		return
	}
	redirectWithMessage(w, r, "/admin/users", "User created")
}

func handleAdminUserUpdate(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentSession(r)
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "/admin/users", "invalid form submission")
		return
	}

	u := userFromForm(r)
	if err := u.Validate(); err != nil {
		redirectWithError(w, r, "/admin/users", err.Error())
		return
	}
	if _, err := deps.Users.Update(r.Context(), sess.Token, r.PathValue("id"), u); err != nil {
		backendError(w, r, err)
		return
	}
	redirectWithMessage(w, r, "/admin/users", "User updated")
}

func handleAdminUserDelete(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentSession(r)
	if err := deps.Users.Delete(r.Context(), sess.Token, r.PathValue("id")); err != nil {
		backendError(w, r, err)
		return
	}
	redirectWithMessage(w, r, "/admin/users", "User deleted")
}

// --- Subscriptions ---

func handleAdminSubscriptions(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentSession(r)
	lp := listutil.ParseListParams(r.URL.Query(), projections.SubscriptionSortColumns, projections.SubscriptionFilterKeys)

	result, err := projections.QueryGetSubscriptionList(r.Context(),
		projections.GetSubscriptionListQuery{Token: sess.Token, Params: lp, WithOptions: true},
		projections.GetSubscriptionListDeps{Subscriptions: deps.Subscriptions})
	if err != nil {
		backendError(w, r, err)
		return
	}

	renderTemplate(w, r, "admin_subscriptions.html", map[string]any{
		"Subscriptions": result.Subscriptions,
		"PageInfo":      result.PageInfo,
		"Options":       result.Options,
		"Search":        lp.Search,
		"Status":        lp.Filters["status"],
		"Paid":          lp.Filters["paid"],
		"Sort":          lp.Sort,
		"Dir":           lp.Dir,
	})
}

func subscriptionFromForm(r *http.Request) subscription.Subscription {
	price, _ := strconv.ParseFloat(r.PostFormValue("price"), 64)
	return subscription.Subscription{
		MemberID:    r.PostFormValue("member_id"),
		PackageType: r.PostFormValue("package_type"),
		Status:      subscription.NormalizeStatus(r.PostFormValue("status")),
		Paid:        r.PostFormValue("paid") == "true",
		Price:       price,
	}
}

func handleAdminSubscriptionCreate(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentSession(r)
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "/admin/subscriptions", "invalid form submission")
		return
	}

	s := subscriptionFromForm(r)
	if err := s.Validate(); err != nil {
		redirectWithError(w, r, "/admin/subscriptions", err.Error())
		return
	}
	if _, err := deps.Subscriptions.Create(r.Context(), sess.Token, s); err != nil {
		backendError(w, r, err)
		return
	}
	redirectWithMessage(w, r, "/admin/subscriptions", "Subscription created")
}

func handleAdminSubscriptionUpdate(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentSession(r)
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "/admin/subscriptions", "invalid form submission")
		return
	}

	s := subscriptionFromForm(r)
	if err := s.Validate(); err != nil {
		redirectWithError(w, r, "/admin/subscriptions", err.Error())
		return
	}
	if _, err := deps.Subscriptions.Update(r.Context(), sess.Token, r.PathValue("id"), s); err != nil {
		backendError(w, r, err)
		return
	}
	redirectWithMessage(w, r, "/admin/subscriptions", "Subscription updated")
}

func handleAdminSubscriptionDelete(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentSession(r)
	if err := deps.Subscriptions.Delete(r.Context(), sess.Token, r.PathValue("id")); err != nil {
		backendError(w, r, err)
		return
	}
	redirectWithMessage(w, r, "/admin/subscriptions", "Subscription deleted")
}

// --- Bookings ---

func handleAdminBookings(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentSession(r)
	lp := listutil.ParseListParams(r.URL.Query(), projections.BookingSortColumns, projections.BookingFilterKeys)

	result, err := projections.QueryGetBookingList(r.Context(),
		projections.GetBookingListQuery{Token: sess.Token, Params: lp, WithOptions: true},
		projections.GetBookingListDeps{Bookings: deps.Bookings})
	if err != nil {
		backendError(w, r, err)
		return
	}

	renderTemplate(w, r, "admin_bookings.html", map[string]any{
		"Bookings": result.Bookings,
		"PageInfo": result.PageInfo,
		"Options":  result.Options,
		"Search":   lp.Search,
		"Status":   lp.Filters["status"],
		"Sort":     lp.Sort,
		"Dir":      lp.Dir,
	})
}

func bookingFromForm(r *http.Request) booking.Booking {
	price, _ := strconv.ParseFloat(r.PostFormValue("price"), 64)
	sessions, _ := strconv.Atoi(r.PostFormValue("session_count"))
	return booking.Booking{
		MemberID:     r.PostFormValue("member_id"),
		TrainerID:    r.PostFormValue("trainer_id"),
		PackageType:  r.PostFormValue("package_type"),
		SessionCount: sessions,
		Price:        price,
		Status:       booking.NormalizeStatus(r.PostFormValue("status")),
	}
}

func handleAdminBookingCreate(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentSession(r)
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "/admin/bookings", "invalid form submission")
		return
	}

	b := bookingFromForm(r)
	if err := b.Validate(); err != nil {
		redirectWithError(w, r, "/admin/bookings", err.Error())
		return
	}
	if _, err := deps.Bookings.Create(r.Context(), sess.Token, b); err != nil {
		backendError(w, r, err)
		return
	}
	redirectWithMessage(w, r, "/admin/bookings", "Booking created")
}

func handleAdminBookingUpdate(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentSession(r)
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "/admin/bookings", "invalid form submission")
		return
	}

	b := bookingFromForm(r)
	if err := b.Validate(); err != nil {
		redirectWithError(w, r, "/admin/bookings", err.Error())
		return
	}
	if _, err := deps.Bookings.Update(r.Context(), sess.Token, r.PathValue("id"), b); err != nil {
		backendError(w, r, err)
		return
	}
	redirectWithMessage(w, r, "/admin/bookings", "Booking updated")
}

func handleAdminBookingDelete(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentSession(r)
	if err := deps.Bookings.Delete(r.Context(), sess.Token, r.PathValue("id")); err != nil {
		backendError(w, r, err)
		return
	}
	redirectWithMessage(w, r, "/admin/bookings", "Booking deleted")
}

// --- Pricing ---

func handleAdminPricing(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentSession(r)

	plans, err := deps.Pricing.List(r.Context(), sess.Token)
	if err != nil {
		backendError(w, r, err)
		return
	}
	renderTemplate(w, r, "admin_pricing.html", map[string]any{
		"Plans": plans,
	})
}

func planFromForm(r *http.Request) pricing.Plan {
	price, _ := strconv.ParseFloat(r.PostFormValue("price"), 64)
	sessions, _ := strconv.Atoi(r.PostFormValue("session_count"))
	return pricing.Plan{
		Name:         strings.TrimSpace(r.PostFormValue("name")),
		PackageType:  r.PostFormValue("package_type"),
		Price:        price,
		SessionCount: sessions,
		Active:       r.PostFormValue("active") != "false",
	}
}

func handleAdminPricingCreate(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentSession(r)
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "/admin/pricing", "invalid form submission")
		return
	}

	p := planFromForm(r)
	if err := p.Validate(); err != nil {
		redirectWithError(w, r, "/admin/pricing", err.Error())
		return
	}
	if _, err := deps.Pricing.Create(r.Context(), sess.Token, p); err != nil {
		backendError(w, r, err)
		return
	}
	redirectWithMessage(w, r, "/admin/pricing", "Plan created")
}

func handleAdminPricingUpdate(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentSession(r)
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "/admin/pricing", "invalid form submission")
		return
	}

	p := planFromForm(r)
	if err := p.Validate(); err != nil {
		redirectWithError(w, r, "/admin/pricing", err.Error())
		return
	}
	if _, err := deps.Pricing.Update(r.Context(), sess.Token, r.PathValue("id"), p); err != nil {
		backendError(w, r, err)
		return
	}
	redirectWithMessage(w, r, "/admin/pricing", "Plan updated")
}

func handleAdminPricingDelete(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentSession(r)
	if err := deps.Pricing.Delete(r.Context(), sess.Token, r.PathValue("id")); err != nil {
		backendError(w, r, err)
		return
	}
	redirectWithMessage(w, r, "/admin/pricing", "Plan deleted")
}

// --- Blogs ---

func handleAdminBlogs(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentSession(r)

	posts, err := deps.Blogs.List(r.Context(), sess.Token)
	if err != nil {
		backendError(w, r, err)
		return
	}
	renderTemplate(w, r, "admin_blogs.html", map[string]any{
		"Posts": posts,
	})
}

// maxCoverBytes caps blog cover uploads at 5 MB.
const maxCoverBytes = 5 << 20

func blogSubmission(r *http.Request) (blog.Post, *blogclient.Upload, error) {
	if err := r.ParseMultipartForm(maxCoverBytes); err != nil {
		return blog.Post{}, nil, err
	}
	p := blog.Post{
		Title:   strings.TrimSpace(r.PostFormValue("title")),
		Content: r.PostFormValue("content"),
	}
	if err := p.Validate(); err != nil {
		return blog.Post{}, nil, err
	}

	file, header, err := r.FormFile("cover_image")
	if err == http.ErrMissingFile || (err == nil && header.Filename == "") {
		return p, nil, nil
	}
	if err != nil {
		return blog.Post{}, nil, err
	}
	return p, &blogclient.Upload{Filename: header.Filename, Reader: file}, nil
}

func handleAdminBlogCreate(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentSession(r)

	p, cover, err := blogSubmission(r)
	if err != nil {
		redirectWithError(w, r, "/admin/blogs", err.Error())
		return
	}
	if _, err := deps.Blogs.Create(r.Context(), sess.Token, p, cover); err != nil {
		backendError(w, r, err)
		return
	}
	redirectWithMessage(w, r, "/admin/blogs", "Post published")
}

func handleAdminBlogUpdate(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentSession(r)

	p, cover, err := blogSubmission(r)
	if err != nil {
		redirectWithError(w, r, "/admin/blogs", err.Error())
		return
	}
	if _, err := deps.Blogs.Update(r.Context(), sess.Token, r.PathValue("id"), p, cover); err != nil {
		backendError(w, r, err)
		return
	}
	redirectWithMessage(w, r, "/admin/blogs", "Post updated")
}

func handleAdminBlogDelete(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentSession(r)
	if err := deps.Blogs.Delete(r.Context(), sess.Token, r.PathValue("id")); err != nil {
		backendError(w, r, err)
		return
	}
	redirectWithMessage(w, r, "/admin/blogs", "Post deleted")
}

// --- Messages ---

func handleAdminMessages(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentSession(r)

	convs, err := deps.Messages.Conversations(r.Context(), sess.Token)
	if err != nil {
		backendError(w, r, err)
		return
	}
	renderTemplate(w, r, "admin_messages.html", map[string]any{
		"Conversations": convs,
	})
}

func handleAdminMessageThread(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentSession(r)
	userID := r.PathValue("userID")

	msgs, err := deps.Messages.Thread(r.Context(), sess.Token, userID)
	if err != nil {
		backendError(w, r, err)
		return
	}
	renderTemplate(w, r, "admin_message_thread.html", map[string]any{
		"UserID":   userID,
		"Messages": msgs,
	})
}

func handleAdminMessageSend(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentSession(r)
	userID := r.PathValue("userID")
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "/admin/messages/"+userID, "invalid form submission")
		return
	}
	content := strings.TrimSpace(r.PostFormValue("content"))
	if content == "" {
		redirectWithError(w, r, "/admin/messages/"+userID, "message cannot be empty")
		return
	}

	if _, err := deps.Messages.Send(r.Context(), sess.Token, userID, content); err != nil {
		backendError(w, r, err)
		return
	}

	// Best-effort email ping to the member; the page doesn't wait on it.
	if addr := r.PostFormValue("recipient_email"); addr != "" {
		input := orchestrators.NotifyMessageInput{
			RecipientEmail: addr,
			RecipientName:  r.PostFormValue("recipient_name"),
			SenderName:     sess.User.Name,
			Preview:        content,
		}
		notifyDeps := orchestrators.NotifyMessageDeps{
			Sender:    deps.Email,
			From:      appConfig.EmailFrom,
			ReplyTo:   appConfig.EmailReplyTo,
			PortalURL: appConfig.PortalURL,
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			orchestrators.ExecuteNotifyMessage(ctx, input, notifyDeps)
		}()
	}

	http.Redirect(w, r, "/admin/messages/"+userID, http.StatusSeeOther)
}
