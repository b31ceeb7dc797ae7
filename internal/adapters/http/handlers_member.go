package web

import (
	"net/http"
	"sort"
	"strings"

	"gymportal/internal/application/projections"
)

// handleMemberDashboard renders the member home: the QR scan widget plus a
// snapshot of their subscriptions.
func handleMemberDashboard(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentSession(r)

	widget, err := projections.QueryGetScanWidget(r.Context(),
		projections.GetScanWidgetQuery{Session: sess},
		projections.GetScanWidgetDeps{Attendance: deps.Attendance, Flag: deps.Watcher})
	if err != nil {
		backendError(w, r, err)
		return
	}

	renderTemplate(w, r, "member_dashboard.html", map[string]any{
		"Widget":         widget,
		"PollIntervalMS": appConfig.FlagPoll.Milliseconds(),
	})
}

func handleMemberSubscriptions(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentSession(r)

	subs, err := deps.Subscriptions.List(r.Context(), sess.Token)
	if err != nil {
		backendError(w, r, err)
		return
	}

	renderTemplate(w, r, "member_subscriptions.html", map[string]any{
		"Subscriptions": subs,
	})
}

// handleMemberMessages shows the member's single thread with the gym.
func handleMemberMessages(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentSession(r)

	msgs, err := deps.Messages.Thread(r.Context(), sess.Token, sess.User.ID)
	if err != nil {
		backendError(w, r, err)
		return
	}
	renderTemplate(w, r, "member_messages.html", map[string]any{
		"Messages": msgs,
	})
}

func handleMemberMessageSend(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentSession(r)
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "/user/messages", "invalid form submission")
		return
	}
	content := strings.TrimSpace(r.PostFormValue("content"))
	if content == "" {
		redirectWithError(w, r, "/user/messages", "message cannot be empty")
		return
	}

	if _, err := deps.Messages.Send(r.Context(), sess.Token, sess.User.ID, content); err != nil {
		backendError(w, r, err)
		return
	}
	http.Redirect(w, r, "/user/messages", http.StatusSeeOther)
}

func handleMemberBlogs(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentSession(r)

	posts, err := deps.Blogs.List(r.Context(), sess.Token)
	if err != nil {
		backendError(w, r, err)
		return
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})

	renderTemplate(w, r, "member_blogs.html", map[string]any{
		"Posts": posts,
	})
}
