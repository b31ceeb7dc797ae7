package web

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"gymportal/internal/adapters/backend"
	"gymportal/internal/adapters/http/middleware"
	"gymportal/internal/application/orchestrators"
	"gymportal/internal/domain/session"
	"gymportal/internal/domain/user"
)

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// internalErrorLogged is for failures after the response has started.
func internalErrorLogged(err error) {
	slog.Error("internal_error", "error", err.Error())
}

// backendError routes a failed backend call. A 401 means the bearer token
// died underneath us: the local session is torn down and the viewer lands
// on /login, whatever page they were on. Everything else bounces back to
// the referring page with the backend's own message in the error banner.
func backendError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, backend.ErrUnauthorized) {
		if cookieToken, ok := middleware.GetCookieTokenFromContext(r.Context()); ok {
			if derr := deps.Sessions.Delete(r.Context(), cookieToken); derr != nil {
				slog.Error("auth_event", "event", "session_delete_failed", "error", derr.Error())
			}
		}
		middleware.ClearSessionCookie(w)
		slog.Info("auth_event", "event", "session_expired")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		redirectWithError(w, r, backLocation(r), apiErr.Error())
		return
	}
	internalError(w, err)
}

// backLocation picks where a failed form submission should land.
func backLocation(r *http.Request) string {
	if ref := r.Header.Get("Referer"); ref != "" {
		if u, err := url.Parse(ref); err == nil && u.Path != "" {
			return u.Path
		}
	}
	sess, ok := currentSession(r)
	if !ok {
		return "/login"
	}
	return user.HomePath(sess.User.Role)
}

func redirectWithError(w http.ResponseWriter, r *http.Request, location, msg string) {
	http.Redirect(w, r, location+"?err="+url.QueryEscape(msg), http.StatusSeeOther)
}

func redirectWithMessage(w http.ResponseWriter, r *http.Request, location, msg string) {
	http.Redirect(w, r, location+"?msg="+url.QueryEscape(msg), http.StatusSeeOther)
}

// currentSession fetches the authenticated session from context.
func currentSession(r *http.Request) (session.Session, bool) {
	return middleware.GetSessionFromContext(r.Context())
}

const templatesDir = "internal/adapters/http/templates"

// TemplatesDir allows tests to point at the template tree from their own
// working directory.
var TemplatesDir = templatesDir

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data map[string]any) {
	sess, ok := currentSession(r)
	role := ""
	name := ""
	if ok {
		role = sess.User.Role
		name = sess.User.Name
	}

	funcMap := template.FuncMap{
		"currentRole": func() string { return role },
		"currentName": func() string { return name },
		"isLoggedIn":  func() bool { return role != "" },
		"isAdmin":     func() bool { return role == user.RoleAdmin },
		"csrfToken":   func() string { return csrf.Token(r) },
		"homePath":    func() string { return user.HomePath(role) },
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		"money": func(v float64) string {
			return fmt.Sprintf("$%.2f", v)
		},
		"shortTime": func(t time.Time) string {
			if t.IsZero() {
				return "—"
			}
			return t.Format("Jan 2 15:04")
		},
		"shortDate": func(t time.Time) string {
			if t.IsZero() {
				return "—"
			}
			return t.Format("2006-01-02")
		},
		"titleCase": func(s string) string {
			if s == "" {
				return s
			}
			return strings.ToUpper(s[:1]) + s[1:]
		},
		"paginationQuery": func(page int, sort, dir, search string, perPage int) template.URL {
			q := url.Values{}
			q.Set("page", fmt.Sprintf("%d", page))
			if sort != "" {
				q.Set("sort", sort)
			}
			if dir != "" {
				q.Set("dir", dir)
			}
			if search != "" {
				q.Set("q", search)
			}
			if perPage > 0 {
				q.Set("per_page", fmt.Sprintf("%d", perPage))
			}
			return template.URL(q.Encode())
		},
	}

	if data == nil {
		data = map[string]any{}
	}
	if _, exists := data["Error"]; !exists {
		data["Error"] = r.URL.Query().Get("err")
	}
	if _, exists := data["Message"]; !exists {
		data["Message"] = r.URL.Query().Get("msg")
	}

	layoutPath := filepath.Join(TemplatesDir, "layout.html")
	pagePath := filepath.Join(TemplatesDir, templateName)
	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFiles(layoutPath, pagePath)
	if err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, data); err != nil {
		http.Error(w, "Render error: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// handleRoot sends the viewer to their role's dashboard, or to /login.
func handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if sess, ok := currentSession(r); ok {
		http.Redirect(w, r, user.HomePath(sess.User.Role), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if sess, ok := currentSession(r); ok {
		http.Redirect(w, r, user.HomePath(sess.User.Role), http.StatusSeeOther)
		return
	}
	renderTemplate(w, r, "login.html", nil)
}

func handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "/login", "invalid form submission")
		return
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Identifier: strings.TrimSpace(r.PostFormValue("identifier")),
		Password:   r.PostFormValue("password"),
	}, orchestrators.LoginDeps{Auth: deps.Auth, Sessions: deps.Sessions})
	if err != nil {
		if errors.Is(err, orchestrators.ErrInvalidCredentials) {
			redirectWithError(w, r, "/login", "Invalid email or password")
			return
		}
		internalError(w, err)
		return
	}

	middleware.SetSessionCookie(w, result.CookieToken)
	http.Redirect(w, r, result.HomePath, http.StatusSeeOther)
}

func handleLogout(w http.ResponseWriter, r *http.Request) {
	input := orchestrators.LogoutInput{}
	if sess, ok := currentSession(r); ok {
		input.BearerToken = sess.Token
	}
	if cookieToken, ok := middleware.GetCookieTokenFromContext(r.Context()); ok {
		input.CookieToken = cookieToken
	}
	orchestrators.ExecuteLogout(r.Context(), input, orchestrators.LogoutDeps{
		Auth: deps.Auth, Sessions: deps.Sessions,
	})
	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
