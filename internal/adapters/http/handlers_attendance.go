package web

import (
	"errors"
	"net/http"

	"gymportal/internal/application/listutil"
	"gymportal/internal/application/orchestrators"
	"gymportal/internal/application/projections"
	"gymportal/internal/domain/attendance"
	"gymportal/internal/domain/kiosk"
	"gymportal/internal/domain/user"
)

// handleAdminAttendance renders the front-desk attendance screen: today's
// scans, who is on the floor, the current QR payloads, and the kiosk state.
func handleAdminAttendance(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentSession(r)
	lp := listutil.ParseListParams(r.URL.Query(), nil, []string{"action"})

	result, err := projections.QueryGetAttendanceToday(r.Context(),
		projections.GetAttendanceTodayQuery{Token: sess.Token, Params: lp},
		projections.GetAttendanceTodayDeps{Attendance: deps.Attendance})
	if err != nil {
		backendError(w, r, err)
		return
	}

	codes, err := deps.Attendance.QRCodes(r.Context(), sess.Token)
	if err != nil {
		backendError(w, r, err)
		return
	}

	state := deps.Watcher.Resolve(r.Context(), sess.Token)
	_, kioskActive, err := orchestrators.ActiveKioskSession(r.Context(), deps.Settings)
	if err != nil {
		internalError(w, err)
		return
	}

	renderTemplate(w, r, "admin_attendance.html", map[string]any{
		"Records":        result.Records,
		"CheckedInNow":   result.CheckedInNow,
		"PageInfo":       result.PageInfo,
		"Search":         lp.Search,
		"Action":         lp.Filters["action"],
		"Sort":           lp.Sort,
		"Dir":            lp.Dir,
		"QRCodes":        codes,
		"ScannerEnabled": state.Enabled,
		"FlagSource":     state.Source,
		"KioskActive":    kioskActive,
	})
}

// handleQRRefresh rotates both QR payloads. Old codes die immediately, so
// the page reloads with the backend's authoritative replacements.
func handleQRRefresh(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentSession(r)
	if _, err := deps.Attendance.RefreshQRCodes(r.Context(), sess.Token); err != nil {
		backendError(w, r, err)
		return
	}
	redirectWithMessage(w, r, "/admin/attendance", "QR codes rotated")
}

// handleScannerToggle flips the scanner-enabled flag for every open tab.
func handleScannerToggle(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentSession(r)
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "/admin/attendance", "invalid form submission")
		return
	}
	enabled := r.PostFormValue("enabled") == "true"

	if err := deps.Watcher.SetEnabled(r.Context(), sess.Token, enabled); err != nil {
		backendError(w, r, err)
		return
	}
	redirectWithMessage(w, r, "/admin/attendance", "Scanner setting saved")
}

// --- Kiosk lock ---

func handleKioskPINSet(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentSession(r)
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "/admin/attendance", "invalid form submission")
		return
	}

	err := orchestrators.ExecuteSetKioskPIN(r.Context(), orchestrators.SetKioskPINInput{
		Role: sess.User.Role,
		PIN:  r.PostFormValue("pin"),
	}, orchestrators.SetKioskPINDeps{Settings: deps.Settings})
	if err != nil {
		redirectWithError(w, r, "/admin/attendance", err.Error())
		return
	}
	redirectWithMessage(w, r, "/admin/attendance", "Kiosk PIN saved")
}

func handleKioskLaunch(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentSession(r)

	_, err := orchestrators.ExecuteLaunchKiosk(r.Context(), orchestrators.LaunchKioskInput{
		AccountID: sess.User.ID,
		Role:      sess.User.Role,
	}, orchestrators.LaunchKioskDeps{Settings: deps.Settings})
	if err != nil {
		if errors.Is(err, orchestrators.ErrNoKioskPIN) {
			redirectWithError(w, r, "/admin/attendance", "Set a kiosk PIN before launching kiosk mode")
			return
		}
		redirectWithError(w, r, "/admin/attendance", err.Error())
		return
	}
	redirectWithMessage(w, r, "/admin/attendance", "Kiosk mode active")
}

func handleKioskExit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "/admin/attendance", "invalid form submission")
		return
	}

	err := orchestrators.ExecuteExitKiosk(r.Context(), orchestrators.ExitKioskInput{
		PIN: r.PostFormValue("pin"),
	}, orchestrators.ExitKioskDeps{Settings: deps.Settings})
	if err != nil {
		if errors.Is(err, kiosk.ErrWrongPIN) {
			redirectWithError(w, r, "/admin/attendance", "Wrong PIN")
			return
		}
		redirectWithError(w, r, "/admin/attendance", err.Error())
		return
	}
	redirectWithMessage(w, r, "/admin/attendance", "Kiosk unlocked")
}

// --- QR scan submission (member and trainer widgets) ---

func handleScanSubmit(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentSession(r)
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, user.HomePath(sess.User.Role), "invalid form submission")
		return
	}

	result, err := orchestrators.ExecuteScan(r.Context(), orchestrators.ScanInput{
		Session:    sess,
		RawPayload: r.PostFormValue("payload"),
	}, orchestrators.ScanDeps{Attendance: deps.Attendance})
	if err != nil {
		switch {
		case errors.Is(err, attendance.ErrMalformedPayload), errors.Is(err, attendance.ErrMissingScanToken):
			redirectWithError(w, r, user.HomePath(sess.User.Role), "That QR code could not be read")
		case errors.Is(err, attendance.ErrWrongAudience):
			redirectWithError(w, r, user.HomePath(sess.User.Role), "That QR code is not for your account type")
		default:
			backendError(w, r, err)
		}
		return
	}

	msg := "Checked in — have a great session!"
	if result.Record.Action == attendance.ActionCheckOut {
		msg = "Checked out — see you next time!"
	}
	redirectWithMessage(w, r, user.HomePath(sess.User.Role), msg)
}
