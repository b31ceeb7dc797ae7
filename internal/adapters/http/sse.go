package web

import (
	"fmt"
	"net/http"
)

// handleScannerEvents streams scanner-flag changes as server-sent events.
// Every dashboard tab holds one of these connections; a flag flipped in one
// tab reaches all of them without a reload. The initial state is sent
// immediately so a fresh tab doesn't wait a poll interval.
func handleScannerEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	sess, _ := currentSession(r)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := deps.Watcher.Subscribe()
	defer cancel()

	// Current state first, resolved with the viewer's own token.
	state := deps.Watcher.Resolve(r.Context(), sess.Token)
	writeFlagEvent(w, state.Enabled)
	flusher.Flush()

	for {
		select {
		case enabled := <-ch:
			writeFlagEvent(w, enabled)
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

func writeFlagEvent(w http.ResponseWriter, enabled bool) {
	fmt.Fprintf(w, "event: scanner\ndata: {\"enabled\": %t}\n\n", enabled)
}
