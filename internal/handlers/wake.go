package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"video-courier/internal/logging"
)

// WakeRequest is the inbound job submission.
type WakeRequest struct {
	URL    string `json:"url"`
	ChatID int64  `json:"chatId"`
}

// Wake accepts an authenticated job submission and schedules the
// pipeline in the background. The response is an acknowledgement only:
// the handler never blocks on pipeline completion, and the outcome is
// reported to the chat, not to this caller.
// POST /wake
func (h *Handlers) Wake(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		writeJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req WakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	if req.URL == "" || req.ChatID == 0 {
		writeJSONError(w, "Missing parameters: url and chatId are required", http.StatusBadRequest)
		return
	}

	if !validSourceURL(req.URL) {
		writeJSONError(w, "Invalid url", http.StatusBadRequest)
		return
	}

	h.runner.Submit(req.URL, req.ChatID)
	logging.Info("Accepted job for chat %d", req.ChatID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	writeJSON(w, map[string]string{"status": "accepted"})
}

// authorized compares the bearer token in constant time.
func (h *Handlers) authorized(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	expected := "Bearer " + h.config.AuthSecret
	return subtle.ConstantTimeCompare([]byte(auth), []byte(expected)) == 1
}

// validSourceURL accepts absolute http(s) URLs with a host.
func validSourceURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}
