package web

// errors.go turns handler errors into responses.
//
// JSON clients get an ErrorResponse with the mapped code. Browser form posts
// follow post/redirect/get: the failure becomes an error notification and the
// browser is sent back to the page it came from. Technical details are only
// logged, with the request id for correlation.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JonMunkholm/freightdash/internal/core"
	"github.com/JonMunkholm/freightdash/internal/logging"
	"github.com/JonMunkholm/freightdash/internal/notify"
)

// ErrorResponse is the JSON body of a failed API request.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Action  string            `json:"action,omitempty"`
	Code    string            `json:"code"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// respondError reports err to the client. title heads the notification
// shown to browser users, who are redirected to back. An empty back
// answers with a plain text error instead.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, title string, err error, status int, back string) {
	userMsg := core.MapError(err)

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logging.FromContext(r.Context()).Log(r.Context(), level, "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", userMsg.Code,
	)

	var verrs core.ValidationErrors
	errors.As(err, &verrs)

	if wantsJSON(r) {
		resp := ErrorResponse{
			Error:   userMsg.Message,
			Message: userMsg.Message,
			Action:  userMsg.Action,
			Code:    userMsg.Code,
		}
		if len(verrs) > 0 {
			resp.Fields = make(map[string]string, len(verrs))
			for _, v := range verrs {
				resp.Fields[v.Field] = v.Message
			}
		}
		writeJSONStatus(w, status, resp)
		return
	}

	if back == "" {
		http.Error(w, userMsg.Message+" ("+userMsg.Code+")", status)
		return
	}

	s.notices.Error(title, notify.Options{Description: describe(userMsg, verrs)})
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// respondSuccess confirms a change. JSON clients get payload; browsers get
// a success notification and a redirect to back.
func (s *Server) respondSuccess(w http.ResponseWriter, r *http.Request, title, description string, status int, back string, payload any) {
	s.refreshRecordGauges()

	if wantsJSON(r) {
		writeJSONStatus(w, status, payload)
		return
	}

	s.notices.Success(title, notify.Options{Description: description})
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// describe builds the notification body. Field messages are more useful
// than the generic validation text, so they replace it.
func describe(msg core.UserMessage, verrs core.ValidationErrors) string {
	if len(verrs) > 0 {
		parts := make([]string, len(verrs))
		for i, v := range verrs {
			parts[i] = v.Message
		}
		return strings.Join(parts, " ")
	}
	if msg.Action == "" {
		return msg.Message
	}
	return msg.Message + ". " + msg.Action + "."
}

// wantsJSON reports whether the client expects a JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	return strings.Contains(r.Header.Get("Content-Type"), "application/json")
}

// writeJSON encodes v with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

// writeJSONStatus encodes v with the given status.
// Encoding errors are only logged since the header is already sent.
func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}

// statusFor picks the HTTP status for a service error by its user code.
func statusFor(err error) int {
	switch code := core.MapError(err).Code; {
	case code == "VAL001", code == "VAL002":
		return http.StatusUnprocessableEntity
	case code == "ENT001":
		return http.StatusNotFound
	case code == "CSV005":
		return http.StatusRequestEntityTooLarge
	case code == "CSV006":
		return http.StatusServiceUnavailable
	case strings.HasPrefix(code, "CSV"):
		return http.StatusBadRequest
	case code == "REQ001", code == "REQ002":
		return http.StatusRequestTimeout
	case code == "RATE001":
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
