package web

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/JonMunkholm/freightdash/internal/core"
	"github.com/JonMunkholm/freightdash/internal/logging"
	"github.com/JonMunkholm/freightdash/internal/web/views"
)

// activityEntries returns recent activity narrowed by the optional
// ?action= and ?entity= query parameters.
func (s *Server) activityEntries(r *http.Request) []core.ActivityEntry {
	limit := activityPageSize
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 {
		limit = n
	}

	action := core.Action(r.URL.Query().Get("action"))
	entity := r.URL.Query().Get("entity")

	entries := s.service.Activity(limit)
	if action == "" && entity == "" {
		return entries
	}

	filtered := entries[:0]
	for _, e := range entries {
		if action != "" && e.Action != action {
			continue
		}
		if entity != "" && e.Entity != entity {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}

// handleActivityPage renders recent changes, newest first.
func (s *Server) handleActivityPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "Activity", views.TabActivity, views.ActivityPage(s.activityEntries(r)))
}

func (s *Server) handleAPIActivity(w http.ResponseWriter, r *http.Request) {
	entries := s.activityEntries(r)
	writeJSON(w, map[string]any{
		"entries": entries,
		"count":   len(entries),
	})
}

// handleActivityExport downloads recent activity as CSV.
func (s *Server) handleActivityExport(w http.ResponseWriter, r *http.Request) {
	filename := fmt.Sprintf("activity_%s.csv", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	cw := csv.NewWriter(w)
	rows := [][]string{{"ID", "Timestamp", "Action", "Entity", "Entity ID", "Rows Affected", "Detail", "IP Address", "User Agent"}}
	for _, e := range s.activityEntries(r) {
		rows = append(rows, []string{
			e.ID,
			e.CreatedAt.Format("2006-01-02 15:04:05"),
			string(e.Action),
			e.Entity,
			strconv.Itoa(e.EntityID),
			strconv.Itoa(e.RowsAffected),
			e.Detail,
			e.IPAddress,
			e.UserAgent,
		})
	}

	// Headers are already sent, so a write failure can only be logged.
	if err := cw.WriteAll(rows); err != nil {
		logging.FromContext(r.Context()).Warn("activity export failed", "error", err)
	}
}
