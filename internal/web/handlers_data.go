package web

import (
	"net/http"

	"github.com/JonMunkholm/freightdash/internal/core"
	"github.com/JonMunkholm/freightdash/internal/logging"
	"github.com/JonMunkholm/freightdash/internal/web/views"
	"github.com/go-chi/chi/v5"
)

// requireData blocks data routes while the startup load has not succeeded.
// Browsers get the full-page error with a retry button, never partial data.
func (s *Server) requireData(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := s.LoadErr()
		if err == nil {
			next.ServeHTTP(w, r)
			return
		}

		if wantsJSON(r) {
			s.respondError(w, r, "", err, http.StatusServiceUnavailable, "")
			return
		}
		s.render(w, r, http.StatusServiceUnavailable, "Error", "", views.FetchErrorPage(core.MapError(err)))
	})
}

// handleRetry re-runs the startup load. Browsers land on the loads tab,
// which shows the blocking page again if the retry failed too.
func (s *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	err := s.Reload(r.Context())

	if wantsJSON(r) {
		if err != nil {
			s.respondError(w, r, "", err, http.StatusServiceUnavailable, "")
			return
		}
		writeJSON(w, s.service.Stats())
		return
	}
	http.Redirect(w, r, loadsPath, http.StatusSeeOther)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if s.LoadErr() != nil {
		status = "degraded"
	}
	writeJSON(w, map[string]any{
		"status":         status,
		"active_imports": s.service.ImportLimiter().Active(),
	})
}

// handleLoadsPage renders the loads tab with the filters from the query.
func (s *Server) handleLoadsPage(w http.ResponseWriter, r *http.Request) {
	c := FilterCriteriaFromQuery(r.URL.Query())
	v := views.LoadsView{
		Stats:    s.service.Stats(),
		Loads:    s.service.Loads(c),
		Criteria: c,
		Clients:  s.service.Clients(),
		Carriers: s.service.Carriers(),
	}
	if id := editID(r); id > 0 {
		if l, ok := s.service.Load(id); ok {
			v.Editing = &l
		}
	}
	s.render(w, r, http.StatusOK, "Loads", views.TabLoads, views.LoadsPage(v))
}

func (s *Server) handleDriversPage(w http.ResponseWriter, r *http.Request) {
	v := views.DriversView{Drivers: s.service.Drivers()}
	if id := editID(r); id > 0 {
		if d, ok := s.service.Driver(id); ok {
			v.Editing = &d
		}
	}
	s.render(w, r, http.StatusOK, "Drivers", views.TabDrivers, views.DriversPage(v))
}

func (s *Server) handleTrucksPage(w http.ResponseWriter, r *http.Request) {
	v := views.TrucksView{Trucks: s.service.Trucks(), Fleet: s.service.Fleet()}
	if id := editID(r); id > 0 {
		if t, ok := s.service.Truck(id); ok {
			v.Editing = &t
		}
	}
	s.render(w, r, http.StatusOK, "Trucks", views.TabTrucks, views.TrucksPage(v))
}

// handleAPILoads returns the filtered loads as JSON.
func (s *Server) handleAPILoads(w http.ResponseWriter, r *http.Request) {
	loads := s.service.Loads(FilterCriteriaFromQuery(r.URL.Query()))
	writeJSON(w, map[string]any{
		"loads": loads,
		"count": len(loads),
	})
}

func (s *Server) handleAPILoad(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.respondError(w, r, "", err, http.StatusNotFound, "")
		return
	}
	l, ok := s.service.Load(id)
	if !ok {
		s.respondError(w, r, "", core.ErrNotFound, http.StatusNotFound, "")
		return
	}
	writeJSON(w, l)
}

func (s *Server) handleAPIDrivers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"drivers": s.service.Drivers()})
}

func (s *Server) handleAPITrucks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"trucks": s.service.Trucks()})
}

func (s *Server) handleAPIStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"stats": s.service.Stats(),
		"fleet": s.service.Fleet(),
	})
}

// handleAPIFilters returns the options of the client and carrier filters.
func (s *Server) handleAPIFilters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"statuses": core.LoadStatuses,
		"clients":  s.service.Clients(),
		"carriers": s.service.Carriers(),
	})
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"notifications": s.notices.Active()})
}

// handleDismiss removes one notification. Dismissing an expired one is fine.
func (s *Server) handleDismiss(w http.ResponseWriter, r *http.Request) {
	dismissed := s.notices.Dismiss(chi.URLParam(r, "id"))
	if wantsJSON(r) {
		writeJSON(w, map[string]bool{"dismissed": dismissed})
		return
	}
	http.Redirect(w, r, backTo(r), http.StatusSeeOther)
}

func (s *Server) handleDismissAll(w http.ResponseWriter, r *http.Request) {
	n := s.notices.DismissAll()
	if wantsJSON(r) {
		writeJSON(w, map[string]int{"dismissed": n})
		return
	}
	http.Redirect(w, r, backTo(r), http.StatusSeeOther)
}

func (s *Server) logRenderError(r *http.Request, err error) {
	logging.FromContext(r.Context()).Error("render failed", "path", r.URL.Path, "error", err)
}
