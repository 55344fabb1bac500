// Package web provides HTTP handlers for the freight dashboard.
// This file contains shared utilities and helper functions used across handlers.
package web

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/JonMunkholm/freightdash/internal/core"
	"github.com/JonMunkholm/freightdash/internal/web/views"
	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
)

// Pages browsers are sent back to after a form post.
const (
	loadsPath    = "/"
	driversPath  = "/drivers"
	trucksPath   = "/trucks"
	activityPath = "/activity"
)

// activityPageSize is how many entries the activity page shows.
const activityPageSize = 50

// FilterCriteriaFromQuery reads the four load filter axes from q.
// Missing axes fall back to their "show everything" sentinels.
func FilterCriteriaFromQuery(q url.Values) core.FilterCriteria {
	c := core.FilterCriteria{
		Search:  strings.TrimSpace(q.Get("search")),
		Status:  q.Get("status"),
		Client:  q.Get("client"),
		Carrier: q.Get("carrier"),
	}
	if c.Status == "" {
		c.Status = core.AllStatus
	}
	if c.Client == "" {
		c.Client = core.AllClients
	}
	if c.Carrier == "" {
		c.Carrier = core.AllCarriers
	}
	return c
}

// parseID reads the {id} URL parameter. A malformed id is reported as
// not found, since no record can have it.
func parseID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", core.ErrNotFound, raw)
	}
	return id, nil
}

// editID reads the optional ?edit= query parameter.
func editID(r *http.Request) int {
	id, err := strconv.Atoi(r.URL.Query().Get("edit"))
	if err != nil || id < 0 {
		return 0
	}
	return id
}

// intField parses a numeric form field. Parse failures are collected in
// errs so they are reported together with the other field errors.
func intField(r *http.Request, name, label string, errs *core.ValidationErrors) int {
	raw := strings.TrimSpace(r.PostFormValue(name))
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, core.ValidationError{Field: name, Message: label + " must be a whole number."})
	}
	return n
}

// loadInput reads a load form.
func loadInput(r *http.Request) core.LoadInput {
	return core.LoadInput{
		Status:      r.PostFormValue("status"),
		Origin:      strings.TrimSpace(r.PostFormValue("origin")),
		Destination: strings.TrimSpace(r.PostFormValue("destination")),
		ClientName:  strings.TrimSpace(r.PostFormValue("client_name")),
		CarrierName: strings.TrimSpace(r.PostFormValue("carrier_name")),
	}
}

// driverInput reads a driver form.
func driverInput(r *http.Request) core.DriverInput {
	return core.DriverInput{
		Name:          strings.TrimSpace(r.PostFormValue("name")),
		Location:      strings.TrimSpace(r.PostFormValue("location")),
		Phone:         strings.TrimSpace(r.PostFormValue("phone")),
		Email:         strings.TrimSpace(r.PostFormValue("email")),
		LicenseNumber: strings.TrimSpace(r.PostFormValue("licenseNumber")),
		LicenseExpiry: strings.TrimSpace(r.PostFormValue("licenseExpiry")),
	}
}

// truckInput reads a truck form. Numeric parse errors are returned
// separately; the caller reports them before validation runs.
func truckInput(r *http.Request) (core.TruckInput, error) {
	var errs core.ValidationErrors
	in := core.TruckInput{
		LicensePlate:    strings.TrimSpace(r.PostFormValue("licensePlate")),
		Model:           strings.TrimSpace(r.PostFormValue("model")),
		Year:            intField(r, "year", "Year", &errs),
		Capacity:        intField(r, "capacity", "Capacity", &errs),
		Location:        strings.TrimSpace(r.PostFormValue("location")),
		Mileage:         intField(r, "mileage", "Mileage", &errs),
		LastMaintenance: strings.TrimSpace(r.PostFormValue("lastMaintenance")),
		NextMaintenance: strings.TrimSpace(r.PostFormValue("nextMaintenance")),
		FuelType:        r.PostFormValue("fuelType"),
	}
	if len(errs) > 0 {
		return in, errs
	}
	return in, nil
}

// backTo returns the local page the request came from, or the loads tab.
// Only the path and query of a same-host Referer are used.
func backTo(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != r.Host) {
		return loadsPath
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}

// render writes a full page with the current notifications.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, title, tab string, body templ.Component) {
	page := views.Page{
		Title:         title,
		Tab:           tab,
		Notifications: s.notices.Active(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := views.Layout(page, body).Render(r.Context(), w); err != nil {
		s.logRenderError(r, err)
	}
}
