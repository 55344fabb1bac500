// Package views renders the dashboard pages as templ components.
//
// Markup lives in the .templ files; run `templ generate` after editing them.
// This file holds the view models and the helpers the templates call.
package views

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.960 generate

import (
	"net/url"
	"strconv"

	"github.com/JonMunkholm/freightdash/internal/core"
	"github.com/JonMunkholm/freightdash/internal/notify"
)

// Tabs of the dashboard navigation.
const (
	TabLoads    = "loads"
	TabDrivers  = "drivers"
	TabTrucks   = "trucks"
	TabActivity = "activity"
)

var tabs = []struct{ key, label, href string }{
	{TabLoads, "Loads", "/"},
	{TabDrivers, "Drivers", "/drivers"},
	{TabTrucks, "Trucks", "/trucks"},
	{TabActivity, "Activity", "/activity"},
}

// Page carries the chrome shared by every page.
type Page struct {
	Title         string
	Tab           string
	Notifications []notify.Notification
}

// LoadsView is the data behind the loads tab.
type LoadsView struct {
	Stats    core.Stats
	Loads    []core.Load
	Criteria core.FilterCriteria
	Clients  []string
	Carriers []string
	// Editing is the load whose values prefill the form, if any.
	Editing *core.Load
}

// QueryString encodes the active filters so exports and redirects keep them.
func (v LoadsView) QueryString() string {
	q := url.Values{}
	if v.Criteria.Search != "" {
		q.Set("search", v.Criteria.Search)
	}
	if v.Criteria.Status != "" && v.Criteria.Status != core.AllStatus {
		q.Set("status", v.Criteria.Status)
	}
	if v.Criteria.Client != "" && v.Criteria.Client != core.AllClients {
		q.Set("client", v.Criteria.Client)
	}
	if v.Criteria.Carrier != "" && v.Criteria.Carrier != core.AllCarriers {
		q.Set("carrier", v.Criteria.Carrier)
	}
	return q.Encode()
}

// ExportURL is the export link for the visible list.
func (v LoadsView) ExportURL() string {
	if qs := v.QueryString(); qs != "" {
		return "/loads/export?" + qs
	}
	return "/loads/export"
}

// DriversView is the data behind the drivers tab.
type DriversView struct {
	Drivers []core.Driver
	Editing *core.Driver
}

// TrucksView is the data behind the trucks tab.
type TrucksView struct {
	Trucks  []core.Truck
	Fleet   core.FleetStats
	Editing *core.Truck
}

// form holds the parts of an entity form that change between create and edit.
type form struct {
	action string
	title  string
	submit string
}

func loadForm(editing *core.Load) (core.Load, form) {
	if editing == nil {
		return core.Load{}, form{action: "/loads", title: "New Load", submit: "Create Load"}
	}
	id := strconv.Itoa(editing.ID)
	return *editing, form{action: "/loads/" + id, title: "Edit Load #" + id, submit: "Update Load"}
}

func driverForm(editing *core.Driver) (core.Driver, form) {
	if editing == nil {
		return core.Driver{}, form{action: "/drivers", submit: "Add Driver"}
	}
	return *editing, form{action: "/drivers/" + strconv.Itoa(editing.ID), submit: "Update Driver"}
}

func truckForm(editing *core.Truck) (core.Truck, form) {
	if editing == nil {
		return core.Truck{}, form{action: "/trucks", submit: "Add Truck"}
	}
	return *editing, form{action: "/trucks/" + strconv.Itoa(editing.ID), submit: "Update Truck"}
}

// withAll prepends the sentinel option to a list of values.
func withAll(all string, values []string) []string {
	return append([]string{all}, values...)
}

func loadStatuses() []string {
	return stringsOf(core.LoadStatuses)
}

func driverStatuses() []string {
	return stringsOf(core.DriverStatuses)
}

func truckStatuses() []string {
	return stringsOf(core.TruckStatuses)
}

func fuelTypes() []string {
	return stringsOf(core.FuelTypes)
}

func stringsOf[S ~string](values []S) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func entityLabel(e core.ActivityEntry) string {
	if e.EntityID == 0 {
		return e.Entity
	}
	return e.Entity + " #" + strconv.Itoa(e.EntityID)
}

func rowURL(prefix string, id int, suffix string) string {
	return prefix + strconv.Itoa(id) + suffix
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func itoa(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
