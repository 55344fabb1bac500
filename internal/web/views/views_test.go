package views

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/freightdash/internal/core"
	"github.com/JonMunkholm/freightdash/internal/notify"
	"github.com/a-h/templ"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return buf.String()
}

func TestLoadsPage_EscapesUserText(t *testing.T) {
	v := LoadsView{
		Loads: []core.Load{{
			ID:          7,
			Status:      core.StatusInRoute,
			Origin:      "<script>alert(1)</script>",
			Destination: "Dallas, TX",
			ClientName:  `Acme "Co"`,
			CarrierName: "FastFreight",
		}},
		Criteria: core.FilterCriteria{Search: `"><b>`, Status: core.AllStatus},
	}

	out := renderString(t, LoadsPage(v))

	if strings.Contains(out, "<script>alert(1)</script>") {
		t.Error("origin rendered unescaped")
	}
	if strings.Contains(out, `"><b>`) {
		t.Error("search value rendered unescaped")
	}
	for _, want := range []string{"&lt;script&gt;", `id="load-7"`, `action="/loads/7/delete"`, "In Route"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestLoadsView_QueryString(t *testing.T) {
	tests := []struct {
		name string
		c    core.FilterCriteria
		want string
	}{
		{"sentinels dropped", core.FilterCriteria{Status: core.AllStatus, Client: core.AllClients, Carrier: core.AllCarriers}, ""},
		{"active axes kept", core.FilterCriteria{Search: "chi", Status: "delivered", Carrier: "J.B. Hunt"}, "carrier=J.B.+Hunt&search=chi&status=delivered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (LoadsView{Criteria: tt.c}).QueryString(); got != tt.want {
				t.Errorf("QueryString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadForm_Editing(t *testing.T) {
	l := core.Load{ID: 3, Status: core.StatusDelivered, Origin: "Atlanta, GA", Destination: "Miami, FL"}
	out := renderString(t, LoadsPage(LoadsView{Editing: &l}))

	for _, want := range []string{`action="/loads/3"`, "Edit Load #3", `value="Atlanta, GA"`, `value="delivered" selected`} {
		if !strings.Contains(out, want) {
			t.Errorf("edit form missing %q", want)
		}
	}
}

func TestNotifications(t *testing.T) {
	ns := []notify.Notification{
		{ID: "a", Kind: notify.KindSuccess, Title: "Load Created Successfully!", Duration: 3 * time.Second},
		{ID: "b", Kind: notify.KindError, Title: "Failed <Import>", Description: "Bad file", Duration: 4 * time.Second},
	}
	out := renderString(t, Notifications(ns))

	for _, want := range []string{
		`data-duration="3000"`,
		`data-duration="4000"`,
		`action="/notifications/a/dismiss"`,
		`action="/notifications/dismiss"`,
		"Failed &lt;Import&gt;",
		"Bad file",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("notifications missing %q", want)
		}
	}
}

func TestFetchErrorPage(t *testing.T) {
	msg := core.UserMessage{Message: "Failed to fetch data", Action: "Try again", Code: "FETCH001"}
	out := renderString(t, FetchErrorPage(msg))

	for _, want := range []string{"Failed to fetch data", "FETCH001", `action="/retry"`} {
		if !strings.Contains(out, want) {
			t.Errorf("error page missing %q", want)
		}
	}
}

func TestLayout_MarksActiveTab(t *testing.T) {
	out := renderString(t, Layout(Page{Title: "Drivers", Tab: TabDrivers}, templ.NopComponent))

	if !strings.Contains(out, `href="/drivers" class="active"`) {
		t.Error("drivers tab not marked active")
	}
	if !strings.Contains(out, "<title>Drivers | Freight Dashboard</title>") {
		t.Error("missing page title")
	}
}

func TestBadge(t *testing.T) {
	out := renderString(t, Badge(string(core.TruckInUse), core.TruckTone(core.TruckInUse)))

	want := `<span class="badge tone-` + string(core.TruckTone(core.TruckInUse)) + `">In-use</span>`
	if out != want {
		t.Errorf("Badge() = %q, want %q", out, want)
	}
}

func TestLoadsPage_ExportKeepsFilters(t *testing.T) {
	v := LoadsView{Criteria: core.FilterCriteria{Status: "delivered", Client: core.AllClients, Carrier: core.AllCarriers}}
	out := renderString(t, LoadsPage(v))

	for _, want := range []string{
		`href="/loads/export?status=delivered"`,
		`<option value="delivered" selected>Delivered</option>`,
		"No loads match the current filters.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("loads page missing %q", want)
		}
	}
}

func TestTrucksPage_StatusForm(t *testing.T) {
	v := TrucksView{Trucks: []core.Truck{{
		ID: 4, LicensePlate: "TX-4471", Model: "Cascadia", Year: 2021, Capacity: 80000,
		Status: core.TruckMaintenance, FuelType: core.FuelDiesel,
	}}}
	out := renderString(t, TrucksPage(v))

	for _, want := range []string{
		`id="truck-4"`,
		`action="/trucks/4/status"`,
		`<option value="maintenance" selected>`,
		"Cascadia (2021)",
		"80,000 lbs",
		"Unassigned",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("trucks page missing %q", want)
		}
	}
}
