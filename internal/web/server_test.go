package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/JonMunkholm/freightdash/internal/config"
	"github.com/JonMunkholm/freightdash/internal/core"
	"github.com/JonMunkholm/freightdash/internal/metrics"
	"github.com/JonMunkholm/freightdash/internal/notify"
	"github.com/JonMunkholm/freightdash/internal/seed"
	"github.com/google/go-cmp/cmp"
)

// seedDir holds the mock documents shipped with the repository.
const seedDir = "../../data"

type failingSource struct{ err error }

func (f failingSource) FetchLoads(context.Context) ([]core.Load, error)     { return nil, f.err }
func (f failingSource) FetchDrivers(context.Context) ([]core.Driver, error) { return nil, f.err }
func (f failingSource) FetchTrucks(context.Context) ([]core.Truck, error)   { return nil, f.err }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadFrom(func(string) string { return "" })
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	cfg.Rate.Enabled = false
	return cfg
}

// newTestServer builds a server over src without loading any data.
func newTestServer(t *testing.T, cfg *config.Config, src seed.Source) *Server {
	t.Helper()
	m := metrics.NewRegistry()
	svc := core.NewService(core.WithObserver(m))
	srv := NewServer(svc, cfg, Deps{
		Source:  src,
		Notices: notify.NewRegistry(notify.DefaultDurations()),
		Metrics: m,
	})
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

// loadedServer returns a server seeded from the mock documents.
func loadedServer(t *testing.T) *Server {
	t.Helper()
	srv := newTestServer(t, testConfig(t), &seed.DirSource{Dir: seedDir})
	if err := srv.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	return srv
}

func do(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func validLoadForm() url.Values {
	return url.Values{
		"status":       {"pick up"},
		"origin":       {"Reno, NV"},
		"destination":  {"Boise, ID"},
		"client_name":  {"Acme"},
		"carrier_name": {"FastFreight"},
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, testConfig(t), &seed.DirSource{Dir: seedDir})

	rec := do(srv, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if got := decode[map[string]any](t, rec)["status"]; got != "degraded" {
		t.Errorf("status before load = %v, want degraded", got)
	}

	if err := srv.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	rec = do(srv, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if got := decode[map[string]any](t, rec)["status"]; got != "ok" {
		t.Errorf("status after load = %v, want ok", got)
	}
}

func TestFailedLoadBlocksDashboard(t *testing.T) {
	fetchErr := &seed.FetchError{Resource: "loads", Location: "stub", Status: http.StatusNotFound}
	srv := newTestServer(t, testConfig(t), failingSource{err: fetchErr})

	err := srv.Reload(context.Background())
	if !errors.As(err, new(*seed.FetchError)) {
		t.Fatalf("Reload() error = %v, want *seed.FetchError", err)
	}

	rec := do(srv, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("GET / status = %d, want 503", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"FETCH001", `action="/retry"`} {
		if !strings.Contains(body, want) {
			t.Errorf("blocking page missing %q", want)
		}
	}
	if strings.Contains(body, "<table") {
		t.Error("blocking page must not render partial data")
	}

	rec = do(srv, httptest.NewRequest(http.MethodGet, "/api/loads", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("GET /api/loads status = %d, want 503", rec.Code)
	}
	if got := decode[ErrorResponse](t, rec).Code; got != "FETCH001" {
		t.Errorf("code = %q, want FETCH001", got)
	}

	// The source recovers; retry loads everything.
	srv.source = &seed.DirSource{Dir: seedDir}
	rec = do(srv, httptest.NewRequest(http.MethodPost, "/retry", nil))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("POST /retry = %d %q, want 303 /", rec.Code, rec.Header().Get("Location"))
	}

	rec = do(srv, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET / after retry status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Loads Loaded Successfully!") {
		t.Error("expected load notification after retry")
	}
}

func TestLoadsPage(t *testing.T) {
	srv := loadedServer(t)

	rec := do(srv, httptest.NewRequest(http.MethodGet, "/?status=delivered", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("missing security headers")
	}
}

func TestCreateLoad_Browser(t *testing.T) {
	srv := loadedServer(t)
	before := len(srv.service.Loads(core.FilterCriteria{}))

	req := postForm("/loads", validLoadForm())
	req.Header.Set("Referer", "http://example.com/?status=pick+up&edit=3")
	rec := do(srv, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/?status=pick+up" {
		t.Errorf("Location = %q, want /?status=pick+up", loc)
	}
	if got := len(srv.service.Loads(core.FilterCriteria{})); got != before+1 {
		t.Errorf("loads = %d, want %d", got, before+1)
	}

	var titles []string
	for _, n := range srv.notices.Active() {
		titles = append(titles, n.Title)
	}
	if !strings.Contains(strings.Join(titles, "|"), "Load Created Successfully!") {
		t.Errorf("notifications = %v", titles)
	}
}

func TestCreateLoad_Invalid(t *testing.T) {
	srv := loadedServer(t)
	before := len(srv.service.Loads(core.FilterCriteria{}))

	form := validLoadForm()
	form.Set("destination", "Reno, NV")

	req := postForm("/loads", form)
	req.Header.Set("Accept", "application/json")
	rec := do(srv, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	resp := decode[ErrorResponse](t, rec)
	if resp.Code != "VAL001" {
		t.Errorf("code = %q, want VAL001", resp.Code)
	}
	if resp.Fields["destination"] == "" {
		t.Errorf("fields = %v, want destination message", resp.Fields)
	}
	if got := len(srv.service.Loads(core.FilterCriteria{})); got != before {
		t.Errorf("invalid load was stored: %d loads, want %d", got, before)
	}

	// Browsers get the field messages in an error notification.
	rec = do(srv, postForm("/loads", form))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("browser status = %d, want 303", rec.Code)
	}
	found := false
	for _, n := range srv.notices.Active() {
		if n.Kind == notify.KindError && n.Title == "Failed To Create Load" {
			found = strings.Contains(n.Description, "Origin and destination must be different.")
		}
	}
	if !found {
		t.Errorf("error notification missing: %+v", srv.notices.Active())
	}
}

func TestUpdateAndDeleteLoad_JSON(t *testing.T) {
	srv := loadedServer(t)

	form := validLoadForm()
	form.Set("status", "Delivered")
	req := postForm("/loads/1", form)
	req.Header.Set("Accept", "application/json")
	rec := do(srv, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, want 200: %s", rec.Code, rec.Body)
	}
	got := decode[core.Load](t, rec)
	want := core.Load{ID: 1, Status: core.StatusDelivered, Origin: "Reno, NV", Destination: "Boise, ID", ClientName: "Acme", CarrierName: "FastFreight"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("updated load mismatch (-want +got):\n%s", diff)
	}

	req = httptest.NewRequest(http.MethodPost, "/loads/1/delete", nil)
	req.Header.Set("Accept", "application/json")
	if rec := do(srv, req); rec.Code != http.StatusOK {
		t.Errorf("delete status = %d, want 200", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/loads/1/delete", nil)
	req.Header.Set("Accept", "application/json")
	rec = do(srv, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
	if code := decode[ErrorResponse](t, rec).Code; code != "ENT001" {
		t.Errorf("code = %q, want ENT001", code)
	}
}

func TestDriverStatus(t *testing.T) {
	srv := loadedServer(t)

	req := postForm("/drivers/1/status", url.Values{"status": {"offline"}})
	req.Header.Set("Accept", "application/json")
	rec := do(srv, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	if got := decode[core.Driver](t, rec).Status; got != core.DriverOffline {
		t.Errorf("driver status = %q, want offline", got)
	}

	req = postForm("/drivers/1/status", url.Values{"status": {"asleep"}})
	req.Header.Set("Accept", "application/json")
	if rec := do(srv, req); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("unknown status = %d, want 422", rec.Code)
	}
}

func TestCreateTruck_NumberParse(t *testing.T) {
	srv := loadedServer(t)

	form := url.Values{
		"licensePlate":    {"TX-1234"},
		"model":           {"Volvo VNL"},
		"year":            {"twenty"},
		"capacity":        {"40000"},
		"location":        {"Austin, TX"},
		"mileage":         {"1000"},
		"lastMaintenance": {"2024-01-01"},
		"nextMaintenance": {"2024-07-01"},
		"fuelType":        {"diesel"},
	}
	req := postForm("/trucks", form)
	req.Header.Set("Accept", "application/json")
	rec := do(srv, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if msg := decode[ErrorResponse](t, rec).Fields["year"]; msg != "Year must be a whole number." {
		t.Errorf("year message = %q", msg)
	}
}

func multipartUpload(t *testing.T, filename, contentType, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(map[string][]string)
	h["Content-Disposition"] = []string{`form-data; name="file"; filename="` + filename + `"`}
	h["Content-Type"] = []string{contentType}
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/loads/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	return req
}

func TestImportLoads(t *testing.T) {
	const csvText = "ID,Status,Origin,Destination,Client Name,Carrier Name\n" +
		"901,Pick Up,Reno NV,Boise ID,Acme,FastFreight\n" +
		"902,bogus,Reno NV,Boise ID,Acme,FastFreight\n"

	tests := []struct {
		name        string
		filename    string
		contentType string
		content     string
		wantStatus  int
		wantCode    string
	}{
		{"valid file", "loads.csv", "text/csv", csvText, http.StatusOK, ""},
		{"not csv", "loads.txt", "text/plain", csvText, http.StatusBadRequest, "CSV001"},
		{"header only", "loads.csv", "text/csv", "ID,Status\n", http.StatusBadRequest, "CSV002"},
		{"missing columns", "loads.csv", "text/csv", "ID,Status\n1,pick up\n", http.StatusBadRequest, "CSV003"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := loadedServer(t)
			before := len(srv.service.Loads(core.FilterCriteria{}))

			rec := do(srv, multipartUpload(t, tt.filename, tt.contentType, tt.content))
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body)
			}

			if tt.wantCode != "" {
				if got := decode[ErrorResponse](t, rec).Code; got != tt.wantCode {
					t.Errorf("code = %q, want %q", got, tt.wantCode)
				}
				if got := len(srv.service.Loads(core.FilterCriteria{})); got != before {
					t.Errorf("rejected file changed loads: %d, want %d", got, before)
				}
				return
			}

			result := decode[core.ImportResult](t, rec)
			if result.Imported != 1 || result.Skipped != 1 || result.ImportID == "" {
				t.Errorf("result = %+v, want 1 imported, 1 skipped", result)
			}
			if got := len(srv.service.Loads(core.FilterCriteria{})); got != before+1 {
				t.Errorf("loads = %d, want %d", got, before+1)
			}
		})
	}
}

func TestImportLoads_TooLarge(t *testing.T) {
	cfg := testConfig(t)
	cfg.Import.MaxFileSize = 64
	srv := newTestServer(t, cfg, &seed.DirSource{Dir: seedDir})
	if err := srv.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}

	content := "ID,Status,Origin,Destination,Client,Carrier\n" + strings.Repeat("1,pick up,Reno NV,Boise ID,Acme,Fast\n", 10)
	rec := do(srv, multipartUpload(t, "big.csv", "text/csv", content))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413: %s", rec.Code, rec.Body)
	}
	if got := decode[ErrorResponse](t, rec).Code; got != "CSV005" {
		t.Errorf("code = %q, want CSV005", got)
	}
}

func TestExportLoads(t *testing.T) {
	srv := loadedServer(t)

	rec := do(srv, httptest.NewRequest(http.MethodGet, "/loads/export?status=delivered", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, core.ExportFileName) {
		t.Errorf("Content-Disposition = %q", cd)
	}

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	delivered := srv.service.Loads(core.FilterCriteria{Status: "delivered"})
	if len(lines) != len(delivered)+1 {
		t.Errorf("exported %d lines, want header + %d rows", len(lines), len(delivered))
	}
	for _, line := range lines[1:] {
		if !strings.Contains(line, "delivered") {
			t.Errorf("exported row outside filter: %s", line)
		}
	}
}

func TestAPILoads_Filtering(t *testing.T) {
	srv := loadedServer(t)

	rec := do(srv, httptest.NewRequest(http.MethodGet, "/api/loads?status=IN+ROUTE", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	resp := decode[struct {
		Loads []core.Load `json:"loads"`
		Count int         `json:"count"`
	}](t, rec)

	if resp.Count != len(resp.Loads) || resp.Count == 0 {
		t.Fatalf("count = %d, loads = %d", resp.Count, len(resp.Loads))
	}
	for _, l := range resp.Loads {
		if l.Status != core.StatusInRoute {
			t.Errorf("load %d status = %q, want in route", l.ID, l.Status)
		}
	}
}

func TestActivity(t *testing.T) {
	srv := loadedServer(t)

	req := postForm("/loads", validLoadForm())
	req.Header.Set("Accept", "application/json")
	do(srv, req)
	do(srv, httptest.NewRequest(http.MethodGet, "/loads/export", nil))

	rec := do(srv, httptest.NewRequest(http.MethodGet, "/api/activity?action=create", nil))
	resp := decode[struct {
		Entries []core.ActivityEntry `json:"entries"`
		Count   int                  `json:"count"`
	}](t, rec)
	if resp.Count != 1 || resp.Entries[0].Action != core.ActionCreate {
		t.Errorf("activity = %+v, want one create entry", resp.Entries)
	}

	rec = do(srv, httptest.NewRequest(http.MethodGet, "/activity/export", nil))
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 3 {
		t.Errorf("activity export = %d lines, want header + 2", len(lines))
	}

	rec = do(srv, httptest.NewRequest(http.MethodGet, "/activity", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Export") {
		t.Errorf("activity page status = %d", rec.Code)
	}
}

func TestDismissNotifications(t *testing.T) {
	srv := loadedServer(t)

	n, _ := srv.notices.Error("Something Broke", notify.Options{})
	req := httptest.NewRequest(http.MethodPost, "/notifications/"+n.ID+"/dismiss", nil)
	req.Header.Set("Referer", "http://example.com/drivers")
	rec := do(srv, req)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/drivers" {
		t.Errorf("dismiss = %d %q, want 303 /drivers", rec.Code, rec.Header().Get("Location"))
	}
	for _, active := range srv.notices.Active() {
		if active.ID == n.ID {
			t.Error("notification still active after dismiss")
		}
	}

	req = httptest.NewRequest(http.MethodPost, "/notifications/dismiss", nil)
	req.Header.Set("Accept", "application/json")
	do(srv, req)
	if srv.notices.Len() != 0 {
		t.Errorf("Len() = %d after dismiss all, want 0", srv.notices.Len())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := loadedServer(t)

	rec := do(srv, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `freight_records{entity="load"} 12`) {
		t.Errorf("records gauge missing from:\n%s", rec.Body)
	}
}

func TestFilterCriteriaFromQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  core.FilterCriteria
	}{
		{
			name:  "empty uses sentinels",
			query: "",
			want:  core.FilterCriteria{Status: core.AllStatus, Client: core.AllClients, Carrier: core.AllCarriers},
		},
		{
			name:  "all axes",
			query: "search=+chi+&status=in+route&client=Walmart&carrier=J.B.+Hunt",
			want:  core.FilterCriteria{Search: "chi", Status: "in route", Client: "Walmart", Carrier: "J.B. Hunt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, FilterCriteriaFromQuery(q)); diff != "" {
				t.Errorf("FilterCriteriaFromQuery() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{core.ValidationErrors{{Field: "origin", Message: "x"}}, http.StatusUnprocessableEntity},
		{core.ErrNotFound, http.StatusNotFound},
		{core.ErrNotCSV, http.StatusBadRequest},
		{core.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{errRateLimited, http.StatusTooManyRequests},
		{context.DeadlineExceeded, http.StatusRequestTimeout},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
