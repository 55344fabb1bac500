package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/JonMunkholm/freightdash/internal/core"
)

// maxDocumentSize caps a single mock document read over HTTP (8MB).
const maxDocumentSize = 8 << 20

// HTTPSource fetches the three mock documents from BaseURL.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPSource creates an HTTPSource whose client gives up after timeout.
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

// FetchLoads implements Source.
func (s *HTTPSource) FetchLoads(ctx context.Context) ([]core.Load, error) {
	var doc loadsDocument
	if err := s.get(ctx, "loads", LoadsFile, &doc); err != nil {
		return nil, err
	}
	if err := normalizeLoads(doc.Loads); err != nil {
		return nil, &FetchError{Resource: "loads", Location: s.url(LoadsFile), Err: err}
	}
	return doc.Loads, nil
}

// FetchDrivers implements Source.
func (s *HTTPSource) FetchDrivers(ctx context.Context) ([]core.Driver, error) {
	var doc driversDocument
	if err := s.get(ctx, "drivers", DriversFile, &doc); err != nil {
		return nil, err
	}
	if err := normalizeDrivers(doc.Drivers); err != nil {
		return nil, &FetchError{Resource: "drivers", Location: s.url(DriversFile), Err: err}
	}
	return doc.Drivers, nil
}

// FetchTrucks implements Source.
func (s *HTTPSource) FetchTrucks(ctx context.Context) ([]core.Truck, error) {
	var doc trucksDocument
	if err := s.get(ctx, "trucks", TrucksFile, &doc); err != nil {
		return nil, err
	}
	if err := normalizeTrucks(doc.Trucks); err != nil {
		return nil, &FetchError{Resource: "trucks", Location: s.url(TrucksFile), Err: err}
	}
	return doc.Trucks, nil
}

func (s *HTTPSource) url(file string) string {
	return s.BaseURL + "/" + file
}

// get issues a GET for file and decodes the body into doc.
// Any non-2xx status is a *FetchError.
func (s *HTTPSource) get(ctx context.Context, resource, file string, doc any) error {
	u := s.url(file)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &FetchError{Resource: resource, Location: u, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return &FetchError{Resource: resource, Location: u, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &FetchError{
			Resource: resource,
			Location: u,
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("failed to fetch %s data", resource),
		}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxDocumentSize)).Decode(doc); err != nil {
		return &FetchError{Resource: resource, Location: u, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}
