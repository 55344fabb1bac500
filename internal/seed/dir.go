package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/JonMunkholm/freightdash/internal/core"
)

// DirSource reads the three mock documents from a local directory.
type DirSource struct {
	Dir string
}

// FetchLoads implements Source.
func (s *DirSource) FetchLoads(ctx context.Context) ([]core.Load, error) {
	var doc loadsDocument
	path, err := s.read(ctx, "loads", LoadsFile, &doc)
	if err != nil {
		return nil, err
	}
	if err := normalizeLoads(doc.Loads); err != nil {
		return nil, &FetchError{Resource: "loads", Location: path, Err: err}
	}
	return doc.Loads, nil
}

// FetchDrivers implements Source.
func (s *DirSource) FetchDrivers(ctx context.Context) ([]core.Driver, error) {
	var doc driversDocument
	path, err := s.read(ctx, "drivers", DriversFile, &doc)
	if err != nil {
		return nil, err
	}
	if err := normalizeDrivers(doc.Drivers); err != nil {
		return nil, &FetchError{Resource: "drivers", Location: path, Err: err}
	}
	return doc.Drivers, nil
}

// FetchTrucks implements Source.
func (s *DirSource) FetchTrucks(ctx context.Context) ([]core.Truck, error) {
	var doc trucksDocument
	path, err := s.read(ctx, "trucks", TrucksFile, &doc)
	if err != nil {
		return nil, err
	}
	if err := normalizeTrucks(doc.Trucks); err != nil {
		return nil, &FetchError{Resource: "trucks", Location: path, Err: err}
	}
	return doc.Trucks, nil
}

func (s *DirSource) read(ctx context.Context, resource, file string, doc any) (string, error) {
	path := filepath.Join(s.Dir, file)
	if err := ctx.Err(); err != nil {
		return path, &FetchError{Resource: resource, Location: path, Err: err}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return path, &FetchError{Resource: resource, Location: path, Err: err}
	}
	if err := json.Unmarshal(b, doc); err != nil {
		return path, &FetchError{Resource: resource, Location: path, Err: fmt.Errorf("parse json: %w", err)}
	}
	return path, nil
}
