// Package seed fetches the initial loads, drivers and trucks.
//
// The three collections come from independent sources and are fetched
// concurrently. Any single failure fails the whole load; callers never see
// a partially seeded dashboard.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JonMunkholm/freightdash/internal/config"
	"github.com/JonMunkholm/freightdash/internal/core"
	"golang.org/x/sync/errgroup"
)

// Resource file names shared by the dir and http sources.
const (
	LoadsFile   = "loads-mock.json"
	DriversFile = "drivers-mock.json"
	TrucksFile  = "trucks-mock.json"
)

// Source provides the startup data. Implementations must be safe to call
// from multiple goroutines.
type Source interface {
	FetchLoads(ctx context.Context) ([]core.Load, error)
	FetchDrivers(ctx context.Context) ([]core.Driver, error)
	FetchTrucks(ctx context.Context) ([]core.Truck, error)
}

// Data is the result of one complete startup load.
type Data struct {
	Loads   []core.Load
	Drivers []core.Driver
	Trucks  []core.Truck

	Elapsed time.Duration
}

// FetchError reports a resource that could not be retrieved or decoded.
type FetchError struct {
	Resource string // loads, drivers or trucks
	Location string // URL, path or table
	Status   int    // HTTP status, 0 when not applicable
	Err      error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("fetch failed: %s from %s", e.Resource, e.Location)
	if e.Status != 0 {
		msg += fmt.Sprintf(": status %d", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Envelopes of the three JSON documents.
type loadsDocument struct {
	Loads []core.Load `json:"loads"`
}

type driversDocument struct {
	Drivers []core.Driver `json:"drivers"`
}

type trucksDocument struct {
	Trucks []core.Truck `json:"trucks"`
}

// LoadAll fetches all three collections concurrently.
// The first failure cancels the remaining fetches and is returned as is.
func LoadAll(ctx context.Context, src Source) (*Data, error) {
	start := time.Now()
	data := &Data{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		loads, err := src.FetchLoads(gctx)
		if err != nil {
			return err
		}
		data.Loads = loads
		return nil
	})
	g.Go(func() error {
		drivers, err := src.FetchDrivers(gctx)
		if err != nil {
			return err
		}
		data.Drivers = drivers
		return nil
	})
	g.Go(func() error {
		trucks, err := src.FetchTrucks(gctx)
		if err != nil {
			return err
		}
		data.Trucks = trucks
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	data.Elapsed = time.Since(start)
	slog.Info("startup data loaded",
		"loads", len(data.Loads),
		"drivers", len(data.Drivers),
		"trucks", len(data.Trucks),
		"duration_ms", data.Elapsed.Milliseconds(),
	)
	return data, nil
}

// Open builds the Source selected by cfg. The returned close function
// releases any held connections and is never nil.
func Open(ctx context.Context, cfg config.DataConfig) (Source, func(), error) {
	switch cfg.Source {
	case config.SourceDir:
		return &DirSource{Dir: cfg.Dir}, func() {}, nil
	case config.SourceHTTP:
		return NewHTTPSource(cfg.BaseURL, cfg.FetchTimeout), func() {}, nil
	case config.SourcePostgres:
		src, err := NewPostgresSource(ctx, cfg.DatabaseURL, cfg.MaxConns)
		if err != nil {
			return nil, func() {}, err
		}
		return src, src.Close, nil
	default:
		return nil, func() {}, fmt.Errorf("unknown data source %q", cfg.Source)
	}
}

// normalizeLoads lowercases load statuses and rejects unknown ones,
// repeated ids and loads that start where they end.
// An invalid record fails the whole resource.
func normalizeLoads(loads []core.Load) error {
	seen := make(ids, len(loads))
	for i := range loads {
		if err := seen.add(loads[i].ID); err != nil {
			return fmt.Errorf("load %d: %w", loads[i].ID, err)
		}
		st, err := core.ParseLoadStatus(string(loads[i].Status))
		if err != nil {
			return fmt.Errorf("load %d: %w", loads[i].ID, err)
		}
		if err := core.CheckRoute(loads[i].Origin, loads[i].Destination); err != nil {
			return fmt.Errorf("load %d: %w", loads[i].ID, err)
		}
		loads[i].Status = st
	}
	return nil
}

func normalizeDrivers(drivers []core.Driver) error {
	seen := make(ids, len(drivers))
	for _, d := range drivers {
		if err := seen.add(d.ID); err != nil {
			return fmt.Errorf("driver %d: %w", d.ID, err)
		}
		if _, err := core.ParseDriverStatus(string(d.Status)); err != nil {
			return fmt.Errorf("driver %d: %w", d.ID, err)
		}
	}
	return nil
}

// normalizeTrucks holds seeded trucks to the same year, capacity and
// mileage limits as the truck form.
func normalizeTrucks(trucks []core.Truck) error {
	seen := make(ids, len(trucks))
	for _, t := range trucks {
		if err := seen.add(t.ID); err != nil {
			return fmt.Errorf("truck %d: %w", t.ID, err)
		}
		if _, err := core.ParseTruckStatus(string(t.Status)); err != nil {
			return fmt.Errorf("truck %d: %w", t.ID, err)
		}
		if _, err := core.ParseFuelType(string(t.FuelType)); err != nil {
			return fmt.Errorf("truck %d: %w", t.ID, err)
		}
		if err := core.CheckTruckBounds(t); err != nil {
			return fmt.Errorf("truck %d: %w", t.ID, err)
		}
	}
	return nil
}

// ids tracks the record ids seen in one document.
type ids map[int]struct{}

func (s ids) add(id int) error {
	if _, dup := s[id]; dup {
		return core.ErrDuplicateID
	}
	s[id] = struct{}{}
	return nil
}
