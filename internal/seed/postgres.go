package seed

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/JonMunkholm/freightdash/internal/core"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Read-only queries. The dashboard never writes back to the database.
const (
	selectLoads = `
		SELECT id, status, origin, destination, client_name, carrier_name
		FROM loads
		ORDER BY id`

	selectDrivers = `
		SELECT id, name, location, status, rating::float8, completed_loads,
		       phone, email, license_number, to_char(license_expiry, 'YYYY-MM-DD')
		FROM drivers
		ORDER BY id`

	selectTrucks = `
		SELECT id, license_plate, model, year, capacity, status, driver, location,
		       mileage, to_char(last_maintenance, 'YYYY-MM-DD'),
		       to_char(next_maintenance, 'YYYY-MM-DD'), fuel_type
		FROM trucks
		ORDER BY id`
)

// PostgresSource reads the three collections from PostgreSQL tables.
type PostgresSource struct {
	pool     *pgxpool.Pool
	location string
}

// NewPostgresSource connects a small pool and verifies it with a ping.
func NewPostgresSource(ctx context.Context, databaseURL string, maxConns int) (*PostgresSource, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	if maxConns > 0 {
		poolConfig.MaxConns = int32(maxConns)
	}
	poolConfig.ConnConfig.RuntimeParams["default_transaction_read_only"] = "on"

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresSource{pool: pool, location: databaseName(databaseURL)}, nil
}

// Close releases the pool.
func (s *PostgresSource) Close() {
	s.pool.Close()
}

// FetchLoads implements Source.
func (s *PostgresSource) FetchLoads(ctx context.Context) ([]core.Load, error) {
	rows, err := s.pool.Query(ctx, selectLoads)
	if err != nil {
		return nil, s.fetchErr("loads", err)
	}
	loads, err := pgx.CollectRows(rows, scanLoad)
	if err != nil {
		return nil, s.fetchErr("loads", err)
	}
	if err := normalizeLoads(loads); err != nil {
		return nil, s.fetchErr("loads", err)
	}
	return loads, nil
}

// FetchDrivers implements Source.
func (s *PostgresSource) FetchDrivers(ctx context.Context) ([]core.Driver, error) {
	rows, err := s.pool.Query(ctx, selectDrivers)
	if err != nil {
		return nil, s.fetchErr("drivers", err)
	}
	drivers, err := pgx.CollectRows(rows, scanDriver)
	if err != nil {
		return nil, s.fetchErr("drivers", err)
	}
	if err := normalizeDrivers(drivers); err != nil {
		return nil, s.fetchErr("drivers", err)
	}
	return drivers, nil
}

// FetchTrucks implements Source.
func (s *PostgresSource) FetchTrucks(ctx context.Context) ([]core.Truck, error) {
	rows, err := s.pool.Query(ctx, selectTrucks)
	if err != nil {
		return nil, s.fetchErr("trucks", err)
	}
	trucks, err := pgx.CollectRows(rows, scanTruck)
	if err != nil {
		return nil, s.fetchErr("trucks", err)
	}
	if err := normalizeTrucks(trucks); err != nil {
		return nil, s.fetchErr("trucks", err)
	}
	return trucks, nil
}

func (s *PostgresSource) fetchErr(resource string, err error) error {
	return &FetchError{Resource: resource, Location: s.location + "." + resource, Err: err}
}

func scanLoad(row pgx.CollectableRow) (core.Load, error) {
	var (
		l      core.Load
		status string
	)
	err := row.Scan(&l.ID, &status, &l.Origin, &l.Destination, &l.ClientName, &l.CarrierName)
	l.Status = core.LoadStatus(status)
	return l, err
}

func scanDriver(row pgx.CollectableRow) (core.Driver, error) {
	var (
		d      core.Driver
		status string
		expiry pgtype.Text
	)
	err := row.Scan(&d.ID, &d.Name, &d.Location, &status, &d.Rating, &d.CompletedLoads,
		&d.Phone, &d.Email, &d.LicenseNumber, &expiry)
	d.Status = core.DriverStatus(status)
	d.LicenseExpiry = expiry.String
	return d, err
}

func scanTruck(row pgx.CollectableRow) (core.Truck, error) {
	var (
		t                core.Truck
		status, fuel     string
		driver           pgtype.Text
		lastMnt, nextMnt pgtype.Text
	)
	err := row.Scan(&t.ID, &t.LicensePlate, &t.Model, &t.Year, &t.Capacity, &status, &driver,
		&t.Location, &t.Mileage, &lastMnt, &nextMnt, &fuel)
	t.Status = core.TruckStatus(status)
	t.FuelType = core.FuelType(fuel)
	t.Driver = driver.String
	t.LastMaintenance = lastMnt.String
	t.NextMaintenance = nextMnt.String
	return t, err
}

// databaseName returns the database name of a connection URL, never the
// credentials, so it is safe to put in error messages.
func databaseName(databaseURL string) string {
	u, err := url.Parse(databaseURL)
	if err != nil || u.Path == "" {
		return "postgres"
	}
	return strings.TrimPrefix(u.Path, "/")
}
