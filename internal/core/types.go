package core

import (
	"fmt"
	"strings"
)

// LoadStatus is the lifecycle stage of a load.
// Values are always stored lowercase.
type LoadStatus string

const (
	StatusPickUp    LoadStatus = "pick up"
	StatusInRoute   LoadStatus = "in route"
	StatusDelivered LoadStatus = "delivered"
)

// LoadStatuses lists all valid load statuses in display order.
var LoadStatuses = []LoadStatus{StatusPickUp, StatusInRoute, StatusDelivered}

// ParseLoadStatus normalizes s and checks it against the closed set.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseLoadStatus(s string) (LoadStatus, error) {
	v := LoadStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, st := range LoadStatuses {
		if v == st {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid enum: load status %q", s)
}

// DriverStatus is the availability of a driver.
type DriverStatus string

const (
	DriverAvailable DriverStatus = "available"
	DriverBusy      DriverStatus = "busy"
	DriverOffline   DriverStatus = "offline"
)

// DriverStatuses lists all valid driver statuses.
var DriverStatuses = []DriverStatus{DriverAvailable, DriverBusy, DriverOffline}

// ParseDriverStatus checks s against the closed set of driver statuses.
func ParseDriverStatus(s string) (DriverStatus, error) {
	for _, st := range DriverStatuses {
		if DriverStatus(s) == st {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid enum: driver status %q", s)
}

// TruckStatus is the operational state of a truck.
type TruckStatus string

const (
	TruckAvailable    TruckStatus = "available"
	TruckInUse        TruckStatus = "in-use"
	TruckMaintenance  TruckStatus = "maintenance"
	TruckOutOfService TruckStatus = "out-of-service"
)

// TruckStatuses lists all valid truck statuses.
var TruckStatuses = []TruckStatus{TruckAvailable, TruckInUse, TruckMaintenance, TruckOutOfService}

// ParseTruckStatus checks s against the closed set of truck statuses.
func ParseTruckStatus(s string) (TruckStatus, error) {
	for _, st := range TruckStatuses {
		if TruckStatus(s) == st {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid enum: truck status %q", s)
}

// FuelType is the propulsion of a truck.
type FuelType string

const (
	FuelDiesel   FuelType = "diesel"
	FuelGasoline FuelType = "gasoline"
	FuelElectric FuelType = "electric"
	FuelHybrid   FuelType = "hybrid"
)

// FuelTypes lists all valid fuel types.
var FuelTypes = []FuelType{FuelDiesel, FuelGasoline, FuelElectric, FuelHybrid}

// ParseFuelType checks s against the closed set of fuel types.
func ParseFuelType(s string) (FuelType, error) {
	for _, ft := range FuelTypes {
		if FuelType(s) == ft {
			return ft, nil
		}
	}
	return "", fmt.Errorf("invalid enum: fuel type %q", s)
}

// Load is a shipment with a route, client, carrier and lifecycle status.
type Load struct {
	ID          int        `json:"id"`
	Status      LoadStatus `json:"status"`
	Origin      string     `json:"origin"`
	Destination string     `json:"destination"`
	ClientName  string     `json:"client_name"`
	CarrierName string     `json:"carrier_name"`
}

// Driver is a member of the driver roster.
type Driver struct {
	ID             int          `json:"id"`
	Name           string       `json:"name"`
	Location       string       `json:"location"`
	Status         DriverStatus `json:"status"`
	Rating         float64      `json:"rating"`
	CompletedLoads int          `json:"completedLoads"`
	Phone          string       `json:"phone"`
	Email          string       `json:"email"`
	LicenseNumber  string       `json:"licenseNumber"`
	LicenseExpiry  string       `json:"licenseExpiry"`
}

// Truck is a fleet vehicle.
// Driver is a free-text name and is not checked against the driver roster.
type Truck struct {
	ID              int         `json:"id"`
	LicensePlate    string      `json:"licensePlate"`
	Model           string      `json:"model"`
	Year            int         `json:"year"`
	Capacity        int         `json:"capacity"`
	Status          TruckStatus `json:"status"`
	Driver          string      `json:"driver,omitempty"`
	Location        string      `json:"location"`
	Mileage         int         `json:"mileage"`
	LastMaintenance string      `json:"lastMaintenance"`
	NextMaintenance string      `json:"nextMaintenance"`
	FuelType        FuelType    `json:"fuelType"`
}

// Defaults applied to newly created drivers.
const (
	DefaultDriverRating = 4.0
)

// Sentinel filter values meaning "do not filter on this axis".
const (
	AllStatus   = "All Status"
	AllClients  = "All Clients"
	AllCarriers = "All Carriers"
)

// FilterCriteria holds the four filter axes for the load list.
// Empty Status, Client or Carrier behave like their sentinel values.
type FilterCriteria struct {
	Search  string
	Status  string
	Client  string
	Carrier string
}

// Stats holds the dashboard summary counters.
type Stats struct {
	TotalLoads       int `json:"totalLoads"`
	PickUpCount      int `json:"pickUpCount"`
	InRouteCount     int `json:"inRouteCount"`
	DeliveredCount   int `json:"deliveredCount"`
	AvailableDrivers int `json:"availableDrivers"`
	AvailableTrucks  int `json:"availableTrucks"`
}

// FleetStats holds per-status truck counts for the fleet view.
type FleetStats struct {
	Available    int `json:"available"`
	InUse        int `json:"inUse"`
	Maintenance  int `json:"maintenance"`
	OutOfService int `json:"outOfService"`
}
