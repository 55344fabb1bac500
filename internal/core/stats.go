package core

import "strings"

// Summarize computes the dashboard counters from the three collections.
// Load status is matched case-insensitively; driver and truck status are
// matched exactly. Nothing is cached: every call recounts.
func Summarize(loads []Load, drivers []Driver, trucks []Truck) Stats {
	s := Stats{TotalLoads: len(loads)}

	for _, l := range loads {
		switch LoadStatus(strings.ToLower(string(l.Status))) {
		case StatusPickUp:
			s.PickUpCount++
		case StatusInRoute:
			s.InRouteCount++
		case StatusDelivered:
			s.DeliveredCount++
		}
	}

	for _, d := range drivers {
		if d.Status == DriverAvailable {
			s.AvailableDrivers++
		}
	}

	for _, t := range trucks {
		if t.Status == TruckAvailable {
			s.AvailableTrucks++
		}
	}

	return s
}

// SummarizeFleet counts trucks per status.
func SummarizeFleet(trucks []Truck) FleetStats {
	var f FleetStats
	for _, t := range trucks {
		switch t.Status {
		case TruckAvailable:
			f.Available++
		case TruckInUse:
			f.InUse++
		case TruckMaintenance:
			f.Maintenance++
		case TruckOutOfService:
			f.OutOfService++
		}
	}
	return f
}
