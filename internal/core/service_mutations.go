package core

import (
	"context"
	"fmt"
	"log/slog"
)

// CreateLoad validates in and stores it as the newest load.
func (s *Service) CreateLoad(ctx context.Context, in LoadInput) (Load, error) {
	load, err := in.Validate()
	if err != nil {
		return Load{}, err
	}

	var created Load
	if err := guard(EntityLoad, ActionCreate, func() {
		created = s.store.Loads.Create(load)
	}); err != nil {
		return Load{}, err
	}

	s.applied(ctx, EntityLoad, ActionCreate, created.ID)
	return created, nil
}

// UpdateLoad replaces the load with the given id.
// An unknown id is a no-op and returns false without error.
func (s *Service) UpdateLoad(ctx context.Context, id int, in LoadInput) (Load, bool, error) {
	load, err := in.Validate()
	if err != nil {
		return Load{}, false, err
	}

	var (
		updated Load
		ok      bool
	)
	if err := guard(EntityLoad, ActionUpdate, func() {
		updated, ok = s.store.Loads.Modify(id, func(Load) Load { return load })
	}); err != nil {
		return Load{}, false, err
	}
	if !ok {
		return Load{}, false, nil
	}

	s.applied(ctx, EntityLoad, ActionUpdate, id)
	return updated, true, nil
}

// DeleteLoad removes the load with the given id.
// Returns false if no such load exists.
func (s *Service) DeleteLoad(ctx context.Context, id int) bool {
	return s.remove(ctx, EntityLoad, id, s.store.Loads.Delete)
}

// CreateDriver validates in and appends a driver with default
// status, rating and completed loads.
func (s *Service) CreateDriver(ctx context.Context, in DriverInput) (Driver, error) {
	driver, err := in.Validate()
	if err != nil {
		return Driver{}, err
	}
	driver.Status = DriverAvailable
	driver.Rating = DefaultDriverRating
	driver.CompletedLoads = 0

	var created Driver
	if err := guard(EntityDriver, ActionCreate, func() {
		created = s.store.Drivers.Create(driver)
	}); err != nil {
		return Driver{}, err
	}

	s.applied(ctx, EntityDriver, ActionCreate, created.ID)
	return created, nil
}

// UpdateDriver replaces the form fields of a driver.
// Status, rating and completed loads are kept.
func (s *Service) UpdateDriver(ctx context.Context, id int, in DriverInput) (Driver, bool, error) {
	driver, err := in.Validate()
	if err != nil {
		return Driver{}, false, err
	}

	var (
		updated Driver
		ok      bool
	)
	if err := guard(EntityDriver, ActionUpdate, func() {
		updated, ok = s.store.Drivers.Modify(id, func(old Driver) Driver {
			driver.Status = old.Status
			driver.Rating = old.Rating
			driver.CompletedLoads = old.CompletedLoads
			return driver
		})
	}); err != nil {
		return Driver{}, false, err
	}
	if !ok {
		return Driver{}, false, nil
	}

	s.applied(ctx, EntityDriver, ActionUpdate, id)
	return updated, true, nil
}

// SetDriverStatus changes the availability of a driver.
func (s *Service) SetDriverStatus(ctx context.Context, id int, status string) (Driver, bool, error) {
	st, err := ParseDriverStatus(status)
	if err != nil {
		return Driver{}, false, err
	}

	var (
		updated Driver
		ok      bool
	)
	if err := guard(EntityDriver, ActionStatus, func() {
		updated, ok = s.store.Drivers.Modify(id, func(d Driver) Driver {
			d.Status = st
			return d
		})
	}); err != nil {
		return Driver{}, false, err
	}
	if !ok {
		return Driver{}, false, nil
	}

	s.applied(ctx, EntityDriver, ActionStatus, id)
	return updated, true, nil
}

// DeleteDriver removes the driver with the given id.
func (s *Service) DeleteDriver(ctx context.Context, id int) bool {
	return s.remove(ctx, EntityDriver, id, s.store.Drivers.Delete)
}

// CreateTruck validates in and appends an available truck.
func (s *Service) CreateTruck(ctx context.Context, in TruckInput) (Truck, error) {
	truck, err := in.Validate()
	if err != nil {
		return Truck{}, err
	}
	truck.Status = TruckAvailable

	var created Truck
	if err := guard(EntityTruck, ActionCreate, func() {
		created = s.store.Trucks.Create(truck)
	}); err != nil {
		return Truck{}, err
	}

	s.applied(ctx, EntityTruck, ActionCreate, created.ID)
	return created, nil
}

// UpdateTruck replaces the form fields of a truck.
// Status and assigned driver are kept.
func (s *Service) UpdateTruck(ctx context.Context, id int, in TruckInput) (Truck, bool, error) {
	truck, err := in.Validate()
	if err != nil {
		return Truck{}, false, err
	}

	var (
		updated Truck
		ok      bool
	)
	if err := guard(EntityTruck, ActionUpdate, func() {
		updated, ok = s.store.Trucks.Modify(id, func(old Truck) Truck {
			truck.Status = old.Status
			truck.Driver = old.Driver
			return truck
		})
	}); err != nil {
		return Truck{}, false, err
	}
	if !ok {
		return Truck{}, false, nil
	}

	s.applied(ctx, EntityTruck, ActionUpdate, id)
	return updated, true, nil
}

// SetTruckStatus changes the operational state of a truck.
func (s *Service) SetTruckStatus(ctx context.Context, id int, status string) (Truck, bool, error) {
	st, err := ParseTruckStatus(status)
	if err != nil {
		return Truck{}, false, err
	}

	var (
		updated Truck
		ok      bool
	)
	if err := guard(EntityTruck, ActionStatus, func() {
		updated, ok = s.store.Trucks.Modify(id, func(t Truck) Truck {
			t.Status = st
			return t
		})
	}); err != nil {
		return Truck{}, false, err
	}
	if !ok {
		return Truck{}, false, nil
	}

	s.applied(ctx, EntityTruck, ActionStatus, id)
	return updated, true, nil
}

// DeleteTruck removes the truck with the given id.
func (s *Service) DeleteTruck(ctx context.Context, id int) bool {
	return s.remove(ctx, EntityTruck, id, s.store.Trucks.Delete)
}

// ReplaceLoads swaps the whole load collection. Used by the startup load.
func (s *Service) ReplaceLoads(loads []Load) error {
	if err := s.store.Loads.ReplaceAll(loads); err != nil {
		return fmt.Errorf("replace loads: %w", err)
	}
	return nil
}

// ReplaceDrivers swaps the whole driver collection.
func (s *Service) ReplaceDrivers(drivers []Driver) error {
	if err := s.store.Drivers.ReplaceAll(drivers); err != nil {
		return fmt.Errorf("replace drivers: %w", err)
	}
	return nil
}

// ReplaceTrucks swaps the whole truck collection.
func (s *Service) ReplaceTrucks(trucks []Truck) error {
	if err := s.store.Trucks.ReplaceAll(trucks); err != nil {
		return fmt.Errorf("replace trucks: %w", err)
	}
	return nil
}

// remove deletes id with del. A panic inside del counts as not deleted.
func (s *Service) remove(ctx context.Context, entity string, id int, del func(int) bool) bool {
	var ok bool
	if err := guard(entity, ActionDelete, func() { ok = del(id) }); err != nil || !ok {
		return false
	}
	s.applied(ctx, entity, ActionDelete, id)
	return true
}

func (s *Service) applied(ctx context.Context, entity string, action Action, id int) {
	s.activity.Record(ctx, ActivityEntry{
		Action:       action,
		Entity:       entity,
		EntityID:     id,
		RowsAffected: 1,
	})
	s.observer.MutationApplied(entity, action)
	slog.Debug("mutation applied",
		"entity", entity,
		"action", action,
		"id", id,
	)
}
