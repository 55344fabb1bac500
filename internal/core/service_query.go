package core

// Loads returns the loads matching c, recomputed from current state.
func (s *Service) Loads(c FilterCriteria) []Load {
	return FilterLoads(s.store.Loads.List(), c)
}

// Drivers returns all drivers in roster order.
func (s *Service) Drivers() []Driver {
	return s.store.Drivers.List()
}

// Trucks returns all trucks in fleet order.
func (s *Service) Trucks() []Truck {
	return s.store.Trucks.List()
}

// Load returns the load with the given id.
func (s *Service) Load(id int) (Load, bool) {
	return s.store.Loads.Get(id)
}

// Driver returns the driver with the given id.
func (s *Service) Driver(id int) (Driver, bool) {
	return s.store.Drivers.Get(id)
}

// Truck returns the truck with the given id.
func (s *Service) Truck(id int) (Truck, bool) {
	return s.store.Trucks.Get(id)
}

// Stats returns the dashboard counters over all collections.
func (s *Service) Stats() Stats {
	return Summarize(s.store.Loads.List(), s.store.Drivers.List(), s.store.Trucks.List())
}

// Fleet returns per-status truck counts.
func (s *Service) Fleet() FleetStats {
	return SummarizeFleet(s.store.Trucks.List())
}

// Clients returns the distinct client names for the client filter.
func (s *Service) Clients() []string {
	return UniqueClients(s.store.Loads.List())
}

// Carriers returns the distinct carrier names for the carrier filter.
func (s *Service) Carriers() []string {
	return UniqueCarriers(s.store.Loads.List())
}
