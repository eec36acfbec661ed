package booking

// Fits reports whether the class can carry the given load.
func (v VehicleClass) Fits(passengers, suitcases int) bool {
	return passengers <= v.MaxPassengers && suitcases <= v.MaxLuggage
}

// SelectBest returns the first (smallest) vehicle class that fits the load.
// The second return is false when no configured class fits; callers must then
// block the booking and point the customer at the large-group contact path.
func (c *Catalog) SelectBest(passengers, suitcases int) (VehicleClass, bool) {
	for _, v := range c.Vehicles {
		if v.Fits(passengers, suitcases) {
			return v, true
		}
	}
	return VehicleClass{}, false
}
