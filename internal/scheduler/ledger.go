package scheduler

// TickRow is one emitted row of a building's output table: timestamp,
// power budget, power delivered, and each vehicle's battery ratio in the
// building's vehicle order.
type TickRow struct {
	Time           string
	AvailablePower float64
	PowerUsed      float64
	// UnmetDemand reports whether some present, needs-charge vehicle was not
	// in Charging at the moment power was delivered this tick (captured
	// before Evict, so it reflects who actually charged rather than a
	// policy's post-tick queue shape).
	UnmetDemand   bool
	BatteryRatios []float64
}

// PriorityRow is the additional per-tick row Priority buildings emit,
// holding each vehicle's urgency score in the building's vehicle order.
type PriorityRow struct {
	Time        string
	Priorities  []float64
}
