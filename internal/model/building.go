package model

// PolicyKind tags which admission/eviction policy a building runs under.
type PolicyKind string

const (
	PolicyFIFO       PolicyKind = "fifo"
	PolicyRoundRobin PolicyKind = "round_robin"
	PolicyPriority   PolicyKind = "priority"
)

// Building holds one site's fleet, power model, and the queues the
// scheduler mutates tick by tick.
type Building struct {
	Name   string
	Policy PolicyKind
	Power  PowerModel

	Vehicles []*Vehicle

	Waiting  []*Vehicle
	Charging []*Vehicle

	// LastServedIndex is the round-robin cursor into Vehicles, persisted
	// across ticks so admission resumes where it left off.
	LastServedIndex int

	// AvailablePower and ChargerPowerCurrent are recomputed by UpdatePower
	// at the start of every tick.
	AvailablePower      float64
	ChargerPowerCurrent float64

	// PowerUsedByChargers accumulates the kWh delivered this tick, reset by
	// the scheduler at the start of every tick.
	PowerUsedByChargers float64
}

// UpdatePower recomputes AvailablePower and ChargerPowerCurrent for the
// given minute-of-day and background consumption level.
func (b *Building) UpdatePower(tMins int, consumptionPercent float64) {
	b.AvailablePower = b.Power.AvailablePower(tMins, consumptionPercent)
	b.ChargerPowerCurrent = b.Power.ChargerPowerCurrent(tMins)
}

// Capacity returns how many vehicles Power can serve simultaneously at the
// given minute-of-day and background consumption level.
func (b *Building) Capacity(tMins int, consumptionPercent float64) int {
	return b.Power.Capacity(tMins, consumptionPercent)
}

// ResetTickAccumulators clears the per-tick counters the scheduler fills in
// fresh each cycle.
func (b *Building) ResetTickAccumulators() {
	b.PowerUsedByChargers = 0
}

// Clone deep-copies the building, its power model, and every vehicle
// (including trip-plan cursors), so each enabled policy can diverge from a
// shared template without further RNG draws.
func (b *Building) Clone() *Building {
	out := &Building{
		Name:            b.Name,
		Policy:          b.Policy,
		Power:           b.Power,
		LastServedIndex: b.LastServedIndex,
	}

	byOriginal := make(map[*Vehicle]*Vehicle, len(b.Vehicles))
	out.Vehicles = make([]*Vehicle, len(b.Vehicles))
	for i, v := range b.Vehicles {
		cv := v.Clone()
		out.Vehicles[i] = cv
		byOriginal[v] = cv
	}

	out.Waiting = make([]*Vehicle, len(b.Waiting))
	for i, v := range b.Waiting {
		out.Waiting[i] = byOriginal[v]
	}
	out.Charging = make([]*Vehicle, len(b.Charging))
	for i, v := range b.Charging {
		out.Charging[i] = byOriginal[v]
	}

	return out
}
