package scheduler

import (
	"fmt"
	"math"
	"sort"
	"time"

	"evcharge/internal/clock"
	"evcharge/internal/model"
	"evcharge/internal/simerr"
)

// TickConfig holds the scheduler-level parameters that are constant for a
// run (tick length, long-trip grace cap, needs_charge model, high-demand
// skip window).
type TickConfig struct {
	Tick             time.Duration
	ManageCap        time.Duration
	NeedsChargeModel model.NeedsChargeModel

	HighDemandSkip     bool
	HighDemandStartMin int
	HighDemandEndMin   int
}

// Runner binds one Building to its Policy and runs the fixed seven-step
// tick sequence against it.
type Runner struct {
	Building *model.Building
	Policy   Policy
	Config   TickConfig
}

// NewRunner constructs a Runner for b, selecting the Policy implementation
// from b.Policy.
func NewRunner(b *model.Building, cfg TickConfig) *Runner {
	return &Runner{Building: b, Policy: New(b.Policy), Config: cfg}
}

// RunTick advances the building by one tick at time t given the tick's
// background consumption percentage, returning the emitted row (and, for
// Priority buildings, the companion priority row).
func (r *Runner) RunTick(t time.Time, consumptionPercent float64) (TickRow, *PriorityRow, error) {
	b := r.Building
	tMins := t.Hour()*60 + t.Minute()

	b.ResetTickAccumulators()
	b.UpdatePower(tMins, consumptionPercent)

	var toConsider []*model.Vehicle
	for _, v := range b.Vehicles {
		v.StepStatus(t, r.Config.Tick, r.Config.ManageCap, r.Config.NeedsChargeModel)
		if !v.Present {
			b.Waiting = removeVehicle(b.Waiting, v)
			b.Charging = removeVehicle(b.Charging, v)
			v.DriveOneTick(r.Config.Tick)
			continue
		}
		if !v.Full() {
			toConsider = append(toConsider, v)
		}
	}

	// Descending by needs_charge (true before false); stable so ties keep
	// the building's vehicle order.
	sort.SliceStable(toConsider, func(i, j int) bool {
		return toConsider[i].NeedsCharge && !toConsider[j].NeedsCharge
	})

	highDemandActive := r.Config.HighDemandSkip &&
		clock.InWindow(tMins, r.Config.HighDemandStartMin, r.Config.HighDemandEndMin)

	for _, v := range toConsider {
		if highDemandActive && v.Battery/v.MaxBattery >= v.DayTotalNeed(r.Config.ManageCap) {
			continue
		}
		r.Policy.Admit(b, v, r.Config.ManageCap)
	}

	capacity := b.Capacity(tMins, consumptionPercent)
	r.Policy.RefillCharging(b, capacity, r.Config.ManageCap)

	// A capacity shrink since the last tick can leave Charging carrying more
	// vehicles than the building can currently power; drop the overflow
	// (from the tail, keeping the earliest-admitted prefix) before anyone
	// charges, so an about-to-be-evicted vehicle never absorbs a quantum.
	if len(b.Charging) > capacity {
		b.Charging = b.Charging[:capacity]
	}

	quantumHours := r.Config.Tick.Minutes() / 60
	for _, v := range b.Charging {
		delta := v.Charge(b.ChargerPowerCurrent * quantumHours)
		b.PowerUsedByChargers += delta
	}

	unmetDemand := false
	for _, v := range b.Vehicles {
		if v.Present && v.NeedsCharge && !contains(b.Charging, v) {
			unmetDemand = true
			break
		}
	}

	r.Policy.Evict(b, capacity)

	if err := r.checkInvariants(capacity); err != nil {
		if se, ok := err.(*simerr.Error); ok {
			se.Message = fmt.Sprintf("%s at tick %s", se.Message, t.Format("2006-01-02 15:04"))
		}
		return TickRow{}, nil, err
	}

	row := TickRow{
		Time:           t.Format("2006-01-02 15:04"),
		AvailablePower: b.AvailablePower,
		PowerUsed:      b.PowerUsedByChargers,
		UnmetDemand:    unmetDemand,
		BatteryRatios:  make([]float64, len(b.Vehicles)),
	}
	for i, v := range b.Vehicles {
		row.BatteryRatios[i] = v.BatteryRatio()
	}

	var prow *PriorityRow
	if b.Policy == model.PolicyPriority {
		prow = &PriorityRow{Time: row.Time, Priorities: make([]float64, len(b.Vehicles))}
		for i, v := range b.Vehicles {
			prow.Priorities[i] = math.Round(v.Priority(r.Config.ManageCap)*100) / 100
		}
	}

	return row, prow, nil
}

// checkInvariants enforces §8's per-tick invariants, returning a
// SchedulerInvariantViolation naming the offending building and vehicle (or,
// for a capacity overrun, the counts) on failure; RunTick appends the tick.
func (r *Runner) checkInvariants(capacity int) error {
	b := r.Building

	if len(b.Charging) > capacity {
		return simerr.Invariant("CAPACITY_EXCEEDED",
			fmt.Sprintf("building %s: charging=%d exceeds capacity=%d", b.Name, len(b.Charging), capacity))
	}
	for _, v := range b.Waiting {
		if contains(b.Charging, v) {
			return simerr.Invariant("WAITING_CHARGING_OVERLAP",
				fmt.Sprintf("building %s: vehicle %s is in both waiting and charging", b.Name, v.Name))
		}
		if !v.Present {
			return simerr.Invariant("ABSENT_VEHICLE_IN_QUEUE",
				fmt.Sprintf("building %s: absent vehicle %s found in waiting", b.Name, v.Name))
		}
	}
	for _, v := range b.Charging {
		if !v.Present {
			return simerr.Invariant("ABSENT_VEHICLE_IN_QUEUE",
				fmt.Sprintf("building %s: absent vehicle %s found in charging", b.Name, v.Name))
		}
	}
	return nil
}
