package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"evcharge/internal/model"
	"evcharge/internal/randsrc"
)

func buildingWithPower(declared, chargerPower float64) *model.Building {
	return &model.Building{
		Power: model.PowerModel{
			DeclaredPower: declared,
			ChargerPower:  chargerPower,
			ScalePercent:  100,
		},
	}
}

func TestRunTickChargesAdmittedVehiclesByOneQuantum(t *testing.T) {
	v := vehicleFIFO("v1", 0, 10)
	v.Efficiency = 5
	v.AvgSpeedKmh = 0 // stationary, no trips

	b := buildingWithPower(28, 7) // capacity 4 at 7kW/charger
	b.Name = "site"
	b.Policy = model.PolicyFIFO
	b.Vehicles = []*model.Vehicle{v}

	r := NewRunner(b, TickConfig{Tick: 15 * time.Minute, ManageCap: 90 * time.Minute})
	row, prow, err := r.RunTick(day(8, 0), 0)
	require.NoError(t, err)
	require.Nil(t, prow)

	// 7kW for 15 minutes = 1.75kWh.
	require.InDelta(t, 1.75, v.Battery, 1e-9)
	require.InDelta(t, 1.75, row.PowerUsed, 1e-9)
	require.Len(t, row.BatteryRatios, 1)
}

func TestRunTickCapacityShrinkEvictsFIFOFromTail(t *testing.T) {
	v1 := vehicleFIFO("v1", 0, 100)
	v2 := vehicleFIFO("v2", 0, 100)
	b := buildingWithPower(7, 7) // capacity 1
	b.Name = "site"
	b.Policy = model.PolicyFIFO
	b.Vehicles = []*model.Vehicle{v1, v2}
	b.Charging = []*model.Vehicle{v1, v2} // pretend both were charging last tick

	r := NewRunner(b, TickConfig{Tick: 15 * time.Minute, ManageCap: 90 * time.Minute})
	_, _, err := r.RunTick(day(8, 0), 0)
	require.NoError(t, err)
	require.Len(t, b.Charging, 1)
	require.Equal(t, v1, b.Charging[0])
}

// TestRunTickCapacityDropToZeroChargesNoOne is scenario S2: a capacity drop
// to zero this tick must leave every carried-over vehicle's battery
// untouched and report zero power used, even though they were still in
// Charging when the tick began.
func TestRunTickCapacityDropToZeroChargesNoOne(t *testing.T) {
	v1 := vehicleFIFO("v1", 0, 100)
	v2 := vehicleFIFO("v2", 0, 100)
	v3 := vehicleFIFO("v3", 0, 100)
	b := buildingWithPower(7, 7)
	b.Power.ScalePercent = 0 // forces capacity to 0 this tick regardless of consumption
	b.Name = "site"
	b.Policy = model.PolicyFIFO
	b.Vehicles = []*model.Vehicle{v1, v2, v3}
	b.Charging = []*model.Vehicle{v1, v2, v3}

	r := NewRunner(b, TickConfig{Tick: 15 * time.Minute, ManageCap: 90 * time.Minute})
	row, _, err := r.RunTick(day(8, 0), 0)
	require.NoError(t, err)

	require.Empty(t, b.Charging)
	require.Equal(t, 0.0, row.PowerUsed)
	for _, v := range b.Vehicles {
		require.Equal(t, 0.0, v.Battery, "battery must be unchanged when capacity drops to zero")
	}
}

// TestRunTickUnmetDemandReflectsChargingBeforeEvict guards against reading
// Charging after Evict: Priority and RoundRobin both empty Charging every
// tick by design, so unmet demand must be captured while the vehicle is
// still in Charging, not after.
func TestRunTickUnmetDemandReflectsChargingBeforeEvict(t *testing.T) {
	for _, kind := range []model.PolicyKind{model.PolicyFIFO, model.PolicyRoundRobin, model.PolicyPriority} {
		v := vehicleFIFO("v1", 0, 50) // needs charge, ample capacity to serve it
		v.HighDemandSlack = 0.5       // nonzero day-total need so low battery reads as needing charge
		b := buildingWithPower(28, 7) // capacity 4
		b.Name = "site"
		b.Policy = kind
		b.Vehicles = []*model.Vehicle{v}

		r := NewRunner(b, TickConfig{Tick: 15 * time.Minute, ManageCap: 90 * time.Minute})
		row, _, err := r.RunTick(day(8, 0), 0)
		require.NoError(t, err)
		require.False(t, row.UnmetDemand, "policy %s: vehicle was served this tick, demand must not read as unmet", kind)
	}
}

func TestRunTickUnmetDemandTrueWhenCapacityExhausted(t *testing.T) {
	v1 := vehicleFIFO("v1", 0, 50)
	v1.HighDemandSlack = 0.5
	v2 := vehicleFIFO("v2", 0, 50)
	v2.HighDemandSlack = 0.5
	b := buildingWithPower(7, 7) // capacity 1
	b.Name = "site"
	b.Policy = model.PolicyFIFO
	b.Vehicles = []*model.Vehicle{v1, v2}

	r := NewRunner(b, TickConfig{Tick: 15 * time.Minute, ManageCap: 90 * time.Minute})
	row, _, err := r.RunTick(day(8, 0), 0)
	require.NoError(t, err)
	require.True(t, row.UnmetDemand)
}

func TestRunTickPriorityEmitsPriorityRow(t *testing.T) {
	v := vehicleFIFO("v1", 0, 10)
	b := buildingWithPower(28, 7)
	b.Name = "site"
	b.Policy = model.PolicyPriority
	b.Vehicles = []*model.Vehicle{v}

	r := NewRunner(b, TickConfig{Tick: 15 * time.Minute, ManageCap: 90 * time.Minute})
	_, prow, err := r.RunTick(day(8, 0), 0)
	require.NoError(t, err)
	require.NotNil(t, prow)
	require.Len(t, prow.Priorities, 1)
}

func TestRunTickDrivingVehicleIsRemovedFromQueuesAndDischarges(t *testing.T) {
	rng := randsrc.New(1)
	plan, err := model.NewTripPlan(rng, day(0, 0), day(23, 45), 1, 15*time.Minute, 90*time.Minute)
	require.NoError(t, err)

	v := vehicleFIFO("v1", 20, 50)
	v.Efficiency = 5
	v.AvgSpeedKmh = 60
	v.Trips = plan
	v.Present = true

	b := buildingWithPower(28, 7)
	b.Name = "site"
	b.Policy = model.PolicyFIFO
	b.Vehicles = []*model.Vehicle{v}
	b.Waiting = []*model.Vehicle{v}

	trip := plan.Current()
	r := NewRunner(b, TickConfig{Tick: 15 * time.Minute, ManageCap: 90 * time.Minute})
	_, _, err = r.RunTick(trip.Departure, 0)
	require.NoError(t, err)

	require.False(t, v.Present)
	require.NotContains(t, b.Waiting, v)
	require.Less(t, v.Battery, 20.0)
}

func TestRunTickHighDemandSkipHoldsBackSatisfiedVehicles(t *testing.T) {
	// the vehicle is present and not full, but its battery ratio already
	// covers its day-total need, so admission is skipped during the
	// high-demand window.
	v := vehicleFIFO("v1", 40, 50)
	v.HighDemandSlack = 0 // day total need defaults to 0 with no trips

	b := buildingWithPower(28, 7)
	b.Name = "site"
	b.Policy = model.PolicyFIFO
	b.Vehicles = []*model.Vehicle{v}

	r := NewRunner(b, TickConfig{
		Tick: 15 * time.Minute, ManageCap: 90 * time.Minute,
		HighDemandSkip: true, HighDemandStartMin: 0, HighDemandEndMin: 24 * 60,
	})
	_, _, err := r.RunTick(day(8, 0), 0)
	require.NoError(t, err)
	require.Empty(t, b.Charging)
}

func TestCheckInvariantsCatchesCapacityExceeded(t *testing.T) {
	v1 := vehicleFIFO("v1", 0, 50)
	v2 := vehicleFIFO("v2", 0, 50)
	b := &model.Building{Name: "site", Charging: []*model.Vehicle{v1, v2}}
	r := &Runner{Building: b}
	err := r.checkInvariants(1)
	require.Error(t, err)
}

func TestCheckInvariantsCatchesWaitingChargingOverlap(t *testing.T) {
	v1 := vehicleFIFO("v1", 0, 50)
	b := &model.Building{Name: "site", Waiting: []*model.Vehicle{v1}, Charging: []*model.Vehicle{v1}}
	r := &Runner{Building: b}
	err := r.checkInvariants(5)
	require.Error(t, err)
}

func TestCheckInvariantsCatchesAbsentVehicleInQueue(t *testing.T) {
	v1 := vehicleFIFO("v1", 0, 50)
	v1.Present = false
	b := &model.Building{Name: "site", Waiting: []*model.Vehicle{v1}}
	r := &Runner{Building: b}
	err := r.checkInvariants(5)
	require.Error(t, err)
}

func day(h, m int) time.Time {
	return time.Date(2024, 1, 1, h, m, 0, 0, time.UTC)
}
