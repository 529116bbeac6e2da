package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildingCloneDeepCopiesQueuesAndRelinks(t *testing.T) {
	v1 := newVehicle(50, 40, 5, 60, nil)
	v1.Name = "v1"
	v2 := newVehicle(50, 10, 5, 60, nil)
	v2.Name = "v2"

	b := &Building{
		Name:     "site-a",
		Policy:   PolicyFIFO,
		Power:    PowerModel{DeclaredPower: 100, ChargerPower: 7, ScalePercent: 100},
		Vehicles: []*Vehicle{v1, v2},
		Waiting:  []*Vehicle{v2},
		Charging: []*Vehicle{v1},
	}

	clone := b.Clone()

	require.Len(t, clone.Vehicles, 2)
	require.NotSame(t, b.Vehicles[0], clone.Vehicles[0])
	require.NotSame(t, b.Vehicles[1], clone.Vehicles[1])

	// queues must point at the CLONED vehicles, not the originals.
	require.Same(t, clone.Vehicles[0], clone.Charging[0])
	require.Same(t, clone.Vehicles[1], clone.Waiting[0])

	clone.Vehicles[0].Battery = 0
	require.Equal(t, 40.0, b.Vehicles[0].Battery, "mutating the clone must not affect the original")
}

func TestUpdatePowerSetsAvailablePowerAndChargerPower(t *testing.T) {
	b := &Building{
		Power: PowerModel{DeclaredPower: 1000, ChargerPower: 10, ScalePercent: 100},
	}
	b.UpdatePower(600, 20)
	require.InDelta(t, 800, b.AvailablePower, 1e-9)
	require.Equal(t, 10.0, b.ChargerPowerCurrent)
}

func TestResetTickAccumulatorsClearsPowerUsed(t *testing.T) {
	b := &Building{PowerUsedByChargers: 42}
	b.ResetTickAccumulators()
	require.Equal(t, 0.0, b.PowerUsedByChargers)
}

func TestCapacityDelegatesToPowerModel(t *testing.T) {
	b := &Building{Power: PowerModel{DeclaredPower: 70, ChargerPower: 7, ScalePercent: 100}}
	require.Equal(t, 10, b.Capacity(600, 0))
}
