package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"evcharge/internal/model"
)

func vehicleFIFO(name string, battery, max float64) *model.Vehicle {
	return &model.Vehicle{Name: name, Battery: battery, MaxBattery: max, Present: true}
}

func TestFIFOAdmitAppendsOnceToWaiting(t *testing.T) {
	p := FIFO{}
	b := &model.Building{}
	v := vehicleFIFO("v1", 10, 50)

	p.Admit(b, v, 90*time.Minute)
	p.Admit(b, v, 90*time.Minute)

	require.Len(t, b.Waiting, 1)
}

func TestFIFOAdmitSkipsVehicleAlreadyCharging(t *testing.T) {
	p := FIFO{}
	v := vehicleFIFO("v1", 10, 50)
	b := &model.Building{Charging: []*model.Vehicle{v}}

	p.Admit(b, v, 90*time.Minute)
	require.Empty(t, b.Waiting)
}

func TestFIFORefillChargingDrainsHeadInOrder(t *testing.T) {
	p := FIFO{}
	v1 := vehicleFIFO("v1", 10, 50)
	v2 := vehicleFIFO("v2", 10, 50)
	v3 := vehicleFIFO("v3", 10, 50)
	b := &model.Building{Waiting: []*model.Vehicle{v1, v2, v3}}

	p.RefillCharging(b, 2, 90*time.Minute)

	require.Equal(t, []*model.Vehicle{v1, v2}, b.Charging)
	require.Equal(t, []*model.Vehicle{v3}, b.Waiting)
}

func TestFIFOEvictDropsFullVehicles(t *testing.T) {
	p := FIFO{}
	full := vehicleFIFO("full", 50, 50)
	notFull := vehicleFIFO("partial", 10, 50)
	b := &model.Building{Charging: []*model.Vehicle{full, notFull}}

	p.Evict(b, 10)

	require.Equal(t, []*model.Vehicle{notFull}, b.Charging)
}

func TestFIFOEvictTruncatesToShrunkCapacityKeepingEarliestPrefix(t *testing.T) {
	p := FIFO{}
	v1 := vehicleFIFO("v1", 10, 50)
	v2 := vehicleFIFO("v2", 10, 50)
	v3 := vehicleFIFO("v3", 10, 50)
	b := &model.Building{Charging: []*model.Vehicle{v1, v2, v3}}

	p.Evict(b, 1)

	require.Equal(t, []*model.Vehicle{v1}, b.Charging)
}
