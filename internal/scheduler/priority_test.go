package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"evcharge/internal/model"
)

func TestPriorityAdmitSortsDescendingByUrgency(t *testing.T) {
	p := Priority{}
	b := &model.Building{}

	urgent := vehicleFIFO("urgent", 5, 50)    // low battery, more urgent
	relaxed := vehicleFIFO("relaxed", 45, 50) // high battery, less urgent

	p.Admit(b, relaxed, 90*time.Minute)
	p.Admit(b, urgent, 90*time.Minute)

	require.Equal(t, "urgent", b.Waiting[0].Name)
	require.Equal(t, "relaxed", b.Waiting[1].Name)
}

func TestPriorityAdmitSkipsDuplicate(t *testing.T) {
	p := Priority{}
	b := &model.Building{}
	v := vehicleFIFO("v1", 10, 50)
	p.Admit(b, v, 90*time.Minute)
	p.Admit(b, v, 90*time.Minute)
	require.Len(t, b.Waiting, 1)
}

func TestPriorityRefillDrainsHeadOfSortedWaiting(t *testing.T) {
	p := Priority{}
	v1 := vehicleFIFO("v1", 10, 50)
	v2 := vehicleFIFO("v2", 10, 50)
	b := &model.Building{Waiting: []*model.Vehicle{v1, v2}}

	p.RefillCharging(b, 1, 90*time.Minute)

	require.Equal(t, []*model.Vehicle{v1}, b.Charging)
	require.Equal(t, []*model.Vehicle{v2}, b.Waiting)
}

func TestPriorityEvictEmptiesChargingEveryTick(t *testing.T) {
	p := Priority{}
	v1 := vehicleFIFO("v1", 10, 50)
	b := &model.Building{Charging: []*model.Vehicle{v1}}
	p.Evict(b, 5)
	require.Empty(t, b.Charging)
}
