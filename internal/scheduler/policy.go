// Package scheduler implements the per-building charge scheduler: the
// common tick driver plus the three admission/eviction policy variants
// (FIFO, Round-Robin, Priority) that plug into it.
package scheduler

import (
	"time"

	"evcharge/internal/model"
)

// Policy is the admission/eviction behavior a Building runs under. The
// three variants differ only in these three methods; the tick order itself
// is identical and lives in Runner (engine.go).
type Policy interface {
	Kind() model.PolicyKind

	// Admit offers a present, not-full vehicle to the policy's waiting
	// mechanism. FIFO and Priority append to Waiting; RoundRobin is a no-op.
	// manageCap is needed by Priority to rank by Vehicle.Priority().
	Admit(b *model.Building, v *model.Vehicle, manageCap time.Duration)

	// RefillCharging drains Waiting (or, for RoundRobin, walks Vehicles)
	// into Charging until capacity is reached or no further admits are
	// possible. manageCap is needed by Priority to re-sort Waiting by
	// Vehicle.Priority() once before draining it.
	RefillCharging(b *model.Building, capacity int, manageCap time.Duration)

	// Evict removes vehicles from Charging per the policy's rule.
	Evict(b *model.Building, capacity int)
}

func indexOf(vs []*model.Vehicle, v *model.Vehicle) int {
	for i, x := range vs {
		if x == v {
			return i
		}
	}
	return -1
}

func contains(vs []*model.Vehicle, v *model.Vehicle) bool {
	return indexOf(vs, v) >= 0
}

func removeAt(vs []*model.Vehicle, i int) []*model.Vehicle {
	return append(vs[:i], vs[i+1:]...)
}

// removeVehicle removes v from vs if present, returning the possibly
// shortened slice.
func removeVehicle(vs []*model.Vehicle, v *model.Vehicle) []*model.Vehicle {
	if i := indexOf(vs, v); i >= 0 {
		return removeAt(vs, i)
	}
	return vs
}

// New constructs the Policy for kind.
func New(kind model.PolicyKind) Policy {
	switch kind {
	case model.PolicyRoundRobin:
		return &RoundRobin{}
	case model.PolicyPriority:
		return &Priority{}
	default:
		return &FIFO{}
	}
}
