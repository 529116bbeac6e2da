package scheduler

import (
	"time"

	"evcharge/internal/model"
)

// RoundRobin ignores Waiting entirely; each tick it walks the building's
// vehicle list circularly from where it last left off and fills Charging
// fresh, so every present, not-full vehicle gets a turn over time.
type RoundRobin struct{}

func (RoundRobin) Kind() model.PolicyKind { return model.PolicyRoundRobin }

func (RoundRobin) Admit(b *model.Building, v *model.Vehicle, manageCap time.Duration) {}

func (RoundRobin) RefillCharging(b *model.Building, capacity int, manageCap time.Duration) {
	n := len(b.Vehicles)
	if n == 0 || capacity <= 0 {
		return
	}
	start := (b.LastServedIndex + 1) % n
	for visited := 0; visited < n && len(b.Charging) < capacity; visited++ {
		i := (start + visited) % n
		v := b.Vehicles[i]
		if !v.Present || v.Full() {
			continue
		}
		if !contains(b.Charging, v) {
			b.Charging = append(b.Charging, v)
		}
		b.LastServedIndex = i
	}
}

// Evict empties Charging entirely; the next tick's RefillCharging performs
// the rotation from scratch.
func (RoundRobin) Evict(b *model.Building, capacity int) {
	b.Charging = b.Charging[:0]
}
