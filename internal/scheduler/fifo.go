package scheduler

import (
	"time"

	"evcharge/internal/model"
)

// FIFO appends present vehicles to Waiting and drains the head into
// Charging; it never evicts a not-yet-full vehicle while capacity permits.
type FIFO struct{}

func (FIFO) Kind() model.PolicyKind { return model.PolicyFIFO }

func (FIFO) Admit(b *model.Building, v *model.Vehicle, manageCap time.Duration) {
	if contains(b.Waiting, v) || contains(b.Charging, v) {
		return
	}
	b.Waiting = append(b.Waiting, v)
}

func (FIFO) RefillCharging(b *model.Building, capacity int, manageCap time.Duration) {
	for len(b.Waiting) > 0 && len(b.Charging) < capacity {
		head := b.Waiting[0]
		b.Waiting = b.Waiting[1:]
		b.Charging = append(b.Charging, head)
	}
}

// Evict drops vehicles that became full this tick, then truncates Charging
// to capacity keeping the earliest-admitted prefix. Within RunTick the
// truncation is already done before anyone charges, so here it only takes
// effect when Evict is called on its own.
func (FIFO) Evict(b *model.Building, capacity int) {
	kept := b.Charging[:0]
	for _, v := range b.Charging {
		if !v.Full() {
			kept = append(kept, v)
		}
	}
	if len(kept) > capacity {
		kept = kept[:capacity]
	}
	b.Charging = kept
}
