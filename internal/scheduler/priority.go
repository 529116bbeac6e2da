package scheduler

import (
	"sort"
	"time"

	"evcharge/internal/model"
)

// Priority ("Intelligent") sorts Waiting by urgency before each drain so the
// most urgent vehicles are promoted first, and empties Charging every tick
// so re-selection always starts from the fresh order.
type Priority struct{}

func (Priority) Kind() model.PolicyKind { return model.PolicyPriority }

func (Priority) Admit(b *model.Building, v *model.Vehicle, manageCap time.Duration) {
	if contains(b.Waiting, v) || contains(b.Charging, v) {
		return
	}
	b.Waiting = append(b.Waiting, v)
	sortByPriority(b.Waiting, manageCap)
}

func sortByPriority(vs []*model.Vehicle, manageCap time.Duration) {
	sort.SliceStable(vs, func(i, j int) bool {
		return vs[i].Priority(manageCap) > vs[j].Priority(manageCap)
	})
}

// RefillCharging re-sorts Waiting by urgency (batteries may have changed
// since the vehicles were admitted), then drains its head into Charging.
func (Priority) RefillCharging(b *model.Building, capacity int, manageCap time.Duration) {
	sortByPriority(b.Waiting, manageCap)
	for len(b.Waiting) > 0 && len(b.Charging) < capacity {
		head := b.Waiting[0]
		b.Waiting = b.Waiting[1:]
		b.Charging = append(b.Charging, head)
	}
}

// Evict empties Charging entirely; the next tick re-selects from Waiting,
// which RefillCharging re-sorts before draining it.
func (Priority) Evict(b *model.Building, capacity int) {
	b.Charging = b.Charging[:0]
}
