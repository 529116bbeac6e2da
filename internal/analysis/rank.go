// Package analysis ranks a completed run's policies against one another,
// the admission-control counterpart of the ancestor's price-arbitrage
// oracle-profit ranking (see DESIGN.md for why that DP itself was dropped
// rather than adapted: this domain has no price signal to rank against).
package analysis

import (
	"sort"

	"evcharge/internal/driver"
)

// Ranked is one building/policy's scored position in the comparison.
type Ranked struct {
	Building         string
	Policy           string
	Rank             int
	UnmetDemandTicks int
	MeanBatteryRatio float64
	EnergyDelivered  float64
}

// RankByUnmetDemand groups summaries by building and, within each building,
// orders its policies by unmet-demand ticks ascending, ties broken by mean
// battery ratio descending.
func RankByUnmetDemand(summaries []driver.BuildingSummary) map[string][]Ranked {
	byBuilding := make(map[string][]driver.BuildingSummary)
	for _, s := range summaries {
		byBuilding[s.Building] = append(byBuilding[s.Building], s)
	}

	out := make(map[string][]Ranked, len(byBuilding))
	for building, group := range byBuilding {
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].UnmetDemandTicks != group[j].UnmetDemandTicks {
				return group[i].UnmetDemandTicks < group[j].UnmetDemandTicks
			}
			return group[i].MeanBatteryRatio > group[j].MeanBatteryRatio
		})

		ranked := make([]Ranked, len(group))
		for i, s := range group {
			ranked[i] = Ranked{
				Building:         s.Building,
				Policy:           string(s.Policy),
				Rank:             i + 1,
				UnmetDemandTicks: s.UnmetDemandTicks,
				MeanBatteryRatio: s.MeanBatteryRatio,
				EnergyDelivered:  s.EnergyDelivered,
			}
		}
		out[building] = ranked
	}
	return out
}
