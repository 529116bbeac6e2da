package model

import "math"

// FaultWindow reduces a building's declared and charger power for the
// minutes-since-midnight interval [StartMin, EndMin), wrapping across
// midnight when StartMin > EndMin. A zero-value FaultWindow (StartMin ==
// EndMin, or Enabled false) never applies.
type FaultWindow struct {
	Enabled         bool
	StartMin        int
	EndMin          int
	ReductionPercent float64 // declared power is scaled to this percent of baseline
}

func (f FaultWindow) active(tMins int) bool {
	if !f.Enabled || f.StartMin == f.EndMin {
		return false
	}
	if f.StartMin < f.EndMin {
		return tMins >= f.StartMin && tMins < f.EndMin
	}
	return tMins >= f.StartMin || tMins < f.EndMin
}

// PowerModel computes the power a building has available to its chargers
// for a given tick, and how many vehicles that power can serve at once.
type PowerModel struct {
	DeclaredPower   float64 // kW, nameplate baseline
	ChargerPower    float64 // kW, per-charger baseline
	MinChargerPower float64 // kW, per-charger power while the fault window is active
	ScalePercent    float64 // e.g. 100 = no derate
	LimitChargers   bool
	MaxChargers     int
	Fault           FaultWindow
}

// chargerPowerAt returns the per-charger power in effect at tMins,
// substituting MinChargerPower while the fault window is active.
func (pm PowerModel) chargerPowerAt(tMins int) float64 {
	if pm.Fault.active(tMins) {
		return pm.MinChargerPower
	}
	return pm.ChargerPower
}

// AvailablePower returns the power the building can draw after the fault
// window (if active), background consumption (0-100, already spent
// elsewhere), and the configured scale factor.
func (pm PowerModel) AvailablePower(tMins int, consumptionPercent float64) float64 {
	declared := pm.DeclaredPower
	if pm.Fault.active(tMins) {
		declared = pm.DeclaredPower * pm.Fault.ReductionPercent / 100
	}
	availFrac := (1 - consumptionPercent/100) * (pm.ScalePercent / 100)
	avail := declared * availFrac
	if avail < 0 {
		return 0
	}
	return avail
}

// Capacity returns how many vehicles can charge simultaneously given the
// available power and the per-charger power in effect, capped by
// MaxChargers when LimitChargers is set.
func (pm PowerModel) Capacity(tMins int, consumptionPercent float64) int {
	chargerPower := pm.chargerPowerAt(tMins)
	if chargerPower <= 0 {
		return 0
	}
	avail := pm.AvailablePower(tMins, consumptionPercent)
	n := int(math.Floor(avail / chargerPower))
	if n < 0 {
		n = 0
	}
	if pm.LimitChargers && n > pm.MaxChargers {
		n = pm.MaxChargers
	}
	return n
}

// ChargerPowerCurrent returns the per-charger power in effect at tMins, the
// value a Building records as charger_power_current for the tick.
func (pm PowerModel) ChargerPowerCurrent(tMins int) float64 {
	return pm.chargerPowerAt(tMins)
}
