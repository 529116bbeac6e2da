package model

import (
	"fmt"
	"sort"
	"time"

	"evcharge/internal/randsrc"
	"evcharge/internal/simerr"
)

// Trip is one departure/arrival pair within a simulated day.
type Trip struct {
	Departure time.Time
	Arrival   time.Time
}

// TripPlan is a vehicle's ordered, non-overlapping trips for the day, with a
// cursor into the next trip to use.
type TripPlan struct {
	trips     []Trip
	cursor    int
	manageCap time.Duration
}

// NewTripPlan draws 2*k distinct tick-aligned slots from [desde, hasta],
// sorts them, and pairs them into (departure, arrival) trips.
func NewTripPlan(rng *randsrc.Source, desde, hasta time.Time, k int, tick, manageCap time.Duration) (*TripPlan, error) {
	if k <= 0 {
		return &TripPlan{manageCap: manageCap}, nil
	}
	slots := int(hasta.Sub(desde) / tick)
	if 2*k > slots+1 {
		return nil, simerr.Config("TRIP_COUNT_TOO_LARGE_FOR_WINDOW",
			fmt.Sprintf("2*%d trips requested but window only has %d slots", k, slots+1), nil)
	}

	picked := rng.SampleWithoutReplacement(slots+1, 2*k)
	sort.Ints(picked)

	trips := make([]Trip, k)
	for i := 0; i < k; i++ {
		dep := desde.Add(time.Duration(picked[2*i]) * tick)
		arr := desde.Add(time.Duration(picked[2*i+1]) * tick)
		trips[i] = Trip{Departure: dep, Arrival: arr}
	}

	return &TripPlan{trips: trips, manageCap: manageCap}, nil
}

// Len reports the number of trips in the plan.
func (tp *TripPlan) Len() int { return len(tp.trips) }

// Cursor returns the index of the next trip to consult.
func (tp *TripPlan) Cursor() int { return tp.cursor }

// Current returns the trip currently under the cursor.
func (tp *TripPlan) Current() Trip { return tp.trips[tp.cursor] }

// Advance moves the cursor to the next trip, wrapping modulo the trip count.
func (tp *TripPlan) Advance() {
	if len(tp.trips) == 0 {
		return
	}
	tp.cursor = (tp.cursor + 1) % len(tp.trips)
}

// IsDriving reports whether t falls within the current trip's driving
// window. Long trips (duration > manageCap) get a tick of grace at both
// ends: the vehicle is NOT considered driving during the symmetric middle
// interval [departure+manageCap/2, arrival-manageCap/2]. This is the only
// grace form implemented; a second, stepped variant appeared in the source
// material and was discarded in favor of this one.
func (tp *TripPlan) IsDriving(t time.Time) bool {
	if len(tp.trips) == 0 {
		return false
	}
	trip := tp.trips[tp.cursor]
	if t.Before(trip.Departure) || t.After(trip.Arrival) {
		return false
	}
	duration := trip.Arrival.Sub(trip.Departure)
	if duration <= tp.manageCap {
		return true
	}
	graceStart := trip.Departure.Add(tp.manageCap / 2)
	graceEnd := trip.Arrival.Add(-tp.manageCap / 2)
	if !t.Before(graceStart) && !t.After(graceEnd) {
		return false
	}
	return true
}

// RemainingTrips returns the trips from the cursor to the end of the day,
// used to compute the day's total remaining energy need.
func (tp *TripPlan) RemainingTrips() []Trip {
	if tp.cursor >= len(tp.trips) {
		return nil
	}
	return tp.trips[tp.cursor:]
}

// AllTrips returns every trip in the plan, regardless of cursor.
func (tp *TripPlan) AllTrips() []Trip {
	return tp.trips
}

// Clone returns a deep copy, used to build per-policy building clones that
// see identical trip plans without further RNG draws.
func (tp *TripPlan) Clone() *TripPlan {
	out := &TripPlan{
		trips:     make([]Trip, len(tp.trips)),
		cursor:    tp.cursor,
		manageCap: tp.manageCap,
	}
	copy(out.trips, tp.trips)
	return out
}
